package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/reports"
	"github.com/danielgtaylor/huma/v2"
)

type reportsHandler struct {
	svc ReportsService
	log *slog.Logger
}

func newReportsHandler(svc ReportsService, log *slog.Logger) *reportsHandler {
	return &reportsHandler{svc: svc, log: log}
}

type reportsOutput struct {
	Body reports.ReportsState
}

type selectionInput struct {
	Body struct {
		// EmployeeID narrows the list; "" selects every employee and an
		// absent field keeps the current selection.
		EmployeeID *string `json:"employee_id,omitempty"`
		Filter     string  `json:"filter,omitempty" enum:"ALL,TODAY,THIS_WEEK,THIS_MONTH"`
	}
}

func (h *reportsHandler) SetupRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "reports-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/reports",
		Summary:     "Current report state",
		Tags:        []string{"reports"},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "reports-refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/reports/refresh",
		Summary:     "Reload attendance records",
		Tags:        []string{"reports"},
	}, h.refresh)

	huma.Register(api, huma.Operation{
		OperationID: "reports-select",
		Method:      http.MethodPut,
		Path:        "/api/v1/reports/selection",
		Summary:     "Change employee and date filter",
		Tags:        []string{"reports"},
	}, h.selection)

	huma.Register(api, huma.Operation{
		OperationID:   "reports-clear-error",
		Method:        http.MethodDelete,
		Path:          "/api/v1/reports/error",
		Summary:       "Acknowledge the current error",
		Tags:          []string{"reports"},
		DefaultStatus: http.StatusNoContent,
	}, h.clearError)
}

func (h *reportsHandler) get(_ context.Context, _ *struct{}) (*reportsOutput, error) {
	return &reportsOutput{Body: h.svc.State()}, nil
}

func (h *reportsHandler) refresh(ctx context.Context, _ *struct{}) (*reportsOutput, error) {
	err := h.svc.Refresh(ctx)
	switch {
	case err == nil:
		return &reportsOutput{Body: h.svc.State()}, nil
	case errors.Is(err, reports.ErrNotConfigured):
		return nil, huma.Error409Conflict(reports.MsgNotConfigured)
	case errors.Is(err, context.Canceled):
		return nil, err
	default:
		h.log.WarnContext(ctx, "refresh failed", "error", err)
		return nil, huma.Error502BadGateway(err.Error())
	}
}

func (h *reportsHandler) selection(_ context.Context, in *selectionInput) (*reportsOutput, error) {
	if in.Body.Filter != "" {
		bucket, err := filter.ParseDateBucket(in.Body.Filter)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.svc.SelectDateFilter(bucket)
	}
	if in.Body.EmployeeID != nil {
		if *in.Body.EmployeeID == "" {
			h.svc.SelectEmployee(nil)
		} else {
			h.svc.SelectEmployee(in.Body.EmployeeID)
		}
	}
	return &reportsOutput{Body: h.svc.State()}, nil
}

func (h *reportsHandler) clearError(_ context.Context, _ *struct{}) (*struct{}, error) {
	h.svc.ClearError()
	return nil, nil
}
