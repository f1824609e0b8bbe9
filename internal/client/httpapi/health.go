package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type healthHandler struct {
	log *slog.Logger
}

func newHealthHandler(log *slog.Logger) *healthHandler {
	return &healthHandler{log: log}
}

type healthOutput struct {
	Body struct {
		Status string `json:"status" example:"OK"`
	}
}

func (h *healthHandler) SetupRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Health check",
		Tags:        []string{"health"},
	}, h.health)
}

func (h *healthHandler) health(ctx context.Context, _ *struct{}) (*healthOutput, error) {
	h.log.DebugContext(ctx, "health check request received")
	out := &healthOutput{}
	out.Body.Status = "OK"
	return out, nil
}
