package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/reports"
	"github.com/danielgtaylor/huma/v2"
)

type settingsHandler struct {
	svc     SettingsService
	clearer CredentialClearer
	log     *slog.Logger
}

func newSettingsHandler(svc SettingsService, clearer CredentialClearer, log *slog.Logger) *settingsHandler {
	return &settingsHandler{svc: svc, clearer: clearer, log: log}
}

// settingsView is the form state with the secret key masked.
type settingsView struct {
	Endpoint     string  `json:"url"`
	SecretKey    string  `json:"key"`
	Configured   bool    `json:"configured"`
	SaveSuccess  bool    `json:"save_success"`
	TestSuccess  *bool   `json:"test_success"`
	ErrorMessage *string `json:"error_message"`
}

func viewOf(s reports.SettingsState) settingsView {
	creds := models.Credentials{Endpoint: s.Endpoint, SecretKey: s.SecretKey}
	return settingsView{
		Endpoint:     s.Endpoint,
		SecretKey:    creds.Masked(),
		Configured:   creds.IsComplete(),
		SaveSuccess:  s.SaveSuccess,
		TestSuccess:  s.TestSuccess,
		ErrorMessage: s.ErrorMessage,
	}
}

type settingsOutput struct {
	Body settingsView
}

type saveInput struct {
	Body struct {
		Endpoint  string `json:"url" minLength:"1" doc:"Backend base URL"`
		SecretKey string `json:"key" minLength:"1" doc:"Backend API key"`
	}
}

type testInput struct {
	Body *struct {
		Endpoint  string `json:"url,omitempty"`
		SecretKey string `json:"key,omitempty"`
	} `required:"false"`
}

type testOutput struct {
	Body struct {
		Success bool    `json:"success"`
		Message *string `json:"message,omitempty"`
	}
}

func (h *settingsHandler) SetupRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "settings-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Current settings (key masked)",
		Tags:        []string{"settings"},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "settings-save",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings",
		Summary:     "Save backend credentials",
		Tags:        []string{"settings"},
	}, h.save)

	huma.Register(api, huma.Operation{
		OperationID: "settings-test",
		Method:      http.MethodPost,
		Path:        "/api/v1/settings/test",
		Summary:     "Test backend connection",
		Description: "Uses the values in the body when given, otherwise the current form values. Nothing is saved.",
		Tags:        []string{"settings"},
	}, h.test)

	huma.Register(api, huma.Operation{
		OperationID:   "settings-clear",
		Method:        http.MethodDelete,
		Path:          "/api/v1/settings",
		Summary:       "Forget stored credentials",
		Tags:          []string{"settings"},
		DefaultStatus: http.StatusNoContent,
	}, h.clear)
}

func (h *settingsHandler) get(_ context.Context, _ *struct{}) (*settingsOutput, error) {
	return &settingsOutput{Body: viewOf(h.svc.State())}, nil
}

func (h *settingsHandler) save(ctx context.Context, in *saveInput) (*settingsOutput, error) {
	h.svc.UpdateEndpoint(in.Body.Endpoint)
	h.svc.UpdateSecretKey(in.Body.SecretKey)
	if err := h.svc.Save(ctx); err != nil {
		h.log.ErrorContext(ctx, "save settings failed", "error", err)
		return nil, huma.Error500InternalServerError(reports.MsgSaveFailed, err)
	}
	return &settingsOutput{Body: viewOf(h.svc.State())}, nil
}

func (h *settingsHandler) test(ctx context.Context, in *testInput) (*testOutput, error) {
	if in.Body != nil {
		h.svc.UpdateEndpoint(in.Body.Endpoint)
		h.svc.UpdateSecretKey(in.Body.SecretKey)
	}

	ok, err := h.svc.TestConnection(ctx)
	if errors.Is(err, context.Canceled) {
		return nil, err
	}

	out := &testOutput{}
	out.Body.Success = ok
	out.Body.Message = h.svc.State().ErrorMessage
	return out, nil
}

func (h *settingsHandler) clear(ctx context.Context, _ *struct{}) (*struct{}, error) {
	if err := h.clearer.Clear(ctx); err != nil {
		return nil, huma.Error500InternalServerError("clear settings failed", err)
	}
	h.svc.ClearSuccessStates()
	if err := h.svc.Load(ctx); err != nil {
		return nil, huma.Error500InternalServerError("reload settings failed", err)
	}
	return nil, nil
}
