package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/reports"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/logging"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (humatest.TestAPI, *fakeReports, *fakeSettings, *fakeClearer) {
	t.Helper()
	rep := newFakeReports()
	set := &fakeSettings{}
	clr := &fakeClearer{}

	_, api := humatest.New(t)
	Register(api, Deps{Reports: rep, Settings: set, Clearer: clr, Log: logging.Nop().Slog()})
	return api, rep, set, clr
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestHealth(t *testing.T) {
	api, _, _, _ := newTestAPI(t)

	resp := api.Get("/api/v1/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"OK"}`, strings.TrimSpace(stripSchema(resp.Body.String())))
}

// stripSchema drops the $schema link huma adds to object responses.
func stripSchema(s string) string {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return s
	}
	delete(m, "$schema")
	b, _ := json.Marshal(m)
	return string(b)
}

func TestReports_Get(t *testing.T) {
	api, _, _, _ := newTestAPI(t)

	resp := api.Get("/api/v1/reports")
	require.Equal(t, http.StatusOK, resp.Code)

	st := decode[reports.ReportsState](t, resp.Body.Bytes())
	assert.True(t, st.IsConfigured)
	assert.Equal(t, []string{"E1"}, st.EmployeeIDs)
}

func TestReports_Refresh(t *testing.T) {
	api, rep, _, _ := newTestAPI(t)

	resp := api.Post("/api/v1/reports/refresh")
	require.Equal(t, http.StatusOK, resp.Code)
	st := decode[reports.ReportsState](t, resp.Body.Bytes())
	require.NotNil(t, st.LastRefresh)

	rep.refreshErr = reports.ErrNotConfigured
	resp = api.Post("/api/v1/reports/refresh")
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), reports.MsgNotConfigured)

	rep.refreshErr = errors.New("Unavailable: connection refused")
	resp = api.Post("/api/v1/reports/refresh")
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), "connection refused")
}

func TestReports_Selection(t *testing.T) {
	api, rep, _, _ := newTestAPI(t)

	resp := api.Put("/api/v1/reports/selection", map[string]any{"employee_id": "E1", "filter": "TODAY"})
	require.Equal(t, http.StatusOK, resp.Code)

	st := rep.State()
	assert.Equal(t, filter.Today, st.SelectedDateFilter)
	require.NotNil(t, st.SelectedEmployeeID)
	assert.Equal(t, "E1", *st.SelectedEmployeeID)

	resp = api.Put("/api/v1/reports/selection", map[string]any{"employee_id": ""})
	require.Equal(t, http.StatusOK, resp.Code)
	st = rep.State()
	assert.Nil(t, st.SelectedEmployeeID)
	assert.Equal(t, filter.Today, st.SelectedDateFilter, "absent filter keeps the selection")

	resp = api.Put("/api/v1/reports/selection", map[string]any{"filter": "YESTERDAY"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestReports_ClearError(t *testing.T) {
	api, rep, _, _ := newTestAPI(t)

	resp := api.Delete("/api/v1/reports/error")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, 1, rep.cleared)
}

func TestSettings_GetMasksKey(t *testing.T) {
	api, _, set, _ := newTestAPI(t)
	set.state = reports.SettingsState{Endpoint: "https://p.supabase.co", SecretKey: "abcdefghijklmnop"}

	resp := api.Get("/api/v1/settings")
	require.Equal(t, http.StatusOK, resp.Code)

	v := decode[settingsView](t, resp.Body.Bytes())
	assert.Equal(t, "https://p.supabase.co", v.Endpoint)
	assert.True(t, v.Configured)
	assert.NotContains(t, v.SecretKey, "abcdefghijklmnop")
}

func TestSettings_Save(t *testing.T) {
	api, _, set, _ := newTestAPI(t)

	resp := api.Put("/api/v1/settings", map[string]any{"url": "https://p.supabase.co", "key": "anon"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "https://p.supabase.co", set.state.Endpoint)
	assert.True(t, decode[settingsView](t, resp.Body.Bytes()).SaveSuccess)

	resp = api.Put("/api/v1/settings", map[string]any{"url": "", "key": "anon"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	set.saveErr = errors.New("disk full")
	resp = api.Put("/api/v1/settings", map[string]any{"url": "https://x", "key": "y"})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestSettings_Test(t *testing.T) {
	api, _, set, _ := newTestAPI(t)

	resp := api.Post("/api/v1/settings/test")
	require.Equal(t, http.StatusOK, resp.Code)
	out := decode[struct {
		Success bool    `json:"success"`
		Message *string `json:"message"`
	}](t, resp.Body.Bytes())
	assert.False(t, out.Success)
	require.NotNil(t, out.Message)
	assert.Equal(t, reports.MsgMissingFields, *out.Message)

	set.testOK = true
	set.state.ErrorMessage = nil
	resp = api.Post("/api/v1/settings/test", map[string]any{"url": "https://p", "key": "k"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"success":true`)
}

func TestSettings_Clear(t *testing.T) {
	api, _, set, clr := newTestAPI(t)

	resp := api.Delete("/api/v1/settings")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, 1, clr.calls)
	assert.Equal(t, 1, set.loaded)

	clr.err = errors.New("locked")
	resp = api.Delete("/api/v1/settings")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestRouter_EventsStream(t *testing.T) {
	rep := newFakeReports()
	router := NewRouter(Deps{
		Reports:   rep,
		Settings:  &fakeSettings{},
		Clearer:   &fakeClearer{},
		Keepalive: 20 * time.Millisecond,
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/reports/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	next := func(prefix string) string {
		for sc.Scan() {
			if line := sc.Text(); strings.HasPrefix(line, prefix) {
				return strings.TrimPrefix(line, prefix)
			}
		}
		t.Fatalf("stream ended before %q: %v", prefix, sc.Err())
		return ""
	}

	assert.Equal(t, "state", next("event: "))
	first := decode[reports.ReportsState](t, []byte(next("data: ")))
	assert.Equal(t, []string{"E1"}, first.EmployeeIDs)

	rep.SelectDateFilter(filter.ThisMonth)
	for {
		ev := next("event: ")
		data := next("data: ")
		if ev != "state" {
			continue
		}
		st := decode[reports.ReportsState](t, []byte(data))
		assert.Equal(t, filter.ThisMonth, st.SelectedDateFilter)
		break
	}

	assert.Equal(t, "ping", next("event: "))
}

func TestRouter_HeartbeatAndCORS(t *testing.T) {
	router := NewRouter(Deps{Reports: newFakeReports(), Settings: &fakeSettings{}, Clearer: &fakeClearer{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer("", http.NotFoundHandler(), logging.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestServer_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewServer("127.0.0.1:99999", http.NotFoundHandler(), logging.Nop())
	assert.Error(t, srv.Run(context.Background()))
}
