package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/reports"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "anon-key-1234"

const attendanceJSON = `[
  {"id":3,"employee_id":"E2","punch_in_time":"2024-06-05T10:00:00","punch_out_time":null,"image_url":null,"punch_out_image_url":null,"is_synced":true,"created_at":"2024-06-05T10:00:01"},
  {"id":2,"employee_id":"E1","punch_in_time":"2024-06-05T08:00:00","punch_out_time":"2024-06-05T12:30:00","image_url":"https://img/2.jpg","punch_out_image_url":null,"is_synced":true,"created_at":"2024-06-05T08:00:01"},
  {"id":1,"employee_id":"E1","punch_in_time":"2024-05-20T08:00:00","punch_out_time":"2024-05-20T16:00:00","image_url":null,"punch_out_image_url":null,"created_at":"2024-05-20T08:00:01"}
]`

var testNow = time.Date(2024, 6, 5, 15, 0, 0, 0, time.UTC)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/attendance", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("apikey") != testKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid API key"}`)
			return
		}
		_, _ = io.WriteString(w, attendanceJSON)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	t      *testing.T
	dbPath string
	envArg string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	dir := t.TempDir()
	return &harness{
		t:      t,
		dbPath: filepath.Join(dir, "settings.db"),
		envArg: "--env-file=" + filepath.Join(dir, "missing.env"),
	}
}

func (h *harness) run(input string, args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--db", h.dbPath, h.envArg, "--log-level", "error"}, args...)
	err := Execute(context.Background(), full,
		WithInput(strings.NewReader(input)),
		WithOutput(&out, &errOut),
		WithClock(func() time.Time { return testNow }),
	)
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, out)
	return out
}

func TestExecute_ReportWithoutSettings(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "report")
	require.ErrorIs(t, err, reports.ErrNotConfigured)

	_, err = h.run("", "employees")
	require.ErrorIs(t, err, reports.ErrNotConfigured)

	out := h.mustRun("settings", "show")
	assert.Contains(t, out, "URL: (not set)")
	assert.Contains(t, out, "Key: (not set)")
}

func TestExecute_FullFlow(t *testing.T) {
	backend := newBackend(t)
	h := newHarness(t)

	out := h.mustRun("settings", "set", "--url", backend.URL, "--key", testKey, "--test")
	assert.Contains(t, out, "Settings saved")
	assert.Contains(t, out, "Connection successful")

	out = h.mustRun("settings", "show")
	assert.Contains(t, out, "URL: "+backend.URL)
	assert.Contains(t, out, "Key: ********1234")
	assert.NotContains(t, out, testKey)
	assert.Contains(t, out, "Key format: opaque")

	out = h.mustRun("report", "--format", "json")
	var recs []models.AttendanceRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 3)
	assert.True(t, recs[2].IsSynced, "missing is_synced defaults to true")

	out = h.mustRun("report", "--employee", "E1", "--filter", "today")
	assert.Contains(t, out, "E1")
	assert.NotContains(t, out, "E2")
	assert.Contains(t, out, "4h 30m")
	assert.Contains(t, out, "Total: 1  Employees: 1  Working: 0")

	out = h.mustRun("report", "--filter", "month", "--format", "simple")
	assert.Contains(t, out, "Records found: 2")

	out = h.mustRun("employees")
	assert.Equal(t, "E1\nE2\n", out)

	csvPath := filepath.Join(t.TempDir(), "out.csv")
	out = h.mustRun("export", "--out", csvPath)
	assert.Contains(t, out, "Exported 3 records")
	f, err := os.Open(csvPath)
	require.NoError(t, err)
	rows, err := csv.NewReader(f).ReadAll()
	_ = f.Close()
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	xlsxPath := filepath.Join(t.TempDir(), "out.xlsx")
	h.mustRun("export", "--out", xlsxPath, "--employee", "E2")
	info, err := os.Stat(xlsxPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	out = h.mustRun("settings", "clear")
	assert.Contains(t, out, "Settings cleared")

	_, err = h.run("", "report")
	require.ErrorIs(t, err, reports.ErrNotConfigured)
}

func TestExecute_SettingsTestWrongKey(t *testing.T) {
	backend := newBackend(t)
	h := newHarness(t)

	h.mustRun("settings", "set", "--url", backend.URL, "--key", "wrong")

	_, err := h.run("", "settings", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")

	out := h.mustRun("settings", "test", "--key", testKey)
	assert.Contains(t, out, "Connection successful")

	_, err = h.run("", "report")
	require.Error(t, err, "test with --key does not save")
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestExecute_SettingsTestMissingFields(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "settings", "test")
	require.Error(t, err)
	assert.Equal(t, reports.MsgMissingFields, err.Error())
}

func TestExecute_SettingsSetPrompts(t *testing.T) {
	old := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = old })

	backend := newBackend(t)
	h := newHarness(t)

	out, err := h.run(backend.URL+"\n  "+testKey+"  \n", "settings", "set")
	require.NoError(t, err)
	assert.Contains(t, out, "Supabase URL")
	assert.Contains(t, out, "Settings saved")

	out = h.mustRun("employees", "--json")
	assert.JSONEq(t, `["E1","E2"]`, out)
}

func TestExecute_ReportBadFlags(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "report", "--format", "xml")
	assert.ErrorContains(t, err, "xml")

	_, err = h.run("", "report", "--filter", "yesterday")
	assert.ErrorContains(t, err, "yesterday")

	_, err = h.run("", "export", "--out", "x.pdf", "--format", "pdf")
	assert.ErrorContains(t, err, "pdf")
}

func TestExecute_Repl(t *testing.T) {
	lines := capturePrint(t)
	backend := newBackend(t)
	h := newHarness(t)
	h.mustRun("settings", "set", "--url", backend.URL, "--key", testKey)

	out, err := h.run(strings.Join([]string{
		"filter today",
		"employee E2",
		"list",
		"show 2",
		"show 99",
		"employee all",
		"stats",
		"daily",
		"exit",
	}, "\n"), "repl")
	require.NoError(t, err)

	assert.Contains(t, out, "Loaded 3 records for 2 employees (last refresh 15:00:00)")
	assert.Contains(t, out, "Filter: Today, 2 records match")
	assert.Contains(t, out, "Working")
	assert.Contains(t, out, "Punch-in photo:  https://img/2.jpg")
	assert.Contains(t, out, "Total: 2  Employees: 2  Working: 1")
	assert.Contains(t, out, "2024-06-05")
	assert.Contains(t, *lines, "Error: record 99 not found")
	assert.Contains(t, *lines, "Bye!")
}
