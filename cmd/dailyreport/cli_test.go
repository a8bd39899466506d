package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"docreview-backend/internal/appstate"
	"docreview-backend/internal/backend"
	"docreview-backend/internal/bootstrap"
	"docreview-backend/internal/comparison"
	"docreview-backend/internal/llm"
	"docreview-backend/internal/shared/config"
	"docreview-backend/internal/shared/telemetry"
)

const cannedReport = "• Flooring | 120 sqm | 95 sqm | Impact: High" +
	"• Paint | 2 coats | 1 coat | Impact: Medium"

type cannedLLM struct{ reply string }

func (c cannedLLM) Chat(context.Context, llm.Request) (string, error) { return c.reply, nil }

type harness struct {
	t     *testing.T
	api   string
	state string
	dir   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		Port:               "0",
		CORSAllowOrigin:    []string{"http://localhost:5173"},
		LocalStoreDir:      t.TempDir(),
		Env:                "dev",
		ObjectStoreType:    "local",
		LLMProvider:        "none",
		RateLimitLLMPerMin: 100,
	}
	app, err := bootstrap.BuildWith(cfg, bootstrap.Options{LLM: cannedLLM{reply: cannedReport}})
	require.NoError(t, err)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { telemetry.SetLogger(nil) })

	dir := t.TempDir()
	return &harness{t: t, api: srv.URL + "/api", state: filepath.Join(dir, "state.yaml"), dir: dir}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--api-url", h.api, "--state", h.state, "--plain"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) file(name, content string) string {
	h.t.Helper()
	p := filepath.Join(h.dir, name)
	require.NoError(h.t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func (h *harness) store() *appstate.Store {
	h.t.Helper()
	st, err := appstate.Load(h.state)
	require.NoError(h.t, err)
	return st
}

func TestUploadSelectsAndFinalLocksSelection(t *testing.T) {
	h := newHarness(t)

	h.mustRun("upload", "tower", h.file("sow.txt", "Flooring 120 sqm"))
	h.mustRun("upload", "tower", h.file("plan.txt", "Paint 2 coats"))
	require.Equal(t, []string{"sow.txt", "plan.txt"}, h.store().SelectedFiles("tower"))
	require.Equal(t, "tower", h.store().SelectedProject())

	h.mustRun("final", "set", "tower", "sow.txt")
	require.Equal(t, []string{"sow.txt"}, h.store().SelectedFiles("tower"))

	out := h.mustRun("select", "tower", "plan.txt")
	require.Contains(t, out, "locked")
	require.Equal(t, []string{"sow.txt"}, h.store().SelectedFiles("tower"))

	out = h.mustRun("final", "toggle", "tower", "sow.txt")
	require.Contains(t, out, "cleared")
	require.Empty(t, h.store().SelectedFiles("tower"))

	out = h.mustRun("select", "tower", "plan.txt")
	require.Contains(t, out, "Selected: plan.txt")
}

func TestFilesMarksFinalAndListsDailyReports(t *testing.T) {
	h := newHarness(t)
	h.mustRun("upload", "tower", h.file("sow.txt", "Flooring 120 sqm"))
	h.mustRun("upload", "--daily", "tower", h.file("day1.txt", "Flooring 95 sqm"))
	h.mustRun("final", "set", "tower", "sow.txt")

	out := h.mustRun("files", "tower")
	require.Contains(t, out, "* sow.txt")
	require.Contains(t, out, "day1.txt")

	out = h.mustRun("projects")
	require.Contains(t, out, "> tower")
}

func TestCompareRecordsReport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("upload", "tower", h.file("sow.txt", "Flooring 120 sqm"))
	h.mustRun("upload", "--daily", "tower", h.file("day1.txt", "Flooring 95 sqm"))
	h.mustRun("final", "set", "tower", "sow.txt")
	h.mustRun("progress", "tower", "2026-03-02", "35")

	out := h.mustRun("compare", "--file", "day1.txt", "--start-date", "2026-03-01")
	require.Contains(t, out, "High: 1  Medium: 1  Low: 0  (total 2)")
	require.Contains(t, out, "Flooring")
	require.Contains(t, out, "2026-03-02")

	report, ok := h.store().LastReport("tower")
	require.True(t, ok)
	require.Equal(t, cannedReport, report.Raw)
	require.Equal(t, "day1.txt", report.CandidateFile)
	require.Equal(t, "sow.txt", report.FinalFile)
}

func TestCompareRequiresSelection(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("compare", "--project", "tower", "--start-date", "2026-03-01")
	require.Error(t, err)
	require.Equal(t, comparison.MsgSelectionRequired, err.Error())
}

func TestFinalizeSyncsBothWays(t *testing.T) {
	h := newHarness(t)
	h.mustRun("upload", "tower", h.file("sow.txt", "Flooring 120 sqm"))
	h.mustRun("final", "set", "tower", "sow.txt")
	h.mustRun("finalize", "tower")

	client := backend.New(h.api, nil)
	final, ok, err := client.Final(context.Background(), "tower")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "sow.txt", final)

	h.state = filepath.Join(h.dir, "fresh.yaml")
	out := h.mustRun("finalize", "tower")
	require.Contains(t, out, "Adopted")
	require.Equal(t, []string{"sow.txt"}, h.store().SelectedFiles("tower"))
}

func TestDeleteClearsFinal(t *testing.T) {
	h := newHarness(t)
	h.mustRun("upload", "tower", h.file("sow.txt", "Flooring 120 sqm"))
	h.mustRun("final", "set", "tower", "sow.txt")

	out := h.mustRun("delete", "tower", "sow.txt")
	require.Contains(t, out, "Final file cleared")
	require.Empty(t, h.store().SelectedFiles("tower"))

	out = h.mustRun("final", "show", "tower")
	require.Contains(t, out, "No final file")
}

func TestChatPrintsAnswer(t *testing.T) {
	h := newHarness(t)
	h.mustRun("upload", "tower", h.file("sow.txt", "Flooring 120 sqm"))
	out := h.mustRun("chat", "tower", "sow.txt", "how", "much", "flooring?")
	require.Contains(t, out, "Flooring")
}

func TestCompareWithoutProject(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("compare", "--file", "day1.txt", "--start-date", "2026-03-01")
	require.Error(t, err)
	require.Equal(t, comparison.MsgSelectionRequired, err.Error())
}

func TestProgressRejectsNonFiniteValues(t *testing.T) {
	h := newHarness(t)
	for _, v := range []string{"NaN", "Inf", "101", "lots"} {
		_, err := h.run("progress", "tower", "2026-03-02", v)
		require.Error(t, err, v)
		require.Contains(t, err.Error(), "invalid progress")
	}
}
