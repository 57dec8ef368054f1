package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/trmc"
	"github.com/aretw0/trmc/pkg/adapters/memory"
	"github.com/aretw0/trmc/pkg/domain"
	"github.com/aretw0/trmc/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const incrementSource = "}2\n\\3 /<2\nEND\n"

func newTestHandler(t *testing.T, engineOpts ...trmc.Option) (http.Handler, *memory.Store) {
	t.Helper()
	metrics := observability.NewMetrics()
	engineOpts = append(engineOpts, trmc.WithLifecycleHooks(metrics.Hooks()))
	store := memory.NewStore()

	handler, err := NewHandler(trmc.New(engineOpts...),
		WithStore(store),
		WithMetrics(metrics),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return handler, store
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "trmc API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Find("/programs/{id}/run"))
}

func TestRunProgram(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/run", map[string]string{"source": incrementSource, "input": "0111"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decodeBody[domain.Result](t, w)
	assert.Equal(t, "1000", res.Output())
	assert.Equal(t, 0, res.Cursor)
	assert.Equal(t, 5, res.Iterations)
	assert.Equal(t, domain.HaltEnd, res.Reason)
	assert.Contains(t, w.Body.String(), `"tape":"1000"`)
}

func TestRunProgram_BadRequests(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("Malformed Tape", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/run", map[string]string{"source": "END", "input": "01a"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, w).Error, "position 2")
	})

	t.Run("Missing Input Violates Schema", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/run", map[string]string{"source": "END"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody[ErrorResponse](t, w).Error, "RunRequest")
	})

	t.Run("Empty Program", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/run", map[string]string{"source": "// nothing\n", "input": "0"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid Max Steps", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/run?max_steps=0", map[string]string{"source": "END", "input": "0"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, h, http.MethodPost, "/run?max_steps=many", map[string]string{"source": "END", "input": "0"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRunProgram_Aborted(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("Step Limit", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/run?max_steps=10", map[string]string{"source": "!1", "input": "0"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := decodeBody[ErrorResponse](t, w)
		assert.Contains(t, resp.Error, "step limit")
		require.NotNil(t, resp.Result)
		assert.Equal(t, 10, resp.Result.Iterations)
		assert.Equal(t, domain.HaltAborted, resp.Result.Reason)
	})

	t.Run("Invalid Jump", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/run", map[string]string{"source": "!9", "input": "0"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := decodeBody[ErrorResponse](t, w)
		require.NotNil(t, resp.Result)
		assert.Equal(t, "1", resp.Result.Output(), "ops before the bad jump are applied")
	})
}

func TestRunProgram_StrictRejects(t *testing.T) {
	h, _ := newTestHandler(t, trmc.WithStrict(true))

	w := do(t, h, http.MethodPost, "/run", map[string]string{"source": ">x1\nEND", "input": "0"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decodeBody[ErrorResponse](t, w)
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, domain.DiagInvalidCharacter, resp.Diagnostics[0].Kind)
	assert.Nil(t, resp.Result)
}

func TestValidateProgram(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/validate", map[string]string{"source": ">1 <5\nEND\nEND"})
	require.Equal(t, http.StatusOK, w.Code)

	report := decodeBody[ReportResponse](t, w)
	assert.Equal(t, []int{1, 2, 3}, report.States)
	assert.Equal(t, 1, report.Errors)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, domain.DiagInvalidJump, report.Diagnostics[0].Kind)

	clean := do(t, h, http.MethodPost, "/validate", map[string]string{"source": incrementSource})
	assert.Contains(t, clean.Body.String(), `"diagnostics":[]`)
}

func TestGraphProgram(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/graph", map[string]string{"source": incrementSource, "input": "0111"})
	require.Equal(t, http.StatusOK, w.Code)

	graph := decodeBody[map[string]string](t, w)["mermaid"]
	assert.True(t, strings.HasPrefix(graph, "graph TD"))
	assert.Contains(t, graph, "S3")
}

func TestProgramsCRUD(t *testing.T) {
	h, store := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/programs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"programs":[]}`, w.Body.String())

	w = do(t, h, http.MethodPut, "/programs/increment", map[string]string{
		"source":      incrementSource,
		"description": "binary increment",
		"input":       "0111",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stored := decodeBody[StoredResponse](t, w)
	assert.Equal(t, "increment", stored.Program.ID)
	assert.Equal(t, 0, stored.Report.Errors)

	w = do(t, h, http.MethodGet, "/programs/increment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "binary increment", decodeBody[domain.ProgramSource](t, w).Description)

	t.Run("Run With Example Tape", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/programs/increment/run", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "1000", decodeBody[domain.Result](t, w).Output())
	})

	t.Run("Run With Explicit Tape", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/programs/increment/run", map[string]string{"input": "111"})
		require.Equal(t, http.StatusOK, w.Code)
		res := decodeBody[domain.Result](t, w)
		assert.Equal(t, "000", res.Output())
		assert.Equal(t, domain.HaltLeftEdge, res.Reason)
	})

	t.Run("Nested ID Is Path Escaped", func(t *testing.T) {
		w := do(t, h, http.MethodPut, "/programs/math%2Fflip", map[string]string{"source": "!>1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		_, err := store.Load(t.Context(), "math/flip")
		assert.NoError(t, err)
	})

	w = do(t, h, http.MethodDelete, "/programs/increment", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/programs/increment", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/programs/increment/run", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/programs/math%2Fflp", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeBody[ErrorResponse](t, w).Error, "did you mean math/flip?")

	w = do(t, h, http.MethodPut, "/programs/..", map[string]string{"source": "END"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	do(t, h, http.MethodPost, "/run", map[string]string{"source": incrementSource, "input": "0111"})

	w := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `trmc_runs_total{reason="end"} 1`)

	w = do(t, h, http.MethodGet, "/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decodeBody[map[string]string](t, w)
	assert.Equal(t, "trmc-http", info["app"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = do(t, h, http.MethodGet, "/openapi.yaml", nil)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = do(t, h, http.MethodOptions, "/run", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
