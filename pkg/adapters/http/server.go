package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/trmc"
	"github.com/aretw0/trmc/internal/suggest"
	"github.com/aretw0/trmc/pkg/adapters/memory"
	"github.com/aretw0/trmc/pkg/domain"
	"github.com/aretw0/trmc/pkg/observability"
	"github.com/aretw0/trmc/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

//go:embed openapi.yaml
var rawSpec []byte

// GetSwagger parses and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
}

// Server serves the trmc HTTP API.
type Server struct {
	Engine  ports.Interpreter
	Store   ports.ProgramStore
	Metrics *observability.Metrics
	Logger  *slog.Logger

	spec *openapi3.T
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the program store (an empty in-memory store by default).
func WithStore(store ports.ProgramStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithMetrics mounts /metrics and records validation diagnostics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Interpreter, opts ...Option) (http.Handler, error) {
	spec, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	server := &Server{
		Engine: engine,
		spec:   spec,
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Store == nil {
		server.Store = memory.NewStore()
	}
	if server.Logger == nil {
		server.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics.Handler())
	}

	r.Post("/run", server.RunProgram)
	r.Post("/validate", server.ValidateProgram)
	r.Post("/graph", server.GraphProgram)

	r.Route("/programs", func(r chi.Router) {
		r.Get("/", server.ListPrograms)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetProgram)
			r.Put("/", server.PutProgram)
			r.Delete("/", server.DeleteProgram)
			r.Post("/run", server.RunStoredProgram)
		})
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>trmc API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// -- Request and response bodies --

// SourceRequest carries inline program source.
type SourceRequest struct {
	Name   string `json:"name,omitempty"`
	Source string `json:"source"`
	Input  string `json:"input,omitempty"`
}

// TapeRequest carries a tape for a stored program.
type TapeRequest struct {
	Input *string `json:"input,omitempty"`
}

// ProgramInput is the body of PUT /programs/{id}.
type ProgramInput struct {
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
	Input       string `json:"input,omitempty"`
}

// ReportResponse is a validation report with its error count.
type ReportResponse struct {
	States      []int               `json:"states"`
	Errors      int                 `json:"errors"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

// StoredResponse is returned after saving a program.
type StoredResponse struct {
	Program *domain.ProgramSource `json:"program"`
	Report  ReportResponse        `json:"report"`
}

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Error       string              `json:"error"`
	Diagnostics []domain.Diagnostic `json:"diagnostics,omitempty"`
	Result      *domain.Result      `json:"result,omitempty"`
}

// -- Handlers --

// RunProgram handles POST /run.
func (s *Server) RunProgram(w http.ResponseWriter, r *http.Request) {
	maxSteps, ok := s.bindMaxSteps(w, r)
	if !ok {
		return
	}

	var body SourceRequest
	if err := s.decode(r, "RunRequest", &body); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	name := body.Name
	if name == "" {
		name = "inline"
	}
	prog, err := s.Engine.Parse(name, []byte(body.Source))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	s.run(w, r.Context(), prog, body.Input, maxSteps)
}

// ValidateProgram handles POST /validate.
func (s *Server) ValidateProgram(w http.ResponseWriter, r *http.Request) {
	var body SourceRequest
	if err := s.decode(r, "SourceRequest", &body); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	prog, err := s.Engine.Parse(body.Name, []byte(body.Source))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, s.validate(prog), s.Logger)
}

// GraphProgram handles POST /graph. When input is given the program is run first
// and the halting state is highlighted.
func (s *Server) GraphProgram(w http.ResponseWriter, r *http.Request) {
	var body SourceRequest
	if err := s.decode(r, "SourceRequest", &body); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	prog, err := s.Engine.Parse(body.Name, []byte(body.Source))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	var result *domain.Result
	if body.Input != "" {
		tape, err := domain.ParseTape(body.Input)
		if err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
		// A failed run still leaves a partial result worth highlighting.
		result, _ = s.Engine.Run(r.Context(), prog, tape)
	}

	writeJSON(w, http.StatusOK, map[string]string{"mermaid": s.Engine.Graph(prog, result)}, s.Logger)
}

// ListPrograms handles GET /programs.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"programs": ids}, s.Logger)
}

// loadProgram loads id from the store, naming similar IDs when it is missing.
func (s *Server) loadProgram(ctx context.Context, id string) (*domain.ProgramSource, error) {
	src, err := s.Store.Load(ctx, id)
	if errors.Is(err, domain.ErrProgramNotFound) {
		return nil, suggest.NotFound(ctx, s.Store, id)
	}
	return src, err
}

// GetProgram handles GET /programs/{id}.
func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bindID(w, r)
	if !ok {
		return
	}

	src, err := s.loadProgram(r.Context(), id)
	if err != nil {
		s.failStore(w, err)
		return
	}
	writeJSON(w, http.StatusOK, src, s.Logger)
}

// PutProgram handles PUT /programs/{id}.
func (s *Server) PutProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bindID(w, r)
	if !ok {
		return
	}

	var body ProgramInput
	if err := s.decode(r, "ProgramInput", &body); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	prog, err := s.Engine.Parse(id, []byte(body.Source))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	if body.Input != "" {
		if _, err := domain.ParseTape(body.Input); err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
	}

	src := &domain.ProgramSource{
		ID:          id,
		Source:      body.Source,
		Description: body.Description,
		Input:       strings.TrimSpace(body.Input),
	}
	if err := s.Store.Save(r.Context(), src); err != nil {
		s.failStore(w, err)
		return
	}

	stored, err := s.Store.Load(r.Context(), id)
	if err != nil {
		s.failStore(w, err)
		return
	}

	s.Logger.Info("program stored", "program", id, "states", prog.Len())
	writeJSON(w, http.StatusOK, StoredResponse{Program: stored, Report: s.validate(prog)}, s.Logger)
}

// DeleteProgram handles DELETE /programs/{id}.
func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bindID(w, r)
	if !ok {
		return
	}

	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.failStore(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunStoredProgram handles POST /programs/{id}/run. Without an input the
// program's example tape is used.
func (s *Server) RunStoredProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bindID(w, r)
	if !ok {
		return
	}
	maxSteps, ok := s.bindMaxSteps(w, r)
	if !ok {
		return
	}

	var body TapeRequest
	if err := s.decode(r, "TapeRequest", &body); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	src, err := s.loadProgram(r.Context(), id)
	if err != nil {
		s.failStore(w, err)
		return
	}

	prog, err := s.Engine.Parse(id, []byte(src.Source))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	input := src.Input
	if body.Input != nil {
		input = *body.Input
	}
	s.run(w, r.Context(), prog, input, maxSteps)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.Logger)
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "trmc-http",
		"version":     strings.TrimSpace(trmc.Version),
		"api_version": apiVersion,
	}, s.Logger)
}

// -- Helpers --

func (s *Server) run(w http.ResponseWriter, ctx context.Context, prog *domain.Program, input string, maxSteps int) {
	tape, err := domain.ParseTape(input)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.Engine.RunLimited(ctx, prog, tape, maxSteps)
	if err == nil {
		writeJSON(w, http.StatusOK, result, s.Logger)
		return
	}

	var rejected *trmc.RejectedError
	switch {
	case errors.As(err, &rejected):
		s.Logger.Warn("run rejected", "program", prog.Name, "errors", len(rejected.Diagnostics))
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Diagnostics: rejected.Diagnostics}, s.Logger)
	case errors.Is(err, domain.ErrEmptyProgram):
		s.fail(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrInvalidJump), errors.Is(err, domain.ErrStepLimit):
		s.Logger.Warn("run aborted", "program", prog.Name, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Result: result}, s.Logger)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Result: result}, s.Logger)
	default:
		s.fail(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) validate(prog *domain.Program) ReportResponse {
	report := s.Engine.Validate(prog)
	if s.Metrics != nil {
		s.Metrics.ObserveReport(report)
	}

	resp := ReportResponse{
		States:      report.States,
		Errors:      report.Errors(),
		Diagnostics: report.Diagnostics,
	}
	if resp.States == nil {
		resp.States = []int{}
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []domain.Diagnostic{}
	}
	return resp
}

// decode reads the JSON body, checks it against the named OpenAPI schema and
// unmarshals it into dst. An empty body decodes as an empty object.
func (s *Server) decode(r *http.Request, schema string, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	ref, ok := s.spec.Components.Schemas[schema]
	if !ok || ref.Value == nil {
		return fmt.Errorf("unknown schema %s", schema)
	}
	if err := ref.Value.VisitJSON(raw); err != nil {
		return fmt.Errorf("request does not match %s: %w", schema, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) bindID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter id: %w", err))
		return "", false
	}
	if err := domain.ValidateProgramID(id); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return "", false
	}
	return id, true
}

func (s *Server) bindMaxSteps(w http.ResponseWriter, r *http.Request) (int, bool) {
	var maxSteps *int
	if err := runtime.BindQueryParameter("form", true, false, "max_steps", r.URL.Query(), &maxSteps); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter max_steps: %w", err))
		return 0, false
	}
	if maxSteps == nil {
		return 0, true
	}
	if *maxSteps < 1 {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("max_steps must be at least 1, got %d", *maxSteps))
		return 0, false
	}
	return *maxSteps, true
}

func (s *Server) failStore(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProgramNotFound):
		s.fail(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidProgramID):
		s.fail(w, http.StatusBadRequest, err)
	default:
		s.fail(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "status", status, "error", err)
	} else {
		s.Logger.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()}, s.Logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
