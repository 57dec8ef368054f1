package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/trmc"
	"github.com/aretw0/trmc/internal/suggest"
	"github.com/aretw0/trmc/pkg/domain"
	"github.com/aretw0/trmc/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

const programsURI = "trmc://programs"

// RunResponse is the structured result of run_program.
type RunResponse struct {
	Result      *domain.Result      `json:"result,omitempty" jsonschema_description:"Final machine state; partial when the run aborted"`
	Output      string              `json:"output" jsonschema_description:"Final tape as a string of 0 and 1"`
	Diff        *domain.TapeDiff    `json:"diff,omitempty" jsonschema_description:"Cells the run changed"`
	Error       string              `json:"error,omitempty" jsonschema_description:"Why the run aborted or was rejected"`
	Diagnostics []domain.Diagnostic `json:"diagnostics,omitempty" jsonschema_description:"Findings that caused a strict-mode rejection"`
}

// ValidateResponse is the structured result of validate_program.
type ValidateResponse struct {
	Errors      int                 `json:"errors" jsonschema_description:"Number of findings"`
	Diagnostics []domain.Diagnostic `json:"diagnostics" jsonschema_description:"Every finding"`
	Lines       []string            `json:"lines" jsonschema_description:"Findings rendered as text"`
}

// GraphResponse is the structured result of graph_program.
type GraphResponse struct {
	Mermaid string `json:"mermaid" jsonschema_description:"Mermaid flowchart of the state transitions"`
}

// ProgramSummary describes one library program.
type ProgramSummary struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Input       string `json:"input,omitempty"`
}

// ProgramsResponse is the structured result of list_programs.
type ProgramsResponse struct {
	Programs []ProgramSummary `json:"programs"`
}

// programArgs are the tool arguments shared by every program tool.
type programArgs struct {
	Source    string `mapstructure:"source"`
	ProgramID string `mapstructure:"program_id"`
	Input     string `mapstructure:"input"`
	MaxSteps  int    `mapstructure:"max_steps"`
}

// Server wraps the trmc Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Interpreter
	loader    ports.ProgramLoader
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. loader may be nil, in which case
// only inline sources are accepted.
func NewServer(engine ports.Interpreter, loader ports.ProgramLoader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		loader:    loader,
		logger:    logger,
		mcpServer: server.NewMCPServer("trmc-mcp", strings.TrimSpace(trmc.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sourceArg := mcp.WithString("source", mcp.Description("Program text: one state per line, END halts, // starts a comment (optional if program_id is given)"))
	programArg := mcp.WithString("program_id", mcp.Description("ID of a library program (see list_programs)"))

	s.mcpServer.AddTool(mcp.NewTool("run_program",
		mcp.WithDescription("Run a program against a tape of 0s and 1s and return the final tape, cursor and iteration count."),
		sourceArg,
		programArg,
		mcp.WithString("input", mcp.Description("Tape, e.g. \"0111\". Defaults to the library program's example tape")),
		mcp.WithNumber("max_steps", mcp.Description("Abort after this many iterations (optional)")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleRun))

	s.mcpServer.AddTool(mcp.NewTool("validate_program",
		mcp.WithDescription("Statically check a program for invalid characters, unreachable code, invalid jumps and unused states."),
		sourceArg,
		programArg,
		mcp.WithOutputSchema[ValidateResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("graph_program",
		mcp.WithDescription("Render the state transition graph of a program as a Mermaid flowchart."),
		sourceArg,
		programArg,
		mcp.WithString("input", mcp.Description("Optional tape; when given, the halting state is highlighted")),
		mcp.WithOutputSchema[GraphResponse](),
	), mcp.NewStructuredToolHandler(s.handleGraph))

	s.mcpServer.AddTool(mcp.NewTool("list_programs",
		mcp.WithDescription("List the programs available in the library."),
		mcp.WithOutputSchema[ProgramsResponse](),
	), mcp.NewStructuredToolHandler(s.handleList))
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	parsed, err := decodeArgs(args)
	if err != nil {
		return RunResponse{}, err
	}
	prog, src, err := s.resolve(ctx, parsed)
	if err != nil {
		return RunResponse{}, err
	}

	input := parsed.Input
	if input == "" && src != nil {
		input = src.Input
	}
	tape, err := domain.ParseTape(input)
	if err != nil {
		return RunResponse{}, err
	}

	result, err := s.engine.RunLimited(ctx, prog, tape, parsed.MaxSteps)
	resp := RunResponse{Result: result}
	if result != nil {
		resp.Output = result.Output()
		resp.Diff = domain.Diff(tape, result.Tape)
	}
	if err == nil {
		return resp, nil
	}

	var rejected *trmc.RejectedError
	switch {
	case errors.As(err, &rejected):
		resp.Error = err.Error()
		resp.Diagnostics = rejected.Diagnostics
		return resp, nil
	case result != nil:
		s.logger.Warn("MCP run aborted", "program", prog.Name, "error", err)
		resp.Error = err.Error()
		return resp, nil
	default:
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	parsed, err := decodeArgs(args)
	if err != nil {
		return ValidateResponse{}, err
	}
	prog, _, err := s.resolve(ctx, parsed)
	if err != nil {
		return ValidateResponse{}, err
	}

	report := s.engine.Validate(prog)
	resp := ValidateResponse{
		Errors:      report.Errors(),
		Diagnostics: report.Diagnostics,
		Lines:       report.Lines(),
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []domain.Diagnostic{}
	}
	if resp.Lines == nil {
		resp.Lines = []string{}
	}
	return resp, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GraphResponse, error) {
	parsed, err := decodeArgs(args)
	if err != nil {
		return GraphResponse{}, err
	}
	prog, _, err := s.resolve(ctx, parsed)
	if err != nil {
		return GraphResponse{}, err
	}

	var result *domain.Result
	if parsed.Input != "" {
		tape, err := domain.ParseTape(parsed.Input)
		if err != nil {
			return GraphResponse{}, err
		}
		result, _ = s.engine.Run(ctx, prog, tape)
	}
	return GraphResponse{Mermaid: s.engine.Graph(prog, result)}, nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ProgramsResponse, error) {
	summaries, err := s.summaries(ctx)
	if err != nil {
		return ProgramsResponse{}, err
	}
	return ProgramsResponse{Programs: summaries}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(programsURI, "Program Library",
		mcp.WithResourceDescription("Programs available to run_program via program_id"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summaries, err := s.summaries(ctx)
		if err != nil {
			return nil, err
		}
		jsonBytes, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to encode program list: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      programsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(programsURI+"/{id}", "Program Source",
		mcp.WithTemplateDescription("Source text of a library program"),
		mcp.WithTemplateMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := request.Params.URI
		id := strings.TrimPrefix(uri, programsURI+"/")
		src, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "text/plain",
				Text:     src.Source,
			},
		}, nil
	})
}

func (s *Server) summaries(ctx context.Context) ([]ProgramSummary, error) {
	summaries := []ProgramSummary{}
	if s.loader == nil {
		return summaries, nil
	}

	ids, err := s.loader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	for _, id := range ids {
		src, err := s.loader.Load(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load program %s: %w", id, err)
		}
		summaries = append(summaries, ProgramSummary{ID: id, Description: src.Description, Input: src.Input})
	}
	return summaries, nil
}

func (s *Server) load(ctx context.Context, id string) (*domain.ProgramSource, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("%w: %s (no program library configured)", domain.ErrProgramNotFound, id)
	}
	src, err := s.loader.Load(ctx, id)
	if errors.Is(err, domain.ErrProgramNotFound) {
		return nil, suggest.NotFound(ctx, s.loader, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load program %s: %w", id, err)
	}
	return src, nil
}

// resolve parses the inline source, or loads and parses the library program.
func (s *Server) resolve(ctx context.Context, args programArgs) (*domain.Program, *domain.ProgramSource, error) {
	switch {
	case args.Source != "" && args.ProgramID != "":
		return nil, nil, errors.New("provide either source or program_id, not both")
	case args.Source != "":
		prog, err := s.engine.Parse("inline", []byte(args.Source))
		return prog, nil, err
	case args.ProgramID != "":
		src, err := s.load(ctx, args.ProgramID)
		if err != nil {
			return nil, nil, err
		}
		prog, err := s.engine.Parse(src.ID, []byte(src.Source))
		return prog, src, err
	default:
		return nil, nil, errors.New("either source or program_id is required")
	}
}

func decodeArgs(args map[string]interface{}) (programArgs, error) {
	var out programArgs
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(args); err != nil {
		return out, fmt.Errorf("invalid arguments: %w", err)
	}
	if out.MaxSteps < 0 {
		return out, fmt.Errorf("invalid arguments: max_steps must not be negative")
	}
	return out, nil
}
