package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/trmc/internal/presentation/tui"
	"github.com/aretw0/trmc/pkg/domain"
)

// ErrFindings is returned by Validate when the program has at least one finding.
var ErrFindings = errors.New("validation found errors")

// Output formats accepted by validate.
const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
)

// ValidateOptions contains the configuration for the validate command.
type ValidateOptions struct {
	Path   string
	Format string
	Engine EngineOptions
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
}

// Validate prints the static report of a program.
func Validate(opts ValidateOptions) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	engine := createEngine(opts.Engine, opts.Logger)
	prog, err := loadProgram(engine, opts.Path, opts.Stdin)
	if err != nil {
		return err
	}
	report := engine.Validate(prog)

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonReport(report)); err != nil {
			return err
		}
	case FormatText:
		fmt.Fprint(opts.Stdout, tui.ReportText(report))
	case "", FormatMarkdown:
		render := tui.NewRenderer()
		md := tui.ReportMarkdown(prog, report)
		out, err := render(md)
		if err != nil {
			out = md
		}
		fmt.Fprint(opts.Stdout, out)
		fmt.Fprintln(opts.Stdout, tui.Status(statusWord(report), report.OK()))
	default:
		return fmt.Errorf("unknown format %q (want markdown, text or json)", opts.Format)
	}

	if !report.OK() {
		return fmt.Errorf("%w: %d", ErrFindings, report.Errors())
	}
	return nil
}

type reportJSON struct {
	States      []int               `json:"states"`
	Errors      int                 `json:"errors"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

func jsonReport(r *domain.Report) reportJSON {
	out := reportJSON{States: r.States, Errors: r.Errors(), Diagnostics: r.Diagnostics}
	if out.States == nil {
		out.States = []int{}
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []domain.Diagnostic{}
	}
	return out
}

func statusWord(r *domain.Report) string {
	if r.OK() {
		return "valid"
	}
	return fmt.Sprintf("%d errors", r.Errors())
}
