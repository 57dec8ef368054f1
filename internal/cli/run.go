package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/trmc/internal/presentation/tui"
	"github.com/aretw0/trmc/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Path string
	// Input is the tape; it is prompted for unless InputSet is true.
	Input    string
	InputSet bool
	// Debug forces debug mode on or off. Nil asks the user when Interactive.
	Debug       *bool
	Interactive bool
	JSON        bool
	Engine      EngineOptions
	Logger      *slog.Logger
	Stdin       io.Reader
	Stdout      io.Writer
}

// RunReport is the JSON form of a finished run.
type RunReport struct {
	Program string           `json:"program"`
	Input   string           `json:"input"`
	Output  string           `json:"output"`
	Result  *domain.Result   `json:"result,omitempty"`
	Diff    *domain.TapeDiff `json:"diff,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Run loads the program, optionally prints the debug report, reads the tape and executes it.
// A partial result is still printed when the run aborts.
func Run(ctx context.Context, opts RunOptions) error {
	if opts.Path == "-" && !opts.InputSet {
		return errors.New("--input is required when the program is read from stdin")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	in := bufio.NewReader(opts.Stdin)
	out := opts.Stdout

	debug := false
	switch {
	case opts.Debug != nil:
		debug = *opts.Debug
	case opts.Interactive:
		fmt.Fprintln(out)
		answer, err := prompt(in, out, "Run in Debug Mode? ")
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		answer = strings.ToLower(answer)
		debug = answer != "n" && answer != "no"
		fmt.Fprintln(out)
	}

	engineOpts := opts.Engine
	if debug {
		engineOpts.Hooks = append(engineOpts.Hooks, createDebugHooks(out))
	}
	engine := createEngine(engineOpts, opts.Logger)

	prog, err := loadProgram(engine, opts.Path, in)
	if err != nil {
		return err
	}

	if debug {
		fmt.Fprintln(out, "Program: ")
		for _, s := range prog.States {
			fmt.Fprintln(out, s.Text())
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, tui.ReportText(engine.Validate(prog)))
	}

	input := opts.Input
	if !opts.InputSet {
		input, err = prompt(in, out, "Input: ")
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		fmt.Fprintln(out)
	}

	input, err = SanitizeInput(input)
	if err != nil {
		return err
	}
	tape, err := domain.ParseTape(input)
	if err != nil {
		printSystemMessage(out, "Invalid input, must be binary integer")
		return err
	}

	res, runErr := engine.Run(ctx, prog, tape)
	if runErr != nil && isInterrupted(runErr) {
		opts.Logger.Info("run interrupted", "program", prog.Name)
	}

	if opts.JSON {
		report := RunReport{Program: prog.Name, Input: strings.TrimSpace(input), Result: res}
		if res != nil {
			report.Output = res.Output()
			report.Diff = domain.Diff(tape, res.Tape)
		}
		if runErr != nil {
			report.Error = runErr.Error()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
		return runErr
	}

	if res != nil {
		printResult(out, res)
	}
	return runErr
}

func printResult(w io.Writer, res *domain.Result) {
	fmt.Fprintf(w, "\nOutput: %s\n\n", res.Output())
	fmt.Fprintf(w, "Cursor at: %d\n", res.Cursor)
	fmt.Fprintf(w, "Took %d iterations\n", res.Iterations)
	fmt.Fprintln(w)
}
