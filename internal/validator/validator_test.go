package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/trmc/internal/compiler"
	"github.com/aretw0/trmc/internal/validator"
	"github.com/aretw0/trmc/pkg/domain"
)

func program(states ...string) *domain.Program {
	return compiler.BuildStrings("test", states)
}

func TestValidate(t *testing.T) {
	t.Run("Clean Program", func(t *testing.T) {
		report := validator.Validate(program("}2", `\3 /<2`, "END"))
		assert.True(t, report.OK(), "unexpected findings: %v", report.Lines())
		assert.Equal(t, []int{1, 2, 3}, report.States)
	})

	t.Run("Invalid Jump Only", func(t *testing.T) {
		report := validator.Validate(program("5", "END"))
		require.Equal(t, 1, report.Errors(), "findings: %v", report.Lines())

		d := report.Diagnostics[0]
		assert.Equal(t, domain.DiagInvalidJump, d.Kind)
		assert.Equal(t, 1, d.State)
		assert.Equal(t, "5", d.Detail)
	})

	t.Run("Invalid Character", func(t *testing.T) {
		report := validator.Validate(program("3x", "1", "END"))
		chars := report.Filter(domain.DiagInvalidCharacter)
		require.Len(t, chars, 1)
		assert.Equal(t, "x", chars[0].Detail)
		assert.Equal(t, "3x", chars[0].Path)
		assert.Equal(t, 1, chars[0].State)
	})

	t.Run("Unreachable Suffix", func(t *testing.T) {
		report := validator.Validate(program("2>", "END"))
		dead := report.Filter(domain.DiagUnreachableCode)
		require.Len(t, dead, 1)
		assert.Equal(t, ">", dead[0].Detail)
		assert.Equal(t, 1, report.Errors())
	})

	t.Run("Leading Ops Are Reachable", func(t *testing.T) {
		report := validator.Validate(program(">2", "END"))
		assert.Zero(t, report.Count(domain.DiagUnreachableCode))
		assert.True(t, report.OK())
	})

	t.Run("Digit Only Paths", func(t *testing.T) {
		report := validator.Validate(program("2", "10", "END"))
		assert.Zero(t, report.Count(domain.DiagUnreachableCode))
		assert.Equal(t, 1, report.Count(domain.DiagInvalidJump))
	})

	t.Run("Malformed State", func(t *testing.T) {
		report := validator.Validate(program(">2 <2 !2", "END"))
		malformed := report.Filter(domain.DiagMalformedState)
		require.Len(t, malformed, 1)
		assert.Equal(t, 1, malformed[0].State)
	})

	t.Run("END Is Never Scanned", func(t *testing.T) {
		report := validator.Validate(program("2", "END", "END"))
		assert.Zero(t, report.Count(domain.DiagInvalidCharacter))
		assert.True(t, report.OK())
	})

	t.Run("Invalid Jump Reported Once Per Target", func(t *testing.T) {
		report := validator.Validate(program("7 7", ">7", "END"))
		jumps := report.Filter(domain.DiagInvalidJump)
		require.Len(t, jumps, 1, "findings: %v", report.Lines())
		assert.Equal(t, 1, jumps[0].State)
		assert.Equal(t, "7", jumps[0].Detail)
	})

	t.Run("Distinct Invalid Targets", func(t *testing.T) {
		report := validator.Validate(program("7 8", "END"))
		assert.Equal(t, 2, report.Count(domain.DiagInvalidJump))
	})
}

func TestValidate_NonTerminating(t *testing.T) {
	tests := []struct {
		name   string
		states []string
		want   int
	}{
		{"Unconditional Write", []string{"!", "END"}, 1},
		{"Unconditional Snap", []string{"{", "END"}, 1},
		{"Empty Effect", []string{"!! 2", "END"}, 1},
		{"Flip Hands Over To Jump", []string{"! 2", "END"}, 0},
		{"Set On False Branch", []string{`\ 2`, "END"}, 0},
		{"Set On True Branch Keeps Branch", []string{`2 \`, "END"}, 1},
		{"Clear On True Branch", []string{"2 /", "END"}, 0},
		{"Both Branches Keep Their Cell", []string{`/ \`, "END"}, 2},
		{"Snap On Conditional", []string{"} 2", "END"}, 0},
		{"Move", []string{">", "END"}, 0},
		{"Jump", []string{"!1", "END"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := validator.Validate(program(tt.states...))
			assert.Equal(t, tt.want, report.Count(domain.DiagNonTerminating), "findings: %v", report.Lines())
		})
	}
}

func TestValidate_UnusedStates(t *testing.T) {
	// State 3 only jumps to itself.
	prog := program(">2", "<1", "!>3", "END")

	t.Run("Reachability", func(t *testing.T) {
		prog := program(">2", "<1", ">1", "END")
		report := validator.Validate(prog)
		unused := report.Filter(domain.DiagUnusedState)
		require.Len(t, unused, 1)
		assert.Equal(t, 3, unused[0].State)
	})

	t.Run("Self Jump Counts As Target", func(t *testing.T) {
		report := validator.Validate(prog)
		assert.Zero(t, report.Count(domain.DiagUnusedState))
	})

	t.Run("Literal", func(t *testing.T) {
		prog := program(">2", "<1", ">1", "END")
		report := validator.Validate(prog, validator.WithUnusedMode(validator.UnusedLiteral))
		assert.Zero(t, report.Count(domain.DiagUnusedState))
	})

	t.Run("Entry And Terminal Are Exempt", func(t *testing.T) {
		report := validator.Validate(program(">1", "END"))
		assert.True(t, report.OK())
	})
}

func TestValidate_LinesPointAtSource(t *testing.T) {
	prog, err := compiler.NewParser().Parse("src", []byte("// header\n\n3x\nEND\n"))
	require.NoError(t, err)

	report := validator.Validate(prog)
	require.NotEmpty(t, report.Diagnostics)
	for _, d := range report.Diagnostics {
		assert.Equal(t, 3, d.Line)
	}
	assert.Contains(t, report.Lines()[0], "state 1 (line 3)")
}

func TestValidate_DoesNotMutate(t *testing.T) {
	prog := program("3x>", "!", "END")
	before := prog.Source()
	validator.Validate(prog)
	assert.Equal(t, before, prog.Source())
}
