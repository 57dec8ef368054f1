package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/trmc/pkg/domain"
)

func TestParseTape(t *testing.T) {
	t.Run("Binary Digits", func(t *testing.T) {
		tape, err := domain.ParseTape(" 0110\n")
		require.NoError(t, err)
		assert.Equal(t, domain.Tape{false, true, true, false}, tape)
		assert.Equal(t, "0110", tape.String())
	})

	t.Run("Empty Input", func(t *testing.T) {
		tape, err := domain.ParseTape("")
		require.NoError(t, err)
		assert.Len(t, tape, 0)
		assert.Equal(t, "", tape.String())
	})

	t.Run("Invalid Character", func(t *testing.T) {
		_, err := domain.ParseTape("01a1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMalformedTape))

		var tapeErr *domain.TapeError
		require.ErrorAs(t, err, &tapeErr)
		assert.Equal(t, 2, tapeErr.Pos)
		assert.Equal(t, 'a', tapeErr.Char)
	})
}

func TestTape_CloneIsIndependent(t *testing.T) {
	orig := domain.Tape{true, false}
	clone := orig.Clone()
	clone[0] = false
	assert.True(t, orig[0])

	var nilTape domain.Tape
	assert.NotNil(t, nilTape.Clone())
}

func TestTape_JSON(t *testing.T) {
	res := domain.Result{Tape: domain.Tape{true, false, true}, Cursor: 2, Iterations: 4, Reason: domain.HaltEnd, State: 3}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tape":"101","cursor":2,"iterations":4,"reason":"end","state":3}`, string(data))

	var back domain.Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, res.Tape, back.Tape)

	var bad domain.Tape
	assert.ErrorIs(t, json.Unmarshal([]byte(`"012"`), &bad), domain.ErrMalformedTape)
}

func TestState_PathFor(t *testing.T) {
	uncond := domain.State{Ordinal: 1, Kind: domain.StateUnconditional, Paths: []string{">2"}}
	assert.Equal(t, ">2", uncond.PathFor(false))
	assert.Equal(t, ">2", uncond.PathFor(true))

	cond := domain.State{Ordinal: 1, Kind: domain.StateConditional, Paths: []string{"\\1", "/2"}}
	assert.Equal(t, "\\1", cond.PathFor(false))
	assert.Equal(t, "/2", cond.PathFor(true))

	end := domain.State{Ordinal: 2, Kind: domain.StateTerminal}
	assert.Equal(t, "", end.PathFor(true))
	assert.Equal(t, "END", end.Text())
}

func TestProgram_Lookup(t *testing.T) {
	prog := &domain.Program{States: []domain.State{
		{Ordinal: 1, Kind: domain.StateConditional, Paths: []string{">1", "<2"}, Extra: []string{"!3"}},
		{Ordinal: 2, Kind: domain.StateTerminal},
	}}

	assert.Equal(t, 2, prog.Len())
	assert.True(t, prog.Contains(2))
	assert.False(t, prog.Contains(0))
	assert.False(t, prog.Contains(3))
	assert.Equal(t, 2, prog.Terminal())

	s, ok := prog.State(1)
	require.True(t, ok)
	assert.Equal(t, ">1 <2 !3", s.Text())

	_, ok = prog.State(5)
	assert.False(t, ok)

	assert.Equal(t, ">1 <2 !3\nEND", prog.Source())
}

func TestReport_Counts(t *testing.T) {
	report := &domain.Report{Diagnostics: []domain.Diagnostic{
		{Kind: domain.DiagInvalidJump, State: 1, Line: 3, Message: "invalid jump to state 5"},
		{Kind: domain.DiagUnusedState, State: 2, Message: "unused state 2"},
	}}

	assert.Equal(t, 2, report.Errors())
	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Count(domain.DiagInvalidJump))
	assert.Len(t, report.Filter(domain.DiagUnusedState, domain.DiagInvalidCharacter), 1)
	assert.Equal(t, []string{
		"state 1 (line 3): invalid jump to state 5",
		"state 2: unused state 2",
	}, report.Lines())
}
