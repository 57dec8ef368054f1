package runtime

import "github.com/aretw0/trmc/pkg/domain"

// machine is the mutable part of one run: tape, cursor, current state and step count.
type machine struct {
	tape       domain.Tape
	cursor     int
	state      int
	iterations int
}

// apply performs one op. Writes while the cursor sits off the tape are dropped;
// the boundary check at the start of the next step halts the run.
func (m *machine) apply(op domain.Op) {
	switch op {
	case domain.OpMoveRight:
		m.cursor++
	case domain.OpMoveLeft:
		m.cursor--
	case domain.OpFirst:
		m.cursor = 0
	case domain.OpLast:
		m.cursor = len(m.tape) - 1
	case domain.OpFlip:
		if m.onTape() {
			m.tape[m.cursor] = !m.tape[m.cursor]
		}
	case domain.OpClear:
		if m.onTape() {
			m.tape[m.cursor] = false
		}
	case domain.OpSet:
		if m.onTape() {
			m.tape[m.cursor] = true
		}
	}
}

func (m *machine) onTape() bool {
	return m.cursor >= 0 && m.cursor < len(m.tape)
}

func (m *machine) result(reason domain.HaltReason) *domain.Result {
	return &domain.Result{
		Tape:       m.tape,
		Cursor:     m.cursor,
		Iterations: m.iterations,
		Reason:     reason,
		State:      m.state,
	}
}
