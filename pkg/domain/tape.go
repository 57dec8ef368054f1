package domain

import (
	"encoding/json"
	"strings"
)

// Tape is the fixed-length bit tape a program operates on.
type Tape []bool

// ParseTape converts a string of '0'/'1' characters into a Tape.
// Surrounding whitespace is ignored; any other character rejects the whole input.
func ParseTape(input string) (Tape, error) {
	input = strings.TrimSpace(input)
	tape := make(Tape, 0, len(input))
	for i, c := range input {
		switch c {
		case '0':
			tape = append(tape, false)
		case '1':
			tape = append(tape, true)
		default:
			return nil, &TapeError{Pos: i, Char: c}
		}
	}
	return tape, nil
}

// String renders the tape as '0'/'1' characters in index order.
func (t Tape) String() string {
	var sb strings.Builder
	sb.Grow(len(t))
	for _, cell := range t {
		if cell {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Clone returns an independent copy of the tape.
func (t Tape) Clone() Tape {
	if t == nil {
		return Tape{}
	}
	out := make(Tape, len(t))
	copy(out, t)
	return out
}

// MarshalJSON encodes the tape as its '0'/'1' string form.
func (t Tape) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a '0'/'1' string into the tape.
func (t *Tape) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTape(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
