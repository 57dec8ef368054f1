package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedTape is returned when tape input contains a character other than '0' or '1'.
var ErrMalformedTape = errors.New("malformed tape input")

// ErrInvalidJump is returned when execution reaches a jump target outside the program.
var ErrInvalidJump = errors.New("invalid jump target")

// ErrEmptyProgram is returned when a program has no states to execute.
var ErrEmptyProgram = errors.New("program has no states")

// ErrStepLimit is returned when a run exceeds its configured step limit.
var ErrStepLimit = errors.New("step limit exceeded")

// ErrProgramNotFound is returned when a program ID cannot be found in a store.
var ErrProgramNotFound = errors.New("program not found")

// TapeError pinpoints the first invalid character of a tape input.
type TapeError struct {
	Pos  int
	Char rune
}

func (e *TapeError) Error() string {
	return fmt.Sprintf("%s: invalid character %q at position %d, must be binary digits", ErrMalformedTape, e.Char, e.Pos)
}

func (e *TapeError) Unwrap() error {
	return ErrMalformedTape
}

// ErrInvalidProgramID is returned when a program ID is empty or not a safe name.
var ErrInvalidProgramID = errors.New("invalid program id")
