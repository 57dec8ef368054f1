package compiler

import (
	"math"

	"github.com/aretw0/trmc/pkg/domain"
)

// Class is the lexical category of a path character.
type Class int

const (
	// ClassInvalid is a character outside the path alphabet.
	ClassInvalid Class = iota
	// ClassDigit is part of a jump target.
	ClassDigit
	// ClassOp decodes to a tape or cursor operation.
	ClassOp
)

// Token is one classified character of a path.
type Token struct {
	Offset int
	Char   rune
	Class  Class
	Op     domain.Op
}

// Decoded is what the engine actually executes for one path.
type Decoded struct {
	// Ops are applied in order until the first digit.
	Ops []domain.Op
	// Jump is the 1-based target state, valid only when HasJump is true.
	Jump    int
	HasJump bool
}

func classify(c rune) (Class, domain.Op) {
	if isDigit(c) {
		return ClassDigit, domain.OpNone
	}
	if op := domain.OpFor(c); op != domain.OpNone {
		return ClassOp, op
	}
	return ClassInvalid, domain.OpNone
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// JumpTarget accumulates every digit of the path, most significant first.
// Non-digits are skipped without ending the scan. The value saturates at math.MaxInt.
func JumpTarget(path string) (int, bool) {
	target, seen := 0, false
	for _, c := range path {
		if !isDigit(c) {
			continue
		}
		seen = true
		d := int(c - '0')
		if target > (math.MaxInt-d)/10 {
			target = math.MaxInt
			continue
		}
		target = target*10 + d
	}
	return target, seen
}

// Effective returns the ops the engine applies for path and the jump it takes.
// Scanning stops at the first digit; anything after it is dead text.
func Effective(path string) Decoded {
	var dec Decoded
	for _, c := range path {
		class, op := classify(c)
		switch class {
		case ClassDigit:
			dec.Jump, dec.HasJump = JumpTarget(path)
			return dec
		case ClassOp:
			dec.Ops = append(dec.Ops, op)
		}
	}
	return dec
}

// Tokens classifies every character of path, including the ones the engine never reaches.
func Tokens(path string) []Token {
	tokens := make([]Token, 0, len(path))
	for i, c := range path {
		class, op := classify(c)
		tokens = append(tokens, Token{Offset: i, Char: c, Class: class, Op: op})
	}
	return tokens
}

// EffectivePrefix returns the leading non-digits of path followed by its first digit run.
func EffectivePrefix(path string) string {
	found := false
	for i, c := range path {
		if isDigit(c) {
			found = true
			continue
		}
		if found {
			return path[:i]
		}
	}
	return path
}
