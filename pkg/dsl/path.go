package dsl

import (
	"strconv"
	"strings"
)

// PathBuilder provides a fluent API for composing one path.
type PathBuilder struct {
	sb strings.Builder
}

// Path starts an empty path. An empty path is replaced by a jump to the owning
// state when the program is built, since a blank token cannot be written.
func Path() *PathBuilder {
	return &PathBuilder{}
}

func (p *PathBuilder) op(c byte) *PathBuilder {
	p.sb.WriteByte(c)
	return p
}

// Right moves the cursor one cell to the right.
func (p *PathBuilder) Right() *PathBuilder { return p.op('>') }

// Left moves the cursor one cell to the left.
func (p *PathBuilder) Left() *PathBuilder { return p.op('<') }

// First snaps the cursor to the first cell.
func (p *PathBuilder) First() *PathBuilder { return p.op('{') }

// Last snaps the cursor to the last cell.
func (p *PathBuilder) Last() *PathBuilder { return p.op('}') }

// Set writes 1 under the cursor.
func (p *PathBuilder) Set() *PathBuilder { return p.op('\\') }

// Clear writes 0 under the cursor.
func (p *PathBuilder) Clear() *PathBuilder { return p.op('/') }

// Flip inverts the cell under the cursor.
func (p *PathBuilder) Flip() *PathBuilder { return p.op('!') }

// Jump ends the path with a jump to the given 1-based state. Operations added
// after a jump are never executed.
func (p *PathBuilder) Jump(state int) *PathBuilder {
	p.sb.WriteString(strconv.Itoa(state))
	return p
}

// String returns the path text.
func (p *PathBuilder) String() string {
	return p.sb.String()
}
