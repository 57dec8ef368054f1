package domain

// Op is one atomic mutation decoded from a path character.
type Op int

const (
	// OpNone marks a character that decodes to nothing (digits, unknown runes).
	OpNone Op = iota
	// OpMoveRight moves the cursor one cell to the right ('>').
	OpMoveRight
	// OpMoveLeft moves the cursor one cell to the left ('<').
	OpMoveLeft
	// OpFlip inverts the cell under the cursor ('!').
	OpFlip
	// OpFirst snaps the cursor to index 0 ('{').
	OpFirst
	// OpLast snaps the cursor to the last index ('}').
	OpLast
	// OpClear writes false to the cell under the cursor ('/').
	OpClear
	// OpSet writes true to the cell under the cursor ('\').
	OpSet
)

// PathAlphabet lists every character a well-formed path may contain.
const PathAlphabet = `0123456789<>!{}/\`

var opNames = map[Op]string{
	OpNone:      "none",
	OpMoveRight: "move_right",
	OpMoveLeft:  "move_left",
	OpFlip:      "flip",
	OpFirst:     "first",
	OpLast:      "last",
	OpClear:     "clear",
	OpSet:       "set",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// OpFor maps a path character to its Op.
// Digits and characters outside the alphabet return OpNone.
func OpFor(c rune) Op {
	switch c {
	case '>':
		return OpMoveRight
	case '<':
		return OpMoveLeft
	case '!':
		return OpFlip
	case '{':
		return OpFirst
	case '}':
		return OpLast
	case '/':
		return OpClear
	case '\\':
		return OpSet
	}
	return OpNone
}

// Moves reports whether the op can carry the cursor off the tape.
func (o Op) Moves() bool {
	return o == OpMoveRight || o == OpMoveLeft
}
