package compiler

import (
	"bufio"
	"strings"
)

// CommentPrefix starts a comment that runs to the end of the line.
const CommentPrefix = "//"

// Line is one normalized, non-blank source line.
type Line struct {
	// Number is the 1-based physical line in the original text.
	Number int
	Text   string
}

// Normalize strips comments and surrounding whitespace from src and drops blank lines.
func Normalize(src string) []Line {
	var lines []Line
	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for sc.Scan() {
		n++
		text := sc.Text()
		if i := strings.Index(text, CommentPrefix); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		lines = append(lines, Line{Number: n, Text: text})
	}
	return lines
}
