package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the trmc ASCII banner with the running version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _                       ", "#818cf8"},
		{" | |_ _ __ _ __ ___   ___ ", "#a78bfa"},
		{" | __| '__| '_ ` _ \\ / __|", "#c084fc"},
		{" | |_| |  | | | | | | (__ ", "#e879f9"},
		{"  \\__|_|  |_| |_| |_|\\___|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  tape machine v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}

// Status colours a short status word: green when ok, red otherwise.
func Status(text string, ok bool) string {
	p := termenv.ColorProfile()
	color := "#ef4444"
	if ok {
		color = "#22c55e"
	}
	return termenv.String(text).Foreground(p.Color(color)).Bold().String()
}
