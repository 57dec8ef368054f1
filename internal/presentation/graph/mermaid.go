package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/trmc/internal/compiler"
	"github.com/aretw0/trmc/pkg/domain"
)

// Overlay contains run data to visualize on the graph.
type Overlay struct {
	VisitedStates []int
	CurrentState  int
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a program.
// It applies semantic styling:
// - Entry state: ((Circle))
// - END: ([Stadium])
// - Conditional: {Rhombus}
// - Default: [Rectangle]
// Jumps to undeclared states point at a dashed "missing" node.
// Paths without a jump loop back on their own state.
func GenerateMermaid(prog *domain.Program, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	missing := make(map[int]bool)

	for _, s := range prog.States {
		id := nodeID(s.Ordinal)

		opener, closer := "[", "]"
		switch {
		case s.IsTerminal():
			opener, closer = "([", "])"
		case s.Ordinal == 1:
			opener, closer = "((", "))"
		case s.Kind == domain.StateConditional:
			opener, closer = "{", "}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label(s), closer))

		for i, path := range s.Paths {
			arrow := "-->"
			if s.Kind == domain.StateConditional {
				arrow = fmt.Sprintf("-- \"%d: %s\" -->", i, escape(path))
			} else if path != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", escape(path))
			}

			dec := compiler.Effective(path)
			switch {
			case !dec.HasJump:
				sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", id, id))
			case !prog.Contains(dec.Jump):
				missing[dec.Jump] = true
				sb.WriteString(fmt.Sprintf("    %s %s %s\n", id, arrow, missingID(dec.Jump)))
			default:
				sb.WriteString(fmt.Sprintf("    %s %s %s\n", id, arrow, nodeID(dec.Jump)))
			}
		}
	}

	if len(missing) > 0 {
		sb.WriteString("\n    %% Undeclared Targets\n")
		sb.WriteString("    classDef missing fill:#ffebee,stroke:#c62828,stroke-dasharray:5 5,color:#000;\n")
		for _, target := range slices.Sorted(maps.Keys(missing)) {
			sb.WriteString(fmt.Sprintf("    %s[\"%d (undeclared)\"]\n", missingID(target), target))
			sb.WriteString(fmt.Sprintf("    class %s missing;\n", missingID(target)))
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[int]bool)
		for _, ordinal := range overlay.VisitedStates {
			if !visitedSet[ordinal] && prog.Contains(ordinal) {
				visitedSet[ordinal] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(ordinal)))
			}
		}

		if prog.Contains(overlay.CurrentState) {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

func nodeID(ordinal int) string {
	return fmt.Sprintf("S%d", ordinal)
}

func missingID(target int) string {
	return fmt.Sprintf("X%d", target)
}

func label(s domain.State) string {
	if s.IsTerminal() {
		return fmt.Sprintf("%d: %s", s.Ordinal, domain.EndMarker)
	}
	return fmt.Sprintf("%d", s.Ordinal)
}

// escape keeps path text safe inside a quoted Mermaid label.
func escape(path string) string {
	r := strings.NewReplacer(`"`, "#quot;", `\`, "#92;", "{", "#123;", "}", "#125;", "<", "#lt;", ">", "#gt;")
	return r.Replace(path)
}
