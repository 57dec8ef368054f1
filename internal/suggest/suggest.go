// Package suggest proposes known program IDs close to one that was not found.
package suggest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aretw0/trmc/pkg/domain"
	"github.com/aretw0/trmc/pkg/ports"
)

// DefaultLimit is how many IDs NotFound proposes.
const DefaultLimit = 3

// Similar returns up to limit candidates that fuzzily match id, closest first.
// A candidate matches when either string is a case-insensitive subsequence of the other.
func Similar(id string, candidates []string, limit int) []string {
	type match struct {
		id       string
		distance int
	}
	var matches []match
	for _, c := range candidates {
		if c == id {
			continue
		}
		if fuzzy.MatchNormalizedFold(id, c) || fuzzy.MatchNormalizedFold(c, id) {
			matches = append(matches, match{id: c, distance: fuzzy.LevenshteinDistance(id, c)})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].id < matches[j].id
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.id
	}
	return out
}

// NotFound returns domain.ErrProgramNotFound for id, naming the closest IDs loader knows.
func NotFound(ctx context.Context, loader ports.ProgramLoader, id string) error {
	ids, err := loader.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrProgramNotFound, id)
	}
	similar := Similar(id, ids, DefaultLimit)
	if len(similar) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProgramNotFound, id)
	}
	return fmt.Errorf("%w: %s (did you mean %s?)", domain.ErrProgramNotFound, id, strings.Join(similar, ", "))
}
