package domain

// TapeDiff represents the cells that changed between two tapes.
// It is designed to be serialized to JSON next to a run result.
type TapeDiff struct {
	// Changed lists the indices whose value differs, in ascending order.
	Changed []int `json:"changed"`

	// Set and Cleared split Changed by the value the cell ended with.
	Set     []int `json:"set,omitempty"`
	Cleared []int `json:"cleared,omitempty"`
}

// Diff calculates the difference between the tape a run started with and the one it ended with.
// Tapes never change length during a run; if they do differ, only the common prefix is compared.
func Diff(before, after Tape) *TapeDiff {
	diff := &TapeDiff{Changed: []int{}}

	n := len(before)
	if len(after) < n {
		n = len(after)
	}

	for i := 0; i < n; i++ {
		if before[i] == after[i] {
			continue
		}
		diff.Changed = append(diff.Changed, i)
		if after[i] {
			diff.Set = append(diff.Set, i)
		} else {
			diff.Cleared = append(diff.Cleared, i)
		}
	}

	return diff
}

// Empty reports whether no cell changed.
func (d *TapeDiff) Empty() bool {
	return d == nil || len(d.Changed) == 0
}
