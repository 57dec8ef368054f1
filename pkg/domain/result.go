package domain

// HaltReason describes why a run stopped.
type HaltReason string

const (
	// HaltEnd means the machine reached an END state.
	HaltEnd HaltReason = "end"
	// HaltLeftEdge means the cursor ran off index 0 and was clamped back.
	HaltLeftEdge HaltReason = "left_edge"
	// HaltRightEdge means the cursor ran past the last index and was clamped back.
	HaltRightEdge HaltReason = "right_edge"
	// HaltAborted means the run stopped on an error (bad jump, step limit, cancellation).
	HaltAborted HaltReason = "aborted"
)

// Result is the observable outcome of one run.
type Result struct {
	Tape       Tape       `json:"tape"`
	Cursor     int        `json:"cursor"`
	Iterations int        `json:"iterations"`
	Reason     HaltReason `json:"reason"`
	// State is the ordinal of the state the machine was in when it stopped.
	State int `json:"state"`
}

// Output renders the final tape as a '0'/'1' string.
func (r *Result) Output() string {
	return r.Tape.String()
}
