package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep EventType = "step"
	EventHalt EventType = "halt"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Program   string    `json:"program,omitempty"`
}

// StepEvent is emitted before the path of a state is applied.
type StepEvent struct {
	EventBase
	Iteration int    `json:"iteration"`
	State     int    `json:"state"`
	Cell      bool   `json:"cell"`
	Path      string `json:"path"`
	Cursor    int    `json:"cursor"`
}

// HaltEvent is emitted once a run stops, successfully or not.
type HaltEvent struct {
	EventBase
	Result *Result `json:"result"`
	Err    error   `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStep func(context.Context, *StepEvent)
	OnHalt func(context.Context, *HaltEvent)
}
