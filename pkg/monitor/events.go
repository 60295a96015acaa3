// Package monitor streams outcome lifecycle events to live
// dashboards.
package monitor

import (
	"time"
)

// EventType represents the type of outcome event.
type EventType string

const (
	EventOpened  EventType = "opened"
	EventFailure EventType = "failure"
	EventFatal   EventType = "fatal"
	EventClosed  EventType = "closed"
)

// Event represents a lifecycle event of one outcome.
type Event struct {
	Type         EventType     `json:"type"`
	InvocationID string        `json:"invocation_id"`
	Expression   string        `json:"expression,omitempty"`
	Expected     string        `json:"expected,omitempty"`
	Actual       string        `json:"actual,omitempty"`
	Message      string        `json:"message,omitempty"`
	Context      string        `json:"context,omitempty"`
	Failed       bool          `json:"failed,omitempty"`
	Failures     int           `json:"failures,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}
