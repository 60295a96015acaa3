package monitor

import (
	"sync"
	"time"

	"digital.vasic.matchers/pkg/outcome"
)

// EventCollector captures outcome events. It implements
// outcome.Observer, so it can be attached to every outcome with
// outcome.WithObserver.
type EventCollector struct {
	mu       sync.RWMutex
	events   []Event
	handlers []func(Event)
	stats    CollectorStats
}

var _ outcome.Observer = (*EventCollector)(nil)

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Opened    int           `json:"opened"`
	Closed    int           `json:"closed"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Failures  int           `json:"failures"`
	Fatal     int           `json:"fatal"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]Event, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *EventCollector) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	switch event.Type {
	case EventOpened:
		c.stats.Opened++
	case EventFailure:
		c.stats.Failures++
	case EventFatal:
		c.stats.Fatal++
	case EventClosed:
		c.stats.Closed++
		if event.Failed {
			c.stats.Failed++
		} else {
			c.stats.Passed++
		}
	}
	handlers := make([]func(Event), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// OutcomeOpened emits an opened event.
func (c *EventCollector) OutcomeOpened(id string) {
	c.Emit(Event{Type: EventOpened, InvocationID: id})
}

// FailureRecorded emits a failure or fatal event.
func (c *EventCollector) FailureRecorded(id string, f *outcome.Failure) {
	t := EventFailure
	if f.Fatal {
		t = EventFatal
	}
	c.Emit(Event{
		Type:         t,
		InvocationID: id,
		Expression:   f.Expression,
		Expected:     f.Expected,
		Actual:       f.Actual,
		Message:      f.Message,
		Context:      f.Context,
		Timestamp:    f.RecordedAt,
	})
}

// OutcomeClosed emits a closed event carrying the verdict.
func (c *EventCollector) OutcomeClosed(v outcome.Verdict) {
	c.Emit(Event{
		Type:         EventClosed,
		InvocationID: v.ID,
		Failed:       v.Failed,
		Failures:     len(v.All()),
		Duration:     v.Duration,
	})
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Event, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
