package monitor

import (
	"sync"
	"time"
)

// Invocation statuses shown on the dashboard.
const (
	StatusOpen   = "open"
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// DashboardData provides a real-time snapshot of open and closed
// outcomes.
type DashboardData struct {
	mu          sync.RWMutex
	RunID       string                     `json:"run_id"`
	StartTime   time.Time                  `json:"start_time"`
	Invocations map[string]InvocationState `json:"invocations"`
	Summary     DashboardSummary           `json:"summary"`
}

// InvocationState is the dashboard view of one outcome.
type InvocationState struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	Failures    int           `json:"failures"`
	Fatal       bool          `json:"fatal,omitempty"`
	LastFailure string        `json:"last_failure,omitempty"`
	StartTime   *time.Time    `json:"start_time,omitempty"`
	EndTime     *time.Time    `json:"end_time,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Total    int     `json:"total"`
	Open     int     `json:"open"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Failures int     `json:"failures"`
	PassRate float64 `json:"pass_rate"`
	Elapsed  string  `json:"elapsed"`
}

// NewDashboardData creates a new dashboard data instance.
func NewDashboardData(runID string) *DashboardData {
	return &DashboardData{
		RunID:       runID,
		StartTime:   time.Now(),
		Invocations: make(map[string]InvocationState),
	}
}

// UpdateFromEvent updates dashboard state from an outcome event.
func (d *DashboardData) UpdateFromEvent(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ts := event.Timestamp
	state, exists := d.Invocations[event.InvocationID]
	if !exists {
		state = InvocationState{ID: event.InvocationID, Status: StatusOpen}
	}

	switch event.Type {
	case EventOpened:
		state.Status = StatusOpen
		state.StartTime = &ts
	case EventFailure, EventFatal:
		state.Failures++
		state.Fatal = state.Fatal || event.Type == EventFatal
		state.LastFailure = event.Expected
		if event.Expression != "" {
			state.LastFailure = event.Expression + ": " + event.Expected
		}
	case EventClosed:
		state.Status = StatusPassed
		if event.Failed {
			state.Status = StatusFailed
		}
		state.EndTime = &ts
		state.Duration = event.Duration
	}

	d.Invocations[event.InvocationID] = state
	d.recalcSummary()
}

func (d *DashboardData) recalcSummary() {
	s := DashboardSummary{}
	for _, inv := range d.Invocations {
		s.Total++
		s.Failures += inv.Failures
		switch inv.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		default:
			s.Open++
		}
	}
	if closed := s.Passed + s.Failed; closed > 0 {
		s.PassRate = float64(s.Passed) / float64(closed) * 100
	}
	s.Elapsed = time.Since(d.StartTime).Round(time.Millisecond).String()
	d.Summary = s
}

// Snapshot returns a copy of the current dashboard state.
func (d *DashboardData) Snapshot() *DashboardData {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := &DashboardData{
		RunID:       d.RunID,
		StartTime:   d.StartTime,
		Invocations: make(map[string]InvocationState, len(d.Invocations)),
		Summary:     d.Summary,
	}
	for k, v := range d.Invocations {
		snap.Invocations[k] = v
	}
	return snap
}

// BuildDashboardData creates a DashboardData by replaying all
// events collected so far.
func BuildDashboardData(runID string, collector *EventCollector) *DashboardData {
	data := NewDashboardData(runID)
	for _, event := range collector.Events() {
		data.UpdateFromEvent(event)
	}
	return data
}
