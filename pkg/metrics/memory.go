package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Latencies are tracked in microseconds, from 1µs to 60s, with
// three significant digits.
const (
	minLatencyMicros = 1
	maxLatencyMicros = 60_000_000
	latencySigFigs   = 3
)

// InMemoryMetrics implements Recorder with counters and latency
// histograms held in memory. Host applications export them by
// reading a Snapshot.
type InMemoryMetrics struct {
	mu          sync.RWMutex
	evaluations map[string]int
	latencies   map[string]*hdrhistogram.Histogram
	failures    map[bool]int
	verdicts    map[bool]int
	recorded    int
	active      int
}

// NewInMemoryMetrics creates a new InMemoryMetrics instance.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		evaluations: make(map[string]int),
		latencies:   make(map[string]*hdrhistogram.Histogram),
		failures:    make(map[bool]int),
		verdicts:    make(map[bool]int),
	}
}

func evaluationKey(matcher string, matched bool) string {
	if matched {
		return matcher + ":match"
	}
	return matcher + ":no_match"
}

// RecordEvaluation implements Recorder.
func (m *InMemoryMetrics) RecordEvaluation(
	matcher string,
	matched bool,
	duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evaluations[evaluationKey(matcher, matched)]++

	h, ok := m.latencies[matcher]
	if !ok {
		h = hdrhistogram.New(minLatencyMicros, maxLatencyMicros, latencySigFigs)
		m.latencies[matcher] = h
	}
	us := min(max(duration.Microseconds(), minLatencyMicros), maxLatencyMicros)
	_ = h.RecordValue(us)
}

// RecordFailure implements Recorder.
func (m *InMemoryMetrics) RecordFailure(fatal bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[fatal]++
}

// RecordVerdict implements Recorder.
func (m *InMemoryMetrics) RecordVerdict(failed bool, failures int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verdicts[failed]++
	m.recorded += failures
}

// SetActiveOutcomes implements Recorder.
func (m *InMemoryMetrics) SetActiveOutcomes(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

// EvaluationCount returns how often matcher produced the given
// result.
func (m *InMemoryMetrics) EvaluationCount(matcher string, matched bool) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.evaluations[evaluationKey(matcher, matched)]
}

// FailureCount returns the number of fatal or non-fatal failures.
func (m *InMemoryMetrics) FailureCount(fatal bool) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failures[fatal]
}

// VerdictCount returns the number of failed or passed verdicts.
func (m *InMemoryMetrics) VerdictCount(failed bool) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.verdicts[failed]
}

// ActiveOutcomes returns the open outcomes gauge.
func (m *InMemoryMetrics) ActiveOutcomes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// LatencyPercentile returns the evaluation latency of matcher at
// percentile p (0-100), or zero if it was never evaluated.
func (m *InMemoryMetrics) LatencyPercentile(matcher string, p float64) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.latencies[matcher]
	if !ok {
		return 0
	}
	return time.Duration(h.ValueAtQuantile(p)) * time.Microsecond
}

// MatcherStats summarizes the evaluations of one matcher kind.
type MatcherStats struct {
	Matcher string        `json:"matcher"`
	Matches int           `json:"matches"`
	Misses  int           `json:"misses"`
	P50     time.Duration `json:"p50"`
	P99     time.Duration `json:"p99"`
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Matchers         []MatcherStats `json:"matchers"`
	FatalFailures    int            `json:"fatal_failures"`
	NonFatalFailures int            `json:"non_fatal_failures"`
	PassedVerdicts   int            `json:"passed_verdicts"`
	FailedVerdicts   int            `json:"failed_verdicts"`
	RecordedFailures int            `json:"recorded_failures"`
	ActiveOutcomes   int            `json:"active_outcomes"`
}

// Snapshot returns a copy of the current metrics with matchers
// sorted by name.
func (m *InMemoryMetrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.latencies))
	for name := range m.latencies {
		names = append(names, name)
	}
	sort.Strings(names)

	snap := Snapshot{
		Matchers:         make([]MatcherStats, 0, len(names)),
		FatalFailures:    m.failures[true],
		NonFatalFailures: m.failures[false],
		PassedVerdicts:   m.verdicts[false],
		FailedVerdicts:   m.verdicts[true],
		RecordedFailures: m.recorded,
		ActiveOutcomes:   m.active,
	}
	for _, name := range names {
		h := m.latencies[name]
		snap.Matchers = append(snap.Matchers, MatcherStats{
			Matcher: name,
			Matches: m.evaluations[evaluationKey(name, true)],
			Misses:  m.evaluations[evaluationKey(name, false)],
			P50:     time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
			P99:     time.Duration(h.ValueAtQuantile(99)) * time.Microsecond,
		})
	}
	return snap
}
