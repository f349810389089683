package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/quicklog/internal/quicklog/placement"
)

// Metrics counts QuickLog actions over the life of a process.
type Metrics struct {
	inserts      atomic.Uint64
	insertNs     atomic.Int64
	byMode       [4]atomic.Uint64
	cleanRuns    atomic.Uint64
	linesRemoved atomic.Uint64
	declined     atomic.Uint64
	notFound     atomic.Uint64
	failures     atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordInsert records a completed insertion.
func (m *Metrics) RecordInsert(mode placement.Mode, d time.Duration) {
	m.inserts.Add(1)
	m.insertNs.Add(d.Nanoseconds())
	if int(mode) < len(m.byMode) {
		m.byMode[mode].Add(1)
	}
}

// RecordClean records one cleanup invocation.
func (m *Metrics) RecordClean(found, removed int, declined bool) {
	m.cleanRuns.Add(1)
	switch {
	case found == 0:
		m.notFound.Add(1)
	case declined:
		m.declined.Add(1)
	default:
		m.linesRemoved.Add(uint64(removed))
	}
}

// RecordFailure records an action that returned an error.
func (m *Metrics) RecordFailure() {
	m.failures.Add(1)
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	Inserts       uint64
	AvgInsertNs   int64
	InsertsByMode map[string]uint64
	CleanRuns     uint64
	LinesRemoved  uint64
	Declined      uint64
	NotFound      uint64
	Failures      uint64
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	inserts := m.inserts.Load()
	var avg int64
	if inserts > 0 {
		avg = m.insertNs.Load() / int64(inserts)
	}

	byMode := make(map[string]uint64, len(m.byMode))
	for i := range m.byMode {
		if n := m.byMode[i].Load(); n > 0 {
			byMode[placement.Mode(i).String()] = n
		}
	}

	return MetricsSnapshot{
		Uptime:        time.Since(m.startTime),
		Inserts:       inserts,
		AvgInsertNs:   avg,
		InsertsByMode: byMode,
		CleanRuns:     m.cleanRuns.Load(),
		LinesRemoved:  m.linesRemoved.Load(),
		Declined:      m.declined.Load(),
		NotFound:      m.notFound.Load(),
		Failures:      m.failures.Load(),
	}
}

// Timer measures elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
