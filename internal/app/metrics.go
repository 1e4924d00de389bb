package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts what happened during an editing session. The counters
// are logged when the session ends.
type Metrics struct {
	// Input handling
	keyCount    atomic.Uint64
	insertCount atomic.Uint64
	deleteCount atomic.Uint64

	// Output
	redrawCount atomic.Uint64

	// Persistence
	saveCount    atomic.Uint64
	saveFailures atomic.Uint64
	bytesWritten atomic.Uint64
	saveTotalNs  atomic.Int64

	// Start time for uptime calculation
	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordKey records a key event read from the terminal.
func (m *Metrics) RecordKey() {
	m.keyCount.Add(1)
}

// RecordInsert records a rune appended to the buffer.
func (m *Metrics) RecordInsert() {
	m.insertCount.Add(1)
}

// RecordDelete records a rune removed from the buffer.
func (m *Metrics) RecordDelete() {
	m.deleteCount.Add(1)
}

// RecordRedraw records a full redraw of the text area.
func (m *Metrics) RecordRedraw() {
	m.redrawCount.Add(1)
}

// RecordSave records a successful save of n bytes.
func (m *Metrics) RecordSave(n int, duration time.Duration) {
	m.saveCount.Add(1)
	m.bytesWritten.Add(uint64(n))
	m.saveTotalNs.Add(duration.Nanoseconds())
}

// RecordSaveFailure records a failed save.
func (m *Metrics) RecordSaveFailure() {
	m.saveFailures.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	saves := m.saveCount.Load()

	var avgSaveNs int64
	if saves > 0 {
		avgSaveNs = m.saveTotalNs.Load() / int64(saves)
	}

	return MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		Keys:         m.keyCount.Load(),
		Inserts:      m.insertCount.Load(),
		Deletes:      m.deleteCount.Load(),
		Redraws:      m.redrawCount.Load(),
		Saves:        saves,
		SaveFailures: m.saveFailures.Load(),
		BytesWritten: m.bytesWritten.Load(),
		AvgSaveNs:    avgSaveNs,
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	Keys         uint64
	Inserts      uint64
	Deletes      uint64
	Redraws      uint64
	Saves        uint64
	SaveFailures uint64
	BytesWritten uint64
	AvgSaveNs    int64
}

// Fields returns the snapshot as logger fields.
func (s MetricsSnapshot) Fields() map[string]any {
	return map[string]any{
		"uptime":       s.Uptime.Round(time.Millisecond),
		"keys":         s.Keys,
		"inserts":      s.Inserts,
		"deletes":      s.Deletes,
		"redraws":      s.Redraws,
		"saves":        s.Saves,
		"saveFailures": s.SaveFailures,
		"bytesWritten": s.BytesWritten,
	}
}

// Timer provides a simple way to measure elapsed time.
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
