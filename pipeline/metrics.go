package pipeline

import (
	"sync/atomic"
	"time"
)

func nowNano() int64 { return time.Now().UnixNano() }

// Metrics tracks an event counter (one per order in each processed feed
// batch) and a batch counter alongside a start/stop wall time, used to
// derive events/second. Submitted-order counts and engine latency are
// read directly from the engine's own counters; Metrics does not
// duplicate them.
type Metrics struct {
	startedAt time.Time
	stoppedAt atomic.Int64 // UnixNano; 0 while running

	events  atomic.Uint64
	batches atomic.Uint64
}

// NewMetrics starts the wall-clock clock immediately.
func NewMetrics() *Metrics {
	return &Metrics{startedAt: time.Now()}
}

func (m *Metrics) recordEvents(n int) {
	m.events.Add(uint64(n))
	m.batches.Add(1)
}

// Stop freezes the wall-clock window used by EventsPerSecond.
func (m *Metrics) Stop() {
	m.stoppedAt.CompareAndSwap(0, time.Now().UnixNano())
}

// Events returns the cumulative count of order events processed.
func (m *Metrics) Events() uint64 { return m.events.Load() }

// Batches returns the cumulative count of batches processed.
func (m *Metrics) Batches() uint64 { return m.batches.Load() }

// EventsPerSecond divides the cumulative event count by elapsed wall
// time. Elapsed time is clamped to a minimum of one nanosecond so a call
// made immediately after NewMetrics never divides by zero.
func (m *Metrics) EventsPerSecond() float64 {
	end := time.Now()
	if stopped := m.stoppedAt.Load(); stopped != 0 {
		end = time.Unix(0, stopped)
	}
	elapsed := end.Sub(m.startedAt)
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	return float64(m.events.Load()) / elapsed.Seconds()
}
