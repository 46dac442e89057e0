// Package fps measures the instantaneous cycle rate of the detection loop.
package fps

import (
	"sync"
	"time"
)

// Monitor computes a rate from the time between consecutive ticks.
type Monitor struct {
	mu   sync.Mutex
	prev time.Time
}

// NewMonitor creates a Monitor with no previous tick.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Tick records now and returns 1/elapsed seconds since the previous tick.
// The first tick, and any tick with zero elapsed time, returns 0.
func (m *Monitor) Tick(now time.Time) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.prev
	m.prev = now

	if prev.IsZero() {
		return 0
	}

	elapsed := now.Sub(prev).Seconds()
	if elapsed == 0 {
		return 0
	}
	return 1 / elapsed
}

// Reset forgets the previous tick.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prev = time.Time{}
}
