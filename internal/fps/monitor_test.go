package fps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_FirstTick(t *testing.T) {
	m := NewMonitor()
	assert.Zero(t, m.Tick(time.Now()))
}

func TestMonitor_Rate(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{name: "half second", elapsed: 500 * time.Millisecond, want: 2.0},
		{name: "thirty fps", elapsed: time.Second / 30, want: 30.0},
		{name: "two seconds", elapsed: 2 * time.Second, want: 0.5},
		{name: "zero elapsed", elapsed: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor()
			start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

			m.Tick(start)
			got := m.Tick(start.Add(tt.elapsed))

			assert.InDelta(t, tt.want, got, 1e-3)
		})
	}
}

func TestMonitor_UsesPreviousTickOnly(t *testing.T) {
	m := NewMonitor()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	m.Tick(start)
	m.Tick(start.Add(time.Second))
	got := m.Tick(start.Add(1250 * time.Millisecond))

	assert.InDelta(t, 4.0, got, 1e-6)
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	now := time.Now()

	m.Tick(now)
	m.Reset()

	assert.Zero(t, m.Tick(now.Add(time.Second)))
}
