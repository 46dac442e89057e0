package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newIsolated loads settings without seeing config files from the machine
// running the tests.
func newIsolated(t *testing.T) *Settings {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	s, err := Load(New(), "")
	require.NoError(t, err)
	return s
}

func TestLoad_Defaults(t *testing.T) {
	s := newIsolated(t)

	assert.Equal(t, 0, s.Camera.Device)
	assert.Equal(t, 640, s.Camera.Width)
	assert.Equal(t, 480, s.Camera.Height)
	assert.Equal(t, 30, s.Camera.FPS)

	assert.False(t, s.Detector.StaticMode)
	assert.Equal(t, 2, s.Detector.MaxHands)
	assert.InDelta(t, 0.75, s.Detector.DetectionConfidence, 1e-9)
	assert.InDelta(t, 0.5, s.Detector.TrackingConfidence, 1e-9)
	assert.True(t, s.Detector.Draw)

	assert.True(t, s.Display.Enabled)
	assert.Equal(t, "Hand Gesture Detection", s.Display.Window)
	assert.Equal(t, "q", s.Display.QuitKey)

	assert.Equal(t, "level", s.Action.Mode)
	assert.Equal(t, "robotgo", s.Keyboard.Backend)
	assert.Equal(t, "keyboard", s.Keyboard.Plugin)
	assert.Equal(t, 2*time.Second, s.Keyboard.Timeout)

	assert.True(t, s.Server.Enabled)
	assert.Equal(t, ":8080", s.Server.Listen)
	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "mudra.db", filepath.Base(s.Store.Path))
}

func TestLoad_ConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	yaml := []byte("camera:\n  device: 2\naction:\n  mode: edge\nserver:\n  listen: 127.0.0.1:9000\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("MUDRA_KEYBOARD_BACKEND", "none")

	s, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, s.Camera.Device)
	assert.Equal(t, "edge", s.Action.Mode)
	assert.Equal(t, "127.0.0.1:9000", s.Server.Listen)
	assert.Equal(t, "none", s.Keyboard.Backend)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := newIsolated(t)

	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"zero width", func(s *Settings) { s.Camera.Width = 0 }},
		{"zero fps", func(s *Settings) { s.Camera.FPS = 0 }},
		{"no hands", func(s *Settings) { s.Detector.MaxHands = 0 }},
		{"confidence above one", func(s *Settings) { s.Detector.DetectionConfidence = 1.5 }},
		{"zero tracking confidence", func(s *Settings) { s.Detector.TrackingConfidence = 0 }},
		{"long quit key", func(s *Settings) { s.Display.QuitKey = "esc" }},
		{"bad mode", func(s *Settings) { s.Action.Mode = "toggle" }},
		{"bad backend", func(s *Settings) { s.Keyboard.Backend = "xdotool" }},
		{"empty listen", func(s *Settings) { s.Server.Listen = "" }},
	}

	require.NoError(t, Validate(base))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := *base
			tt.mutate(&s)
			assert.Error(t, Validate(&s))
		})
	}
}
