// Package detector locates hands in video frames and reports their landmarks.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/hand"
)

// Provider defines the interface for hand landmark providers.
type Provider interface {
	// Detect analyzes a video frame and returns the hands found in it, in
	// pixel coordinates of the frame. Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]hand.Observation, error)

	// Close releases any resources held by the provider.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// StaticMode treats every frame as an unrelated image instead of tracking.
	StaticMode bool

	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinDetectionConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinDetectionConfidence float64

	// MinTrackingConfidence is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConfidence float64
}

// DefaultConfig returns a Config with the model's default values.
func DefaultConfig() Config {
	return Config{
		StaticMode:             false,
		MaxHands:               2,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxHands <= 0 {
		c.MaxHands = d.MaxHands
	}
	if c.MinDetectionConfidence <= 0 || c.MinDetectionConfidence > 1 {
		c.MinDetectionConfidence = d.MinDetectionConfidence
	}
	if c.MinTrackingConfidence <= 0 || c.MinTrackingConfidence > 1 {
		c.MinTrackingConfidence = d.MinTrackingConfidence
	}
	return c
}
