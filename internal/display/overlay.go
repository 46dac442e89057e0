package display

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Overlay text positions.
var (
	StatusOrigin = image.Pt(20, 40)
	FPSOrigin    = image.Pt(20, 75)

	// blue status, green frame rate
	statusColor = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	fpsColor    = color.RGBA{R: 0, G: 255, B: 0, A: 0}
)

const (
	statusScale = 1.0
	fpsScale    = 0.8
	thickness   = 2
)

// FormatFPS renders the frame rate the way it appears on screen.
func FormatFPS(fps float64) string {
	return fmt.Sprintf("FPS: %.1f", fps)
}

// DrawStatus writes the status text (if any) and the frame rate onto frame.
func DrawStatus(frame *gocv.Mat, status string, fps float64) {
	if frame == nil || frame.Empty() {
		return
	}
	if status != "" {
		gocv.PutTextWithParams(frame, status, StatusOrigin, gocv.FontHersheySimplex, statusScale, statusColor, thickness, gocv.LineAA, false)
	}
	gocv.PutTextWithParams(frame, FormatFPS(fps), FPSOrigin, gocv.FontHersheySimplex, fpsScale, fpsColor, thickness, gocv.LineAA, false)
}
