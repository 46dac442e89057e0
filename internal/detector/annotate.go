package detector

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/hand"
)

var (
	landmarkColor   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	connectionColor = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// Annotate draws each hand's landmarks and bone connections onto frame.
func Annotate(frame *gocv.Mat, hands []hand.Observation) {
	if frame == nil || frame.Empty() {
		return
	}

	for _, h := range hands {
		for _, c := range hand.Connections {
			a, b := h.Points[c[0]], h.Points[c[1]]
			gocv.Line(frame, image.Pt(a.X, a.Y), image.Pt(b.X, b.Y), connectionColor, 2)
		}
		for _, p := range h.Points {
			gocv.Circle(frame, image.Pt(p.X, p.Y), 4, landmarkColor, -1)
		}
	}
}
