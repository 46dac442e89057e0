// Package display shows annotated frames and reads the quit key.
package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// NoKey is returned by PollKey when no key was pressed.
const NoKey = -1

// Display renders frames for the user.
type Display interface {
	// Show renders frame. The frame is not retained.
	Show(frame *gocv.Mat)

	// PollKey waits up to timeoutMs for a key press and returns its code
	// masked to the low byte, or NoKey.
	PollKey(timeoutMs int) int

	Close() error
}

// Window is a Display backed by an OpenCV highgui window.
type Window struct {
	mu     sync.Mutex
	name   string
	win    *gocv.Window
	closed bool
}

// NewWindow creates a window titled name. The native window is created on first Show.
func NewWindow(name string) *Window {
	return &Window{name: name}
}

// Name returns the window title.
func (w *Window) Name() string {
	return w.name
}

func (w *Window) Show(frame *gocv.Mat) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || frame == nil || frame.Empty() {
		return
	}
	if w.win == nil {
		w.win = gocv.NewWindow(w.name)
	}
	w.win.IMShow(*frame)
}

func (w *Window) PollKey(timeoutMs int) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.win == nil || w.closed {
		return NoKey
	}
	if timeoutMs < 1 {
		timeoutMs = 1
	}
	key := w.win.WaitKey(timeoutMs)
	if key < 0 {
		return NoKey
	}
	return key & 0xFF
}

// Close destroys the window. Safe to call more than once.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.win == nil {
		return nil
	}
	err := w.win.Close()
	w.win = nil
	return err
}

// Headless discards frames and never reports a key.
type Headless struct{}

func (Headless) Show(*gocv.Mat) {}

func (Headless) PollKey(int) int { return NoKey }

func (Headless) Close() error { return nil }

// New returns a Window titled name when enabled, otherwise Headless.
func New(enabled bool, name string) Display {
	if !enabled {
		return Headless{}
	}
	return NewWindow(name)
}
