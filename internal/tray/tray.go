// Package tray provides the system tray menu for starting and watching
// detection sessions.
package tray

import (
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/session"
)

// Controls is what the tray drives.
type Controls interface {
	Detect() error
	StopActive() bool
}

// Tray represents the system tray application. It observes sessions to
// keep its menu current.
type Tray struct {
	controls    Controls
	onDashboard func()
	onQuit      func()
	onError     func(error)
	mu          sync.RWMutex

	running bool
	last    string

	// Menu items stored for later updates
	menuDetect *systray.MenuItem
	menuLast   *systray.MenuItem
}

// New creates a new Tray over controls.
func New(controls Controls) *Tray {
	return &Tray{controls: controls}
}

// OnDashboard sets the callback for the dashboard menu item.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// OnError sets the callback for failed Detect requests.
func (t *Tray) OnError(fn func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onError = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra finger-count gestures")

	t.mu.Lock()
	t.menuDetect = systray.AddMenuItem(detectTitle(t.running), "Start or stop a detection session")
	systray.AddSeparator()

	t.menuLast = systray.AddMenuItem(lastTitle(t.last), "Last gesture status")
	t.menuLast.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuDetect.ClickedCh:
				t.handleDetect()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// handleDetect starts a session, or stops the running one.
func (t *Tray) handleDetect() {
	t.mu.RLock()
	running := t.running
	onError := t.onError
	t.mu.RUnlock()

	if running {
		t.controls.StopActive()
		return
	}
	if err := t.controls.Detect(); err != nil && onError != nil {
		onError(err)
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// OnCycle shows the latest status text.
func (t *Tray) OnCycle(res session.CycleResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if res.Text == t.last {
		return
	}
	t.last = res.Text
	if t.menuLast != nil {
		t.menuLast.SetTitle(lastTitle(t.last))
	}
}

// SessionStarted switches the detect item to stop.
func (t *Tray) SessionStarted(string, time.Time) {
	t.setRunning(true)
}

// SessionStopped switches the detect item back.
func (t *Tray) SessionStopped(session.Summary) {
	t.setRunning(false)
}

func (t *Tray) setRunning(running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = running
	if t.menuDetect != nil {
		t.menuDetect.SetTitle(detectTitle(running))
	}
}

// Running reports whether a session is active.
func (t *Tray) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// Last returns the latest status text.
func (t *Tray) Last() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

func detectTitle(running bool) string {
	if running {
		return "■ Stop Detection"
	}
	return "▶ Detect"
}

func lastTitle(text string) string {
	if text == "" {
		return "Last: none"
	}
	return "Last: " + text
}
