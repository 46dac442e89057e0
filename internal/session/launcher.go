package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	// ErrSessionActive is returned when a session is requested while one is
	// already starting or running.
	ErrSessionActive = errors.New("a detection session is already active")
	// ErrLauncherClosed is returned by Detect after Close.
	ErrLauncherClosed = errors.New("launcher is closed")
)

// Factory builds the Controller for a new session.
type Factory func() (*Controller, error)

// Status is a point-in-time view of the launcher.
type Status struct {
	State     State        `json:"state"`
	SessionID string       `json:"session_id,omitempty"`
	Cycles    int          `json:"cycles"`
	Last      *CycleResult `json:"last,omitempty"`
	Previous  *Summary     `json:"previous,omitempty"`
}

// Launcher runs sessions one at a time on a single worker goroutine.
// Detect hands the worker a start request and returns immediately.
type Launcher struct {
	factory  Factory
	logger   *slog.Logger
	requests chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}

	mu       sync.Mutex
	pending  bool
	closed   bool
	active   *Controller
	previous *Summary
}

// NewLauncher starts the worker goroutine.
func NewLauncher(factory Factory, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &Launcher{
		factory:  factory,
		logger:   logger,
		requests: make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go l.worker()
	return l
}

// Detect requests a new session. It never blocks on the session itself.
func (l *Launcher) Detect() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLauncherClosed
	}
	if l.pending || l.active != nil {
		return ErrSessionActive
	}
	l.pending = true
	l.requests <- struct{}{}
	return nil
}

// StopActive asks the running session, if any, to stop.
func (l *Launcher) StopActive() bool {
	l.mu.Lock()
	c := l.active
	l.mu.Unlock()

	if c == nil {
		return false
	}
	c.Stop()
	return true
}

// Status reports the active session, or the last one when idle.
func (l *Launcher) Status() Status {
	l.mu.Lock()
	c := l.active
	prev := l.previous
	pending := l.pending
	l.mu.Unlock()

	st := Status{State: StateIdle, Previous: prev}
	if c == nil {
		if pending {
			st.State = StateRunning
		}
		return st
	}

	sum := c.Summary()
	st.State = c.State()
	st.SessionID = sum.ID
	st.Cycles = sum.Cycles
	if last, ok := c.Last(); ok {
		st.Last = &last
	}
	return st
}

// Close cancels the running session and waits for the worker to exit.
func (l *Launcher) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.closed = true
	close(l.requests)
	l.mu.Unlock()

	l.cancel()
	<-l.done
}

func (l *Launcher) worker() {
	defer close(l.done)

	for range l.requests {
		if l.ctx.Err() != nil {
			return
		}
		l.runOne()
	}
}

func (l *Launcher) runOne() {
	c, err := l.factory()
	if err != nil {
		l.logger.Error("cannot build detection session", "error", err)
		l.mu.Lock()
		l.pending = false
		l.mu.Unlock()
		return
	}

	l.mu.Lock()
	l.active = c
	l.pending = false
	l.mu.Unlock()

	if err := c.Run(l.ctx); err != nil {
		l.logger.Error("detection session ended with error", "session", c.ID(), "error", err)
	}

	sum := c.Summary()
	l.mu.Lock()
	l.active = nil
	l.previous = &sum
	l.mu.Unlock()
}
