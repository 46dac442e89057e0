package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/fps"
	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultQuitKey stops a session when pressed in the display window.
const DefaultQuitKey = 'q'

// keyPollMs is how long each cycle waits for a key press.
const keyPollMs = 1

// Options wires the collaborators a Controller owns for its lifetime.
type Options struct {
	Camera     capture.Camera
	Provider   detector.Provider
	Display    display.Display
	Dispatcher *action.Dispatcher
	Monitor    *fps.Monitor

	// Draw overlays hand landmarks on the frame before it is shown.
	Draw    bool
	QuitKey byte

	Observers []Observer
	Logger    *slog.Logger

	// Now is the clock used for frame-rate measurement.
	Now func() time.Time
}

// Controller runs one detection session: open the camera, loop over
// frames until quit or failure, then release everything once.
type Controller struct {
	id         string
	camera     capture.Camera
	provider   detector.Provider
	display    display.Display
	dispatcher *action.Dispatcher
	monitor    *fps.Monitor
	draw       bool
	quitKey    byte
	observers  []Observer
	logger     *slog.Logger
	now        func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}

	mu        sync.Mutex
	state     State
	reason    StopReason
	err       error
	startedAt time.Time
	stoppedAt time.Time
	cycles    int
	last      CycleResult
}

// NewController creates an idle Controller with a fresh session ID.
func NewController(opts Options) (*Controller, error) {
	if opts.Camera == nil {
		return nil, errors.New("session: camera is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("session: landmark provider is required")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("session: dispatcher is required")
	}
	if opts.Display == nil {
		opts.Display = display.Headless{}
	}
	if opts.Monitor == nil {
		opts.Monitor = fps.NewMonitor()
	}
	if opts.QuitKey == 0 {
		opts.QuitKey = DefaultQuitKey
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	id := uuid.NewString()
	return &Controller{
		id:         id,
		camera:     opts.Camera,
		provider:   opts.Provider,
		display:    opts.Display,
		dispatcher: opts.Dispatcher,
		monitor:    opts.Monitor,
		draw:       opts.Draw,
		quitKey:    opts.QuitKey,
		observers:  opts.Observers,
		logger:     opts.Logger.With("session", id),
		now:        opts.Now,
		stopCh:     make(chan struct{}),
		state:      StateIdle,
	}, nil
}

// ID returns the session ID.
func (c *Controller) ID() string {
	return c.id
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reason returns why the session stopped, or ReasonNone while it has not.
func (c *Controller) Reason() StopReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Last returns the most recent cycle result.
func (c *Controller) Last() (CycleResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.cycles > 0
}

// Summary describes the session so far.
func (c *Controller) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summaryLocked()
}

func (c *Controller) summaryLocked() Summary {
	return Summary{
		ID:        c.id,
		StartedAt: c.startedAt,
		StoppedAt: c.stoppedAt,
		Cycles:    c.cycles,
		Reason:    c.reason,
		Err:       c.err,
	}
}

func (c *Controller) transition(next State) error {
	if !allowedTransition(c.state, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, next)
	}
	c.state = next
	return nil
}

// Start opens the camera and moves the session to running. If the device
// cannot be opened the session stops immediately with the open error. A
// Stop that arrives while the camera opens takes effect before the first
// cycle of Run.
func (c *Controller) Start() error {
	c.mu.Lock()
	err := c.transition(StateStarting)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if err := c.camera.Open(); err != nil {
		if !errors.Is(err, capture.ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %v", capture.ErrDeviceUnavailable, err)
		}
		c.logger.Error("cannot open camera", "error", err)
		c.finish(ReasonDeviceUnavailable, err, false)
		return err
	}

	c.mu.Lock()
	if err := c.transition(StateRunning); err != nil {
		c.mu.Unlock()
		if cerr := c.camera.Close(); cerr != nil {
			c.logger.Warn("camera close failed", "error", cerr)
		}
		return err
	}
	c.startedAt = c.now()
	startedAt := c.startedAt
	c.mu.Unlock()

	c.logger.Info("session started")
	for _, o := range c.observers {
		if lo, ok := o.(LifecycleObserver); ok {
			lo.SessionStarted(c.id, startedAt)
		}
	}
	return nil
}

// Run starts the session if needed and loops until the quit key is pressed,
// a frame cannot be read, Stop is called, or ctx is done. It returns the
// error that ended the session, nil for a normal stop.
func (c *Controller) Run(ctx context.Context) error {
	if c.State() == StateIdle {
		if err := c.Start(); err != nil {
			// Stopped by Stop before it could start.
			if errors.Is(err, ErrInvalidTransition) && c.State() == StateStopped {
				return nil
			}
			return err
		}
	}

	for {
		if c.State() != StateRunning {
			return nil
		}

		select {
		case <-ctx.Done():
			c.finish(ReasonContext, nil, true)
			return nil
		case <-c.stopCh:
			c.finish(ReasonRequested, nil, true)
			return nil
		default:
		}

		quit, err := c.Cycle()
		if err != nil {
			c.logger.Error("frame read failed, stopping session", "error", err)
			c.finish(ReasonFrameRead, err, true)
			return err
		}
		if quit {
			c.finish(ReasonQuit, nil, true)
			return nil
		}
	}
}

// Stop asks the session to end. A starting or running session stops
// before its next cycle; an idle session stops at once. It is a no-op once
// stopped.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	c.finishFrom(StateIdle, ReasonRequested, nil, false)
}

// finish releases the session's resources exactly once.
func (c *Controller) finish(reason StopReason, err error, opened bool) {
	c.finishFrom("", reason, err, opened)
}

// finishFrom is finish restricted to sessions currently in state from. An
// empty from matches any state.
func (c *Controller) finishFrom(from State, reason StopReason, err error, opened bool) {
	c.mu.Lock()
	if c.state == StateStopped || (from != "" && c.state != from) {
		c.mu.Unlock()
		return
	}
	if terr := c.transition(StateStopped); terr != nil {
		c.mu.Unlock()
		c.logger.Error("stop rejected", "error", terr)
		return
	}
	c.reason = reason
	c.err = err
	c.stoppedAt = c.now()
	summary := c.summaryLocked()
	c.mu.Unlock()

	if opened {
		if cerr := c.camera.Close(); cerr != nil {
			c.logger.Warn("camera close failed", "error", cerr)
		}
	}
	if derr := c.display.Close(); derr != nil {
		c.logger.Warn("display close failed", "error", derr)
	}
	if perr := c.provider.Close(); perr != nil {
		c.logger.Warn("landmark provider close failed", "error", perr)
	}

	c.logger.Info("session stopped", "reason", string(reason), "cycles", summary.Cycles)
	for _, o := range c.observers {
		if lo, ok := o.(LifecycleObserver); ok {
			lo.SessionStopped(summary)
		}
	}
}

// Cycle runs one pass of the loop and reports whether the quit key was
// pressed. A returned error means the frame source failed.
func (c *Controller) Cycle() (bool, error) {
	frame, err := c.camera.ReadFrame()
	if err != nil {
		if !errors.Is(err, capture.ErrFrameRead) {
			err = fmt.Errorf("%w: %v", capture.ErrFrameRead, err)
		}
		return false, err
	}
	defer frame.Close()

	hands, err := c.provider.Detect(frame)
	if err != nil {
		c.logger.Warn("hand detection failed", "error", err)
		hands = nil
	}
	if c.draw {
		detector.Annotate(frame, hands)
	}

	res := CycleResult{
		SessionID: c.id,
		Time:      c.now(),
		Hands:     len(hands),
	}

	if len(hands) > 0 {
		fingers := gesture.Extract(hands[0])
		label := gesture.Classify(fingers)
		d := c.dispatcher.Dispatch(label)

		res.HandSeen = true
		res.Fingers = fingers
		res.Label = label
		res.Key = d.Key
		res.Text = d.Text
		res.Fired = d.Fired
	} else if c.dispatcher.Mode() == action.ModeEdge {
		c.dispatcher.Reset()
	}

	res.FPS = c.monitor.Tick(res.Time)

	display.DrawStatus(frame, res.Text, res.FPS)
	c.display.Show(frame)

	c.mu.Lock()
	c.cycles++
	res.Seq = c.cycles
	c.last = res
	c.mu.Unlock()

	c.publish(res, frame)

	key := c.display.PollKey(keyPollMs)
	return key != display.NoKey && byte(key) == c.quitKey, nil
}

func (c *Controller) publish(res CycleResult, frame *gocv.Mat) {
	for _, o := range c.observers {
		o.OnCycle(res)
		if fo, ok := o.(FrameObserver); ok {
			fo.OnFrame(frame)
		}
	}
}
