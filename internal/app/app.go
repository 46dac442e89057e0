// Package app wires configuration, storage, key injection and the dashboard
// around detection sessions.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/keyboard"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

// Options configures an App. Only Settings is required; the constructor
// fields replace hardware-backed components.
type Options struct {
	Settings  *config.Settings
	StaticDir string

	NewCamera   func(capture.Config) capture.Camera
	NewProvider func(detector.Config) (detector.Provider, error)
	NewDisplay  func(enabled bool, name string) display.Display
	Presser     keyboard.Presser
}

// App owns the long-lived components shared by every session.
type App struct {
	settings *config.Settings
	opts     Options
	logger   *slog.Logger

	store    *store.Store
	plugins  *plugin.Manager
	executor *plugin.Executor
	presser  keyboard.Presser
	metrics  *metrics.Metrics
	hub      *server.Hub
	frames   *server.FrameBuffer
	launcher *session.Launcher
	base     action.Table

	mu        sync.RWMutex
	observers []session.Observer
}

// New opens the store, discovers plugins and prepares the launcher.
func New(opts Options) (*App, error) {
	if opts.Settings == nil {
		return nil, errors.New("app: settings are required")
	}
	s := opts.Settings
	logger := logging.ForService("app")

	if opts.NewCamera == nil {
		opts.NewCamera = capture.NewCamera
	}
	if opts.NewProvider == nil {
		opts.NewProvider = func(c detector.Config) (detector.Provider, error) {
			return detector.NewMediaPipeDetector(c, logging.ForService("detector"))
		}
	}
	if opts.NewDisplay == nil {
		opts.NewDisplay = display.New
	}

	st, err := store.New(s.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	a := &App{
		settings: s,
		opts:     opts,
		logger:   logger,
		store:    st,
		base:     action.DefaultTable(),
	}

	if err := st.Bindings().SeedDefaults(a.base); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to seed bindings: %w", err)
	}

	a.plugins = plugin.NewManager(s.Plugins.Dir, logging.ForService("plugin"))
	if err := a.plugins.Discover(); err != nil {
		logger.Warn("plugin discovery failed", "dir", s.Plugins.Dir, "error", err)
	}
	a.executor = plugin.NewExecutor(s.Keyboard.Timeout)

	a.presser = opts.Presser
	if a.presser == nil {
		a.presser, err = keyboard.New(keyboard.Options{
			Backend:    s.Keyboard.Backend,
			PluginName: s.Keyboard.Plugin,
			Plugins:    a.plugins,
			Executor:   a.executor,
		})
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	a.metrics, err = metrics.New()
	if err != nil {
		st.Close()
		return nil, err
	}

	a.hub = server.NewHub(logging.ForService("events"))
	a.frames = server.NewFrameBuffer(logging.ForService("stream"))
	a.observers = []session.Observer{
		store.NewRecorder(st, logging.ForService("store")),
		a.metrics.Session,
		a.hub,
		a.frames,
	}

	a.launcher = session.NewLauncher(a.NewController, logging.ForService("launcher"))
	return a, nil
}

// AddObserver registers o for sessions created after the call.
func (a *App) AddObserver(o session.Observer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, o)
}

// NewController builds a session from the current settings and the stored
// bindings. Binding changes therefore apply to the next session.
func (a *App) NewController() (*session.Controller, error) {
	s := a.settings

	table, err := a.store.Bindings().Table(a.base)
	if err != nil {
		return nil, fmt.Errorf("failed to load bindings: %w", err)
	}
	mode, err := action.ParseMode(s.Action.Mode)
	if err != nil {
		return nil, err
	}

	provider, err := a.opts.NewProvider(detector.Config{
		StaticMode:             s.Detector.StaticMode,
		MaxHands:               s.Detector.MaxHands,
		MinDetectionConfidence: s.Detector.DetectionConfidence,
		MinTrackingConfidence:  s.Detector.TrackingConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("hand detector unavailable: %w", err)
	}

	camera := a.opts.NewCamera(capture.Config{
		DeviceID: s.Camera.Device,
		Width:    s.Camera.Width,
		Height:   s.Camera.Height,
		FPS:      s.Camera.FPS,
	})

	var quitKey byte
	if len(s.Display.QuitKey) == 1 {
		quitKey = s.Display.QuitKey[0]
	}

	a.mu.RLock()
	observers := append([]session.Observer(nil), a.observers...)
	a.mu.RUnlock()

	c, err := session.NewController(session.Options{
		Camera:     camera,
		Provider:   provider,
		Display:    a.opts.NewDisplay(s.Display.Enabled, s.Display.Window),
		Dispatcher: action.NewDispatcher(table, a.presser, mode, logging.ForService("action")),
		Draw:       s.Detector.Draw,
		QuitKey:    quitKey,
		Observers:  observers,
		Logger:     logging.ForService("session"),
	})
	if err != nil {
		provider.Close()
		return nil, err
	}
	return c, nil
}

// RunSession runs one session on the calling goroutine until it stops.
func (a *App) RunSession(ctx context.Context) (session.Summary, error) {
	c, err := a.NewController()
	if err != nil {
		return session.Summary{}, err
	}
	err = c.Run(ctx)
	return c.Summary(), err
}

// Server returns the dashboard over the app's components.
func (a *App) Server() *server.Server {
	return server.New(server.Config{
		StaticDir: a.opts.StaticDir,
		Store:     a.store,
		Bindings:  a.base,
		Launcher:  a.launcher,
		Events:    a.hub,
		Frames:    a.frames,
		Metrics:   a.metrics,
		Logger:    logging.ForService("server"),
	})
}

// Serve runs the dashboard until ctx is done. It returns immediately when
// the server is disabled.
func (a *App) Serve(ctx context.Context) error {
	if !a.settings.Server.Enabled {
		return nil
	}
	return a.Server().Run(ctx, a.settings.Server.Listen)
}

// Launcher returns the background session launcher.
func (a *App) Launcher() *session.Launcher {
	return a.launcher
}

// Events returns the cycle result broadcaster behind /api/events.
func (a *App) Events() *server.Hub {
	return a.hub
}

// Store returns the application store.
func (a *App) Store() *store.Store {
	return a.store
}

// Plugins returns the plugin manager.
func (a *App) Plugins() *plugin.Manager {
	return a.plugins
}

// Close stops any running session and releases the store.
func (a *App) Close() error {
	a.launcher.Close()
	a.hub.Close()
	return a.store.Close()
}
