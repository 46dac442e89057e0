// Package keyboard provides key injection backends for gesture actions.
package keyboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-vgo/robotgo"

	"github.com/ayusman/mudra/internal/plugin"
)

// Backend names accepted by New.
const (
	BackendRobotgo = "robotgo"
	BackendPlugin  = "plugin"
	BackendNone    = "none"
)

// ErrPressFailed is returned when a backend reports that a key press did not happen.
var ErrPressFailed = errors.New("key press failed")

// Presser sends a single key press to the operating system.
type Presser interface {
	Press(key string) error
}

// Options configures backend construction.
type Options struct {
	Backend    string
	PluginName string
	Plugins    *plugin.Manager
	Executor   *plugin.Executor
}

// New returns the Presser selected by opts.Backend.
func New(opts Options) (Presser, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendRobotgo:
		return NewRobotgoPresser(), nil
	case BackendPlugin:
		if opts.Plugins == nil || opts.Executor == nil {
			return nil, fmt.Errorf("plugin backend requires a plugin manager and executor")
		}
		return NewPluginPresser(opts.Plugins, opts.Executor, opts.PluginName), nil
	case BackendNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown keyboard backend %q", opts.Backend)
	}
}

// RobotgoPresser taps keys through robotgo.
type RobotgoPresser struct {
	mu sync.Mutex
}

// NewRobotgoPresser creates a RobotgoPresser.
func NewRobotgoPresser() *RobotgoPresser {
	return &RobotgoPresser{}
}

// Press taps key once.
func (p *RobotgoPresser) Press(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := robotgo.KeyTap(key); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPressFailed, key, err)
	}
	return nil
}

// PluginPresser forwards key presses to a keyboard plugin executable.
type PluginPresser struct {
	plugins  *plugin.Manager
	executor *plugin.Executor
	name     string
}

// NewPluginPresser creates a presser that runs the named plugin's "keystroke" action.
func NewPluginPresser(plugins *plugin.Manager, executor *plugin.Executor, name string) *PluginPresser {
	if name == "" {
		name = "keyboard"
	}
	return &PluginPresser{
		plugins:  plugins,
		executor: executor,
		name:     name,
	}
}

type keystrokeParams struct {
	Key string `json:"key"`
}

// Press runs the plugin once for key.
func (p *PluginPresser) Press(key string) error {
	pl, err := p.plugins.Get(p.name)
	if err != nil {
		return fmt.Errorf("keyboard plugin %q: %w", p.name, err)
	}

	params, err := json.Marshal(keystrokeParams{Key: key})
	if err != nil {
		return err
	}

	resp, err := p.executor.Execute(pl, &plugin.Request{
		Action: "keystroke",
		Params: params,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s: %s", ErrPressFailed, key, resp.Error)
	}
	return nil
}

// Nop discards key presses.
type Nop struct{}

// Press does nothing.
func (Nop) Press(string) error { return nil }
