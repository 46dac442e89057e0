// Package action maps gesture labels to key presses and status text.
package action

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ayusman/mudra/internal/gesture"
)

// Binding is what a gesture label triggers. An empty Key means no key press.
type Binding struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Table holds one binding per label, indexed by label.
type Table [gesture.MaxLabel + 1]Binding

// DefaultTable is the built-in label to key mapping. Four and five fingers
// both report "volume down".
func DefaultTable() Table {
	return Table{
		0: {},
		1: {Key: "space", Text: "forward"},
		2: {Key: "left", Text: "backward"},
		3: {Key: "right", Text: "volume up"},
		4: {Key: "up", Text: "volume down"},
		5: {Key: "down", Text: "volume down"},
	}
}

// Lookup returns the binding for label. Labels outside the table have none.
func (t Table) Lookup(label gesture.Label) Binding {
	if !label.Valid() {
		return Binding{}
	}
	return t[label]
}

// Mode controls when a bound key is pressed.
type Mode string

const (
	// ModeLevel presses the key on every cycle that produces the label.
	ModeLevel Mode = "level"
	// ModeEdge presses the key only when the label differs from the previous cycle.
	ModeEdge Mode = "edge"
)

// ParseMode validates a mode name. An empty name selects ModeLevel.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLevel:
		return ModeLevel, nil
	case ModeEdge:
		return ModeEdge, nil
	default:
		return "", fmt.Errorf("unknown action mode %q", s)
	}
}

// Presser injects a key press into the operating system.
type Presser interface {
	Press(key string) error
}

// Result describes one dispatch.
type Result struct {
	Label gesture.Label
	Key   string // key that was pressed, empty if none
	Text  string
	Fired bool
}

// Dispatcher looks labels up in a Table and presses the bound key.
type Dispatcher struct {
	table   Table
	presser Presser
	mode    Mode
	logger  *slog.Logger

	mu       sync.Mutex
	last     gesture.Label
	haveLast bool
}

// NewDispatcher creates a Dispatcher. A nil presser disables key injection
// while still producing status text.
func NewDispatcher(table Table, presser Presser, mode Mode, logger *slog.Logger) *Dispatcher {
	if mode == "" {
		mode = ModeLevel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		table:   table,
		presser: presser,
		mode:    mode,
		logger:  logger,
	}
}

// Dispatch resolves label and presses its key if the mode allows. Press
// failures are logged and otherwise ignored.
func (d *Dispatcher) Dispatch(label gesture.Label) Result {
	b := d.table.Lookup(label)
	res := Result{Label: label, Text: b.Text}

	d.mu.Lock()
	repeat := d.haveLast && d.last == label
	d.last = label
	d.haveLast = true
	d.mu.Unlock()

	if b.Key == "" {
		return res
	}
	if d.mode == ModeEdge && repeat {
		return res
	}

	res.Key = b.Key
	res.Fired = true

	if d.presser != nil {
		if err := d.presser.Press(b.Key); err != nil {
			d.logger.Warn("key press failed", "key", b.Key, "label", int(label), "error", err)
		}
	}
	return res
}

// Reset forgets the previous label so the next gesture fires in edge mode.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.haveLast = false
}

// Table returns the dispatcher's bindings.
func (d *Dispatcher) Table() Table {
	return d.table
}

// Mode returns the dispatch mode.
func (d *Dispatcher) Mode() Mode {
	return d.mode
}
