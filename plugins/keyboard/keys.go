package main

import (
	"errors"
	"fmt"
	"strings"
)

var errKeyRequired = errors.New("key is required")

// macKeyCodes holds virtual key codes for keys that System Events cannot
// type as text.
var macKeyCodes = map[string]int{
	"space":  49,
	"enter":  36,
	"tab":    48,
	"escape": 53,
	"left":   123,
	"right":  124,
	"down":   125,
	"up":     126,
}

// xdotoolKeys maps key names to X keysyms.
var xdotoolKeys = map[string]string{
	"space":  "space",
	"enter":  "Return",
	"tab":    "Tab",
	"escape": "Escape",
	"left":   "Left",
	"right":  "Right",
	"down":   "Down",
	"up":     "Up",
}

// keyCommand returns the command that taps key on goos.
func keyCommand(goos, key string) (string, []string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", nil, errKeyRequired
	}

	switch goos {
	case "darwin":
		if code, ok := macKeyCodes[key]; ok {
			return "osascript", []string{"-e", fmt.Sprintf(`tell application "System Events" to key code %d`, code)}, nil
		}
		if len(key) != 1 {
			return "", nil, fmt.Errorf("unsupported key %q", key)
		}
		return "osascript", []string{"-e", fmt.Sprintf(`tell application "System Events" to keystroke %q`, key)}, nil
	case "linux", "freebsd", "openbsd":
		if sym, ok := xdotoolKeys[key]; ok {
			return "xdotool", []string{"key", sym}, nil
		}
		if len(key) != 1 {
			return "", nil, fmt.Errorf("unsupported key %q", key)
		}
		return "xdotool", []string{"key", key}, nil
	default:
		return "", nil, fmt.Errorf("keyboard plugin does not support %s", goos)
	}
}
