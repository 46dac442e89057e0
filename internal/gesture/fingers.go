// Package gesture turns hand landmarks into finger-count gestures.
package gesture

import (
	"strings"

	"github.com/ayusman/mudra/internal/hand"
)

// FingerState holds one extended flag per digit, ordered thumb to pinky.
type FingerState [len(hand.Digits)]bool

// Extract decides for each digit whether it is extended.
//
// The thumb is extended when its tip lies right of its IP joint. Every other
// finger is extended when its tip lies above its PIP joint, i.e. has a
// smaller y in image coordinates.
func Extract(obs hand.Observation) FingerState {
	var state FingerState
	for i, d := range hand.Digits {
		tip := obs.Points[d.Tip]
		joint := obs.Points[d.Joint]

		switch d.Axis {
		case hand.AxisX:
			state[i] = tip.X > joint.X
		case hand.AxisY:
			state[i] = tip.Y < joint.Y
		}
	}
	return state
}

// Count returns the number of extended digits.
func (s FingerState) Count() int {
	n := 0
	for _, up := range s {
		if up {
			n++
		}
	}
	return n
}

// String renders the state as digit names, e.g. "thumb+index".
func (s FingerState) String() string {
	var up []string
	for i, ext := range s {
		if ext {
			up = append(up, hand.Digits[i].Name)
		}
	}
	if len(up) == 0 {
		return "none"
	}
	return strings.Join(up, "+")
}
