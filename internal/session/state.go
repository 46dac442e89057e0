// Package session runs the per-frame detection loop and launches sessions
// from the tray, CLI and dashboard.
package session

import "errors"

// State is the lifecycle state of a detection session.
//
//	idle     -> starting | stopped
//	starting -> running | stopped
//	running  -> stopped
//
// A stopped session is finished; a new session gets a new Controller.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting" // camera is being opened
	StateRunning  State = "running"
	StateStopped  State = "stopped"
)

// ErrInvalidTransition is returned when a session is asked to move along an
// edge the state machine does not allow.
var ErrInvalidTransition = errors.New("invalid session state transition")

func allowedTransition(cur, next State) bool {
	switch cur {
	case StateIdle:
		return next == StateStarting || next == StateStopped
	case StateStarting:
		return next == StateRunning || next == StateStopped
	case StateRunning:
		return next == StateStopped
	default:
		return false
	}
}

// StopReason records why a session ended.
type StopReason string

const (
	ReasonNone              StopReason = ""
	ReasonQuit              StopReason = "quit"
	ReasonFrameRead         StopReason = "frame-read"
	ReasonDeviceUnavailable StopReason = "device-unavailable"
	ReasonContext           StopReason = "context"
	ReasonRequested         StopReason = "requested"
)
