package session

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/gesture"
)

// CycleResult is what one pass of the detection loop produced.
type CycleResult struct {
	SessionID string              `json:"session_id"`
	Seq       int                 `json:"seq"`
	Time      time.Time           `json:"time"`
	Hands     int                 `json:"hands"`
	HandSeen  bool                `json:"hand_seen"`
	Fingers   gesture.FingerState `json:"fingers"`
	Label     gesture.Label       `json:"label"`
	Key       string              `json:"key,omitempty"`
	Text      string              `json:"text"`
	Fired     bool                `json:"fired"`
	FPS       float64             `json:"fps"`
}

// Summary describes a session once it has stopped.
type Summary struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	StoppedAt time.Time  `json:"stopped_at"`
	Cycles    int        `json:"cycles"`
	Reason    StopReason `json:"reason"`
	Err       error      `json:"-"`
}

// Observer receives every cycle result. It is called on the session
// goroutine and must not block.
type Observer interface {
	OnCycle(CycleResult)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(CycleResult)

func (f ObserverFunc) OnCycle(r CycleResult) { f(r) }

// FrameObserver additionally receives the annotated frame of each cycle.
// The frame is only valid for the duration of the call.
type FrameObserver interface {
	OnFrame(frame *gocv.Mat)
}

// LifecycleObserver is told when sessions start and stop.
type LifecycleObserver interface {
	SessionStarted(id string, at time.Time)
	SessionStopped(Summary)
}
