package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/session"
)

// Recorder writes session history as a session observer. Only cycles
// whose gesture differs from the previous cycle become events.
type Recorder struct {
	store  *Store
	logger *slog.Logger

	mu   sync.Mutex
	last map[string]eventKey
}

type eventKey struct {
	handSeen bool
	label    int
}

// NewRecorder creates a Recorder writing to s.
func NewRecorder(s *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		store:  s,
		logger: logger,
		last:   make(map[string]eventKey),
	}
}

// SessionStarted inserts the session row.
func (r *Recorder) SessionStarted(id string, at time.Time) {
	if err := r.store.Sessions().Create(id, at); err != nil {
		r.logger.Error("failed to record session start", "session", id, "error", err)
	}
}

// SessionStopped records the session outcome.
func (r *Recorder) SessionStopped(sum session.Summary) {
	r.mu.Lock()
	delete(r.last, sum.ID)
	r.mu.Unlock()

	if err := r.store.Sessions().Finish(sum); err != nil {
		r.logger.Error("failed to record session stop", "session", sum.ID, "error", err)
	}
}

// OnCycle stores res when the gesture changed.
func (r *Recorder) OnCycle(res session.CycleResult) {
	key := eventKey{handSeen: res.HandSeen, label: int(res.Label)}

	r.mu.Lock()
	prev, seen := r.last[res.SessionID]
	r.last[res.SessionID] = key
	r.mu.Unlock()

	if seen && prev == key {
		return
	}

	fingers := ""
	if res.HandSeen {
		fingers = res.Fingers.String()
	}
	e := &Event{
		SessionID: res.SessionID,
		Seq:       res.Seq,
		HandSeen:  res.HandSeen,
		Label:     res.Label,
		Fingers:   fingers,
		Key:       res.Key,
		Text:      res.Text,
		Fired:     res.Fired,
		At:        res.Time,
	}
	if err := r.store.Events().Create(e); err != nil {
		r.logger.Warn("failed to record gesture event", "session", res.SessionID, "error", err)
	}
}
