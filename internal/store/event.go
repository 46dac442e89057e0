package store

import (
	"database/sql"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// Event is a gesture change observed during a session.
type Event struct {
	ID        int64         `json:"id"`
	SessionID string        `json:"session_id"`
	Seq       int           `json:"seq"`
	HandSeen  bool          `json:"hand_seen"`
	Label     gesture.Label `json:"label"`
	Fingers   string        `json:"fingers"`
	Key       string        `json:"key,omitempty"`
	Text      string        `json:"text"`
	Fired     bool          `json:"fired"`
	At        time.Time     `json:"at"`
}

// EventRepository provides access to gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts e and sets its ID.
func (r *EventRepository) Create(e *Event) error {
	result, err := r.db.Exec(
		`INSERT INTO gesture_events (session_id, seq, hand_seen, label, fingers, key, text, fired, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Seq, e.HandSeen, int(e.Label), e.Fingers, e.Key, e.Text, e.Fired, e.At,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListBySession retrieves the events of a session in the order they happened.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, seq, hand_seen, label, fingers, key, text, fired, at
		 FROM gesture_events WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var handSeen, fired int
		err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &handSeen, &e.Label, &e.Fingers, &e.Key, &e.Text, &fired, &e.At)
		if err != nil {
			return nil, err
		}
		e.HandSeen = handSeen != 0
		e.Fired = fired != 0
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
