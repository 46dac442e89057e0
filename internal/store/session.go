package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/mudra/internal/session"
)

// Session is a stored detection session.
type Session struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
	Cycles    int        `json:"cycles"`
	Reason    string     `json:"reason"`
	Error     string     `json:"error,omitempty"`
}

// SessionRepository provides access to session history.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a running session.
func (r *SessionRepository) Create(id string, startedAt time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at) VALUES (?, ?)`,
		id, startedAt,
	)
	return err
}

// Finish records how a session ended. Sessions that never started are
// inserted as well so failed opens show up in the history.
func (r *SessionRepository) Finish(sum session.Summary) error {
	errText := ""
	if sum.Err != nil {
		errText = sum.Err.Error()
	}
	startedAt := sum.StartedAt
	if startedAt.IsZero() {
		startedAt = sum.StoppedAt
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, stopped_at, cycles, reason, error) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET stopped_at = excluded.stopped_at, cycles = excluded.cycles,
		 reason = excluded.reason, error = excluded.error`,
		sum.ID, startedAt, sum.StoppedAt, sum.Cycles, string(sum.Reason), errText,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, started_at, stopped_at, cycles, reason, error FROM sessions WHERE id = ?`,
		id,
	)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List retrieves the most recent sessions, newest first. A limit of zero
// or less returns all sessions.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT id, started_at, stopped_at, cycles, reason, error FROM sessions
		 ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	s := &Session{}
	var stopped sql.NullTime
	if err := row.Scan(&s.ID, &s.StartedAt, &stopped, &s.Cycles, &s.Reason, &s.Error); err != nil {
		return nil, err
	}
	if stopped.Valid {
		t := stopped.Time
		s.StoppedAt = &t
	}
	return s, nil
}
