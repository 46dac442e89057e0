package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Bindings table - one key binding per gesture label
		`CREATE TABLE IF NOT EXISTS bindings (
			label INTEGER PRIMARY KEY CHECK(label BETWEEN 0 AND 5),
			key TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sessions table - one row per detection session
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			stopped_at DATETIME,
			cycles INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT ''
		)`,

		// Gesture events table - label changes observed during a session
		`CREATE TABLE IF NOT EXISTS gesture_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			hand_seen INTEGER NOT NULL,
			label INTEGER NOT NULL,
			fingers TEXT NOT NULL DEFAULT '',
			key TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			fired INTEGER NOT NULL DEFAULT 0,
			at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_gesture_events_session_id ON gesture_events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
