package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/gesture"
)

// Binding is a stored label to key binding.
type Binding struct {
	Label     gesture.Label `json:"label"`
	Key       string        `json:"key"`
	Text      string        `json:"text"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ErrInvalidLabel is returned when a binding targets a label outside 0..5.
var ErrInvalidLabel = errors.New("invalid gesture label")

// BindingRepository provides access to key bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// SeedDefaults inserts table entries for labels that have no stored binding.
// Existing bindings are left untouched.
func (r *BindingRepository) SeedDefaults(table action.Table) error {
	now := time.Now()
	for label, b := range table {
		_, err := r.db.Exec(
			`INSERT OR IGNORE INTO bindings (label, key, text, updated_at) VALUES (?, ?, ?, ?)`,
			label, b.Key, b.Text, now,
		)
		if err != nil {
			return fmt.Errorf("seed binding %d: %w", label, err)
		}
	}
	return nil
}

// Get retrieves the binding for label.
func (r *BindingRepository) Get(label gesture.Label) (*Binding, error) {
	if !label.Valid() {
		return nil, ErrInvalidLabel
	}

	b := &Binding{}
	err := r.db.QueryRow(
		`SELECT label, key, text, updated_at FROM bindings WHERE label = ?`,
		int(label),
	).Scan(&b.Label, &b.Key, &b.Text, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// List retrieves all stored bindings ordered by label.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(`SELECT label, key, text, updated_at FROM bindings ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b := &Binding{}
		if err := rows.Scan(&b.Label, &b.Key, &b.Text, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bindings, nil
}

// Upsert stores b, replacing any existing binding for its label.
func (r *BindingRepository) Upsert(b *Binding) error {
	if !b.Label.Valid() {
		return ErrInvalidLabel
	}
	b.UpdatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO bindings (label, key, text, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(label) DO UPDATE SET key = excluded.key, text = excluded.text, updated_at = excluded.updated_at`,
		int(b.Label), b.Key, b.Text, b.UpdatedAt,
	)
	return err
}

// Table returns base with every stored binding applied over it.
func (r *BindingRepository) Table(base action.Table) (action.Table, error) {
	bindings, err := r.List()
	if err != nil {
		return base, err
	}

	table := base
	for _, b := range bindings {
		if b.Label.Valid() {
			table[b.Label] = action.Binding{Key: b.Key, Text: b.Text}
		}
	}
	return table, nil
}
