package store

import (
	"fmt"
	"time"
)

// RecordEvent appends an audit event. Events with an ID that was already
// recorded are ignored so that a replayed bus delivery is harmless.
func (r *Repository) RecordEvent(e *EventRecord) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO events (id, created_at, kind, subject, old_value, new_value, actor, persist_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		e.ID, formatTime(e.CreatedAt), e.Kind, e.Subject, e.OldValue, e.NewValue, e.Actor, e.PersistError)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListEvents returns the most recent events, newest first. A non-positive
// limit returns all events.
func (r *Repository) ListEvents(limit int) ([]EventRecord, error) {
	q := `SELECT id, created_at, kind, subject, old_value, new_value, actor, persist_error
		FROM events ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []EventRecord
	for rows.Next() {
		var e EventRecord
		var created string
		if err := rows.Scan(&e.ID, &created, &e.Kind, &e.Subject, &e.OldValue, &e.NewValue, &e.Actor, &e.PersistError); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
