// Package store persists commands, variables and audit events in SQLite.
package store

import (
	"database/sql"
	"time"
)

// timeLayout is the on-disk representation of every timestamp column. It is
// fixed width so that text ordering in SQL matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// CommandRow is a stored user command.
type CommandRow struct {
	ID        int64
	CreatedAt time.Time
	Trigger   string
	Response  string
	IsAlias   bool
}

// EventRecord is a persisted audit event.
type EventRecord struct {
	ID           string
	CreatedAt    time.Time
	Kind         string
	Subject      string
	OldValue     sql.NullString
	NewValue     sql.NullString
	Actor        sql.NullString
	PersistError sql.NullString
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
