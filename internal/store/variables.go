package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/VoxDroid/stovbot/internal/nameutil"
	"github.com/VoxDroid/stovbot/internal/variable"
)

// GetVariable returns the variable called name, or nil if none exists.
func (r *Repository) GetVariable(name string) (*variable.Variable, error) {
	row := r.db.QueryRow("SELECT id, created_at, modified_at, name, value FROM variables WHERE name = ?", name)
	v, err := scanVariable(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// SetVariable inserts v or replaces the value of the existing variable with
// the same name. The creation time is set on first insert only; the
// modification time is refreshed on every call. v's timestamps are updated to
// match what was written.
func (r *Repository) SetVariable(v *variable.Variable) error {
	if err := nameutil.ValidateVariableName(v.Name); err != nil {
		return err
	}
	raw, err := json.Marshal(v.Value)
	if err != nil {
		return fmt.Errorf("marshal variable %q: %w", v.Name, err)
	}
	now := time.Now().UTC()
	_, err = r.db.Exec(`INSERT INTO variables (created_at, modified_at, name, value) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, modified_at = excluded.modified_at`,
		formatTime(now), formatTime(now), v.Name, string(raw))
	if err != nil {
		return fmt.Errorf("set variable %q: %w", v.Name, err)
	}
	row := r.db.QueryRow("SELECT id, created_at FROM variables WHERE name = ?", v.Name)
	var created string
	if err := row.Scan(&v.ID, &created); err != nil {
		return fmt.Errorf("reload variable %q: %w", v.Name, err)
	}
	v.CreatedAt = parseTime(created)
	v.ModifiedAt = now
	return nil
}

// DeleteVariable removes the variable called name.
func (r *Repository) DeleteVariable(name string) error {
	res, err := r.db.Exec("DELETE FROM variables WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete variable: %w", err)
	}
	return expectOneRow(res, "variable", name)
}

// ListVariables returns every stored variable ordered by name.
func (r *Repository) ListVariables() ([]variable.Variable, error) {
	rows, err := r.db.Query("SELECT id, created_at, modified_at, name, value FROM variables ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []variable.Variable
	for rows.Next() {
		v, err := scanVariable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func scanVariable(s scanner) (*variable.Variable, error) {
	var v variable.Variable
	var created, modified, raw string
	if err := s.Scan(&v.ID, &created, &modified, &v.Name, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &v.Value); err != nil {
		return nil, fmt.Errorf("decode variable %q: %w", v.Name, err)
	}
	v.CreatedAt = parseTime(created)
	v.ModifiedAt = parseTime(modified)
	return &v, nil
}
