package store

import (
	"fmt"
	"time"

	"github.com/VoxDroid/stovbot/internal/variable"
)

// SeedDefaults inserts the given commands and variables unless a row with the
// same trigger or name already exists. Existing rows are never touched, so
// users keep their edits across restarts.
func (r *Repository) SeedDefaults(commands []CommandRow, vars []variable.Variable) error {
	trx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()

	now := formatTime(time.Now())
	for _, c := range commands {
		if _, err := trx.Exec(`INSERT INTO commands (created_at, trigger, response, is_alias) VALUES (?, ?, ?, ?)
			ON CONFLICT(trigger) DO NOTHING`, now, c.Trigger, c.Response, boolToInt(c.IsAlias)); err != nil {
			return fmt.Errorf("seed command %q: %w", c.Trigger, err)
		}
	}
	for _, v := range vars {
		raw, err := v.Value.MarshalJSON()
		if err != nil {
			return fmt.Errorf("marshal variable %q: %w", v.Name, err)
		}
		if _, err := trx.Exec(`INSERT INTO variables (created_at, modified_at, name, value) VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO NOTHING`, now, now, v.Name, string(raw)); err != nil {
			return fmt.Errorf("seed variable %q: %w", v.Name, err)
		}
	}
	return trx.Commit()
}
