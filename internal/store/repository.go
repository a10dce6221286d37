package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VoxDroid/stovbot/internal/nameutil"
)

// ErrNotFound is returned by mutations that target a missing row.
var ErrNotFound = errors.New("not found")

// Repository provides CRUD operations for commands and variables.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying connection.
func (r *Repository) DB() *sql.DB { return r.db }

// Close closes the underlying DB connection used by the Repository.
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// AddCommand inserts a new command and returns its ID.
func (r *Repository) AddCommand(c *CommandRow) (int64, error) {
	c.Trigger = strings.TrimSpace(c.Trigger)
	if err := nameutil.ValidateTrigger(c.Trigger); err != nil {
		return 0, err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	res, err := r.db.Exec(`INSERT INTO commands (created_at, trigger, response, is_alias)
		SELECT ?, ?, ?, ?
		WHERE NOT EXISTS(SELECT 1 FROM commands WHERE trigger = ?)`,
		formatTime(c.CreatedAt), c.Trigger, c.Response, boolToInt(c.IsAlias), c.Trigger)
	if err != nil {
		return 0, fmt.Errorf("insert command: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, fmt.Errorf("trigger %q already in use", c.Trigger)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

// UpdateCommand replaces the response and alias flag of an existing command.
func (r *Repository) UpdateCommand(trigger, response string, isAlias bool) error {
	res, err := r.db.Exec("UPDATE commands SET response = ?, is_alias = ? WHERE trigger = ?", response, boolToInt(isAlias), trigger)
	if err != nil {
		return fmt.Errorf("update command: %w", err)
	}
	return expectOneRow(res, "command", trigger)
}

// DeleteCommand removes the command with the given trigger.
func (r *Repository) DeleteCommand(trigger string) error {
	res, err := r.db.Exec("DELETE FROM commands WHERE trigger = ?", trigger)
	if err != nil {
		return fmt.Errorf("delete command: %w", err)
	}
	return expectOneRow(res, "command", trigger)
}

// GetCommand returns the command with the given trigger, or nil if none exists.
func (r *Repository) GetCommand(trigger string) (*CommandRow, error) {
	row := r.db.QueryRow("SELECT id, created_at, trigger, response, is_alias FROM commands WHERE trigger = ?", trigger)
	c, err := scanCommand(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ListCommands returns all stored commands ordered by trigger.
func (r *Repository) ListCommands() ([]CommandRow, error) {
	rows, err := r.db.Query("SELECT id, created_at, trigger, response, is_alias FROM commands ORDER BY trigger ASC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []CommandRow
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCommand(s scanner) (*CommandRow, error) {
	var c CommandRow
	var created string
	var isAlias int
	if err := s.Scan(&c.ID, &created, &c.Trigger, &c.Response, &isAlias); err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(created)
	c.IsAlias = isAlias != 0
	return &c, nil
}

func expectOneRow(res sql.Result, what, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", what, key, ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
