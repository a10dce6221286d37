// Package exporter writes consistent backups of the stovbot database.
package exporter

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/VoxDroid/stovbot/internal/config"
	dbpkg "github.com/VoxDroid/stovbot/internal/db"
)

// ExportDatabase writes a compacted copy of src to dstPath. The copy is taken
// inside SQLite, so writes sitting in the WAL are included. dstPath must not
// exist yet.
func ExportDatabase(src *sql.DB, dstPath string) error {
	if _, err := os.Stat(dstPath); err == nil {
		return fmt.Errorf("export destination %s already exists", dstPath)
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dstPath); err != nil {
		return fmt.Errorf("copy db: %w", err)
	}
	return nil
}

// ExportActive exports the database at the configured path.
func ExportActive(dstPath string) error {
	path, err := config.DBPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open source db: %w", err)
	}
	src, err := dbpkg.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()
	return ExportDatabase(src, dstPath)
}
