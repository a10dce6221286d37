// Package importer merges the commands and variables of another stovbot
// database into the active one.
package importer

import (
	"fmt"
	"os"

	dbpkg "github.com/VoxDroid/stovbot/internal/db"
	"github.com/VoxDroid/stovbot/internal/store"
)

// Options controls conflict handling.
type Options struct {
	// Overwrite replaces existing commands and variables with the imported
	// ones. Otherwise existing entries are kept.
	Overwrite bool
	// Skip reports triggers that are never imported, such as built-ins.
	Skip func(trigger string) bool
}

// Summary counts what an import did.
type Summary struct {
	CommandsAdded     int
	CommandsReplaced  int
	CommandsSkipped   int
	VariablesAdded    int
	VariablesReplaced int
	VariablesSkipped  int
}

// ImportDatabase reads the database at srcPath and merges it into dst.
// Older source files are migrated in place when opened.
func ImportDatabase(dst *store.Repository, srcPath string, opts Options) (Summary, error) {
	if _, err := os.Stat(srcPath); err != nil {
		return Summary{}, fmt.Errorf("open source: %w", err)
	}
	conn, err := dbpkg.Open(srcPath)
	if err != nil {
		return Summary{}, fmt.Errorf("open source: %w", err)
	}
	src := store.NewRepository(conn)
	defer func() { _ = src.Close() }()

	var sum Summary
	if err := copyCommands(src, dst, opts, &sum); err != nil {
		return sum, err
	}
	if err := copyVariables(src, dst, opts, &sum); err != nil {
		return sum, err
	}
	return sum, nil
}
