package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/VoxDroid/stovbot/internal/config"
)

func TestInitDBCreatesFileAndSchema(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(config.HomeEnv, tmp)
	t.Setenv(config.DatabaseEnv, "")

	dbPath, err := config.DBPath()
	if err != nil {
		t.Fatalf("DBPath(): %v", err)
	}

	db, err := InitDB()
	if err != nil {
		t.Fatalf("InitDB() error: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("db file not created: %v", err)
	}

	for _, table := range []string{"commands", "variables", "events"} {
		var count int
		r := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", table)
		if err := r.Scan(&count); err != nil {
			t.Fatalf("query schema: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected table %q to exist", table)
		}
	}

	if _, err := db.Exec("INSERT INTO commands (created_at, trigger, response, is_alias) VALUES (datetime('now'), ?, ?, 1)", "!x", "hi"); err != nil {
		t.Fatalf("insert command failed: %v", err)
	}
}

func TestApplyMigrationsUpgradesOldCommandsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = db.Close() }()

	// simulate a database created before the alias flag existed
	if _, err := db.Exec("DROP TABLE commands"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE commands (id INTEGER PRIMARY KEY AUTOINCREMENT, created_at TEXT NOT NULL, trigger TEXT NOT NULL UNIQUE, response TEXT NOT NULL)"); err != nil {
		t.Fatal(err)
	}
	if err := ApplyMigrations(db); err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}
	if err := ApplyMigrations(db); err != nil {
		t.Fatalf("ApplyMigrations should be idempotent: %v", err)
	}
	var isAlias int
	if _, err := db.Exec("INSERT INTO commands (created_at, trigger, response) VALUES ('now', '!y', 'r')"); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow("SELECT is_alias FROM commands WHERE trigger = '!y'").Scan(&isAlias); err != nil {
		t.Fatalf("is_alias column missing: %v", err)
	}
	if isAlias != 0 {
		t.Fatalf("expected default 0, got %d", isAlias)
	}
}
