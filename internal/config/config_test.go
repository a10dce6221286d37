package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDataDirEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(HomeEnv, tmp)

	d, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir(): %v", err)
	}
	if d != tmp {
		t.Fatalf("expected %s got %s", tmp, d)
	}
}

func TestDBPathEnvOverride(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "custom.db")
	t.Setenv(DatabaseEnv, tmp)

	p, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath(): %v", err)
	}
	if p != tmp {
		t.Fatalf("expected %s got %s", tmp, p)
	}
}

func TestEnsureDataDirCreatesDir(t *testing.T) {
	t.Setenv(HomeEnv, "")
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("USERPROFILE", tmp)

	d, err := EnsureDataDir()
	if err != nil {
		t.Fatalf("EnsureDataDir(): %v", err)
	}
	if _, err := os.Stat(d); err != nil {
		t.Fatalf("expected dir %s to exist: %v", d, err)
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(HomeEnv, tmp)
	t.Setenv(DatabaseEnv, "")
	t.Setenv(ScriptTimeoutEnv, "")
	t.Setenv(LogLevelEnv, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.BotName != "StovBot" || cfg.Script.Timeout != time.Second || cfg.AliasDepth != 8 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DatabasePath != filepath.Join(tmp, "stovbot.db") {
		t.Fatalf("unexpected db path %s", cfg.DatabasePath)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(HomeEnv, tmp)
	t.Setenv(DatabaseEnv, "")
	t.Setenv(LogLevelEnv, "")
	_ = os.Unsetenv(LogLevelEnv) // .env never overrides variables that are already set
	t.Setenv(ScriptTimeoutEnv, "250ms")

	path := filepath.Join(tmp, "config.yaml")
	body := `bot_name: Helper
alias_depth: 3
script:
  timeout: 2s
permissions:
  - trigger: "!command"
    allow: 'user == "Stovoy"'
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, ".env"), []byte("STOVBOT_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.BotName != "Helper" || cfg.AliasDepth != 3 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Script.Timeout != 250*time.Millisecond {
		t.Fatalf("env override not applied: %v", cfg.Script.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf(".env not loaded: %q", cfg.Log.Level)
	}
	if len(cfg.Permissions) != 1 || cfg.Permissions[0].Trigger != "!command" {
		t.Fatalf("permissions not parsed: %+v", cfg.Permissions)
	}
}

func TestLoadRejectsIncompleteRule(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(HomeEnv, tmp)
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte("permissions:\n  - trigger: \"!x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for rule without allow")
	}
}
