// Package config resolves stovbot's data paths and runtime settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides applied after the config file.
const (
	DatabaseEnv      = "STOVBOT_DATABASE"
	ScriptTimeoutEnv = "STOVBOT_SCRIPT_TIMEOUT"
	LogLevelEnv      = "STOVBOT_LOG_LEVEL"
)

// Config holds all stovbot configuration.
type Config struct {
	BotName      string           `yaml:"bot_name"`
	DatabasePath string           `yaml:"database_path"`
	AliasDepth   int              `yaml:"alias_depth"`
	Script       ScriptConfig     `yaml:"script"`
	Log          LogConfig        `yaml:"log"`
	Permissions  []PermissionRule `yaml:"permissions"`
}

// ScriptConfig configures the script sandbox.
type ScriptConfig struct {
	// Timeout is the evaluation budget for one script block.
	Timeout time.Duration `yaml:"timeout"`
	// KillGrace is how long the parent waits past Timeout before killing
	// the child.
	KillGrace time.Duration `yaml:"kill_grace"`
	// EngineCommand overrides the child command line. Empty means
	// "<this executable> script-engine".
	EngineCommand string `yaml:"engine_command"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// PermissionRule restricts validator commands whose trigger starts with
// Trigger to senders for which Allow evaluates to true.
type PermissionRule struct {
	Trigger string `yaml:"trigger"`
	Allow   string `yaml:"allow"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BotName:    "StovBot",
		AliasDepth: 8,
		Script: ScriptConfig{
			Timeout:   time.Second,
			KillGrace: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads the YAML config at path (the default location when empty),
// loads .env files and applies environment overrides. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env")
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.normalize()
}

// loadDotEnv loads each existing file; variables already set win.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(DatabaseEnv); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv(ScriptTimeoutEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", ScriptTimeoutEnv, err)
		}
		c.Script.Timeout = d
	}
	if v := os.Getenv(LogLevelEnv); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) normalize() error {
	def := Default()
	if c.BotName == "" {
		c.BotName = def.BotName
	}
	if c.AliasDepth <= 0 {
		c.AliasDepth = def.AliasDepth
	}
	if c.Script.Timeout <= 0 {
		c.Script.Timeout = def.Script.Timeout
	}
	if c.Script.KillGrace <= 0 {
		c.Script.KillGrace = def.Script.KillGrace
	}
	if c.DatabasePath == "" {
		p, err := DBPath()
		if err != nil {
			return err
		}
		c.DatabasePath = p
	}
	for i, r := range c.Permissions {
		if r.Trigger == "" || r.Allow == "" {
			return fmt.Errorf("permissions[%d]: trigger and allow are required", i)
		}
	}
	return nil
}
