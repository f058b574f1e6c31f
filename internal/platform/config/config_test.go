package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"journal/internal/platform/config"
)

func TestNewDerivesPathsFromDataDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.NotesPath != filepath.Join(dir, "notes.json") || cfg.ResourcesPath != filepath.Join(dir, "resources.json") {
		t.Fatalf("unexpected collection paths: %+v", cfg)
	}
	if cfg.ListenAddr != config.DefaultListenAddr || cfg.LogLevel != config.DefaultLogLevel {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestNewAppliesYAMLOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	yml := "notes_file: journal-notes.json\nlog_level: debug\nlisten_addr: 0.0.0.0:9000\ncors_origins:\n  - http://localhost:3000\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.NotesPath != filepath.Join(dir, "journal-notes.json") {
		t.Fatalf("notes path override ignored: %s", cfg.NotesPath)
	}
	if cfg.LogLevel != "debug" || cfg.ListenAddr != "0.0.0.0:9000" {
		t.Fatalf("overrides ignored: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("cors origins not loaded: %v", cfg.CORSOrigins)
	}
}

func TestNewRejectsEmptyDirAndBrokenYAML(t *testing.T) {
	t.Parallel()
	if _, err := config.New(" "); err == nil {
		t.Fatalf("empty data dir must fail")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("notes_file: [unterminated"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(dir); err == nil {
		t.Fatalf("broken yaml must fail")
	}
}
