package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FileName          = "journal.yaml"
	DefaultListenAddr = "127.0.0.1:8501"
	DefaultLogLevel   = "info"
)

type Config struct {
	DataDir       string
	NotesPath     string
	ResourcesPath string
	DBPath        string
	LockPath      string
	LogPath       string
	LogLevel      string
	ListenAddr    string
	CORSOrigins   []string
}

// fileConfig mirrors the optional journal.yaml that lives next to the data.
type fileConfig struct {
	NotesFile     string   `yaml:"notes_file"`
	ResourcesFile string   `yaml:"resources_file"`
	LogLevel      string   `yaml:"log_level"`
	ListenAddr    string   `yaml:"listen_addr"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data directory is required")
	}
	cfg := Config{
		DataDir:       dataDir,
		NotesPath:     filepath.Join(dataDir, "notes.json"),
		ResourcesPath: filepath.Join(dataDir, "resources.json"),
		DBPath:        filepath.Join(dataDir, ".journal", "journal.db"),
		LockPath:      filepath.Join(dataDir, ".journal.lock"),
		LogPath:       filepath.Join(dataDir, ".journal", "journal.log"),
		LogLevel:      DefaultLogLevel,
		ListenAddr:    DefaultListenAddr,
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read %s: %w", FileName, err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", FileName, err)
	}
	if fc.NotesFile != "" {
		cfg.NotesPath = resolve(dataDir, fc.NotesFile)
	}
	if fc.ResourcesFile != "" {
		cfg.ResourcesPath = resolve(dataDir, fc.ResourcesFile)
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.ListenAddr != "" {
		cfg.ListenAddr = fc.ListenAddr
	}
	cfg.CORSOrigins = fc.CORSOrigins
	return cfg, nil
}

func resolve(dataDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dataDir, name)
}
