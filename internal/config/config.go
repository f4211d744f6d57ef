package config

import (
	"os"
	"path/filepath"
	"time"
)

type WatcherConfig struct {
	Enabled        bool          `yaml:"enabled"`
	DebounceWindow time.Duration `yaml:"debounce_window"`
	MaxBatchSize   int           `yaml:"max_batch_size"`
	IgnorePatterns []string      `yaml:"ignore_patterns"`
}

type CompileConfig struct {
	DefaultDial   int `yaml:"default_dial"`
	DefaultBudget int `yaml:"default_budget"`
}

type Config struct {
	DatabasePath string        `yaml:"database_path"`
	LibraryDir   string        `yaml:"library_dir"`
	SocketPath   string        `yaml:"socket_path"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
	Compile      CompileConfig `yaml:"compile"`
	Watcher      WatcherConfig `yaml:"watcher"`
}

func baseDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".promptforge")
}

func Load() *Config {
	dir := baseDir()

	return &Config{
		DatabasePath: filepath.Join(dir, "artifacts.db"),
		LibraryDir:   filepath.Join(dir, "library"),
		SocketPath:   filepath.Join(dir, "forge.sock"),
		LogLevel:     "info",
		LogFormat:    "text",
		Compile: CompileConfig{
			DefaultDial:   3,
			DefaultBudget: 0,
		},
		Watcher: WatcherConfig{
			Enabled:        true,
			DebounceWindow: 300 * time.Millisecond,
			MaxBatchSize:   100,
			IgnorePatterns: []string{
				"**/.git/**",
				"**/*.tmp",
				"**/*.swp",
				"**/.#*",
			},
		},
	}
}

func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(filepath.Dir(c.DatabasePath), 0700); err != nil {
		return err
	}
	return os.MkdirAll(c.LibraryDir, 0700)
}
