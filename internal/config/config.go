// Package config handles configuration loading and defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultDataDir      = "~/.taskdeck"
	DefaultAPIBaseURL   = "https://jsonplaceholder.typicode.com"
	DefaultPostsPerPage = 9
	DefaultDebounceMs   = 500
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config holds the full configuration for taskdeck.
type Config struct {
	// Paths
	DataDir string `toml:"data_dir"`

	// Remote API
	APIBaseURL string `toml:"api_base_url"`
	// RequestTimeoutSeconds bounds remote calls. Zero leaves timeouts
	// to the transport defaults.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`

	// Posts browsing
	PostsPerPage int `toml:"posts_per_page"`
	DebounceMs   int `toml:"debounce_ms"`

	// Appearance
	DarkMode bool `toml:"dark_mode"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// DebounceInterval returns the debounce quiet period as a duration.
func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// RequestTimeout returns the remote call timeout, zero for none.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (TOML)
// 3. Environment variables
// 4. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from config file
	configFile := findConfigFile()
	if configFile != "" {
		if err := loadConfigFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	// 3. Override from environment
	loadFromEnv(cfg)

	// 4. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 5. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.APIBaseURL = DefaultAPIBaseURL
	cfg.RequestTimeoutSeconds = 0
	cfg.PostsPerPage = DefaultPostsPerPage
	cfg.DebounceMs = DefaultDebounceMs
	cfg.DarkMode = false
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
}

// findConfigFile looks for a config file, project directory first, then
// the user config directory.
func findConfigFile() string {
	names := []string{"taskdeck.toml", ".taskdeck.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "taskdeck", "taskdeck.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKDECK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TASKDECK_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("TASKDECK_REQUEST_TIMEOUT"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.RequestTimeoutSeconds = i
		}
	}
	if v := os.Getenv("TASKDECK_POSTS_PER_PAGE"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.PostsPerPage = i
		}
	}
	if v := os.Getenv("TASKDECK_DEBOUNCE_MS"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.DebounceMs = i
		}
	}
	if v := os.Getenv("TASKDECK_DARK_MODE"); v != "" {
		cfg.DarkMode = boolFromString(v)
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKDECK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKDECK_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory for persisted state")
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "Base URL of the posts API")
	fs.IntVar(&cfg.RequestTimeoutSeconds, "timeout", cfg.RequestTimeoutSeconds, "Remote request timeout in seconds (0 = transport default)")
	fs.IntVar(&cfg.PostsPerPage, "posts-per-page", cfg.PostsPerPage, "Posts per page")
	fs.IntVar(&cfg.DebounceMs, "debounce", cfg.DebounceMs, "Search debounce interval in milliseconds")
	fs.BoolVar(&cfg.DarkMode, "dark", cfg.DarkMode, "Start in dark mode (persisted preference wins)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")

	return fs.Parse(args)
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	cfg.DataDir = expandPath(cfg.DataDir)

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(cfg.ProjectRoot, cfg.DataDir)
	}

	if cfg.PostsPerPage < 1 {
		return fmt.Errorf("posts_per_page must be positive, got %d", cfg.PostsPerPage)
	}
	if cfg.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", cfg.DebounceMs)
	}

	return nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	if p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return home
	}
	return p
}
