package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// DefaultLength is the password length used when a caller does not pass one.
	DefaultLength int `json:"default_length" validate:"min=4,max=32"`

	// DefaultBatchCount is the number of passwords produced by a batch run
	// when the caller does not pass a count.
	DefaultBatchCount int `json:"default_batch_count" validate:"min=1,max=20"`

	// HistoryCapacity caps the number of history entries kept (newest first).
	HistoryCapacity int `json:"history_capacity" validate:"min=1,max=1000"`

	// AllowedPaths is an allowlist of directories for CSV export.
	// Paths outside ~/.passgen/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" validate:"min=0"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" validate:"min=0"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// WebBind is the interface the web UI listens on.
	WebBind string `json:"web_bind,omitempty" validate:"required,hostname|ip"`

	// WebPort is the TCP port the web UI listens on.
	WebPort int `json:"web_port,omitempty" validate:"min=1,max=65535"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" validate:"oneof=debug info warn error"`
}

// Environment variables that override file configuration.
const (
	EnvDefaultLength   = "PASSGEN_DEFAULT_LENGTH"
	EnvBatchCount      = "PASSGEN_BATCH_COUNT"
	EnvHistoryCapacity = "PASSGEN_HISTORY_CAPACITY"
	EnvWebBind         = "PASSGEN_WEB_BIND"
	EnvWebPort         = "PASSGEN_WEB_PORT"
	EnvLogLevel        = "PASSGEN_LOG_LEVEL"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultLength:     16,
		DefaultBatchCount: 5,
		HistoryCapacity:   50,
		WebBind:           "127.0.0.1",
		WebPort:           8765,
		LogLevel:          "info",
	}
}

// Load loads configuration from baseDir/config.json, applies environment
// overrides (including baseDir/.env if present) and validates the result.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.passgen.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return finalize(baseDir, cfg)
}

// LoadWithRepo loads configuration from both global (~/.passgen) and repo (.passgen) directories.
// Repo config is found by walking upward from startDir to find the nearest .passgen/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return finalize(globalDir, Merge(Merge(DefaultConfig(), global), repo))
}

// FindRepoConfig walks upward from startDir to find the nearest .passgen/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".passgen", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks the configuration against its field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func finalize(baseDir string, cfg *Config) (*Config, error) {
	if err := loadDotEnv(baseDir); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads baseDir/.env into the process environment.
// Variables already set in the environment are not overwritten.
func loadDotEnv(baseDir string) error {
	envPath := filepath.Join(baseDir, ".env")
	if _, err := os.Stat(envPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("failed to load %s: %w", envPath, err)
	}
	return nil
}

// ApplyEnv overrides config fields from PASSGEN_* environment variables.
func ApplyEnv(cfg *Config) error {
	ints := []struct {
		env string
		dst *int
	}{
		{EnvDefaultLength, &cfg.DefaultLength},
		{EnvBatchCount, &cfg.DefaultBatchCount},
		{EnvHistoryCapacity, &cfg.HistoryCapacity},
		{EnvWebPort, &cfg.WebPort},
	}
	for _, v := range ints {
		raw := strings.TrimSpace(os.Getenv(v.env))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", v.env, raw)
		}
		*v.dst = n
	}

	if bind := strings.TrimSpace(os.Getenv(EnvWebBind)); bind != "" {
		cfg.WebBind = bind
	}
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	return nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		DefaultLength:     pickInt(overlay.DefaultLength, base.DefaultLength),
		DefaultBatchCount: pickInt(overlay.DefaultBatchCount, base.DefaultBatchCount),
		HistoryCapacity:   pickInt(overlay.HistoryCapacity, base.HistoryCapacity),
		DBMaxOpenConns:    pickInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:    pickInt(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
		WebPort:           pickInt(overlay.WebPort, base.WebPort),
		WebBind:           pickString(overlay.WebBind, base.WebBind),
		LogLevel:          pickString(overlay.LogLevel, base.LogLevel),
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

func pickString(overlay, base string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
