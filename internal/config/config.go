// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
)

// Config holds the application configuration.
type Config struct {
	Ring     RingConfig     `toml:"ring"`
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
	LLM      LLMConfig      `toml:"llm"`
	Export   ExportConfig   `toml:"export"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// RingConfig holds dial rendering settings.
type RingConfig struct {
	Size int `toml:"size"` // diagram size in SVG user units, 200-800
}

// ScheduleConfig holds schedule settings.
type ScheduleConfig struct {
	DefaultTemplate string `toml:"default_template"` // loaded when nothing is saved
	TemplatesDir    string `toml:"templates_dir"`    // optional directory of extra *.toml presets
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Backend   string `toml:"backend"` // "sqlite" or "diskv"
	DBPath    string `toml:"db_path"`
	DiskvPath string `toml:"diskv_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte", "light"
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "ollama", "lmstudio" or "openai"
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	Retries  int    `toml:"retries"`
}

// ExportConfig holds raster export settings.
type ExportConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Dir    string `toml:"dir"` // where the TUI writes exports
}

// ServerConfig holds HTTP settings for `dayring serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	MaxRequests    int      `toml:"max_requests"` // per IP per minute
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // empty logs to stderr
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Ring: RingConfig{
			Size: 400,
		},
		Schedule: ScheduleConfig{
			DefaultTemplate: "classic",
		},
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			DBPath:    defaultDataPath("dayring.db"),
			DiskvPath: defaultDataPath("store"),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1",
			BaseURL:  "http://localhost:11434",
			Retries:  2,
		},
		Export: ExportConfig{
			Width:  800,
			Height: 800,
			Dir:    ".",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			MaxRequests:    600,
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDataPath returns a path under the user's data directory.
func defaultDataPath(name string) string {
	home, err := homedir.Dir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "dayring", name)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "dayring", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Storage.DiskvPath = expandPath(cfg.Storage.DiskvPath)
	cfg.Schedule.TemplatesDir = expandPath(cfg.Schedule.TemplatesDir)
	cfg.Export.Dir = expandPath(cfg.Export.Dir)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v, ok := envInt("DAYRING_RING_SIZE"); ok {
		cfg.Ring.Size = v
	}
	if v := os.Getenv("DAYRING_DEFAULT_TEMPLATE"); v != "" {
		cfg.Schedule.DefaultTemplate = v
	}
	if v := os.Getenv("DAYRING_TEMPLATES_DIR"); v != "" {
		cfg.Schedule.TemplatesDir = v
	}

	// Storage overrides
	if v := os.Getenv("DAYRING_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("DAYRING_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("DAYRING_DISKV_PATH"); v != "" {
		cfg.Storage.DiskvPath = v
	}

	if v := os.Getenv("DAYRING_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	// LLM overrides
	if v := os.Getenv("DAYRING_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("DAYRING_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("DAYRING_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v, ok := envInt("DAYRING_EXPORT_WIDTH"); ok {
		cfg.Export.Width = v
	}
	if v, ok := envInt("DAYRING_EXPORT_HEIGHT"); ok {
		cfg.Export.Height = v
	}
	if v := os.Getenv("DAYRING_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}

	if v := os.Getenv("DAYRING_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DAYRING_SERVER_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}

	if v := os.Getenv("DAYRING_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DAYRING_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validProviders = map[string]bool{
	"ollama":   true,
	"lmstudio": true,
	"openai":   true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Ring.Size < 200 || c.Ring.Size > 800 {
		return fmt.Errorf("ring size must be between 200 and 800, got %d", c.Ring.Size)
	}
	if strings.TrimSpace(c.Schedule.DefaultTemplate) == "" {
		return errors.New("default_template must be set")
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case BackendDiskv:
		if c.Storage.DiskvPath == "" {
			return errors.New("diskv_path must be set")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s", c.Storage.Backend)
	}

	if !validProviders[strings.ToLower(c.LLM.Provider)] {
		return fmt.Errorf("invalid llm provider: %s", c.LLM.Provider)
	}
	if c.LLM.Retries < 0 {
		return errors.New("llm retries cannot be negative")
	}

	if c.Export.Width < 100 || c.Export.Height < 100 {
		return fmt.Errorf("export size must be at least 100x100, got %dx%d", c.Export.Width, c.Export.Height)
	}

	if c.Server.Addr == "" {
		return errors.New("server addr must be set")
	}
	if c.Server.MaxRequests <= 0 {
		return errors.New("server max_requests must be positive")
	}

	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
