// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/spectre-tui/internal/chatapi"
	"github.com/jeranaias/spectre-tui/internal/storage"
	"github.com/jeranaias/spectre-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete spectre configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Chat endpoint configuration
	Endpoint EndpointConfig `toml:"endpoint" json:"endpoint"`

	// Persistence backend configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log file configuration
	Log LogConfig `toml:"log" json:"log"`
}

// EndpointConfig describes the remote chat endpoint.
type EndpointConfig struct {
	// URL receives POST {"message": "..."} and answers {"response": "..."}
	URL string `toml:"url" json:"url" env:"SPECTRE_ENDPOINT"`
	// TimeoutSecs bounds a single chat request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" env:"SPECTRE_TIMEOUT_SECS"`
	// UserAgent is sent with each request (empty = spectre/<version>)
	UserAgent string `toml:"user_agent" json:"user_agent" env:"SPECTRE_USER_AGENT"`
}

// StorageConfig selects where the user and chat history blobs live.
type StorageConfig struct {
	// Backend is one of "file", "sqlite", "redis", "memory"
	Backend string `toml:"backend" json:"backend" env:"SPECTRE_BACKEND"`
	// Dir holds the file blobs and the sqlite database (supports ~)
	Dir string `toml:"dir" json:"dir" env:"SPECTRE_STORAGE_DIR"`

	RedisAddr     string `toml:"redis_addr" json:"redis_addr" env:"SPECTRE_REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" json:"redis_password" env:"SPECTRE_REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db" json:"redis_db" env:"SPECTRE_REDIS_DB"`

	// KeyPrefix namespaces keys when several profiles share one backend
	KeyPrefix string `toml:"key_prefix" json:"key_prefix" env:"SPECTRE_KEY_PREFIX"`
}

// UIConfig contains terminal interface settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme          string `toml:"theme" json:"theme" env:"SPECTRE_THEME"`
	ShowTimestamps bool   `toml:"show_timestamps" json:"show_timestamps" env:"SPECTRE_SHOW_TIMESTAMPS"`
	RenderMarkdown bool   `toml:"render_markdown" json:"render_markdown" env:"SPECTRE_RENDER_MARKDOWN"`
	SidebarWidth   int    `toml:"sidebar_width" json:"sidebar_width" env:"SPECTRE_SIDEBAR_WIDTH"`
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `toml:"level" json:"level" env:"SPECTRE_LOG_LEVEL"`
	// Path of the log file (empty = ~/.spectre/spectre.log)
	Path string `toml:"path" json:"path" env:"SPECTRE_LOG_PATH"`
}

// Valid themes.
var validThemes = []string{"dark", "light", "auto"}

const (
	minSidebarWidth = 16
	maxSidebarWidth = 80
	maxTimeoutSecs  = 600
)

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a configuration with sensible defaults.
func Default() *Config {
	dir := ""
	if base, err := ConfigDir(); err == nil {
		dir = filepath.Join(base, "data")
	}

	return &Config{
		Version: "1.0.0",
		Endpoint: EndpointConfig{
			URL:         chatapi.DefaultEndpoint,
			TimeoutSecs: int(chatapi.DefaultTimeout / time.Second),
		},
		Storage: StorageConfig{
			Backend:   string(storage.KindFile),
			Dir:       dir,
			RedisAddr: "localhost:6379",
		},
		UI: UIConfig{
			Theme:          "dark",
			ShowTimestamps: true,
			RenderMarkdown: true,
			SidebarWidth:   28,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// ConfigDir returns the path to the spectre configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".spectre"), nil
}

// ConfigPathTOML returns the path to the TOML configuration file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON configuration file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions tightens a config file to 0600.
// The file may hold a redis password.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default locations.
// Tries TOML first, then JSON, then falls back to defaults. A file that
// fails to parse is reported alongside the defaults so the caller can warn.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			} else {
				return finish(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = errors.Join(loadErr, fmt.Errorf("failed to load JSON config: %w", err))
				cfg = Default()
			} else {
				return finish(cfg)
			}
		}
	}

	cfg, err = finish(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full validation.
// The extension picks the format; anything but .json is read as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	path = util.ExpandHome(path)

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// finish runs the shared tail of every load path.
func finish(cfg *Config) (*Config, error) {
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.Migrate()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadJSON loads configuration from a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// fillDefaults fills in string fields a partial file left empty.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.Endpoint.URL == "" {
		cfg.Endpoint.URL = defaults.Endpoint.URL
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = defaults.Storage.Dir
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# spectre configuration file\n")
	buf.WriteString("# Generated by spectre - edit with care\n")
	buf.WriteString("\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if err := chatapi.ValidateEndpoint(c.Endpoint.URL); err != nil {
		errs = append(errs, ValidationError{Field: "endpoint.url", Message: err.Error()})
	}
	if c.Endpoint.TimeoutSecs <= 0 || c.Endpoint.TimeoutSecs > maxTimeoutSecs {
		errs = append(errs, ValidationError{
			Field:   "endpoint.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", maxTimeoutSecs, c.Endpoint.TimeoutSecs),
		})
	}

	kind, err := storage.ParseKind(c.Storage.Backend)
	if err != nil {
		errs = append(errs, ValidationError{Field: "storage.backend", Message: err.Error()})
	}
	if kind == storage.KindSQLite && strings.TrimSpace(c.Storage.Dir) == "" {
		errs = append(errs, ValidationError{Field: "storage.dir", Message: "required for the sqlite backend"})
	}
	if kind == storage.KindRedis && strings.TrimSpace(c.Storage.RedisAddr) == "" {
		errs = append(errs, ValidationError{Field: "storage.redis_addr", Message: "required for the redis backend"})
	}
	if c.Storage.RedisDB < 0 {
		errs = append(errs, ValidationError{Field: "storage.redis_db", Message: "must not be negative"})
	}

	if !contains(validThemes, strings.ToLower(c.UI.Theme)) {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(validThemes, ", "), c.UI.Theme),
		})
	}
	if c.UI.SidebarWidth < minSidebarWidth || c.UI.SidebarWidth > maxSidebarWidth {
		errs = append(errs, ValidationError{
			Field:   "ui.sidebar_width",
			Message: fmt.Sprintf("must be between %d and %d, got %d", minSidebarWidth, maxSidebarWidth, c.UI.SidebarWidth),
		})
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()
	fillDefaults(c)

	if c.Endpoint.TimeoutSecs == 0 {
		c.Endpoint.TimeoutSecs = defaults.Endpoint.TimeoutSecs
	}
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = defaults.Storage.RedisAddr
	}
	if c.UI.SidebarWidth == 0 {
		c.UI.SidebarWidth = defaults.UI.SidebarWidth
	}
}

// Migrate normalizes legacy spellings.
func (c *Config) Migrate() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "json", "files":
		c.Storage.Backend = string(storage.KindFile)
	case "sqlite3":
		c.Storage.Backend = string(storage.KindSQLite)
	}

	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "warning" {
		c.Log.Level = "warn"
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies SPECTRE_* environment variables to the config.
// A .env file in the config directory or the working directory is read
// first; variables already set in the process environment win.
//
// Supported environment variables:
//   - SPECTRE_ENDPOINT: overrides endpoint.url
//   - SPECTRE_TIMEOUT_SECS: overrides endpoint.timeout_secs
//   - SPECTRE_BACKEND: overrides storage.backend
//   - SPECTRE_STORAGE_DIR, SPECTRE_REDIS_ADDR, SPECTRE_REDIS_PASSWORD,
//     SPECTRE_REDIS_DB, SPECTRE_KEY_PREFIX: storage settings
//   - SPECTRE_THEME, SPECTRE_SHOW_TIMESTAMPS, SPECTRE_RENDER_MARKDOWN,
//     SPECTRE_SIDEBAR_WIDTH: ui settings
//   - SPECTRE_LOG_LEVEL, SPECTRE_LOG_PATH: log settings
func (c *Config) ApplyEnvOverrides() error {
	loadDotEnv()

	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// loadDotEnv reads .env files that exist. Missing files are not an error.
func loadDotEnv() {
	var paths []string
	if dir, err := ConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}
	paths = append(paths, ".env")

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not read %s: %v\n", p, err)
		}
	}
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Timeout returns the chat request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Endpoint.TimeoutSecs) * time.Second
}

// ClientConfig returns the chat client configuration.
func (c *Config) ClientConfig(version string) *chatapi.ClientConfig {
	ua := c.Endpoint.UserAgent
	if ua == "" && version != "" {
		ua = "spectre/" + version
	}
	return &chatapi.ClientConfig{
		Endpoint:  c.Endpoint.URL,
		Timeout:   c.Timeout(),
		UserAgent: ua,
	}
}

// StorageOptions returns the backend selection for storage.Open.
func (c *Config) StorageOptions() (storage.Options, error) {
	kind, err := storage.ParseKind(c.Storage.Backend)
	if err != nil {
		return storage.Options{}, err
	}
	return storage.Options{
		Kind:          kind,
		Dir:           util.ExpandHome(c.Storage.Dir),
		RedisAddr:     c.Storage.RedisAddr,
		RedisPassword: c.Storage.RedisPassword,
		RedisDB:       c.Storage.RedisDB,
		KeyPrefix:     c.Storage.KeyPrefix,
	}, nil
}

// LogPath returns the resolved log file path.
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return util.ExpandHome(c.Log.Path)
	}
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "spectre.log")
	}
	return filepath.Join(dir, "spectre.log")
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "storage.backend").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks the struct along the dotted path.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section, not a value", key)
			}
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strings.TrimSpace(strVal))
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"endpoint.url",
		"endpoint.timeout_secs",
		"endpoint.user_agent",
		"storage.backend",
		"storage.dir",
		"storage.redis_addr",
		"storage.redis_password",
		"storage.redis_db",
		"storage.key_prefix",
		"ui.theme",
		"ui.show_timestamps",
		"ui.render_markdown",
		"ui.sidebar_width",
		"log.level",
		"log.path",
	}
}

// Clone returns a copy of the configuration. Config holds no reference
// types so a value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Storage.RedisPassword != "" {
		safe.Storage.RedisPassword = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
