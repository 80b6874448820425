package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the reel downloader
type Config struct {
	// Instagram credentials (optional; public profiles work without them)
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Rate limiting configuration for API calls
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	SessionID string `yaml:"session_id" json:"session_id"`
	CSRFToken string `yaml:"csrf_token" json:"csrf_token"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	OutputDir       string        `yaml:"output_dir" json:"output_dir"`
	ItemDelay       time.Duration `yaml:"item_delay" json:"item_delay"`
	DownloadTimeout time.Duration `yaml:"download_timeout" json:"download_timeout"`
	MaxItems        int           `yaml:"max_items" json:"max_items"`
	WriteCaptions   bool          `yaml:"write_captions" json:"write_captions"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	MaxRetries        int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		Download: DownloadConfig{
			OutputDir:       "videos",
			ItemDelay:       2 * time.Second,
			DownloadTimeout: 30 * time.Second,
			MaxItems:        0, // 0 means no limit
			WriteCaptions:   false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			MaxRetries:        3,
			RetryDelay:        5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv("REELDL_SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken := os.Getenv("REELDL_CSRF_TOKEN"); csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if userAgent := os.Getenv("REELDL_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	if outputDir := os.Getenv("REELDL_OUTPUT_DIR"); outputDir != "" {
		c.Download.OutputDir = outputDir
	}
	if delay := os.Getenv("REELDL_ITEM_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			c.Download.ItemDelay = d
		}
	}
	if maxItems := os.Getenv("REELDL_MAX_ITEMS"); maxItems != "" {
		var val int
		fmt.Sscanf(maxItems, "%d", &val)
		if val > 0 {
			c.Download.MaxItems = val
		}
	}

	if rpm := os.Getenv("REELDL_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if logLevel := os.Getenv("REELDL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".reeldl.yaml",
		".reeldl.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "reeldl", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "reeldl", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".reeldl.yaml"),
		filepath.Join(os.Getenv("HOME"), ".reeldl.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// HasCredentials reports whether session credentials are configured
func (c *Config) HasCredentials() bool {
	return c.Instagram.SessionID != "" && c.Instagram.CSRFToken != ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Download.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Download.ItemDelay < 0 {
		errs = append(errs, errors.New("item delay cannot be negative"))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.MaxItems < 0 {
		errs = append(errs, errors.New("max items cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	// Session ID and CSRF token travel together
	if (c.Instagram.SessionID == "") != (c.Instagram.CSRFToken == "") {
		errs = append(errs, errors.New("session ID and CSRF token must both be set or both be empty"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken, ok := flags["csrf-token"].(string); ok && csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Download.OutputDir = outputDir
	}
	if delay, ok := flags["delay"].(time.Duration); ok && delay >= 0 {
		c.Download.ItemDelay = delay
	}
	if maxItems, ok := flags["max-items"].(int); ok && maxItems > 0 {
		c.Download.MaxItems = maxItems
	}
	if captions, ok := flags["captions"].(bool); ok {
		c.Download.WriteCaptions = captions
	}
	if timeout, ok := flags["download-timeout"].(time.Duration); ok && timeout > 0 {
		c.Download.DownloadTimeout = timeout
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".reeldl.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
