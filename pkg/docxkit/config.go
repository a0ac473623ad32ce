package docxkit

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"
)

// Config contains all configuration options for building and stripping packages
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// Strategy selects how the model is lowered to the body part (markup, object)
	Strategy string
	// FullParts adds styles, settings, document relationships and docProps
	FullParts bool
	// Annotate emits XML comments before annotated blocks and table rows
	Annotate bool
	// NormalizeText converts run text to Unicode NFC before serialization
	NormalizeText bool
	// ModTime is stamped on every archive member. The zero value leaves the
	// timestamp fields empty so output is reproducible.
	ModTime time.Time
	// TempDir is the parent for extraction directories. Empty means os.TempDir().
	TempDir string
	// Compression is the zip method for new members (deflate, store)
	Compression string
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		Strategy:      string(StrategyMarkup),
		FullParts:     false,
		Annotate:      false,
		NormalizeText: true,
		Compression:   "deflate",
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// DOCXKIT_LOG_LEVEL
	if val := os.Getenv("DOCXKIT_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	// DOCXKIT_STRATEGY
	if val := os.Getenv("DOCXKIT_STRATEGY"); val != "" {
		config.Strategy = strings.ToLower(val)
	}

	// DOCXKIT_FULL_PARTS
	if val := os.Getenv("DOCXKIT_FULL_PARTS"); val != "" {
		config.FullParts = parseBool(val)
	}

	// DOCXKIT_ANNOTATE
	if val := os.Getenv("DOCXKIT_ANNOTATE"); val != "" {
		config.Annotate = parseBool(val)
	}

	// DOCXKIT_NORMALIZE_TEXT
	if val := os.Getenv("DOCXKIT_NORMALIZE_TEXT"); val != "" {
		config.NormalizeText = parseBool(val)
	}

	// DOCXKIT_MODTIME (RFC 3339)
	if val := os.Getenv("DOCXKIT_MODTIME"); val != "" {
		if ts, err := time.Parse(time.RFC3339, val); err == nil {
			config.ModTime = ts
		}
	}

	// DOCXKIT_TEMP_DIR
	if val := os.Getenv("DOCXKIT_TEMP_DIR"); val != "" {
		config.TempDir = val
	}

	// DOCXKIT_COMPRESSION
	if val := os.Getenv("DOCXKIT_COMPRESSION"); val != "" {
		config.Compression = strings.ToLower(val)
	}

	return config
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.Strategy == "" {
		config.Strategy = defaults.Strategy
	}
	if config.Compression == "" {
		config.Compression = defaults.Compression
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if _, err := ParseStrategy(c.Strategy); err != nil {
		return err
	}

	switch c.Compression {
	case "deflate", "store":
	default:
		return errors.New("invalid compression: " + c.Compression)
	}

	if c.TempDir != "" {
		info, err := os.Stat(c.TempDir)
		if err != nil {
			return errors.New("temp dir not accessible: " + c.TempDir)
		}
		if !info.IsDir() {
			return errors.New("temp dir is not a directory: " + c.TempDir)
		}
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
