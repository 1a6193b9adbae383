// Package config loads the site configuration of the rab2html CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-rab2html/internal/logging"
	"github.com/alnah/go-rab2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxPathLength     = 4096  // source, destination, keep_files, exclude, assets
	MaxTemplateLength = 4096  // template name or path
	MaxAddrLength     = 255   // host:port
	MaxPrefixLength   = 100   // Redis key prefix
	MaxSlideDimension = 10000 // pixels
	MaxWorkers        = 32
	MaxKeepFiles      = 1000
)

const (
	defaultSlideWidth  = 640
	defaultSlideHeight = 480
	defaultTemplate    = "bootstrap_carousel"
	defaultSourceDir   = "."
	defaultDestination = "_site"
	defaultLogLevel    = "info"
	userConfigDirName  = "rab2html"
)

// Config holds the site build settings.
type Config struct {
	Source      string       `yaml:"source"`      // site source directory (default ".")
	Destination string       `yaml:"destination"` // output directory (default "_site")
	KeepFiles   []string     `yaml:"keep_files"`  // destination paths the cleanup sweep keeps
	Exclude     []string     `yaml:"exclude"`     // source paths not copied or converted
	LogLevel    string       `yaml:"log_level"`   // debug, info, warn, error (default "info")
	Workers     int          `yaml:"workers"`     // browsers and parallel documents (0 = auto)
	Rabbit      RabbitConfig `yaml:"rabbit"`
	Assets      AssetsConfig `yaml:"assets"`
	Cache       CacheConfig  `yaml:"cache"`
}

// RabbitConfig holds the slide rendering options.
type RabbitConfig struct {
	Width    int    `yaml:"width"`    // slide image width in pixels (default 640)
	Height   int    `yaml:"height"`   // slide image height in pixels (default 480)
	Template string `yaml:"template"` // template name or path (default "bootstrap_carousel")
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded templates
}

// CacheConfig defines the shared container cache.
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig enables the Redis container cache when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	TTL      string `yaml:"ttl"` // Go duration, empty keeps entries forever
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// TTLDuration returns the parsed TTL. Call after Validate.
func (r RedisConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(r.TTL)
	return d
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("source", c.Source, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("destination", c.Destination, MaxPathLength); err != nil {
		return err
	}
	if c.Source != "" && c.Destination != "" && filepath.Clean(c.Source) == filepath.Clean(c.Destination) {
		return fmt.Errorf("%w: destination must differ from source (%s)", ErrInvalidValue, c.Destination)
	}

	if len(c.KeepFiles) > MaxKeepFiles {
		return fmt.Errorf("%w: keep_files has %d entries (max %d)", ErrInvalidValue, len(c.KeepFiles), MaxKeepFiles)
	}
	for i, k := range c.KeepFiles {
		if k == "" {
			return fmt.Errorf("%w: keep_files[%d] is empty", ErrInvalidValue, i)
		}
		if err := validateFieldLength(fmt.Sprintf("keep_files[%d]", i), k, MaxPathLength); err != nil {
			return err
		}
	}
	for i, e := range c.Exclude {
		if err := validateFieldLength(fmt.Sprintf("exclude[%d]", i), e, MaxPathLength); err != nil {
			return err
		}
	}

	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: log_level: %v", ErrInvalidValue, err)
		}
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	// Validate rabbit fields
	if c.Rabbit.Width < 0 || c.Rabbit.Width > MaxSlideDimension {
		return fmt.Errorf("%w: rabbit.width: must be between 0 and %d, got %d", ErrInvalidValue, MaxSlideDimension, c.Rabbit.Width)
	}
	if c.Rabbit.Height < 0 || c.Rabbit.Height > MaxSlideDimension {
		return fmt.Errorf("%w: rabbit.height: must be between 0 and %d, got %d", ErrInvalidValue, MaxSlideDimension, c.Rabbit.Height)
	}
	if err := validateFieldLength("rabbit.template", c.Rabbit.Template, MaxTemplateLength); err != nil {
		return err
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	// Validate cache fields
	r := c.Cache.Redis
	if err := validateFieldLength("cache.redis.addr", r.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("cache.redis.prefix", r.Prefix, MaxPrefixLength); err != nil {
		return err
	}
	if r.DB < 0 {
		return fmt.Errorf("%w: cache.redis.db: must not be negative, got %d", ErrInvalidValue, r.DB)
	}
	if r.TTL != "" {
		d, err := time.ParseDuration(r.TTL)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: cache.redis.ttl: %q is not a positive duration", ErrInvalidValue, r.TTL)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Source:      defaultSourceDir,
		Destination: defaultDestination,
		LogLevel:    defaultLogLevel,
		Rabbit: RabbitConfig{
			Width:    defaultSlideWidth,
			Height:   defaultSlideHeight,
			Template: defaultTemplate,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.ReadFile(configPath, cfg, true); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/rab2html/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, userConfigDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
