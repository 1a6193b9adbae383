package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-rab2html/internal/config"
)

const envPrefix = "RAB2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // RAB2HTML_CONFIG: config name or path
	Timeout     time.Duration // RAB2HTML_TIMEOUT: slide page load timeout
	Workers     int           // RAB2HTML_WORKERS: parallel workers
	Source      string        // RAB2HTML_SOURCE: site source directory
	Destination string        // RAB2HTML_DESTINATION: site output directory
	Template    string        // RAB2HTML_TEMPLATE: slide template name or path
	LogLevel    string        // RAB2HTML_LOG_LEVEL: debug, info, warn, error
	RedisAddr   string        // RAB2HTML_REDIS_ADDR: shared container cache
}

// knownEnvVars lists valid RAB2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
// RAB2HTML_TEST_REDIS is read by the test suite only.
var knownEnvVars = map[string]bool{
	"RAB2HTML_CONFIG":      true,
	"RAB2HTML_TIMEOUT":     true,
	"RAB2HTML_WORKERS":     true,
	"RAB2HTML_SOURCE":      true,
	"RAB2HTML_DESTINATION": true,
	"RAB2HTML_TEMPLATE":    true,
	"RAB2HTML_LOG_LEVEL":   true,
	"RAB2HTML_REDIS_ADDR":  true,
	"RAB2HTML_TEST_REDIS":  true,
	"RAB2HTML_CONTAINER":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("RAB2HTML_CONFIG"),
		Source:      os.Getenv("RAB2HTML_SOURCE"),
		Destination: os.Getenv("RAB2HTML_DESTINATION"),
		Template:    os.Getenv("RAB2HTML_TEMPLATE"),
		LogLevel:    os.Getenv("RAB2HTML_LOG_LEVEL"),
		RedisAddr:   os.Getenv("RAB2HTML_REDIS_ADDR"),
	}

	if timeout := os.Getenv("RAB2HTML_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("RAB2HTML_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized RAB2HTML_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the config file.
// Order of precedence: CLI flags > env vars > config file > defaults.
// Flags are applied later by applyFlags.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Source != "" {
		cfg.Source = env.Source
	}
	if env.Destination != "" {
		cfg.Destination = env.Destination
	}
	if env.Template != "" {
		cfg.Rabbit.Template = env.Template
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.RedisAddr != "" {
		cfg.Cache.Redis.Addr = env.RedisAddr
	}
}
