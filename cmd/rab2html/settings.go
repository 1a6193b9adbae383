package main

import (
	"context"
	"errors"
	"time"

	rab2html "github.com/alnah/go-rab2html"
	"github.com/alnah/go-rab2html/internal/config"
	"github.com/alnah/go-rab2html/internal/logging"
)

// defaultConfigName is looked up when neither --config nor RAB2HTML_CONFIG is set.
const defaultConfigName = "rab2html"

// settings is the resolved configuration of one command run.
type settings struct {
	cfg     *config.Config
	timeout time.Duration
	logger  *logging.Logger
}

// loadSettings merges defaults, the config file, the environment and flags.
func loadSettings(env *Environment, g *globalFlags) (*settings, error) {
	envCfg := loadEnvConfig()
	if !g.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg, err := loadConfigFile(env, g.config, envCfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	applyEnvConfig(envCfg, cfg)

	if lvl := g.logLevel(); lvl != "" {
		cfg.LogLevel = lvl
	}
	if g.workers > 0 {
		cfg.Workers = g.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	timeout := g.timeout
	if timeout == 0 {
		timeout = envCfg.Timeout
	}

	return &settings{
		cfg:     cfg,
		timeout: timeout,
		logger:  logging.New(env.Stderr, level),
	}, nil
}

// loadConfigFile loads the named config, or the default one when present.
func loadConfigFile(env *Environment, flagName, envName string) (*config.Config, error) {
	load := env.LoadConfig
	if load == nil {
		load = config.LoadConfig
	}

	name := flagName
	if name == "" {
		name = envName
	}
	if name != "" {
		return load(name)
	}

	cfg, err := load(defaultConfigName)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// rasterTimeout returns the page load timeout for browsers.
func (s *settings) rasterTimeout() time.Duration {
	if s.timeout > 0 {
		return s.timeout
	}
	return rab2html.DefaultTimeout
}

// renderConfig returns the per-document rendering settings.
func (s *settings) renderConfig(outputBase string) rab2html.RenderConfig {
	return rab2html.RenderConfig{
		OutputBase: outputBase,
		Width:      s.cfg.Rabbit.Width,
		Height:     s.cfg.Rabbit.Height,
		Template:   s.cfg.Rabbit.Template,
	}
}

// newConverter builds a converter from the settings. The returned close
// function releases the browsers and the Redis connection.
func (s *settings) newConverter(ctx context.Context, env *Environment) (*rab2html.Converter, func(), error) {
	opts := []rab2html.Option{
		rab2html.WithLogger(s.logger),
		rab2html.WithWorkers(min(s.cfg.Workers, rab2html.MaxPoolSize)),
		rab2html.WithTimeout(s.rasterTimeout()),
	}
	if s.cfg.Assets.BasePath != "" {
		opts = append(opts, rab2html.WithAssetPath(s.cfg.Assets.BasePath))
	}
	if env.Rasterizer != nil {
		opts = append(opts, rab2html.WithRasterizer(env.Rasterizer))
	}

	var store *rab2html.RedisStore
	if r := s.cfg.Cache.Redis; r.Enabled() {
		var err error
		store, err = rab2html.NewRedisStore(ctx, rab2html.RedisOptions{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
			TTL:      r.TTLDuration(),
		})
		if err != nil {
			return nil, nil, &cacheError{addr: r.Addr, err: err}
		}
		s.logger.Debug("Cache:", "using Redis at %s", r.Addr)
		opts = append(opts, rab2html.WithStore(store))
	}

	conv, err := rab2html.NewConverter(opts...)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, nil, err
	}

	closeFn := func() {
		if err := conv.Close(); err != nil {
			s.logger.Warn("Rabbit:", "closing browsers: %v", err)
		}
		if store != nil {
			_ = store.Close()
		}
	}
	return conv, closeFn, nil
}
