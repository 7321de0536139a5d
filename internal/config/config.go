package config

import (
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/plus3/grabfocus/grab"
	"github.com/rotisserie/eris"
)

// Prefix is prepended to every variable name below.
const Prefix = "GRAB_"

// Config holds the runtime settings shared by the grab binaries.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Workers bounds both tick phases. Zero means GOMAXPROCS.
	Workers   int `env:"WORKERS"    envDefault:"0"`
	ChunkSize int `env:"CHUNK_SIZE" envDefault:"256"`

	TouchDepth     float64          `env:"TOUCH_DEPTH"     envDefault:"15"`
	OracleTimeout  time.Duration    `env:"ORACLE_TIMEOUT"  envDefault:"0s"`
	ResolveMode    grab.ResolveMode `env:"RESOLVE_MODE"    envDefault:"sequential"`
	ReleaseOrphans bool             `env:"RELEASE_ORPHANS" envDefault:"true"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads the configuration from environment, or from the process
// environment when it is nil.
func LoadFrom(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix, Environment: environment}); err != nil {
		return Config{}, eris.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the systems cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return eris.Errorf("workers must not be negative, got %d", c.Workers)
	case c.ChunkSize <= 0:
		return eris.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	case c.TouchDepth <= 0:
		return eris.Errorf("touch depth must be positive, got %v", c.TouchDepth)
	case c.OracleTimeout < 0:
		return eris.Errorf("oracle timeout must not be negative, got %s", c.OracleTimeout)
	case c.LogFormat != "console" && c.LogFormat != "json":
		return eris.Errorf("log format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// EffectiveWorkers resolves a zero worker count.
func (c Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// WorldOptions translates the configuration into grab.NewWorld options.
func (c Config) WorldOptions() []grab.Option {
	return []grab.Option{
		grab.WithWorkers(c.Workers),
		grab.WithChunkSize(c.ChunkSize),
		grab.WithTouchDepth(c.TouchDepth),
		grab.WithOracleTimeout(c.OracleTimeout),
		grab.WithResolveMode(c.ResolveMode),
		grab.WithOrphanRelease(c.ReleaseOrphans),
	}
}
