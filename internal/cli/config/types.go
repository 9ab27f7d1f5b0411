// Package config provides configuration management for the coltype CLI.
package config

import (
	"time"

	"github.com/leapstack-labs/coltype/pkg/core"
)

// Config holds all CLI configuration options.
type Config struct {
	Dialect      string               `koanf:"dialect"`
	Strict       bool                 `koanf:"strict"`
	MaxDepth     int                  `koanf:"max_depth"`
	StatePath    string               `koanf:"state_path"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
	Concurrency  int                  `koanf:"concurrency"`
	Target       *TargetConfig        `koanf:"target"`
	Serve        ServeConfig          `koanf:"serve"`
	Dialects     []core.DialectConfig `koanf:"dialects"`

	// ConfigFile is the file the config was loaded from, if any.
	ConfigFile string `koanf:"-"`
}

// TargetConfig describes the live catalog read by `catalog introspect`.
type TargetConfig struct {
	Type     string            `koanf:"type"`
	Database string            `koanf:"database"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
}

// AdapterConfig converts the target into an adapter configuration.
func (t *TargetConfig) AdapterConfig() core.AdapterConfig {
	if t == nil {
		return core.AdapterConfig{}
	}
	opts := make(map[string]string, len(t.Options))
	for k, v := range t.Options {
		opts[k] = v
	}
	return core.AdapterConfig{
		Type:     t.Type,
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  opts,
	}
}

// ServeConfig holds configuration for the API server.
type ServeConfig struct {
	Addr            string        `koanf:"addr"`
	Watch           string        `koanf:"watch"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Default configuration values.
const (
	DefaultDialect     = "hive"
	DefaultMaxDepth    = 256
	DefaultStateFile   = ".coltype/state.db"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultAddr        = ":8080"
	DefaultConcurrency = 4
	DefaultShutdown    = 5 * time.Second
)

// ConfigFileNames are searched, in order, in each candidate directory.
var ConfigFileNames = []string{"coltype.yaml", "coltype.yml"}
