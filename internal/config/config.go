// Package config resolves connection and output settings from struct
// defaults and INSURESQL_* environment variables. Command-line flags are
// applied on top by the caller.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "INSURESQL_"

type Config struct {
	Driver   string `koanf:"driver"`
	DSN      string `koanf:"dsn"`
	LogLevel string `koanf:"log_level"`
	LogJSON  bool   `koanf:"log_json"`
	// MaxWidth caps derived column widths in table output.
	MaxWidth int `koanf:"max_width"`
}

func Default() Config {
	return Config{
		Driver:   "sqlite",
		DSN:      "insurance.db",
		LogLevel: "warn",
		MaxWidth: 40,
	}
}

// Load layers INSURESQL_* environment variables over Default.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load default config: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Driver {
	case "sqlite", "postgres", "mssql", "mysql":
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("dsn must not be empty")
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("max_width must not be negative, got %d", c.MaxWidth)
	}
	return nil
}
