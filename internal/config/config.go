// Package config loads agentdeck configuration with viper.
//
// Values are resolved from, in increasing precedence: built-in defaults, a YAML or JSON config file, AGENTDECK_* environment variables, and command-line
// flags bound to the same viper instance. Keys are dotted ("render.width"); the matching environment variable replaces dots with underscores
// (AGENTDECK_RENDER_WIDTH).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable that overrides a config key.
const EnvPrefix = "AGENTDECK"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the resolved configuration.
type Config struct {
	Render RenderConfig `mapstructure:"render"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`

	// File is the config file that was read, or "" if none was found.
	File string `mapstructure:"-"`
}

type RenderConfig struct {
	Width      int    `mapstructure:"width"`  // 0 means terminal width, or no wrapping
	Format     string `mapstructure:"format"` // text, html, json, or outline
	Playground bool   `mapstructure:"playground"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Formats lists the accepted values of render.format.
var Formats = []string{"text", "html", "json", "outline"}

// SetDefaults registers the default value of every key on v. Every key needs a default so that environment overrides are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("render.width", 0)
	v.SetDefault("render.format", "text")
	v.SetDefault("render.playground", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// DefaultPath returns $XDG_CONFIG_HOME/agentdeck/config.yaml (or the platform equivalent), or "" if no user config dir is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, "agentdeck", "config.yaml")
}

// Load resolves configuration on v, which may already have flags bound. If path is non-empty the file must exist; otherwise DefaultPath is read if present.
// The returned Config has been validated.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if file == "" {
		file = DefaultPath()
		if file != "" {
			if _, err := os.Stat(file); err != nil {
				file = ""
			}
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.File = file
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid value, wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Render.Width < 0 {
		return fmt.Errorf("%w: render.width must be >= 0, got %d", ErrInvalidConfig, c.Render.Width)
	}
	if !slices.Contains(Formats, c.Render.Format) {
		return fmt.Errorf("%w: render.format must be one of %s, got %q", ErrInvalidConfig, strings.Join(Formats, ", "), c.Render.Format)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be > 0", ErrInvalidConfig)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must be >= 0", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q is not one of debug, info, warn, error", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}
