// Package config resolves insight settings from defaults, a config file,
// INSIGHT_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
	"github.com/sprite-ai/insight/internal/logger"
)

// Defaults.
const (
	DefaultEndpoint    = "http://localhost:8000/analyze"
	DefaultAddr        = "127.0.0.1"
	DefaultPort        = 8000
	DefaultAllowOrigin = "http://localhost:3000"
	DefaultFormat      = FormatText
	DefaultColor       = ColorAuto

	EnvPrefix = "INSIGHT"
	FileName  = ".insight"
)

// Output formats for the analyze command.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Color modes.
const (
	ColorAuto = "auto"
	ColorYes  = "yes"
	ColorNo   = "no"
)

// RawInput holds the unvalidated values from all sources. Viper unmarshals into it.
type RawInput struct {
	Endpoint    string `mapstructure:"endpoint"`
	LogFile     string `mapstructure:"log-file"`
	Debug       bool   `mapstructure:"debug"`
	Color       string `mapstructure:"color"`
	Format      string `mapstructure:"format"`
	Addr        string `mapstructure:"addr"`
	Port        int    `mapstructure:"port"`
	AllowOrigin string `mapstructure:"allow-origin"`
}

// Config is the final, validated configuration.
type Config struct {
	Endpoint    string
	LogFile     string
	Debug       bool
	Color       string
	Format      string
	Addr        string
	Port        int
	AllowOrigin string
}

// ListenAddr returns the host:port the service binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

// NewViper returns a viper instance with defaults, file search paths and the
// environment binding configured. configFile overrides the search paths.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("log-file", logger.DefaultPath())
	v.SetDefault("debug", false)
	v.SetDefault("color", DefaultColor)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("allow-origin", DefaultAllowOrigin)

	return v
}

// Load reads the config file if one exists, then unmarshals and validates
// everything viper has resolved.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var raw RawInput
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return Process(&raw)
}

// Process validates raw input and produces a Config.
func Process(raw *RawInput) (*Config, error) {
	endpoint := strings.TrimSpace(raw.Endpoint)
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: must be an absolute http or https URL", endpoint)
	}

	format := strings.ToLower(raw.Format)
	switch format {
	case FormatText, FormatJSON, FormatMarkdown:
	default:
		return nil, fmt.Errorf("invalid format %q: must be one of text, json, markdown", raw.Format)
	}

	colorMode := strings.ToLower(raw.Color)
	switch colorMode {
	case ColorAuto, ColorYes, ColorNo:
	default:
		return nil, fmt.Errorf("invalid color %q: must be one of auto, yes, no", raw.Color)
	}

	if raw.Port < 1 || raw.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 1 and 65535", raw.Port)
	}

	logFile := raw.LogFile
	if logFile == "" {
		logFile = logger.DefaultPath()
	}

	return &Config{
		Endpoint:    endpoint,
		LogFile:     logFile,
		Debug:       raw.Debug,
		Color:       colorMode,
		Format:      format,
		Addr:        raw.Addr,
		Port:        raw.Port,
		AllowOrigin: raw.AllowOrigin,
	}, nil
}
