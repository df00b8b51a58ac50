// Package config provides the settings of the asciitab tools.
//
// Settings are read from a YAML file and may be overridden through
// environment variables prefixed with ASCIITAB_, with nested keys joined by
// underscores:
//
//	layout:
//	  spacing: 3
//	  scientific: false
//	compression:
//	  level: best
//	logging:
//	  level: info
//
//	ASCIITAB_LAYOUT_SPACING=4 asciitab cat catalog.dat
//
// ${VAR} references inside the file are replaced with the environment value
// before parsing.
package config

import (
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/asciitab/pkg/codec"
	"github.com/ajitpratap0/asciitab/pkg/compression"
	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/logger"
)

// EnvPrefix prefixes environment overrides
const EnvPrefix = "ASCIITAB"

// Settings is the complete tool configuration
type Settings struct {
	// Layout controls how tables are rendered
	Layout LayoutSettings `yaml:"layout" mapstructure:"layout"`
	// Compression sets the level for .gz, .zst, .lz4 and .sz outputs
	Compression CompressionSettings `yaml:"compression" mapstructure:"compression"`
	// Logging configures the global logger
	Logging LoggingSettings `yaml:"logging" mapstructure:"logging"`
	// Metrics configures the Prometheus endpoint
	Metrics MetricsSettings `yaml:"metrics" mapstructure:"metrics"`
}

// LayoutSettings mirrors codec.Layout
type LayoutSettings struct {
	Spacing       int  `yaml:"spacing" mapstructure:"spacing"`
	Scientific    bool `yaml:"scientific" mapstructure:"scientific"`
	IntWidth      int  `yaml:"int_width" mapstructure:"int_width"`
	FloatWidth    int  `yaml:"float_width" mapstructure:"float_width"`
	FloatDecimals int  `yaml:"float_decimals" mapstructure:"float_decimals"`
	StringWidth   int  `yaml:"string_width" mapstructure:"string_width"`
	Header        bool `yaml:"header" mapstructure:"header"`
}

// CompressionSettings configures compressed outputs. Level is one of
// fastest, default, better or best.
type CompressionSettings struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// LoggingSettings configures pkg/logger
type LoggingSettings struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Encoding    string `yaml:"encoding" mapstructure:"encoding"`
	Development bool   `yaml:"development" mapstructure:"development"`
}

// MetricsSettings configures the metrics endpoint. An empty address
// disables it.
type MetricsSettings struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	Path string `yaml:"path" mapstructure:"path"`
}

// Default returns the settings used when no file is given
func Default() *Settings {
	l := codec.DefaultLayout()
	return &Settings{
		Layout: LayoutSettings{
			Spacing:       l.Spacing,
			Scientific:    l.Scientific,
			IntWidth:      l.IntWidth,
			FloatWidth:    l.FloatWidth,
			FloatDecimals: l.FloatDecimals,
			StringWidth:   l.StringWidth,
			Header:        l.EmitHeader,
		},
		Compression: CompressionSettings{
			Level: "default",
		},
		Logging: LoggingSettings{
			Level:    "info",
			Encoding: "console",
		},
		Metrics: MetricsSettings{
			Path: "/metrics",
		},
	}
}

// Validate checks the settings for values the tools cannot use
func (s *Settings) Validate() error {
	if err := s.Layout.ToLayout().Validate(); err != nil {
		return err
	}
	if _, err := compression.ParseLevel(s.Compression.Level); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(s.Logging.Level); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid log level").
			WithDetail("level", s.Logging.Level)
	}
	switch s.Logging.Encoding {
	case "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "log encoding must be json or console, got %q", s.Logging.Encoding)
	}
	if s.Metrics.Addr != "" && !strings.HasPrefix(s.Metrics.Path, "/") {
		return errors.Newf(errors.ErrorTypeConfig, "metrics path must start with /, got %q", s.Metrics.Path)
	}
	return nil
}

// ToLayout builds the codec layout
func (l LayoutSettings) ToLayout() codec.Layout {
	return codec.Layout{
		Spacing:       l.Spacing,
		Scientific:    l.Scientific,
		IntWidth:      l.IntWidth,
		FloatWidth:    l.FloatWidth,
		FloatDecimals: l.FloatDecimals,
		StringWidth:   l.StringWidth,
		EmitHeader:    l.Header,
	}
}

// ToLevel returns the compression level. Validate rejects unknown names,
// so an invalid level only reaches here on unvalidated settings and falls
// back to the default.
func (c CompressionSettings) ToLevel() compression.Level {
	level, err := compression.ParseLevel(c.Level)
	if err != nil {
		return compression.Default
	}
	return level
}

// ToLogger builds the logger configuration
func (l LoggingSettings) ToLogger() logger.Config {
	return logger.Config{
		Level:       l.Level,
		Encoding:    l.Encoding,
		Development: l.Development,
		OutputPaths: []string{"stderr"},
	}
}
