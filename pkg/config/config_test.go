package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/asciitab/pkg/codec"
	"github.com/ajitpratap0/asciitab/pkg/compression"
	"github.com/ajitpratap0/asciitab/pkg/errors"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "asciitab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultMatchesCodec(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, codec.DefaultLayout(), s.Layout.ToLayout())
}

func TestLoadWithoutFile(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadFile(t *testing.T) {
	path := writeSettings(t, `
layout:
  spacing: 2
  scientific: true
  header: false
compression:
  level: best
logging:
  level: debug
  encoding: json
metrics:
  addr: ":9100"
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Layout.Spacing)
	assert.True(t, s.Layout.Scientific)
	assert.False(t, s.Layout.Header)
	assert.Equal(t, 6, s.Layout.IntWidth)
	assert.Equal(t, compression.Best, s.Compression.ToLevel())
	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, "json", s.Logging.Encoding)
	assert.Equal(t, ":9100", s.Metrics.Addr)
	assert.Equal(t, "/metrics", s.Metrics.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ASCIITAB_LAYOUT_SPACING", "5")
	t.Setenv("ASCIITAB_LOGGING_LEVEL", "warn")
	t.Setenv("ASCIITAB_COMPRESSION_LEVEL", "fastest")

	s, err := Load(writeSettings(t, "layout:\n  spacing: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Layout.Spacing)
	assert.Equal(t, "warn", s.Logging.Level)
	assert.Equal(t, compression.Fastest, s.Compression.ToLevel())
}

func TestLoadSubstitutesVariables(t *testing.T) {
	t.Setenv("CATALOG_METRICS_ADDR", "127.0.0.1:9200")

	s, err := Load(writeSettings(t, "metrics:\n  addr: \"${CATALOG_METRICS_ADDR}\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9200", s.Metrics.Addr)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))

	_, err = Load(writeSettings(t, "layout: [unclosed\n"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = Load(writeSettings(t, "layout:\n  spacing: 0\n"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"negative decimals", func(s *Settings) { s.Layout.FloatDecimals = -1 }},
		{"bad level", func(s *Settings) { s.Logging.Level = "loud" }},
		{"bad compression level", func(s *Settings) { s.Compression.Level = "extreme" }},
		{"bad encoding", func(s *Settings) { s.Logging.Encoding = "xml" }},
		{"bad metrics path", func(s *Settings) { s.Metrics.Addr = ":9100"; s.Metrics.Path = "metrics" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			assert.True(t, errors.IsType(s.Validate(), errors.ErrorTypeConfig))
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := Default()
	s.Layout.StringWidth = 12
	s.Logging.Development = true

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, s))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestToLogger(t *testing.T) {
	cfg := Default().Logging.ToLogger()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, []string{"stderr"}, cfg.OutputPaths)
}

func TestCompressionToLevel(t *testing.T) {
	assert.Equal(t, compression.Default, Default().Compression.ToLevel())
	assert.Equal(t, compression.Better, CompressionSettings{Level: "Better"}.ToLevel())
	assert.Equal(t, compression.Default, CompressionSettings{Level: "extreme"}.ToLevel())
}
