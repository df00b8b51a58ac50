package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/asciitab/pkg/errors"
)

// Load reads settings from path on top of the defaults and applies
// ASCIITAB_ environment overrides. An empty path uses the defaults and the
// environment only.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // G304: path is chosen by the caller
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to read settings file").WithDetail("path", path)
		}
		v.SetConfigType("yaml")
		if err := v.ReadConfig(strings.NewReader(substituteEnvVars(string(data)))); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse settings").WithDetail("path", path)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to decode settings")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes s to path as YAML
func Save(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal settings")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write settings file").WithDetail("path", path)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault("layout.spacing", d.Layout.Spacing)
	v.SetDefault("layout.scientific", d.Layout.Scientific)
	v.SetDefault("layout.int_width", d.Layout.IntWidth)
	v.SetDefault("layout.float_width", d.Layout.FloatWidth)
	v.SetDefault("layout.float_decimals", d.Layout.FloatDecimals)
	v.SetDefault("layout.string_width", d.Layout.StringWidth)
	v.SetDefault("layout.header", d.Layout.Header)
	v.SetDefault("compression.level", d.Compression.Level)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.encoding", d.Logging.Encoding)
	v.SetDefault("logging.development", d.Logging.Development)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		content = content[:start] + os.Getenv(varName) + content[end+1:]
	}
	return content
}
