// Package cfgfile reads and writes flat key/value configuration files.
//
// Each non-comment line holds a key followed by one or more comma
// separated values:
//
//	##  run settings
//
//	flag                          True
//	steps                         3, 4, 5
//	name                          Feynman
//
// Values are typed on read: true, false and none (any case) become bool
// and nil, numbers with a "." become float64, other numbers int64, and
// anything else stays a string. A key that appears on several lines
// collects all of its values in order. Keys holding a single value store
// it as a scalar, otherwise as a []any.
package cfgfile

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/asciitab/pkg/compression"
	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/logger"
	"github.com/ajitpratap0/asciitab/pkg/metrics"
	"github.com/ajitpratap0/asciitab/pkg/tokenizer"
)

// keyWidth is the padded width of the key column on write
const keyWidth = 28

// Decode builds a map from tokenized config lines
func Decode(pairs []tokenizer.KeyTokens) *Map {
	lists := NewMap()
	for _, p := range pairs {
		var values []any
		if v, ok := lists.Get(p.Key); ok {
			values = v.([]any)
		}
		for _, candidate := range strings.Split(strings.Join(p.Tokens, " "), ",") {
			values = append(values, ParseValue(candidate))
		}
		lists.Set(p.Key, values)
	}

	m := NewMap()
	lists.Each(func(key string, v any) {
		values := v.([]any)
		if len(values) == 1 {
			m.Set(key, values[0])
			return
		}
		m.Set(key, values)
	})
	return m
}

// ParseValue types a single config value
func ParseValue(s string) any {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	case "none":
		return nil
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return s
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

// Encode renders m as config lines: a "##" comment line (blank when
// comment is empty), a blank line, then one padded key per line
func Encode(m *Map, comment string) []string {
	lines := make([]string, 0, m.Len()+2)
	if comment != "" {
		lines = append(lines, "##  "+comment)
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, "")

	m.Each(func(key string, v any) {
		lines = append(lines, fmt.Sprintf("%-*s  %s", keyWidth, key, FormatValue(v)))
	})
	return lines
}

// FormatValue renders a value the way Decode reads it back. Lists are
// joined with ", ".
func FormatValue(v any) string {
	switch x := v.(type) {
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = FormatValue(item)
		}
		return strings.Join(parts, ", ")
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// formatFloat renders f with a "." so it reads back as a float
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.Contains(s, ".") {
		return s
	}
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}

// ReadFile reads and decodes the config file at path
func ReadFile(path string) (*Map, error) {
	body, err := tokenizer.GetBody(path)
	if err != nil {
		return nil, err
	}
	m := Decode(body)
	metrics.ConfigKeys.Add(float64(m.Len()))
	logger.Debug("config read", zap.String("path", path), zap.Int("keys", m.Len()))
	return m, nil
}

// WriteOption configures WriteFile
type WriteOption func(*writeOptions)

type writeOptions struct {
	level compression.Level
}

// WithCompressionLevel sets the level used for compressed paths
func WithCompressionLevel(level compression.Level) WriteOption {
	return func(o *writeOptions) {
		o.level = level
	}
}

// WriteFile encodes m to path, replacing any existing file
func WriteFile(path string, m *Map, comment string, opts ...WriteOption) (err error) {
	o := writeOptions{level: compression.Default}
	for _, opt := range opts {
		opt(&o)
	}

	timer := metrics.NewTimer(metrics.OpConfig)
	w, err := compression.CreateFile(path, o.level)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	lines := Encode(m, comment)
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return errors.Wrap(err, errors.ErrorTypeIO, "failed to write config").WithDetail("path", path)
		}
	}
	metrics.LinesWritten.WithLabelValues(metrics.OpConfig).Add(float64(len(lines)))
	timer.ObserveDuration()
	return nil
}
