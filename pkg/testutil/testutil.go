// Package testutil provides testing utilities for asciitab packages
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/asciitab/pkg/logger"
)

// TestLogger installs a logger that writes to the test output as the
// global logger. The previous logger is restored when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	l := zaptest.NewLogger(t)
	swapLogger(t, l)
	return l
}

// ObserveLogs installs a global logger that records every entry at or above
// level, for assertions on what the code logged
func ObserveLogs(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	swapLogger(t, zap.New(core))
	return logs
}

func swapLogger(t *testing.T, l *zap.Logger) {
	prev := logger.Get()
	logger.SetLogger(l)
	t.Cleanup(func() { logger.SetLogger(prev) })
}

// WriteFile writes content to name inside dir and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// CatalogHeader declares the columns written by CatalogText
var CatalogHeader = []string{
	"#<  id                       int64",
	"#<  ra                       float64",
	"#<  mag                      float32",
	"#<  name                     U16",
}

// CatalogText renders a deterministic table file with n rows. Every
// badEvery-th row (1-based) gets an extra token so decoding drops it; zero
// disables bad rows.
func CatalogText(n, badEvery int) string {
	var b strings.Builder
	b.WriteString("##  generated catalog\n")
	for _, line := range CatalogHeader {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d   %.4f   %.2f   star_%d", i, float64(i)*0.25, float64(i%20)*0.5, i)
		if badEvery > 0 && i%badEvery == 0 {
			b.WriteString("   extra")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
