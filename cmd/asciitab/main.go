package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/asciitab/pkg/config"
	"github.com/ajitpratap0/asciitab/pkg/logger"
	"github.com/ajitpratap0/asciitab/pkg/metrics"
)

var version = "0.1.0"

// app carries the state shared by every subcommand
type app struct {
	configPath  string
	logLevel    string
	metricsAddr string

	settings *config.Settings
	server   *http.Server
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "asciitab",
		Short: "asciitab - typed ASCII tables and config files",
		Long: `asciitab reads, rewrites and converts whitespace separated tables whose
columns are declared by "#<  name  type" header lines, and flat key/value
configuration files.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a settings YAML file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "asciitab v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(
		newCatCmd(a),
		newSchemaCmd(a),
		newAddColumnCmd(a),
		newConvertCmd(a),
		newConfigCmd(a),
		newSettingsCmd(a),
	)
	return root
}

// setup loads settings, applies flag overrides and initializes logging
func (a *app) setup(cmd *cobra.Command, args []string) error {
	s, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		s.Logging.Level = a.logLevel
	}
	if a.metricsAddr != "" {
		s.Metrics.Addr = a.metricsAddr
	}
	if err := s.Validate(); err != nil {
		return err
	}
	a.settings = s

	if err := logger.Init(s.Logging.ToLogger()); err != nil {
		return err
	}

	if s.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle(s.Metrics.Path, metrics.Handler())
		a.server = &http.Server{Addr: s.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.String("addr", s.Metrics.Addr), zap.Error(err))
			}
		}()
		logger.Info("serving metrics", zap.String("addr", s.Metrics.Addr), zap.String("path", s.Metrics.Path))
	}
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	if a.server != nil {
		_ = a.server.Close()
	}
	_ = logger.Sync()
	return nil
}
