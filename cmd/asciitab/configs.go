package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/asciitab/pkg/cfgfile"
	"github.com/ajitpratap0/asciitab/pkg/config"
	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/formats"
	"github.com/ajitpratap0/asciitab/pkg/logger"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and rewrite key/value config files",
	}

	var asJSON bool
	get := &cobra.Command{
		Use:   "get FILE [KEY]",
		Short: "Print one key or every key of a config file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cfgfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 2 {
				v, ok := m.Get(args[1])
				if !ok {
					return errors.Newf(errors.ErrorTypeSchemaLookup, "key %q not found", args[1]).
						WithDetail("path", args[0])
				}
				fmt.Fprintln(out, cfgfile.FormatValue(v))
				return nil
			}
			if asJSON {
				return formats.WriteConfigJSON(out, m)
			}
			for _, line := range cfgfile.Encode(m, "")[2:] {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	get.Flags().BoolVar(&asJSON, "json", false, "Print every key as one JSON object")

	var comment, output string
	format := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Rewrite a config file in canonical layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cfgfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			if output != "" {
				level := cfgfile.WithCompressionLevel(a.settings.Compression.ToLevel())
				if err := cfgfile.WriteFile(output, m, comment, level); err != nil {
					return err
				}
				logger.Info("config written", zap.String("path", output), zap.Int("keys", m.Len()))
				return nil
			}
			out := cmd.OutOrStdout()
			for _, line := range cfgfile.Encode(m, comment) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	format.Flags().StringVar(&comment, "comment", "", "Comment written on the first line")
	format.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	cmd.AddCommand(get, format)
	return cmd
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage asciitab settings files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init PATH",
		Short: "Write the current settings as a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrorTypeConfig, "settings file already exists, use --force to overwrite").
					WithDetail("path", path)
			}
			if err := config.Save(path, a.settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "settings written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
