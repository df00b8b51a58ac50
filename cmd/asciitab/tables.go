package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/asciitab/pkg/codec"
	"github.com/ajitpratap0/asciitab/pkg/compression"
	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/formats"
	"github.com/ajitpratap0/asciitab/pkg/logger"
	"github.com/ajitpratap0/asciitab/pkg/record"
	"github.com/ajitpratap0/asciitab/pkg/schema"
	"github.com/ajitpratap0/asciitab/pkg/tokenizer"
)

// layoutFlags override the settings layout for a single command
type layoutFlags struct {
	header  bool
	sci     bool
	spacing int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.header, "header", true, "Write the #< header block")
	cmd.Flags().BoolVar(&f.sci, "sci", false, "Render floats in scientific notation")
	cmd.Flags().IntVar(&f.spacing, "spacing", 3, "Spaces between columns")
}

func (f *layoutFlags) layout(cmd *cobra.Command, a *app) codec.Layout {
	l := a.settings.Layout.ToLayout()
	if cmd.Flags().Changed("header") {
		l.EmitHeader = f.header
	}
	if cmd.Flags().Changed("sci") {
		l.Scientific = f.sci
	}
	if cmd.Flags().Changed("spacing") {
		l.Spacing = f.spacing
	}
	return l
}

// emit writes t to output, or to the command's stdout when output is empty
func emit(cmd *cobra.Command, a *app, t *record.Table, layout codec.Layout, output string) error {
	if output != "" {
		level := codec.WithCompressionLevel(a.settings.Compression.ToLevel())
		if err := codec.WriteFile(output, t, layout, level); err != nil {
			return err
		}
		logger.Info("table written", zap.String("path", output), zap.Int("rows", t.Len()))
		return nil
	}
	lines, err := codec.Encode(t, layout)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}

func newCatCmd(a *app) *cobra.Command {
	var flags layoutFlags
	var output string

	cmd := &cobra.Command{
		Use:   "cat FILE",
		Short: "Decode a table and render it again",
		Long: `Decode a table file and render it with the configured layout. Rows that do
not match the header are dropped and counted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := codec.ReadFile(args[0])
			if err != nil {
				return err
			}
			return emit(cmd, a, res.Table, flags.layout(cmd, a), output)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema FILE",
		Short: "Print the column declarations of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := tokenizer.ParseFile(args[0])
			if err != nil {
				return err
			}
			if f.Schema == nil {
				return errors.New(errors.ErrorTypeValidation, "file declares no columns").WithDetail("path", args[0])
			}
			out := cmd.OutOrStdout()
			for _, line := range f.Schema.HeaderLines() {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newAddColumnCmd(a *app) *cobra.Command {
	var flags layoutFlags
	var name, typeName, after, fill, output string

	cmd := &cobra.Command{
		Use:   "add-column FILE",
		Short: "Insert a typed column into a table",
		Long: `Insert a typed column into a table. --after takes a column name, FIRST or
LAST; an unknown column name appends. Existing rows get --fill, or the zero
value of the type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := schema.NewField(name, typeName)
			if err != nil {
				return err
			}
			res, err := codec.ReadFile(args[0])
			if err != nil {
				return err
			}

			var data []any
			if cmd.Flags().Changed("fill") {
				v, err := field.Type.Parse(fill)
				if err != nil {
					return errors.Wrap(err, errors.ErrorTypeValidation, "invalid --fill value")
				}
				data = make([]any, res.Table.Len())
				for i := range data {
					data[i] = v
				}
			}

			t, err := record.AddColumn(res.Table, field, data, record.ParseAnchor(after))
			if err != nil {
				return err
			}
			return emit(cmd, a, t, flags.layout(cmd, a), output)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Name of the new column (required)")
	cmd.Flags().StringVar(&typeName, "type", "", "Type of the new column, e.g. int32, float64, U20 (required)")
	cmd.Flags().StringVar(&after, "after", "", "Place the column after this one (or FIRST, LAST)")
	cmd.Flags().StringVar(&fill, "fill", "", "Value for every existing row")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	var formatName, output string

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Export a table as JSON, JSON lines, Arrow or Avro",
		Long: `Export a table as JSON, JSON lines, Arrow IPC or Avro. Without --format the
format follows the extension of --output (a trailing compression extension
such as .gz is ignored and applied to the output).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(formatName, output)
			if err != nil {
				return err
			}
			res, err := codec.ReadFile(args[0])
			if err != nil {
				return err
			}

			if output == "" {
				return formats.Write(cmd.OutOrStdout(), res.Table, format)
			}
			return writeExport(output, res.Table, format, a.settings.Compression.ToLevel())
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format: json, jsonl, arrow, avro")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func resolveFormat(name, output string) (formats.Format, error) {
	if name != "" {
		return formats.ParseFormat(name)
	}
	base := output
	if compression.FromPath(base) != compression.None {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if ext := strings.TrimPrefix(filepath.Ext(base), "."); ext != "" {
		return formats.ParseFormat(ext)
	}
	return formats.JSON, nil
}

func writeExport(path string, t *record.Table, format formats.Format, level compression.Level) (err error) {
	w, err := compression.CreateFile(path, level)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	if err := formats.Write(w, t, format); err != nil {
		return err
	}
	logger.Info("table exported", zap.String("path", path), zap.String("format", string(format)), zap.Int("rows", t.Len()))
	return nil
}
