package codec

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/record"
	"github.com/ajitpratap0/asciitab/pkg/schema"
	stringpool "github.com/ajitpratap0/asciitab/pkg/strings"
)

// Layout controls how records are rendered as text
type Layout struct {
	// Spacing is the number of spaces between columns
	Spacing int
	// Scientific renders floats in exponent notation
	Scientific bool
	// IntWidth is the right-aligned width of integer and bool columns
	IntWidth int
	// FloatWidth is the right-aligned width of float columns
	FloatWidth int
	// FloatDecimals is the number of digits after the decimal point
	FloatDecimals int
	// StringWidth is the left-aligned width of string columns
	StringWidth int
	// EmitHeader writes the "#<" declaration block before the rows
	EmitHeader bool
}

// DefaultLayout returns the layout used when none is configured
func DefaultLayout() Layout {
	return Layout{
		Spacing:       3,
		Scientific:    false,
		IntWidth:      6,
		FloatWidth:    8,
		FloatDecimals: 6,
		StringWidth:   32,
		EmitHeader:    true,
	}
}

// Validate checks the layout for values that would corrupt the output
func (l Layout) Validate() error {
	if l.Spacing < 1 {
		return errors.Newf(errors.ErrorTypeConfig, "spacing must be at least 1, got %d", l.Spacing).
			WithDetail("spacing", l.Spacing)
	}
	if l.IntWidth < 0 || l.FloatWidth < 0 || l.StringWidth < 0 {
		return errors.New(errors.ErrorTypeConfig, "column widths must not be negative")
	}
	if l.FloatDecimals < 0 {
		return errors.Newf(errors.ErrorTypeConfig, "float decimals must not be negative, got %d", l.FloatDecimals)
	}
	return nil
}

type columnFormat func(b *stringpool.Builder, v any)

// LineFormatter renders records of one schema with a fixed layout. It is
// built once and reused for every line of a file.
type LineFormatter struct {
	schema  *schema.Schema
	layout  Layout
	columns []columnFormat
}

// NewLineFormatter derives the per-column format for s
func NewLineFormatter(s *schema.Schema, layout Layout) (*LineFormatter, error) {
	if s == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "formatter needs a schema")
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	lf := &LineFormatter{schema: s, layout: layout, columns: make([]columnFormat, s.Len())}
	for i, f := range s.Fields() {
		lf.columns[i] = columnFormatFor(f.Type, layout)
	}
	return lf, nil
}

func columnFormatFor(t schema.Type, l Layout) columnFormat {
	switch t.Kind {
	case schema.Int:
		return func(b *stringpool.Builder, v any) {
			b.WritePadded(strconv.FormatInt(v.(int64), 10), l.IntWidth, false)
		}
	case schema.Uint:
		return func(b *stringpool.Builder, v any) {
			b.WritePadded(strconv.FormatUint(v.(uint64), 10), l.IntWidth, false)
		}
	case schema.Float:
		verb := byte('f')
		if l.Scientific {
			verb = 'e'
		}
		return func(b *stringpool.Builder, v any) {
			b.WritePadded(strconv.FormatFloat(v.(float64), verb, l.FloatDecimals, 64), l.FloatWidth, false)
		}
	case schema.Bool:
		return func(b *stringpool.Builder, v any) {
			s := "False"
			if v.(bool) {
				s = "True"
			}
			b.WritePadded(s, l.IntWidth, false)
		}
	default:
		return func(b *stringpool.Builder, v any) {
			s := v.(string)
			if s == "" {
				s = schema.EmptyString
			}
			b.WritePadded(s, l.StringWidth, true)
		}
	}
}

// Schema returns the schema the formatter was built for
func (lf *LineFormatter) Schema() *schema.Schema {
	return lf.schema
}

// Layout returns the layout the formatter was built with
func (lf *LineFormatter) Layout() Layout {
	return lf.layout
}

// Format renders one record. Values are normalized through their column
// type first, so callers may pass plain ints or float32s. Empty strings
// are written as schema.EmptyString; strings holding whitespace are
// rejected.
func (lf *LineFormatter) Format(rec record.Record) (string, error) {
	if len(rec) != len(lf.columns) {
		return "", errors.Newf(errors.ErrorTypeShapeMismatch,
			"record has %d values, schema has %d columns", len(rec), len(lf.columns))
	}

	b := stringpool.GetBuilder(stringpool.Small)
	defer stringpool.PutBuilder(b, stringpool.Small)

	for i, v := range rec {
		f := lf.schema.Field(i)
		cv, err := f.Type.Coerce(v)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrorTypeValidation, "column "+f.Name)
		}
		if s, ok := cv.(string); ok && strings.IndexFunc(s, unicode.IsSpace) >= 0 {
			return "", errors.Newf(errors.ErrorTypeValidation,
				"column %s: value %q contains whitespace and would not read back as one field", f.Name, s).
				WithDetail("column", f.Name)
		}
		if i > 0 {
			b.WriteSpaces(lf.layout.Spacing)
		}
		lf.columns[i](b, cv)
	}
	b.TrimRight()
	return b.String(), nil
}
