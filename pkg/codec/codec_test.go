package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/record"
	"github.com/ajitpratap0/asciitab/pkg/schema"
	"github.com/ajitpratap0/asciitab/pkg/tokenizer"
)

func catalogSchema() *schema.Schema {
	return schema.MustNew(
		schema.Field{Name: "col_1", Type: schema.Int32},
		schema.Field{Name: "col_2", Type: schema.Float32},
		schema.Field{Name: "col_3", Type: schema.Float64},
		schema.Field{Name: "col_4", Type: schema.FixedString(20)},
	)
}

func catalogTable(t *testing.T) *record.Table {
	t.Helper()
	tbl, err := record.NewTable(catalogSchema(), []record.Record{
		{1, 3.14159, 2.71828, "Feynman"},
		{2, 2.71828, 3.14159, "Jefferson"},
		{3, 3.14159, 2.71828, "Beethoven"},
	})
	require.NoError(t, err)
	return tbl
}

func TestDecodeRow(t *testing.T) {
	rec, err := DecodeRow([]string{"1", "3.14159", "2.71828", "Feynman"}, catalogSchema())
	require.NoError(t, err)
	assert.Equal(t, record.Record{int64(1), float64(float32(3.14159)), 2.71828, "Feynman"}, rec)
}

func TestDecodeRowFailures(t *testing.T) {
	s := catalogSchema()
	tests := []struct {
		name   string
		tokens []string
	}{
		{"too many tokens", []string{"1", "2.0", "3.0", "Feynman", "extra"}},
		{"too few tokens", []string{"1", "2.0"}},
		{"bad int", []string{"one", "2.0", "3.0", "Feynman"}},
		{"bad float", []string{"1", "two", "3.0", "Feynman"}},
		{"int overflow", []string{"4294967296", "2.0", "3.0", "Feynman"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRow(tt.tokens, s)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeRowCoercion))
		})
	}
}

func TestDecodePartialFailure(t *testing.T) {
	rows := [][]string{
		{"1", "3.14159", "2.71828", "Feynman"},
		{"2", "2.71828", "3.14159", "Jefferson", "extra"},
		{"3", "3.14159", "2.71828", "Beethoven"},
		{"x", "3.14159", "2.71828", "Curie"},
		{"5", "1.5", "2.5", "Noether"},
	}

	res := Decode(rows, catalogSchema())

	assert.Equal(t, 2, res.Failures)
	assert.Len(t, res.Table.Rows, len(rows)-res.Failures)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 1, res.Errors[0].Row)
	assert.Equal(t, 3, res.Errors[1].Row)
	assert.Equal(t, 0, res.Errors[0].Line)
	assert.Contains(t, res.Errors[1].Error(), "row 3")

	names, err := res.Table.Column("col_4")
	require.NoError(t, err)
	assert.Equal(t, []any{"Feynman", "Beethoven", "Noether"}, names)
}

func TestDecodeEmpty(t *testing.T) {
	res := Decode(nil, catalogSchema())
	assert.Zero(t, res.Failures)
	assert.Empty(t, res.Table.Rows)
	assert.True(t, res.Table.Schema.Equal(catalogSchema()))
}

func TestFormat(t *testing.T) {
	s := schema.MustNew(
		schema.Field{Name: "id", Type: schema.Int32},
		schema.Field{Name: "flux", Type: schema.Float32},
		schema.Field{Name: "name", Type: schema.FixedString(20)},
		schema.Field{Name: "seen", Type: schema.Boolean},
		schema.Field{Name: "count", Type: schema.Uint16},
	)
	rec := record.Record{int64(1), 3.14159, "Feynman", true, uint64(7)}

	tests := []struct {
		name   string
		layout func(l *Layout)
		want   string
	}{
		{
			name:   "default",
			layout: func(l *Layout) {},
			want:   "     1   3.141590   Feynman                              True        7",
		},
		{
			name:   "scientific",
			layout: func(l *Layout) { l.Scientific = true },
			want:   "     1   3.141590e+00   Feynman                              True        7",
		},
		{
			name: "narrow",
			layout: func(l *Layout) {
				l.Spacing = 1
				l.IntWidth = 2
				l.FloatDecimals = 2
				l.FloatWidth = 5
				l.StringWidth = 0
			},
			want: " 1  3.14 Feynman True  7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := DefaultLayout()
			tt.layout(&layout)
			lf, err := NewLineFormatter(s, layout)
			require.NoError(t, err)

			got, err := lf.Format(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatTrimsTrailingPadding(t *testing.T) {
	s := schema.MustNew(schema.Field{Name: "name", Type: schema.FixedString(8)})
	lf, err := NewLineFormatter(s, DefaultLayout())
	require.NoError(t, err)

	got, err := lf.Format(record.Record{"Gauss"})
	require.NoError(t, err)
	assert.Equal(t, "Gauss", got)
}

func TestFormatCoercesValues(t *testing.T) {
	s := schema.MustNew(
		schema.Field{Name: "a", Type: schema.Int64},
		schema.Field{Name: "b", Type: schema.Float64},
	)
	lf, err := NewLineFormatter(s, DefaultLayout())
	require.NoError(t, err)

	got, err := lf.Format(record.Record{7, float32(0.5)})
	require.NoError(t, err)
	assert.Equal(t, "     7   0.500000", got)

	_, err = lf.Format(record.Record{7})
	assert.True(t, errors.IsType(err, errors.ErrorTypeShapeMismatch))

	_, err = lf.Format(record.Record{"seven", 0.5})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestFormatStringTokens(t *testing.T) {
	s := schema.MustNew(
		schema.Field{Name: "id", Type: schema.Int32},
		schema.Field{Name: "name", Type: schema.FixedString(20)},
	)
	lf, err := NewLineFormatter(s, DefaultLayout())
	require.NoError(t, err)

	got, err := lf.Format(record.Record{1, ""})
	require.NoError(t, err)
	assert.Equal(t, "     1   "+schema.EmptyString, got)

	rec, err := DecodeRow(strings.Fields(got), s)
	require.NoError(t, err)
	assert.Equal(t, record.Record{int64(1), ""}, rec)

	for _, bad := range []string{"Richard Feynman", " ", "tab\tbed"} {
		_, err = lf.Format(record.Record{1, bad})
		require.Error(t, err, bad)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		assert.Contains(t, err.Error(), "whitespace")
	}
}

func TestLayoutValidate(t *testing.T) {
	assert.NoError(t, DefaultLayout().Validate())

	bad := DefaultLayout()
	bad.Spacing = 0
	assert.True(t, errors.IsType(bad.Validate(), errors.ErrorTypeConfig))

	bad = DefaultLayout()
	bad.FloatDecimals = -1
	assert.True(t, errors.IsType(bad.Validate(), errors.ErrorTypeConfig))

	_, err := NewLineFormatter(catalogSchema(), bad)
	assert.Error(t, err)

	_, err = NewLineFormatter(nil, DefaultLayout())
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestEncode(t *testing.T) {
	lines, err := Encode(catalogTable(t), DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"#<  col_1                    int32",
		"#<  col_2                    float32",
		"#<  col_3                    float64",
		"#<  col_4                    U20",
		"     1   3.141590   2.718280   Feynman",
		"     2   2.718280   3.141590   Jefferson",
		"     3   3.141590   2.718280   Beethoven",
	}, lines)
}

func TestEncodeWithoutHeader(t *testing.T) {
	layout := DefaultLayout()
	layout.EmitHeader = false

	lines, err := Encode(catalogTable(t), layout)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.False(t, strings.HasPrefix(lines[0], schema.HeaderPrefix))
}

func TestEncodeIdempotent(t *testing.T) {
	tbl := catalogTable(t)
	first, err := Encode(tbl, DefaultLayout())
	require.NoError(t, err)
	second, err := Encode(tbl, DefaultLayout())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRoundTrip(t *testing.T) {
	tbl, err := record.NewTable(schema.MustNew(
		schema.Field{Name: "id", Type: schema.Int64},
		schema.Field{Name: "small", Type: schema.Int8},
		schema.Field{Name: "count", Type: schema.Uint32},
		schema.Field{Name: "ra", Type: schema.Float64},
		schema.Field{Name: "mag", Type: schema.Float32},
		schema.Field{Name: "name", Type: schema.FixedString(12)},
		schema.Field{Name: "ok", Type: schema.Boolean},
		schema.Field{Name: "observation_timestamp_utc", Type: schema.Int64},
	), []record.Record{
		{-12345678, -128, 4000000000, 187.25, -1.5, "M87", true, 1700000000},
		{0, 127, 0, 0.000125, 19.75, "Andromeda", false, 0},
		{7, 0, 1, -3.5, 0.25, "", true, -1},
	})
	require.NoError(t, err)

	for _, sci := range []bool{false, true} {
		layout := DefaultLayout()
		layout.Scientific = sci

		lines, err := Encode(tbl, layout)
		require.NoError(t, err)

		f, err := tokenizer.Parse(strings.NewReader(strings.Join(lines, "\n")))
		require.NoError(t, err)
		require.True(t, f.Schema.Equal(tbl.Schema))

		res := Decode(f.Body, f.Schema)
		require.Zero(t, res.Failures)
		assert.Equal(t, tbl.Rows, res.Table.Rows)

		again, err := Encode(res.Table, layout)
		require.NoError(t, err)
		assert.Equal(t, lines, again)
	}
}
