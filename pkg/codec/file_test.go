package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/asciitab/pkg/compression"
	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/record"
	"github.com/ajitpratap0/asciitab/pkg/schema"
)

const catalogFile = `##  This is a comment at the top of the file.
#<  col_1           int32
#<  col_2           float32
#<  col_3           float32
#<  col_4           U20
1       3.14159         2.71828         Feynman
2       2.71828         3.14159         Jefferson
##  Here is another comment randomly in the file.
3       3.14159         2.71828         Beethoven
4       1.0             2.0             Gauss   extra
`

func writeText(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFileReportsDroppedRows(t *testing.T) {
	path := writeText(t, "catalog.dat", catalogFile)

	var messages []string
	res, err := ReadFile(path, WithReporter(func(msg string) {
		messages = append(messages, msg)
	}))
	require.NoError(t, err)

	assert.Len(t, res.Table.Rows, 3)
	assert.Equal(t, 1, res.Failures)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 10, res.Errors[0].Line)
	assert.Equal(t, []string{"1 lines not read in " + path + "."}, messages)
	assert.Equal(t, []string{
		"This is a comment at the top of the file.",
		"Here is another comment randomly in the file.",
	}, res.Comments)

	v, err := res.Table.Value(2, "col_4")
	require.NoError(t, err)
	assert.Equal(t, "Beethoven", v)
}

func TestReadFileSilentWhenClean(t *testing.T) {
	path := writeText(t, "clean.dat", "#<  a  int64\n1\n2\n")

	called := false
	res, err := ReadFile(path, WithReporter(func(string) { called = true }))
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, 2, res.Table.Len())
}

func TestReadFileWithSchema(t *testing.T) {
	path := writeText(t, "bare.dat", "1  Feynman\n2  Jefferson\n")
	s := schema.MustNew(
		schema.Field{Name: "id", Type: schema.Uint8},
		schema.Field{Name: "name", Type: schema.FixedString(4)},
	)

	res, err := ReadFile(path, WithSchema(s))
	require.NoError(t, err)
	require.Equal(t, 2, res.Table.Len())
	assert.Equal(t, record.Record{uint64(1), "Feyn"}, res.Table.Rows[0])
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.dat"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))

	path := writeText(t, "bare.dat", "1 2 3\n")
	_, err = ReadFile(path)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestWriteFileRoundTrip(t *testing.T) {
	tbl := catalogTable(t)
	dir := t.TempDir()

	for _, name := range []string{"out.dat", "out.dat.gz", "out.dat.zst", "out.dat.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(path, tbl, DefaultLayout()))

			res, err := ReadFile(path)
			require.NoError(t, err)
			assert.Zero(t, res.Failures)
			assert.True(t, res.Table.Schema.Equal(tbl.Schema))
			assert.Equal(t, tbl.Rows, res.Table.Rows)
		})
	}
}

func TestWriteFileContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")
	require.NoError(t, WriteFile(path, catalogTable(t), DefaultLayout()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "#<  col_4                    U20", lines[3])
	assert.Equal(t, "     2   2.718280   3.141590   Jefferson", lines[5])
}

func TestWriteFileRejectsBadRecord(t *testing.T) {
	tbl := &record.Table{Schema: catalogSchema(), Rows: []record.Record{{1, 2.0}}}
	path := filepath.Join(t.TempDir(), "out.dat")

	err := WriteFile(path, tbl, DefaultLayout())
	assert.True(t, errors.IsType(err, errors.ErrorTypeShapeMismatch))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.dat")

	a, err := OpenAppend(path, catalogTable(t), DefaultLayout())
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Write(record.Record{4, 1.5, 2.5, "Noether"}))
	assert.Equal(t, path, a.Path())
	assert.True(t, a.Format().Schema().Equal(catalogSchema()))

	// every write is visible before Close
	res, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 4, res.Table.Len())
	assert.Equal(t, "Noether", res.Table.Rows[3][3])

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	assert.True(t, errors.IsType(a.Write(record.Record{5, 1.0, 1.0, "Euler"}), errors.ErrorTypeIO))
}

func TestOpenAppendCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.dat.zst")

	a, err := OpenAppend(path, catalogTable(t), DefaultLayout())
	require.NoError(t, err)
	require.NoError(t, a.Write(record.Record{4, 1.5, 2.5, "Noether"}))
	require.NoError(t, a.Close())

	res, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Table.Len())
}

func TestStartFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "started.dat")
	layout := DefaultLayout()
	layout.EmitHeader = false

	a, err := StartFile(path, catalogSchema(), layout)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(catalogSchema().HeaderLines(), "\n")+"\n", string(data))

	require.NoError(t, a.Write(record.Record{1, 3.14159, 2.71828, "Feynman"}))
	assert.Error(t, a.Write(record.Record{1}))
	require.NoError(t, a.Close())

	res, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Table.Len())
}

func TestAddColumnZeroFillRoundTrip(t *testing.T) {
	tbl, err := record.NewTable(schema.MustNew(
		schema.Field{Name: "id", Type: schema.Int32},
		schema.Field{Name: "flux", Type: schema.Float64},
	), []record.Record{{1, 2.5}, {2, 3.5}})
	require.NoError(t, err)

	label, err := schema.NewField("label", "U20")
	require.NoError(t, err)
	grown, err := record.AddColumn(tbl, label, nil, record.After("id"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "grown.dat")
	require.NoError(t, WriteFile(path, grown, DefaultLayout()))

	var messages []string
	res, err := ReadFile(path, WithReporter(func(msg string) { messages = append(messages, msg) }))
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.Zero(t, res.Failures)
	assert.Equal(t, []record.Record{
		{int64(1), "", 2.5},
		{int64(2), "", 3.5},
	}, res.Table.Rows)
}

func TestWriteFileCompressionLevels(t *testing.T) {
	tbl := catalogTable(t)
	dir := t.TempDir()

	for _, level := range []compression.Level{compression.Fastest, compression.Better, compression.Best} {
		path := filepath.Join(dir, fmt.Sprintf("level%d.dat.zst", level))
		require.NoError(t, WriteFile(path, tbl, DefaultLayout(), WithCompressionLevel(level)))

		res, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, tbl.Rows, res.Table.Rows)
	}

	path := filepath.Join(dir, "append.dat.gz")
	a, err := StartFile(path, tbl.Schema, DefaultLayout(), WithCompressionLevel(compression.Best))
	require.NoError(t, err)
	require.NoError(t, a.Write(tbl.Rows[0]))
	require.NoError(t, a.Close())

	res, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Rows[:1], res.Table.Rows)
}

func TestWriteLinesSpansChunks(t *testing.T) {
	lines := make([]string, 5000)
	for i := range lines {
		lines[i] = fmt.Sprintf("%6d   star_%d", i, i)
	}

	var buf strings.Builder
	require.NoError(t, writeLines(&buf, lines))
	assert.Greater(t, buf.Len(), writeChunk)
	assert.Equal(t, strings.Join(lines, "\n")+"\n", buf.String())
}
