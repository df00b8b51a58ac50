package tokenizer

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/asciitab/pkg/compression"
	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/schema"
)

const catalog = `##  This is a comment at the top of the file.
#<  col_1           int32
#<  col_2           float32
#<  col_3           float32
#<  col_4           U20
1       3.14159         2.71828         Feynman
2       2.71828         3.14159         Jefferson

##  Here is another comment randomly in the file.
# plain hash lines are ignored
3       3.14159         2.71828         Beethoven
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(catalog))
	require.NoError(t, err)

	require.NotNil(t, f.Schema)
	assert.Equal(t, []string{"col_1", "col_2", "col_3", "col_4"}, f.Schema.Names())
	assert.Equal(t, schema.Int32, f.Schema.Field(0).Type)
	assert.Equal(t, schema.FixedString(20), f.Schema.Field(3).Type)

	assert.Equal(t, [][]string{
		{"1", "3.14159", "2.71828", "Feynman"},
		{"2", "2.71828", "3.14159", "Jefferson"},
		{"3", "3.14159", "2.71828", "Beethoven"},
	}, f.Body)
	assert.Equal(t, []int{6, 7, 11}, f.Lines)
	assert.Equal(t, []string{
		"This is a comment at the top of the file.",
		"Here is another comment randomly in the file.",
	}, f.Comments)
}

func TestParseWithoutHeader(t *testing.T) {
	f, err := Parse(strings.NewReader("1 2\n3 4 5\n"))
	require.NoError(t, err)
	assert.Nil(t, f.Schema)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4", "5"}}, f.Body)
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Body)
	assert.Nil(t, f.Schema)
}

func TestParseMalformedHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing type", "#<  col_1\n1\n"},
		{"unknown type", "#<  col_1  complex64\n1\n"},
		{"duplicate column", "#<  a  int32\n#<  a  int64\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestParseBody(t *testing.T) {
	input := "##  run settings\n\nflag   true\nn      3, 4, 5\n# ignored\nk 1\nk 2\n"
	body, err := ParseBody(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, body, 4)
	assert.Equal(t, KeyTokens{Key: "flag", Tokens: []string{"true"}, Line: 3}, body[0])
	assert.Equal(t, KeyTokens{Key: "n", Tokens: []string{"3,", "4,", "5"}, Line: 4}, body[1])
	assert.Equal(t, "k", body[2].Key)
	assert.Equal(t, []string{"2"}, body[3].Tokens)
}

func TestParseFileCompressed(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"catalog.dat", "catalog.dat.gz", "catalog.dat.zst", "catalog.dat.lz4", "catalog.dat.sz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			w, err := compression.CreateFile(path, compression.Default)
			require.NoError(t, err)
			_, err = io.WriteString(w, catalog)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			f, err := ParseFile(path)
			require.NoError(t, err)
			assert.Len(t, f.Body, 3)
			assert.Equal(t, 4, f.Schema.Len())
		})
	}
}

func TestParseFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ParseFile(filepath.Join(dir, "missing.dat"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))

	bad := filepath.Join(dir, "bad.dat")
	require.NoError(t, os.WriteFile(bad, []byte("#<  a  nonsense\n"), 0o600))
	_, err = ParseFile(bad)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestGetBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.cfg")
	require.NoError(t, os.WriteFile(path, []byte("name  Feynman\n"), 0o600))

	body, err := GetBody(path)
	require.NoError(t, err)
	assert.Equal(t, []KeyTokens{{Key: "name", Tokens: []string{"Feynman"}, Line: 1}}, body)
}
