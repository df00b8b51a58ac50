// Package formats exports typed tables to other data formats.
//
// Supported formats:
//   - json: one document with the schema and all rows
//   - jsonl: one JSON object per record
//   - arrow: an Arrow IPC file holding a single record batch
//   - avro: an Avro object container file, deflate compressed
//
// Object keys follow the column order of the table schema.
package formats

import (
	"io"
	"strings"

	"github.com/ajitpratap0/asciitab/pkg/errors"
	"github.com/ajitpratap0/asciitab/pkg/record"
)

// Format is an export format
type Format string

const (
	// JSON is a single JSON document
	JSON Format = "json"
	// JSONLines is newline delimited JSON
	JSONLines Format = "jsonl"
	// Arrow is the Arrow IPC file format
	Arrow Format = "arrow"
	// Avro is the Avro object container format
	Avro Format = "avro"
)

// Formats lists every supported format
var Formats = []Format{JSON, JSONLines, Arrow, Avro}

// ParseFormat maps a format name to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "jsonl", "ndjson":
		return JSONLines, nil
	case "arrow", "ipc":
		return Arrow, nil
	case "avro":
		return Avro, nil
	}
	return "", errors.Newf(errors.ErrorTypeValidation, "unknown format %q", name)
}

// Extension returns the conventional file extension, dot included
func (f Format) Extension() string {
	return "." + string(f)
}

// Write exports t to w in format f
func Write(w io.Writer, t *record.Table, f Format) error {
	if t == nil || t.Schema == nil {
		return errors.New(errors.ErrorTypeValidation, "table needs a schema")
	}
	switch f {
	case JSON:
		return WriteJSON(w, t)
	case JSONLines:
		return WriteJSONLines(w, t)
	case Arrow:
		return WriteArrow(w, t)
	case Avro:
		return WriteAvro(w, t)
	default:
		return errors.Newf(errors.ErrorTypeValidation, "unknown format %q", string(f))
	}
}
