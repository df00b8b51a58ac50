package schema

import (
	"strings"

	"github.com/ajitpratap0/asciitab/pkg/errors"
	stringpool "github.com/ajitpratap0/asciitab/pkg/strings"
)

const (
	// HeaderPrefix starts a column declaration line
	HeaderPrefix = "#<"
	// CommentPrefix starts a comment line
	CommentPrefix = "##"

	// headerNameWidth is the column at which the type name starts,
	// counted from the end of the "#<  " lead.
	headerNameWidth = 25
	headerLead      = HeaderPrefix + "  "
)

// IsHeaderLine reports whether line declares a column
func IsHeaderLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), HeaderPrefix)
}

// ParseHeaderLine parses a `#<  name  type` declaration
func ParseHeaderLine(line string) (Field, error) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, HeaderPrefix) {
		return Field{}, errors.Newf(errors.ErrorTypeValidation, "not a header line: %q", line)
	}
	parts := strings.Fields(trimmed[len(HeaderPrefix):])
	if len(parts) != 2 {
		return Field{}, errors.Newf(errors.ErrorTypeValidation,
			"header line needs a name and a type, got %d tokens: %q", len(parts), line)
	}
	return NewField(parts[0], parts[1])
}

// ParseHeader builds a schema from declaration lines in order
func ParseHeader(lines []string) (*Schema, error) {
	fields := make([]Field, 0, len(lines))
	for _, line := range lines {
		f, err := ParseHeaderLine(line)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return New(fields...)
}

// HeaderLine renders the declaration line for a single field. Names of
// headerNameWidth runes or more are still followed by one space.
func HeaderLine(f Field) string {
	name := stringpool.PadRight(f.Name, headerNameWidth)
	if len(name) == len(f.Name) {
		name += " "
	}
	return headerLead + name + f.Type.String()
}

// HeaderLines renders one declaration line per column, in order
func (s *Schema) HeaderLines() []string {
	lines := make([]string, 0, s.Len())
	for _, f := range s.Fields() {
		lines = append(lines, HeaderLine(f))
	}
	return lines
}
