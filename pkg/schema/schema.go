// Package schema defines the column schema of an asciitab table: an ordered
// list of uniquely named, typed fields, and the `#<` header lines that
// declare it in a file.
//
// A Schema is immutable. Operations that change the shape of a table build
// a new Schema and leave the original valid.
package schema

import (
	"strings"
	"unicode"

	"github.com/ajitpratap0/asciitab/pkg/errors"
)

// Field is a single named, typed column
type Field struct {
	Name string
	Type Type
}

// NewField builds a field from a column name and a header type name
func NewField(name, typeName string) (Field, error) {
	t, err := ParseType(typeName)
	if err != nil {
		return Field{}, err
	}
	f := Field{Name: name, Type: t}
	if err := f.validate(); err != nil {
		return Field{}, err
	}
	return f, nil
}

func (f Field) validate() error {
	if f.Name == "" {
		return errors.New(errors.ErrorTypeValidation, "column name is empty")
	}
	if strings.IndexFunc(f.Name, unicode.IsSpace) >= 0 {
		return errors.Newf(errors.ErrorTypeValidation, "column name %q contains whitespace", f.Name)
	}
	if err := f.Type.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "column "+f.Name)
	}
	return nil
}

// Schema is an ordered list of fields with unique names
type Schema struct {
	fields []Field
	index  map[string]int
}

// New builds a schema from fields in column order
func New(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate column %q", f.Name)
		}
		s.fields[i] = f
		s.index[f.Name] = i
	}
	return s, nil
}

// MustNew is like New but panics on error
func MustNew(fields ...Field) *Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Field returns the i-th field
func (s *Schema) Field(i int) Field {
	return s.fields[i]
}

// Fields returns a copy of the fields in column order
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the column names in order
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of the named column
func (s *Schema) Index(name string) (int, bool) {
	if s == nil {
		return -1, false
	}
	i, ok := s.index[name]
	if !ok {
		return -1, false
	}
	return i, true
}

// Lookup returns the named field
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.Index(name)
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Insert returns a new schema with f placed at position pos.
// pos is clamped to [0, Len()].
func (s *Schema) Insert(pos int, f Field) (*Schema, error) {
	n := s.Len()
	if pos < 0 {
		pos = 0
	}
	if pos > n {
		pos = n
	}
	current := s.Fields()
	fields := make([]Field, 0, n+1)
	fields = append(fields, current[:pos]...)
	fields = append(fields, f)
	fields = append(fields, current[pos:]...)
	return New(fields...)
}

// Equal reports whether both schemas have the same columns in the same order
func (s *Schema) Equal(o *Schema) bool {
	if s.Len() != o.Len() {
		return false
	}
	if s.Len() == 0 {
		return true
	}
	for i := range s.fields {
		if s.fields[i] != o.fields[i] {
			return false
		}
	}
	return true
}

// String renders the schema as "name:type" pairs
func (s *Schema) String() string {
	parts := make([]string, 0, s.Len())
	for _, f := range s.Fields() {
		parts = append(parts, f.Name+":"+f.Type.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
