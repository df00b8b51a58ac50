package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, "nothing"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeValidation, "bad type name")
	outer := Wrap(inner, ErrorTypeIO, "reading header")

	require.NotNil(t, outer)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeIO))
	assert.Equal(t, "io: reading header: validation: bad type name", outer.Error())
}

func TestIsType(t *testing.T) {
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeIO))
	assert.False(t, IsType(nil, ErrorTypeIO))

	wrapped := fmt.Errorf("context: %w", New(ErrorTypeShapeMismatch, "len"))
	assert.True(t, IsType(wrapped, ErrorTypeShapeMismatch))
}

func TestNewfCapturesStack(t *testing.T) {
	err := Newf(ErrorTypeSchemaLookup, "column %q not found", "flux")
	assert.Equal(t, `schema_lookup: column "flux" not found`, err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeConfig, "spacing must be positive").WithDetail("spacing", -1)
	assert.Equal(t, -1, err.Details["spacing"])
}

func TestIsTypeWalksChain(t *testing.T) {
	inner := New(ErrorTypeValidation, "unknown type name")
	outer := Wrap(inner, ErrorTypeIO, "failed to parse file")

	assert.True(t, IsType(outer, ErrorTypeIO))
	assert.True(t, IsType(outer, ErrorTypeValidation))
	assert.False(t, IsType(outer, ErrorTypeConfig))
}
