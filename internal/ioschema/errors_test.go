package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnveg/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNotConnectedError_Structure verifies error structure.
func TestNotConnectedError_Structure(t *testing.T) {
	err := NotConnectedError()
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)

	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
}

// TestCreateSchemaError_Structure verifies error structure.
func TestCreateSchemaError_Structure(t *testing.T) {
	originalErr := errors.New("permission denied")

	err := CreateSchemaError(originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)

	assert.Equal(t, errcode.SchemaCreateError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

// TestCollationError_Structure verifies error structure.
func TestCollationError_Structure(t *testing.T) {
	originalErr := errors.New("no such column")

	err := CollationError("species_changes", "species",
		originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)

	assert.Equal(t, errcode.SchemaCollationError, gnErr.Code)
	require.Len(t, gnErr.Vars, 2)
	assert.Equal(t, "species_changes", gnErr.Vars[0])
	assert.Equal(t, "species", gnErr.Vars[1])
	assert.ErrorIs(t, gnErr.Err, originalErr)
}
