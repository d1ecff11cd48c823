package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnveg/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectionError_Structure verifies error structure.
func TestConnectionError_Structure(t *testing.T) {
	originalErr := errors.New("connection refused")

	err := ConnectionError("localhost", 5432, "gnveg",
		"postgres", originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok,
		"Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.Contains(t, gnErr.Msg, "PostgreSQL")
	assert.NotEmpty(t, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

// TestNotConnectedError_Structure verifies error structure.
func TestNotConnectedError_Structure(t *testing.T) {
	err := NotConnectedError()
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)

	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	assert.Nil(t, gnErr.Vars)
}

// TestTruncateTableError_Structure verifies error structure.
func TestTruncateTableError_Structure(t *testing.T) {
	originalErr := errors.New("permission denied")

	err := TruncateTableError("species_changes", originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)

	assert.Equal(t, errcode.ExportTruncateError, gnErr.Code)
	require.Len(t, gnErr.Vars, 1)
	assert.Equal(t, "species_changes", gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, originalErr)
}
