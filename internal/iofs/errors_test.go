package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnveg/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateDirError_Structure verifies error structure.
func TestCreateDirError_Structure(t *testing.T) {
	testDir := "/test/dir"
	originalErr := errors.New("permission denied")

	err := CreateDirError(testDir, originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok,
		"Error should be of type *gn.Error")

	assert.Equal(t, errcode.CreateDirError, gnErr.Code,
		"Error code should be CreateDirError")
	assert.Contains(t, gnErr.Msg, "%s",
		"Message should contain format placeholder")

	require.Len(t, gnErr.Vars, 1)
	assert.Equal(t, testDir, gnErr.Vars[0],
		"Variable should be the directory path")

	assert.ErrorIs(t, gnErr.Err, originalErr,
		"Should wrap original error")
}

// TestCopyFileError_Structure verifies error structure.
func TestCopyFileError_Structure(t *testing.T) {
	testFile := "/test/config.yaml"
	originalErr := errors.New("disk full")

	err := CopyFileError(testFile, originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)

	assert.Equal(t, errcode.CopyFileError, gnErr.Code)
	require.Len(t, gnErr.Vars, 1)
	assert.Equal(t, testFile, gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

// TestReadFileError_Structure verifies error structure.
func TestReadFileError_Structure(t *testing.T) {
	testFile := "/test/datasets.yaml"
	originalErr := errors.New("no such file")

	err := ReadFileError(testFile, originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)

	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
	require.Len(t, gnErr.Vars, 1)
	assert.Equal(t, testFile, gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, originalErr)
	assert.Contains(t, gnErr.Err.Error(), testFile,
		"Internal error should name the file")
}
