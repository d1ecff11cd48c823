package ioingest

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnveg/pkg/errcode"
)

// DatasetsConfigError creates an error for when datasets.yaml
// cannot be loaded.
func DatasetsConfigError(path string, err error) error {
	msg := `Cannot load datasets configuration

<em>Configuration file:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Invalid YAML format
  - Permission denied

<em>How to fix:</em>
  1. Check if file exists: <em>ls -l %s</em>
  2. Validate YAML syntax
  3. Remove the file to regenerate the example template`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.IngestDatasetsConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load datasets config: %w", err),
	}
}

// NoDatasetsError creates an error for an ingest run with no
// datasets to process.
func NoDatasetsError() error {
	msg := `No datasets to process

<em>How to fix:</em>
  1. Add datasets to <em>~/.config/gnveg/datasets.yaml</em>
  2. Check the names given with <em>--datasets</em>`

	return &gn.Error{
		Code: errcode.IngestNoDatasetsError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("no datasets selected"),
	}
}

// FileNotFoundError creates an error for a dataset file that
// cannot be found.
func FileNotFoundError(dataset, path string, err error) error {
	msg := `Cannot find file <em>%s</em> of dataset <em>%s</em>

<em>How to fix:</em>
  1. Check the path in <em>~/.config/gnveg/datasets.yaml</em>
  2. Check file permissions`

	vars := []any{path, dataset}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestFileNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: dataset %s: %w",
			fn, dataset, err),
	}
}

// CSVError creates an error for CSV files that cannot be read.
func CSVError(path string, err error) error {
	msg := "Cannot read CSV file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestCSVError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			fn, path, err),
	}
}

// MissingColumnError creates an error for a table that lacks a
// required column.
func MissingColumnError(path, column string) error {
	msg := `Table <em>%s</em> lacks required column <em>%s</em>

<em>How to fix:</em>
  1. Check the header row of the file
  2. Rename or add the missing column`

	vars := []any{path, column}

	return &gn.Error{
		Code: errcode.IngestBadRowError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("missing column %s in %s",
			column, path),
	}
}

// SQLiteError creates an error for SQLite databases that cannot
// be read.
func SQLiteError(path string, err error) error {
	msg := "Cannot read SQLite database <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestSQLiteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			fn, path, err),
	}
}
