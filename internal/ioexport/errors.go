package ioexport

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnveg/pkg/errcode"
)

// CopyError creates an error for failed bulk loads.
func CopyError(table string, err error) error {
	msg := `Cannot bulk-load table <em>%s</em>

<em>Possible causes:</em>
  - Result tables were not created yet
  - Schema is out of date

<em>How to fix:</em>
  1. Run <em>gnveg migrate</em>
  2. Check database logs for details`

	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportCopyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: copy into %s: %w",
			fn, table, err),
	}
}

// CSVExportError creates an error for failed CSV writes.
func CSVExportError(path string, err error) error {
	msg := "Cannot write CSV results to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportCSVError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write %s: %w",
			fn, path, err),
	}
}
