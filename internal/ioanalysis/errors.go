package ioanalysis

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnveg/pkg/errcode"
)

// NoSeriesError creates an error for observation corpora that
// contain no analyzable time series.
func NoSeriesError() error {
	msg := `No analyzable time series in the observations

Every plot needs surveys from at least two distinct years to
form a change interval.

<em>Possible causes:</em>
  - Observations and surveys join on different survey_id values
  - All plots were surveyed only once

<em>How to fix:</em>
  1. Check the survey_id values of both tables
  2. Check plot_code values group resurveys together`

	return &gn.Error{
		Code: errcode.AnalysisNoSeriesError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("no series with two or more distinct years"),
	}
}

// SeriesError creates an error for a series whose change
// computation failed.
func SeriesError(projectID int, plotCode string, cause any) error {
	msg := "Cannot compute changes for plot <em>%s</em> of project <em>%d</em>"
	vars := []any{plotCode, projectID}

	return &gn.Error{
		Code: errcode.AnalysisSeriesError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("series %d/%s: %v",
			projectID, plotCode, cause),
	}
}
