package ioingest

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/gnames/gnveg/pkg/datasets"
	"github.com/gnames/gnveg/pkg/obs"
)

// Required columns of the two CSV tables. Columns are located by header
// name, so extra columns and column order do not matter.
var (
	obsColumns    = []string{"project_id", "survey_id", "layer", "species", "cover_percent"}
	surveyColumns = []string{"survey_id", "project_id", "year", "plot_code", "project_name"}
)

// readCSVDataset reads one CSV dataset: a surveys file and an
// observations file. Malformed rows are skipped and counted.
func readCSVDataset(
	ds datasets.DatasetConfig,
) ([]obs.Survey, []obs.Observation, error) {
	surveys, badSurveys, err := readSurveysCSV(ds.SurveysFile)
	if err != nil {
		return nil, nil, err
	}

	observations, badObs, err := readObservationsCSV(ds.ObservationsFile)
	if err != nil {
		return nil, nil, err
	}

	if badSurveys > 0 || badObs > 0 {
		slog.Warn("Skipped malformed rows",
			"dataset", ds.Name,
			"surveys", badSurveys,
			"observations", badObs)
	}

	return surveys, observations, nil
}

func readObservationsCSV(path string) ([]obs.Observation, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	cols, err := headerIndex(r, path, obsColumns)
	if err != nil {
		return nil, 0, err
	}

	var res []obs.Observation
	var bad int
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			bad++
			continue
		}

		o, ok := observationFromRow(row, cols)
		if !ok {
			bad++
			continue
		}
		res = append(res, o)
	}

	return res, bad, nil
}

func readSurveysCSV(path string) ([]obs.Survey, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	cols, err := headerIndex(r, path, surveyColumns)
	if err != nil {
		return nil, 0, err
	}

	var res []obs.Survey
	var bad int
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			bad++
			continue
		}

		s, ok := surveyFromRow(row, cols)
		if !ok {
			bad++
			continue
		}
		res = append(res, s)
	}

	return res, bad, nil
}

// headerIndex reads the header row and maps required column names to
// their positions.
func headerIndex(
	r *csv.Reader,
	path string,
	required []string,
) (map[string]int, error) {
	header, err := r.Read()
	if err != nil {
		return nil, CSVError(path, err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}

	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, MissingColumnError(path, name)
		}
	}

	return idx, nil
}

func observationFromRow(
	row []string,
	cols map[string]int,
) (obs.Observation, bool) {
	var o obs.Observation

	get := rowGetter(row, cols)

	projectID, err := strconv.Atoi(get("project_id"))
	if err != nil {
		return o, false
	}
	cover, err := strconv.ParseFloat(get("cover_percent"), 64)
	if err != nil || cover < 0 || cover > 100 {
		return o, false
	}
	species := get("species")
	surveyID := get("survey_id")
	if species == "" || surveyID == "" {
		return o, false
	}

	o = obs.Observation{
		ProjectID:    projectID,
		SurveyID:     surveyID,
		Species:      species,
		Layer:        get("layer"),
		CoverPercent: cover,
	}
	return o, true
}

func surveyFromRow(
	row []string,
	cols map[string]int,
) (obs.Survey, bool) {
	var s obs.Survey

	get := rowGetter(row, cols)

	projectID, err := strconv.Atoi(get("project_id"))
	if err != nil {
		return s, false
	}
	year, err := strconv.Atoi(get("year"))
	if err != nil {
		return s, false
	}
	surveyID := get("survey_id")
	plotCode := get("plot_code")
	if surveyID == "" || plotCode == "" {
		return s, false
	}

	s = obs.Survey{
		SurveyID:    surveyID,
		ProjectID:   projectID,
		Year:        year,
		PlotCode:    plotCode,
		ProjectName: get("project_name"),
	}
	return s, true
}

// rowGetter returns a field accessor that tolerates short rows.
func rowGetter(row []string, cols map[string]int) func(string) string {
	return func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
}
