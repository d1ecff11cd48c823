package ioingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gnames/gnveg/pkg/datasets"
	"github.com/gnames/gnveg/pkg/obs"
	_ "modernc.org/sqlite"
)

// readSQLiteDataset reads surveys and observations from the tables of a
// SQLite database. Rows with NULL keys or out-of-range cover are skipped
// and counted.
func readSQLiteDataset(
	ctx context.Context,
	ds datasets.DatasetConfig,
) ([]obs.Survey, []obs.Observation, error) {
	db, err := sql.Open("sqlite", ds.DBFile)
	if err != nil {
		return nil, nil, SQLiteError(ds.DBFile, err)
	}
	defer db.Close()

	surveys, badSurveys, err := readSurveysSQLite(ctx, db, ds)
	if err != nil {
		return nil, nil, err
	}

	observations, badObs, err := readObservationsSQLite(ctx, db, ds)
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

func readSurveysSQLite(
	ctx context.Context,
	db *sql.DB,
	ds datasets.DatasetConfig,
) ([]obs.Survey, int, error) {
	q := fmt.Sprintf(
		`SELECT survey_id, project_id, year, plot_code, project_name
		 FROM %s`,
		ds.SurveysTable,
	)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, 0, SQLiteError(ds.DBFile, err)
	}
	defer rows.Close()

	var res []obs.Survey
	var bad int
	for rows.Next() {
		var (
			surveyID    sql.NullString
			projectID   sql.NullInt64
			year        sql.NullInt64
			plotCode    sql.NullString
			projectName sql.NullString
		)
		if err := rows.Scan(
			&surveyID, &projectID, &year, &plotCode, &projectName,
		); err != nil {
			bad++
			continue
		}
		if !surveyID.Valid || !projectID.Valid || !year.Valid ||
			!plotCode.Valid || surveyID.String == "" ||
			plotCode.String == "" {
			bad++
			continue
		}

		res = append(res, obs.Survey{
			SurveyID:    surveyID.String,
			ProjectID:   int(projectID.Int64),
			Year:        int(year.Int64),
			PlotCode:    plotCode.String,
			ProjectName: projectName.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, SQLiteError(ds.DBFile, err)
	}

	return res, bad, nil
}

func readObservationsSQLite(
	ctx context.Context,
	db *sql.DB,
	ds datasets.DatasetConfig,
) ([]obs.Observation, int, error) {
	q := fmt.Sprintf(
		`SELECT project_id, survey_id, layer, species, cover_percent
		 FROM %s`,
		ds.ObservationsTable,
	)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, 0, SQLiteError(ds.DBFile, err)
	}
	defer rows.Close()

	var res []obs.Observation
	var bad int
	for rows.Next() {
		var (
			projectID sql.NullInt64
			surveyID  sql.NullString
			layer     sql.NullString
			species   sql.NullString
			cover     sql.NullFloat64
		)
		if err := rows.Scan(
			&projectID, &surveyID, &layer, &species, &cover,
		); err != nil {
			bad++
			continue
		}
		if !projectID.Valid || !surveyID.Valid || !species.Valid ||
			!cover.Valid || surveyID.String == "" ||
			species.String == "" ||
			cover.Float64 < 0 || cover.Float64 > 100 {
			bad++
			continue
		}

		res = append(res, obs.Observation{
			ProjectID:    int(projectID.Int64),
			SurveyID:     surveyID.String,
			Species:      species.String,
			Layer:        layer.String,
			CoverPercent: cover.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, SQLiteError(ds.DBFile, err)
	}

	return res, bad, nil
}
