package datasets

import "fmt"

// Validate normalizes defaults and checks every dataset for fatal
// misconfiguration. Non-fatal issues are collected into Warnings; a fatal
// issue returns an error naming the dataset and field.
func (dc *DatasetsConfig) Validate() error {
	seen := make(map[string]struct{}, len(dc.Datasets))
	for i := range dc.Datasets {
		d := &dc.Datasets[i]
		if d.Name == "" {
			return fmt.Errorf("dataset %d: name is required", i+1)
		}
		if _, ok := seen[d.Name]; ok {
			return fmt.Errorf("dataset %q: duplicate name", d.Name)
		}
		seen[d.Name] = struct{}{}

		if d.Format == "" {
			d.Format = FormatCSV
			dc.Warnings = append(dc.Warnings, ValidationWarning{
				Dataset:    d.Name,
				Field:      "format",
				Message:    "format not set",
				Suggestion: "defaulting to csv",
			})
		}

		switch d.Format {
		case FormatCSV:
			if d.ObservationsFile == "" || d.SurveysFile == "" {
				return fmt.Errorf(
					"dataset %q: csv format requires observations_file and surveys_file",
					d.Name)
			}
		case FormatSQLite:
			if d.DBFile == "" {
				return fmt.Errorf(
					"dataset %q: sqlite format requires db_file", d.Name)
			}
			if d.ObservationsTable == "" {
				d.ObservationsTable = "observations"
			}
			if d.SurveysTable == "" {
				d.SurveysTable = "surveys"
			}
		default:
			return fmt.Errorf(
				"dataset %q: unknown format %q (expected csv or sqlite)",
				d.Name, d.Format)
		}
	}
	return nil
}
