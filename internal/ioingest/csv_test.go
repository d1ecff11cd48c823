package ioingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnveg/pkg/datasets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSVFixtures(t *testing.T) datasets.DatasetConfig {
	t.Helper()
	tmpDir := t.TempDir()

	obsCSV := `project_id,survey_id,layer,species,cover_percent
1,s1,herb,Carex flacca,50
1,s1,shrub,Carex flacca,50
1,s2,herb,Fagus sylvatica,10
bad,s2,herb,Fagus sylvatica,10
1,s2,herb,Fagus sylvatica,250
1,,herb,Fagus sylvatica,10
`
	surveysCSV := `survey_id,project_id,year,plot_code,project_name
s1,1,1990,p1,Forest A
s2,1,2020,p1,Forest A
s3,1,notayear,p2,Forest A
`

	obsPath := filepath.Join(tmpDir, "obs.csv")
	surveysPath := filepath.Join(tmpDir, "surveys.csv")
	require.NoError(t,
		os.WriteFile(obsPath, []byte(obsCSV), 0644))
	require.NoError(t,
		os.WriteFile(surveysPath, []byte(surveysCSV), 0644))

	return datasets.DatasetConfig{
		Name:             "fixture",
		Format:           datasets.FormatCSV,
		ObservationsFile: obsPath,
		SurveysFile:      surveysPath,
	}
}

func TestReadCSVDataset(t *testing.T) {
	ds := writeCSVFixtures(t)

	surveys, observations, err := readCSVDataset(ds)
	require.NoError(t, err)

	// Row with non-numeric year is skipped
	require.Len(t, surveys, 2)
	assert.Equal(t, "s1", surveys[0].SurveyID)
	assert.Equal(t, 1990, surveys[0].Year)
	assert.Equal(t, "p1", surveys[0].PlotCode)

	// Bad project_id, out-of-range cover and empty survey_id
	// are skipped
	require.Len(t, observations, 3)
	assert.Equal(t, "Carex flacca", observations[0].Species)
	assert.Equal(t, "herb", observations[0].Layer)
	assert.InDelta(t, 50.0, observations[0].CoverPercent, 1e-9)
}

func TestReadCSVDataset_MissingColumn(t *testing.T) {
	tmpDir := t.TempDir()

	// No cover_percent column
	obsCSV := `project_id,survey_id,layer,species
1,s1,herb,Carex flacca
`
	surveysCSV := `survey_id,project_id,year,plot_code,project_name
s1,1,1990,p1,Forest A
`
	obsPath := filepath.Join(tmpDir, "obs.csv")
	surveysPath := filepath.Join(tmpDir, "surveys.csv")
	require.NoError(t,
		os.WriteFile(obsPath, []byte(obsCSV), 0644))
	require.NoError(t,
		os.WriteFile(surveysPath, []byte(surveysCSV), 0644))

	ds := datasets.DatasetConfig{
		Name:             "fixture",
		Format:           datasets.FormatCSV,
		ObservationsFile: obsPath,
		SurveysFile:      surveysPath,
	}

	_, _, err := readCSVDataset(ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cover_percent")
}

func TestReadCSVDataset_ExtraColumnsIgnored(t *testing.T) {
	tmpDir := t.TempDir()

	obsCSV := `notes,project_id,survey_id,layer,species,cover_percent
x,1,s1,herb,Carex flacca,12.5
`
	surveysCSV := `survey_id,project_id,year,plot_code,project_name,region
s1,1,1990,p1,Forest A,south
`
	obsPath := filepath.Join(tmpDir, "obs.csv")
	surveysPath := filepath.Join(tmpDir, "surveys.csv")
	require.NoError(t,
		os.WriteFile(obsPath, []byte(obsCSV), 0644))
	require.NoError(t,
		os.WriteFile(surveysPath, []byte(surveysCSV), 0644))

	ds := datasets.DatasetConfig{
		Name:             "fixture",
		Format:           datasets.FormatCSV,
		ObservationsFile: obsPath,
		SurveysFile:      surveysPath,
	}

	surveys, observations, err := readCSVDataset(ds)
	require.NoError(t, err)
	require.Len(t, surveys, 1)
	require.Len(t, observations, 1)
	assert.InDelta(t, 12.5, observations[0].CoverPercent, 1e-9)
}
