package ioingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnveg/pkg/datasets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDatasetsConfig_Minimal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tmpDir := t.TempDir()

	yamlContent := `
datasets:
  - name: forest-resurvey
    format: csv
    observations_file: ` + filepath.Join(tmpDir, "obs.csv") + `
    surveys_file: ` + filepath.Join(tmpDir, "surveys.csv") + `
`

	configPath := filepath.Join(tmpDir, "datasets.yaml")
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	dc, err := loadDatasetsConfig(configPath)
	require.NoError(t, err)
	require.Len(t, dc.Datasets, 1)

	ds := dc.Datasets[0]
	assert.Equal(t, "forest-resurvey", ds.Name)
	assert.Equal(t, datasets.FormatCSV, ds.Format)
}

func TestLoadDatasetsConfig_FileNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	_, err := loadDatasetsConfig("nonexistent.yaml")
	assert.Error(t, err)
}

func TestLoadDatasetsConfig_InvalidYAML(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "datasets.yaml")
	err := os.WriteFile(configPath,
		[]byte("datasets: [unclosed"), 0644)
	require.NoError(t, err)

	_, err = loadDatasetsConfig(configPath)
	assert.Error(t, err)
}

func TestLoadDatasetsConfig_DefaultsFormat(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tmpDir := t.TempDir()

	yamlContent := `
datasets:
  - name: no-format
    observations_file: obs.csv
    surveys_file: surveys.csv
`

	configPath := filepath.Join(tmpDir, "datasets.yaml")
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	dc, err := loadDatasetsConfig(configPath)
	require.NoError(t, err)
	require.Len(t, dc.Datasets, 1)
	assert.Equal(t, datasets.FormatCSV, dc.Datasets[0].Format)
	assert.NotEmpty(t, dc.Warnings,
		"Defaulted format should produce a warning")
}
