// Package ioingest implements the Ingestor interface for reading resurvey
// observations from CSV and SQLite sources. This is an impure I/O package
// that implements contracts defined in pkg/.
package ioingest

import (
	"log/slog"
	"os"

	"github.com/gnames/gnveg/pkg/config"
	"github.com/gnames/gnveg/pkg/datasets"
	"gopkg.in/yaml.v3"
)

type loader struct {
	cfg *config.Config
}

// NewLoader creates a datasets.yaml loader for the configured home
// directory.
func NewLoader(cfg *config.Config) datasets.Loader {
	res := loader{cfg: cfg}
	return &res
}

func (l *loader) Load() (*datasets.DatasetsConfig, error) {
	datasetsPath := config.DatasetsFilePath(l.cfg.HomeDir)
	datasetsConfig, err := loadDatasetsConfig(datasetsPath)
	if err != nil {
		return nil, DatasetsConfigError(datasetsPath, err)
	}
	return datasetsConfig, nil
}

// loadDatasetsConfig reads and validates datasets.yaml from disk.
func loadDatasetsConfig(path string) (*datasets.DatasetsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var dc datasets.DatasetsConfig
	if err := yaml.Unmarshal(data, &dc); err != nil {
		return nil, err
	}

	if err := dc.Validate(); err != nil {
		return nil, err
	}

	// Log configuration warnings
	for _, w := range dc.Warnings {
		slog.Warn("Dataset configuration warning",
			"dataset", w.Dataset,
			"field", w.Field,
			"message", w.Message,
			"suggestion", w.Suggestion)
	}

	return &dc, nil
}
