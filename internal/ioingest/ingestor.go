package ioingest

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnveg/pkg/config"
	"github.com/gnames/gnveg/pkg/datasets"
	"github.com/gnames/gnveg/pkg/lifecycle"
	"github.com/gnames/gnveg/pkg/obs"
	"github.com/gnames/gnveg/pkg/parserpool"
	"golang.org/x/sync/errgroup"
)

// ingestor implements the lifecycle.Ingestor interface.
type ingestor struct{}

// NewIngestor creates a new Ingestor.
func NewIngestor() lifecycle.Ingestor {
	return &ingestor{}
}

// Ingest reads all given datasets and returns their surveys and
// observations.
func (ing *ingestor) Ingest(
	ctx context.Context,
	cfg *config.Config,
	ds []datasets.DatasetConfig,
) ([]obs.Survey, []obs.Observation, error) {
	if len(ds) == 0 {
		return nil, nil, NoDatasetsError()
	}

	var surveys []obs.Survey
	var observations []obs.Observation
	var lastErr error

	for _, d := range ds {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		slog.Info("Reading dataset",
			"dataset", d.Name, "format", d.Format)

		s, o, err := readDataset(ctx, d)
		if err != nil {
			// A bad source fails that source, not the run.
			gn.Warn("Skipping dataset <em>%s</em>: %s", d.Name, err)
			slog.Warn("Skipping dataset",
				"dataset", d.Name, "error", err)
			lastErr = err
			continue
		}

		slog.Info("Dataset read",
			"dataset", d.Name,
			"surveys", humanize.Comma(int64(len(s))),
			"observations", humanize.Comma(int64(len(o))))

		surveys = append(surveys, s...)
		observations = append(observations, o...)
	}

	if len(surveys) == 0 && lastErr != nil {
		return nil, nil, lastErr
	}

	if normalizeNames(cfg) {
		if err := canonicalize(ctx, cfg, observations); err != nil {
			return nil, nil, err
		}
	}

	return surveys, observations, nil
}

func readDataset(
	ctx context.Context,
	d datasets.DatasetConfig,
) ([]obs.Survey, []obs.Observation, error) {
	switch d.Format {
	case datasets.FormatSQLite:
		if err := checkFiles(d.Name, d.DBFile); err != nil {
			return nil, nil, err
		}
		return readSQLiteDataset(ctx, d)
	default:
		if err := checkFiles(
			d.Name, d.ObservationsFile, d.SurveysFile,
		); err != nil {
			return nil, nil, err
		}
		return readCSVDataset(d)
	}
}

func checkFiles(dataset string, paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return FileNotFoundError(dataset, p, err)
		}
	}
	return nil
}

func normalizeNames(cfg *config.Config) bool {
	if cfg.Ingest.NormalizeNames == nil {
		return true
	}
	return *cfg.Ingest.NormalizeNames
}

// canonicalize rewrites species name strings to their canonical forms.
// Each distinct name is parsed once; parsing runs on a worker pool sized
// by JobsNumber.
func canonicalize(
	ctx context.Context,
	cfg *config.Config,
	observations []obs.Observation,
) error {
	jobs := cfg.JobsNumber
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}

	// Collect distinct names
	seen := make(map[string]bool)
	var names []string
	for _, o := range observations {
		if !seen[o.Species] {
			seen[o.Species] = true
			names = append(names, o.Species)
		}
	}

	pool := parserpool.NewPool(jobs)
	defer pool.Close()

	type parsed struct {
		verbatim, canonical string
	}

	chIn := make(chan string)
	chOut := make(chan parsed)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, name := range names {
			select {
			case chIn <- name:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var workers errgroup.Group
	for range jobs {
		workers.Go(func() error {
			for name := range chIn {
				res := parsed{
					verbatim:  name,
					canonical: pool.Canonical(name),
				}
				select {
				case chOut <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(chOut)
		return workers.Wait()
	})

	canonical := make(map[string]string, len(names))
	for p := range chOut {
		canonical[p.verbatim] = p.canonical
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i := range observations {
		observations[i].Species = canonical[observations[i].Species]
	}

	slog.Info("Canonicalized species names",
		"distinct_names", humanize.Comma(int64(len(canonical))))

	return nil
}
