/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnveg/internal/ioanalysis"
	"github.com/gnames/gnveg/internal/iodb"
	"github.com/gnames/gnveg/internal/ioexport"
	"github.com/gnames/gnveg/internal/ioingest"
	"github.com/gnames/gnveg/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// getRunCmd returns the run command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getRunCmd() *cobra.Command {
	var (
		datasetNames   []string
		csvDir         string
		skipDatabase   bool
		seed           int64
		resamples      int
		includeZeros   bool
		normalizeNames bool
		jobs           int
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the resurvey change analysis",
		Long: `Run executes the full analysis pipeline.

This command:
  1. Reads observation datasets listed in datasets.yaml
  2. Merges layer-specific cover records per species and survey
  3. Builds per-plot time series and computes change metrics
     for every consecutive survey pair
  4. Aggregates changes per species with exact binomial tests
     and Holm adjustment
  5. Computes Lorenz curves and bootstrap Gini coefficients for
     losses and gains
  6. Exports the result tables to PostgreSQL and/or CSV files

Identical inputs and seed produce identical outputs, regardless
of the number of workers.

Datasets configured in: ~/.config/gnveg/datasets.yaml

Examples:
  # Analyze all datasets, export to PostgreSQL
  gnveg run

  # Analyze selected datasets only
  gnveg run --datasets alpine-meadows,forest-resurvey

  # Write CSV files instead of the database
  gnveg run --csv-dir ./results --skip-database

  # Reproduce a published run
  gnveg run --seed 20240117 --resamples 1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRun(
				cmd, datasetNames, csvDir, skipDatabase,
				seed, resamples, includeZeros,
				normalizeNames, jobs,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	runCmd.Flags().StringSliceVarP(
		&datasetNames, "datasets", "s", []string{},
		"dataset names to analyze (empty = all)",
	)
	runCmd.Flags().StringVarP(
		&csvDir, "csv-dir", "o", "",
		"also write result tables as CSV files into this directory",
	)
	runCmd.Flags().BoolVar(
		&skipDatabase, "skip-database", false,
		"do not export results to PostgreSQL",
	)
	runCmd.Flags().Int64Var(
		&seed, "seed", 0,
		"bootstrap RNG seed",
	)
	runCmd.Flags().IntVarP(
		&resamples, "resamples", "r", 0,
		"bootstrap resamples for Gini confidence intervals",
	)
	runCmd.Flags().BoolVar(
		&includeZeros, "include-zeros", false,
		"count zero changes as binomial trials",
	)
	runCmd.Flags().BoolVar(
		&normalizeNames, "normalize-names", true,
		"canonicalize species names with gnparser",
	)
	runCmd.Flags().IntVarP(
		&jobs, "jobs", "j", 0,
		"number of concurrent workers (0 = all cores)",
	)

	return runCmd
}

func runRun(
	cmd *cobra.Command,
	datasetNames []string,
	csvDir string,
	skipDatabase bool,
	seed int64,
	resamples int,
	includeZeros bool,
	normalizeNames bool,
	jobs int,
) error {
	ctx := context.Background()
	start := time.Now()

	// Build options from explicitly set flags
	var runOpts []config.Option

	if cmd.Flags().Changed("datasets") {
		runOpts = append(runOpts,
			config.OptIngestDatasetNames(datasetNames))
	}
	if cmd.Flags().Changed("csv-dir") {
		runOpts = append(runOpts, config.OptExportCSVDir(csvDir))
	}
	if cmd.Flags().Changed("skip-database") {
		runOpts = append(runOpts,
			config.OptExportSkipDatabase(skipDatabase))
	}
	if cmd.Flags().Changed("seed") {
		runOpts = append(runOpts,
			config.OptAnalysisBootstrapSeed(seed))
	}
	if cmd.Flags().Changed("resamples") {
		runOpts = append(runOpts,
			config.OptAnalysisBootstrapResamples(resamples))
	}
	if cmd.Flags().Changed("include-zeros") {
		runOpts = append(runOpts,
			config.OptAnalysisIncludeZeroChanges(&includeZeros))
	}
	if cmd.Flags().Changed("normalize-names") {
		runOpts = append(runOpts,
			config.OptIngestNormalizeNames(&normalizeNames))
	}
	if cmd.Flags().Changed("jobs") {
		runOpts = append(runOpts, config.OptJobsNumber(jobs))
	}

	if len(runOpts) > 0 {
		cfg.Update(runOpts)
	}

	if cfg.Export.SkipDatabase && cfg.Export.CSVDir == "" {
		gn.Warn("Database export is off and no CSV directory is set, " +
			"results will be discarded")
	}

	// Run ID ties the log records of one run together.
	runID := uuid.New().String()
	slog.Info("Starting analysis run",
		"run_id", runID,
		"seed", cfg.Analysis.BootstrapSeed,
		"resamples", cfg.Analysis.BootstrapResamples)

	// Select datasets
	dsConfig, err := ioingest.NewLoader(cfg).Load()
	if err != nil {
		return err
	}

	selected, missing := dsConfig.Filter(cfg.Ingest.DatasetNames)
	for _, name := range missing {
		gn.Warn("Unknown dataset <em>%s</em> ignored", name)
	}

	// Ingest
	surveys, observations, err :=
		ioingest.NewIngestor().Ingest(ctx, cfg, selected)
	if err != nil {
		return err
	}

	// Analyze
	res, err := ioanalysis.NewAnalyzer().
		Analyze(ctx, cfg, surveys, observations)
	if err != nil {
		return err
	}

	// Export
	op := iodb.NewPgxOperator()
	if !cfg.Export.SkipDatabase {
		if err = op.Connect(ctx, &cfg.Database); err != nil {
			return err
		}
		defer op.Close()

		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			cfg.Database.User, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Database)
	}

	if err = ioexport.NewExporter(op).Export(ctx, cfg, res); err != nil {
		return err
	}

	gn.Info("Analysis finished in <em>%s</em>",
		gnfmt.TimeString(time.Since(start).Seconds()))
	slog.Info("Run finished", "run_id", runID,
		"duration", time.Since(start).String())

	return nil
}
