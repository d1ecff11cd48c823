// Package schema provides database schema models for the GNveg result
// tables. The same models back the PostgreSQL export (via GORM
// AutoMigrate) and the CSV export headers.
package schema

import "database/sql"

// SpeciesChange is one species-level interval change record. Non-emitted
// metrics (species absent from both snapshots, colonizer/extinction masks)
// are NULL; non-finite values of emitted metrics are stored as-is.
type SpeciesChange struct {
	// ProjectID and PlotCode identify the series.
	ProjectID int    `gorm:"column:project_id;index:idx_species_changes_series"`
	PlotCode  string `gorm:"column:plot_code;type:varchar(100);index:idx_species_changes_series"`

	// YearFrom and YearTo bound the interval; YearTo is the later year.
	YearFrom int `gorm:"column:year_from"`
	YearTo   int `gorm:"column:year_to"`

	// NFrom and NTo are replicate survey counts behind the snapshots.
	NFrom int `gorm:"column:n_from"`
	NTo   int `gorm:"column:n_to"`

	// SpeciesID is a deterministic UUID v5 of the species name.
	SpeciesID string `gorm:"column:species_id;type:uuid"`

	// Species is the species name.
	Species string `gorm:"column:species;type:varchar(255);index"`

	AbsoluteChange     sql.NullFloat64 `gorm:"column:absolute_change"`
	RelativeChange     sql.NullFloat64 `gorm:"column:relative_change"`
	RelativeRankChange float64         `gorm:"column:relative_rank_change"`
	ColonizerChange    sql.NullFloat64 `gorm:"column:colonizer_change"`
	ExtinctionChange   sql.NullFloat64 `gorm:"column:extinction_change"`
}

// TableName returns the PostgreSQL table name.
func (SpeciesChange) TableName() string { return "species_changes" }

// PlotChange is one community-level interval change record.
type PlotChange struct {
	ProjectID int    `gorm:"column:project_id;index:idx_plot_changes_series"`
	PlotCode  string `gorm:"column:plot_code;type:varchar(100);index:idx_plot_changes_series"`
	YearFrom  int    `gorm:"column:year_from"`
	YearTo    int    `gorm:"column:year_to"`
	NFrom     int    `gorm:"column:n_from"`
	NTo       int    `gorm:"column:n_to"`

	LogRichnessChange float64 `gorm:"column:log_richness_change"`
	LogShannonChange  float64 `gorm:"column:log_shannon_change"`
	LogEvennessChange float64 `gorm:"column:log_evenness_change"`
	CurveDiff         float64 `gorm:"column:curve_diff"`
	LogRankChange     float64 `gorm:"column:log_rank_change"`
	LogRankChangeSum  float64 `gorm:"column:log_rank_change_sum"`
	MeanCoverChange   float64 `gorm:"column:mean_cover_change"`
	MedianCoverChange float64 `gorm:"column:median_cover_change"`
	GainsMinusLosses  int     `gorm:"column:gains_minus_losses"`
}

// TableName returns the PostgreSQL table name.
func (PlotChange) TableName() string { return "plot_changes" }

// SpeciesSummary is the corpus-wide per-species aggregate.
type SpeciesSummary struct {
	SpeciesID string `gorm:"column:species_id;type:uuid;primaryKey"`
	Species   string `gorm:"column:species;type:varchar(255);index"`

	Observations int `gorm:"column:n_observations"`
	Positive     int `gorm:"column:n_positive"`
	Negative     int `gorm:"column:n_negative"`
	Zero         int `gorm:"column:n_zero"`

	Estimate float64 `gorm:"column:increase_probability"`
	CILow    float64 `gorm:"column:increase_probability_ci_low"`
	CIHigh   float64 `gorm:"column:increase_probability_ci_high"`

	PValue         float64 `gorm:"column:p_value"`
	AdjustedPValue float64 `gorm:"column:adjusted_p_value"`

	MeanAbsoluteChange float64 `gorm:"column:mean_absolute_change"`
	Significant        bool    `gorm:"column:significant"`
}

// TableName returns the PostgreSQL table name.
func (SpeciesSummary) TableName() string { return "species_summaries" }

// LorenzPoint is one step of a named Lorenz curve. The four analyses
// (raw_negative, raw_positive, species_mean_negative, species_mean_positive)
// are kept separate, never merged.
type LorenzPoint struct {
	Analysis   string  `gorm:"column:analysis;type:varchar(50);index"`
	PointIndex int     `gorm:"column:point_index"`
	Units      float64 `gorm:"column:cum_units"`
	Magnitude  float64 `gorm:"column:cum_magnitude"`
}

// TableName returns the PostgreSQL table name.
func (LorenzPoint) TableName() string { return "lorenz_points" }

// GiniStat is the Gini coefficient of one named analysis with its bootstrap
// confidence interval.
type GiniStat struct {
	Analysis    string  `gorm:"column:analysis;type:varchar(50);primaryKey"`
	N           int     `gorm:"column:n"`
	Coefficient float64 `gorm:"column:coefficient"`
	CILow       float64 `gorm:"column:ci_low"`
	CIHigh      float64 `gorm:"column:ci_high"`
	Resamples   int     `gorm:"column:resamples"`
	Seed        int64   `gorm:"column:seed"`
}

// TableName returns the PostgreSQL table name.
func (GiniStat) TableName() string { return "gini_stats" }
