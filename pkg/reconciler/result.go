package reconciler

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/souqmap/pkg/dedupe"
	"github.com/agentstation/souqmap/pkg/normalizer"
	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/sources"
)

// Result represents the outcome of a reconciliation run: the final table and
// everything needed to report on how it was produced.
type Result struct {
	// Core data
	RunID   string           `json:"run_id" yaml:"run_id"`
	Records []records.Record `json:"records" yaml:"records"`

	// Pipeline trace
	Stages     []StageResult      `json:"stages" yaml:"stages"`
	Issues     []normalizer.Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
	Duplicates []dedupe.Duplicate `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`

	// Metadata
	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`

	// Issues
	Errors   []error  `json:"-" yaml:"-"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	// Sources whose records made it into the union, in concatenation order.
	Sources []sources.ID `json:"sources" yaml:"sources"`

	// Skipped lists sources that were unavailable.
	Skipped []sources.ID `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// Statistics about the reconciliation
	Stats ResultStatistics `json:"stats" yaml:"stats"`
}

// ResultStatistics contains the per-stage counts and the breakdown of the
// final table.
type ResultStatistics struct {
	InputBySource       map[records.SourceTag]int `json:"input_by_source" yaml:"input_by_source"`
	Input               int                       `json:"input" yaml:"input"`
	Normalized          int                       `json:"normalized" yaml:"normalized"`
	Classified          int                       `json:"classified" yaml:"classified"`
	Final               int                       `json:"final" yaml:"final"`
	DuplicatesRemoved   int                       `json:"duplicates_removed" yaml:"duplicates_removed"`
	GeolocationExcluded int                       `json:"geolocation_excluded" yaml:"geolocation_excluded"`
	RowIssues           int                       `json:"row_issues" yaml:"row_issues"`

	BySource   map[records.SourceTag]int `json:"by_source" yaml:"by_source"`
	BySector   map[records.Sector]int    `json:"by_sector" yaml:"by_sector"`
	ByCategory map[string]int            `json:"by_category" yaml:"by_category"`
	ByZone     map[string]int            `json:"by_zone" yaml:"by_zone"`

	// SectorShares is the percentage of the final table in each sector,
	// rounded to one decimal.
	SectorShares map[records.Sector]float64 `json:"sector_shares" yaml:"sector_shares"`

	TotalTimeMs int64 `json:"total_time_ms" yaml:"total_time_ms"`
}

// NewResult creates a new result with defaults.
func NewResult() *Result {
	return &Result{
		RunID:    uuid.NewString(),
		Records:  []records.Record{},
		Errors:   []error{},
		Warnings: []string{},
		Metadata: ResultMetadata{
			StartTime: time.Now(),
			Sources:   []sources.ID{},
			Stats: ResultStatistics{
				InputBySource: make(map[records.SourceTag]int),
				BySource:      make(map[records.SourceTag]int),
				BySector:      make(map[records.Sector]int),
				ByCategory:    make(map[string]int),
				ByZone:        make(map[string]int),
				SectorShares:  make(map[records.Sector]float64),
			},
		},
	}
}

// IsSuccess returns true if every source loaded and normalized cleanly.
func (r *Result) IsSuccess() bool {
	return len(r.Errors) == 0
}

// Stage returns the result of the named stage.
func (r *Result) Stage(stage Stage) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s, true
		}
	}
	return StageResult{}, false
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	summary := fmt.Sprintf("Reconciled %d records from %d sources into %d points of sale (%d duplicates removed, %d without geolocation)",
		s.Input, len(r.Metadata.Sources), s.Final, s.DuplicatesRemoved, s.GeolocationExcluded)
	if n := len(r.Metadata.Skipped); n > 0 {
		summary += fmt.Sprintf("; %d sources skipped", n)
	}
	return summary
}

// tally computes the final-table breakdown.
func (r *Result) tally() {
	s := &r.Metadata.Stats
	s.Final = len(r.Records)
	for _, rec := range r.Records {
		s.BySource[rec.SourceTag]++
		s.BySector[rec.Sector]++
		s.ByCategory[rec.Category]++
		s.ByZone[rec.Zone]++
	}
	if s.Final == 0 {
		return
	}
	for sector, n := range s.BySector {
		s.SectorShares[sector] = math.Round(float64(n)*1000/float64(s.Final)) / 10
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.TotalTimeMs = r.Metadata.Duration.Milliseconds()
}
