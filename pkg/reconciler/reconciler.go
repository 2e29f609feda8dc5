// Package reconciler runs the point-of-sale reconciliation pipeline.
//
// A run loads every source in concatenation order, normalizes each raw table
// into canonical records, classifies and zones every record, then removes
// records without geolocation and duplicates. Each step is a named stage with
// its own counts, and a failing source never aborts the run.
package reconciler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/souqmap/pkg/classifier"
	"github.com/agentstation/souqmap/pkg/dedupe"
	"github.com/agentstation/souqmap/pkg/logging"
	"github.com/agentstation/souqmap/pkg/normalizer"
	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/rules"
	"github.com/agentstation/souqmap/pkg/sources"
	"github.com/agentstation/souqmap/pkg/zones"
)

// Reconciler is the main interface for reconciling point-of-sale sources.
type Reconciler interface {
	// Reconcile loads the sources and produces the final canonical table
	// with its statistics.
	Reconcile(ctx context.Context, srcs []sources.Source) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	rules        *rules.Rules
	classifier   *classifier.Classifier
	assigner     *zones.Assigner
	normalizer   *normalizer.Normalizer
	zeroFilter   bool
	fetchOptions []sources.Option
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	norm, err := normalizer.New(options.rules)
	if err != nil {
		return nil, err
	}

	return &reconciler{
		rules:        options.rules,
		classifier:   options.classifier,
		assigner:     options.assigner,
		normalizer:   norm,
		zeroFilter:   options.zeroFilter,
		fetchOptions: options.fetchOptions,
	}, nil
}

// Reconcile runs load, normalize, classify, zone and dedupe in order.
func (r *reconciler) Reconcile(ctx context.Context, srcs []sources.Source) (*Result, error) {
	result := NewResult()
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.FromContext(ctx)

	logger.Info().Int("sources", len(srcs)).Msg("Starting reconciliation")

	loaded, err := r.collect(ctx, result, srcs)
	if err != nil {
		return nil, err
	}

	recs := r.normalize(ctx, result, loaded)
	r.classify(ctx, result, recs)
	r.zone(ctx, result, recs)
	r.dedupe(ctx, result, recs)

	result.tally()
	result.Finalize()

	logger.Info().
		Int("final", result.Metadata.Stats.Final).
		Int("duplicates_removed", result.Metadata.Stats.DuplicatesRemoved).
		Int("geolocation_excluded", result.Metadata.Stats.GeolocationExcluded).
		Int("skipped_sources", len(result.Metadata.Skipped)).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation completed")

	return result, nil
}

// normalize converts every loaded table and concatenates the records in
// source order.
func (r *reconciler) normalize(ctx context.Context, result *Result, loaded []collected) []records.Record {
	input := 0
	for _, c := range loaded {
		input += c.rows()
	}
	timer := startStage(StageNormalize, input)
	logger := logging.FromContext(logging.WithStage(ctx, StageNormalize.String()))
	stats := &result.Metadata.Stats

	var recs []records.Record
	for _, c := range loaded {
		tag := c.id.Tag()
		contributed := false
		for _, table := range c.tables {
			stats.InputBySource[tag] += table.Len()
			stats.Input += table.Len()

			normalized, issues, err := r.normalizer.Normalize(table, tag)
			if err != nil {
				logger.Warn().Err(err).Str("source", c.id.String()).Str("table", table.Name).Msg("Skipping unparsable table")
				result.Errors = append(result.Errors, err)
				result.Warnings = append(result.Warnings, err.Error())
				timer.fail(err)
				continue
			}
			for _, issue := range issues {
				logger.Debug().Str("source", c.id.String()).Str("issue", issue.String()).Msg("Row flagged")
			}
			result.Issues = append(result.Issues, issues...)
			recs = append(recs, normalized...)
			contributed = true
		}
		if contributed {
			result.Metadata.Sources = append(result.Metadata.Sources, c.id)
		} else {
			result.Metadata.Skipped = append(result.Metadata.Skipped, c.id)
		}
	}

	stats.Normalized = len(recs)
	stats.RowIssues = len(result.Issues)
	result.Stages = append(result.Stages, timer.done(len(recs)))
	logger.Info().Int("input", input).Int("normalized", len(recs)).Int("issues", len(result.Issues)).Msg("Normalized sources")
	return recs
}

// classify sets category and sector on every record. A valid sector supplied
// by the source is kept.
func (r *reconciler) classify(ctx context.Context, result *Result, recs []records.Record) {
	timer := startStage(StageClassify, len(recs))
	logger := logging.FromContext(logging.WithStage(ctx, StageClassify.String()))
	debug := logger.GetLevel() <= zerolog.DebugLevel

	for i := range recs {
		rec := &recs[i]
		category, sector := r.classifier.Classify(rec.RawTag, rec.SourceTag)
		rec.Category = category
		if !rec.SectorPreset {
			rec.Sector = sector
		}
		r.normalizer.Derive(rec)
		if debug {
			logger.Debug().
				Str("raw_tag", rec.RawTag).
				Str("category", rec.Category).
				Str("sector", rec.Sector.String()).
				Bool("preset", rec.SectorPreset).
				Msg("Classified record")
		}
	}

	result.Metadata.Stats.Classified = len(recs)
	result.Stages = append(result.Stages, timer.done(len(recs)))
	logger.Info().Int("classified", len(recs)).Msg("Classified records")
}

// zone assigns every record to a zone.
func (r *reconciler) zone(ctx context.Context, result *Result, recs []records.Record) {
	timer := startStage(StageZone, len(recs))
	logger := logging.FromContext(logging.WithStage(ctx, StageZone.String()))

	unzoned := 0
	for i := range recs {
		recs[i].Zone = r.assigner.Assign(recs[i].Latitude, recs[i].Longitude)
		if recs[i].Zone == r.assigner.Default() {
			unzoned++
		}
	}

	result.Stages = append(result.Stages, timer.done(len(recs)))
	logger.Info().Int("zoned", len(recs)-unzoned).Int("default_zone", unzoned).Msg("Assigned zones")
}

// dedupe drops records without geolocation and duplicate keys.
func (r *reconciler) dedupe(ctx context.Context, result *Result, recs []records.Record) {
	timer := startStage(StageDedupe, len(recs))
	logger := logging.FromContext(logging.WithStage(ctx, StageDedupe.String()))

	kept, report := dedupe.Dedupe(recs, dedupe.WithZeroFilter(r.zeroFilter))
	for _, d := range report.Duplicates {
		logger.Debug().Str("key", d.Key.String()).Str("dropped", d.Dropped.String()).Str("kept_by", d.KeptBy.String()).Msg("Duplicate removed")
	}

	result.Records = kept
	result.Duplicates = report.Duplicates
	result.Metadata.Stats.DuplicatesRemoved = report.DuplicatesRemoved
	result.Metadata.Stats.GeolocationExcluded = report.GeolocationExcluded()
	result.Stages = append(result.Stages, timer.done(len(kept)))
	logger.Info().
		Int("kept", len(kept)).
		Int("duplicates_removed", report.DuplicatesRemoved).
		Int("missing_geolocation", report.MissingGeolocation).
		Int("zero_coordinate", report.ZeroCoordinate).
		Msg("Deduplicated records")
}
