// Package feed implements the simulated directory source: brand branches
// read from a directory export, or generated when no export exists.
package feed

import (
	"context"
	"path/filepath"

	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/logging"
	"github.com/agentstation/souqmap/pkg/rules"
	"github.com/agentstation/souqmap/pkg/sources"
	"github.com/agentstation/souqmap/pkg/tabular"
)

// Source loads the directory feed.
type Source struct {
	pattern  string
	simulate bool
	rules    *rules.Rules
	table    *tabular.Table
}

// Option configures a feed source.
type Option func(*Source)

// WithPattern sets the file or glob pattern of the feed export. When several
// files match, the most recently modified one is used.
func WithPattern(pattern string) Option {
	return func(s *Source) {
		s.pattern = pattern
	}
}

// WithSimulation controls whether the feed is generated when no export is
// found.
func WithSimulation(enabled bool) Option {
	return func(s *Source) {
		s.simulate = enabled
	}
}

// WithRules sets the rules used to generate the simulated feed.
func WithRules(r *rules.Rules) Option {
	return func(s *Source) {
		s.rules = r
	}
}

// New creates a new feed source.
func New(opts ...Option) *Source {
	s := &Source{
		pattern:  constants.FeedPattern,
		simulate: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the identifier of this source.
func (s *Source) ID() sources.ID {
	return sources.FeedID
}

// Fetch reads the latest export matching the pattern, or generates the
// simulated feed.
func (s *Source) Fetch(ctx context.Context, opts ...sources.Option) error {
	options := sources.NewOptions(opts...)
	logger := logging.FromContext(ctx)
	s.table = nil

	path, err := tabular.Latest(s.pattern)
	if err == nil {
		table, err := tabular.ReadFile(path)
		if err != nil {
			return errors.NewSourceUnavailableError(s.ID().String(), path, err)
		}
		logger.Info().Str("path", path).Int("rows", table.Len()).Msg("Loaded directory feed")
		s.table = table
		return nil
	}
	if !s.simulate {
		return errors.NewSourceUnavailableError(s.ID().String(), s.pattern, err)
	}

	r := s.rules
	if r == nil {
		if r, err = rules.Default(); err != nil {
			return errors.NewSourceUnavailableError(s.ID().String(), "", err)
		}
	}
	s.table = Simulate(r)
	logger.Info().Int("rows", s.table.Len()).Msg("Generated simulated directory feed")

	if options.OutputDir != "" {
		out := filepath.Join(options.OutputDir, constants.FeedFile)
		if err := tabular.WriteFile(out, s.table); err != nil {
			logger.Warn().Err(err).Str("path", out).Msg("Failed to save simulated feed")
		} else {
			logger.Info().Str("path", out).Msg("Saved simulated feed")
		}
	}
	return nil
}

// Tables returns the raw table loaded by the last Fetch.
func (s *Source) Tables() []*tabular.Table {
	if s.table == nil {
		return nil
	}
	return []*tabular.Table{s.table}
}

// Cleanup releases any resources.
func (s *Source) Cleanup() error {
	return nil
}
