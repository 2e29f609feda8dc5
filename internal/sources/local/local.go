// Package local implements file-backed sources: tables already on disk,
// either legacy exports or raw exports saved by an earlier fetch.
package local

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/logging"
	"github.com/agentstation/souqmap/pkg/sources"
	"github.com/agentstation/souqmap/pkg/tabular"
)

// Source loads CSV tables from disk.
type Source struct {
	id       sources.ID
	patterns []string
	tables   []*tabular.Table
}

// New creates a new local source.
func New(opts ...Option) *Source {
	s := &Source{id: sources.LegacyID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a local source.
type Option func(*Source)

// WithID sets the source path the tables are ingested through.
func WithID(id sources.ID) Option {
	return func(s *Source) {
		s.id = id
	}
}

// WithPatterns sets the files to load. Each entry is a path or a glob; for a
// glob the most recently modified match is loaded.
func WithPatterns(patterns ...string) Option {
	return func(s *Source) {
		s.patterns = patterns
	}
}

// ID returns the identifier of this source.
func (s *Source) ID() sources.ID {
	return s.id
}

// Fetch loads every configured file. Missing or unparsable files are
// reported together; the files that loaded are kept.
func (s *Source) Fetch(ctx context.Context, _ ...sources.Option) error {
	logger := logging.FromContext(ctx)
	s.tables = nil

	if len(s.patterns) == 0 {
		return errors.NewSourceUnavailableError(s.id.String(), "", fmt.Errorf("no files configured"))
	}

	var failures []error
	for _, pattern := range s.patterns {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}
		path, err := tabular.Latest(pattern)
		if err != nil {
			failures = append(failures, errors.NewSourceUnavailableError(s.id.String(), pattern, err))
			continue
		}
		table, err := tabular.ReadFile(path)
		if err != nil {
			failures = append(failures, errors.NewSourceUnavailableError(s.id.String(), path, err))
			continue
		}
		logger.Info().Str("path", path).Int("rows", table.Len()).Msg("Loaded table")
		s.tables = append(s.tables, table)
	}

	if len(failures) == 0 {
		return nil
	}
	if len(failures) == 1 {
		return failures[0]
	}
	return errors.NewSourceUnavailableError(s.id.String(), "", stderrors.Join(failures...))
}

// Tables returns the tables loaded by the last Fetch.
func (s *Source) Tables() []*tabular.Table {
	return s.tables
}

// Cleanup releases any resources.
func (s *Source) Cleanup() error {
	return nil
}
