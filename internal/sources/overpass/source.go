// Package overpass implements the map API source: points of sale queried
// from OpenStreetMap through an Overpass interpreter.
package overpass

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"

	"github.com/agentstation/souqmap/internal/transport"
	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/logging"
	"github.com/agentstation/souqmap/pkg/sources"
	"github.com/agentstation/souqmap/pkg/tabular"
)

// Source queries an Overpass endpoint.
type Source struct {
	client   *transport.Client
	endpoint string
	bound    orb.Bound
	tags     []Tag
	table    *tabular.Table
}

// Option configures an Overpass source.
type Option func(*Source)

// WithEndpoint sets the interpreter URL.
func WithEndpoint(endpoint string) Option {
	return func(s *Source) {
		s.endpoint = endpoint
	}
}

// WithBound sets the search area.
func WithBound(b orb.Bound) Option {
	return func(s *Source) {
		s.bound = b
	}
}

// WithTags sets the tag filters.
func WithTags(tags ...Tag) Option {
	return func(s *Source) {
		s.tags = tags
	}
}

// WithClient sets the HTTP transport.
func WithClient(c *transport.Client) Option {
	return func(s *Source) {
		if c != nil {
			s.client = c
		}
	}
}

// New creates a new Overpass source.
func New(opts ...Option) *Source {
	s := &Source{
		client:   transport.New("overpass"),
		endpoint: constants.OverpassURL,
		bound:    CasablancaBound,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the identifier of this source.
func (s *Source) ID() sources.ID {
	return sources.MapAPIID
}

// groups splits the tags by OSM key, keeping first-seen key order.
func (s *Source) groups() [][]Tag {
	var keys []string
	byKey := make(map[string][]Tag)
	for _, t := range s.tags {
		if _, ok := byKey[t.Key]; !ok {
			keys = append(keys, t.Key)
		}
		byKey[t.Key] = append(byKey[t.Key], t)
	}
	out := make([][]Tag, len(keys))
	for i, k := range keys {
		out[i] = byKey[k]
	}
	return out
}

// Fetch runs one query per OSM key, pausing between queries. A failed query
// is reported while the results of the others are kept.
func (s *Source) Fetch(ctx context.Context, opts ...sources.Option) error {
	options := sources.NewOptions(opts...)
	logger := logging.FromContext(ctx)

	s.table = nil
	if len(s.tags) == 0 {
		return errors.NewSourceUnavailableError(s.ID().String(), s.endpoint, fmt.Errorf("no tags to query"))
	}

	table := tabular.New("overpass", Columns...)
	seen := make(map[string]bool)
	groups := s.groups()
	var failures []error
	succeeded := 0

	for i, group := range groups {
		if i > 0 {
			if err := pause(ctx, options.Delay); err != nil {
				failures = append(failures, err)
				break
			}
		}

		query := BuildQuery(s.bound, group, constants.OverpassQueryTimeout)
		resp, err := s.client.Get(ctx, s.endpoint, url.Values{"data": {query}})
		if err != nil {
			failures = append(failures, err)
			continue
		}
		var body response
		if err := s.client.DecodeResponse(resp, &body); err != nil {
			failures = append(failures, err)
			continue
		}

		succeeded++
		added, skipped := appendElements(table, body.Elements, seen)
		logger.Info().
			Str("key", group[0].Key).
			Int("elements", len(body.Elements)).
			Int("added", added).
			Int("skipped", skipped).
			Msg("Overpass query completed")
	}

	if len(failures) > 0 && table.Len() == 0 {
		return errors.NewSourceUnavailableError(s.ID().String(), s.endpoint, failures[0])
	}
	s.table = table

	if options.OutputDir != "" {
		path := filepath.Join(options.OutputDir, constants.MapAPIFile)
		if err := tabular.WriteFile(path, table); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to save map API export")
		} else {
			logger.Info().Str("path", path).Int("rows", table.Len()).Msg("Saved map API export")
		}
	}

	if len(failures) > 0 {
		return errors.NewSourceUnavailableError(s.ID().String(), s.endpoint,
			fmt.Errorf("%d of %d queries failed: %w", len(groups)-succeeded, len(groups), failures[0]))
	}
	return nil
}

// pause waits for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
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
