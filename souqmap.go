// Package souqmap reconciles retail point-of-sale listings for Casablanca.
//
// A Client wires the three raw sources (the map API export, the directory
// feed and the legacy tables) to the reconciliation pipeline and persists
// the final table:
//
//	client, err := souqmap.New(souqmap.WithDir("data"))
//	if err != nil {
//		return err
//	}
//	result, err := client.Reconcile(ctx)
//	if err != nil {
//		return err
//	}
//	path, err := client.Save(result)
package souqmap

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/agentstation/souqmap/internal/sources/feed"
	"github.com/agentstation/souqmap/internal/sources/local"
	"github.com/agentstation/souqmap/internal/sources/overpass"
	"github.com/agentstation/souqmap/internal/transport"
	"github.com/agentstation/souqmap/pkg/classifier"
	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/logging"
	"github.com/agentstation/souqmap/pkg/reconciler"
	"github.com/agentstation/souqmap/pkg/rules"
	"github.com/agentstation/souqmap/pkg/save"
	"github.com/agentstation/souqmap/pkg/sources"
	"github.com/agentstation/souqmap/pkg/zones"
)

// Client runs reconciliations over a working directory
type Client interface {
	// Rules returns the rule set in use
	Rules() *rules.Rules

	// Classifier returns the category classifier
	Classifier() *classifier.Classifier

	// Zones returns the zone assigner
	Zones() *zones.Assigner

	// Sources returns a fresh set of sources in concatenation order
	Sources() []sources.Source

	// Reconcile loads every source and produces the final table
	Reconcile(ctx context.Context) (*reconciler.Result, error)

	// Save persists the final table and returns the path written
	Save(result *reconciler.Result, opts ...save.Option) (string, error)

	// OnReconciled registers a callback for completed runs
	OnReconciled(ReconciledHook)

	// OnSourceSkipped registers a callback for skipped sources
	OnSourceSkipped(SourceSkippedHook)

	// OnSaved registers a callback for saved tables
	OnSaved(SavedHook)
}

// client is the internal implementation of the Client interface
type client struct {
	*hooks
	config     *config
	rules      *rules.Rules
	classifier *classifier.Classifier
	assigner   *zones.Assigner
	reconciler reconciler.Reconciler
}

// New creates a new Client with the given options
func New(opts ...Option) (Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	r, err := loadRules(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	cls, err := classifier.New(r)
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}
	assigner, err := zones.FromRules(r)
	if err != nil {
		return nil, fmt.Errorf("creating zone assigner: %w", err)
	}

	recOpts := []reconciler.Option{
		reconciler.WithRules(r),
		reconciler.WithClassifier(cls),
		reconciler.WithAssigner(assigner),
		reconciler.WithZeroFilter(cfg.zeroFilter),
		reconciler.WithSourceTimeout(cfg.sourceTimeout),
	}
	if cfg.keepRaw {
		recOpts = append(recOpts, reconciler.WithFetchOptions(sources.WithOutputDir(cfg.dir)))
	}
	rec, err := reconciler.New(recOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating reconciler: %w", err)
	}

	return &client{
		hooks:      newHooks(),
		config:     cfg,
		rules:      r,
		classifier: cls,
		assigner:   assigner,
		reconciler: rec,
	}, nil
}

func loadRules(cfg *config) (*rules.Rules, error) {
	switch {
	case cfg.rules != nil:
		return cfg.rules, nil
	case cfg.rulesFile != "":
		return rules.Load(cfg.rulesFile)
	default:
		return rules.Default()
	}
}

// Rules returns the rule set in use
func (c *client) Rules() *rules.Rules {
	return c.rules
}

// Classifier returns the category classifier
func (c *client) Classifier() *classifier.Classifier {
	return c.classifier
}

// Zones returns the zone assigner
func (c *client) Zones() *zones.Assigner {
	return c.assigner
}

// Sources builds the map API, feed and legacy sources, then applies the
// sources given with WithSources over them by ID. Sources hold the tables of
// their last fetch, so each run gets its own set.
func (c *client) Sources() []sources.Source {
	registry := sources.NewSources(
		c.mapAPISource(),
		feed.New(
			feed.WithPattern(c.path(constants.FeedPattern)),
			feed.WithSimulation(c.config.simulate),
			feed.WithRules(c.rules),
		),
		local.New(
			local.WithID(sources.LegacyID),
			local.WithPatterns(c.paths(c.config.legacyPatterns)...),
		),
	)
	for _, src := range c.config.sources {
		registry.Set(src)
	}
	return registry.List()
}

func (c *client) mapAPISource() sources.Source {
	if !c.config.online {
		return local.New(
			local.WithID(sources.MapAPIID),
			local.WithPatterns(c.path(constants.MapAPIPattern)),
		)
	}

	var topts []transport.Option
	if c.config.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(c.config.httpClient))
	}
	return overpass.New(
		overpass.WithEndpoint(c.config.endpoint),
		overpass.WithTags(overpass.TagsFromRules(c.rules)...),
		overpass.WithClient(transport.New("overpass", topts...)),
	)
}

func (c *client) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.config.dir, name)
}

func (c *client) paths(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = c.path(name)
	}
	return out
}

// Reconcile loads every source and produces the final table
func (c *client) Reconcile(ctx context.Context) (*reconciler.Result, error) {
	result, err := c.reconciler.Reconcile(ctx, c.Sources())
	if err != nil {
		return nil, err
	}
	c.triggerReconciled(result)
	return result, nil
}

// Save persists the final table. Without a path or writer option the table
// is written to the merged file in the working directory.
func (c *client) Save(result *reconciler.Result, opts ...save.Option) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no result to save")
	}

	opts = append([]save.Option{save.WithPath(c.path(constants.MergedFile))}, opts...)
	path, err := save.Table(result.Records, opts...)
	if err != nil {
		return "", err
	}
	if path != "" {
		logging.Default().Info().
			Str("path", path).
			Int("records", len(result.Records)).
			Msg("Saved final table")
		c.triggerSaved(path)
	}
	return path, nil
}
