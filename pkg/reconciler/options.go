package reconciler

import (
	"time"

	"github.com/agentstation/souqmap/pkg/classifier"
	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/rules"
	"github.com/agentstation/souqmap/pkg/sources"
	"github.com/agentstation/souqmap/pkg/zones"
)

// options configures a reconciler.
type options struct {
	rules        *rules.Rules
	classifier   *classifier.Classifier
	assigner     *zones.Assigner
	zeroFilter   bool
	fetchOptions []sources.Option
}

func defaultOptions() *options {
	return &options{
		zeroFilter: true,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values. Components not
// set explicitly are built from the rule set, which defaults to the embedded
// Casablanca rules.
func newOptions(opts ...Option) (*options, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	if o.rules == nil {
		if o.rules, err = rules.Default(); err != nil {
			return nil, err
		}
	}
	if o.classifier == nil {
		if o.classifier, err = classifier.New(o.rules); err != nil {
			return nil, err
		}
	}
	if o.assigner == nil {
		if o.assigner, err = zones.FromRules(o.rules); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithRules sets the rule set used for classification, zoning and defaults.
func WithRules(r *rules.Rules) Option {
	return func(o *options) error {
		if r == nil {
			return &errors.ValidationError{
				Field:   "rules",
				Message: "cannot be nil",
			}
		}
		o.rules = r
		return nil
	}
}

// WithClassifier overrides the category classifier.
func WithClassifier(c *classifier.Classifier) Option {
	return func(o *options) error {
		if c == nil {
			return &errors.ValidationError{
				Field:   "classifier",
				Message: "cannot be nil",
			}
		}
		o.classifier = c
		return nil
	}
}

// WithAssigner overrides the zone assigner.
func WithAssigner(a *zones.Assigner) Option {
	return func(o *options) error {
		if a == nil {
			return &errors.ValidationError{
				Field:   "assigner",
				Message: "cannot be nil",
			}
		}
		o.assigner = a
		return nil
	}
}

// WithZeroFilter controls whether zero coordinates count as missing.
func WithZeroFilter(enabled bool) Option {
	return func(o *options) error {
		o.zeroFilter = enabled
		return nil
	}
}

// WithSourceTimeout bounds each source fetch; it is shorthand for
// WithFetchOptions(sources.WithTimeout(timeout)). A source that times out is
// skipped like any other unavailable source. Zero leaves fetches bounded only
// by the run context.
func WithSourceTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout < 0 {
			return &errors.ValidationError{
				Field:   "sourceTimeout",
				Value:   timeout,
				Message: "cannot be negative",
			}
		}
		o.fetchOptions = append(o.fetchOptions, sources.WithTimeout(timeout))
		return nil
	}
}

// WithFetchOptions passes options to every source fetch.
func WithFetchOptions(opts ...sources.Option) Option {
	return func(o *options) error {
		o.fetchOptions = append(o.fetchOptions, opts...)
		return nil
	}
}
