package sources

import (
	"time"

	"github.com/agentstation/souqmap/pkg/constants"
)

// Options configures a fetch.
type Options struct {
	// Timeout bounds a single fetch; zero means no bound beyond the context.
	Timeout time.Duration

	// Delay is the politeness pause between successive remote requests.
	Delay time.Duration

	// OutputDir, when set, asks sources that download or generate data to
	// also write their raw table there.
	OutputDir string
}

// Option is a function that configures fetch options.
type Option func(*Options)

// WithTimeout sets the timeout for a fetch.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithDelay sets the pause between remote requests.
func WithDelay(delay time.Duration) Option {
	return func(opts *Options) {
		opts.Delay = delay
	}
}

// WithOutputDir asks sources to keep a copy of their raw tables in dir.
func WithOutputDir(dir string) Option {
	return func(opts *Options) {
		opts.OutputDir = dir
	}
}

// NewOptions creates Options with defaults.
func NewOptions(opts ...Option) *Options {
	options := &Options{
		Timeout: constants.SourceFetchTimeout,
		Delay:   constants.PolitenessDelay,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
