// Package app provides the application context and dependency management
// for the souqmap CLI: configuration, logging and the lazily created
// souqmap client shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/souqmap"
	"github.com/agentstation/souqmap/cmd/application"
	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/logging"
)

// App represents the souqmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client souqmap.Client
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Dir returns the working directory.
func (a *App) Dir() string {
	return a.config.Dir
}

// Client returns the souqmap client. Without options the cached client is
// returned, creating it on first use. Options are applied on top of the
// configured ones and always produce a new client.
func (a *App) Client(opts ...souqmap.Option) (souqmap.Client, error) {
	if len(opts) > 0 {
		client, err := souqmap.New(append(a.clientOptions(), opts...)...)
		if err != nil {
			return nil, errors.NewConfigError("client", "creating client with custom options", err)
		}
		return client, nil
	}

	a.mu.RLock()
	if a.client != nil {
		client := a.client
		a.mu.RUnlock()
		return client, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	client, err := souqmap.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.NewConfigError("client", "creating client", err)
	}
	a.client = client
	return client, nil
}

// Shutdown releases application resources.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.client = nil
	return nil
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() []souqmap.Option {
	opts := []souqmap.Option{
		souqmap.WithDir(a.config.Dir),
		souqmap.WithOnline(a.config.Online),
		souqmap.WithSimulation(a.config.Simulate),
		souqmap.WithKeepRaw(a.config.KeepRaw),
		souqmap.WithZeroFilter(a.config.ZeroFilter),
		souqmap.WithSourceTimeout(a.config.SourceTimeout),
	}
	if a.config.RulesFile != "" {
		opts = append(opts, souqmap.WithRulesFile(a.config.RulesFile))
	}
	if a.config.OverpassURL != "" {
		opts = append(opts, souqmap.WithEndpoint(a.config.OverpassURL))
	}
	return opts
}

// context attaches the application logger to ctx.
func (a *App) context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, a.logger)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(client souqmap.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
