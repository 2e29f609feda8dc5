// Package application provides the application interface for souqmap commands.
//
// Commands accept the Application interface rather than the concrete App
// type from cmd/souqmap/app, so they can be tested with a Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func(opts ...souqmap.Option) (souqmap.Client, error) {
//	        return souqmap.New(append(opts, souqmap.WithDir(dir))...)
//	    },
//	}
//	cmd := reconcile.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/souqmap"
)

// Application provides what commands need from the application layer.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the souqmap client with optional configuration.
	// Without options the default cached client is returned; with options
	// a new client is built on top of the configured ones.
	Client(opts ...souqmap.Option) (souqmap.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Dir returns the working directory holding raw exports and results.
	Dir() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
