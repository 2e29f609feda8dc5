// Package save persists the final canonical table.
package save

import (
	"io"
	"strings"
	"time"
)

// Format is an output encoding for the final table.
type Format int

// Format constants.
const (
	FormatCSV Format = iota
	FormatJSON
	FormatYAML
)

// IsValid checks if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// Ext returns the file extension for the format, with its dot.
func (f Format) Ext() string {
	if !f.IsValid() {
		return ""
	}
	return "." + f.String()
}

// ParseFormat parses a format name or file extension.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, true
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	}
	return FormatCSV, false
}

// Options is the configuration for save.
type Options struct {
	path   string
	writer io.Writer
	format Format
	now    func() time.Time
}

// Path returns the path for the save options.
func (s *Options) Path() string {
	return s.path
}

// Writer returns the writer for the save options.
func (s *Options) Writer() io.Writer {
	return s.writer
}

// Format returns the format for the save options.
func (s *Options) Format() Format {
	return s.format
}

// Defaults returns the default save options.
func Defaults() *Options {
	return &Options{
		path:   "",
		writer: nil,
		format: FormatCSV,
		now:    time.Now,
	}
}

// Apply applies the given options to the save options.
func (s *Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

// Option is a function that configures save options.
type Option func(*Options)

// WithFormat for custom output format.
func WithFormat(f Format) Option {
	return func(s *Options) {
		s.format = f
	}
}

// WithPath for filesystem saves.
func WithPath(path string) Option {
	return func(s *Options) {
		s.path = path
	}
}

// WithWriter for custom outputs.
func WithWriter(w io.Writer) Option {
	return func(s *Options) {
		s.writer = w
	}
}

// WithClock sets the time source used to name fallback files.
func WithClock(now func() time.Time) Option {
	return func(s *Options) {
		if now != nil {
			s.now = now
		}
	}
}
