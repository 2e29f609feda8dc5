// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols used in command output.
const (
	// Success marks a completed step or a written file.
	Success = "✓"

	// Error marks a failed step.
	Error = "✗"

	// Warning marks a skipped source or a recovered failure.
	Warning = "!"

	// Skipped marks a source that contributed no records.
	Skipped = "-"

	// Info marks informational lines.
	Info = "i"
)
