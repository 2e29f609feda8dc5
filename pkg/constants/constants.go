// Package constants provides shared constants used throughout the souqmap codebase.
// This includes timeouts, file permissions, default file names and remote
// endpoints.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to mapping services
	DefaultHTTPTimeout = 60 * time.Second

	// OverpassQueryTimeout is the server-side timeout embedded in Overpass queries
	OverpassQueryTimeout = 120 * time.Second

	// SourceFetchTimeout is the timeout for loading a single source
	SourceFetchTimeout = 2 * time.Minute

	// PolitenessDelay is the fixed pause between consecutive calls to a remote service
	PolitenessDelay = 500 * time.Millisecond

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Default file names and patterns
const (
	// MapAPIPattern matches raw exports of the collaborative mapping API
	MapAPIPattern = "points_vente_casablanca_osm*.csv"

	// MapAPIFile is where a downloaded mapping API export is written
	MapAPIFile = "points_vente_casablanca_osm.csv"

	// FeedPattern matches raw exports of the simulated directory feed
	FeedPattern = "points_vente_casablanca_atp*.csv"

	// FeedFile is where the simulated feed is written when generated
	FeedFile = "points_vente_casablanca_atp.csv"

	// MergedFile is the default output of a reconciliation run
	MergedFile = "points_vente_casablanca_merged.csv"

	// ConfigName is the base name of the CLI configuration file
	ConfigName = ".souqmap"
)

// LegacyFiles are the pre-existing tables picked up as legacy sources.
var LegacyFiles = []string{
	"points_vente_casablanca.csv",
	"points_de_vente_casablanca.csv",
}

// UnnamedSuffix is appended to the category to build a placeholder name
const UnnamedSuffix = "sans nom"

// Remote service constants
const (
	// OverpassURL is the Overpass interpreter endpoint used by the mapping API source
	OverpassURL = "https://overpass.kumi.systems/api/interpreter"

	// UserAgent identifies souqmap to remote services
	UserAgent = "souqmap/1.0 (points_vente_casablanca)"
)
