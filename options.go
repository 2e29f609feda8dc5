package souqmap

import (
	"net/http"
	"time"

	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/rules"
	"github.com/agentstation/souqmap/pkg/sources"
)

// config holds the settings of a Client.
type config struct {
	dir            string
	rules          *rules.Rules
	rulesFile      string
	online         bool
	endpoint       string
	httpClient     *http.Client
	simulate       bool
	legacyPatterns []string
	sourceTimeout  time.Duration
	zeroFilter     bool
	keepRaw        bool
	sources        []sources.Source
}

func defaultConfig() *config {
	return &config{
		dir:            ".",
		endpoint:       constants.OverpassURL,
		simulate:       true,
		legacyPatterns: constants.LegacyFiles,
		sourceTimeout:  constants.SourceFetchTimeout,
		zeroFilter:     true,
	}
}

// Option is a function that configures a Client
type Option func(*config) error

// WithDir sets the working directory holding the raw exports and receiving
// the final table.
func WithDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return &errors.ValidationError{Field: "dir", Message: "cannot be empty"}
		}
		c.dir = dir
		return nil
	}
}

// WithRules sets the rule set.
func WithRules(r *rules.Rules) Option {
	return func(c *config) error {
		if r == nil {
			return &errors.ValidationError{Field: "rules", Message: "cannot be nil"}
		}
		c.rules = r
		return nil
	}
}

// WithRulesFile loads the rule set from a YAML file instead of the embedded
// defaults.
func WithRulesFile(path string) Option {
	return func(c *config) error {
		c.rulesFile = path
		return nil
	}
}

// WithOnline configures whether the map API source queries Overpass instead
// of reading the latest local export.
func WithOnline(enabled bool) Option {
	return func(c *config) error {
		c.online = enabled
		return nil
	}
}

// WithEndpoint sets the Overpass interpreter URL used in online mode.
func WithEndpoint(endpoint string) Option {
	return func(c *config) error {
		if endpoint == "" {
			return &errors.ValidationError{Field: "endpoint", Message: "cannot be empty"}
		}
		c.endpoint = endpoint
		return nil
	}
}

// WithHTTPClient sets the HTTP client used in online mode.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithSimulation configures whether the directory feed is generated when no
// export exists.
func WithSimulation(enabled bool) Option {
	return func(c *config) error {
		c.simulate = enabled
		return nil
	}
}

// WithLegacyFiles sets the file names or glob patterns of the legacy tables,
// relative to the working directory.
func WithLegacyFiles(patterns ...string) Option {
	return func(c *config) error {
		c.legacyPatterns = patterns
		return nil
	}
}

// WithSourceTimeout bounds each source fetch.
func WithSourceTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout < 0 {
			return &errors.ValidationError{Field: "sourceTimeout", Value: timeout, Message: "cannot be negative"}
		}
		c.sourceTimeout = timeout
		return nil
	}
}

// WithZeroFilter configures whether zero coordinates count as missing.
func WithZeroFilter(enabled bool) Option {
	return func(c *config) error {
		c.zeroFilter = enabled
		return nil
	}
}

// WithKeepRaw asks sources that download or generate data to write their raw
// table into the working directory.
func WithKeepRaw(enabled bool) Option {
	return func(c *config) error {
		c.keepRaw = enabled
		return nil
	}
}

// WithSources replaces the default source with the same ID. Sources with
// other IDs are added to the run.
func WithSources(srcs ...sources.Source) Option {
	return func(c *config) error {
		for _, src := range srcs {
			if src == nil {
				return &errors.ValidationError{Field: "sources", Message: "cannot contain nil"}
			}
		}
		c.sources = srcs
		return nil
	}
}
