package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/souqmap/pkg/constants"
	"github.com/agentstation/souqmap/pkg/errors"
)

// Config holds the application configuration loaded from the config file,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Reconciliation configuration
	Dir           string
	RulesFile     string
	Online        bool
	OverpassURL   string
	Simulate      bool
	KeepRaw       bool
	ZeroFilter    bool
	SourceTimeout time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// setting maps a config key to its field. Settings bound to a root flag are
// skipped when that flag was given on the command line.
type setting struct {
	key  string
	flag string
	set  func(c *Config, v *viper.Viper)
}

var settings = []setting{
	{"format", "format", func(c *Config, v *viper.Viper) { c.Format = v.GetString("format") }},
	{"dir", "dir", func(c *Config, v *viper.Viper) { c.Dir = v.GetString("dir") }},
	{"rules", "rules", func(c *Config, v *viper.Viper) { c.RulesFile = v.GetString("rules") }},
	{"online", "", func(c *Config, v *viper.Viper) { c.Online = v.GetBool("online") }},
	{"overpass_url", "", func(c *Config, v *viper.Viper) { c.OverpassURL = v.GetString("overpass_url") }},
	{"simulate", "", func(c *Config, v *viper.Viper) { c.Simulate = v.GetBool("simulate") }},
	{"keep_raw", "", func(c *Config, v *viper.Viper) { c.KeepRaw = v.GetBool("keep_raw") }},
	{"zero_filter", "", func(c *Config, v *viper.Viper) { c.ZeroFilter = v.GetBool("zero_filter") }},
	{"source_timeout", "", func(c *Config, v *viper.Viper) { c.SourceTimeout = v.GetDuration("source_timeout") }},
}

// defaultConfig returns the configuration used when nothing is set.
func defaultConfig() *Config {
	return &Config{
		Dir:           ".",
		OverpassURL:   constants.OverpassURL,
		Simulate:      true,
		ZeroFilter:    true,
		SourceTimeout: constants.SourceFetchTimeout,
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:     getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. SOUQMAP_* environment variables
// 3. .env files
// 4. Config file (~/.souqmap.yaml or ./.souqmap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	v := newViper()
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(constants.ConfigName)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	config := defaultConfig()
	config.ConfigFile = v.ConfigFileUsed()
	config.apply(v, nil)
	return config, nil
}

// MergeFile reads an explicit config file over the current values. Keys bound
// to a flag for which changed returns true keep their flag value.
func (c *Config) MergeFile(path string, changed func(flag string) bool) error {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.NewConfigError("config", "reading "+path, err)
	}
	c.ConfigFile = v.ConfigFileUsed()
	c.apply(v, changed)
	return nil
}

func (c *Config) apply(v *viper.Viper, changed func(flag string) bool) {
	for _, s := range settings {
		if !v.IsSet(s.key) {
			continue
		}
		if s.flag != "" && changed != nil && changed(s.flag) {
			continue
		}
		s.set(c, v)
	}
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SOUQMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
