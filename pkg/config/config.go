package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// BatchMode defines how batch requests are processed
type BatchMode string

const (
	BatchModeParallel   BatchMode = "parallel"
	BatchModeSequential BatchMode = "sequential"
)

// ConfigSource indicates where a configuration value came from
type ConfigSource string

const (
	ConfigSourceEnvVar  ConfigSource = "environment_variable"
	ConfigSourceDefault ConfigSource = "default"
	ConfigSourceCLI     ConfigSource = "cli"
)

// Environment variable names
const (
	EnvCacheSize         = "PRISM_CACHE_SIZE"
	EnvLocale            = "PRISM_LOCALE"
	EnvDefaultDateFormat = "PRISM_DEFAULT_DATE_FORMAT"
	EnvTimezone          = "PRISM_TIMEZONE"
	EnvBatchMode         = "PRISM_BATCH_MODE"
	EnvMaxConcurrent     = "PRISM_MAX_CONCURRENT"
)

const (
	// DefaultCacheSize bounds the memo cache. Zero means unbounded.
	DefaultCacheSize = 1024

	// DefaultDateFormat is used for date group labels when nothing else is configured
	DefaultDateFormat = "MM/dd/yyyy"
)

// Config holds the process-wide settings of the dataset pipeline
type Config struct {
	// CacheSize is the maximum number of memoized results; 0 keeps every result
	CacheSize int

	// Locale drives collation and case mapping
	Locale language.Tag

	// DefaultDateFormat is the app-wide date format for date group labels
	DefaultDateFormat string

	// Location is used to interpret dates without zone information and to compute "today"
	Location *time.Location

	BatchMode     BatchMode
	MaxConcurrent int

	// CacheSizeSource records where CacheSize came from
	CacheSizeSource ConfigSource
}

// Default returns the configuration used when nothing is set in the environment
func Default() Config {
	return Config{
		CacheSize:         DefaultCacheSize,
		Locale:            language.English,
		DefaultDateFormat: DefaultDateFormat,
		Location:          time.Local,
		BatchMode:         BatchModeSequential,
		MaxConcurrent:     runtime.GOMAXPROCS(0),
		CacheSizeSource:   ConfigSourceDefault,
	}
}

// LoadConfig loads configuration with priority: env vars > defaults.
// Invalid values are ignored in favour of the default.
func LoadConfig() Config {
	cfg := Default()

	if raw := getEnv(EnvCacheSize, ""); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size >= 0 {
			cfg.CacheSize = size
			cfg.CacheSizeSource = ConfigSourceEnvVar
		}
	}

	if raw := getEnv(EnvLocale, ""); raw != "" {
		if tag, err := language.Parse(raw); err == nil {
			cfg.Locale = tag
		}
	}

	cfg.DefaultDateFormat = getEnv(EnvDefaultDateFormat, cfg.DefaultDateFormat)

	if tz := getEnv(EnvTimezone, ""); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			cfg.Location = loc
		}
	}

	if mode := BatchMode(strings.ToLower(getEnv(EnvBatchMode, ""))); mode.Valid() {
		cfg.BatchMode = mode
	}

	if n := getEnvInt(EnvMaxConcurrent, 0); n > 0 {
		cfg.MaxConcurrent = n
	}

	return cfg
}

// Valid reports whether the batch mode is known
func (m BatchMode) Valid() bool {
	return m == BatchModeParallel || m == BatchModeSequential
}

// ParseLocale parses a BCP-47 tag, falling back to English
func ParseLocale(raw string) language.Tag {
	tag, err := language.Parse(raw)
	if err != nil {
		return language.English
	}
	return tag
}

// getEnvInt retrieves an integer from environment variable with default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnv retrieves a string from environment variable with default fallback
func getEnv(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// String returns a formatted string representation of the config
func (c Config) String() string {
	loc := "Local"
	if c.Location != nil {
		loc = c.Location.String()
	}
	return fmt.Sprintf(
		"Config{CacheSize: %d (%s), Locale: %s, DefaultDateFormat: %q, Location: %s, BatchMode: %s, MaxConcurrent: %d}",
		c.CacheSize,
		c.CacheSizeSource,
		c.Locale,
		c.DefaultDateFormat,
		loc,
		c.BatchMode,
		c.MaxConcurrent,
	)
}
