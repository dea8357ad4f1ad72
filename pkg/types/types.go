package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/cybertec-postgresql/loosesql/pkg/loosesql"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds runtime configuration combining the config file, flags, and defaults
type Config struct {
	// Scanning
	Delimiter string `yaml:"delimiter"` // Statement delimiter, ";" unless overridden

	// Database connection
	ConnectionString string `yaml:"connection"` // URI or key=value (postgres), DSN (mysql)
	Driver           string `yaml:"driver"`     // postgres or mysql; derived from the DSN when empty

	// Execution
	Timeout         time.Duration `yaml:"timeout"`           // Per-statement timeout
	Parallelism     int           `yaml:"parallel"`          // Max concurrent files (1 = sequential)
	ContinueOnError bool          `yaml:"continue_on_error"` // Keep going after a failed statement
	JournalFile     string        `yaml:"journal"`           // Progress journal path, empty disables

	// Output
	Format  string `yaml:"format"`  // text, json or sql
	Verbose bool   `yaml:"verbose"` // Enable debug logging
}

// ConfigError reports an invalid configuration value
type ConfigError struct {
	Field      string
	Value      any
	Message    string
	Suggestion string
}

func (e *ConfigError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("invalid %s: %s\nSuggestion: %s", e.Field, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the configuration values that do not depend on the command
func (c *Config) Validate() error {
	if c.Delimiter == "" {
		return &ConfigError{
			Field:      "delimiter",
			Value:      c.Delimiter,
			Message:    "delimiter must not be empty",
			Suggestion: `Use --delimiter ";" or set "delimiter" in the config file.`,
		}
	}
	if c.Timeout < 0 {
		return &ConfigError{
			Field:      "timeout",
			Value:      c.Timeout,
			Message:    fmt.Sprintf("negative timeout: %v", c.Timeout),
			Suggestion: "Use 0 to disable the timeout or a positive duration such as 30s.",
		}
	}
	if c.Parallelism < 1 || c.Parallelism > 100 {
		return &ConfigError{
			Field:      "parallel",
			Value:      c.Parallelism,
			Message:    fmt.Sprintf("invalid parallelism: %d", c.Parallelism),
			Suggestion: "Parallelism must be between 1 and 100.",
		}
	}
	switch c.Driver {
	case "", DriverPostgres, DriverMySQL:
	default:
		return &ConfigError{
			Field:      "driver",
			Value:      c.Driver,
			Message:    fmt.Sprintf("unknown driver: %s", c.Driver),
			Suggestion: "Supported drivers are postgres and mysql.",
		}
	}
	switch strings.ToLower(c.Format) {
	case "", "text", "json", "sql":
	default:
		return &ConfigError{
			Field:      "format",
			Value:      c.Format,
			Message:    fmt.Sprintf("unknown format: %s", c.Format),
			Suggestion: "Supported formats are text, json and sql.",
		}
	}
	return nil
}

// ValidateConnection checks that a database connection is configured
func (c *Config) ValidateConnection() error {
	if c.ConnectionString == "" {
		return &ConfigError{
			Field:      "connection",
			Message:    "no connection string given",
			Suggestion: "Use --connection or set \"connection\" in the config file.",
		}
	}
	return nil
}

// ScanOptions returns the scanner options for this configuration
func (c *Config) ScanOptions() loosesql.Options {
	return loosesql.Options{Delimiter: c.Delimiter}
}

// DriverName returns the configured driver, inferring it from the connection
// string when none is set. A DSN with a "@tcp(" or "@unix(" address is mysql.
func (c *Config) DriverName() string {
	if c.Driver != "" {
		return c.Driver
	}
	if strings.Contains(c.ConnectionString, "@tcp(") || strings.Contains(c.ConnectionString, "@unix(") {
		return DriverMySQL
	}
	return DriverPostgres
}
