package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cybertec-postgresql/loosesql/pkg/loosesql"
	"github.com/cybertec-postgresql/loosesql/pkg/types"
)

// Config is an alias for the shared Config type
type Config = types.Config

// ConfigError is an alias for the shared ConfigError type
type ConfigError = types.ConfigError

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Delimiter:   loosesql.DefaultDelimiter,
	Timeout:     30 * time.Second,
	Parallelism: 1,
	Format:      "text",
	Verbose:     false,
}

// Flags carries command-line flag values. Zero values mean "not given".
type Flags struct {
	Delimiter       string
	Connection      string
	Driver          string
	Timeout         time.Duration
	Parallel        int
	ContinueOnError bool
	Journal         string
	Format          string
	Verbose         bool
}

// LoadConfigFile reads a YAML config file on top of base. Keys missing from the
// file keep the value from base; unknown keys are an error.
func LoadConfigFile(path string, base Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigError{
			Field:      "config",
			Value:      path,
			Message:    err.Error(),
			Suggestion: "Check the YAML syntax and key names (delimiter, connection, driver, timeout, parallel, continue_on_error, journal, format, verbose).",
		}
	}

	return &config, nil
}

// delimiterEscapes turns the escapes a shell user can type into the characters
// they stand for. A YAML file can spell them directly in a double-quoted string.
var delimiterEscapes = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\r`, "\r", `\t`, "\t")

// UnescapeDelimiter resolves \n, \r, \t and \\ in a delimiter given on the
// command line, so that --delimiter '\n/' matches a slash on its own line.
func UnescapeDelimiter(delimiter string) string {
	return delimiterEscapes.Replace(delimiter)
}

// ApplyFlagsToConfig applies command-line flag values to configuration
func ApplyFlagsToConfig(c *Config, f Flags) {
	if f.Delimiter != "" {
		c.Delimiter = UnescapeDelimiter(f.Delimiter)
	}
	if f.Connection != "" {
		c.ConnectionString = f.Connection
	}
	if f.Driver != "" {
		c.Driver = f.Driver
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Parallel != 0 {
		c.Parallelism = f.Parallel
	}
	if f.ContinueOnError {
		c.ContinueOnError = true
	}
	if f.Journal != "" {
		c.JournalFile = f.Journal
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.Verbose {
		c.Verbose = true
	}
}
