package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cybertec-postgresql/loosesql/internal/parser"
)

// Formatter is an interface for statement report formatters
type Formatter interface {
	// Format formats the parsed files and writes to the writer
	Format(files []*parser.ParsedSQL, writer io.Writer) error

	// FormatString returns the parsed files as a string
	FormatString(files []*parser.ParsedSQL) (string, error)

	// Name returns the name of this formatter
	Name() string
}

// FormatType represents supported report formats
type FormatType string

const (
	FormatText FormatType = "text"
	FormatJSON FormatType = "json"
	FormatSQL  FormatType = "sql"
)

// GetFormatter returns a formatter for the specified format type. delimiter is
// used by formats that re-emit statements.
func GetFormatter(format FormatType, delimiter string) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextReporter(), nil
	case FormatJSON:
		return NewJSONReporter(false), nil
	case FormatSQL:
		return NewSQLReporter(delimiter), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: text, json, sql)", format)
	}
}

// ValidFormat checks if a format string is valid
func ValidFormat(format string) bool {
	switch FormatType(format) {
	case FormatText, FormatJSON, FormatSQL:
		return true
	default:
		return false
	}
}

// SupportedFormats returns a list of supported format names
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatSQL)}
}

// formatString renders a formatter into a string through a buffer
func formatString(f Formatter, files []*parser.ParsedSQL) (string, error) {
	var buf strings.Builder
	if err := f.Format(files, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
