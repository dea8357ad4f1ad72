package loosesql

import "errors"

// DefaultDelimiter separates statements when no other delimiter is configured.
const DefaultDelimiter = ";"

// ErrEmptyDelimiter is returned when a scanner is requested with an empty delimiter.
var ErrEmptyDelimiter = errors.New("statement delimiter must not be empty")

// Options holds scanner configuration.
type Options struct {
	// Delimiter separates statements. It may be longer than one character
	// (e.g. "$$" or "GO") and is matched case-sensitively.
	Delimiter string
}

// DefaultOptions returns options using the ";" delimiter.
func DefaultOptions() Options {
	return Options{Delimiter: DefaultDelimiter}
}

// Validate checks that the options can drive a scanner.
func (o Options) Validate() error {
	if o.Delimiter == "" {
		return ErrEmptyDelimiter
	}
	return nil
}
