package report

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cybertec-postgresql/loosesql/internal/parser"
	"github.com/cybertec-postgresql/loosesql/pkg/loosesql"
)

// SQLReporter re-emits statements one per block, each closed by the delimiter.
// Empty statements are dropped and whitespace around statements is normalized.
type SQLReporter struct {
	delimiter string
}

// NewSQLReporter creates a new SQL reporter closing statements with delimiter
func NewSQLReporter(delimiter string) *SQLReporter {
	if delimiter == "" {
		delimiter = loosesql.DefaultDelimiter
	}
	return &SQLReporter{delimiter: delimiter}
}

// Format writes the statements to the writer
func (r *SQLReporter) Format(files []*parser.ParsedSQL, writer io.Writer) error {
	var b strings.Builder
	for _, parsed := range files {
		if len(files) > 1 {
			fmt.Fprintf(&b, "-- %s\n\n", parsed.File.RelativePath)
		}
		for _, stmt := range parsed.Statements {
			b.WriteString(stmt.Content())
			b.WriteString(r.closing(stmt))
			b.WriteString("\n\n")
		}
	}
	if _, err := io.WriteString(writer, b.String()); err != nil {
		return fmt.Errorf("failed to write SQL output: %w", err)
	}
	return nil
}

// closing returns the text appended after a statement's content. A delimiter
// that starts like a word (GO) or with a line break goes on its own line, as
// does any delimiter following a line comment.
func (r *SQLReporter) closing(stmt *parser.Statement) string {
	d := r.delimiter
	if strings.HasPrefix(d, "\n") {
		return d
	}
	first, _ := utf8.DecodeRuneInString(d)
	if unicode.IsLetter(first) || endsWithLineComment(stmt) {
		return "\n" + d
	}
	return d
}

// FormatString returns the statements as a string
func (r *SQLReporter) FormatString(files []*parser.ParsedSQL) (string, error) {
	return formatString(r, files)
}

// Name returns the name of this reporter
func (r *SQLReporter) Name() string {
	return "sql"
}

// endsWithLineComment reports whether the last token before the delimiter is a
// -- or # comment, which would swallow a delimiter written on the same line
func endsWithLineComment(stmt *parser.Statement) bool {
	tokens := stmt.Tokens()
	if stmt.HasDelimiter() {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return false
	}
	last := tokens[len(tokens)-1]
	return last.IsComment() && !strings.HasPrefix(last.Text, "/*")
}
