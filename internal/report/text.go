package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/cybertec-postgresql/loosesql/internal/parser"
	"github.com/cybertec-postgresql/loosesql/pkg/loosesql"
)

// maxSummary is the number of runes of a statement shown in the text listing
const maxSummary = 72

var (
	fileFmt   = color.New(color.Bold).SprintFunc()
	typeFmt   = color.New(color.FgCyan).SprintfFunc()
	warnFmt   = color.New(color.FgYellow).SprintFunc()
	totalsFmt = color.New(color.FgHiBlack).SprintfFunc()
)

// TextReporter lists statements one per line as file:line:col [type] summary
type TextReporter struct{}

// NewTextReporter creates a new text reporter
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

// Format writes the statement listing to the writer
func (r *TextReporter) Format(files []*parser.ParsedSQL, writer io.Writer) error {
	for _, parsed := range files {
		name := parsed.File.RelativePath
		for _, stmt := range parsed.Statements {
			start := stmt.CodeStart
			line := fmt.Sprintf("%s:%d:%d: %s %s",
				fileFmt(name), start.Line, start.Column,
				typeFmt("[%s]", stmt.Type), summarize(stmt.Content()))
			if hasUnterminated(stmt.Tokens()) {
				line += " " + warnFmt("(unterminated)")
			}
			if _, err := fmt.Fprintln(writer, line); err != nil {
				return fmt.Errorf("failed to write text output: %w", err)
			}
		}
		if _, err := fmt.Fprintln(writer, totalsFmt("%s: %d statement(s), %d empty",
			name, len(parsed.Statements), parsed.Empty)); err != nil {
			return fmt.Errorf("failed to write text output: %w", err)
		}
	}
	return nil
}

// FormatString returns the statement listing as a string
func (r *TextReporter) FormatString(files []*parser.ParsedSQL) (string, error) {
	return formatString(r, files)
}

// Name returns the name of this reporter
func (r *TextReporter) Name() string {
	return "text"
}

// summarize collapses whitespace and shortens a statement for a one-line listing
func summarize(sql string) string {
	s := strings.Join(strings.Fields(sql), " ")
	if utf8.RuneCountInString(s) <= maxSummary {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxSummary-3]) + "..."
}

// hasUnterminated reports whether any token, nested or not, runs to the end of
// the input without its closing sequence
func hasUnterminated(tokens loosesql.Tokens) bool {
	found := false
	tokens.Walk(func(_ int, t loosesql.Token) bool {
		found = t.Unterminated
		return !found
	})
	return found
}
