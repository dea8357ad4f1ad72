package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cybertec-postgresql/loosesql/internal/parser"
	"github.com/cybertec-postgresql/loosesql/pkg/loosesql"
)

// JSONReporter formats parsed files as JSON
type JSONReporter struct {
	withTokens bool
}

// NewJSONReporter creates a new JSON reporter. withTokens adds the token tree of
// every statement.
func NewJSONReporter(withTokens bool) *JSONReporter {
	return &JSONReporter{withTokens: withTokens}
}

// Document is the top-level JSON report
type Document struct {
	Files []FileReport `json:"files"`
}

// FileReport lists the statements of one file
type FileReport struct {
	File       string            `json:"file"`
	Statements []StatementReport `json:"statements"`
	Empty      int               `json:"empty"`
}

// StatementReport describes a single statement
type StatementReport struct {
	Index    int               `json:"index"`
	Type     string            `json:"type"`
	Start    loosesql.Position `json:"start"`
	End      loosesql.Position `json:"end"`
	SQL      string            `json:"sql"`
	Language string            `json:"language,omitempty"`
	Body     *BodyReport       `json:"body,omitempty"`
	Tokens   loosesql.Tokens   `json:"tokens,omitempty"`
}

// BodyReport is the routine or DO block body of a statement
type BodyReport struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"` // byte offset of Text within the statement SQL
}

// Build converts parsed files into the JSON document
func (r *JSONReporter) Build(files []*parser.ParsedSQL) Document {
	doc := Document{Files: make([]FileReport, 0, len(files))}
	for _, parsed := range files {
		fr := FileReport{
			File:       parsed.File.RelativePath,
			Statements: make([]StatementReport, 0, len(parsed.Statements)),
			Empty:      parsed.Empty,
		}
		for _, stmt := range parsed.Statements {
			sr := StatementReport{
				Index:    stmt.Index,
				Type:     stmt.Type.String(),
				Start:    stmt.Start(),
				End:      stmt.End(),
				SQL:      stmt.SQL(),
				Language: stmt.Language,
			}
			if stmt.BodyStart >= 0 {
				sr.Body = &BodyReport{Text: stmt.Body, Offset: stmt.BodyStart}
			}
			if r.withTokens {
				sr.Tokens = stmt.Tokens()
			}
			fr.Statements = append(fr.Statements, sr)
		}
		doc.Files = append(doc.Files, fr)
	}
	return doc
}

// Format formats parsed files as JSON and writes to the writer
func (r *JSONReporter) Format(files []*parser.ParsedSQL, writer io.Writer) error {
	data, err := json.MarshalIndent(r.Build(files), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal statements to JSON: %w", err)
	}

	if _, err = writer.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	_, err = writer.Write([]byte("\n"))
	return err
}

// FormatString returns parsed files as a JSON string
func (r *JSONReporter) FormatString(files []*parser.ParsedSQL) (string, error) {
	return formatString(r, files)
}

// Name returns the name of this reporter
func (r *JSONReporter) Name() string {
	return "json"
}
