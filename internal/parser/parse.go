package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/cybertec-postgresql/loosesql/internal/discovery"
	"github.com/cybertec-postgresql/loosesql/pkg/loosesql"
)

// Parse reads a SQL file and splits it into classified statements
func Parse(file *discovery.DiscoveredFile, opts loosesql.Options) (*ParsedSQL, error) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return parse(file, string(content), opts)
}

// ParseFile is a convenience function that parses a file path directly
func ParseFile(filePath string, opts loosesql.Options) (*ParsedSQL, error) {
	file := &discovery.DiscoveredFile{
		Path:         filePath,
		RelativePath: filePath,
		Type:         discovery.ClassifyPath(filePath),
	}
	return Parse(file, opts)
}

// ParseText splits SQL text that does not come from a file, such as stdin.
// name is used in reports and error messages.
func ParseText(name, sql string, opts loosesql.Options) (*ParsedSQL, error) {
	file := &discovery.DiscoveredFile{
		Path:         name,
		RelativePath: name,
		Type:         discovery.FileTypeScript,
	}
	return parse(file, sql, opts)
}

func parse(file *discovery.DiscoveredFile, sql string, opts loosesql.Options) (*ParsedSQL, error) {
	scanner, err := loosesql.NewScanner(sql, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid scan options: %w", err)
	}

	parsed := &ParsedSQL{
		File:   file,
		Source: sql,
	}
	for s := range scanner.All() {
		if s.IsEmpty() {
			parsed.Empty++
			continue
		}
		parsed.Statements = append(parsed.Statements, classify(s, len(parsed.Statements)))
	}

	return parsed, nil
}

// classify wraps a scanned statement and inspects its leading keywords.
func classify(s loosesql.Statement, index int) *Statement {
	var significant []loosesql.Token
	for _, t := range s.Tokens() {
		if !t.IsComment() && !t.IsStatementDelimiter() {
			significant = append(significant, t)
		}
	}

	codeStart := s.Start()
	if len(significant) > 0 {
		codeStart = significant[0].Start
	}

	stmt := &Statement{
		Statement: s,
		Index:     index,
		CodeStart: codeStart,
		StartLine: codeStart.Line,
		EndLine:   s.End().Line,
		Type:      classifyTokens(significant),
		BodyStart: -1,
	}
	if stmt.Type == StmtOther && s.IsQuery() {
		stmt.Type = StmtQuery
	}

	// For functions/procedures and DO blocks, extract body and language.
	switch stmt.Type {
	case StmtFunction, StmtProcedure:
		stmt.Language = extractLanguage(significant)
		stmt.Body, stmt.BodyStart = extractBody(significant, "AS", s.Start().Offset)
	case StmtDO:
		stmt.Language = extractLanguage(significant)
		if stmt.Language == "" {
			stmt.Language = "plpgsql" // DO blocks default to plpgsql
		}
		stmt.Body, stmt.BodyStart = extractBody(significant, "DO", s.Start().Offset)
	}

	return stmt
}

// classifyTokens determines the statement type from its leading tokens.
// It scans for CREATE [OR REPLACE] FUNCTION/PROCEDURE/TRIGGER/VIEW patterns
// and DO blocks.
func classifyTokens(tokens []loosesql.Token) StatementType {
	if len(tokens) == 0 {
		return StmtUnknown
	}

	if isIdent(tokens[0], "DO") {
		return StmtDO
	}

	if !isIdent(tokens[0], "CREATE") {
		return StmtOther
	}

	// Skip past CREATE [OR REPLACE]
	i := 1
	if i < len(tokens) && isIdent(tokens[i], "OR") {
		i++
		if i < len(tokens) && isIdent(tokens[i], "REPLACE") {
			i++
		}
	}

	if i >= len(tokens) {
		return StmtOther
	}

	switch {
	case isIdent(tokens[i], "FUNCTION"):
		return StmtFunction
	case isIdent(tokens[i], "PROCEDURE"):
		return StmtProcedure
	case isIdent(tokens[i], "TRIGGER"):
		return StmtTrigger
	case isIdent(tokens[i], "VIEW"):
		return StmtView
	default:
		return StmtOther
	}
}

// isIdent checks whether a token is a plain word matching the given one
// (case-insensitive).
func isIdent(tok loosesql.Token, word string) bool {
	return tok.IsPlainText() && strings.EqualFold(tok.Text, word)
}

// isBody reports whether a token can hold a routine body.
func isBody(tok loosesql.Token) bool {
	return tok.IsDelimited() || (tok.IsQuoted() && strings.HasPrefix(tok.Text, "'"))
}

// extractLanguage finds the LANGUAGE clause. The name may be quoted.
func extractLanguage(tokens []loosesql.Token) string {
	for i := 0; i < len(tokens)-1; i++ {
		if isIdent(tokens[i], "LANGUAGE") {
			return strings.ToLower(unquoteString(tokens[i+1].Text))
		}
	}
	return ""
}

// extractBody finds the first string literal following keyword and returns its
// content together with its offset within the statement text. A quoted
// LANGUAGE name is not a body.
func extractBody(tokens []loosesql.Token, keyword string, stmtStart int) (string, int) {
	for i := range tokens {
		if !isIdent(tokens[i], keyword) {
			continue
		}
		for j := i + 1; j < len(tokens); j++ {
			next := tokens[j]
			if isIdent(next, "LANGUAGE") {
				j++
				continue
			}
			if isBody(next) {
				offset := next.Start.Offset - stmtStart + bodyDelimiterLen(next.Text)
				return unquoteString(next.Text), offset
			}
		}
	}
	return "", -1
}

// unquoteString strips the outer quoting from a literal.
// Handles: $$...$$, $tag$...$tag$, '...' with doubled quotes, "..."
func unquoteString(text string) string {
	if strings.HasPrefix(text, "$") {
		n := bodyDelimiterLen(text)
		tag, inner := text[:n], text[n:]
		// An unterminated literal has no closing tag.
		return strings.TrimSuffix(inner, tag)
	}

	if len(text) >= 2 && (text[0] == '\'' || text[0] == '"') && text[len(text)-1] == text[0] {
		q := text[:1]
		return strings.ReplaceAll(text[1:len(text)-1], q+q, q)
	}

	return text
}

// bodyDelimiterLen returns the length of the opening delimiter of a literal.
func bodyDelimiterLen(text string) int {
	if strings.HasPrefix(text, "$") {
		if end := strings.Index(text[1:], "$"); end >= 0 {
			return end + 2
		}
		return 0
	}
	if strings.HasPrefix(text, "'") || strings.HasPrefix(text, `"`) {
		return 1
	}
	return 0
}
