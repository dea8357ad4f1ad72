package loosesql

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Statement is one top-level statement found by the Scanner. It borrows the
// source text and is never empty of tokens.
type Statement struct {
	src    string
	tokens Tokens
}

// SQL returns the exact source text of the statement, including its trailing
// delimiter when present.
func (s Statement) SQL() string {
	return s.src[s.Start().Offset:s.End().Offset]
}

// Content returns the statement text without the trailing delimiter and the
// whitespace preceding it.
func (s Statement) Content() string {
	end := s.End().Offset
	if last := s.tokens[len(s.tokens)-1]; last.Kind == StatementDelimiter {
		end = last.Start.Offset
	}
	return strings.TrimRightFunc(s.src[s.Start().Offset:end], unicode.IsSpace)
}

// Start returns the position of the first token.
func (s Statement) Start() Position {
	return s.tokens[0].Start
}

// End returns the end position of the last token.
func (s Statement) End() Position {
	return s.tokens[len(s.tokens)-1].End
}

// Tokens returns the top-level tokens of the statement.
func (s Statement) Tokens() Tokens {
	return s.tokens
}

// HasDelimiter returns true if the statement was terminated by the delimiter
// rather than by the end of the input.
func (s Statement) HasDelimiter() bool {
	return s.tokens[len(s.tokens)-1].Kind == StatementDelimiter
}

// Keywords returns the top-level plain text tokens made only of ASCII letters.
// Words inside parentheses (sub queries, CTE bodies) are not included.
func (s Statement) Keywords() []string {
	var keywords []string
	for _, t := range s.tokens {
		if t.Kind == PlainText && isASCIIWord(t.Text) {
			keywords = append(keywords, t.Text)
		}
	}
	return keywords
}

// IsEmpty returns true if the statement holds nothing but comments and the
// statement delimiter.
func (s Statement) IsEmpty() bool {
	for _, t := range s.tokens {
		if t.Kind != Comment && t.Kind != StatementDelimiter {
			return false
		}
	}
	return true
}

// IsQuery returns true if the statement is expected to return rows:
//   - SHOW, DESCRIBE, EXPLAIN, VALUES, LIST, PRAGMA ...
//   - WITH ... SELECT ...
//   - INSERT|UPDATE|DELETE ... RETURNING ...
//   - SELECT ... (excluding SELECT ... INTO)
func (s Statement) IsQuery() bool {
	keywords := s.Keywords()
	if len(keywords) == 0 {
		return false
	}
	has := func(word string) bool {
		for _, k := range keywords {
			if strings.EqualFold(k, word) {
				return true
			}
		}
		return false
	}

	switch strings.ToUpper(keywords[0]) {
	case "SHOW", "DESCRIBE", "EXPLAIN", "VALUES", "LIST", "PRAGMA":
		return true
	case "WITH":
		return has("SELECT")
	case "INSERT", "UPDATE", "DELETE":
		return has("RETURNING")
	case "SELECT":
		return !has("INTO")
	default:
		return false
	}
}

// MarshalJSON encodes the statement as {sql, start, end, tokens}.
func (s Statement) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SQL    string   `json:"sql"`
		Start  Position `json:"start"`
		End    Position `json:"end"`
		Tokens Tokens   `json:"tokens"`
	}{
		SQL:    s.SQL(),
		Start:  s.Start(),
		End:    s.End(),
		Tokens: s.tokens,
	})
}

func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
