package loosesql

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the lexical category of a token.
type Kind int

const (
	// PlainText covers identifiers, keywords, numbers, operators and punctuation.
	PlainText Kind = iota
	// Comment is a line (--, #) or block (/* */, nestable) comment, delimiters included.
	Comment
	// QuotedLiteral is a '…', "…" or `…` literal including its quotes.
	QuotedLiteral
	// DelimitedLiteral is a dollar-quoted literal ($tag$…$tag$) including both tags.
	DelimitedLiteral
	// StatementDelimiter is an occurrence of the configured statement delimiter.
	StatementDelimiter
	// Fragment is a parenthesized group; its interior tokens are in Children.
	Fragment
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case PlainText:
		return "PlainText"
	case Comment:
		return "Comment"
	case QuotedLiteral:
		return "QuotedLiteral"
	case DelimitedLiteral:
		return "DelimitedLiteral"
	case StatementDelimiter:
		return "StatementDelimiter"
	case Fragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Labels derived from plain text tokens.
const (
	LabelIdentifierOrKeyword = "IdentifierOrKeyword"
	LabelNumericConstant     = "NumericConstant"
	LabelOperator            = "Operator"
	LabelAny                 = "Any"
)

const operatorChars = "+-*/%^<>=~!@&|?:"

// Token is a classified span of the source text.
type Token struct {
	Kind Kind
	// Text is the exact source text of the token. For a Fragment it is the
	// text between the parentheses, which are tokens of their own. An empty
	// Fragment has Start == End.
	Text  string
	Start Position
	End   Position
	// Children holds the interior tokens of a Fragment.
	Children Tokens
	// Unterminated is set when end of input was reached before the closing
	// quote, comment marker, dollar tag or parenthesis.
	Unterminated bool
}

func (t Token) IsPlainText() bool          { return t.Kind == PlainText }
func (t Token) IsComment() bool            { return t.Kind == Comment }
func (t Token) IsQuoted() bool             { return t.Kind == QuotedLiteral }
func (t Token) IsDelimited() bool          { return t.Kind == DelimitedLiteral }
func (t Token) IsStatementDelimiter() bool { return t.Kind == StatementDelimiter }
func (t Token) IsFragment() bool           { return t.Kind == Fragment }

// String returns the token text.
func (t Token) String() string {
	return t.Text
}

// Label returns the display label of the token. Plain text is refined into
// IdentifierOrKeyword, NumericConstant, Operator or Any; every other kind is
// labelled with its kind name.
func (t Token) Label() string {
	if t.Kind != PlainText {
		return t.Kind.String()
	}
	first, size := utf8.DecodeRuneInString(t.Text)
	switch {
	case first == '_' || unicode.IsLetter(first):
		return LabelIdentifierOrKeyword
	case unicode.IsDigit(first):
		return LabelNumericConstant
	case size == len(t.Text) && strings.ContainsRune(operatorChars, first):
		return LabelOperator
	default:
		return LabelAny
	}
}

// MarshalJSON encodes the token as {type, value, start, end}. The value of a
// Fragment is the array of its children.
func (t Token) MarshalJSON() ([]byte, error) {
	var value any = t.Text
	if t.Kind == Fragment {
		children := t.Children
		if children == nil {
			children = Tokens{}
		}
		value = children
	}
	return json.Marshal(struct {
		Type  string   `json:"type"`
		Value any      `json:"value"`
		Start Position `json:"start"`
		End   Position `json:"end"`
	}{
		Type:  t.Label(),
		Value: value,
		Start: t.Start,
		End:   t.End,
	})
}

// Tokens is an ordered sequence of tokens in source order.
type Tokens []Token

// Strings returns the text of every token.
func (ts Tokens) Strings() []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Text
	}
	return out
}

// Walk visits every token depth-first, descending into fragments after visiting
// the fragment itself. Walking stops when fn returns false.
func (ts Tokens) Walk(fn func(depth int, t Token) bool) {
	ts.walk(0, fn)
}

func (ts Tokens) walk(depth int, fn func(int, Token) bool) bool {
	for _, t := range ts {
		if !fn(depth, t) {
			return false
		}
		if t.Kind == Fragment && !t.Children.walk(depth+1, fn) {
			return false
		}
	}
	return true
}
