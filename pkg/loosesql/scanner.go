/*
 * scanner.go
 *
 * Lenient, single-pass statement scanner.
 *
 * The scanner walks the input one rune at a time with a single cursor that never
 * moves backwards. Plain characters accumulate into a pending run which is closed
 * whenever a boundary (whitespace, punctuation, comment, literal, parenthesis or
 * delimiter) is reached. Comments and literals are swallowed whole so that
 * delimiter-like text inside them is never mistaken for a statement boundary.
 * Parentheses recurse into a nested token sequence held by a Fragment token
 * between the two parenthesis tokens.
 *
 * Nothing is ever rejected: an unterminated comment, literal or parenthesis is
 * captured up to the end of the input and flagged as Unterminated.
 *
 * Usage:
 *
 *	s, err := loosesql.NewScanner(src, loosesql.DefaultOptions())
 *	if err != nil { … }
 *	for stmt := range s.All() {
 *	    // use stmt.SQL(), stmt.Tokens(), stmt.Start()
 *	}
 */
package loosesql

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// eofRune is returned by the peek helpers past the end of the input.
const eofRune rune = -1

// stopReason tells the caller of scanFragment why it returned.
type stopReason int

const (
	stopEOF stopReason = iota
	stopDelimiter
	stopCloseParen
)

// Scanner splits a source text into statements. A Scanner is a forward-only
// cursor: it must be driven by a single consumer and cannot be restarted.
type Scanner struct {
	src       string
	delimiter string

	// offset, line and column of the next rune to read
	offset int
	line   int
	column int

	// position of the most recently consumed rune
	last Position

	// start of the pending plain text run, valid while pending is set
	runStart Position
	pending  bool
}

// NewScanner creates a scanner over src. It fails with ErrEmptyDelimiter if the
// options carry no delimiter.
func NewScanner(src string, opts Options) (*Scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{
		src:       src,
		delimiter: opts.Delimiter,
		line:      1,
		column:    1,
	}, nil
}

// Next scans the next statement. It returns false once the input is exhausted.
func (s *Scanner) Next() (Statement, bool) {
	var tokens Tokens
	if s.scanFragment(&tokens, false) == stopDelimiter {
		start := s.here()
		for end := s.offset + len(s.delimiter); s.offset < end; {
			s.advance()
		}
		s.emit(&tokens, StatementDelimiter, start, false)
	}
	if len(tokens) == 0 {
		return Statement{}, false
	}
	return Statement{src: s.src, tokens: tokens}, true
}

// All returns an iterator over the remaining statements.
func (s *Scanner) All() iter.Seq[Statement] {
	return func(yield func(Statement) bool) {
		for {
			stmt, ok := s.Next()
			if !ok || !yield(stmt) {
				return
			}
		}
	}
}

// Pos returns the position of the next rune to be read.
func (s *Scanner) Pos() Position { return s.here() }

// scanFragment scans tokens into dst until the end of the input, the delimiter
// (statement level only) or the closing parenthesis (nested level only).
func (s *Scanner) scanFragment(dst *Tokens, nested bool) stopReason {
	for !s.eof() {
		r := s.peek()
		switch {
		case !nested && strings.HasPrefix(s.src[s.offset:], s.delimiter):
			// Left for the statement loop, which captures it exactly once.
			s.flush(dst)
			return stopDelimiter

		case unicode.IsSpace(r):
			s.flush(dst)
			s.advance()

		case r == '-' && s.peekSecond() == '-', r == '#':
			s.flush(dst)
			s.scanLineComment(dst)

		case r == '/' && s.peekSecond() == '*':
			s.flush(dst)
			s.scanBlockComment(dst)

		case r == '\'' || r == '"' || r == '`':
			s.flush(dst)
			s.scanQuoted(dst, r)

		case r == '$':
			s.flush(dst)
			s.scanDollar(dst)

		case r == '(':
			s.flush(dst)
			s.scanParens(dst)

		case r == ')':
			s.flush(dst)
			if nested {
				// The enclosing level emits the parenthesis after the fragment.
				return stopCloseParen
			}
			s.scanSingle(dst)

		case isWordRune(r):
			if !s.pending {
				s.pending = true
				s.runStart = s.here()
			}
			s.advance()

		default:
			s.flush(dst)
			s.scanSingle(dst)
		}
	}
	s.flush(dst)
	return stopEOF
}

// scanSingle captures the current rune as a one-character plain text token.
func (s *Scanner) scanSingle(dst *Tokens) {
	start := s.here()
	s.advance()
	s.emit(dst, PlainText, start, false)
}

// scanLineComment captures a -- or # comment up to, not including, the line
// feed. The carriage return of a CRLF line ending stays in the comment.
func (s *Scanner) scanLineComment(dst *Tokens) {
	start := s.here()
	for !s.eof() && s.peek() != '\n' {
		s.advance()
	}
	s.emit(dst, Comment, start, false)
}

// scanBlockComment captures a /* … */ comment. Nested comments are supported
// (PostgreSQL allows them).
func (s *Scanner) scanBlockComment(dst *Tokens) {
	start := s.here()
	s.advance()
	s.advance()
	depth := 1
	for !s.eof() {
		r := s.peek()
		switch {
		case r == '/' && s.peekSecond() == '*':
			s.advance()
			s.advance()
			depth++
		case r == '*' && s.peekSecond() == '/':
			s.advance()
			s.advance()
			depth--
			if depth == 0 {
				s.emit(dst, Comment, start, false)
				return
			}
		default:
			s.advance()
		}
	}
	s.emit(dst, Comment, start, true)
}

// scanQuoted captures a string literal or a quoted identifier. A doubled quote
// character is an escaped quote ('O''Reilly', "ID ""X""").
func (s *Scanner) scanQuoted(dst *Tokens, quote rune) {
	start := s.here()
	s.advance()
	for !s.eof() {
		if s.advance() != quote {
			continue
		}
		if s.peek() == quote {
			s.advance()
			continue
		}
		s.emit(dst, QuotedLiteral, start, false)
		return
	}
	s.emit(dst, QuotedLiteral, start, true)
}

// scanDollar handles a '$'. If it opens a dollar-quoted literal ($$…$$ or
// $tag$…$tag$) the whole literal is captured. Otherwise the consumed text
// ("$1", "$abc") becomes the start of a pending plain text run.
func (s *Scanner) scanDollar(dst *Tokens) {
	start := s.here()
	s.advance()
	for isWordRune(s.peek()) {
		s.advance()
	}
	if s.peek() != '$' {
		s.pending = true
		s.runStart = start
		return
	}
	s.advance()

	// The tag is case-sensitive and has no escaping.
	tag := s.src[start.Offset:s.offset]
	for !s.eof() {
		if strings.HasPrefix(s.src[s.offset:], tag) {
			for end := s.offset + len(tag); s.offset < end; {
				s.advance()
			}
			s.emit(dst, DelimitedLiteral, start, false)
			return
		}
		s.advance()
	}
	s.emit(dst, DelimitedLiteral, start, true)
}

// scanParens captures a parenthesized group as three tokens: the opening
// parenthesis, a fragment holding the tokens in between and, if present, the
// closing parenthesis. The fragment spans the interior only.
func (s *Scanner) scanParens(dst *Tokens) {
	s.scanSingle(dst)
	start := s.here()
	var children Tokens
	reason := s.scanFragment(&children, true)
	end := start
	if s.offset > start.Offset {
		end = s.end()
	}
	*dst = append(*dst, Token{
		Kind:         Fragment,
		Text:         s.src[start.Offset:end.Offset],
		Start:        start,
		End:          end,
		Children:     children,
		Unterminated: reason != stopCloseParen,
	})
	if reason == stopCloseParen {
		s.scanSingle(dst)
	}
}

// flush closes the pending plain text run, if any.
func (s *Scanner) flush(dst *Tokens) {
	if !s.pending {
		return
	}
	s.pending = false
	s.emit(dst, PlainText, s.runStart, false)
}

// emit appends a token running from start to the last consumed rune.
func (s *Scanner) emit(dst *Tokens, kind Kind, start Position, unterminated bool) {
	end := s.end()
	*dst = append(*dst, Token{
		Kind:         kind,
		Text:         s.src[start.Offset:end.Offset],
		Start:        start,
		End:          end,
		Unterminated: unterminated,
	})
}

func (s *Scanner) eof() bool {
	return s.offset >= len(s.src)
}

func (s *Scanner) here() Position {
	return Position{Line: s.line, Column: s.column, Offset: s.offset}
}

// end is the end position of a token whose last rune was the last one consumed.
func (s *Scanner) end() Position {
	return Position{Line: s.last.Line, Column: s.last.Column, Offset: s.offset}
}

func (s *Scanner) peek() rune {
	if s.eof() {
		return eofRune
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.offset:])
	return r
}

func (s *Scanner) peekSecond() rune {
	if s.eof() {
		return eofRune
	}
	_, size := utf8.DecodeRuneInString(s.src[s.offset:])
	if s.offset+size >= len(s.src) {
		return eofRune
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.offset+size:])
	return r
}

// advance consumes one rune and updates line and column. A carriage return
// does not move the column; the line feed that usually follows resets it.
func (s *Scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.src[s.offset:])
	s.last = s.here()
	s.offset += size
	switch r {
	case '\n':
		s.line++
		s.column = 1
	case '\r':
	default:
		s.column++
	}
	return r
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
