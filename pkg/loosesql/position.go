package loosesql

import "fmt"

// Position is a location in the input given to the scanner.
//
// For the start of a token, Line and Column point at its first character and Offset
// is the byte offset of that character. For the end of a token, Line and Column point
// at its last character while Offset is the byte offset just past the token, so
// src[start.Offset:end.Offset] always yields the token text.
type Position struct {
	Line   int `json:"line"`   // 1-based line number
	Column int `json:"column"` // 1-based column number
	Offset int `json:"offset"` // 0-based byte offset
}

// String renders the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if the position points into a source (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}
