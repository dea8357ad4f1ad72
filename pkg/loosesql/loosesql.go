// Package loosesql is a non-validating SQL scanner. It splits a script into
// top-level statements and decomposes each statement into position-annotated
// tokens without checking the SQL grammar.
//
// Comments, quoted literals, dollar-quoted literals and parenthesized
// sub-expressions are recognized so that a delimiter inside them never splits a
// statement. Malformed input is never rejected: unterminated constructs are
// captured up to the end of the input.
//
//	for stmt := range loosesql.Parse("SELECT 1; SELECT 2") {
//	    fmt.Println(stmt.SQL())
//	}
package loosesql

import "iter"

// Parse scans sql using the default ";" delimiter.
func Parse(sql string) iter.Seq[Statement] {
	s, _ := NewScanner(sql, DefaultOptions())
	return s.All()
}

// ParseWithOptions scans sql using the given options. It fails fast if the
// options are invalid.
func ParseWithOptions(sql string, opts Options) (iter.Seq[Statement], error) {
	s, err := NewScanner(sql, opts)
	if err != nil {
		return nil, err
	}
	return s.All(), nil
}

// Split scans sql and collects every statement.
func Split(sql string, opts Options) ([]Statement, error) {
	s, err := NewScanner(sql, opts)
	if err != nil {
		return nil, err
	}
	var statements []Statement
	for stmt := range s.All() {
		statements = append(statements, stmt)
	}
	return statements, nil
}
