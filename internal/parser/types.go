package parser

import (
	"github.com/cybertec-postgresql/loosesql/internal/discovery"
	"github.com/cybertec-postgresql/loosesql/pkg/loosesql"
)

// ParsedSQL represents a scanned SQL file
type ParsedSQL struct {
	File       *discovery.DiscoveredFile
	Source     string       // Full file content
	Statements []*Statement // Non-empty statements in source order
	Empty      int          // Statements holding only comments or a bare delimiter
}

// Statement is a scanned statement with its classification
type Statement struct {
	loosesql.Statement

	Index     int               // 0-based position among the non-empty statements
	CodeStart loosesql.Position // Position of the first token that is not a comment
	StartLine int               // 1-indexed line of CodeStart
	EndLine   int               // 1-indexed line number
	Type      StatementType     // Statement classification
	Language  string            // LANGUAGE of a routine or DO block, lowercase
	Body      string            // Routine or DO body without its quoting
	BodyStart int               // Byte offset of Body within SQL(), -1 if no body
}

// StatementType classifies SQL statements
type StatementType int

const (
	StmtUnknown   StatementType = iota
	StmtFunction                // CREATE FUNCTION
	StmtProcedure               // CREATE PROCEDURE
	StmtTrigger                 // CREATE TRIGGER
	StmtView                    // CREATE VIEW
	StmtDO                      // DO block
	StmtQuery                   // Returns rows (SELECT, SHOW, ... RETURNING)
	StmtOther                   // Any other statement
)

// String returns a string representation of StatementType
func (st StatementType) String() string {
	switch st {
	case StmtFunction:
		return "function"
	case StmtProcedure:
		return "procedure"
	case StmtTrigger:
		return "trigger"
	case StmtView:
		return "view"
	case StmtDO:
		return "do"
	case StmtQuery:
		return "query"
	case StmtOther:
		return "other"
	default:
		return "unknown"
	}
}
