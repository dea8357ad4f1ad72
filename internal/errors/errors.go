package errors

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ConnectionError represents a database connection failure
type ConnectionError struct {
	Driver     string
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("failed to connect to %s: %s (%s)", e.Driver, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("failed to connect to %s: %s", e.Driver, e.Message)
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(driver, message, suggestion string) *ConnectionError {
	return &ConnectionError{
		Driver:     driver,
		Message:    message,
		Suggestion: suggestion,
	}
}

// StatementError represents the failure of a single statement of a script
type StatementError struct {
	File     string
	Index    int // 0-based statement index within the file
	Line     int
	Column   int
	SQLState string // SQLSTATE (postgres) or error number (mysql)
	Message  string
	Err      error
}

func (e *StatementError) Error() string {
	if e.SQLState != "" {
		return fmt.Sprintf("%s:%d:%d: statement %d failed: [%s] %s",
			e.File, e.Line, e.Column, e.Index+1, e.SQLState, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: statement %d failed: %s",
		e.File, e.Line, e.Column, e.Index+1, e.Message)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// NewStatementError creates a StatementError, pulling the error code and message
// out of driver specific errors
func NewStatementError(file string, index, line, column int, err error) *StatementError {
	se := &StatementError{
		File:    file,
		Index:   index,
		Line:    line,
		Column:  column,
		Message: err.Error(),
		Err:     err,
	}

	var pgErr *pgconn.PgError
	var myErr *mysql.MySQLError
	switch {
	case errors.As(err, &pgErr):
		se.SQLState = pgErr.Code
		se.Message = pgErr.Message
	case errors.As(err, &myErr):
		se.SQLState = fmt.Sprintf("%d", myErr.Number)
		se.Message = myErr.Message
	}
	return se
}
