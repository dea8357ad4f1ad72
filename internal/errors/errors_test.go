package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNewStatementError_Postgres(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01", Message: `relation "missing" does not exist`}
	err := NewStatementError("schema.sql", 2, 10, 5, fmt.Errorf("exec: %w", pgErr))

	if err.SQLState != "42P01" {
		t.Errorf("expected SQLSTATE 42P01, got %q", err.SQLState)
	}
	if err.Message != pgErr.Message {
		t.Errorf("expected message from PgError, got %q", err.Message)
	}
	want := `schema.sql:10:5: statement 3 failed: [42P01] relation "missing" does not exist`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	var target *pgconn.PgError
	if !errors.As(err, &target) {
		t.Error("expected StatementError to unwrap to PgError")
	}
}

func TestNewStatementError_MySQL(t *testing.T) {
	myErr := &mysql.MySQLError{Number: 1146, Message: "Table 'db.missing' doesn't exist"}
	err := NewStatementError("seed.sql", 0, 1, 1, myErr)

	if err.SQLState != "1146" {
		t.Errorf("expected error number 1146, got %q", err.SQLState)
	}
	if !strings.Contains(err.Error(), "[1146]") {
		t.Errorf("expected error number in message, got %q", err.Error())
	}
}

func TestNewStatementError_Plain(t *testing.T) {
	err := NewStatementError("a.sql", 0, 3, 1, errors.New("context deadline exceeded"))

	if err.SQLState != "" {
		t.Errorf("expected no SQLSTATE, got %q", err.SQLState)
	}
	if err.Error() != "a.sql:3:1: statement 1 failed: context deadline exceeded" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestConnectionError(t *testing.T) {
	err := NewConnectionError("postgres", "connection refused", "check --connection")
	if !strings.Contains(err.Error(), "postgres") || !strings.Contains(err.Error(), "check --connection") {
		t.Errorf("unexpected message %q", err.Error())
	}

	err = NewConnectionError("mysql", "access denied", "")
	if err.Error() != "failed to connect to mysql: access denied" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
