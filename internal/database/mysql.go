package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/cybertec-postgresql/loosesql/internal/errors"
	"github.com/cybertec-postgresql/loosesql/pkg/types"
)

// MySQL executes statements through database/sql and go-sql-driver/mysql
type MySQL struct {
	db     *sql.DB
	config *types.Config
}

// NewMySQL opens a connection pool to MySQL or MariaDB
func NewMySQL(ctx context.Context, config *types.Config) (*MySQL, error) {
	dsn, err := mysql.ParseDSN(config.ConnectionString)
	if err != nil {
		return nil, errors.NewConnectionError(types.DriverMySQL,
			fmt.Sprintf("invalid connection configuration: %v", err),
			"Use the DSN format user:password@tcp(host:port)/dbname")
	}

	// Statements are sent one at a time; the scanner has already split them.
	dsn.MultiStatements = false
	attrs := "program_name:" + applicationName
	if dsn.ConnectionAttributes != "" {
		attrs = dsn.ConnectionAttributes + "," + attrs
	}
	dsn.ConnectionAttributes = attrs

	connector, err := mysql.NewConnector(dsn)
	if err != nil {
		return nil, errors.NewConnectionError(types.DriverMySQL,
			fmt.Sprintf("failed to create connector: %v", err), "")
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(max(config.Parallelism, 1) + 1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewConnectionError(types.DriverMySQL,
			fmt.Sprintf("failed to reach server: %v", err),
			"Verify MySQL is running and accessible with the provided DSN")
	}

	return &MySQL{db: db, config: config}, nil
}

// Exec runs a single statement
func (m *MySQL) Exec(ctx context.Context, query string) error {
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// Driver returns "mysql"
func (m *MySQL) Driver() string {
	return types.DriverMySQL
}

// Close closes the underlying pool
func (m *MySQL) Close() {
	if m.db != nil {
		m.db.Close()
	}
}
