package database

import (
	"context"
	"fmt"

	"github.com/cybertec-postgresql/loosesql/pkg/types"
)

const applicationName = "loosesql"

// DB executes single SQL statements against a database
type DB interface {
	// Exec runs one statement and discards any result rows
	Exec(ctx context.Context, sql string) error

	// Close releases all connections
	Close()

	// Driver returns the driver name (postgres or mysql)
	Driver() string
}

// Open connects to the database described by the configuration
func Open(ctx context.Context, config *types.Config) (DB, error) {
	switch driver := config.DriverName(); driver {
	case types.DriverPostgres:
		return NewPool(ctx, config)
	case types.DriverMySQL:
		return NewMySQL(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}
