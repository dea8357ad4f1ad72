package testutil

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

// MySQLImage is the Docker image used for MySQL test containers
const MySQLImage = "mysql:8.4"

// SetupMySQLContainer starts a MySQL container and returns a DSN and cleanup function
func SetupMySQLContainer(t *testing.T) (string, func()) {
	t.Helper()

	ctx := context.Background()

	myContainer, err := mysql.Run(ctx,
		MySQLImage,
		mysql.WithDatabase(TestDatabase),
		mysql.WithUsername(TestUsername),
		mysql.WithPassword(TestPassword),
	)
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}

	dsn, err := myContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get MySQL DSN: %v", err)
	}

	cleanup := func() {
		if err := myContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return dsn, cleanup
}
