package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cybertec-postgresql/loosesql/internal/cli"
	"github.com/cybertec-postgresql/loosesql/internal/database"
	"github.com/cybertec-postgresql/loosesql/internal/journal"
	"github.com/cybertec-postgresql/loosesql/internal/testutil"
)

const migrationsDir = "../testdata/migrations"

// TestEndToEndWithTestcontainers runs the migrations in testdata up, again
// from the journal, and down against a real PostgreSQL instance
func TestEndToEndWithTestcontainers(t *testing.T) {
	testutil.SkipIfShort(t)
	connString, cleanup := testutil.SetupPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	journalFile := filepath.Join(t.TempDir(), "journal.json")

	// Configuration comes from a file, the way a project would keep it
	configFile := filepath.Join(t.TempDir(), "loosesql.yaml")
	content := "connection: " + connString + "\njournal: " + journalFile + "\ntimeout: 30s\nverbose: true\n"
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	config, err := cli.LoadConfigFile(configFile, cli.DefaultConfig)
	if err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("Invalid configuration: %v", err)
	}

	t.Run("Up", func(t *testing.T) {
		code, err := cli.Exec(ctx, config, migrationsDir, false)
		if err != nil {
			t.Fatalf("Exec failed: %v", err)
		}
		if code != 0 {
			t.Fatalf("expected exit code 0, got %d", code)
		}

		j, err := journal.NewStore(journalFile).Load()
		if err != nil {
			t.Fatalf("Failed to load journal: %v", err)
		}
		for _, name := range []string{"001_accounts.up.sql", "002_seed.up.sql"} {
			entry, ok := j.Entry(name)
			if !ok || !entry.Complete() {
				t.Errorf("expected %s to be complete in the journal, got %+v", name, entry)
			}
		}
	})

	t.Run("UpAgainResumes", func(t *testing.T) {
		// CREATE TABLE would fail if the journal did not skip it
		code, err := cli.Exec(ctx, config, migrationsDir, false)
		if err != nil {
			t.Fatalf("Exec failed: %v", err)
		}
		if code != 0 {
			t.Errorf("expected completed scripts to be skipped, got exit code %d", code)
		}
	})

	t.Run("Down", func(t *testing.T) {
		code, err := cli.Exec(ctx, config, migrationsDir, true)
		if err != nil {
			t.Fatalf("Exec failed: %v", err)
		}
		if code != 0 {
			t.Fatalf("expected exit code 0, got %d", code)
		}

		db, err := database.Open(ctx, config)
		if err != nil {
			t.Fatalf("Cannot connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		execCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := db.Exec(execCtx, "SELECT 1 FROM accounts"); err == nil {
			t.Error("expected accounts table to be dropped")
		}

		if journal.NewStore(journalFile).Exists() {
			t.Error("expected the journal to be cleared after reverting every migration")
		}
	})

	t.Run("UpAfterDown", func(t *testing.T) {
		code, err := cli.Exec(ctx, config, migrationsDir, false)
		if err != nil {
			t.Fatalf("Exec failed: %v", err)
		}
		if code != 0 {
			t.Errorf("expected reverted migrations to run again, got exit code %d", code)
		}
	})
}

// TestSplitTestdata checks the split report of the migrations without a database
func TestSplitTestdata(t *testing.T) {
	config := cli.DefaultConfig
	parsed, err := cli.Load(context.Background(), &config, migrationsDir, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]struct{ statements, empty int }{
		"001_accounts.down.sql": {2, 0},
		"001_accounts.up.sql":   {2, 0},
		"002_seed.down.sql":     {1, 0},
		"002_seed.up.sql":       {4, 1},
	}
	if len(parsed) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(parsed))
	}
	for _, p := range parsed {
		w, ok := want[p.File.RelativePath]
		if !ok {
			t.Errorf("unexpected file %s", p.File.RelativePath)
			continue
		}
		if len(p.Statements) != w.statements || p.Empty != w.empty {
			t.Errorf("%s: expected %d statements and %d empty, got %d and %d",
				p.File.RelativePath, w.statements, w.empty, len(p.Statements), p.Empty)
		}
	}
}
