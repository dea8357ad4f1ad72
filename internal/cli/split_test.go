package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func writeScripts(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

func TestLoad_Directory(t *testing.T) {
	root := writeScripts(t, map[string]string{
		"b.sql":     "SELECT 'b;';",
		"a.sql":     "SELECT 1; SELECT 2;",
		"sub/c.sql": "-- only a comment",
		"notes.txt": "SELECT 3;",
	})

	cfg := DefaultConfig
	cfg.Parallelism = 3
	parsed, err := Load(context.Background(), &cfg, root, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(parsed) != 3 {
		t.Fatalf("expected 3 files, got %d", len(parsed))
	}
	wantCounts := []int{2, 1, 0}
	for i, name := range []string{"a.sql", "b.sql", "sub/c.sql"} {
		if filepath.ToSlash(parsed[i].File.RelativePath) != name {
			t.Errorf("at %d: expected %s, got %s", i, name, parsed[i].File.RelativePath)
		}
		if len(parsed[i].Statements) != wantCounts[i] {
			t.Errorf("%s: expected %d statements, got %d", name, wantCounts[i], len(parsed[i].Statements))
		}
	}
}

func TestLoad_Stdin(t *testing.T) {
	cfg := DefaultConfig
	cfg.Delimiter = "GO"
	parsed, err := Load(context.Background(), &cfg, StdinPath, strings.NewReader("SELECT 1\nGO\nSELECT 2\nGO\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(parsed) != 1 || parsed[0].File.RelativePath != "<stdin>" {
		t.Fatalf("expected one stdin script, got %+v", parsed)
	}
	if len(parsed[0].Statements) != 2 {
		t.Errorf("expected 2 statements, got %d", len(parsed[0].Statements))
	}
}

func TestLoad_MissingPath(t *testing.T) {
	cfg := DefaultConfig
	if _, err := Load(context.Background(), &cfg, filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestSplit_WritesReport(t *testing.T) {
	root := writeScripts(t, map[string]string{"seed.sql": "INSERT INTO t VALUES (';');\nSELECT 1;"})
	output := filepath.Join(t.TempDir(), "out.json")

	cfg := DefaultConfig
	cfg.Format = "json"
	if err := Split(context.Background(), &cfg, root, output, false); err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	var doc struct {
		Files []struct {
			Statements []struct {
				SQL string `json:"sql"`
			} `json:"statements"`
		} `json:"files"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON report: %v", err)
	}
	if len(doc.Files) != 1 || len(doc.Files[0].Statements) != 2 {
		t.Fatalf("unexpected report %s", data)
	}
	if doc.Files[0].Statements[0].SQL != "INSERT INTO t VALUES (';');" {
		t.Errorf("unexpected first statement %q", doc.Files[0].Statements[0].SQL)
	}
}

func TestSplit_Tokens(t *testing.T) {
	root := writeScripts(t, map[string]string{"seed.sql": "SELECT $$x$$;"})
	output := filepath.Join(t.TempDir(), "tokens.json")

	cfg := DefaultConfig
	if err := Split(context.Background(), &cfg, root, output, true); err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	if !strings.Contains(string(data), `"type": "DelimitedLiteral"`) {
		t.Errorf("expected token dump, got:\n%s", data)
	}
}

func TestSplit_UnsupportedFormat(t *testing.T) {
	cfg := DefaultConfig
	cfg.Format = "lcov"
	if err := Split(context.Background(), &cfg, t.TempDir(), "", false); err == nil {
		t.Error("expected error for unsupported format")
	}
}
