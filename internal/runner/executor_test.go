package runner_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	sqlerrors "github.com/cybertec-postgresql/loosesql/internal/errors"
	"github.com/cybertec-postgresql/loosesql/internal/journal"
	"github.com/cybertec-postgresql/loosesql/internal/parser"
	"github.com/cybertec-postgresql/loosesql/internal/runner"
	"github.com/cybertec-postgresql/loosesql/pkg/loosesql"
)

// fakeDB records executed statements. Statements containing FAIL fail,
// statements containing PAUSE take a moment and statements containing SLEEP
// block until the context is done.
type fakeDB struct {
	mu       sync.Mutex
	executed []string
}

func (f *fakeDB) Exec(ctx context.Context, sql string) error {
	if strings.Contains(sql, "SLEEP") {
		<-ctx.Done()
		return ctx.Err()
	}
	if strings.Contains(sql, "PAUSE") {
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	f.executed = append(f.executed, sql)
	f.mu.Unlock()
	if strings.Contains(sql, "FAIL") {
		return errors.New("statement failed")
	}
	return nil
}

func (f *fakeDB) Close()         {}
func (f *fakeDB) Driver() string { return "fake" }

func (f *fakeDB) statements() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.executed...)
}

func parse(t *testing.T, name, sql string) *parser.ParsedSQL {
	t.Helper()
	parsed, err := parser.ParseText(name, sql, loosesql.DefaultOptions())
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	return parsed
}

func equalStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("at %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExecute_RunsStatementsInOrder(t *testing.T) {
	db := &fakeDB{}
	exec := runner.NewExecutor(db, time.Second, false)

	run, err := exec.Execute(context.Background(), parse(t, "a.sql", "SELECT 1;\n-- note\n;\nINSERT INTO t VALUES ('x;y') ;\nSELECT 2"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if run.Status != runner.RunPassed || run.Error != nil {
		t.Fatalf("expected passed run, got %v: %v", run.Status, run.Error)
	}
	equalStrings(t, db.statements(), []string{"SELECT 1", "INSERT INTO t VALUES ('x;y')", "SELECT 2"})
	if len(run.Statements) != 3 {
		t.Errorf("expected 3 statement runs, got %d", len(run.Statements))
	}
}

func TestExecute_StopsAtFirstFailure(t *testing.T) {
	db := &fakeDB{}
	exec := runner.NewExecutor(db, time.Second, false)

	run, _ := exec.Execute(context.Background(), parse(t, "a.sql", "SELECT 1;\nSELECT FAIL;\nSELECT 3;"))

	if run.Status != runner.RunFailed {
		t.Fatalf("expected failed run, got %v", run.Status)
	}
	equalStrings(t, db.statements(), []string{"SELECT 1", "SELECT FAIL"})

	var stmtErr *sqlerrors.StatementError
	if !errors.As(run.Error, &stmtErr) {
		t.Fatalf("expected StatementError, got %T", run.Error)
	}
	if stmtErr.File != "a.sql" || stmtErr.Index != 1 || stmtErr.Line != 2 || stmtErr.Column != 1 {
		t.Errorf("unexpected error location %+v", stmtErr)
	}
}

func TestExecute_ContinueOnError(t *testing.T) {
	db := &fakeDB{}
	exec := runner.NewExecutor(db, time.Second, true)

	run, _ := exec.Execute(context.Background(), parse(t, "a.sql", "SELECT FAIL; SELECT 2; SELECT FAIL 3; SELECT 4"))

	if run.Status != runner.RunFailed {
		t.Errorf("expected failed run, got %v", run.Status)
	}
	if len(db.statements()) != 4 {
		t.Errorf("expected all 4 statements to run, got %d", len(db.statements()))
	}

	summary := runner.SummarizeRuns([]*runner.FileRun{run})
	if summary.PassedStatements != 2 || summary.FailedStatements != 2 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if summary.ExitCode() != 1 {
		t.Errorf("expected exit code 1, got %d", summary.ExitCode())
	}
}

func TestExecute_Timeout(t *testing.T) {
	db := &fakeDB{}
	exec := runner.NewExecutor(db, 20*time.Millisecond, false)

	run, _ := exec.Execute(context.Background(), parse(t, "slow.sql", "SELECT SLEEP; SELECT 2"))

	if run.Status != runner.RunTimeout {
		t.Fatalf("expected timeout, got %v", run.Status)
	}
	if !errors.Is(run.Error, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", run.Error)
	}
	if len(db.statements()) != 0 {
		t.Errorf("no statement should have completed, got %q", db.statements())
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	db := &fakeDB{}
	exec := runner.NewExecutor(db, 0, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, _ := exec.Execute(ctx, parse(t, "a.sql", "SELECT 1; SELECT 2"))
	if run.Status != runner.RunSkipped {
		t.Errorf("expected skipped run, got %v", run.Status)
	}
	if len(db.statements()) != 0 {
		t.Errorf("nothing should run on a cancelled context, got %q", db.statements())
	}
}

func TestExecute_JournalResume(t *testing.T) {
	j := journal.New()
	script := "CREATE TABLE a (id int); CREATE TABLE FAIL; CREATE TABLE c (id int);"

	db := &fakeDB{}
	exec := runner.NewExecutor(db, time.Second, false).WithJournal(j)
	run, _ := exec.Execute(context.Background(), parse(t, "001.up.sql", script))
	if run.Status != runner.RunFailed {
		t.Fatalf("expected failure, got %v", run.Status)
	}

	entry, ok := j.Entry("001.up.sql")
	if !ok || entry.Executed != 1 || entry.Total != 3 {
		t.Fatalf("unexpected journal entry %+v", entry)
	}

	// The failing statement is fixed, which changes the checksum: start over.
	fixed := strings.Replace(script, "FAIL", "b (id int)", 1)
	db = &fakeDB{}
	exec = runner.NewExecutor(db, time.Second, false).WithJournal(j)
	run, _ = exec.Execute(context.Background(), parse(t, "001.up.sql", fixed))
	if run.Status != runner.RunPassed || run.Resumed != 0 {
		t.Fatalf("expected fresh passing run, got %v resumed %d", run.Status, run.Resumed)
	}
	if len(db.statements()) != 3 {
		t.Errorf("expected 3 statements, got %q", db.statements())
	}

	// Same content again: everything is already done.
	db = &fakeDB{}
	exec = runner.NewExecutor(db, time.Second, false).WithJournal(j)
	run, _ = exec.Execute(context.Background(), parse(t, "001.up.sql", fixed))
	if run.Status != runner.RunPassed || run.Resumed != 3 {
		t.Errorf("expected resumed run, got %v resumed %d", run.Status, run.Resumed)
	}
	if len(db.statements()) != 0 {
		t.Errorf("expected nothing to run, got %q", db.statements())
	}
}

func TestExecute_JournalResumesAfterLastSuccess(t *testing.T) {
	j := journal.New()
	script := "SELECT 1; SELECT 2; SELECT 3"
	j.Record("a.sql", journal.Checksum(script), 2, 3)

	db := &fakeDB{}
	run, _ := runner.NewExecutor(db, time.Second, false).WithJournal(j).
		Execute(context.Background(), parse(t, "a.sql", script))

	if run.Resumed != 2 {
		t.Errorf("expected 2 resumed statements, got %d", run.Resumed)
	}
	equalStrings(t, db.statements(), []string{"SELECT 3"})
	if entry, _ := j.Entry("a.sql"); !entry.Complete() {
		t.Errorf("expected complete entry, got %+v", entry)
	}
}

func TestExecute_JournalIgnoresSuccessAfterFailure(t *testing.T) {
	j := journal.New()
	db := &fakeDB{}
	exec := runner.NewExecutor(db, time.Second, true).WithJournal(j)

	exec.Execute(context.Background(), parse(t, "a.sql", "SELECT 1; SELECT FAIL; SELECT 3"))

	if entry, _ := j.Entry("a.sql"); entry.Executed != 1 {
		t.Errorf("journal must stop at the first failure, got %+v", entry)
	}
}

func TestExecuteBatch_SkipsAfterFailedFile(t *testing.T) {
	db := &fakeDB{}
	exec := runner.NewExecutor(db, time.Second, false)

	files := []*parser.ParsedSQL{
		parse(t, "1.sql", "SELECT 1"),
		parse(t, "2.sql", "SELECT FAIL"),
		parse(t, "3.sql", "SELECT 3"),
	}
	runs, err := exec.ExecuteBatch(context.Background(), files)
	if err != nil {
		t.Fatalf("ExecuteBatch failed: %v", err)
	}

	want := []runner.RunStatus{runner.RunPassed, runner.RunFailed, runner.RunSkipped}
	if len(runs) != len(want) {
		t.Fatalf("expected %d runs, got %d", len(want), len(runs))
	}
	for i, status := range want {
		if runs[i].Status != status {
			t.Errorf("run %d: expected %v, got %v", i, status, runs[i].Status)
		}
	}

	summary := runner.SummarizeRuns(runs)
	if summary.TotalFiles != 3 || summary.PassedFiles != 1 || summary.FailedFiles != 1 || summary.SkippedFiles != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestRunStatus_String(t *testing.T) {
	tests := map[runner.RunStatus]string{
		runner.RunPending: "pending",
		runner.RunRunning: "running",
		runner.RunPassed:  "passed",
		runner.RunFailed:  "failed",
		runner.RunTimeout: "timeout",
		runner.RunSkipped: "skipped",
		runner.RunStatus(99): "unknown",
	}
	for status, want := range tests {
		if status.String() != want {
			t.Errorf("expected %s, got %s", want, status.String())
		}
	}
}
