package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/cybertec-postgresql/loosesql/internal/database"
	"github.com/cybertec-postgresql/loosesql/internal/discovery"
	"github.com/cybertec-postgresql/loosesql/internal/journal"
	"github.com/cybertec-postgresql/loosesql/internal/logger"
	"github.com/cybertec-postgresql/loosesql/internal/parser"
	"github.com/cybertec-postgresql/loosesql/internal/runner"
)

var (
	passedFmt  = color.New(color.FgGreen).SprintFunc()
	failedFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
	skippedFmt = color.New(color.FgYellow).SprintFunc()
)

// Exec runs the scripts under path against the configured database. With down
// set only *.down.sql files are run, in reverse order.
func Exec(ctx context.Context, config *Config, path string, down bool) (int, error) {
	startTime := time.Now()

	if err := config.ValidateConnection(); err != nil {
		return 2, err
	}

	// Step 1: Discover and split scripts
	var parsed []*parser.ParsedSQL
	if path == StdinPath {
		var err error
		if parsed, err = readStdin(config, os.Stdin); err != nil {
			return 1, err
		}
	} else {
		files, err := discovery.DiscoverScripts(path, down)
		if err != nil {
			return 1, fmt.Errorf("failed to discover scripts: %w", err)
		}
		if len(files) == 0 {
			fmt.Println("No scripts found (*.sql)")
			return 0, nil
		}
		logger.Debug("Found %d script(s) in %s", len(files), path)

		if parsed, err = parseFiles(ctx, config, files); err != nil {
			return 1, err
		}
	}

	// Step 2: Connect
	db, err := database.Open(ctx, config)
	if err != nil {
		return 1, fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()
	logger.Debug("Connected using the %s driver", db.Driver())

	// Step 3: Execute
	summary, err := execute(ctx, config, db, parsed, down)
	if err != nil {
		return 1, err
	}

	// Step 4: Display summary
	summary.TotalDuration = time.Since(startTime)
	printSummary(os.Stdout, summary)

	return summary.ExitCode(), nil
}

// execute runs parsed files on db, resuming from and updating the journal
// when one is configured. A down migration that passed clears the progress of
// itself and of the up migration it reverts, so both can run again.
func execute(ctx context.Context, config *Config, db database.DB, parsed []*parser.ParsedSQL, down bool) (*runner.Summary, error) {
	executor := runner.NewExecutor(db, config.Timeout, config.ContinueOnError)

	var store *journal.Store
	var j *journal.Journal
	if config.JournalFile != "" {
		store = journal.NewStore(config.JournalFile)
		var err error
		if j, err = store.LoadOrNew(); err != nil {
			return nil, fmt.Errorf("failed to load journal: %w", err)
		}
		executor.WithJournal(j)
	}

	var runs []*runner.FileRun
	var err error
	if config.Parallelism > 1 {
		logger.Debug("Executing scripts in parallel (workers: %d)", config.Parallelism)
		runs, err = runner.NewWorkerPool(executor, config.Parallelism).ExecuteParallel(ctx, parsed)
	} else {
		logger.Debug("Executing scripts sequentially")
		runs, err = executor.ExecuteBatch(ctx, parsed)
	}

	// The journal is saved even after a failure so the next run can resume.
	if store != nil {
		if down {
			forgetReverted(j, runs)
		}
		saveJournal(store, j)
	}

	if err != nil {
		return nil, fmt.Errorf("script execution failed: %w", err)
	}

	return runner.SummarizeRuns(runs), nil
}

// forgetReverted drops the journal entries of down migrations that passed and of
// the up migrations they revert
func forgetReverted(j *journal.Journal, runs []*runner.FileRun) {
	for _, run := range runs {
		if run == nil || run.Status != runner.RunPassed {
			continue
		}
		j.Forget(run.Name())
		if up := discovery.UpCounterpart(run.Name()); up != "" {
			j.Forget(up)
			logger.Debug("%s reverted, journal entry of %s cleared", run.Name(), up)
		}
	}
}

// saveJournal writes the journal, or removes the file once nothing is recorded
func saveJournal(store *journal.Store, j *journal.Journal) {
	if j.Len() == 0 {
		if err := store.Delete(); err != nil {
			logger.Error("Failed to remove journal: %v", err)
		}
		return
	}
	if err := store.Save(j); err != nil {
		logger.Error("Failed to save journal: %v", err)
		return
	}
	logger.Debug("Journal written to %s", store.Path())
}

// printSummary writes the totals of a run
func printSummary(w io.Writer, s *runner.Summary) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Files:      %s, %s, %s, %d total\n",
		passedFmt(fmt.Sprintf("%d passed", s.PassedFiles)),
		failedFmt(fmt.Sprintf("%d failed", s.FailedFiles+s.TimedOutFiles)),
		skippedFmt(fmt.Sprintf("%d skipped", s.SkippedFiles)),
		s.TotalFiles)
	fmt.Fprintf(w, "Statements: %d passed, %d failed, %d resumed, %d total\n",
		s.PassedStatements, s.FailedStatements, s.ResumedStatements, s.TotalStatements)
	fmt.Fprintf(w, "Time:       %v\n", s.TotalDuration.Round(time.Millisecond))
}
