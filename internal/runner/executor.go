package runner

import (
	"context"
	"errors"
	"time"

	"github.com/cybertec-postgresql/loosesql/internal/database"
	sqlerrors "github.com/cybertec-postgresql/loosesql/internal/errors"
	"github.com/cybertec-postgresql/loosesql/internal/journal"
	"github.com/cybertec-postgresql/loosesql/internal/logger"
	"github.com/cybertec-postgresql/loosesql/internal/parser"
)

// Executor runs scanned scripts statement by statement
type Executor struct {
	db              database.DB
	timeout         time.Duration
	continueOnError bool
	journal         *journal.Journal
}

// NewExecutor creates a new executor. A zero timeout disables the per-statement
// timeout.
func NewExecutor(db database.DB, timeout time.Duration, continueOnError bool) *Executor {
	return &Executor{
		db:              db,
		timeout:         timeout,
		continueOnError: continueOnError,
	}
}

// WithJournal makes the executor resume files from, and record progress into, j
func (e *Executor) WithJournal(j *journal.Journal) *Executor {
	e.journal = j
	return e
}

// Execute runs the statements of a single file in order. Statements are sent
// without their delimiter. Execution stops at the first failure unless the
// executor continues on error.
func (e *Executor) Execute(ctx context.Context, parsed *parser.ParsedSQL) (*FileRun, error) {
	run := &FileRun{
		File:      parsed,
		StartTime: time.Now(),
		Status:    RunRunning,
	}
	name := run.Name()
	total := len(parsed.Statements)

	var checksum string
	if e.journal != nil {
		checksum = journal.Checksum(parsed.Source)
		run.Resumed = min(e.journal.Resume(name, checksum), total)
		if entry, ok := e.journal.Entry(name); ok && run.Resumed > 0 && entry.Complete() {
			logger.Info("%s: already executed, nothing to do", name)
		} else if run.Resumed > 0 {
			logger.Info("%s: resuming after statement %d of %d", name, run.Resumed, total)
		}
	}

	// done counts the leading statements that succeeded, which is what the
	// journal may safely skip next time
	done := run.Resumed
	for _, stmt := range parsed.Statements[run.Resumed:] {
		if ctx.Err() != nil {
			run.Statements = append(run.Statements, StatementRun{
				Statement: stmt,
				Status:    RunSkipped,
				Error:     ctx.Err(),
			})
			continue
		}

		sr := e.executeStatement(ctx, name, stmt)
		run.Statements = append(run.Statements, sr)

		if sr.Error == nil {
			if done == stmt.Index {
				done++
				if e.journal != nil {
					e.journal.Record(name, checksum, done, total)
				}
			}
			continue
		}

		if run.Error == nil {
			run.Error = sr.Error
			run.Status = sr.Status
		}
		if !e.continueOnError {
			break
		}
	}

	if e.journal != nil && done == run.Resumed {
		// Keep the checksum current even when nothing new succeeded
		e.journal.Record(name, checksum, done, total)
	}

	switch {
	case run.Error != nil:
		// status was set from the first failing statement
	case ctx.Err() != nil && done < total:
		run.Status = RunSkipped
		run.Error = ctx.Err()
	default:
		run.Status = RunPassed
	}
	run.EndTime = time.Now()

	return run, nil
}

// executeStatement runs one statement under the per-statement timeout
func (e *Executor) executeStatement(ctx context.Context, file string, stmt *parser.Statement) StatementRun {
	sr := StatementRun{Statement: stmt}

	stmtCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		stmtCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := stmt.CodeStart
	logger.Debug("%s:%d: executing %s statement %d", file, start.Line, stmt.Type, stmt.Index+1)

	began := time.Now()
	err := e.db.Exec(stmtCtx, stmt.Content())
	sr.Duration = time.Since(began)

	switch {
	case err == nil:
		sr.Status = RunPassed
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(stmtCtx.Err(), context.DeadlineExceeded):
		sr.Status = RunTimeout
		sr.Error = sqlerrors.NewStatementError(file, stmt.Index, start.Line, start.Column, err)
	default:
		sr.Status = RunFailed
		sr.Error = sqlerrors.NewStatementError(file, stmt.Index, start.Line, start.Column, err)
	}
	if sr.Error != nil {
		logger.Error("%v", sr.Error)
	}

	return sr
}

// ExecuteBatch runs files sequentially. After a failed file the remaining files
// are skipped unless the executor continues on error.
func (e *Executor) ExecuteBatch(ctx context.Context, files []*parser.ParsedSQL) ([]*FileRun, error) {
	var runs []*FileRun

	for i, parsed := range files {
		logger.Debug("Running script: %s", parsed.File.RelativePath)

		run, err := e.Execute(ctx, parsed)
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)

		if run.Error != nil && !e.continueOnError {
			for _, rest := range files[i+1:] {
				runs = append(runs, skippedRun(rest, run.Error))
			}
			break
		}
	}

	return runs, nil
}

// skippedRun is the FileRun of a file that was never started
func skippedRun(parsed *parser.ParsedSQL, cause error) *FileRun {
	now := time.Now()
	return &FileRun{
		File:      parsed,
		StartTime: now,
		EndTime:   now,
		Status:    RunSkipped,
		Error:     cause,
	}
}

// SummarizeRuns creates a summary of execution results
func SummarizeRuns(runs []*FileRun) *Summary {
	summary := &Summary{
		TotalFiles: len(runs),
	}

	for _, run := range runs {
		summary.TotalDuration += run.Duration()
		summary.TotalStatements += len(run.File.Statements)
		summary.ResumedStatements += run.Resumed

		switch run.Status {
		case RunPassed:
			summary.PassedFiles++
		case RunFailed:
			summary.FailedFiles++
		case RunTimeout:
			summary.TimedOutFiles++
		case RunSkipped:
			summary.SkippedFiles++
		}

		for _, sr := range run.Statements {
			switch sr.Status {
			case RunPassed:
				summary.PassedStatements++
			case RunFailed, RunTimeout:
				summary.FailedStatements++
			}
		}
	}

	return summary
}
