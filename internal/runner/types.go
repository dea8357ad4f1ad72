package runner

import (
	"time"

	"github.com/cybertec-postgresql/loosesql/internal/parser"
)

// FileRun represents the execution of one script
type FileRun struct {
	File       *parser.ParsedSQL
	StartTime  time.Time
	EndTime    time.Time
	Status     RunStatus
	Statements []StatementRun // Statements attempted in this run
	Resumed    int            // Leading statements skipped because the journal shows them done
	Error      error          // First statement failure, nil if the file passed
}

// StatementRun represents the execution of one statement
type StatementRun struct {
	Statement *parser.Statement
	Status    RunStatus
	Duration  time.Duration
	Error     error
}

// RunStatus represents the state of a file or statement execution
type RunStatus int

const (
	RunPending RunStatus = iota
	RunRunning
	RunPassed
	RunFailed
	RunTimeout
	RunSkipped
)

// String returns a string representation of RunStatus
func (rs RunStatus) String() string {
	switch rs {
	case RunPending:
		return "pending"
	case RunRunning:
		return "running"
	case RunPassed:
		return "passed"
	case RunFailed:
		return "failed"
	case RunTimeout:
		return "timeout"
	case RunSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Duration returns the file execution duration
func (fr *FileRun) Duration() time.Duration {
	if fr.EndTime.IsZero() {
		return time.Since(fr.StartTime)
	}
	return fr.EndTime.Sub(fr.StartTime)
}

// Name returns the file name used in reports
func (fr *FileRun) Name() string {
	return fr.File.File.RelativePath
}

// Summary summarizes all file executions
type Summary struct {
	TotalFiles        int
	PassedFiles       int
	FailedFiles       int
	TimedOutFiles     int
	SkippedFiles      int
	TotalStatements   int
	PassedStatements  int
	FailedStatements  int
	ResumedStatements int
	TotalDuration     time.Duration
}

// AllPassed returns true if no file failed, timed out or was skipped
func (s *Summary) AllPassed() bool {
	return s.FailedFiles == 0 && s.TimedOutFiles == 0 && s.SkippedFiles == 0
}

// ExitCode returns the appropriate exit code based on execution results
func (s *Summary) ExitCode() int {
	if s.AllPassed() {
		return 0
	}
	return 1
}
