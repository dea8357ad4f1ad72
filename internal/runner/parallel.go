package runner

import (
	"context"
	"sync"
	"time"

	"github.com/cybertec-postgresql/loosesql/internal/logger"
	"github.com/cybertec-postgresql/loosesql/internal/parser"
)

// WorkerPool manages parallel file execution
type WorkerPool struct {
	executor   *Executor
	maxWorkers int
}

// NewWorkerPool creates a new worker pool for parallel file execution
func NewWorkerPool(executor *Executor, maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		executor:   executor,
		maxWorkers: maxWorkers,
	}
}

// ExecuteParallel runs files in parallel with the configured concurrency limit.
// Results are returned in input order. Unless the executor continues on error,
// the first failure cancels files that have not started yet.
func (wp *WorkerPool) ExecuteParallel(ctx context.Context, files []*parser.ParsedSQL) ([]*FileRun, error) {
	numFiles := len(files)
	if numFiles == 0 {
		return nil, nil
	}

	// If only one worker or one file, fall back to sequential execution
	if wp.maxWorkers == 1 || numFiles == 1 {
		return wp.executor.ExecuteBatch(ctx, files)
	}

	logger.Debug("Starting parallel execution with %d workers for %d files", wp.maxWorkers, numFiles)

	// stop only keeps new files from starting. Files already running finish
	// under ctx.
	stop, cancel := context.WithCancel(ctx)
	defer cancel()

	// Create buffered channels for job distribution and result collection
	jobs := make(chan *fileJob, numFiles)
	results := make(chan *fileResult, numFiles)

	var wg sync.WaitGroup
	for i := range wp.maxWorkers {
		wg.Add(1)
		go wp.worker(ctx, stop, i, jobs, results, &wg)
	}

	for i, parsed := range files {
		jobs <- &fileJob{
			file:  parsed,
			index: i,
		}
	}
	close(jobs)

	// Wait for all workers to complete in a separate goroutine
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results from the results channel
	runs := make([]*FileRun, numFiles)
	for result := range results {
		runs[result.index] = result.run
		if result.run.Error != nil && !wp.executor.continueOnError {
			cancel()
		}
		logger.Debug("[%s] %s (worker %d)", result.run.Status, result.run.Name(), result.workerID)
	}

	return runs, nil
}

// fileJob represents a single file to execute
type fileJob struct {
	file  *parser.ParsedSQL
	index int
}

// fileResult represents the result of a file execution
type fileResult struct {
	run      *FileRun
	index    int
	workerID int
}

// worker is the goroutine that processes file jobs. Files are executed under
// ctx; once stop is done the remaining jobs are reported as skipped.
func (wp *WorkerPool) worker(ctx, stop context.Context, workerID int, jobs <-chan *fileJob, results chan<- *fileResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		if stop.Err() != nil {
			results <- &fileResult{
				run:      skippedRun(job.file, stop.Err()),
				index:    job.index,
				workerID: workerID,
			}
			continue
		}

		logger.Debug("Worker %d: running %s", workerID, job.file.File.RelativePath)

		run, err := wp.executor.Execute(ctx, job.file)
		if err != nil && run == nil {
			now := time.Now()
			run = &FileRun{
				File:      job.file,
				StartTime: now,
				EndTime:   now,
				Status:    RunFailed,
				Error:     err,
			}
		}

		results <- &fileResult{
			run:      run,
			index:    job.index,
			workerID: workerID,
		}
	}
}
