package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Version of the journal file format
const Version = "1"

// Journal records how far execution of each script got, so that a later run can
// resume after the last statement that succeeded
type Journal struct {
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Files     map[string]Entry `json:"files"`

	mu sync.Mutex
}

// Entry is the progress of a single file
type Entry struct {
	Checksum string `json:"checksum"` // SHA-256 of the file content
	Executed int    `json:"executed"` // Leading statements that succeeded
	Total    int    `json:"total"`    // Non-empty statements in the file
}

// Complete reports whether every statement of the file has been executed
func (e Entry) Complete() bool {
	return e.Executed >= e.Total
}

// New creates an empty journal
func New() *Journal {
	return &Journal{
		Version: Version,
		Files:   make(map[string]Entry),
	}
}

// Checksum returns the hex SHA-256 of a script's content
func Checksum(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Resume returns the number of leading statements of file already executed.
// A changed checksum invalidates the recorded progress.
func (j *Journal) Resume(file, checksum string) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, ok := j.Files[file]
	if !ok || entry.Checksum != checksum {
		return 0
	}
	return entry.Executed
}

// Record stores the progress of file
func (j *Journal) Record(file, checksum string, executed, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.Files == nil {
		j.Files = make(map[string]Entry)
	}
	j.Files[file] = Entry{
		Checksum: checksum,
		Executed: executed,
		Total:    total,
	}
	j.Timestamp = time.Now().UTC()
}

// Entry returns the recorded progress of file
func (j *Journal) Entry(file string) (Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, ok := j.Files[file]
	return entry, ok
}

// Forget drops the progress of file
func (j *Journal) Forget(file string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	delete(j.Files, file)
}

// Len returns the number of files with recorded progress
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return len(j.Files)
}
