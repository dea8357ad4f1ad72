package discovery

import (
	"path/filepath"
	"strings"
)

// ClassifyFile determines the role of a file from its naming convention
func ClassifyFile(filename string) FileType {
	lower := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(lower, ".up.sql"):
		return FileTypeUp
	case strings.HasSuffix(lower, ".down.sql"):
		return FileTypeDown
	default:
		return FileTypeScript
	}
}

// UpCounterpart returns the up migration reverted by a down migration
// (001_init.down.sql -> 001_init.up.sql). It returns "" for other files.
func UpCounterpart(path string) string {
	if ClassifyPath(path) != FileTypeDown {
		return ""
	}
	return path[:len(path)-len(".down.sql")] + ".up" + path[len(path)-len(".sql"):]
}

// ClassifyPath determines file type from a full path
func ClassifyPath(path string) FileType {
	return ClassifyFile(filepath.Base(path))
}

// IsSQLFile returns true if the file has a .sql extension
func IsSQLFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".sql")
}
