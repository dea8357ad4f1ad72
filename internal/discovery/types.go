package discovery

import "time"

// DiscoveredFile represents a SQL file discovered during filesystem traversal
type DiscoveredFile struct {
	Path         string    // Absolute path to file, "-" for stdin
	RelativePath string    // Path relative to search root
	Type         FileType  // Up, Down or Script
	ModTime      time.Time // Last modification time
}

// FileType indicates the role of a SQL file
type FileType int

const (
	FileTypeScript FileType = iota // Plain *.sql script
	FileTypeUp                     // Matches *.up.sql
	FileTypeDown                   // Matches *.down.sql
)

// String returns a string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeScript:
		return "script"
	case FileTypeUp:
		return "up"
	case FileTypeDown:
		return "down"
	default:
		return "unknown"
	}
}
