package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover finds SQL files under rootPath. A directory is walked recursively
// and its *.sql files are returned sorted by relative path; a single file is
// returned as is, whatever its extension.
func Discover(rootPath string) ([]DiscoveredFile, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path not found: %s", absRoot)
		}
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return []DiscoveredFile{{
			Path:         absRoot,
			RelativePath: filepath.Base(absRoot),
			Type:         ClassifyPath(absRoot),
			ModTime:      info.ModTime(),
		}}, nil
	}

	var files []DiscoveredFile

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories we can't access
			if os.IsPermission(err) {
				return nil
			}
			return err
		}

		if info.IsDir() || !IsSQLFile(path) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		files = append(files, DiscoveredFile{
			Path:         path,
			RelativePath: relPath,
			Type:         ClassifyFile(filepath.Base(path)),
			ModTime:      info.ModTime(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	slices.SortFunc(files, func(a, b DiscoveredFile) int {
		return strings.Compare(a.RelativePath, b.RelativePath)
	})

	return files, nil
}

// DiscoverScripts returns the files to execute. Without down, up migrations and
// plain scripts are returned in ascending order. With down, only down
// migrations are returned, newest first.
func DiscoverScripts(rootPath string, down bool) ([]DiscoveredFile, error) {
	allFiles, err := Discover(rootPath)
	if err != nil {
		return nil, err
	}

	var scripts []DiscoveredFile
	for _, file := range allFiles {
		if (file.Type == FileTypeDown) == down {
			scripts = append(scripts, file)
		}
	}

	if down {
		slices.Reverse(scripts)
	}

	return scripts, nil
}
