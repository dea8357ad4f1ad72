package cli

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/cybertec-postgresql/loosesql/internal/discovery"
	"github.com/cybertec-postgresql/loosesql/internal/logger"
	"github.com/cybertec-postgresql/loosesql/internal/parser"
)

// StdinPath is the path argument that reads the script from standard input
const StdinPath = "-"

// stdinName is the file name reported for standard input
const stdinName = "<stdin>"

// readStdin parses the whole of r as a single script
func readStdin(config *Config, r io.Reader) ([]*parser.ParsedSQL, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}
	parsed, err := parser.ParseText(stdinName, string(data), config.ScanOptions())
	if err != nil {
		return nil, err
	}
	return []*parser.ParsedSQL{parsed}, nil
}

// parseFiles scans files concurrently, at most config.Parallelism at a time.
// Results keep the order of files.
func parseFiles(ctx context.Context, config *Config, files []discovery.DiscoveredFile) ([]*parser.ParsedSQL, error) {
	parsed := make([]*parser.ParsedSQL, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Parallelism, 1))
	for i := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := parser.Parse(&files[i], config.ScanOptions())
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", files[i].RelativePath, err)
			}
			logger.Debug("%s: %d statement(s), %d empty", files[i].RelativePath, len(p.Statements), p.Empty)
			parsed[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return parsed, nil
}
