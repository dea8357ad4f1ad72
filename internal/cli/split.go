package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cybertec-postgresql/loosesql/internal/discovery"
	"github.com/cybertec-postgresql/loosesql/internal/logger"
	"github.com/cybertec-postgresql/loosesql/internal/parser"
	"github.com/cybertec-postgresql/loosesql/internal/report"
)

// Load splits every script under path. A path of "-" reads one script from stdin.
func Load(ctx context.Context, config *Config, path string, stdin io.Reader) ([]*parser.ParsedSQL, error) {
	if path == StdinPath {
		return readStdin(config, stdin)
	}

	files, err := discovery.Discover(path)
	if err != nil {
		return nil, fmt.Errorf("failed to discover scripts: %w", err)
	}
	logger.Debug("Found %d script(s) in %s", len(files), path)

	return parseFiles(ctx, config, files)
}

// Split splits the scripts under path and writes a report in the configured
// format. With tokens set the report is JSON including every token.
func Split(ctx context.Context, config *Config, path string, outputPath string, tokens bool) error {
	// Step 1: Validate format
	if !tokens && !report.ValidFormat(config.Format) {
		return fmt.Errorf("unsupported format: %s (supported: %v)", config.Format, report.SupportedFormats())
	}

	// Step 2: Get formatter
	var formatter report.Formatter
	if tokens {
		formatter = report.NewJSONReporter(true)
	} else {
		var err error
		formatter, err = report.GetFormatter(report.FormatType(config.Format), config.Delimiter)
		if err != nil {
			return err
		}
	}

	// Step 3: Split scripts
	parsed, err := Load(ctx, config, path, os.Stdin)
	if err != nil {
		return err
	}

	// Step 4: Format and output
	var writer *os.File
	if outputPath == StdinPath || outputPath == "" {
		writer = os.Stdout
	} else {
		writer, err = os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer writer.Close()
	}

	if err := formatter.Format(parsed, writer); err != nil {
		return fmt.Errorf("failed to write %s report: %w", formatter.Name(), err)
	}

	// Written to stderr so it doesn't interfere with stdout output
	if outputPath != StdinPath && outputPath != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	}

	return nil
}
