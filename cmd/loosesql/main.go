package main

import (
	"context"
	"fmt"
	"os"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/cybertec-postgresql/loosesql/internal/cli"
	"github.com/cybertec-postgresql/loosesql/internal/logger"
)

const version = "1.0.0"

// sharedFlags are accepted by every command
func sharedFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "delimiter",
			Aliases: []string{"d"},
			Usage:   "Statement delimiter (e.g. ;, GO, $$ or \\n/ for a slash on its own line)",
		},
		&urfavecli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration file; flags override its values",
		},
		&urfavecli.IntFlag{
			Name:  "parallel",
			Usage: "Maximum files processed concurrently (1 = sequential)",
		},
		&urfavecli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug output",
		},
	}
}

// reportFlags are accepted by split and tokens
func reportFlags() []urfavecli.Flag {
	return append(sharedFlags(),
		&urfavecli.StringFlag{
			Name:  "format",
			Usage: "Output format (text, json, or sql)",
		},
		&urfavecli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (use - for stdout)",
			Value:   "-",
		},
	)
}

func main() {
	app := &urfavecli.Command{
		Name:    "loosesql",
		Usage:   "Lenient multi-dialect SQL statement splitter",
		Version: version,
		Commands: []*urfavecli.Command{
			{
				Name:      "split",
				Usage:     "Split SQL scripts into statements",
				ArgsUsage: "[path|-]",
				Action:    splitCommand(false),
				Flags:     reportFlags(),
			},
			{
				Name:      "tokens",
				Usage:     "Dump the tokens of every statement as JSON",
				ArgsUsage: "[path|-]",
				Action:    splitCommand(true),
				Flags:     reportFlags(),
			},
			{
				Name:      "exec",
				Usage:     "Execute SQL scripts statement by statement",
				ArgsUsage: "[path|-]",
				Action:    execCommand,
				Flags: append(sharedFlags(),
					&urfavecli.StringFlag{
						Name:    "connection",
						Aliases: []string{"c"},
						Usage:   "Connection string (PostgreSQL URI/key=value or MySQL DSN)",
					},
					&urfavecli.StringFlag{
						Name:  "driver",
						Usage: "Database driver (postgres or mysql); detected from the connection string when empty",
					},
					&urfavecli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-statement timeout (0 = none)",
					},
					&urfavecli.BoolFlag{
						Name:  "continue-on-error",
						Usage: "Keep executing after a failed statement",
					},
					&urfavecli.StringFlag{
						Name:  "journal",
						Usage: "Progress journal path; completed statements are skipped on the next run",
					},
					&urfavecli.BoolFlag{
						Name:  "down",
						Usage: "Run *.down.sql scripts in reverse order",
					},
				),
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration from defaults, the optional config file
// and flags. Invalid configuration exits with code 2.
func loadConfig(cmd *urfavecli.Command) *cli.Config {
	config := cli.DefaultConfig
	cfg := &config

	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = cli.LoadConfigFile(path, config); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	}

	cli.ApplyFlagsToConfig(cfg, cli.Flags{
		Delimiter:       cmd.String("delimiter"),
		Connection:      cmd.String("connection"),
		Driver:          cmd.String("driver"),
		Timeout:         cmd.Duration("timeout"),
		Parallel:        cmd.Int("parallel"),
		ContinueOnError: cmd.Bool("continue-on-error"),
		Journal:         cmd.String("journal"),
		Format:          cmd.String("format"),
		Verbose:         cmd.Bool("verbose"),
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger.SetVerbose(cfg.Verbose)
	return cfg
}

// searchPath returns the first argument, defaulting to the current directory
func searchPath(cmd *urfavecli.Command) string {
	if path := cmd.Args().First(); path != "" {
		return path
	}
	return "."
}

// splitCommand handles 'loosesql split' and 'loosesql tokens'
func splitCommand(tokens bool) urfavecli.ActionFunc {
	return func(ctx context.Context, cmd *urfavecli.Command) error {
		config := loadConfig(cmd)
		return cli.Split(ctx, config, searchPath(cmd), cmd.String("output"), tokens)
	}
}

// execCommand handles the 'loosesql exec' command
func execCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config := loadConfig(cmd)

	exitCode, err := cli.Exec(ctx, config, searchPath(cmd), cmd.Bool("down"))
	if err != nil {
		if exitCode == 2 {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		return err
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}

	return nil
}
