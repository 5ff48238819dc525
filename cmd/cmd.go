// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func wordsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "words",
		Usage: "Comma or space separated words to sync instead of the source ranges",
	}
}

// setupCommand handles config, database and target header setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the latest migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "headers",
				Usage:  "Write the header row into an empty target",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupHeaders,
			},
		},
	}
}

// syncCommand handles vocabulary sync operations
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync new words from the source spreadsheet to the target",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Look up every new word and append it to the target",
				Flags: []cli.Flag{
					configFlag(),
					wordsFlag(),
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Compute the worklist without looking anything up",
					},
					&cli.StringFlag{
						Name:  "report-format",
						Usage: "Report format: text, markdown, csv or json",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "report-file",
						Aliases: []string{"o"},
						Usage:   "Write the run report to a file",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the target spreadsheet in the browser when done",
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:   "plan",
				Usage:  "Show candidates, existing words and the worklist",
				Flags:  append([]cli.Flag{configFlag(), wordsFlag()}, jsonFlags()...),
				Action: r.SyncPlan,
			},
		},
	}
}

// wordsCommand handles source and target word listings
func wordsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "words",
		Usage: "Inspect source and target words",
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "List candidate words found in the source ranges",
				Flags:  append([]cli.Flag{configFlag()}, jsonFlags()...),
				Action: r.WordsExtract,
			},
			{
				Name:   "existing",
				Usage:  "List words already in the target",
				Flags:  append([]cli.Flag{configFlag()}, jsonFlags()...),
				Action: r.WordsExisting,
			},
		},
	}
}

// lookupCommand fetches a single dictionary entry
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "Look up a word in the dictionary",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "word",
			},
		},
		Flags:  append([]cli.Flag{configFlag()}, jsonFlags()...),
		Action: r.Lookup,
	}
}

// historyCommand handles recorded sync runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect recorded sync runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs",
				Flags: append([]cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
				}, jsonFlags()...),
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show a run and its failed words",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags:  append([]cli.Flag{configFlag()}, jsonFlags()...),
				Action: r.HistoryShow,
			},
			{
				Name:  "failed",
				Usage: "Print the failed words of a run, one per line",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.HistoryFailed,
			},
			{
				Name:  "serve",
				Usage: "Serve run history as a read-only JSON API",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Address to listen on",
						Value: "127.0.0.1:8080",
					},
				},
				Action: r.HistoryServe,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive sync dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive sync dashboard",
		Flags: []cli.Flag{
			configFlag(),
			wordsFlag(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs are written while the dashboard is open",
				Value: "./tmp/vocx-tui.log",
			},
		},
		Action: r.TUI,
	}
}
