package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/bookfreq/internal/corpus"
	"github.com/dtnitsch/bookfreq/internal/db"
	"github.com/dtnitsch/bookfreq/internal/fetch"
	"github.com/dtnitsch/bookfreq/models"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(2)
	}
}

func newApp() *cli.App {
	topFlag := func() cli.Flag {
		return &cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "number of words to keep and show, 1 to 10 (default from config: 10)",
		}
	}

	return &cli.App{
		Name:  "bookfreq",
		Usage: "Top word frequencies for plain-text books, stored locally",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   models.DefaultConfigFile,
				Usage:   "path to the YAML config file (optional)",
			},
			&cli.StringFlag{
				Name:  "db-driver",
				Usage: "store driver: sqlite or postgres",
			},
			&cli.StringFlag{
				Name:  "db-dsn",
				Usage: "sqlite file path or postgres connection string",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "output format: text, yaml or json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write output to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "write Prometheus metrics to this textfile on exit",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Look up the stored top words of a book title",
				ArgsUsage: "<title>",
				Action:    db.SearchAction,
			},
			{
				Name:      "fetch",
				Usage:     "Download a plain-text book, count its words and save them",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					topFlag(),
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "show a download progress bar on stderr",
					},
					&cli.BoolFlag{
						Name:  "html-text",
						Usage: "count the visible text of HTML pages instead of the raw markup",
					},
					&cli.BoolFlag{
						Name:  "force-fetch",
						Usage: "ignore the text cache and download again",
					},
				},
				Action: fetch.FetchAction,
			},
			{
				Name:   "books",
				Usage:  "List stored books",
				Action: db.BooksAction,
			},
			{
				Name:   "corpus",
				Usage:  "Top words across every stored book",
				Flags:  []cli.Flag{topFlag()},
				Action: corpus.CorpusAction,
			},
			{
				Name:      "delete",
				Usage:     "Remove a stored book by exact title",
				ArgsUsage: "<title>",
				Action:    db.DeleteAction,
			},
		},
	}
}
