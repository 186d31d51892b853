// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand writes a config file and prepares the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml from the template, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "rollback", Usage: "Revert the latest applied migration instead"},
		},
		Action: r.Setup,
	}
}

// searchCommand runs a title search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search movies by title",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "year",
				Aliases: []string{"y"},
				Usage:   "Year of release",
			},
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Result type: movie, series or episode",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page (1-100)",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Search,
	}
}

// showCommand prints one movie's detail record.
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show details for a movie by IMDb identifier",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "full",
				Usage: "Request the full plot",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the IMDb page in a browser",
			},
		},
		Action: r.Show,
	}
}

// favoritesCommand groups operations on the persisted favorites list.
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List favorites",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Look a movie up by identifier and add it to favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a movie from favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:  "export",
				Usage: "Export favorites to JSON, CSV, Markdown or text",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: mvx_export_{timestamp})",
					},
					&cli.BoolFlag{
						Name:  "details",
						Usage: "Fetch detail records for every favorite",
					},
					&cli.BoolFlag{
						Name:  "posters",
						Usage: "Download posters (markdown only)",
					},
				}, batchFlags()...),
				Action: r.FavoritesExport,
			},
			{
				Name:   "refresh",
				Usage:  "Re-fetch every favorite and store the current summaries",
				Flags:  batchFlags(),
				Action: r.FavoritesRefresh,
			},
		},
	}
}

// batchFlags tune the detail fetches of export and refresh.
func batchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent detail requests (default from config)",
		},
		&cli.FloatFlag{
			Name:  "rate",
			Usage: "Detail requests per second (default from config)",
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie search",
		Action:  r.TUI,
	}
}

// serveCommand starts the local JSON surface.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the search and favorites API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Address to bind (default from config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (default from config)",
			},
		},
		Action: r.Serve,
	}
}
