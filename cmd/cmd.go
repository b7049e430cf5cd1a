// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

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

func genreFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "genre",
			Aliases:  []string{"g"},
			Usage:    "Genre key",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "subgenre",
			Aliases: []string{"s"},
			Usage:   "Subgenre name (default: the genre's main list)",
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive click wheel",
		Action:  r.TUI,
	}
}

// genresCommand lists the catalog's genres
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "genres",
		Usage:  "List genres with playlist counts",
		Flags:  jsonFlags(),
		Action: r.Genres,
	}
}

// playlistsCommand lists the active list for a genre or subgenre
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "playlists",
		Usage:  "List the playlists of a genre or subgenre",
		Flags:  append(genreFlags(), jsonFlags()...),
		Action: r.Playlists,
	}
}

// searchCommand matches playlist names across the catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Find genres with a playlist whose name contains QUERY",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags:  jsonFlags(),
		Action: r.Search,
	}
}

// openCommand opens a playlist in the system browser
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Open a playlist in the default browser",
		Flags: append(genreFlags(),
			&cli.IntFlag{
				Name:    "index",
				Aliases: []string{"i"},
				Usage:   "1-based position in the list",
				Value:   1,
			},
			&cli.BoolFlag{
				Name:  "print",
				Usage: "Print the URL instead of opening it",
			},
		),
		Action: r.Open,
	}
}

// artworkCommand inspects and updates the artwork cache
func artworkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artwork",
		Usage: "Inspect and update the artwork cache",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show the artwork for a playlist URL without touching the network",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Flags:  jsonFlags(),
				Action: r.ArtworkGet,
			},
			{
				Name:  "set",
				Usage: "Store an artwork reference for a playlist URL",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
					&cli.StringArg{Name: "ref"},
				},
				Action: r.ArtworkSet,
			},
			{
				Name:  "resolve",
				Usage: "Fetch and cache artwork for one playlist URL, or the whole catalog with --all",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Flags: append(jsonFlags(),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Resolve every playlist in the catalog",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent fetches for --all (max 10)",
						Value:   4,
					},
				),
				Action: r.ArtworkResolve,
			},
			{
				Name:   "list",
				Usage:  "List cached artwork",
				Flags:  jsonFlags(),
				Action: r.ArtworkList,
			},
			{
				Name:  "delete",
				Usage: "Remove the cached artwork for a playlist URL",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Action: r.ArtworkDelete,
			},
		},
	}
}

// catalogCommand validates and exports the catalog
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Catalog maintenance",
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Check every playlist has a name and an absolute http(s) URL",
				Action: r.CatalogValidate,
			},
			{
				Name:  "export",
				Usage: "Export the catalog as CSV, Markdown, HTML, M3U or plain text",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, md, html, m3u, txt)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
					&cli.BoolFlag{
						Name:  "artwork",
						Usage: "Include cached artwork in Markdown and HTML exports",
					},
				},
				Action: r.CatalogExport,
			},
		},
	}
}

// serveCommand runs the JSON catalog API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog as a JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address (default: server.addr from config)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the artwork cache database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (default: the --config path)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}
