// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// pageFlags are shared by every collection-fetching command.
func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "index",
			Usage: "Offset into the fetched collection",
			Value: 0,
		},
		&cli.IntFlag{
			Name:    "quantity",
			Aliases: []string{"n"},
			Usage:   "Number of items to return",
			Value:   50,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: table, csv, or md",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write formatted output to a file instead of stdout",
		},
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Create a configuration file from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage SoundCloud authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with SoundCloud using OAuth2 + PKCE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Reauthorize even when already logged in",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and clear stored credentials",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Check current authentication state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "whoami",
						Usage: "Also fetch the authenticated user's profile",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Store a static API key from a browser cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.AuthImport,
			},
		},
	}
}

// tracksCommand handles track collection and metadata operations
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracks",
		Aliases: []string{"t"},
		Usage:   "Search, browse, and manage tracks",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search the track catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  pageFlags(),
				Action: r.TracksSearch,
			},
			{
				Name:   "likes",
				Usage:  "List your liked tracks",
				Flags:  pageFlags(),
				Action: r.TracksLikes,
			},
			{
				Name:   "stream",
				Usage:  "List recent tracks from your activity stream",
				Flags:  pageFlags(),
				Action: r.TracksStream,
			},
			{
				Name:  "related",
				Usage: "List tracks related to a track",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  pageFlags(),
				Action: r.TracksRelated,
			},
			{
				Name:  "get",
				Usage: "Show a single track's metadata (cache-first)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
				},
				Action: r.TrackGet,
			},
			{
				Name:  "like",
				Usage: "Like a track",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TrackLike,
			},
			{
				Name:  "unlike",
				Usage: "Remove a like from a track",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TrackUnlike,
			},
		},
	}
}

// playlistsCommand handles playlist operations
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Browse your playlists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your playlists",
				Flags:  pageFlags(),
				Action: r.PlaylistsList,
			},
			{
				Name:  "tracks",
				Usage: "List the tracks of a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  pageFlags(),
				Action: r.PlaylistTracks,
			},
		},
	}
}

// usersCommand handles profile and social graph operations
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Profile and followings operations",
		Commands: []*cli.Command{
			{
				Name:  "me",
				Usage: "Show the authenticated user's profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
				},
				Action: r.UsersMe,
			},
			{
				Name:   "followings",
				Usage:  "List the users you follow, sorted by name",
				Flags:  pageFlags(),
				Action: r.UsersFollowings,
			},
			{
				Name:  "follow",
				Usage: "Follow a user",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.UserFollow,
			},
			{
				Name:  "unfollow",
				Usage: "Unfollow a user",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.UserUnfollow,
			},
		},
	}
}

// cacheCommand handles entity cache inspection and maintenance
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and maintain the entity cache",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show a cached track without touching the network",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
				},
				Action: r.CacheShow,
			},
			{
				Name:   "purge",
				Usage:  "Remove expired entries from the cache",
				Action: r.CachePurge,
			},
			{
				Name:  "clear",
				Usage: "Remove ALL entries, including stored credentials",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive playlist browser",
		Action:  r.TUI,
	}
}
