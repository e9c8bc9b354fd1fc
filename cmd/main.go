package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/sndx/internal/shared"
	"github.com/desertthunder/sndx/internal/store"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	opts := RunnerOpts{Config: config, Logger: logger}

	// Credentials and cached entities live in SQLite when the database has
	// been set up; otherwise NewRunner falls back to an in-memory store.
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warnf("failed to run migrations: %v", err)
			db.Close()
		} else {
			opts.Store = store.NewSQLiteStore(db)
			opts.DB = db
		}
	} else {
		logger.Debugf("database unavailable: %v", err)
	}

	runner := NewRunner(opts)
	defer func() {
		if runner.db != nil {
			runner.db.Close()
		}
	}()

	app := &cli.Command{
		Name:     "sndx",
		Usage:    "Browse and manage your SoundCloud library from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
