package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sndx/internal/shared"
	"github.com/desertthunder/sndx/internal/store"
	"github.com/urfave/cli/v3"
)

// CacheShow displays a cached track without touching the network.
//
// A track counts as cached only while its sentinel key is live, so partially
// written or expired entries read as misses.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track ID required", shared.ErrMissingArgument)
	}

	track, ok, err := r.client.Cache().ReadTrack(id)
	if err != nil {
		return fmt.Errorf("cache read failed: %w", err)
	}
	if !ok {
		r.writePlain("Track %s is not cached.\n", id)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlain("Title: %s\n", track.Title)
	r.writePlain("Artist: %s\n", track.Artist)
	secs := track.Duration / 1000
	r.writePlain("Duration: %d:%02d\n", secs/60, secs%60)
	if track.Genre != "" {
		r.writePlain("Genre: %s\n", track.Genre)
	}
	r.writePlain("Plays: %d  Likes: %d\n", track.PlaybackCnt, track.LikesCount)

	return nil
}

// CachePurge removes expired entries from the SQLite store.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	sqlite, ok := r.store.(*store.SQLiteStore)
	if !ok {
		r.writePlain("In-memory store expires entries on read; nothing to purge.\n")
		return nil
	}

	removed, err := sqlite.Purge()
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	r.writePlain("✓ Removed %d expired entries\n", removed)
	return nil
}

// CacheClear removes every entry from the store, credentials included.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		r.writePlain("This removes all cached entities AND stored credentials.\n")
		r.writePlain("Re-run with --yes to confirm.\n")
		return nil
	}

	sqlite, ok := r.store.(*store.SQLiteStore)
	if !ok {
		return fmt.Errorf("%w: no database store configured", shared.ErrNotConfigured)
	}

	if err := sqlite.Clear(); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	r.logger.Info("store cleared")
	r.writePlain("✓ Store cleared; run 'sndx auth login' to reauthenticate\n")
	return nil
}
