package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/sndx/internal/formatter"
	"github.com/desertthunder/sndx/internal/models"
	"github.com/desertthunder/sndx/internal/shared"
	"github.com/desertthunder/sndx/internal/soundcloud"
	"github.com/urfave/cli/v3"
)

// renderPage writes a fetched collection window in the requested format.
//
// --json wins over --format; csv and md only apply to track collections.
func (r *Runner) renderPage(cmd *cli.Command, page *soundcloud.Page, title string) error {
	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	format := cmd.String("format")
	outputPath := cmd.String("output")

	var rendered []byte
	switch format {
	case "csv":
		data, err := formatter.TracksToCSV(formatter.Entities(page.Items))
		if err != nil {
			return err
		}
		rendered = data
	case "md", "markdown":
		rendered = formatter.TracksToMarkdown(formatter.Entities(page.Items), title)
	case "", "table":
		return r.renderTable(page, title)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, rendered, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		r.writePlain("✓ Wrote %d items to %s\n", len(page.Items), outputPath)
		return nil
	}

	return r.writeRaw(rendered)
}

// renderTable prints a plain aligned listing of the window.
func (r *Runner) renderTable(page *soundcloud.Page, title string) error {
	if title != "" {
		r.writePlain("%s (%d of %d)\n\n", title, len(page.Items), page.Total)
	}

	for i, item := range page.Items {
		switch entity := item.(type) {
		case models.Track:
			r.writePlain("%3d. %s — %s [%s]\n", page.Index+i+1, entity.Artist, entity.Title, entity.ID)
		case models.Playlist:
			r.writePlain("%3d. %s (%d tracks) [%s]\n", page.Index+i+1, entity.Title, entity.TrackCount, entity.ID)
		case models.User:
			r.writePlain("%3d. %s [%s]\n", page.Index+i+1, entity.SortName(), entity.ID)
		default:
			r.writePlain("%3d. %s [%s]\n", page.Index+i+1, entity.SortName(), entity.EntityID())
		}
	}

	if len(page.Items) == 0 {
		r.writePlain("No items.\n")
	}

	return nil
}

// TracksSearch searches the track catalog.
func (r *Runner) TracksSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query required", shared.ErrMissingArgument)
	}

	page, err := r.client.Tracks(ctx, query, cmd.Int("index"), cmd.Int("quantity"))
	if err != nil {
		return fmt.Errorf("track search failed: %w", err)
	}

	return r.renderPage(cmd, page, fmt.Sprintf("Tracks matching %q", query))
}

// TracksLikes lists the authenticated user's liked tracks.
func (r *Runner) TracksLikes(ctx context.Context, cmd *cli.Command) error {
	page, err := r.client.Likes(ctx, cmd.Int("index"), cmd.Int("quantity"))
	if err != nil {
		return fmt.Errorf("failed to fetch likes: %w", err)
	}

	return r.renderPage(cmd, page, "Liked tracks")
}

// TracksStream lists recent tracks from the activity stream.
func (r *Runner) TracksStream(ctx context.Context, cmd *cli.Command) error {
	page, err := r.client.Stream(ctx, cmd.Int("index"), cmd.Int("quantity"))
	if err != nil {
		return fmt.Errorf("failed to fetch stream: %w", err)
	}

	return r.renderPage(cmd, page, "Stream")
}

// TracksRelated lists tracks related to the given track.
func (r *Runner) TracksRelated(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track ID required", shared.ErrMissingArgument)
	}

	page, err := r.client.Related(ctx, id, cmd.Int("index"), cmd.Int("quantity"))
	if err != nil {
		return fmt.Errorf("failed to fetch related tracks: %w", err)
	}

	return r.renderPage(cmd, page, fmt.Sprintf("Tracks related to %s", id))
}

// TrackGet shows a single track's metadata, served from cache when possible.
func (r *Runner) TrackGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track ID required", shared.ErrMissingArgument)
	}

	track, err := r.client.Track(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch track %s: %w", id, err)
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
	if track.PermalinkURL != "" {
		r.writePlain("URL: %s\n", track.PermalinkURL)
	}

	return nil
}

// TrackLike likes a track.
func (r *Runner) TrackLike(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track ID required", shared.ErrMissingArgument)
	}

	if err := r.client.LikeTrack(ctx, id); err != nil {
		return fmt.Errorf("failed to like track %s: %w", id, err)
	}

	r.writePlain("✓ Liked track %s\n", id)
	return nil
}

// TrackUnlike removes a like from a track.
func (r *Runner) TrackUnlike(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track ID required", shared.ErrMissingArgument)
	}

	if err := r.client.UnlikeTrack(ctx, id); err != nil {
		return fmt.Errorf("failed to unlike track %s: %w", id, err)
	}

	r.writePlain("✓ Unliked track %s\n", id)
	return nil
}

// PlaylistsList lists the authenticated user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	page, err := r.client.Playlists(ctx, cmd.Int("index"), cmd.Int("quantity"))
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}

	return r.renderPage(cmd, page, "Playlists")
}

// PlaylistTracks lists the tracks of a playlist.
func (r *Runner) PlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist ID required", shared.ErrMissingArgument)
	}

	page, err := r.client.PlaylistTracks(ctx, id, cmd.Int("index"), cmd.Int("quantity"))
	if err != nil {
		return fmt.Errorf("failed to fetch playlist tracks: %w", err)
	}

	return r.renderPage(cmd, page, fmt.Sprintf("Playlist %s", id))
}

// UsersMe shows the authenticated user's profile.
func (r *Runner) UsersMe(ctx context.Context, cmd *cli.Command) error {
	me, err := r.client.Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(me, cmd.Bool("pretty"))
	}

	r.writePlain("Username: %s\n", me.Username)
	if me.FullName != "" {
		r.writePlain("Name: %s\n", me.FullName)
	}
	r.writePlain("ID: %s\n", me.ID)
	if me.PermalinkURL != "" {
		r.writePlain("URL: %s\n", me.PermalinkURL)
	}

	return nil
}

// UsersFollowings lists the users the authenticated user follows.
func (r *Runner) UsersFollowings(ctx context.Context, cmd *cli.Command) error {
	page, err := r.client.Followings(ctx, cmd.Int("index"), cmd.Int("quantity"))
	if err != nil {
		return fmt.Errorf("failed to fetch followings: %w", err)
	}

	return r.renderPage(cmd, page, "Followings")
}

// UserFollow follows a user.
func (r *Runner) UserFollow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: user ID required", shared.ErrMissingArgument)
	}

	if err := r.client.FollowUser(ctx, id); err != nil {
		return fmt.Errorf("failed to follow user %s: %w", id, err)
	}

	r.writePlain("✓ Following user %s\n", id)
	return nil
}

// UserUnfollow unfollows a user.
func (r *Runner) UserUnfollow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: user ID required", shared.ErrMissingArgument)
	}

	if err := r.client.UnfollowUser(ctx, id); err != nil {
		return fmt.Errorf("failed to unfollow user %s: %w", id, err)
	}

	r.writePlain("✓ Unfollowed user %s\n", id)
	return nil
}
