// package formatter provides functions to export fetched track lists to various formats (CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/desertthunder/sndx/internal/models"
)

// TracksToCSV converts tracks to CSV with columns: ID, Title, Artist, Duration, Genre, Permalink
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Duration", "Genre", "Permalink"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			strconv.Itoa(track.Duration / 1000), // seconds
			track.Genre,
			track.PermalinkURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToMarkdown converts tracks to a Markdown table with an optional title heading
func TracksToMarkdown(tracks []models.Track, title string) []byte {
	var buf bytes.Buffer

	if title != "" {
		buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	}

	buf.WriteString("| # | Title | Artist | Duration | Genre |\n")
	buf.WriteString("|---|-------|--------|----------|-------|\n")

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1,
			track.Title,
			track.Artist,
			formatDuration(track.Duration),
			track.Genre,
		))
	}

	return buf.Bytes()
}

// formatDuration renders milliseconds as m:ss.
func formatDuration(ms int) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Entities filters an entity slice down to its tracks.
func Entities(items []models.Entity) []models.Track {
	var tracks []models.Track
	for _, item := range items {
		if track, ok := item.(models.Track); ok {
			tracks = append(tracks, track)
		}
	}
	return tracks
}
