package formatter

import (
	"bytes"
	"fmt"

	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/ushis/m3u"
)

// ExportToM3U writes every playlist as an M3U entry whose path is the playlist URL.
//
// Titles carry the genre (and subgenre) so the flattened list stays readable in a player.
func ExportToM3U(c *models.Catalog) ([]byte, error) {
	entries := c.Flatten()
	plist := make(m3u.Playlist, len(entries))

	for i, e := range entries {
		title := fmt.Sprintf("%s - %s", e.GenreName, e.Name)
		if e.Subgenre != "" {
			title = fmt.Sprintf("%s / %s - %s", e.GenreName, e.Subgenre, e.Name)
		}
		plist[i] = m3u.Track{
			Title: title,
			Path:  e.URL,
			Time:  -1,
		}
	}

	var buf bytes.Buffer
	if _, err := plist.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write playlist: %w", err)
	}
	return buf.Bytes(), nil
}
