// package formatter exports a playlist catalog to various formats (CSV, Markdown, HTML, M3U, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/shared"
)

// Format names an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "md"
	HTML     Format = "html"
	M3U      Format = "m3u"
	Text     Format = "txt"
)

// Formats lists the supported export formats.
var Formats = []Format{CSV, Markdown, HTML, M3U, Text}

// ParseFormat accepts a format name or one of its common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "md", "markdown":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	case "m3u", "m3u8":
		return M3U, nil
	case "txt", "text", "plain":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
	}
}

// ArtworkFunc returns the artwork reference for a playlist, or "" to omit it.
type ArtworkFunc func(models.Playlist) string

// ExportToCSV converts a catalog to CSV format with columns: Genre, Subgenre, Name, URL, Tag
//
// Rows follow [models.Catalog.Flatten]: each genre's main list, then its subgenres in order.
func ExportToCSV(c *models.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Genre", "Subgenre", "Name", "URL", "Tag"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range c.Flatten() {
		record := []string{
			entry.GenreKey,
			entry.Subgenre,
			entry.Name,
			entry.URL,
			entry.GenreTag,
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

// ExportToMarkdown converts a catalog to Markdown, one section per genre and one subsection per subgenre.
//
// When art is non-nil, each playlist with a non-placeholder reference gets an image line.
func ExportToMarkdown(c *models.Catalog, art ArtworkFunc) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Playlists\n\n")
	buf.WriteString(fmt.Sprintf("**Genres**: %d\n", c.Len()))
	buf.WriteString(fmt.Sprintf("**Playlists**: %d\n", len(c.Flatten())))

	writeList := func(playlists []models.Playlist) {
		for i, p := range playlists {
			buf.WriteString(fmt.Sprintf("%d. [%s](%s)", i+1, p.Name, p.URL))
			if p.GenreTag != "" {
				buf.WriteString(fmt.Sprintf(" *%s*", p.GenreTag))
			}
			buf.WriteString("\n")
			if p.GenreDesc != "" {
				buf.WriteString(fmt.Sprintf("   %s\n", p.GenreDesc))
			}
			if p.RYMURL != "" {
				buf.WriteString(fmt.Sprintf("   [RYM](%s)\n", p.RYMURL))
			}
			if art != nil {
				if ref := art(p); ref != "" {
					buf.WriteString(fmt.Sprintf("   ![%s](%s)\n", p.Name, ref))
				}
			}
		}
	}

	for _, g := range c.Genres() {
		buf.WriteString(fmt.Sprintf("\n## %s\n\n", g.Name))
		if len(g.Playlists) == 0 && !g.HasSubgenres() {
			buf.WriteString("_No playlists_\n")
			continue
		}
		writeList(g.Playlists)

		for _, sub := range g.Subgenres {
			buf.WriteString(fmt.Sprintf("\n### %s\n\n", sub.Name))
			writeList(sub.Playlists)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a catalog to plain text format
func ExportToText(c *models.Catalog) ([]byte, error) {
	var buf bytes.Buffer

	for i, g := range c.Genres() {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(fmt.Sprintf("%s (%d)\n", g.Name, g.Count()))
		for j, p := range g.Playlists {
			buf.WriteString(fmt.Sprintf("  %d. %s - %s\n", j+1, p.Name, p.URL))
		}
		for _, sub := range g.Subgenres {
			buf.WriteString(fmt.Sprintf("  [%s]\n", sub.Name))
			for j, p := range sub.Playlists {
				buf.WriteString(fmt.Sprintf("    %d. %s - %s\n", j+1, p.Name, p.URL))
			}
		}
	}

	return buf.Bytes(), nil
}

// Export renders c in the given format.
func Export(c *models.Catalog, format Format, art ArtworkFunc) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(c)
	case Markdown:
		return ExportToMarkdown(c, art)
	case HTML:
		return ExportToHTML(c, art)
	case M3U:
		return ExportToM3U(c)
	case Text:
		return ExportToText(c)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport exports c to a file.
//
// Defaults to catalog.{format} as the filename.
func WriteExport(c *models.Catalog, format Format, filepath string, art ArtworkFunc) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("catalog.%s", format)
	}

	data, err := Export(c, format, art)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}
