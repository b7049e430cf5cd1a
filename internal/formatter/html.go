package formatter

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// ExportToHTML renders the Markdown export as a standalone HTML page.
func ExportToHTML(c *models.Catalog, art ArtworkFunc) ([]byte, error) {
	src, err := ExportToMarkdown(c, art)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	var body bytes.Buffer
	if err := md.Convert(src, &body); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	var out bytes.Buffer
	err = page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: "Playlists",
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return out.Bytes(), nil
}
