package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/wheel"
)

var (
	_ list.Item         = genreItem{}
	_ list.ItemDelegate = genreDelegate{}
)

// genreItem wraps [models.Genre] to implement [list.Item].
type genreItem struct {
	genre models.Genre
}

func (i genreItem) FilterValue() string { return i.genre.Name }
func (i genreItem) Title() string       { return i.genre.Name }
func (i genreItem) Description() string {
	desc := fmt.Sprintf("%d playlists", i.genre.Count())
	if i.genre.HasSubgenres() {
		desc = fmt.Sprintf("%s • %d subgenres", desc, len(i.genre.Subgenres))
	}
	return desc
}

// genreDelegate renders genres one per line, dimming those the current search excludes.
type genreDelegate struct {
	emphasis *wheel.Emphasis
}

func (d genreDelegate) Height() int                             { return 1 }
func (d genreDelegate) Spacing() int                            { return 0 }
func (d genreDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d genreDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	gi, ok := item.(genreItem)
	if !ok {
		return
	}

	line := fmt.Sprintf("  %s  %s", gi.Title(), styles.help.Render(gi.Description()))
	if index == m.Index() {
		line = fmt.Sprintf("> %s  %s", styles.name.Render(gi.Title()), styles.help.Render(gi.Description()))
	}

	if d.emphasis != nil && !d.emphasis.Visible(gi.genre.Key) {
		line = styles.dim.Render(fmt.Sprintf("  %s  %s", gi.Title(), gi.Description()))
	}

	fmt.Fprint(w, line)
}
