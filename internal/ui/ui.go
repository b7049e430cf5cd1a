package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/clickwheel/internal/artwork"
	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/wheel"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GenreView ViewState = iota
	WheelView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	browser   *wheel.Browser
	resolver  *artwork.Resolver
	width     int
	height    int
	genres    list.Model
	search    textinput.Model
	searching bool
	emphasis  wheel.Emphasis
	art       artwork.Artwork
	status    string
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model over browser. A nil resolver shows no artwork line.
func NewModel(ctx context.Context, browser *wheel.Browser, resolver *artwork.Resolver) *Model {
	m := &Model{
		ctx:      ctx,
		view:     GenreView,
		browser:  browser,
		resolver: resolver,
		emphasis: browser.Search(""),
		help:     help.New(),
		keys:     newKeyMap(),
	}

	genres := browser.Catalog().Genres()
	items := make([]list.Item, len(genres))
	for i, g := range genres {
		items[i] = genreItem{genre: g}
	}

	m.genres = list.New(items, genreDelegate{emphasis: &m.emphasis}, 60, 20)
	m.genres.Title = "Genres"
	m.genres.SetShowHelp(false)
	m.genres.SetFilteringEnabled(false)
	m.genres.DisableQuitKeybindings()

	m.search = textinput.New()
	m.search.Placeholder = "Search playlists"
	m.search.Prompt = "/ "
	m.search.CharLimit = 64

	return m
}

// Init has nothing to fetch: the catalog is loaded before the program starts.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.genres.SetSize(msg.Width-4, msg.Height-8)
		m.search.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case GenreView:
			return m.handleGenreKeys(msg)
		case WheelView:
			return m.handleWheelKeys(msg)
		}

	case transitionDoneMsg:
		if m.browser.Complete(msg.transition) {
			return m, m.resolveArtwork()
		}
		return m, nil

	case artworkResolvedMsg:
		if current, ok := m.browser.Current(); ok && current.URL == msg.url {
			m.art = msg.artwork
		}
		return m, nil

	case openedMsg:
		m.err = msg.err
		m.status = ""
		if msg.err == nil && msg.name != "" {
			m.status = fmt.Sprintf("Opened %s", msg.name)
		}
		return m, nil
	}

	if m.view == GenreView {
		var cmd tea.Cmd
		m.genres, cmd = m.genres.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case GenreView:
		return m.renderGenres()
	case WheelView:
		return m.renderWheel()
	default:
		return ""
	}
}

func (m *Model) handleGenreKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.back):
		m.clearSearch()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		selected := m.genres.SelectedItem()
		if gi, ok := selected.(genreItem); ok {
			return m.enterGenre(gi.genre.Key)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.genres, cmd = m.genres.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.clearSearch()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		m.selectFirstVisible()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.emphasis = m.browser.Search(m.search.Value())
	return m, cmd
}

func (m *Model) clearSearch() {
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
	m.emphasis = m.browser.Search("")
}

// selectFirstVisible moves the cursor to the first emphasized genre if the current one is dimmed.
func (m *Model) selectFirstVisible() {
	if gi, ok := m.genres.SelectedItem().(genreItem); ok && m.emphasis.Visible(gi.genre.Key) {
		return
	}
	for i, item := range m.genres.Items() {
		if gi, ok := item.(genreItem); ok && m.emphasis.Visible(gi.genre.Key) {
			m.genres.Select(i)
			return
		}
	}
}

func (m *Model) enterGenre(genreKey string) (tea.Model, tea.Cmd) {
	if !m.browser.SelectGenre(genreKey) {
		return m, nil
	}
	m.view = WheelView
	m.status = ""
	m.err = nil
	return m, m.resolveArtwork()
}

func (m *Model) handleWheelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.browser.Exit()
		m.view = GenreView
		m.art = artwork.Artwork{}
		m.status = ""
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.prev):
		return m, m.navigate(wheel.Prev)
	case key.Matches(msg, m.keys.next):
		return m, m.navigate(wheel.Next)
	case key.Matches(msg, m.keys.nextPill):
		return m, m.cyclePill(1)
	case key.Matches(msg, m.keys.prevPill):
		return m, m.cyclePill(-1)
	case key.Matches(msg, m.keys.enter):
		return m, m.openCurrent()
	}
	return m, nil
}

// navigate starts a transition and schedules its completion.
func (m *Model) navigate(dir wheel.Direction) tea.Cmd {
	tr, ok := m.browser.Navigate(dir)
	if !ok {
		return nil
	}
	m.art = artwork.Artwork{}
	return tea.Tick(tr.Duration(), func(time.Time) tea.Msg {
		return transitionDoneMsg{transition: tr}
	})
}

// pills lists the selectable lists of the current genre; "" is the main list.
func (m *Model) pills() []string {
	g, ok := m.browser.Catalog().Genre(m.browser.Snapshot().GenreKey)
	if !ok {
		return nil
	}
	return append([]string{""}, g.SubgenreNames()...)
}

func (m *Model) cyclePill(step int) tea.Cmd {
	pills := m.pills()
	n := len(pills)
	if n <= 1 {
		return nil
	}

	current := m.browser.Snapshot().Subgenre
	i := 0
	for j, name := range pills {
		if name == current {
			i = j
			break
		}
	}

	if !m.browser.SelectSubgenre(pills[(i+step+n)%n]) {
		return nil
	}
	m.art = artwork.Artwork{}
	return m.resolveArtwork()
}

func (m *Model) openCurrent() tea.Cmd {
	current, ok := m.browser.Current()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		err := m.browser.OpenCurrent(m.ctx)
		return openedMsg{name: current.Name, err: err}
	}
}

func (m *Model) resolveArtwork() tea.Cmd {
	if m.resolver == nil {
		return nil
	}
	current, ok := m.browser.Current()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return artworkResolvedMsg{url: current.URL, artwork: m.resolver.Resolve(m.ctx, current)}
	}
}

func (m *Model) renderGenres() string {
	var b strings.Builder
	b.WriteString(m.genres.View())
	b.WriteString("\n\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		if !m.emphasis.All && len(m.emphasis.Genres) == 0 {
			b.WriteString("  " + styles.warn.Render("no matches"))
		}
		b.WriteString("\n\n")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.quit}
	if m.searching {
		helpKeys = []key.Binding{m.keys.enter, m.keys.back}
	}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderWheel() string {
	state := m.browser.Snapshot()

	var b strings.Builder
	b.WriteString(styles.title.Render(state.GenreName))
	b.WriteString("\n")

	if pills := m.pills(); len(pills) > 1 {
		b.WriteString(renderPills(pills, state.Subgenre))
		b.WriteString("\n\n")
	}

	current, ok := state.Current()
	if !ok {
		b.WriteString(styles.warn.Render("No playlists in this list"))
	} else {
		b.WriteString(m.renderPlaylist(current, state))
	}

	if m.err != nil {
		b.WriteString("\n\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.status != "" {
		b.WriteString("\n\n" + styles.ok.Render(m.status))
	}

	helpKeys := []key.Binding{m.keys.prev, m.keys.next, m.keys.enter, m.keys.back, m.keys.quit}
	if len(m.pills()) > 1 {
		helpKeys = []key.Binding{m.keys.prev, m.keys.next, m.keys.nextPill, m.keys.enter, m.keys.back, m.keys.quit}
	}
	b.WriteString("\n\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderPlaylist(p models.Playlist, state wheel.State) string {
	name := styles.name.Render(p.Name)
	if state.Animating {
		name = styles.dim.Render(p.Name)
	}

	lines := []string{
		name,
		styles.help.Render(fmt.Sprintf("%d / %d", state.Position(), len(state.ActiveList))),
	}

	if p.GenreTag != "" {
		lines = append(lines, "", styles.ok.Render(p.GenreTag))
	}
	if p.GenreDesc != "" {
		lines = append(lines, p.GenreDesc)
	}
	if p.RYMURL != "" {
		lines = append(lines, styles.help.Render(p.RYMURL))
	}

	if m.resolver != nil && m.art.Ref != "" {
		lines = append(lines, "", styles.help.Render(fmt.Sprintf("artwork: %s (%s)", m.art.Ref, m.art.Source)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPills(pills []string, active string) string {
	rendered := make([]string, len(pills))
	for i, name := range pills {
		label := strings.ToUpper(name)
		if name == "" {
			label = "ALL"
		}
		if name == active {
			rendered[i] = styles.active.Render(label)
		} else {
			rendered[i] = styles.pill.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
