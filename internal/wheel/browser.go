package wheel

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/clickwheel/internal/models"
)

// Direction is a navigation step along the active list.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// SwipeThreshold is the minimum horizontal travel that counts as a swipe.
const SwipeThreshold = 50

// Phase is the browser's coarse state.
type Phase int

const (
	Idle Phase = iota
	GenreSelected
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case GenreSelected:
		return "genre-selected"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Opener launches a playlist URL in a browsing context detached from the caller.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Timing splits a transition into its outgoing and incoming halves.
type Timing struct {
	Exit  time.Duration
	Enter time.Duration
}

// DefaultTiming matches the site's slide-out/slide-in animation.
var DefaultTiming = Timing{Exit: 200 * time.Millisecond, Enter: 300 * time.Millisecond}

// Transition describes one in-flight change of the displayed playlist.
type Transition struct {
	ID        uint64
	Direction Direction
	From      int
	To        int
	Exit      time.Duration
	Enter     time.Duration
}

// Duration is the full length of the transition.
func (t Transition) Duration() time.Duration { return t.Exit + t.Enter }

// State is a copy of the browser's mutable fields.
type State struct {
	Phase      Phase
	GenreKey   string
	GenreName  string
	Subgenre   string // empty means the genre's main list
	ActiveList []models.Playlist
	Index      int
	Animating  bool
}

// Current returns the playlist at Index.
func (s State) Current() (models.Playlist, bool) {
	if len(s.ActiveList) == 0 {
		return models.Playlist{}, false
	}
	return s.ActiveList[s.Index], true
}

// Position is the 1-based index shown in the wheel indicator, or 0 for an empty list.
func (s State) Position() int {
	if len(s.ActiveList) == 0 {
		return 0
	}
	return s.Index + 1
}

// Browser is the single controller for playlist browsing.
type Browser struct {
	mu       sync.Mutex
	catalog  *models.Catalog
	opener   Opener
	logger   *log.Logger
	timing   Timing
	genre    *models.Genre
	subgenre string
	list     []models.Playlist
	index    int
	seq      uint64
	inflight uint64
}

// Option configures a [Browser].
type Option func(*Browser)

// WithOpener sets the outbound URL opener used by [Browser.OpenCurrent].
func WithOpener(o Opener) Option {
	return func(b *Browser) { b.opener = o }
}

// WithLogger sets the logger. No-op operations are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(b *Browser) { b.logger = l }
}

// WithTiming overrides [DefaultTiming].
func WithTiming(t Timing) Option {
	return func(b *Browser) { b.timing = t }
}

// New creates an idle browser over catalog.
func New(catalog *models.Catalog, opts ...Option) *Browser {
	b := &Browser{catalog: catalog, timing: DefaultTiming}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b
}

// Catalog returns the catalog being browsed.
func (b *Browser) Catalog() *models.Catalog { return b.catalog }

// SelectGenre makes key's main list active at index 0. Unknown keys leave the state unchanged.
func (b *Browser) SelectGenre(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, ok := b.catalog.Genre(key)
	if !ok {
		b.logger.Debug("select genre ignored", "genre", key, "reason", "unknown genre")
		return false
	}

	b.genre = g
	b.subgenre = ""
	b.list = g.Playlists
	b.index = 0
	b.logger.Debug("genre selected", "genre", key, "playlists", len(b.list))
	return true
}

// SelectSubgenre switches the active list within the selected genre. An empty name selects
// the main list. Unknown names, or calls while idle, leave the state unchanged.
func (b *Browser) SelectSubgenre(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.genre == nil {
		b.logger.Debug("select subgenre ignored", "subgenre", name, "reason", "no genre selected")
		return false
	}

	if name == "" {
		b.subgenre = ""
		b.list = b.genre.Playlists
		b.index = 0
		return true
	}

	list, ok := b.genre.Subgenre(name)
	if !ok {
		b.logger.Debug("select subgenre ignored", "genre", b.genre.Key, "subgenre", name, "reason", "unknown subgenre")
		return false
	}

	b.subgenre = name
	b.list = list
	b.index = 0
	return true
}

// Navigate steps the index by dir with wrap-around and starts a transition.
//
// It does nothing while a transition is in flight or when the active list has fewer than
// two playlists. The returned transition must be passed to [Browser.Complete] once it has
// run; until then every Navigate call is dropped.
func (b *Browser) Navigate(dir Direction) (Transition, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dir != Prev && dir != Next {
		return Transition{}, false
	}

	if b.inflight != 0 {
		b.logger.Debug("navigate dropped", "reason", "transition in flight", "transition", b.inflight)
		return Transition{}, false
	}

	n := len(b.list)
	if n <= 1 {
		return Transition{}, false
	}

	from := b.index
	b.index = (b.index + int(dir) + n) % n

	b.seq++
	b.inflight = b.seq

	return Transition{
		ID:        b.seq,
		Direction: dir,
		From:      from,
		To:        b.index,
		Exit:      b.timing.Exit,
		Enter:     b.timing.Enter,
	}, true
}

// Swipe converts a horizontal gesture into navigation: right is previous, left is next.
// Travel at or below [SwipeThreshold] is ignored.
func (b *Browser) Swipe(dx int) (Transition, bool) {
	switch {
	case dx > SwipeThreshold:
		return b.Navigate(Prev)
	case dx < -SwipeThreshold:
		return b.Navigate(Next)
	default:
		return Transition{}, false
	}
}

// Complete marks t as finished. Completions for anything other than the in-flight
// transition are ignored, so a stale completion can never cut a newer transition short.
func (b *Browser) Complete(t Transition) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t.ID == 0 || t.ID != b.inflight {
		return false
	}
	b.inflight = 0
	return true
}

// Animating reports whether a transition is in flight.
func (b *Browser) Animating() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inflight != 0
}

// Current returns the playlist under the wheel.
func (b *Browser) Current() (models.Playlist, bool) {
	return b.Snapshot().Current()
}

// OpenCurrent opens the current playlist with the configured [Opener].
//
// An empty active list, or a browser without an opener, does nothing and returns nil.
func (b *Browser) OpenCurrent(ctx context.Context) error {
	b.mu.Lock()
	opener := b.opener
	var (
		playlist models.Playlist
		ok       bool
	)
	if len(b.list) > 0 {
		playlist, ok = b.list[b.index], true
	}
	b.mu.Unlock()

	if !ok || opener == nil {
		b.logger.Debug("open ignored", "reason", "nothing to open")
		return nil
	}

	if err := opener.Open(ctx, playlist.URL); err != nil {
		b.logger.Warn("failed to open playlist", "playlist", playlist.Name, "err", err)
		return fmt.Errorf("open %q: %w", playlist.Name, err)
	}

	b.logger.Info("opened playlist", "playlist", playlist.Name)
	return nil
}

// Exit returns to [Idle]. An in-flight transition still completes normally.
func (b *Browser) Exit() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.genre = nil
	b.subgenre = ""
	b.list = nil
	b.index = 0
}

// Snapshot copies the current state for rendering.
func (b *Browser) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := State{
		Phase:     Idle,
		Subgenre:  b.subgenre,
		Index:     b.index,
		Animating: b.inflight != 0,
	}
	if b.genre != nil {
		s.Phase = GenreSelected
		s.GenreKey = b.genre.Key
		s.GenreName = b.genre.Name
		s.ActiveList = append([]models.Playlist(nil), b.list...)
	}
	return s
}

// Search reports which genres match query. It does not change browser state.
func (b *Browser) Search(query string) Emphasis {
	return Search(b.catalog, query)
}
