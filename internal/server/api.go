package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/clickwheel/internal/artwork"
	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/shared"
	"github.com/desertthunder/clickwheel/internal/wheel"
)

var _ Handler = (*API)(nil)

// GenreSummary is one row of GET /api/genres.
type GenreSummary struct {
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	Playlists int      `json:"playlists"`
	Subgenres []string `json:"subgenres"`
}

// GenreDetail is the body of GET /api/genres/{key}.
type GenreDetail struct {
	Key       string              `json:"key"`
	Name      string              `json:"name"`
	Playlists []models.Playlist   `json:"playlists"`
	Subgenres map[string][]string `json:"subgenres"`
	Order     []string            `json:"subgenreOrder"`
}

// PlaylistList is the body of GET /api/genres/{key}/playlists.
type PlaylistList struct {
	Genre     string            `json:"genre"`
	Subgenre  string            `json:"subgenre,omitempty"`
	Playlists []models.Playlist `json:"playlists"`
}

// ArtworkResult is the body of GET /api/artwork.
type ArtworkResult struct {
	URL    string `json:"url"`
	Key    string `json:"key,omitempty"`
	Ref    string `json:"ref"`
	Source string `json:"source"`
}

type errorBody struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

// API serves the catalog as JSON.
type API struct {
	catalog  *models.Catalog
	resolver *artwork.Resolver
	logger   *log.Logger
	mux      *http.ServeMux
}

// APIOpts configures an [API]. A nil Resolver answers artwork requests with the placeholder.
type APIOpts struct {
	Catalog  *models.Catalog
	Resolver *artwork.Resolver
	Logger   *log.Logger
}

// NewAPI creates the catalog API.
func NewAPI(opts APIOpts) *API {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Resolver == nil {
		opts.Resolver = artwork.NewResolver(artwork.ResolverOpts{Logger: opts.Logger})
	}

	a := &API{
		catalog:  opts.Catalog,
		resolver: opts.Resolver,
		logger:   opts.Logger,
		mux:      http.NewServeMux(),
	}

	a.mux.HandleFunc("GET /api/genres", a.genres)
	a.mux.HandleFunc("GET /api/genres/{key}", a.genre)
	a.mux.HandleFunc("GET /api/genres/{key}/playlists", a.playlists)
	a.mux.HandleFunc("GET /api/search", a.search)
	a.mux.HandleFunc("GET /api/artwork", a.artwork)
	a.mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return a
}

// Routes implements [Handler].
func (a *API) Routes() []string {
	return []string{"/api/"}
}

// ServeHTTP implements [http.Handler].
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) genres(w http.ResponseWriter, r *http.Request) {
	genres := a.catalog.Genres()
	out := make([]GenreSummary, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreSummary{
			Key:       g.Key,
			Name:      g.Name,
			Playlists: g.Count(),
			Subgenres: g.SubgenreNames(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) genre(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	g, ok := a.catalog.Genre(key)
	if !ok {
		a.notFound(w, shared.ErrGenreNotFound, key, a.catalog.Keys())
		return
	}

	detail := GenreDetail{
		Key:       g.Key,
		Name:      g.Name,
		Playlists: nonNil(g.Playlists),
		Subgenres: make(map[string][]string, len(g.Subgenres)),
		Order:     g.SubgenreNames(),
	}
	for _, s := range g.Subgenres {
		names := make([]string, len(s.Playlists))
		for i, p := range s.Playlists {
			names[i] = p.Name
		}
		detail.Subgenres[s.Name] = names
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) playlists(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	subgenre := r.URL.Query().Get("subgenre")

	b := wheel.New(a.catalog, wheel.WithLogger(a.logger))
	if !b.SelectGenre(key) {
		a.notFound(w, shared.ErrGenreNotFound, key, a.catalog.Keys())
		return
	}
	if subgenre != "" && !b.SelectSubgenre(subgenre) {
		g, _ := a.catalog.Genre(key)
		a.notFound(w, shared.ErrSubgenreNotFound, subgenre, g.SubgenreNames())
		return
	}

	state := b.Snapshot()
	writeJSON(w, http.StatusOK, PlaylistList{
		Genre:     state.GenreKey,
		Subgenre:  state.Subgenre,
		Playlists: nonNil(state.ActiveList),
	})
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wheel.Find(a.catalog, r.URL.Query().Get("q")))
}

func (a *API) artwork(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, shared.ErrMissingArgument.Error()+": url")
		return
	}

	p, err := a.playlistFor(url)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	art := a.resolver.Lookup(r.Context(), p)
	writeJSON(w, http.StatusOK, ArtworkResult{
		URL:    p.URL,
		Key:    artwork.KeyFor(p.URL),
		Ref:    art.Ref,
		Source: string(art.Source),
	})
}

func (a *API) playlistFor(url string) (models.Playlist, error) {
	for _, e := range a.catalog.Flatten() {
		if e.URL == url {
			return e.Playlist, nil
		}
	}
	return models.Playlist{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, url)
}

// notFound reports a missing genre or subgenre along with the closest known name.
func (a *API) notFound(w http.ResponseWriter, err error, name string, candidates []string) {
	writeJSON(w, http.StatusNotFound, errorBody{
		Error:      fmt.Sprintf("%v: %s", err, name),
		Suggestion: wheel.Suggest(name, candidates),
	})
}

func nonNil(ps []models.Playlist) []models.Playlist {
	if ps == nil {
		return []models.Playlist{}
	}
	return ps
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
