package artwork

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/shared"
	tu "github.com/desertthunder/clickwheel/internal/testing"
)

func TestExtractPlaylistID(t *testing.T) {
	tt := []struct {
		url  string
		want string
	}{
		{url: "https://music.apple.com/us/playlist/name/pl.u-8aAVZAeCL1YKzN", want: "pl.u-8aAVZAeCL1YKzN"},
		{url: "https://music.apple.com/us/playlist/pl.5ee8333dbe944d9f9151e97d92d1ead9?l=en", want: "pl.5ee8333dbe944d9f9151e97d92d1ead9"},
		{url: "https://open.spotify.com/playlist/37i9dQZF1DX", want: ""},
		{url: "", want: ""},
	}

	for _, tc := range tt {
		t.Run(tc.url, func(t *testing.T) {
			if got := ExtractPlaylistID(tc.url); got != tc.want {
				t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}

	if got := KeyFor("https://music.apple.com/us/playlist/x/pl.u-abc"); got != "artwork_pl.u-abc" {
		t.Errorf("KeyFor() = %q", got)
	}
	if got := KeyFor("https://example.com/nothing"); got != "" {
		t.Errorf("KeyFor() without id = %q, want empty", got)
	}
}

func TestResolverLookup(t *testing.T) {
	ctx := context.Background()
	cached := models.Playlist{Name: "Cached", URL: "https://music.apple.com/us/playlist/c/pl.u-cached"}

	t.Run("Playlist Image Wins", func(t *testing.T) {
		store := tu.NewMemoryStore()
		store.Values[KeyFor(cached.URL)] = "https://img.example.com/from-cache.jpg"

		p := cached
		p.ImageURL = "https://img.example.com/explicit.jpg"

		art := NewResolver(ResolverOpts{Store: store}).Lookup(ctx, p)
		if art.Source != SourcePlaylist || art.Ref != p.ImageURL {
			t.Errorf("unexpected artwork: %+v", art)
		}
	})

	t.Run("Cache Hit", func(t *testing.T) {
		store := tu.NewMemoryStore()
		store.Values["artwork_pl.u-cached"] = "https://img.example.com/from-cache.jpg"

		art := NewResolver(ResolverOpts{Store: store}).Lookup(ctx, cached)
		if art.Source != SourceCache || art.Ref != "https://img.example.com/from-cache.jpg" {
			t.Errorf("unexpected artwork: %+v", art)
		}
	})

	t.Run("Fallbacks", func(t *testing.T) {
		failing := tu.NewMemoryStore()
		failing.Err = errors.New("disk on fire")

		tt := []struct {
			name     string
			store    Store
			playlist models.Playlist
		}{
			{name: "cache miss", store: tu.NewMemoryStore(), playlist: cached},
			{name: "no store", store: nil, playlist: cached},
			{name: "url without id", store: tu.NewMemoryStore(), playlist: models.Playlist{Name: "x", URL: "https://example.com/x"}},
			{name: "malformed url", store: tu.NewMemoryStore(), playlist: models.Playlist{Name: "x", URL: "::::"}},
			{name: "store error", store: failing, playlist: cached},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				r := NewResolver(ResolverOpts{Store: tc.store, Placeholder: "placeholder:test"})
				art := r.Lookup(ctx, tc.playlist)
				if !art.Placeholder() || art.Ref != "placeholder:test" {
					t.Errorf("expected placeholder, got %+v", art)
				}
			})
		}
	})

	t.Run("Default Placeholder", func(t *testing.T) {
		art := NewResolver(ResolverOpts{}).Lookup(ctx, cached)
		if art.Ref != DefaultPlaceholder {
			t.Errorf("expected default placeholder, got %q", art.Ref)
		}
	})
}

func TestResolverResolve(t *testing.T) {
	ctx := context.Background()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/us/playlist/blue/pl.u-blue":
			fmt.Fprint(w, `<html><head><meta property="og:image" content="/art/blue.jpg"></head></html>`)
		case "/us/playlist/bare/pl.u-bare":
			fmt.Fprint(w, `<html><head><title>no art</title></head></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("Miss Fetches And Caches", func(t *testing.T) {
		store := tu.NewMemoryStore()
		r := NewResolver(ResolverOpts{Store: store, Fetcher: NewFetcher(FetcherOpts{Client: srv.Client()})})
		p := models.Playlist{Name: "Blue", URL: srv.URL + "/us/playlist/blue/pl.u-blue"}

		art := r.Resolve(ctx, p)
		if art.Source != SourceRemote || art.Ref != srv.URL+"/art/blue.jpg" {
			t.Fatalf("unexpected artwork: %+v", art)
		}

		if store.Values["artwork_pl.u-blue"] != srv.URL+"/art/blue.jpg" {
			t.Errorf("fetched artwork not cached: %v", store.Values)
		}

		before := hits.Load()
		again := r.Resolve(ctx, p)
		if again.Source != SourceCache {
			t.Errorf("second resolve should hit the cache, got %+v", again)
		}
		if hits.Load() != before {
			t.Error("cache hit should not touch the network")
		}
	})

	t.Run("Fetch Failures Fall Back", func(t *testing.T) {
		r := NewResolver(ResolverOpts{Store: tu.NewMemoryStore(), Fetcher: NewFetcher(FetcherOpts{Client: srv.Client()})})

		for _, path := range []string{"/us/playlist/bare/pl.u-bare", "/us/playlist/gone/pl.u-gone"} {
			art := r.Resolve(ctx, models.Playlist{Name: "x", URL: srv.URL + path})
			if !art.Placeholder() {
				t.Errorf("%s: expected placeholder, got %+v", path, art)
			}
		}
	})

	t.Run("Without Fetcher", func(t *testing.T) {
		r := NewResolver(ResolverOpts{Store: tu.NewMemoryStore()})
		art := r.Resolve(ctx, models.Playlist{Name: "Blue", URL: srv.URL + "/us/playlist/blue/pl.u-blue"})
		if !art.Placeholder() {
			t.Errorf("expected placeholder, got %+v", art)
		}
	})
}

func TestResolverSet(t *testing.T) {
	ctx := context.Background()

	store := tu.NewMemoryStore()
	r := NewResolver(ResolverOpts{Store: store})

	if err := r.Set(ctx, "https://music.apple.com/us/playlist/x/pl.u-set", "https://img.example.com/x.jpg"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if store.Values["artwork_pl.u-set"] != "https://img.example.com/x.jpg" {
		t.Errorf("unexpected store contents: %v", store.Values)
	}

	if err := r.Set(ctx, "https://example.com/x", "ref"); !errors.Is(err, shared.ErrNoPlaylistID) {
		t.Errorf("expected ErrNoPlaylistID, got %v", err)
	}

	if err := NewResolver(ResolverOpts{}).Set(ctx, "https://music.apple.com/us/playlist/x/pl.u-set", "ref"); !errors.Is(err, shared.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}
