// package artwork resolves the image shown behind the wheel for a playlist.
//
// Lookups never fail from the caller's point of view: an explicit image URL on the playlist
// wins, then the cache keyed by "artwork_<playlistId>", and anything else falls back to the
// placeholder. The cache is written opportunistically by [Resolver.Resolve] and never invalidated.
package artwork

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/shared"
)

// DefaultPlaceholder is shown when no artwork is known.
const DefaultPlaceholder = "placeholder:gradient"

// KeyPrefix namespaces cache keys.
const KeyPrefix = "artwork_"

var playlistIDPattern = regexp.MustCompile(`pl\.[a-zA-Z0-9-]+`)

// ExtractPlaylistID pulls the "pl.xxx" identifier out of a playlist URL, or returns "".
func ExtractPlaylistID(url string) string {
	return playlistIDPattern.FindString(url)
}

// Key is the cache key for a playlist id.
func Key(playlistID string) string {
	return KeyPrefix + playlistID
}

// KeyFor is the cache key for a playlist URL, or "" when the URL carries no id.
func KeyFor(url string) string {
	id := ExtractPlaylistID(url)
	if id == "" {
		return ""
	}
	return Key(id)
}

// Store is the persisted key-value cache. A missing key is reported with ok=false, not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
}

// Source says where a resolved artwork reference came from.
type Source string

const (
	SourcePlaylist    Source = "playlist"
	SourceCache       Source = "cache"
	SourceRemote      Source = "remote"
	SourcePlaceholder Source = "placeholder"
)

// Artwork is a resolved image reference.
type Artwork struct {
	Ref    string
	Source Source
}

// Placeholder reports whether no real artwork was found.
func (a Artwork) Placeholder() bool { return a.Source == SourcePlaceholder }

// Resolver looks up artwork for playlists.
type Resolver struct {
	store       Store
	fetcher     *Fetcher
	placeholder string
	logger      *log.Logger
}

// ResolverOpts configures a [Resolver]. Every field is optional.
type ResolverOpts struct {
	Store       Store
	Fetcher     *Fetcher
	Placeholder string
	Logger      *log.Logger
}

// NewResolver creates a resolver. A nil store disables caching entirely.
func NewResolver(opts ResolverOpts) *Resolver {
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Resolver{
		store:       opts.Store,
		fetcher:     opts.Fetcher,
		placeholder: opts.Placeholder,
		logger:      opts.Logger,
	}
}

func (r *Resolver) fallback() Artwork {
	return Artwork{Ref: r.placeholder, Source: SourcePlaceholder}
}

// Lookup resolves artwork without touching the network.
func (r *Resolver) Lookup(ctx context.Context, p models.Playlist) Artwork {
	if p.ImageURL != "" {
		return Artwork{Ref: p.ImageURL, Source: SourcePlaylist}
	}

	key := KeyFor(p.URL)
	if key == "" || r.store == nil {
		return r.fallback()
	}

	ref, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Debug("artwork cache read failed", "key", key, "err", err)
		return r.fallback()
	}
	if !ok || ref == "" {
		return r.fallback()
	}

	return Artwork{Ref: ref, Source: SourceCache}
}

// Resolve is [Resolver.Lookup] followed, on a miss, by a remote fetch whose result is cached.
// Without a fetcher it behaves exactly like Lookup.
func (r *Resolver) Resolve(ctx context.Context, p models.Playlist) Artwork {
	art := r.Lookup(ctx, p)
	if !art.Placeholder() || r.fetcher == nil {
		return art
	}

	key := KeyFor(p.URL)
	if key == "" {
		return art
	}

	ref, err := r.fetcher.Fetch(ctx, p.URL)
	if err != nil {
		r.logger.Debug("artwork fetch failed", "playlist", p.Name, "err", err)
		return art
	}

	if r.store != nil {
		if err := r.store.Put(ctx, key, ref); err != nil {
			r.logger.Debug("artwork cache write failed", "key", key, "err", err)
		}
	}

	return Artwork{Ref: ref, Source: SourceRemote}
}

// Set stores ref for the playlist URL, overwriting any earlier value.
func (r *Resolver) Set(ctx context.Context, playlistURL, ref string) error {
	if r.store == nil {
		return fmt.Errorf("%w: artwork cache is not configured", shared.ErrServiceUnavailable)
	}
	key := KeyFor(playlistURL)
	if key == "" {
		return fmt.Errorf("%w: %q", shared.ErrNoPlaylistID, playlistURL)
	}
	return r.store.Put(ctx, key, ref)
}
