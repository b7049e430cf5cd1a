package models

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ErrInvalidCatalog is returned when a catalog violates its structural rules.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Playlist is a single catalog entry. Zero-valued optional fields mean "absent".
type Playlist struct {
	Name      string `json:"name" yaml:"name" toml:"name"`
	URL       string `json:"url" yaml:"url" toml:"url"`
	ImageURL  string `json:"imageUrl,omitempty" yaml:"image_url,omitempty" toml:"image_url,omitempty"`
	GenreTag  string `json:"genreTag,omitempty" yaml:"genre_tag,omitempty" toml:"genre_tag,omitempty"`
	GenreDesc string `json:"genreDesc,omitempty" yaml:"genre_desc,omitempty" toml:"genre_desc,omitempty"`
	RYMURL    string `json:"rymUrl,omitempty" yaml:"rym_url,omitempty" toml:"rym_url,omitempty"`
}

// Validate checks that the playlist has a name and an absolute http(s) URL.
func (p Playlist) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("playlist name is required")
	}
	u, err := url.Parse(p.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("playlist %q: url %q is not an absolute http(s) url", p.Name, p.URL)
	}
	return nil
}

// Subgenre is a named alternative list within a genre.
type Subgenre struct {
	Name      string
	Playlists []Playlist
}

// Genre groups playlists under a unique key.
type Genre struct {
	Key       string
	Name      string
	Playlists []Playlist
	Subgenres []Subgenre
}

func (g Genre) clone() Genre {
	out := Genre{Key: g.Key, Name: g.Name, Playlists: slices.Clone(g.Playlists)}
	if g.Subgenres != nil {
		out.Subgenres = make([]Subgenre, len(g.Subgenres))
		for i, s := range g.Subgenres {
			out.Subgenres[i] = Subgenre{Name: s.Name, Playlists: slices.Clone(s.Playlists)}
		}
	}
	return out
}

// HasSubgenres reports whether the genre offers alternative lists.
func (g *Genre) HasSubgenres() bool { return len(g.Subgenres) > 0 }

// SubgenreNames returns subgenre names in catalog order.
func (g *Genre) SubgenreNames() []string {
	names := make([]string, len(g.Subgenres))
	for i, s := range g.Subgenres {
		names[i] = s.Name
	}
	return names
}

// Subgenre looks up a named subgenre list.
func (g *Genre) Subgenre(name string) ([]Playlist, bool) {
	for _, s := range g.Subgenres {
		if s.Name == name {
			return s.Playlists, true
		}
	}
	return nil, false
}

// Count is the number of playlists across the main list and every subgenre.
func (g *Genre) Count() int {
	n := len(g.Playlists)
	for _, s := range g.Subgenres {
		n += len(s.Playlists)
	}
	return n
}

// Entry is a playlist annotated with where it lives in the catalog.
type Entry struct {
	Playlist
	GenreKey  string
	GenreName string
	Subgenre  string
}

// Catalog is an ordered, immutable set of genres.
type Catalog struct {
	genres []Genre
	index  map[string]int
}

// NewCatalog builds a catalog, rejecting empty or duplicate genre keys and empty or duplicate
// subgenre names. The genres are copied, so later changes to the arguments do not leak in.
func NewCatalog(genres ...Genre) (*Catalog, error) {
	c := &Catalog{
		genres: make([]Genre, 0, len(genres)),
		index:  make(map[string]int, len(genres)),
	}

	for _, g := range genres {
		if strings.TrimSpace(g.Key) == "" {
			return nil, fmt.Errorf("%w: genre with empty key", ErrInvalidCatalog)
		}
		if _, dup := c.index[g.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate genre key %q", ErrInvalidCatalog, g.Key)
		}

		seen := make(map[string]bool, len(g.Subgenres))
		for _, s := range g.Subgenres {
			if strings.TrimSpace(s.Name) == "" {
				return nil, fmt.Errorf("%w: genre %q has a subgenre with an empty name", ErrInvalidCatalog, g.Key)
			}
			if seen[s.Name] {
				return nil, fmt.Errorf("%w: genre %q has duplicate subgenre %q", ErrInvalidCatalog, g.Key, s.Name)
			}
			seen[s.Name] = true
		}

		if g.Name == "" {
			g.Name = g.Key
		}

		c.index[g.Key] = len(c.genres)
		c.genres = append(c.genres, g.clone())
	}

	return c, nil
}

// Genre looks up a genre by key. The result is a copy.
func (c *Catalog) Genre(key string) (*Genre, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	g := c.genres[i].clone()
	return &g, true
}

// Genres returns copies of the genres in catalog order.
func (c *Catalog) Genres() []Genre {
	if c == nil {
		return nil
	}
	genres := make([]Genre, len(c.genres))
	for i, g := range c.genres {
		genres[i] = g.clone()
	}
	return genres
}

// Keys returns genre keys in catalog order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, len(c.genres))
	for i, g := range c.genres {
		keys[i] = g.Key
	}
	return keys
}

// Len is the number of genres.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.genres)
}

// Flatten lists every playlist occurrence: each genre's main list first, then its subgenre lists.
func (c *Catalog) Flatten() []Entry {
	if c == nil {
		return nil
	}

	var all []Entry
	for _, g := range c.genres {
		for _, p := range g.Playlists {
			all = append(all, Entry{Playlist: p, GenreKey: g.Key, GenreName: g.Name})
		}
		for _, s := range g.Subgenres {
			for _, p := range s.Playlists {
				all = append(all, Entry{Playlist: p, GenreKey: g.Key, GenreName: g.Name, Subgenre: s.Name})
			}
		}
	}
	return all
}
