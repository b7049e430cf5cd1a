package catalog

import (
	"fmt"

	"github.com/desertthunder/clickwheel/internal/models"
	"gopkg.in/yaml.v3"
)

// playlistAliases maps every accepted field spelling to its canonical name.
var playlistAliases = map[string]string{
	"name":       "name",
	"url":        "url",
	"image_url":  "image_url",
	"imageUrl":   "image_url",
	"genre_tag":  "genre_tag",
	"genreTag":   "genre_tag",
	"genre_desc": "genre_desc",
	"genreDesc":  "genre_desc",
	"rym_url":    "rym_url",
	"rymUrl":     "rym_url",
}

func invalid(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", models.ErrInvalidCatalog, n.Line, fmt.Sprintf(format, args...))
}

func decodeYAML(data []byte) (*models.Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidCatalog, err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", models.ErrInvalidCatalog)
	}

	return decodeNode(root.Content[0])
}

// decodeNode builds a catalog from the top-level mapping of a YAML or JSON document.
func decodeNode(top *yaml.Node) (*models.Catalog, error) {
	if top.Kind != yaml.MappingNode {
		return nil, invalid(top, "top level must be a mapping")
	}

	var (
		genres []models.Genre
		err    error
	)
	if list := lookup(top, "genres"); list != nil && list.Kind == yaml.SequenceNode {
		genres, err = genresFromSequence(list)
	} else {
		genres, err = genresFromMapping(top)
	}
	if err != nil {
		return nil, err
	}

	return models.NewCatalog(genres...)
}

// lookup returns the value node for key in a mapping node, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func scalar(m *yaml.Node, key string) string {
	if v := lookup(m, key); v != nil && v.Kind == yaml.ScalarNode {
		return v.Value
	}
	return ""
}

func genresFromSequence(seq *yaml.Node) ([]models.Genre, error) {
	genres := make([]models.Genre, 0, len(seq.Content))
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return nil, invalid(item, "genre must be a mapping")
		}
		g, err := genreFromNode(scalar(item, "key"), item)
		if err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, nil
}

func genresFromMapping(m *yaml.Node) ([]models.Genre, error) {
	genres := make([]models.Genre, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, body := m.Content[i], m.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, invalid(body, "genre %q must be a mapping", key.Value)
		}
		g, err := genreFromNode(key.Value, body)
		if err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, nil
}

func genreFromNode(key string, n *yaml.Node) (models.Genre, error) {
	g := models.Genre{Key: key, Name: scalar(n, "name")}

	if list := lookup(n, "playlists"); list != nil {
		playlists, err := playlistsFromNode(list)
		if err != nil {
			return g, err
		}
		g.Playlists = playlists
	}

	subs := lookup(n, "subgenres")
	if subs == nil {
		return g, nil
	}

	switch subs.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(subs.Content); i += 2 {
			playlists, err := playlistsFromNode(subs.Content[i+1])
			if err != nil {
				return g, err
			}
			g.Subgenres = append(g.Subgenres, models.Subgenre{Name: subs.Content[i].Value, Playlists: playlists})
		}
	case yaml.SequenceNode:
		for _, item := range subs.Content {
			if item.Kind != yaml.MappingNode {
				return g, invalid(item, "subgenre must be a mapping")
			}
			var playlists []models.Playlist
			if list := lookup(item, "playlists"); list != nil {
				var err error
				if playlists, err = playlistsFromNode(list); err != nil {
					return g, err
				}
			}
			g.Subgenres = append(g.Subgenres, models.Subgenre{Name: scalar(item, "name"), Playlists: playlists})
		}
	default:
		return g, invalid(subs, "subgenres of %q must be a mapping or a list", key)
	}

	return g, nil
}

func playlistsFromNode(seq *yaml.Node) ([]models.Playlist, error) {
	if seq.Kind != yaml.SequenceNode {
		return nil, invalid(seq, "playlists must be a list")
	}

	playlists := make([]models.Playlist, 0, len(seq.Content))
	for _, item := range seq.Content {
		var raw map[string]string
		if err := item.Decode(&raw); err != nil {
			return nil, invalid(item, "playlist fields must be strings: %v", err)
		}

		fields := make(map[string]string, len(raw))
		for k, v := range raw {
			if canonical, ok := playlistAliases[k]; ok {
				fields[canonical] = v
			}
		}

		playlists = append(playlists, models.Playlist{
			Name:      fields["name"],
			URL:       fields["url"],
			ImageURL:  fields["image_url"],
			GenreTag:  fields["genre_tag"],
			GenreDesc: fields["genre_desc"],
			RYMURL:    fields["rym_url"],
		})
	}
	return playlists, nil
}
