// package catalog loads the static genre/playlist mapping from TOML, YAML or JSON files.
//
// Two shapes are accepted. The document shape lists genres in order:
//
//	genres:
//	  - key: jazz
//	    name: Jazz
//	    playlists: [{name: Blue Train, url: https://...}]
//	    subgenres: [{name: bebop, playlists: [...]}]
//
// YAML and JSON files may instead use the keyed shape, a mapping from genre key to
// {name, playlists, subgenres: {name: [...]}}. Mapping order is preserved for both shapes.
// TOML files use the document shape with arrays of tables.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/shared"
)

//go:embed catalog.example.toml
var exampleCatalog []byte

type document struct {
	Genres []genreDoc `toml:"genres"`
}

type genreDoc struct {
	Key       string            `toml:"key"`
	Name      string            `toml:"name"`
	Playlists []models.Playlist `toml:"playlists"`
	Subgenres []subgenreDoc     `toml:"subgenres"`
}

type subgenreDoc struct {
	Name      string            `toml:"name"`
	Playlists []models.Playlist `toml:"playlists"`
}

// Format identifies a catalog encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor infers the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnsupportedCatalog, filepath.Ext(path))
	}
}

// Load reads and decodes the catalog at path.
func Load(path string) (*models.Catalog, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	c, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (*models.Catalog, error) {
	switch format {
	case FormatTOML:
		return decodeTOML(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatJSON:
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedCatalog, format)
	}
}

// Default returns the built-in sample catalog.
func Default() *models.Catalog {
	c, err := decodeTOML(exampleCatalog)
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded catalog: %v", err))
	}
	return c
}

// LoadOrDefault loads path, or the built-in catalog when path is empty.
func LoadOrDefault(path string) (*models.Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func decodeTOML(data []byte) (*models.Catalog, error) {
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidCatalog, err)
	}

	genres := make([]models.Genre, 0, len(doc.Genres))
	for _, g := range doc.Genres {
		genre := models.Genre{Key: g.Key, Name: g.Name, Playlists: g.Playlists}
		for _, s := range g.Subgenres {
			genre.Subgenres = append(genre.Subgenres, models.Subgenre{Name: s.Name, Playlists: s.Playlists})
		}
		genres = append(genres, genre)
	}

	return models.NewCatalog(genres...)
}

// Validate reports every playlist that would not open, joined into one error.
func Validate(c *models.Catalog) error {
	var errs []error
	for _, e := range c.Flatten() {
		if err := e.Validate(); err != nil {
			where := e.GenreKey
			if e.Subgenre != "" {
				where += "/" + e.Subgenre
			}
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}

	for _, g := range c.Genres() {
		if g.Count() == 0 {
			errs = append(errs, fmt.Errorf("%s: genre has no playlists", g.Key))
		}
	}

	return errors.Join(errs...)
}
