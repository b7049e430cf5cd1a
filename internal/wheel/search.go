package wheel

import (
	"sort"
	"strings"

	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestDistance bounds the edit distance of a typo suggestion.
const maxSuggestDistance = 2

// Emphasis tells a renderer which genres to show at full strength.
//
// A blank query yields All, which restores every genre. Otherwise Genres holds exactly the
// keys with at least one playlist whose name contains the query.
type Emphasis struct {
	Query  string
	All    bool
	Genres map[string]bool
}

// Visible reports whether key should be emphasized.
func (e Emphasis) Visible(key string) bool {
	return e.All || e.Genres[key]
}

// Keys lists the matching genre keys in catalog order. It is empty for a blank query.
func (e Emphasis) Keys(c *models.Catalog) []string {
	var keys []string
	for _, k := range c.Keys() {
		if e.Genres[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Search matches query case-insensitively as a substring of every playlist name in the
// flattened catalog, main lists and subgenre lists alike.
func Search(c *models.Catalog, query string) Emphasis {
	if strings.TrimSpace(query) == "" {
		return Emphasis{Query: query, All: true, Genres: map[string]bool{}}
	}

	e := Emphasis{Query: query, Genres: map[string]bool{}}
	for _, entry := range Matches(c, query) {
		e.Genres[entry.GenreKey] = true
	}
	return e
}

// Matches returns the flattened entries whose names contain query, ignoring case.
// A blank query matches nothing.
func Matches(c *models.Catalog, query string) []models.Entry {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	needle := strings.ToLower(query)
	var out []models.Entry
	for _, entry := range c.Flatten() {
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			out = append(out, entry)
		}
	}
	return out
}

// Result is a search answer shared by the CLI and the API.
type Result struct {
	Query   string   `json:"query"`
	All     bool     `json:"all"`
	Genres  []string `json:"genres"`
	Matches []Match  `json:"matches"`
}

// Match is a playlist whose name matched the query.
type Match struct {
	Genre    string `json:"genre"`
	Subgenre string `json:"subgenre,omitempty"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// Find runs [Search] and [Matches] for query. A blank query lists every genre key.
// Genres and Matches are never nil.
func Find(c *models.Catalog, query string) Result {
	emphasis := Search(c, query)
	result := Result{
		Query:   query,
		All:     emphasis.All,
		Genres:  emphasis.Keys(c),
		Matches: []Match{},
	}
	if emphasis.All {
		result.Genres = c.Keys()
	}
	if result.Genres == nil {
		result.Genres = []string{}
	}

	for _, e := range Matches(c, query) {
		result.Matches = append(result.Matches, Match{
			Genre:    e.GenreKey,
			Subgenre: e.Subgenre,
			Name:     e.Name,
			URL:      e.URL,
		})
	}
	return result
}

// Suggest picks the candidate closest to a mistyped genre key or subgenre name, or "".
//
// A candidate containing the input's letters in order wins; otherwise the nearest candidate
// within [maxSuggestDistance] edits.
func Suggest(input string, candidates []string) string {
	input = strings.TrimSpace(input)
	if input == "" || len(candidates) == 0 {
		return ""
	}

	if ranks := fuzzy.RankFindFold(input, candidates); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(input), strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
