package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/shared"
	"github.com/desertthunder/clickwheel/internal/wheel"
	"github.com/urfave/cli/v3"
)

type genreSummary struct {
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	Playlists int      `json:"playlists"`
	Subgenres []string `json:"subgenres,omitempty"`
}

// Genres lists every genre in catalog order.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	genres := r.catalog.Genres()

	summaries := make([]genreSummary, 0, len(genres))
	for _, g := range genres {
		summaries = append(summaries, genreSummary{
			Key:       g.Key,
			Name:      g.Name,
			Playlists: g.Count(),
			Subgenres: g.SubgenreNames(),
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(summaries, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Genres (%d)", len(summaries)))
	for _, s := range summaries {
		line := fmt.Sprintf("%-12s %s (%d playlists)", s.Key, s.Name, s.Playlists)
		if len(s.Subgenres) > 0 {
			line += " [" + strings.Join(s.Subgenres, ", ") + "]"
		}
		if err := r.writePlainln("%s", line); err != nil {
			return err
		}
	}
	return nil
}

// selectList drives a browser to the requested genre and subgenre.
func (r *Runner) selectList(b *wheel.Browser, genre, subgenre string) error {
	if !b.SelectGenre(genre) {
		return fmt.Errorf("%w: %q%s", shared.ErrGenreNotFound, genre, didYouMean(genre, b.Catalog().Keys()))
	}
	if subgenre != "" && !b.SelectSubgenre(subgenre) {
		g, _ := b.Catalog().Genre(genre)
		return fmt.Errorf("%w: %q in genre %q%s", shared.ErrSubgenreNotFound, subgenre, genre, didYouMean(subgenre, g.SubgenreNames()))
	}
	return nil
}

func didYouMean(input string, candidates []string) string {
	if s := wheel.Suggest(input, candidates); s != "" {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}

// Playlists lists the active list for --genre and optional --subgenre.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	b := r.browser()
	if err := r.selectList(b, cmd.String("genre"), cmd.String("subgenre")); err != nil {
		return err
	}

	state := b.Snapshot()
	if cmd.Bool("json") {
		list := state.ActiveList
		if list == nil {
			list = []models.Playlist{}
		}
		return r.writeJSON(list, cmd.Bool("pretty"))
	}

	title := state.GenreName
	if state.Subgenre != "" {
		title += " / " + state.Subgenre
	}
	r.writePlainHeader(fmt.Sprintf("%s (%d)", title, len(state.ActiveList)))

	if len(state.ActiveList) == 0 {
		return r.writePlainln("No playlists")
	}
	for i, p := range state.ActiveList {
		if err := r.writePlainln("%2d. %s\n    %s", i+1, p.Name, p.URL); err != nil {
			return err
		}
	}
	return nil
}

// Search reports the genres whose playlists match the query argument.
//
// A blank query matches every genre, mirroring how clearing the search restores the wheel.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")

	result := wheel.Find(r.catalog, query)
	r.logger.Debug("search", "query", query, "genres", len(result.Genres), "matches", len(result.Matches))

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if result.All {
		return r.writePlainln("All genres: %s", strings.Join(result.Genres, ", "))
	}
	if len(result.Genres) == 0 {
		return r.writePlainln("No genres match %q", query)
	}

	r.writePlainln("Genres: %s", strings.Join(result.Genres, ", "))
	for _, m := range result.Matches {
		where := m.Genre
		if m.Subgenre != "" {
			where += "/" + m.Subgenre
		}
		if err := r.writePlainln("  %-20s %s", where, m.Name); err != nil {
			return err
		}
	}
	return nil
}

// Open steps the wheel to --index and opens that playlist.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	b := r.browser()
	if err := r.selectList(b, cmd.String("genre"), cmd.String("subgenre")); err != nil {
		return err
	}

	state := b.Snapshot()
	if len(state.ActiveList) == 0 {
		return r.writePlainln("Nothing to open: the list is empty")
	}

	index := int(cmd.Int("index"))
	if index < 1 || index > len(state.ActiveList) {
		return fmt.Errorf("%w: index %d outside 1..%d", shared.ErrInvalidArgument, index, len(state.ActiveList))
	}

	for i := 1; i < index; i++ {
		if tr, ok := b.Navigate(wheel.Next); ok {
			b.Complete(tr)
		}
	}

	current, _ := b.Current()
	if cmd.Bool("print") {
		return r.writePlainln("%s", current.URL)
	}

	if err := b.OpenCurrent(ctx); err != nil {
		return err
	}
	return r.writePlainln("✓ Opened %s", current.Name)
}
