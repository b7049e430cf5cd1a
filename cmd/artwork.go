package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/clickwheel/internal/artwork"
	"github.com/desertthunder/clickwheel/internal/models"
	"github.com/desertthunder/clickwheel/internal/repositories"
	"github.com/desertthunder/clickwheel/internal/shared"
	"github.com/desertthunder/clickwheel/internal/tasks"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

type artworkResult struct {
	Name   string         `json:"name,omitempty"`
	URL    string         `json:"url"`
	Key    string         `json:"key,omitempty"`
	Ref    string         `json:"ref"`
	Source artwork.Source `json:"source"`
}

// playlistFor returns the catalog playlist with url, or a bare playlist carrying only the URL.
func (r *Runner) playlistFor(url string) models.Playlist {
	for _, e := range r.catalog.Flatten() {
		if e.URL == url {
			return e.Playlist
		}
	}
	return models.Playlist{URL: url}
}

func requireURL(cmd *cli.Command) (string, error) {
	url := cmd.StringArg("url")
	if url == "" {
		return "", fmt.Errorf("%w: playlist URL", shared.ErrMissingArgument)
	}
	return url, nil
}

func (r *Runner) writeArtwork(cmd *cli.Command, results []artworkResult) error {
	if cmd.Bool("json") {
		if len(results) == 1 {
			return r.writeJSON(results[0], cmd.Bool("pretty"))
		}
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	for _, res := range results {
		label := res.Name
		if label == "" {
			label = res.URL
		}
		if err := r.writePlainln("%s\n  %s (%s)", label, res.Ref, res.Source); err != nil {
			return err
		}
	}
	return nil
}

// ArtworkGet resolves artwork from the playlist and cache only.
func (r *Runner) ArtworkGet(ctx context.Context, cmd *cli.Command) error {
	url, err := requireURL(cmd)
	if err != nil {
		return err
	}

	resolver, err := r.resolver("manual", false)
	if err != nil {
		return err
	}

	p := r.playlistFor(url)
	art := resolver.Lookup(ctx, p)
	return r.writeArtwork(cmd, []artworkResult{{Name: p.Name, URL: url, Key: artwork.KeyFor(url), Ref: art.Ref, Source: art.Source}})
}

// ArtworkSet stores a manual artwork reference.
func (r *Runner) ArtworkSet(ctx context.Context, cmd *cli.Command) error {
	url, err := requireURL(cmd)
	if err != nil {
		return err
	}
	ref := cmd.StringArg("ref")
	if ref == "" {
		return fmt.Errorf("%w: artwork reference", shared.ErrMissingArgument)
	}

	resolver, err := r.resolver("manual", false)
	if err != nil {
		return err
	}

	if err := resolver.Set(ctx, url, ref); err != nil {
		return fmt.Errorf("failed to store artwork: %w", err)
	}

	r.logger.Info("artwork stored", "key", artwork.KeyFor(url))
	return r.writePlainln("✓ Stored artwork for %s", artwork.KeyFor(url))
}

// ArtworkResolve fetches artwork for cache misses, one URL or the whole catalog.
func (r *Runner) ArtworkResolve(ctx context.Context, cmd *cli.Command) error {
	resolver, err := r.resolver("remote", true)
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.warmArtwork(ctx, cmd, resolver)
	}

	url, err := requireURL(cmd)
	if err != nil {
		return err
	}

	p := r.playlistFor(url)
	art := resolver.Resolve(ctx, p)
	r.logger.Info("artwork resolved", "key", artwork.KeyFor(url), "source", art.Source)
	return r.writeArtwork(cmd, []artworkResult{{Name: p.Name, URL: p.URL, Key: artwork.KeyFor(p.URL), Ref: art.Ref, Source: art.Source}})
}

// warmArtwork resolves every catalog playlist on a worker pool, logging progress as it goes.
func (r *Runner) warmArtwork(ctx context.Context, cmd *cli.Command, resolver *artwork.Resolver) error {
	entries := r.catalog.Flatten()
	playlists := make([]models.Playlist, len(entries))
	for i, e := range entries {
		playlists[i] = e.Playlist
	}

	bar := progressbar.NewOptions(len(playlists),
		progressbar.OptionSetWriter(r.errOutput),
		progressbar.OptionSetDescription("Resolving artwork"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	prog := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
			if update.Phase == tasks.QueueArtwork {
				bar.ChangeMax(update.Total)
				continue
			}
			_ = bar.Set(update.Step)
		}
		_ = bar.Finish()
	}()

	result, err := tasks.WarmArtwork(ctx, prog, resolver, playlists, tasks.WarmOpts{NumWorkers: int(cmd.Int("workers"))})
	close(prog)
	<-done
	if err != nil {
		return fmt.Errorf("artwork resolve interrupted: %w", err)
	}

	r.logger.Info("artwork resolved", "playlists", result.Total, "found", result.Found, "missing", result.Missing, "skipped", result.Skipped)

	results := make([]artworkResult, 0, len(result.Items))
	for _, it := range result.Items {
		results = append(results, artworkResult{
			Name:   it.Playlist.Name,
			URL:    it.Playlist.URL,
			Key:    artwork.KeyFor(it.Playlist.URL),
			Ref:    it.Artwork.Ref,
			Source: it.Artwork.Source,
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}
	if err := r.writeArtwork(cmd, results); err != nil {
		return err
	}
	return r.writePlainln("✓ %d found, %d missing, %d skipped", result.Found, result.Missing, result.Skipped)
}

type cachedArtwork struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArtworkList prints every cached artwork row.
func (r *Runner) ArtworkList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	rows, err := repositories.NewArtworkRepository(db).List(ctx)
	if err != nil {
		return err
	}

	out := make([]cachedArtwork, 0, len(rows))
	for _, row := range rows {
		out = append(out, cachedArtwork{Key: row.Key, Value: row.Value, Source: row.Source, UpdatedAt: row.UpdatedAt})
	}

	if cmd.Bool("json") {
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if len(out) == 0 {
		return r.writePlainln("Artwork cache is empty")
	}

	r.writePlainHeader(fmt.Sprintf("Cached artwork (%d)", len(out)))
	for _, a := range out {
		source := a.Source
		if source == "" {
			source = "unknown"
		}
		if err := r.writePlainln("%s [%s]\n  %s", a.Key, source, a.Value); err != nil {
			return err
		}
	}
	return nil
}

// ArtworkDelete removes a cached artwork row.
func (r *Runner) ArtworkDelete(ctx context.Context, cmd *cli.Command) error {
	url, err := requireURL(cmd)
	if err != nil {
		return err
	}

	key := artwork.KeyFor(url)
	if key == "" {
		return fmt.Errorf("%w: %q", shared.ErrNoPlaylistID, url)
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	if err := repositories.NewArtworkRepository(db).Delete(ctx, key); err != nil {
		return err
	}
	return r.writePlainln("✓ Removed %s", key)
}
