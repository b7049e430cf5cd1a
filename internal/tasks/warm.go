package tasks

import (
	"context"
	"sync"

	"github.com/desertthunder/clickwheel/internal/artwork"
	"github.com/desertthunder/clickwheel/internal/models"
)

// Resolver is the part of [artwork.Resolver] the warmer needs.
type Resolver interface {
	Resolve(ctx context.Context, p models.Playlist) artwork.Artwork
}

// WarmOpts contains configuration for [WarmArtwork].
type WarmOpts struct {
	NumWorkers int // Concurrent workers (default: 4, max: 10)
}

// WarmItem is the outcome for one playlist.
type WarmItem struct {
	Playlist models.Playlist
	Artwork  artwork.Artwork
}

// WarmResult summarizes a warming run. Items keep the input order.
type WarmResult struct {
	Total   int
	Found   int
	Missing int
	Skipped int
	Items   []WarmItem
}

type warmJob struct {
	index    int
	playlist models.Playlist
}

type warmDone struct {
	index int
	item  WarmItem
}

// WarmArtwork resolves artwork for playlists concurrently.
//
// Playlists without a playlist id, or whose cache key was already queued, are skipped. Cancellation
// stops queuing new work and returns ctx's error along with whatever finished.
func WarmArtwork(ctx context.Context, prog chan<- ProgressUpdate, r Resolver, playlists []models.Playlist, opts WarmOpts) (*WarmResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	seen := make(map[string]bool, len(playlists))
	queue := make([]models.Playlist, 0, len(playlists))
	skipped := 0
	for _, p := range playlists {
		key := artwork.KeyFor(p.URL)
		if key == "" || seen[key] {
			skipped++
			continue
		}
		seen[key] = true
		queue = append(queue, p)
	}

	result := &WarmResult{
		Total:   len(queue),
		Skipped: skipped,
		Items:   make([]WarmItem, len(queue)),
	}
	sendProgress(prog, queuedUpdate(len(queue), skipped))

	jobs := make(chan warmJob, len(queue))
	results := make(chan warmDone, len(queue))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go warmWorker(ctx, &wg, r, jobs, results)
	}

	go func() {
		defer close(jobs)
		for i, p := range queue {
			select {
			case <-ctx.Done():
				return
			case jobs <- warmJob{index: i, playlist: p}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Items[res.index] = res.item
		if res.item.Artwork.Placeholder() {
			result.Missing++
		} else {
			result.Found++
		}
		sendProgress(prog, resolvedUpdate(completed, len(queue), res.item))
	}

	if completed < len(queue) {
		result.Items = compact(result.Items)
	}

	return result, ctx.Err()
}

// warmWorker is a worker goroutine that resolves playlists from the jobs channel.
func warmWorker(ctx context.Context, wg *sync.WaitGroup, r Resolver, jobs <-chan warmJob, results chan<- warmDone) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		art := r.Resolve(ctx, job.playlist)
		results <- warmDone{index: job.index, item: WarmItem{Playlist: job.playlist, Artwork: art}}
	}
}

// compact drops slots that were never filled because the run was cancelled.
func compact(items []WarmItem) []WarmItem {
	out := items[:0]
	for _, it := range items {
		if it.Artwork.Source != "" {
			out = append(out, it)
		}
	}
	return out
}

// sendProgress sends an update without blocking; a nil channel disables reporting.
func sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
