package tasks

import (
	"fmt"

	"github.com/desertthunder/clickwheel/internal/artwork"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	QueueArtwork Phase = iota
	ResolveArtwork
)

func (p Phase) String() string {
	switch p {
	case QueueArtwork:
		return "queue_artwork"
	case ResolveArtwork:
		return "resolve_artwork"
	default:
		return ""
	}
}

func queuedUpdate(total, skipped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   QueueArtwork,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Resolving artwork for %d playlists (%d duplicates skipped)...", total, skipped),
	}
}

func resolvedUpdate(step, total int, item WarmItem) ProgressUpdate {
	if item.Artwork.Placeholder() {
		return ProgressUpdate{
			Phase:   ResolveArtwork,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: no artwork", step, total, item.Playlist.Name),
			Data:    item,
		}
	}
	return ProgressUpdate{
		Phase:   ResolveArtwork,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, item.Playlist.Name, sourceLabel(item.Artwork.Source)),
		Data:    item,
	}
}

func sourceLabel(s artwork.Source) string {
	if s == artwork.SourceRemote {
		return "fetched"
	}
	return string(s)
}
