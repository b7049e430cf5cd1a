// Package tasks runs long catalog operations with real-time progress reporting.
//
// # Artwork Warming
//
// [WarmArtwork] resolves artwork for many playlists with a small worker pool:
//   - Playlists sharing a cache key are resolved once
//   - Each worker calls [artwork.Resolver.Resolve], whose fetcher is already rate limited
//   - Failures are not errors; the playlist simply keeps its placeholder
//
// # Progress Reporting
//
// Operations accept an optional progress channel. The [ProgressUpdate] struct contains phase, step counters
// and a message. Updates use select with default so a slow reader never blocks the workers.
package tasks
