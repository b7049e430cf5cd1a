// Package server exposes the playlist catalog over HTTP as JSON.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Catalog API
//
// [API] implements [Handler] and serves read-only endpoints under /api/:
//
//	GET /api/genres                      → genre summaries in catalog order
//	GET /api/genres/{key}                → one genre with its main list and subgenres
//	GET /api/genres/{key}/playlists      → the active list (?subgenre= selects a subgenre)
//	GET /api/search?q=                   → matching genre keys and playlists
//	GET /api/artwork?url=                → cached artwork or the placeholder, never fetched
//
// Each request drives its own [wheel.Browser], so the HTTP surface shares the terminal's selection rules
// without sharing its state.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
