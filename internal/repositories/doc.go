// Package repositories implements SQLite persistence for clickwheel.
//
// The only persisted state is the artwork cache: opaque image references keyed by
// "artwork_<playlistId>". [ArtworkRepository] satisfies [artwork.Store] and is written
// opportunistically; rows are never invalidated by the application.
package repositories
