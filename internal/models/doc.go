// Package models defines the read-only playlist catalog browsed by clickwheel.
//
// The catalog is a two-level grouping:
//
//   - [Genre] : a top-level grouping with a main playlist list and optional named subgenres
//   - [Playlist] : a display name, an external URL, and optional artwork and genre-tag metadata
//
// A [Catalog] is loaded once at startup and never mutated afterwards. [Catalog.Flatten] produces
// [Entry] values, one per playlist occurrence, which is what search operates on.
package models
