// Package ui implements the interactive click wheel using bubbletea's Elm architecture.
//
// The TUI has two views that mirror the browser's phases:
//  1. [GenreView] : Pick a genre; "/" opens a search that dims genres without a matching playlist
//  2. [WheelView] : Step through the active playlist list, switch subgenre pills and open playlists
//
// All browsing state lives in a [wheel.Browser] shared by reference; the [Model] only holds
// presentation state. Navigation starts a transition whose completion is delivered as a
// message after its duration elapses, so key repeats during the slide are dropped by the browser.
//
// Keyboard navigation uses vim-style bindings (h/l, tab, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
