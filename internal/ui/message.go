package ui

import (
	"github.com/desertthunder/clickwheel/internal/artwork"
	"github.com/desertthunder/clickwheel/internal/wheel"
)

// transitionDoneMsg is delivered once a navigation transition has run its course.
type transitionDoneMsg struct {
	transition wheel.Transition
}

// artworkResolvedMsg carries the artwork for the playlist at url.
type artworkResolvedMsg struct {
	url     string
	artwork artwork.Artwork
}

// openedMsg reports the result of opening the current playlist.
type openedMsg struct {
	name string
	err  error
}
