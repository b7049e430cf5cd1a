package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrUnsupportedCatalog = fmt.Errorf("unsupported catalog format")
	ErrGenreNotFound      = fmt.Errorf("genre not found")
	ErrSubgenreNotFound   = fmt.Errorf("subgenre not found")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Artwork errors
	ErrArtworkNotFound = fmt.Errorf("artwork not found")
	ErrNoPlaylistID    = fmt.Errorf("no playlist id in url")

	// Platform and service errors
	ErrUnsupportedPlatform = fmt.Errorf("unsupported platform")
	ErrServiceUnavailable  = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
