// Package wheel implements the click-wheel playlist browser state machine.
//
// A [Browser] owns a single [State] and moves between two phases:
//
//	Idle ──SelectGenre──▶ GenreSelected ──Exit──▶ Idle
//
// While a genre is selected the active list is either the genre's main playlists or one of
// its subgenre lists, and [Browser.Navigate] moves through it with wrap-around. Every
// navigation starts a [Transition]; until the caller reports it finished with
// [Browser.Complete], further navigation is dropped. At most one transition is in flight.
//
// Missing genres, unknown subgenres and empty lists are not errors: the operation does
// nothing. [Search] never touches browser state; it only reports which genres to emphasize.
package wheel
