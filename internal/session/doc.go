// Package session holds the view state of the movie client and the transitions between states.
//
// A [Session] is the controller every surface drives: the TUI, the one-shot
// CLI commands and the local HTTP server. It owns
//   - the current query and the list of search results
//   - the selected detail record, if any
//   - a loading flag and a static user-facing error message
//   - the favorites list, loaded from a [repositories.FavoritesStore] at
//     startup and written back in full on every change
//
// # Failure Messages
//
// Failures never carry upstream detail into the view; they clear the affected
// state and set one of four static messages. Not-found and other failures are
// told apart for both searches and detail lookups:
//   - [MsgNoResults], [MsgSearchFailed]
//   - [MsgDetailNotFound], [MsgDetailFailed]
//
// # Concurrency
//
// Bubbletea runs commands on their own goroutines while View reads state, so
// every method is safe for concurrent use. Only one network request runs at a
// time; a second one started while the first is outstanding fails with
// [ErrRequestInFlight].
package session
