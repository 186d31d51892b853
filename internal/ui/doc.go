// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors a single-page movie search app with three views:
//  1. [SearchView] : Query input and result list
//  2. [DetailView] : Full record of the selected movie
//  3. [FavoritesView] : The persisted favorites list
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// All data lives in a [session.Session]; commands call into it on their own goroutines and report back with a [Msg].
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, a/d, q) with contextual help displayed via charmbracelet/bubbles/help.
// While the query input has focus, letters are typed into it and only enter, tab, esc and ctrl+c act as commands.
package ui
