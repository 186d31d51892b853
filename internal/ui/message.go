package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mvx/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSearchDone MsgKind = iota
	MsgDetailsLoaded
	MsgFavoritesChanged
)

// Kind reports which constructor built the message.
func (m Msg) Kind() MsgKind { return m.kind }

// Err returns the error carried by the message, if any.
func (m Msg) Err() error {
	switch d := m.data.(type) {
	case error:
		return d
	case favoritesChange:
		return d.err
	default:
		return nil
	}
}

type favoritesChange struct {
	movie   models.Movie
	added   bool
	changed bool
	err     error
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(err error) Msg {
	return Msg{kind: MsgSearchDone, data: err}
}

// detailsLoadedMsg is the constructor for [MsgDetailsLoaded]
func detailsLoadedMsg(err error) Msg {
	return Msg{kind: MsgDetailsLoaded, data: err}
}

// favoritesChangedMsg is the constructor for [MsgFavoritesChanged]
func favoritesChangedMsg(m models.Movie, added, changed bool, err error) Msg {
	return Msg{
		kind: MsgFavoritesChanged,
		data: favoritesChange{movie: m, added: added, changed: changed, err: err},
	}
}
