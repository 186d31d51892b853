package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mvx/internal/models"
)

var _ list.Item = movieItem{}

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    models.Movie
	favorite bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.favorite {
		return "★ " + i.movie.Label()
	}
	return i.movie.Label()
}
func (i movieItem) Description() string {
	if i.movie.Type == "" {
		return i.movie.ID
	}
	return fmt.Sprintf("%s • %s", i.movie.ID, i.movie.Type)
}

// movieItems converts movies to list items, marking those for which isFavorite holds.
func movieItems(movies []models.Movie, isFavorite func(string) bool) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m, favorite: isFavorite != nil && isFavorite(m.ID)}
	}
	return items
}

func newMovieList(title string) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("movie", "movies")
	return l
}
