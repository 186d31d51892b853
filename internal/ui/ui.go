package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mvx/internal/formatter"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	DetailView
	FavoritesView
)

func (v ViewState) String() string {
	switch v {
	case SearchView:
		return "search"
	case DetailView:
		return "detail"
	case FavoritesView:
		return "favorites"
	default:
		return ""
	}
}

// Model represents the TUI application state.
//
// Search, detail and favorites state lives in the [session.Session]; the model
// only tracks which view is shown and where keyboard focus is.
type Model struct {
	ctx       context.Context
	sess      *session.Session
	view      ViewState
	returnTo  ViewState
	input     textinput.Model
	results   list.Model
	favorites list.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	width     int
	height    int
	status    string
	err       error
}

// NewModel creates a new TUI model over an opened session.
func NewModel(ctx context.Context, sess *session.Session) *Model {
	input := textinput.New()
	input.Placeholder = "Search for a movie..."
	input.Prompt = "› "
	input.CharLimit = 200
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.warn

	m := &Model{
		ctx:       ctx,
		sess:      sess,
		view:      SearchView,
		input:     input,
		results:   newMovieList("Results"),
		favorites: newMovieList("Favorites"),
		spinner:   sp,
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.syncLists()
	return m
}

// Init starts the cursor blinking in the query input.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// ViewState reports the current view.
func (m *Model) ViewState() ViewState { return m.view }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.sess.State().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.back) && m.errorShown() {
			m.dismissError()
			return m, nil
		}
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case FavoritesView:
			return m.handleFavoritesKeys(msg)
		}
	}

	return m.updateFocused(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.Err(), session.ErrRequestInFlight) {
		m.err = msg.Err()
		return m, nil
	}

	switch msg.kind {
	case MsgSearchDone:
		m.syncLists()
		m.results.Select(0)
		if len(m.sess.State().Movies) > 0 {
			m.input.Blur()
		}
	case MsgDetailsLoaded:
		if m.sess.State().Selected != nil {
			m.view = DetailView
		}
	case MsgFavoritesChanged:
		change := msg.data.(favoritesChange)
		m.err = change.err
		switch {
		case change.err != nil:
			m.status = ""
		case !change.changed:
			m.status = ""
		case change.added:
			m.status = fmt.Sprintf("Added %s to favorites", change.movie.Label())
		default:
			m.status = fmt.Sprintf("Removed %s from favorites", change.movie.Label())
		}
		m.syncLists()
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.search):
			m.sess.SetQuery(m.input.Value())
			return m, m.startLoading(m.search())
		case key.Matches(msg, m.keys.favorites):
			return m.showFavorites()
		case key.Matches(msg, m.keys.back):
			if len(m.sess.State().Movies) > 0 {
				m.input.Blur()
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.focus), key.Matches(msg, m.keys.back):
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.favorites):
		return m.showFavorites()
	case key.Matches(msg, m.keys.open):
		if mv, ok := selectedMovie(m.results); ok {
			m.returnTo = SearchView
			return m, m.startLoading(m.showDetails(mv.ID))
		}
		return m, nil
	case key.Matches(msg, m.keys.add):
		if mv, ok := selectedMovie(m.results); ok {
			return m, m.addFavorite(mv)
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if mv, ok := selectedMovie(m.results); ok {
			return m, m.removeFavorite(mv)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected := m.sess.State().Selected

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.sess.CloseDetails()
		m.view = m.returnTo
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.add):
		if selected != nil {
			return m, m.addFavorite(selected.Summary())
		}
	case key.Matches(msg, m.keys.remove):
		if selected != nil {
			return m, m.removeFavorite(selected.Summary())
		}
	}
	return m, nil
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.favorites), key.Matches(msg, m.keys.back):
		m.view = SearchView
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.open):
		if mv, ok := selectedMovie(m.favorites); ok {
			m.returnTo = FavoritesView
			return m, m.startLoading(m.showDetails(mv.ID))
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if mv, ok := selectedMovie(m.favorites); ok {
			return m, m.removeFavorite(mv)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.favorites, cmd = m.favorites.Update(msg)
	return m, cmd
}

func (m *Model) showFavorites() (tea.Model, tea.Cmd) {
	m.view = FavoritesView
	m.status = ""
	m.syncLists()
	return m, nil
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		if m.input.Focused() {
			m.input, cmd = m.input.Update(msg)
		} else {
			m.results, cmd = m.results.Update(msg)
		}
	case FavoritesView:
		m.favorites, cmd = m.favorites.Update(msg)
	}
	return m, cmd
}

func (m *Model) errorShown() bool {
	return m.err != nil || m.sess.State().Error != ""
}

// dismissError clears both the footer error and the session message; esc does
// nothing else while one is shown.
func (m *Model) dismissError() {
	m.err = nil
	m.sess.ClearError()
}

// startLoading runs cmd alongside the spinner.
func (m *Model) startLoading(cmd tea.Cmd) tea.Cmd {
	m.status = ""
	m.err = nil
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) search() tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg(m.sess.Search(m.ctx))
	}
}

func (m *Model) showDetails(id string) tea.Cmd {
	return func() tea.Msg {
		return detailsLoadedMsg(m.sess.ShowDetails(m.ctx, id))
	}
}

func (m *Model) addFavorite(mv models.Movie) tea.Cmd {
	return func() tea.Msg {
		changed, err := m.sess.AddFavorite(mv)
		return favoritesChangedMsg(mv, true, changed, err)
	}
}

func (m *Model) removeFavorite(mv models.Movie) tea.Cmd {
	return func() tea.Msg {
		changed, err := m.sess.RemoveFavorite(mv.ID)
		return favoritesChangedMsg(mv, false, changed, err)
	}
}

// syncLists rebuilds both lists from the session, keeping the cursor positions.
func (m *Model) syncLists() {
	st := m.sess.State()
	favs := models.NewFavorites(st.Favorites)

	ri, fi := m.results.Index(), m.favorites.Index()
	m.results.SetItems(movieItems(st.Movies, favs.Contains))
	m.favorites.SetItems(movieItems(st.Favorites, favs.Contains))

	if n := len(st.Movies); ri < n {
		m.results.Select(ri)
	}
	if n := len(st.Favorites); n > 0 {
		m.favorites.Select(min(fi, n-1))
	}
}

func (m *Model) resize() {
	h := m.height - 8
	if h < 4 {
		h = 4
	}
	m.results.SetSize(m.width-4, h)
	m.favorites.SetSize(m.width-4, h)
	m.input.Width = max(m.width-8, 10)
}

func selectedMovie(l list.Model) (models.Movie, bool) {
	if item, ok := l.SelectedItem().(movieItem); ok {
		return item.movie, true
	}
	return models.Movie{}, false
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	st := m.sess.State()

	var body string
	switch m.view {
	case DetailView:
		body = m.renderDetail(st)
	case FavoritesView:
		body = m.renderFavorites(st)
	default:
		body = m.renderSearch(st)
	}

	return body + "\n" + m.renderFooter(st)
}

func (m *Model) renderSearch(st session.State) string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Movie Search"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case st.Loading:
		b.WriteString(m.spinner.View() + " Loading...")
	case st.Error != "":
		b.WriteString(styles.err.Render(st.Error))
	case len(st.Movies) > 0:
		b.WriteString(m.results.View())
	}

	var keys []key.Binding
	if m.input.Focused() {
		keys = []key.Binding{m.keys.search, m.keys.favorites, m.keys.forceQuit}
	} else {
		keys = []key.Binding{m.keys.open, m.keys.add, m.keys.remove, m.keys.focus, m.keys.favorites, m.keys.quit}
	}
	b.WriteString("\n\n" + m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderDetail(st session.State) string {
	if st.Selected == nil {
		return styles.err.Render(session.MsgDetailNotFound)
	}

	d := *st.Selected
	title := d.Label()
	if m.sess.IsFavorite(d.ID) {
		title = styles.star.Render("★ ") + title
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	lines := strings.Split(strings.TrimRight(formatter.DetailToText(d), "\n"), "\n")
	// Drop the heading and its underline, the title is already rendered above.
	if len(lines) > 2 {
		lines = lines[2:]
	}
	for _, line := range lines {
		if name, value, ok := strings.Cut(line, ":"); ok && !strings.Contains(name, " ") {
			b.WriteString(styles.label.Render(name+":") + value + "\n")
			continue
		}
		b.WriteString(line + "\n")
	}

	keys := []key.Binding{m.keys.add, m.keys.remove, m.keys.back, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderFavorites(st session.State) string {
	var b strings.Builder

	if len(st.Favorites) == 0 {
		b.WriteString(styles.title.Render("Favorites"))
		b.WriteString("\n")
		b.WriteString(styles.help.Render("No favorites yet. Press a on a search result to add one."))
	} else {
		b.WriteString(m.favorites.View())
	}

	if st.Loading {
		b.WriteString("\n" + m.spinner.View() + " Loading...")
	} else if st.Error != "" {
		b.WriteString("\n" + styles.err.Render(st.Error))
	}

	keys := []key.Binding{m.keys.open, m.keys.remove, m.keys.back, m.keys.quit}
	b.WriteString("\n\n" + m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderFooter(st session.State) string {
	switch {
	case m.err != nil:
		msg := m.err.Error()
		if errors.Is(m.err, session.ErrRequestInFlight) {
			msg = "Please wait for the current request to finish."
		}
		return styles.err.Render(msg)
	case m.status != "":
		return styles.ok.Render(m.status)
	default:
		return styles.help.Render(fmt.Sprintf("%d favorites", len(st.Favorites)))
	}
}
