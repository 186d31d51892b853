package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/repositories"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/shared"
)

const (
	MsgNoResults      = "No results found."
	MsgSearchFailed   = "An error occurred while fetching data."
	MsgDetailNotFound = "Could not retrieve movie details."
	MsgDetailFailed   = "An error occurred while fetching movie details."
)

// ErrRequestInFlight is returned when a request starts while another is outstanding.
var ErrRequestInFlight = errors.New("a request is already in progress")

// State is a point-in-time copy of the session.
type State struct {
	Query        string
	Movies       []models.Movie
	TotalResults int
	Page         int
	Loading      bool
	Error        string
	Selected     *models.MovieDetail
	Favorites    []models.Movie
}

// Session is the controller behind every surface.
type Session struct {
	svc    services.MovieService
	store  repositories.FavoritesStore
	logger *log.Logger

	mu        sync.RWMutex
	query     string
	movies    []models.Movie
	total     int
	page      int
	loading   bool
	errMsg    string
	selected  *models.MovieDetail
	favorites models.Favorites
}

// New creates a Session with an empty favorites list. Call [Session.Open] to load stored favorites.
func New(svc services.MovieService, store repositories.FavoritesStore, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Session{
		svc:    svc,
		store:  store,
		logger: logger,
		movies: []models.Movie{},
	}
}

// Open reads favorites from the store.
//
// A corrupt stored value is logged and treated as an empty list; it stays in
// storage until the next favorites change overwrites it. Store failures are returned.
func (s *Session) Open() error {
	if s.store == nil {
		return nil
	}

	favs, err := s.store.Load()
	if errors.Is(err, shared.ErrCorruptData) {
		s.logger.Warn("ignoring unreadable favorites", "error", err)
		favs, err = models.Favorites{}, nil
	}
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	s.mu.Lock()
	s.favorites = favs
	s.mu.Unlock()

	s.logger.Debug("favorites loaded", "count", favs.Len())
	return nil
}

// SetQuery replaces the current query text.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// SearchFor sets the query and runs [Session.Search].
func (s *Session) SearchFor(ctx context.Context, q string) error {
	s.SetQuery(q)
	return s.Search(ctx)
}

// Search runs a title search for the current query and serves the first page.
func (s *Session) Search(ctx context.Context) error {
	return s.SearchPage(ctx, 1)
}

// SearchPage runs a title search for the current query.
//
// A blank query is a no-op and sends no request. Results replace the list.
// A search matching nothing, or failing, clears the list and sets an error
// message; the underlying error is returned for logging.
func (s *Session) SearchPage(ctx context.Context, page int) error {
	s.mu.Lock()
	query := shared.NormalizeQuery(s.query)
	if query == "" {
		s.mu.Unlock()
		return nil
	}
	if s.loading {
		s.mu.Unlock()
		return ErrRequestInFlight
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	result, err := s.svc.Search(ctx, services.SearchQuery{Title: query, Page: page})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	switch {
	case err == nil && len(result.Movies) > 0:
		s.movies = result.Movies
		s.total = result.TotalResults
		s.page = result.Page
		return nil
	case err == nil:
		err = fmt.Errorf("%w: no results for %q", shared.ErrMovieNotFound, query)
		fallthrough
	case errors.Is(err, shared.ErrMovieNotFound):
		s.clearResults()
		s.errMsg = MsgNoResults
		s.logger.Debug("search matched nothing", "query", query)
	default:
		s.clearResults()
		s.errMsg = MsgSearchFailed
		s.logger.Error("error fetching data", "query", query, "error", err)
	}

	return err
}

func (s *Session) clearResults() {
	s.movies = []models.Movie{}
	s.total = 0
	s.page = 0
}

// ShowDetails fetches the detail record for id and selects it.
//
// On failure the selection is cleared and an error message set.
func (s *Session) ShowDetails(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrRequestInFlight
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	detail, err := s.svc.Details(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	switch {
	case err == nil:
		s.selected = detail
	case errors.Is(err, shared.ErrMovieNotFound), errors.Is(err, shared.ErrInvalidInput):
		s.selected = nil
		s.errMsg = MsgDetailNotFound
		s.logger.Debug("movie details not found", "id", id, "error", err)
	default:
		s.selected = nil
		s.errMsg = MsgDetailFailed
		s.logger.Error("error fetching movie details", "id", id, "error", err)
	}

	return err
}

// CloseDetails drops the selection and returns to the result list.
func (s *Session) CloseDetails() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// ClearError drops the current error message.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// AddFavorite appends m to favorites and persists the list.
//
// Adding an ID that is already present is a no-op and writes nothing. It
// reports whether the list changed.
func (s *Session) AddFavorite(m models.Movie) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return s.updateFavorites(func(f *models.Favorites) bool { return f.Add(m) })
}

// RemoveFavorite drops id from favorites and persists the list.
//
// Removing an absent ID is a no-op and writes nothing. It reports whether the list changed.
func (s *Session) RemoveFavorite(id string) (bool, error) {
	return s.updateFavorites(func(f *models.Favorites) bool { return f.Remove(id) })
}

// UpdateFavorites replaces stored records with fresher copies, matched by ID.
//
// Movies that are not favorites are ignored; order and membership never
// change. The list is written once, and only when some record differed. It
// returns the number of records replaced.
func (s *Session) UpdateFavorites(movies []models.Movie) (int, error) {
	count := 0
	_, err := s.updateFavorites(func(f *models.Favorites) bool {
		for _, m := range movies {
			if m.Validate() == nil && f.Update(m) {
				count++
			}
		}
		return count > 0
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// updateFavorites applies fn to a copy of the list and commits it once the store accepted it.
func (s *Session) updateFavorites(fn func(*models.Favorites) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.favorites.Clone()
	if !fn(&next) {
		return false, nil
	}

	if s.store != nil {
		if err := s.store.Save(next); err != nil {
			s.logger.Error("failed to save favorites", "error", err)
			return false, fmt.Errorf("%w: %v", shared.ErrPersist, err)
		}
	}

	s.favorites = next
	return true, nil
}

// IsFavorite reports whether id is in favorites.
func (s *Session) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.Contains(id)
}

// Favorites returns a copy of the favorites list in insertion order.
func (s *Session) Favorites() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.Items()
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	movies := make([]models.Movie, len(s.movies))
	copy(movies, s.movies)

	var selected *models.MovieDetail
	if s.selected != nil {
		d := *s.selected
		selected = &d
	}

	return State{
		Query:        s.query,
		Movies:       movies,
		TotalResults: s.total,
		Page:         s.page,
		Loading:      s.loading,
		Error:        s.errMsg,
		Selected:     selected,
		Favorites:    s.favorites.Items(),
	}
}
