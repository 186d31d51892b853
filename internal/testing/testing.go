// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/shared"
)

// MockService is a test double for [services.MovieService].
//
// Nil funcs fall back to serving Movies and Details; unknown IDs are not found.
type MockService struct {
	SearchFunc  func(ctx context.Context, query services.SearchQuery) (*models.SearchResult, error)
	DetailsFunc func(ctx context.Context, id string) (*models.MovieDetail, error)
	Movies      []models.Movie
	Detail      map[string]models.MovieDetail

	mu           sync.Mutex
	SearchCalls  []services.SearchQuery
	DetailsCalls []string
}

var _ services.MovieService = (*MockService)(nil)

func (m *MockService) Search(ctx context.Context, query services.SearchQuery) (*models.SearchResult, error) {
	m.mu.Lock()
	m.SearchCalls = append(m.SearchCalls, query)
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	if len(m.Movies) == 0 {
		return nil, fmt.Errorf("%w: Movie not found!", shared.ErrMovieNotFound)
	}
	return &models.SearchResult{Movies: m.Movies, TotalResults: len(m.Movies), Page: 1}, nil
}

func (m *MockService) Details(ctx context.Context, id string) (*models.MovieDetail, error) {
	m.mu.Lock()
	m.DetailsCalls = append(m.DetailsCalls, id)
	m.mu.Unlock()

	if m.DetailsFunc != nil {
		return m.DetailsFunc(ctx, id)
	}
	if d, ok := m.Detail[id]; ok {
		return &d, nil
	}
	return nil, fmt.Errorf("%w: Incorrect IMDb ID.", shared.ErrMovieNotFound)
}

func (m *MockService) Name() string { return "mock" }

// Calls returns the number of Search and Details calls made so far.
func (m *MockService) Calls() (search, details int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SearchCalls), len(m.DetailsCalls)
}

// MemoryFavorites is an in-memory favorites store that counts saves.
type MemoryFavorites struct {
	mu      sync.Mutex
	Stored  []models.Movie
	Saves   int
	LoadErr error
	SaveErr error
}

func (m *MemoryFavorites) Load() (models.Favorites, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return models.Favorites{}, m.LoadErr
	}
	return models.NewFavorites(m.Stored), nil
}

func (m *MemoryFavorites) Save(favs models.Favorites) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.Stored = favs.Items()
	return nil
}

// SaveCount returns the number of successful saves.
func (m *MemoryFavorites) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// SampleMovies returns a fresh copy of a small result set.
func SampleMovies() []models.Movie {
	return []models.Movie{
		{Title: "The Matrix", Year: "1999", ID: "tt0133093", Type: "movie", Poster: "https://img.example/matrix.jpg"},
		{Title: "The Matrix Reloaded", Year: "2003", ID: "tt0234215", Type: "movie", Poster: models.PosterNA},
		{Title: "The Matrix Revolutions", Year: "2003", ID: "tt0242653", Type: "movie", Poster: ""},
	}
}

// SampleDetails returns detail records keyed by ID for every movie in [SampleMovies].
func SampleDetails() map[string]models.MovieDetail {
	details := map[string]models.MovieDetail{}
	for _, m := range SampleMovies() {
		details[m.ID] = models.MovieDetail{
			Movie:      m,
			Plot:       "Plot of " + m.Title + ".",
			Rated:      "R",
			Runtime:    "136 min",
			Genre:      "Action, Sci-Fi",
			Director:   "Lana Wachowski, Lilly Wachowski",
			IMDbRating: "8.7",
		}
	}
	return details
}
