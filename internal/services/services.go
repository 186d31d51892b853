// package services defines interface MovieService for interacting with movie database HTTP APIs
package services

import (
	"context"

	"github.com/desertthunder/mvx/internal/models"
)

// MovieService defines the interface for movie database providers.
type MovieService interface {
	// Search looks movies up by title. A search that matches nothing returns
	// an error wrapping [shared.ErrMovieNotFound].
	Search(ctx context.Context, query SearchQuery) (*models.SearchResult, error)

	// Details retrieves the full record for one identifier.
	Details(ctx context.Context, id string) (*models.MovieDetail, error)

	// Name returns the name of the service (e.g., "OMDb")
	Name() string
}

// SearchQuery holds the parameters of a title search. Only Title is required.
type SearchQuery struct {
	Title string
	Year  string
	Type  string // movie, series or episode
	Page  int    // 1-based; zero means the first page
}

// validTypes lists the type filters the upstream accepts.
var validTypes = map[string]bool{"": true, "movie": true, "series": true, "episode": true}
