// package models defines the data model for the movie search client
package models

import (
	"fmt"
	"regexp"
	"strings"
)

// PosterNA is the sentinel the movie database uses when no poster exists.
const PosterNA = "N/A"

var imdbID = regexp.MustCompile(`^tt\d+$`)

// ValidID reports whether id has the IMDb title form "tt" followed by digits.
func ValidID(id string) bool {
	return imdbID.MatchString(id)
}

// Movie is a search hit: the summary record shared by results and favorites.
type Movie struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ID     string `json:"imdbID"`
	Type   string `json:"Type,omitempty"`
	Poster string `json:"Poster"`
}

// HasPoster reports whether the poster field holds a usable URL.
func (m Movie) HasPoster() bool {
	p := strings.TrimSpace(m.Poster)
	return p != "" && p != PosterNA
}

// IMDbURL returns the public title page for the movie.
func (m Movie) IMDbURL() string {
	return fmt.Sprintf("https://www.imdb.com/title/%s/", m.ID)
}

// Label renders "Title (Year)".
func (m Movie) Label() string {
	if m.Year == "" {
		return m.Title
	}
	return fmt.Sprintf("%s (%s)", m.Title, m.Year)
}

// Validate checks the fields required to keep a movie in favorites.
func (m Movie) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("movie id is required")
	}
	if !ValidID(m.ID) {
		return fmt.Errorf("movie id %q is not an IMDb identifier", m.ID)
	}
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("movie title is required")
	}
	return nil
}

// MovieDetail is the expanded record fetched on demand by identifier.
type MovieDetail struct {
	Movie
	Plot       string `json:"Plot"`
	Rated      string `json:"Rated,omitempty"`
	Released   string `json:"Released,omitempty"`
	Runtime    string `json:"Runtime,omitempty"`
	Genre      string `json:"Genre,omitempty"`
	Director   string `json:"Director,omitempty"`
	Actors     string `json:"Actors,omitempty"`
	Language   string `json:"Language,omitempty"`
	Country    string `json:"Country,omitempty"`
	IMDbRating string `json:"imdbRating,omitempty"`
}

// Summary projects the detail record onto its [Movie] summary.
func (d MovieDetail) Summary() Movie {
	return d.Movie
}

// SearchResult is one page of search hits.
type SearchResult struct {
	Movies       []Movie
	TotalResults int
	Page         int
}
