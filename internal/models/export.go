package models

import "time"

// FavoritesExport is the favorites list as written by an export, optionally joined with detail records.
type FavoritesExport struct {
	ExportedAt time.Time              `json:"exported_at"`
	Movies     []Movie                `json:"movies"`
	Details    map[string]MovieDetail `json:"details,omitempty"`
}

// Detail returns the detail record for id when the export carries one.
func (e FavoritesExport) Detail(id string) (MovieDetail, bool) {
	d, ok := e.Details[id]
	return d, ok
}

// ExportFailure records a favorite whose detail record could not be fetched.
type ExportFailure struct {
	ID    string `json:"imdbID"`
	Title string `json:"title"`
	Error string `json:"error"`
}

// ExportManifest summarizes a single export run. It is written next to the exported files.
type ExportManifest struct {
	RunID           string          `json:"run_id"`
	Format          string          `json:"format"`
	CreatedAt       time.Time       `json:"created_at"`
	OutputDirectory string          `json:"output_directory"`
	TotalMovies     int             `json:"total_movies"`
	DetailsFetched  int             `json:"details_fetched"`
	DetailsFailed   int             `json:"details_failed"`
	Posters         int             `json:"posters"`
	Files           []string        `json:"files"`
	Failures        []ExportFailure `json:"failures,omitempty"`
}
