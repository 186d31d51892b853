package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/session"
	"github.com/desertthunder/mvx/internal/shared"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// APIHandler serves the JSON API.
//
// Lookups go straight to the movie service so concurrent clients do not share
// search state. Favorites go through the session, which owns persistence.
type APIHandler struct {
	svc    services.MovieService
	sess   *session.Session
	logger *log.Logger
}

type searchResponse struct {
	Movies       []models.Movie `json:"movies"`
	TotalResults int            `json:"total_results"`
	Page         int            `json:"page"`
}

type favoritesResponse struct {
	Changed   bool           `json:"changed"`
	Favorites []models.Movie `json:"favorites"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewAPIHandler creates the JSON API handler.
func NewAPIHandler(svc services.MovieService, sess *session.Session, logger *log.Logger) *APIHandler {
	return &APIHandler{svc: svc, sess: sess, logger: logger}
}

// Register adds the API routes to r.
func (h *APIHandler) Register(r Router) {
	r.Handle(http.MethodGet, "/api/search", http.HandlerFunc(h.search))
	r.Handle(http.MethodGet, "/api/movies", http.HandlerFunc(h.details))
	r.Handle(http.MethodGet, "/api/favorites", http.HandlerFunc(h.listFavorites))
	r.Handle(http.MethodPost, "/api/favorites", http.HandlerFunc(h.addFavorite))
	r.Handle(http.MethodDelete, "/api/favorites/{id}", http.HandlerFunc(h.removeFavorite))
}

// GET /api/search?s=title[&y=year][&type=movie][&page=n]
func (h *APIHandler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := services.SearchQuery{
		Title: q.Get("s"),
		Year:  q.Get("y"),
		Type:  q.Get("type"),
	}
	if p := q.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, "page must be a number")
			return
		}
		query.Page = page
	}

	result, err := h.svc.Search(r.Context(), query)
	if err != nil {
		h.fail(w, r, err, session.MsgNoResults, session.MsgSearchFailed)
		return
	}
	if len(result.Movies) == 0 {
		writeError(w, http.StatusNotFound, session.MsgNoResults)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Movies:       result.Movies,
		TotalResults: result.TotalResults,
		Page:         result.Page,
	})
}

// GET /api/movies?i=id
func (h *APIHandler) details(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Details(r.Context(), r.URL.Query().Get("i"))
	if err != nil {
		h.fail(w, r, err, session.MsgDetailNotFound, session.MsgDetailFailed)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GET /api/favorites
func (h *APIHandler) listFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sess.Favorites())
}

// POST /api/favorites
//
// The body is a movie summary. A body carrying only an imdbID is completed from the movie service.
func (h *APIHandler) addFavorite(w http.ResponseWriter, r *http.Request) {
	var movie models.Movie
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&movie); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	movie.ID = strings.TrimSpace(movie.ID)
	if movie.ID != "" && !models.ValidID(movie.ID) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid movie id %q", movie.ID))
		return
	}
	if movie.ID != "" && strings.TrimSpace(movie.Title) == "" {
		detail, err := h.svc.Details(r.Context(), movie.ID)
		if err != nil {
			h.fail(w, r, err, session.MsgDetailNotFound, session.MsgDetailFailed)
			return
		}
		movie = detail.Summary()
	}

	changed, err := h.sess.AddFavorite(movie)
	if err != nil {
		h.fail(w, r, err, "", "")
		return
	}

	status := http.StatusOK
	if changed {
		status = http.StatusCreated
	}
	writeJSON(w, status, favoritesResponse{Changed: changed, Favorites: h.sess.Favorites()})
}

// DELETE /api/favorites/{id}
func (h *APIHandler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	changed, err := h.sess.RemoveFavorite(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "", "")
		return
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Changed: changed, Favorites: h.sess.Favorites()})
}

// fail maps err to a status code. notFound and failed replace upstream detail for
// lookups; other errors keep their own message.
func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error, notFound, failed string) {
	status, msg := statusFor(err)

	switch {
	case status == http.StatusNotFound && notFound != "":
		msg = notFound
	case status == http.StatusBadGateway && failed != "":
		msg = failed
	}

	if status >= http.StatusInternalServerError {
		loggerFor(r, h.logger).Error("request failed", "error", err)
	}
	writeError(w, status, msg)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, shared.ErrMovieNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, shared.ErrMissingCredentials), errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, shared.ErrPersist):
		return http.StatusInternalServerError, shared.ErrPersist.Error()
	default:
		return http.StatusBadGateway, "upstream request failed"
	}
}

// HealthHandler reports liveness and, when the service is a [services.BreakerService], the breaker state.
type HealthHandler struct {
	svc services.MovieService
}

var _ Handler = (*HealthHandler)(nil)

func NewHealthHandler(svc services.MovieService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) Routes() []string {
	return []string{"/health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok"}
	if h.svc != nil {
		body["service"] = h.svc.Name()
		if b, ok := h.svc.(*services.BreakerService); ok {
			body["breaker"] = b.State()
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
