// package tasks implements batch operations over the favorites list.
//
// The core abstraction is FavoritesEngine, which refreshes detail records and writes exports.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// Engine defines the batch operations over favorites.
type Engine interface {
	// Refresh fetches the detail record of every movie with a bounded worker pool.
	Refresh(ctx context.Context, progress chan<- ProgressUpdate, movies []models.Movie, opts RefreshOpts) (*RefreshResult, error)

	// ExportFavorites writes movies to disk in the requested format along with an export manifest.
	ExportFavorites(ctx context.Context, progress chan<- ProgressUpdate, movies []models.Movie, opts ExportOpts) (*models.ExportManifest, error)
}

// RefreshOpts bounds the work done by [FavoritesEngine.Refresh].
type RefreshOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

func (o RefreshOpts) withDefaults() RefreshOpts {
	if o.NumWorkers <= 0 {
		o.NumWorkers = defaultWorkers
	}
	if o.NumWorkers > maxWorkers {
		o.NumWorkers = maxWorkers
	}
	if o.RateLimit <= 0 {
		o.RateLimit = defaultRateLimit
	}
	return o
}

// RefreshResult contains the detail records fetched by a refresh.
type RefreshResult struct {
	Details   map[string]models.MovieDetail
	Failures  []models.ExportFailure // In input order
	Total     int
	Succeeded int
	Failed    int
}

// Movies returns the summaries of the fetched details, following the order of movies.
//
// Movies whose lookup failed keep their stored summary.
func (r *RefreshResult) Movies(movies []models.Movie) []models.Movie {
	out := make([]models.Movie, len(movies))
	for i, m := range movies {
		if d, ok := r.Details[m.ID]; ok {
			out[i] = d.Summary()
		} else {
			out[i] = m
		}
	}
	return out
}

// FavoritesEngine implements [Engine] on top of a movie service.
type FavoritesEngine struct {
	svc services.MovieService
}

var _ Engine = (*FavoritesEngine)(nil)

// NewFavoritesEngine creates a new FavoritesEngine.
func NewFavoritesEngine(svc services.MovieService) *FavoritesEngine {
	return &FavoritesEngine{svc: svc}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

type detailJob struct {
	index int
	movie models.Movie
}

type detailResult struct {
	index  int
	movie  models.Movie
	detail *models.MovieDetail
	err    error
}

// Refresh fetches detail records with a worker pool, pacing requests with a rate limiter.
//
// A failed lookup is recorded in the result and does not stop the run. When ctx is
// cancelled, dispatch stops and the partial result is returned with the context error.
func (e *FavoritesEngine) Refresh(ctx context.Context, progress chan<- ProgressUpdate, movies []models.Movie, opts RefreshOpts) (*RefreshResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: movie service not initialized", shared.ErrServiceUnavailable)
	}
	opts = opts.withDefaults()

	total := len(movies)
	result := &RefreshResult{
		Details:  make(map[string]models.MovieDetail, total),
		Failures: []models.ExportFailure{},
		Total:    total,
	}
	if total == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan detailJob)
	results := make(chan detailResult, total)

	var wg sync.WaitGroup
	for range min(opts.NumWorkers, total) {
		wg.Add(1)
		go e.detailWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		sendProgress(progress, startDetailsUpdate(total))
		for i, m := range movies {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- detailJob{index: i, movie: m}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	failures := make([]*models.ExportFailure, total)
	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			result.Failed++
			failures[res.index] = &models.ExportFailure{ID: res.movie.ID, Title: res.movie.Title, Error: res.err.Error()}
			sendProgress(progress, detailFailedUpdate(completed, total, res.movie, res.err))
			continue
		}

		result.Succeeded++
		result.Details[res.movie.ID] = *res.detail
		sendProgress(progress, detailFetchedUpdate(completed, total, res.detail))
	}

	for _, f := range failures {
		if f != nil {
			result.Failures = append(result.Failures, *f)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("refresh interrupted after %d of %d: %w", completed, total, err)
	}
	return result, nil
}

// detailWorker fetches detail records from the jobs channel until it closes.
func (e *FavoritesEngine) detailWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan detailJob, results chan<- detailResult) {
	defer wg.Done()

	for job := range jobs {
		d, err := e.svc.Details(ctx, job.movie.ID)
		if err == nil && d == nil {
			err = fmt.Errorf("%w: empty detail record", shared.ErrMovieNotFound)
		}
		results <- detailResult{index: job.index, movie: job.movie, detail: d, err: err}
	}
}
