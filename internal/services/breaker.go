package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mvx/internal/models"
	"github.com/desertthunder/mvx/internal/shared"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerService wraps a [MovieService] with a circuit breaker.
//
// Only transport and upstream failures count against the breaker. A search
// that matches nothing or a rejected input is a healthy answer. While the
// breaker is open, calls fail immediately with [shared.ErrServiceUnavailable].
type BreakerService struct {
	next MovieService
	cb   *gobreaker.CircuitBreaker[any]
}

var _ MovieService = (*BreakerService)(nil)

// NewBreakerService wraps next according to cfg. A nil logger discards state changes.
func NewBreakerService(next MovieService, cfg shared.BreakerConfig, logger *log.Logger) *BreakerService {
	threshold := cfg.FailureThreshold
	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cfg.Timeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed", "service", name, "from", from.String(), "to", to.String())
			}
		},
	}

	return &BreakerService{next: next, cb: gobreaker.NewCircuitBreaker[any](settings)}
}

func isHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, shared.ErrMovieNotFound) ||
		errors.Is(err, shared.ErrInvalidInput) ||
		errors.Is(err, shared.ErrInvalidArgument) ||
		errors.Is(err, shared.ErrMissingCredentials) ||
		errors.Is(err, context.Canceled)
}

// Name returns the wrapped service name.
func (b *BreakerService) Name() string {
	return b.next.Name()
}

// State reports the breaker state: closed, half-open or open.
func (b *BreakerService) State() string {
	return b.cb.State().String()
}

func (b *BreakerService) Search(ctx context.Context, query SearchQuery) (*models.SearchResult, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.next.Search(ctx, query)
	})
	if err != nil {
		return nil, b.wrap(err)
	}
	return res.(*models.SearchResult), nil
}

func (b *BreakerService) Details(ctx context.Context, id string) (*models.MovieDetail, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.next.Details(ctx, id)
	})
	if err != nil {
		return nil, b.wrap(err)
	}
	return res.(*models.MovieDetail), nil
}

func (b *BreakerService) wrap(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s is failing, try again later (%v)", shared.ErrServiceUnavailable, b.next.Name(), err)
	}
	return err
}
