package search

import (
	"context"
	"log/slog"

	"github.com/movieplatform/user-service/internal/domain"
	"github.com/movieplatform/user-service/internal/repository"
)

// Dispatcher routes a filter request to the first strategy, in priority
// order, whose CanApply accepts it. Filters are effectively mutually
// exclusive: when a request populates several fields, only the highest-
// priority one is honored and the rest are ignored. If no strategy applies
// the dispatcher falls back to returning every active user.
type Dispatcher struct {
	repo       repository.UserRepository
	strategies []Strategy
	logger     *slog.Logger
}

// NewDispatcher creates a dispatcher with the full strategy set in priority
// order: created-after, username, city, state, country, street, phone,
// zip code, all-users.
func NewDispatcher(repo repository.UserRepository, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		repo: repo,
		strategies: []Strategy{
			createdAfterStrategy{},
			usernameStrategy{},
			cityStrategy{},
			stateStrategy{},
			countryStrategy{},
			streetStrategy{},
			phoneStrategy{},
			zipCodeStrategy{},
			allUsersStrategy{},
		},
		logger: logger,
	}
}

// Search runs the first applicable strategy against the storage port.
func (d *Dispatcher) Search(ctx context.Context, f Filters) ([]domain.User, error) {
	for _, s := range d.strategies {
		if !s.CanApply(f) {
			continue
		}
		d.logger.DebugContext(ctx, "search strategy selected", slog.String("strategy", s.Name()))
		return s.Search(ctx, f, d.repo)
	}

	// Safety net for a request no registered strategy claims.
	d.logger.DebugContext(ctx, "no search strategy applied, returning all users")
	return d.repo.GetAll(ctx)
}
