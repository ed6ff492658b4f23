package search

import (
	"context"
	"errors"
	"strings"

	"github.com/movieplatform/user-service/internal/domain"
	"github.com/movieplatform/user-service/internal/repository"
	apperrors "github.com/movieplatform/user-service/pkg/errors"
)

// Strategy pairs an applicability predicate with a retrieval operation.
// Strategies are stateless; the dispatcher evaluates them in a fixed priority
// order and runs the first one that applies.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// CanApply reports whether the strategy handles the given filters.
	CanApply(f Filters) bool

	// Search executes the retrieval against the storage port.
	Search(ctx context.Context, f Filters, repo repository.UserRepository) ([]domain.User, error)
}

// createdAfterStrategy applies when a start-date bound is present.
type createdAfterStrategy struct{}

func (createdAfterStrategy) Name() string { return "created_after" }

func (createdAfterStrategy) CanApply(f Filters) bool { return f.StartDate != nil }

func (createdAfterStrategy) Search(ctx context.Context, f Filters, repo repository.UserRepository) ([]domain.User, error) {
	return repo.GetAllCreatedAfter(ctx, *f.StartDate)
}

// usernameStrategy looks up the single user holding the exact username.
// A missing username yields an empty result, not an error.
type usernameStrategy struct{}

func (usernameStrategy) Name() string { return "username" }

func (usernameStrategy) CanApply(f Filters) bool { return present(f.Username) }

func (usernameStrategy) Search(ctx context.Context, f Filters, repo repository.UserRepository) ([]domain.User, error) {
	u, err := repo.GetByUsername(ctx, f.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.User{}, nil
		}
		return nil, err
	}
	return []domain.User{*u}, nil
}

// cityStrategy matches the address city exactly at the storage level.
type cityStrategy struct{}

func (cityStrategy) Name() string { return "city" }

func (cityStrategy) CanApply(f Filters) bool { return present(f.City) }

func (cityStrategy) Search(ctx context.Context, f Filters, repo repository.UserRepository) ([]domain.User, error) {
	return repo.GetByCity(ctx, f.City)
}

type stateStrategy struct{}

func (stateStrategy) Name() string { return "state" }

func (stateStrategy) CanApply(f Filters) bool { return present(f.State) }

func (stateStrategy) Search(ctx context.Context, f Filters, repo repository.UserRepository) ([]domain.User, error) {
	return repo.GetByState(ctx, f.State)
}

type countryStrategy struct{}

func (countryStrategy) Name() string { return "country" }

func (countryStrategy) CanApply(f Filters) bool { return present(f.Country) }

func (countryStrategy) Search(ctx context.Context, f Filters, repo repository.UserRepository) ([]domain.User, error) {
	return repo.GetByCountry(ctx, f.Country)
}

// streetStrategy has no dedicated storage lookup: it loads every active user
// and filters client-side on a case-insensitive substring match.
type streetStrategy struct{}

func (streetStrategy) Name() string { return "street" }

func (streetStrategy) CanApply(f Filters) bool { return present(f.Street) }

func (streetStrategy) Search(ctx context.Context, f Filters, repo repository.UserRepository) ([]domain.User, error) {
	users, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterContains(users, f.Street, func(u domain.User) string { return u.Address.Street }), nil
}

// phoneStrategy loads all active users and filters client-side, same as
// streetStrategy.
type phoneStrategy struct{}

func (phoneStrategy) Name() string { return "phone" }

func (phoneStrategy) CanApply(f Filters) bool { return present(f.Phone) }

func (phoneStrategy) Search(ctx context.Context, f Filters, repo repository.UserRepository) ([]domain.User, error) {
	users, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterContains(users, f.Phone, func(u domain.User) string { return u.Phone }), nil
}

// zipCodeStrategy loads all active users and filters client-side, same as
// streetStrategy.
type zipCodeStrategy struct{}

func (zipCodeStrategy) Name() string { return "zip_code" }

func (zipCodeStrategy) CanApply(f Filters) bool { return present(f.ZipCode) }

func (zipCodeStrategy) Search(ctx context.Context, f Filters, repo repository.UserRepository) ([]domain.User, error) {
	users, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterContains(users, f.ZipCode, func(u domain.User) string { return u.Address.ZipCode }), nil
}

// allUsersStrategy is the explicit catch-all: it applies only when every
// string filter is blank, and returns every active user ordered by username.
type allUsersStrategy struct{}

func (allUsersStrategy) Name() string { return "all_users" }

func (allUsersStrategy) CanApply(f Filters) bool {
	return !present(f.Username) &&
		!present(f.City) &&
		!present(f.State) &&
		!present(f.Country) &&
		!present(f.Phone) &&
		!present(f.Street) &&
		!present(f.ZipCode)
}

func (allUsersStrategy) Search(ctx context.Context, f Filters, repo repository.UserRepository) ([]domain.User, error) {
	return repo.GetAll(ctx)
}

// filterContains keeps the users whose selected field contains needle,
// case-insensitively.
func filterContains(users []domain.User, needle string, field func(domain.User) string) []domain.User {
	needle = strings.ToLower(needle)
	matched := make([]domain.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(field(u)), needle) {
			matched = append(matched, u)
		}
	}
	return matched
}
