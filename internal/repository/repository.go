package repository

import (
	"context"
	"time"

	"github.com/movieplatform/user-service/internal/domain"
)

// UserRepository defines the storage port for user persistence. Every read
// method excludes logically deleted rows by contract: callers never see a
// record with the active flag unset. All operations honor context
// cancellation.
type UserRepository interface {
	// Create inserts a new user and returns the storage-assigned identity.
	Create(ctx context.Context, user *domain.User) (int64, error)

	// GetByID retrieves an active user by their identifier.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves an active user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves an active user by exact username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetAll returns every active user ordered by username ascending.
	GetAll(ctx context.Context) ([]domain.User, error)

	// GetByCity returns active users whose address city matches exactly,
	// ordered by username ascending.
	GetByCity(ctx context.Context, city string) ([]domain.User, error)

	// GetByState returns active users whose address state matches exactly,
	// ordered by username ascending.
	GetByState(ctx context.Context, state string) ([]domain.User, error)

	// GetByCountry returns active users whose address country matches exactly,
	// ordered by username ascending.
	GetByCountry(ctx context.Context, country string) ([]domain.User, error)

	// GetAllCreatedAfter returns active users created at or after the given
	// time, ordered by username ascending.
	GetAllCreatedAfter(ctx context.Context, after time.Time) ([]domain.User, error)

	// Update persists all mutable fields of an existing user.
	Update(ctx context.Context, user *domain.User) error

	// Delete logically deletes a user: the row is deactivated, never removed.
	Delete(ctx context.Context, id int64) error

	// Exists reports whether an active user with the given id exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// EmailExists reports whether an active user holds the given email.
	EmailExists(ctx context.Context, email string) (bool, error)

	// UsernameExists reports whether an active user holds the given username.
	UsernameExists(ctx context.Context, username string) (bool, error)
}
