package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/movieplatform/user-service/internal/domain"
	"github.com/movieplatform/user-service/pkg/database"
	apperrors "github.com/movieplatform/user-service/pkg/errors"
)

// userColumns is the column list shared by every user select.
const userColumns = `id, name, username, email, phone, street, city, state, zip_code, country, created_at, updated_at, last_login_at, is_active`

// DB is the subset of pgxpool.Pool used by the repository. pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements repository.UserRepository using PostgreSQL.
// The address value object is mapped into the user row; there is no separate
// addresses table. Deletion is logical: rows are deactivated, and every read
// filters on is_active so deactivated users are invisible to callers.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns the assigned identity.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	query := `
		INSERT INTO users (name, username, email, phone, street, city, state, zip_code, country, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	ctx, end := database.TraceQuery(ctx, "CreateUser", query)
	var id int64
	err := r.db.QueryRow(ctx, query,
		u.Name,
		u.Username,
		u.Email,
		u.Phone,
		u.Address.Street,
		u.Address.City,
		u.Address.State,
		u.Address.ZipCode,
		u.Address.Country,
		u.CreatedAt,
		u.IsActive,
	).Scan(&id)
	end(err)
	if err != nil {
		if conflict := conflictError(err, u); conflict != nil {
			return 0, conflict
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	u.ID = id
	return id, nil
}

// GetByID retrieves an active user by their identifier.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND is_active = TRUE`

	return r.scanUser(ctx, "GetUserByID", query, id)
}

// GetByEmail retrieves an active user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND is_active = TRUE`

	return r.scanUser(ctx, "GetUserByEmail", query, email)
}

// GetByUsername retrieves an active user by exact username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 AND is_active = TRUE`

	return r.scanUser(ctx, "GetUserByUsername", query, username)
}

// GetAll returns every active user ordered by username ascending.
func (r *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE
		ORDER BY username ASC`

	return r.scanUsers(ctx, "GetAllUsers", query)
}

// GetByCity returns active users with an exact address city match.
func (r *UserRepository) GetByCity(ctx context.Context, city string) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE AND city = $1
		ORDER BY username ASC`

	return r.scanUsers(ctx, "GetUsersByCity", query, city)
}

// GetByState returns active users with an exact address state match.
func (r *UserRepository) GetByState(ctx context.Context, state string) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE AND state = $1
		ORDER BY username ASC`

	return r.scanUsers(ctx, "GetUsersByState", query, state)
}

// GetByCountry returns active users with an exact address country match.
func (r *UserRepository) GetByCountry(ctx context.Context, country string) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE AND country = $1
		ORDER BY username ASC`

	return r.scanUsers(ctx, "GetUsersByCountry", query, country)
}

// GetAllCreatedAfter returns active users created at or after the given time.
func (r *UserRepository) GetAllCreatedAfter(ctx context.Context, after time.Time) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE AND created_at >= $1
		ORDER BY username ASC`

	return r.scanUsers(ctx, "GetUsersCreatedAfter", query, after)
}

// Update persists all mutable fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, username = $2, email = $3, phone = $4,
		    street = $5, city = $6, state = $7, zip_code = $8, country = $9,
		    updated_at = $10, last_login_at = $11, is_active = $12
		WHERE id = $13`

	ctx, end := database.TraceQuery(ctx, "UpdateUser", query)
	ct, err := r.db.Exec(ctx, query,
		u.Name,
		u.Username,
		u.Email,
		u.Phone,
		u.Address.Street,
		u.Address.City,
		u.Address.State,
		u.Address.ZipCode,
		u.Address.Country,
		u.UpdatedAt,
		u.LastLoginAt,
		u.IsActive,
		u.ID,
	)
	end(err)
	if err != nil {
		if conflict := conflictError(err, u); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// Delete logically deletes a user by deactivating the row.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET is_active = FALSE, updated_at = $1
		WHERE id = $2 AND is_active = TRUE`

	ctx, end := database.TraceQuery(ctx, "DeactivateUser", query)
	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	end(err)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// Exists reports whether an active user with the given id exists.
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "UserExists", `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND is_active = TRUE)`, id)
}

// EmailExists reports whether an active user holds the given email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "EmailExists", `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND is_active = TRUE)`, email)
}

// UsernameExists reports whether an active user holds the given username.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "UsernameExists", `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND is_active = TRUE)`, username)
}

func (r *UserRepository) exists(ctx context.Context, op, query string, arg any) (bool, error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	var exists bool
	err := r.db.QueryRow(ctx, query, arg).Scan(&exists)
	end(err)
	if err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}
	return exists, nil
}

// scanUser executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, op, query string, args ...any) (*domain.User, error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	var u domain.User

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Name,
		&u.Username,
		&u.Email,
		&u.Phone,
		&u.Address.Street,
		&u.Address.City,
		&u.Address.State,
		&u.Address.ZipCode,
		&u.Address.Country,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLoginAt,
		&u.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// An empty result is not a query failure.
			end(nil)
			return nil, apperrors.ErrNotFound
		}
		end(err)
		return nil, fmt.Errorf("scan user: %w", err)
	}

	end(nil)
	return &u, nil
}

// scanUsers executes a query expected to return zero or more user rows.
func (r *UserRepository) scanUsers(ctx context.Context, op, query string, args ...any) (_ []domain.User, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Username,
			&u.Email,
			&u.Phone,
			&u.Address.Street,
			&u.Address.City,
			&u.Address.State,
			&u.Address.ZipCode,
			&u.Address.Country,
			&u.CreatedAt,
			&u.UpdatedAt,
			&u.LastLoginAt,
			&u.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return users, nil
}

// conflictError maps a PostgreSQL unique violation (SQLSTATE 23505) to a
// Conflict error attributing the offending field via the constraint name.
func conflictError(err error, u *domain.User) error {
	if err == nil || !strings.Contains(err.Error(), "23505") {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "users_email_key"):
		return apperrors.Conflict(fmt.Sprintf("email %q is already in use", u.Email))
	case strings.Contains(msg, "users_username_key"):
		return apperrors.Conflict(fmt.Sprintf("username %q is already in use", u.Username))
	default:
		return apperrors.Conflict()
	}
}
