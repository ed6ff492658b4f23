package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/movieplatform/user-service/internal/domain"
	"github.com/movieplatform/user-service/internal/event"
	"github.com/movieplatform/user-service/internal/repository"
	"github.com/movieplatform/user-service/internal/search"
	apperrors "github.com/movieplatform/user-service/pkg/errors"
)

// UserService implements the business logic for user profile operations.
type UserService struct {
	repo       repository.UserRepository
	dispatcher *search.Dispatcher
	validator  *search.Validator
	producer   *event.Producer
	logger     *slog.Logger
}

// NewUserService creates a new user service. The search dispatcher and filter
// validator are built here from the domain options so callers wire only the
// storage, event, and logging collaborators.
func NewUserService(
	repo repository.UserRepository,
	opts domain.Options,
	producer *event.Producer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		repo:       repo,
		dispatcher: search.NewDispatcher(repo, logger),
		validator:  search.NewValidator(opts),
		producer:   producer,
		logger:     logger,
	}
}

// --- Input types ---

// CreateUserInput holds the parameters for creating a new user.
type CreateUserInput struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Street   string
	City     string
	State    string
	ZipCode  string
	Country  string
}

// UpdateUserInput holds the parameters for updating a user. Updates are a
// full replace of the mutable fields, never a partial patch.
type UpdateUserInput struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Street   string
	City     string
	State    string
	ZipCode  string
	Country  string
}

// --- Operations ---

// Create registers a new user profile. Email and username must both be
// unique; when both are taken the conflict reports both fields.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	address, err := domain.NewAddress(input.Street, input.City, input.State, input.ZipCode, input.Country)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	user, err := domain.NewUser(input.Name, input.Username, input.Email, input.Phone, address)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	conflicts, err := s.uniquenessConflicts(ctx, input.Email, input.Username, nil)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, apperrors.Conflict(conflicts...)
	}

	if _, err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Publish creation event (non-blocking on failure).
	if err := s.producer.PublishUserCreated(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.created event",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// GetByID retrieves a single active user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a single active user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a single active user by exact username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", username)
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

// List returns every active user ordered by username.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListCreatedAfter returns the active users created at or after the given
// time.
func (s *UserService) ListCreatedAfter(ctx context.Context, after time.Time) ([]domain.User, error) {
	users, err := s.repo.GetAllCreatedAfter(ctx, after)
	if err != nil {
		return nil, fmt.Errorf("list users created after: %w", err)
	}
	return users, nil
}

// Search validates the filters and routes the request to the first
// applicable search strategy. Any validation failure blocks the search.
func (s *UserService) Search(ctx context.Context, filters search.Filters) ([]domain.User, error) {
	if messages := s.validator.Validate(filters); len(messages) > 0 {
		return nil, apperrors.Validation(messages)
	}

	users, err := s.dispatcher.Search(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// Update replaces all mutable fields of an existing user.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	address, err := domain.NewAddress(input.Street, input.City, input.State, input.ZipCode, input.Country)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.uniquenessConflicts(ctx, input.Email, input.Username, user)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, apperrors.Conflict(conflicts...)
	}

	user.Update(input.Name, input.Username, input.Email, input.Phone, address)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	// Publish update event (non-blocking on failure).
	if err := s.producer.PublishUserUpdated(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.updated event",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user updated",
		slog.Int64("user_id", user.ID),
	)

	return user, nil
}

// RecordLogin stamps the user's last-login time.
func (s *UserService) RecordLogin(ctx context.Context, id int64) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	user.RecordLogin()

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("record login: %w", err)
	}

	s.logger.InfoContext(ctx, "user login recorded",
		slog.Int64("user_id", user.ID),
	)

	return nil
}

// Delete logically deletes a user. The row is deactivated, not removed, and
// disappears from every read path.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check user existence: %w", err)
	}
	if !exists {
		return apperrors.NotFound("user", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	// Publish deactivation event (non-blocking on failure).
	if err := s.producer.PublishUserDeactivated(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.deactivated event",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user deactivated",
		slog.Int64("user_id", id),
	)

	return nil
}

// uniquenessConflicts checks email and username availability, collecting a
// message per taken field. When current is non-nil, values the user already
// holds are skipped so an unchanged update does not conflict with itself.
func (s *UserService) uniquenessConflicts(ctx context.Context, email, username string, current *domain.User) ([]string, error) {
	var conflicts []string

	if current == nil || current.Email != email {
		taken, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check email availability: %w", err)
		}
		if taken {
			conflicts = append(conflicts, fmt.Sprintf("email %q is already in use", email))
		}
	}

	if current == nil || current.Username != username {
		taken, err := s.repo.UsernameExists(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("check username availability: %w", err)
		}
		if taken {
			conflicts = append(conflicts, fmt.Sprintf("username %q is already in use", username))
		}
	}

	return conflicts, nil
}
