package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/movieplatform/user-service/internal/domain"
	pkgkafka "github.com/movieplatform/user-service/pkg/kafka"
)

// Kafka topics for user domain events.
var (
	TopicUserCreated     = pkgkafka.Topic("user", "created")
	TopicUserUpdated     = pkgkafka.Topic("user", "updated")
	TopicUserDeactivated = pkgkafka.Topic("user", "deactivated")
)

// Aggregate type constant.
const AggregateTypeUser = "user"

// Source identifier for events originating from the user service.
const SourceUserService = "user-service"

// UserCreatedData is the payload for a user.created event.
type UserCreatedData struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserUpdatedData is the payload for a user.updated event.
type UserUpdatedData struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// UserDeactivatedData is the payload for a user.deactivated event.
type UserDeactivatedData struct {
	ID int64 `json:"id"`
}

// Producer publishes user domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the user service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserCreated publishes a user.created event.
func (p *Producer) PublishUserCreated(ctx context.Context, user *domain.User) error {
	data := UserCreatedData{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
	}

	event, err := pkgkafka.NewEvent(TopicUserCreated, aggregateID(user.ID), AggregateTypeUser, SourceUserService, data)
	if err != nil {
		return fmt.Errorf("create user.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserCreated, event); err != nil {
		return fmt.Errorf("publish user.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.created event",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return nil
}

// PublishUserUpdated publishes a user.updated event.
func (p *Producer) PublishUserUpdated(ctx context.Context, user *domain.User) error {
	data := UserUpdatedData{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
	}

	event, err := pkgkafka.NewEvent(TopicUserUpdated, aggregateID(user.ID), AggregateTypeUser, SourceUserService, data)
	if err != nil {
		return fmt.Errorf("create user.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserUpdated, event); err != nil {
		return fmt.Errorf("publish user.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.updated event",
		slog.Int64("user_id", user.ID),
	)

	return nil
}

// PublishUserDeactivated publishes a user.deactivated event.
func (p *Producer) PublishUserDeactivated(ctx context.Context, userID int64) error {
	data := UserDeactivatedData{ID: userID}

	event, err := pkgkafka.NewEvent(TopicUserDeactivated, aggregateID(userID), AggregateTypeUser, SourceUserService, data)
	if err != nil {
		return fmt.Errorf("create user.deactivated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserDeactivated, event); err != nil {
		return fmt.Errorf("publish user.deactivated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.deactivated event",
		slog.Int64("user_id", userID),
	)

	return nil
}

func aggregateID(id int64) string {
	return strconv.FormatInt(id, 10)
}
