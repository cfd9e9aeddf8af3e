package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusconfess/backend/internal/domain"
	pkgkafka "github.com/campusconfess/backend/pkg/kafka"
)

// Kafka topic constants for the backend's domain events.
const (
	TopicAccountRegistered = "confess.account.registered"
	TopicSessionRenewed    = "confess.session.renewed"
	TopicPostCreated       = "confess.post.created"
)

// Aggregate type constants.
const (
	AggregateTypeAccount = "account"
	AggregateTypePost    = "post"
)

// Source identifier for events originating from this service.
const SourceBackend = "confess-backend"

// AccountRegisteredData is the payload for an account.registered event.
// It carries no credential material.
type AccountRegisteredData struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// SessionRenewedData is the payload for a session.renewed event.
type SessionRenewedData struct {
	UserID            string `json:"user_id"`
	SessionExpiration string `json:"session_expiration"`
}

// PostCreatedData is the payload for a post.created event.
type PostCreatedData struct {
	PostID    string `json:"post_id"`
	Username  string `json:"username,omitempty"`
	Longitude int64  `json:"longitude"`
	Latitude  int64  `json:"latitude"`
}

// Producer publishes domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new domain event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishAccountRegistered publishes an account.registered event.
func (p *Producer) PublishAccountRegistered(ctx context.Context, user *domain.User) error {
	data := AccountRegisteredData{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}

	event, err := pkgkafka.NewEvent(TopicAccountRegistered, user.ID, AggregateTypeAccount, SourceBackend, data)
	if err != nil {
		return fmt.Errorf("create account.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicAccountRegistered, event); err != nil {
		return fmt.Errorf("publish account.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published account.registered event",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishSessionRenewed publishes a session.renewed event. The tokens
// themselves never enter the event stream, only the new expiration.
func (p *Producer) PublishSessionRenewed(ctx context.Context, user *domain.User) error {
	data := SessionRenewedData{
		UserID:            user.ID,
		SessionExpiration: user.SessionExpiration.UTC().Format(time.RFC3339),
	}

	event, err := pkgkafka.NewEvent(TopicSessionRenewed, user.ID, AggregateTypeAccount, SourceBackend, data)
	if err != nil {
		return fmt.Errorf("create session.renewed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicSessionRenewed, event); err != nil {
		return fmt.Errorf("publish session.renewed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published session.renewed event",
		slog.String("user_id", user.ID),
	)

	return nil
}

// PublishPostCreated publishes a post.created event.
func (p *Producer) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	data := PostCreatedData{
		PostID:    post.ID,
		Username:  post.Username,
		Longitude: post.Longitude,
		Latitude:  post.Latitude,
	}

	event, err := pkgkafka.NewEvent(TopicPostCreated, post.ID, AggregateTypePost, SourceBackend, data)
	if err != nil {
		return fmt.Errorf("create post.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPostCreated, event); err != nil {
		return fmt.Errorf("publish post.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published post.created event",
		slog.String("post_id", post.ID),
	)

	return nil
}
