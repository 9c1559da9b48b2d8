package repository

import (
	"context"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
)

// EventRepository defines database operations for club events.
type EventRepository interface {
	Create(ctx context.Context, e *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	SetPublished(ctx context.Context, id string, published bool) error

	// ListByClub returns a club's events, optionally restricted to published
	// ones, newest start date first. limit <= 0 means no limit.
	ListByClub(ctx context.Context, club entity.Club, publishedOnly bool, limit int) ([]*entity.Event, error)

	ListByCreator(ctx context.Context, creatorID string) ([]*entity.Event, error)
	ListByParticipant(ctx context.Context, userID string, publishedOnly bool) ([]*entity.Event, error)

	// Register and Unregister have set semantics; registering twice fails
	// with errors.ErrAlreadyRegistered.
	Register(ctx context.Context, eventID, userID string) error
	Unregister(ctx context.Context, eventID, userID string) error
}
