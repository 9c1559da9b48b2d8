package repository

import (
	"context"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
)

// ApplicationRepository defines database operations for club applications.
type ApplicationRepository interface {
	// Create persists a new application. It fails with
	// errors.ErrDuplicateApplication when a pending or approved application
	// already exists for the same (email, club slug).
	Create(ctx context.Context, app *entity.ClubApplication) error

	HasActive(ctx context.Context, email, clubSlug string) (bool, error)
	ListByClub(ctx context.Context, clubSlug string) ([]*entity.ClubApplication, error)
}
