package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/repository"
)

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

// Create relies on the partial unique index over (email, club_slug) for
// pending/approved rows, so the one-active-application rule holds even when
// two submissions race.
func (r *ApplicationRepository) Create(ctx context.Context, app *entity.ClubApplication) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO club_applications
			(first_name, last_name, email, contact_number, year, reason,
			 club_slug, club_name, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, app.FirstName, app.LastName, app.Email, app.ContactNumber, app.Year,
		app.Reason, app.ClubSlug, app.ClubName, app.Status, app.SubmittedAt)

	if err := row.Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainerrors.ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *ApplicationRepository) HasActive(ctx context.Context, email, clubSlug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM club_applications
			WHERE email = $1 AND club_slug = $2 AND status IN ('pending', 'approved')
		)
	`, email, clubSlug).Scan(&exists)
	return exists, err
}

func (r *ApplicationRepository) ListByClub(ctx context.Context, clubSlug string) ([]*entity.ClubApplication, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, email, contact_number, year, reason,
			club_slug, club_name, status, submitted_at,
			COALESCE(reviewed_by::text, ''), reviewed_at, COALESCE(admin_notes, ''),
			created_at, updated_at
		FROM club_applications
		WHERE club_slug = $1
		ORDER BY submitted_at DESC
	`, clubSlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.ClubApplication, error) {
		a := &entity.ClubApplication{}
		err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.ContactNumber,
			&a.Year, &a.Reason, &a.ClubSlug, &a.ClubName, &a.Status, &a.SubmittedAt,
			&a.ReviewedBy, &a.ReviewedAt, &a.AdminNotes, &a.CreatedAt, &a.UpdatedAt)
		return a, err
	})
	if err != nil {
		return nil, err
	}
	return apps, nil
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
