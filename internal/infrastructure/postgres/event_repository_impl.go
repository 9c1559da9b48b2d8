package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/repository"
)

const eventColumns = `id, name, description, club, start_date, end_date,
	location, image_url, is_published, creator_id, participants, created_at, updated_at`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	e := &entity.Event{}
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Club, &e.StartDate,
		&e.EndDate, &e.Location, &e.ImageURL, &e.IsPublished, &e.CreatorID,
		&e.Participants, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	if e.Participants == nil {
		e.Participants = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (name, description, club, start_date, end_date,
			location, image_url, is_published, creator_id, participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, e.Name, e.Description, e.Club, e.StartDate, e.EndDate, e.Location,
		e.ImageURL, e.IsPublished, e.CreatorID, e.Participants)
	return row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

func (r *EventRepository) SetPublished(ctx context.Context, id string, published bool) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE events SET is_published = $1, updated_at = now() WHERE id = $2
	`, published, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func collectEvents(rows pgx.Rows) ([]*entity.Event, error) {
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Event, error) {
		return scanEvent(row)
	})
}

func (r *EventRepository) ListByClub(ctx context.Context, club entity.Club, publishedOnly bool, limit int) ([]*entity.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE club = $1`
	if publishedOnly {
		q += ` AND is_published`
	}
	q += ` ORDER BY start_date DESC`
	args := []any{club}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepository) ListByCreator(ctx context.Context, creatorID string) ([]*entity.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+` FROM events WHERE creator_id = $1 ORDER BY created_at DESC
	`, creatorID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepository) ListByParticipant(ctx context.Context, userID string, publishedOnly bool) ([]*entity.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE participants @> ARRAY[$1]`
	if publishedOnly {
		q += ` AND is_published`
	}
	q += ` ORDER BY start_date ASC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// Register appends the user to the participant set in a single conditional
// update; a zero-row result means either a missing event or a duplicate.
func (r *EventRepository) Register(ctx context.Context, eventID, userID string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE events
		SET participants = array_append(participants, $2), updated_at = now()
		WHERE id = $1 AND NOT participants @> ARRAY[$2]
	`, eventID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, eventID); err != nil {
			return err
		}
		return domainerrors.ErrAlreadyRegistered
	}
	return nil
}

func (r *EventRepository) Unregister(ctx context.Context, eventID, userID string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE events
		SET participants = array_remove(participants, $2), updated_at = now()
		WHERE id = $1 AND participants @> ARRAY[$2]
	`, eventID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, eventID); err != nil {
			return err
		}
		return domainerrors.ErrNotRegistered
	}
	return nil
}

var _ repository.EventRepository = (*EventRepository)(nil)
