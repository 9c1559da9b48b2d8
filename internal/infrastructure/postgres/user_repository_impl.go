package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, name, image_url, role, club,
	credit_score, certificates, bio, enrollment_number, year, contact_number,
	created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.ImageURL,
		&u.Role, &u.Club, &u.CreditScore, &u.Certificates, &u.Bio,
		&u.EnrollmentNumber, &u.Year, &u.ContactNumber,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Certificates == nil {
		u.Certificates = []entity.Certificate{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, image_url, role, club,
			credit_score, certificates, bio, enrollment_number, year, contact_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.ImageURL, u.Role, u.Club,
		u.CreditScore, u.Certificates, u.Bio, u.EnrollmentNumber, u.Year, u.ContactNumber)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainerrors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, image_url = $2, bio = $3, enrollment_number = $4,
			year = $5, contact_number = $6, updated_at = $7
		WHERE id = $8
	`, u.Name, u.ImageURL, u.Bio, u.EnrollmentNumber, u.Year, u.ContactNumber, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

// AppendCertificate locks the user row, appends the certificate and writes the
// list back in one transaction.
func (r *UserRepository) AppendCertificate(ctx context.Context, userID string, cert entity.Certificate) (*entity.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID))
	if err != nil {
		return nil, err
	}

	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	u.Certificates = append(u.Certificates, cert)
	u.UpdatedAt = time.Now().UTC()

	if _, err := tx.Exec(ctx, `
		UPDATE users SET certificates = $1, updated_at = $2 WHERE id = $3
	`, u.Certificates, u.UpdatedAt, u.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// ReviewCertificate serializes the read-modify-write of the certificate list
// and the credit-score increment behind a row lock, so two concurrent reviews
// of different certificates on the same user cannot lose an update.
func (r *UserRepository) ReviewCertificate(ctx context.Context, userID, certID string, approved bool, credits int) (*entity.Certificate, *entity.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID))
	if err != nil {
		return nil, nil, err
	}

	idx := -1
	for i := range u.Certificates {
		if u.Certificates[i].ID == certID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil, domainerrors.ErrCertificateNotFound
	}
	if u.Certificates[idx].IsVerified {
		return nil, nil, domainerrors.ErrAlreadyVerified
	}

	delta := 0
	if approved {
		now := time.Now().UTC()
		u.Certificates[idx].IsVerified = true
		u.Certificates[idx].CreditsAwarded = credits
		u.Certificates[idx].VerifiedAt = &now
		delta = credits
	} else {
		u.Certificates[idx].IsVerified = false
		u.Certificates[idx].CreditsAwarded = 0
		u.Certificates[idx].VerifiedAt = nil
	}
	u.CreditScore += delta
	u.UpdatedAt = time.Now().UTC()

	if _, err := tx.Exec(ctx, `
		UPDATE users
		SET certificates = $1, credit_score = credit_score + $2, updated_at = $3
		WHERE id = $4
	`, u.Certificates, delta, u.UpdatedAt, u.ID); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	cert := u.Certificates[idx]
	return &cert, u, nil
}

func (r *UserRepository) ListPendingCertificates(ctx context.Context) ([]entity.PendingCertificate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, certificates
		FROM users
		WHERE certificates @> '[{"isVerified": false}]'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := []entity.PendingCertificate{}
	for rows.Next() {
		var (
			id, name, email string
			certs           []entity.Certificate
		)
		if err := rows.Scan(&id, &name, &email, &certs); err != nil {
			return nil, err
		}
		for _, c := range certs {
			if c.IsVerified {
				continue
			}
			pending = append(pending, entity.PendingCertificate{
				UserID:      id,
				UserName:    name,
				UserEmail:   email,
				CertID:      c.ID,
				Name:        c.Name,
				URL:         c.URL,
				SubmittedAt: c.SubmittedAt,
			})
		}
	}
	return pending, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
