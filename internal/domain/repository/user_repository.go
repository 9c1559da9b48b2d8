package repository

import (
	"context"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Certificate mutations operate on the owning user row as a whole so the
// credit-score invariant can be enforced atomically per user.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, u *entity.User) error

	// AppendCertificate adds cert to the user's certificate list and returns
	// the updated user.
	AppendCertificate(ctx context.Context, userID string, cert entity.Certificate) (*entity.User, error)

	// ReviewCertificate applies the unverified -> verified transition (or a
	// reject, which resets the unverified shape). The target certificate must
	// currently be unverified. On approval the user's credit score is
	// incremented by credits in the same atomic update.
	ReviewCertificate(ctx context.Context, userID, certID string, approved bool, credits int) (*entity.Certificate, *entity.User, error)

	// ListPendingCertificates returns every unverified certificate across all
	// users, annotated with the owning user.
	ListPendingCertificates(ctx context.Context) ([]entity.PendingCertificate, error)
}
