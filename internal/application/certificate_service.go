package application

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
	repo "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/repository"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/mailer"
)

// FileStore accepts a certificate file payload and returns a retrievable URL.
type FileStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// CertificateService runs the certificate credit workflow: submission,
// the admin review queue, and the verify/reject transition.
type CertificateService struct {
	Users     repo.UserRepository
	Files     FileStore
	Publisher JobPublisher
	Logger    *logrus.Logger
}

func NewCertificateService(users repo.UserRepository, files FileStore, pub JobPublisher, logger *logrus.Logger) *CertificateService {
	return &CertificateService{Users: users, Files: files, Publisher: pub, Logger: logger}
}

// Submit uploads the file and appends a new unverified certificate to the
// caller's list. The file is stored first and the certificate appended only
// after a URL is obtained, so a storage failure never leaves an orphaned
// entry. The caller's credit score is untouched.
func (s *CertificateService) Submit(ctx context.Context, userID, name string, file io.Reader, filename, contentType string) (*entity.User, *entity.Certificate, error) {
	if strings.TrimSpace(name) == "" || file == nil {
		return nil, nil, domainerrors.ErrInvalidInput
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("certificates", userID, uuid.NewString()+ext))
	url, err := s.Files.Upload(ctx, objectPath, contentType, file)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("certificate upload failed")
		}
		return nil, nil, domainerrors.ErrStorageFailure
	}

	cert := entity.Certificate{
		ID:          uuid.NewString(),
		Name:        name,
		URL:         url,
		SubmittedAt: time.Now().UTC(),
	}
	u, err := s.Users.AppendCertificate(ctx, userID, cert)
	if err != nil {
		return nil, nil, err
	}
	appended := u.Certificates[len(u.Certificates)-1]
	return u, &appended, nil
}

// ListPending returns every unverified certificate across all users,
// newest submissions first. Newest-first is the documented contract.
func (s *CertificateService) ListPending(ctx context.Context) ([]entity.PendingCertificate, error) {
	pending, err := s.Users.ListPendingCertificates(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].SubmittedAt.After(pending[j].SubmittedAt)
	})
	return pending, nil
}

// Review transitions an unverified certificate. Approving awards credits and
// increments the owner's credit score by exactly that amount; rejecting
// resets the unverified shape and leaves the score alone. A certificate that
// was already verified cannot be reviewed again.
func (s *CertificateService) Review(ctx context.Context, userID, certID string, approved bool, credits int) (*entity.Certificate, *entity.User, error) {
	if userID == "" || certID == "" {
		return nil, nil, domainerrors.ErrInvalidInput
	}
	if approved && credits < 0 {
		return nil, nil, domainerrors.ErrInvalidInput
	}
	if !approved {
		credits = 0
	}

	cert, u, err := s.Users.ReviewCertificate(ctx, userID, certID, approved, credits)
	if err != nil {
		return nil, nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"user_id":        u.ID,
			"certificate_id": cert.ID,
			"approved":       approved,
			"credits":        credits,
		}).Info("certificate reviewed")
	}
	s.notifyReviewed(ctx, u, cert, approved)
	return cert, u, nil
}

// notifyReviewed enqueues the outcome email for the certificate's owner;
// failures are logged, not surfaced, since the review already committed.
func (s *CertificateService) notifyReviewed(ctx context.Context, u *entity.User, cert *entity.Certificate, approved bool) {
	if s.Publisher == nil {
		return
	}
	kind := mailer.KindCertificateVerified
	if !approved {
		kind = mailer.KindCertificateRejected
	}
	first := u.Name
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		first = fields[0]
	}
	job := mailer.EmailJob{
		To:   u.Email,
		Kind: kind,
		Data: map[string]any{
			"FirstName":       first,
			"CertificateName": cert.Name,
		},
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue review email")
	}
}
