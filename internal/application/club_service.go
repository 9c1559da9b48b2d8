package application

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
	repo "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/repository"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/mailer"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/validation"
)

// JobPublisher enqueues a notification job for the email worker.
// *helpers.RabbitPublisher is the production implementation.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ClubService handles club join applications and their admin export.
type ClubService struct {
	Apps      repo.ApplicationRepository
	Publisher JobPublisher
	Logger    *logrus.Logger
}

func NewClubService(apps repo.ApplicationRepository, pub JobPublisher, logger *logrus.Logger) *ClubService {
	return &ClubService{Apps: apps, Publisher: pub, Logger: logger}
}

// JoinApplicationInput carries one club application submission. All fields
// are required.
type JoinApplicationInput struct {
	FirstName     string
	LastName      string
	Email         string
	ContactNumber string
	Year          string
	Reason        string
	ClubSlug      string
	ClubName      string
}

// SubmitApplication creates a pending application. A second submission for
// the same (email, club) while one is pending or approved is a conflict.
func (s *ClubService) SubmitApplication(ctx context.Context, in JoinApplicationInput) (*entity.ClubApplication, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.ContactNumber == "" ||
		in.Year == "" || in.Reason == "" || in.ClubSlug == "" || in.ClubName == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if !validation.ValidEmail(in.Email) {
		return nil, domainerrors.ErrInvalidInput
	}

	active, err := s.Apps.HasActive(ctx, in.Email, in.ClubSlug)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, domainerrors.ErrDuplicateApplication
	}

	app := &entity.ClubApplication{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		ContactNumber: in.ContactNumber,
		Year:          in.Year,
		Reason:        in.Reason,
		ClubSlug:      in.ClubSlug,
		ClubName:      in.ClubName,
		Status:        entity.ApplicationPending,
		SubmittedAt:   time.Now().UTC(),
	}
	// The partial unique index still backs this up if two submissions race.
	if err := s.Apps.Create(ctx, app); err != nil {
		return nil, err
	}

	s.notifyReceived(ctx, app)
	return app, nil
}

// notifyReceived enqueues a confirmation email; failures are logged, not
// surfaced, since the application is already persisted.
func (s *ClubService) notifyReceived(ctx context.Context, app *entity.ClubApplication) {
	if s.Publisher == nil {
		return
	}
	job := mailer.EmailJob{
		To:   app.Email,
		Kind: mailer.KindApplicationReceived,
		Data: map[string]any{
			"FirstName": app.FirstName,
			"ClubName":  app.ClubName,
		},
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", app.Email).Warn("failed to enqueue application email")
	}
}

// ExportApplicationsCSV writes a club's applications as CSV, newest first.
func (s *ClubService) ExportApplicationsCSV(ctx context.Context, clubSlug string, w io.Writer) error {
	apps, err := s.Apps.ListByClub(ctx, clubSlug)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"First Name", "Last Name", "Email", "Contact Number", "Year", "Reason", "Club Name", "Status", "Submitted At"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range apps {
		rec := []string{
			a.FirstName, a.LastName, a.Email, a.ContactNumber, a.Year,
			a.Reason, a.ClubName, string(a.Status), a.SubmittedAt.Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
