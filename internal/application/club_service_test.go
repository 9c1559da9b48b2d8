package application_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/application"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/mailer"
)

func validApplication() application.JoinApplicationInput {
	return application.JoinApplicationInput{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@uni.edu",
		ContactNumber: "5551234567",
		Year:          "2",
		Reason:        "I want to build things",
		ClubSlug:      "ieee",
		ClubName:      "IEEE Student Branch",
	}
}

func TestSubmitApplication(t *testing.T) {
	pub := &memPublisher{}
	svc := application.NewClubService(newMemAppRepo(), pub, nil)

	app, err := svc.SubmitApplication(context.Background(), validApplication())
	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, entity.ApplicationPending, app.Status)
	assert.False(t, app.SubmittedAt.IsZero())

	jobs := pub.published()
	require.Len(t, jobs, 1)
	assert.Equal(t, mailer.KindApplicationReceived, jobs[0].Kind)
	assert.Equal(t, "ada@uni.edu", jobs[0].To)
}

func TestSubmitApplicationValidation(t *testing.T) {
	svc := application.NewClubService(newMemAppRepo(), nil, nil)

	in := validApplication()
	in.Reason = ""
	_, err := svc.SubmitApplication(context.Background(), in)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	in = validApplication()
	in.Email = "not-an-email"
	_, err = svc.SubmitApplication(context.Background(), in)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestSubmitApplicationDuplicateConflicts(t *testing.T) {
	svc := application.NewClubService(newMemAppRepo(), nil, nil)

	_, err := svc.SubmitApplication(context.Background(), validApplication())
	require.NoError(t, err)

	_, err = svc.SubmitApplication(context.Background(), validApplication())
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateApplication)

	// same email, different club is fine
	other := validApplication()
	other.ClubSlug = "acm"
	other.ClubName = "ACM Chapter"
	_, err = svc.SubmitApplication(context.Background(), other)
	assert.NoError(t, err)
}

func TestExportApplicationsCSV(t *testing.T) {
	repo := newMemAppRepo()
	svc := application.NewClubService(repo, nil, nil)

	_, err := svc.SubmitApplication(context.Background(), validApplication())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportApplicationsCSV(context.Background(), "ieee", &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"First Name", "Last Name", "Email", "Contact Number", "Year", "Reason", "Club Name", "Status", "Submitted At"}, records[0])
	assert.Equal(t, "Ada", records[1][0])
	assert.Equal(t, "ada@uni.edu", records[1][2])
	assert.Equal(t, "pending", records[1][7])
}
