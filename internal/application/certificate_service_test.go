package application_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/application"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/mailer"
)

func newCertService(users *memUserRepo, files *fakeFileStore) *application.CertificateService {
	return application.NewCertificateService(users, files, nil, nil)
}

func seedUser(repo *memUserRepo) *entity.User {
	return repo.add(&entity.User{
		ID:    "u-1",
		Email: "student@technoclubs.local",
		Name:  "Student",
		Role:  entity.RoleUser,
	})
}

// verifiedSum recomputes the invariant side: sum of credits over verified certificates.
func verifiedSum(u *entity.User) int {
	sum := 0
	for _, c := range u.Certificates {
		if c.IsVerified {
			sum += c.CreditsAwarded
		}
	}
	return sum
}

func TestSubmitAppendsUnverifiedCertificate(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo)
	files := &fakeFileStore{}
	svc := newCertService(repo, files)

	u, cert, err := svc.Submit(context.Background(), "u-1", "AWS Cloud Practitioner",
		strings.NewReader("pdf-bytes"), "cert.pdf", "application/pdf")
	require.NoError(t, err)

	assert.False(t, cert.IsVerified)
	assert.Zero(t, cert.CreditsAwarded)
	assert.Nil(t, cert.VerifiedAt)
	assert.NotEmpty(t, cert.ID)
	assert.Contains(t, cert.URL, "certificates/u-1/")

	assert.Len(t, u.Certificates, 1)
	assert.Zero(t, u.CreditScore, "submission must not change the credit score")
	require.Len(t, files.uploads, 1)
}

func TestSubmitRejectsMissingNameOrFile(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo)
	svc := newCertService(repo, &fakeFileStore{})

	_, _, err := svc.Submit(context.Background(), "u-1", "  ", strings.NewReader("x"), "c.pdf", "application/pdf")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, _, err = svc.Submit(context.Background(), "u-1", "Cert", nil, "c.pdf", "application/pdf")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestSubmitStorageFailureLeavesNoOrphan(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo)
	svc := newCertService(repo, &fakeFileStore{err: errUploadBroken})

	_, _, err := svc.Submit(context.Background(), "u-1", "Cert", strings.NewReader("x"), "c.pdf", "application/pdf")
	assert.ErrorIs(t, err, domainerrors.ErrStorageFailure)

	u, err := repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, u.Certificates)
}

func TestReviewApproveAwardsCredits(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo)
	svc := newCertService(repo, &fakeFileStore{})

	_, cert, err := svc.Submit(context.Background(), "u-1", "Cert", strings.NewReader("x"), "c.pdf", "application/pdf")
	require.NoError(t, err)

	got, u, err := svc.Review(context.Background(), "u-1", cert.ID, true, 5)
	require.NoError(t, err)

	assert.True(t, got.IsVerified)
	assert.Equal(t, 5, got.CreditsAwarded)
	assert.NotNil(t, got.VerifiedAt)
	assert.Equal(t, 5, u.CreditScore)
	assert.Equal(t, verifiedSum(u), u.CreditScore)
}

func TestReviewRejectKeepsScoreAndShape(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo)
	svc := newCertService(repo, &fakeFileStore{})

	_, cert, err := svc.Submit(context.Background(), "u-1", "Cert", strings.NewReader("x"), "c.pdf", "application/pdf")
	require.NoError(t, err)

	// credits supplied on a rejection must be discarded
	got, u, err := svc.Review(context.Background(), "u-1", cert.ID, false, 99)
	require.NoError(t, err)

	assert.False(t, got.IsVerified)
	assert.Zero(t, got.CreditsAwarded)
	assert.Nil(t, got.VerifiedAt)
	assert.Zero(t, u.CreditScore)
}

func TestReviewEnqueuesOutcomeEmail(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo)
	pub := &memPublisher{}
	svc := application.NewCertificateService(repo, &fakeFileStore{}, pub, nil)

	_, certA, err := svc.Submit(context.Background(), "u-1", "Cert A", strings.NewReader("a"), "a.pdf", "application/pdf")
	require.NoError(t, err)
	_, certB, err := svc.Submit(context.Background(), "u-1", "Cert B", strings.NewReader("b"), "b.pdf", "application/pdf")
	require.NoError(t, err)

	_, _, err = svc.Review(context.Background(), "u-1", certA.ID, true, 5)
	require.NoError(t, err)
	_, _, err = svc.Review(context.Background(), "u-1", certB.ID, false, 0)
	require.NoError(t, err)

	jobs := pub.published()
	require.Len(t, jobs, 2)
	assert.Equal(t, mailer.KindCertificateVerified, jobs[0].Kind)
	assert.Equal(t, "student@technoclubs.local", jobs[0].To)
	assert.Equal(t, "Cert A", jobs[0].Data["CertificateName"])
	assert.Equal(t, "Student", jobs[0].Data["FirstName"])
	assert.Equal(t, mailer.KindCertificateRejected, jobs[1].Kind)
	assert.Equal(t, "Cert B", jobs[1].Data["CertificateName"])
}

func TestReviewApproveTwiceConflicts(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo)
	svc := newCertService(repo, &fakeFileStore{})

	_, cert, err := svc.Submit(context.Background(), "u-1", "Cert", strings.NewReader("x"), "c.pdf", "application/pdf")
	require.NoError(t, err)

	_, _, err = svc.Review(context.Background(), "u-1", cert.ID, true, 3)
	require.NoError(t, err)

	_, _, err = svc.Review(context.Background(), "u-1", cert.ID, true, 3)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyVerified)

	u, err := repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 3, u.CreditScore, "second approval must not double-count")
}

func TestReviewValidation(t *testing.T) {
	svc := newCertService(newMemUserRepo(), &fakeFileStore{})

	_, _, err := svc.Review(context.Background(), "", "c-1", true, 1)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, _, err = svc.Review(context.Background(), "u-1", "", true, 1)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, _, err = svc.Review(context.Background(), "u-1", "c-1", true, -1)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestReviewUnknownCertificate(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo)
	svc := newCertService(repo, &fakeFileStore{})

	_, _, err := svc.Review(context.Background(), "u-1", "nope", true, 1)
	assert.ErrorIs(t, err, domainerrors.ErrCertificateNotFound)
}

// Concurrent approvals of two different certificates on the same user must
// both land: the final score is the exact sum, never a lost update.
func TestConcurrentReviewsDoNotLoseUpdates(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo)
	svc := newCertService(repo, &fakeFileStore{})

	_, certA, err := svc.Submit(context.Background(), "u-1", "Cert A", strings.NewReader("a"), "a.pdf", "application/pdf")
	require.NoError(t, err)
	_, certB, err := svc.Submit(context.Background(), "u-1", "Cert B", strings.NewReader("b"), "b.pdf", "application/pdf")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _, err := svc.Review(context.Background(), "u-1", certA.ID, true, 3)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, _, err := svc.Review(context.Background(), "u-1", certB.ID, true, 4)
		assert.NoError(t, err)
	}()
	wg.Wait()

	u, err := repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 7, u.CreditScore)
	assert.Equal(t, verifiedSum(u), u.CreditScore)
}

func TestListPendingNewestFirst(t *testing.T) {
	repo := newMemUserRepo()
	now := time.Now()
	repo.add(&entity.User{ID: "u-1", Email: "a@x.io", Name: "A", Certificates: []entity.Certificate{
		{ID: "c-old", Name: "Old", SubmittedAt: now.Add(-2 * time.Hour)},
		{ID: "c-done", Name: "Done", IsVerified: true, CreditsAwarded: 2, SubmittedAt: now.Add(-3 * time.Hour)},
	}})
	repo.add(&entity.User{ID: "u-2", Email: "b@x.io", Name: "B", Certificates: []entity.Certificate{
		{ID: "c-new", Name: "New", SubmittedAt: now},
	}})
	svc := newCertService(repo, &fakeFileStore{})

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2, "verified certificates must not appear")
	assert.Equal(t, "c-new", pending[0].CertID)
	assert.Equal(t, "c-old", pending[1].CertID)
	assert.Equal(t, "b@x.io", pending[0].UserEmail)
}
