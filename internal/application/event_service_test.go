package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/application"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
)

func TestClubFromSlug(t *testing.T) {
	club, ok := application.ClubFromSlug("ieee")
	assert.True(t, ok)
	assert.Equal(t, entity.ClubIEEE, club)

	club, ok = application.ClubFromSlug("GDG")
	assert.True(t, ok)
	assert.Equal(t, entity.ClubGDG, club)

	_, ok = application.ClubFromSlug("chess")
	assert.False(t, ok)
}

func TestCreateEventClubScope(t *testing.T) {
	svc := application.NewEventService(newMemEventRepo(), nil)
	now := time.Now()
	in := application.CreateEventInput{
		Name: "Hack Night", Club: entity.ClubIEEE,
		StartDate: now, EndDate: now.Add(2 * time.Hour),
	}

	_, err := svc.Create(context.Background(), "admin-1", entity.RoleAdmin, entity.ClubACM, in)
	assert.ErrorIs(t, err, domainerrors.ErrClubScope)

	e, err := svc.Create(context.Background(), "admin-1", entity.RoleSuperAdmin, entity.ClubNone, in)
	require.NoError(t, err)
	assert.False(t, e.IsPublished, "events must start unpublished")
}

func TestCreateEventValidation(t *testing.T) {
	svc := application.NewEventService(newMemEventRepo(), nil)
	now := time.Now()

	_, err := svc.Create(context.Background(), "a", entity.RoleSuperAdmin, entity.ClubNone, application.CreateEventInput{
		Name: "", Club: entity.ClubIEEE, StartDate: now, EndDate: now,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = svc.Create(context.Background(), "a", entity.RoleSuperAdmin, entity.ClubNone, application.CreateEventInput{
		Name: "X", Club: entity.ClubIEEE, StartDate: now, EndDate: now.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestRegisterRequiresPublishedEvent(t *testing.T) {
	repo := newMemEventRepo()
	svc := application.NewEventService(repo, nil)
	now := time.Now()

	e, err := svc.Create(context.Background(), "admin-1", entity.RoleSuperAdmin, entity.ClubNone, application.CreateEventInput{
		Name: "Talk", Club: entity.ClubAWS, StartDate: now, EndDate: now.Add(time.Hour),
	})
	require.NoError(t, err)

	err = svc.Register(context.Background(), e.ID, "u-1")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound, "unpublished events must be invisible to students")

	_, err = svc.Publish(context.Background(), e.ID, entity.RoleSuperAdmin, entity.ClubNone)
	require.NoError(t, err)

	require.NoError(t, svc.Register(context.Background(), e.ID, "u-1"))
	assert.ErrorIs(t, svc.Register(context.Background(), e.ID, "u-1"), domainerrors.ErrAlreadyRegistered)

	require.NoError(t, svc.Unregister(context.Background(), e.ID, "u-1"))
	assert.ErrorIs(t, svc.Unregister(context.Background(), e.ID, "u-1"), domainerrors.ErrNotRegistered)
}

func TestPublishClubScope(t *testing.T) {
	repo := newMemEventRepo()
	svc := application.NewEventService(repo, nil)
	now := time.Now()

	e, err := svc.Create(context.Background(), "admin-1", entity.RoleAdmin, entity.ClubSTIC, application.CreateEventInput{
		Name: "Workshop", Club: entity.ClubSTIC, StartDate: now, EndDate: now.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), e.ID, entity.RoleAdmin, entity.ClubIEEE)
	assert.ErrorIs(t, err, domainerrors.ErrClubScope)

	got, err := svc.Publish(context.Background(), e.ID, entity.RoleAdmin, entity.ClubSTIC)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)
}

func TestByClubVisibility(t *testing.T) {
	repo := newMemEventRepo()
	svc := application.NewEventService(repo, nil)
	now := time.Now()

	e, err := svc.Create(context.Background(), "admin-1", entity.RoleSuperAdmin, entity.ClubNone, application.CreateEventInput{
		Name: "Draft", Club: entity.ClubACM, StartDate: now, EndDate: now.Add(time.Hour),
	})
	require.NoError(t, err)

	grouped, err := svc.ByClub(context.Background(), entity.RoleUser)
	require.NoError(t, err)
	assert.Empty(t, grouped[entity.ClubACM], "students must not see drafts")

	grouped, err = svc.ByClub(context.Background(), entity.RoleSuperAdmin)
	require.NoError(t, err)
	require.Len(t, grouped[entity.ClubACM], 1)
	assert.Equal(t, e.ID, grouped[entity.ClubACM][0].ID)
}
