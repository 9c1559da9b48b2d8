package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
	repo "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/repository"
)

// eventsPerClubPreview caps how many events the by-club overview returns per club.
const eventsPerClubPreview = 3

// EventService handles event browsing, registration and admin management.
type EventService struct {
	Events repo.EventRepository
	Logger *logrus.Logger
}

func NewEventService(events repo.EventRepository, logger *logrus.Logger) *EventService {
	return &EventService{Events: events, Logger: logger}
}

// ClubFromSlug maps a lowercase club slug ("ieee") to its Club ("IEEE").
func ClubFromSlug(slug string) (entity.Club, bool) {
	for _, c := range entity.Clubs() {
		if strings.EqualFold(slug, string(c)) {
			return c, true
		}
	}
	return entity.ClubNone, false
}

// ByClub returns up to a few events per club, grouped by club. Only
// superadmins see unpublished events.
func (s *EventService) ByClub(ctx context.Context, viewerRole entity.Role) (map[entity.Club][]*entity.Event, error) {
	publishedOnly := viewerRole != entity.RoleSuperAdmin
	out := make(map[entity.Club][]*entity.Event, len(entity.Clubs()))
	for _, club := range entity.Clubs() {
		events, err := s.Events.ListByClub(ctx, club, publishedOnly, eventsPerClubPreview)
		if err != nil {
			return nil, err
		}
		out[club] = events
	}
	return out, nil
}

// ClubEvents returns one club's published events.
func (s *EventService) ClubEvents(ctx context.Context, slug string) ([]*entity.Event, error) {
	club, ok := ClubFromSlug(slug)
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return s.Events.ListByClub(ctx, club, true, 0)
}

func (s *EventService) Get(ctx context.Context, id string) (*entity.Event, error) {
	return s.Events.GetByID(ctx, id)
}

// Register adds the user to a published event's participant set.
func (s *EventService) Register(ctx context.Context, eventID, userID string) error {
	e, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !e.IsPublished {
		return domainerrors.ErrNotFound
	}
	return s.Events.Register(ctx, eventID, userID)
}

func (s *EventService) Unregister(ctx context.Context, eventID, userID string) error {
	return s.Events.Unregister(ctx, eventID, userID)
}

// CreateEventInput carries a new event. Events start unpublished.
type CreateEventInput struct {
	Name        string
	Description string
	Club        entity.Club
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	ImageURL    string
}

// Create makes a new unpublished event. Admins may only create events for
// their own club; superadmins for any club.
func (s *EventService) Create(ctx context.Context, creatorID string, creatorRole entity.Role, creatorClub entity.Club, in CreateEventInput) (*entity.Event, error) {
	if in.Name == "" || !in.Club.Valid() || in.Club == entity.ClubNone {
		return nil, domainerrors.ErrInvalidInput
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, domainerrors.ErrInvalidInput
	}
	if creatorRole == entity.RoleAdmin && in.Club != creatorClub {
		return nil, domainerrors.ErrClubScope
	}

	e := &entity.Event{
		Name:        in.Name,
		Description: in.Description,
		Club:        in.Club,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
		CreatorID:   creatorID,
	}
	if err := s.Events.Create(ctx, e); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"event_id": e.ID, "club": e.Club}).Info("event created")
	}
	return e, nil
}

// Publish makes an event visible to students, subject to the same club scope
// rule as Create.
func (s *EventService) Publish(ctx context.Context, eventID string, callerRole entity.Role, callerClub entity.Club) (*entity.Event, error) {
	e, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if callerRole == entity.RoleAdmin && e.Club != callerClub {
		return nil, domainerrors.ErrClubScope
	}
	if err := s.Events.SetPublished(ctx, eventID, true); err != nil {
		return nil, err
	}
	e.IsPublished = true
	return e, nil
}
