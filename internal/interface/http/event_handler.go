package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/application"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/response"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/validation"
)

// EventHandler exposes event browsing, registration and admin management.
type EventHandler struct {
	Service *application.EventService
	Logger  *logrus.Logger
}

func NewEventHandler(svc *application.EventService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{Service: svc, Logger: logger}
}

// eventView flattens an event for JSON with its participant count.
func eventView(e *entity.Event) gin.H {
	return gin.H{
		"id":               e.ID,
		"name":             e.Name,
		"description":      e.Description,
		"club":             e.Club,
		"startDate":        e.StartDate,
		"endDate":          e.EndDate,
		"location":         e.Location,
		"imageUrl":         e.ImageURL,
		"isPublished":      e.IsPublished,
		"creatorId":        e.CreatorID,
		"participantCount": e.ParticipantCount(),
	}
}

func eventViews(events []*entity.Event) []gin.H {
	out := make([]gin.H, 0, len(events))
	for _, e := range events {
		out = append(out, eventView(e))
	}
	return out
}

// ByClub handles GET /events: a short preview per club.
func (h *EventHandler) ByClub(c *gin.Context) {
	role := entity.Role(c.GetString("userRole"))
	grouped, err := h.Service.ByClub(c.Request.Context(), role)
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}

	out := make(map[string][]gin.H, len(grouped))
	for club, events := range grouped {
		out[string(club)] = eventViews(events)
	}
	response.Success(c, http.StatusOK, gin.H{"eventsByClub": out}, "", nil)
}

// ClubEvents handles GET /clubs/:slug/events.
func (h *EventHandler) ClubEvents(c *gin.Context) {
	events, err := h.Service.ClubEvents(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": eventViews(events), "count": len(events)}, "", nil)
}

// Get handles GET /events/:id.
func (h *EventHandler) Get(c *gin.Context) {
	e, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, eventView(e), "", nil)
}

// Register handles POST /events/:id/register.
func (h *EventHandler) Register(c *gin.Context) {
	if err := h.Service.Register(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "registered for event", nil)
}

// Unregister handles DELETE /events/:id/register.
func (h *EventHandler) Unregister(c *gin.Context) {
	if err := h.Service.Unregister(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "unregistered from event", nil)
}

type createEventRequest struct {
	Name        string    `json:"name" binding:"required,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	Club        string    `json:"club" binding:"required"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"imageUrl" binding:"omitempty,url"`
}

// Create handles POST /events for admins and superadmins.
func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", validation.ToDetails(err))
		return
	}

	e, err := h.Service.Create(
		c.Request.Context(),
		c.GetString("userID"),
		entity.Role(c.GetString("userRole")),
		entity.Club(c.GetString("userClub")),
		application.CreateEventInput{
			Name:        req.Name,
			Description: req.Description,
			Club:        entity.Club(req.Club),
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Location:    req.Location,
			ImageURL:    req.ImageURL,
		},
	)
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusCreated, eventView(e), "event created", nil)
}

// Publish handles PATCH /events/:id/publish for admins and superadmins.
func (h *EventHandler) Publish(c *gin.Context) {
	e, err := h.Service.Publish(
		c.Request.Context(),
		c.Param("id"),
		entity.Role(c.GetString("userRole")),
		entity.Club(c.GetString("userClub")),
	)
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, eventView(e), "event published", nil)
}
