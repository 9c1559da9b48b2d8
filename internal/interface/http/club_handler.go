package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/application"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/response"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/validation"
)

// ClubHandler exposes club join applications and their CSV export.
type ClubHandler struct {
	Service *application.ClubService
	Logger  *logrus.Logger
}

func NewClubHandler(svc *application.ClubService, logger *logrus.Logger) *ClubHandler {
	return &ClubHandler{Service: svc, Logger: logger}
}

type joinClubRequest struct {
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	ContactNumber string `json:"contactNumber" binding:"required,phone"`
	Year          string `json:"year" binding:"required"`
	Reason        string `json:"reason" binding:"required,max=1000"`
	ClubSlug      string `json:"clubSlug" binding:"required"`
	ClubName      string `json:"clubName" binding:"required"`
}

// Join handles POST /clubs/join. Public: applicants need no account.
func (h *ClubHandler) Join(c *gin.Context) {
	var req joinClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", validation.ToDetails(err))
		return
	}
	if _, ok := application.ClubFromSlug(req.ClubSlug); !ok {
		response.Error(c, http.StatusBadRequest, "unknown club", nil)
		return
	}

	app, err := h.Service.SubmitApplication(c.Request.Context(), application.JoinApplicationInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		Year:          req.Year,
		Reason:        req.Reason,
		ClubSlug:      req.ClubSlug,
		ClubName:      req.ClubName,
	})
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"applicationId": app.ID,
		"club":          app.ClubName,
		"status":        app.Status,
		"submittedAt":   app.SubmittedAt,
	}, "application submitted", nil)
}

// ExportApplications handles GET /clubs/:slug/applications/export for
// admins. Streams CSV; admins are scoped to their own club.
func (h *ClubHandler) ExportApplications(c *gin.Context) {
	slug := c.Param("slug")
	club, ok := application.ClubFromSlug(slug)
	if !ok {
		response.Error(c, http.StatusNotFound, "unknown club", nil)
		return
	}

	callerRole := entity.Role(c.GetString("userRole"))
	callerClub := entity.Club(c.GetString("userClub"))
	if callerRole == entity.RoleAdmin && club != callerClub {
		response.Error(c, http.StatusForbidden, "admins may only export their own club", nil)
		return
	}

	filename := fmt.Sprintf("%s-applications-%s.csv", slug, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.Service.ExportApplicationsCSV(c.Request.Context(), slug, c.Writer); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("club", slug).Error("applications export failed")
		}
		// Headers may already be out; nothing sane to send beyond aborting.
		c.Abort()
	}
}
