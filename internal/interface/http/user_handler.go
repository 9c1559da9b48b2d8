package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/application"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/helpers"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/response"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/validation"
)

// UserHandler exposes auth, profile, search and the bulk importer.
type UserHandler struct {
	Service *application.UserService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewUserHandler(svc *application.UserService, cookies *helpers.Manager, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Service: svc, Cookies: cookies, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /login, setting the access/refresh cookie pair.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", validation.ToDetails(err))
		return
	}

	res, pair, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

// Refresh handles POST /refresh, rotating the session and cookie pair.
func (h *UserHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie("refresh_token")
	if err != nil || token == "" {
		response.Error(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	pair, _, err := h.Service.Refresh(c.Request.Context(), token)
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, nil, "token refreshed", nil)
}

// Logout clears the cookie pair. The Redis session is left to expire; a
// rotated login overwrites it anyway.
func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}

// GetProfile handles GET /profile: the caller's document plus event stats.
func (h *UserHandler) GetProfile(c *gin.Context) {
	p, err := h.Service.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}

	u := p.User
	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":               u.ID,
			"email":            u.Email,
			"name":             u.Name,
			"imageUrl":         u.ImageURL,
			"role":             u.Role,
			"club":             u.Club,
			"creditScore":      u.CreditScore,
			"certificates":     u.Certificates,
			"bio":              u.Bio,
			"enrollmentNumber": u.EnrollmentNumber,
			"year":             u.Year,
			"contactNumber":    u.ContactNumber,
		},
		"eventStats":          p.Stats,
		"createdEvents":       p.CreatedEvents,
		"participatingEvents": p.ParticipatingEvents,
	}, "", nil)
}

type updateProfileRequest struct {
	Name             string `json:"name" binding:"required"`
	Bio              string `json:"bio" binding:"max=500"`
	EnrollmentNumber string `json:"enrollmentNumber"`
	Year             int    `json:"year" binding:"gte=0,lte=6"`
	ContactNumber    string `json:"contactNumber" binding:"omitempty,phone"`
	ImageURL         string `json:"imageUrl" binding:"omitempty,url"`
}

// UpdateProfile handles PUT /profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", validation.ToDetails(err))
		return
	}

	u, err := h.Service.UpdateProfile(c.Request.Context(), c.GetString("userID"), application.UpdateProfileInput{
		Name:             req.Name,
		Bio:              req.Bio,
		EnrollmentNumber: req.EnrollmentNumber,
		Year:             req.Year,
		ContactNumber:    req.ContactNumber,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":               u.ID,
		"email":            u.Email,
		"name":             u.Name,
		"bio":              u.Bio,
		"enrollmentNumber": u.EnrollmentNumber,
		"year":             u.Year,
		"contactNumber":    u.ContactNumber,
		"imageUrl":         u.ImageURL,
	}, "profile updated", nil)
}

type bulkUploadRequest struct {
	Users []application.BulkUserRow `json:"users" binding:"required"`
}

// BulkUpload handles POST /users/bulk-upload for admins and superadmins. Rows fail
// independently; the response always reports per-row outcomes with 200.
func (h *UserHandler) BulkUpload(c *gin.Context) {
	var req bulkUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", validation.ToDetails(err))
		return
	}

	callerRole := entity.Role(c.GetString("userRole"))
	callerClub := entity.Club(c.GetString("userClub"))

	res, err := h.Service.BulkImport(c.Request.Context(), callerRole, callerClub, req.Users)
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, res, "bulk import finished", nil)
}

// Search handles GET /users/search?q=...&size=... backed by Elasticsearch.
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Service.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		response.Error(c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": hits, "count": len(hits)}, "", nil)
}
