package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/application"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/response"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/validation"
)

// CertificateHandler exposes the certificate credit workflow over HTTP.
type CertificateHandler struct {
	Service *application.CertificateService
	Logger  *logrus.Logger
}

func NewCertificateHandler(svc *application.CertificateService, logger *logrus.Logger) *CertificateHandler {
	return &CertificateHandler{Service: svc, Logger: logger}
}

// Submit handles POST /certificates. Multipart form with a "name" field and
// a "certificate" file part. Returns 201 with the stored certificate, the
// caller's full certificate list and untouched credit score.
func (h *CertificateHandler) Submit(c *gin.Context) {
	userID := c.GetString("userID")

	name := c.PostForm("name")
	fileHeader, err := c.FormFile("certificate")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "certificate file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "could not read uploaded file", nil)
		return
	}
	defer func() { _ = file.Close() }()

	u, cert, err := h.Service.Submit(c.Request.Context(), userID, name, file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"userId":       u.ID,
		"certificate":  cert,
		"certificates": u.Certificates,
		"creditScore":  u.CreditScore,
	}, "certificate submitted", nil)
}

// Pending handles GET /certificates/pending for reviewers. Newest first.
func (h *CertificateHandler) Pending(c *gin.Context) {
	pending, err := h.Service.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"pendingCertificates": pending,
		"count":               len(pending),
	}, "", nil)
}

type verifyCertificateRequest struct {
	UserID        string `json:"userId" binding:"required,uuid"`
	CertificateID string `json:"certificateId" binding:"required,uuid"`
	// Pointer so an omitted field is rejected instead of binding to 0.
	CreditsAwarded *int `json:"creditsAwarded" binding:"required,gte=0"`
}

// Verify handles POST /certificates/verify: the approve-only path that
// awards credits in one atomic step.
func (h *CertificateHandler) Verify(c *gin.Context) {
	var req verifyCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", validation.ToDetails(err))
		return
	}

	cert, u, err := h.Service.Review(c.Request.Context(), req.UserID, req.CertificateID, true, *req.CreditsAwarded)
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"userId":      u.ID,
		"certificate": cert,
		"creditScore": u.CreditScore,
		"user":        userSummary(u),
	}, "certificate verified", nil)
}

type reviewCertificateRequest struct {
	UserID        string `json:"userId" binding:"required,uuid"`
	CertificateID string `json:"certificateId" binding:"required,uuid"`
	Approved      *bool  `json:"approved" binding:"required"`
	Credits       *int   `json:"credits" binding:"omitempty,gte=0"`
}

// Review handles PATCH /certificates: approve or reject in one endpoint.
// Rejection discards the awarded credits and keeps the certificate
// unverified so it can be resubmitted for review.
func (h *CertificateHandler) Review(c *gin.Context) {
	var req reviewCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", validation.ToDetails(err))
		return
	}

	credits := 0
	if *req.Approved {
		if req.Credits == nil {
			response.Error(c, http.StatusBadRequest, "credits are required when approving", nil)
			return
		}
		credits = *req.Credits
	}

	cert, u, err := h.Service.Review(c.Request.Context(), req.UserID, req.CertificateID, *req.Approved, credits)
	if err != nil {
		response.Error(c, statusFor(err), messageFor(err), nil)
		return
	}

	msg := "certificate rejected"
	if *req.Approved {
		msg = "certificate verified"
	}
	response.Success(c, http.StatusOK, gin.H{
		"userId":      u.ID,
		"certificate": cert,
		"creditScore": u.CreditScore,
		"user":        userSummary(u),
	}, msg, nil)
}

// userSummary is the reviewer-facing slice of the owner after a review.
func userSummary(u *entity.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"role":        u.Role,
		"creditScore": u.CreditScore,
	}
}
