package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/container"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	handlers "github.com/Agrawal-Rajat/techno-club-backend/internal/interface/http"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/interface/middleware"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/helpers"
)

// CertificateModule wires the certificate credit workflow.
// Protected: POST /api/certificates
// Reviewer:  GET /api/certificates/pending, POST /api/certificates/verify,
//            PATCH /api/certificates, GET /api/admin/certificates
type CertificateModule struct {
	Handler *handlers.CertificateHandler
	JWT     *helpers.JWTManager
}

func NewCertificateModule(h *handlers.CertificateHandler, jwt *helpers.JWTManager) *CertificateModule {
	return &CertificateModule{Handler: h, JWT: jwt}
}

func (m *CertificateModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))

	// Uploads are comparatively heavy; keep a tighter per-user window.
	submitLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)
	auth.POST("/certificates", submitLimiter, m.Handler.Submit)

	reviewer := auth.Group("/")
	reviewer.Use(middleware.RequireRoles(entity.RoleAdmin, entity.RoleSuperAdmin))
	{
		reviewer.GET("/certificates/pending", m.Handler.Pending)
		reviewer.POST("/certificates/verify", m.Handler.Verify)
		reviewer.PATCH("/certificates", m.Handler.Review)
		reviewer.GET("/admin/certificates", m.Handler.Pending)
	}
}
