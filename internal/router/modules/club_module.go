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

// ClubModule wires club join applications.
// Public: POST /api/clubs/join
// Admin:  GET /api/clubs/:slug/applications/export
type ClubModule struct {
	Handler *handlers.ClubHandler
	JWT     *helpers.JWTManager
}

func NewClubModule(h *handlers.ClubHandler, jwt *helpers.JWTManager) *ClubModule {
	return &ClubModule{Handler: h, JWT: jwt}
}

func (m *ClubModule) Register(rg *gin.RouterGroup) {
	// Public form endpoint, so throttle per IP and per route.
	joinLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/clubs/join", joinLimiter, m.Handler.Join)

	admin := rg.Group("/")
	admin.Use(
		middleware.Auth(container.GetRedis(), m.JWT),
		middleware.RequireRoles(entity.RoleAdmin, entity.RoleSuperAdmin),
	)
	admin.GET("/clubs/:slug/applications/export", m.Handler.ExportApplications)
}
