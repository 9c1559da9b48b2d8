package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/container"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	handlers "github.com/Agrawal-Rajat/techno-club-backend/internal/interface/http"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/interface/middleware"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/helpers"
)

// EventModule wires event browsing, registration and admin management.
// Protected: GET /api/events, GET /api/clubs/:slug/events, GET /api/events/:id,
//            POST/DELETE /api/events/:id/register
// Admin:     POST /api/events, PATCH /api/events/:id/publish
type EventModule struct {
	Handler *handlers.EventHandler
	JWT     *helpers.JWTManager
}

func NewEventModule(h *handlers.EventHandler, jwt *helpers.JWTManager) *EventModule {
	return &EventModule{Handler: h, JWT: jwt}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.GET("/events", m.Handler.ByClub)
		auth.GET("/events/:id", m.Handler.Get)
		auth.GET("/clubs/:slug/events", m.Handler.ClubEvents)
		auth.POST("/events/:id/register", m.Handler.Register)
		auth.DELETE("/events/:id/register", m.Handler.Unregister)

		admin := auth.Group("/")
		admin.Use(middleware.RequireRoles(entity.RoleAdmin, entity.RoleSuperAdmin))
		admin.POST("/events", m.Handler.Create)
		admin.PATCH("/events/:id/publish", m.Handler.Publish)
	}
}
