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

// UserModule wires auth, profile, member search and the bulk importer.
// Public: POST /api/login, POST /api/refresh
// Protected: POST /api/logout, GET/PUT /api/profile, GET /api/users/search
// Admin: POST /api/users/bulk-upload
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.GET("/users/search", m.Handler.Search)

		admin := auth.Group("/")
		admin.Use(middleware.RequireRoles(entity.RoleAdmin, entity.RoleSuperAdmin))
		admin.POST("/users/bulk-upload", m.Handler.BulkUpload)
	}
}
