package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/container"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/interface/middleware"
)

// DebugModule exposes process metrics via expvar.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
