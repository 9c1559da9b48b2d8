package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/response"
)

// RequireRoles rejects authenticated requests whose session role is not one
// of the allowed roles. Must run after Auth.
func RequireRoles(roles ...entity.Role) gin.HandlerFunc {
	allowed := make(map[entity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := entity.Role(c.GetString("userRole"))
		if _, ok := allowed[role]; !ok {
			response.AbortError(c, http.StatusForbidden, "insufficient permissions", nil)
			return
		}
		c.Next()
	}
}
