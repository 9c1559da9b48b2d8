package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Agrawal-Rajat/techno-club-backend/pkg/helpers"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/response"
)

// Auth validates the access token cookie and requires an active session in
// Redis. On success it sets userID, userName, userEmail, userRole and
// userClub in the Gin context for downstream handlers and guards.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.AbortError(c, http.StatusUnauthorized, "session not found", nil)
			return
		}
		// Token must belong to the current session, not a rotated-out one.
		if sid, ok := data["sid"]; ok && claims.SessionID != "" && sid != claims.SessionID {
			response.AbortError(c, http.StatusUnauthorized, "session expired", nil)
			return
		}

		c.Set("userID", data["user_id"])
		c.Set("userName", data["name"])
		c.Set("userEmail", data["email"])
		c.Set("userRole", data["role"])
		c.Set("userClub", data["club"])
		c.Next()
	}
}
