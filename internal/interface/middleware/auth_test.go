package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/interface/middleware"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRig(t *testing.T) (*redis.Client, *miniredis.Miniredis, *helpers.JWTManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return rdb, mr, jwt
}

func seedSession(mr *miniredis.Miniredis, userID, sid string, role entity.Role, club entity.Club) {
	mr.HSet("user:session:"+userID, "user_id", userID)
	mr.HSet("user:session:"+userID, "name", "Tester")
	mr.HSet("user:session:"+userID, "email", "tester@uni.edu")
	mr.HSet("user:session:"+userID, "role", string(role))
	mr.HSet("user:session:"+userID, "club", string(club))
	mr.HSet("user:session:"+userID, "sid", sid)
}

func authEngine(rdb *redis.Client, jwt *helpers.JWTManager, guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{middleware.Auth(rdb, jwt)}, guards...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":   c.GetString("userID"),
			"userRole": c.GetString("userRole"),
			"userClub": c.GetString("userClub"),
		})
	})
	r.GET("/ping", chain...)
	return r
}

func TestAuthMissingCookie(t *testing.T) {
	rdb, _, jwt := newAuthRig(t)
	r := authEngine(rdb, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	rdb, _, jwt := newAuthRig(t)
	r := authEngine(rdb, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "garbage"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthNoSession(t *testing.T) {
	rdb, _, jwt := newAuthRig(t)
	token, _, err := jwt.GenerateAccessToken("u-1", "sid-1")
	require.NoError(t, err)
	r := authEngine(rdb, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRotatedSessionRejected(t *testing.T) {
	rdb, mr, jwt := newAuthRig(t)
	seedSession(mr, "u-1", "sid-new", entity.RoleUser, entity.ClubNone)
	// token minted for the old session id
	token, _, err := jwt.GenerateAccessToken("u-1", "sid-old")
	require.NoError(t, err)
	r := authEngine(rdb, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthSetsSessionContext(t *testing.T) {
	rdb, mr, jwt := newAuthRig(t)
	seedSession(mr, "u-1", "sid-1", entity.RoleAdmin, entity.ClubIEEE)
	token, _, err := jwt.GenerateAccessToken("u-1", "sid-1")
	require.NoError(t, err)
	r := authEngine(rdb, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":"u-1"`)
	assert.Contains(t, w.Body.String(), `"userRole":"admin"`)
	assert.Contains(t, w.Body.String(), `"userClub":"IEEE"`)
}

func TestRequireRoles(t *testing.T) {
	rdb, mr, jwt := newAuthRig(t)
	guard := middleware.RequireRoles(entity.RoleAdmin, entity.RoleSuperAdmin)

	cases := []struct {
		role entity.Role
		want int
	}{
		{entity.RoleUser, http.StatusForbidden},
		{entity.RoleMember, http.StatusForbidden},
		{entity.RoleAdmin, http.StatusOK},
		{entity.RoleSuperAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		seedSession(mr, "u-1", "sid-1", tc.role, entity.ClubNone)
		token, _, err := jwt.GenerateAccessToken("u-1", "sid-1")
		require.NoError(t, err)
		r := authEngine(rdb, jwt, guard)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		r.ServeHTTP(w, req)

		assert.Equalf(t, tc.want, w.Code, "role %s", tc.role)
	}
}
