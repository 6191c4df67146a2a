package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/visa-rent-server/config"
	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/pagecache"
	"github.com/vnkhanh/visa-rent-server/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWTAndRequireAdmin(t *testing.T) {
	config.Set(&config.Config{JWTSecret: "mw-secret"})

	r := gin.New()
	r.GET("/admin", AuthJWT(), RequireAdmin(), func(c *gin.Context) {
		claims, ok := Claims(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.Email)
	})

	admin, err := utils.GenerateToken(1, "boss@site.io", models.RoleAdmin)
	require.NoError(t, err)
	guest, err := utils.GenerateToken(2, "guest@site.io", "viewer")
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/admin", admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "boss@site.io", w.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", guest).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", admin+"x").Code)

	// a token signed with another secret is rejected
	config.Set(&config.Config{JWTSecret: "rotated"})
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", admin).Code)
}

func TestRequireAdminWithoutAuthJWT(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/x", "").Code)
}

func TestRateLimitByIP(t *testing.T) {
	rl := NewIPRateLimiter(1, 2, time.Minute)
	r := gin.New()
	r.POST("/lead", RateLimitByIP(rl), func(c *gin.Context) { c.Status(http.StatusCreated) })

	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, http.MethodPost, "/lead", "").Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	// other addresses have their own bucket
	assert.True(t, rl.Allow("203.0.113.9"))
}

func TestRateLimitByIPNilPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/lead", RateLimitByIP(nil), func(c *gin.Context) { c.Status(http.StatusCreated) })
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/lead", "").Code)
	}
}

func TestCachePage(t *testing.T) {
	cache := pagecache.New(time.Minute)
	calls := 0
	r := gin.New()
	r.GET("/api/faq", CachePage(cache), func(c *gin.Context) {
		calls++
		if c.Query("fail") != "" {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "boom"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	first := serve(r, http.MethodGet, "/api/faq", "")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(r, http.MethodGet, "/api/faq", "")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, 1, calls)

	// another query string is another page
	serve(r, http.MethodGet, "/api/faq?category=visa", "")
	assert.Equal(t, 2, calls)

	// errors are not stored
	serve(r, http.MethodGet, "/api/faq?fail=1", "")
	serve(r, http.MethodGet, "/api/faq?fail=1", "")
	assert.Equal(t, 4, calls)

	assert.Equal(t, 2, cache.Purge("/api/faq"))
	assert.Equal(t, "MISS", serve(r, http.MethodGet, "/api/faq", "").Header().Get("X-Cache"))
}

func TestCachePageNilCache(t *testing.T) {
	r := gin.New()
	r.GET("/p", CachePage(nil), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	w := serve(r, http.MethodGet, "/p", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))
}
