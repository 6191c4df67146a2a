package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/visa-rent-server/config"
	"github.com/vnkhanh/visa-rent-server/middleware"
	"github.com/vnkhanh/visa-rent-server/services"
	"github.com/vnkhanh/visa-rent-server/utils"
)

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials against the users table, or the configured
// fallback admin when the database cannot answer, and issues a 30-day token.
func Login(c *gin.Context) {
	var req loginReq
	if !bindJSON(c, &req) {
		return
	}

	cfg := config.Get()
	db, err := config.Database()
	if err != nil {
		db = nil
	} else {
		db = db.WithContext(c.Request.Context())
	}

	u, err := services.Authenticate(db, services.FallbackAdmin{
		Email:        cfg.AdminEmail,
		PasswordHash: cfg.AdminPasswordHash,
	}, req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": int(utils.TokenTTL.Seconds()),
		"user": gin.H{
			"id":    u.ID,
			"email": u.Email,
			"name":  u.Name,
			"role":  u.Role,
		},
	})
}

// Me echoes the identity carried by the token.
func Me(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    claims.UserID,
		"email": claims.Email,
		"role":  claims.Role,
	})
}
