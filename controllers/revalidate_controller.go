package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vnkhanh/visa-rent-server/config"
)

type revalidateReq struct {
	Token string `json:"token" form:"token"`
	Path  string `json:"path" form:"path"`
}

// Revalidate drops cached pages for a path. Token and path may come in the
// JSON body or the query string.
func Revalidate(c *gin.Context) {
	var req revalidateReq
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &req) {
			return
		}
	}
	if req.Token == "" {
		req.Token = c.Query("token")
	}
	if req.Path == "" {
		req.Path = c.Query("path")
	}

	secret := config.Get().RevalidateSecret
	if secret == "" || subtle.ConstantTimeCompare([]byte(req.Token), []byte(secret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "path is required"})
		return
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	purged := 0
	if cache := current().Cache; cache != nil {
		purged = cache.Purge(path)
	}
	logrus.WithFields(logrus.Fields{"path": path, "purged": purged}).Info("revalidated")
	c.JSON(http.StatusOK, gin.H{"revalidated": true, "path": path, "purged": purged, "now": current().Now().UnixMilli()})
}
