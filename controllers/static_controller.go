package controllers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/sw.js
var serviceWorker []byte

//go:embed static/offline.html
var offlinePage []byte

// ServiceWorker serves the site-wide worker script.
func ServiceWorker(c *gin.Context) {
	c.Header("Service-Worker-Allowed", "/")
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", serviceWorker)
}

func OfflinePage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", offlinePage)
}
