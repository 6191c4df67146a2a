package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/visa-rent-server/config"
)

// HealthCheck reports process and database state. A missing database is
// reported as degraded, not as a failure of the process.
func HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "ok",
		"message": "Service is healthy",
		"db":      "ok",
	}

	db, err := config.Database()
	if err != nil {
		response["status"] = "degraded"
		response["db"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		response["db"] = "error: cannot get DB instance"
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		response["status"] = "degraded"
		response["db"] = "error: cannot connect to DB"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
