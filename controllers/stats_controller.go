package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/models"
)

type statusCount struct {
	Status models.RequestStatus
	Count  int64
}

func countByStatus(db *gorm.DB, model interface{}) (map[models.RequestStatus]int64, int64, error) {
	var rows []statusCount
	if err := db.Model(model).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make(map[models.RequestStatus]int64, len(models.AllStatuses))
	for _, st := range models.AllStatuses {
		out[st] = 0
	}
	var total int64
	for _, r := range rows {
		out[r.Status] = r.Count
		total += r.Count
	}
	return out, total, nil
}

// Stats returns the dashboard counters.
func Stats(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}

	var apartments, visible, views, posts, published, newsletter, alerts int64
	counts := []struct {
		q   *gorm.DB
		dst *int64
	}{
		{db.Model(&models.Apartment{}), &apartments},
		{db.Model(&models.Apartment{}).Where("is_available = ? AND can_be_shown = ?", true, true), &visible},
		{db.Model(&models.BlogPost{}), &posts},
		{db.Model(&models.BlogPost{}).Where("published = ?", true), &published},
		{db.Model(&models.NewsletterSubscription{}).Where("is_active = ?", true), &newsletter},
		{db.Model(&models.ApartmentSubscription{}).Where("is_active = ?", true), &alerts},
	}
	for _, cnt := range counts {
		if err := cnt.q.Count(cnt.dst).Error; err != nil {
			respondError(c, err)
			return
		}
	}
	if err := db.Model(&models.Apartment{}).Select("COALESCE(SUM(view_count), 0)").Scan(&views).Error; err != nil {
		respondError(c, err)
		return
	}

	viewing, viewingTotal, err := countByStatus(db, &models.ViewingRequest{})
	if err != nil {
		respondError(c, err)
		return
	}
	contact, contactTotal, err := countByStatus(db, &models.ContactRequest{})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"apartments":      gin.H{"total": apartments, "visible": visible, "views": views},
		"blog":            gin.H{"total": posts, "published": published},
		"viewingRequests": gin.H{"total": viewingTotal, "byStatus": viewing},
		"contactRequests": gin.H{"total": contactTotal, "byStatus": contact},
		"subscribers":     gin.H{"newsletter": newsletter, "apartmentAlerts": alerts},
	})
}
