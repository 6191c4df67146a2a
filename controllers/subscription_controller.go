package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/services"
	"github.com/vnkhanh/visa-rent-server/utils"
)

/* ========== Public: newsletter ========== */

type newsletterReq struct {
	Email  string `json:"email" binding:"required,email,max=100"`
	Locale string `json:"locale" binding:"omitempty,oneof=ru en vi"`
}

func SubscribeNewsletter(c *gin.Context) {
	var req newsletterReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	sub, created, err := services.Subscribe(db, req.Email, req.Locale)
	if errors.Is(err, services.ErrAlreadySubscribed) {
		c.JSON(http.StatusConflict, gin.H{"message": "Email is already subscribed"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, sub)
}

type unsubscribeReq struct {
	Email string `json:"email" binding:"required,email"`
}

func UnsubscribeNewsletter(c *gin.Context) {
	var req unsubscribeReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	if err := services.Unsubscribe(db, req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed"})
}

/* ========== Public: apartment subscriptions ========== */

type apartmentSubscriptionReq struct {
	Email      string             `json:"email" binding:"required,email,max=100"`
	MinPrice   utils.NullableInt  `json:"minPrice"`
	MaxPrice   utils.NullableInt  `json:"maxPrice"`
	MinRooms   utils.NullableInt  `json:"minRooms"`
	MaxRooms   utils.NullableInt  `json:"maxRooms"`
	DistrictID utils.NullableUint `json:"districtId"`
}

func (r apartmentSubscriptionReq) valid() bool {
	if r.MinPrice.Value != nil && r.MaxPrice.Value != nil && *r.MinPrice.Value > *r.MaxPrice.Value {
		return false
	}
	if r.MinRooms.Value != nil && r.MaxRooms.Value != nil && *r.MinRooms.Value > *r.MaxRooms.Value {
		return false
	}
	return true
}

// CreateApartmentSubscription saves a search alert. Omitted or null bounds
// leave that dimension unconstrained.
func CreateApartmentSubscription(c *gin.Context) {
	var req apartmentSubscriptionReq
	if !bindJSON(c, &req) {
		return
	}
	if !req.valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Minimum must not exceed maximum"})
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	if req.DistrictID.Value != nil {
		var d models.District
		if err := db.Select("id").First(&d, *req.DistrictID.Value).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "district not found"})
				return
			}
			respondError(c, err)
			return
		}
	}

	sub := models.ApartmentSubscription{
		Email:      services.NormalizeEmail(req.Email),
		MinPrice:   req.MinPrice.Value,
		MaxPrice:   req.MaxPrice.Value,
		MinRooms:   req.MinRooms.Value,
		MaxRooms:   req.MaxRooms.Value,
		DistrictID: req.DistrictID.Value,
		IsActive:   true,
	}
	if err := db.Create(&sub).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// DeleteApartmentSubscription removes a subscription; the owner proves
// ownership with ?email=.
func DeleteApartmentSubscription(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	email := services.NormalizeEmail(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND email = ?", id, email).Delete(&models.ApartmentSubscription{})
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Subscription not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted"})
}

/* ========== Admin: subscribers ========== */

func ListNewsletterSubscriptions(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	q := db.Order("created_at DESC, id DESC")
	if active := c.Query("active"); active != "" {
		q = q.Where("is_active = ?", isTrue(active))
	}
	var list []models.NewsletterSubscription
	if err := q.Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func DeleteNewsletterSubscription(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	res := db.Delete(&models.NewsletterSubscription{}, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Subscription not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted"})
}

func ListApartmentSubscriptions(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	var list []models.ApartmentSubscription
	if err := db.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func AdminDeleteApartmentSubscription(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	res := db.Delete(&models.ApartmentSubscription{}, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Subscription not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted"})
}
