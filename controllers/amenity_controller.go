package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/models"
)

type amenityReq struct {
	NameRu   string `json:"nameRu" binding:"required,max=100"`
	NameEn   string `json:"nameEn" binding:"max=100"`
	NameVi   string `json:"nameVi" binding:"max=100"`
	Icon     string `json:"icon" binding:"max=50"`
	Category string `json:"category" binding:"max=50"`
}

func (r amenityReq) fill(a *models.Amenity) {
	a.NameRu, a.NameEn, a.NameVi = r.NameRu, r.NameEn, r.NameVi
	a.Icon, a.Category = r.Icon, r.Category
	a.ApplyDefaults()
}

/* ========== Admin: amenities ========== */

func AdminGetAmenity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var a models.Amenity
	if err := db.First(&a, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func CreateAmenity(c *gin.Context) {
	var req amenityReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var a models.Amenity
	req.fill(&a)
	if err := db.Create(&a).Error; err != nil {
		respondError(c, err)
		return
	}
	purge("/api/rent")
	c.JSON(http.StatusCreated, a)
}

func UpdateAmenity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req amenityReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var a models.Amenity
	if err := db.First(&a, id).Error; err != nil {
		respondError(c, err)
		return
	}
	req.fill(&a)
	if err := db.Save(&a).Error; err != nil {
		respondError(c, err)
		return
	}
	purge("/api/rent")
	c.JSON(http.StatusOK, a)
}

// DeleteAmenity refuses with 409 while apartments use the amenity, unless
// ?cascade=true, which unlinks it from them.
func DeleteAmenity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var a models.Amenity
	if err := db.First(&a, id).Error; err != nil {
		respondError(c, err)
		return
	}

	var links int64
	if err := db.Table("apartment_amenities").Where("amenity_id = ?", id).Count(&links).Error; err != nil {
		respondError(c, err)
		return
	}
	if links > 0 && !isTrue(c.Query("cascade")) {
		c.JSON(http.StatusConflict, gin.H{"message": "Amenity is in use", "apartments": links})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM apartment_amenities WHERE amenity_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&a).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}
	purge("/api/rent")
	c.JSON(http.StatusOK, gin.H{"message": "Amenity deleted"})
}
