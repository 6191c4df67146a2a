package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/visa-rent-server/models"
)

/* ========== Public: visas ========== */

// ListVisas returns active visa types, popular ones first.
func ListVisas(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	var list []models.VisaType
	if err := db.Where("is_active = ?", true).
		Order("is_popular DESC, sort_order ASC, id ASC").
		Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetVisa(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var v models.VisaType
	if err := db.Where("is_active = ?", true).First(&v, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

/* ========== Admin: visas ========== */

type visaReq struct {
	NameRu        string `json:"nameRu" binding:"required,max=150"`
	NameEn        string `json:"nameEn" binding:"max=150"`
	NameVi        string `json:"nameVi" binding:"max=150"`
	DescriptionRu string `json:"descriptionRu"`
	DescriptionEn string `json:"descriptionEn"`
	DescriptionVi string `json:"descriptionVi"`
	Icon          string `json:"icon" binding:"max=50"`
	Duration      string `json:"duration" binding:"max=100"`
	Price         int    `json:"price" binding:"gte=0"`
	IsPopular     bool   `json:"isPopular"`
	IsActive      *bool  `json:"isActive"`
	SortOrder     int    `json:"sortOrder"`
}

func (r visaReq) fill(v *models.VisaType) {
	v.NameRu, v.NameEn, v.NameVi = r.NameRu, r.NameEn, r.NameVi
	v.DescriptionRu, v.DescriptionEn, v.DescriptionVi = r.DescriptionRu, r.DescriptionEn, r.DescriptionVi
	v.Icon, v.Duration, v.Price = r.Icon, r.Duration, r.Price
	v.IsPopular = r.IsPopular
	v.IsActive = boolOr(r.IsActive, true)
	v.SortOrder = r.SortOrder
	v.ApplyDefaults()
}

func AdminListVisas(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	var list []models.VisaType
	if err := db.Order("sort_order ASC, id ASC").Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func AdminGetVisa(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var v models.VisaType
	if err := db.First(&v, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func CreateVisa(c *gin.Context) {
	var req visaReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var v models.VisaType
	req.fill(&v)
	if err := db.Create(&v).Error; err != nil {
		respondError(c, err)
		return
	}
	purge("/api/visas")
	c.JSON(http.StatusCreated, v)
}

func UpdateVisa(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req visaReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var v models.VisaType
	if err := db.First(&v, id).Error; err != nil {
		respondError(c, err)
		return
	}
	req.fill(&v)
	if err := db.Omit("CreatedAt").Save(&v).Error; err != nil {
		respondError(c, err)
		return
	}
	purge("/api/visas")
	c.JSON(http.StatusOK, v)
}

func DeleteVisa(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	res := db.Delete(&models.VisaType{}, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Visa type not found"})
		return
	}
	purge("/api/visas")
	c.JSON(http.StatusOK, gin.H{"message": "Visa type deleted"})
}
