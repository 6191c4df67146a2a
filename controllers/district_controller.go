package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/services"
)

type districtReq struct {
	NameRu    string `json:"nameRu" binding:"required,max=100"`
	NameEn    string `json:"nameEn" binding:"max=100"`
	NameVi    string `json:"nameVi" binding:"max=100"`
	SortOrder int    `json:"sortOrder"`
	IsActive  *bool  `json:"isActive"`
}

func (r districtReq) fill(d *models.District) {
	d.NameRu, d.NameEn, d.NameVi = r.NameRu, r.NameEn, r.NameVi
	d.SortOrder = r.SortOrder
	d.IsActive = boolOr(r.IsActive, true)
	d.ApplyDefaults()
}

func purgeDistricts() {
	purge("/api/rent")
}

/* ========== Admin: districts ========== */

func AdminListDistricts(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	var list []models.District
	if err := db.Order("sort_order ASC, id ASC").Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func AdminGetDistrict(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var d models.District
	if err := db.First(&d, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func CreateDistrict(c *gin.Context) {
	var req districtReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var d models.District
	req.fill(&d)
	if err := db.Create(&d).Error; err != nil {
		respondError(c, err)
		return
	}
	purgeDistricts()
	c.JSON(http.StatusCreated, d)
}

func UpdateDistrict(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req districtReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var d models.District
	if err := db.First(&d, id).Error; err != nil {
		respondError(c, err)
		return
	}
	req.fill(&d)
	if err := db.Omit("CreatedAt").Save(&d).Error; err != nil {
		respondError(c, err)
		return
	}
	purgeDistricts()
	c.JSON(http.StatusOK, d)
}

// DeleteDistrict refuses with 409 while apartments reference the district,
// unless ?cascade=true, which deletes those apartments along with it.
func DeleteDistrict(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	n, err := services.DeleteDistrict(c.Request.Context(), db, current().Blobs, id, isTrue(c.Query("cascade")))
	if errors.Is(err, services.ErrDistrictInUse) {
		c.JSON(http.StatusConflict, gin.H{
			"message":    "District has apartments",
			"apartments": n,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	purgeDistricts()
	purgeApartments()
	c.JSON(http.StatusOK, gin.H{"message": "District deleted", "deletedApartments": n})
}
