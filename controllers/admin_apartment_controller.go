package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/services"
	"github.com/vnkhanh/visa-rent-server/utils"
)

type apartmentReq struct {
	TitleRu       string   `json:"titleRu" binding:"required,max=255"`
	TitleEn       string   `json:"titleEn" binding:"max=255"`
	TitleVi       string   `json:"titleVi" binding:"max=255"`
	DescriptionRu string   `json:"descriptionRu"`
	DescriptionEn string   `json:"descriptionEn"`
	DescriptionVi string   `json:"descriptionVi"`
	PriceUsd      int      `json:"priceUsd" binding:"gte=0"`
	PriceVnd      int64    `json:"priceVnd" binding:"gte=0"`
	Rooms         int      `json:"rooms" binding:"gte=0"`
	Area          float64  `json:"area" binding:"gte=0"`
	Floor         *int     `json:"floor"`
	TotalFloors   *int     `json:"totalFloors"`
	AddressRu     string   `json:"addressRu"`
	AddressEn     string   `json:"addressEn"`
	AddressVi     string   `json:"addressVi"`
	Latitude      *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude     *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Features      []string `json:"features"`
	IsAvailable   *bool    `json:"isAvailable"`
	CanBeShown    *bool    `json:"canBeShown"`
	DistrictID    uint     `json:"districtId" binding:"required"`
	AmenityIDs    []uint   `json:"amenityIds"`
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// fill copies the payload onto a. Omitted flags default to true.
func (r apartmentReq) fill(a *models.Apartment) {
	a.TitleRu, a.TitleEn, a.TitleVi = r.TitleRu, r.TitleEn, r.TitleVi
	a.DescriptionRu, a.DescriptionEn, a.DescriptionVi = r.DescriptionRu, r.DescriptionEn, r.DescriptionVi
	a.PriceUsd, a.PriceVnd = r.PriceUsd, r.PriceVnd
	a.Rooms, a.Area = r.Rooms, r.Area
	a.Floor, a.TotalFloors = r.Floor, r.TotalFloors
	a.AddressRu, a.AddressEn, a.AddressVi = r.AddressRu, r.AddressEn, r.AddressVi
	a.Latitude, a.Longitude = r.Latitude, r.Longitude
	a.Features = datatypes.JSONSlice[string](r.Features)
	if a.Features == nil {
		a.Features = datatypes.JSONSlice[string]{}
	}
	a.IsAvailable = boolOr(r.IsAvailable, true)
	a.CanBeShown = boolOr(r.CanBeShown, true)
	a.DistrictID = r.DistrictID
}

func purgeApartments() {
	purge("/api/rent/apartments", "/sitemap.xml")
}

/* ========== Admin: apartments ========== */

func AdminListApartments(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	listApartments(c, db, false)
}

func AdminGetApartment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	a, err := services.GetApartment(db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newApartmentView(*a, locale(c), nil))
}

// CreateApartment answers 201 after the row is stored; the admin summary and
// subscriber alert are sent before responding but never fail the request.
func CreateApartment(c *gin.Context) {
	var req apartmentReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	var a models.Apartment
	req.fill(&a)
	if err := services.CreateApartment(c.Request.Context(), db, current().Notifier, &a, req.AmenityIDs); err != nil {
		respondError(c, err)
		return
	}
	purgeApartments()

	created, err := services.GetApartment(db, a.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateApartment replaces every field (PUT).
func UpdateApartment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req apartmentReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	var a models.Apartment
	if err := db.First(&a, id).Error; err != nil {
		respondError(c, err)
		return
	}
	req.fill(&a)
	if err := services.UpdateApartment(db, &a, req.AmenityIDs); err != nil {
		respondError(c, err)
		return
	}
	purgeApartments()

	updated, err := services.GetApartment(db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type apartmentPatchReq struct {
	TitleRu       *string             `json:"titleRu" binding:"omitempty,min=1,max=255"`
	TitleEn       *string             `json:"titleEn"`
	TitleVi       *string             `json:"titleVi"`
	DescriptionRu *string             `json:"descriptionRu"`
	DescriptionEn *string             `json:"descriptionEn"`
	DescriptionVi *string             `json:"descriptionVi"`
	PriceUsd      *int                `json:"priceUsd" binding:"omitempty,gte=0"`
	PriceVnd      *int64              `json:"priceVnd" binding:"omitempty,gte=0"`
	Rooms         *int                `json:"rooms" binding:"omitempty,gte=0"`
	Area          *float64            `json:"area" binding:"omitempty,gte=0"`
	Floor         utils.NullableInt   `json:"floor"`
	TotalFloors   utils.NullableInt   `json:"totalFloors"`
	AddressRu     *string             `json:"addressRu"`
	AddressEn     *string             `json:"addressEn"`
	AddressVi     *string             `json:"addressVi"`
	Latitude      utils.NullableFloat `json:"latitude"`
	Longitude     utils.NullableFloat `json:"longitude"`
	Features      *[]string           `json:"features"`
	IsAvailable   *bool               `json:"isAvailable"`
	CanBeShown    *bool               `json:"canBeShown"`
	DistrictID    *uint               `json:"districtId"`
	AmenityIDs    []uint              `json:"amenityIds"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func inRange(v *float64, limit float64) bool {
	return v == nil || (*v >= -limit && *v <= limit)
}

// PatchApartment updates only the supplied fields. A new priceUsd without
// priceVnd re-derives the VND price.
func PatchApartment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req apartmentPatchReq
	if !bindJSON(c, &req) {
		return
	}
	if !inRange(req.Latitude.Value, 90) || !inRange(req.Longitude.Value, 180) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Coordinates out of range"})
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	var a models.Apartment
	if err := db.First(&a, id).Error; err != nil {
		respondError(c, err)
		return
	}

	setIf(&a.TitleRu, req.TitleRu)
	setIf(&a.TitleEn, req.TitleEn)
	setIf(&a.TitleVi, req.TitleVi)
	setIf(&a.DescriptionRu, req.DescriptionRu)
	setIf(&a.DescriptionEn, req.DescriptionEn)
	setIf(&a.DescriptionVi, req.DescriptionVi)
	if req.PriceUsd != nil {
		a.PriceUsd = *req.PriceUsd
		if req.PriceVnd == nil {
			a.PriceVnd = 0
		}
	}
	setIf(&a.PriceVnd, req.PriceVnd)
	setIf(&a.Rooms, req.Rooms)
	setIf(&a.Area, req.Area)
	if req.Floor.Set {
		a.Floor = req.Floor.Value
	}
	if req.TotalFloors.Set {
		a.TotalFloors = req.TotalFloors.Value
	}
	setIf(&a.AddressRu, req.AddressRu)
	setIf(&a.AddressEn, req.AddressEn)
	setIf(&a.AddressVi, req.AddressVi)
	if req.Latitude.Set {
		a.Latitude = req.Latitude.Value
	}
	if req.Longitude.Set {
		a.Longitude = req.Longitude.Value
	}
	if req.Features != nil {
		a.Features = datatypes.JSONSlice[string](*req.Features)
	}
	setIf(&a.IsAvailable, req.IsAvailable)
	setIf(&a.CanBeShown, req.CanBeShown)
	setIf(&a.DistrictID, req.DistrictID)

	if err := services.UpdateApartment(db, &a, req.AmenityIDs); err != nil {
		respondError(c, err)
		return
	}
	purgeApartments()

	updated, err := services.GetApartment(db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type visibilityReq struct {
	CanBeShown  *bool `json:"canBeShown"`
	IsAvailable *bool `json:"isAvailable"`
}

func SetApartmentVisibility(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req visibilityReq
	if !bindJSON(c, &req) {
		return
	}
	if req.CanBeShown == nil && req.IsAvailable == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "canBeShown or isAvailable is required"})
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if req.CanBeShown != nil {
		updates["can_be_shown"] = *req.CanBeShown
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	res := db.Model(&models.Apartment{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Apartment not found"})
		return
	}
	purgeApartments()

	var a models.Apartment
	if err := db.Select("id", "can_be_shown", "is_available").First(&a, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": a.ID, "canBeShown": a.CanBeShown, "isAvailable": a.IsAvailable})
}

func DeleteApartment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	if err := services.DeleteApartment(c.Request.Context(), db, current().Blobs, id); err != nil {
		respondError(c, err)
		return
	}
	purgeApartments()
	c.JSON(http.StatusOK, gin.H{"message": "Apartment deleted"})
}
