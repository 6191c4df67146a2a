package controllers

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/geo"
	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/prefs"
	"github.com/vnkhanh/visa-rent-server/services"
)

const (
	apartmentsPageSize = 12
	apartmentsMaxPage  = 50
	defaultRadius      = 2000.0
)

// apartmentView is the list/detail shape: the apartment plus derived distances.
type apartmentView struct {
	models.Apartment
	DistanceToSea      *float64 `json:"distanceToSea"`
	DistanceToSeaLabel string   `json:"distanceToSeaLabel,omitempty"`
	Distance           *float64 `json:"distance,omitempty"`
}

func newApartmentView(a models.Apartment, lang string, from *geo.Point) apartmentView {
	v := apartmentView{Apartment: a}
	if a.Latitude == nil || a.Longitude == nil {
		return v
	}
	p := geo.Point{Lat: *a.Latitude, Lng: *a.Longitude}
	sea := math.Round(geo.DistanceToCoast(p))
	v.DistanceToSea = &sea
	v.DistanceToSeaLabel = geo.FormatDistance(sea, lang)
	if from != nil {
		d := math.Round(geo.Haversine(*from, p))
		v.Distance = &d
	}
	return v
}

type apartmentFilter struct {
	district   *int
	minPrice   *int
	maxPrice   *int
	minRooms   *int
	maxRooms   *int
	amenityIDs []uint
	sort       string
	center     *geo.Point
	radius     float64
}

func parseApartmentFilter(c *gin.Context) (apartmentFilter, bool) {
	var f apartmentFilter
	var ok bool
	if f.district, ok = queryInt(c, "district"); !ok {
		return f, false
	}
	if f.minPrice, ok = queryInt(c, "minPrice"); !ok {
		return f, false
	}
	if f.maxPrice, ok = queryInt(c, "maxPrice"); !ok {
		return f, false
	}
	if f.minRooms, ok = queryInt(c, "minRooms"); !ok {
		return f, false
	}
	if f.maxRooms, ok = queryInt(c, "maxRooms"); !ok {
		return f, false
	}
	if raw := strings.TrimSpace(c.Query("amenities")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil || id == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid amenities"})
				return f, false
			}
			f.amenityIDs = append(f.amenityIDs, uint(id))
		}
	}

	lat, ok := queryFloat(c, "lat")
	if !ok {
		return f, false
	}
	lng, ok := queryFloat(c, "lng")
	if !ok {
		return f, false
	}
	radius, ok := queryFloat(c, "radius")
	if !ok {
		return f, false
	}
	if (lat == nil) != (lng == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "lat and lng go together"})
		return f, false
	}
	if lat != nil {
		if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid coordinates"})
			return f, false
		}
		f.center = &geo.Point{Lat: *lat, Lng: *lng}
		f.radius = defaultRadius
		if radius != nil && *radius > 0 {
			f.radius = *radius
		}
	}

	f.sort = c.DefaultQuery("sort", "newest")
	return f, true
}

func (f apartmentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.district != nil {
		q = q.Where("district_id = ?", *f.district)
	}
	if f.minPrice != nil {
		q = q.Where("price_usd >= ?", *f.minPrice)
	}
	if f.maxPrice != nil {
		q = q.Where("price_usd <= ?", *f.maxPrice)
	}
	if f.minRooms != nil {
		q = q.Where("rooms >= ?", *f.minRooms)
	}
	if f.maxRooms != nil {
		q = q.Where("rooms <= ?", *f.maxRooms)
	}
	if n := len(f.amenityIDs); n > 0 {
		// apartments carrying every requested amenity
		q = q.Where("id IN (?)", q.Session(&gorm.Session{NewDB: true}).
			Table("apartment_amenities").
			Select("apartment_id").
			Where("amenity_id IN ?", f.amenityIDs).
			Group("apartment_id").
			Having("COUNT(DISTINCT amenity_id) = ?", len(uniqueUints(f.amenityIDs))))
	}
	if f.center != nil {
		prefixes := geo.SearchPrefixes(*f.center, f.radius)
		conds := make([]string, len(prefixes))
		args := make([]interface{}, len(prefixes))
		for i, p := range prefixes {
			conds[i] = "geohash LIKE ?"
			args[i] = p + "%"
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
	}
	return q
}

func (f apartmentFilter) order() string {
	switch f.sort {
	case "price_asc":
		return "price_usd ASC, id DESC"
	case "price_desc":
		return "price_usd DESC, id DESC"
	case "popular":
		return "view_count DESC, id DESC"
	case "oldest":
		return "created_at ASC, id ASC"
	}
	return "created_at DESC, id DESC"
}

func uniqueUints(ids []uint) map[uint]struct{} {
	m := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// listApartments runs the filtered query. Geo searches are narrowed by
// geohash in SQL, then checked exactly and paginated in memory.
func listApartments(c *gin.Context, db *gorm.DB, onlyVisible bool) {
	f, ok := parseApartmentFilter(c)
	if !ok {
		return
	}
	page, limit, offset := pagination(c, apartmentsPageSize, apartmentsMaxPage)
	lang := locale(c)

	base := db.Model(&models.Apartment{})
	if onlyVisible {
		base = base.Where("is_available = ? AND can_be_shown = ?", true, true)
	}
	base = f.apply(base)

	if f.center == nil && f.sort != "sea" {
		var total int64
		if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			respondError(c, err)
			return
		}
		var list []models.Apartment
		if err := services.PreloadApartment(base).Order(f.order()).Limit(limit).Offset(offset).Find(&list).Error; err != nil {
			respondError(c, err)
			return
		}
		views := make([]apartmentView, len(list))
		for i, a := range list {
			views[i] = newApartmentView(a, lang, nil)
		}
		c.JSON(http.StatusOK, gin.H{"data": views, "total": total, "page": page, "limit": limit})
		return
	}

	var list []models.Apartment
	if err := services.PreloadApartment(base).Order(f.order()).Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	views := make([]apartmentView, 0, len(list))
	for _, a := range list {
		v := newApartmentView(a, lang, f.center)
		if f.center != nil && (v.Distance == nil || *v.Distance > f.radius) {
			continue
		}
		views = append(views, v)
	}
	switch {
	case f.sort == "sea":
		sort.SliceStable(views, func(i, j int) bool { return lessPtr(views[i].DistanceToSea, views[j].DistanceToSea) })
	case f.center != nil && f.sort == "distance":
		sort.SliceStable(views, func(i, j int) bool { return lessPtr(views[i].Distance, views[j].Distance) })
	}

	total := len(views)
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}
	c.JSON(http.StatusOK, gin.H{"data": views[offset:end], "total": total, "page": page, "limit": limit})
}

// nil sorts last
func lessPtr(a, b *float64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

/* ========== Public listing ========== */

func ListApartments(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	listApartments(c, db, true)
}

func GetApartment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	var a models.Apartment
	if err := services.PreloadApartment(db).Where("can_be_shown = ?", true).First(&a, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newApartmentView(a, locale(c), nil))
}

// RecordApartmentView bumps viewCount and remembers the id in the
// visitor's recently viewed list.
func RecordApartmentView(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	if err := services.IncrementViews(db, id); err != nil {
		respondError(c, err)
		return
	}

	recent := prefs.LoadRecentlyViewed(newCookieStorage(c))
	recent.Add(id)
	c.JSON(http.StatusOK, gin.H{"message": "ok", "recentlyViewed": recent.IDs()})
}

func ListDistricts(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	var list []models.District
	if err := db.Where("is_active = ?", true).Order("sort_order ASC, id ASC").Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func ListAmenities(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	q := db.Order("category ASC, id ASC")
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	var list []models.Amenity
	if err := q.Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
