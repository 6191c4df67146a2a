package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/prefs"
	"github.com/vnkhanh/visa-rent-server/services"
)

const (
	prefsCookiePrefix = "vr_"
	prefsCookieMaxAge = int(365 * 24 * time.Hour / time.Second)
)

// cookieStorage is a prefs.Storage over the visitor's cookies, one cookie
// per key. Writes are also kept on the context so later reads in the same
// request see them.
type cookieStorage struct {
	c *gin.Context
}

func newCookieStorage(c *gin.Context) *cookieStorage {
	return &cookieStorage{c: c}
}

func (s *cookieStorage) Get(key string) (string, bool) {
	if v, ok := s.c.Get("prefs:" + key); ok {
		return v.(string), true
	}
	raw, err := s.c.Cookie(prefsCookiePrefix + key)
	if err != nil {
		return "", false
	}
	return raw, true
}

func (s *cookieStorage) Set(key, value string) {
	s.c.Set("prefs:"+key, value)
	http.SetCookie(s.c.Writer, &http.Cookie{
		Name:     prefsCookiePrefix + key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   prefsCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

/* ========== Favorites ========== */

func GetFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ids": prefs.LoadFavorites(newCookieStorage(c)).IDs()})
}

func AddFavorite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fav := prefs.LoadFavorites(newCookieStorage(c))
	added := fav.Add(id)
	c.JSON(http.StatusOK, gin.H{"ids": fav.IDs(), "added": added})
}

func RemoveFavorite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fav := prefs.LoadFavorites(newCookieStorage(c))
	removed := fav.Remove(id)
	c.JSON(http.StatusOK, gin.H{"ids": fav.IDs(), "removed": removed})
}

func ToggleFavorite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fav := prefs.LoadFavorites(newCookieStorage(c))
	on := fav.Toggle(id)
	c.JSON(http.StatusOK, gin.H{"ids": fav.IDs(), "favorite": on})
}

/* ========== Recently viewed ========== */

func GetRecentlyViewed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ids": prefs.LoadRecentlyViewed(newCookieStorage(c)).IDs()})
}

/* ========== Compare ========== */

func GetCompare(c *gin.Context) {
	cmp := prefs.LoadCompare(newCookieStorage(c))
	c.JSON(http.StatusOK, gin.H{"ids": cmp.IDs(), "full": cmp.Full(), "capacity": prefs.CompareCapacity})
}

func AddCompare(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cmp := prefs.LoadCompare(newCookieStorage(c))
	if err := cmp.Add(id); err != nil {
		if errors.Is(err, prefs.ErrCompareFull) {
			c.JSON(http.StatusConflict, gin.H{"message": "Compare list is full", "ids": cmp.IDs(), "capacity": prefs.CompareCapacity})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ids": cmp.IDs(), "full": cmp.Full()})
}

func RemoveCompare(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cmp := prefs.LoadCompare(newCookieStorage(c))
	cmp.Remove(id)
	c.JSON(http.StatusOK, gin.H{"ids": cmp.IDs(), "full": cmp.Full()})
}

// GetCompareApartments loads the compared apartments in list order,
// skipping ones that are gone or hidden.
func GetCompareApartments(c *gin.Context) {
	ids := prefs.LoadCompare(newCookieStorage(c)).IDs()
	if len(ids) == 0 {
		c.JSON(http.StatusOK, []apartmentView{})
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	var list []models.Apartment
	if err := services.PreloadApartment(db).
		Where("id IN ? AND can_be_shown = ?", ids, true).
		Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	byID := make(map[uint]models.Apartment, len(list))
	for _, a := range list {
		byID[a.ID] = a
	}
	lang := locale(c)
	out := make([]apartmentView, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, newApartmentView(a, lang, nil))
		}
	}
	c.JSON(http.StatusOK, out)
}
