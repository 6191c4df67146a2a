package controllers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/config"
	"github.com/vnkhanh/visa-rent-server/notify"
	"github.com/vnkhanh/visa-rent-server/pagecache"
	"github.com/vnkhanh/visa-rent-server/services"
	"github.com/vnkhanh/visa-rent-server/utils"
)

// Deps are the collaborators handlers reach outside the database.
type Deps struct {
	Notifier notify.Notifier
	Blobs    utils.BlobStore
	Cache    *pagecache.Cache
	Now      func() time.Time
}

var (
	deps   = Deps{Notifier: notify.Noop{}, Blobs: utils.DisabledStore{}, Now: time.Now}
	depsMu sync.RWMutex
)

// Configure installs d; nil fields get no-op defaults.
func Configure(d Deps) {
	if d.Notifier == nil {
		d.Notifier = notify.Noop{}
	}
	if d.Blobs == nil {
		d.Blobs = utils.DisabledStore{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	depsMu.Lock()
	deps = d
	depsMu.Unlock()
}

func current() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	}
}

// getDB returns the request-scoped connection or answers 503.
func getDB(c *gin.Context) (*gorm.DB, bool) {
	db, err := config.Database()
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return db.WithContext(c.Request.Context()), true
}

// respondError maps err onto a status code and the {"message": ...} body.
func respondError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, config.ErrDatabaseUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Database is not available"})
	case errors.Is(err, utils.ErrBlobStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "File storage is not configured"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"message": "Already exists"})
	case errors.Is(err, services.ErrDistrictNotFound),
		errors.Is(err, services.ErrAmenityNotFound),
		errors.Is(err, services.ErrInvalidImageOrder):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fieldErrors(verrs)})
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// bindJSON binds the body into obj, answering 400 on failure.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fieldErrors(verrs)})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		}
		return false
	}
	return true
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, key string) (*int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + key})
		return nil, false
	}
	return &v, true
}

func queryFloat(c *gin.Context, key string) (*float64, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + key})
		return nil, false
	}
	return &v, true
}

// pagination reads ?page= and ?limit= (1-based page, limit clamped to max).
func pagination(c *gin.Context, def, max int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit, (page - 1) * limit
}

// locale reads ?lang=, defaulting to Russian.
func locale(c *gin.Context) string {
	switch strings.ToLower(c.Query("lang")) {
	case "en":
		return "en"
	case "vi":
		return "vi"
	}
	return "ru"
}

// purge drops cached pages under the given path prefixes.
func purge(prefixes ...string) {
	cache := current().Cache
	if cache == nil {
		return
	}
	for _, p := range prefixes {
		cache.PurgePrefix(p)
	}
}

func isTrue(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
