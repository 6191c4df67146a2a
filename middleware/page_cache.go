package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/visa-rent-server/pagecache"
)

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET responses from cache and stores successful ones.
func CachePage(cache *pagecache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := pagecache.Key(c.Request.URL.Path, c.Request.URL.RawQuery)
		if p, ok := cache.Get(key); ok {
			for k, v := range p.Header {
				c.Writer.Header()[k] = v
			}
			c.Header("X-Cache", "HIT")
			c.Data(p.Status, p.Header.Get("Content-Type"), p.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Header("X-Cache", "MISS")
		c.Next()

		if w.Status() != http.StatusOK {
			return
		}
		header := http.Header{}
		if ct := w.Header().Get("Content-Type"); ct != "" {
			header.Set("Content-Type", ct)
		}
		cache.Set(key, pagecache.Page{
			Path:   c.Request.URL.Path,
			Status: w.Status(),
			Header: header,
			Body:   append([]byte(nil), w.body.Bytes()...),
		})
	}
}
