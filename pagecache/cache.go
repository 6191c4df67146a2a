// Package pagecache is an in-process TTL cache for rendered GET responses.
package pagecache

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Page is one cached response.
type Page struct {
	Path    string
	Status  int
	Header  http.Header
	Body    []byte
	Expires time.Time
}

type Cache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	pages map[string]Page
	now   func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, pages: make(map[string]Page), now: time.Now}
}

// Key identifies a request by path and raw query.
func Key(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

func (c *Cache) Get(key string) (Page, bool) {
	c.mu.RLock()
	p, ok := c.pages[key]
	c.mu.RUnlock()
	if !ok {
		return Page{}, false
	}
	if !c.now().Before(p.Expires) {
		c.mu.Lock()
		if cur, ok := c.pages[key]; ok && !c.now().Before(cur.Expires) {
			delete(c.pages, key)
		}
		c.mu.Unlock()
		return Page{}, false
	}
	return p, true
}

// Set stores a page for the cache TTL. A non-positive TTL disables caching.
func (c *Cache) Set(key string, p Page) {
	if c.ttl <= 0 {
		return
	}
	p.Expires = c.now().Add(c.ttl)
	c.mu.Lock()
	c.pages[key] = p
	c.mu.Unlock()
}

// Purge drops every page whose path equals path, whatever its query.
func (c *Cache) Purge(path string) int {
	return c.purge(func(p Page) bool { return p.Path == path })
}

// PurgePrefix drops every page whose path starts with prefix.
func (c *Cache) PurgePrefix(prefix string) int {
	return c.purge(func(p Page) bool { return strings.HasPrefix(p.Path, prefix) })
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.pages = make(map[string]Page)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

func (c *Cache) purge(match func(Page) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, p := range c.pages {
		if match(p) {
			delete(c.pages, k)
			n++
		}
	}
	return n
}
