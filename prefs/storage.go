// Package prefs keeps the visitor's favorites, recently viewed and compare lists.
// State lives only in the client's storage; nothing here touches the database.
package prefs

import (
	"encoding/json"
	"sync"
)

const (
	KeyFavorites      = "favorites"
	KeyRecentlyViewed = "recently_viewed"
	KeyCompare        = "compare"
)

// Storage is the key/value space the stores mirror themselves to.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStorage is a Storage kept in a map.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
}

// Clear drops every key.
func (m *MemoryStorage) Clear() {
	m.mu.Lock()
	m.data = make(map[string]string)
	m.mu.Unlock()
}

func readIDs(s Storage, key string) []uint {
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		// corrupted value behaves like an empty list
		return nil
	}
	return dedupe(ids)
}

func writeIDs(s Storage, key string, ids []uint) {
	if ids == nil {
		ids = []uint{}
	}
	b, _ := json.Marshal(ids)
	s.Set(key, string(b))
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func indexOf(ids []uint, id uint) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
