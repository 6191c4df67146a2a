package prefs

import "errors"

const (
	RecentlyViewedCapacity = 10
	CompareCapacity        = 3
)

var ErrCompareFull = errors.New("compare list is full")

type list struct {
	key     string
	storage Storage
	ids     []uint
}

func load(s Storage, key string) list {
	return list{key: key, storage: s, ids: readIDs(s, key)}
}

func (l *list) Has(id uint) bool { return indexOf(l.ids, id) >= 0 }

func (l *list) IDs() []uint {
	out := make([]uint, len(l.ids))
	copy(out, l.ids)
	return out
}

func (l *list) Len() int { return len(l.ids) }

func (l *list) Remove(id uint) bool {
	i := indexOf(l.ids, id)
	if i < 0 {
		return false
	}
	l.ids = append(l.ids[:i], l.ids[i+1:]...)
	l.save()
	return true
}

func (l *list) Clear() {
	l.ids = nil
	l.save()
}

func (l *list) save() { writeIDs(l.storage, l.key, l.ids) }

// Favorites is an unbounded set of apartment ids in insertion order.
type Favorites struct{ list }

func LoadFavorites(s Storage) *Favorites {
	return &Favorites{load(s, KeyFavorites)}
}

// Add returns false when id was already present.
func (f *Favorites) Add(id uint) bool {
	if f.Has(id) {
		return false
	}
	f.ids = append(f.ids, id)
	f.save()
	return true
}

// Toggle flips membership and returns the new state.
func (f *Favorites) Toggle(id uint) bool {
	if f.Remove(id) {
		return false
	}
	f.Add(id)
	return true
}

// RecentlyViewed keeps the last RecentlyViewedCapacity ids, newest first.
type RecentlyViewed struct{ list }

func LoadRecentlyViewed(s Storage) *RecentlyViewed {
	r := &RecentlyViewed{load(s, KeyRecentlyViewed)}
	if len(r.ids) > RecentlyViewedCapacity {
		r.ids = r.ids[:RecentlyViewedCapacity]
	}
	return r
}

// Add moves id to the front, dropping the oldest entry past capacity.
func (r *RecentlyViewed) Add(id uint) {
	if i := indexOf(r.ids, id); i >= 0 {
		r.ids = append(r.ids[:i], r.ids[i+1:]...)
	}
	r.ids = append([]uint{id}, r.ids...)
	if len(r.ids) > RecentlyViewedCapacity {
		r.ids = r.ids[:RecentlyViewedCapacity]
	}
	r.save()
}

// Compare holds at most CompareCapacity ids.
type Compare struct{ list }

func LoadCompare(s Storage) *Compare {
	c := &Compare{load(s, KeyCompare)}
	if len(c.ids) > CompareCapacity {
		c.ids = c.ids[:CompareCapacity]
	}
	return c
}

// Add rejects new ids with ErrCompareFull once capacity is reached.
// Adding an id already present is a no-op.
func (c *Compare) Add(id uint) error {
	if c.Has(id) {
		return nil
	}
	if len(c.ids) >= CompareCapacity {
		return ErrCompareFull
	}
	c.ids = append(c.ids, id)
	c.save()
	return nil
}

func (c *Compare) Full() bool { return len(c.ids) >= CompareCapacity }

// Toggle removes id when present, otherwise adds it.
func (c *Compare) Toggle(id uint) (bool, error) {
	if c.Remove(id) {
		return false, nil
	}
	if err := c.Add(id); err != nil {
		return false, err
	}
	return true, nil
}
