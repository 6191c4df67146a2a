package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites_PersistAcrossReload(t *testing.T) {
	s := NewMemoryStorage()
	f := LoadFavorites(s)
	assert.True(t, f.Add(3))
	assert.True(t, f.Add(7))
	assert.False(t, f.Add(3))

	reloaded := LoadFavorites(s)
	assert.Equal(t, []uint{3, 7}, reloaded.IDs())
	assert.True(t, reloaded.Has(7))
	assert.False(t, reloaded.Has(8))
}

func TestFavorites_Toggle(t *testing.T) {
	f := LoadFavorites(NewMemoryStorage())
	assert.True(t, f.Toggle(5))
	assert.True(t, f.Has(5))
	assert.False(t, f.Toggle(5))
	assert.False(t, f.Has(5))
	assert.False(t, f.Remove(5))
}

func TestRecentlyViewed_MoveToFront(t *testing.T) {
	s := NewMemoryStorage()
	r := LoadRecentlyViewed(s)
	r.Add(1)
	r.Add(2)
	r.Add(3)
	r.Add(1)

	assert.Equal(t, []uint{1, 3, 2}, r.IDs())
	assert.Equal(t, []uint{1, 3, 2}, LoadRecentlyViewed(s).IDs())
}

func TestRecentlyViewed_Capacity(t *testing.T) {
	r := LoadRecentlyViewed(NewMemoryStorage())
	for id := uint(1); id <= 15; id++ {
		r.Add(id)
	}
	require.Equal(t, RecentlyViewedCapacity, r.Len())
	assert.Equal(t, uint(15), r.IDs()[0])
	assert.False(t, r.Has(5))

	// re-adding an id already inside neither duplicates nor grows the list
	r.Add(10)
	assert.Equal(t, RecentlyViewedCapacity, r.Len())
	assert.Equal(t, uint(10), r.IDs()[0])
	assert.True(t, r.Has(6))
}

func TestCompare_RejectsFourthUntilRemoval(t *testing.T) {
	s := NewMemoryStorage()
	c := LoadCompare(s)
	require.NoError(t, c.Add(1))
	require.NoError(t, c.Add(2))
	require.NoError(t, c.Add(3))
	assert.True(t, c.Full())

	assert.ErrorIs(t, c.Add(4), ErrCompareFull)
	assert.False(t, c.Has(4))
	assert.NoError(t, c.Add(2), "re-adding a member is not an error")

	assert.True(t, c.Remove(2))
	assert.NoError(t, c.Add(4))
	assert.Equal(t, []uint{1, 3, 4}, LoadCompare(s).IDs())
}

func TestCompare_Toggle(t *testing.T) {
	c := LoadCompare(NewMemoryStorage())
	for id := uint(1); id <= 3; id++ {
		added, err := c.Toggle(id)
		require.NoError(t, err)
		assert.True(t, added)
	}
	_, err := c.Toggle(9)
	assert.ErrorIs(t, err, ErrCompareFull)

	added, err := c.Toggle(1)
	require.NoError(t, err)
	assert.False(t, added)
}

func TestStoresAreIndependent(t *testing.T) {
	s := NewMemoryStorage()
	LoadFavorites(s).Add(1)
	require.NoError(t, LoadCompare(s).Add(2))
	LoadRecentlyViewed(s).Add(3)

	assert.Equal(t, []uint{1}, LoadFavorites(s).IDs())
	assert.Equal(t, []uint{2}, LoadCompare(s).IDs())
	assert.Equal(t, []uint{3}, LoadRecentlyViewed(s).IDs())

	LoadFavorites(s).Clear()
	assert.Empty(t, LoadFavorites(s).IDs())
	assert.Equal(t, []uint{2}, LoadCompare(s).IDs())
}

func TestClearedStorageLosesState(t *testing.T) {
	s := NewMemoryStorage()
	LoadFavorites(s).Add(1)
	s.Clear()
	assert.Empty(t, LoadFavorites(s).IDs())
}

func TestCorruptedValueIsEmpty(t *testing.T) {
	s := NewMemoryStorage()
	s.Set(KeyFavorites, "{not json")
	f := LoadFavorites(s)
	assert.Empty(t, f.IDs())
	assert.True(t, f.Add(1))
}
