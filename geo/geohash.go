package geo

import "github.com/mmcloughlin/geohash"

// StoragePrecision is the geohash length persisted on apartments (~150 m cells).
const StoragePrecision = 7

func Geohash(p Point) string {
	return geohash.EncodeWithPrecision(p.Lat, p.Lng, StoragePrecision)
}

// SearchPrefixes returns the cell containing p plus its neighbours at a
// precision whose cells are at least radius wide. Matching rows still need an
// exact Haversine check.
func SearchPrefixes(p Point, radiusMeters float64) []string {
	precision := precisionFor(radiusMeters)
	cell := geohash.EncodeWithPrecision(p.Lat, p.Lng, precision)
	return append([]string{cell}, geohash.Neighbors(cell)...)
}

// approximate cell height in meters per geohash length
var cellHeights = []struct {
	precision uint
	meters    float64
}{
	{7, 150},
	{6, 610},
	{5, 4900},
	{4, 19500},
	{3, 156000},
}

func precisionFor(radius float64) uint {
	for _, c := range cellHeights {
		if radius <= c.meters {
			return c.precision
		}
	}
	return 2
}
