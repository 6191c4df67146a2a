// Package geo holds the distance helpers used on apartment listings.
package geo

import (
	"fmt"
	"math"
	"strings"
)

const earthRadiusMeters = 6371000.0

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Coastline approximates the Nha Trang beach line from Hon Chong down to the
// southern bay, north to south.
var Coastline = []Point{
	{12.2745, 109.2045},
	{12.2640, 109.2005},
	{12.2525, 109.1985},
	{12.2410, 109.1980},
	{12.2305, 109.1990},
	{12.2195, 109.2030},
	{12.2090, 109.2085},
	{12.1975, 109.2150},
	{12.1850, 109.2190},
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	if h > 1 {
		h = 1
	}
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// DistanceToLine returns the shortest distance in meters from p to the polyline.
// Segments are projected on a local equirectangular plane, which is accurate
// enough over a few kilometres.
func DistanceToLine(p Point, line []Point) float64 {
	switch len(line) {
	case 0:
		return math.Inf(1)
	case 1:
		return Haversine(p, line[0])
	}

	best := math.Inf(1)
	for i := 0; i+1 < len(line); i++ {
		if d := Haversine(p, closestOnSegment(p, line[i], line[i+1])); d < best {
			best = d
		}
	}
	return best
}

// DistanceToCoast is DistanceToLine against Coastline.
func DistanceToCoast(p Point) float64 {
	return DistanceToLine(p, Coastline)
}

func closestOnSegment(p, a, b Point) Point {
	k := math.Cos(toRad(p.Lat))
	ax, ay := a.Lng*k, a.Lat
	bx, by := b.Lng*k, b.Lat
	px, py := p.Lng*k, p.Lat

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return Point{Lat: a.Lat + t*(b.Lat-a.Lat), Lng: a.Lng + t*(b.Lng-a.Lng)}
}

// FormatDistance renders meters for the given locale: whole meters below 1 km,
// kilometres with one decimal above.
func FormatDistance(meters float64, locale string) string {
	mUnit, kmUnit, sep := "m", "km", "."
	switch locale {
	case "ru":
		mUnit, kmUnit, sep = "м", "км", ","
	case "vi":
		sep = ","
	}

	m := math.Round(meters)
	if m < 1000 {
		return fmt.Sprintf("%d %s", int(m), mUnit)
	}
	km := fmt.Sprintf("%.1f", m/1000)
	return strings.Replace(km, ".", sep, 1) + " " + kmUnit
}
