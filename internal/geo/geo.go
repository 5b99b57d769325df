// Package geo provides great-circle distance and bounding-box helpers for
// venue search.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusMiles is the mean radius of the earth in statute miles.
const earthRadiusMiles = 3956.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BBox is a latitude/longitude bounding box.
type BBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point falls inside the box.
func (b BBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// DistanceMiles returns the haversine great-circle distance between two
// points in miles.
func DistanceMiles(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lon1 := a.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}

// BoundingBox returns a box that fully contains the circle of radiusMiles
// around center. Near the poles the longitude span degenerates; the box is
// clamped to valid coordinates.
func BoundingBox(center Point, radiusMiles float64) BBox {
	latRange := radiusMiles / 69.0
	cosLat := math.Abs(math.Cos(center.Lat * math.Pi / 180))
	lonRange := 180.0
	if cosLat > 1e-6 {
		lonRange = radiusMiles / (69.0 * cosLat)
	}

	return BBox{
		MinLat: math.Max(center.Lat-latRange, -90),
		MaxLat: math.Min(center.Lat+latRange, 90),
		MinLon: math.Max(center.Lon-lonRange, -180),
		MaxLon: math.Min(center.Lon+lonRange, 180),
	}
}

// WithinRadius reports whether p lies within radiusMiles of center, using
// exact great-circle distance rather than the bounding-box approximation.
func WithinRadius(center, p Point, radiusMiles float64) bool {
	return DistanceMiles(center, p) <= radiusMiles
}

// RoundedKey renders the point at 4 decimal places (~36 feet) so that
// logically identical search requests produce identical cache keys.
func RoundedKey(p Point) string {
	return fmt.Sprintf("%.4f,%.4f", p.Lat, p.Lon)
}

// MilesToMeters converts statute miles to meters for providers that take
// metric radii.
func MilesToMeters(miles float64) int {
	return int(miles * 1609.34)
}
