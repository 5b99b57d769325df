package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	boston  = Point{Lat: 42.3601, Lon: -71.0589}
	concord = Point{Lat: 43.2081, Lon: -71.5376}
	nyc     = Point{Lat: 40.7128, Lon: -74.0060}
)

func TestDistanceMiles(t *testing.T) {
	// Boston to NYC is roughly 190 miles.
	d := DistanceMiles(boston, nyc)
	assert.InDelta(t, 190, d, 5)

	// Symmetric.
	assert.InDelta(t, d, DistanceMiles(nyc, boston), 0.0001)

	// Zero distance to self.
	assert.InDelta(t, 0, DistanceMiles(boston, boston), 0.0001)
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	box := BoundingBox(boston, 60)

	assert.True(t, box.Contains(boston))
	assert.True(t, box.Contains(concord), "Concord NH is ~59 miles from Boston")
	assert.False(t, box.Contains(nyc))
}

func TestBoundingBoxClampsAtPoles(t *testing.T) {
	box := BoundingBox(Point{Lat: 89.9, Lon: 0}, 100)
	assert.LessOrEqual(t, box.MaxLat, 90.0)
	assert.GreaterOrEqual(t, box.MinLon, -180.0)
	assert.LessOrEqual(t, box.MaxLon, 180.0)
}

func TestWithinRadius(t *testing.T) {
	assert.True(t, WithinRadius(boston, concord, 65))
	assert.False(t, WithinRadius(boston, concord, 50))
}

func TestRoundedKeyStable(t *testing.T) {
	a := Point{Lat: 42.36012345, Lon: -71.05891111}
	b := Point{Lat: 42.36014999, Lon: -71.05893999}

	// Differences below the rounding precision collapse to one key.
	assert.Equal(t, RoundedKey(a), RoundedKey(b))
	assert.Equal(t, "42.3601,-71.0589", RoundedKey(a))
}

func TestMilesToMeters(t *testing.T) {
	assert.Equal(t, 48280, MilesToMeters(30))
}
