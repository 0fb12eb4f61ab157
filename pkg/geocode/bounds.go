// Package geocode resolves South Australian suburbs to coordinates through a
// layered chain: persistent cache, Mapbox forward geocoding, curated regional
// fallback, and finally the Adelaide CBD default. Every resolution is cached
// with a provenance tag so repeat batches avoid the network entirely.
package geocode

import "github.com/twpayne/go-geom"

// Adelaide CBD, the default coordinate when every other layer fails.
const (
	AdelaideLat = -34.9285
	AdelaideLng = 138.6007
)

// Bounding boxes are stored as go-geom XY bounds in (lng, lat) axis order.
var (
	// southAustraliaBounds covers the state, used to validate fallback and
	// jittered coordinates.
	southAustraliaBounds = geom.NewBounds(geom.XY).Set(129.0, -38.0, 141.0, -25.0)

	// australiaBounds is the continental gross check applied to provider
	// responses before they are trusted.
	australiaBounds = geom.NewBounds(geom.XY).Set(113.0, -44.0, 154.0, -10.0)
)

func inBounds(b *geom.Bounds, lat, lng float64) bool {
	return b.Min(0) <= lng && lng <= b.Max(0) && b.Min(1) <= lat && lat <= b.Max(1)
}

// InSouthAustralia reports whether a coordinate lies inside the SA bounding box.
func InSouthAustralia(lat, lng float64) bool {
	return inBounds(southAustraliaBounds, lat, lng)
}

// InAustralia reports whether a coordinate lies inside continental Australia.
func InAustralia(lat, lng float64) bool {
	return inBounds(australiaBounds, lat, lng)
}
