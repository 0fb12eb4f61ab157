package geocode

import (
	"math"
	"math/rand"
)

// kmPerDegree approximates one degree of latitude.
const kmPerDegree = 111.0

// maxJitterAttempts caps the halving retry loop when a jittered point lands
// outside the SA bounding box.
const maxJitterAttempts = 5

// Jitter displaces (lat, lng) to a uniformly distributed point within
// radiusKm. If the displaced point falls outside South Australia the radius
// is halved and the draw retried; after maxJitterAttempts the base
// coordinate is returned unchanged rather than the last rejected draw, so
// the result never leaves the state when the base itself is inside it.
func Jitter(rng *rand.Rand, lat, lng, radiusKm float64) (float64, float64) {
	if radiusKm <= 0 {
		return lat, lng
	}

	for attempt := 0; attempt < maxJitterAttempts; attempt++ {
		jLat, jLng := offsetWithin(rng, lat, lng, radiusKm)
		if InSouthAustralia(jLat, jLng) {
			return jLat, jLng
		}
		radiusKm *= 0.5
	}
	return lat, lng
}

// offsetWithin draws one uniform point inside the disk of radiusKm around
// the base coordinate. The sqrt keeps density uniform over area; the
// longitude offset is scaled by cos(lat) to correct for meridian
// convergence.
func offsetWithin(rng *rand.Rand, lat, lng, radiusKm float64) (float64, float64) {
	radiusDeg := radiusKm / kmPerDegree
	angle := rng.Float64() * 2 * math.Pi
	distance := radiusDeg * math.Sqrt(rng.Float64())

	jLat := lat + distance*math.Cos(angle)
	jLng := lng + distance*math.Sin(angle)/math.Cos(lat*math.Pi/180)
	return jLat, jLng
}
