package geocode

import (
	"math/rand"
	"strings"

	"go.uber.org/zap"
)

// regionCoordinates holds approximate centre points for known SA localities.
var regionCoordinates = map[string][2]float64{
	// Adelaide metropolitan area
	"ADELAIDE":       {-34.9285, 138.6007},
	"NORTH ADELAIDE": {-34.9086, 138.5943},
	"GLENELG":        {-34.9804, 138.5118},
	"PORT ADELAIDE":  {-34.8475, 138.5057},
	"MARION":         {-35.0189, 138.5431},
	"BURNSIDE":       {-34.9436, 138.6394},
	"UNLEY":          {-34.9495, 138.6060},
	"NORWOOD":        {-34.9208, 138.6312},
	"PROSPECT":       {-34.8850, 138.5950},
	"CAMPBELLTOWN":   {-34.8847, 138.6775},
	"TEA TREE GULLY": {-34.8192, 138.7058},
	"SALISBURY":      {-34.7677, 138.6422},
	"ONKAPARINGA":    {-35.1333, 138.5167},
	"CHARLES STURT":  {-34.9000, 138.5333},
	"WEST TORRENS":   {-34.9500, 138.5667},

	// Regional centres
	"WHYALLA":       {-33.0333, 137.5833},
	"PORT AUGUSTA":  {-32.4942, 137.7647},
	"PORT LINCOLN":  {-34.7282, 135.8735},
	"MOUNT GAMBIER": {-37.8285, 140.7832},
	"MURRAY BRIDGE": {-35.1197, 139.2756},
	"VICTOR HARBOR": {-35.5522, 138.6219},
	"KADINA":        {-33.9630, 137.7147},
	"CLARE":         {-33.8319, 138.6089},
	"RENMARK":       {-34.1761, 140.7475},
	"LOXTON":        {-34.4483, 140.5703},
	"BERRI":         {-34.2833, 140.6000},
	"GAWLER":        {-34.6000, 138.7500},
	"BAROSSA":       {-34.5000, 138.9000},
	"NARACOORTE":    {-36.9667, 140.7333},

	// Smaller towns
	"COOBER PEDY": {-29.0167, 134.7667},
	"ROXBY DOWNS": {-30.5667, 136.8833},
	"PORT PIRIE":  {-33.1833, 138.0167},
	"WALLAROO":    {-33.9333, 137.6333},
	"MOONTA":      {-34.0667, 137.6000},
	"WUDINNA":     {-33.0500, 135.4500},
	"STREAKY BAY": {-32.8000, 134.2000},
	"CEDUNA":      {-32.1333, 133.6833},
	"KINGSCOTE":   {-35.6500, 137.6500},
	"PENNESHAW":   {-35.7167, 137.9500},
}

// Fallback estimates coordinates for SA suburbs without any network access:
// exact name match, then word-overlap match, then postcode-range centroids.
// Each estimate carries a small random offset so repeated suburbs do not
// collapse onto identical points. Offsets are drawn from the caller's random
// source so seeded batches stay reproducible.
type Fallback struct{}

// NewFallback creates a fallback estimator.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Name identifies the layer in cache provenance tags.
func (f *Fallback) Name() string { return "fallback" }

// Coordinates estimates a coordinate for the suburb, drawing the offset from
// rng. It always succeeds and always returns a point within South Australia.
func (f *Fallback) Coordinates(rng *rand.Rand, suburb string, postcode int) (float64, float64) {
	name := strings.ToUpper(strings.TrimSpace(suburb))

	if c, ok := regionCoordinates[name]; ok {
		return f.offset(rng, c[0], c[1], 1.0)
	}

	for known, c := range regionCoordinates {
		if strings.Contains(name, known) || strings.Contains(known, name) || sharesSignificantWord(name, known) {
			zap.L().Debug("fallback partial match",
				zap.String("suburb", name), zap.String("matched", known))
			return f.offset(rng, c[0], c[1], 2.0)
		}
	}

	lat, lng := postcodeCentroid(postcode)
	return f.offset(rng, lat, lng, 3.0)
}

// sharesSignificantWord reports whether two suburb names share a word longer
// than two characters.
func sharesSignificantWord(a, b string) bool {
	words := map[string]bool{}
	for _, w := range strings.Fields(a) {
		if len(w) > 2 {
			words[w] = true
		}
	}
	for _, w := range strings.Fields(b) {
		if len(w) > 2 && words[w] {
			return true
		}
	}
	return false
}

// postcodeCentroid maps SA postcode ranges to approximate regional centres.
func postcodeCentroid(postcode int) (float64, float64) {
	switch {
	case postcode >= 5000 && postcode <= 5199: // Adelaide metro
		return -34.9285, 138.6007
	case postcode >= 5200 && postcode <= 5299: // Adelaide Hills
		return -34.9800, 138.7500
	case postcode >= 5300 && postcode <= 5399: // Barossa / Mid North
		return -34.5000, 138.8000
	case postcode >= 5400 && postcode <= 5499: // Riverland
		return -34.1761, 140.7475
	case postcode >= 5500 && postcode <= 5599: // Yorke Peninsula
		return -34.0000, 137.5000
	case postcode >= 5600 && postcode <= 5699: // Whyalla / Iron Triangle
		return -33.0333, 137.5833
	case postcode >= 5700 && postcode <= 5799: // Port Augusta / Far North
		return -32.4942, 137.7647
	case postcode >= 5800 && postcode <= 5899: // West Coast
		return -34.7282, 135.8735
	case postcode >= 5900: // Far West / Remote
		return -32.0000, 135.0000
	default:
		return AdelaideLat, AdelaideLng
	}
}

// offset displaces the base point by up to maxKm, halving the radius when a
// draw lands outside SA. Falls back to the base point after repeated misses.
func (f *Fallback) offset(rng *rand.Rand, lat, lng, maxKm float64) (float64, float64) {
	for attempt := 0; attempt < maxJitterAttempts; attempt++ {
		radiusKm := rng.Float64() * maxKm
		oLat, oLng := offsetWithin(rng, lat, lng, radiusKm)
		if InSouthAustralia(oLat, oLng) {
			return oLat, oLng
		}
		maxKm *= 0.5
	}
	return lat, lng
}

// Regions returns the number of curated locality centre points.
func Regions() int { return len(regionCoordinates) }
