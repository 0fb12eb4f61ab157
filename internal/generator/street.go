// Package generator produces synthetic SA address batches: it samples
// suburbs by weight, invents street addresses sized to the area, resolves
// and jitters coordinates, and assembles the final records.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/arbordata/saaddr/internal/model"
)

// defaultStreetNames covers common Australian street names plus Adelaide
// CBD and SA arterials.
var defaultStreetNames = []string{
	"Main Street", "High Street", "King Street", "Queen Street", "Church Street",
	"Victoria Street", "George Street", "Elizabeth Street", "Smith Street", "Jones Street",
	"Brown Street", "Wilson Street", "Taylor Street", "Johnson Street", "Williams Street",
	"Adelaide Road", "Melbourne Road", "Sydney Road", "Brisbane Road", "Perth Road",
	"North Road", "South Road", "East Road", "West Road", "Central Avenue",

	"Torrens Road", "Gawler Street", "Flinders Street", "Hindley Street", "Rundle Street",
	"Pulteney Street", "Morphett Street", "Light Street", "Waymouth Street", "Grenfell Street",
	"Currie Street", "Franklin Street", "Gouger Street", "Wright Street", "Hutt Street",
	"Glen Osmond Road", "Magill Road", "Portrush Road", "Anzac Highway", "Brighton Road",

	"Park Avenue", "Mill Road", "Hill Drive", "Valley Road", "Creek Road",
	"Ridge Drive", "Garden Street", "Forest Road", "Lake Drive", "River Road",
	"Station Road", "School Street", "Hospital Road", "Police Road", "Post Office Road",

	"Oak Street", "Pine Road", "Maple Avenue", "Cedar Close", "Birch Street",
	"Rose Street", "Lily Avenue", "Jasmine Close", "Violet Street", "Daisy Road",
	"First Street", "Second Street", "Third Street", "Fourth Street", "Fifth Street",

	"Norwood Avenue", "Burnside Road", "Unley Road", "Prospect Road", "Marion Road",
	"Glenelg Road", "Henley Beach Road", "Port Road", "Salisbury Road",
}

// numberRanges bounds street numbers per area type.
var numberRanges = map[model.AreaType][2]int{
	model.AreaUrban:    {1, 999},
	model.AreaSuburban: {1, 500},
	model.AreaRural:    {1, 200},
}

// Unit prefix probabilities per area type.
const (
	urbanUnitChance    = 0.30
	suburbanUnitChance = 0.10
)

// StreetGenerator invents street addresses from a name pool.
type StreetGenerator struct {
	names []string
}

// NewStreetGenerator returns a generator over the default street name pool,
// or over custom names when given.
func NewStreetGenerator(custom ...string) *StreetGenerator {
	names := defaultStreetNames
	if len(custom) > 0 {
		names = custom
	}
	return &StreetGenerator{names: names}
}

// Generate draws one street address for the area type. Urban addresses get
// a "Unit n/..." prefix 30% of the time, suburban a bare "n/..." prefix 10%
// of the time.
func (s *StreetGenerator) Generate(rng *rand.Rand, area model.AreaType) string {
	bounds, ok := numberRanges[area]
	if !ok {
		bounds = numberRanges[model.AreaSuburban]
	}

	number := bounds[0] + rng.Intn(bounds[1]-bounds[0]+1)
	name := s.names[rng.Intn(len(s.names))]

	switch {
	case area == model.AreaUrban && rng.Float64() < urbanUnitChance:
		return fmt.Sprintf("Unit %d/%d %s", 1+rng.Intn(20), number, name)
	case area == model.AreaSuburban && rng.Float64() < suburbanUnitChance:
		return fmt.Sprintf("%d/%d %s", 1+rng.Intn(10), number, name)
	default:
		return fmt.Sprintf("%d %s", number, name)
	}
}

// Names returns the street name pool.
func (s *StreetGenerator) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
