package generator

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arbordata/saaddr/internal/model"
	"github.com/arbordata/saaddr/pkg/geocode"
)

// Assemble builds the final address record from a street address, a sampled
// suburb, and resolved coordinates. Coordinates are rounded to six decimal
// places, roughly 10cm of precision.
func Assemble(street string, suburb model.SampledSuburb, lat, lng float64) (model.GeneratedAddress, error) {
	street = strings.TrimSpace(street)
	if street == "" {
		return model.GeneratedAddress{}, eris.New("generator: street address is empty")
	}
	if err := suburb.Validate(); err != nil {
		return model.GeneratedAddress{}, eris.Wrap(err, "generator: invalid suburb")
	}
	if !geocode.InAustralia(lat, lng) {
		zap.L().Warn("assembled coordinates outside Australia",
			zap.String("suburb", suburb.Name),
			zap.Float64("lat", lat), zap.Float64("lng", lng))
	}

	postcode := model.FormatPostcode(suburb.Postcode)
	return model.GeneratedAddress{
		ID:            uuid.NewString(),
		StreetAddress: street,
		Suburb:        suburb.Name,
		State:         "SA",
		Postcode:      postcode,
		Country:       "Australia",
		Latitude:      round6(lat),
		Longitude:     round6(lng),
		Council:       suburb.Council,
		Remoteness:    suburb.Remoteness,
		Tier:          suburb.Tier,
		FullAddress:   fmt.Sprintf("%s, %s SA %s, Australia", street, suburb.Name, postcode),
		AddressType:   model.AddressTypeFor(street),
		RegionType:    model.RegionTypeFor(suburb.Remoteness),
		SampleWeight:  suburb.Weight,
	}, nil
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
