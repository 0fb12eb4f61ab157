package generator

import "github.com/arbordata/saaddr/internal/model"

// CoordinateBounds is the envelope of a batch's coordinates.
type CoordinateBounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// Summary describes the composition of a generated batch.
type Summary struct {
	TotalAddresses  int               `json:"total_addresses"`
	UniqueSuburbs   int               `json:"unique_suburbs"`
	UniquePostcodes int               `json:"unique_postcodes"`
	AddressTypes    map[string]int    `json:"address_type_distribution"`
	RegionTypes     map[string]int    `json:"region_type_distribution"`
	Councils        map[string]int    `json:"council_distribution"`
	Remoteness      map[string]int    `json:"remoteness_distribution"`
	Tiers           map[int]int       `json:"tier_distribution"`
	Bounds          *CoordinateBounds `json:"coordinate_bounds,omitempty"`
}

// Summarize computes distribution statistics over generated addresses.
func Summarize(addresses []model.GeneratedAddress) Summary {
	s := Summary{
		TotalAddresses: len(addresses),
		AddressTypes:   map[string]int{},
		RegionTypes:    map[string]int{},
		Councils:       map[string]int{},
		Remoteness:     map[string]int{},
		Tiers:          map[int]int{},
	}
	if len(addresses) == 0 {
		return s
	}

	suburbs := map[string]bool{}
	postcodes := map[string]bool{}
	bounds := CoordinateBounds{
		MinLat: addresses[0].Latitude, MaxLat: addresses[0].Latitude,
		MinLng: addresses[0].Longitude, MaxLng: addresses[0].Longitude,
	}

	for _, a := range addresses {
		s.AddressTypes[string(a.AddressType)]++
		s.RegionTypes[string(a.RegionType)]++
		s.Councils[a.Council]++
		s.Remoteness[string(a.Remoteness)]++
		s.Tiers[a.Tier]++
		suburbs[a.Suburb] = true
		postcodes[a.Postcode] = true

		if a.Latitude < bounds.MinLat {
			bounds.MinLat = a.Latitude
		}
		if a.Latitude > bounds.MaxLat {
			bounds.MaxLat = a.Latitude
		}
		if a.Longitude < bounds.MinLng {
			bounds.MinLng = a.Longitude
		}
		if a.Longitude > bounds.MaxLng {
			bounds.MaxLng = a.Longitude
		}
	}

	s.UniqueSuburbs = len(suburbs)
	s.UniquePostcodes = len(postcodes)
	s.Bounds = &bounds
	return s
}
