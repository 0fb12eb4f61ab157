package model

import "strings"

// AddressType classifies the dwelling style of a street address.
type AddressType string

const (
	AddressHouse      AddressType = "house"
	AddressUnit       AddressType = "unit"
	AddressCommercial AddressType = "commercial"
)

// AddressTypeFor infers the address type from the street string format.
func AddressTypeFor(street string) AddressType {
	lower := strings.ToLower(street)
	switch {
	case strings.Contains(lower, "unit") || strings.Contains(lower, "apartment") || strings.Contains(lower, "apt"):
		return AddressUnit
	case strings.Contains(street, "/") && !strings.HasPrefix(street, "/"):
		// "2/45 Main Street" style unit/house numbering.
		return AddressUnit
	case strings.Contains(lower, "shop") || strings.Contains(lower, "suite") ||
		strings.Contains(lower, "level") || strings.Contains(lower, "floor"):
		return AddressCommercial
	default:
		return AddressHouse
	}
}

// GeneratedAddress is one fully assembled synthetic address. Immutable after
// assembly; failed draws are dropped and counted, never retried.
type GeneratedAddress struct {
	ID            string          `json:"id"`
	StreetAddress string          `json:"street_address"`
	Suburb        string          `json:"suburb"`
	State         string          `json:"state"`
	Postcode      string          `json:"postcode"`
	Country       string          `json:"country"`
	Latitude      float64         `json:"latitude"`
	Longitude     float64         `json:"longitude"`
	Council       string          `json:"council"`
	Remoteness    RemotenessClass `json:"remoteness"`
	Tier          int             `json:"tier"`
	FullAddress   string          `json:"full_address"`
	AddressType   AddressType     `json:"address_type"`
	RegionType    RegionType      `json:"region_type"`
	SampleWeight  float64         `json:"sampling_weight"`
}
