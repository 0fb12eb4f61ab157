// Package model defines the domain types shared across the address generator:
// suburb population records, weight configuration, and assembled addresses.
package model

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// RemotenessClass is the ABS remoteness structure classification of a suburb.
type RemotenessClass string

const (
	RemotenessMajorCities   RemotenessClass = "Major Cities of Australia"
	RemotenessInnerRegional RemotenessClass = "Inner Regional Australia"
	RemotenessOuterRegional RemotenessClass = "Outer Regional Australia"
	RemotenessRemote        RemotenessClass = "Remote Australia"
	RemotenessVeryRemote    RemotenessClass = "Very Remote Australia"

	// RemotenessNotApplicable marks non-residential localities. Records carrying
	// it never enter the sampling population.
	RemotenessNotApplicable RemotenessClass = "Not Applicable"
)

// ValidRemotenessClasses is the closed set of accepted classifications.
var ValidRemotenessClasses = map[RemotenessClass]bool{
	RemotenessMajorCities:   true,
	RemotenessInnerRegional: true,
	RemotenessOuterRegional: true,
	RemotenessRemote:        true,
	RemotenessVeryRemote:    true,
	RemotenessNotApplicable: true,
}

// SA postcode validity range.
const (
	MinPostcode = 5000
	MaxPostcode = 5999
)

// Socio-economic tier validity range (SEIFA-derived, 0 = lowest).
const (
	MinTier = 0
	MaxTier = 5
)

// SuburbRecord is one row of the cleaned suburb population. Records are
// materialized once at load time and immutable for the generation session.
type SuburbRecord struct {
	Name       string          `json:"name"`
	Postcode   int             `json:"postcode"`
	Council    string          `json:"council"`
	Remoteness RemotenessClass `json:"remoteness"`
	Tier       int             `json:"tier"`
}

// Validate reports whether the record satisfies the population invariants.
func (r SuburbRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return eris.New("suburb record: name is required")
	}
	if r.Postcode < MinPostcode || r.Postcode > MaxPostcode {
		return eris.Errorf("suburb record %s: postcode %d outside SA range %d-%d", r.Name, r.Postcode, MinPostcode, MaxPostcode)
	}
	if strings.TrimSpace(r.Council) == "" {
		return eris.Errorf("suburb record %s: council is required", r.Name)
	}
	if !ValidRemotenessClasses[r.Remoteness] {
		return eris.Errorf("suburb record %s: unknown remoteness class %q", r.Name, r.Remoteness)
	}
	if r.Tier < MinTier || r.Tier > MaxTier {
		return eris.Errorf("suburb record %s: tier %d outside range %d-%d", r.Name, r.Tier, MinTier, MaxTier)
	}
	return nil
}

// SampledSuburb is the output of one weighted sampling draw: the suburb
// identity plus the joint weight it was drawn with.
type SampledSuburb struct {
	SuburbRecord
	Weight float64 `json:"weight"`
}

// AreaType drives street-address style (number ranges, unit probability).
type AreaType string

const (
	AreaUrban    AreaType = "urban"
	AreaSuburban AreaType = "suburban"
	AreaRural    AreaType = "rural"
)

// AreaTypeFor maps a remoteness class to the street-address area type.
func AreaTypeFor(rc RemotenessClass) AreaType {
	switch rc {
	case RemotenessMajorCities:
		return AreaUrban
	case RemotenessInnerRegional, RemotenessOuterRegional:
		return AreaSuburban
	case RemotenessRemote, RemotenessVeryRemote:
		return AreaRural
	default:
		return AreaSuburban
	}
}

// RegionType is the simplified region tag attached to assembled addresses.
type RegionType string

const (
	RegionUrban    RegionType = "urban"
	RegionRegional RegionType = "regional"
	RegionRural    RegionType = "rural"
	RegionRemote   RegionType = "remote"
	RegionUnknown  RegionType = "unknown"
)

// RegionTypeFor maps a remoteness class to the simplified region tag.
func RegionTypeFor(rc RemotenessClass) RegionType {
	switch rc {
	case RemotenessMajorCities:
		return RegionUrban
	case RemotenessInnerRegional:
		return RegionRegional
	case RemotenessOuterRegional:
		return RegionRural
	case RemotenessRemote, RemotenessVeryRemote:
		return RegionRemote
	default:
		return RegionUnknown
	}
}

// FormatPostcode renders a postcode as the canonical 4-digit string.
func FormatPostcode(postcode int) string {
	return fmt.Sprintf("%04d", postcode)
}
