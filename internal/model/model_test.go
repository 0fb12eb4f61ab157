package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() SuburbRecord {
	return SuburbRecord{
		Name:       "ADELAIDE",
		Postcode:   5000,
		Council:    "CITY OF ADELAIDE",
		Remoteness: RemotenessMajorCities,
		Tier:       4,
	}
}

func TestSuburbRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SuburbRecord)
		wantErr string
	}{
		{name: "valid", mutate: func(*SuburbRecord) {}},
		{name: "missing name", mutate: func(r *SuburbRecord) { r.Name = "  " }, wantErr: "name is required"},
		{name: "postcode too low", mutate: func(r *SuburbRecord) { r.Postcode = 4999 }, wantErr: "outside SA range"},
		{name: "postcode too high", mutate: func(r *SuburbRecord) { r.Postcode = 6000 }, wantErr: "outside SA range"},
		{name: "missing council", mutate: func(r *SuburbRecord) { r.Council = "" }, wantErr: "council is required"},
		{name: "unknown remoteness", mutate: func(r *SuburbRecord) { r.Remoteness = "Suburbia" }, wantErr: "unknown remoteness"},
		{name: "tier too high", mutate: func(r *SuburbRecord) { r.Tier = 6 }, wantErr: "outside range"},
		{name: "tier negative", mutate: func(r *SuburbRecord) { r.Tier = -1 }, wantErr: "outside range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestWeightConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     WeightConfig
		wantErr string
	}{
		{name: "default is valid", cfg: DefaultWeightConfig()},
		{
			name:    "empty remoteness map",
			cfg:     WeightConfig{Tier: map[int]float64{3: 1}},
			wantErr: "remoteness map is empty",
		},
		{
			name:    "empty tier map",
			cfg:     WeightConfig{Remoteness: map[RemotenessClass]float64{RemotenessMajorCities: 1}},
			wantErr: "tier map is empty",
		},
		{
			name: "negative remoteness weight",
			cfg: WeightConfig{
				Remoteness: map[RemotenessClass]float64{RemotenessMajorCities: -0.5},
				Tier:       map[int]float64{3: 1},
			},
			wantErr: "negative remoteness weight",
		},
		{
			name: "all remoteness weights zero",
			cfg: WeightConfig{
				Remoteness: map[RemotenessClass]float64{RemotenessMajorCities: 0, RemotenessRemote: 0},
				Tier:       map[int]float64{3: 1},
			},
			wantErr: "at least one remoteness weight",
		},
		{
			name: "all tier weights zero",
			cfg: WeightConfig{
				Remoteness: map[RemotenessClass]float64{RemotenessMajorCities: 1},
				Tier:       map[int]float64{0: 0, 5: 0},
			},
			wantErr: "at least one tier weight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestJointWeight(t *testing.T) {
	cfg := WeightConfig{
		Remoteness: map[RemotenessClass]float64{RemotenessMajorCities: 0.5},
		Tier:       map[int]float64{4: 0.4},
	}

	r := validRecord()
	assert.InDelta(t, 0.2, cfg.JointWeight(r), 1e-12)

	// Missing keys map to zero, not an error.
	r.Remoteness = RemotenessVeryRemote
	assert.Zero(t, cfg.JointWeight(r))
	r = validRecord()
	r.Tier = 1
	assert.Zero(t, cfg.JointWeight(r))
}

func TestAreaAndRegionTypes(t *testing.T) {
	assert.Equal(t, AreaUrban, AreaTypeFor(RemotenessMajorCities))
	assert.Equal(t, AreaSuburban, AreaTypeFor(RemotenessInnerRegional))
	assert.Equal(t, AreaSuburban, AreaTypeFor(RemotenessOuterRegional))
	assert.Equal(t, AreaRural, AreaTypeFor(RemotenessRemote))
	assert.Equal(t, AreaRural, AreaTypeFor(RemotenessVeryRemote))
	assert.Equal(t, AreaSuburban, AreaTypeFor(RemotenessNotApplicable))

	assert.Equal(t, RegionUrban, RegionTypeFor(RemotenessMajorCities))
	assert.Equal(t, RegionRegional, RegionTypeFor(RemotenessInnerRegional))
	assert.Equal(t, RegionRural, RegionTypeFor(RemotenessOuterRegional))
	assert.Equal(t, RegionRemote, RegionTypeFor(RemotenessVeryRemote))
	assert.Equal(t, RegionUnknown, RegionTypeFor(RemotenessNotApplicable))
}

func TestAddressTypeFor(t *testing.T) {
	assert.Equal(t, AddressUnit, AddressTypeFor("Unit 3/12 King Street"))
	assert.Equal(t, AddressUnit, AddressTypeFor("2/45 Main Street"))
	assert.Equal(t, AddressCommercial, AddressTypeFor("Shop 4 Rundle Mall"))
	assert.Equal(t, AddressHouse, AddressTypeFor("12 King Street"))
}

func TestFormatPostcode(t *testing.T) {
	assert.Equal(t, "5000", FormatPostcode(5000))
	assert.Equal(t, "0800", FormatPostcode(800))
}

func TestWeightConfigMerge(t *testing.T) {
	base := DefaultWeightConfig()
	override := WeightConfig{Tier: map[int]float64{5: 1}}

	merged := base.Merge(override)
	assert.Equal(t, base.Remoteness, merged.Remoteness)
	assert.Equal(t, map[int]float64{5: 1}, merged.Tier)
}
