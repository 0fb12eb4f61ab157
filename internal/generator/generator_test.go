package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arbordata/saaddr/internal/cache"
	"github.com/arbordata/saaddr/internal/model"
	"github.com/arbordata/saaddr/internal/population"
	"github.com/arbordata/saaddr/pkg/geocode"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testRecords() []model.SuburbRecord {
	return []model.SuburbRecord{
		{Name: "Adelaide", Postcode: 5000, Council: "City of Adelaide", Remoteness: model.RemotenessMajorCities, Tier: 4},
		{Name: "Glenelg", Postcode: 5045, Council: "Holdfast Bay", Remoteness: model.RemotenessMajorCities, Tier: 5},
		{Name: "Whyalla", Postcode: 5600, Council: "Whyalla", Remoteness: model.RemotenessOuterRegional, Tier: 2},
		{Name: "Coober Pedy", Postcode: 5723, Council: "Coober Pedy", Remoteness: model.RemotenessVeryRemote, Tier: 1},
	}
}

// newTestGenerator builds a full offline stack: file cache in a temp dir,
// fallback-only geocoder, no provider.
func newTestGenerator(t *testing.T, records []model.SuburbRecord) *Generator {
	t.Helper()
	repo, err := cache.NewFile(filepath.Join(t.TempDir(), "coords.json"))
	require.NoError(t, err)
	gc := geocode.New(repo,
		geocode.WithFallback(geocode.NewFallback()))
	return New(population.New(records), gc)
}

func TestGenerateBatch(t *testing.T) {
	g := newTestGenerator(t, testRecords())

	batch, err := g.Generate(context.Background(), Request{
		Count:   25,
		Weights: model.DefaultWeightConfig(),
		Seed:    42,
	})

	require.NoError(t, err)
	assert.Equal(t, 25, batch.Requested)
	assert.Zero(t, batch.Failed)
	require.Len(t, batch.Addresses, 25)

	ids := map[string]bool{}
	for _, a := range batch.Addresses {
		assert.Equal(t, "SA", a.State)
		assert.Equal(t, "Australia", a.Country)
		assert.Len(t, a.Postcode, 4)
		assert.True(t, strings.HasPrefix(a.Postcode, "5"), a.Postcode)
		assert.True(t, geocode.InSouthAustralia(a.Latitude, a.Longitude),
			"%s at (%f, %f)", a.Suburb, a.Latitude, a.Longitude)
		assert.Contains(t, a.FullAddress, a.StreetAddress)
		assert.Contains(t, a.FullAddress, a.Suburb+" SA "+a.Postcode)
		assert.False(t, ids[a.ID], "duplicate id %s", a.ID)
		ids[a.ID] = true
	}

	totals := g.Totals()
	assert.Equal(t, 1, totals.Batches)
	assert.Equal(t, 25, totals.Requested)
	assert.Equal(t, 25, totals.Generated)
}

func TestGenerateDeterministicUnderSeed(t *testing.T) {
	// Two fresh stacks with empty caches: the request seed alone must
	// reproduce streets, suburbs, and coordinates.
	run := func() []string {
		g := newTestGenerator(t, testRecords())
		batch, err := g.Generate(context.Background(), Request{
			Count:   20,
			Weights: model.DefaultWeightConfig(),
			Seed:    42,
		})
		require.NoError(t, err)
		out := make([]string, len(batch.Addresses))
		for i, a := range batch.Addresses {
			out[i] = fmt.Sprintf("%s %.6f %.6f", a.FullAddress, a.Latitude, a.Longitude)
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestGenerateSingleSuburb(t *testing.T) {
	g := newTestGenerator(t, []model.SuburbRecord{
		{Name: "Adelaide", Postcode: 5000, Council: "City of Adelaide", Remoteness: model.RemotenessMajorCities, Tier: 4},
	})

	batch, err := g.Generate(context.Background(), Request{
		Count:   10,
		Weights: model.DefaultWeightConfig(),
		Seed:    42,
	})

	require.NoError(t, err)
	require.Len(t, batch.Addresses, 10)
	for _, a := range batch.Addresses {
		assert.Equal(t, "Adelaide", a.Suburb)
		assert.Equal(t, "5000", a.Postcode)
		assert.Equal(t, model.RegionUrban, a.RegionType)

		// Fallback anchor within 1km of the CBD plus up to 1.5km jitter.
		latKm := (a.Latitude - geocode.AdelaideLat) * 111.0
		lngKm := (a.Longitude - geocode.AdelaideLng) * 111.0 * math.Cos(geocode.AdelaideLat*math.Pi/180)
		assert.LessOrEqual(t, math.Hypot(latKm, lngKm), 2.6)
	}
}

func TestGenerateNonPositiveCountYieldsEmptyBatch(t *testing.T) {
	g := newTestGenerator(t, testRecords())

	for _, count := range []int{0, -3} {
		batch, err := g.Generate(context.Background(), Request{Count: count, Weights: model.DefaultWeightConfig()})
		require.NoError(t, err)
		assert.Empty(t, batch.Addresses)
		assert.Zero(t, batch.Failed)
	}
}

func TestGenerateRejectsInvalidWeights(t *testing.T) {
	g := newTestGenerator(t, testRecords())

	bad := model.WeightConfig{
		Remoteness: map[model.RemotenessClass]float64{model.RemotenessMajorCities: -1},
		Tier:       map[int]float64{4: 1},
	}
	_, err := g.Generate(context.Background(), Request{Count: 5, Weights: bad})
	require.Error(t, err)
}

func TestGenerateNoMatchingSuburbs(t *testing.T) {
	g := newTestGenerator(t, testRecords())

	// Valid weights that no population record satisfies.
	disjoint := model.WeightConfig{
		Remoteness: map[model.RemotenessClass]float64{model.RemotenessInnerRegional: 1},
		Tier:       map[int]float64{3: 1},
	}
	_, err := g.Generate(context.Background(), Request{Count: 5, Weights: disjoint})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no suburb matches")
}

func TestGenerateCountsPerAddressFailures(t *testing.T) {
	// A zero postcode slips past sampling but fails coordinate resolution.
	records := append(testRecords(), model.SuburbRecord{
		Name: "Broken", Postcode: 0, Council: "X", Remoteness: model.RemotenessMajorCities, Tier: 4,
	})
	g := newTestGenerator(t, records)

	batch, err := g.Generate(context.Background(), Request{
		Count:   200,
		Weights: model.DefaultWeightConfig(),
		Seed:    42,
	})

	require.NoError(t, err)
	assert.Greater(t, batch.Failed, 0)
	assert.Equal(t, 200, batch.Failed+len(batch.Addresses))
}

func TestStreetGeneratorNumberRanges(t *testing.T) {
	s := NewStreetGenerator()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		addr := s.Generate(rng, model.AreaRural)
		num, err := strconv.Atoi(strings.Fields(addr)[0])
		require.NoError(t, err, addr)
		assert.GreaterOrEqual(t, num, 1)
		assert.LessOrEqual(t, num, 200)
	}
}

func TestStreetGeneratorUnitFormats(t *testing.T) {
	s := NewStreetGenerator()
	rng := rand.New(rand.NewSource(7))
	unitRe := regexp.MustCompile(`^Unit \d+/\d+ .+`)
	flatRe := regexp.MustCompile(`^\d+/\d+ .+`)

	var urbanUnits, suburbanUnits int
	for i := 0; i < 1000; i++ {
		if unitRe.MatchString(s.Generate(rng, model.AreaUrban)) {
			urbanUnits++
		}
		if flatRe.MatchString(s.Generate(rng, model.AreaSuburban)) {
			suburbanUnits++
		}
	}

	// Around 30% and 10% respectively.
	assert.InDelta(t, 300, urbanUnits, 75)
	assert.InDelta(t, 100, suburbanUnits, 50)
}

func TestStreetGeneratorCustomNames(t *testing.T) {
	s := NewStreetGenerator("Only Road")
	rng := rand.New(rand.NewSource(3))

	addr := s.Generate(rng, model.AreaRural)
	assert.True(t, strings.HasSuffix(addr, "Only Road"), addr)
	assert.Equal(t, []string{"Only Road"}, s.Names())
}

func TestAssemble(t *testing.T) {
	suburb := model.SampledSuburb{
		SuburbRecord: model.SuburbRecord{
			Name: "Glenelg", Postcode: 5045, Council: "Holdfast Bay",
			Remoteness: model.RemotenessMajorCities, Tier: 5,
		},
		Weight: 0.125,
	}

	addr, err := Assemble("Unit 3/12 Jetty Road", suburb, -34.98041234567, 138.51181234567)
	require.NoError(t, err)

	assert.NotEmpty(t, addr.ID)
	assert.Equal(t, "Unit 3/12 Jetty Road, Glenelg SA 5045, Australia", addr.FullAddress)
	assert.Equal(t, -34.980412, addr.Latitude)
	assert.Equal(t, 138.511812, addr.Longitude)
	assert.Equal(t, model.AddressUnit, addr.AddressType)
	assert.Equal(t, model.RegionUrban, addr.RegionType)
	assert.Equal(t, 0.125, addr.SampleWeight)
}

func TestAssembleRejectsEmptyStreet(t *testing.T) {
	suburb := model.SampledSuburb{SuburbRecord: testRecords()[0], Weight: 1}

	_, err := Assemble("   ", suburb, -34.9, 138.6)
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	addresses := []model.GeneratedAddress{
		{Suburb: "Adelaide", Postcode: "5000", Council: "City of Adelaide", Remoteness: model.RemotenessMajorCities, Tier: 4, AddressType: "house", RegionType: "urban", Latitude: -34.92, Longitude: 138.60},
		{Suburb: "Adelaide", Postcode: "5000", Council: "City of Adelaide", Remoteness: model.RemotenessMajorCities, Tier: 4, AddressType: "unit", RegionType: "urban", Latitude: -34.93, Longitude: 138.61},
		{Suburb: "Whyalla", Postcode: "5600", Council: "Whyalla", Remoteness: model.RemotenessOuterRegional, Tier: 2, AddressType: "house", RegionType: "rural", Latitude: -33.03, Longitude: 137.58},
	}

	s := Summarize(addresses)

	assert.Equal(t, 3, s.TotalAddresses)
	assert.Equal(t, 2, s.UniqueSuburbs)
	assert.Equal(t, 2, s.UniquePostcodes)
	assert.Equal(t, 2, s.AddressTypes["house"])
	assert.Equal(t, 1, s.AddressTypes["unit"])
	assert.Equal(t, 2, s.RegionTypes["urban"])
	require.NotNil(t, s.Bounds)
	assert.Equal(t, -34.93, s.Bounds.MinLat)
	assert.Equal(t, 138.61, s.Bounds.MaxLng)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalAddresses)
	assert.Nil(t, s.Bounds)
}
