package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbordata/saaddr/internal/generator"
	"github.com/arbordata/saaddr/internal/model"
)

func sampleAddresses() []model.GeneratedAddress {
	return []model.GeneratedAddress{
		{
			ID: "a1", StreetAddress: "12 Rundle Street", Suburb: "Adelaide",
			State: "SA", Postcode: "5000", Country: "Australia",
			Latitude: -34.928512, Longitude: 138.600712,
			Council: "City of Adelaide", Remoteness: model.RemotenessMajorCities,
			Tier: 4, FullAddress: "12 Rundle Street, Adelaide SA 5000, Australia",
			AddressType: "house", RegionType: "urban", SampleWeight: 0.1,
		},
		{
			ID: "a2", StreetAddress: "Unit 2/8 Jetty Road", Suburb: "Glenelg",
			State: "SA", Postcode: "5045", Country: "Australia",
			Latitude: -34.980412, Longitude: 138.511812,
			Council: "Holdfast Bay", Remoteness: model.RemotenessMajorCities,
			Tier: 5, FullAddress: "Unit 2/8 Jetty Road, Glenelg SA 5045, Australia",
			AddressType: "unit", RegionType: "urban", SampleWeight: 0.05,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"csv", "json", "table"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleAddresses()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvColumns, rows[0])
	assert.Equal(t, "12 Rundle Street", rows[1][1])
	assert.Equal(t, "-34.928512", rows[1][6])
	assert.Equal(t, "5045", rows[2][4])
	assert.Equal(t, "Major Cities of Australia", rows[1][9])
	assert.Equal(t, "unit", rows[2][12])
	assert.Equal(t, "urban", rows[2][13])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleAddresses()))

	var decoded []model.GeneratedAddress
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Glenelg", decoded[1].Suburb)
	assert.InDelta(t, -34.980412, decoded[1].Latitude, 1e-9)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, sampleAddresses()))

	out := buf.String()
	assert.Contains(t, out, "SUBURB")
	assert.Contains(t, out, "Adelaide")
	assert.Contains(t, out, "5045")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	batch := &generator.Batch{
		Addresses: sampleAddresses(),
		Requested: 3,
		Failed:    1,
	}

	require.NoError(t, WriteSummary(&buf, batch))

	out := buf.String()
	assert.Contains(t, out, "Requested")
	assert.Contains(t, out, "Generated")
	assert.True(t, strings.Contains(out, "urban"))
}
