// Package export writes generated address batches as CSV, JSON, or an
// aligned terminal table.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/arbordata/saaddr/internal/generator"
	"github.com/arbordata/saaddr/internal/model"
)

// Format selects an output encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, FormatTable:
		return Format(s), nil
	default:
		return "", eris.Errorf("export: unknown format %q (csv, json, table)", s)
	}
}

// csvColumns is the ordered CSV header.
var csvColumns = []string{
	"id", "street_address", "suburb", "state", "postcode", "country",
	"latitude", "longitude", "council", "remoteness", "tier",
	"full_address", "address_type", "region_type", "sampling_weight",
}

// Write encodes addresses to w in the given format.
func Write(w io.Writer, format Format, addresses []model.GeneratedAddress) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, addresses)
	case FormatJSON:
		return writeJSON(w, addresses)
	case FormatTable:
		return writeTable(w, addresses)
	default:
		return eris.Errorf("export: unknown format %q", format)
	}
}

func writeCSV(w io.Writer, addresses []model.GeneratedAddress) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, a := range addresses {
		row := []string{
			a.ID, a.StreetAddress, a.Suburb, a.State, a.Postcode, a.Country,
			formatCoord(a.Latitude), formatCoord(a.Longitude),
			a.Council, string(a.Remoteness), strconv.Itoa(a.Tier),
			a.FullAddress, string(a.AddressType), string(a.RegionType),
			strconv.FormatFloat(a.SampleWeight, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

func writeJSON(w io.Writer, addresses []model.GeneratedAddress) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(addresses), "export: encode json")
}

func writeTable(w io.Writer, addresses []model.GeneratedAddress) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBURB\tPOSTCODE\tADDRESS\tLAT\tLNG\tREGION")
	for _, a := range addresses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.Suburb, a.Postcode, a.StreetAddress,
			formatCoord(a.Latitude), formatCoord(a.Longitude), a.RegionType)
	}
	return eris.Wrap(tw.Flush(), "export: flush table")
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// WriteSummary prints batch composition statistics as an aligned table.
func WriteSummary(w io.Writer, batch *generator.Batch) error {
	summary := generator.Summarize(batch.Addresses)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Requested\t%d\n", batch.Requested)
	fmt.Fprintf(tw, "Generated\t%d\n", summary.TotalAddresses)
	fmt.Fprintf(tw, "Failed\t%d\n", batch.Failed)
	fmt.Fprintf(tw, "Unique suburbs\t%d\n", summary.UniqueSuburbs)
	fmt.Fprintf(tw, "Unique postcodes\t%d\n", summary.UniquePostcodes)
	fmt.Fprintf(tw, "Elapsed\t%s\n", batch.Elapsed)
	fmt.Fprintf(tw, "Cache hit rate\t%.1f%%\n", batch.Geocoding.CacheHitRate)
	fmt.Fprintf(tw, "Fallback rate\t%.1f%%\n", batch.Geocoding.FallbackRate)
	for region, n := range summary.RegionTypes {
		fmt.Fprintf(tw, "Region %s\t%d\n", region, n)
	}
	return eris.Wrap(tw.Flush(), "export: flush summary")
}
