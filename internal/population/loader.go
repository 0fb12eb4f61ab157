// Package population loads, cleans, and indexes the SA suburb reference
// dataset that sampling and lookup run against.
package population

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// Canonical column names after header normalization.
const (
	colSuburb     = "suburb"
	colPostcode   = "postcode"
	colCouncil    = "council"
	colRemoteness = "remoteness"
	colTier       = "tier"
)

// columnAliases maps the header spellings seen in source files to canonical
// column names.
var columnAliases = map[string]string{
	"suburb":                colSuburb,
	"postcode":              colPostcode,
	"council":               colCouncil,
	"remoteness":            colRemoteness,
	"remoteness level":      colRemoteness,
	"remoteness_level":      colRemoteness,
	"tier":                  colTier,
	"socioeconomicstatus":   colTier,
	"socio_economic_status": colTier,
	"socioeconomic_status":  colTier,
	"seifa":                 colTier,
}

// rawRecord is one source row before cleaning, keyed by canonical column.
type rawRecord map[string]string

// Load reads a suburb dataset from a CSV or XLSX file, cleans it, and
// returns the indexed population.
func Load(ctx context.Context, path string) (*Population, error) {
	var (
		raw []rawRecord
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		raw, err = loadCSV(ctx, path)
	case ".xlsx":
		raw, err = loadXLSX(path)
	default:
		return nil, eris.Errorf("population: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	records, summary := Clean(raw)
	zap.L().Info("population loaded",
		zap.String("path", path),
		zap.Int("raw", summary.Input),
		zap.Int("kept", summary.Kept))
	return New(records), nil
}

func loadCSV(ctx context.Context, path string) ([]rawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "population: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.Errorf("population: %s is empty", path)
	}
	if err != nil {
		return nil, eris.Wrap(err, "population: read header")
	}
	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var raw []rawRecord
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "population: load cancelled")
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "population: read row")
		}
		raw = append(raw, rowToRecord(columns, row))
	}
	return raw, nil
}

func loadXLSX(path string) ([]rawRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "population: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("population: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("population: %s is empty", path)
	}

	header := make([]string, len(sheet.Rows[0].Cells))
	for i, cell := range sheet.Rows[0].Cells {
		header[i] = cell.String()
	}
	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var raw []rawRecord
	for _, row := range sheet.Rows[1:] {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		raw = append(raw, rowToRecord(columns, cells))
	}
	return raw, nil
}

// mapHeader resolves each header cell to a canonical column index. Unnamed
// pandas-style index columns are ignored; all five canonical columns must be
// present.
func mapHeader(header []string) (map[int]string, error) {
	columns := map[int]string{}
	seen := map[string]bool{}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" || strings.HasPrefix(name, "unnamed:") {
			continue
		}
		if canonical, ok := columnAliases[name]; ok && !seen[canonical] {
			columns[i] = canonical
			seen[canonical] = true
		}
	}

	for _, required := range []string{colSuburb, colPostcode, colCouncil, colRemoteness, colTier} {
		if !seen[required] {
			return nil, eris.Errorf("population: missing required column %q", required)
		}
	}
	return columns, nil
}

func rowToRecord(columns map[int]string, row []string) rawRecord {
	rec := rawRecord{}
	for i, canonical := range columns {
		if i < len(row) {
			rec[canonical] = row[i]
		}
	}
	return rec
}
