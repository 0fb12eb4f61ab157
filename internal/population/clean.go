package population

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arbordata/saaddr/internal/model"
)

// Drop reasons reported in CleanSummary.
const (
	DropMissingField  = "missing_field"
	DropNotApplicable = "not_applicable_remoteness"
	DropBadRemoteness = "unrecognized_remoteness"
	DropBadPostcode   = "postcode_out_of_range"
	DropBadTier       = "tier_out_of_range"
	DropDuplicate     = "duplicate_suburb_postcode"
)

// CleanSummary reports what cleaning kept and why rows were dropped.
type CleanSummary struct {
	Input   int
	Kept    int
	Dropped map[string]int
}

var titleCaser = cases.Title(language.English)

// remotenessCanonical maps lowercased source values to canonical classes.
var remotenessCanonical = map[string]model.RemotenessClass{
	"major cities of australia": model.RemotenessMajorCities,
	"inner regional australia":  model.RemotenessInnerRegional,
	"outer regional australia":  model.RemotenessOuterRegional,
	"remote australia":          model.RemotenessRemote,
	"very remote australia":     model.RemotenessVeryRemote,
	"not applicable":            model.RemotenessNotApplicable,
}

// nameFixups repairs title-casing artifacts and expands common
// abbreviations in suburb and council names.
var nameFixups = [][2]string{
	{" Of ", " of "},
	{" The ", " the "},
	{" And ", " and "},
	{"Mt ", "Mount "},
	{"St ", "Saint "},
}

// Clean normalizes raw rows into validated suburb records, dropping rows
// that fail any quality rule. Duplicate suburb-postcode pairs keep the
// first occurrence.
func Clean(raw []rawRecord) ([]model.SuburbRecord, CleanSummary) {
	summary := CleanSummary{Input: len(raw), Dropped: map[string]int{}}
	seen := map[string]bool{}
	var records []model.SuburbRecord

	for _, row := range raw {
		rec, reason := cleanRow(row)
		if reason != "" {
			summary.Dropped[reason]++
			continue
		}

		key := strings.ToUpper(rec.Name) + "_" + strconv.Itoa(rec.Postcode)
		if seen[key] {
			summary.Dropped[DropDuplicate]++
			continue
		}
		seen[key] = true
		records = append(records, rec)
	}

	summary.Kept = len(records)
	for reason, n := range summary.Dropped {
		zap.L().Info("dropped invalid records", zap.String("reason", reason), zap.Int("count", n))
	}
	return records, summary
}

func cleanRow(row rawRecord) (model.SuburbRecord, string) {
	suburb := cleanName(row[colSuburb])
	council := cleanName(row[colCouncil])
	remotenessRaw := strings.ToLower(strings.TrimSpace(row[colRemoteness]))
	postcodeRaw := strings.TrimSpace(row[colPostcode])
	tierRaw := strings.TrimSpace(row[colTier])

	if suburb == "" || council == "" || remotenessRaw == "" || postcodeRaw == "" || tierRaw == "" {
		return model.SuburbRecord{}, DropMissingField
	}

	remoteness, ok := remotenessCanonical[remotenessRaw]
	if !ok {
		return model.SuburbRecord{}, DropBadRemoteness
	}
	if remoteness == model.RemotenessNotApplicable {
		// Not real suburbs; excluded from the population entirely.
		return model.SuburbRecord{}, DropNotApplicable
	}

	postcode, err := parseNumber(postcodeRaw)
	if err != nil || postcode < model.MinPostcode || postcode > model.MaxPostcode {
		return model.SuburbRecord{}, DropBadPostcode
	}

	tier, err := parseNumber(tierRaw)
	if err != nil || tier < model.MinTier || tier > model.MaxTier {
		return model.SuburbRecord{}, DropBadTier
	}

	return model.SuburbRecord{
		Name:       suburb,
		Postcode:   postcode,
		Council:    council,
		Remoteness: remoteness,
		Tier:       tier,
	}, ""
}

func cleanName(s string) string {
	s = titleCaser.String(strings.TrimSpace(s))
	for _, fix := range nameFixups {
		s = strings.ReplaceAll(s, fix[0], fix[1])
	}
	return s
}

// parseNumber accepts integers and spreadsheet-style floats like "5000.0".
func parseNumber(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
