package population

import (
	"sort"
	"strings"

	"github.com/arbordata/saaddr/internal/model"
)

// Population is the cleaned, indexed suburb dataset.
type Population struct {
	records []model.SuburbRecord
	byName  map[string][]model.SuburbRecord
}

// New indexes cleaned suburb records.
func New(records []model.SuburbRecord) *Population {
	p := &Population{
		records: records,
		byName:  make(map[string][]model.SuburbRecord, len(records)),
	}
	for _, rec := range records {
		key := strings.ToUpper(rec.Name)
		p.byName[key] = append(p.byName[key], rec)
	}
	return p
}

// Records returns all suburb records. Callers must not mutate the slice.
func (p *Population) Records() []model.SuburbRecord { return p.records }

// Len returns the number of suburb records.
func (p *Population) Len() int { return len(p.records) }

// FindByName returns all records matching a suburb name, case-insensitively.
// A suburb can span postcodes, so more than one record may match.
func (p *Population) FindByName(name string) []model.SuburbRecord {
	return p.byName[strings.ToUpper(strings.TrimSpace(name))]
}

// Councils returns the distinct council names, sorted.
func (p *Population) Councils() []string {
	return p.distinct(func(r model.SuburbRecord) string { return r.Council })
}

// Suburbs returns the distinct suburb names, sorted.
func (p *Population) Suburbs() []string {
	return p.distinct(func(r model.SuburbRecord) string { return r.Name })
}

// RemotenessLevels returns the distinct remoteness classes present, sorted.
func (p *Population) RemotenessLevels() []string {
	return p.distinct(func(r model.SuburbRecord) string { return string(r.Remoteness) })
}

// Tiers returns the distinct socio-economic tiers present, ascending.
func (p *Population) Tiers() []int {
	seen := map[int]bool{}
	for _, r := range p.records {
		seen[r.Tier] = true
	}
	tiers := make([]int, 0, len(seen))
	for t := range seen {
		tiers = append(tiers, t)
	}
	sort.Ints(tiers)
	return tiers
}

// PostcodeRange returns the lowest and highest postcodes present, or zeros
// for an empty population.
func (p *Population) PostcodeRange() (min, max int) {
	for i, r := range p.records {
		if i == 0 || r.Postcode < min {
			min = r.Postcode
		}
		if r.Postcode > max {
			max = r.Postcode
		}
	}
	return min, max
}

// RemotenessDistribution counts records per remoteness class.
func (p *Population) RemotenessDistribution() map[model.RemotenessClass]int {
	dist := map[model.RemotenessClass]int{}
	for _, r := range p.records {
		dist[r.Remoteness]++
	}
	return dist
}

func (p *Population) distinct(key func(model.SuburbRecord) string) []string {
	seen := map[string]bool{}
	for _, r := range p.records {
		seen[key(r)] = true
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
