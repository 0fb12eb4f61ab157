package sampler

import (
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/arbordata/saaddr/internal/model"
)

// Sampler draws suburbs with replacement, proportional to joint weight.
// The RNG is owned by the caller and passed in explicitly so that a seed
// reproduces the full draw sequence without cross-call interference.
type Sampler struct {
	stats SampleStats
}

// SampleStats tracks lifetime sampling totals.
type SampleStats struct {
	Requested    int `json:"requested"`
	Drawn        int `json:"drawn"`
	Replacements int `json:"replacements"`
}

// New returns a Sampler with zeroed statistics.
func New() *Sampler {
	return &Sampler{}
}

// Sample draws count suburbs from the candidate set, with replacement,
// proportional to weight. Duplicates are expected whenever count exceeds the
// number of distinct candidates; the generator deliberately trades uniqueness
// for an exact count. count <= 0 or an empty candidate set returns nil.
func (s *Sampler) Sample(candidates []model.SampledSuburb, count int, rng *rand.Rand) []model.SampledSuburb {
	if count <= 0 {
		return nil
	}
	if len(candidates) == 0 {
		zap.L().Warn("sample requested from empty candidate set", zap.Int("count", count))
		return nil
	}

	s.stats.Requested += count
	if count > len(candidates) {
		s.stats.Replacements += count - len(candidates)
		zap.L().Debug("sampling with forced replacement",
			zap.Int("candidates", len(candidates)),
			zap.Int("count", count),
		)
	}

	// Cumulative weight table for binary-search draws.
	cumulative := make([]float64, len(candidates))
	total := 0.0
	for i, c := range candidates {
		total += c.Weight
		cumulative[i] = total
	}

	out := make([]model.SampledSuburb, 0, count)
	for i := 0; i < count; i++ {
		target := rng.Float64() * total
		idx := sort.SearchFloat64s(cumulative, target)
		if idx == len(candidates) {
			idx--
		}
		out = append(out, candidates[idx])
	}

	s.stats.Drawn += len(out)
	return out
}

// Stats returns lifetime sampling totals.
func (s *Sampler) Stats() SampleStats {
	return s.stats
}

// ResetStats zeroes the lifetime totals.
func (s *Sampler) ResetStats() {
	s.stats = SampleStats{}
}
