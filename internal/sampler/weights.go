// Package sampler joins the two marginal weight maps onto the suburb
// population and draws weighted samples from the result.
package sampler

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arbordata/saaddr/internal/model"
)

// ErrEmptyPopulation signals that no suburb survived weight filtering: every
// remoteness/tier combination present in the population received a zero from
// at least one map. Recoverable; callers yield zero addresses rather than fail.
var ErrEmptyPopulation = eris.New("sampler: no suburbs with positive joint weight")

// Compute joins the weight maps onto the population and returns the sampling
// candidate set: every record with a strictly positive joint weight. The input
// population is never mutated. Records weighted out of the candidate set stay
// queryable in the full population; they just cannot be drawn.
func Compute(population []model.SuburbRecord, cfg model.WeightConfig) []model.SampledSuburb {
	candidates := make([]model.SampledSuburb, 0, len(population))
	zeroed := 0

	for _, rec := range population {
		w := cfg.JointWeight(rec)
		if w <= 0 {
			zeroed++
			continue
		}
		candidates = append(candidates, model.SampledSuburb{SuburbRecord: rec, Weight: w})
	}

	zap.L().Debug("joint weights computed",
		zap.Int("population", len(population)),
		zap.Int("candidates", len(candidates)),
		zap.Int("zero_weight", zeroed),
	)

	if len(candidates) == 0 && len(population) > 0 {
		zap.L().Warn("all suburbs weighted to zero; sampling pool is empty")
	}

	return candidates
}
