package model

import "github.com/rotisserie/eris"

// WeightConfig holds the two marginal weight maps that drive suburb sampling.
// Weights are relative; they do not need to sum to 1.
type WeightConfig struct {
	Remoteness map[RemotenessClass]float64 `json:"remoteness" yaml:"remoteness"`
	Tier       map[int]float64             `json:"tier" yaml:"tier"`
}

// DefaultWeightConfig returns the balanced SA-wide distribution.
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		Remoteness: map[RemotenessClass]float64{
			RemotenessMajorCities:   0.40,
			RemotenessInnerRegional: 0.25,
			RemotenessOuterRegional: 0.20,
			RemotenessRemote:        0.10,
			RemotenessVeryRemote:    0.05,
			RemotenessNotApplicable: 0.0,
		},
		Tier: map[int]float64{
			0: 0.05,
			1: 0.10,
			2: 0.20,
			3: 0.25,
			4: 0.25,
			5: 0.15,
		},
	}
}

// Validate checks that both maps are non-empty, carry no negative entries,
// and have at least one strictly positive entry each.
func (c WeightConfig) Validate() error {
	if len(c.Remoteness) == 0 {
		return eris.New("weights: remoteness map is empty")
	}
	if len(c.Tier) == 0 {
		return eris.New("weights: tier map is empty")
	}

	positive := false
	for class, w := range c.Remoteness {
		if w < 0 {
			return eris.Errorf("weights: negative remoteness weight %.3f for %q", w, class)
		}
		if w > 0 {
			positive = true
		}
	}
	if !positive {
		return eris.New("weights: at least one remoteness weight must be positive")
	}

	positive = false
	for tier, w := range c.Tier {
		if w < 0 {
			return eris.Errorf("weights: negative tier weight %.3f for tier %d", w, tier)
		}
		if w > 0 {
			positive = true
		}
	}
	if !positive {
		return eris.New("weights: at least one tier weight must be positive")
	}

	return nil
}

// JointWeight returns the combined weight for a record: the product of its
// remoteness and tier lookups. Missing keys contribute 0, not an error.
func (c WeightConfig) JointWeight(r SuburbRecord) float64 {
	return c.Remoteness[r.Remoteness] * c.Tier[r.Tier]
}

// Merge overlays non-nil maps from o onto a copy of c. Used to apply partial
// presets (a preset may override only one dimension).
func (c WeightConfig) Merge(o WeightConfig) WeightConfig {
	out := c
	if o.Remoteness != nil {
		out.Remoteness = o.Remoteness
	}
	if o.Tier != nil {
		out.Tier = o.Tier
	}
	return out
}
