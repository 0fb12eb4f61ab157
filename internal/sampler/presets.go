package sampler

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/arbordata/saaddr/internal/model"
)

// Preset is a named partial weight configuration. A preset may override only
// one dimension; the other falls back to the defaults at merge time.
type Preset struct {
	Description string             `yaml:"description"`
	Weights     model.WeightConfig `yaml:",inline"`
}

// Presets resolves named weight distributions: the built-in set plus any
// custom presets loaded from a YAML file.
type Presets struct {
	byName map[string]Preset
}

// NewPresets returns the built-in preset catalogue.
func NewPresets() *Presets {
	return &Presets{byName: builtinPresets()}
}

// Resolve returns the full weight configuration for a preset name, with the
// default distribution filling any dimension the preset leaves unset.
func (p *Presets) Resolve(name string) (model.WeightConfig, error) {
	preset, ok := p.byName[name]
	if !ok {
		return model.WeightConfig{}, eris.Errorf("unknown preset %q (available: %v)", name, p.Names())
	}
	return model.DefaultWeightConfig().Merge(preset.Weights), nil
}

// Names returns the sorted preset names.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns preset names mapped to their descriptions.
func (p *Presets) Describe() map[string]string {
	out := make(map[string]string, len(p.byName))
	for name, preset := range p.byName {
		out[name] = preset.Description
	}
	return out
}

// LoadFile merges custom presets from a YAML file into the catalogue.
// Custom presets may shadow built-ins. Each loaded preset is validated after
// merging with the defaults so a broken file is rejected up front.
func (p *Presets) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "presets: read %s", path)
	}

	var loaded map[string]Preset
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return eris.Wrapf(err, "presets: parse %s", path)
	}

	for name, preset := range loaded {
		merged := model.DefaultWeightConfig().Merge(preset.Weights)
		if err := merged.Validate(); err != nil {
			return eris.Wrapf(err, "presets: %s: invalid preset %q", path, name)
		}
		p.byName[name] = preset
	}
	return nil
}

func builtinPresets() map[string]Preset {
	return map[string]Preset{
		"balanced": {
			Description: "Balanced distribution across all categories",
			Weights:     model.DefaultWeightConfig(),
		},
		"city_focused": {
			Description: "Focus on Adelaide and major cities",
			Weights: model.WeightConfig{
				Remoteness: map[model.RemotenessClass]float64{
					model.RemotenessMajorCities:   0.70,
					model.RemotenessInnerRegional: 0.20,
					model.RemotenessOuterRegional: 0.08,
					model.RemotenessRemote:        0.02,
					model.RemotenessVeryRemote:    0.0,
					model.RemotenessNotApplicable: 0.0,
				},
			},
		},
		"regional_focused": {
			Description: "Focus on regional towns and cities",
			Weights: model.WeightConfig{
				Remoteness: map[model.RemotenessClass]float64{
					model.RemotenessMajorCities:   0.20,
					model.RemotenessInnerRegional: 0.30,
					model.RemotenessOuterRegional: 0.40,
					model.RemotenessRemote:        0.10,
					model.RemotenessVeryRemote:    0.0,
					model.RemotenessNotApplicable: 0.0,
				},
			},
		},
		"remote_focused": {
			Description: "Include more remote and very remote areas",
			Weights: model.WeightConfig{
				Remoteness: map[model.RemotenessClass]float64{
					model.RemotenessMajorCities:   0.10,
					model.RemotenessInnerRegional: 0.20,
					model.RemotenessOuterRegional: 0.30,
					model.RemotenessRemote:        0.30,
					model.RemotenessVeryRemote:    0.10,
					model.RemotenessNotApplicable: 0.0,
				},
			},
		},
		"high_socio": {
			Description: "Focus on higher socio-economic areas",
			Weights: model.WeightConfig{
				Tier: map[int]float64{0: 0.02, 1: 0.05, 2: 0.13, 3: 0.20, 4: 0.30, 5: 0.30},
			},
		},
		"low_socio": {
			Description: "Focus on lower socio-economic areas",
			Weights: model.WeightConfig{
				Tier: map[int]float64{0: 0.20, 1: 0.30, 2: 0.25, 3: 0.15, 4: 0.08, 5: 0.02},
			},
		},
		"urban_high_socio": {
			Description: "Urban areas with higher socio-economic status",
			Weights: model.WeightConfig{
				Remoteness: map[model.RemotenessClass]float64{
					model.RemotenessMajorCities:   0.80,
					model.RemotenessInnerRegional: 0.15,
					model.RemotenessOuterRegional: 0.05,
					model.RemotenessRemote:        0.0,
					model.RemotenessVeryRemote:    0.0,
					model.RemotenessNotApplicable: 0.0,
				},
				Tier: map[int]float64{0: 0.02, 1: 0.05, 2: 0.13, 3: 0.25, 4: 0.30, 5: 0.25},
			},
		},
		"rural_mixed": {
			Description: "Rural and remote areas with mixed socio-economic status",
			Weights: model.WeightConfig{
				Remoteness: map[model.RemotenessClass]float64{
					model.RemotenessMajorCities:   0.10,
					model.RemotenessInnerRegional: 0.30,
					model.RemotenessOuterRegional: 0.35,
					model.RemotenessRemote:        0.20,
					model.RemotenessVeryRemote:    0.05,
					model.RemotenessNotApplicable: 0.0,
				},
			},
		},
	}
}
