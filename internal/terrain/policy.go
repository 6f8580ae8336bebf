// Package terrain implements the terrain policy (C4): base biome, top/bottom
// block, top thickness, and cliff parameters as a function of surface
// height.
package terrain

// RangedValue is a [Min, Max] inclusive block-Y band mapped to a value
// (a biome or block identifier).
type RangedValue struct {
	Min, Max int32
	Value    string
}

func (r RangedValue) contains(height int32) bool {
	return height >= r.Min && height <= r.Max
}

// CliffRule describes when and how a column's top band is replaced by a
// dedicated cliff block.
type CliffRule struct {
	Enabled           bool
	AngleThresholdDeg float64
	Block             string
	SmoothingRadius   int
	SmoothingFactor   float64 // in [0, 1]
}

// Policy holds the terrain defaults and per-height-band overrides.
type Policy struct {
	TopLayerBlock     string
	BottomLayerBlock  string
	TopLayerThickness int // >= 1
	BaseBiome         string
	BiomeLayers       []RangedValue
	TopBlockLayers    []RangedValue

	CliffDefault *CliffRule
	// CliffOverrides is keyed by the matching BiomeLayers[i].Value so a
	// biome layer can carry its own cliff parameters.
	CliffOverrides map[string]*CliffRule
}

// BiomeAndCliffFor resolves the biome and cliff rule active at a surface
// height: the first matching biome layer wins, else BaseBiome. The cliff
// rule is the override for that biome layer (if any), else CliffDefault;
// resolves to nil ("no cliffs") when the chosen rule is disabled.
func (p *Policy) BiomeAndCliffFor(height int32) (biome string, cliff *CliffRule) {
	biome = p.BaseBiome
	var matchedLayer string
	matched := false
	for _, layer := range p.BiomeLayers {
		if layer.contains(height) {
			biome = layer.Value
			matchedLayer = layer.Value
			matched = true
			break
		}
	}

	cliff = p.CliffDefault
	if matched {
		if override, ok := p.CliffOverrides[matchedLayer]; ok {
			cliff = override
		}
	}
	if cliff == nil || !cliff.Enabled {
		return biome, nil
	}
	return biome, cliff
}

// TopBlockFor resolves the top block at a surface height: first matching
// layer wins, else TopLayerBlock.
func (p *Policy) TopBlockFor(height int32) string {
	for _, layer := range p.TopBlockLayers {
		if layer.contains(height) {
			return layer.Value
		}
	}
	return p.TopLayerBlock
}

// MaxSmoothingRadius returns the maximum slope-profiler radius requested by
// the default cliff rule or any override, driving how large a profile C3
// must compute. Returns 0 when no cliff rule is enabled.
func (p *Policy) MaxSmoothingRadius() int {
	max := 0
	consider := func(r *CliffRule) {
		if r != nil && r.Enabled && r.SmoothingRadius > max {
			max = r.SmoothingRadius
		}
	}
	consider(p.CliffDefault)
	for _, r := range p.CliffOverrides {
		consider(r)
	}
	return max
}
