package terrain

import "testing"

func TestBiomeAndCliffForDefaultBiome(t *testing.T) {
	p := &Policy{BaseBiome: "minecraft:plains"}
	biome, cliff := p.BiomeAndCliffFor(100)
	if biome != "minecraft:plains" {
		t.Errorf("biome = %q, want plains", biome)
	}
	if cliff != nil {
		t.Errorf("cliff = %+v, want nil", cliff)
	}
}

func TestBiomeAndCliffForLayerOverride(t *testing.T) {
	p := &Policy{
		BaseBiome:   "minecraft:plains",
		BiomeLayers: []RangedValue{{Min: 100, Max: 200, Value: "minecraft:desert"}},
		CliffDefault: &CliffRule{Enabled: true, AngleThresholdDeg: 45, Block: "minecraft:stone"},
		CliffOverrides: map[string]*CliffRule{
			"minecraft:desert": {Enabled: true, AngleThresholdDeg: 60, Block: "minecraft:sandstone"},
		},
	}
	biome, cliff := p.BiomeAndCliffFor(150)
	if biome != "minecraft:desert" {
		t.Fatalf("biome = %q, want desert", biome)
	}
	if cliff == nil || cliff.Block != "minecraft:sandstone" {
		t.Fatalf("cliff = %+v, want sandstone override", cliff)
	}
}

func TestBiomeAndCliffForDisabledCliff(t *testing.T) {
	p := &Policy{
		BaseBiome:    "minecraft:plains",
		CliffDefault: &CliffRule{Enabled: false},
	}
	_, cliff := p.BiomeAndCliffFor(0)
	if cliff != nil {
		t.Errorf("cliff = %+v, want nil when disabled", cliff)
	}
}

func TestTopBlockForFirstMatchWins(t *testing.T) {
	p := &Policy{
		TopLayerBlock: "minecraft:grass_block",
		TopBlockLayers: []RangedValue{
			{Min: -2048, Max: 0, Value: "minecraft:sand"},
			{Min: -10, Max: 10, Value: "minecraft:gravel"},
		},
	}
	if got := p.TopBlockFor(-5); got != "minecraft:sand" {
		t.Errorf("TopBlockFor(-5) = %q, want sand (first match)", got)
	}
	if got := p.TopBlockFor(500); got != "minecraft:grass_block" {
		t.Errorf("TopBlockFor(500) = %q, want default", got)
	}
}

func TestMaxSmoothingRadius(t *testing.T) {
	p := &Policy{
		CliffDefault: &CliffRule{Enabled: true, SmoothingRadius: 2},
		CliffOverrides: map[string]*CliffRule{
			"a": {Enabled: true, SmoothingRadius: 5},
			"b": {Enabled: false, SmoothingRadius: 99},
		},
	}
	if got := p.MaxSmoothingRadius(); got != 5 {
		t.Errorf("MaxSmoothingRadius() = %d, want 5", got)
	}
}

func TestParseHeightSuffixes(t *testing.T) {
	cases := []struct {
		raw  string
		want int32
	}{
		{"10 m", -2038},
		{"10m", -2038},
		{"100 b", 100},
		{"100b", 100},
		{"10", -2038}, // no suffix defaults to metres
	}
	for _, c := range cases {
		got, err := ParseHeight(c.raw)
		if err != nil {
			t.Fatalf("ParseHeight(%q) error: %v", c.raw, err)
		}
		if got != c.want {
			t.Errorf("ParseHeight(%q) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestParseHeightRejectsEmpty(t *testing.T) {
	if _, err := ParseHeight(""); err == nil {
		t.Fatal("expected error for empty height string")
	}
}
