package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/defvs/francegen/internal/vectoroverlay"
	"github.com/defvs/francegen/internal/worldgen/errs"
)

func TestDefaultsDisableAllOptionalPasses(t *testing.T) {
	cfg := Defaults()
	if cfg.OSM.Enabled || cfg.WMTS.Enabled || cfg.Lidar.Enabled {
		t.Error("expected OSM/WMTS/Lidar disabled by default")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Terrain.BaseBiome != Defaults().Terrain.BaseBiome {
		t.Error("expected defaults when no path is given")
	}
}

func TestLoadParsesJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"Terrain": {"BaseBiome": "minecraft:forest", "TopLayerThickness": 2},
		"OSM": {"Enabled": true, "Layers": [{"Name": "roads", "Kind": "line", "Width": {"Default": 4}}]}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Terrain.BaseBiome != "minecraft:forest" || cfg.Terrain.TopLayerThickness != 2 {
		t.Errorf("terrain = %+v", cfg.Terrain)
	}
	if !cfg.OSM.Enabled || len(cfg.OSM.Layers) != 1 {
		t.Fatalf("osm = %+v", cfg.OSM)
	}
	if cfg.OSM.Layers[0].Name != "roads" {
		t.Errorf("layer name = %q", cfg.OSM.Layers[0].Name)
	}
}

func TestLoadMissingFileReturnsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
	if !errs.Is(err, errs.ConfigError) {
		t.Errorf("error = %v, want a ConfigError", err)
	}
}

func TestToVectorLayersAssignsDeclarationIndexByPosition(t *testing.T) {
	osm := OSM{Layers: []OSMLayer{{Name: "a", Kind: "line"}, {Name: "b", Kind: "polygon"}}}
	layers := osm.ToVectorLayers()
	if layers[0].DeclarationIndex != 0 || layers[1].DeclarationIndex != 1 {
		t.Errorf("declaration indices = %d, %d", layers[0].DeclarationIndex, layers[1].DeclarationIndex)
	}
	if layers[0].Kind != vectoroverlay.Line || layers[1].Kind != vectoroverlay.Polygon {
		t.Errorf("kinds = %v, %v", layers[0].Kind, layers[1].Kind)
	}
}

func TestToColorRulesPreservesDeclarationOrder(t *testing.T) {
	wmts := WMTS{Rules: []ColorRule{{R: 1}, {R: 2}}}
	rules := wmts.ToColorRules()
	if rules[0].Color.R != 1 || rules[1].Color.R != 2 {
		t.Errorf("rules = %+v", rules)
	}
	if rules[0].DeclarationIndex != 0 || rules[1].DeclarationIndex != 1 {
		t.Errorf("declaration indices = %d, %d", rules[0].DeclarationIndex, rules[1].DeclarationIndex)
	}
}

func TestToPolicyCarriesCliffOverrides(t *testing.T) {
	terrainCfg := Terrain{
		BaseBiome: "minecraft:plains",
		CliffOverrides: map[string]CliffRule{
			"minecraft:mountains": {Enabled: true, Block: "minecraft:stone", AngleThresholdDeg: 45},
		},
	}
	policy := terrainCfg.ToPolicy()
	override, ok := policy.CliffOverrides["minecraft:mountains"]
	if !ok || override.Block != "minecraft:stone" {
		t.Errorf("cliff override = %+v, ok=%v", override, ok)
	}
}

func TestToParamsMirrorsLidarConfig(t *testing.T) {
	lidarCfg := Lidar{BuildingBlock: "minecraft:bricks", RXY: 2, Bands: 6}
	params := lidarCfg.ToParams()
	if params.BuildingBlock != "minecraft:bricks" || params.RXY != 2 || params.Bands != 6 {
		t.Errorf("params = %+v", params)
	}
}
