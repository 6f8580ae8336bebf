package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/defvs/francegen/internal/georef"
)

func TestParseHeightStringMetreSuffix(t *testing.T) {
	got, err := parseHeightString("100 m")
	if err != nil {
		t.Fatal(err)
	}
	if want := BlockHeight(georef.DEMToBlock(100)); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestParseHeightStringBlockSuffix(t *testing.T) {
	got, err := parseHeightString("100 b")
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Errorf("got %d, want 100", got)
	}
}

func TestParseHeightStringNoSuffixDefaultsToMetres(t *testing.T) {
	got, err := parseHeightString("50")
	if err != nil {
		t.Fatal(err)
	}
	if want := BlockHeight(georef.DEMToBlock(50)); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestParseHeightStringRejectsUnknownSuffix(t *testing.T) {
	if _, err := parseHeightString("100 z"); err == nil {
		t.Fatal("expected an error for an unknown height suffix")
	}
}

func TestParseHeightValueAcceptsBareJSONNumberAsMetres(t *testing.T) {
	got, err := parseHeightValue(float64(50))
	if err != nil {
		t.Fatal(err)
	}
	if want := BlockHeight(georef.DEMToBlock(50)); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestLoadParsesHeightSuffixesInBiomeLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"Terrain": {
			"BiomeLayers": [
				{"Min": "0 m", "Max": "100 m", "Value": "minecraft:plains"},
				{"Min": 100, "Max": "2031 b", "Value": "minecraft:mountains"}
			]
		}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Terrain.BiomeLayers) != 2 {
		t.Fatalf("expected 2 biome layers, got %d", len(cfg.Terrain.BiomeLayers))
	}

	plains := cfg.Terrain.BiomeLayers[0]
	if want := BlockHeight(georef.DEMToBlock(0)); plains.Min != want {
		t.Errorf("plains.Min = %d, want %d", plains.Min, want)
	}
	if want := BlockHeight(georef.DEMToBlock(100)); plains.Max != want {
		t.Errorf("plains.Max = %d, want %d", plains.Max, want)
	}

	mountains := cfg.Terrain.BiomeLayers[1]
	if want := BlockHeight(georef.DEMToBlock(100)); mountains.Min != want {
		t.Errorf("mountains.Min = %d, want %d (bare number is metres)", mountains.Min, want)
	}
	if mountains.Max != 2031 {
		t.Errorf("mountains.Max = %d, want 2031 (raw block-Y)", mountains.Max)
	}
}
