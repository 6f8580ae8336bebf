// Package config loads francegen's terrain/OSM/WMTS/LIDAR configuration
// through viper (JSON or TOML, `--config` selects the file; cobra flags
// registered by cmd/francegen override individual keys), the same
// load-then-override idiom mk48's server config uses.
package config

import (
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/defvs/francegen/internal/worldgen/errs"
)

// RangedValue mirrors terrain.RangedValue in a JSON/TOML-friendly shape.
// Min/Max accept spec.md §6's "N m"/"N b"/bare-number height syntax via
// heightValueDecodeHook; see BlockHeight.
type RangedValue struct {
	Min, Max BlockHeight
	Value    string
}

// CliffRule mirrors terrain.CliffRule.
type CliffRule struct {
	Enabled           bool
	AngleThresholdDeg float64
	Block             string
	SmoothingRadius   int
	SmoothingFactor   float64
}

// Terrain mirrors terrain.Policy, keyed by biome name for cliff overrides.
type Terrain struct {
	TopLayerBlock     string
	BottomLayerBlock  string
	TopLayerThickness int
	BaseBiome         string
	BiomeLayers       []RangedValue
	TopBlockLayers    []RangedValue
	CliffDefault      *CliffRule
	CliffOverrides    map[string]CliffRule
}

// WidthSource mirrors vectoroverlay.WidthSource.
type WidthSource struct {
	TagKey     string
	Multiplier float64
	Min, Max   *float64
	Default    float64
}

// LayerStyle mirrors vectoroverlay.Style.
type LayerStyle struct {
	Biome           *string
	SurfaceBlock    *string
	SubsurfaceBlock *string
	TopThickness    *int
	ExtrusionBlock  *string
	ExtrusionHeight *WidthSource
}

// OSMLayer mirrors vectoroverlay.Layer before query-placeholder
// substitution and declaration-index assignment (both handled by
// ToVectorLayers, since those depend on a layer's position in the list).
type OSMLayer struct {
	Name       string
	Query      string
	Kind       string // "line" or "polygon"
	Width      WidthSource
	Style      LayerStyle
	LayerIndex int32
}

// OSM configures the Overpass-backed vector overlay pass (C6).
type OSM struct {
	Enabled       bool
	Endpoint      string // Overpass API base URL; empty uses overpass.Client's default
	MarginMeters  float64
	TimeoutSecs   int
	OrderOffset   uint32
	Layers        []OSMLayer
}

// ColorRule mirrors rasteroverlay.ColorRule in a JSON/TOML-friendly shape.
type ColorRule struct {
	R, G, B, A     uint8
	Tolerance      uint8
	AlphaThreshold uint8
	Style          LayerStyle
	LayerIndex     int32
}

// WMTS configures the raster overlay pass (C7).
type WMTS struct {
	Enabled         bool
	CapabilitiesURL string
	Layer           string
	Style           string
	TileMatrixSet   string
	// TileMatrix selects one zoom level's identifier within TileMatrixSet;
	// left empty, the pipeline picks whichever matrix has the resolution
	// closest to 1 metre/pixel (francegen's world is 1 block per metre).
	TileMatrix   string
	Format       string
	MarginMeters float64
	OrderOffset  uint32
	// MaxTiles bounds how many tiles a single run may fetch (spec.md's
	// "tile budget exceeded" MissingData case); 0 means unbounded.
	MaxTiles int
	Rules    []ColorRule
	CacheDir string
	S3Bucket string
	S3Prefix string
}

// Lidar configures the optional COPC/LAS building-footprint pass (C10).
type Lidar struct {
	Enabled       bool
	Dir           string
	BuildingBlock string
	AlwaysPillar  bool
	RXY           int32
	HGap          int32
	TWall         int32
	Bands         int
	TauPersist    float32
	MinSupport    int
}

// Config is the top-level configuration document.
type Config struct {
	Terrain Terrain
	OSM     OSM
	WMTS    WMTS
	Lidar   Lidar
}

// Load reads path (JSON or TOML, inferred from extension; defaults to
// JSON when there is none) into a Config, starting from Defaults().
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return Config{}, errs.New(errs.ConfigError, "read config file", path, err)
	}
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		heightValueDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return Config{}, errs.New(errs.ConfigError, "parse config file", path, err)
	}
	return cfg, nil
}

// Defaults returns the configuration used when no --config file is given:
// OSM/WMTS/Lidar all disabled, so the pipeline behaves exactly as spec.md
// describes with only the DEM-derived terrain pass.
func Defaults() Config {
	return Config{
		Terrain: Terrain{
			TopLayerBlock:     "minecraft:grass_block",
			BottomLayerBlock:  "minecraft:stone",
			TopLayerThickness: 1,
			BaseBiome:         "minecraft:plains",
		},
		OSM: OSM{
			MarginMeters: 50,
			TimeoutSecs:  180,
		},
		WMTS: WMTS{
			Format: "image/png",
		},
		Lidar: Lidar{
			BuildingBlock: "minecraft:spruce_planks",
			AlwaysPillar:  true,
			RXY:           1,
			HGap:          3,
			TWall:         1,
			Bands:         4,
			TauPersist:    0.4,
			MinSupport:    2,
		},
	}
}
