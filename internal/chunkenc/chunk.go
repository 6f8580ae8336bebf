package chunkenc

import (
	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/overlay"
	"github.com/defvs/francegen/internal/slope"
	"github.com/defvs/francegen/internal/terrain"
)

// ColumnHeights is one column's materialized inputs to the chunk encoder:
// surface Y (nil when unknown), its slope profile, and any resolved
// overlay.
type ColumnHeights struct {
	Height  *int32
	Profile []slope.RadiusStats
	Overlay *overlay.Overlay
}

// ChunkHeights is a 16x16 grid of ColumnHeights, indexed local_z*16+local_x.
type ChunkHeights struct {
	Columns [SectionSide * SectionSide]ColumnHeights
}

func colIndex(localX, localZ int) int {
	return localZ*SectionSide + localX
}

// Set stores the height/profile for a local column; overlays are set
// separately via SetOverlay once C6/C7 have run.
func (c *ChunkHeights) Set(localX, localZ int, height int32, profile []slope.RadiusStats) {
	h := height
	c.Columns[colIndex(localX, localZ)] = ColumnHeights{Height: &h, Profile: profile}
}

// SetOverlay attaches an overlay to an existing column entry.
func (c *ChunkHeights) SetOverlay(localX, localZ int, o overlay.Overlay) {
	idx := colIndex(localX, localZ)
	c.Columns[idx].Overlay = &o
}

// MaxHeight returns the highest known surface Y in the chunk, or false if
// no column has a known height.
func (c *ChunkHeights) MaxHeight() (int32, bool) {
	found := false
	var max int32
	for _, col := range c.Columns {
		if col.Height == nil {
			continue
		}
		if !found || *col.Height > max {
			max = *col.Height
			found = true
		}
	}
	return max, found
}

// columnSettings is the fully materialized per-column state consumed by the
// per-block resolution loop, equivalent to the original implementation's
// ColumnSettings but extended with extrusion per spec.md §4.6/§4.8.
type columnSettings struct {
	height         *int32
	biome          string
	topBlock       string
	slopeDegrees   float32
	cliff          *terrain.CliffRule
	topThickness   int
	bottomOverride *string
	biomeMinY      *int32
	extrusion      *overlay.Extrusion
}

func materializeColumn(col ColumnHeights, policy *terrain.Policy) columnSettings {
	settings := columnSettings{
		height:       col.Height,
		biome:        policy.BaseBiome,
		topBlock:     policy.TopLayerBlock,
		topThickness: policy.TopLayerThickness,
	}
	if settings.topThickness < 1 {
		settings.topThickness = 1
	}

	if col.Height != nil {
		surface := *col.Height
		biome, cliff := policy.BiomeAndCliffFor(surface)
		settings.biome = biome
		settings.topBlock = policy.TopBlockFor(surface)
		settings.cliff = cliff
		if cliff != nil {
			stats := slope.At(col.Profile, cliff.SmoothingRadius)
			settings.slopeDegrees = slope.Mix(stats, float32(cliff.SmoothingFactor))
		}
	}

	if col.Overlay != nil {
		o := col.Overlay
		if o.Biome != nil {
			settings.biome = *o.Biome
		}
		if o.SurfaceBlock != nil {
			settings.topBlock = *o.SurfaceBlock
		}
		if o.SubsurfaceBlock != nil {
			settings.bottomOverride = o.SubsurfaceBlock
		}
		if o.TopThickness != nil {
			t := *o.TopThickness
			if t < 1 {
				t = 1
			}
			settings.topThickness = t
		}
		settings.extrusion = o.Extrusion
	}

	if settings.height != nil {
		minY := int64(*settings.height) - int64(settings.topThickness) + 1
		minY32 := clampToInt32(minY)
		settings.biomeMinY = &minY32
	}

	return settings
}

func clampToInt32(v int64) int32 {
	switch {
	case v < int64(-1<<31):
		return -1 << 31
	case v > int64(1<<31-1):
		return 1<<31 - 1
	default:
		return int32(v)
	}
}

func (c columnSettings) cliffBlockOverride() (string, bool) {
	if c.cliff == nil {
		return "", false
	}
	if float64(c.slopeDegrees) >= c.cliff.AngleThresholdDeg {
		return c.cliff.Block, true
	}
	return "", false
}

func (c columnSettings) biomeForY(worldY int32, baseBiome string) string {
	if c.biomeMinY != nil && worldY >= *c.biomeMinY {
		return c.biome
	}
	return baseBiome
}

// extrusionBlockAt returns the extrusion block painted at worldY above the
// natural surface, if any: either within the discrete Levels list, or
// within the contiguous [surface+1, surface+HeightBlocks] band when Levels
// is empty.
func (c columnSettings) extrusionBlockAt(worldY int32) (string, bool) {
	if c.extrusion == nil || c.height == nil {
		return "", false
	}
	surface := *c.height
	if worldY <= surface {
		return "", false
	}
	if len(c.extrusion.Levels) > 0 {
		for _, lvl := range c.extrusion.Levels {
			if lvl == worldY {
				return c.extrusion.Block, true
			}
		}
		return "", false
	}
	if worldY <= surface+c.extrusion.HeightBlocks {
		return c.extrusion.Block, true
	}
	return "", false
}

// blockFor resolves the block at worldY per spec.md §4.8 step 2, extended
// with extrusion painting above the natural surface.
func blockFor(worldY int32, column columnSettings, defaultBottomBlock string) string {
	if worldY <= georef.BedrockY {
		return "minecraft:bedrock"
	}
	if column.height == nil {
		return airBlock
	}
	surface := *column.height
	if worldY > surface {
		if block, ok := column.extrusionBlockAt(worldY); ok {
			return block
		}
		return airBlock
	}
	depth := surface - worldY
	if depth < int32(column.topThickness) {
		if block, ok := column.cliffBlockOverride(); ok {
			return block
		}
		return column.topBlock
	}
	if column.bottomOverride != nil {
		return *column.bottomOverride
	}
	return defaultBottomBlock
}

func biomeIndex(x, y, z int) int {
	bx := x / BiomeScale
	by := y / BiomeScale
	bz := z / BiomeScale
	return by*BiomeSide*BiomeSide + bz*BiomeSide + bx
}
