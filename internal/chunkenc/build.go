package chunkenc

import (
	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/terrain"
)

// Chunk is the fully encoded result for one 16x16 chunk column, ready for
// NBT serialization by internal/nbtio.
type Chunk struct {
	X, Z           int32
	Sections       []Section
	Heightmap      []int64
	HeightmapBits  int
	Status         string
	PostProcessing bool
}

const (
	// SectionYMin is the lowest addressable section index, and the fixed
	// yPos every chunk (including empty ones) is stamped with.
	SectionYMin         = int32(georef.BedrockY) / SectionSide
	absoluteSectionYMax = int32(georef.MaxWorldY) / SectionSide
)

// Build assembles a Chunk from its materialized column heights, per
// spec.md §4.8: walk every section from bedrock up to this chunk's tallest
// column (never the full world ceiling — most chunks never approach it),
// resolve each block/biome via blockFor/biomeForY, pack the
// MOTION_BLOCKING heightmap, and elide fully-air sections.
func Build(chunkX, chunkZ int32, heights *ChunkHeights, policy *terrain.Policy, generateFeatures bool) Chunk {
	columns := make([]columnSettings, SectionSide*SectionSide)
	for i, col := range heights.Columns {
		columns[i] = materializeColumn(col, policy)
	}

	topY := make([]int32, SectionSide*SectionSide)
	maxTopY := georef.BedrockY - 1
	for i, col := range columns {
		topY[i] = columnTopY(col)
		if sectionTop := columnSectionTopY(col); sectionTop > maxTopY {
			maxTopY = sectionTop
		}
	}

	sectionYMax := floorDiv(maxTopY, SectionSide)
	if sectionYMax < SectionYMin {
		sectionYMax = SectionYMin
	}
	if sectionYMax > absoluteSectionYMax {
		sectionYMax = absoluteSectionYMax
	}

	sections := make([]Section, 0, sectionYMax-SectionYMin+1)
	for sy := SectionYMin; sy <= sectionYMax; sy++ {
		builder := newSectionBuilder(sy)
		baseY := sy * SectionSide
		for ly := 0; ly < SectionSide; ly++ {
			worldY := baseY + int32(ly)
			for lz := 0; lz < SectionSide; lz++ {
				for lx := 0; lx < SectionSide; lx++ {
					idx := colIndex(lx, lz)
					column := columns[idx]
					block := blockFor(worldY, column, policy.BottomLayerBlock)
					biome := column.biomeForY(worldY, policy.BaseBiome)
					builder.set(lx, ly, lz, block, biome)
				}
			}
		}
		if section, ok := builder.finish(); ok {
			sections = append(sections, section)
		}
	}

	heightmapBits := bitsForRange(int(georef.MaxWorldY-georef.BedrockY) + 2)
	heightmapValues := make([]uint64, SectionSide*SectionSide)
	for i, top := range topY {
		heightmapValues[i] = uint64(top + 1 - georef.BedrockY)
	}

	// generateFeatures requests vanilla post-generation (structures,
	// decoration): such chunks are stamped "liquid_carvers" so the server
	// still runs its feature/carver passes over them. Chunks generated
	// fully formed skip that work and go straight to "full".
	status := "minecraft:full"
	if generateFeatures {
		status = "minecraft:liquid_carvers"
	}

	return Chunk{
		X:              chunkX,
		Z:              chunkZ,
		Sections:       sections,
		Heightmap:      packUnsigned(heightmapValues, heightmapBits),
		HeightmapBits:  heightmapBits,
		Status:         status,
		PostProcessing: generateFeatures,
	}
}

// columnTopY returns the raw DEM surface Y for a column's MOTION_BLOCKING
// heightmap entry (spec.md §4.8 step 4: "surface - BEDROCK_Y + 1"), or
// BedrockY itself when the column has no known height (giving the
// MOTION_BLOCKING sentinel value of 1, matching the original
// implementation's unwrap_or(BEDROCK_Y)). Extrusions never affect the
// heightmap, only the blocks placed within a section; see
// columnSectionTopY for the range those blocks require.
func columnTopY(c columnSettings) int32 {
	if c.height == nil {
		return georef.BedrockY
	}
	return *c.height
}

// columnSectionTopY returns the topmost world Y a column's placed blocks
// can reach, including any extrusion above the DEM surface, so Build
// extends its section range far enough to actually render those blocks.
func columnSectionTopY(c columnSettings) int32 {
	top := columnTopY(c)
	if c.extrusion != nil {
		if len(c.extrusion.Levels) > 0 {
			for _, lvl := range c.extrusion.Levels {
				if lvl > top {
					top = lvl
				}
			}
		} else if c.extrusion.HeightBlocks > 0 {
			top += c.extrusion.HeightBlocks
		}
	}
	return top
}
