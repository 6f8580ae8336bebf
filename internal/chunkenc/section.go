package chunkenc

// Section holds one vertical 16x16x16 slice of a chunk: its Y index (in
// section units, Y=0 covers world Y [sectionY*16, sectionY*16+15]), the
// resolved block/biome palettes and their bit-packed index arrays.
type Section struct {
	Y            int32
	BlockPalette []string
	BlockIndices []int64
	BlockBits    int
	BiomePalette []string
	BiomeIndices []int64
	BiomeBits    int
}

// sectionBuilder accumulates one section's blocks and biomes column by
// column as the encoder walks world Y downward/upward, eliding the section
// entirely when every block turned out to be air.
type sectionBuilder struct {
	sectionY  int32
	blocks    *palette
	biomes    *palette
	blockIdx  [BlocksPerSection]uint16
	biomeIdx  [BiomeEntriesPerSection]uint16
	hasBlocks bool
}

func newSectionBuilder(sectionY int32) *sectionBuilder {
	return &sectionBuilder{
		sectionY: sectionY,
		blocks:   newBlockPalette(),
		biomes:   newBiomePalette(),
	}
}

// set records the block and biome for the local coordinate (x, y, z), each
// in [0, 16). Biome writes are deduplicated at 4x4x4 granularity: whichever
// block within a 4-cube writes last wins, matching the 1:4 biome downscale.
func (b *sectionBuilder) set(x, y, z int, block, biome string) {
	idx := (y*SectionSide+z)*SectionSide + x
	b.blockIdx[idx] = b.blocks.index(block)
	if block != airBlock {
		b.hasBlocks = true
	}
	b.biomeIdx[biomeIndex(x, y, z)] = b.biomes.index(biome)
}

// finish materializes the Section, or reports ok=false when the section
// contains no non-air blocks and should be elided from the chunk entirely.
func (b *sectionBuilder) finish() (Section, bool) {
	if !b.hasBlocks {
		return Section{}, false
	}
	blockValues := make([]uint16, len(b.blockIdx))
	copy(blockValues, b.blockIdx[:])
	biomeValues := make([]uint16, len(b.biomeIdx))
	copy(biomeValues, b.biomeIdx[:])

	blockBits := bitsForRange(len(b.blocks.entries))
	if blockBits < 4 {
		blockBits = 4
	}
	biomeBits := bitsForRange(len(b.biomes.entries))

	return Section{
		Y:            b.sectionY,
		BlockPalette: b.blocks.entries,
		BlockIndices: packPaletteIndices(blockValues, len(b.blocks.entries), 4),
		BlockBits:    blockBits,
		BiomePalette: b.biomes.entries,
		BiomeIndices: packPaletteIndices(biomeValues, len(b.biomes.entries), 0),
		BiomeBits:    biomeBits,
	}, true
}
