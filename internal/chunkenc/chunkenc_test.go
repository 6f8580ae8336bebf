package chunkenc

import (
	"testing"

	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/overlay"
	"github.com/defvs/francegen/internal/terrain"
)

func TestPackUnsignedRoundTrip(t *testing.T) {
	for bits := 1; bits <= 32; bits++ {
		count := 37
		max := uint64(1)<<uint(bits) - 1
		values := make([]uint64, count)
		for i := range values {
			values[i] = uint64(i) & max
		}
		longs := packUnsigned(values, bits)
		got := unpackUnsigned(longs, bits, count)
		for i := range values {
			if got[i] != values[i] {
				t.Fatalf("bits=%d idx=%d: got %d want %d", bits, i, got[i], values[i])
			}
		}
	}
}

func TestBitsForRangeBoundaries(t *testing.T) {
	cases := map[int]int{1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 16: 4, 17: 5, 256: 8}
	for size, want := range cases {
		if got := bitsForRange(size); got != want {
			t.Errorf("bitsForRange(%d) = %d, want %d", size, got, want)
		}
	}
}

func TestPackPaletteIndicesSingleEntryOmitsArray(t *testing.T) {
	if got := packPaletteIndices([]uint16{0, 0, 0}, 1, 4); got != nil {
		t.Errorf("expected nil packed array for a single-entry palette, got %v", got)
	}
}

func TestBlockPaletteAirIsIndexZero(t *testing.T) {
	p := newBlockPalette()
	if idx := p.index(airBlock); idx != 0 {
		t.Errorf("air index = %d, want 0", idx)
	}
	if idx := p.index("minecraft:stone"); idx != 1 {
		t.Errorf("stone index = %d, want 1", idx)
	}
}

func TestBiomePaletteHasNoFixedEntry(t *testing.T) {
	p := newBiomePalette()
	if idx := p.index("minecraft:plains"); idx != 0 {
		t.Errorf("first biome index = %d, want 0", idx)
	}
}

func flatPolicy() *terrain.Policy {
	return &terrain.Policy{
		TopLayerBlock:     "minecraft:grass_block",
		BottomLayerBlock:  "minecraft:stone",
		TopLayerThickness: 3,
		BaseBiome:         "minecraft:plains",
	}
}

func singleColumnHeights(height int32) *ChunkHeights {
	h := &ChunkHeights{}
	for lz := 0; lz < SectionSide; lz++ {
		for lx := 0; lx < SectionSide; lx++ {
			h.Set(lx, lz, height, nil)
		}
	}
	return h
}

func TestBuildSingleFlatColumnProducesExpectedSections(t *testing.T) {
	policy := flatPolicy()
	heights := singleColumnHeights(0)
	chunk := Build(0, 0, heights, policy, true)

	if chunk.Status != "minecraft:liquid_carvers" {
		t.Errorf("status = %q, want minecraft:liquid_carvers", chunk.Status)
	}
	if len(chunk.Sections) == 0 {
		t.Fatal("expected at least one non-air section")
	}
	for _, s := range chunk.Sections {
		if len(s.BlockPalette) == 0 || s.BlockPalette[0] != airBlock {
			t.Fatalf("section %d: block palette[0] = %v, want air", s.Y, s.BlockPalette)
		}
	}
}

func TestBuildStopsAtTallestColumnNotWorldCeiling(t *testing.T) {
	policy := flatPolicy()
	heights := singleColumnHeights(georef.BedrockY + 5)
	chunk := Build(0, 0, heights, policy, false)

	if chunk.Status != "minecraft:full" {
		t.Errorf("status = %q, want minecraft:full", chunk.Status)
	}
	// A column just above bedrock only needs the one section it lives in,
	// never the full bedrock..world-ceiling range.
	if len(chunk.Sections) != 1 {
		t.Errorf("expected exactly 1 section for a shallow column, got %d", len(chunk.Sections))
	}
}

func TestBuildHeightmapIgnoresExtrusionButSectionsCoverIt(t *testing.T) {
	policy := flatPolicy()
	height := int32(10)
	heights := singleColumnHeights(height)
	extrusion := overlay.Overlay{Extrusion: &overlay.Extrusion{Block: "minecraft:bricks", HeightBlocks: 20}}
	for lz := 0; lz < SectionSide; lz++ {
		for lx := 0; lx < SectionSide; lx++ {
			heights.SetOverlay(lx, lz, extrusion)
		}
	}

	chunk := Build(0, 0, heights, policy, false)

	wantTop := uint64(height + 1 - georef.BedrockY)
	got := unpackUnsigned(chunk.Heightmap, chunk.HeightmapBits, SectionSide*SectionSide)
	for i, v := range got {
		if v != wantTop {
			t.Fatalf("heightmap[%d] = %d, want %d (raw surface, not extrusion top)", i, v, wantTop)
		}
	}

	maxSectionY := SectionYMin
	for _, s := range chunk.Sections {
		if s.Y > maxSectionY {
			maxSectionY = s.Y
		}
	}
	wantSectionY := floorDiv(height+20, SectionSide)
	if maxSectionY != wantSectionY {
		t.Errorf("tallest section Y = %d, want %d (must still reach the extrusion top)", maxSectionY, wantSectionY)
	}
}

func TestBlockForCliffOverridesTopBlock(t *testing.T) {
	column := columnSettings{
		height:       int32Ptr(100),
		topBlock:     "minecraft:grass_block",
		topThickness: 3,
		cliff: &terrain.CliffRule{
			Enabled:           true,
			AngleThresholdDeg: 45,
			Block:             "minecraft:andesite",
		},
		slopeDegrees: 60,
	}
	got := blockFor(100, column, "minecraft:stone")
	if got != "minecraft:andesite" {
		t.Errorf("got %q, want cliff block", got)
	}
}

func TestBlockForBelowThresholdKeepsTopBlock(t *testing.T) {
	column := columnSettings{
		height:       int32Ptr(100),
		topBlock:     "minecraft:grass_block",
		topThickness: 3,
		cliff: &terrain.CliffRule{
			Enabled:           true,
			AngleThresholdDeg: 45,
			Block:             "minecraft:stone",
		},
		slopeDegrees: 10,
	}
	got := blockFor(100, column, "minecraft:stone")
	if got != "minecraft:grass_block" {
		t.Errorf("got %q, want top block preserved below threshold", got)
	}
}

func TestBlockForExtrusionContiguousBand(t *testing.T) {
	column := columnSettings{
		height: int32Ptr(100),
		extrusion: &overlay.Extrusion{
			Block:        "minecraft:bricks",
			HeightBlocks: 3,
		},
	}
	for y := int32(101); y <= 103; y++ {
		if got := blockFor(y, column, "minecraft:stone"); got != "minecraft:bricks" {
			t.Errorf("y=%d: got %q, want extrusion block", y, got)
		}
	}
	if got := blockFor(104, column, "minecraft:stone"); got != airBlock {
		t.Errorf("above extrusion band: got %q, want air", got)
	}
}

func TestBlockForExtrusionDiscreteLevels(t *testing.T) {
	column := columnSettings{
		height: int32Ptr(100),
		extrusion: &overlay.Extrusion{
			Block:  "minecraft:bricks",
			Levels: []int32{101, 103},
		},
	}
	if got := blockFor(101, column, "minecraft:stone"); got != "minecraft:bricks" {
		t.Errorf("y=101: got %q, want extrusion block", got)
	}
	if got := blockFor(102, column, "minecraft:stone"); got != airBlock {
		t.Errorf("y=102 not in Levels: got %q, want air", got)
	}
	if got := blockFor(103, column, "minecraft:stone"); got != "minecraft:bricks" {
		t.Errorf("y=103: got %q, want extrusion block", got)
	}
}

func TestBlockForNoKnownHeightIsAir(t *testing.T) {
	column := columnSettings{}
	if got := blockFor(0, column, "minecraft:stone"); got != airBlock {
		t.Errorf("got %q, want air for unknown column", got)
	}
}

func TestBlockForBedrockFloor(t *testing.T) {
	column := columnSettings{height: int32Ptr(100)}
	if got := blockFor(georef.BedrockY, column, "minecraft:stone"); got != "minecraft:bedrock" {
		t.Errorf("got %q, want bedrock", got)
	}
}

func int32Ptr(v int32) *int32 { return &v }
