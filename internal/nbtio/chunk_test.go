package nbtio

import (
	"testing"

	"github.com/defvs/francegen/internal/chunkenc"
	"github.com/defvs/francegen/internal/terrain"
)

func TestFromChunkPreservesCoordinatesAndStatus(t *testing.T) {
	policy := &terrain.Policy{
		TopLayerBlock:     "minecraft:grass_block",
		BottomLayerBlock:  "minecraft:stone",
		TopLayerThickness: 3,
		BaseBiome:         "minecraft:plains",
	}
	heights := &chunkenc.ChunkHeights{}
	for lz := 0; lz < chunkenc.SectionSide; lz++ {
		for lx := 0; lx < chunkenc.SectionSide; lx++ {
			heights.Set(lx, lz, 0, nil)
		}
	}
	chunk := chunkenc.Build(5, -3, heights, policy, false)

	nbtChunk := fromChunk(chunk, 100, 50)
	if nbtChunk.XPos != 5 || nbtChunk.ZPos != -3 {
		t.Errorf("got xPos=%d zPos=%d, want 5/-3", nbtChunk.XPos, nbtChunk.ZPos)
	}
	if nbtChunk.Status != chunk.Status {
		t.Errorf("status mismatch: %q vs %q", nbtChunk.Status, chunk.Status)
	}
	if nbtChunk.YPos != chunkenc.SectionYMin {
		t.Errorf("yPos = %d, want %d", nbtChunk.YPos, chunkenc.SectionYMin)
	}
	if len(nbtChunk.Sections) != len(chunk.Sections) {
		t.Errorf("section count mismatch: %d vs %d", len(nbtChunk.Sections), len(chunk.Sections))
	}
}

func TestEncodeChunkProducesNonEmptyBytes(t *testing.T) {
	policy := &terrain.Policy{
		TopLayerBlock:     "minecraft:grass_block",
		BottomLayerBlock:  "minecraft:stone",
		TopLayerThickness: 3,
		BaseBiome:         "minecraft:plains",
	}
	heights := &chunkenc.ChunkHeights{}
	for lz := 0; lz < chunkenc.SectionSide; lz++ {
		for lx := 0; lx < chunkenc.SectionSide; lx++ {
			heights.Set(lx, lz, 0, nil)
		}
	}
	chunk := chunkenc.Build(0, 0, heights, policy, false)

	raw, err := EncodeChunk(chunk, 0, 0)
	if err != nil {
		t.Fatalf("EncodeChunk: %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected non-empty NBT bytes")
	}

	compressed, err := EncodeChunkCompressed(chunk, 0, 0)
	if err != nil {
		t.Fatalf("EncodeChunkCompressed: %v", err)
	}
	if len(compressed) == 0 {
		t.Error("expected non-empty compressed bytes")
	}
}

func TestEncodeEmptyChunkProducesNonEmptyBytes(t *testing.T) {
	raw, err := EncodeEmptyChunk(1, 2, true, 0, 0)
	if err != nil {
		t.Fatalf("EncodeEmptyChunk: %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected non-empty NBT bytes for an empty chunk")
	}
}
