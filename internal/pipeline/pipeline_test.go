package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/defvs/francegen/internal/chunkenc"
	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/overlay"
	"github.com/defvs/francegen/internal/vectoroverlay"
	"github.com/defvs/francegen/internal/wmts"
)

func TestLocalCoordsWrapsNegativeCoordinates(t *testing.T) {
	lx, lz := localCoords(-1, -17)
	assert.Equal(t, 15, lx)
	assert.Equal(t, 15, lz)
}

func TestChunkForReusesExistingEntry(t *testing.T) {
	chunks := make(map[[2]int32]*chunkenc.ChunkHeights)
	first := chunkFor(chunks, 3, 3)
	second := chunkFor(chunks, 5, 5)
	assert.Same(t, first, second, "columns in the same chunk must share one ChunkHeights")
	assert.Len(t, chunks, 1)
}

func TestApplyTableSkipsColumnsWithoutAnOverlay(t *testing.T) {
	table := overlay.NewTable()
	biome := "minecraft:plains"
	table.Apply(0, 0, overlay.Overlay{Biome: &biome})

	columns := map[[2]int32]int32{{0, 0}: 10, {1, 0}: 10}
	chunks := make(map[[2]int32]*chunkenc.ChunkHeights)
	chunkFor(chunks, 0, 0).Set(0, 0, 10, nil)
	chunkFor(chunks, 1, 0).Set(1, 0, 10, nil)

	applyTable(chunks, table, columns)

	chunk := chunkFor(chunks, 0, 0)
	localX, localZ := localCoords(0, 0)
	assert.NotNil(t, chunk.Columns[localZ*chunkenc.SectionSide+localX].Overlay)

	localX, localZ = localCoords(1, 0)
	assert.Nil(t, chunk.Columns[localZ*chunkenc.SectionSide+localX].Overlay)
}

func TestSelectMatrixPicksResolutionClosestToOneMetre(t *testing.T) {
	matrices := map[string]wmts.TileMatrix{
		"0.5m": {ScaleDenominator: 0.5 / 0.00028},
		"1m":   {ScaleDenominator: 1.0 / 0.00028},
		"2m":   {ScaleDenominator: 2.0 / 0.00028},
	}
	assert.Equal(t, "1m", selectMatrix(matrices))
}

func TestComputeSpawnFallsBackWhenOriginColumnIsMissing(t *testing.T) {
	spawn := computeSpawn(map[[2]int32]int32{{5, 5}: 40}, georef.Coord{})
	assert.EqualValues(t, 100, spawn.Y)
}

func TestComputeSpawnUsesOriginColumnHeightWhenKnown(t *testing.T) {
	spawn := computeSpawn(map[[2]int32]int32{{0, 0}: 40}, georef.Coord{})
	assert.EqualValues(t, 42, spawn.Y)
}

func TestChunksFromColumnsAndChunkOfAgree(t *testing.T) {
	columns := map[[2]int32]int32{{0, 0}: 1, {20, 20}: 1}
	set := vectoroverlay.ChunksFromColumns(columns)
	for key := range columns {
		_, ok := set[vectoroverlay.ChunkOf(key[0], key[1])]
		assert.True(t, ok)
	}
}
