package lidar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/defvs/francegen/internal/chunkenc"
	"github.com/defvs/francegen/internal/georef"
)

func surfaceHeight(chunk *chunkenc.ChunkHeights, localX, localZ int) *int32 {
	return chunk.Columns[localZ*chunkenc.SectionSide+localX].Height
}

func TestApplyBuildingsPillarsAboveSurface(t *testing.T) {
	dir := t.TempDir()
	chunk := &chunkenc.ChunkHeights{}
	chunk.Set(0, 0, 64, nil)
	chunks := map[[2]int32]*chunkenc.ChunkHeights{{0, 0}: chunk}

	topY := int32(80)
	elevation := float64(topY - georef.BedrockY)
	// writeLASFixture writes into its own tempdir; move it into dir for CollectFiles.
	path := writeLASFixture(t, []Point{
		{X: 0, Y: 0, Z: elevation, Classification: 6},
		{X: 0, Y: 0, Z: elevation - 5, Classification: 6},
	})
	if err := os.Rename(path, filepath.Join(dir, "tile.las")); err != nil {
		t.Fatal(err)
	}

	result, err := ApplyBuildings(chunks, georef.Coord{}, dir, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if result.ColumnsPainted != 1 {
		t.Fatalf("columns painted = %d, want 1", result.ColumnsPainted)
	}
	if result.BlocksPlaced != 16 {
		t.Fatalf("blocks placed = %d, want 16", result.BlocksPlaced)
	}
	got := chunk.Columns[0].Overlay
	if got == nil || got.Extrusion == nil || got.Extrusion.HeightBlocks != 16 {
		t.Fatalf("overlay = %+v", got)
	}
}

func TestApplyBuildingsSkipsPointsBelowSurface(t *testing.T) {
	dir := t.TempDir()
	chunk := &chunkenc.ChunkHeights{}
	chunk.Set(0, 0, 64, nil)
	chunks := map[[2]int32]*chunkenc.ChunkHeights{{0, 0}: chunk}

	// Building point whose DEM height resolves below the existing surface.
	elevation := float64(50 - georef.BedrockY)
	path := writeLASFixture(t, []Point{{X: 0, Y: 0, Z: elevation, Classification: 6}})
	if err := os.Rename(path, filepath.Join(dir, "tile.las")); err != nil {
		t.Fatal(err)
	}

	result, err := ApplyBuildings(chunks, georef.Coord{}, dir, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if result.ColumnsPainted != 0 {
		t.Errorf("columns painted = %d, want 0", result.ColumnsPainted)
	}
	if chunk.Columns[0].Overlay != nil {
		t.Error("expected no overlay for a below-surface building point")
	}
}

func TestApplyBuildingsDropsPointsInMissingChunks(t *testing.T) {
	dir := t.TempDir()
	// Only a chunk far from the point exists; an empty map would skip the
	// pass before any file is read (see TestApplyBuildingsEmptyChunksIsNoop).
	chunks := map[[2]int32]*chunkenc.ChunkHeights{{5, 5}: {}}

	elevation := float64(80 - georef.BedrockY)
	path := writeLASFixture(t, []Point{{X: 0, Y: 0, Z: elevation, Classification: 6}})
	if err := os.Rename(path, filepath.Join(dir, "tile.las")); err != nil {
		t.Fatal(err)
	}

	result, err := ApplyBuildings(chunks, georef.Coord{}, dir, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if result.ColumnsPainted != 0 || result.PointsSeen != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestApplyBuildingsEmptyChunksIsNoop(t *testing.T) {
	result, err := ApplyBuildings(nil, georef.Coord{}, t.TempDir(), DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if result.PointsSeen != 0 {
		t.Errorf("expected no points processed for an empty chunk map")
	}
}

func TestSplitIntoBandsCoversFullRange(t *testing.T) {
	ys := []int32{10, 11, 12, 20}
	bands := splitIntoBands(ys, 2)
	if len(bands) == 0 {
		t.Fatal("expected at least one band")
	}
	if bands[0][0] != 10 {
		t.Errorf("first band low = %d, want 10", bands[0][0])
	}
	if bands[len(bands)-1][1] != 20 {
		t.Errorf("last band high = %d, want 20", bands[len(bands)-1][1])
	}
}

func TestDilateThenErodeXYKeepsEveryCellOfASolidBlock(t *testing.T) {
	block := map[[2]int32]struct{}{}
	for x := int32(0); x < 4; x++ {
		for z := int32(0); z < 4; z++ {
			block[[2]int32{x, z}] = struct{}{}
		}
	}
	closed := erodeXY(dilateXY(block, 1), 1)
	for coord := range block {
		if _, ok := closed[coord]; !ok {
			t.Errorf("expected %v to survive closing", coord)
		}
	}
}
