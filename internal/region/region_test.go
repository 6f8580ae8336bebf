package region

import (
	"bytes"
	"os"
	"testing"
)

func TestFloorDiv32NegativeInputs(t *testing.T) {
	cases := []struct{ a, b, want int32 }{
		{0, 32, 0},
		{31, 32, 0},
		{32, 32, 1},
		{-1, 32, -1},
		{-32, 32, -1},
		{-33, 32, -2},
	}
	for _, c := range cases {
		if got := floorDiv32(c.a, c.b); got != c.want {
			t.Errorf("floorDiv32(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestMod32AlwaysNonNegative(t *testing.T) {
	cases := []struct{ a, b, want int32 }{
		{0, 32, 0},
		{31, 32, 31},
		{32, 32, 0},
		{-1, 32, 31},
		{-32, 32, 0},
		{-33, 32, 31},
	}
	for _, c := range cases {
		if got := mod32(c.a, c.b); got != c.want {
			t.Errorf("mod32(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

// A chunk straddling a region boundary must still resolve to the region that
// contains it, and distinct regions must never collide on the same key.
func TestRegionBucketingMatchesDivEuclid(t *testing.T) {
	cases := []struct {
		chunkX, chunkZ int32
		wantX, wantZ   int32
	}{
		{0, 0, 0, 0},
		{31, 31, 0, 0},
		{32, 0, 1, 0},
		{-1, 0, -1, 0},
		{-32, -32, -1, -1},
		{-33, -1, -2, -1},
	}
	for _, c := range cases {
		gotX := floorDiv32(c.chunkX, chunksPerRegionSide)
		gotZ := floorDiv32(c.chunkZ, chunksPerRegionSide)
		if gotX != c.wantX || gotZ != c.wantZ {
			t.Errorf("chunk (%d,%d): region = (%d,%d), want (%d,%d)", c.chunkX, c.chunkZ, gotX, gotZ, c.wantX, c.wantZ)
		}
	}
}

func TestWriteChunkPayloadInlineSectorCount(t *testing.T) {
	var buf bytes.Buffer
	small := make([]byte, 10)
	sectors := writeChunkPayload(&buf, "", 0, 0, small)
	if sectors != 1 {
		t.Errorf("sectors = %d, want 1 for a small payload", sectors)
	}
	if buf.Len() != sectorBytes {
		t.Errorf("buffer length = %d, want exactly one sector (%d)", buf.Len(), sectorBytes)
	}
}

func TestWriteChunkPayloadSpillsToExternalFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	// maxInlineSectors worth of payload plus the 5-byte length and
	// compression-type prefix no longer fits inline and must spill to a
	// .mcc sidecar.
	oversized := make([]byte, maxInlineSectors*sectorBytes)
	sectors := writeChunkPayload(&buf, dir, 3, 4, oversized)
	if sectors != 1 {
		t.Errorf("external chunk should occupy exactly 1 inline sector, got %d", sectors)
	}
	if _, err := os.Stat(dir + "/c.3.4.mcc"); err != nil {
		t.Errorf("expected c.3.4.mcc sidecar to be written: %v", err)
	}
}

func TestWriteChunkPayloadStaysInlineAtThreshold(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	// maxInlineSectors worth of bytes minus the 5-byte length and
	// compression-type prefix should just barely fit without spilling.
	atLimit := make([]byte, maxInlineSectors*sectorBytes-5)
	sectors := writeChunkPayload(&buf, dir, 5, 6, atLimit)
	if sectors != maxInlineSectors {
		t.Errorf("sectors = %d, want %d at the inline threshold", sectors, maxInlineSectors)
	}
	if _, err := os.Stat(dir + "/c.5.6.mcc"); err == nil {
		t.Error("did not expect a .mcc sidecar at the inline threshold")
	}
}

// TestEmptyChunkRadiusPadsOnlyTheFrame exercises the same rectangle-vs-frame
// logic as Write's padding loop, directly, to confirm cells inside the
// populated rectangle are never padded, only the surrounding frame.
func TestEmptyChunkRadiusPadsOnlyTheFrame(t *testing.T) {
	minX, maxX := int32(0), int32(1)
	minZ, maxZ := int32(0), int32(1)
	radius := int32(1)

	insideRectangle := func(x, z int32) bool {
		return x >= minX && x <= maxX && z >= minZ && z <= maxZ
	}

	// Cells strictly inside the populated rectangle must be skipped.
	if insideRectangle(0, 0) != true || insideRectangle(1, 1) != true {
		t.Fatal("sanity check on rectangle membership failed")
	}

	// A frame cell just outside the rectangle must not be treated as inside.
	if insideRectangle(-1, 0) {
		t.Error("(-1,0) should be in the frame, not the rectangle")
	}
	if insideRectangle(2, 1) {
		t.Error("(2,1) should be in the frame, not the rectangle")
	}

	padMinX, padMaxX := minX-radius, maxX+radius
	padMinZ, padMaxZ := minZ-radius, maxZ+radius
	frameCount := 0
	for x := padMinX; x <= padMaxX; x++ {
		for z := padMinZ; z <= padMaxZ; z++ {
			if insideRectangle(x, z) {
				continue
			}
			frameCount++
		}
	}
	// 4x4 padded square minus the 2x2 populated rectangle.
	if want := 16 - 4; frameCount != want {
		t.Errorf("frame cell count = %d, want %d", frameCount, want)
	}
}
