package wmts

import "testing"

func testMatrix() TileMatrix {
	return TileMatrix{
		TopLeftX: -100, TopLeftY: 100,
		ScaleDenominator: 1 / 0.00028, // resolution == 1 unit/pixel
		TileWidth:        10, TileHeight: 10,
		MatrixWidth: 20, MatrixHeight: 20,
	}
}

func TestResolutionMatchesScaleDenominatorFormula(t *testing.T) {
	m := TileMatrix{ScaleDenominator: 1000}
	want := 1000 * 0.00028
	if got := m.Resolution(); got != want {
		t.Errorf("Resolution() = %v, want %v", got, want)
	}
}

func TestComputeCoverageCoversExpectedTileRange(t *testing.T) {
	m := testMatrix()
	// A box from (-100,100) [top-left] spanning 30x30 units at
	// one-unit-per-pixel, 10px tiles (10 units/tile) covers tiles col 0..3,
	// row 0..3: the end index is rounded up, so the tiles that start on the
	// box's far edges are included.
	corners := [4][2]float64{{-100, 100}, {-100, 70}, {-70, 100}, {-70, 70}}
	cov := ComputeCoverage(corners, m, nil)
	if cov.ColStart != 0 || cov.RowStart != 0 {
		t.Errorf("start = (%d,%d), want (0,0)", cov.ColStart, cov.RowStart)
	}
	if len(cov.Tiles) == 0 {
		t.Fatal("expected at least one tile")
	}
}

func TestComputeCoverageAppliesLimits(t *testing.T) {
	m := testMatrix()
	corners := [4][2]float64{{-100, 100}, {-100, 0}, {0, 100}, {0, 0}}
	limits := &TileMatrixLimits{MinRow: 1, MaxRow: 1, MinCol: 1, MaxCol: 1}
	cov := ComputeCoverage(corners, m, limits)
	if len(cov.Tiles) != 1 || cov.Tiles[0] != (TileCoordinate{Row: 1, Col: 1}) {
		t.Errorf("tiles = %v, want exactly (1,1)", cov.Tiles)
	}
}

func TestComputeCoverageEmptyWhenLimitsExcludeEverything(t *testing.T) {
	m := testMatrix()
	corners := [4][2]float64{{-100, 100}, {-100, 90}, {-90, 100}, {-90, 90}}
	limits := &TileMatrixLimits{MinRow: 15, MaxRow: 19, MinCol: 15, MaxCol: 19}
	cov := ComputeCoverage(corners, m, limits)
	if len(cov.Tiles) != 0 {
		t.Errorf("tiles = %v, want none", cov.Tiles)
	}
}

func TestLocatePixelWithinFirstTile(t *testing.T) {
	m := testMatrix()
	sample, ok := LocatePixel(-95, 95, m)
	if !ok {
		t.Fatal("expected a valid sample")
	}
	if sample.Row != 0 || sample.Col != 0 {
		t.Errorf("sample = %+v, want row=0 col=0", sample)
	}
	if sample.PixelX != 5 || sample.PixelY != 5 {
		t.Errorf("pixel = (%d,%d), want (5,5)", sample.PixelX, sample.PixelY)
	}
}

func TestLocatePixelOutsideMatrixFails(t *testing.T) {
	m := testMatrix()
	if _, ok := LocatePixel(1000, 1000, m); ok {
		t.Error("expected LocatePixel to fail far outside the matrix")
	}
	if _, ok := LocatePixel(-200, 95, m); ok {
		t.Error("expected LocatePixel to fail west of the matrix origin")
	}
}

func TestCoverageContains(t *testing.T) {
	cov := Coverage{ColStart: 2, ColEnd: 5, RowStart: 1, RowEnd: 3}
	if !cov.Contains(3, 2) {
		t.Error("expected (3,2) to be contained")
	}
	if cov.Contains(6, 2) {
		t.Error("did not expect (6,2) to be contained")
	}
}
