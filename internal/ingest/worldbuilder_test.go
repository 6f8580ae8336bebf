package ingest

import (
	"testing"

	"github.com/defvs/francegen/internal/georef"
)

func TestModelBoundsContains(t *testing.T) {
	b := ModelBounds{MinX: 0, MaxX: 100, MinZ: 0, MaxZ: 100}
	if !b.Contains(georef.Coord{X: 50, Y: 50}) {
		t.Error("expected (50,50) to be inside bounds")
	}
	if b.Contains(georef.Coord{X: 150, Y: 50}) {
		t.Error("expected (150,50) to be outside bounds")
	}
	if !b.Contains(georef.Coord{X: 0, Y: 100}) {
		t.Error("bounds should be inclusive at the edges")
	}
}

func TestWorldBuilderSetOriginIsReported(t *testing.T) {
	wb := NewWorldBuilder(nil)
	origin := georef.Coord{X: 700000, Y: 6600000}
	wb.SetOrigin(origin)
	got, ok := wb.Origin()
	if !ok || got != origin {
		t.Fatalf("got (%v,%v), want %v", got, ok, origin)
	}
}

func TestWorldBuilderStatsEmptyBeforeIngest(t *testing.T) {
	wb := NewWorldBuilder(nil)
	if _, ok := wb.Stats(); ok {
		t.Error("expected no stats before any column is ingested")
	}
}

func TestWorldBuilderIngestRasterUpdatesStatsAndColumns(t *testing.T) {
	wb := NewWorldBuilder(nil)
	origin := georef.Coord{X: 0, Y: 0}
	wb.SetOrigin(origin)

	raster := &Raster{
		width: 2, height: 1,
		values:    []float64{10.0, 12.0},
		transform: Transform{pixelScale: georef.Coord{X: 1, Y: 1}},
	}
	wb.ingestRaster(raster)

	if wb.SampleCount() != 2 {
		t.Errorf("sample count = %d, want 2", wb.SampleCount())
	}
	if wb.ColumnCount() != 2 {
		t.Errorf("column count = %d, want 2", wb.ColumnCount())
	}
	stats, ok := wb.Stats()
	if !ok {
		t.Fatal("expected stats after ingest")
	}
	if stats.MinHeight != 10.0 || stats.MaxHeight != 12.0 {
		t.Errorf("min/max height = %v/%v, want 10/12", stats.MinHeight, stats.MaxHeight)
	}
}

func TestWorldBuilderRespectsModelBounds(t *testing.T) {
	bounds := ModelBounds{MinX: 0, MaxX: 0, MinZ: 0, MaxZ: 0}
	wb := NewWorldBuilder(&bounds)
	origin := georef.Coord{X: 0, Y: 0}
	wb.SetOrigin(origin)

	raster := &Raster{
		width: 2, height: 1,
		values:    []float64{10.0, 12.0},
		transform: Transform{pixelScale: georef.Coord{X: 1, Y: 1}},
	}
	wb.ingestRaster(raster)

	// Only the pixel at raster (0,0) -> model (0,0) is inside the
	// zero-area bounds rectangle; the second pixel must be filtered out.
	if wb.SampleCount() != 1 {
		t.Errorf("sample count = %d, want 1 with a zero-area bounds filter", wb.SampleCount())
	}
}

func TestStatsUnion(t *testing.T) {
	a := Stats{MinX: -5, MaxX: 5, MinZ: -5, MaxZ: 5, MinHeight: 0, MaxHeight: 10}
	b := Stats{MinX: 0, MaxX: 10, MinZ: 0, MaxZ: 10, MinHeight: 5, MaxHeight: 20}
	u := a.Union(b)
	if u.MinX != -5 || u.MaxX != 10 || u.MinZ != -5 || u.MaxZ != 10 {
		t.Errorf("bounds = (%d,%d,%d,%d), want (-5,10,-5,10)", u.MinX, u.MaxX, u.MinZ, u.MaxZ)
	}
	if u.MinHeight != 0 || u.MaxHeight != 20 {
		t.Errorf("height = (%v,%v), want (0,20)", u.MinHeight, u.MaxHeight)
	}
}
