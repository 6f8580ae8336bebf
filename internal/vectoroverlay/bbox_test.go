package vectoroverlay

import (
	"strings"
	"testing"

	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/ingest"
)

func TestBoundingBoxFromStatsAppliesMarginOnEverySide(t *testing.T) {
	stats := ingest.Stats{MinX: 0, MaxX: 100, MinZ: 0, MaxZ: 50}
	origin := georef.Coord{X: 700_000, Y: 6_600_000}
	box := BoundingBoxFromStats(stats, origin, 10)

	if box.MinX != origin.X-10 {
		t.Errorf("MinX = %v, want %v", box.MinX, origin.X-10)
	}
	if box.MaxX != origin.X+100+10 {
		t.Errorf("MaxX = %v, want %v", box.MaxX, origin.X+110)
	}
	if box.MinZ != origin.Y-50-10 {
		t.Errorf("MinZ = %v, want %v", box.MinZ, origin.Y-60)
	}
	if box.MaxZ != origin.Y+10 {
		t.Errorf("MaxZ = %v, want %v", box.MaxZ, origin.Y+10)
	}
}

func TestBoundingBoxFromStatsTreatsNegativeMarginAsZero(t *testing.T) {
	stats := ingest.Stats{MinX: 0, MaxX: 10, MinZ: 0, MaxZ: 10}
	origin := georef.Coord{}
	box := BoundingBoxFromStats(stats, origin, -5)
	if box.MaxX != 10 {
		t.Errorf("MaxX = %v, want 10 (negative margin ignored)", box.MaxX)
	}
}

func TestToLatLonAndOverpassBBoxFormat(t *testing.T) {
	proj := georef.NewLambert93()
	box := WorldBoundingBox{MinX: 600_000, MaxX: 700_000, MinZ: 6_500_000, MaxZ: 6_600_000}
	bounds := box.ToLatLon(proj)
	if bounds.South >= bounds.North {
		t.Errorf("south %v should be less than north %v", bounds.South, bounds.North)
	}
	if bounds.West >= bounds.East {
		t.Errorf("west %v should be less than east %v", bounds.West, bounds.East)
	}
	param := bounds.OverpassBBox()
	if strings.Count(param, ",") != 3 {
		t.Errorf("bbox param = %q, want 4 comma-separated fields", param)
	}
}
