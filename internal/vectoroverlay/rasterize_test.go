package vectoroverlay

import (
	"testing"

	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/overlay"
	"github.com/defvs/francegen/internal/overpass"
)

// gridChunks builds a ChunkSet covering every chunk coordinate in
// [-halfWidthChunks, halfWidthChunks] on both axes, roomy enough for the
// small fixtures below.
func gridChunks(halfWidthChunks int32) ChunkSet {
	set := make(ChunkSet)
	for cx := -halfWidthChunks; cx <= halfWidthChunks; cx++ {
		for cz := -halfWidthChunks; cz <= halfWidthChunks; cz++ {
			set[ChunkKey{X: cx, Z: cz}] = struct{}{}
		}
	}
	return set
}

func TestRasterizeLineStampsSwathOfSpecifiedWidth(t *testing.T) {
	table := overlay.NewTable()
	r := &Rasterizer{table: table, chunks: gridChunks(2)}

	path := []worldPoint{{X: 0, Z: 0}, {X: 10, Z: 0}}
	style := "minecraft:gravel"
	o := overlay.Overlay{SurfaceBlock: &style}
	painted := r.rasterizeLine(path, 3, o)
	if painted == 0 {
		t.Fatal("expected at least one column painted")
	}
	for x := int32(0); x <= 10; x++ {
		for _, z := range []int32{-1, 0, 1} {
			if _, ok := table.Lookup(x, z); !ok {
				t.Errorf("expected a stamp at (%d,%d)", x, z)
			}
		}
	}
}

func TestRasterizeLineSkipsColumnsOutsideKnownChunks(t *testing.T) {
	table := overlay.NewTable()
	r := &Rasterizer{table: table, chunks: ChunkSet{}}
	path := []worldPoint{{X: 0, Z: 0}, {X: 5, Z: 0}}
	painted := r.rasterizeLine(path, 1, overlay.Overlay{})
	if painted != 0 {
		t.Errorf("painted = %d, want 0 with no known chunks", painted)
	}
}

func TestRasterizePolygonFillsInteriorOnly(t *testing.T) {
	table := overlay.NewTable()
	r := &Rasterizer{table: table, chunks: gridChunks(2)}

	square := []worldPoint{{X: 0, Z: 0}, {X: 10, Z: 0}, {X: 10, Z: 10}, {X: 0, Z: 10}}
	style := "minecraft:sand"
	o := overlay.Overlay{SurfaceBlock: &style}
	painted := r.rasterizePolygon(square, o)
	if painted == 0 {
		t.Fatal("expected interior columns painted")
	}
	if _, ok := table.Lookup(5, 5); !ok {
		t.Error("expected center of square to be painted")
	}
	if _, ok := table.Lookup(50, 50); ok {
		t.Error("did not expect a far-away column to be painted")
	}
}

func TestApplyLayerConvertsLatLonAndHonoursKind(t *testing.T) {
	table := overlay.NewTable()
	chunks := gridChunks(4)
	origin := georef.Coord{X: 700_000, Y: 6_600_000}
	proj := georef.NewLambert93()
	r := NewRasterizer(table, chunks, origin, proj)

	lat, lon := proj.LambertToLatLon(origin)
	lat2, lon2 := proj.LambertToLatLon(georef.Coord{X: origin.X + 20, Y: origin.Y})

	layer := Layer{
		Kind:  Line,
		Width: WidthSource{Default: 2},
	}
	resp := overpass.Response{Elements: []overpass.Element{
		{Geometry: []overpass.Point{{Lat: lat, Lon: lon}, {Lat: lat2, Lon: lon2}}},
	}}
	painted := r.ApplyLayer(layer, resp, 0)
	if painted == 0 {
		t.Fatal("expected at least one column painted from a line element")
	}
	if _, ok := table.Lookup(0, 0); !ok {
		t.Error("expected the origin column to be painted")
	}
}

func TestApplyLayerSkipsElementsWithFewerThanTwoVertices(t *testing.T) {
	table := overlay.NewTable()
	r := NewRasterizer(table, gridChunks(2), georef.Coord{}, georef.NewLambert93())
	resp := overpass.Response{Elements: []overpass.Element{
		{Geometry: []overpass.Point{{Lat: 0, Lon: 0}}},
		{Geometry: nil},
	}}
	if painted := r.ApplyLayer(Layer{Kind: Line}, resp, 0); painted != 0 {
		t.Errorf("painted = %d, want 0", painted)
	}
}

func TestChunksFromColumnsCoversEveryColumnsChunk(t *testing.T) {
	columns := map[[2]int32]int32{
		{0, 0}:   10,
		{20, 20}: 12,
		{-5, -5}: 8,
	}
	set := ChunksFromColumns(columns)
	for key := range columns {
		if _, ok := set[chunkOf(key[0], key[1])]; !ok {
			t.Errorf("expected chunk for column %v to be present", key)
		}
	}
}

func TestFloorDivChunkMatchesDivEuclid(t *testing.T) {
	cases := []struct{ v, want int32 }{
		{0, 0}, {15, 0}, {16, 1}, {-1, -1}, {-16, -1}, {-17, -2},
	}
	for _, c := range cases {
		if got := floorDivChunk(c.v); got != c.want {
			t.Errorf("floorDivChunk(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}
