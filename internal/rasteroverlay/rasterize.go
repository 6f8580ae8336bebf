package rasteroverlay

import (
	"image"

	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/overlay"
	"github.com/defvs/francegen/internal/wmts"
)

// TileKey identifies a decoded tile image within a TileMatrix.
type TileKey struct{ Row, Col uint32 }

// Rasterizer samples decoded WMTS tile pixels at every already-ingested
// column's projected position and paints matching colour rules into table.
//
// Unlike internal/vectoroverlay (which stamps lattice points that may not
// correspond to an ingested column and must therefore check chunk
// existence before painting), this rasterizer only ever visits columns
// that are already known to exist — it is driven directly by the ingested
// column map rather than by iterating every local position of every
// chunk — so no separate "missing chunk" check is needed.
type Rasterizer struct {
	table    *overlay.Table
	origin   georef.Coord
	toTarget func(georef.Coord) georef.Coord
	matrix   wmts.TileMatrix
	coverage wmts.Coverage
	tiles    map[TileKey]image.Image
}

// NewRasterizer builds a Rasterizer. toTarget converts a Lambert93 model
// coordinate into the WMTS tile matrix set's CRS (typically
// georef.NewCRSTransform(matrixSet.SupportedCRS).ToTarget).
func NewRasterizer(
	table *overlay.Table,
	origin georef.Coord,
	toTarget func(georef.Coord) georef.Coord,
	matrix wmts.TileMatrix,
	coverage wmts.Coverage,
	tiles map[TileKey]image.Image,
) *Rasterizer {
	return &Rasterizer{
		table: table, origin: origin, toTarget: toTarget,
		matrix: matrix, coverage: coverage, tiles: tiles,
	}
}

// ApplyColumns visits every world column in columns, locating it within
// the tile coverage and testing it against rules in declaration order,
// applying the first rule whose colour matches (spec.md §4.7's "first
// match wins" rule). It returns how many columns were painted.
func (r *Rasterizer) ApplyColumns(columns map[[2]int32]int32, rules []ColorRule, orderOffset uint32) int {
	painted := 0
	for key := range columns {
		wx, wz := key[0], key[1]
		pixel, ok := r.samplePixel(wx, wz)
		if !ok {
			continue
		}
		for _, rule := range rules {
			if rule.Matches(pixel) {
				r.table.Apply(wx, wz, rule.overlayTemplate(rule.Order(orderOffset)))
				painted++
				break
			}
		}
	}
	return painted
}

func (r *Rasterizer) samplePixel(wx, wz int32) (RGBA, bool) {
	model := georef.WorldToModel(r.origin, wx, wz)
	target := r.toTarget(model)
	sample, ok := wmts.LocatePixel(target.X, target.Y, r.matrix)
	if !ok || !r.coverage.Contains(sample.Col, sample.Row) {
		return RGBA{}, false
	}
	img, ok := r.tiles[TileKey{Row: sample.Row, Col: sample.Col}]
	if !ok {
		return RGBA{}, false
	}
	bounds := img.Bounds()
	x, y := bounds.Min.X+sample.PixelX, bounds.Min.Y+sample.PixelY
	if x >= bounds.Max.X || y >= bounds.Max.Y {
		return RGBA{}, false
	}
	red, green, blue, alpha := img.At(x, y).RGBA()
	return RGBA{R: uint8(red >> 8), G: uint8(green >> 8), B: uint8(blue >> 8), A: uint8(alpha >> 8)}, true
}
