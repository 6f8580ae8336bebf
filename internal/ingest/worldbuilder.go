package ingest

import (
	"fmt"
	"math"

	"github.com/defvs/francegen/internal/georef"
)

// ModelBounds optionally restricts ingest to a rectangle in model (Lambert93)
// coordinates, filtering samples before they reach the column map.
type ModelBounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Contains reports whether coord falls within the bounds, inclusive.
func (b ModelBounds) Contains(coord georef.Coord) bool {
	return coord.X >= b.MinX && coord.X <= b.MaxX && coord.Y >= b.MinZ && coord.Y <= b.MaxZ
}

// Stats summarizes the columns ingested so far: running bounds and height
// extremes, used for the `info`/`bounds` subcommands and sidecar metadata.
type Stats struct {
	Width, Depth         int
	MinHeight, MaxHeight float64
	MinX, MaxX           int32
	MinZ, MaxZ           int32
	CenterX, CenterZ     float64
}

// Union combines two Stats into the bounding stats of both, so stats
// gathered from separate sets of tiles can be merged.
func (s Stats) Union(other Stats) Stats {
	minX, maxX := minI32(s.MinX, other.MinX), maxI32(s.MaxX, other.MaxX)
	minZ, maxZ := minI32(s.MinZ, other.MinZ), maxI32(s.MaxZ, other.MaxZ)
	return Stats{
		Width:     int(maxI32(maxX-minX+1, 0)),
		Depth:     int(maxI32(maxZ-minZ+1, 0)),
		MinHeight: math.Min(s.MinHeight, other.MinHeight),
		MaxHeight: math.Max(s.MaxHeight, other.MaxHeight),
		MinX:      minX, MaxX: maxX,
		MinZ: minZ, MaxZ: maxZ,
		CenterX: float64(minX+maxX) / 2,
		CenterZ: float64(minZ+maxZ) / 2,
	}
}

// WorldBuilder folds a sequence of GeoTIFF tiles into a sparse world-space
// column-height map sharing one origin, per spec.md §4.2.
type WorldBuilder struct {
	bounds  *ModelBounds
	origin  *georef.Coord
	columns map[columnKey]int32
	samples int

	minX, maxX int32
	minZ, maxZ int32
	minHeight  float64
	maxHeight  float64
}

type columnKey struct{ X, Z int32 }

// NewWorldBuilder creates a builder, optionally restricted to bounds.
func NewWorldBuilder(bounds *ModelBounds) *WorldBuilder {
	return &WorldBuilder{
		bounds:    bounds,
		columns:   make(map[columnKey]int32),
		minX:      math.MaxInt32,
		maxX:      math.MinInt32,
		minZ:      math.MaxInt32,
		maxZ:      math.MinInt32,
		minHeight: math.Inf(1),
		maxHeight: math.Inf(-1),
	}
}

// SetOrigin fixes the world origin explicitly, overriding the
// first-tile-wins default (used when resuming or when a caller wants a
// stable origin across independent runs).
func (b *WorldBuilder) SetOrigin(origin georef.Coord) { b.origin = &origin }

// Origin reports the frozen world origin, if one has been established.
func (b *WorldBuilder) Origin() (georef.Coord, bool) {
	if b.origin == nil {
		return georef.Coord{}, false
	}
	return *b.origin, true
}

// SampleCount and ColumnCount report ingest progress for logging.
func (b *WorldBuilder) SampleCount() int { return b.samples }
func (b *WorldBuilder) ColumnCount() int { return len(b.columns) }

// IngestTile opens path and folds its pixels into the column map. The
// first tile ingested fixes the world origin.
func (b *WorldBuilder) IngestTile(path string) error {
	raster, err := Open(path)
	if err != nil {
		return err
	}
	if b.origin == nil {
		origin := raster.Origin()
		b.origin = &origin
	}
	b.ingestRaster(raster)
	return nil
}

func (b *WorldBuilder) ingestRaster(raster *Raster) {
	origin := *b.origin
	for row := 0; row < raster.Height(); row++ {
		for col := 0; col < raster.Width(); col++ {
			elevation, ok := raster.Sample(col, row)
			if !ok {
				continue
			}
			coord := raster.CoordFor(col, row)
			if b.bounds != nil && !b.bounds.Contains(coord) {
				continue
			}
			b.samples++
			wx, wz := georef.ModelToWorld(origin, coord)
			block := georef.DEMToBlock(elevation)
			b.columns[columnKey{X: wx, Z: wz}] = block
			b.updateStats(wx, wz, elevation)
		}
	}
}

func (b *WorldBuilder) updateStats(x, z int32, elevation float64) {
	b.minX = minI32(b.minX, x)
	b.maxX = maxI32(b.maxX, x)
	b.minZ = minI32(b.minZ, z)
	b.maxZ = maxI32(b.maxZ, z)
	b.minHeight = math.Min(b.minHeight, elevation)
	b.maxHeight = math.Max(b.maxHeight, elevation)
}

// Stats returns the running bounds/height summary, or ok=false before any
// sample has been ingested.
func (b *WorldBuilder) Stats() (Stats, bool) {
	if len(b.columns) == 0 {
		return Stats{}, false
	}
	return Stats{
		Width:     int(b.maxX-b.minX) + 1,
		Depth:     int(b.maxZ-b.minZ) + 1,
		MinHeight: b.minHeight,
		MaxHeight: b.maxHeight,
		MinX:      b.minX, MaxX: b.maxX,
		MinZ: b.minZ, MaxZ: b.maxZ,
		CenterX: float64(b.minX+b.maxX) / 2,
		CenterZ: float64(b.minZ+b.maxZ) / 2,
	}, true
}

// Columns exposes the ingested world_x,world_z -> block_Y map. The caller
// (internal/slope, then internal/region) owns fanning it out into chunks.
func (b *WorldBuilder) Columns() map[[2]int32]int32 {
	out := make(map[[2]int32]int32, len(b.columns))
	for k, v := range b.columns {
		out[[2]int32{k.X, k.Z}] = v
	}
	return out
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// ErrNoSamples is returned by callers (not WorldBuilder itself) when every
// tile was rejected and no sample was ever ingested, matching spec.md's
// "all tiles rejected yield no stats and a later MetadataUnavailable".
var ErrNoSamples = fmt.Errorf("no samples were ingested from any tile")
