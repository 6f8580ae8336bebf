package vectoroverlay

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/defvs/francegen/internal/chunkenc"
	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/overlay"
	"github.com/defvs/francegen/internal/overpass"
)

// ChunkKey identifies a chunk by its (x, z) chunk coordinates (world column
// coordinates divided by chunkenc.SectionSide, floor-rounded).
type ChunkKey struct{ X, Z int32 }

// ChunkSet is the set of chunks that exist in the world being overlaid;
// stamps outside this set are skipped rather than creating new chunks
// (spec.md §4.6).
type ChunkSet map[ChunkKey]struct{}

// ChunksFromColumns derives the set of populated chunks from a world's
// sparse column map (as produced by internal/ingest.WorldBuilder.Columns).
func ChunksFromColumns(columns map[[2]int32]int32) ChunkSet {
	set := make(ChunkSet, len(columns)/4+1)
	for key := range columns {
		set[chunkOf(key[0], key[1])] = struct{}{}
	}
	return set
}

func chunkOf(x, z int32) ChunkKey {
	return ChunkKey{X: floorDivChunk(x), Z: floorDivChunk(z)}
}

// ChunkOf returns the chunk containing world column (x, z), for collaborators
// such as internal/pipeline that key chunks the same way.
func ChunkOf(x, z int32) ChunkKey { return chunkOf(x, z) }

func floorDivChunk(v int32) int32 {
	const side = int32(chunkenc.SectionSide)
	q := v / side
	if v%side != 0 && (v < 0) != (side < 0) {
		q--
	}
	return q
}

// Rasterizer paints OSM layers into an overlay table, skipping any stamp
// whose containing chunk is not present in chunks.
type Rasterizer struct {
	table  *overlay.Table
	chunks ChunkSet
	origin georef.Coord
	proj   *georef.ConicProjection
}

// NewRasterizer builds a Rasterizer painting into table, restricted to
// chunks, converting Overpass lat/lon geometry back to world coordinates
// relative to origin.
func NewRasterizer(table *overlay.Table, chunks ChunkSet, origin georef.Coord, proj *georef.ConicProjection) *Rasterizer {
	return &Rasterizer{table: table, chunks: chunks, origin: origin, proj: proj}
}

// worldPoint is a painted vertex in integer world (x, z) coordinates.
type worldPoint struct{ X, Z int32 }

func (r *Rasterizer) toWorld(p overpass.Point) worldPoint {
	model := r.proj.LatLonToLambert(p.Lat, p.Lon)
	wx, wz := georef.ModelToWorld(r.origin, model)
	return worldPoint{X: wx, Z: wz}
}

// ApplyLayer paints every rasterizable element of resp against layer, using
// orderOffset as the base declaration order (spec.md §4.5). It returns the
// number of columns painted (for progress reporting).
func (r *Rasterizer) ApplyLayer(layer Layer, resp overpass.Response, orderOffset uint32) int {
	order := layer.Order(orderOffset)
	painted := 0
	for _, el := range resp.Elements {
		if len(el.Geometry) < 2 {
			continue
		}
		path := make([]worldPoint, len(el.Geometry))
		for i, pt := range el.Geometry {
			path[i] = r.toWorld(pt)
		}
		o := layer.overlayTemplate(order, el.Tags)
		switch layer.Kind {
		case Line:
			width := layer.Width.Resolve(el.Tags)
			painted += r.rasterizeLine(path, width, o)
		case Polygon:
			painted += r.rasterizePolygon(path, o)
		}
	}
	return painted
}

func (r *Rasterizer) rasterizeLine(path []worldPoint, widthM float64, o overlay.Overlay) int {
	if len(path) < 2 {
		return 0
	}
	radius := int32(math.Ceil(widthM / 2))
	if radius < 1 {
		radius = 1
	}
	painted := 0
	for i := 0; i+1 < len(path); i++ {
		p0, p1 := path[i], path[i+1]
		dx, dz := p1.X-p0.X, p1.Z-p0.Z
		steps := absI32(dx)
		if absI32(dz) > steps {
			steps = absI32(dz)
		}
		if steps < 1 {
			steps = 1
		}
		for step := int32(0); step <= steps; step++ {
			t := float64(step) / float64(steps)
			x := int32(math.Round(float64(p0.X) + float64(dx)*t))
			z := int32(math.Round(float64(p0.Z) + float64(dz)*t))
			painted += r.paintDisk(x, z, radius, o)
		}
	}
	return painted
}

func (r *Rasterizer) paintDisk(centerX, centerZ, radius int32, o overlay.Overlay) int {
	painted := 0
	rSq := radius * radius
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dz*dz > rSq {
				continue
			}
			if r.applyColumn(centerX+dx, centerZ+dz, o) {
				painted++
			}
		}
	}
	return painted
}

func (r *Rasterizer) rasterizePolygon(path []worldPoint, o overlay.Overlay) int {
	if len(path) < 3 {
		return 0
	}
	ring := make(orb.Ring, 0, len(path)+1)
	for _, p := range path {
		ring = append(ring, orb.Point{float64(p.X), float64(p.Z)})
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	polygon := orb.Polygon{ring}

	minX, maxX, minZ, maxZ := boundingBox(ring)
	painted := 0
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			point := orb.Point{float64(x) + 0.5, float64(z) + 0.5}
			if planar.PolygonContains(polygon, point) {
				if r.applyColumn(x, z, o) {
					painted++
				}
			}
		}
	}
	return painted
}

func boundingBox(ring orb.Ring) (minX, maxX, minZ, maxZ int32) {
	minX, minZ = math.MaxInt32, math.MaxInt32
	maxX, maxZ = math.MinInt32, math.MinInt32
	for _, p := range ring {
		x, z := int32(math.Floor(p[0])), int32(math.Floor(p[1]))
		xc, zc := int32(math.Ceil(p[0])), int32(math.Ceil(p[1]))
		if x < minX {
			minX = x
		}
		if xc > maxX {
			maxX = xc
		}
		if z < minZ {
			minZ = z
		}
		if zc > maxZ {
			maxZ = zc
		}
	}
	return
}

func (r *Rasterizer) applyColumn(x, z int32, o overlay.Overlay) bool {
	if _, ok := r.chunks[chunkOf(x, z)]; !ok {
		return false
	}
	r.table.Apply(x, z, o)
	return true
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
