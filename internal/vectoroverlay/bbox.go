package vectoroverlay

import (
	"fmt"
	"math"

	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/ingest"
)

// WorldBoundingBox is the ingested world's extent in Lambert93 metres,
// padded by a configurable margin before it is sent to Overpass.
type WorldBoundingBox struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// BoundingBoxFromStats derives the model-space bounding box of an ingested
// world from its column stats and origin, per spec.md §4.2/§4.6: world
// coordinates are already origin-relative, so the model X extent is the
// origin plus the world X extent and the model Z extent is the origin minus
// the world Z extent (world Z grows southward), padded by marginM on every
// side.
func BoundingBoxFromStats(stats ingest.Stats, origin georef.Coord, marginM float64) WorldBoundingBox {
	if marginM < 0 {
		marginM = 0
	}
	return WorldBoundingBox{
		MinX: origin.X + float64(stats.MinX) - marginM,
		MaxX: origin.X + float64(stats.MaxX) + marginM,
		MinZ: origin.Y - float64(stats.MaxZ) - marginM,
		MaxZ: origin.Y - float64(stats.MinZ) + marginM,
	}
}

// LatLonBounds is a WGS84 bounding box in degrees.
type LatLonBounds struct {
	South, North, West, East float64
}

// ToLatLon projects the four corners of box through proj and takes their
// extremes, since a conformal conic projection does not map an axis-aligned
// rectangle to another axis-aligned rectangle.
func (box WorldBoundingBox) ToLatLon(proj *georef.ConicProjection) LatLonBounds {
	corners := [4]georef.Coord{
		{X: box.MinX, Y: box.MinZ},
		{X: box.MinX, Y: box.MaxZ},
		{X: box.MaxX, Y: box.MinZ},
		{X: box.MaxX, Y: box.MaxZ},
	}
	bounds := LatLonBounds{South: math.Inf(1), North: math.Inf(-1), West: math.Inf(1), East: math.Inf(-1)}
	for _, c := range corners {
		lat, lon := proj.LambertToLatLon(c)
		bounds.South = math.Min(bounds.South, lat)
		bounds.North = math.Max(bounds.North, lat)
		bounds.West = math.Min(bounds.West, lon)
		bounds.East = math.Max(bounds.East, lon)
	}
	return bounds
}

// OverpassBBox formats the bounds as Overpass's "south,west,north,east"
// bbox parameter.
func (b LatLonBounds) OverpassBBox() string {
	return fmt.Sprintf("%.7f,%.7f,%.7f,%.7f", b.South, b.West, b.North, b.East)
}
