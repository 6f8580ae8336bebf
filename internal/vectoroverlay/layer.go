// Package vectoroverlay implements the vector rasterizer (C6): paints OSM
// lines (as disks) and polygons (scanline fill) into the overlay model.
package vectoroverlay

import (
	"math"
	"strconv"

	"github.com/defvs/francegen/internal/overlay"
)

// Geometry selects how a layer's Overpass elements are rasterized.
type Geometry int

const (
	Line Geometry = iota
	Polygon
)

// WidthSource resolves a line's real-world width in metres: look up TagKey
// in the feature's tag map (when set), multiply by Multiplier, clamp to
// [Min, Max] (when set), falling back to Default when the tag is absent or
// unparsable.
type WidthSource struct {
	TagKey     string
	Multiplier float64
	Min, Max   *float64
	Default    float64
}

// Resolve computes w_m per spec.md §4.6.
func (w WidthSource) Resolve(tags map[string]string) float64 {
	value := w.Default
	if w.TagKey != "" {
		if raw, ok := tags[w.TagKey]; ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				value = parsed * multiplierOrOne(w.Multiplier)
			}
		}
	}
	if w.Min != nil && value < *w.Min {
		value = *w.Min
	}
	if w.Max != nil && value > *w.Max {
		value = *w.Max
	}
	return value
}

func multiplierOrOne(m float64) float64 {
	if m == 0 {
		return 1
	}
	return m
}

// HeightSource resolves an extrusion's height in metres using the same
// tag/constant/clamp scheme as WidthSource.
type HeightSource = WidthSource

// Style is the overlay template a layer's features paint, shared by every
// feature the layer rasterizes (only the resolved width/height varies).
type Style struct {
	Biome           *string
	SurfaceBlock    *string
	SubsurfaceBlock *string
	TopThickness    *int
	ExtrusionBlock  *string
	ExtrusionHeight *HeightSource
}

// Layer describes one OSM layer: its Overpass QL query body (with an
// optional "{{bbox}}" placeholder), geometry kind, width resolution, style,
// and its place in the overlay arbitration order.
type Layer struct {
	Name             string
	Query            string
	Kind             Geometry
	Width            WidthSource
	Style            Style
	LayerIndex       int32
	DeclarationIndex uint32
}

// Order returns this layer's arbitration order, offset past any layers
// that declared before it (spec.md §4.5: "order = order_offset +
// declaration_index").
func (l Layer) Order(orderOffset uint32) uint32 {
	return orderOffset + l.DeclarationIndex
}

// overlayTemplate builds the Overlay this layer paints for a feature with
// the given tags (used only to resolve the extrusion height, when Style
// carries an extrusion).
func (l Layer) overlayTemplate(order uint32, tags map[string]string) overlay.Overlay {
	o := overlay.Overlay{
		LayerIndex:      l.LayerIndex,
		Order:           order,
		Biome:           l.Style.Biome,
		SurfaceBlock:    l.Style.SurfaceBlock,
		SubsurfaceBlock: l.Style.SubsurfaceBlock,
		TopThickness:    l.Style.TopThickness,
	}
	if l.Style.ExtrusionBlock != nil && l.Style.ExtrusionHeight != nil {
		heightM := l.Style.ExtrusionHeight.Resolve(tags)
		heightBlocks := clampHeightBlocks(heightM)
		if heightBlocks >= 1 {
			o.Extrusion = &overlay.Extrusion{Block: *l.Style.ExtrusionBlock, HeightBlocks: heightBlocks}
		}
	}
	return o
}

func clampHeightBlocks(heightM float64) int32 {
	rounded := math.Round(heightM)
	if rounded < 0 {
		return 0
	}
	if rounded > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(rounded)
}
