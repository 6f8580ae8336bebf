// Package rasteroverlay implements the raster rasterizer (C7): matches
// decoded WMTS tile pixels against colour rules and paints overlays.
package rasteroverlay

import "github.com/defvs/francegen/internal/overlay"

// RGBA is a pixel colour in 8-bit channels.
type RGBA struct{ R, G, B, A uint8 }

// ColorRule is one `{rgba, tolerance, alpha_threshold, style, layer_index,
// order}` matching rule from spec.md §4.7.
type ColorRule struct {
	Color            RGBA
	Tolerance        uint8
	AlphaThreshold   uint8
	Style            Style
	LayerIndex       int32
	DeclarationIndex uint32
}

// Style is the overlay template a colour rule paints when it matches.
type Style struct {
	Biome           *string
	SurfaceBlock    *string
	SubsurfaceBlock *string
	TopThickness    *int
}

// Order returns the rule's arbitration order, offset past any rules
// declared before it, mirroring internal/vectoroverlay.Layer.Order.
func (r ColorRule) Order(orderOffset uint32) uint32 {
	return orderOffset + r.DeclarationIndex
}

// Matches reports whether pixel satisfies this rule: its alpha must meet
// AlphaThreshold, every RGB channel must be within Tolerance of Color, and
// if the rule itself targets a translucent colour (Color.A < 255) the
// pixel's alpha must also be within Tolerance of Color.A.
func (r ColorRule) Matches(pixel RGBA) bool {
	if pixel.A < r.AlphaThreshold {
		return false
	}
	if r.Color.A < 255 && !withinTolerance(pixel.A, r.Color.A, r.Tolerance) {
		return false
	}
	return withinTolerance(pixel.R, r.Color.R, r.Tolerance) &&
		withinTolerance(pixel.G, r.Color.G, r.Tolerance) &&
		withinTolerance(pixel.B, r.Color.B, r.Tolerance)
}

func withinTolerance(a, b, tolerance uint8) bool {
	var diff uint8
	if a > b {
		diff = a - b
	} else {
		diff = b - a
	}
	return diff <= tolerance
}

func (r ColorRule) overlayTemplate(order uint32) overlay.Overlay {
	return overlay.Overlay{
		LayerIndex:      r.LayerIndex,
		Order:           order,
		Biome:           r.Style.Biome,
		SurfaceBlock:    r.Style.SurfaceBlock,
		SubsurfaceBlock: r.Style.SubsurfaceBlock,
		TopThickness:    r.Style.TopThickness,
	}
}
