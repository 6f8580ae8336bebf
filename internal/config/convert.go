package config

import (
	"github.com/defvs/francegen/internal/lidar"
	"github.com/defvs/francegen/internal/rasteroverlay"
	"github.com/defvs/francegen/internal/terrain"
	"github.com/defvs/francegen/internal/vectoroverlay"
)

func rangedValues(in []RangedValue) []terrain.RangedValue {
	out := make([]terrain.RangedValue, len(in))
	for i, v := range in {
		out[i] = terrain.RangedValue{Min: int32(v.Min), Max: int32(v.Max), Value: v.Value}
	}
	return out
}

func cliffRule(in *CliffRule) *terrain.CliffRule {
	if in == nil {
		return nil
	}
	return &terrain.CliffRule{
		Enabled:           in.Enabled,
		AngleThresholdDeg: in.AngleThresholdDeg,
		Block:             in.Block,
		SmoothingRadius:   in.SmoothingRadius,
		SmoothingFactor:   in.SmoothingFactor,
	}
}

// ToPolicy converts a Terrain config block into a terrain.Policy.
func (t Terrain) ToPolicy() *terrain.Policy {
	overrides := make(map[string]*terrain.CliffRule, len(t.CliffOverrides))
	for name, rule := range t.CliffOverrides {
		r := rule
		overrides[name] = cliffRule(&r)
	}
	return &terrain.Policy{
		TopLayerBlock:     t.TopLayerBlock,
		BottomLayerBlock:  t.BottomLayerBlock,
		TopLayerThickness: t.TopLayerThickness,
		BaseBiome:         t.BaseBiome,
		BiomeLayers:       rangedValues(t.BiomeLayers),
		TopBlockLayers:    rangedValues(t.TopBlockLayers),
		CliffDefault:      cliffRule(t.CliffDefault),
		CliffOverrides:    overrides,
	}
}

func (w WidthSource) toDomain() vectoroverlay.WidthSource {
	return vectoroverlay.WidthSource{
		TagKey:     w.TagKey,
		Multiplier: w.Multiplier,
		Min:        w.Min,
		Max:        w.Max,
		Default:    w.Default,
	}
}

func (s LayerStyle) toVectorStyle() vectoroverlay.Style {
	var extrusionHeight *vectoroverlay.HeightSource
	if s.ExtrusionHeight != nil {
		h := s.ExtrusionHeight.toDomain()
		extrusionHeight = &h
	}
	return vectoroverlay.Style{
		Biome:           s.Biome,
		SurfaceBlock:    s.SurfaceBlock,
		SubsurfaceBlock: s.SubsurfaceBlock,
		TopThickness:    s.TopThickness,
		ExtrusionBlock:  s.ExtrusionBlock,
		ExtrusionHeight: extrusionHeight,
	}
}

func (s LayerStyle) toRasterStyle() rasteroverlay.Style {
	return rasteroverlay.Style{
		Biome:           s.Biome,
		SurfaceBlock:    s.SurfaceBlock,
		SubsurfaceBlock: s.SubsurfaceBlock,
		TopThickness:    s.TopThickness,
	}
}

// ToVectorLayers converts the configured OSM layers into vectoroverlay
// layers, assigning each its DeclarationIndex from its position in the
// list per spec.md §4.5 ("order = order_offset + declaration_index").
func (o OSM) ToVectorLayers() []vectoroverlay.Layer {
	out := make([]vectoroverlay.Layer, len(o.Layers))
	for i, l := range o.Layers {
		kind := vectoroverlay.Line
		if l.Kind == "polygon" {
			kind = vectoroverlay.Polygon
		}
		out[i] = vectoroverlay.Layer{
			Name:             l.Name,
			Query:            l.Query,
			Kind:             kind,
			Width:            l.Width.toDomain(),
			Style:            l.Style.toVectorStyle(),
			LayerIndex:       l.LayerIndex,
			DeclarationIndex: uint32(i),
		}
	}
	return out
}

// ToColorRules converts the configured WMTS colour rules into
// rasteroverlay rules, in declaration order (first match wins).
func (w WMTS) ToColorRules() []rasteroverlay.ColorRule {
	out := make([]rasteroverlay.ColorRule, len(w.Rules))
	for i, r := range w.Rules {
		out[i] = rasteroverlay.ColorRule{
			Color:            rasteroverlay.RGBA{R: r.R, G: r.G, B: r.B, A: r.A},
			Tolerance:        r.Tolerance,
			AlphaThreshold:   r.AlphaThreshold,
			Style:            r.Style.toRasterStyle(),
			LayerIndex:       r.LayerIndex,
			DeclarationIndex: uint32(i),
		}
	}
	return out
}

// ToParams converts the Lidar config block into lidar.Params.
func (l Lidar) ToParams() lidar.Params {
	return lidar.Params{
		BuildingBlock: l.BuildingBlock,
		AlwaysPillar:  l.AlwaysPillar,
		RXY:           l.RXY,
		HGap:          l.HGap,
		TWall:         l.TWall,
		Bands:         l.Bands,
		TauPersist:    l.TauPersist,
		MinSupport:    l.MinSupport,
	}
}
