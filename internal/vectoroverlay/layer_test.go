package vectoroverlay

import "testing"

func ptrFloat(v float64) *float64 { return &v }

func TestWidthSourceResolveUsesDefaultWhenTagMissing(t *testing.T) {
	w := WidthSource{TagKey: "width", Default: 2}
	if got := w.Resolve(map[string]string{}); got != 2 {
		t.Errorf("got %v, want 2", got)
	}
}

func TestWidthSourceResolveParsesAndMultipliesTag(t *testing.T) {
	w := WidthSource{TagKey: "width", Multiplier: 2, Default: 1}
	got := w.Resolve(map[string]string{"width": "3.5"})
	if got != 7 {
		t.Errorf("got %v, want 7", got)
	}
}

func TestWidthSourceResolveIgnoresUnparsableTag(t *testing.T) {
	w := WidthSource{TagKey: "width", Default: 4}
	got := w.Resolve(map[string]string{"width": "wide"})
	if got != 4 {
		t.Errorf("got %v, want default 4", got)
	}
}

func TestWidthSourceResolveClampsToMinMax(t *testing.T) {
	w := WidthSource{TagKey: "width", Default: 1, Min: ptrFloat(2), Max: ptrFloat(5)}
	if got := w.Resolve(map[string]string{"width": "0.5"}); got != 2 {
		t.Errorf("got %v, want clamped to min 2", got)
	}
	if got := w.Resolve(map[string]string{"width": "100"}); got != 5 {
		t.Errorf("got %v, want clamped to max 5", got)
	}
}

func TestLayerOrderOffsetsByDeclarationIndex(t *testing.T) {
	l := Layer{DeclarationIndex: 3}
	if got := l.Order(10); got != 13 {
		t.Errorf("got %d, want 13", got)
	}
}

func TestOverlayTemplateOmitsExtrusionBelowOneBlock(t *testing.T) {
	block := "minecraft:oak_fence"
	style := Style{
		ExtrusionBlock:  &block,
		ExtrusionHeight: &HeightSource{Default: 0.3},
	}
	l := Layer{Style: style}
	o := l.overlayTemplate(0, nil)
	if o.Extrusion != nil {
		t.Errorf("extrusion = %+v, want nil below one block", o.Extrusion)
	}
}

func TestOverlayTemplateResolvesExtrusionHeightFromTags(t *testing.T) {
	block := "minecraft:brick_wall"
	style := Style{
		ExtrusionBlock:  &block,
		ExtrusionHeight: &HeightSource{TagKey: "height", Default: 1},
	}
	l := Layer{Style: style}
	o := l.overlayTemplate(0, map[string]string{"height": "3.6"})
	if o.Extrusion == nil {
		t.Fatal("extrusion = nil, want non-nil")
	}
	if o.Extrusion.HeightBlocks != 4 {
		t.Errorf("height blocks = %d, want 4", o.Extrusion.HeightBlocks)
	}
	if o.Extrusion.Block != block {
		t.Errorf("block = %q, want %q", o.Extrusion.Block, block)
	}
}
