package overlay

import "testing"

func strp(s string) *string { return &s }

func TestArbitrationOrderWithinSameLayer(t *testing.T) {
	table := NewTable()
	a := Overlay{LayerIndex: 5, Order: 1, Biome: strp("desert")}
	b := Overlay{LayerIndex: 5, Order: 2, Biome: strp("ocean")}

	table.Apply(0, 0, a)
	table.Apply(0, 0, b)

	got, ok := table.Lookup(0, 0)
	if !ok || *got.Biome != "ocean" {
		t.Fatalf("expected ocean to win (higher order, same layer), got %+v", got)
	}
}

func TestArbitrationLowerLayerIndexWinsRegardlessOfOrder(t *testing.T) {
	table := NewTable()
	a := Overlay{LayerIndex: 5, Order: 1, Biome: strp("desert")}
	b := Overlay{LayerIndex: 4, Order: 2, Biome: strp("ocean")}

	table.Apply(0, 0, a)
	table.Apply(0, 0, b)

	got, ok := table.Lookup(0, 0)
	if !ok || *got.Biome != "ocean" {
		t.Fatalf("expected ocean to win (lower layer_index), got %+v", got)
	}
}

func TestArbitrationIsOrderIndependent(t *testing.T) {
	a := Overlay{LayerIndex: 5, Order: 1, Biome: strp("desert")}
	b := Overlay{LayerIndex: 4, Order: 2, Biome: strp("ocean")}
	c := Overlay{LayerIndex: 4, Order: 1, Biome: strp("forest")}

	forward := NewTable()
	forward.Apply(1, 1, a)
	forward.Apply(1, 1, b)
	forward.Apply(1, 1, c)

	reverse := NewTable()
	reverse.Apply(1, 1, c)
	reverse.Apply(1, 1, b)
	reverse.Apply(1, 1, a)

	gotForward, _ := forward.Lookup(1, 1)
	gotReverse, _ := reverse.Lookup(1, 1)
	if *gotForward.Biome != *gotReverse.Biome {
		t.Fatalf("arbitration order-dependent: forward=%v reverse=%v", *gotForward.Biome, *gotReverse.Biome)
	}
	if *gotForward.Biome != "ocean" {
		t.Fatalf("expected ocean to win, got %v", *gotForward.Biome)
	}
}

func TestLookupMissingColumn(t *testing.T) {
	table := NewTable()
	if _, ok := table.Lookup(9, 9); ok {
		t.Fatal("expected no overlay for untouched column")
	}
}
