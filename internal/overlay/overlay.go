// Package overlay implements the column-level overlay model (C5):
// biome/surface/subsurface/thickness/extrusion overrides with deterministic
// layer_index+order arbitration.
package overlay

// Extrusion describes a stack of blocks painted above the original
// surface. Levels, when non-empty, restricts the extrusion to those
// discrete world-Y levels instead of a contiguous band up to
// surface+HeightBlocks (spec.md §4.6/§4.8's "discrete Y list" form).
type Extrusion struct {
	Block        string
	HeightBlocks int32
	Levels       []int32
}

// Overlay is a column-scoped style override. The newer 7-field form from
// spec.md Open Question (ii); the older 5-field form (no Extrusion) is not
// implemented.
type Overlay struct {
	LayerIndex      int32
	Order           uint32
	Biome           *string
	SurfaceBlock    *string
	SubsurfaceBlock *string
	TopThickness    *int
	Extrusion       *Extrusion
}

// outranks reports whether a strictly outranks b under the total order from
// spec.md §3: lower LayerIndex wins; ties break on higher Order.
func (a Overlay) outranks(b Overlay) bool {
	if a.LayerIndex != b.LayerIndex {
		return a.LayerIndex < b.LayerIndex
	}
	return a.Order > b.Order
}

// Key identifies a column by its world coordinates.
type Key struct {
	X, Z int32
}

// Table holds at most one overlay per column, keeping whichever of any two
// candidates outranks the other. Applying the same set of overlays in any
// order yields the same final table as long as no two overlays for one
// column share both LayerIndex and Order; between two of equal rank, the
// one applied later wins.
type Table struct {
	columns map[Key]Overlay
}

// NewTable returns an empty overlay table.
func NewTable() *Table {
	return &Table{columns: make(map[Key]Overlay)}
}

// Apply inserts o at (x, z), keeping the current overlay if it already
// outranks o.
func (t *Table) Apply(x, z int32, o Overlay) {
	key := Key{X: x, Z: z}
	if current, ok := t.columns[key]; ok && current.outranks(o) {
		return
	}
	t.columns[key] = o
}

// Lookup returns the overlay at (x, z), if any.
func (t *Table) Lookup(x, z int32) (Overlay, bool) {
	o, ok := t.columns[Key{X: x, Z: z}]
	return o, ok
}
