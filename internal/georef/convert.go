package georef

import "github.com/chewxy/math32"

// DEMToBlock converts a DEM elevation in metres to a block-Y, rounding to
// the nearest integer and clamping to [BedrockY, MaxWorldY].
func DEMToBlock(elevationM float64) int32 {
	y := math32.Round(float32(BedrockY) + float32(elevationM))
	return clampI32(int32(y), BedrockY, MaxWorldY)
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ModelToWorld maps a Lambert93 model coordinate into the integer world
// grid, flipping north (model +Y) to world -Z.
func ModelToWorld(origin, coord Coord) (wx, wz int32) {
	wx = int32(math32.Round(float32(coord.X - origin.X)))
	wz = int32(math32.Round(float32(origin.Y - coord.Y)))
	return
}

// WorldToModel is the inverse of ModelToWorld. It does not round-trip
// exactly when the stored elevation/coordinate was not an integer metre;
// per spec.md Open Question (i) this is an intentional, documented
// truncation used only by the `locate` subcommand.
func WorldToModel(origin Coord, wx, wz int32) Coord {
	return Coord{X: origin.X + float64(wx), Y: origin.Y - float64(wz)}
}
