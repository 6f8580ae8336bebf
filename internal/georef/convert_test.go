package georef

import "testing"

func TestDEMToBlockBounds(t *testing.T) {
	cases := []struct {
		name string
		elev float64
		want int32
	}{
		{"zero elevation is bedrock", 0, BedrockY},
		{"ten metres", 10, -2038},
		{"high elevation clamps to max world y", 5000, MaxWorldY},
		{"negative elevation clamps to bedrock", -5, BedrockY},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DEMToBlock(c.elev); got != c.want {
				t.Errorf("DEMToBlock(%v) = %v, want %v", c.elev, got, c.want)
			}
		})
	}
}

func TestModelToWorldOrigin(t *testing.T) {
	origin := Coord{X: 100, Y: 100}
	wx, wz := ModelToWorld(origin, origin)
	if wx != 0 || wz != 0 {
		t.Errorf("ModelToWorld(origin, origin) = (%d, %d), want (0, 0)", wx, wz)
	}
}

func TestModelToWorldFlipsNorthToSouth(t *testing.T) {
	origin := Coord{X: 0, Y: 0}
	wx, wz := ModelToWorld(origin, Coord{X: 17, Y: -4})
	if wx != 17 || wz != 4 {
		t.Errorf("ModelToWorld = (%d, %d), want (17, 4)", wx, wz)
	}
}

func TestWorldToModelRoundTrip(t *testing.T) {
	origin := Coord{X: 250000, Y: 6700000}
	wx, wz := int32(42), int32(-17)
	back := WorldToModel(origin, wx, wz)
	gotWx, gotWz := ModelToWorld(origin, back)
	if gotWx != wx || gotWz != wz {
		t.Errorf("round trip = (%d, %d), want (%d, %d)", gotWx, gotWz, wx, wz)
	}
}
