package georef

import (
	"math"
	"testing"
)

func TestLambert93RoundTrip(t *testing.T) {
	proj := NewLambert93()
	// Roughly central France (Bourges area), well within Lambert93's domain.
	lat, lon := 47.0821, 2.3987
	c := proj.LatLonToLambert(lat, lon)
	gotLat, gotLon := proj.LambertToLatLon(c)
	if math.Abs(gotLat-lat) > 1e-6 || math.Abs(gotLon-lon) > 1e-6 {
		t.Errorf("round trip = (%v, %v), want (%v, %v)", gotLat, gotLon, lat, lon)
	}
}

func TestNewCRSTransformIdentityForLambert93(t *testing.T) {
	tr, err := NewCRSTransform("EPSG:2154")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := Coord{X: 500000, Y: 6600000}
	if got := tr.ToTarget(c); got != c {
		t.Errorf("identity transform changed coord: got %v, want %v", got, c)
	}
}

func TestNewCRSTransformUnsupported(t *testing.T) {
	if _, err := NewCRSTransform("EPSG:9999"); err == nil {
		t.Fatal("expected error for unsupported CRS")
	}
}

func TestNewCRSTransformWebMercatorRoundTrip(t *testing.T) {
	tr, err := NewCRSTransform("urn:ogc:def:crs:EPSG::3857")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := Coord{X: 700_000, Y: 6_600_000}
	merc := tr.ToTarget(c)
	back := tr.FromTarget(merc)
	if math.Abs(back.X-c.X) > 1e-3 || math.Abs(back.Y-c.Y) > 1e-3 {
		t.Errorf("round trip = %v, want %v", back, c)
	}
}

func TestWebMercatorOriginIsNullIsland(t *testing.T) {
	c := latLonToWebMercator(0, 0)
	if math.Abs(c.X) > 1e-9 || math.Abs(c.Y) > 1e-9 {
		t.Errorf("mercator(0,0) = %v, want (0,0)", c)
	}
}
