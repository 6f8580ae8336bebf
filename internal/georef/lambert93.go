package georef

import (
	"math"

	"github.com/defvs/francegen/internal/worldgen/errs"
)

// ConicProjection implements the Lambert Conformal Conic projection used by
// Lambert93 / EPSG:2154 (two standard parallels at 44N/49N, origin 46.5N,
// GRS80 ellipsoid). Constructed once and reused for every coordinate
// conversion in a run.
type ConicProjection struct {
	a, e, n, c, rho0, lon0 float64
	falseEasting           float64
	falseNorthing          float64
}

// NewLambert93 builds the fixed Lambert93 projection parameters.
func NewLambert93() *ConicProjection {
	const (
		lat1 = 44.0 * math.Pi / 180
		lat2 = 49.0 * math.Pi / 180
		lat0 = 46.5 * math.Pi / 180
		a    = 6_378_137.0       // GRS80 semi-major axis
		fInv = 298.257_222_101   // inverse flattening
	)
	f := 1.0 / fInv
	e2 := 2*f - f*f
	e := math.Sqrt(e2)
	m1 := conicM(lat1, e)
	m2 := conicM(lat2, e)
	t1 := conicT(lat1, e)
	t2 := conicT(lat2, e)
	t0 := conicT(lat0, e)
	n := (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	c := m1 / (n * math.Pow(t1, n))
	rho0 := a * c * math.Pow(t0, n)
	return &ConicProjection{
		a: a, e: e, n: n, c: c, rho0: rho0,
		lon0:          3.0 * math.Pi / 180,
		falseEasting:  700_000.0,
		falseNorthing: 6_600_000.0,
	}
}

// LatLonToLambert converts WGS84 lat/lon (degrees) into Lambert93 metres.
func (p *ConicProjection) LatLonToLambert(latDeg, lonDeg float64) Coord {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	t := conicT(lat, p.e)
	rho := p.a * p.c * math.Pow(t, p.n)
	theta := p.n * (lon - p.lon0)
	x := p.falseEasting + rho*math.Sin(theta)
	y := p.falseNorthing + p.rho0 - rho*math.Cos(theta)
	return Coord{X: x, Y: y}
}

// LambertToLatLon converts Lambert93 metres into WGS84 lat/lon (degrees),
// via the standard fixed-point iteration on isometric latitude.
func (p *ConicProjection) LambertToLatLon(c Coord) (latDeg, lonDeg float64) {
	dx := c.X - p.falseEasting
	dy := p.rho0 - (c.Y - p.falseNorthing)
	rho := math.Hypot(dx, dy)
	t := math.Pow(rho/(p.a*p.c), 1.0/p.n)
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 6; i++ {
		sinPhi := math.Sin(phi)
		term := math.Pow((1+p.e*sinPhi)/(1-p.e*sinPhi), p.e/2)
		next := math.Pi/2 - 2*math.Atan(t*term)
		if math.Abs(phi-next) < 1e-12 {
			phi = next
			break
		}
		phi = next
	}
	theta := math.Atan2(dx, dy)
	lon := p.lon0 + theta/p.n
	return phi * 180 / math.Pi, lon * 180 / math.Pi
}

func conicM(lat, e float64) float64 {
	return math.Cos(lat) / math.Sqrt(1-e*e*math.Pow(math.Sin(lat), 2))
}

func conicT(lat, e float64) float64 {
	sinLat := math.Sin(lat)
	numerator := (1 - e*sinLat) / (1 + e*sinLat)
	return math.Tan(math.Pi/4-lat/2) / math.Pow(numerator, e/2)
}

// Transform converts between Lambert93 (the model CRS) and a target CRS.
type Transform interface {
	ToTarget(c Coord) Coord
	FromTarget(c Coord) Coord
}

type identityTransform struct{}

func (identityTransform) ToTarget(c Coord) Coord   { return c }
func (identityTransform) FromTarget(c Coord) Coord { return c }

type wgs84Transform struct{ proj *ConicProjection }

func (t wgs84Transform) ToTarget(c Coord) Coord {
	lat, lon := t.proj.LambertToLatLon(c)
	return Coord{X: lon, Y: lat}
}

func (t wgs84Transform) FromTarget(c Coord) Coord {
	return t.proj.LatLonToLambert(c.Y, c.X)
}

// webMercatorRadius is the spherical Earth radius WMTS's "EPSG:3857"
// (Google/Bing/OSM spherical Web Mercator) and its GoogleCRS84Quad tile
// matrix sets assume.
const webMercatorRadius = 6_378_137.0

type webMercatorTransform struct{ proj *ConicProjection }

func (t webMercatorTransform) ToTarget(c Coord) Coord {
	lat, lon := t.proj.LambertToLatLon(c)
	return latLonToWebMercator(lat, lon)
}

func (t webMercatorTransform) FromTarget(c Coord) Coord {
	lat, lon := webMercatorToLatLon(c)
	return t.proj.LatLonToLambert(lat, lon)
}

func latLonToWebMercator(latDeg, lonDeg float64) Coord {
	lon := lonDeg * math.Pi / 180
	lat := latDeg * math.Pi / 180
	x := webMercatorRadius * lon
	y := webMercatorRadius * math.Log(math.Tan(math.Pi/4+lat/2))
	return Coord{X: x, Y: y}
}

func webMercatorToLatLon(c Coord) (latDeg, lonDeg float64) {
	lon := c.X / webMercatorRadius
	lat := 2*math.Atan(math.Exp(c.Y/webMercatorRadius)) - math.Pi/2
	return lat * 180 / math.Pi, lon * 180 / math.Pi
}

// NewCRSTransform builds a Transform for a WMTS-declared SupportedCRS
// string (e.g. "EPSG:2154", "urn:ogc:def:crs:EPSG::4326",
// "urn:ogc:def:crs:EPSG::3857"). Unsupported CRS strings yield a CrsError;
// in particular, CRS other than these three would need a general-purpose
// projection library this codebase does not depend on.
func NewCRSTransform(targetCRS string) (Transform, error) {
	switch epsgCode(targetCRS) {
	case "2154", "":
		return identityTransform{}, nil
	case "4326":
		return wgs84Transform{proj: NewLambert93()}, nil
	case "3857":
		return webMercatorTransform{proj: NewLambert93()}, nil
	default:
		return nil, errs.New(errs.CrsError, "build CRS transform", targetCRS, nil)
	}
}

func epsgCode(crs string) string {
	for i := len(crs) - 1; i >= 0; i-- {
		if crs[i] == ':' {
			return crs[i+1:]
		}
	}
	return crs
}
