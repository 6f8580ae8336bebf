// Package ingest implements the GeoTIFF raster ingest (C2): opening tiles
// via the external decoder, folding valid pixels into a column-height map
// with a shared world origin, and tracking running bounds/height stats.
package ingest

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/tiff"

	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/worldgen/errs"
)

const (
	tagModelPixelScale   tiff.Tag = 33550
	tagModelTiepoint     tiff.Tag = 33922
	tagGeoKeyDirectory   tiff.Tag = 34735
	tagGdalNodata        tiff.Tag = 42113
	tagSamplesPerPixel   tiff.Tag = 277
	tagImageWidth        tiff.Tag = 256
	tagImageLength       tiff.Tag = 257
	tagBitsPerSample     tiff.Tag = 258
	tagCompression       tiff.Tag = 259
	tagStripOffsets      tiff.Tag = 273
	tagRowsPerStrip      tiff.Tag = 278
	tagStripByteCounts   tiff.Tag = 279
	tagSampleFormat      tiff.Tag = 339
	tagPredictor         tiff.Tag = 317
	tagPlanarConfig      tiff.Tag = 284
	geoKeyRasterTypeCode = 1025
)

// rasterType mirrors GeoTIFF's GTRasterTypeGeoKey: whether a pixel center
// sits at the integer coordinate (PixelIsPoint) or the integer coordinate
// is the pixel's top-left corner (PixelIsArea, the default).
type rasterType int

const (
	pixelIsArea rasterType = iota
	pixelIsPoint
)

// Transform maps raster (column, row) space to model (Lambert93 metre)
// space using a single GeoTIFF tie point plus pixel scale, matching the
// affine model ModelTiepointTag/ModelPixelScaleTag together describe.
type Transform struct {
	rasterPoint georef.Coord
	modelPoint  georef.Coord
	pixelScale  georef.Coord
}

func (tr Transform) toModel(raster georef.Coord) georef.Coord {
	return georef.Coord{
		X: (raster.X-tr.rasterPoint.X)*tr.pixelScale.X + tr.modelPoint.X,
		Y: (raster.Y-tr.rasterPoint.Y)*-tr.pixelScale.Y + tr.modelPoint.Y,
	}
}

// Raster is a single decoded GeoTIFF tile: per-pixel elevation samples in
// metres plus the georeferencing needed to place them in model space.
type Raster struct {
	width, height int
	values        []float64 // row-major, len == width*height
	transform     Transform
	nodata        *float64
	rasterOffset  float64 // -0.5 for PixelIsPoint, 0 for PixelIsArea
}

// Open decodes the GeoTIFF at path via the external tag/field parser
// (github.com/google/tiff), reading its single elevation band into memory.
func Open(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.IOError, "open GeoTIFF", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errs.New(errs.IOError, "stat GeoTIFF", path, err)
	}

	parsed, err := tiff.Parse(io.NewSectionReader(f, 0, info.Size()), nil, nil)
	if err != nil {
		return nil, errs.New(errs.DecodeError, "parse GeoTIFF", path, err)
	}
	ifds := parsed.IFDs()
	if len(ifds) == 0 {
		return nil, errs.New(errs.DecodeError, "parse GeoTIFF", path, fmt.Errorf("no image directories"))
	}

	raster, err := fromIFD(ifds[0], f)
	if err != nil {
		return nil, errs.New(errs.DecodeError, "decode GeoTIFF", path, err)
	}
	return raster, nil
}

func fromIFD(ifd tiff.IFD, r io.ReaderAt) (*Raster, error) {
	fields := ifd.Fields()

	width := int(fieldUint(fields, tagImageWidth, 0))
	height := int(fieldUint(fields, tagImageLength, 0))
	samplesPerPixel := int(fieldUint(fields, tagSamplesPerPixel, 1))
	if samplesPerPixel == 0 {
		return nil, fmt.Errorf("samples per pixel tag was zero")
	}

	transform, err := transformFrom(fields)
	if err != nil {
		return nil, err
	}

	values, err := decodeBand(fields, r, width, height, samplesPerPixel)
	if err != nil {
		return nil, err
	}

	nodata := readNodata(fields)
	offset := 0.0
	if readRasterType(fields) == pixelIsPoint {
		offset = -0.5
	}

	return &Raster{
		width: width, height: height, values: values,
		transform: transform, nodata: nodata, rasterOffset: offset,
	}, nil
}

func transformFrom(fields map[tiff.Tag]tiff.Field) (Transform, error) {
	tiePoints, ok := fields[tagModelTiepoint]
	if !ok || tiePoints.Count() < 6 {
		return Transform{}, fmt.Errorf("GeoTIFF is missing ModelTiepointTag")
	}
	scale, ok := fields[tagModelPixelScale]
	if !ok || scale.Count() < 2 {
		return Transform{}, fmt.Errorf("GeoTIFF is missing ModelPixelScaleTag")
	}
	return Transform{
		rasterPoint: georef.Coord{X: fieldFloat(tiePoints, 0), Y: fieldFloat(tiePoints, 1)},
		modelPoint:  georef.Coord{X: fieldFloat(tiePoints, 3), Y: fieldFloat(tiePoints, 4)},
		pixelScale:  georef.Coord{X: fieldFloat(scale, 0), Y: fieldFloat(scale, 1)},
	}, nil
}

func readRasterType(fields map[tiff.Tag]tiff.Field) rasterType {
	dir, ok := fields[tagGeoKeyDirectory]
	if !ok || dir.Count() < 4 {
		return pixelIsArea
	}
	declared := int(dir.Value(3))
	available := (int(dir.Count()) - 4) / 4
	keys := declared
	if available < keys {
		keys = available
	}
	for i := 0; i < keys; i++ {
		base := 4 + i*4
		if base+3 >= int(dir.Count()) {
			break
		}
		keyID := dir.Value(int64(base))
		tiffLocation := dir.Value(int64(base + 1))
		valueOffset := dir.Value(int64(base + 3))
		if keyID == geoKeyRasterTypeCode && tiffLocation == 0 {
			if valueOffset == 2 {
				return pixelIsPoint
			}
			return pixelIsArea
		}
	}
	return pixelIsArea
}

func readNodata(fields map[tiff.Tag]tiff.Field) *float64 {
	f, ok := fields[tagGdalNodata]
	if !ok {
		return nil
	}
	text := fieldASCII(f)
	trimmed := strings.TrimSpace(strings.Trim(text, "\x00"))
	if trimmed == "" {
		return nil
	}
	if strings.EqualFold(trimmed, "nan") {
		v := math.NaN()
		return &v
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Width and Height report the tile's pixel dimensions.
func (r *Raster) Width() int  { return r.width }
func (r *Raster) Height() int { return r.height }

// Origin is the model coordinate of raster pixel (0,0), used to fix the
// world origin from the first tile ingested.
func (r *Raster) Origin() georef.Coord { return r.CoordFor(0, 0) }

// CoordFor maps a raster (col, row) pixel to its model coordinate.
func (r *Raster) CoordFor(col, row int) georef.Coord {
	raster := georef.Coord{X: float64(col) + r.rasterOffset, Y: float64(row) + r.rasterOffset}
	return r.transform.toModel(raster)
}

// Sample returns the elevation at (col, row) in metres, or ok=false when
// the pixel is out of range, nodata, or NaN.
func (r *Raster) Sample(col, row int) (float64, bool) {
	if col < 0 || row < 0 || col >= r.width || row >= r.height {
		return 0, false
	}
	v := r.values[row*r.width+col]
	if r.nodata != nil && approxEqual(v, *r.nodata) {
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Max(math.Abs(a), math.Abs(b)), 1.0)
	return diff <= scale*1e-9
}

func fieldUint(fields map[tiff.Tag]tiff.Field, tag tiff.Tag, fallback uint64) uint64 {
	f, ok := fields[tag]
	if !ok || f.Count() == 0 {
		return fallback
	}
	return f.Value(0)
}

// fieldFloat interprets a field's i'th raw value as a float64. RATIONAL and
// SRATIONAL fields are read as packed numerator/denominator pairs; every
// other field type has its raw value reinterpreted as IEEE-754 double bits
// (the DOUBLE encoding GeoTIFF's geo tags use), so integer-typed fields are
// not converted to their numeric value.
func fieldFloat(f tiff.Field, i int64) float64 {
	if f.Type() == tiff.RATIONAL || f.Type() == tiff.SRATIONAL {
		num := f.Value(i * 2)
		den := f.Value(i*2 + 1)
		if den == 0 {
			return 0
		}
		return float64(num) / float64(den)
	}
	return math.Float64frombits(f.Value(i))
}

func fieldASCII(f tiff.Field) string {
	b := make([]byte, f.Count())
	for i := range b {
		b[i] = byte(f.Value(int64(i)))
	}
	return string(b)
}
