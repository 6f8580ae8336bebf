// Package lidar implements the optional COPC/LAS building-footprint pass
// (C10, grounded on original_source/src/copc.rs): classified building
// points are morphologically reconstructed into solid column overlays on
// top of the DEM-derived terrain.
package lidar

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/defvs/francegen/internal/worldgen/errs"
)

const classificationBuilding = 6

// Point is one classified LAS point in its source file's real-world
// coordinate system (not yet translated into world/voxel space).
type Point struct {
	X, Y, Z        float64
	Classification uint8
}

// pointFormatLayout describes the fixed byte offset of the classification
// field for a LAS point data record format. Only the plain
// (non-LASzip-compressed) binary LAS formats are supported; this module
// has no COPC/LAZ decompression dependency.
type pointFormatLayout struct {
	classificationOffset int
}

func layoutForFormat(format uint8) (pointFormatLayout, bool) {
	switch {
	case format <= 5:
		return pointFormatLayout{classificationOffset: 15}, true
	case format <= 10:
		return pointFormatLayout{classificationOffset: 16}, true
	default:
		return pointFormatLayout{}, false
	}
}

// header holds the subset of the LAS 1.2-1.4 public header block needed to
// locate and decode point records.
type header struct {
	offsetToPointData     uint32
	pointDataFormat       uint8
	pointDataRecordLen    uint16
	legacyNumberOfPoints  uint32
	scaleX, scaleY, scaleZ    float64
	offsetX, offsetY, offsetZ float64
}

func readHeader(f *os.File) (header, error) {
	buf := make([]byte, 227)
	if _, err := io.ReadFull(f, buf); err != nil {
		return header{}, err
	}
	if string(buf[0:4]) != "LASF" {
		return header{}, errs.New(errs.DecodeError, "parse LAS header", "", nil)
	}
	if buf[104]&0x80 != 0 {
		return header{}, errs.New(errs.DecodeError, "parse LAS header", "", nil) // LASzip-compressed; unsupported
	}
	return header{
		offsetToPointData:   binary.LittleEndian.Uint32(buf[96:100]),
		pointDataFormat:      buf[104] & 0x3F,
		pointDataRecordLen:   binary.LittleEndian.Uint16(buf[105:107]),
		legacyNumberOfPoints: binary.LittleEndian.Uint32(buf[107:111]),
		scaleX:  math.Float64frombits(binary.LittleEndian.Uint64(buf[131:139])),
		scaleY:  math.Float64frombits(binary.LittleEndian.Uint64(buf[139:147])),
		scaleZ:  math.Float64frombits(binary.LittleEndian.Uint64(buf[147:155])),
		offsetX: math.Float64frombits(binary.LittleEndian.Uint64(buf[155:163])),
		offsetY: math.Float64frombits(binary.LittleEndian.Uint64(buf[163:171])),
		offsetZ: math.Float64frombits(binary.LittleEndian.Uint64(buf[171:179])),
	}, nil
}

// ReadFile reads every point record from a plain (uncompressed) .las file.
// .laz/.copc.laz files are rejected: no LASzip decompression library is
// available in this module's dependency set.
func ReadFile(path string) ([]Point, error) {
	if strings.HasSuffix(strings.ToLower(path), ".laz") {
		return nil, errs.New(errs.ConfigError, "read LAS file", path, nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.IOError, "open LAS file", path, err)
	}
	defer f.Close()

	hdr, err := readHeader(f)
	if err != nil {
		return nil, errs.New(errs.DecodeError, "parse LAS header", path, err)
	}
	layout, ok := layoutForFormat(hdr.pointDataFormat)
	if !ok {
		return nil, errs.New(errs.DecodeError, "parse LAS header", path, nil)
	}

	if _, err := f.Seek(int64(hdr.offsetToPointData), io.SeekStart); err != nil {
		return nil, errs.New(errs.IOError, "seek to LAS point data", path, err)
	}
	br := bufio.NewReaderSize(f, 1<<20)

	recordLen := int(hdr.pointDataRecordLen)
	record := make([]byte, recordLen)
	points := make([]Point, 0, hdr.legacyNumberOfPoints)
	for {
		if _, err := io.ReadFull(br, record); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, errs.New(errs.DecodeError, "read LAS point record", path, err)
		}
		rawX := int32(binary.LittleEndian.Uint32(record[0:4]))
		rawY := int32(binary.LittleEndian.Uint32(record[4:8]))
		rawZ := int32(binary.LittleEndian.Uint32(record[8:12]))
		points = append(points, Point{
			X:              float64(rawX)*hdr.scaleX + hdr.offsetX,
			Y:              float64(rawY)*hdr.scaleY + hdr.offsetY,
			Z:              float64(rawZ)*hdr.scaleZ + hdr.offsetZ,
			Classification: record[layout.classificationOffset] & 0x1F,
		})
	}
	return points, nil
}

// CollectFiles finds every LIDAR file in dir, including .copc.laz/.laz
// files (so callers can report a clear "unsupported" error per file
// rather than silently skipping them).
func CollectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.New(errs.IOError, "read LIDAR directory", dir, err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if strings.HasSuffix(name, ".copc.laz") || strings.HasSuffix(name, ".laz") || strings.HasSuffix(name, ".las") {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}

// IsBuilding reports whether a point's classification is LAS code 6
// (Building), matching the original implementation's filter.
func IsBuilding(p Point) bool { return p.Classification == classificationBuilding }
