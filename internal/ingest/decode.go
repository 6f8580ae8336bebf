package ingest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/google/tiff"
)

const (
	compressionNone     = 1
	compressionDeflate  = 8
	compressionAdobeZip = 32946
	predictorNone       = 1
	predictorHorizontal = 2
	sampleFormatUint    = 1
	sampleFormatInt     = 2
	sampleFormatFloat   = 3
)

// decodeBand reads the strip-encoded single-band elevation data described
// by fields into a row-major float64 slice, undoing whatever compression
// and horizontal differencing predictor the tile was written with. Only
// strip layout (not tiled) is supported: elevation DEMs distributed as
// GeoTIFF are strip-encoded in practice.
func decodeBand(fields map[tiff.Tag]tiff.Field, r io.ReaderAt, width, height, samplesPerPixel int) ([]float64, error) {
	bits := int(fieldUint(fields, tagBitsPerSample, 32))
	compression := fieldUint(fields, tagCompression, compressionNone)
	predictor := fieldUint(fields, tagPredictor, predictorNone)
	sampleFormat := fieldUint(fields, tagSampleFormat, sampleFormatUint)
	rowsPerStrip := int(fieldUint(fields, tagRowsPerStrip, uint64(height)))
	if rowsPerStrip <= 0 {
		rowsPerStrip = height
	}

	offsets, ok := fields[tagStripOffsets]
	if !ok {
		return nil, fmt.Errorf("GeoTIFF has no strip offsets (tiled layout is not supported)")
	}
	byteCounts, ok := fields[tagStripByteCounts]
	if !ok {
		return nil, fmt.Errorf("GeoTIFF has no strip byte counts")
	}

	bytesPerSample := bits / 8
	rowStride := width * samplesPerPixel * bytesPerSample

	raw := make([]byte, height*rowStride)
	stripCount := int(offsets.Count())
	for strip := 0; strip < stripCount; strip++ {
		rowStart := strip * rowsPerStrip
		if rowStart >= height {
			break
		}
		rows := rowsPerStrip
		if rowStart+rows > height {
			rows = height - rowStart
		}

		offset := int64(offsets.Value(int64(strip)))
		count := int64(byteCounts.Value(int64(strip)))
		compressed := make([]byte, count)
		if _, err := r.ReadAt(compressed, offset); err != nil {
			return nil, fmt.Errorf("reading strip %d: %w", strip, err)
		}

		decompressed, err := decompressStrip(compressed, compression)
		if err != nil {
			return nil, fmt.Errorf("decompressing strip %d: %w", strip, err)
		}

		dst := raw[rowStart*rowStride : (rowStart+rows)*rowStride]
		want := rows * rowStride
		if len(decompressed) < want {
			return nil, fmt.Errorf("strip %d decompressed to %d bytes, want at least %d", strip, len(decompressed), want)
		}
		copy(dst, decompressed[:want])
	}

	if predictor == predictorHorizontal {
		undoHorizontalPredictor(raw, width, height, samplesPerPixel, bytesPerSample, sampleFormat)
	}

	return samplesToElevation(raw, width, height, samplesPerPixel, bytesPerSample, sampleFormat)
}

func decompressStrip(data []byte, compression uint64) ([]byte, error) {
	switch compression {
	case compressionNone:
		return data, nil
	case compressionDeflate, compressionAdobeZip:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return nil, fmt.Errorf("unsupported TIFF compression scheme %d", compression)
	}
}

// undoHorizontalPredictor reverses TIFF predictor 2: each sample (after the
// first in a row) was stored as the delta from its row-left neighbour in
// the same band.
func undoHorizontalPredictor(raw []byte, width, height, samplesPerPixel, bytesPerSample int, sampleFormat uint64) {
	if sampleFormat != sampleFormatUint && sampleFormat != sampleFormatInt {
		return // predictor 2 on floating-point samples is a distinct, rarer scheme; not produced by common DEM exporters
	}
	rowStride := width * samplesPerPixel * bytesPerSample
	for row := 0; row < height; row++ {
		rowBytes := raw[row*rowStride : (row+1)*rowStride]
		for col := 1; col < width; col++ {
			for band := 0; band < samplesPerPixel; band++ {
				curOff := (col*samplesPerPixel + band) * bytesPerSample
				prevOff := ((col-1)*samplesPerPixel + band) * bytesPerSample
				addSample(rowBytes[curOff:curOff+bytesPerSample], rowBytes[prevOff:prevOff+bytesPerSample], bytesPerSample)
			}
		}
	}
}

func addSample(cur, prev []byte, bytesPerSample int) {
	switch bytesPerSample {
	case 1:
		cur[0] = cur[0] + prev[0]
	case 2:
		c := binary.BigEndian.Uint16(cur) + binary.BigEndian.Uint16(prev)
		binary.BigEndian.PutUint16(cur, c)
	case 4:
		c := binary.BigEndian.Uint32(cur) + binary.BigEndian.Uint32(prev)
		binary.BigEndian.PutUint32(cur, c)
	}
}

// samplesToElevation converts the decoded byte buffer's first band of each
// pixel into a row-major float64 elevation slice, per sampleFormat/bitdepth.
func samplesToElevation(raw []byte, width, height, samplesPerPixel, bytesPerSample int, sampleFormat uint64) ([]float64, error) {
	out := make([]float64, width*height)
	pixelStride := samplesPerPixel * bytesPerSample
	for i := 0; i < width*height; i++ {
		off := i * pixelStride
		sample := raw[off : off+bytesPerSample]
		v, err := decodeSample(sample, bytesPerSample, sampleFormat)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeSample(b []byte, bytesPerSample int, sampleFormat uint64) (float64, error) {
	switch sampleFormat {
	case sampleFormatFloat:
		switch bytesPerSample {
		case 4:
			return float64(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
		case 8:
			return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
		}
	case sampleFormatInt:
		switch bytesPerSample {
		case 1:
			return float64(int8(b[0])), nil
		case 2:
			return float64(int16(binary.BigEndian.Uint16(b))), nil
		case 4:
			return float64(int32(binary.BigEndian.Uint32(b))), nil
		}
	default: // unsigned integer
		switch bytesPerSample {
		case 1:
			return float64(b[0]), nil
		case 2:
			return float64(binary.BigEndian.Uint16(b)), nil
		case 4:
			return float64(binary.BigEndian.Uint32(b)), nil
		}
	}
	return 0, fmt.Errorf("unsupported sample encoding: %d bytes, format %d", bytesPerSample, sampleFormat)
}

