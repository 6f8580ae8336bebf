package ingest

import (
	"encoding/binary"
	"testing"
)

func TestDecodeSampleUint16BigEndian(t *testing.T) {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, 1234)
	v, err := decodeSample(b, 2, sampleFormatUint)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1234 {
		t.Errorf("got %v, want 1234", v)
	}
}

func TestDecodeSampleInt16Negative(t *testing.T) {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(int16(-50)))
	v, err := decodeSample(b, 2, sampleFormatInt)
	if err != nil {
		t.Fatal(err)
	}
	if v != -50 {
		t.Errorf("got %v, want -50", v)
	}
}

func TestDecodeSampleFloat32(t *testing.T) {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, 0x42c80000) // 100.0f
	v, err := decodeSample(b, 4, sampleFormatFloat)
	if err != nil {
		t.Fatal(err)
	}
	if v != 100.0 {
		t.Errorf("got %v, want 100.0", v)
	}
}

func TestUndoHorizontalPredictorRestoresOriginal(t *testing.T) {
	// Two rows of 4 uint16 samples, single band.
	width, height, samplesPerPixel, bytesPerSample := 4, 2, 1, 2
	original := [][]uint16{{10, 12, 9, 20}, {5, 5, 5, 5}}

	raw := make([]byte, height*width*bytesPerSample)
	for row, vals := range original {
		deltas := make([]uint16, len(vals))
		deltas[0] = vals[0]
		for i := 1; i < len(vals); i++ {
			deltas[i] = vals[i] - vals[i-1]
		}
		for col, d := range deltas {
			off := (row*width + col) * bytesPerSample
			binary.BigEndian.PutUint16(raw[off:], d)
		}
	}

	undoHorizontalPredictor(raw, width, height, samplesPerPixel, bytesPerSample, sampleFormatUint)

	for row, vals := range original {
		for col, want := range vals {
			off := (row*width + col) * bytesPerSample
			got := binary.BigEndian.Uint16(raw[off:])
			if got != want {
				t.Errorf("row=%d col=%d: got %d, want %d", row, col, got, want)
			}
		}
	}
}

func TestDecompressStripRejectsUnknownCompression(t *testing.T) {
	if _, err := decompressStrip(nil, 99); err == nil {
		t.Error("expected an error for an unsupported compression scheme")
	}
}

func TestDecompressStripPassesThroughUncompressed(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	got, err := decompressStrip(data, compressionNone)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 || got[0] != 1 {
		t.Errorf("got %v, want passthrough of %v", got, data)
	}
}
