package rasteroverlay

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestDecodeTileDecodesPNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	img, err := DecodeTile(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if uint8(r>>8) != 10 || uint8(g>>8) != 20 || uint8(b>>8) != 30 || uint8(a>>8) != 255 {
		t.Errorf("pixel = (%d,%d,%d,%d)", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestDecodeTileRejectsGarbage(t *testing.T) {
	if _, err := DecodeTile([]byte("not an image")); err == nil {
		t.Fatal("expected an error for unrecognized image data")
	}
}
