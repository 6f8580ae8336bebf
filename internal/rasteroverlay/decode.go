package rasteroverlay

import (
	"bytes"
	"image"
	_ "image/jpeg" // registers the "jpeg" format with image.Decode
	_ "image/png"  // registers the "png" format with image.Decode

	"github.com/defvs/francegen/internal/worldgen/errs"
)

// DecodeTile decodes a WMTS tile's raw PNG or JPEG bytes (whichever the
// GetCapabilities document's Format advertised).
func DecodeTile(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errs.New(errs.DecodeError, "decode WMTS tile image", "", err)
	}
	return img, nil
}
