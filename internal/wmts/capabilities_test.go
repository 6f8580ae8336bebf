package wmts

import "testing"

const sampleCapabilities = `<?xml version="1.0" encoding="UTF-8"?>
<Capabilities xmlns="http://www.opengis.net/wmts/1.0">
  <OperationsMetadata>
    <Operation name="GetTile">
      <DCP>
        <HTTP>
          <Get href="https://wmts.example.test/tile"/>
        </HTTP>
      </DCP>
    </Operation>
  </OperationsMetadata>
  <Contents>
    <Layer>
      <Identifier>ORTHOIMAGERY.ORTHOPHOTOS</Identifier>
      <Format>image/jpeg</Format>
      <Style isDefault="true">
        <Identifier>normal</Identifier>
      </Style>
      <TileMatrixSetLink>
        <TileMatrixSet>PM</TileMatrixSet>
        <TileMatrixSetLimits>
          <TileMatrixLimits>
            <TileMatrix>15</TileMatrix>
            <MinTileRow>100</MinTileRow>
            <MaxTileRow>200</MaxTileRow>
            <MinTileCol>50</MinTileCol>
            <MaxTileCol>150</MaxTileCol>
          </TileMatrixLimits>
        </TileMatrixSetLimits>
      </TileMatrixSetLink>
    </Layer>
    <TileMatrixSet>
      <Identifier>PM</Identifier>
      <SupportedCRS>urn:ogc:def:crs:EPSG::3857</SupportedCRS>
      <TileMatrix>
        <Identifier>15</Identifier>
        <ScaleDenominator>4891.97</ScaleDenominator>
        <TopLeftCorner>-20037508.34 20037508.34</TopLeftCorner>
        <TileWidth>256</TileWidth>
        <TileHeight>256</TileHeight>
        <MatrixWidth>32768</MatrixWidth>
        <MatrixHeight>32768</MatrixHeight>
      </TileMatrix>
    </TileMatrixSet>
  </Contents>
</Capabilities>`

func TestParseExtractsGetTileURL(t *testing.T) {
	caps, err := Parse([]byte(sampleCapabilities), "ORTHOIMAGERY.ORTHOPHOTOS", "PM")
	if err != nil {
		t.Fatal(err)
	}
	if caps.GetTileURL != "https://wmts.example.test/tile" {
		t.Errorf("GetTileURL = %q", caps.GetTileURL)
	}
}

func TestParseCollectsFormatsAndDefaultStyle(t *testing.T) {
	caps, err := Parse([]byte(sampleCapabilities), "ORTHOIMAGERY.ORTHOPHOTOS", "PM")
	if err != nil {
		t.Fatal(err)
	}
	if len(caps.Formats) != 1 || caps.Formats[0] != "image/jpeg" {
		t.Errorf("Formats = %v", caps.Formats)
	}
	if caps.DefaultStyle != "normal" {
		t.Errorf("DefaultStyle = %q, want normal", caps.DefaultStyle)
	}
}

func TestParseNormalizesSupportedCRS(t *testing.T) {
	caps, err := Parse([]byte(sampleCapabilities), "ORTHOIMAGERY.ORTHOPHOTOS", "PM")
	if err != nil {
		t.Fatal(err)
	}
	if caps.SupportedCRS != "EPSG:3857" {
		t.Errorf("SupportedCRS = %q, want EPSG:3857", caps.SupportedCRS)
	}
}

func TestParseMatrixAndLimits(t *testing.T) {
	caps, err := Parse([]byte(sampleCapabilities), "ORTHOIMAGERY.ORTHOPHOTOS", "PM")
	if err != nil {
		t.Fatal(err)
	}
	matrix, ok := caps.Matrices["15"]
	if !ok {
		t.Fatal("expected matrix 15")
	}
	if matrix.TopLeftX != -20037508.34 || matrix.TileWidth != 256 {
		t.Errorf("matrix = %+v", matrix)
	}
	limits, ok := caps.Limits["15"]
	if !ok || limits.MinRow != 100 || limits.MaxCol != 150 {
		t.Errorf("limits = %+v, ok=%v", limits, ok)
	}
}

func TestParseMissingLayerReturnsError(t *testing.T) {
	_, err := Parse([]byte(sampleCapabilities), "no-such-layer", "PM")
	if err == nil {
		t.Fatal("expected an error for a missing layer")
	}
}

func TestParseMissingMatrixSetReturnsError(t *testing.T) {
	_, err := Parse([]byte(sampleCapabilities), "ORTHOIMAGERY.ORTHOPHOTOS", "no-such-set")
	if err == nil {
		t.Fatal("expected an error for a missing tile matrix set")
	}
}
