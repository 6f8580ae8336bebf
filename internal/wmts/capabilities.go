// Package wmts parses WMTS GetCapabilities documents and computes which
// tiles of a chosen TileMatrix cover a world bounding box (C7's external
// collaborator).
package wmts

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/defvs/francegen/internal/worldgen/errs"
)

// capabilitiesDoc mirrors only the subset of a WMTS 1.0.0 GetCapabilities
// document this package needs; unrecognized elements are ignored by
// encoding/xml by default.
type capabilitiesDoc struct {
	XMLName xml.Name `xml:"Capabilities"`
	Ops     struct {
		Operations []xmlOperation `xml:"Operation"`
	} `xml:"OperationsMetadata"`
	Contents struct {
		Layers         []xmlLayer         `xml:"Layer"`
		TileMatrixSets []xmlTileMatrixSet `xml:"TileMatrixSet"`
	} `xml:"Contents"`
}

type xmlOperation struct {
	Name string `xml:"name,attr"`
	DCP  struct {
		HTTP struct {
			Get []xmlGet `xml:"Get"`
		} `xml:"HTTP"`
	} `xml:"DCP"`
}

type xmlGet struct {
	// The xlink:href attribute; matched by local name since the xlink
	// namespace prefix varies across WMTS servers.
	Href string `xml:"href,attr"`
}

type xmlLayer struct {
	Identifier        string             `xml:"Identifier"`
	Format            []string           `xml:"Format"`
	Style             []xmlStyle         `xml:"Style"`
	TileMatrixSetLink []xmlMatrixSetLink `xml:"TileMatrixSetLink"`
}

type xmlStyle struct {
	IsDefault  string `xml:"isDefault,attr"`
	Identifier string `xml:"Identifier"`
}

type xmlMatrixSetLink struct {
	TileMatrixSet       string                `xml:"TileMatrixSet"`
	TileMatrixSetLimits []xmlTileMatrixLimits `xml:"TileMatrixSetLimits>TileMatrixLimits"`
}

type xmlTileMatrixLimits struct {
	TileMatrix   string `xml:"TileMatrix"`
	MinTileRow   uint32 `xml:"MinTileRow"`
	MaxTileRow   uint32 `xml:"MaxTileRow"`
	MinTileCol   uint32 `xml:"MinTileCol"`
	MaxTileCol   uint32 `xml:"MaxTileCol"`
}

type xmlTileMatrixSet struct {
	Identifier   string          `xml:"Identifier"`
	SupportedCRS string          `xml:"SupportedCRS"`
	TileMatrix   []xmlTileMatrix `xml:"TileMatrix"`
}

type xmlTileMatrix struct {
	Identifier       string  `xml:"Identifier"`
	ScaleDenominator float64 `xml:"ScaleDenominator"`
	TopLeftCorner    string  `xml:"TopLeftCorner"`
	TileWidth        uint32  `xml:"TileWidth"`
	TileHeight       uint32  `xml:"TileHeight"`
	MatrixWidth      uint32  `xml:"MatrixWidth"`
	MatrixHeight     uint32  `xml:"MatrixHeight"`
}

// TileMatrixLimits restricts tile coverage to a TileMatrixSetLimits range
// (tiles outside it are never requested, even if they'd geometrically
// overlap the bounding box).
type TileMatrixLimits struct {
	MinRow, MaxRow, MinCol, MaxCol uint32
}

// TileMatrix is one zoom level of a TileMatrixSet.
type TileMatrix struct {
	TopLeftX, TopLeftY        float64
	ScaleDenominator          float64
	TileWidth, TileHeight     uint32
	MatrixWidth, MatrixHeight uint32
}

// Resolution is the ground distance, in the TileMatrixSet's CRS units,
// covered by one tile pixel (the OGC WMTS standardized pixel size of
// 0.28mm).
func (m TileMatrix) Resolution() float64 {
	return m.ScaleDenominator * 0.00028
}

// Capabilities is the parsed subset of a GetCapabilities document needed to
// select a layer/style/matrix and build GetTile requests.
type Capabilities struct {
	GetTileURL    string
	Formats       []string
	Styles        []string
	DefaultStyle  string
	SupportedCRS  string
	Matrices      map[string]TileMatrix
	Limits        map[string]TileMatrixLimits
}

// Parse decodes an XML GetCapabilities document, selecting layerName and
// tileMatrixSetName.
func Parse(xmlBody []byte, layerName, tileMatrixSetName string) (*Capabilities, error) {
	var doc capabilitiesDoc
	if err := xml.Unmarshal(xmlBody, &doc); err != nil {
		return nil, errs.New(errs.DecodeError, "parse WMTS capabilities", layerName, err)
	}

	getTileURL := findGetTileURL(doc)
	if getTileURL == "" {
		return nil, errs.New(errs.MissingData, "find GetTile operation", layerName, nil)
	}

	layer, ok := findLayer(doc, layerName)
	if !ok {
		return nil, errs.New(errs.MissingData, "find WMTS layer", layerName, nil)
	}
	matrixSet, ok := findMatrixSet(doc, tileMatrixSetName)
	if !ok {
		return nil, errs.New(errs.MissingData, "find WMTS tile matrix set", tileMatrixSetName, nil)
	}

	caps := &Capabilities{
		GetTileURL:   getTileURL,
		Formats:      layer.Format,
		SupportedCRS: normalizeCRS(matrixSet.SupportedCRS),
		Matrices:     make(map[string]TileMatrix, len(matrixSet.TileMatrix)),
		Limits:       make(map[string]TileMatrixLimits),
	}
	for _, style := range layer.Style {
		caps.Styles = append(caps.Styles, style.Identifier)
		if style.IsDefault == "true" {
			caps.DefaultStyle = style.Identifier
		}
	}
	for _, matrix := range matrixSet.TileMatrix {
		x, y, err := parseCorner(matrix.TopLeftCorner)
		if err != nil {
			return nil, errs.New(errs.DecodeError, "parse TopLeftCorner", matrix.Identifier, err)
		}
		caps.Matrices[matrix.Identifier] = TileMatrix{
			TopLeftX: x, TopLeftY: y,
			ScaleDenominator: matrix.ScaleDenominator,
			TileWidth:        matrix.TileWidth,
			TileHeight:       matrix.TileHeight,
			MatrixWidth:      matrix.MatrixWidth,
			MatrixHeight:     matrix.MatrixHeight,
		}
	}
	for _, link := range layer.TileMatrixSetLink {
		if link.TileMatrixSet != tileMatrixSetName {
			continue
		}
		for _, limit := range link.TileMatrixSetLimits {
			caps.Limits[limit.TileMatrix] = TileMatrixLimits{
				MinRow: limit.MinTileRow, MaxRow: limit.MaxTileRow,
				MinCol: limit.MinTileCol, MaxCol: limit.MaxTileCol,
			}
		}
	}
	return caps, nil
}

func findGetTileURL(doc capabilitiesDoc) string {
	for _, op := range doc.Ops.Operations {
		if op.Name != "GetTile" {
			continue
		}
		if len(op.DCP.HTTP.Get) > 0 {
			return op.DCP.HTTP.Get[0].Href
		}
	}
	return ""
}

func findLayer(doc capabilitiesDoc, name string) (xmlLayer, bool) {
	for _, l := range doc.Contents.Layers {
		if l.Identifier == name {
			return l, true
		}
	}
	return xmlLayer{}, false
}

func findMatrixSet(doc capabilitiesDoc, name string) (xmlTileMatrixSet, bool) {
	for _, m := range doc.Contents.TileMatrixSets {
		if m.Identifier == name {
			return m, true
		}
	}
	return xmlTileMatrixSet{}, false
}

func parseCorner(raw string) (x, y float64, err error) {
	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return 0, 0, errs.New(errs.DecodeError, "parse TopLeftCorner", raw, nil)
	}
	x, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, err
	}
	y, err = strconv.ParseFloat(parts[1], 64)
	return x, y, err
}

func normalizeCRS(raw string) string {
	upper := strings.ToUpper(raw)
	if strings.Contains(upper, "EPSG") {
		idx := strings.LastIndex(raw, ":")
		if idx >= 0 && idx+1 < len(raw) {
			return "EPSG:" + raw[idx+1:]
		}
	}
	return raw
}
