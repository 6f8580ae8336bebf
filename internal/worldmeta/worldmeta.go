// Package worldmeta reads and writes francegen_meta.json, the small sidecar
// file a generated world directory carries so the `locate` subcommand can
// recover its origin and bounds without re-ingesting any GeoTIFF tiles.
// Grounded on original_source/src/metadata.rs.
package worldmeta

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/google/uuid"

	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/ingest"
	"github.com/defvs/francegen/internal/worldgen/errs"
)

// FileName is the sidecar's name inside a generated world directory.
const FileName = "francegen_meta.json"

// Metadata is the serialized form of a world's origin and bounds.
type Metadata struct {
	WorldID      string  `json:"world_id"`
	OriginModelX float64 `json:"origin_model_x"`
	OriginModelZ float64 `json:"origin_model_z"`
	MinX         int32   `json:"min_x"`
	MaxX         int32   `json:"max_x"`
	MinZ         int32   `json:"min_z"`
	MaxZ         int32   `json:"max_z"`
	MinHeight    float64 `json:"min_height"`
	MaxHeight    float64 `json:"max_height"`
}

// FromStats builds a Metadata from a run's origin and ingest stats, minting
// a fresh WorldID. Write reuses an existing world's ID across re-runs
// instead of calling this directly.
func FromStats(origin georef.Coord, stats ingest.Stats) Metadata {
	return Metadata{
		WorldID:      uuid.NewString(),
		OriginModelX: origin.X,
		OriginModelZ: origin.Y,
		MinX:         stats.MinX,
		MaxX:         stats.MaxX,
		MinZ:         stats.MinZ,
		MaxZ:         stats.MaxZ,
		MinHeight:    stats.MinHeight,
		MaxHeight:    stats.MaxHeight,
	}
}

// ToStats reconstructs the ingest.Stats a Metadata was derived from, for
// the `locate` subcommand, which never re-ingests the original tiles.
func (m Metadata) ToStats() ingest.Stats {
	width := m.MaxX - m.MinX + 1
	if width < 0 {
		width = 0
	}
	depth := m.MaxZ - m.MinZ + 1
	if depth < 0 {
		depth = 0
	}
	return ingest.Stats{
		Width:     int(width),
		Depth:     int(depth),
		MinHeight: m.MinHeight,
		MaxHeight: m.MaxHeight,
		MinX:      m.MinX,
		MaxX:      m.MaxX,
		MinZ:      m.MinZ,
		MaxZ:      m.MaxZ,
		CenterX:   float64(m.MinX+m.MaxX) / 2,
		CenterZ:   float64(m.MinZ+m.MaxZ) / 2,
	}
}

// Origin returns the model-space coordinate origin encoded in m.
func (m Metadata) Origin() georef.Coord {
	return georef.Coord{X: m.OriginModelX, Y: m.OriginModelZ}
}

// Path resolves base into the metadata file path: base joined with
// FileName if base is a directory, or base itself otherwise (mirroring
// the original's metadata_path, which accepts either a world directory or
// a direct file path).
func Path(base string) string {
	info, err := os.Stat(base)
	if err == nil && info.IsDir() {
		return filepath.Join(base, FileName)
	}
	return base
}

// Write serializes a world's origin/stats to base's metadata file, keeping
// the existing WorldID when base already carries metadata from a previous
// run (so re-generating a world in place does not mint a new identity).
func Write(base string, origin georef.Coord, stats ingest.Stats) (string, error) {
	path := Path(base)
	meta := FromStats(origin, stats)
	if existing, err := Load(base); err == nil && existing.WorldID != "" {
		meta.WorldID = existing.WorldID
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", errs.New(errs.DecodeError, "encode world metadata", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errs.New(errs.IOError, "write world metadata", path, err)
	}
	return path, nil
}

// Load reads and parses a world directory's (or file's) metadata.
func Load(base string) (Metadata, error) {
	path := Path(base)
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, errs.New(errs.IOError, "read world metadata", path, err)
	}
	var m Metadata
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &m); err != nil {
		return Metadata{}, errs.New(errs.DecodeError, "parse world metadata", path, err)
	}
	return m, nil
}
