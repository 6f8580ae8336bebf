package worldmeta

import (
	"path/filepath"
	"testing"

	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/ingest"
	"github.com/defvs/francegen/internal/worldgen/errs"
)

func TestWriteThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	origin := georef.Coord{X: 123.5, Y: -45.25}
	stats := ingest.Stats{MinX: -10, MaxX: 10, MinZ: -5, MaxZ: 5, MinHeight: 1.5, MaxHeight: 99.25}

	path, err := Write(dir, origin, stats)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, FileName) {
		t.Errorf("path = %q, want %q", path, filepath.Join(dir, FileName))
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Origin() != origin {
		t.Errorf("origin = %+v, want %+v", loaded.Origin(), origin)
	}
	gotStats := loaded.ToStats()
	if gotStats.MinX != stats.MinX || gotStats.MaxX != stats.MaxX || gotStats.MinZ != stats.MinZ || gotStats.MaxZ != stats.MaxZ {
		t.Errorf("stats = %+v, want bounds to match %+v", gotStats, stats)
	}
	if gotStats.Width != 21 || gotStats.Depth != 11 {
		t.Errorf("width/depth = %d/%d, want 21/11", gotStats.Width, gotStats.Depth)
	}
}

func TestWriteKeepsWorldIDOnRewrite(t *testing.T) {
	dir := t.TempDir()
	origin := georef.Coord{X: 1, Y: 2}
	stats := ingest.Stats{MinX: 0, MaxX: 1, MinZ: 0, MaxZ: 1}

	if _, err := Write(dir, origin, stats); err != nil {
		t.Fatal(err)
	}
	first, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if first.WorldID == "" {
		t.Fatal("expected a generated WorldID")
	}

	if _, err := Write(dir, origin, stats); err != nil {
		t.Fatal(err)
	}
	second, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if second.WorldID != first.WorldID {
		t.Errorf("WorldID changed across rewrite: %q -> %q", first.WorldID, second.WorldID)
	}
}

func TestLoadMissingFileReturnsIOError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected an error for a missing metadata file")
	}
	if !errs.Is(err, errs.IOError) {
		t.Errorf("err = %v, want an IOError", err)
	}
}

func TestPathAcceptsDirectFilePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.json")
	if got := Path(file); got != file {
		t.Errorf("Path(%q) = %q, want unchanged", file, got)
	}
}
