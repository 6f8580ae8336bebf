package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverTilesSortsByPathAndFiltersExtension(t *testing.T) {
	dir := t.TempDir()
	names := []string{"b.TIF", "a.tif", "c.tiff", "notes.txt"}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := DiscoverTiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d tiles, want 3: %v", len(got), got)
	}
	want := []string{
		filepath.Join(dir, "a.tif"),
		filepath.Join(dir, "b.TIF"),
		filepath.Join(dir, "c.tiff"),
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscoverTilesWalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "tile.tif"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := DiscoverTiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d tiles, want 1", len(got))
	}
}
