package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverTiles walks dir for .tif/.tiff files (case-insensitive) and
// returns their paths sorted lexicographically, giving ingest order a
// stable, deterministic tile sequence (spec.md §7's "sorted by path" rule,
// which in turn fixes which tile wins the world origin).
func DiscoverTiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".tif" || ext == ".tiff" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
