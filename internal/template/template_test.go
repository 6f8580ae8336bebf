package template

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/oriumgames/nbt"

	"github.com/defvs/francegen/internal/nbtio"
)

func writeFixtureLevelDat(t *testing.T, path string) {
	t.Helper()
	level := struct {
		Data struct {
			LevelName string `nbt:"LevelName"`
		} `nbt:"Data"`
	}{}
	level.Data.LevelName = "template default"

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	if err := nbt.NewEncoderWithEncoding(gzw, nbt.BigEndian).Encode(level); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatalf("close fixture gzip: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestApplyCopiesLevelDatAndDatapacks(t *testing.T) {
	templateDir := t.TempDir()
	outputDir := t.TempDir()

	writeFixtureLevelDat(t, filepath.Join(templateDir, "level.dat"))

	datapackFile := filepath.Join(templateDir, "datapacks", "vanilla", "pack.mcmeta")
	if err := os.MkdirAll(filepath.Dir(datapackFile), 0o755); err != nil {
		t.Fatalf("mkdir fixture datapack: %v", err)
	}
	if err := os.WriteFile(datapackFile, []byte(`{"pack":{}}`), 0o644); err != nil {
		t.Fatalf("write fixture datapack: %v", err)
	}

	spawn := nbtio.Spawn{X: 10, Y: 70, Z: -5, LevelName: "francegen world"}
	if err := Apply(templateDir, outputDir, spawn); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "level.dat")); err != nil {
		t.Errorf("level.dat not written: %v", err)
	}
	copiedDatapack := filepath.Join(outputDir, "datapacks", "vanilla", "pack.mcmeta")
	if data, err := os.ReadFile(copiedDatapack); err != nil || string(data) != `{"pack":{}}` {
		t.Errorf("datapack not copied correctly: data=%q err=%v", data, err)
	}
}

func TestApplySkipsMissingDatapacks(t *testing.T) {
	templateDir := t.TempDir()
	outputDir := t.TempDir()
	writeFixtureLevelDat(t, filepath.Join(templateDir, "level.dat"))

	spawn := nbtio.Spawn{X: 0, Y: 64, Z: 0, LevelName: "francegen world"}
	if err := Apply(templateDir, outputDir, spawn); err != nil {
		t.Fatalf("Apply: %v", err)
	}
}
