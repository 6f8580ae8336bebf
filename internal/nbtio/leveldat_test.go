package nbtio

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/oriumgames/nbt"
)

func fakeLevelDat(t *testing.T, spawnX int32) []byte {
	t.Helper()
	level := levelDatNBT{
		Data: levelDataNBT{
			LevelName: "old name",
			Other:     map[string]interface{}{"SpawnX": spawnX, "SpawnY": int32(64), "SpawnZ": int32(0)},
		},
		Extra: map[string]interface{}{},
	}
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	if err := nbt.NewEncoderWithEncoding(gzw, nbt.BigEndian).Encode(level); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatalf("close fixture gzip: %v", err)
	}
	return buf.Bytes()
}

func TestPatchLevelDatUpdatesNameAndSpawn(t *testing.T) {
	raw := fakeLevelDat(t, 0)

	patched, err := PatchLevelDat(raw, Spawn{X: 100, Y: 70, Z: -50, LevelName: "francegen"})
	if err != nil {
		t.Fatalf("PatchLevelDat: %v", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(patched))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer gzr.Close()

	var level levelDatNBT
	if err := nbt.NewDecoderWithEncoding(gzr, nbt.BigEndian).Decode(&level); err != nil {
		t.Fatalf("decode patched: %v", err)
	}

	if level.Data.LevelName != "francegen" {
		t.Errorf("LevelName = %q, want francegen", level.Data.LevelName)
	}
	if level.Data.Spawn == nil || len(level.Data.Spawn.Pos) != 3 {
		t.Fatalf("spawn.pos missing or wrong length: %+v", level.Data.Spawn)
	}
	if level.Data.Spawn.Pos[0] != 100 || level.Data.Spawn.Pos[1] != 70 || level.Data.Spawn.Pos[2] != -50 {
		t.Errorf("spawn.pos = %v, want [100 70 -50]", level.Data.Spawn.Pos)
	}
}
