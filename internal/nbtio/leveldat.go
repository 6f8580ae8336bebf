package nbtio

import (
	"bytes"

	"github.com/klauspost/compress/gzip"
	"github.com/oriumgames/nbt"
)

type levelDatNBT struct {
	Data  levelDataNBT           `nbt:"Data"`
	Extra map[string]interface{} `nbt:"*"`
}

type levelDataNBT struct {
	LevelName string                 `nbt:"LevelName"`
	Spawn     *spawnDataNBT          `nbt:"spawn,omitempty"`
	Other     map[string]interface{} `nbt:"*"`
}

type spawnDataNBT struct {
	Pos   []int32                `nbt:"pos,array,omitempty"`
	Other map[string]interface{} `nbt:"*"`
}

// Spawn is the world's configured spawn point and display name, applied to
// the level.dat template by PatchLevelDat.
type Spawn struct {
	X, Y, Z   int32
	LevelName string
}

// PatchLevelDat rewrites a gzip-compressed level.dat's LevelName and spawn
// position (both the modern "spawn.pos" int array and any legacy top-level
// SpawnX/Y/Z fields already present), leaving every other NBT tag
// untouched. Grounded on the original implementation's
// customize_level_dat/set_spawn_position.
func PatchLevelDat(raw []byte, spawn Spawn) ([]byte, error) {
	gzr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer gzr.Close()

	var level levelDatNBT
	if err := nbt.NewDecoderWithEncoding(gzr, nbt.BigEndian).Decode(&level); err != nil {
		return nil, err
	}

	level.Data.LevelName = spawn.LevelName
	if level.Data.Spawn == nil {
		level.Data.Spawn = &spawnDataNBT{}
	}
	level.Data.Spawn.Pos = []int32{spawn.X, spawn.Y, spawn.Z}
	for key, value := range map[string]int32{"SpawnX": spawn.X, "SpawnY": spawn.Y, "SpawnZ": spawn.Z} {
		if _, ok := level.Data.Other[key]; ok {
			level.Data.Other[key] = value
		}
	}

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	if err := nbt.NewEncoderWithEncoding(gzw, nbt.BigEndian).Encode(level); err != nil {
		gzw.Close()
		return nil, err
	}
	if err := gzw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
