// Package nbtio serializes encoded chunks and patches world template files
// to the Anvil NBT wire format, grounded on spec.md §4.9 and §5.
package nbtio

import (
	"bytes"

	"github.com/klauspost/compress/zlib"
	"github.com/oriumgames/nbt"

	"github.com/defvs/francegen/internal/chunkenc"
	"github.com/defvs/francegen/internal/georef"
)

type chunkNBT struct {
	DataVersion    int32         `nbt:"DataVersion"`
	LastUpdate     int64         `nbt:"LastUpdate"`
	InhabitedTime  int64         `nbt:"InhabitedTime"`
	XPos           int32         `nbt:"xPos"`
	ZPos           int32         `nbt:"zPos"`
	YPos           int32         `nbt:"yPos"`
	Status         string        `nbt:"Status"`
	Sections       []sectionNBT  `nbt:"sections"`
	Heightmaps     heightmapsNBT `nbt:"Heightmaps"`
	Structures     structuresNBT `nbt:"structures"`
	PostProcessing [][]int16     `nbt:"PostProcessing,omitempty"`
}

type sectionNBT struct {
	Y           int8           `nbt:"Y"`
	BlockStates blockStatesNBT `nbt:"block_states"`
	Biomes      biomesNBT      `nbt:"biomes"`
}

type blockStatesNBT struct {
	Palette []paletteBlockNBT `nbt:"palette"`
	Data    []int64           `nbt:"data,array,omitempty"`
}

type paletteBlockNBT struct {
	Name string `nbt:"Name"`
}

type biomesNBT struct {
	Palette []string `nbt:"palette"`
	Data    []int64  `nbt:"data,array,omitempty"`
}

type heightmapsNBT struct {
	MotionBlocking []int64 `nbt:"MOTION_BLOCKING,array"`
}

type structuresNBT struct {
	References map[string][]int64     `nbt:"References"`
	Starts     map[string]interface{} `nbt:"Starts"`
}

// fromChunk translates an encoded chunkenc.Chunk into its NBT form. sectionY
// is stored as a signed byte per the Anvil format, which bounds francegen's
// addressable section range to [-128, 127] (world Y in [-2048, 2047]),
// satisfying spec.md's BEDROCK_Y/MAX_WORLD_Y bounds with room to spare.
func fromChunk(c chunkenc.Chunk, lastUpdate, inhabitedTime int64) chunkNBT {
	sections := make([]sectionNBT, len(c.Sections))
	for i, s := range c.Sections {
		blockPalette := make([]paletteBlockNBT, len(s.BlockPalette))
		for j, name := range s.BlockPalette {
			blockPalette[j] = paletteBlockNBT{Name: name}
		}
		sections[i] = sectionNBT{
			Y: int8(s.Y),
			BlockStates: blockStatesNBT{
				Palette: blockPalette,
				Data:    s.BlockIndices,
			},
			Biomes: biomesNBT{
				Palette: s.BiomePalette,
				Data:    s.BiomeIndices,
			},
		}
	}

	var postProcessing [][]int16
	if c.PostProcessing {
		postProcessing = make([][]int16, chunkenc.PostProcessingSections)
	}

	return chunkNBT{
		DataVersion:   chunkenc.DataVersion,
		LastUpdate:    lastUpdate,
		InhabitedTime: inhabitedTime,
		XPos:          c.X,
		ZPos:          c.Z,
		YPos:          chunkenc.SectionYMin,
		Status:        c.Status,
		Sections:      sections,
		Heightmaps:    heightmapsNBT{MotionBlocking: c.Heightmap},
		Structures: structuresNBT{
			References: map[string][]int64{},
			Starts:     map[string]interface{}{},
		},
		PostProcessing: postProcessing,
	}
}

// EncodeEmptyChunk serializes a sectionless placeholder chunk, used to pad
// a region's empty_chunk_radius frame (spec.md's Open Question iii): no
// sections, an all-sentinel heightmap, and the same status/post-processing
// rules as a real chunk.
func EncodeEmptyChunk(chunkX, chunkZ int32, generateFeatures bool, lastUpdate, inhabitedTime int64) ([]byte, error) {
	status := "minecraft:full"
	var postProcessing [][]int16
	if generateFeatures {
		status = "minecraft:liquid_carvers"
		postProcessing = make([][]int16, chunkenc.PostProcessingSections)
	}

	heightmapBits := chunkenc.HeightmapBits(georef.BedrockY, georef.MaxWorldY)
	sentinel := make([]uint64, chunkenc.SectionSide*chunkenc.SectionSide)
	for i := range sentinel {
		sentinel[i] = 1
	}

	chunk := chunkNBT{
		DataVersion:   chunkenc.DataVersion,
		LastUpdate:    lastUpdate,
		InhabitedTime: inhabitedTime,
		XPos:          chunkX,
		ZPos:          chunkZ,
		YPos:          chunkenc.SectionYMin,
		Status:        status,
		Sections:      nil,
		Heightmaps:    heightmapsNBT{MotionBlocking: chunkenc.PackLongs(sentinel, heightmapBits)},
		Structures: structuresNBT{
			References: map[string][]int64{},
			Starts:     map[string]interface{}{},
		},
		PostProcessing: postProcessing,
	}

	var buf bytes.Buffer
	if err := nbt.NewEncoderWithEncoding(&buf, nbt.BigEndian).Encode(chunk); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeEmptyChunkCompressed is EncodeEmptyChunk followed by Anvil
// scheme-2 (zlib) compression.
func EncodeEmptyChunkCompressed(chunkX, chunkZ int32, generateFeatures bool, lastUpdate, inhabitedTime int64) ([]byte, error) {
	raw, err := EncodeEmptyChunk(chunkX, chunkZ, generateFeatures, lastUpdate, inhabitedTime)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeChunk serializes an encoded chunk to uncompressed big-endian NBT
// bytes, ready for Anvil scheme-2 (zlib) compression by the region writer.
func EncodeChunk(c chunkenc.Chunk, lastUpdate, inhabitedTime int64) ([]byte, error) {
	var buf bytes.Buffer
	if err := nbt.NewEncoderWithEncoding(&buf, nbt.BigEndian).Encode(fromChunk(c, lastUpdate, inhabitedTime)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeChunkCompressed returns the zlib-compressed NBT payload (Anvil
// compression scheme 2) for direct embedding in a region file.
func EncodeChunkCompressed(c chunkenc.Chunk, lastUpdate, inhabitedTime int64) ([]byte, error) {
	raw, err := EncodeChunk(c, lastUpdate, inhabitedTime)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
