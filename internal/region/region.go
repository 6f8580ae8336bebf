// Package region writes the Anvil (.mca) region files that hold a world's
// chunks (C9), grounded on the original implementation's write_regions.
package region

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/defvs/francegen/internal/chunkenc"
	"github.com/defvs/francegen/internal/nbtio"
	"github.com/defvs/francegen/internal/terrain"
	"github.com/defvs/francegen/internal/worldgen/errs"
)

const (
	chunksPerRegionSide = 32
	sectorBytes         = 4096
	headerSectors       = 2
	// maxInlineSectors is the largest sector count an Anvil header entry
	// can address directly (1 byte). Larger chunks spill to a ".mcc"
	// sidecar file per the format's external-chunk extension.
	maxInlineSectors    = 255
	externalCompression = 2 + 128
)

// Key identifies a chunk column by chunk coordinates (world block
// coordinates divided by 16).
type Key struct {
	X, Z int32
}

// Stats summarizes a completed region-writing pass.
type Stats struct {
	RegionFiles   int
	ChunksWritten int
}

type chunkJob struct {
	x, z  int32
	empty bool
}

// Write groups every chunk in columns into its owning 32x32 region,
// optionally padding empty_chunk_radius chunks around the populated
// rectangle's frame (spec.md's Open Question iii), and writes one .mca
// file per region using up to workers goroutines with exclusive
// per-region ownership.
func Write(
	ctx context.Context,
	outputDir string,
	columns map[Key]*chunkenc.ChunkHeights,
	policy *terrain.Policy,
	generateFeatures bool,
	emptyChunkRadius int,
	timestamp int64,
	workers int,
	onChunkWritten func(),
) (Stats, error) {
	if len(columns) == 0 {
		return Stats{}, nil
	}

	regionDir := filepath.Join(outputDir, "region")
	if err := os.MkdirAll(regionDir, 0o755); err != nil {
		return Stats{}, errs.New(errs.IOError, "create region directory", regionDir, err)
	}

	perRegion := make(map[Key][]chunkJob)
	minX, maxX := int32(1<<31-1), int32(-1<<31)
	minZ, maxZ := int32(1<<31-1), int32(-1<<31)
	for k := range columns {
		regionKey := Key{X: floorDiv32(k.X, chunksPerRegionSide), Z: floorDiv32(k.Z, chunksPerRegionSide)}
		perRegion[regionKey] = append(perRegion[regionKey], chunkJob{x: k.X, z: k.Z})
		if k.X < minX {
			minX = k.X
		}
		if k.X > maxX {
			maxX = k.X
		}
		if k.Z < minZ {
			minZ = k.Z
		}
		if k.Z > maxZ {
			maxZ = k.Z
		}
	}

	if emptyChunkRadius > 0 {
		padded := int32(emptyChunkRadius)
		padMinX, padMaxX := minX-padded, maxX+padded
		padMinZ, padMaxZ := minZ-padded, maxZ+padded
		for cx := padMinX; cx <= padMaxX; cx++ {
			for cz := padMinZ; cz <= padMaxZ; cz++ {
				if cx >= minX && cx <= maxX && cz >= minZ && cz <= maxZ {
					continue // inside the populated rectangle, not the frame
				}
				key := Key{X: cx, Z: cz}
				if _, ok := columns[key]; ok {
					continue
				}
				regionKey := Key{X: floorDiv32(cx, chunksPerRegionSide), Z: floorDiv32(cz, chunksPerRegionSide)}
				perRegion[regionKey] = append(perRegion[regionKey], chunkJob{x: cx, z: cz, empty: true})
			}
		}
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	regionKeys := make([]Key, 0, len(perRegion))
	for k := range perRegion {
		regionKeys = append(regionKeys, k)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	written := make([]int, len(regionKeys))

	for i, regionKey := range regionKeys {
		i, regionKey := i, regionKey
		jobs := perRegion[regionKey]
		group.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}
			count, err := writeRegionFile(regionDir, regionKey, jobs, columns, policy, generateFeatures, timestamp, onChunkWritten)
			if err != nil {
				return err
			}
			written[i] = count
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Stats{}, err
	}

	total := 0
	for _, c := range written {
		total += c
	}
	return Stats{RegionFiles: len(regionKeys), ChunksWritten: total}, nil
}

func writeRegionFile(
	regionDir string,
	regionKey Key,
	jobs []chunkJob,
	columns map[Key]*chunkenc.ChunkHeights,
	policy *terrain.Policy,
	generateFeatures bool,
	timestamp int64,
	onChunkWritten func(),
) (int, error) {
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].z != jobs[j].z {
			return jobs[i].z < jobs[j].z
		}
		return jobs[i].x < jobs[j].x
	})

	var locations [1024]uint32
	var timestamps [1024]uint32
	var payload bytes.Buffer
	sectorCursor := uint32(0)
	written := 0

	path := filepath.Join(regionDir, fmt.Sprintf("r.%d.%d.mca", regionKey.X, regionKey.Z))

	for _, job := range jobs {
		var compressed []byte
		var err error
		if job.empty {
			compressed, err = nbtio.EncodeEmptyChunkCompressed(job.x, job.z, generateFeatures, timestamp, 0)
		} else {
			heights, ok := columns[Key{X: job.x, Z: job.z}]
			if !ok {
				continue
			}
			chunk := chunkenc.Build(job.x, job.z, heights, policy, generateFeatures)
			compressed, err = nbtio.EncodeChunkCompressed(chunk, timestamp, 0)
		}
		if err != nil {
			return written, errs.New(errs.IOError, "encode chunk", fmt.Sprintf("(%d,%d)", job.x, job.z), err)
		}

		localX := uint32(mod32(job.x, chunksPerRegionSide))
		localZ := uint32(mod32(job.z, chunksPerRegionSide))
		entryIndex := localZ*chunksPerRegionSide + localX
		timestamps[entryIndex] = uint32(timestamp)

		sectorCount := writeChunkPayload(&payload, regionDir, regionKey, job.x, job.z, compressed)
		locations[entryIndex] = (headerSectors+sectorCursor)<<8 | sectorCount
		sectorCursor += uint32(sectorCount)

		written++
		if onChunkWritten != nil {
			onChunkWritten()
		}
	}

	return written, flushRegionFile(path, locations, timestamps, payload.Bytes())
}

// writeChunkPayload appends one chunk's length-prefixed, sector-padded
// payload to buf, spilling to an external ".mcc" file when the compressed
// chunk would need more sectors than the 1-byte header field can address
// (a real possibility here given how tall this world's columns can run).
// Returns the sector count to record in the region header.
func writeChunkPayload(buf *bytes.Buffer, regionDir string, regionKey Key, chunkX, chunkZ int32, compressed []byte) uint32 {
	inlineLen := 4 + 1 + len(compressed) // length prefix + compression-type byte + payload
	sectors := (inlineLen + sectorBytes - 1) / sectorBytes

	if sectors <= maxInlineSectors {
		writeLengthPrefixed(buf, byte(2), compressed)
		padToSector(buf)
		return uint32(sectors)
	}

	mccPath := filepath.Join(regionDir, fmt.Sprintf("c.%d.%d.mcc", chunkX, chunkZ))
	_ = os.WriteFile(mccPath, compressed, 0o644)

	var header bytes.Buffer
	writeLengthPrefixed(&header, byte(externalCompression), nil)
	buf.Write(header.Bytes())
	padToSector(buf)
	_ = regionKey
	return 1
}

func writeLengthPrefixed(buf *bytes.Buffer, compressionType byte, payload []byte) {
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(payload)+1))
	buf.Write(lenBytes[:])
	buf.WriteByte(compressionType)
	buf.Write(payload)
}

func padToSector(buf *bytes.Buffer) {
	if rem := buf.Len() % sectorBytes; rem != 0 {
		buf.Write(make([]byte, sectorBytes-rem))
	}
}

func flushRegionFile(path string, locations, timestamps [1024]uint32, payload []byte) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errs.New(errs.IOError, "create region file", path, err)
	}
	defer f.Close()

	var header bytes.Buffer
	for _, loc := range locations {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], loc)
		header.Write(b[:])
	}
	for _, ts := range timestamps {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], ts)
		header.Write(b[:])
	}

	if _, err := f.Write(header.Bytes()); err != nil {
		return errs.New(errs.IOError, "write region header", path, err)
	}
	if _, err := f.Write(payload); err != nil {
		return errs.New(errs.IOError, "write region payload", path, err)
	}
	return nil
}

func floorDiv32(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod32(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
