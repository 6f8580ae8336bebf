// Package pipeline orchestrates francegen's subcommands: generate wires
// ingest -> slope -> terrain -> overlay passes -> metadata -> chunk
// encoding -> region writing -> template install; bounds and locate are thin
// wrappers reused by cmd/francegen.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/defvs/francegen/internal/chunkenc"
	"github.com/defvs/francegen/internal/config"
	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/ingest"
	"github.com/defvs/francegen/internal/lidar"
	"github.com/defvs/francegen/internal/nbtio"
	"github.com/defvs/francegen/internal/overlay"
	"github.com/defvs/francegen/internal/overpass"
	"github.com/defvs/francegen/internal/rasteroverlay"
	"github.com/defvs/francegen/internal/region"
	"github.com/defvs/francegen/internal/slope"
	"github.com/defvs/francegen/internal/template"
	"github.com/defvs/francegen/internal/vectoroverlay"
	"github.com/defvs/francegen/internal/wmts"
	"github.com/defvs/francegen/internal/worldgen/errs"
	"github.com/defvs/francegen/internal/worldmeta"
)

const defaultOverpassURL = "https://overpass-api.de/api/interpreter"

// GenerateOptions carries the generate subcommand's inputs (§6).
type GenerateOptions struct {
	InputDir         string
	OutputDir        string
	TemplateDir      string // empty skips template installation
	Bounds           *ingest.ModelBounds
	Threads          int
	MetaOnly         bool
	GenerateFeatures bool
	EmptyChunkRadius int
}

// Stats summarizes a completed generate run for the CLI to print.
type Stats struct {
	Ingest ingest.Stats
	Region region.Stats
	Lidar  lidar.Result
}

// Generate runs the full DEM-to-world pipeline. logger may be nil.
func Generate(ctx context.Context, cfg config.Config, opts GenerateOptions, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	paths, err := ingest.DiscoverTiles(opts.InputDir)
	if err != nil {
		return Stats{}, errs.New(errs.IOError, "discover GeoTIFF tiles", opts.InputDir, err)
	}
	if len(paths) == 0 {
		return Stats{}, errs.New(errs.MissingData, "discover GeoTIFF tiles", opts.InputDir, nil)
	}

	builder := ingest.NewWorldBuilder(opts.Bounds)
	bar := progressbar.Default(int64(len(paths)), "ingesting tiles")
	for _, path := range paths {
		if err := builder.IngestTile(path); err != nil {
			logger.Warn("rejected GeoTIFF tile", zap.String("path", path), zap.Error(err))
		}
		_ = bar.Add(1)
	}

	stats, ok := builder.Stats()
	if !ok {
		return Stats{}, errs.New(errs.MissingData, "ingest GeoTIFF tiles", opts.InputDir, ingest.ErrNoSamples)
	}
	origin, _ := builder.Origin()

	if opts.MetaOnly {
		if _, err := worldmeta.Write(opts.OutputDir, origin, stats); err != nil {
			return Stats{}, err
		}
		return Stats{Ingest: stats}, nil
	}

	columns := builder.Columns()
	logger.Info("ingest complete",
		zap.Int("samples", builder.SampleCount()), zap.Int("columns", len(columns)))

	policy := cfg.Terrain.ToPolicy()

	slopeColumns := make(map[slope.ColumnKey]int32, len(columns))
	for k, v := range columns {
		slopeColumns[slope.ColumnKey{X: k[0], Z: k[1]}] = v
	}
	slopeResults, err := slope.ComputeAll(ctx, slopeColumns, policy.MaxSmoothingRadius(), opts.Threads)
	if err != nil {
		return Stats{}, errs.New(errs.Invariant, "compute slope profiles", "", err)
	}

	chunks := make(map[[2]int32]*chunkenc.ChunkHeights)
	for _, r := range slopeResults {
		chunk := chunkFor(chunks, r.Column.X, r.Column.Z)
		localX, localZ := localCoords(r.Column.X, r.Column.Z)
		chunk.Set(localX, localZ, r.Height, r.Profile)
	}

	if cfg.OSM.Enabled {
		if err := applyOSMOverlay(ctx, cfg, columns, chunks, stats, origin, logger); err != nil {
			return Stats{}, err
		}
	}

	if cfg.WMTS.Enabled {
		if err := applyWMTSOverlay(ctx, cfg, columns, chunks, stats, origin, logger); err != nil {
			return Stats{}, err
		}
	}

	var lidarResult lidar.Result
	if cfg.Lidar.Enabled {
		lidarResult, err = lidar.ApplyBuildings(chunks, origin, cfg.Lidar.Dir, cfg.Lidar.ToParams())
		if err != nil {
			return Stats{}, err
		}
		logger.Info("lidar buildings applied",
			zap.Int("points_seen", lidarResult.PointsSeen),
			zap.Int("building_points", lidarResult.BuildingPoints),
			zap.Int("columns_painted", lidarResult.ColumnsPainted))
	}

	if _, err := worldmeta.Write(opts.OutputDir, origin, stats); err != nil {
		return Stats{}, err
	}

	regionColumns := make(map[region.Key]*chunkenc.ChunkHeights, len(chunks))
	for k, v := range chunks {
		regionColumns[region.Key{X: k[0], Z: k[1]}] = v
	}

	writeBar := progressbar.Default(int64(len(regionColumns)), "writing chunks")
	regionStats, err := region.Write(ctx, opts.OutputDir, regionColumns, policy, opts.GenerateFeatures,
		opts.EmptyChunkRadius, time.Now().Unix(), opts.Threads, func() { _ = writeBar.Add(1) })
	if err != nil {
		return Stats{}, err
	}

	if opts.TemplateDir != "" {
		spawn := computeSpawn(columns, origin)
		if err := template.Apply(opts.TemplateDir, opts.OutputDir, spawn); err != nil {
			logger.Warn("template installation failed; world is still usable", zap.Error(err))
		}
	}

	return Stats{Ingest: stats, Region: regionStats, Lidar: lidarResult}, nil
}

// Bounds scans inputDir's tiles without writing anything, for the `bounds`
// subcommand.
func Bounds(inputDir string, bounds *ingest.ModelBounds) (ingest.Stats, georef.Coord, error) {
	paths, err := ingest.DiscoverTiles(inputDir)
	if err != nil {
		return ingest.Stats{}, georef.Coord{}, errs.New(errs.IOError, "discover GeoTIFF tiles", inputDir, err)
	}
	if len(paths) == 0 {
		return ingest.Stats{}, georef.Coord{}, errs.New(errs.MissingData, "discover GeoTIFF tiles", inputDir, nil)
	}

	builder := ingest.NewWorldBuilder(bounds)
	for _, path := range paths {
		_ = builder.IngestTile(path)
	}
	stats, ok := builder.Stats()
	if !ok {
		return ingest.Stats{}, georef.Coord{}, errs.New(errs.MissingData, "ingest GeoTIFF tiles", inputDir, ingest.ErrNoSamples)
	}
	origin, _ := builder.Origin()
	return stats, origin, nil
}

// Locate inverts a world (x, z) coordinate back into model space, for the
// `locate` subcommand; it returns no elevation. Per spec.md Open Question
// (i), this does not round-trip exactly when the original coordinate was
// not an integer metre.
func Locate(meta worldmeta.Metadata, wx, wz int32) georef.Coord {
	return georef.WorldToModel(meta.Origin(), wx, wz)
}

func chunkFor(chunks map[[2]int32]*chunkenc.ChunkHeights, worldX, worldZ int32) *chunkenc.ChunkHeights {
	key := vectoroverlay.ChunkOf(worldX, worldZ)
	k := [2]int32{key.X, key.Z}
	chunk, ok := chunks[k]
	if !ok {
		chunk = &chunkenc.ChunkHeights{}
		chunks[k] = chunk
	}
	return chunk
}

func localCoords(worldX, worldZ int32) (int, int) {
	const side = int32(chunkenc.SectionSide)
	lx := mod32(worldX, side)
	lz := mod32(worldZ, side)
	return int(lx), int(lz)
}

func mod32(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// applyOSMOverlay runs the Overpass-backed vector overlay pass (C6) and
// folds its resulting overlay table into chunks.
func applyOSMOverlay(
	ctx context.Context,
	cfg config.Config,
	columns map[[2]int32]int32,
	chunks map[[2]int32]*chunkenc.ChunkHeights,
	stats ingest.Stats,
	origin georef.Coord,
	logger *zap.Logger,
) error {
	proj := georef.NewLambert93()
	box := vectoroverlay.BoundingBoxFromStats(stats, origin, cfg.OSM.MarginMeters)
	bboxParam := box.ToLatLon(proj).OverpassBBox()

	endpoint := cfg.OSM.Endpoint
	if endpoint == "" {
		endpoint = defaultOverpassURL
	}
	timeout := time.Duration(cfg.OSM.TimeoutSecs) * time.Second
	client := overpass.NewClient(endpoint, timeout, logger)

	table := overlay.NewTable()
	chunkSet := vectoroverlay.ChunksFromColumns(columns)
	rasterizer := vectoroverlay.NewRasterizer(table, chunkSet, origin, proj)

	for _, layer := range cfg.OSM.ToVectorLayers() {
		query := vectoroverlay.BuildQuery(layer, bboxParam)
		resp, err := client.Query(ctx, query)
		if err != nil {
			return err
		}
		painted := rasterizer.ApplyLayer(layer, resp, cfg.OSM.OrderOffset)
		logger.Info("applied OSM layer", zap.String("layer", layer.Name), zap.Int("columns_painted", painted))
	}

	applyTable(chunks, table, columns)
	return nil
}

// applyWMTSOverlay runs the WMTS-backed raster overlay pass (C7) and folds
// its resulting overlay table into chunks.
func applyWMTSOverlay(
	ctx context.Context,
	cfg config.Config,
	columns map[[2]int32]int32,
	chunks map[[2]int32]*chunkenc.ChunkHeights,
	stats ingest.Stats,
	origin georef.Coord,
	logger *zap.Logger,
) error {
	client := wmts.NewClient(logger)
	capsBody, err := client.FetchCapabilities(ctx, cfg.WMTS.CapabilitiesURL)
	if err != nil {
		return err
	}
	caps, err := wmts.Parse(capsBody, cfg.WMTS.Layer, cfg.WMTS.TileMatrixSet)
	if err != nil {
		return err
	}

	style := cfg.WMTS.Style
	if style == "" {
		style = caps.DefaultStyle
	}
	format := cfg.WMTS.Format
	if format == "" && len(caps.Formats) > 0 {
		format = caps.Formats[0]
	}
	extension, err := wmts.ExtensionForFormat(format)
	if err != nil {
		return err
	}

	matrixName := cfg.WMTS.TileMatrix
	if matrixName == "" {
		matrixName = selectMatrix(caps.Matrices)
	}
	matrix, ok := caps.Matrices[matrixName]
	if !ok {
		return errs.New(errs.MissingData, "find WMTS tile matrix", matrixName, nil)
	}
	var limits *wmts.TileMatrixLimits
	if l, ok := caps.Limits[matrixName]; ok {
		limits = &l
	}

	transform, err := georef.NewCRSTransform(caps.SupportedCRS)
	if err != nil {
		return err
	}

	box := vectoroverlay.BoundingBoxFromStats(stats, origin, cfg.WMTS.MarginMeters)
	corners := [4][2]float64{}
	modelCorners := [4]georef.Coord{
		{X: box.MinX, Y: box.MinZ}, {X: box.MinX, Y: box.MaxZ},
		{X: box.MaxX, Y: box.MinZ}, {X: box.MaxX, Y: box.MaxZ},
	}
	for i, c := range modelCorners {
		t := transform.ToTarget(c)
		corners[i] = [2]float64{t.X, t.Y}
	}

	coverage := wmts.ComputeCoverage(corners, matrix, limits)
	if cfg.WMTS.MaxTiles > 0 && len(coverage.Tiles) > cfg.WMTS.MaxTiles {
		return errs.New(errs.MissingData, "WMTS tile budget exceeded", cfg.WMTS.CapabilitiesURL, nil)
	}

	cache, cleanup, err := buildCache(cfg.WMTS)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	tileImages := make(map[rasteroverlay.TileKey]image.Image)
	for _, t := range coverage.Tiles {
		cacheKey := wmts.TileKey(cfg.WMTS.Layer, matrixName, t.Row, t.Col, extension)
		data, hit, err := cache.Get(cacheKey)
		if err != nil {
			return err
		}
		if !hit {
			tileURL := wmts.BuildTileURL(caps.GetTileURL, wmts.TileRequest{
				Layer: cfg.WMTS.Layer, Style: style, MatrixSet: cfg.WMTS.TileMatrixSet,
				Matrix: matrixName, Format: format, Row: t.Row, Col: t.Col,
			})
			data, err = client.FetchTile(ctx, tileURL)
			if err != nil {
				return err
			}
			if err := cache.Put(cacheKey, data); err != nil {
				logger.Warn("failed to cache WMTS tile", zap.String("key", cacheKey), zap.Error(err))
			}
		}
		img, err := rasteroverlay.DecodeTile(data)
		if err != nil {
			return err
		}
		tileImages[rasteroverlay.TileKey{Row: t.Row, Col: t.Col}] = img
	}

	table := overlay.NewTable()
	rasterizer := rasteroverlay.NewRasterizer(table, origin, transform.ToTarget, matrix, coverage, tileImages)
	painted := rasterizer.ApplyColumns(columns, cfg.WMTS.ToColorRules(), cfg.WMTS.OrderOffset)
	logger.Info("applied WMTS overlay", zap.Int("tiles_fetched", len(coverage.Tiles)), zap.Int("columns_painted", painted))

	applyTable(chunks, table, columns)
	return nil
}

// selectMatrix picks the TileMatrix whose resolution is closest to 1
// metre/pixel, since francegen maps one world block to one model metre.
func selectMatrix(matrices map[string]wmts.TileMatrix) string {
	names := make([]string, 0, len(matrices))
	for name := range matrices {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestDiff := math.Inf(1)
	for _, name := range names {
		diff := math.Abs(matrices[name].Resolution() - 1.0)
		if diff < bestDiff {
			bestDiff = diff
			best = name
		}
	}
	return best
}

func buildCache(cfg config.WMTS) (wmts.Cache, func(), error) {
	if cfg.S3Bucket != "" {
		sess, err := session.NewSession()
		if err != nil {
			return nil, nil, errs.New(errs.IOError, "create AWS session", cfg.S3Bucket, err)
		}
		return wmts.NewS3Cache(sess, cfg.S3Bucket, cfg.S3Prefix), nil, nil
	}
	if cfg.CacheDir != "" {
		cache, err := wmts.NewDiskCache(cfg.CacheDir)
		if err != nil {
			return nil, nil, err
		}
		return cache, nil, nil
	}
	dir, err := os.MkdirTemp("", "francegen-wmts-cache-*")
	if err != nil {
		return nil, nil, errs.New(errs.IOError, "create ephemeral WMTS cache dir", "", err)
	}
	cache, err := wmts.NewDiskCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return cache, func() { _ = os.RemoveAll(dir) }, nil
}

// applyTable folds every overlay a pass produced back into the chunks it
// belongs to, looking up the owning chunk/local-column indices the same
// way the terrain pass populated them.
func applyTable(chunks map[[2]int32]*chunkenc.ChunkHeights, table *overlay.Table, columns map[[2]int32]int32) {
	for key := range columns {
		o, ok := table.Lookup(key[0], key[1])
		if !ok {
			continue
		}
		chunk := chunkFor(chunks, key[0], key[1])
		localX, localZ := localCoords(key[0], key[1])
		chunk.SetOverlay(localX, localZ, o)
	}
}

// computeSpawn picks a safe spawn point: the world-origin column's surface
// plus two blocks of clearance when known, otherwise a fixed fallback
// height so an out-of-bounds spawn never traps the player in stone.
func computeSpawn(columns map[[2]int32]int32, origin georef.Coord) nbtio.Spawn {
	const fallbackY = int32(100)
	y := fallbackY
	if h, ok := columns[[2]int32{0, 0}]; ok {
		y = h + 2
	}
	return nbtio.Spawn{X: 0, Y: y, Z: 0, LevelName: fmt.Sprintf("francegen-%d-%d", int32(origin.X), int32(origin.Y))}
}
