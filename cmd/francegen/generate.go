package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/defvs/francegen/internal/ingest"
	"github.com/defvs/francegen/internal/pipeline"
	"github.com/defvs/francegen/internal/worldlog"
)

func newGenerateCommand() *cobra.Command {
	var (
		threads          int
		boundsArg        string
		metaOnly         bool
		templateDir      string
		lidarDir         string
		generateFeatures bool
		emptyChunkRadius int
	)

	cmd := &cobra.Command{
		Use:   "generate <tif-dir> <out-dir>",
		Short: "Ingest GeoTIFF tiles and write a Minecraft world",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if lidarDir != "" {
				cfg.Lidar.Enabled = true
				cfg.Lidar.Dir = lidarDir
			}

			bounds, err := parseBounds(boundsArg)
			if err != nil {
				return err
			}

			logger, err := worldlog.New(verbose, jsonLogs)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			opts := pipeline.GenerateOptions{
				InputDir:         args[0],
				OutputDir:        args[1],
				TemplateDir:      templateDir,
				Bounds:           bounds,
				Threads:          threads,
				MetaOnly:         metaOnly,
				GenerateFeatures: generateFeatures,
				EmptyChunkRadius: emptyChunkRadius,
			}

			stats, err := pipeline.Generate(cmd.Context(), cfg, opts, logger)
			if err != nil {
				return err
			}
			printGenerateSummary(cmd, stats)
			return nil
		},
	}

	cmd.Flags().IntVar(&threads, "threads", 0, "worker count for slope/region passes (0 = runtime.NumCPU())")
	cmd.Flags().StringVar(&boundsArg, "bounds", "", "restrict ingestion to minX,minZ,maxX,maxZ (model metres)")
	cmd.Flags().BoolVar(&metaOnly, "meta-only", false, "ingest and write francegen_meta.json without generating chunks")
	cmd.Flags().StringVar(&templateDir, "template", "", "world template directory (level.dat + datapacks); skipped when empty")
	cmd.Flags().StringVar(&lidarDir, "lidar", "", "LAS building-footprint directory; enables the lidar overlay pass")
	cmd.Flags().BoolVar(&generateFeatures, "generate-features", false, "mark written chunks for vanilla feature generation")
	cmd.Flags().IntVar(&emptyChunkRadius, "empty-chunk-radius", 0, "pad this many chunks of empty frame around the ingested rectangle")

	return cmd
}

func parseBounds(raw string) (*ingest.ModelBounds, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("--bounds must be minX,minZ,maxX,maxZ, got %q", raw)
	}
	values := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("--bounds value %q is not a number: %w", p, err)
		}
		values[i] = v
	}
	return &ingest.ModelBounds{MinX: values[0], MinZ: values[1], MaxX: values[2], MaxZ: values[3]}, nil
}

func printGenerateSummary(cmd *cobra.Command, stats pipeline.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ingested %sx%s columns (height %.1fm .. %.1fm)\n",
		humanize.Comma(int64(stats.Ingest.Width)), humanize.Comma(int64(stats.Ingest.Depth)),
		stats.Ingest.MinHeight, stats.Ingest.MaxHeight)
	fmt.Fprintf(out, "wrote %s chunks across %s region files\n",
		humanize.Comma(int64(stats.Region.ChunksWritten)), humanize.Comma(int64(stats.Region.RegionFiles)))
	if stats.Lidar.PointsSeen > 0 {
		fmt.Fprintf(out, "lidar: %s points seen, %s building points, %s columns painted\n",
			humanize.Comma(int64(stats.Lidar.PointsSeen)),
			humanize.Comma(int64(stats.Lidar.BuildingPoints)),
			humanize.Comma(int64(stats.Lidar.ColumnsPainted)))
	}
}
