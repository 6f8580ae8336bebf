package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/defvs/francegen/internal/pipeline"
)

func newBoundsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bounds <tif-dir>",
		Short: "Scan GeoTIFF tiles and print their combined model-space extent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, origin, err := pipeline.Bounds(args[0], nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "origin (Lambert93): (%.3f, %.3f)\n", origin.X, origin.Y)
			fmt.Fprintf(out, "extent: %s x %s columns\n", humanize.Comma(int64(stats.Width)), humanize.Comma(int64(stats.Depth)))
			fmt.Fprintf(out, "world bounds: x [%d, %d], z [%d, %d]\n", stats.MinX, stats.MaxX, stats.MinZ, stats.MaxZ)
			fmt.Fprintf(out, "height range: %.2fm .. %.2fm\n", stats.MinHeight, stats.MaxHeight)
			return nil
		},
	}
}
