package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/defvs/francegen/internal/worldmeta"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <world>",
		Short: "Print a generated world's stored metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := worldmeta.Load(args[0])
			if err != nil {
				return err
			}
			stats := meta.ToStats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "world id: %s\n", meta.WorldID)
			fmt.Fprintf(out, "origin (Lambert93): (%.3f, %.3f)\n", meta.OriginModelX, meta.OriginModelZ)
			fmt.Fprintf(out, "extent: %s x %s columns\n", humanize.Comma(int64(stats.Width)), humanize.Comma(int64(stats.Depth)))
			fmt.Fprintf(out, "world bounds: x [%d, %d], z [%d, %d]\n", meta.MinX, meta.MaxX, meta.MinZ, meta.MaxZ)
			fmt.Fprintf(out, "height range: %.2fm .. %.2fm\n", meta.MinHeight, meta.MaxHeight)
			return nil
		},
	}
}
