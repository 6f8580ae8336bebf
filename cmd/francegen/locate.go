package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/defvs/francegen/internal/georef"
	"github.com/defvs/francegen/internal/pipeline"
	"github.com/defvs/francegen/internal/worldmeta"
)

func newLocateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <world> <x> <z> [<h>]",
		Short: "Invert a world block coordinate back into model (Lambert93) space",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := worldmeta.Load(args[0])
			if err != nil {
				return err
			}
			x, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("x must be an integer: %w", err)
			}
			z, err := strconv.ParseInt(args[2], 10, 32)
			if err != nil {
				return fmt.Errorf("z must be an integer: %w", err)
			}

			coord := pipeline.Locate(meta, int32(x), int32(z))
			out := cmd.OutOrStdout()
			if len(args) == 4 {
				h, err := strconv.ParseInt(args[3], 10, 32)
				if err != nil {
					return fmt.Errorf("h must be an integer: %w", err)
				}
				elevation := h - int64(georef.BedrockY)
				fmt.Fprintf(out, "model (%.3f, %.3f) at block Y %d (elevation %d m)\n", coord.X, coord.Y, h, elevation)
				return nil
			}
			fmt.Fprintf(out, "model (%.3f, %.3f)\n", coord.X, coord.Y)
			return nil
		},
	}
}
