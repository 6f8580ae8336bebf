package main

import (
	"github.com/spf13/cobra"

	"github.com/defvs/francegen/internal/config"
)

var (
	configPath string
	verbose    bool
	jsonLogs   bool
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "francegen",
		Short:         "Convert georeferenced DEM rasters into a Minecraft world",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "terrain/OSM/WMTS/lidar config file (JSON or TOML)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	root.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON instead of console format")

	root.AddCommand(newGenerateCommand())
	root.AddCommand(newLocateCommand())
	root.AddCommand(newBoundsCommand())
	root.AddCommand(newInfoCommand())
	return root
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}
