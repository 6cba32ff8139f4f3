package main

import (
	"github.com/spf13/cobra"

	"github.com/evomata/evonomics/config"
	"github.com/evomata/evonomics/sim"
	"github.com/evomata/evonomics/viewer"
	"github.com/evomata/evonomics/worldgen"
)

func newViewCmd(root *rootFlags) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive viewer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := buildLogger(root.verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Sim.Seed = seed
				cfg.Walls.Seed = seed
			}

			walls, err := worldgen.Generate(cfg.Walls, cfg.Sim.Width, cfg.Sim.Height)
			if err != nil {
				return err
			}

			s := sim.New(walls, logger, cfg.Sim)
			return viewer.New(s, logger, cfg.Viewer).Run()
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "world and wall seed (overrides config)")
	return cmd
}
