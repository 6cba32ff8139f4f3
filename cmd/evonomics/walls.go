package main

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/evomata/evonomics/config"
	"github.com/evomata/evonomics/worldgen"
)

func newWallsCmd(root *rootFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:     "walls",
		Aliases: []string{"worldgen"},
		Short:   "Preview the wall mask as a PNG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}

			walls, err := worldgen.Generate(cfg.Walls, cfg.Sim.Width, cfg.Sim.Height)
			if err != nil {
				return err
			}

			img := image.NewRGBA(image.Rect(0, 0, cfg.Sim.Width, cfg.Sim.Height))
			for y := 0; y < cfg.Sim.Height; y++ {
				for x := 0; x < cfg.Sim.Width; x++ {
					c := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
					if walls != nil && walls[y*cfg.Sim.Width+x] {
						c = color.RGBA{0x00, 0x00, 0x00, 0xFF}
					}
					img.SetRGBA(x, y, c)
				}
			}

			f, err := os.Create(out)
			if err != nil {
				return errors.Wrapf(err, "create %s", out)
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return errors.Wrap(err, "encode walls")
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "walls.png", "output PNG path")
	return cmd
}
