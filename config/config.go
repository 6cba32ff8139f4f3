// Package config loads the YAML file that wires a whole run together.
// Missing fields keep the defaults of the package they belong to.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/evomata/evonomics/sim"
	"github.com/evomata/evonomics/stats/sender"
	"github.com/evomata/evonomics/viewer"
	"github.com/evomata/evonomics/worldgen"
)

// Run controls a headless run.
type Run struct {
	// Ticks to simulate before writing charts and exiting.
	Ticks int `yaml:"ticks"`
	// SnapshotEvery saves a snapshot PNG every N ticks; 0 disables.
	SnapshotEvery int `yaml:"snapshot_every"`
	// OutDir receives snapshots and charts.
	OutDir string `yaml:"out_dir"`
}

// Stats wires the ClickHouse sink; an empty DSN disables it.
type Stats struct {
	DSN    string        `yaml:"dsn"`
	Sender sender.Config `yaml:"sender"`
}

// Config is the root configuration.
type Config struct {
	Sim    sim.Config      `yaml:"sim"`
	Walls  worldgen.Config `yaml:"walls"`
	Stats  Stats           `yaml:"stats"`
	Viewer viewer.Config   `yaml:"viewer"`
	Run    Run             `yaml:"run"`
}

// Default composes the defaults of every subsystem.
func Default() Config {
	return Config{
		Sim:    sim.ConfigDefault,
		Walls:  worldgen.ConfigDefault,
		Stats:  Stats{Sender: sender.ConfigDefault},
		Viewer: viewer.ConfigDefault,
		Run: Run{
			Ticks:  1000,
			OutDir: ".",
		},
	}
}

// Load reads a YAML config file over the defaults and rejects
// non-positive grid dimensions. An empty path returns the defaults
// unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	// The wall mask is sized from these before the grid applies its own
	// defaults, so they must be usable as-is.
	if cfg.Sim.Width <= 0 || cfg.Sim.Height <= 0 {
		return Config{}, errors.Errorf(
			"config %s: sim dimensions must be positive, got %dx%d",
			path, cfg.Sim.Width, cfg.Sim.Height,
		)
	}
	return cfg, nil
}
