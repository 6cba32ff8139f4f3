package sim

import "runtime"

// Config holds the tunables of the grid economy. The defaults are the
// balance the simulation shipped with.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Seed fixes the random streams; a given seed and worker count
	// replays the same world.
	Seed    int64 `yaml:"seed"`
	Workers int   `yaml:"workers"`

	CellSpawnProbability float64 `yaml:"cell_spawn_probability"`
	FoodSpawnProbability float64 `yaml:"food_spawn_probability"`
	MutateProbability    float64 `yaml:"mutate_probability"`
	SpawnFood            int     `yaml:"spawn_food"`
	MovePenalty          int     `yaml:"move_penalty"`
}

// ConfigDefault is the default config.
var ConfigDefault = Config{
	Width:                320,
	Height:               320,
	Seed:                 1,
	CellSpawnProbability: 0.0001,
	FoodSpawnProbability: 0.05,
	MutateProbability:    0.001,
	SpawnFood:            16,
	MovePenalty:          2,
}

// Helper function to set default values
func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.Width <= 0 {
		cfg.Width = ConfigDefault.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = ConfigDefault.Height
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.SpawnFood <= 0 {
		cfg.SpawnFood = ConfigDefault.SpawnFood
	}
	if cfg.MovePenalty <= 0 {
		cfg.MovePenalty = ConfigDefault.MovePenalty
	}

	return cfg
}
