package worldgen

import (
	"fmt"
	"math/rand"
)

// Generator names a wall generation strategy.
type Generator string

const (
	GeneratorNone   Generator = "none"
	GeneratorPerlin Generator = "perlin"
	GeneratorCavern Generator = "cavern"
)

// Config selects and seeds a generator.
type Config struct {
	Generator Generator `yaml:"generator"`
	Seed      int64     `yaml:"seed"`
}

// ConfigDefault is the default config.
var ConfigDefault = Config{
	Generator: GeneratorPerlin,
	Seed:      1,
}

// Generate produces the wall mask for a world of the given size.
func Generate(cfg Config, width, height int) ([]bool, error) {
	switch cfg.Generator {
	case GeneratorNone, "":
		return nil, nil
	case GeneratorPerlin:
		return PerlinWalls(width, height, cfg.Seed), nil
	case GeneratorCavern:
		return CavernWalls(rand.New(rand.NewSource(cfg.Seed)), width, height), nil
	default:
		return nil, fmt.Errorf("unknown wall generator %q", cfg.Generator)
	}
}
