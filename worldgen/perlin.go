// Package worldgen builds the wall masks the grid is seeded with.
package worldgen

import "github.com/aquilax/go-perlin"

const (
	noiseFreq       = 0.02
	lowerWallThresh = 0.0
	upperWallThresh = 0.07

	perlinAlpha = 2
	perlinBeta  = 2
	perlinIter  = 3
)

// PerlinWalls raises walls where a Perlin noise field passes through a
// narrow band, producing ridge-like barriers across the world.
func PerlinWalls(width, height int, seed int64) []bool {
	source := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinIter, seed)
	walls := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := source.Noise2D(float64(x)*noiseFreq, float64(y)*noiseFreq)
			if n > lowerWallThresh && n < upperWallThresh {
				walls[y*width+x] = true
			}
		}
	}
	return walls
}
