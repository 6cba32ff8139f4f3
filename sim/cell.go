package sim

import "github.com/evomata/evonomics/sim/brain"

// Cell is one grid square. Walls never hold food or a brain.
type Cell struct {
	Food  int
	Wall  bool
	Brain *brain.Brain
}

// Diff is the delta a cell computed for itself during the step phase.
type Diff struct {
	Consume int
	Moved   bool
}

// Move is what a cell pushes toward one neighbor: food, and possibly the
// brain itself (move) or a copy of it (divide).
type Move struct {
	Food  int
	Brain *brain.Brain
}

const foodColorMultiplier = 0.1

// Color renders a cell: white for a live brain, red for walls, a green
// ramp for food.
func (c *Cell) Color() (r, g, b, a uint8) {
	switch {
	case c.Brain != nil:
		return 0xFF, 0xFF, 0xFF, 0xFF
	case c.Wall:
		return 0xFF, 0x00, 0x00, 0xFF
	default:
		green := foodColorMultiplier * float64(c.Food)
		if green > 1 {
			green = 1
		}
		return 0, uint8(green * 0xFF), 0, 0xFF
	}
}
