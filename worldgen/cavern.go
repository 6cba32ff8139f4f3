package worldgen

import "math/rand"

// CavernWalls carves open space out of a solid world one random position
// at a time. A position opens only when it starts a new pocket or when it
// joins several pockets together, which keeps the open space connected
// while leaving wall veins everywhere.
func CavernWalls(rng *rand.Rand, width, height int) []bool {
	walls := make([]bool, width*height)
	for i := range walls {
		walls[i] = true
	}

	// open maps an open position to the area it belongs to; areas is an
	// arena of area id -> member positions.
	open := make(map[int]int)
	areas := make(map[int][]int)
	nextArea := 0

	order := rng.Perm(width * height)
	for _, pos := range order {
		neighbors := cardinalNeighbors(pos, width, height)

		var areaIDs []int
		numOpen := 0
		for _, n := range neighbors {
			id, ok := open[n]
			if !ok {
				continue
			}
			numOpen++
			if !containsInt(areaIDs, id) {
				areaIDs = append(areaIDs, id)
			}
		}

		switch {
		case len(areaIDs) == 0:
			// A fresh pocket.
			areas[nextArea] = []int{pos}
			open[pos] = nextArea
			walls[pos] = false
			nextArea++
		case len(areaIDs) == 1 && numOpen > 1:
			// Widening a single pocket would erase the wall veins; skip.
		default:
			// Unify every touched pocket into the first one.
			final := areaIDs[0]
			for _, id := range areaIDs[1:] {
				members := areas[id]
				delete(areas, id)
				for _, m := range members {
					open[m] = final
				}
				areas[final] = append(areas[final], members...)
			}
			areas[final] = append(areas[final], pos)
			open[pos] = final
			walls[pos] = false
		}
	}

	return walls
}

func cardinalNeighbors(pos, width, height int) [4]int {
	x := pos % width
	y := pos / width
	wrap := func(v, max int) int { return ((v % max) + max) % max }
	return [4]int{
		wrap(y, height)*width + wrap(x+1, width),
		wrap(y+1, height)*width + wrap(x, width),
		wrap(y, height)*width + wrap(x-1, width),
		wrap(y-1, height)*width + wrap(x, width),
	}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
