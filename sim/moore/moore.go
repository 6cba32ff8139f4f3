// Package moore provides the 8-cell Moore neighborhood used by the grid
// and the genome virtual machine.
package moore

// Direction identifies one neighbor in a Moore neighborhood. The zero
// value points right; the ring continues counterclockwise.
type Direction uint8

const (
	Right Direction = iota
	UpRight
	Up
	UpLeft
	Left
	DownLeft
	Down
	DownRight
)

// Count is the size of a full Moore neighborhood.
const Count = 8

// Directions returns every direction in ring order.
func Directions() [Count]Direction {
	return [Count]Direction{Right, UpRight, Up, UpLeft, Left, DownLeft, Down, DownRight}
}

// Cardinals returns the four non-diagonal directions. Motion codons are
// drawn from this subset only.
func Cardinals() [4]Direction {
	return [4]Direction{Right, Up, Left, Down}
}

// Inv returns the opposite direction.
func (d Direction) Inv() Direction {
	return (d + 4) % Count
}

// Delta returns the x/y offset of the neighbor in direction d. The y axis
// grows downward, matching row-major grid storage.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Right:
		return 1, 0
	case UpRight:
		return 1, -1
	case Up:
		return 0, -1
	case UpLeft:
		return -1, -1
	case Left:
		return -1, 0
	case DownLeft:
		return -1, 1
	case Down:
		return 0, 1
	default:
		return 1, 1
	}
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case UpRight:
		return "up-right"
	case Up:
		return "up"
	case UpLeft:
		return "up-left"
	case Left:
		return "left"
	case DownLeft:
		return "down-left"
	case Down:
		return "down"
	default:
		return "down-right"
	}
}
