package moore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvIsInvolution(t *testing.T) {
	for _, d := range Directions() {
		assert.Equal(t, d, d.Inv().Inv())
		dx, dy := d.Delta()
		ix, iy := d.Inv().Delta()
		assert.Equal(t, -dx, ix, d.String())
		assert.Equal(t, -dy, iy, d.String())
	}
}

func TestDeltasAreUnique(t *testing.T) {
	seen := map[[2]int]bool{}
	for _, d := range Directions() {
		dx, dy := d.Delta()
		assert.False(t, seen[[2]int{dx, dy}], d.String())
		seen[[2]int{dx, dy}] = true
		assert.NotEqual(t, [2]int{0, 0}, [2]int{dx, dy})
	}
}

func TestCardinalsAreAxisAligned(t *testing.T) {
	for _, d := range Cardinals() {
		dx, dy := d.Delta()
		assert.True(t, dx == 0 || dy == 0)
	}
}
