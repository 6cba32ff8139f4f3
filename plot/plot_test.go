package plot

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countColor(t *testing.T, img interface {
	At(x, y int) color.Color
}, want color.RGBA) int {
	t.Helper()
	n := 0
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if uint8(r>>8) == want.R && uint8(g>>8) == want.G &&
				uint8(b>>8) == want.B && uint8(a>>8) == want.A {
				n++
			}
		}
	}
	return n
}

func TestBidsAsksDrawsBothSeries(t *testing.T) {
	bids := []int{1, 5, 3, 8, 2}
	asks := []int{9, 4, 6, 0, 7}

	img, err := BidsAsks(bids, asks)
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())

	assert.NotZero(t, countColor(t, img, blue), "no bid line drawn")
	assert.NotZero(t, countColor(t, img, red), "no ask line drawn")
	// Background stays white outside the plot.
	assert.Equal(t, white, img.RGBAAt(Width-1, 0))
}

func TestBidsAsksMismatchedLengths(t *testing.T) {
	_, err := BidsAsks([]int{1, 2}, []int{1})
	assert.ErrorIs(t, err, ErrSeriesMismatch)
}

func TestBidsAsksEmpty(t *testing.T) {
	img, err := BidsAsks(nil, nil)
	require.NoError(t, err)
	assert.True(t, img.Bounds().Empty())
}

func TestReservesDrawsLine(t *testing.T) {
	img, err := Reserves([]int{100, 200, 150, 300})
	require.NoError(t, err)
	assert.NotZero(t, countColor(t, img, green))
}

func TestReservesFlatSeries(t *testing.T) {
	img, err := Reserves([]int{5, 5, 5})
	require.NoError(t, err)

	// A constant series draws a horizontal line at mid height.
	assert.Equal(t, green, img.RGBAAt(Width/2, Height/2))
}

func TestReservesSinglePoint(t *testing.T) {
	img, err := Reserves([]int{42})
	require.NoError(t, err)
	assert.NotZero(t, countColor(t, img, green))
}
