package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evomata/evonomics/sim"
)

func testView() sim.View {
	v := sim.View{Width: 2, Height: 2, Pixels: make([]byte, 16)}
	// One opaque red pixel at (1, 0).
	v.Pixels[4] = 0xFF
	v.Pixels[7] = 0xFF
	return v
}

func TestImageCopiesPixels(t *testing.T) {
	img := Image(testView())
	require.Equal(t, 2, img.Bounds().Dx())

	c := img.RGBAAt(1, 0)
	assert.EqualValues(t, 0xFF, c.R)
	assert.EqualValues(t, 0x00, c.G)
	assert.EqualValues(t, 0xFF, c.A)
}

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteSnapshot(dir, 3, testView())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "snapshot_3.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestWriteCharts(t *testing.T) {
	dir := t.TempDir()

	history := []sim.TickStats{
		{Tick: 1, TotalFood: 100, Bids: 2, Asks: 1},
		{Tick: 2, TotalFood: 90, Bids: 3, Asks: 2},
		{Tick: 3, TotalFood: 120, Bids: 1, Asks: 4},
	}
	require.NoError(t, WriteCharts(dir, history))

	for _, name := range []string{"reserves.png", "bids_asks.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err, name)
		_, err = png.Decode(f)
		assert.NoError(t, err, name)
		assert.NoError(t, f.Close())
	}
}

func TestWriteChartsEmptyHistory(t *testing.T) {
	require.NoError(t, WriteCharts(t.TempDir(), nil))
}
