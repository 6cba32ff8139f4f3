// Package render turns world views into PNG files: numbered snapshots of
// the grid plus the series charts at the end of a run.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/evomata/evonomics/plot"
	"github.com/evomata/evonomics/sim"
)

// Image copies a view's pixel buffer into an image.
func Image(v sim.View) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, v.Width, v.Height))
	copy(img.Pix, v.Pixels)
	return img
}

// WriteSnapshot saves the view as <dir>/snapshot_<index>.png.
func WriteSnapshot(dir string, index int, v sim.View) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.png", index))
	if err := writePNG(path, Image(v)); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCharts saves reserves.png and bids_asks.png built from the tick
// history.
func WriteCharts(dir string, history []sim.TickStats) error {
	if len(history) == 0 {
		return nil
	}
	reserves := make([]int, len(history))
	bids := make([]int, len(history))
	asks := make([]int, len(history))
	for i, ts := range history {
		reserves[i] = ts.TotalFood
		bids[i] = ts.Bids
		asks[i] = ts.Asks
	}

	img, err := plot.Reserves(reserves)
	if err != nil {
		return errors.Wrap(err, "reserves chart")
	}
	if err := writePNG(filepath.Join(dir, "reserves.png"), img); err != nil {
		return err
	}

	img, err = plot.BidsAsks(bids, asks)
	if err != nil {
		return errors.Wrap(err, "bids/asks chart")
	}
	return writePNG(filepath.Join(dir, "bids_asks.png"), img)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
