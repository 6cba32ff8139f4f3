// Package plot renders small time-series charts of the world economy:
// the bid/ask pressure and the total food reserve. Charts are plain RGBA
// buffers sized for an overlay corner or a PNG next to the snapshots.
package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// Width and Height of every chart.
	Width  = 200
	Height = 150

	labelArea = 30
)

var (
	white = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	gray  = color.RGBA{0xB0, 0xB0, 0xB0, 0xFF}
	black = color.RGBA{0x00, 0x00, 0x00, 0xFF}
	blue  = color.RGBA{0x00, 0x00, 0xFF, 0xFF}
	red   = color.RGBA{0xFF, 0x00, 0x00, 0xFF}
	green = color.RGBA{0x00, 0x80, 0x00, 0xFF}
)

// ErrSeriesMismatch reports bid/ask series of different lengths.
var ErrSeriesMismatch = errors.New("bids and asks series differ in length")

// BidsAsks charts demand (blue) against supply (red) on a shared range.
func BidsAsks(bids, asks []int) (*image.RGBA, error) {
	if len(bids) != len(asks) {
		return nil, ErrSeriesMismatch
	}
	if len(bids) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0)), nil
	}

	min, max := seriesRange(bids)
	if lo, hi := seriesRange(asks); true {
		if lo < min {
			min = lo
		}
		if hi > max {
			max = hi
		}
	}

	c := newChart(min, max)
	c.polyline(bids, blue)
	c.polyline(asks, red)
	return c.img, nil
}

// Reserves charts the total food held by the world over time.
func Reserves(reserves []int) (*image.RGBA, error) {
	if len(reserves) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0)), nil
	}

	min, max := seriesRange(reserves)
	c := newChart(min, max)
	c.polyline(reserves, green)
	return c.img, nil
}

func seriesRange(s []int) (min, max int) {
	min, max = s[0], s[0]
	for _, v := range s[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

type chart struct {
	img      *image.RGBA
	min, max int
}

func newChart(min, max int) *chart {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	c := &chart{img: img, min: min, max: max}
	// Axis lines bordering the plot area.
	for y := 0; y < Height; y++ {
		img.SetRGBA(labelArea, y, gray)
	}
	for x := labelArea; x < Width; x++ {
		img.SetRGBA(x, Height-1, gray)
	}
	c.label(fmt.Sprintf("%d", max), 12)
	c.label(fmt.Sprintf("%d", min), Height-3)
	return c
}

func (c *chart) label(text string, baseline int) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(1, baseline),
	}
	d.DrawString(text)
}

// at projects sample i of n with value v into plot coordinates.
func (c *chart) at(i, n, v int) (x, y int) {
	x = labelArea
	if n > 1 {
		x += i * (Width - labelArea - 1) / (n - 1)
	}
	if c.max == c.min {
		return x, Height / 2
	}
	y = (Height - 2) - (v-c.min)*(Height-2)/(c.max-c.min)
	return x, y
}

func (c *chart) polyline(series []int, col color.RGBA) {
	px, py := c.at(0, len(series), series[0])
	for i := 1; i < len(series); i++ {
		x, y := c.at(i, len(series), series[i])
		c.line(px, py, x, y, col)
		px, py = x, y
	}
	if len(series) == 1 {
		c.img.SetRGBA(px, py, col)
	}
}

// line draws with the integer Bresenham walk.
func (c *chart) line(x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.img.SetRGBA(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		if e2 := 2 * err; e2 >= dy {
			err += dy
			x0 += sx
		} else {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
