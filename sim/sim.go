// Package sim implements the evonomics world: a toroidal grid of cells
// that carry food and evolvable brains. Brains sense their Moore
// neighborhood, then move, divide or idle; food is the only currency and
// starvation is the selection pressure.
package sim

import (
	"time"

	"go.uber.org/zap"
)

// TickStats summarizes one tick of the world.
type TickStats struct {
	Tick      uint64
	Cells     int
	TotalFood int
	Walls     int
	// Bids counts hungry cells (food at or below the move penalty),
	// Asks counts cells holding at least twice the divide threshold.
	// They are demand/supply indicators only; nothing is traded.
	Bids      int
	Asks      int
	Spawns    int
	Deaths    int
	Mutations int
	Combines  int
}

// View is a renderable snapshot of the world.
type View struct {
	Width  int
	Height int
	// Pixels is RGBA, row-major, 4 bytes per cell.
	Pixels []byte
	Stats  TickStats
}

// Sim owns a grid and its tick counter.
type Sim struct {
	grid   *Grid
	tick   uint64
	last   TickStats
	logger *zap.SugaredLogger
}

// New wraps a fresh grid. The logger may be nil.
func New(walls []bool, logger *zap.SugaredLogger, config ...Config) *Sim {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Sim{
		grid:   NewGrid(walls, config...),
		logger: logger,
	}
	s.last = TickStats{Walls: s.grid.walls}
	return s
}

// Grid exposes the underlying grid for rendering and tests.
func (s *Sim) Grid() *Grid { return s.grid }

// Tick advances the world the given number of cycles and returns the
// stats of the last one.
func (s *Sim) Tick(times int) TickStats {
	start := time.Now()
	for i := 0; i < times; i++ {
		s.tick++
		stats := s.grid.Cycle()
		stats.Tick = s.tick
		s.last = stats
	}
	if times > 0 {
		s.logger.Debugw("ticked",
			"times", times,
			"tick", s.tick,
			"cells", s.last.Cells,
			"elapsed", time.Since(start),
		)
	}
	return s.last
}

// Stats returns the stats of the most recent tick.
func (s *Sim) Stats() TickStats { return s.last }

// View renders the current world into RGBA pixels.
func (s *Sim) View() View {
	g := s.grid
	pixels := make([]byte, len(g.cells)*4)
	for i := range g.cells {
		r, gr, b, a := g.cells[i].Color()
		pixels[i*4+0] = r
		pixels[i*4+1] = gr
		pixels[i*4+2] = b
		pixels[i*4+3] = a
	}
	return View{
		Width:  g.width,
		Height: g.height,
		Pixels: pixels,
		Stats:  s.last,
	}
}
