package sim

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/evomata/evonomics/sim/brain"
	"github.com/evomata/evonomics/sim/moore"
)

type moveSet [moore.Count]Move

// Grid is a toroidal square grid advanced in two phases: every cell
// first computes its own diff and outgoing moves from an immutable view
// of its neighborhood, then every cell applies its diff together with the
// moves its neighbors aimed at it.
type Grid struct {
	cfg    Config
	width  int
	height int
	walls  int

	cells []Cell
	diffs []Diff
	moves []moveSet

	// one random stream per worker so a fixed seed replays exactly
	rngs []*rand.Rand
}

// NewGrid builds a grid over a wall mask. The mask may be nil for an
// open world; otherwise it must have width*height entries.
func NewGrid(walls []bool, config ...Config) *Grid {
	cfg := configDefault(config...)

	g := &Grid{
		cfg:    cfg,
		width:  cfg.Width,
		height: cfg.Height,
		cells:  make([]Cell, cfg.Width*cfg.Height),
		diffs:  make([]Diff, cfg.Width*cfg.Height),
		moves:  make([]moveSet, cfg.Width*cfg.Height),
		rngs:   make([]*rand.Rand, cfg.Workers),
	}
	for w := range g.rngs {
		g.rngs[w] = rand.New(rand.NewSource(cfg.Seed + int64(w)))
	}
	if walls != nil {
		for i := range g.cells {
			if walls[i] {
				g.cells[i].Wall = true
				g.walls++
			}
		}
	}
	return g
}

func (g *Grid) Width() int    { return g.width }
func (g *Grid) Height() int   { return g.height }
func (g *Grid) Cells() []Cell { return g.cells }

// Cell returns the cell at (x, y) with toroidal wrapping.
func (g *Grid) Cell(x, y int) *Cell {
	return &g.cells[g.index(x, y)]
}

func (g *Grid) index(x, y int) int {
	x = ((x % g.width) + g.width) % g.width
	y = ((y % g.height) + g.height) % g.height
	return y*g.width + x
}

// neighbor resolves the flat index of the neighbor of i in direction d.
func (g *Grid) neighbor(i int, d moore.Direction) int {
	dx, dy := d.Delta()
	x := i%g.width + dx
	y := i/g.width + dy
	return g.index(x, y)
}

type counters struct {
	cells     int
	food      int
	bids      int
	asks      int
	spawns    int
	deaths    int
	mutations int
	combines  int
}

func (c *counters) add(o counters) {
	c.cells += o.cells
	c.food += o.food
	c.bids += o.bids
	c.asks += o.asks
	c.spawns += o.spawns
	c.deaths += o.deaths
	c.mutations += o.mutations
	c.combines += o.combines
}

// Cycle runs one full step+update pass and reports what happened.
func (g *Grid) Cycle() TickStats {
	workers := len(g.rngs)
	perWorker := make([]counters, workers)

	g.parallelRows(func(w, row int) {
		start := row * g.width
		for i := start; i < start+g.width; i++ {
			g.step(i, g.rngs[w], &perWorker[w])
		}
	})
	g.parallelRows(func(w, row int) {
		start := row * g.width
		for i := start; i < start+g.width; i++ {
			g.update(i, g.rngs[w], &perWorker[w])
		}
	})

	var total counters
	for i := range perWorker {
		total.add(perWorker[i])
	}
	return TickStats{
		Cells:     total.cells,
		TotalFood: total.food,
		Walls:     g.walls,
		Bids:      total.bids,
		Asks:      total.asks,
		Spawns:    total.spawns,
		Deaths:    total.deaths,
		Mutations: total.mutations,
		Combines:  total.combines,
	}
}

// parallelRows splits the rows into one contiguous band per worker. Bands
// are fixed so that each row always sees the same random stream.
func (g *Grid) parallelRows(fn func(worker, row int)) {
	workers := len(g.rngs)
	if workers == 1 || g.height < workers {
		for row := 0; row < g.height; row++ {
			fn(0, row)
		}
		return
	}

	eg, _ := errgroup.WithContext(context.Background())
	band := (g.height + workers - 1) / workers
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			for row := w * band; row < (w+1)*band && row < g.height; row++ {
				fn(w, row)
			}
			return nil
		})
	}
	// workers never return errors; Wait is for the barrier
	_ = eg.Wait()
}

// step computes the diff and outgoing moves of cell i. It only ever
// mutates cell i's own brain memory.
func (g *Grid) step(i int, rng *rand.Rand, c *counters) {
	cell := &g.cells[i]
	g.moves[i] = moveSet{}

	if cell.Food == 0 || cell.Brain == nil {
		if cell.Brain != nil {
			// starved out
			c.deaths++
		}
		g.diffs[i] = Diff{Consume: 0, Moved: true}
		return
	}

	// Sense the neighborhood: has-brain flag and food per neighbor, then
	// own food.
	var inputs [2*moore.Count + 1]float64
	for k, d := range moore.Directions() {
		n := &g.cells[g.neighbor(i, d)]
		if n.Brain != nil {
			inputs[2*k] = 1
		}
		inputs[2*k+1] = float64(n.Food)
	}
	inputs[2*moore.Count] = float64(cell.Food)

	decision := cell.Brain.Decide(rng, inputs[:])

	switch decision.Kind {
	case brain.MoveOut:
		if cell.Food > g.cfg.MovePenalty {
			g.diffs[i] = Diff{Consume: cell.Food, Moved: true}
			g.moves[i][decision.Dir] = Move{
				Food:  cell.Food - 1 - g.cfg.MovePenalty,
				Brain: cell.Brain,
			}
			return
		}
	case brain.Divide:
		if cell.Food >= 2+g.cfg.MovePenalty {
			g.diffs[i] = Diff{
				Consume: cell.Food/2 + 1 + g.cfg.MovePenalty/2,
				Moved:   false,
			}
			g.moves[i][decision.Dir] = Move{
				Food:  cell.Food/2 - g.cfg.MovePenalty/2,
				Brain: cell.Brain.Clone(),
			}
			return
		}
	}

	// Just exist: burn one food.
	g.diffs[i] = Diff{Consume: 1}
}

// update applies cell i's diff and the moves aimed at it.
func (g *Grid) update(i int, rng *rand.Rand, c *counters) {
	cell := &g.cells[i]
	if cell.Wall {
		return
	}

	diff := g.diffs[i]
	cell.Food -= diff.Consume
	if cell.Food < 0 {
		cell.Food = 0
	}
	if diff.Moved {
		cell.Brain = nil
	}

	// Collect moves arriving from each neighbor: the neighbor in
	// direction d sent it toward us on its Inv(d) slot.
	var arriving [moore.Count]Move
	incomingBrains := 0
	for k, d := range moore.Directions() {
		m := g.moves[g.neighbor(i, d)][d.Inv()]
		arriving[k] = m
		if m.Brain != nil {
			incomingBrains++
		}
	}

	resident := 0
	if cell.Brain != nil {
		resident = 1
	}
	switch {
	case incomingBrains+resident >= 2:
		// Brains that enter the same space combine.
		brains := make([]*brain.Brain, 0, incomingBrains+resident)
		if cell.Brain != nil {
			brains = append(brains, cell.Brain)
		}
		for _, m := range arriving {
			if m.Brain != nil {
				brains = append(brains, m.Brain)
			}
		}
		cell.Brain = brain.Combine(rng, brains)
		c.combines++
	case incomingBrains == 1:
		for _, m := range arriving {
			if m.Brain != nil {
				cell.Brain = m.Brain
				break
			}
		}
	}

	for _, m := range arriving {
		cell.Food += m.Food
	}

	if cell.Brain != nil && rng.Float64() < g.cfg.MutateProbability {
		cell.Brain.Mutate(rng)
		c.mutations++
	}

	if cell.Brain == nil && rng.Float64() < g.cfg.CellSpawnProbability {
		cell.Brain = brain.New(rng)
		cell.Food += g.cfg.SpawnFood
		c.spawns++
	}
	if rng.Float64() < g.cfg.FoodSpawnProbability {
		cell.Food++
	}

	if cell.Brain != nil {
		c.cells++
		if cell.Food <= g.cfg.MovePenalty {
			// hungry: would buy food if there were a market
			c.bids++
		}
		if cell.Food >= 2*(2+g.cfg.MovePenalty) {
			// surplus: could sell
			c.asks++
		}
	}
	c.food += cell.Food
}
