// Package viewer is the interactive ebiten window over a running world.
//
// Controls:
//
//	space  pause / resume
//	=, -   more / fewer ticks per frame
//	s      save a numbered snapshot PNG
//	g      toggle the chart overlay
//	q, esc quit
package viewer

import (
	"context"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/evomata/evonomics/plot"
	"github.com/evomata/evonomics/render"
	"github.com/evomata/evonomics/sim"
)

// Config tunes the window.
type Config struct {
	// Scale multiplies cell size on screen.
	Scale int `yaml:"scale"`
	// TicksPerFrame is the starting simulation speed.
	TicksPerFrame int `yaml:"ticks_per_frame"`
	// SnapshotDir receives snapshot PNGs saved with the s key.
	SnapshotDir string `yaml:"snapshot_dir"`
}

// ConfigDefault is the default config.
var ConfigDefault = Config{
	Scale:         2,
	TicksPerFrame: 1,
	SnapshotDir:   ".",
}

// Helper function to set default values
func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.Scale <= 0 {
		cfg.Scale = ConfigDefault.Scale
	}
	if cfg.TicksPerFrame <= 0 {
		cfg.TicksPerFrame = ConfigDefault.TicksPerFrame
	}
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = ConfigDefault.SnapshotDir
	}
	return cfg
}

// Viewer implements ebiten.Game over the channel runner.
type Viewer struct {
	cfg    Config
	logger *zap.SugaredLogger

	cancel   context.CancelFunc
	requests chan<- sim.TickRequest
	views    <-chan sim.View

	view    sim.View
	world   *ebiten.Image
	pending bool

	paused        bool
	ticksPerFrame int

	history   []sim.TickStats
	snapshots int

	showCharts bool
	charts     []*ebiten.Image
}

// New starts the simulation on its own goroutine and wraps it in a
// window. The logger may be nil.
func New(s *sim.Sim, logger *zap.SugaredLogger, config ...Config) *Viewer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	cfg := configDefault(config...)

	ctx, cancel := context.WithCancel(context.Background())
	requests, views := sim.Run(ctx, s, 1, 1)

	v := &Viewer{
		cfg:           cfg,
		logger:        logger,
		cancel:        cancel,
		requests:      requests,
		views:         views,
		view:          s.View(),
		ticksPerFrame: cfg.TicksPerFrame,
	}
	v.history = append(v.history, v.view.Stats)
	return v
}

// Run opens the window and blocks until the user quits.
func (v *Viewer) Run() error {
	defer v.Close()
	ebiten.SetWindowSize(v.view.Width*v.cfg.Scale, v.view.Height*v.cfg.Scale)
	ebiten.SetWindowTitle("evonomics")
	if err := ebiten.RunGame(v); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

// Close stops the simulation goroutine.
func (v *Viewer) Close() {
	v.cancel()
}

// Update handles input and pumps the simulation channels.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		v.ticksPerFrame++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && v.ticksPerFrame > 1 {
		v.ticksPerFrame--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		v.snapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		v.showCharts = !v.showCharts
		v.charts = nil
	}

	// One request in flight keeps the window responsive while the
	// world ticks on its own goroutine.
	if !v.pending && !v.paused {
		select {
		case v.requests <- sim.TickRequest{Times: v.ticksPerFrame}:
			v.pending = true
		default:
		}
	}
	select {
	case view, ok := <-v.views:
		if !ok {
			return ebiten.Termination
		}
		v.view = view
		v.history = append(v.history, view.Stats)
		v.pending = false
	default:
	}
	return nil
}

// Draw paints the world, the stats line and the optional chart overlay.
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.world == nil {
		v.world = ebiten.NewImage(v.view.Width, v.view.Height)
	}
	v.world.WritePixels(v.view.Pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(v.cfg.Scale), float64(v.cfg.Scale))
	screen.DrawImage(v.world, op)

	if v.showCharts {
		v.drawCharts(screen)
	}
	ebitenutil.DebugPrint(screen, v.statusLine())
}

// Layout reports the logical screen size.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.view.Width * v.cfg.Scale, v.view.Height * v.cfg.Scale
}

func (v *Viewer) statusLine() string {
	st := v.view.Stats
	line := ""
	if v.paused {
		line = "[paused] "
	}
	return line + fmt.Sprintf(
		"tick %d x%d  cells %d  food %d  bids %d  asks %d",
		st.Tick, v.ticksPerFrame, st.Cells, st.TotalFood, st.Bids, st.Asks,
	)
}

func (v *Viewer) snapshot() {
	path, err := render.WriteSnapshot(v.cfg.SnapshotDir, v.snapshots, v.view)
	if err != nil {
		v.logger.Errorw("snapshot failed", "error", err)
		return
	}
	v.snapshots++
	v.logger.Infow("snapshot saved", "path", path)
}

func (v *Viewer) drawCharts(screen *ebiten.Image) {
	if v.charts == nil {
		v.charts = v.buildCharts()
	}
	y := 0.0
	for _, chart := range v.charts {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(0, y)
		screen.DrawImage(chart, op)
		y += float64(chart.Bounds().Dy())
	}
}

func (v *Viewer) buildCharts() []*ebiten.Image {
	reserves := make([]int, len(v.history))
	bids := make([]int, len(v.history))
	asks := make([]int, len(v.history))
	for i, ts := range v.history {
		reserves[i] = ts.TotalFood
		bids[i] = ts.Bids
		asks[i] = ts.Asks
	}

	var charts []*ebiten.Image
	for _, build := range []func() (*image.RGBA, error){
		func() (*image.RGBA, error) { return plot.Reserves(reserves) },
		func() (*image.RGBA, error) { return plot.BidsAsks(bids, asks) },
	} {
		img, err := build()
		if err != nil {
			v.logger.Errorw("chart failed", "error", err)
			continue
		}
		if img.Bounds().Empty() {
			continue
		}
		charts = append(charts, ebiten.NewImageFromImage(img))
	}
	return charts
}
