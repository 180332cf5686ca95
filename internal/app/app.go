//go:build ebiten

package app

import (
	"mesh-ca/internal/core"
	"mesh-ca/internal/render"
	"mesh-ca/internal/ui"
	pcore "mesh-ca/pkg/core"
	"mesh-ca/pkg/mesh"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a recorded time series to the ebiten.Game interface.
type Game struct {
	demo    core.Demo
	series  *mesh.TimeSeries
	frames  []*pcore.ByteGrid
	painter *render.GridPainter
	overlay *ui.Overlay
	timer   *core.FixedStep

	scale    int
	frame    int
	paused   bool
	tickOnce bool
}

// New constructs a Game that plays back series at tps frames per second.
func New(demo core.Demo, series *mesh.TimeSeries, scale, tps int) *Game {
	size := series.Size()
	frames := make([]*pcore.ByteGrid, series.Frames())
	for t := range frames {
		frames[t] = series.Frame(t, demo.Shade, core.Unavailable)
	}
	return &Game{
		demo:    demo,
		series:  series,
		frames:  frames,
		painter: render.NewGridPainter(size.W, size.H, demo.Palette()),
		overlay: ui.NewOverlay(demo.Name(), series, scale),
		timer:   core.NewFixedStep(tps),
		scale:   scale,
	}
}

// Rewind returns playback to the first frame.
func (g *Game) Rewind() {
	g.frame = 0
	g.tickOnce = false
	g.timer.Reset()
}

// Update handles input and advances playback.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) || inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) && g.frame > 0 {
		g.frame--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Rewind()
	}

	g.overlay.Update()

	advance := g.timer.ShouldStep()
	if (!g.paused && advance) || g.tickOnce {
		if len(g.frames) > 0 {
			g.frame = (g.frame + 1) % len(g.frames)
		}
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current frame.
func (g *Game) Draw(screen *ebiten.Image) {
	if len(g.frames) == 0 {
		return
	}
	g.painter.Blit(screen, g.frames[g.frame], g.scale)
	g.overlay.Draw(screen, g.frame, g.paused)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.series.Size()
	return s.W * g.scale, s.H * g.scale
}
