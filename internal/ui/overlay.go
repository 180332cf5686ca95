//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"mesh-ca/pkg/mesh"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws the playback status and marks cells with incomplete
// recordings.
type Overlay struct {
	name    string
	series  *mesh.TimeSeries
	flagged []mesh.Coord
	scale   int

	showStatus  bool
	showMissing bool
	pixel       *ebiten.Image
}

// NewOverlay constructs an overlay for a recorded series.
func NewOverlay(name string, series *mesh.TimeSeries, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{
		name:        name,
		series:      series,
		scale:       scale,
		showStatus:  true,
		showMissing: true,
	}
	o.flagged = append(o.flagged, series.Missing()...)
	o.flagged = append(o.flagged, series.Failed()...)
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlay layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showStatus = !o.showStatus
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showMissing = !o.showMissing
	}
}

// Draw renders the overlay for frame t onto screen.
func (o *Overlay) Draw(screen *ebiten.Image, t int, paused bool) {
	if o.showMissing {
		o.drawFlagged(screen)
	}
	if !o.showStatus {
		return
	}
	state := "playing"
	if paused {
		state = "paused"
	}
	status := fmt.Sprintf("%s  tick %d/%d  active %d  %s",
		o.name, t+1, o.series.Frames(), o.series.Population(t), state)
	if n := len(o.flagged); n > 0 {
		status += fmt.Sprintf("  incomplete %d", n)
	}
	text.Draw(screen, status, basicfont.Face7x13, 4, 14, color.RGBA{R: 255, G: 220, B: 0, A: 255})
}

// drawFlagged outlines every flagged cell.
func (o *Overlay) drawFlagged(screen *ebiten.Image) {
	h := o.series.Size().H
	s := float64(o.scale)
	for _, c := range o.flagged {
		x := float64(c.X) * s
		y := float64(h-1-c.Y) * s
		o.rect(screen, x, y, s, 1)
		o.rect(screen, x, y+s-1, s, 1)
		o.rect(screen, x, y, 1, s)
		o.rect(screen, x+s-1, y, 1, s)
	}
}

func (o *Overlay) rect(screen *ebiten.Image, x, y, w, h float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 255, G: 60, B: 60, A: 255})
	screen.DrawImage(o.pixel, op)
}
