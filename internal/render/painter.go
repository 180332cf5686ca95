//go:build ebiten

package render

import (
	"image/color"

	"mesh-ca/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads palette-indexed frames into a single image.
type GridPainter struct {
	w, h    int
	img     *ebiten.Image
	buf     []byte
	flipped []uint8
	palette []color.RGBA
}

// NewGridPainter allocates a painter for a w*h frame.
func NewGridPainter(w, h int, palette []color.RGBA) *GridPainter {
	gp := &GridPainter{
		w:       w,
		h:       h,
		buf:     make([]byte, 4*w*h),
		flipped: make([]uint8, w*h),
		palette: palette,
	}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads frame into the painter image and draws it scaled onto dst.
func (gp *GridPainter) Blit(dst *ebiten.Image, frame *core.ByteGrid, scale int) {
	if frame == nil || frame.W != gp.w || frame.H != gp.h {
		return
	}
	flipRows(gp.flipped, frame.Cells(), gp.w, gp.h)
	fillPaletteRGBA(gp.buf, gp.flipped, gp.palette)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
