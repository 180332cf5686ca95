package render

import (
	"image/color"
	"slices"
	"testing"
)

func TestFillPaletteRGBAClampsToLastColor(t *testing.T) {
	palette := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}, {B: 3, A: 255}}
	buf := make([]byte, 4*3)
	fillPaletteRGBA(buf, []uint8{0, 1, 255}, palette)
	want := []byte{1, 0, 0, 255, 0, 2, 0, 255, 0, 0, 3, 255}
	if !slices.Equal(buf, want) {
		t.Fatalf("got %v, want %v", buf, want)
	}
}

func TestFillPaletteRGBAEmptyPaletteClears(t *testing.T) {
	buf := []byte{9, 9, 9, 9}
	fillPaletteRGBA(buf, []uint8{1}, nil)
	if !slices.Equal(buf, []byte{0, 0, 0, 0}) {
		t.Fatalf("expected transparent black, got %v", buf)
	}
}

func TestFlipRowsPutsNorthOnTop(t *testing.T) {
	src := []uint8{
		1, 2, // y=0
		3, 4, // y=1
		5, 6, // y=2
	}
	dst := make([]uint8, len(src))
	flipRows(dst, src, 2, 3)
	if !slices.Equal(dst, []uint8{5, 6, 3, 4, 1, 2}) {
		t.Fatalf("unexpected row order %v", dst)
	}
}
