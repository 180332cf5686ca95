package core

import "testing"

func TestModIsNonNegative(t *testing.T) {
	cases := []struct{ a, n, want int }{
		{-1, 5, 4},
		{-5, 5, 0},
		{-6, 5, 4},
		{7, 5, 2},
		{0, 3, 0},
	}
	for _, tc := range cases {
		if got := Mod(tc.a, tc.n); got != tc.want {
			t.Fatalf("Mod(%d, %d) = %d, want %d", tc.a, tc.n, got, tc.want)
		}
	}
}

func TestByteGridWrapsAndCounts(t *testing.T) {
	g := NewByteGrid(4, 3)
	g.Set(-1, -1, 1)
	if got := g.At(3, 2); got != 1 {
		t.Fatalf("expected wrapped write at (3,2), got %d", got)
	}
	g.Set(4, 0, 1)
	if g.At(0, 0) != 1 {
		t.Fatal("expected x=4 to wrap to column 0")
	}
	if got := g.Count(); got != 2 {
		t.Fatalf("expected 2 live cells, got %d", got)
	}
	g.Clear()
	if g.Count() != 0 {
		t.Fatal("expected Clear to zero the grid")
	}
}

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(7), NewRNG(7)
	for i := 0; i < 32; i++ {
		if a.Chance(0.5) != b.Chance(0.5) {
			t.Fatalf("draw %d differs for identical seeds", i)
		}
	}
	if NewRNG(1).Chance(0) {
		t.Fatal("Chance(0) must be false")
	}
	if !NewRNG(1).Chance(1) {
		t.Fatal("Chance(1) must be true")
	}
}
