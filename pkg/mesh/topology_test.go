package mesh

import (
	"errors"
	"testing"
)

func TestResolveWrapsAtOrigin(t *testing.T) {
	got, err := Resolve(Coord{0, 0}, 7, 7, Moore)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []Neighbor{
		{Coord{0, 1}, N},
		{Coord{1, 1}, NE},
		{Coord{1, 0}, E},
		{Coord{1, 6}, SE},
		{Coord{0, 6}, S},
		{Coord{6, 6}, SW},
		{Coord{6, 0}, W},
		{Coord{6, 1}, NW},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d neighbors, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("neighbor %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestResolveNeighborsDistinct(t *testing.T) {
	sizes := [][2]int{{3, 3}, {3, 5}, {5, 3}, {7, 7}}
	for _, sz := range sizes {
		for _, conn := range []Connectivity{Moore, VonNeumann} {
			for x := 0; x < sz[0]; x++ {
				for y := 0; y < sz[1]; y++ {
					c := Coord{x, y}
					nbrs, err := Resolve(c, sz[0], sz[1], conn)
					if err != nil {
						t.Fatalf("%dx%d %v: %v", sz[0], sz[1], c, err)
					}
					seen := make(map[Coord]bool)
					for _, n := range nbrs {
						if n.Coord == c {
							t.Fatalf("%dx%d %s: %v is its own %s neighbor", sz[0], sz[1], conn, c, n.Direction)
						}
						if seen[n.Coord] {
							t.Fatalf("%dx%d %s: %v sees %v twice", sz[0], sz[1], conn, c, n.Coord)
						}
						seen[n.Coord] = true
					}
					if len(nbrs) != conn.Degree() {
						t.Fatalf("expected %d neighbors, got %d", conn.Degree(), len(nbrs))
					}
				}
			}
		}
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	if _, err := Resolve(Coord{0, 0}, 2, 2, Moore); !errors.Is(err, ErrDegenerateGrid) {
		t.Fatalf("expected degenerate grid error, got %v", err)
	}
	if _, err := Resolve(Coord{7, 0}, 7, 7, Moore); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range error, got %v", err)
	}
	if _, err := Resolve(Coord{0, -1}, 7, 7, VonNeumann); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range error for negative y, got %v", err)
	}
	if _, err := Resolve(Coord{0, 0}, 7, 7, Connectivity(6)); !errors.Is(err, ErrConnectivity) {
		t.Fatalf("expected unsupported connectivity to fail, got %v", err)
	}
}

func TestResolveIsSymmetricAcrossSeams(t *testing.T) {
	sizes := [][2]int{{3, 3}, {3, 5}, {7, 4}}
	for _, sz := range sizes {
		w, h := sz[0], sz[1]
		for _, conn := range []Connectivity{Moore, VonNeumann} {
			for x := 0; x < w; x++ {
				for y := 0; y < h; y++ {
					a := Coord{x, y}
					nbrs, err := Resolve(a, w, h, conn)
					if err != nil {
						t.Fatalf("%dx%d %s %v: %v", w, h, conn, a, err)
					}
					for _, n := range nbrs {
						back, err := Resolve(n.Coord, w, h, conn)
						if err != nil {
							t.Fatalf("%dx%d %s %v: %v", w, h, conn, n.Coord, err)
						}
						found := false
						for _, b := range back {
							if b.Direction == n.Direction.Opposite() {
								found = true
								if b.Coord != a {
									t.Fatalf("%dx%d %s: %v is %s of %v, but its %s neighbor is %v",
										w, h, conn, n.Coord, n.Direction, a, b.Direction, b.Coord)
								}
							}
						}
						if !found {
							t.Fatalf("%dx%d %s: %v has no %s neighbor", w, h, conn, n.Coord, n.Direction.Opposite())
						}
					}
				}
			}
		}
	}
}
