package mesh

import (
	"mesh-ca/pkg/core"
)

// Initializer assigns the starting state of every cell.
type Initializer interface {
	// Validate is called once before any cell is created.
	Validate(size core.Size) error
	State(c Coord) State
}

// InitFunc adapts a plain function to an Initializer that accepts any size.
type InitFunc func(c Coord) State

func (f InitFunc) Validate(core.Size) error { return nil }

func (f InitFunc) State(c Coord) State { return f(c) }

// Uniform starts every cell in s.
func Uniform(s State) Initializer {
	return InitFunc(func(Coord) State { return s })
}

// FieldFunc starts PDE cells from a field function.
func FieldFunc(f func(Coord) Field) Initializer {
	return InitFunc(func(c Coord) State { return f(c) })
}

type activeSet struct {
	on, off State
	coords  []Coord
	members map[Coord]bool
}

// ActiveSet starts the listed coordinates in on and all others in off.
// Coordinates outside the grid fail the build.
func ActiveSet(on, off State, coords ...Coord) Initializer {
	members := make(map[Coord]bool, len(coords))
	for _, c := range coords {
		members[c] = true
	}
	return &activeSet{on: on, off: off, coords: coords, members: members}
}

// AliveSet is ActiveSet for life-like demos.
func AliveSet(coords ...Coord) Initializer {
	return ActiveSet(Alive(true), Alive(false), coords...)
}

func (a *activeSet) Validate(size core.Size) error {
	for _, c := range a.coords {
		if !size.Contains(c.X, c.Y) {
			return configErr(ErrOutOfRange, "active coordinate %v outside %dx%d grid", c, size.W, size.H)
		}
	}
	return nil
}

func (a *activeSet) State(c Coord) State {
	if a.members[c] {
		return a.on
	}
	return a.off
}

// RandomAlive marks each cell alive with probability density.
func RandomAlive(rng *core.RNG, density float64) Initializer {
	return InitFunc(func(Coord) State { return Alive(rng.Chance(density)) })
}

// Grid owns every cell of a width x height torus. Its shape is fixed at build
// time; cell states may change until the grid is submitted.
type Grid struct {
	size  core.Size
	cells []*Cell // x-major, y-minor
	wired Connectivity
}

// BuildGrid allocates and labels a w x h grid. Grids narrower than MinSide in
// either dimension are rejected.
func BuildGrid(w, h int, init Initializer) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, configErr(ErrDegenerateGrid, "grid dimensions must be positive, got %dx%d", w, h)
	}
	if w < MinSide || h < MinSide {
		return nil, configErr(ErrDegenerateGrid,
			"%dx%d grid would wire cells to themselves; both sides must be at least %d", w, h, MinSide)
	}
	size := core.Size{W: w, H: h}
	if init == nil {
		init = Uniform(Alive(false))
	}
	if err := init.Validate(size); err != nil {
		return nil, err
	}

	// Equal to the x*w+y labels of the square demos, and unique when h > w.
	stride := max(w, h)
	g := &Grid{size: size, cells: make([]*Cell, 0, w*h)}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := Coord{X: x, Y: y}
			g.cells = append(g.cells, newCell(c, stride, init.State(c)))
		}
	}
	return g, nil
}

// Size returns the fabric dimensions.
func (g *Grid) Size() core.Size { return g.size }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Cells returns every cell in label order. The slice must not be modified.
func (g *Grid) Cells() []*Cell { return g.cells }

// At returns the cell at (x, y), or nil when outside the grid.
func (g *Grid) At(x, y int) *Cell {
	if !g.size.Contains(x, y) {
		return nil
	}
	return g.cells[x*g.size.H+y]
}

// Cell returns the cell at c, or nil when outside the grid.
func (g *Grid) Cell(c Coord) *Cell { return g.At(c.X, c.Y) }

// Index returns the position of c in Cells, or -1.
func (g *Grid) Index(c Coord) int {
	if !g.size.Contains(c.X, c.Y) {
		return -1
	}
	return c.X*g.size.H + c.Y
}

// SetState replaces the state of the cell at c.
func (g *Grid) SetState(c Coord, s State) error {
	cell := g.Cell(c)
	if cell == nil {
		return configErr(ErrOutOfRange, "coordinate %v outside %dx%d grid", c, g.size.W, g.size.H)
	}
	cell.State = s
	return nil
}

// CountActive returns how many cells are currently active.
func (g *Grid) CountActive() int {
	n := 0
	for _, c := range g.cells {
		if c.State != nil && c.State.Active() {
			n++
		}
	}
	return n
}

// Neighbors resolves the neighbors of c on this grid.
func (g *Grid) Neighbors(c Coord, conn Connectivity) ([]Neighbor, error) {
	return Resolve(c, g.size.W, g.size.H, conn)
}

// Wired returns the connectivity of the last successful Wire, or 0.
func (g *Grid) Wired() Connectivity { return g.wired }
