package mesh

import (
	"fmt"
	"strconv"
)

// Coord is a grid position; it is the primary key of a cell.
type Coord struct {
	X, Y int
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Cell is one vertex of the mesh.
type Cell struct {
	Coord Coord
	Label string
	State State

	// neighbors are non-owning and filled in by Wire, in canonical direction
	// order. They are only read to summarize neighbor state.
	neighbors []*Cell
}

func newCell(c Coord, stride int, s State) *Cell {
	return &Cell{
		Coord: c,
		Label: "cell" + strconv.Itoa(c.X*stride+c.Y),
		State: s,
	}
}

// Neighbors returns the wired neighbor cells. The slice must not be modified.
func (c *Cell) Neighbors() []*Cell { return c.neighbors }

// Degree returns the number of wired neighbors.
func (c *Cell) Degree() int { return len(c.neighbors) }

// NeighborSummary counts active and inactive neighbors.
func (c *Cell) NeighborSummary() (active, inactive int) {
	for _, n := range c.neighbors {
		if n.State != nil && n.State.Active() {
			active++
			continue
		}
		inactive++
	}
	return active, inactive
}

func (c *Cell) resetWiring() {
	c.neighbors = c.neighbors[:0]
}

func (c *Cell) String() string { return c.Label + " " + c.Coord.String() }
