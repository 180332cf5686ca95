package mesh

import "mesh-ca/pkg/core"

// Neighbor is one resolved neighbor of a cell.
type Neighbor struct {
	Coord     Coord
	Direction Direction
}

// Resolve lists the neighbors of c on a w x h torus in canonical compass
// order. Wraparound uses true modulo, so y-1 at y=0 lands on h-1.
func Resolve(c Coord, w, h int, conn Connectivity) ([]Neighbor, error) {
	if !conn.Valid() {
		return nil, configErr(ErrConnectivity, "connectivity %d", uint8(conn))
	}
	if w < MinSide || h < MinSide {
		return nil, configErr(ErrDegenerateGrid,
			"%dx%d grid would wire cells to themselves; both sides must be at least %d", w, h, MinSide)
	}
	size := core.Size{W: w, H: h}
	if !size.Contains(c.X, c.Y) {
		return nil, configErr(ErrOutOfRange, "coordinate %v outside %dx%d grid", c, w, h)
	}

	dirs := conn.Directions()
	out := make([]Neighbor, 0, len(dirs))
	for _, d := range dirs {
		dx, dy := d.Offset()
		nx, ny := size.Wrap(c.X+dx, c.Y+dy)
		out = append(out, Neighbor{Coord: Coord{X: nx, Y: ny}, Direction: d})
	}
	return out, nil
}
