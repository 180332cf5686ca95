package mesh

// Edge is a directed communication channel from Source to Destination. The
// destination lies in direction Compass as seen from the source.
type Edge struct {
	Source      Coord
	Destination Coord
	Compass     Direction
}

// Wire resolves every cell's neighbors, records the neighbor references, and
// returns one edge per (cell, direction) in label order. The result has been
// checked with Validate.
func Wire(g *Grid, conn Connectivity) ([]Edge, error) {
	size := g.Size()
	edges := make([]Edge, 0, g.Len()*conn.Degree())
	g.unwire()
	for _, cell := range g.cells {
		nbrs, err := Resolve(cell.Coord, size.W, size.H, conn)
		if err != nil {
			g.unwire()
			return nil, err
		}
		for _, n := range nbrs {
			edges = append(edges, Edge{Source: cell.Coord, Destination: n.Coord, Compass: n.Direction})
			cell.neighbors = append(cell.neighbors, g.Cell(n.Coord))
		}
	}
	if err := Validate(g, edges, conn); err != nil {
		g.unwire()
		return nil, err
	}
	g.wired = conn
	return edges, nil
}

// unwire drops every neighbor reference. A rejected grid reports no neighbors.
func (g *Grid) unwire() {
	for _, cell := range g.cells {
		cell.resetWiring()
	}
	g.wired = 0
}

// Validate checks that edges wire g as a regular torus: every endpoint is on
// the grid, the compass tag matches the step between endpoints, there are no
// self or duplicate edges, and every cell has exactly conn.Degree() edges in
// and out.
func Validate(g *Grid, edges []Edge, conn Connectivity) error {
	if !conn.Valid() {
		return configErr(ErrConnectivity, "connectivity %d", uint8(conn))
	}
	size := g.Size()
	in := make([]int, g.Len())
	out := make([]int, g.Len())
	pairs := make(map[[2]Coord]bool, len(edges))

	for _, e := range edges {
		si, di := g.Index(e.Source), g.Index(e.Destination)
		if si < 0 {
			return configErr(ErrOutOfRange, "edge source %v outside %dx%d grid", e.Source, size.W, size.H)
		}
		if di < 0 {
			return configErr(ErrOutOfRange, "edge destination %v outside %dx%d grid", e.Destination, size.W, size.H)
		}
		dst := g.cells[di]
		if e.Source == e.Destination {
			return cellErr(ErrSelfEdge, dst, "I've got a connection to myself (%s), which is not allowed", e.Compass)
		}
		if !e.Compass.Valid() {
			return cellErr(ErrDirection, g.cells[si], "edge to %v carries invalid compass %d", e.Destination, uint8(e.Compass))
		}
		dx, dy := e.Compass.Offset()
		if wx, wy := size.Wrap(e.Source.X+dx, e.Source.Y+dy); wx != e.Destination.X || wy != e.Destination.Y {
			return cellErr(ErrDirection, g.cells[si], "edge tagged %s points at %v, expected (%d,%d)", e.Compass, e.Destination, wx, wy)
		}
		pair := [2]Coord{e.Source, e.Destination}
		if pairs[pair] {
			return cellErr(ErrDuplicateEdge, g.cells[si], "more than one connection to %v", e.Destination)
		}
		pairs[pair] = true
		out[si]++
		in[di]++
	}

	want := conn.Degree()
	for i, cell := range g.cells {
		if in[i] != want {
			return cellErr(ErrEdgeCount, cell,
				"I've not got the right number of connections. I have %d incoming instead of %d", in[i], want)
		}
		if out[i] != want {
			return cellErr(ErrEdgeCount, cell,
				"I've not got the right number of connections. I have %d outgoing instead of %d", out[i], want)
		}
	}
	return nil
}
