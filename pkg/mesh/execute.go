package mesh

import (
	"context"
	"errors"
	"fmt"
)

// Plan is a wired grid ready to be handed to a Runtime.
type Plan struct {
	Grid         *Grid
	Edges        []Edge
	Connectivity Connectivity
	Decoder      Decoder
	Ticks        int
	// Workers bounds concurrent read-backs; values below 1 mean 1.
	Workers int
}

// Check verifies the plan without touching any runtime.
func (p Plan) Check() error {
	if p.Grid == nil {
		return errors.New("plan has no grid")
	}
	if p.Decoder == nil {
		return errors.New("plan has no decoder")
	}
	if p.Ticks <= 0 {
		return fmt.Errorf("plan must run at least one tick, got %d", p.Ticks)
	}
	wps := p.Decoder.WordsPerState()
	for _, c := range p.Grid.Cells() {
		if got := c.stateWords(); got != wps {
			return cellErr(ErrStateEncoding, c, "state encodes to %d words, decoder expects %d", got, wps)
		}
	}
	return Validate(p.Grid, p.Edges, p.Connectivity)
}

// Submit hands every vertex and then every edge to s.
func Submit(s Session, g *Grid, edges []Edge) (map[Coord]VertexHandle, []EdgeHandle, error) {
	vertices := make(map[Coord]VertexHandle, g.Len())
	for _, c := range g.Cells() {
		h, err := s.SubmitVertex(c)
		if err != nil {
			return nil, nil, &ExternalError{Op: "submit vertex " + c.Label, Err: err}
		}
		vertices[c.Coord] = h
	}
	handles := make([]EdgeHandle, 0, len(edges))
	for _, e := range edges {
		h, err := s.SubmitEdge(e)
		if err != nil {
			return nil, nil, &ExternalError{Op: fmt.Sprintf("submit edge %v->%v", e.Source, e.Destination), Err: err}
		}
		handles = append(handles, h)
	}
	return vertices, handles, nil
}

// Execute runs the plan on rt: setup, all vertices, all edges, one run,
// read-back, stop. Configuration problems are reported before Setup is
// called. Read-back failures are returned together with the partial series.
func Execute(ctx context.Context, rt Runtime, p Plan) (ts *TimeSeries, err error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	size := p.Grid.Size()
	sess, err := rt.Setup(SetupConfig{
		Width:        size.W,
		Height:       size.H,
		Ticks:        p.Ticks,
		Connectivity: p.Connectivity,
	})
	if err != nil {
		return nil, &ExternalError{Op: "setup", Err: err}
	}
	defer func() {
		if stopErr := sess.Stop(); stopErr != nil {
			err = errors.Join(err, &ExternalError{Op: "stop", Err: stopErr})
		}
	}()

	vertices, _, err := Submit(sess, p.Grid, p.Edges)
	if err != nil {
		return nil, err
	}
	if err := sess.Run(ctx, p.Ticks); err != nil {
		return nil, &ExternalError{Op: "run", Err: err}
	}
	return Extract(ctx, p.Grid, sess, vertices, p.Decoder, p.Workers)
}
