package core

import (
	"context"
	"fmt"

	"mesh-ca/internal/host"
	"mesh-ca/pkg/mesh"
)

// RunOptions controls a demo run on the in-process host.
type RunOptions struct {
	Ticks   int
	Workers int
	Host    []host.Option
}

// Result holds everything produced by a run. Series may be non-nil even when
// Run returns an error, if only some read-backs failed.
type Result struct {
	Grid   *mesh.Grid
	Edges  []mesh.Edge
	Series *mesh.TimeSeries
}

// Run builds, wires and executes d.
func Run(ctx context.Context, d Demo, opts RunOptions) (*Result, error) {
	grid, err := d.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", d.Name(), err)
	}
	conn := d.Connectivity()
	edges, err := mesh.Wire(grid, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: wire: %w", d.Name(), err)
	}
	res := &Result{Grid: grid, Edges: edges}
	machine := host.New(d.Rule(), d.Decoder(), opts.Host...)
	res.Series, err = mesh.Execute(ctx, machine, mesh.Plan{
		Grid:         grid,
		Edges:        edges,
		Connectivity: conn,
		Decoder:      d.Decoder(),
		Ticks:        opts.Ticks,
		Workers:      opts.Workers,
	})
	if err != nil {
		return res, fmt.Errorf("%s: %w", d.Name(), err)
	}
	return res, nil
}
