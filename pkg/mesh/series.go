package mesh

import "mesh-ca/pkg/core"

// TimeSeries is the reassembled recording of a whole grid, keyed by
// coordinate. Its layout does not depend on the order reads completed in.
type TimeSeries struct {
	size     core.Size
	traces   []Trace // grid order
	warnings []MissingDataWarning
}

func newTimeSeries(g *Grid, traces []Trace) *TimeSeries {
	ts := &TimeSeries{size: g.Size(), traces: traces}
	for _, tr := range traces {
		if tr.Missing {
			ts.warnings = append(ts.warnings, MissingDataWarning{
				Label:  tr.Label,
				Coord:  tr.Coord,
				Frames: len(tr.States),
			})
		}
	}
	return ts
}

// Size returns the dimensions of the recorded grid.
func (ts *TimeSeries) Size() core.Size { return ts.size }

func (ts *TimeSeries) index(c Coord) int {
	if !ts.size.Contains(c.X, c.Y) {
		return -1
	}
	return c.X*ts.size.H + c.Y
}

// Trace returns the recording for c.
func (ts *TimeSeries) Trace(c Coord) (Trace, bool) {
	i := ts.index(c)
	if i < 0 {
		return Trace{}, false
	}
	return ts.traces[i], true
}

// Traces returns every trace in label order. The slice must not be modified.
func (ts *TimeSeries) Traces() []Trace { return ts.traces }

// Frames returns the length of the longest trace.
func (ts *TimeSeries) Frames() int {
	n := 0
	for _, tr := range ts.traces {
		n = max(n, len(tr.States))
	}
	return n
}

// State returns the state of c at tick t. ok is false when that tick was not
// recorded for c.
func (ts *TimeSeries) State(c Coord, t int) (s State, ok bool) {
	tr, found := ts.Trace(c)
	if !found || t < 0 || t >= len(tr.States) {
		return nil, false
	}
	return tr.States[t], true
}

// Missing lists the coordinates whose recording is flagged incomplete.
func (ts *TimeSeries) Missing() []Coord {
	var out []Coord
	for _, tr := range ts.traces {
		if tr.Missing {
			out = append(out, tr.Coord)
		}
	}
	return out
}

// Failed lists the coordinates whose read-back returned an error.
func (ts *TimeSeries) Failed() []Coord {
	var out []Coord
	for _, tr := range ts.traces {
		if tr.Err != nil {
			out = append(out, tr.Coord)
		}
	}
	return out
}

// Warnings returns one diagnostic per incomplete recording.
func (ts *TimeSeries) Warnings() []MissingDataWarning { return ts.warnings }

// Frame flattens tick t into a ByteGrid using shade. Cells without a
// recorded state at t are set to unavailable.
func (ts *TimeSeries) Frame(t int, shade func(State) uint8, unavailable uint8) *core.ByteGrid {
	frame := core.NewByteGrid(ts.size.W, ts.size.H)
	cells := frame.Cells()
	for _, tr := range ts.traces {
		idx := frame.Index(tr.Coord.X, tr.Coord.Y)
		if t < 0 || t >= len(tr.States) {
			cells[idx] = unavailable
			continue
		}
		cells[idx] = shade(tr.States[t])
	}
	return frame
}

// Population counts the active cells recorded at tick t.
func (ts *TimeSeries) Population(t int) int {
	n := 0
	for _, tr := range ts.traces {
		if t >= 0 && t < len(tr.States) && tr.States[t].Active() {
			n++
		}
	}
	return n
}

// PopulationSeries returns Population for every frame.
func (ts *TimeSeries) PopulationSeries() []float64 {
	frames := ts.Frames()
	out := make([]float64, frames)
	for t := range out {
		out[t] = float64(ts.Population(t))
	}
	return out
}

// ActiveShade maps active states to 1 and everything else to 0.
func ActiveShade(s State) uint8 {
	if s.Active() {
		return 1
	}
	return 0
}
