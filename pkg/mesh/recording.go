package mesh

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Trace is the recorded history of one cell, one state per tick.
type Trace struct {
	Coord  Coord
	Label  string
	States []State
	// Missing marks a buffer that came back incomplete. States then holds
	// only what was actually recorded.
	Missing bool
	// Err is set when the read-back itself failed.
	Err error
}

// RecordingReceiver reads and decodes a vertex's recording.
type RecordingReceiver interface {
	RecordedStates(ctx context.Context, r Reader, h VertexHandle, d Decoder) (Trace, error)
}

// RecordedStates reads the cell's recording through r and decodes it.
func (c *Cell) RecordedStates(ctx context.Context, r Reader, h VertexHandle, d Decoder) (Trace, error) {
	tr := Trace{Coord: c.Coord, Label: c.Label}
	data, missing, err := r.ReadRecorded(ctx, h)
	if err != nil {
		return tr, err
	}
	states, partial, err := DecodeRecording(data, d)
	tr.States = states
	tr.Missing = missing || partial
	return tr, err
}

// DecodeRecording splits little-endian words into states. A trailing
// fragment shorter than one state is dropped and reported as partial.
func DecodeRecording(data []byte, d Decoder) (states []State, partial bool, err error) {
	wps := d.WordsPerState()
	if wps <= 0 {
		return nil, false, fmt.Errorf("decoder reports %d words per state", wps)
	}
	stride := wps * wordBytes
	n := len(data) / stride
	partial = len(data)%stride != 0
	states = make([]State, 0, n)
	words := make([]uint32, wps)
	for i := 0; i < n; i++ {
		base := i * stride
		for w := range words {
			words[w] = binary.LittleEndian.Uint32(data[base+w*wordBytes:])
		}
		s, err := d.Decode(words)
		if err != nil {
			return states, partial, fmt.Errorf("tick %d: %w", i, err)
		}
		states = append(states, s)
	}
	return states, partial, nil
}

// Extract reads back every cell's recording, using up to workers concurrent
// reads. Per-cell failures do not stop the others: they are recorded on the
// trace and returned joined together with the partial series.
func Extract(ctx context.Context, g *Grid, r Reader, handles map[Coord]VertexHandle, d Decoder, workers int) (*TimeSeries, error) {
	if workers <= 0 {
		workers = 1
	}
	cells := g.Cells()
	traces := make([]Trace, len(cells))

	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, cell := range cells {
		h, ok := handles[cell.Coord]
		if !ok {
			traces[i] = Trace{Coord: cell.Coord, Label: cell.Label, Err: errors.New("no vertex handle")}
			continue
		}
		eg.Go(func() error {
			tr, err := cell.RecordedStates(ctx, r, h, d)
			tr.Err = err
			traces[i] = tr
			return nil
		})
	}
	_ = eg.Wait()

	ts := newTimeSeries(g, traces)
	var errs []error
	for _, tr := range ts.traces {
		if tr.Err != nil {
			errs = append(errs, &ExtractionError{Label: tr.Label, Coord: tr.Coord, Err: tr.Err})
		}
	}
	return ts, errors.Join(errs...)
}
