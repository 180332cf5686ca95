package host

import (
	"context"
	"errors"
	"testing"

	"mesh-ca/pkg/mesh"
)

// spread turns a cell on when it or any neighbor is on.
func spread(self mesh.State, inbox []Message) mesh.State {
	if self.Active() {
		return self
	}
	for _, m := range inbox {
		if m.State.Active() {
			return mesh.Alive(true)
		}
	}
	return mesh.Alive(false)
}

func plan(t *testing.T, w, h int, conn mesh.Connectivity, ticks int, alive ...mesh.Coord) mesh.Plan {
	t.Helper()
	g, err := mesh.BuildGrid(w, h, mesh.AliveSet(alive...))
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	edges, err := mesh.Wire(g, conn)
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	return mesh.Plan{Grid: g, Edges: edges, Connectivity: conn, Decoder: mesh.AliveCodec{}, Ticks: ticks, Workers: 2}
}

func TestMachineExchangesNeighborStates(t *testing.T) {
	p := plan(t, 5, 5, mesh.Moore, 2, mesh.Coord{X: 2, Y: 2})
	ts, err := mesh.Execute(context.Background(), New(spread, mesh.AliveCodec{}), p)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ts.Frames() != 2 {
		t.Fatalf("expected 2 frames, got %d", ts.Frames())
	}
	if got := ts.Population(0); got != 9 {
		t.Fatalf("expected 9 cells on after one tick, got %d", got)
	}
	if got := ts.Population(1); got != 25 {
		t.Fatalf("expected every cell on after two ticks, got %d", got)
	}
}

func TestMessagesCarryTheSenderDirection(t *testing.T) {
	fromNorth := func(_ mesh.State, inbox []Message) mesh.State {
		for _, m := range inbox {
			if m.From == mesh.N && m.State.Active() {
				return mesh.Alive(true)
			}
		}
		return mesh.Alive(false)
	}
	p := plan(t, 5, 5, mesh.VonNeumann, 1, mesh.Coord{X: 2, Y: 3})
	ts, err := mesh.Execute(context.Background(), New(fromNorth, mesh.AliveCodec{}), p)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := ts.Population(0); got != 1 {
		t.Fatalf("expected a single cell on, got %d", got)
	}
	if s, ok := ts.State(mesh.Coord{X: 2, Y: 2}, 0); !ok || !s.Active() {
		t.Fatal("expected the pattern to move one cell south")
	}
}

func TestMachineResourceLimits(t *testing.T) {
	p := plan(t, 3, 3, mesh.Moore, 4)

	_, err := mesh.Execute(context.Background(), New(spread, mesh.AliveCodec{}, WithSDRAMPerCore(16)), p)
	var extErr *mesh.ExternalError
	if !errors.Is(err, ErrInsufficientSDRAM) || !errors.As(err, &extErr) {
		t.Fatalf("expected an external SDRAM error, got %v", err)
	}

	_, err = mesh.Execute(context.Background(), New(spread, mesh.AliveCodec{}, WithCores(4)), p)
	if !errors.Is(err, ErrNoCores) {
		t.Fatalf("expected a core allocation error, got %v", err)
	}
}

func TestDroppedRecordingIsFlaggedMissing(t *testing.T) {
	p := plan(t, 3, 3, mesh.Moore, 3, mesh.Coord{X: 0, Y: 0})
	m := New(spread, mesh.AliveCodec{}, WithDroppedRecording("cell4"))
	ts, err := mesh.Execute(context.Background(), m, p)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	missing := ts.Missing()
	if len(missing) != 1 || missing[0] != (mesh.Coord{X: 1, Y: 1}) {
		t.Fatalf("expected (1,1) missing, got %v", missing)
	}
	if w := ts.Warnings(); len(w) != 1 || w[0].Label != "cell4" || w[0].Frames != 0 {
		t.Fatalf("unexpected warnings %v", w)
	}
	if _, ok := ts.State(mesh.Coord{X: 1, Y: 1}, 0); ok {
		t.Fatal("expected no recorded state for the dropped cell")
	}
}

func TestReadFailureIsReported(t *testing.T) {
	p := plan(t, 3, 3, mesh.Moore, 1)
	ts, err := mesh.Execute(context.Background(), New(spread, mesh.AliveCodec{}, WithReadFailure("cell0")), p)
	if !errors.Is(err, ErrReadFailed) {
		t.Fatalf("expected a read failure, got %v", err)
	}
	if ts == nil || len(ts.Failed()) != 1 || ts.Failed()[0] != (mesh.Coord{}) {
		t.Fatalf("expected only (0,0) failed, got %v", ts)
	}
}

func submit(t *testing.T, m *Machine, p mesh.Plan) (mesh.Session, map[mesh.Coord]mesh.VertexHandle) {
	t.Helper()
	size := p.Grid.Size()
	sess, err := m.Setup(mesh.SetupConfig{Width: size.W, Height: size.H, Ticks: p.Ticks, Connectivity: p.Connectivity})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	handles, _, err := mesh.Submit(sess, p.Grid, p.Edges)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return sess, handles
}

func TestRecordingOverflowIsFlaggedMissing(t *testing.T) {
	p := plan(t, 3, 3, mesh.Moore, 2)
	sess, handles := submit(t, New(spread, mesh.AliveCodec{}), p)
	if err := sess.Run(context.Background(), 3); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, missing, err := sess.ReadRecorded(context.Background(), handles[mesh.Coord{X: 1, Y: 2}])
	if err != nil {
		t.Fatalf("ReadRecorded: %v", err)
	}
	if !missing || len(data) != 8 {
		t.Fatalf("expected 2 recorded ticks flagged missing, got %d bytes missing=%v", len(data), missing)
	}
}

func TestSessionLifecycle(t *testing.T) {
	p := plan(t, 3, 3, mesh.Moore, 1)
	m := New(spread, mesh.AliveCodec{})
	sess, handles := submit(t, m, p)
	ctx := context.Background()

	if _, _, err := sess.ReadRecorded(ctx, handles[mesh.Coord{}]); !errors.Is(err, ErrLifecycle) {
		t.Fatalf("expected read before run to fail, got %v", err)
	}
	if _, err := sess.SubmitVertex(p.Grid.At(0, 0)); !errors.Is(err, ErrLifecycle) {
		t.Fatalf("expected vertex after edges to fail, got %v", err)
	}
	if err := sess.Run(ctx, 1); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := sess.Run(ctx, 1); !errors.Is(err, ErrLifecycle) {
		t.Fatalf("expected a second run to fail, got %v", err)
	}
	if _, err := sess.SubmitEdge(p.Edges[0]); !errors.Is(err, ErrLifecycle) {
		t.Fatalf("expected edge after run to fail, got %v", err)
	}
	if _, _, err := sess.ReadRecorded(ctx, mesh.VertexHandle(99)); !errors.Is(err, ErrUnknownVertex) {
		t.Fatalf("expected unknown handle to fail, got %v", err)
	}
	if err := sess.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := sess.Stop(); !errors.Is(err, ErrLifecycle) {
		t.Fatalf("expected a second stop to fail, got %v", err)
	}

	// A new session starts from scratch.
	other, _ := submit(t, m, p)
	if err := other.Run(ctx, 1); err != nil {
		t.Fatalf("second session Run: %v", err)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	p := plan(t, 3, 3, mesh.Moore, 5)
	sess, _ := submit(t, New(spread, mesh.AliveCodec{}), p)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sess.Run(ctx, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
