package life

import (
	"context"
	"testing"

	"mesh-ca/internal/core"
	"mesh-ca/internal/host"
	"mesh-ca/pkg/mesh"
)

func TestGliderWiring(t *testing.T) {
	l := New(DefaultConfig())
	g, err := l.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	edges, err := mesh.Wire(g, l.Connectivity())
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	if g.Len() != 49 || len(edges) != 392 || g.CountActive() != 5 {
		t.Fatalf("expected 49 cells, 392 edges and 5 alive, got %d, %d and %d", g.Len(), len(edges), g.CountActive())
	}
	in := make(map[mesh.Coord]int)
	for _, e := range edges {
		in[e.Destination]++
	}
	for _, c := range g.Cells() {
		if in[c.Coord] != 8 {
			t.Fatalf("%s: indegree %d, want 8", c, in[c.Coord])
		}
	}
}

func TestGliderTravelsDiagonally(t *testing.T) {
	res, err := core.Run(context.Background(), New(DefaultConfig()), core.RunOptions{Ticks: 4, Workers: 4})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	ts := res.Series
	if ts.Frames() != 4 {
		t.Fatalf("expected 4 frames, got %d", ts.Frames())
	}
	want := map[mesh.Coord]bool{{X: 3, Y: 1}: true, {X: 4, Y: 1}: true, {X: 4, Y: 2}: true, {X: 5, Y: 2}: true, {X: 3, Y: 3}: true}
	for x := 0; x < 7; x++ {
		for y := 0; y < 7; y++ {
			c := mesh.Coord{X: x, Y: y}
			s, ok := ts.State(c, 3)
			if !ok {
				t.Fatalf("no state for %v", c)
			}
			if s.Active() != want[c] {
				t.Fatalf("cell %v alive=%v after 4 ticks, expected %v", c, s.Active(), want[c])
			}
		}
	}
	for tick := 0; tick < 4; tick++ {
		if ts.Population(tick) != 5 {
			t.Fatalf("tick %d: population %d, want 5", tick, ts.Population(tick))
		}
	}
}

func TestDroppedCellIsNotFilledIn(t *testing.T) {
	res, err := core.Run(context.Background(), New(DefaultConfig()), core.RunOptions{
		Ticks: 2,
		Host:  []host.Option{host.WithDroppedRecording("cell24")},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	missing := res.Series.Missing()
	if len(missing) != 1 || missing[0] != (mesh.Coord{X: 3, Y: 3}) {
		t.Fatalf("expected (3,3) missing, got %v", missing)
	}
	if got := res.Series.Frame(0, mesh.ActiveShade, core.Unavailable).At(3, 3); got != core.Unavailable {
		t.Fatalf("expected (3,3) unavailable, got %d", got)
	}
}

func TestStep(t *testing.T) {
	msgs := func(alive int) []host.Message {
		out := make([]host.Message, 8)
		for i := range out {
			out[i] = host.Message{From: mesh.Direction(i), State: mesh.Alive(i < alive)}
		}
		return out
	}
	cases := []struct {
		self  bool
		alive int
		want  bool
	}{
		{false, 3, true},
		{false, 2, false},
		{true, 2, true},
		{true, 3, true},
		{true, 1, false},
		{true, 4, false},
	}
	for _, tc := range cases {
		if got := Step(mesh.Alive(tc.self), msgs(tc.alive)).Active(); got != tc.want {
			t.Fatalf("alive=%v with %d neighbors: got %v, want %v", tc.self, tc.alive, got, tc.want)
		}
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{"w": "9", "h": "5", "pattern": "0:0,1:1", "density": "2"})
	if cfg.Width != 9 || cfg.Height != 5 {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
	if len(cfg.Pattern) != 2 || cfg.Density != 0 {
		t.Fatalf("unexpected seeding %+v", cfg)
	}
	bad := New(FromMap(map[string]string{"pattern": "1-1"}))
	if _, err := bad.Build(); err == nil {
		t.Fatal("expected a malformed pattern to fail the build")
	}
}
