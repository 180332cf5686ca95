package core_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"mesh-ca/internal/core"
	"mesh-ca/internal/host"
	_ "mesh-ca/internal/sims/briansbrain"
	_ "mesh-ca/internal/sims/heat"
	_ "mesh-ca/internal/sims/life"
	"mesh-ca/pkg/mesh"
)

func TestParseCoords(t *testing.T) {
	got, err := core.ParseCoords(" 1:2, 3:4 ")
	if err != nil {
		t.Fatalf("ParseCoords: %v", err)
	}
	if len(got) != 2 || got[0] != (mesh.Coord{X: 1, Y: 2}) || got[1] != (mesh.Coord{X: 3, Y: 4}) {
		t.Fatalf("unexpected coordinates %v", got)
	}
	if s := core.FormatCoords(got); s != "1:2,3:4" {
		t.Fatalf("FormatCoords = %q", s)
	}
	for _, bad := range []string{"1", "a:2", "1:b"} {
		if _, err := core.ParseCoords(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
	if got, err := core.ParseCoords(""); err != nil || got != nil {
		t.Fatalf("expected no coordinates for an empty pattern, got %v, %v", got, err)
	}
}

func TestRegistry(t *testing.T) {
	names := core.Names()
	want := []string{"briansbrain", "heat", "life"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected demos %v", names)
	}
	for _, name := range names {
		d := core.Demos()[name](nil)
		if d.Name() != name {
			t.Fatalf("factory %q built %q", name, d.Name())
		}
		var buf bytes.Buffer
		if _, err := d.Parameters().WriteTo(&buf); err != nil || buf.Len() == 0 {
			t.Fatalf("%s: parameters not printable: %v", name, err)
		}
	}
}

func TestRunReportsBuildErrors(t *testing.T) {
	d := core.Demos()["life"](map[string]string{"w": "2"})
	res, err := core.Run(context.Background(), d, core.RunOptions{Ticks: 1})
	if !errors.Is(err, mesh.ErrDegenerateGrid) || res != nil {
		t.Fatalf("expected a degenerate grid error, got %v", err)
	}
}

func TestRunReturnsPartialSeries(t *testing.T) {
	d := core.Demos()["life"](nil)
	res, err := core.Run(context.Background(), d, core.RunOptions{
		Ticks: 2,
		Host:  []host.Option{host.WithReadFailure("cell0", "cell8")},
	})
	if !errors.Is(err, host.ErrReadFailed) {
		t.Fatalf("expected read failures, got %v", err)
	}
	if res == nil || res.Series == nil || len(res.Series.Failed()) != 2 {
		t.Fatal("expected a series with two failed cells")
	}
}

func TestFixedStep(t *testing.T) {
	fs := core.NewFixedStep(0)
	if !fs.ShouldStep() {
		t.Fatal("expected the first call to step")
	}
	fs.Reset()
	if fs.ShouldStep() {
		t.Fatal("expected no step immediately after Reset")
	}
}
