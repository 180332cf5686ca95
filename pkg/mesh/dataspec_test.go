package mesh

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type traceWriter struct {
	ops    []string
	failOn string
}

func (w *traceWriter) do(op string) error {
	w.ops = append(w.ops, op)
	if w.failOn != "" && op == w.failOn {
		return errRejected
	}
	return nil
}

var errRejected = errors.New("rejected")

func (w *traceWriter) ReserveRegion(id RegionID, size int) error {
	return w.do(fmt.Sprintf("reserve %s %d", id, size))
}

func (w *traceWriter) SwitchFocus(id RegionID) error { return w.do("focus " + id.String()) }

func (w *traceWriter) WriteValue(v uint32) error { return w.do(fmt.Sprintf("write %d", v)) }

func (w *traceWriter) End() error { return w.do("end") }

func TestGenerateDataSpecification(t *testing.T) {
	g, _ := wiredGlider(t)
	w := &traceWriter{}
	if err := g.At(3, 3).GenerateDataSpecification(w, Key{Value: 5, Valid: true}, 10); err != nil {
		t.Fatalf("GenerateDataSpecification: %v", err)
	}
	want := []string{
		"reserve transmission 8",
		"reserve state 4",
		"reserve neighbors 12",
		"reserve recording 40",
		"focus transmission", "write 1", "write 5",
		"focus state", "write 1",
		"focus neighbors", "write 8", "write 4", "write 4",
		"end",
	}
	if got := strings.Join(w.ops, "; "); got != strings.Join(want, "; ") {
		t.Fatalf("unexpected spec:\n got %s\nwant %s", got, strings.Join(want, "; "))
	}
}

func TestGenerateDataSpecificationWithoutKey(t *testing.T) {
	g, _ := wiredGlider(t)
	w := &traceWriter{}
	if err := g.At(0, 0).GenerateDataSpecification(w, Key{}, 1); err != nil {
		t.Fatalf("GenerateDataSpecification: %v", err)
	}
	if w.ops[5] != "write 0" || w.ops[6] != "write 0" {
		t.Fatalf("expected a zero flag and key, got %v", w.ops[4:7])
	}
}

func TestGenerateDataSpecificationPropagatesWriterErrors(t *testing.T) {
	g, _ := wiredGlider(t)
	w := &traceWriter{failOn: "focus state"}
	err := g.At(1, 1).GenerateDataSpecification(w, Key{Valid: true}, 4)
	if !errors.Is(err, errRejected) {
		t.Fatalf("expected writer error, got %v", err)
	}
	if w.ops[len(w.ops)-1] != "focus state" {
		t.Fatalf("expected generation to stop at the failing call, got %v", w.ops)
	}
}

func TestCellResources(t *testing.T) {
	g, _ := wiredGlider(t)
	r := g.At(3, 3).Resources(10)
	if r.SDRAMBytes != 64 {
		t.Fatalf("expected 64 bytes of SDRAM, got %d", r.SDRAMBytes)
	}
	if r.DTCMBytes != 1056 {
		t.Fatalf("expected 1056 bytes of DTCM, got %d", r.DTCMBytes)
	}
}
