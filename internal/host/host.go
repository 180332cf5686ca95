// Package host runs a wired mesh in-process. It stands in for the external
// machine: vertices are loaded from their data specifications, edges become
// multicast routes, and every tick is a round of neighbor message exchange
// recorded into bounded per-vertex buffers.
package host

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"mesh-ca/internal/dataspec"
	"mesh-ca/pkg/mesh"
)

var (
	ErrLifecycle         = errors.New("call out of order")
	ErrNoCores           = errors.New("no free cores")
	ErrInsufficientSDRAM = errors.New("insufficient SDRAM")
	ErrUnknownVertex     = errors.New("unknown vertex")
	ErrNoKey             = errors.New("source vertex has no transmission key")
	ErrReadFailed        = errors.New("memory read failed")
)

// DefaultSDRAMPerCore bounds the memory a single vertex may reserve.
const DefaultSDRAMPerCore = 1 << 20

// Message is one state received over a multicast route.
type Message struct {
	// From is the direction of the sender as seen by the receiver.
	From  mesh.Direction
	State mesh.State
}

// Rule computes a vertex's next state from its own state and the states its
// neighbors sent during the tick.
type Rule func(self mesh.State, inbox []Message) mesh.State

// Option configures a Machine.
type Option func(*Machine)

// WithSDRAMPerCore sets the per-vertex memory budget.
func WithSDRAMPerCore(bytes int) Option {
	return func(m *Machine) { m.sdram = bytes }
}

// WithCores limits how many vertices a session can hold. Zero means no limit.
func WithCores(n int) Option {
	return func(m *Machine) { m.cores = n }
}

// WithDroppedRecording makes the recording buffers of the labelled vertices
// lose every tick, as an interrupted buffered recording would.
func WithDroppedRecording(labels ...string) Option {
	return func(m *Machine) {
		for _, l := range labels {
			m.drop[l] = true
		}
	}
}

// WithReadFailure makes read-back of the labelled vertices fail.
func WithReadFailure(labels ...string) Option {
	return func(m *Machine) {
		for _, l := range labels {
			m.failRead[l] = true
		}
	}
}

// Machine is an in-process mesh.Runtime.
type Machine struct {
	rule     Rule
	decoder  mesh.Decoder
	sdram    int
	cores    int
	drop     map[string]bool
	failRead map[string]bool
}

// New returns a Machine that steps vertices with rule and loads their state
// with decoder.
func New(rule Rule, decoder mesh.Decoder, opts ...Option) *Machine {
	m := &Machine{
		rule:     rule,
		decoder:  decoder,
		sdram:    DefaultSDRAMPerCore,
		drop:     make(map[string]bool),
		failRead: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Setup starts a new, independent session.
func (m *Machine) Setup(cfg mesh.SetupConfig) (mesh.Session, error) {
	if m.rule == nil || m.decoder == nil {
		return nil, errors.New("machine needs a rule and a decoder")
	}
	if cfg.Ticks < 0 {
		return nil, fmt.Errorf("negative tick count %d", cfg.Ticks)
	}
	if !cfg.Connectivity.Valid() {
		return nil, fmt.Errorf("unsupported connectivity %d", uint8(cfg.Connectivity))
	}
	return &session{
		m:       m,
		cfg:     cfg,
		byCoord: make(map[mesh.Coord]int),
		routes:  make(map[uint32][]route),
	}, nil
}

type phase int

const (
	phaseVertices phase = iota
	phaseEdges
	phaseRan
	phaseStopped
)

func (p phase) String() string {
	switch p {
	case phaseVertices:
		return "loading vertices"
	case phaseEdges:
		return "loading edges"
	case phaseRan:
		return "ran"
	case phaseStopped:
		return "stopped"
	}
	return "unknown"
}

type vertex struct {
	label     string
	coord     mesh.Coord
	key       mesh.Key
	state     mesh.State
	capacity  int
	recording []byte
	missing   bool
	inbox     []Message
}

type route struct {
	dest int
	from mesh.Direction
}

type session struct {
	m   *Machine
	cfg mesh.SetupConfig

	mu       sync.RWMutex
	phase    phase
	vertices []*vertex
	byCoord  map[mesh.Coord]int
	routes   map[uint32][]route
	edges    int
}

func (s *session) SubmitVertex(c *mesh.Cell) (mesh.VertexHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseVertices {
		return 0, fmt.Errorf("submit vertex while %s: %w", s.phase, ErrLifecycle)
	}
	if s.m.cores > 0 && len(s.vertices) >= s.m.cores {
		return 0, fmt.Errorf("%s: %w (%d in use)", c.Label, ErrNoCores, s.m.cores)
	}
	if _, dup := s.byCoord[c.Coord]; dup {
		return 0, fmt.Errorf("%s: vertex at %v already submitted", c.Label, c.Coord)
	}
	if res := c.Resources(s.cfg.Ticks); res.SDRAMBytes > s.m.sdram {
		return 0, fmt.Errorf("%s needs %d bytes, core has %d: %w", c.Label, res.SDRAMBytes, s.m.sdram, ErrInsufficientSDRAM)
	}

	h := len(s.vertices)
	key := mesh.Key{Value: uint32(h), Valid: c.Degree() > 0}
	v, err := s.load(c, key)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", c.Label, err)
	}
	s.vertices = append(s.vertices, v)
	s.byCoord[c.Coord] = h
	return mesh.VertexHandle(h), nil
}

// load runs the cell's data specification, serializes it, and boots the
// vertex from the parsed image as the device would.
func (s *session) load(c *mesh.Cell, key mesh.Key) (*vertex, error) {
	w := dataspec.NewWriter()
	if err := c.GenerateDataSpecification(w, key, s.cfg.Ticks); err != nil {
		return nil, err
	}
	built, err := w.Image()
	if err != nil {
		return nil, err
	}
	raw, err := built.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize spec: %w", err)
	}
	img, err := dataspec.UnmarshalImage(raw)
	if err != nil {
		return nil, fmt.Errorf("boot from spec: %w", err)
	}

	v := &vertex{label: c.Label, coord: c.Coord}
	tx, ok := img.Region(mesh.RegionTransmission)
	if !ok {
		return nil, fmt.Errorf("missing %s region", mesh.RegionTransmission)
	}
	if words := tx.Words(); len(words) == 2 && words[0] == 1 {
		v.key = mesh.Key{Value: words[1], Valid: true}
	}

	st, ok := img.Region(mesh.RegionState)
	if !ok {
		return nil, fmt.Errorf("missing %s region", mesh.RegionState)
	}
	if v.state, err = s.m.decoder.Decode(st.Words()); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}

	nb, ok := img.Region(mesh.RegionNeighbors)
	if !ok {
		return nil, fmt.Errorf("missing %s region", mesh.RegionNeighbors)
	}
	if words := nb.Words(); len(words) != 3 || int(words[0]) != s.cfg.Connectivity.Degree() {
		return nil, fmt.Errorf("neighbor summary %v does not match %s wiring", words, s.cfg.Connectivity)
	}

	rec, ok := img.Region(mesh.RegionRecording)
	if !ok {
		return nil, fmt.Errorf("missing %s region", mesh.RegionRecording)
	}
	v.capacity = rec.Size
	v.recording = make([]byte, 0, rec.Size)
	return v, nil
}

func (s *session) SubmitEdge(e mesh.Edge) (mesh.EdgeHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseVertices && s.phase != phaseEdges {
		return 0, fmt.Errorf("submit edge while %s: %w", s.phase, ErrLifecycle)
	}
	s.phase = phaseEdges
	src, ok := s.byCoord[e.Source]
	if !ok {
		return 0, fmt.Errorf("edge source %v: %w", e.Source, ErrUnknownVertex)
	}
	dst, ok := s.byCoord[e.Destination]
	if !ok {
		return 0, fmt.Errorf("edge destination %v: %w", e.Destination, ErrUnknownVertex)
	}
	key := s.vertices[src].key
	if !key.Valid {
		return 0, fmt.Errorf("%s: %w", s.vertices[src].label, ErrNoKey)
	}
	s.routes[key.Value] = append(s.routes[key.Value], route{dest: dst, from: e.Compass.Opposite()})
	h := s.edges
	s.edges++
	return mesh.EdgeHandle(h), nil
}

func (s *session) Run(ctx context.Context, ticks int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseVertices && s.phase != phaseEdges {
		return fmt.Errorf("run while %s: %w", s.phase, ErrLifecycle)
	}
	if ticks < 0 {
		return fmt.Errorf("negative tick count %d", ticks)
	}
	next := make([]mesh.State, len(s.vertices))
	for t := 0; t < ticks; t++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("tick %d: %w", t, err)
		}
		for _, v := range s.vertices {
			if !v.key.Valid {
				continue
			}
			for _, r := range s.routes[v.key.Value] {
				dest := s.vertices[r.dest]
				dest.inbox = append(dest.inbox, Message{From: r.from, State: v.state})
			}
		}
		for i, v := range s.vertices {
			next[i] = s.m.rule(v.state, v.inbox)
			v.inbox = v.inbox[:0]
		}
		for i, v := range s.vertices {
			v.state = next[i]
			s.record(v)
		}
	}
	s.phase = phaseRan
	return nil
}

func (s *session) record(v *vertex) {
	if s.m.drop[v.label] {
		v.missing = true
		return
	}
	for _, w := range v.state.Encode() {
		if len(v.recording)+4 > v.capacity {
			v.missing = true
			return
		}
		v.recording = binary.LittleEndian.AppendUint32(v.recording, w)
	}
}

func (s *session) ReadRecorded(ctx context.Context, h mesh.VertexHandle) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phase != phaseRan {
		return nil, false, fmt.Errorf("read while %s: %w", s.phase, ErrLifecycle)
	}
	if int(h) >= len(s.vertices) {
		return nil, false, fmt.Errorf("handle %d: %w", h, ErrUnknownVertex)
	}
	v := s.vertices[h]
	if s.m.failRead[v.label] {
		return nil, false, fmt.Errorf("%s: %w", v.label, ErrReadFailed)
	}
	data := append([]byte(nil), v.recording...)
	return data, v.missing, nil
}

func (s *session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == phaseStopped {
		return fmt.Errorf("stop: %w", ErrLifecycle)
	}
	s.phase = phaseStopped
	return nil
}
