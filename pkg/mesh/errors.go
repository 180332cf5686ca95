package mesh

import (
	"errors"
	"fmt"
)

// Configuration error kinds. A ConfigurationError unwraps to one of these.
var (
	ErrOutOfRange     = errors.New("coordinate out of range")
	ErrDegenerateGrid = errors.New("grid too small for toroidal wiring")
	ErrEdgeCount      = errors.New("wrong number of connections")
	ErrConnectivity   = errors.New("unsupported connectivity")
	ErrSelfEdge       = errors.New("cell connected to itself")
	ErrDuplicateEdge  = errors.New("duplicate connection")
	ErrDirection      = errors.New("connection direction mismatch")
	ErrStateEncoding  = errors.New("state does not match decoder")
)

// MinSide is the smallest width or height that wires without self or duplicate
// edges. Smaller grids are rejected.
const MinSide = 3

// ConfigurationError reports a grid or topology that cannot be realized. It is
// always raised before anything is handed to the runtime.
type ConfigurationError struct {
	Kind   error
	Label  string
	Coord  Coord
	HasPos bool
	Detail string
}

func (e *ConfigurationError) Error() string {
	if e.HasPos {
		if e.Label != "" {
			return fmt.Sprintf("configuration error at %s %v: %s", e.Label, e.Coord, e.Detail)
		}
		return fmt.Sprintf("configuration error at %v: %s", e.Coord, e.Detail)
	}
	return "configuration error: " + e.Detail
}

func (e *ConfigurationError) Unwrap() error { return e.Kind }

func configErr(kind error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func cellErr(kind error, c *Cell, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Kind:   kind,
		Label:  c.Label,
		Coord:  c.Coord,
		HasPos: true,
		Detail: fmt.Sprintf(format, args...),
	}
}

// ExternalError wraps a failure surfaced by the runtime collaborator. The
// underlying error is preserved for errors.Is/As.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *ExternalError) Unwrap() error { return e.Err }

// ExtractionError records a read-back failure for one cell.
type ExtractionError struct {
	Label string
	Coord Coord
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("read-back of %s %v failed: %v", e.Label, e.Coord, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// MissingDataWarning flags a cell whose recording buffer came back incomplete.
// It is non-fatal: the trace is kept, marked Missing, and never zero-filled.
type MissingDataWarning struct {
	Label  string
	Coord  Coord
	Frames int
}

func (w MissingDataWarning) String() string {
	return fmt.Sprintf("recording for %s %v is incomplete (%d frames recovered)", w.Label, w.Coord, w.Frames)
}
