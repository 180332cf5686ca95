package mesh

import "context"

// VertexHandle is the runtime's opaque reference to a submitted cell.
type VertexHandle uint64

// EdgeHandle is the runtime's opaque reference to a submitted edge.
type EdgeHandle uint64

// SetupConfig describes the run a session is prepared for.
type SetupConfig struct {
	Width, Height int
	Ticks         int
	Connectivity  Connectivity
}

// Runtime maps and runs a wired mesh. Each Setup returns an independent
// session; nothing is shared between sessions.
type Runtime interface {
	Setup(cfg SetupConfig) (Session, error)
}

// Session is one mapped run. Calls must follow the order: every
// SubmitVertex, then every SubmitEdge, then a single Run, then Stop.
// ReadRecorded is valid after Run and before Stop.
type Session interface {
	Reader
	SubmitVertex(c *Cell) (VertexHandle, error)
	SubmitEdge(e Edge) (EdgeHandle, error)
	Run(ctx context.Context, ticks int) error
	Stop() error
}

// Reader reads back recorded memory. It must be safe for concurrent use.
type Reader interface {
	// ReadRecorded returns the raw recording of a vertex. missing is true
	// when the buffer was interrupted and holds fewer ticks than requested.
	ReadRecorded(ctx context.Context, h VertexHandle) (data []byte, missing bool, err error)
}
