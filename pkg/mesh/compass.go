package mesh

import (
	"fmt"
	"strings"
)

// Direction names the relative position of a neighbor on the mesh.
type Direction uint8

// Canonical compass order. North is +y, east is +x.
const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
)

var directionNames = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

var directionOffsets = [...][2]int{
	N:  {0, 1},
	NE: {1, 1},
	E:  {1, 0},
	SE: {1, -1},
	S:  {0, -1},
	SW: {-1, -1},
	W:  {-1, 0},
	NW: {-1, 1},
}

// String returns the compass tag.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Valid reports whether d is one of the eight compass tags.
func (d Direction) Valid() bool { return int(d) < len(directionNames) }

// Opposite returns the direction pointing back at the sender.
func (d Direction) Opposite() Direction { return (d + 4) % 8 }

// Offset returns the unit step for the direction.
func (d Direction) Offset() (dx, dy int) {
	o := directionOffsets[d]
	return o[0], o[1]
}

// Connectivity selects which compass directions a cell is wired to.
type Connectivity uint8

const (
	// Moore wires all eight directions.
	Moore Connectivity = 8
	// VonNeumann wires only N, E, S and W.
	VonNeumann Connectivity = 4
)

var (
	mooreDirections      = []Direction{N, NE, E, SE, S, SW, W, NW}
	vonNeumannDirections = []Direction{N, E, S, W}
)

// Degree is the number of edges entering and leaving every cell.
func (c Connectivity) Degree() int { return int(c) }

// Directions lists the wired directions in canonical order. The returned slice
// must not be modified.
func (c Connectivity) Directions() []Direction {
	if c == VonNeumann {
		return vonNeumannDirections
	}
	return mooreDirections
}

// Valid reports whether c is a supported connectivity.
func (c Connectivity) Valid() bool { return c == Moore || c == VonNeumann }

func (c Connectivity) String() string {
	switch c {
	case Moore:
		return "moore"
	case VonNeumann:
		return "von-neumann"
	}
	return fmt.Sprintf("Connectivity(%d)", uint8(c))
}

// ParseConnectivity accepts "8", "moore", "4" or "von-neumann".
func ParseConnectivity(s string) (Connectivity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "8", "moore":
		return Moore, nil
	case "4", "von-neumann", "vonneumann":
		return VonNeumann, nil
	}
	return 0, fmt.Errorf("unknown connectivity %q", s)
}
