package core

import (
	"fmt"
	"strconv"
	"strings"

	"mesh-ca/pkg/mesh"
)

// ParseCoords reads a pattern of the form "x:y,x:y,...". An empty string
// yields no coordinates.
func ParseCoords(s string) ([]mesh.Coord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []mesh.Coord
	for _, part := range strings.Split(s, ",") {
		xs, ys, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("coordinate %q: want x:y", part)
		}
		x, err := strconv.Atoi(xs)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", part, err)
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", part, err)
		}
		out = append(out, mesh.Coord{X: x, Y: y})
	}
	return out, nil
}

// FormatCoords is the inverse of ParseCoords.
func FormatCoords(coords []mesh.Coord) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = strconv.Itoa(c.X) + ":" + strconv.Itoa(c.Y)
	}
	return strings.Join(parts, ",")
}
