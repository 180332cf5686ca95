package core

import (
	"image/color"
	"sort"

	"mesh-ca/internal/host"
	pcore "mesh-ca/pkg/core"
	"mesh-ca/pkg/mesh"
)

// Demo defines the contract every mesh demo must implement.
type Demo interface {
	Name() string
	Size() pcore.Size
	Connectivity() mesh.Connectivity
	// Build returns a freshly built, unwired grid in its initial state.
	Build() (*mesh.Grid, error)
	Rule() host.Rule
	Decoder() mesh.Decoder
	// Shade maps a state to a palette index for rendering.
	Shade(s mesh.State) uint8
	Palette() []color.RGBA
	Parameters() ParameterSnapshot
}

// Factory constructs a Demo using an optional configuration map.
type Factory func(cfg map[string]string) Demo

var demos = map[string]Factory{}

// Register adds a demo factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	demos[name] = f
}

// Demos exposes the registry of available demo factories.
func Demos() map[string]Factory {
	return demos
}

// Names returns the registered demo names in sorted order.
func Names() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unavailable is the palette index used for cells without a recorded state.
const Unavailable = 255
