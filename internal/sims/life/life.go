package life

import (
	"image/color"
	"strconv"

	"mesh-ca/internal/core"
	"mesh-ca/internal/host"
	pcore "mesh-ca/pkg/core"
	"mesh-ca/pkg/mesh"
)

// Glider is the default starting pattern.
var Glider = []mesh.Coord{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 3}, {X: 2, Y: 4}}

// Config holds parameters for the life demo.
type Config struct {
	Width  int
	Height int
	Seed   int64
	// Density > 0 seeds cells at random instead of using Pattern.
	Density float64
	Pattern []mesh.Coord
	// PatternErr is set by FromMap when the pattern could not be parsed and
	// is reported by Build.
	PatternErr error
}

// DefaultConfig returns the 7x7 glider configuration.
func DefaultConfig() Config {
	return Config{
		Width:   7,
		Height:  7,
		Seed:    42,
		Pattern: append([]mesh.Coord(nil), Glider...),
	}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Density = parsed
		}
	}
	if v, ok := cfg["pattern"]; ok {
		c.Pattern, c.PatternErr = core.ParseCoords(v)
	}
	return c
}

// Life runs Conway's Game of Life as a neighbor-exchange mesh.
type Life struct {
	cfg Config
}

// New returns a Life demo for cfg.
func New(cfg Config) *Life { return &Life{cfg: cfg} }

// Name returns the demo identifier.
func (l *Life) Name() string { return "life" }

// Size returns the grid dimensions.
func (l *Life) Size() pcore.Size { return pcore.Size{W: l.cfg.Width, H: l.cfg.Height} }

// Connectivity wires all eight neighbors.
func (l *Life) Connectivity() mesh.Connectivity { return mesh.Moore }

// Build creates the grid with the configured starting cells alive.
func (l *Life) Build() (*mesh.Grid, error) {
	if l.cfg.PatternErr != nil {
		return nil, l.cfg.PatternErr
	}
	init := mesh.AliveSet(l.cfg.Pattern...)
	if l.cfg.Density > 0 {
		init = mesh.RandomAlive(pcore.NewRNG(l.cfg.Seed), l.cfg.Density)
	}
	return mesh.BuildGrid(l.cfg.Width, l.cfg.Height, init)
}

// Rule returns the B3/S23 update.
func (l *Life) Rule() host.Rule { return Step }

// Step applies B3/S23 to one cell given the states its neighbors sent.
func Step(self mesh.State, inbox []host.Message) mesh.State {
	neighbors := 0
	for _, m := range inbox {
		if m.State.Active() {
			neighbors++
		}
	}
	alive := self.Active()
	return mesh.Alive((alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3))
}

// Decoder reads one word per tick.
func (l *Life) Decoder() mesh.Decoder { return mesh.AliveCodec{} }

// Shade maps alive to 1 and dead to 0.
func (l *Life) Shade(s mesh.State) uint8 { return mesh.ActiveShade(s) }

var palette = []color.RGBA{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
	{R: 200, G: 40, B: 40, A: 255},
}

// Palette returns dead, alive and unavailable colors.
func (l *Life) Palette() []color.RGBA { return palette }

// Parameters lists the active configuration.
func (l *Life) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", l.cfg.Width),
				core.IntParam("h", "Height", l.cfg.Height),
				core.Int64Param("seed", "Seed", l.cfg.Seed),
			},
		},
		{
			Name: "Seeding",
			Params: []core.Parameter{
				core.FloatParam("density", "Random density", l.cfg.Density),
				core.StringParam("pattern", "Initial alive cells", core.FormatCoords(l.cfg.Pattern)),
			},
		},
	}}
}

func init() {
	core.Register("life", func(cfg map[string]string) core.Demo {
		return New(FromMap(cfg))
	})
}
