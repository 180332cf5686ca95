package briansbrain

import (
	"image/color"
	"strconv"

	"mesh-ca/internal/core"
	"mesh-ca/internal/host"
	pcore "mesh-ca/pkg/core"
	"mesh-ca/pkg/mesh"
)

const (
	stateDead  mesh.Level = 0
	stateOn    mesh.Level = mesh.LevelFiring
	stateDying mesh.Level = 2
	levels                = 3
)

// Config holds parameters for Brian's Brain.
type Config struct {
	Width  int
	Height int
	Seed   int64
	// FireChance is the probability a cell starts firing.
	FireChance float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Width: 32, Height: 32, Seed: 7, FireChance: 0.125}
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
	if v, ok := cfg["fire_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.FireChance = parsed
		}
	}
	return c
}

// Brain implements Brian's Brain on a wired mesh.
type Brain struct {
	cfg Config
}

// New creates a Brain demo for cfg.
func New(cfg Config) *Brain { return &Brain{cfg: cfg} }

// Name identifies the demo.
func (b *Brain) Name() string { return "briansbrain" }

// Size returns the grid dimensions.
func (b *Brain) Size() pcore.Size { return pcore.Size{W: b.cfg.Width, H: b.cfg.Height} }

// Connectivity wires all eight neighbors.
func (b *Brain) Connectivity() mesh.Connectivity { return mesh.Moore }

// Build seeds cells into dead or firing states.
func (b *Brain) Build() (*mesh.Grid, error) {
	rng := pcore.NewRNG(b.cfg.Seed)
	return mesh.BuildGrid(b.cfg.Width, b.cfg.Height, mesh.InitFunc(func(mesh.Coord) mesh.State {
		if rng.Chance(b.cfg.FireChance) {
			return stateOn
		}
		return stateDead
	}))
}

// Rule returns the Brian's Brain update.
func (b *Brain) Rule() host.Rule { return Step }

// Step fires a dead cell with exactly two firing neighbors; firing cells
// start dying and dying cells die.
func Step(self mesh.State, inbox []host.Message) mesh.State {
	switch self.(mesh.Level) {
	case stateOn:
		return stateDying
	case stateDying:
		return stateDead
	}
	firing := 0
	for _, m := range inbox {
		if m.State.Active() {
			firing++
		}
	}
	if firing == 2 {
		return stateOn
	}
	return stateDead
}

// Decoder reads one level word per tick.
func (b *Brain) Decoder() mesh.Decoder { return mesh.LevelCodec{Levels: levels} }

// Shade uses the level as the palette index.
func (b *Brain) Shade(s mesh.State) uint8 { return uint8(s.(mesh.Level)) }

var palette = []color.RGBA{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
	{R: 40, G: 90, B: 200, A: 255},
	{R: 200, G: 40, B: 40, A: 255},
}

// Palette returns dead, firing, dying and unavailable colors.
func (b *Brain) Palette() []color.RGBA { return palette }

// Parameters lists the active configuration.
func (b *Brain) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "World",
		Params: []core.Parameter{
			core.IntParam("w", "Width", b.cfg.Width),
			core.IntParam("h", "Height", b.cfg.Height),
			core.Int64Param("seed", "Seed", b.cfg.Seed),
			core.FloatParam("fire_chance", "Initial firing chance", b.cfg.FireChance),
		},
	}}}
}

func init() {
	core.Register("briansbrain", func(cfg map[string]string) core.Demo {
		return New(FromMap(cfg))
	})
}
