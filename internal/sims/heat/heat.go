package heat

import (
	"image/color"
	"math"
	"strconv"

	"mesh-ca/internal/core"
	"mesh-ca/internal/host"
	pcore "mesh-ca/pkg/core"
	"mesh-ca/pkg/mesh"
)

// Config holds parameters for the heat diffusion demo.
type Config struct {
	Width  int
	Height int
	// Alpha is the diffusion coefficient; above 0.25 the explicit scheme
	// becomes unstable on a four-neighbor stencil.
	Alpha float64
	// Ambient is the starting temperature of ordinary cells.
	Ambient float64
	// Source is the temperature of the hot spots.
	Source float64
	// Hold pins hot spots at Source for the whole run.
	Hold bool
	// HotSpots defaults to the center cell when empty.
	HotSpots []mesh.Coord
	// HotSpotsErr is set by FromMap when the hot spots could not be parsed.
	HotSpotsErr error
}

// DefaultConfig returns a 16x16 plate with a held source in the middle.
func DefaultConfig() Config {
	return Config{
		Width:   16,
		Height:  16,
		Alpha:   0.2,
		Ambient: 0,
		Source:  100,
		Hold:    true,
	}
}

// FromMap populates the config from a string map.
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
	if v, ok := cfg["alpha"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed <= 0.25 {
			c.Alpha = parsed
		}
	}
	if v, ok := cfg["ambient"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Ambient = parsed
		}
	}
	if v, ok := cfg["source"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Source = parsed
		}
	}
	if v, ok := cfg["hold"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Hold = parsed
		}
	}
	if v, ok := cfg["hot"]; ok {
		c.HotSpots, c.HotSpotsErr = core.ParseCoords(v)
	}
	return c
}

// Plate diffuses heat across a four-neighbor torus. Each cell carries its
// temperature in U, the last change in V and a pinned flag in P.
type Plate struct {
	cfg Config
}

// New returns a heat demo for cfg.
func New(cfg Config) *Plate { return &Plate{cfg: cfg} }

// Name identifies the demo.
func (p *Plate) Name() string { return "heat" }

// Size returns the grid dimensions.
func (p *Plate) Size() pcore.Size { return pcore.Size{W: p.cfg.Width, H: p.cfg.Height} }

// Connectivity wires N, E, S and W only.
func (p *Plate) Connectivity() mesh.Connectivity { return mesh.VonNeumann }

// Build starts every cell at Ambient and the hot spots at Source.
func (p *Plate) Build() (*mesh.Grid, error) {
	if p.cfg.HotSpotsErr != nil {
		return nil, p.cfg.HotSpotsErr
	}
	pinned := 0.0
	if p.cfg.Hold {
		pinned = 1
	}
	hot := mesh.Field{U: p.cfg.Source, P: pinned}
	cold := mesh.Field{U: p.cfg.Ambient}
	return mesh.BuildGrid(p.cfg.Width, p.cfg.Height, mesh.ActiveSet(hot, cold, p.hotSpots()...))
}

func (p *Plate) hotSpots() []mesh.Coord {
	if len(p.cfg.HotSpots) > 0 {
		return p.cfg.HotSpots
	}
	return []mesh.Coord{{X: p.cfg.Width / 2, Y: p.cfg.Height / 2}}
}

// Rule returns the explicit finite-difference step for the configured alpha.
func (p *Plate) Rule() host.Rule { return Stepper(p.cfg.Alpha) }

// Stepper returns u' = u + alpha * (sum(neighbors) - n*u). Pinned cells keep
// their temperature.
func Stepper(alpha float64) host.Rule {
	return func(self mesh.State, inbox []host.Message) mesh.State {
		f := self.(mesh.Field)
		if f.P != 0 {
			return mesh.Field{U: f.U, P: f.P}
		}
		var sum float64
		for _, m := range inbox {
			sum += m.State.(mesh.Field).U
		}
		du := alpha * (sum - float64(len(inbox))*f.U)
		// Quantize to what the device stores so host and read-back agree.
		u := mesh.FromS1615(mesh.ToS1615(f.U + du))
		return mesh.Field{U: u, V: mesh.FromS1615(mesh.ToS1615(du))}
	}
}

// Decoder reads three S16.15 words per tick.
func (p *Plate) Decoder() mesh.Decoder { return mesh.FieldCodec{} }

const shades = 254

// Shade maps temperature onto the gradient relative to the source.
func (p *Plate) Shade(s mesh.State) uint8 {
	f := s.(mesh.Field)
	span := p.cfg.Source - p.cfg.Ambient
	if span == 0 {
		return 0
	}
	t := (f.U - p.cfg.Ambient) / span
	t = math.Max(0, math.Min(1, t))
	return uint8(math.Round(t * (shades - 1)))
}

var palette = buildPalette()

func buildPalette() []color.RGBA {
	pal := make([]color.RGBA, shades+1)
	for i := 0; i < shades; i++ {
		t := float64(i) / (shades - 1)
		pal[i] = color.RGBA{
			R: uint8(255 * t),
			G: uint8(255 * 4 * t * (1 - t)),
			B: uint8(255 * (1 - t)),
			A: 255,
		}
	}
	pal[shades] = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	return pal
}

// Palette returns a cold-to-hot gradient followed by the unavailable color.
func (p *Plate) Palette() []color.RGBA { return palette }

// Parameters lists the active configuration.
func (p *Plate) Parameters() core.ParameterSnapshot {
	hold := 0
	if p.cfg.Hold {
		hold = 1
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", p.cfg.Width),
				core.IntParam("h", "Height", p.cfg.Height),
			},
		},
		{
			Name: "Diffusion",
			Params: []core.Parameter{
				core.FloatParam("alpha", "Diffusion coefficient", p.cfg.Alpha),
				core.FloatParam("ambient", "Ambient temperature", p.cfg.Ambient),
				core.FloatParam("source", "Source temperature", p.cfg.Source),
				core.IntParam("hold", "Pin sources", hold),
				core.StringParam("hot", "Hot spots", core.FormatCoords(p.hotSpots())),
			},
		},
	}}
}

func init() {
	core.Register("heat", func(cfg map[string]string) core.Demo {
		return New(FromMap(cfg))
	})
}
