package mesh

import (
	"fmt"
	"math"
)

// State is the per-cell simulation payload.
type State interface {
	// Active reports whether the cell counts towards neighbor summaries.
	Active() bool
	// Encode returns the state as fixed-width words for the device.
	Encode() []uint32
}

// Decoder turns recorded words back into states.
type Decoder interface {
	WordsPerState() int
	Decode(words []uint32) (State, error)
}

// Alive is the binary state of life-like demos.
type Alive bool

func (a Alive) Active() bool { return bool(a) }

func (a Alive) Encode() []uint32 {
	if a {
		return []uint32{1}
	}
	return []uint32{0}
}

// Level is a small multi-state value. Level 1 is the firing state.
type Level uint8

// LevelFiring is the level treated as active.
const LevelFiring Level = 1

func (l Level) Active() bool { return l == LevelFiring }

func (l Level) Encode() []uint32 { return []uint32{uint32(l)} }

// Field holds the fields of a PDE cell.
type Field struct {
	U, V, P float64
}

func (f Field) Active() bool { return f.U != 0 || f.V != 0 || f.P != 0 }

func (f Field) Encode() []uint32 {
	return []uint32{uint32(ToS1615(f.U)), uint32(ToS1615(f.V)), uint32(ToS1615(f.P))}
}

const s1615One = 1 << 15

// ToS1615 converts v to signed 16.15 fixed point, saturating at the range ends.
func ToS1615(v float64) int32 {
	scaled := math.Round(v * s1615One)
	switch {
	case math.IsNaN(scaled):
		return 0
	case scaled >= math.MaxInt32:
		return math.MaxInt32
	case scaled <= math.MinInt32:
		return math.MinInt32
	}
	return int32(scaled)
}

// FromS1615 converts a signed 16.15 fixed point value to float64.
func FromS1615(v int32) float64 { return float64(v) / s1615One }

// AliveCodec decodes one word per state; any non-zero word is alive.
type AliveCodec struct{}

func (AliveCodec) WordsPerState() int { return 1 }

func (AliveCodec) Decode(words []uint32) (State, error) {
	if len(words) != 1 {
		return nil, fmt.Errorf("alive state needs 1 word, got %d", len(words))
	}
	return Alive(words[0] != 0), nil
}

// LevelCodec decodes one word per state and rejects levels >= Levels.
type LevelCodec struct {
	Levels int
}

func (LevelCodec) WordsPerState() int { return 1 }

func (c LevelCodec) Decode(words []uint32) (State, error) {
	if len(words) != 1 {
		return nil, fmt.Errorf("level state needs 1 word, got %d", len(words))
	}
	if c.Levels > 0 && int(words[0]) >= c.Levels {
		return nil, fmt.Errorf("level %d out of range [0,%d)", words[0], c.Levels)
	}
	return Level(words[0]), nil
}

// FieldCodec decodes three S16.15 words per state.
type FieldCodec struct{}

func (FieldCodec) WordsPerState() int { return 3 }

func (FieldCodec) Decode(words []uint32) (State, error) {
	if len(words) != 3 {
		return nil, fmt.Errorf("field state needs 3 words, got %d", len(words))
	}
	return Field{
		U: FromS1615(int32(words[0])),
		V: FromS1615(int32(words[1])),
		P: FromS1615(int32(words[2])),
	}, nil
}
