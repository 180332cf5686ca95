package mesh

import "fmt"

// SpecWriter is the sequential data-specification writer the runtime hands
// to each cell before loading it.
type SpecWriter interface {
	ReserveRegion(id RegionID, sizeBytes int) error
	SwitchFocus(id RegionID) error
	WriteValue(v uint32) error
	End() error
}

// RegionID identifies a memory region of a cell's data specification.
type RegionID uint8

const (
	// RegionTransmission holds a has-key flag followed by the key or 0.
	RegionTransmission RegionID = iota
	// RegionState holds the encoded initial state.
	RegionState
	// RegionNeighbors holds neighbor count, active count, inactive count.
	RegionNeighbors
	// RegionRecording is reserved for the per-tick recording buffer.
	RegionRecording
)

func (r RegionID) String() string {
	switch r {
	case RegionTransmission:
		return "transmission"
	case RegionState:
		return "state"
	case RegionNeighbors:
		return "neighbors"
	case RegionRecording:
		return "recording"
	}
	return fmt.Sprintf("region(%d)", uint8(r))
}

const (
	wordBytes         = 4
	transmissionWords = 2
	neighborWords     = 3
	// dtcmOverhead approximates the local memory used by a cell's
	// executable and its inbound buffers.
	dtcmOverhead = 1024
)

// Key is an outgoing multicast routing key.
type Key struct {
	Value uint32
	Valid bool
}

// Resources is the memory a cell needs on its core.
type Resources struct {
	SDRAMBytes int
	DTCMBytes  int
}

// ResourceEstimator reports what a vertex needs for a run of ticks.
type ResourceEstimator interface {
	Resources(ticks int) Resources
}

// SpecGenerator writes a vertex's data specification.
type SpecGenerator interface {
	GenerateDataSpecification(w SpecWriter, key Key, ticks int) error
}

func (c *Cell) stateWords() int {
	if c.State == nil {
		return 0
	}
	return len(c.State.Encode())
}

// RecordingBytes is the size of the recording region for ticks.
func (c *Cell) RecordingBytes(ticks int) int {
	if ticks < 0 {
		ticks = 0
	}
	return ticks * c.stateWords() * wordBytes
}

// Resources sums the sizes of every region the cell reserves.
func (c *Cell) Resources(ticks int) Resources {
	sdram := (transmissionWords + c.stateWords() + neighborWords) * wordBytes
	sdram += c.RecordingBytes(ticks)
	return Resources{
		SDRAMBytes: sdram,
		DTCMBytes:  dtcmOverhead + c.Degree()*c.stateWords()*wordBytes,
	}
}

// GenerateDataSpecification writes the transmission, state and neighbor
// sections and reserves the recording buffer.
func (c *Cell) GenerateDataSpecification(w SpecWriter, key Key, ticks int) error {
	if c.State == nil {
		return fmt.Errorf("%s has no state", c)
	}
	words := c.State.Encode()
	regions := []struct {
		id    RegionID
		bytes int
	}{
		{RegionTransmission, transmissionWords * wordBytes},
		{RegionState, len(words) * wordBytes},
		{RegionNeighbors, neighborWords * wordBytes},
		{RegionRecording, c.RecordingBytes(ticks)},
	}
	for _, r := range regions {
		if err := w.ReserveRegion(r.id, r.bytes); err != nil {
			return fmt.Errorf("%s: reserve %s: %w", c, r.id, err)
		}
	}

	flag, value := uint32(0), uint32(0)
	if key.Valid {
		flag, value = 1, key.Value
	}
	active, inactive := c.NeighborSummary()
	sections := []struct {
		id     RegionID
		values []uint32
	}{
		{RegionTransmission, []uint32{flag, value}},
		{RegionState, words},
		{RegionNeighbors, []uint32{uint32(c.Degree()), uint32(active), uint32(inactive)}},
	}
	for _, s := range sections {
		if err := w.SwitchFocus(s.id); err != nil {
			return fmt.Errorf("%s: focus %s: %w", c, s.id, err)
		}
		for _, v := range s.values {
			if err := w.WriteValue(v); err != nil {
				return fmt.Errorf("%s: write %s: %w", c, s.id, err)
			}
		}
	}
	return w.End()
}
