// Package dataspec records data specifications in memory and serializes them
// in a compact binary image.
package dataspec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	"mesh-ca/pkg/mesh"
)

var (
	ErrNoFocus       = errors.New("no region in focus")
	ErrRegionExists  = errors.New("region already reserved")
	ErrUnknownRegion = errors.New("region not reserved")
	ErrRegionFull    = errors.New("write past end of region")
	ErrEnded         = errors.New("specification already ended")
	ErrNotEnded      = errors.New("specification not ended")
)

const (
	imageMagic   = 0x44534731 // "DSG1"
	imageVersion = 1
	wordBytes    = 4
)

// Region is one reserved block of a specification.
type Region struct {
	ID   mesh.RegionID
	Size int
	data []byte
}

// Words returns the little-endian words written so far.
func (r *Region) Words() []uint32 {
	out := make([]uint32, len(r.data)/wordBytes)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(r.data[i*wordBytes:])
	}
	return out
}

// Written returns the number of bytes written to the region.
func (r *Region) Written() int { return len(r.data) }

// Writer is a sequential, in-memory mesh.SpecWriter.
type Writer struct {
	regions map[mesh.RegionID]*Region
	focus   *Region
	ended   bool
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{regions: make(map[mesh.RegionID]*Region)}
}

// ReserveRegion allocates a region of sizeBytes.
func (w *Writer) ReserveRegion(id mesh.RegionID, sizeBytes int) error {
	if w.ended {
		return ErrEnded
	}
	if sizeBytes < 0 {
		return fmt.Errorf("region %s: negative size %d", id, sizeBytes)
	}
	if _, ok := w.regions[id]; ok {
		return fmt.Errorf("region %s: %w", id, ErrRegionExists)
	}
	w.regions[id] = &Region{ID: id, Size: sizeBytes, data: make([]byte, 0, sizeBytes)}
	return nil
}

// SwitchFocus directs subsequent writes at region id.
func (w *Writer) SwitchFocus(id mesh.RegionID) error {
	if w.ended {
		return ErrEnded
	}
	r, ok := w.regions[id]
	if !ok {
		return fmt.Errorf("region %s: %w", id, ErrUnknownRegion)
	}
	w.focus = r
	return nil
}

// WriteValue appends one little-endian word to the focused region.
func (w *Writer) WriteValue(v uint32) error {
	if w.ended {
		return ErrEnded
	}
	if w.focus == nil {
		return ErrNoFocus
	}
	if len(w.focus.data)+wordBytes > w.focus.Size {
		return fmt.Errorf("region %s (%d bytes): %w", w.focus.ID, w.focus.Size, ErrRegionFull)
	}
	w.focus.data = binary.LittleEndian.AppendUint32(w.focus.data, v)
	return nil
}

// End closes the specification. Further calls fail with ErrEnded.
func (w *Writer) End() error {
	if w.ended {
		return ErrEnded
	}
	w.ended = true
	w.focus = nil
	return nil
}

// Image returns the finished specification.
func (w *Writer) Image() (*Image, error) {
	if !w.ended {
		return nil, ErrNotEnded
	}
	img := &Image{regions: make([]*Region, 0, len(w.regions))}
	for _, r := range w.regions {
		img.regions = append(img.regions, r)
	}
	sort.Slice(img.regions, func(i, j int) bool { return img.regions[i].ID < img.regions[j].ID })
	return img, nil
}

// Image is an ended specification, regions sorted by id.
type Image struct {
	regions []*Region
}

// Region returns the region with id.
func (img *Image) Region(id mesh.RegionID) (*Region, bool) {
	for _, r := range img.regions {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Regions returns every region in id order.
func (img *Image) Regions() []*Region { return img.regions }

// SizeBytes sums the reserved sizes of every region.
func (img *Image) SizeBytes() int {
	total := 0
	for _, r := range img.regions {
		total += r.Size
	}
	return total
}

// MarshalBinary writes a header followed by each region's id, reserved size,
// written length and data.
func (img *Image) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	header := []any{uint32(imageMagic), uint16(imageVersion), uint16(len(img.regions))}
	for _, v := range header {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	for _, r := range img.regions {
		fields := []any{uint8(r.ID), uint32(r.Size), uint32(len(r.data))}
		for _, v := range fields {
			if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
				return nil, err
			}
		}
		buf.Write(r.data)
	}
	return buf.Bytes(), nil
}

// UnmarshalImage parses the output of MarshalBinary.
func UnmarshalImage(data []byte) (*Image, error) {
	rd := bytes.NewReader(data)
	var magic uint32
	if err := binary.Read(rd, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != imageMagic {
		return nil, fmt.Errorf("invalid magic number: %x", magic)
	}
	var version, count uint16
	if err := binary.Read(rd, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != imageVersion {
		return nil, fmt.Errorf("unsupported version: %d", version)
	}
	if err := binary.Read(rd, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	img := &Image{regions: make([]*Region, 0, count)}
	for i := 0; i < int(count); i++ {
		var id uint8
		var size, written uint32
		if err := binary.Read(rd, binary.LittleEndian, &id); err != nil {
			return nil, err
		}
		if err := binary.Read(rd, binary.LittleEndian, &size); err != nil {
			return nil, err
		}
		if err := binary.Read(rd, binary.LittleEndian, &written); err != nil {
			return nil, err
		}
		if written > size {
			return nil, fmt.Errorf("region %d: %d bytes written into %d reserved", id, written, size)
		}
		if int64(written) > int64(rd.Len()) {
			return nil, fmt.Errorf("region %d: %d bytes written, %d left in image: %w", id, written, rd.Len(), io.ErrUnexpectedEOF)
		}
		// Only written bytes are held; the reserved size is a header value.
		r := &Region{ID: mesh.RegionID(id), Size: int(size), data: make([]byte, written)}
		if _, err := io.ReadFull(rd, r.data); err != nil {
			return nil, fmt.Errorf("region %d: %w", id, err)
		}
		img.regions = append(img.regions, r)
	}
	return img, nil
}
