// Package scan provides windowed access into byte buffers and
// newline-delimited text records, shared by all parsers.
package scan

import (
	"encoding/binary"
	"math"
)

// Cursor reads little-endian values from a byte slice.
// Reads past the end clamp the offset and return zero values;
// callers validate buffer shape up front so clamping never fires
// on well-formed input.
type Cursor struct {
	data []byte
	off  int
}

// NewCursor returns a cursor positioned at off.
func NewCursor(data []byte, off int) *Cursor {
	if off > len(data) {
		off = len(data)
	}
	return &Cursor{data: data, off: off}
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.off
}

// Offset returns the current read position.
func (c *Cursor) Offset() int {
	return c.off
}

// Skip advances the cursor by n bytes, clamping at the end.
func (c *Cursor) Skip(n int) {
	c.off += n
	if c.off > len(c.data) {
		c.off = len(c.data)
	}
}

// U32 reads an unsigned 32-bit little-endian integer.
func (c *Cursor) U32() uint32 {
	if c.off+4 > len(c.data) {
		c.off = len(c.data)
		return 0
	}
	v := binary.LittleEndian.Uint32(c.data[c.off:])
	c.off += 4
	return v
}

// F32 reads a 32-bit little-endian float.
func (c *Cursor) F32() float32 {
	if c.off+4 > len(c.data) {
		c.off = len(c.data)
		return 0
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(c.data[c.off:]))
	c.off += 4
	return v
}
