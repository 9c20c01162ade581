package vdf

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/savelocker/steamufs/pkg/errors"
)

// Cursor reads little-endian primitives from a byte buffer. Fixed-width
// reads fail with a FormatError when fewer bytes remain than the field
// needs; String never fails and instead stops at the end of the buffer.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// Seek moves the cursor to the given byte offset.
func (c *Cursor) Seek(pos int) {
	c.pos = pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// EOF reports whether the cursor has consumed the whole buffer.
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.data)
}

func (c *Cursor) need(n int, what string) error {
	if c.Remaining() < n {
		return errors.FormatError{
			Offset: c.pos,
			Reason: fmt.Sprintf("truncated %s: need %d bytes, have %d", what, n, c.Remaining()),
		}
	}
	return nil
}

// Uint8 reads one byte.
func (c *Cursor) Uint8() (byte, error) {
	if err := c.need(1, "uint8"); err != nil {
		return 0, err
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// Uint16 reads a little-endian uint16.
func (c *Cursor) Uint16() (uint16, error) {
	if err := c.need(2, "uint16"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

// Uint32 reads a little-endian uint32.
func (c *Cursor) Uint32() (uint32, error) {
	if err := c.need(4, "uint32"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

// Uint64 reads a little-endian uint64.
func (c *Cursor) Uint64() (uint64, error) {
	if err := c.need(8, "uint64"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.data[c.pos:])
	c.pos += 8
	return v, nil
}

// Int32 reads a little-endian int32.
func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

// Int64 reads a little-endian int64.
func (c *Cursor) Int64() (int64, error) {
	v, err := c.Uint64()
	return int64(v), err
}

// Bytes reads exactly n bytes. The returned slice aliases the underlying
// buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n, "byte field"); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip advances past n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n, "skipped field"); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// String reads a null-terminated string, stopping at a zero byte or the end
// of the buffer. Non-UTF8 contents degrade to the empty string rather than
// failing.
func (c *Cursor) String() string {
	start := c.pos
	for c.pos < len(c.data) && c.data[c.pos] != 0 {
		c.pos++
	}
	raw := c.data[start:c.pos]
	if c.pos < len(c.data) {
		c.pos++ // consume the terminator
	}
	if !utf8.Valid(raw) {
		return ""
	}
	return string(raw)
}
