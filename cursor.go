package savecodec

import (
	"encoding/binary"
	"math"
)

// Cursor reads a save buffer front to back. A failed read leaves the
// position where it was.
type Cursor struct {
	buf []byte
	off int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Off() int       { return c.off }
func (c *Cursor) Len() int       { return len(c.buf) }
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Read returns the next n bytes and advances past them. The returned slice
// aliases the buffer; copy it if you keep it.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, c.Errorf(c.off, nil, "negative read size %d", n)
	}
	if rem := c.Remaining(); rem < n {
		return nil, c.Errorf(c.off, ErrUnexpectedEOF, "%d bytes wanted, %d remaining", n, rem)
	}
	v := c.buf[c.off : c.off+n]
	c.off += n
	return v, nil
}

func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) Uint16() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) Uint64() (uint64, error) {
	b, err := c.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

func (c *Cursor) Float32() (float32, error) {
	v, err := c.Uint32()
	return math.Float32frombits(v), err
}

func (c *Cursor) Float64() (float64, error) {
	v, err := c.Uint64()
	return math.Float64frombits(v), err
}

// Count reads a 4-byte unsigned element count and checks it against the
// remaining data, assuming every element takes at least one byte. This
// rejects absurd counts before anything gets allocated for them.
func (c *Cursor) Count() (int, error) {
	start := c.off
	n, err := c.Uint32()
	if err != nil {
		return 0, err
	}
	if uint64(n) > uint64(c.Remaining()) {
		c.off = start
		return 0, c.Errorf(start, ErrUnexpectedEOF, "count %d exceeds %d remaining bytes", n, c.Remaining())
	}
	return int(n), nil
}

// Peek returns the next n bytes without advancing.
func (c *Cursor) Peek(n int) ([]byte, error) {
	b, err := c.Read(n)
	if err == nil {
		c.off -= n
	}
	return b, err
}

// Errorf returns a *DataError pointing at off within the buffer, for
// values that validate what they decode.
func (c *Cursor) Errorf(off int, err error, format string, args ...any) error {
	return dataErrf(c.buf, off, err, format, args...)
}
