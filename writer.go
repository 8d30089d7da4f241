package savecodec

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer accumulates an encoded save. Encoding never fails: every value in
// the tree already has a valid wire form.
type Writer struct {
	Buf []byte
}

var _ io.Writer = (*Writer)(nil)

func NewWriter(buf []byte) *Writer {
	return &Writer{Buf: buf[:0]}
}

func ensureCapacity(buf []byte, minCap int) []byte {
	c := cap(buf)
	if minCap > c {
		if c < 16 {
			c = 16
		}
		for minCap > c {
			c <<= 1
		}
		old := buf
		buf = make([]byte, len(old), c)
		copy(buf, old)
	}
	return buf
}

func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	newLen := off + n
	buf = ensureCapacity(buf, newLen)
	return off, buf[:newLen]
}

func (w *Writer) Len() int      { return len(w.Buf) }
func (w *Writer) Bytes() []byte { return w.Buf }

func (w *Writer) Grow(n int) (off int) {
	off, w.Buf = grow(w.Buf, n)
	return
}

func (w *Writer) Write(b []byte) (int, error) {
	w.AppendRaw(b)
	return len(b), nil
}

func (w *Writer) AppendRaw(b []byte) {
	off := w.Grow(len(b))
	copy(w.Buf[off:], b)
}

func (w *Writer) AppendUint8(v uint8) {
	off := w.Grow(1)
	w.Buf[off] = v
}

func (w *Writer) AppendUint16(v uint16) {
	off := w.Grow(2)
	binary.LittleEndian.PutUint16(w.Buf[off:], v)
}

func (w *Writer) AppendUint32(v uint32) {
	off := w.Grow(4)
	binary.LittleEndian.PutUint32(w.Buf[off:], v)
}

func (w *Writer) AppendUint64(v uint64) {
	off := w.Grow(8)
	binary.LittleEndian.PutUint64(w.Buf[off:], v)
}

func (w *Writer) AppendInt32(v int32) {
	w.AppendUint32(uint32(v))
}

func (w *Writer) AppendFloat32(v float32) {
	w.AppendUint32(math.Float32bits(v))
}

func (w *Writer) AppendFloat64(v float64) {
	w.AppendUint64(math.Float64bits(v))
}

// AppendCount writes a 4-byte element count.
func (w *Writer) AppendCount(n int) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic("count out of range")
	}
	w.AppendUint32(uint32(n))
}
