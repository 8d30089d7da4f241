package savecodec

import (
	"math"
	"unsafe"
)

type (
	I8   int8
	U8   uint8
	I16  int16
	U16  uint16
	I32  int32
	U32  uint32
	I64  int64
	U64  uint64
	F32  float32
	F64  float64
	Bool bool
)

type integer interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64
}

func (v *I8) DecodeSave(c *Cursor) error {
	x, err := c.Uint8()
	if err != nil {
		return err
	}
	*v = I8(x)
	return nil
}
func (v I8) EncodeSave(w *Writer)             { w.AppendUint8(uint8(v)) }
func (v *I8) DrawRaw(ed Editor, ident string) { drawInt(ed, ident, v) }

func (v *U8) DecodeSave(c *Cursor) error {
	x, err := c.Uint8()
	if err != nil {
		return err
	}
	*v = U8(x)
	return nil
}
func (v U8) EncodeSave(w *Writer)             { w.AppendUint8(uint8(v)) }
func (v *U8) DrawRaw(ed Editor, ident string) { drawInt(ed, ident, v) }

func (v *I16) DecodeSave(c *Cursor) error {
	x, err := c.Uint16()
	if err != nil {
		return err
	}
	*v = I16(x)
	return nil
}
func (v I16) EncodeSave(w *Writer)             { w.AppendUint16(uint16(v)) }
func (v *I16) DrawRaw(ed Editor, ident string) { drawInt(ed, ident, v) }

func (v *U16) DecodeSave(c *Cursor) error {
	x, err := c.Uint16()
	if err != nil {
		return err
	}
	*v = U16(x)
	return nil
}
func (v U16) EncodeSave(w *Writer)             { w.AppendUint16(uint16(v)) }
func (v *U16) DrawRaw(ed Editor, ident string) { drawInt(ed, ident, v) }

func (v *I32) DecodeSave(c *Cursor) error {
	x, err := c.Uint32()
	if err != nil {
		return err
	}
	*v = I32(x)
	return nil
}
func (v I32) EncodeSave(w *Writer)             { w.AppendUint32(uint32(v)) }
func (v *I32) DrawRaw(ed Editor, ident string) { drawInt(ed, ident, v) }

func (v *U32) DecodeSave(c *Cursor) error {
	x, err := c.Uint32()
	if err != nil {
		return err
	}
	*v = U32(x)
	return nil
}
func (v U32) EncodeSave(w *Writer)             { w.AppendUint32(uint32(v)) }
func (v *U32) DrawRaw(ed Editor, ident string) { drawInt(ed, ident, v) }

func (v *I64) DecodeSave(c *Cursor) error {
	x, err := c.Uint64()
	if err != nil {
		return err
	}
	*v = I64(x)
	return nil
}
func (v I64) EncodeSave(w *Writer)             { w.AppendUint64(uint64(v)) }
func (v *I64) DrawRaw(ed Editor, ident string) { drawInt(ed, ident, v) }

func (v *U64) DecodeSave(c *Cursor) error {
	x, err := c.Uint64()
	if err != nil {
		return err
	}
	*v = U64(x)
	return nil
}
func (v U64) EncodeSave(w *Writer)             { w.AppendUint64(uint64(v)) }
func (v *U64) DrawRaw(ed Editor, ident string) { drawInt(ed, ident, v) }

func (v *F32) DecodeSave(c *Cursor) error {
	x, err := c.Float32()
	if err != nil {
		return err
	}
	*v = F32(x)
	return nil
}
func (v F32) EncodeSave(w *Writer) { w.AppendFloat32(float32(v)) }

func (v *F32) DrawRaw(ed Editor, ident string) {
	x := float64(*v)
	orig := x
	ed.EditFloat(ident, &x)
	if x != orig {
		*v = F32(clampFloat32(x))
	}
}

func (v *F64) DecodeSave(c *Cursor) error {
	x, err := c.Float64()
	if err != nil {
		return err
	}
	*v = F64(x)
	return nil
}
func (v F64) EncodeSave(w *Writer) { w.AppendFloat64(float64(v)) }

func (v *F64) DrawRaw(ed Editor, ident string) {
	x := float64(*v)
	ed.EditFloat(ident, &x)
	*v = F64(x)
}

// Bool is stored as a 4-byte integer. Any non-zero value reads as true;
// true is always written as 1.
func (v *Bool) DecodeSave(c *Cursor) error {
	x, err := c.Uint32()
	if err != nil {
		return err
	}
	*v = x != 0
	return nil
}

func (v Bool) EncodeSave(w *Writer) {
	if v {
		w.AppendUint32(1)
	} else {
		w.AppendUint32(0)
	}
}

func (v *Bool) DrawRaw(ed Editor, ident string) {
	b := bool(*v)
	ed.EditBool(ident, &b)
	*v = Bool(b)
}

// drawInt only writes back when the editor changed the value, so that
// a U64 above MaxInt64 survives a no-op edit.
func drawInt[T integer](ed Editor, ident string, v *T) {
	lo, hi := intRange[T]()
	x := int64(*v)
	orig := x
	ed.EditInt(ident, &x, lo, hi)
	if x != orig {
		*v = T(min(max(x, lo), hi))
	}
}

func intRange[T integer]() (lo, hi int64) {
	var zero T
	bits := unsafe.Sizeof(zero) * 8
	if ^zero < 0 {
		return -1 << (bits - 1), 1<<(bits-1) - 1
	}
	if bits >= 64 {
		return 0, math.MaxInt64
	}
	return 0, 1<<bits - 1
}

func clampFloat32(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return min(max(x, -math.MaxFloat32), math.MaxFloat32)
}
