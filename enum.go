package savecodec

import (
	"fmt"
	"strconv"
)

// EnumType8 and EnumType32 describe a closed set of named integer values.
// Valid reports whether the value is one of the variants.
//
// If the type also has a Variants() []E method, editors get exactly that
// list; otherwise 8-bit enums are enumerated by trying all 256 values and
// 32-bit enums are edited as plain integers.
type (
	EnumType8 interface {
		~uint8
		Valid() bool
	}
	EnumType32 interface {
		~uint32
		Valid() bool
	}
)

// Enum8 is an enum stored as a single byte.
type Enum8[E EnumType8] struct {
	Value E
}

// Enum32 is an enum stored as a 4-byte unsigned integer.
type Enum32[E EnumType32] struct {
	Value E
}

func (e *Enum8[E]) DecodeSave(c *Cursor) error {
	start := c.Off()
	x, err := c.Uint8()
	if err != nil {
		return err
	}
	v := E(x)
	if !v.Valid() {
		c.off = start
		return c.Errorf(start, ErrInvalidEnum, "%d is not a valid %T", x, v)
	}
	e.Value = v
	return nil
}

func (e Enum8[E]) EncodeSave(w *Writer) {
	w.AppendUint8(uint8(e.Value))
}

func (e *Enum8[E]) DrawRaw(ed Editor, ident string) {
	drawEnum(ed, ident, &e.Value, enumVariants8[E])
}

func (e Enum8[E]) String() string { return enumLabel(e.Value) }

func (e *Enum32[E]) DecodeSave(c *Cursor) error {
	start := c.Off()
	x, err := c.Uint32()
	if err != nil {
		return err
	}
	v := E(x)
	if !v.Valid() {
		c.off = start
		return c.Errorf(start, ErrInvalidEnum, "%d is not a valid %T", x, v)
	}
	e.Value = v
	return nil
}

func (e Enum32[E]) EncodeSave(w *Writer) {
	w.AppendUint32(uint32(e.Value))
}

func (e *Enum32[E]) DrawRaw(ed Editor, ident string) {
	if _, ok := any(e.Value).(interface{ Variants() []E }); ok {
		drawEnum(ed, ident, &e.Value, enumVariants32[E])
		return
	}
	x := int64(e.Value)
	orig := x
	ed.EditInt(ident, &x, 0, 1<<32-1)
	if v := E(x); x != orig && v.Valid() {
		e.Value = v
	}
}

func (e Enum32[E]) String() string { return enumLabel(e.Value) }

func enumVariants8[E EnumType8]() []E {
	var zero E
	if vs, ok := any(zero).(interface{ Variants() []E }); ok {
		return vs.Variants()
	}
	var result []E
	for i := 0; i < 256; i++ {
		if v := E(i); v.Valid() {
			result = append(result, v)
		}
	}
	return result
}

func enumVariants32[E EnumType32]() []E {
	var zero E
	return any(zero).(interface{ Variants() []E }).Variants()
}

func drawEnum[E comparable](ed Editor, ident string, v *E, variants func() []E) {
	vs := variants()
	items := make([]string, len(vs))
	current := -1
	for i, x := range vs {
		items[i] = enumLabel(x)
		if x == *v {
			current = i
		}
	}
	if ed.EditEnum(ident, &current, items) && current >= 0 && current < len(vs) {
		*v = vs[current]
	}
}

func enumLabel(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	switch v := v.(type) {
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	default:
		return fmt.Sprint(v)
	}
}
