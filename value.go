package savecodec

import "slices"

// Value is implemented by everything that can appear in a save: scalars,
// strings, enums, containers and records. Containers only ever talk to
// their elements through this interface.
//
// DecodeSave and DrawRaw are called on a pointer to the value being
// filled in or edited.
type Value interface {
	DecodeSave(c *Cursor) error
	EncodeSave(w *Writer)

	// DrawRaw exposes the value to an editor under the given identifier.
	// Edits happen in place.
	DrawRaw(ed Editor, ident string)
}

// Decode decodes the whole of buf into v. Bytes left over after v are an
// error (ErrTrailingData), since encoding v could not reproduce them.
func Decode(buf []byte, v Value) error {
	c := NewCursor(buf)
	err := v.DecodeSave(c)
	if err != nil {
		return err
	}
	if rem := c.Remaining(); rem != 0 {
		return c.Errorf(c.Off(), ErrTrailingData, "%d bytes not consumed", rem)
	}
	return nil
}

// DecodePrefix decodes v from the start of buf and returns the number of
// bytes consumed.
func DecodePrefix(buf []byte, v Value) (int, error) {
	c := NewCursor(buf)
	err := v.DecodeSave(c)
	return c.Off(), err
}

// Encode returns a freshly allocated encoding of v.
func Encode(v Value) []byte {
	w := acquireWriter()
	defer releaseWriter(w)
	v.EncodeSave(w)
	return slices.Clone(w.Buf)
}

// AppendEncoded appends the encoding of v to buf.
func AppendEncoded(buf []byte, v Value) []byte {
	w := Writer{Buf: buf}
	v.EncodeSave(&w)
	return w.Buf
}
