package savecodec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// StringEncoding records which wire form a string was read from, so that an
// unedited string is written back the same way.
type StringEncoding uint8

const (
	// EncodingAuto means no preference: Windows-1252 if the text fits,
	// UTF-16 otherwise. New strings and strings read as empty use it.
	EncodingAuto StringEncoding = iota
	EncodingWindows1252
	EncodingUTF16
)

func (e StringEncoding) String() string {
	switch e {
	case EncodingAuto:
		return "auto"
	case EncodingWindows1252:
		return "windows-1252"
	case EncodingUTF16:
		return "utf-16le"
	default:
		return "invalid"
	}
}

// String is a length-prefixed string whose prefix sign selects the text
// encoding: negative for UTF-16LE, positive for Windows-1252, zero for
// empty.
//
// Encoding rules:
//
//   - empty Text is always written as a zero length;
//   - a string read as UTF-16 stays UTF-16;
//   - anything else is written as Windows-1252 when every character has a
//     Windows-1252 byte, and as UTF-16 otherwise.
type String struct {
	Text     string
	Encoding StringEncoding
}

func NewString(text string) String {
	return String{Text: text}
}

func (s String) String() string { return s.Text }

// MapKey makes strings compare by text in an OrderedMap.
func (s String) MapKey() any { return s.Text }

var utf16LE encoding.Encoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// win1252Table maps every byte to a rune. The five bytes Windows-1252 leaves
// unassigned decode to the C1 controls of the same value, as in the WHATWG
// table; charmap alone would give U+FFFD for them.
var win1252Table = func() (t [256]rune) {
	for i := range t {
		t[i] = charmap.Windows1252.DecodeByte(byte(i))
	}
	for _, b := range []byte{0x81, 0x8D, 0x8F, 0x90, 0x9D} {
		t[b] = rune(b)
	}
	return
}()

func (s *String) DecodeSave(c *Cursor) error {
	start := c.Off()
	n, err := c.Int32()
	if err != nil {
		return err
	}
	switch {
	case n == 0:
		*s = String{}
		return nil
	case n < 0:
		units := -int64(n)
		if units*2 > int64(c.Remaining()) {
			c.off = start
			return c.Errorf(start, ErrUnexpectedEOF, "UTF-16 string of %d units, %d bytes remaining", units, c.Remaining())
		}
		raw, err := c.Read(int(units * 2))
		if err != nil {
			c.off = start
			return err
		}
		text, err := decodeUTF16(raw)
		if err != nil {
			return c.Errorf(start, ErrStringEncoding, "%s", err.Error())
		}
		*s = String{Text: text, Encoding: EncodingUTF16}
		return nil
	default:
		if int64(n) > int64(c.Remaining()) {
			c.off = start
			return c.Errorf(start, ErrUnexpectedEOF, "string of %d bytes, %d bytes remaining", n, c.Remaining())
		}
		raw, err := c.Read(int(n))
		if err != nil {
			c.off = start
			return err
		}
		*s = String{Text: decodeWindows1252(raw), Encoding: EncodingWindows1252}
		return nil
	}
}

func (s String) EncodeSave(w *Writer) {
	if s.Text == "" {
		w.AppendInt32(0)
		return
	}
	if s.Encoding != EncodingUTF16 {
		if raw, ok := encodeWindows1252(s.Text); ok {
			if len(raw) > math.MaxInt32 {
				panic("string too long")
			}
			w.AppendInt32(int32(len(raw)))
			w.AppendRaw(raw)
			return
		}
	}
	raw := encodeUTF16(s.Text)
	units := len(raw) / 2
	if units > math.MaxInt32 {
		panic("string too long")
	}
	w.AppendInt32(-int32(units))
	w.AppendRaw(raw)
}

// WireEncoding reports which encoding EncodeSave would use right now.
func (s String) WireEncoding() StringEncoding {
	if s.Text == "" {
		return EncodingAuto
	}
	if s.Encoding != EncodingUTF16 {
		if _, ok := encodeWindows1252(s.Text); ok {
			return EncodingWindows1252
		}
	}
	return EncodingUTF16
}

func (s *String) DrawRaw(ed Editor, ident string) {
	ed.EditString(ident, &s.Text)
}

func decodeWindows1252(raw []byte) string {
	out := make([]rune, len(raw))
	for i, b := range raw {
		out[i] = win1252Table[b]
	}
	return string(out)
}

func encodeWindows1252(text string) ([]byte, bool) {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		switch {
		case r < 0x80:
			out = append(out, byte(r))
		case r <= 0xFF && win1252Table[r] == r:
			out = append(out, byte(r))
		case r == utf8.RuneError:
			return nil, false
		default:
			b, ok := charmap.Windows1252.EncodeRune(r)
			if !ok {
				return nil, false
			}
			out = append(out, b)
		}
	}
	return out, true
}

// decodeUTF16 rejects unpaired surrogates, which the x/text decoder would
// silently replace with U+FFFD.
func decodeUTF16(raw []byte) (string, error) {
	n := len(raw) / 2
	for i := 0; i < n; i++ {
		u := binary.LittleEndian.Uint16(raw[2*i:])
		if !utf16.IsSurrogate(rune(u)) {
			continue
		}
		if u >= 0xDC00 || i+1 >= n {
			return "", &encodingError{"utf-16le", 2 * i, "unpaired surrogate"}
		}
		next := binary.LittleEndian.Uint16(raw[2*i+2:])
		if next < 0xDC00 || next > 0xDFFF {
			return "", &encodingError{"utf-16le", 2 * i, "unpaired surrogate"}
		}
		i++
	}
	out, err := utf16LE.NewDecoder().Bytes(raw)
	if err != nil {
		return "", &encodingError{"utf-16le", 0, err.Error()}
	}
	return string(out), nil
}

func encodeUTF16(text string) []byte {
	out, err := utf16LE.NewEncoder().Bytes([]byte(text))
	if err != nil {
		// The UTF-16 encoder replaces invalid UTF-8 instead of failing.
		panic(err)
	}
	return out
}

type encodingError struct {
	enc string
	off int
	msg string
}

func (e *encodingError) Error() string {
	return fmt.Sprintf("%s: %s at string byte %d", e.enc, e.msg, e.off)
}
