// Package savetest builds and compares save buffers in tests.
package savetest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/andreyvit/savecodec"
)

// Expand turns a compact description into bytes. Elements are separated by
// whitespace:
//
//	0a0b_0c     hex bytes, '_' separates bytes
//	#N          N as a little-endian 4-byte integer (may be negative)
//	#N:W        N in W bytes (W is 1, 2, 4 or 8)
//	'text       raw ASCII bytes
//	s'text      length-prefixed single-byte string
//	w'text      length-prefixed UTF-16LE string (negative length)
//	X*N         element X repeated N times
//	X..Y        X, zero padding to 4 bytes, then Y
//	X...Y       same with 8 bytes
//	X/comment   everything after '/' is ignored
func Expand(specs ...string) []byte {
	var b []byte
	for _, spec := range specs {
		for _, elem := range strings.Fields(spec) {
			base, _, _ := strings.Cut(elem, "/")
			if base == "" {
				continue
			}

			base, repStr, _ := strings.Cut(base, "*")
			rep := 1
			if repStr != "" {
				var err error
				rep, err = strconv.Atoi(repStr)
				if err != nil {
					panic(fmt.Sprintf("invalid repeat count %q in element %q", repStr, elem))
				}
			}

			var right string
			var padTo8, padTo4 bool
			if !isText(base) {
				base, right, padTo8 = strings.Cut(base, "...")
				if !padTo8 {
					base, right, padTo4 = strings.Cut(base, "..")
				}
			}

			baseBytes, err := appendElement(nil, base)
			if err != nil {
				panic(fmt.Errorf("%w in element %q", err, elem))
			}
			rightBytes, err := appendElement(nil, right)
			if err != nil {
				panic(fmt.Errorf("%w in element %q", err, elem))
			}

			for range rep {
				b = append(b, baseBytes...)
				n := len(baseBytes) + len(rightBytes)
				if padTo8 && n < 8 {
					b = append(b, make([]byte, 8-n)...)
				} else if padTo4 && n < 4 {
					b = append(b, make([]byte, 4-n)...)
				}
				b = append(b, rightBytes...)
			}
		}
	}
	return b
}

func isText(s string) bool {
	return strings.HasPrefix(s, "'") || strings.HasPrefix(s, "s'") || strings.HasPrefix(s, "w'")
}

func appendElement(data []byte, elem string) ([]byte, error) {
	if num, ok := strings.CutPrefix(elem, "#"); ok {
		num, widthStr, _ := strings.Cut(num, ":")
		width := 4
		if widthStr != "" {
			var err error
			width, err = strconv.Atoi(widthStr)
			if err != nil {
				return nil, err
			}
		}
		v, err := parseInt(num)
		if err != nil {
			return nil, err
		}
		switch width {
		case 1:
			return append(data, byte(v)), nil
		case 2:
			return binary.LittleEndian.AppendUint16(data, uint16(v)), nil
		case 4:
			return binary.LittleEndian.AppendUint32(data, uint32(v)), nil
		case 8:
			return binary.LittleEndian.AppendUint64(data, v), nil
		default:
			return nil, fmt.Errorf("invalid width %d", width)
		}
	} else if text, ok := strings.CutPrefix(elem, "s'"); ok {
		data = binary.LittleEndian.AppendUint32(data, uint32(len(text)))
		return append(data, text...), nil
	} else if text, ok := strings.CutPrefix(elem, "w'"); ok {
		units := utf16.Encode([]rune(text))
		data = binary.LittleEndian.AppendUint32(data, uint32(-int32(len(units))))
		for _, u := range units {
			data = binary.LittleEndian.AppendUint16(data, u)
		}
		return data, nil
	} else if text, ok := strings.CutPrefix(elem, "'"); ok {
		return append(data, text...), nil
	}
	return appendHexDecoding(data, elem)
}

func parseInt(s string) (uint64, error) {
	if strings.HasPrefix(s, "-") {
		v, err := strconv.ParseInt(s, 10, 64)
		return uint64(v), err
	}
	return strconv.ParseUint(s, 0, 64)
}

func appendHexDecoding(data []byte, hex string) ([]byte, error) {
	const none byte = 0xFF

	prev := none
	for _, b := range []byte(hex) {
		var half byte
		switch b {
		case '_':
			if prev != none {
				data = append(data, prev)
				prev = none
			}
			continue
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			half = b - '0'
		case 'a', 'b', 'c', 'd', 'e', 'f':
			half = b - 'a' + 10
		case 'A', 'B', 'C', 'D', 'E', 'F':
			half = b - 'A' + 10
		default:
			return nil, fmt.Errorf("invalid char '%c'", b)
		}
		if prev == none {
			prev = half
		} else {
			data = append(data, prev<<4|half)
			prev = none
		}
	}
	if prev != none {
		data = append(data, prev)
	}
	return data, nil
}

// BytesEq reports a hex dump of both buffers and the first differing offset
// if a != e.
func BytesEq(t testing.TB, a, e []byte) bool {
	if bytes.Equal(a, e) {
		return true
	}
	off := savecodec.FirstDiff(a, e)
	t.Helper()
	t.Errorf("** got:\n%v\nwanted:\n%v\nfirst difference offset: 0x%x (%d)", savecodec.HexDump(a, off), savecodec.HexDump(e, off), off, off)
	return false
}

// RoundTrip decodes data into v, checks that encoding v gives data back and
// returns v.
func RoundTrip[V savecodec.Value](t testing.TB, v V, data []byte) V {
	t.Helper()
	if err := savecodec.Decode(data, v); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	BytesEq(t, savecodec.Encode(v), data)
	return v
}

// Logger returns a debug-level logger writing into the test log.
func Logger(t testing.TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(&logWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type logWriter struct{ t testing.TB }

func (c *logWriter) Write(buf []byte) (int, error) {
	msg := string(buf)
	origLen := len(msg)
	msg = strings.TrimSuffix(msg, "\n")
	c.t.Log(msg)
	return origLen, nil
}
