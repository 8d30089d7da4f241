package savecodec

import (
	"fmt"
	"strings"
)

// HexDump formats b as 8-byte rows of hex and printable ASCII. The byte at
// highlightOff (if non-negative) is marked with '>'.
func HexDump(b []byte, highlightOff int) string {
	var buf strings.Builder
	var off int
	n := len(b)
	for {
		fmt.Fprintf(&buf, "%08x", off)
		if off >= n {
			buf.WriteByte('\n')
			break
		}
		buf.WriteByte(' ')
		for i := range 8 {
			if off+i >= n {
				buf.WriteString("   ")
				continue
			}
			if highlightOff >= 0 && off+i == highlightOff {
				buf.WriteByte('>')
			} else {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%02x", b[off+i])
		}
		buf.WriteString("  |")
		for i := range 8 {
			if off+i < n {
				v := b[off+i]
				if v >= 32 && v <= 126 {
					buf.WriteByte(v)
				} else {
					buf.WriteByte('.')
				}
			}
		}
		off += 8
		buf.WriteString("|\n")
		if off >= n {
			break
		}
	}
	return buf.String()
}

// HexDumpAround dumps up to radius rows before and after the row holding
// off, for showing a spot in a large save.
func HexDumpAround(b []byte, off, radius int) string {
	start := max(0, (off/8-radius)*8)
	end := min(len(b), (off/8+radius+1)*8)
	if start > end {
		start = end
	}
	var buf strings.Builder
	for _, line := range strings.SplitAfter(HexDump(b[start:end], off-start), "\n") {
		if len(line) < 8 {
			buf.WriteString(line)
			continue
		}
		var rel int
		fmt.Sscanf(line[:8], "%x", &rel)
		fmt.Fprintf(&buf, "%08x%s", start+rel, line[8:])
	}
	return buf.String()
}

// FirstDiff returns the offset of the first byte where a and b differ, or
// -1 if they are equal. If one is a prefix of the other, it returns the
// shorter length.
func FirstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}
