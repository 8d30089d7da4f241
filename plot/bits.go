package plot

import (
	"strconv"

	"github.com/andreyvit/savecodec"
)

type words = savecodec.List[savecodec.U32, *savecodec.U32]

// BitArray is a list of 32-bit words read as a list of booleans: bit i
// lives in word i/32 at position i%32 (least significant first).
type BitArray struct {
	Words words
}

func (b *BitArray) DecodeSave(c *savecodec.Cursor) error { return b.Words.DecodeSave(c) }
func (b *BitArray) EncodeSave(w *savecodec.Writer)       { b.Words.EncodeSave(w) }

// DrawRaw shows every bit as a boolean named by its index.
func (b *BitArray) DrawRaw(ed savecodec.Editor, ident string) {
	ed.List(ident, b.Len(), func(i int) {
		v := b.Get(i)
		ed.EditBool(strconv.Itoa(i), &v)
		if v != b.Get(i) {
			b.Set(i, v)
		}
	})
}

// Len is the number of addressable bits, always a multiple of 32.
func (b *BitArray) Len() int { return 32 * b.Words.Len() }

// Get returns bit i; bits past the end read as false.
func (b *BitArray) Get(i int) bool {
	w := i / 32
	if i < 0 || w >= b.Words.Len() {
		return false
	}
	return b.Words.Items[w]&(1<<(i%32)) != 0
}

// Set changes bit i, appending zero words as needed.
func (b *BitArray) Set(i int, v bool) {
	if i < 0 {
		panic("negative bit index")
	}
	w := i / 32
	for b.Words.Len() <= w {
		b.Words.Append(0)
	}
	mask := savecodec.U32(1) << (i % 32)
	if v {
		b.Words.Items[w] |= mask
	} else {
		b.Words.Items[w] &^= mask
	}
}

// Count returns the number of set bits.
func (b *BitArray) Count() int {
	var n int
	for _, w := range b.Words.Items {
		for ; w != 0; w &= w - 1 {
			n++
		}
	}
	return n
}
