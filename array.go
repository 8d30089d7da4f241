package savecodec

import (
	"fmt"
	"strconv"
)

// ArrayLen supplies the static length of an Array. Implement it on an
// empty struct:
//
//	type len20 struct{}
//
//	func (len20) ArrayLen() int { return 20 }
type ArrayLen interface {
	ArrayLen() int
}

type (
	Len4  struct{}
	Len8  struct{}
	Len16 struct{}
	Len32 struct{}
)

func (Len4) ArrayLen() int  { return 4 }
func (Len8) ArrayLen() int  { return 8 }
func (Len16) ArrayLen() int { return 16 }
func (Len32) ArrayLen() int { return 32 }

// Array is a fixed-size sequence with no length prefix. Every element is
// decoded through its own Value, so a byte array reads its bytes one at a
// time like any other element type.
type Array[L ArrayLen, T any, PT interface {
	*T
	Value
}] struct {
	Items []T
}

// Bytes is a fixed-size byte array, e.g. Bytes[Len16] for a GUID.
type Bytes[L ArrayLen] = Array[L, U8, *U8]

func arrayLen[L ArrayLen]() int {
	var l L
	return l.ArrayLen()
}

func (a *Array[L, T, PT]) DecodeSave(c *Cursor) error {
	items := make([]T, arrayLen[L]())
	for i := range items {
		err := PT(&items[i]).DecodeSave(c)
		if err != nil {
			return WithField(err, indexSegment(i))
		}
	}
	a.Items = items
	return nil
}

// EncodeSave writes exactly the static length; missing trailing elements
// (e.g. in a zero Array) are written as zero values.
func (a Array[L, T, PT]) EncodeSave(w *Writer) {
	n := arrayLen[L]()
	if len(a.Items) > n {
		panic(fmt.Errorf("array holds %d items, its length is %d", len(a.Items), n))
	}
	for i := range a.Items {
		PT(&a.Items[i]).EncodeSave(w)
	}
	var zero T
	for range n - len(a.Items) {
		PT(&zero).EncodeSave(w)
	}
}

func (a *Array[L, T, PT]) DrawRaw(ed Editor, ident string) {
	a.fill()
	ed.List(ident, len(a.Items), func(i int) {
		PT(&a.Items[i]).DrawRaw(ed, strconv.Itoa(i))
	})
}

func (a Array[L, T, PT]) Len() int { return arrayLen[L]() }

// At returns a pointer to the i-th element.
func (a *Array[L, T, PT]) At(i int) *T {
	a.fill()
	return &a.Items[i]
}

func (a *Array[L, T, PT]) fill() {
	if n := arrayLen[L](); len(a.Items) < n {
		items := make([]T, n)
		copy(items, a.Items)
		a.Items = items
	}
}
