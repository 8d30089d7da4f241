package savecodec

import (
	"slices"
	"strconv"
)

// List is a dynamic sequence: a 4-byte unsigned count followed by that many
// elements. Declare it with the element type and its pointer type, e.g.
// List[I32, *I32] or List[Item, *Item].
type List[T any, PT interface {
	*T
	Value
}] struct {
	Items []T
}

func ListOf[T any, PT interface {
	*T
	Value
}](items ...T) List[T, PT] {
	return List[T, PT]{Items: items}
}

func (l *List[T, PT]) DecodeSave(c *Cursor) error {
	n, err := c.Count()
	if err != nil {
		return err
	}
	items := make([]T, n)
	for i := range items {
		err := PT(&items[i]).DecodeSave(c)
		if err != nil {
			return WithField(err, indexSegment(i))
		}
	}
	l.Items = items
	return nil
}

func (l List[T, PT]) EncodeSave(w *Writer) {
	w.AppendCount(len(l.Items))
	for i := range l.Items {
		PT(&l.Items[i]).EncodeSave(w)
	}
}

func (l *List[T, PT]) DrawRaw(ed Editor, ident string) {
	ed.List(ident, len(l.Items), func(i int) {
		PT(&l.Items[i]).DrawRaw(ed, strconv.Itoa(i))
	})
}

func (l List[T, PT]) Len() int { return len(l.Items) }

// At returns a pointer to the i-th element for in-place editing.
func (l *List[T, PT]) At(i int) *T { return &l.Items[i] }

func (l *List[T, PT]) Append(items ...T) {
	l.Items = append(l.Items, items...)
}

// AppendZero adds a zero element and returns a pointer to it.
func (l *List[T, PT]) AppendZero() *T {
	var zero T
	l.Items = append(l.Items, zero)
	return &l.Items[len(l.Items)-1]
}

func (l *List[T, PT]) Remove(i int) {
	l.Items = slices.Delete(l.Items, i, i+1)
}
