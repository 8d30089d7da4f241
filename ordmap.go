package savecodec

import (
	"iter"
	"slices"
	"strconv"
)

// MapKeyer lets a key type choose what identifies it in an OrderedMap.
// String uses its text, so the stored encoding does not make two keys
// distinct.
type MapKeyer interface {
	MapKey() any
}

// OrderedMap is a key/value map that keeps insertion order. On the wire it
// is a 4-byte unsigned count followed by key/value pairs.
//
// Setting an existing key replaces its value in place; the entry keeps its
// original position. Decoding follows the same rule, so a stream with a
// repeated key yields one entry, at the first position, holding the last
// value.
//
// The zero OrderedMap is empty and ready to use.
type OrderedMap[K comparable, V any, PK interface {
	*K
	Value
}, PV interface {
	*V
	Value
}] struct {
	keys   []K
	values []V
	index  map[any]int
}

func mapKey[K comparable](k K) any {
	if mk, ok := any(k).(MapKeyer); ok {
		return mk.MapKey()
	}
	return k
}

func (m *OrderedMap[K, V, PK, PV]) DecodeSave(c *Cursor) error {
	n, err := c.Count()
	if err != nil {
		return err
	}
	var result OrderedMap[K, V, PK, PV]
	result.keys = make([]K, 0, n)
	result.values = make([]V, 0, n)
	result.index = make(map[any]int, n)
	for i := range n {
		var k K
		var v V
		if err := PK(&k).DecodeSave(c); err != nil {
			return WithField(WithField(err, "key"), indexSegment(i))
		}
		if err := PV(&v).DecodeSave(c); err != nil {
			return WithField(WithField(err, "value"), indexSegment(i))
		}
		result.Set(k, v)
	}
	*m = result
	return nil
}

func (m OrderedMap[K, V, PK, PV]) EncodeSave(w *Writer) {
	w.AppendCount(len(m.keys))
	for i := range m.keys {
		PK(&m.keys[i]).EncodeSave(w)
		PV(&m.values[i]).EncodeSave(w)
	}
}

// DrawRaw exposes keys and values for editing. Keys may be edited too; if
// that makes two keys equal, they are merged by the same rule as decoding.
func (m *OrderedMap[K, V, PK, PV]) DrawRaw(ed Editor, ident string) {
	ed.Map(ident, len(m.keys), func(i int) {
		PK(&m.keys[i]).DrawRaw(ed, "key")
		PV(&m.values[i]).DrawRaw(ed, "value")
	})
	m.reindex()
}

func (m *OrderedMap[K, V, PK, PV]) Len() int { return len(m.keys) }

// Keys returns the keys in order.
func (m *OrderedMap[K, V, PK, PV]) Keys() []K { return slices.Clone(m.keys) }

func (m *OrderedMap[K, V, PK, PV]) Get(k K) (V, bool) {
	if i, ok := m.index[mapKey(k)]; ok {
		return m.values[i], true
	}
	var zero V
	return zero, false
}

// Ptr returns a pointer to the value stored under k, or nil.
func (m *OrderedMap[K, V, PK, PV]) Ptr(k K) *V {
	if i, ok := m.index[mapKey(k)]; ok {
		return &m.values[i]
	}
	return nil
}

// At returns the i-th entry in order.
func (m *OrderedMap[K, V, PK, PV]) At(i int) (K, V) {
	return m.keys[i], m.values[i]
}

func (m *OrderedMap[K, V, PK, PV]) Set(k K, v V) {
	mk := mapKey(k)
	if i, ok := m.index[mk]; ok {
		m.values[i] = v
		return
	}
	if m.index == nil {
		m.index = make(map[any]int)
	}
	m.index[mk] = len(m.keys)
	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
}

// EnsureKey returns the value under k, appending a zero value first if k
// is missing.
func (m *OrderedMap[K, V, PK, PV]) EnsureKey(k K) *V {
	if p := m.Ptr(k); p != nil {
		return p
	}
	var zero V
	m.Set(k, zero)
	return &m.values[len(m.values)-1]
}

// Delete removes k, shifting later entries down to keep the order.
func (m *OrderedMap[K, V, PK, PV]) Delete(k K) bool {
	i, ok := m.index[mapKey(k)]
	if !ok {
		return false
	}
	m.DeleteAt(i)
	return true
}

func (m *OrderedMap[K, V, PK, PV]) DeleteAt(i int) {
	delete(m.index, mapKey(m.keys[i]))
	m.keys = slices.Delete(m.keys, i, i+1)
	m.values = slices.Delete(m.values, i, i+1)
	for j := i; j < len(m.keys); j++ {
		m.index[mapKey(m.keys[j])] = j
	}
}

// All iterates over entries in order.
func (m *OrderedMap[K, V, PK, PV]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range m.keys {
			if !yield(m.keys[i], m.values[i]) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V, PK, PV]) reindex() {
	keys, values := m.keys, m.values
	m.keys, m.values, m.index = nil, nil, nil
	for i := range keys {
		m.Set(keys[i], values[i])
	}
}

func (m *OrderedMap[K, V, PK, PV]) String() string {
	return "OrderedMap(" + strconv.Itoa(len(m.keys)) + ")"
}
