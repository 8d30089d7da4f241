// Package plot implements plot tables: the game's store of story flags and
// counters, addressed by numeric id, plus a catalog of known ids.
package plot

import (
	"github.com/andreyvit/savecodec"
)

type (
	Integers = savecodec.List[savecodec.I32, *savecodec.I32]
	Floats   = savecodec.List[savecodec.F32, *savecodec.F32]
)

// Table holds boolean, integer and float plot variables, each addressed by
// its index in the corresponding list.
type Table struct {
	Booleans BitArray `save:"booleans"`
	Integers Integers `save:"integers"`
	Floats   Floats   `save:"floats"`
}

func (t *Table) DecodeSave(c *savecodec.Cursor) error   { return savecodec.DecodeStruct(c, t) }
func (t *Table) EncodeSave(w *savecodec.Writer)         { savecodec.EncodeStruct(w, t) }
func (t *Table) DrawRaw(ed savecodec.Editor, id string) { savecodec.DrawStruct(ed, id, t) }

func (t *Table) Bool(id int) bool { return t.Booleans.Get(id) }

func (t *Table) SetBool(id int, v bool) { t.Booleans.Set(id, v) }

// Int returns integer plot id and whether the table is long enough to have
// it.
func (t *Table) Int(id int) (int32, bool) {
	if id < 0 || id >= t.Integers.Len() {
		return 0, false
	}
	return int32(t.Integers.Items[id]), true
}

// SetInt stores integer plot id, growing the list with zeros.
func (t *Table) SetInt(id int, v int32) {
	for t.Integers.Len() <= id {
		t.Integers.Append(0)
	}
	t.Integers.Items[id] = savecodec.I32(v)
}

func (t *Table) Float(id int) (float32, bool) {
	if id < 0 || id >= t.Floats.Len() {
		return 0, false
	}
	return float32(t.Floats.Items[id]), true
}

func (t *Table) SetFloat(id int, v float32) {
	for t.Floats.Len() <= id {
		t.Floats.Append(0)
	}
	t.Floats.Items[id] = savecodec.F32(v)
}
