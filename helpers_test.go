package savecodec_test

import (
	"errors"
	"testing"

	"github.com/andreyvit/savecodec"
)

// scriptedEditor walks the whole tree and overwrites leaves whose
// identifiers appear in its maps.
type scriptedEditor struct {
	ints    map[string]int64
	floats  map[string]float64
	bools   map[string]bool
	strs    map[string]string
	enums   map[string]int
	ranges  map[string][2]int64
	visited []string
}

var _ savecodec.Editor = (*scriptedEditor)(nil)

func (e *scriptedEditor) EditInt(ident string, v *int64, lo, hi int64) {
	e.visited = append(e.visited, ident)
	if e.ranges == nil {
		e.ranges = make(map[string][2]int64)
	}
	e.ranges[ident] = [2]int64{lo, hi}
	if x, ok := e.ints[ident]; ok {
		*v = x
	}
}

func (e *scriptedEditor) EditFloat(ident string, v *float64) {
	e.visited = append(e.visited, ident)
	if x, ok := e.floats[ident]; ok {
		*v = x
	}
}

func (e *scriptedEditor) EditBool(ident string, v *bool) {
	e.visited = append(e.visited, ident)
	if x, ok := e.bools[ident]; ok {
		*v = x
	}
}

func (e *scriptedEditor) EditString(ident string, v *string) {
	e.visited = append(e.visited, ident)
	if x, ok := e.strs[ident]; ok {
		*v = x
	}
}

func (e *scriptedEditor) EditEnum(ident string, current *int, items []string) bool {
	e.visited = append(e.visited, ident)
	if x, ok := e.enums[ident]; ok {
		*current = x
		return true
	}
	return false
}

func (e *scriptedEditor) Struct(ident string, fields func()) {
	fields()
}

func (e *scriptedEditor) List(ident string, n int, item func(i int)) {
	for i := range n {
		item(i)
	}
}

func (e *scriptedEditor) Map(ident string, n int, entry func(i int)) {
	for i := range n {
		entry(i)
	}
}

func dataErr(t testing.TB, err error, target error) *savecodec.DataError {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("err = %v, wanted %v", err, target)
	}
	var de *savecodec.DataError
	if !errors.As(err, &de) {
		t.Fatalf("err = %T, wanted *DataError", err)
	}
	return de
}
