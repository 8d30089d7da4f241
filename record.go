package savecodec

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Records are plain structs whose exported fields are Values. They are
// encoded as their fields in declaration order with nothing in between.
// A record type implements Value by delegating to the helpers below:
//
//	func (h *Header) DecodeSave(c *savecodec.Cursor) error   { return savecodec.DecodeStruct(c, h) }
//	func (h *Header) EncodeSave(w *savecodec.Writer)         { savecodec.EncodeStruct(w, h) }
//	func (h *Header) DrawRaw(ed savecodec.Editor, id string) { savecodec.DrawStruct(ed, id, h) }
//
// The `save` struct tag renames a field for error paths and editors;
// `save:"-"` leaves it out of the encoding.

var recordPlans sync.Map

var valueType = reflect.TypeFor[Value]()

type recordPlan struct {
	typ    reflect.Type
	fields []recordField
}

type recordField struct {
	name  string
	index int
}

func recordPlanOf(typ reflect.Type) *recordPlan {
	if v, ok := recordPlans.Load(typ); ok {
		return v.(*recordPlan)
	}
	plan := buildRecordPlan(typ)
	actual, _ := recordPlans.LoadOrStore(typ, plan)
	return actual.(*recordPlan)
}

func buildRecordPlan(typ reflect.Type) *recordPlan {
	if typ.Kind() != reflect.Struct {
		panic(fmt.Errorf("%v is not a struct", typ))
	}
	plan := &recordPlan{typ: typ}
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("save"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if !reflect.PointerTo(f.Type).Implements(valueType) {
			panic(fmt.Errorf("%v.%s: %v does not implement savecodec.Value", typ, f.Name, f.Type))
		}
		plan.fields = append(plan.fields, recordField{name: name, index: i})
	}
	return plan
}

func structElem(ptr any) (reflect.Value, *recordPlan) {
	val := reflect.ValueOf(ptr)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		panic(fmt.Errorf("expected non-nil pointer to a struct, got %T", ptr))
	}
	val = val.Elem()
	return val, recordPlanOf(val.Type())
}

func (rf *recordField) value(structVal reflect.Value) Value {
	return structVal.Field(rf.index).Addr().Interface().(Value)
}

// DecodeStruct decodes the fields of the struct ptr points to, in order.
// Errors carry the failing field's name in their path.
func DecodeStruct(c *Cursor, ptr any) error {
	val, plan := structElem(ptr)
	for i := range plan.fields {
		rf := &plan.fields[i]
		err := rf.value(val).DecodeSave(c)
		if err != nil {
			return WithField(err, rf.name)
		}
	}
	return nil
}

func EncodeStruct(w *Writer, ptr any) {
	val, plan := structElem(ptr)
	for i := range plan.fields {
		plan.fields[i].value(val).EncodeSave(w)
	}
}

func DrawStruct(ed Editor, ident string, ptr any) {
	val, plan := structElem(ptr)
	ed.Struct(ident, func() {
		for i := range plan.fields {
			rf := &plan.fields[i]
			rf.value(val).DrawRaw(ed, rf.name)
		}
	})
}

// FieldNames lists the encoded fields of a record type, as used in paths.
func FieldNames(ptr any) []string {
	_, plan := structElem(ptr)
	names := make([]string, len(plan.fields))
	for i, rf := range plan.fields {
		names[i] = rf.name
	}
	return names
}
