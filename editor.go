package savecodec

// Editor is the boundary to whatever front end displays and edits a
// decoded save. Values call back into it from DrawRaw, passing pointers to
// their own storage; the editor reads and writes through them.
//
// Identifiers are chosen by the caller of DrawRaw (a field name, a list
// index) and are only meaningful to the editor.
type Editor interface {
	// EditInt edits an integer constrained to [lo, hi]. The value written
	// back must stay within range.
	EditInt(ident string, v *int64, lo, hi int64)
	EditFloat(ident string, v *float64)
	EditBool(ident string, v *bool)
	EditString(ident string, v *string)

	// EditEnum edits an index into items and reports whether it changed.
	EditEnum(ident string, current *int, items []string) bool

	// Struct groups fields; fields draws them in order.
	Struct(ident string, fields func())

	// List shows n items; item draws the i-th one.
	List(ident string, n int, item func(i int))

	// Map shows n entries; entry draws the i-th key and value.
	Map(ident string, n int, entry func(i int))
}

// NopEditor ignores everything.
type NopEditor struct{}

func (NopEditor) EditInt(string, *int64, int64, int64) {}
func (NopEditor) EditFloat(string, *float64)           {}
func (NopEditor) EditBool(string, *bool)               {}
func (NopEditor) EditString(string, *string)           {}
func (NopEditor) EditEnum(string, *int, []string) bool { return false }
func (NopEditor) Struct(string, func())                {}
func (NopEditor) List(string, int, func(int))          {}
func (NopEditor) Map(string, int, func(int))           {}

var _ Editor = NopEditor{}
