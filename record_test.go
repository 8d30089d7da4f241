package savecodec_test

import (
	"slices"
	"testing"

	"github.com/andreyvit/savecodec"
	"github.com/andreyvit/savecodec/internal/savetest"
)

type header struct {
	Magic   savecodec.U32
	Name    savecodec.String `save:"name"`
	Flags   savecodec.Bool
	Scratch savecodec.I32 `save:"-"`
	note    string
}

func (h *header) DecodeSave(c *savecodec.Cursor) error   { return savecodec.DecodeStruct(c, h) }
func (h *header) EncodeSave(w *savecodec.Writer)         { savecodec.EncodeStruct(w, h) }
func (h *header) DrawRaw(ed savecodec.Editor, id string) { savecodec.DrawStruct(ed, id, h) }

type miniSave struct {
	Header header `save:"header"`
	Plots  ints   `save:"plots"`
	Level  savecodec.Enum8[difficulty]
}

func (s *miniSave) DecodeSave(c *savecodec.Cursor) error   { return savecodec.DecodeStruct(c, s) }
func (s *miniSave) EncodeSave(w *savecodec.Writer)         { savecodec.EncodeStruct(w, s) }
func (s *miniSave) DrawRaw(ed savecodec.Editor, id string) { savecodec.DrawStruct(ed, id, s) }

const miniSaveData = "#42 s'ab #1 /header #2 #7 #9 /plots 01 /level"

func TestRecord_RoundTrip(t *testing.T) {
	s := savetest.RoundTrip(t, &miniSave{}, savetest.Expand(miniSaveData))
	if s.Header.Magic != 42 || s.Header.Name.Text != "ab" || !s.Header.Flags {
		t.Fatalf("Header = %+v", s.Header)
	}
	if !slices.Equal(s.Plots.Items, []savecodec.I32{7, 9}) {
		t.Fatalf("Plots = %v", s.Plots.Items)
	}
	if s.Level.Value != normal {
		t.Fatalf("Level = %v, wanted Normal", s.Level.Value)
	}
	if names := savecodec.FieldNames(&s.Header); !slices.Equal(names, []string{"Magic", "name", "Flags"}) {
		t.Fatalf("FieldNames = %v", names)
	}
}

func TestRecord_ErrorPaths(t *testing.T) {
	tests := []struct {
		data string
		path string
		err  error
	}{
		{"#42 #5 'ab", "header.name", savecodec.ErrUnexpectedEOF},
		{"#42 s'ab #1 #2 #7", "plots[1]", savecodec.ErrUnexpectedEOF},
		{"#42 s'ab #1 #0 09", "Level", savecodec.ErrInvalidEnum},
		{"#42 #-1 00D8", "header.name", savecodec.ErrStringEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var s miniSave
			err := savecodec.Decode(savetest.Expand(tt.data), &s)
			de := dataErr(t, err, tt.err)
			if de.Path != tt.path {
				t.Fatalf("Path = %q, wanted %q", de.Path, tt.path)
			}
		})
	}
}

func TestRecord_Edit(t *testing.T) {
	s := savetest.RoundTrip(t, &miniSave{}, savetest.Expand(miniSaveData))
	ed := &scriptedEditor{
		ints:  map[string]int64{"Magic": 43, "1": 10},
		strs:  map[string]string{"name": "Jane"},
		enums: map[string]int{"Level": 2},
	}
	s.DrawRaw(ed, "")
	savetest.BytesEq(t, savecodec.Encode(s), savetest.Expand("#43 s'Jane #1 #2 #7 #10 02"))
	if want := []string{"Magic", "name", "Flags", "0", "1", "Level"}; !slices.Equal(ed.visited, want) {
		t.Fatalf("visited = %v, wanted %v", ed.visited, want)
	}
}

func TestRecord_NonValueFieldPanics(t *testing.T) {
	type bad struct {
		N int
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("DecodeStruct did not panic")
		}
	}()
	_ = savecodec.DecodeStruct(savecodec.NewCursor(nil), &bad{})
}

func TestDump(t *testing.T) {
	s := savetest.RoundTrip(t, &miniSave{}, savetest.Expand(miniSaveData))
	got := savecodec.Dump(s)
	want := `header:
  Magic: 42
  name: "ab"
  Flags: true
plots: [2]
  0: 7
  1: 9
Level: Normal
`
	if got != want {
		t.Fatalf("Dump = \n%s\nwanted:\n%s", got, want)
	}

	var m notes
	m.Set(3, savecodec.NewString("x"))
	got = savecodec.Dump(&m)
	want = `{1}
  -:
    key: 3
    value: "x"
`
	if got != want {
		t.Fatalf("Dump = \n%s\nwanted:\n%s", got, want)
	}
}
