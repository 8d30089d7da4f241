package savecodec_test

import (
	"slices"
	"testing"

	"github.com/andreyvit/savecodec"
	"github.com/andreyvit/savecodec/internal/savetest"
)

type notes = savecodec.OrderedMap[savecodec.I32, savecodec.String, *savecodec.I32, *savecodec.String]

func TestOrderedMap_DuplicateKeysLastWins(t *testing.T) {
	var m notes
	err := savecodec.Decode(savetest.Expand("#3 #1 s'A #2 s'B #1 s'C"), &m)
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, wanted 2", m.Len())
	}
	if v, ok := m.Get(1); !ok || v.Text != "C" {
		t.Fatalf("Get(1) = %q, %v, wanted C", v.Text, ok)
	}
	if v, ok := m.Get(2); !ok || v.Text != "B" {
		t.Fatalf("Get(2) = %q, %v, wanted B", v.Text, ok)
	}
	if keys := m.Keys(); !slices.Equal(keys, []savecodec.I32{1, 2}) {
		t.Fatalf("Keys = %v, wanted [1 2]", keys)
	}
	savetest.BytesEq(t, savecodec.Encode(&m), savetest.Expand("#2 #1 s'C #2 s'B"))
}

func TestOrderedMap_RoundTrip(t *testing.T) {
	m := savetest.RoundTrip(t, &notes{}, savetest.Expand("#3 #5 s'five #-1 w'minus #0 #0"))
	k, v := m.At(1)
	if k != -1 || v.Text != "minus" || v.Encoding != savecodec.EncodingUTF16 {
		t.Fatalf("At(1) = %d, %+v", k, v)
	}
	savetest.RoundTrip(t, &notes{}, savetest.Expand("#0"))
}

func TestOrderedMap_DecodeErrorPath(t *testing.T) {
	var m notes
	err := savecodec.Decode(savetest.Expand("#2 #1 s'A #2 #9"), &m)
	de := dataErr(t, err, savecodec.ErrUnexpectedEOF)
	if de.Path != "[1].value" {
		t.Fatalf("Path = %q, wanted [1].value", de.Path)
	}
	if m.Len() != 0 {
		t.Fatalf("Len = %d after failure, wanted 0", m.Len())
	}
}

func TestOrderedMap_StringKeysCompareByText(t *testing.T) {
	var m savecodec.OrderedMap[savecodec.String, savecodec.I32, *savecodec.String, *savecodec.I32]
	m.Set(savecodec.String{Text: "a", Encoding: savecodec.EncodingUTF16}, 1)
	m.Set(savecodec.String{Text: "a", Encoding: savecodec.EncodingWindows1252}, 2)
	m.Set(savecodec.NewString("b"), 3)
	if m.Len() != 2 {
		t.Fatalf("Len = %d, wanted 2", m.Len())
	}
	if v, _ := m.Get(savecodec.NewString("a")); v != 2 {
		t.Fatalf("Get(a) = %d, wanted 2", v)
	}
	k, _ := m.At(0)
	if k.Encoding != savecodec.EncodingUTF16 {
		t.Fatalf("first key encoding = %v, wanted the original utf-16le", k.Encoding)
	}
}

func TestOrderedMap_Editing(t *testing.T) {
	var m notes
	m.Set(1, savecodec.NewString("one"))
	m.Set(2, savecodec.NewString("two"))
	m.Set(3, savecodec.NewString("three"))
	m.EnsureKey(4).Text = "four"
	m.EnsureKey(2).Text = "TWO"

	if !m.Delete(1) {
		t.Fatalf("Delete(1) = false")
	}
	if m.Delete(1) {
		t.Fatalf("second Delete(1) = true")
	}
	if keys := m.Keys(); !slices.Equal(keys, []savecodec.I32{2, 3, 4}) {
		t.Fatalf("Keys = %v, wanted [2 3 4]", keys)
	}
	if v, _ := m.Get(4); v.Text != "four" {
		t.Fatalf("Get(4) = %q, wanted four", v.Text)
	}

	var got []string
	for _, v := range m.All() {
		got = append(got, v.Text)
	}
	if !slices.Equal(got, []string{"TWO", "three", "four"}) {
		t.Fatalf("All = %v", got)
	}
	if m.Ptr(9) != nil {
		t.Fatalf("Ptr(9) != nil")
	}
}

func TestOrderedMap_EditedKeysMerge(t *testing.T) {
	var m notes
	m.Set(1, savecodec.NewString("A"))
	m.Set(2, savecodec.NewString("B"))
	m.DrawRaw(&scriptedEditor{ints: map[string]int64{"key": 1}}, "notes")
	if m.Len() != 1 {
		t.Fatalf("Len = %d, wanted 1", m.Len())
	}
	if v, _ := m.Get(1); v.Text != "B" {
		t.Fatalf("Get(1) = %q, wanted B", v.Text)
	}
}
