package savecodec_test

import (
	"testing"

	"github.com/andreyvit/savecodec"
	"github.com/andreyvit/savecodec/internal/savetest"
)

func TestString_Decode(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		text     string
		encoding savecodec.StringEncoding
	}{
		{"empty", "#0", "", savecodec.EncodingAuto},
		{"utf16", "#-3 4100_4200_4300", "ABC", savecodec.EncodingUTF16},
		{"win1252", "#5 'hello", "hello", savecodec.EncodingWindows1252},
		{"win1252 high", "#3 80_E9_FF", "€éÿ", savecodec.EncodingWindows1252},
		{"utf16 surrogate pair", "#-2 3DD8_00DE", "😀", savecodec.EncodingUTF16},
		{"win1252 unassigned 81", "#2 41_81", "A\u0081", savecodec.EncodingWindows1252},
		{"win1252 unassigned 8D", "#1 8D", "\u008D", savecodec.EncodingWindows1252},
		{"win1252 unassigned 8F", "#1 8F", "\u008F", savecodec.EncodingWindows1252},
		{"win1252 unassigned 90", "#1 90", "\u0090", savecodec.EncodingWindows1252},
		{"win1252 unassigned 9D", "#3 9D_8D_80", "\u009D\u008D€", savecodec.EncodingWindows1252},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := savetest.Expand(tt.data)
			var s savecodec.String
			n, err := savecodec.DecodePrefix(data, &s)
			if err != nil {
				t.Fatal(err)
			}
			if n != len(data) {
				t.Errorf("consumed %d bytes, wanted %d", n, len(data))
			}
			if s.Text != tt.text {
				t.Errorf("Text = %q, wanted %q", s.Text, tt.text)
			}
			if s.Encoding != tt.encoding {
				t.Errorf("Encoding = %v, wanted %v", s.Encoding, tt.encoding)
			}
			savetest.BytesEq(t, savecodec.Encode(&s), data)
		})
	}
}

func TestString_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
	}{
		{"short win1252", "#5 'hel", savecodec.ErrUnexpectedEOF},
		{"short utf16", "#-3 4100", savecodec.ErrUnexpectedEOF},
		{"short prefix", "0500", savecodec.ErrUnexpectedEOF},
		{"huge negative", "00000080", savecodec.ErrUnexpectedEOF},
		{"lone high surrogate", "#-1 00D8", savecodec.ErrStringEncoding},
		{"lone low surrogate", "#-2 00DC_4100", savecodec.ErrStringEncoding},
		{"reversed pair", "#-2 00DE_3DD8", savecodec.ErrStringEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s savecodec.String
			n, err := savecodec.DecodePrefix(savetest.Expand(tt.data), &s)
			de := dataErr(t, err, tt.err)
			if de.Off != 0 {
				t.Errorf("Off = %d, wanted 0", de.Off)
			}
			if tt.err == savecodec.ErrUnexpectedEOF && n != 0 {
				t.Errorf("cursor at %d after failure, wanted 0", n)
			}
		})
	}
}

func TestString_EncodingPolicy(t *testing.T) {
	tests := []struct {
		name string
		s    savecodec.String
		data string
	}{
		{"empty", savecodec.NewString(""), "#0"},
		{"empty utf16", savecodec.String{Encoding: savecodec.EncodingUTF16}, "#0"},
		{"ascii", savecodec.NewString("Shepard"), "#7 'Shepard"},
		{"latin", savecodec.NewString("héllo"), "#5 68E96C6C6F"},
		{"euro", savecodec.NewString("€"), "#1 80"},
		{"cjk", savecodec.NewString("日本"), "w'日本"},
		{"keeps utf16", savecodec.String{Text: "ABC", Encoding: savecodec.EncodingUTF16}, "#-3 4100_4200_4300"},
		{"win1252 falls back", savecodec.String{Text: "Ж", Encoding: savecodec.EncodingWindows1252}, "#-1 1604"},
		{"unassigned c1 control", savecodec.NewString("\u0081\u009D"), "#2 81_9D"},
		{"mapped c1 control", savecodec.NewString("\u0080"), "#-1 8000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			savetest.BytesEq(t, savecodec.Encode(&tt.s), savetest.Expand(tt.data))
		})
	}
}

func TestString_WireEncoding(t *testing.T) {
	if e := savecodec.NewString("").WireEncoding(); e != savecodec.EncodingAuto {
		t.Errorf("empty: %v, wanted auto", e)
	}
	if e := savecodec.NewString("abc").WireEncoding(); e != savecodec.EncodingWindows1252 {
		t.Errorf("abc: %v, wanted windows-1252", e)
	}
	if e := savecodec.NewString("日").WireEncoding(); e != savecodec.EncodingUTF16 {
		t.Errorf("日: %v, wanted utf-16le", e)
	}
}

func TestString_EditKeepsEncodingPreference(t *testing.T) {
	s := savecodec.String{Text: "old", Encoding: savecodec.EncodingUTF16}
	s.DrawRaw(&scriptedEditor{strs: map[string]string{"name": "new"}}, "name")
	savetest.BytesEq(t, savecodec.Encode(&s), savetest.Expand("w'new"))
}
