package savecodec

import (
	"fmt"
	"strconv"
	"strings"
)

const indentStep = "  "

// Dump renders a decoded tree as indented "name: value" lines.
func Dump(v Value) string {
	var d dumper
	v.DrawRaw(&d, "")
	return d.buf.String()
}

type dumper struct {
	buf    strings.Builder
	indent int
}

var _ Editor = (*dumper)(nil)

func (d *dumper) line(ident string, format string, args ...any) {
	d.buf.WriteString(strings.Repeat(indentStep, d.indent))
	if ident != "" {
		d.buf.WriteString(ident)
		if format != "" {
			d.buf.WriteString(": ")
		} else {
			d.buf.WriteString(":")
		}
	}
	fmt.Fprintf(&d.buf, format, args...)
	d.buf.WriteByte('\n')
}

func (d *dumper) nested(f func()) {
	d.indent++
	f()
	d.indent--
}

func (d *dumper) EditInt(ident string, v *int64, lo, hi int64) {
	d.line(ident, "%d", *v)
}

func (d *dumper) EditFloat(ident string, v *float64) {
	d.line(ident, "%s", strconv.FormatFloat(*v, 'g', -1, 64))
}

func (d *dumper) EditBool(ident string, v *bool) {
	d.line(ident, "%v", *v)
}

func (d *dumper) EditString(ident string, v *string) {
	d.line(ident, "%q", *v)
}

func (d *dumper) EditEnum(ident string, current *int, items []string) bool {
	if *current >= 0 && *current < len(items) {
		d.line(ident, "%s", items[*current])
	} else {
		d.line(ident, "?")
	}
	return false
}

func (d *dumper) Struct(ident string, fields func()) {
	if ident == "" && d.indent == 0 && d.buf.Len() == 0 {
		fields()
		return
	}
	d.line(ident, "")
	d.nested(fields)
}

func (d *dumper) List(ident string, n int, item func(i int)) {
	d.line(ident, "[%d]", n)
	d.nested(func() {
		for i := range n {
			item(i)
		}
	})
}

func (d *dumper) Map(ident string, n int, entry func(i int)) {
	d.line(ident, "{%d}", n)
	d.nested(func() {
		for i := range n {
			d.line("-", "")
			d.nested(func() { entry(i) })
		}
	})
}
