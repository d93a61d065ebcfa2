// Package render draws chart widgets as standalone SVG documents.
//
// Every draw starts from an empty document: a rebuild replaces the previous drawing
// wholesale and nothing is patched in place.
package render

import (
	"bytes"
	"html"
	"math"
	"strconv"
)

// Attr is a single SVG attribute. Order is preserved so output is deterministic.
type Attr struct {
	Name  string
	Value string
}

// A builds an attribute.
func A(name, value string) Attr { return Attr{Name: name, Value: value} }

// F builds a numeric attribute.
func F(name string, v float64) Attr { return Attr{Name: name, Value: num(v)} }

// Doc accumulates SVG markup.
type Doc struct {
	buf   bytes.Buffer
	depth int
}

// Open starts an element and leaves it open for children.
func (d *Doc) Open(tag string, attrs ...Attr) *Doc {
	d.start(tag, attrs)
	d.buf.WriteString(">")
	d.depth++
	return d
}

// Close ends the innermost open element.
func (d *Doc) Close(tag string) *Doc {
	d.depth--
	d.buf.WriteString("</")
	d.buf.WriteString(tag)
	d.buf.WriteString(">")
	return d
}

// Empty writes a self-closing element.
func (d *Doc) Empty(tag string, attrs ...Attr) *Doc {
	d.start(tag, attrs)
	d.buf.WriteString("/>")
	return d
}

// Text writes an element holding escaped text.
func (d *Doc) Text(text string, attrs ...Attr) *Doc {
	d.start("text", attrs)
	d.buf.WriteString(">")
	d.buf.WriteString(html.EscapeString(text))
	d.buf.WriteString("</text>")
	return d
}

// Title writes a <title> child, shown by browsers as a native tooltip.
func (d *Doc) Title(text string) *Doc {
	d.buf.WriteString("<title>")
	d.buf.WriteString(html.EscapeString(text))
	d.buf.WriteString("</title>")
	return d
}

// Bytes returns the markup. All opened elements must have been closed.
func (d *Doc) Bytes() []byte {
	if d.depth != 0 {
		panic("render: unbalanced SVG document")
	}
	return d.buf.Bytes()
}

func (d *Doc) start(tag string, attrs []Attr) {
	d.buf.WriteString("<")
	d.buf.WriteString(tag)
	for _, a := range attrs {
		d.buf.WriteString(" ")
		d.buf.WriteString(a.Name)
		d.buf.WriteString(`="`)
		d.buf.WriteString(html.EscapeString(a.Value))
		d.buf.WriteString(`"`)
	}
}

// num formats coordinates compactly with at most three decimals.
func num(v float64) string {
	return strconv.FormatFloat(roundCoord(v), 'f', -1, 64)
}

func roundCoord(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0
	}
	return r
}

func translate(x, y float64) string {
	return "translate(" + num(x) + "," + num(y) + ")"
}
