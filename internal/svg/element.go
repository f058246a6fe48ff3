// Package svg is a minimal retained element tree that serialises to SVG.
// Charts are built as a tree first so a render pass can be inspected and
// swapped into a container as one unit.
package svg

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const Namespace = "http://www.w3.org/2000/svg"

// Attr is a single name/value attribute
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the tree
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// New creates an element with the given tag name
func New(name string) *Element {
	return &Element{Name: name}
}

// Set assigns an attribute, replacing any previous value
func (e *Element) Set(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// SetFloat assigns a numeric attribute
func (e *Element) SetFloat(name string, v float64) *Element {
	return e.Set(name, Num(v))
}

// Attr returns the attribute value and whether it exists
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetText sets the character data of the element
func (e *Element) SetText(text string) *Element {
	e.Text = text
	return e
}

// Append adds a new child and returns it
func (e *Element) Append(name string) *Element {
	child := New(name)
	e.Children = append(e.Children, child)
	return child
}

// AppendChild attaches an existing element
func (e *Element) AppendChild(child *Element) {
	e.Children = append(e.Children, child)
}

// RemoveChildren detaches every child matching fn and returns how many were removed
func (e *Element) RemoveChildren(fn func(*Element) bool) int {
	kept := e.Children[:0]
	removed := 0
	for _, c := range e.Children {
		if fn(c) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(e.Children); i++ {
		e.Children[i] = nil
	}
	e.Children = kept
	return removed
}

// HasClass reports whether the class attribute lists class
func (e *Element) HasClass(class string) bool {
	v, ok := e.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// FindAll walks the subtree depth-first and collects matches in document order
func (e *Element) FindAll(fn func(*Element) bool) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(n *Element) {
		if fn(n) {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(e)
	return out
}

// ByClass returns every descendant (or e itself) carrying class
func (e *Element) ByClass(class string) []*Element {
	return e.FindAll(func(n *Element) bool { return n.HasClass(class) })
}

// ByName returns every descendant (or e itself) with the tag name
func (e *Element) ByName(name string) []*Element {
	return e.FindAll(func(n *Element) bool { return n.Name == name })
}

// WriteTo serialises the subtree
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	e.write(cw)
	return cw.n, cw.err
}

// String returns the serialised subtree
func (e *Element) String() string {
	var sb strings.Builder
	e.WriteTo(&sb)
	return sb.String()
}

func (e *Element) write(w *countingWriter) {
	w.str("<" + e.Name)
	for _, a := range e.Attrs {
		w.str(" " + a.Name + `="`)
		w.escape(a.Value)
		w.str(`"`)
	}
	if e.Text == "" && len(e.Children) == 0 {
		w.str("/>")
		return
	}
	w.str(">")
	if e.Text != "" {
		w.escape(e.Text)
	}
	for _, c := range e.Children {
		c.write(w)
	}
	w.str("</" + e.Name + ">")
}

// Num formats a coordinate with at most three decimals
func Num(v float64) string {
	return strconv.FormatFloat(roundTo(v, 3), 'f', -1, 64)
}

// Translate builds a transform attribute value
func Translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", Num(x), Num(y))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) str(s string) {
	if c.err != nil {
		return
	}
	n, err := io.WriteString(c.w, s)
	c.n += int64(n)
	c.err = err
}

func (c *countingWriter) escape(s string) {
	if c.err != nil {
		return
	}
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(s))
	c.str(sb.String())
}
