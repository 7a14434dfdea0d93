// Package ofx implements the OFX-over-XML document model used on the
// wire: a tree of named elements holding ordered children and/or a
// text value. The protocol layer reads request fields by tag name and
// composes response trees from the builder helpers; there is no
// intermediate typed model.
package ofx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Element is a single node in an OFX document. Leaf elements carry
// Text; aggregates carry Children. The builders never produce a node
// with both.
type Element struct {
	Name     string
	Text     string
	Children []*Element
}

// New creates an aggregate element with the given children.
func New(name string, children ...*Element) *Element {
	return &Element{Name: name, Children: children}
}

// Str creates a leaf element holding a string value.
func Str(name, value string) *Element {
	return &Element{Name: name, Text: value}
}

// Int creates a leaf element holding an integer value.
func Int(name string, value int) *Element {
	return &Element{Name: name, Text: strconv.Itoa(value)}
}

// Amount creates a leaf element holding a monetary amount. The value
// is rendered with the shortest representation that round-trips, so
// two-decimal amounts come out as written (e.g. "-27.35").
func Amount(name string, value float64) *Element {
	return &Element{Name: name, Text: strconv.FormatFloat(value, 'f', -1, 64)}
}

// Add appends children to the element.
func (e *Element) Add(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Child returns the first direct child with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildValue returns the text of the named direct child. The second
// return value reports whether the child exists; an absent child is
// not an error.
func (e *Element) ChildValue(name string) (string, bool) {
	c := e.Child(name)
	if c == nil {
		return "", false
	}
	return c.Text, true
}

// ChildrenNamed returns all direct children with the given name, in
// document order.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant with the given name, searching
// depth-first in document order, or nil.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Parse reads a well-formed XML document into an element tree.
// Comments, processing instructions and inter-element whitespace are
// discarded. A malformed document is the one failure mode.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed OFX document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			e := &Element{Name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("malformed OFX document: multiple root elements")
				}
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, e)
			}
			stack = append(stack, e)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			if text := strings.TrimSpace(string(t)); text != "" {
				stack[len(stack)-1].Text += text
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("malformed OFX document: no root element")
	}
	return root, nil
}

// Serialize writes the document as indented XML. Indentation is for
// debuggability only; OFX clients do not depend on it. Serialization
// cannot fail for trees built by this package short of a write error.
func Serialize(w io.Writer, root *Element) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := encodeElement(enc, root); err != nil {
		return err
	}
	return enc.Flush()
}

func encodeElement(enc *xml.Encoder, e *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := encodeElement(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}

// FormatDateTime renders t as an OFX date-time string
// (YYYYMMDDHHMMSS) in UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("20060102150405")
}

// FormatDate renders t as an OFX date string (YYYYMMDD) in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format("20060102")
}
