package mei

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// Node is one element of a notation tree. It shares its layout with
// etree.Element, so a *Node and the *etree.Element it came from are the same
// pointer and nodes can be compared with ==.
type Node etree.Element

// Tree is a parsed notation document.
type Tree struct {
	doc  *etree.Document
	Root *Node
}

// Text escapes &, < and >. Attribute values also escape quotes, tabs and
// newlines.
var writeSettings = etree.WriteSettings{
	CanonicalText:    true,
	CanonicalAttrVal: true,
}

func node(e *etree.Element) *Node {
	return (*Node)(e)
}

func (n *Node) element() *etree.Element {
	return (*etree.Element)(n)
}

// Parse reads a notation document. Non-UTF-8 encodings declared in the XML
// header are converted on the fly.
func Parse(r io.Reader) (*Tree, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "could not parse notation document")
	}

	var roots int
	for _, t := range doc.Child {
		if _, ok := t.(*etree.Element); ok {
			roots++
		}
	}
	switch {
	case roots == 0:
		return nil, errors.New("notation document has no root element")
	case roots > 1:
		return nil, errors.Errorf("notation document has %d root elements", roots)
	}
	return &Tree{doc: doc, Root: node(doc.Root())}, nil
}

func ParseString(s string) (*Tree, error) {
	return Parse(strings.NewReader(s))
}

func ReadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading notation file %s", path)
	}
	defer f.Close()

	tree, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing notation file %s", path)
	}
	return tree, nil
}

// QualifiedName is the element name as written, prefix included.
func (n *Node) QualifiedName() string {
	return n.element().FullTag()
}

// Is compares the local element name case-insensitively.
func (n *Node) Is(name string) bool {
	return strings.EqualFold(n.Tag, name)
}

// Attribute looks up an attribute by the name it was written with, e.g.
// "key.sig" or "xml:id".
func (n *Node) Attribute(name string) (string, bool) {
	for i := range n.Attr {
		if n.Attr[i].FullKey() == name {
			return n.Attr[i].Value, true
		}
	}
	return "", false
}

func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// Elements returns the element children in order.
func (n *Node) Elements() []*Node {
	var res []*Node
	for _, c := range n.element().ChildElements() {
		res = append(res, node(c))
	}
	return res
}

// Walk visits every element of the subtree in document order, n included.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.element().ChildElements() {
		node(c).Walk(fn)
	}
}

// Find returns the first descendant element named name, in document order.
func (n *Node) Find(name string) *Node {
	for _, c := range n.Elements() {
		if c.Is(name) {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant element named name, in document order.
func (n *Node) FindAll(name string) []*Node {
	var res []*Node
	for _, c := range n.Elements() {
		c.Walk(func(e *Node) {
			if e.Is(name) {
				res = append(res, e)
			}
		})
	}
	return res
}

// Text concatenates the text content of the subtree.
func (n *Node) Text() string {
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *Node) collectText(b *strings.Builder) {
	for _, t := range n.Child {
		switch c := t.(type) {
		case *etree.CharData:
			b.WriteString(c.Data)
		case *etree.Element:
			node(c).collectText(b)
		}
	}
}

// RemoveChildren drops every child token, text included.
func (n *Node) RemoveChildren() {
	e := n.element()
	for len(e.Child) > 0 {
		e.RemoveChildAt(len(e.Child) - 1)
	}
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	e := n.element()
	if p := e.Parent(); p != nil {
		p.RemoveChild(e)
	}
}

// Clone deep-copies the subtree. The copy has no parent.
func (n *Node) Clone() *Node {
	return node(n.element().Copy())
}

func (t *Tree) Clone() *Tree {
	doc := t.doc.Copy()
	return &Tree{doc: doc, Root: node(doc.Root())}
}

// String serializes the subtree without an XML declaration.
func (n *Node) String() string {
	var buf bytes.Buffer
	n.element().WriteTo(&buf, &writeSettings)
	return buf.String()
}

// String serializes the whole document with a UTF-8 declaration. Tokens ahead
// of the root element are kept one per line; whitespace between them and
// anything after the root are dropped.
func (t *Tree) String() string {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteByte('\n')
	for _, tok := range t.doc.Child {
		switch c := tok.(type) {
		case *etree.Element:
			c.WriteTo(&buf, &writeSettings)
			return buf.String()
		case *etree.ProcInst:
			if c.Target == "xml" {
				continue
			}
		case *etree.CharData:
			continue
		}
		tok.WriteTo(&buf, &writeSettings)
		buf.WriteByte('\n')
	}
	return buf.String()
}
