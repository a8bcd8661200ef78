// Package html provides the default native tree adapter, backed by
// golang.org/x/net/html.
//
// Tree nodes are represented by *html.Node handles. Attributes are not nodes
// in x/net/html, so every attribute lookup builds a fresh attrRef value naming
// the owner element and the attribute key; two such values compare equal when
// they refer to the same attribute.
package html

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/livedom/native"
)

// fragmentMarker is stored in the Data field of the document node that roots
// a DocumentFragment. Parsed documents always have an empty Data.
const fragmentMarker = "#document-fragment"

// ErrForeignHandle is returned when an adapter receives a handle it did not produce.
var ErrForeignHandle = errors.New("html: handle was not produced by this adapter")

// attrRef addresses the attribute name on an element.
type attrRef struct {
	owner *html.Node
	name  string
}

// attrNode is an attribute that is not attached to any element.
type attrNode struct {
	name  string
	value string
}

// Adapter implements native.Adapter over golang.org/x/net/html.
// It holds no state; the zero value is ready to use.
type Adapter struct{}

var _ native.Adapter = Adapter{}

// NewAdapter returns an adapter.
func NewAdapter() Adapter {
	return Adapter{}
}

// wrap converts a possibly nil *html.Node into a handle, keeping "no node" an
// untyped nil.
func wrap(n *html.Node) native.Handle {
	if n == nil {
		return nil
	}
	return n
}

func asNode(h native.Handle) *html.Node {
	n, _ := h.(*html.Node)
	return n
}

// Parse parses text according to mode.
func (Adapter) Parse(text string, mode native.Mode) (native.Handle, error) {
	switch mode {
	case native.ModeHTML:
		doc, err := html.Parse(strings.NewReader(text))
		if err != nil {
			return nil, fmt.Errorf("html: parse document: %w", err)
		}
		return doc, nil
	case native.ModeFragment:
		context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
		nodes, err := html.ParseFragment(strings.NewReader(text), context)
		if err != nil {
			return nil, fmt.Errorf("html: parse fragment: %w", err)
		}
		frag := newFragment()
		for _, n := range nodes {
			frag.AppendChild(n)
		}
		return frag, nil
	case native.ModeXML:
		return parseXML(text)
	default:
		return nil, fmt.Errorf("html: unsupported parse mode %v", mode)
	}
}

// Serialize renders h. Attribute handles render as name="value".
func (a Adapter) Serialize(h native.Handle, mode native.Mode) (string, error) {
	switch v := h.(type) {
	case *html.Node:
		var sb strings.Builder
		if mode == native.ModeXML {
			renderXML(&sb, v)
			return sb.String(), nil
		}
		if err := html.Render(&sb, v); err != nil {
			return "", fmt.Errorf("html: render: %w", err)
		}
		return sb.String(), nil
	case attrRef, *attrNode:
		return fmt.Sprintf(`%s="%s"`, a.Name(h), html.EscapeString(a.Data(h))), nil
	default:
		return "", ErrForeignHandle
	}
}

func newFragment() *html.Node {
	return &html.Node{Type: html.DocumentNode, Data: fragmentMarker}
}

// Kind reports the structural kind of h.
func (Adapter) Kind(h native.Handle) native.Kind {
	switch v := h.(type) {
	case *html.Node:
		switch v.Type {
		case html.DocumentNode:
			if v.Data == fragmentMarker {
				return native.KindFragment
			}
			return native.KindDocument
		case html.ElementNode:
			return native.KindElement
		case html.TextNode:
			return native.KindText
		case html.CommentNode:
			return native.KindComment
		case html.DoctypeNode:
			return native.KindDoctype
		}
	case attrRef, *attrNode:
		return native.KindAttribute
	}
	return native.KindUnknown
}

func (Adapter) Name(h native.Handle) string {
	switch v := h.(type) {
	case *html.Node:
		if v.Type == html.ElementNode || v.Type == html.DoctypeNode {
			return v.Data
		}
	case attrRef:
		return v.name
	case *attrNode:
		return v.name
	}
	return ""
}

func (Adapter) Namespace(h native.Handle) string {
	switch v := h.(type) {
	case *html.Node:
		return v.Namespace
	case attrRef:
		if i := attrIndex(v.owner, v.name); i >= 0 {
			return v.owner.Attr[i].Namespace
		}
	}
	return ""
}

func (Adapter) Data(h native.Handle) string {
	switch v := h.(type) {
	case *html.Node:
		if v.Type == html.TextNode || v.Type == html.CommentNode {
			return v.Data
		}
	case attrRef:
		if i := attrIndex(v.owner, v.name); i >= 0 {
			return v.owner.Attr[i].Val
		}
	case *attrNode:
		return v.value
	}
	return ""
}

func (a Adapter) SetData(h native.Handle, data string) {
	switch v := h.(type) {
	case *html.Node:
		if v.Type == html.TextNode || v.Type == html.CommentNode {
			v.Data = data
		}
	case attrRef:
		a.SetAttribute(v.owner, v.name, data)
	case *attrNode:
		v.value = data
	}
}

func (Adapter) Parent(h native.Handle) native.Handle {
	switch v := h.(type) {
	case *html.Node:
		return wrap(v.Parent)
	case attrRef:
		if attrIndex(v.owner, v.name) >= 0 {
			return v.owner
		}
	}
	return nil
}

func (Adapter) FirstChild(h native.Handle) native.Handle {
	if n := asNode(h); n != nil {
		return wrap(n.FirstChild)
	}
	return nil
}

func (Adapter) LastChild(h native.Handle) native.Handle {
	if n := asNode(h); n != nil {
		return wrap(n.LastChild)
	}
	return nil
}

func (Adapter) PrevSibling(h native.Handle) native.Handle {
	if n := asNode(h); n != nil {
		return wrap(n.PrevSibling)
	}
	return nil
}

func (Adapter) NextSibling(h native.Handle) native.Handle {
	if n := asNode(h); n != nil {
		return wrap(n.NextSibling)
	}
	return nil
}

// Attributes returns a copy of the attributes of an element in source order.
func (Adapter) Attributes(h native.Handle) []native.Attribute {
	n := asNode(h)
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	out := make([]native.Attribute, len(n.Attr))
	for i, a := range n.Attr {
		out[i] = native.Attribute{Namespace: a.Namespace, Name: a.Key, Value: a.Val}
	}
	return out
}

func (Adapter) GetAttribute(h native.Handle, name string) (string, bool) {
	n := asNode(h)
	if i := attrIndex(n, name); i >= 0 {
		return n.Attr[i].Val, true
	}
	return "", false
}

func (Adapter) SetAttribute(h native.Handle, name, value string) {
	n := asNode(h)
	if n == nil || n.Type != html.ElementNode {
		return
	}
	if i := attrIndex(n, name); i >= 0 {
		n.Attr[i].Val = value
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func (Adapter) RemoveAttribute(h native.Handle, name string) bool {
	n := asNode(h)
	i := attrIndex(n, name)
	if i < 0 {
		return false
	}
	n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
	return true
}

func (Adapter) AttributeHandle(h native.Handle, name string) native.Handle {
	n := asNode(h)
	if attrIndex(n, name) < 0 {
		return nil
	}
	return attrRef{owner: n, name: name}
}

func attrIndex(n *html.Node, name string) int {
	if n == nil || n.Type != html.ElementNode {
		return -1
	}
	for i, a := range n.Attr {
		if a.Key == name {
			return i
		}
	}
	return -1
}

func (Adapter) CreateElement(name string) native.Handle {
	return &html.Node{Type: html.ElementNode, Data: name, DataAtom: atom.Lookup([]byte(name))}
}

func (Adapter) CreateText(data string) native.Handle {
	return &html.Node{Type: html.TextNode, Data: data}
}

func (Adapter) CreateComment(data string) native.Handle {
	return &html.Node{Type: html.CommentNode, Data: data}
}

func (Adapter) CreateFragment() native.Handle {
	return newFragment()
}

func (Adapter) CreateAttribute(name, value string) native.Handle {
	return &attrNode{name: name, value: value}
}

// InsertBefore links child under parent. The child must not have a parent.
func (Adapter) InsertBefore(parent, child, ref native.Handle) error {
	p, c := asNode(parent), asNode(child)
	if p == nil || c == nil {
		return ErrForeignHandle
	}
	if c.Parent != nil || c.PrevSibling != nil || c.NextSibling != nil {
		return fmt.Errorf("html: insert: child is still attached")
	}
	var r *html.Node
	if ref != nil {
		if r = asNode(ref); r == nil {
			return ErrForeignHandle
		}
		if r.Parent != p {
			return fmt.Errorf("html: insert: reference node is not a child of parent")
		}
	}
	p.InsertBefore(c, r)
	return nil
}

func (Adapter) RemoveChild(parent, child native.Handle) error {
	p, c := asNode(parent), asNode(child)
	if p == nil || c == nil {
		return ErrForeignHandle
	}
	if c.Parent != p {
		return fmt.Errorf("html: remove: node is not a child of parent")
	}
	p.RemoveChild(c)
	return nil
}

// Clone copies h. Attribute handles clone into detached attributes.
func (a Adapter) Clone(h native.Handle, deep bool) native.Handle {
	switch v := h.(type) {
	case *html.Node:
		return cloneNode(v, deep)
	case attrRef, *attrNode:
		return &attrNode{name: a.Name(h), value: a.Data(h)}
	}
	return nil
}

func cloneNode(n *html.Node, deep bool) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	if deep {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			c.AppendChild(cloneNode(ch, true))
		}
	}
	return c
}
