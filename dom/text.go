package dom

import (
	"fmt"
	"strings"
)

// CharacterData methods shared by Text and Comment. Offsets and lengths are
// counted in UTF-16 code units.

func (n *Node) data() string {
	return n.adapter().Data(n.handle)
}

func (n *Node) dataLength() int {
	return UTF16Length(n.data())
}

func (n *Node) substringData(offset, count int) (string, error) {
	data := n.data()
	if offset < 0 || offset > UTF16Length(data) {
		return "", errIndexSize(offset)
	}
	return UTF16Substring(data, offset, offset+max(count, 0)), nil
}

// replaceData replaces count code units at offset with s.
func (n *Node) replaceData(offset, count int, s string) error {
	data := n.data()
	length := UTF16Length(data)
	if offset < 0 || offset > length {
		return errIndexSize(offset)
	}
	end := min(offset+max(count, 0), length)
	n.SetNodeValue(UTF16Substring(data, 0, offset) + s + UTF16Substring(data, end, length))
	return nil
}

// Text represents a text node in the DOM tree.
type Text Node

// AsNode returns the underlying Node.
func (t *Text) AsNode() *Node {
	return (*Node)(t)
}

// Data returns the text content.
func (t *Text) Data() string {
	return t.AsNode().data()
}

// SetData sets the text content.
func (t *Text) SetData(data string) {
	t.AsNode().SetNodeValue(data)
}

// Length returns the length of the text in UTF-16 code units.
func (t *Text) Length() int {
	return t.AsNode().dataLength()
}

// SubstringData returns count code units starting at offset.
func (t *Text) SubstringData(offset, count int) (string, error) {
	return t.AsNode().substringData(offset, count)
}

// AppendData appends s to the text.
func (t *Text) AppendData(s string) {
	t.SetData(t.Data() + s)
}

// InsertData inserts s at offset.
func (t *Text) InsertData(offset int, s string) error {
	return t.AsNode().replaceData(offset, 0, s)
}

// DeleteData removes count code units starting at offset.
func (t *Text) DeleteData(offset, count int) error {
	return t.AsNode().replaceData(offset, count, "")
}

// ReplaceData replaces count code units starting at offset with s.
func (t *Text) ReplaceData(offset, count int, s string) error {
	return t.AsNode().replaceData(offset, count, s)
}

// SplitText breaks the node in two at offset. The remainder becomes a new
// text node inserted after this one, if it has a parent, and is returned.
func (t *Text) SplitText(offset int) (*Text, error) {
	n := t.AsNode()
	data := n.data()
	length := UTF16Length(data)
	if offset < 0 || offset > length {
		return nil, errIndexSize(offset)
	}
	a := n.adapter()
	rest := a.CreateText(UTF16Substring(data, offset, length))
	n.SetNodeValue(UTF16Substring(data, 0, offset))
	if p := a.Parent(n.handle); p != nil {
		if err := a.InsertBefore(p, rest, a.NextSibling(n.handle)); err != nil {
			return nil, fmt.Errorf("dom: split text: %w", err)
		}
	}
	return (*Text)(n.wrap(rest)), nil
}

// WholeText returns the text of this node and its adjacent text siblings.
func (t *Text) WholeText() string {
	n := t.AsNode()
	a := n.adapter()
	start := n.handle
	for p := a.PrevSibling(start); p != nil && a.Kind(p) == a.Kind(n.handle); p = a.PrevSibling(p) {
		start = p
	}
	var sb strings.Builder
	for c := start; c != nil && a.Kind(c) == a.Kind(n.handle); c = a.NextSibling(c) {
		sb.WriteString(a.Data(c))
	}
	return sb.String()
}

// Comment represents a comment node in the DOM tree.
type Comment Node

// AsNode returns the underlying Node.
func (c *Comment) AsNode() *Node {
	return (*Node)(c)
}

// Data returns the comment content.
func (c *Comment) Data() string {
	return c.AsNode().data()
}

// SetData sets the comment content.
func (c *Comment) SetData(data string) {
	c.AsNode().SetNodeValue(data)
}

// SubstringData returns count code units starting at offset.
func (c *Comment) SubstringData(offset, count int) (string, error) {
	return c.AsNode().substringData(offset, count)
}

// ReplaceData replaces count code units starting at offset with s.
func (c *Comment) ReplaceData(offset, count int, s string) error {
	return c.AsNode().replaceData(offset, count, s)
}

// Length returns the length of the comment in UTF-16 code units.
func (c *Comment) Length() int {
	return c.AsNode().dataLength()
}

// DocumentType represents the <!DOCTYPE> of a document.
type DocumentType Node

// AsNode returns the underlying Node.
func (dt *DocumentType) AsNode() *Node {
	return (*Node)(dt)
}

// Name returns the doctype name, "html" for HTML documents.
func (dt *DocumentType) Name() string {
	return dt.AsNode().adapter().Name(dt.handle)
}
