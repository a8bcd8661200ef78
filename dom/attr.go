package dom

import "strings"

// Attr represents an attribute of an Element.
//
// An Attr keeps its identity when it is removed from its element or moved to
// another one with SetAttributeNode; a detached Attr remembers its value.
type Attr Node

// AsNode returns the underlying Node.
func (a *Attr) AsNode() *Node {
	return (*Node)(a)
}

// Name returns the qualified attribute name.
func (a *Attr) Name() string {
	return a.AsNode().adapter().Name(a.handle)
}

// LocalName returns the name without any prefix.
func (a *Attr) LocalName() string {
	name := a.Name()
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// NamespaceURI returns the attribute namespace as stored by the adapter.
func (a *Attr) NamespaceURI() string {
	return a.AsNode().adapter().Namespace(a.handle)
}

// Value returns the attribute value.
func (a *Attr) Value() string {
	return a.AsNode().adapter().Data(a.handle)
}

// SetValue sets the attribute value, on the owner element if there is one.
func (a *Attr) SetValue(value string) {
	a.AsNode().adapter().SetData(a.handle, value)
}

// OwnerElement returns the element the attribute is attached to, or nil.
func (a *Attr) OwnerElement() *Element {
	n := a.AsNode()
	return n.wrap(n.adapter().Parent(n.handle)).AsElement()
}

// Specified always returns true.
func (a *Attr) Specified() bool {
	return true
}
