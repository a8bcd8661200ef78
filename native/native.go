// Package native defines the boundary between the DOM layer and the tree
// substrate it wraps. The substrate owns parsing, serialization and the raw
// node/attribute storage; everything above this package only ever talks to it
// through an Adapter.
package native

import "fmt"

// Handle is an opaque reference to a position in a native tree.
//
// Handles must be comparable. Two handles that compare equal denote the same
// logical node, but an adapter is free to hand back a fresh handle value for
// the same node on every traversal.
type Handle any

// Kind is the structural kind of a native node.
type Kind int

const (
	KindUnknown Kind = iota
	KindDocument
	KindFragment
	KindElement
	KindText
	KindComment
	KindAttribute
	KindDoctype
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindFragment:
		return "fragment"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindAttribute:
		return "attribute"
	case KindDoctype:
		return "doctype"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Mode selects how markup is parsed and serialized.
type Mode int

const (
	// ModeHTML parses a complete HTML document.
	ModeHTML Mode = iota
	// ModeFragment parses HTML in a body context and returns a fragment handle.
	ModeFragment
	// ModeXML parses generic XML. Names keep their case; namespaces are passed through.
	ModeXML
)

func (m Mode) String() string {
	switch m {
	case ModeHTML:
		return "html"
	case ModeFragment:
		return "fragment"
	case ModeXML:
		return "xml"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Attribute is a raw attribute as stored by the substrate.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// Adapter is the minimal node and attribute API the DOM layer builds upon.
// A nil Handle means "no node" everywhere in this interface.
type Adapter interface {
	Parse(text string, mode Mode) (Handle, error)
	Serialize(h Handle, mode Mode) (string, error)

	Kind(h Handle) Kind
	// Name is the tag name for elements, the attribute name for attributes and
	// the doctype name for doctypes. Other kinds return "".
	Name(h Handle) string
	Namespace(h Handle) string
	// Data is the character data of text and comment nodes and the value of attributes.
	Data(h Handle) string
	SetData(h Handle, data string)

	// Parent returns the owner element for attached attribute handles.
	Parent(h Handle) Handle
	FirstChild(h Handle) Handle
	LastChild(h Handle) Handle
	PrevSibling(h Handle) Handle
	NextSibling(h Handle) Handle

	Attributes(h Handle) []Attribute
	GetAttribute(h Handle, name string) (string, bool)
	SetAttribute(h Handle, name, value string)
	RemoveAttribute(h Handle, name string) bool
	// AttributeHandle returns a handle for the named attribute of an element,
	// or nil when the attribute is absent.
	AttributeHandle(h Handle, name string) Handle

	CreateElement(name string) Handle
	CreateText(data string) Handle
	CreateComment(data string) Handle
	CreateFragment() Handle
	// CreateAttribute returns a handle for an attribute not attached to any element.
	CreateAttribute(name, value string) Handle

	// InsertBefore inserts a parentless child before ref, or appends when ref is nil.
	InsertBefore(parent, child, ref Handle) error
	RemoveChild(parent, child Handle) error
	Clone(h Handle, deep bool) Handle
}

// Children returns the child handles of h in order.
func Children(a Adapter, h Handle) []Handle {
	var out []Handle
	for c := a.FirstChild(h); c != nil; c = a.NextSibling(c) {
		out = append(out, c)
	}
	return out
}

// Root walks parents up from h and returns the topmost ancestor.
func Root(a Adapter, h Handle) Handle {
	for {
		p := a.Parent(h)
		if p == nil {
			return h
		}
		h = p
	}
}

// Walk visits h and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func Walk(a Adapter, h Handle, fn func(Handle) bool) {
	if !fn(h) {
		return
	}
	for c := a.FirstChild(h); c != nil; c = a.NextSibling(c) {
		Walk(a, c, fn)
	}
}
