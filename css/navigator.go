package css

import (
	"strings"

	"github.com/antchfx/xpath"

	"github.com/chrisuehlinger/livedom/native"
)

// navigator implements xpath.NodeNavigator over a native.Adapter.
// Attributes are addressed by index into a snapshot of the owner's attribute
// list, so no attribute handles are created while evaluating a query.
type navigator struct {
	adapter native.Adapter
	root    native.Handle
	cur     native.Handle
	attrs   []native.Attribute
	attr    int
}

var _ xpath.NodeNavigator = (*navigator)(nil)

func newNavigator(a native.Adapter, h native.Handle) *navigator {
	return &navigator{adapter: a, root: native.Root(a, h), cur: h, attr: -1}
}

func (n *navigator) NodeType() xpath.NodeType {
	if n.attr != -1 {
		return xpath.AttributeNode
	}
	switch n.adapter.Kind(n.cur) {
	case native.KindDocument, native.KindFragment:
		return xpath.RootNode
	case native.KindElement:
		return xpath.ElementNode
	case native.KindText:
		return xpath.TextNode
	default:
		return xpath.CommentNode
	}
}

func splitName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i > 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func (n *navigator) qualifiedName() string {
	if n.attr != -1 {
		return n.attrs[n.attr].Name
	}
	return n.adapter.Name(n.cur)
}

func (n *navigator) LocalName() string {
	_, local := splitName(n.qualifiedName())
	return local
}

func (n *navigator) Prefix() string {
	prefix, _ := splitName(n.qualifiedName())
	return prefix
}

func (n *navigator) Value() string {
	if n.attr != -1 {
		return n.attrs[n.attr].Value
	}
	switch n.adapter.Kind(n.cur) {
	case native.KindText, native.KindComment:
		return n.adapter.Data(n.cur)
	}
	var sb strings.Builder
	native.Walk(n.adapter, n.cur, func(h native.Handle) bool {
		if n.adapter.Kind(h) == native.KindText {
			sb.WriteString(n.adapter.Data(h))
		}
		return true
	})
	return sb.String()
}

func (n *navigator) Copy() xpath.NodeNavigator {
	c := *n
	return &c
}

func (n *navigator) MoveToRoot() {
	n.cur = n.root
	n.attr = -1
	n.attrs = nil
}

func (n *navigator) MoveToParent() bool {
	if n.attr != -1 {
		n.attr = -1
		n.attrs = nil
		return true
	}
	p := n.adapter.Parent(n.cur)
	if p == nil {
		return false
	}
	n.cur = p
	return true
}

func (n *navigator) MoveToNextAttribute() bool {
	if n.attr == -1 {
		if n.adapter.Kind(n.cur) != native.KindElement {
			return false
		}
		n.attrs = n.adapter.Attributes(n.cur)
	}
	if n.attr >= len(n.attrs)-1 {
		return false
	}
	n.attr++
	return true
}

func (n *navigator) MoveToChild() bool {
	if n.attr != -1 {
		return false
	}
	c := n.adapter.FirstChild(n.cur)
	if c == nil {
		return false
	}
	n.cur = c
	return true
}

func (n *navigator) MoveToFirst() bool {
	if n.attr != -1 {
		return false
	}
	moved := false
	for p := n.adapter.PrevSibling(n.cur); p != nil; p = n.adapter.PrevSibling(p) {
		n.cur = p
		moved = true
	}
	return moved
}

func (n *navigator) MoveToNext() bool {
	if n.attr != -1 {
		return false
	}
	s := n.adapter.NextSibling(n.cur)
	if s == nil {
		return false
	}
	n.cur = s
	return true
}

func (n *navigator) MoveToPrevious() bool {
	if n.attr != -1 {
		return false
	}
	s := n.adapter.PrevSibling(n.cur)
	if s == nil {
		return false
	}
	n.cur = s
	return true
}

func (n *navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.root != n.root {
		return false
	}
	*n = *o
	return true
}
