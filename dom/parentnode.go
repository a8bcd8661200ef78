package dom

import (
	"strings"

	"github.com/chrisuehlinger/livedom/css"
	"github.com/chrisuehlinger/livedom/native"
)

// Methods of the ParentNode mixin, shared by documents, fragments and elements.

// Children returns a live HTMLCollection of the element children of this node.
func (n *Node) Children() *HTMLCollection {
	return newChildCollection(n)
}

// FirstElementChild returns the first child that is an element, or nil.
func (n *Node) FirstElementChild() *Element {
	a := n.adapter()
	for c := a.FirstChild(n.handle); c != nil; c = a.NextSibling(c) {
		if a.Kind(c) == native.KindElement {
			return n.wrap(c).AsElement()
		}
	}
	return nil
}

// LastElementChild returns the last child that is an element, or nil.
func (n *Node) LastElementChild() *Element {
	a := n.adapter()
	for c := a.LastChild(n.handle); c != nil; c = a.PrevSibling(c) {
		if a.Kind(c) == native.KindElement {
			return n.wrap(c).AsElement()
		}
	}
	return nil
}

// ChildElementCount returns the number of element children.
func (n *Node) ChildElementCount() int {
	a := n.adapter()
	count := 0
	for c := a.FirstChild(n.handle); c != nil; c = a.NextSibling(c) {
		if a.Kind(c) == native.KindElement {
			count++
		}
	}
	return count
}

func (n *Node) compile(selector string) (*css.Query, error) {
	q, err := n.doc.documentData.compiler.Compile(selector)
	if err != nil {
		return nil, invalidSelector(err)
	}
	return q, nil
}

// QuerySelector returns the first descendant element matching selector, or nil.
func (n *Node) QuerySelector(selector string) (*Element, error) {
	q, err := n.compile(selector)
	if err != nil {
		return nil, err
	}
	return n.wrap(q.First(n.handle)).AsElement(), nil
}

// QuerySelectorAll returns a static NodeList of the descendant elements
// matching selector, in document order.
func (n *Node) QuerySelectorAll(selector string) (*NodeList, error) {
	q, err := n.compile(selector)
	if err != nil {
		return nil, err
	}
	hs := q.All(n.handle)
	nodes := make([]*Node, len(hs))
	for i, h := range hs {
		nodes[i] = n.wrap(h)
	}
	return newStaticNodeList(nodes), nil
}

// GetElementsByTagName returns a live collection of descendant elements with
// the given qualified name. "*" matches every element.
func (n *Node) GetElementsByTagName(name string) *HTMLCollection {
	a := n.adapter()
	foldCase := !n.doc.IsXML()
	lower := asciiLower(name)
	return newDescendantCollection(n, func(h native.Handle) bool {
		if name == "*" {
			return true
		}
		tag := a.Name(h)
		if foldCase && a.Namespace(h) == "" {
			return tag == lower
		}
		return tag == name
	})
}

// GetElementsByClassName returns a live collection of descendant elements
// carrying every class in the space separated list.
func (n *Node) GetElementsByClassName(classNames string) *HTMLCollection {
	a := n.adapter()
	want := strings.Fields(classNames)
	return newDescendantCollection(n, func(h native.Handle) bool {
		if len(want) == 0 {
			return false
		}
		value, _ := a.GetAttribute(h, "class")
		have := strings.Fields(value)
		for _, c := range want {
			found := false
			for _, v := range have {
				if v == c {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	})
}

// getElementByID returns the first descendant element whose id is id.
func (n *Node) getElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	a := n.adapter()
	var found native.Handle
	native.Walk(a, n.handle, func(h native.Handle) bool {
		if found != nil {
			return false
		}
		if h != n.handle && a.Kind(h) == native.KindElement {
			if v, ok := a.GetAttribute(h, "id"); ok && v == id {
				found = h
				return false
			}
		}
		return true
	})
	return n.wrap(found).AsElement()
}
