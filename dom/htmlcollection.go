package dom

import (
	"iter"
	"strconv"

	"github.com/chrisuehlinger/livedom/native"
)

// HTMLCollection represents a live collection of elements. Unlike NodeList,
// HTMLCollection only contains Element nodes.
//
// The collection stores only its root and filter; every access walks the
// current tree again.
type HTMLCollection struct {
	root *Node

	// Only direct children of root are considered
	shallow bool

	// Filter function that determines which elements are included
	filter func(native.Handle) bool
}

func newChildCollection(root *Node) *HTMLCollection {
	return &HTMLCollection{root: root, shallow: true}
}

func newDescendantCollection(root *Node, filter func(native.Handle) bool) *HTMLCollection {
	return &HTMLCollection{root: root, filter: filter}
}

// each calls fn with every member handle in tree order until fn returns false.
func (hc *HTMLCollection) each(fn func(native.Handle) bool) {
	a := hc.root.adapter()
	match := func(h native.Handle) bool {
		return a.Kind(h) == native.KindElement && (hc.filter == nil || hc.filter(h))
	}
	if hc.shallow {
		for c := a.FirstChild(hc.root.handle); c != nil; c = a.NextSibling(c) {
			if match(c) && !fn(c) {
				return
			}
		}
		return
	}
	stopped := false
	var walk func(native.Handle)
	walk = func(h native.Handle) {
		for c := a.FirstChild(h); c != nil && !stopped; c = a.NextSibling(c) {
			if match(c) && !fn(c) {
				stopped = true
				return
			}
			walk(c)
		}
	}
	walk(hc.root.handle)
}

// Length returns the number of elements in the collection.
func (hc *HTMLCollection) Length() int {
	count := 0
	hc.each(func(native.Handle) bool {
		count++
		return true
	})
	return count
}

// Item returns the element at the given index, or nil if out of bounds.
func (hc *HTMLCollection) Item(index int) *Element {
	if index < 0 {
		return nil
	}
	var found native.Handle
	i := 0
	hc.each(func(h native.Handle) bool {
		if i == index {
			found = h
			return false
		}
		i++
		return true
	})
	return hc.root.wrap(found).AsElement()
}

// NamedItem returns the first element whose id is name, or failing that the
// first element whose name attribute is name.
func (hc *HTMLCollection) NamedItem(name string) *Element {
	if name == "" {
		return nil
	}
	a := hc.root.adapter()
	var byName native.Handle
	var byID native.Handle
	hc.each(func(h native.Handle) bool {
		if v, ok := a.GetAttribute(h, "id"); ok && v == name {
			byID = h
			return false
		}
		if byName == nil {
			if v, ok := a.GetAttribute(h, "name"); ok && v == name {
				byName = h
			}
		}
		return true
	})
	if byID != nil {
		return hc.root.wrap(byID).AsElement()
	}
	return hc.root.wrap(byName).AsElement()
}

// All iterates over index and element pairs of a snapshot taken when
// iteration starts.
func (hc *HTMLCollection) All() iter.Seq2[int, *Element] {
	return func(yield func(int, *Element) bool) {
		for i, el := range hc.Values() {
			if !yield(i, el) {
				return
			}
		}
	}
}

// Values returns the current members as a slice.
func (hc *HTMLCollection) Values() []*Element {
	var out []*Element
	hc.each(func(h native.Handle) bool {
		out = append(out, hc.root.wrap(h).AsElement())
		return true
	})
	return out
}

// SetItem always fails: collections cannot be written through an index.
func (hc *HTMLCollection) SetItem(index int, _ any) error {
	return errUnsupported("HTMLCollection is read-only; cannot assign index " + strconv.Itoa(index) + ".")
}

// DeleteItem always fails: collections cannot be written through an index.
func (hc *HTMLCollection) DeleteItem(index int) error {
	return errUnsupported("HTMLCollection is read-only; cannot delete index " + strconv.Itoa(index) + ".")
}

// NamedProperty represents a named property with its name and element.
type NamedProperty struct {
	Name    string
	Element *Element
}

// NamedProperties returns the id and name keys exposed by the collection, in
// tree order of first appearance. Each key maps to what NamedItem returns.
func (hc *HTMLCollection) NamedProperties() []NamedProperty {
	a := hc.root.adapter()
	var keys []string
	seen := make(map[string]bool)
	hc.each(func(h native.Handle) bool {
		for _, attr := range []string{"id", "name"} {
			v, ok := a.GetAttribute(h, attr)
			if ok && v != "" && !seen[v] {
				seen[v] = true
				keys = append(keys, v)
			}
		}
		return true
	})
	result := make([]NamedProperty, len(keys))
	for i, k := range keys {
		result[i] = NamedProperty{Name: k, Element: hc.NamedItem(k)}
	}
	return result
}
