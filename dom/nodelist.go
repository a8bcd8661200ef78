package dom

import (
	"iter"

	"github.com/chrisuehlinger/livedom/native"
)

// NodeList represents a collection of nodes. It can be either live (the
// children of a parent, re-read on every access) or static (a snapshot taken
// when the list was built).
type NodeList struct {
	// For live NodeLists, this is the parent node
	parent *Node

	// For static NodeLists, this holds the nodes
	staticNodes []*Node
}

func newLiveNodeList(parent *Node) *NodeList {
	return &NodeList{parent: parent}
}

func newStaticNodeList(nodes []*Node) *NodeList {
	return &NodeList{staticNodes: nodes}
}

// IsLive reports whether the list tracks tree changes.
func (nl *NodeList) IsLive() bool {
	return nl.parent != nil
}

// Length returns the number of nodes in the collection.
func (nl *NodeList) Length() int {
	if !nl.IsLive() {
		return len(nl.staticNodes)
	}
	a := nl.parent.adapter()
	count := 0
	for c := a.FirstChild(nl.parent.handle); c != nil; c = a.NextSibling(c) {
		count++
	}
	return count
}

// Item returns the node at the given index, or nil if the index is out of bounds.
func (nl *NodeList) Item(index int) *Node {
	if index < 0 {
		return nil
	}
	if !nl.IsLive() {
		if index >= len(nl.staticNodes) {
			return nil
		}
		return nl.staticNodes[index]
	}
	a := nl.parent.adapter()
	i := 0
	for c := a.FirstChild(nl.parent.handle); c != nil; c = a.NextSibling(c) {
		if i == index {
			return nl.parent.wrap(c)
		}
		i++
	}
	return nil
}

// All iterates over index and node pairs. A live list reads the next sibling
// after each step, so removing the node just yielded is safe.
func (nl *NodeList) All() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		if !nl.IsLive() {
			for i, n := range nl.staticNodes {
				if !yield(i, n) {
					return
				}
			}
			return
		}
		a := nl.parent.adapter()
		i := 0
		for c := a.FirstChild(nl.parent.handle); c != nil; i++ {
			next := a.NextSibling(c)
			if !yield(i, nl.parent.wrap(c)) {
				return
			}
			c = next
		}
	}
}

// Values returns the current members as a slice.
func (nl *NodeList) Values() []*Node {
	if !nl.IsLive() {
		out := make([]*Node, len(nl.staticNodes))
		copy(out, nl.staticNodes)
		return out
	}
	var out []*Node
	for _, c := range native.Children(nl.parent.adapter(), nl.parent.handle) {
		out = append(out, nl.parent.wrap(c))
	}
	return out
}
