package dom

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chrisuehlinger/livedom/native"
)

// Registry maps native handles to their wrapper nodes. Every wrapper handed
// out by a document goes through its registry, so two lookups that reach the
// same native node return the same *Node.
//
// The document's own handle is not stored; Resolve answers it directly.
// A Registry is not safe for concurrent use.
type Registry struct {
	doc     *Document
	entries map[native.Handle]*Node
	logger  zerolog.Logger
}

func newRegistry(doc *Document, logger zerolog.Logger) *Registry {
	return &Registry{
		doc:     doc,
		entries: make(map[native.Handle]*Node),
		logger:  logger,
	}
}

// Resolve returns the wrapper for h, creating and registering it on first
// use. A nil handle resolves to nil. Handles of a kind the registry cannot
// represent fail with a ConfigurationError.
func (r *Registry) Resolve(h native.Handle) (*Node, error) {
	if h == nil {
		return nil, nil
	}
	if h == r.doc.handle {
		return r.doc.AsNode(), nil
	}
	if n, ok := r.entries[h]; ok {
		return n, nil
	}

	kind := r.doc.adapter().Kind(h)
	nt, ok := nodeTypeOf(kind)
	if !ok || nt == DocumentNode {
		return nil, errConfiguration(fmt.Sprintf("cannot wrap a native node of kind %s", kind))
	}
	n := &Node{handle: h, nodeType: nt, doc: r.doc}
	r.entries[h] = n
	r.logger.Trace().Stringer("kind", kind).Int("entries", len(r.entries)).Msg("wrapper created")
	return n, nil
}

// Forget drops the entry for h. The next Resolve of h creates a new wrapper.
func (r *Registry) Forget(h native.Handle) {
	if _, ok := r.entries[h]; !ok {
		return
	}
	delete(r.entries, h)
	r.logger.Trace().Int("entries", len(r.entries)).Msg("wrapper forgotten")
}

// Len returns the number of registered wrappers.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Contains reports whether n is the current wrapper for its handle.
func (r *Registry) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	if n.nodeType == DocumentNode {
		return n == r.doc.AsNode()
	}
	return r.entries[n.handle] == n
}

// lookup returns the registered wrapper for h without creating one.
func (r *Registry) lookup(h native.Handle) *Node {
	if h == nil {
		return nil
	}
	return r.entries[h]
}

// claim makes n the entry for its handle again, replacing whatever wrapper
// was created after n's entry was evicted.
func (r *Registry) claim(n *Node) {
	if n == nil || n.nodeType == DocumentNode {
		return
	}
	if cur, ok := r.entries[n.handle]; ok && cur == n {
		return
	}
	r.entries[n.handle] = n
	r.logger.Trace().Stringer("type", n.nodeType).Msg("wrapper reclaimed")
}

// rebind moves n to a new handle. Used when an attribute changes owner and
// the substrate hands out a different handle for it.
func (r *Registry) rebind(n *Node, h native.Handle) {
	if cur, ok := r.entries[n.handle]; ok && cur == n {
		delete(r.entries, n.handle)
	}
	n.handle = h
	r.entries[h] = n
}

// take moves the entry for h, if any, from another registry into r.
func (r *Registry) take(from *Registry, h native.Handle) {
	n, ok := from.entries[h]
	if !ok {
		return
	}
	delete(from.entries, h)
	n.doc = r.doc
	r.entries[h] = n
}

// adoptSubtree moves the entries for h, its descendants and their attributes
// from another registry into r.
func (r *Registry) adoptSubtree(from *Registry, h native.Handle) {
	a := r.doc.adapter()
	native.Walk(a, h, func(c native.Handle) bool {
		r.take(from, c)
		for _, attr := range a.Attributes(c) {
			r.take(from, a.AttributeHandle(c, attr.Name))
		}
		return true
	})
}

// retain evicts every entry whose handle is not in live and returns the
// number of evicted entries.
func (r *Registry) retain(live map[native.Handle]struct{}) int {
	evicted := 0
	for h := range r.entries {
		if _, ok := live[h]; !ok {
			delete(r.entries, h)
			evicted++
		}
	}
	return evicted
}

func (r *Registry) clear() int {
	n := len(r.entries)
	clear(r.entries)
	return n
}
