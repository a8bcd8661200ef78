package dom

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/livedom/native"
)

// Node is the wrapper for one position in a native tree. Element, Attr, Text,
// Comment, DocumentType, DocumentFragment and Document are views of Node and
// convert to and from it with a plain pointer conversion.
//
// Nodes are only ever created by a document's Registry, so a *Node compares
// equal to every other *Node obtained for the same native node.
type Node struct {
	handle   native.Handle
	nodeType NodeType
	doc      *Document

	// Set only on documents.
	documentData *documentData
}

func (n *Node) adapter() native.Adapter {
	return n.doc.documentData.adapter
}

func (n *Node) registry() *Registry {
	return n.doc.documentData.registry
}

// wrap resolves h through the owner document's registry. Handles produced by
// the adapter always resolve, so a failure here is a programming error.
func (n *Node) wrap(h native.Handle) *Node {
	w, err := n.registry().Resolve(h)
	if err != nil {
		panic(err)
	}
	return w
}

// AsNode returns n, so that *Node satisfies the same interface as its views.
func (n *Node) AsNode() *Node {
	return n
}

// Handle returns the native handle this node wraps.
func (n *Node) Handle() native.Handle {
	return n.handle
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node.
// For elements, this is the tag name (upper case in HTML documents).
// For text nodes, this is "#text".
// For comments, this is "#comment".
// For documents, this is "#document".
// For document fragments, this is "#document-fragment".
func (n *Node) NodeName() string {
	switch n.nodeType {
	case ElementNode:
		return (*Element)(n).TagName()
	case AttributeNode, DocumentTypeNode:
		return n.adapter().Name(n.handle)
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	case DocumentNode:
		return "#document"
	case DocumentFragmentNode:
		return "#document-fragment"
	}
	return ""
}

// hasValue reports whether the node carries character data.
func (n *Node) hasValue() bool {
	switch n.nodeType {
	case TextNode, CommentNode, AttributeNode:
		return true
	}
	return false
}

// NodeValue returns the character data of text, comment and attribute nodes,
// and "" for every other kind.
func (n *Node) NodeValue() string {
	if !n.hasValue() {
		return ""
	}
	return n.adapter().Data(n.handle)
}

// SetNodeValue sets the value of the node.
// This only has an effect on text, comment and attribute nodes.
func (n *Node) SetNodeValue(value string) {
	if n.hasValue() {
		n.adapter().SetData(n.handle, value)
	}
}

// AsElement returns the element view of n, or nil when n is not an element.
func (n *Node) AsElement() *Element {
	if n == nil || n.nodeType != ElementNode {
		return nil
	}
	return (*Element)(n)
}

// OwnerDocument returns the document this node belongs to.
// Documents return nil.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.doc
}

// ParentNode returns the parent of this node. Attributes have no parent.
func (n *Node) ParentNode() *Node {
	if n.nodeType == AttributeNode {
		return nil
	}
	return n.wrap(n.adapter().Parent(n.handle))
}

// ParentElement returns the parent element of this node, or nil.
func (n *Node) ParentElement() *Element {
	return n.ParentNode().AsElement()
}

// ChildNodes returns a live NodeList of the children of this node.
func (n *Node) ChildNodes() *NodeList {
	return newLiveNodeList(n)
}

func (n *Node) FirstChild() *Node {
	return n.wrap(n.adapter().FirstChild(n.handle))
}

func (n *Node) LastChild() *Node {
	return n.wrap(n.adapter().LastChild(n.handle))
}

func (n *Node) PreviousSibling() *Node {
	if n.nodeType == AttributeNode {
		return nil
	}
	return n.wrap(n.adapter().PrevSibling(n.handle))
}

func (n *Node) NextSibling() *Node {
	if n.nodeType == AttributeNode {
		return nil
	}
	return n.wrap(n.adapter().NextSibling(n.handle))
}

func (n *Node) HasChildNodes() bool {
	return n.adapter().FirstChild(n.handle) != nil
}

// IsConnected reports whether the node is in the document's tree.
func (n *Node) IsConnected() bool {
	return native.Root(n.adapter(), n.handle) == n.doc.handle
}

// GetRootNode returns the topmost ancestor of this node.
func (n *Node) GetRootNode() *Node {
	if n.nodeType == AttributeNode {
		return n
	}
	return n.wrap(native.Root(n.adapter(), n.handle))
}

// Contains reports whether other is this node or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	if other == nil {
		return false
	}
	if other.nodeType == AttributeNode {
		return other == n
	}
	a := n.adapter()
	for cur := other.handle; cur != nil; cur = a.Parent(cur) {
		if cur == n.handle {
			return true
		}
	}
	return false
}

// IsSameNode reports whether other is this very node.
func (n *Node) IsSameNode(other *Node) bool {
	return n == other
}

// TextContent returns the text content of the node and its descendants.
// Documents and doctypes return "".
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return ""
	case TextNode, CommentNode, AttributeNode:
		return n.NodeValue()
	}
	a := n.adapter()
	var sb strings.Builder
	native.Walk(a, n.handle, func(h native.Handle) bool {
		if a.Kind(h) == native.KindText {
			sb.WriteString(a.Data(h))
		}
		return true
	})
	return sb.String()
}

// SetTextContent replaces the children of elements and fragments with a
// single text node, or sets the data of character nodes.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case TextNode, CommentNode, AttributeNode:
		n.SetNodeValue(value)
		return
	case ElementNode, DocumentFragmentNode:
	default:
		return
	}
	a := n.adapter()
	for _, c := range native.Children(a, n.handle) {
		_ = a.RemoveChild(n.handle, c)
	}
	if value != "" {
		_ = a.InsertBefore(n.handle, a.CreateText(value), nil)
	}
}

// AppendChild adds a node to the end of the list of children of this node.
// Returns an error if the operation violates DOM hierarchy constraints.
func (n *Node) AppendChild(child *Node) (*Node, error) {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts a node before a reference child node.
// If refChild is nil, the node is appended to the end. Inserting a
// DocumentFragment moves its children and leaves the fragment empty.
func (n *Node) InsertBefore(newChild, refChild *Node) (*Node, error) {
	if err := n.validatePreInsertion(newChild, refChild); err != nil {
		return nil, err
	}
	var ref native.Handle
	if refChild != nil {
		n.registry().claim(refChild)
		ref = refChild.handle
		if refChild == newChild {
			ref = n.adapter().NextSibling(newChild.handle)
		}
	}
	n.doc.adopt(newChild)
	if err := n.insertHandles(newChild, ref); err != nil {
		return nil, err
	}
	return newChild, nil
}

// insertHandles links node (or the children of a fragment) under n before ref.
func (n *Node) insertHandles(node *Node, ref native.Handle) error {
	a := n.adapter()
	if node.nodeType == DocumentFragmentNode {
		for _, c := range native.Children(a, node.handle) {
			if err := a.RemoveChild(node.handle, c); err != nil {
				return fmt.Errorf("dom: move fragment child: %w", err)
			}
			if err := a.InsertBefore(n.handle, c, ref); err != nil {
				return fmt.Errorf("dom: move fragment child: %w", err)
			}
		}
		return nil
	}
	if p := a.Parent(node.handle); p != nil {
		if err := a.RemoveChild(p, node.handle); err != nil {
			return fmt.Errorf("dom: detach: %w", err)
		}
	}
	if err := a.InsertBefore(n.handle, node.handle, ref); err != nil {
		return fmt.Errorf("dom: insert: %w", err)
	}
	return nil
}

// RemoveChild removes a child node from this node.
// Returns an error if the child is not a child of this node.
func (n *Node) RemoveChild(child *Node) (*Node, error) {
	if child == nil {
		return nil, errNotFound("The node to be removed is null.")
	}
	if !n.isParentOf(child) {
		return nil, errNotFound("The node to be removed is not a child of this node.")
	}
	n.registry().claim(child)
	if err := n.adapter().RemoveChild(n.handle, child.handle); err != nil {
		return nil, fmt.Errorf("dom: remove: %w", err)
	}
	return child, nil
}

// ReplaceChild replaces oldChild with newChild and returns oldChild.
func (n *Node) ReplaceChild(newChild, oldChild *Node) (*Node, error) {
	if oldChild == nil {
		return nil, errNotFound("The node to be replaced is null.")
	}
	if err := n.validatePreReplace(newChild, oldChild); err != nil {
		return nil, err
	}
	if newChild == oldChild {
		return oldChild, nil
	}

	a := n.adapter()
	ref := a.NextSibling(oldChild.handle)
	if ref == newChild.handle {
		ref = a.NextSibling(newChild.handle)
	}
	n.registry().claim(oldChild)
	n.doc.adopt(newChild)
	if err := a.RemoveChild(n.handle, oldChild.handle); err != nil {
		return nil, fmt.Errorf("dom: replace: %w", err)
	}
	if err := n.insertHandles(newChild, ref); err != nil {
		return nil, err
	}
	return oldChild, nil
}

// Remove detaches the node from its parent, if it has one.
func (n *Node) Remove() error {
	p := n.ParentNode()
	if p == nil {
		return nil
	}
	_, err := p.RemoveChild(n)
	return err
}

// CloneNode creates a copy of this node.
// If deep is true, all descendants are also cloned.
func (n *Node) CloneNode(deep bool) *Node {
	switch n.nodeType {
	case DocumentNode:
		return (*Document)(n).clone(deep).AsNode()
	case DocumentFragmentNode:
		c := n.wrap(n.adapter().Clone(n.handle, deep))
		n.doc.track(c.handle)
		return c
	}
	return n.wrap(n.adapter().Clone(n.handle, deep))
}

func (n *Node) isParentOf(child *Node) bool {
	return child.nodeType != AttributeNode && n.adapter().Parent(child.handle) == n.handle
}

// validatePreInsertion implements the pre-insertion validation steps from the DOM spec.
// https://dom.spec.whatwg.org/#concept-node-pre-insert
func (n *Node) validatePreInsertion(node, child *Node) error {
	return n.validatePreInsertionOrReplace(node, child, false)
}

func (n *Node) validatePreReplace(node, child *Node) error {
	return n.validatePreInsertionOrReplace(node, child, true)
}

func (n *Node) validatePreInsertionOrReplace(node, child *Node, isReplace bool) error {
	if !n.canHaveChildren() {
		return errHierarchyRequest("The operation would yield an incorrect node tree.")
	}
	if node == nil {
		return errHierarchyRequest("The node to be inserted is null.")
	}
	if node.adapter() != n.adapter() {
		return errHierarchyRequest("The node belongs to a tree with a different adapter.")
	}
	if n.isInclusiveAncestor(node) {
		return errHierarchyRequest("The new child element contains the parent.")
	}
	if child != nil && !n.isParentOf(child) {
		return errNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	if !isValidChildType(node) {
		return errHierarchyRequest("The operation would yield an incorrect node tree.")
	}
	if node.nodeType == TextNode && n.nodeType == DocumentNode {
		return errHierarchyRequest("Cannot insert Text node as a direct child of Document.")
	}
	if node.nodeType == DocumentTypeNode && n.nodeType != DocumentNode {
		return errHierarchyRequest("DocumentType nodes can only be children of Document.")
	}
	if n.nodeType == DocumentNode {
		return n.validateDocumentInsertionOrReplace(node, child, isReplace)
	}
	return nil
}

func (n *Node) canHaveChildren() bool {
	switch n.nodeType {
	case DocumentNode, DocumentFragmentNode, ElementNode:
		return true
	default:
		return false
	}
}

// isInclusiveAncestor returns true if node is this node or an ancestor of this node.
func (n *Node) isInclusiveAncestor(node *Node) bool {
	a := n.adapter()
	for cur := n.handle; cur != nil; cur = a.Parent(cur) {
		if cur == node.handle {
			return true
		}
	}
	return false
}

func isValidChildType(node *Node) bool {
	switch node.nodeType {
	case DocumentFragmentNode, DocumentTypeNode, ElementNode, TextNode, CommentNode:
		return true
	default:
		return false
	}
}

// validateDocumentInsertionOrReplace performs validation for inserting into a Document node.
// The child parameter is the reference child for insertBefore, or the child being replaced for replaceChild.
// When isReplace is true, child is excluded from counts since it will be replaced.
func (n *Node) validateDocumentInsertionOrReplace(node, child *Node, isReplace bool) error {
	a := n.adapter()
	var exclude, ref native.Handle
	if child != nil {
		ref = child.handle
		if isReplace {
			exclude = child.handle
		}
	}

	checkElement := func() error {
		if n.hasChildKind(native.KindElement, exclude) {
			return errHierarchyRequest("Document already has a document element.")
		}
		if child != nil && !(isReplace && child.nodeType == ElementNode) {
			if child.nodeType == DocumentTypeNode || n.doctypeFollows(ref) {
				return errHierarchyRequest("Cannot insert element before doctype.")
			}
		}
		return nil
	}

	switch node.nodeType {
	case DocumentFragmentNode:
		elements := 0
		for c := a.FirstChild(node.handle); c != nil; c = a.NextSibling(c) {
			switch a.Kind(c) {
			case native.KindElement:
				elements++
			case native.KindText:
				return errHierarchyRequest("Cannot insert Text node as a direct child of Document.")
			}
		}
		if elements > 1 {
			return errHierarchyRequest("Document can have only one element child.")
		}
		if elements == 1 {
			return checkElement()
		}
	case ElementNode:
		return checkElement()
	case DocumentTypeNode:
		if n.hasChildKind(native.KindDoctype, exclude) {
			return errHierarchyRequest("Document already has a doctype.")
		}
		if n.hasChildKind(native.KindElement, exclude) {
			if child == nil || n.elementPrecedes(ref, exclude) {
				return errHierarchyRequest("Cannot insert doctype after document element.")
			}
		}
	}
	return nil
}

// hasChildKind reports whether n has a child of kind k other than exclude.
func (n *Node) hasChildKind(k native.Kind, exclude native.Handle) bool {
	a := n.adapter()
	for c := a.FirstChild(n.handle); c != nil; c = a.NextSibling(c) {
		if c != exclude && a.Kind(c) == k {
			return true
		}
	}
	return false
}

// doctypeFollows returns true if there is a doctype node following child.
func (n *Node) doctypeFollows(child native.Handle) bool {
	a := n.adapter()
	for c := a.NextSibling(child); c != nil; c = a.NextSibling(c) {
		if a.Kind(c) == native.KindDoctype {
			return true
		}
	}
	return false
}

// elementPrecedes reports whether an element other than exclude comes before child.
func (n *Node) elementPrecedes(child, exclude native.Handle) bool {
	a := n.adapter()
	for c := a.FirstChild(n.handle); c != nil && c != child; c = a.NextSibling(c) {
		if c != exclude && a.Kind(c) == native.KindElement {
			return true
		}
	}
	return false
}
