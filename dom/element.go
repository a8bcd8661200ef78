package dom

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/livedom/native"
)

// Element represents an element in the DOM tree.
type Element Node

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// TagName returns the qualified name, upper-cased for HTML elements of HTML documents.
func (e *Element) TagName() string {
	n := e.AsNode()
	a := n.adapter()
	name := a.Name(n.handle)
	if !n.doc.IsXML() && a.Namespace(n.handle) == "" {
		return strings.ToUpper(name)
	}
	return name
}

// LocalName returns the element name without any prefix, as stored.
func (e *Element) LocalName() string {
	name := e.AsNode().adapter().Name(e.handle)
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// localTag is the lower-case tag used for property table lookups.
func (e *Element) localTag() string {
	n := e.AsNode()
	if n.adapter().Namespace(n.handle) != "" {
		return ""
	}
	return asciiLower(e.LocalName())
}

// attrName normalizes an attribute name for lookup: HTML documents are
// case-insensitive for attributes of HTML elements.
func (e *Element) attrName(name string) string {
	n := e.AsNode()
	if n.doc.IsXML() || n.adapter().Namespace(n.handle) != "" {
		return name
	}
	return asciiLower(name)
}

func (e *Element) Id() string {
	return e.GetAttribute("id")
}

func (e *Element) SetId(id string) {
	e.AsNode().adapter().SetAttribute(e.handle, "id", id)
}

func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

func (e *Element) SetClassName(className string) {
	e.AsNode().adapter().SetAttribute(e.handle, "class", className)
}

// GetAttribute returns the value of the named attribute, or "" if absent.
func (e *Element) GetAttribute(name string) string {
	v, _ := e.LookupAttribute(name)
	return v
}

// LookupAttribute returns the value of the named attribute and whether it is present.
func (e *Element) LookupAttribute(name string) (string, bool) {
	return e.AsNode().adapter().GetAttribute(e.handle, e.attrName(name))
}

// HasAttribute returns true if the element has the named attribute.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.LookupAttribute(name)
	return ok
}

// HasAttributes returns true if the element has any attributes.
func (e *Element) HasAttributes() bool {
	return len(e.AsNode().adapter().Attributes(e.handle)) > 0
}

// GetAttributeNames returns the attribute names in source order.
func (e *Element) GetAttributeNames() []string {
	attrs := e.AsNode().adapter().Attributes(e.handle)
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}

// SetAttribute sets the value of an attribute.
// Returns an InvalidCharacterError if the name is not a valid XML Name.
func (e *Element) SetAttribute(name, value string) error {
	if !isValidXMLName(name) {
		return errInvalidCharacter(fmt.Sprintf("%q is not a valid attribute name.", name))
	}
	e.AsNode().adapter().SetAttribute(e.handle, e.attrName(name), value)
	return nil
}

// RemoveAttribute removes an attribute. An Attr wrapper obtained for it
// earlier keeps its identity and value as a detached attribute.
func (e *Element) RemoveAttribute(name string) {
	e.removeAttr(e.attrName(name))
}

func (e *Element) removeAttr(name string) bool {
	n := e.AsNode()
	a := n.adapter()
	h := a.AttributeHandle(n.handle, name)
	if h == nil {
		return false
	}
	if w := n.registry().lookup(h); w != nil {
		n.registry().rebind(w, a.CreateAttribute(name, a.Data(h)))
	}
	return a.RemoveAttribute(n.handle, name)
}

// ToggleAttribute toggles a boolean attribute and reports whether it is
// present afterwards. force, when given, decides the outcome.
func (e *Element) ToggleAttribute(name string, force ...bool) (bool, error) {
	if !isValidXMLName(name) {
		return false, errInvalidCharacter(fmt.Sprintf("%q is not a valid attribute name.", name))
	}
	present := e.HasAttribute(name)
	want := !present
	if len(force) > 0 {
		want = force[0]
	}
	switch {
	case want && !present:
		e.AsNode().adapter().SetAttribute(e.handle, e.attrName(name), "")
	case !want && present:
		e.RemoveAttribute(name)
	}
	return want, nil
}

// GetAttributeNode returns the Attr for the named attribute, or nil.
func (e *Element) GetAttributeNode(name string) *Attr {
	n := e.AsNode()
	h := n.adapter().AttributeHandle(n.handle, e.attrName(name))
	if h == nil {
		return nil
	}
	return (*Attr)(n.wrap(h))
}

// SetAttributeNode attaches attr to this element and returns the Attr it
// replaced, if any. attr keeps its identity. Attaching an Attr that belongs
// to another element fails with InUseAttributeError.
func (e *Element) SetAttributeNode(attr *Attr) (*Attr, error) {
	if attr == nil {
		return nil, errNotFound("The attribute to be set is null.")
	}
	n, an := e.AsNode(), attr.AsNode()
	a := n.adapter()
	if an.adapter() != a {
		return nil, errHierarchyRequest("The attribute belongs to a tree with a different adapter.")
	}
	owner := a.Parent(an.handle)
	if owner == n.handle {
		n.registry().claim(an)
		return attr, nil
	}
	if owner != nil {
		return nil, errInUseAttribute("The attribute is in use by another element.")
	}

	name, value := a.Name(an.handle), a.Data(an.handle)
	var old *Attr
	if oh := a.AttributeHandle(n.handle, name); oh != nil {
		old = (*Attr)(n.wrap(oh))
		n.registry().rebind(old.AsNode(), a.CreateAttribute(name, a.Data(oh)))
	}
	n.doc.adopt(an)
	a.SetAttribute(n.handle, name, value)
	n.registry().rebind(an, a.AttributeHandle(n.handle, name))
	return old, nil
}

// RemoveAttributeNode detaches attr from this element.
func (e *Element) RemoveAttributeNode(attr *Attr) (*Attr, error) {
	if attr == nil {
		return nil, errNotFound("The attribute to be removed is null.")
	}
	n, an := e.AsNode(), attr.AsNode()
	if an.doc != n.doc || n.adapter().Parent(an.handle) != n.handle {
		return nil, errNotFound("The attribute is not an attribute of this element.")
	}
	n.registry().claim(an)
	e.removeAttr(n.adapter().Name(an.handle))
	return attr, nil
}

// Attributes returns a live NamedNodeMap of the element's attributes.
func (e *Element) Attributes() *NamedNodeMap {
	return &NamedNodeMap{element: e}
}

// ClassList returns a DOMTokenList over the class attribute.
func (e *Element) ClassList() *DOMTokenList {
	return newDOMTokenList(e, "class")
}

// Dataset returns the data-* attributes as a DOMStringMap.
func (e *Element) Dataset() *DOMStringMap {
	return &DOMStringMap{element: e}
}

// Style returns the inline style declaration backed by the style attribute.
func (e *Element) Style() *CSSStyleDeclaration {
	return &CSSStyleDeclaration{element: e}
}

// Matches reports whether the element matches selector.
func (e *Element) Matches(selector string) (bool, error) {
	n := e.AsNode()
	q, err := n.compile(selector)
	if err != nil {
		return false, err
	}
	return q.Test(n.handle), nil
}

// Closest returns the nearest inclusive ancestor element matching selector, or nil.
func (e *Element) Closest(selector string) (*Element, error) {
	n := e.AsNode()
	q, err := n.compile(selector)
	if err != nil {
		return nil, err
	}
	return n.wrap(q.Closest(n.handle)).AsElement(), nil
}

func (e *Element) QuerySelector(selector string) (*Element, error) {
	return e.AsNode().QuerySelector(selector)
}

func (e *Element) QuerySelectorAll(selector string) (*NodeList, error) {
	return e.AsNode().QuerySelectorAll(selector)
}

func (e *Element) GetElementsByTagName(name string) *HTMLCollection {
	return e.AsNode().GetElementsByTagName(name)
}

func (e *Element) GetElementsByClassName(classNames string) *HTMLCollection {
	return e.AsNode().GetElementsByClassName(classNames)
}

func (e *Element) Children() *HTMLCollection {
	return e.AsNode().Children()
}

func (e *Element) FirstElementChild() *Element {
	return e.AsNode().FirstElementChild()
}

func (e *Element) LastElementChild() *Element {
	return e.AsNode().LastElementChild()
}

func (e *Element) ChildElementCount() int {
	return e.AsNode().ChildElementCount()
}

// PreviousElementSibling returns the nearest preceding sibling element, or nil.
func (e *Element) PreviousElementSibling() *Element {
	n := e.AsNode()
	a := n.adapter()
	for s := a.PrevSibling(n.handle); s != nil; s = a.PrevSibling(s) {
		if a.Kind(s) == native.KindElement {
			return n.wrap(s).AsElement()
		}
	}
	return nil
}

// NextElementSibling returns the nearest following sibling element, or nil.
func (e *Element) NextElementSibling() *Element {
	n := e.AsNode()
	a := n.adapter()
	for s := a.NextSibling(n.handle); s != nil; s = a.NextSibling(s) {
		if a.Kind(s) == native.KindElement {
			return n.wrap(s).AsElement()
		}
	}
	return nil
}

// InnerHTML serializes the children of the element.
func (e *Element) InnerHTML() (string, error) {
	n := e.AsNode()
	a := n.adapter()
	var sb strings.Builder
	for c := a.FirstChild(n.handle); c != nil; c = a.NextSibling(c) {
		s, err := a.Serialize(c, n.doc.documentData.mode)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// SetInnerHTML replaces the children of the element with parsed markup.
func (e *Element) SetInnerHTML(markup string) error {
	n := e.AsNode()
	frag, err := n.doc.ParseFragment(markup)
	if err != nil {
		return err
	}
	n.SetTextContent("")
	if err := n.insertHandles(frag.AsNode(), nil); err != nil {
		return err
	}
	frag.Release()
	return nil
}

// OuterHTML serializes the element and its descendants.
func (e *Element) OuterHTML() (string, error) {
	n := e.AsNode()
	return n.adapter().Serialize(n.handle, n.doc.documentData.mode)
}

// Remove detaches the element from its parent.
func (e *Element) Remove() error {
	return e.AsNode().Remove()
}

// Get resolves a derived property of the element.
func (e *Element) Get(name string) (any, error) {
	return e.AsNode().Get(name)
}

// Set assigns a derived property of the element.
func (e *Element) Set(name string, value any) error {
	return e.AsNode().Set(name, value)
}
