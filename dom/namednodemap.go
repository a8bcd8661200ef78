package dom

// NamedNodeMap is the live collection of an element's attributes, used for
// Element.attributes. Items are Attr wrappers resolved through the registry.
type NamedNodeMap struct {
	element *Element
}

// Length returns the number of attributes.
func (nm *NamedNodeMap) Length() int {
	return len(nm.element.AsNode().adapter().Attributes(nm.element.handle))
}

// Item returns the attribute at the given index in source order, or nil.
func (nm *NamedNodeMap) Item(index int) *Attr {
	attrs := nm.element.AsNode().adapter().Attributes(nm.element.handle)
	if index < 0 || index >= len(attrs) {
		return nil
	}
	return nm.element.GetAttributeNode(attrs[index].Name)
}

// GetNamedItem returns the attribute with the given name, or nil.
func (nm *NamedNodeMap) GetNamedItem(name string) *Attr {
	return nm.element.GetAttributeNode(name)
}

// SetNamedItem adds or replaces an attribute and returns the replaced one.
func (nm *NamedNodeMap) SetNamedItem(attr *Attr) (*Attr, error) {
	return nm.element.SetAttributeNode(attr)
}

// RemoveNamedItem removes the named attribute and returns it.
// Returns a NotFoundError if there is no such attribute.
func (nm *NamedNodeMap) RemoveNamedItem(name string) (*Attr, error) {
	attr := nm.element.GetAttributeNode(name)
	if attr == nil {
		return nil, errNotFound("No attribute named '" + name + "' was found.")
	}
	return nm.element.RemoveAttributeNode(attr)
}

// Values returns the attributes in source order.
func (nm *NamedNodeMap) Values() []*Attr {
	attrs := nm.element.AsNode().adapter().Attributes(nm.element.handle)
	out := make([]*Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, nm.element.GetAttributeNode(a.Name))
	}
	return out
}
