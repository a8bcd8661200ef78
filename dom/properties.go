package dom

import (
	"fmt"
	"math"
	"strconv"
)

// Scope names one property table. Lookups on a node try the tag scope of an
// element first, then the scope of its node type, then ScopeNode.
type Scope string

const (
	ScopeNode     Scope = "node"
	ScopeElement  Scope = "element"
	ScopeDocument Scope = "document"
	ScopeFragment Scope = "fragment"
	ScopeText     Scope = "text"
	ScopeComment  Scope = "comment"
	ScopeAttr     Scope = "attr"
)

// TagScope returns the scope of properties specific to elements with the
// given local name, such as "input" or "select".
func TagScope(tag string) Scope {
	return Scope("tag:" + asciiLower(tag))
}

// Property is a derived property. A nil Set makes the property read-only.
//
// Getters return strings, bools, ints, *Node for single nodes (untyped nil
// when absent), the collection types of this package, or a Method.
type Property struct {
	Get func(n *Node) (any, error)
	Set func(n *Node, value any) error
}

// Method is the value of a callable property such as "matches" or
// "appendChild". Node arguments may be any node view.
type Method func(args ...any) (any, error)

type propertyTable map[Scope]map[string]Property

func (t propertyTable) add(scope Scope, name string, p Property) {
	m, ok := t[scope]
	if !ok {
		m = make(map[string]Property)
		t[scope] = m
	}
	m[name] = p
}

func (t propertyTable) addAll(scope Scope, props map[string]Property) {
	for name, p := range props {
		t.add(scope, name, p)
	}
}

func newPropertyTable(custom []customProperty) propertyTable {
	t := make(propertyTable)
	t.addAll(ScopeNode, nodeProperties())
	for _, s := range []Scope{ScopeElement, ScopeDocument, ScopeFragment} {
		t.addAll(s, parentNodeProperties())
	}
	t.addAll(ScopeElement, elementProperties())
	t.addAll(ScopeDocument, documentProperties())
	t.add(ScopeFragment, "getElementById", method(func(n *Node, args []any) (any, error) {
		return elementValue(n.getElementByID(argString(args, 0))), nil
	}))
	t.addAll(ScopeText, characterDataProperties())
	t.add(ScopeText, "wholeText", getter(func(n *Node) any { return (*Text)(n).WholeText() }))
	t.addAll(ScopeComment, characterDataProperties())
	t.addAll(ScopeAttr, attrProperties())
	for tag, props := range formProperties() {
		t.addAll(TagScope(tag), props)
	}
	for _, c := range custom {
		t.add(c.scope, c.name, c.prop)
	}
	return t
}

func scopeOf(t NodeType) Scope {
	switch t {
	case ElementNode:
		return ScopeElement
	case DocumentNode:
		return ScopeDocument
	case DocumentFragmentNode:
		return ScopeFragment
	case TextNode:
		return ScopeText
	case CommentNode:
		return ScopeComment
	case AttributeNode:
		return ScopeAttr
	}
	return ScopeNode
}

func (t propertyTable) lookup(n *Node, name string) (Property, bool) {
	if el := n.AsElement(); el != nil {
		if tag := el.localTag(); tag != "" {
			if p, ok := t[TagScope(tag)][name]; ok {
				return p, true
			}
		}
	}
	if p, ok := t[scopeOf(n.nodeType)][name]; ok {
		return p, true
	}
	p, ok := t[ScopeNode][name]
	return p, ok
}

// Get resolves a derived property by name. Names without a registered
// property read the attribute of the same name on elements, and nil
// elsewhere or when the attribute is absent.
func (n *Node) Get(name string) (any, error) {
	if p, ok := n.doc.documentData.props.lookup(n, name); ok && p.Get != nil {
		return p.Get(n)
	}
	if el := n.AsElement(); el != nil {
		if v, ok := el.LookupAttribute(name); ok {
			return v, nil
		}
	}
	return nil, nil
}

// HasProperty reports whether Get resolves name to something: a registered
// property, or on elements an attribute that is present.
func (n *Node) HasProperty(name string) bool {
	if _, ok := n.doc.documentData.props.lookup(n, name); ok {
		return true
	}
	if el := n.AsElement(); el != nil {
		return el.HasAttribute(name)
	}
	return false
}

// Set assigns a derived property by name. A registered property without a
// setter fails with ReadOnlyPropertyError. Unregistered names set the
// attribute of the same name on elements and fail with
// UnsupportedOperationError on other nodes.
func (n *Node) Set(name string, value any) error {
	if p, ok := n.doc.documentData.props.lookup(n, name); ok {
		if p.Set == nil {
			return errReadOnly(name)
		}
		return p.Set(n, value)
	}
	if el := n.AsElement(); el != nil {
		return el.SetAttribute(name, toString(value))
	}
	return errUnsupported(fmt.Sprintf("Cannot set property %q on a %s node.", name, n.nodeType))
}

func getter(fn func(n *Node) any) Property {
	return Property{Get: func(n *Node) (any, error) { return fn(n), nil }}
}

func method(fn func(n *Node, args []any) (any, error)) Property {
	return Property{Get: func(n *Node) (any, error) {
		return Method(func(args ...any) (any, error) { return fn(n, args) }), nil
	}}
}

// reflectString is an element property mirroring a string attribute.
func reflectString(attr string) Property {
	return Property{
		Get: func(n *Node) (any, error) { return n.AsElement().GetAttribute(attr), nil },
		Set: func(n *Node, v any) error { return n.AsElement().SetAttribute(attr, toString(v)) },
	}
}

// reflectBool is an element property mirroring a boolean attribute.
func reflectBool(attr string) Property {
	return Property{
		Get: func(n *Node) (any, error) { return n.AsElement().HasAttribute(attr), nil },
		Set: func(n *Node, v any) error {
			_, err := n.AsElement().ToggleAttribute(attr, toBool(v))
			return err
		},
	}
}

// nodeValue converts a possibly nil node into a property value, keeping
// "no node" an untyped nil.
func nodeValue(n *Node) any {
	if n == nil {
		return nil
	}
	return n
}

func elementValue(e *Element) any {
	if e == nil {
		return nil
	}
	return e.AsNode()
}

func toBool(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "false"
	case int:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	}
	return true
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	return fmt.Sprint(v)
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case string:
		i, err := strconv.Atoi(x)
		return i, err == nil
	}
	return 0, false
}

// toNode accepts a *Node or any node view.
func toNode(v any) (*Node, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case *Node:
		return x, true
	case interface{ AsNode() *Node }:
		return x.AsNode(), true
	}
	return nil, false
}

func argString(args []any, i int) string {
	if i >= len(args) {
		return ""
	}
	return toString(args[i])
}

func argNode(args []any, i int) (*Node, error) {
	if i >= len(args) {
		return nil, nil
	}
	n, ok := toNode(args[i])
	if !ok {
		return nil, errHierarchyRequest(fmt.Sprintf("Argument %d is not a node.", i+1))
	}
	return n, nil
}

func argBool(args []any, i int) (bool, bool) {
	if i >= len(args) || args[i] == nil {
		return false, false
	}
	return toBool(args[i]), true
}

func nodeProperties() map[string]Property {
	return map[string]Property{
		"nodeType": getter(func(n *Node) any { return int(n.NodeType()) }),
		"nodeName": getter(func(n *Node) any { return n.NodeName() }),
		"nodeValue": {
			Get: func(n *Node) (any, error) {
				if !n.hasValue() {
					return nil, nil
				}
				return n.NodeValue(), nil
			},
			Set: func(n *Node, v any) error {
				n.SetNodeValue(toString(v))
				return nil
			},
		},
		"textContent": {
			Get: func(n *Node) (any, error) {
				if n.nodeType == DocumentNode || n.nodeType == DocumentTypeNode {
					return nil, nil
				}
				return n.TextContent(), nil
			},
			Set: func(n *Node, v any) error {
				n.SetTextContent(toString(v))
				return nil
			},
		},
		"parentNode":      getter(func(n *Node) any { return nodeValue(n.ParentNode()) }),
		"parentElement":   getter(func(n *Node) any { return elementValue(n.ParentElement()) }),
		"childNodes":      getter(func(n *Node) any { return n.ChildNodes() }),
		"firstChild":      getter(func(n *Node) any { return nodeValue(n.FirstChild()) }),
		"lastChild":       getter(func(n *Node) any { return nodeValue(n.LastChild()) }),
		"previousSibling": getter(func(n *Node) any { return nodeValue(n.PreviousSibling()) }),
		"nextSibling":     getter(func(n *Node) any { return nodeValue(n.NextSibling()) }),
		"ownerDocument": getter(func(n *Node) any {
			if d := n.OwnerDocument(); d != nil {
				return d.AsNode()
			}
			return nil
		}),
		"isConnected": getter(func(n *Node) any { return n.IsConnected() }),
		"hasChildNodes": method(func(n *Node, _ []any) (any, error) {
			return n.HasChildNodes(), nil
		}),
		"appendChild": method(func(n *Node, args []any) (any, error) {
			child, err := argNode(args, 0)
			if err != nil {
				return nil, err
			}
			return nodeResult(n.AppendChild(child))
		}),
		"insertBefore": method(func(n *Node, args []any) (any, error) {
			child, err := argNode(args, 0)
			if err != nil {
				return nil, err
			}
			ref, err := argNode(args, 1)
			if err != nil {
				return nil, err
			}
			return nodeResult(n.InsertBefore(child, ref))
		}),
		"removeChild": method(func(n *Node, args []any) (any, error) {
			child, err := argNode(args, 0)
			if err != nil {
				return nil, err
			}
			return nodeResult(n.RemoveChild(child))
		}),
		"replaceChild": method(func(n *Node, args []any) (any, error) {
			newChild, err := argNode(args, 0)
			if err != nil {
				return nil, err
			}
			oldChild, err := argNode(args, 1)
			if err != nil {
				return nil, err
			}
			return nodeResult(n.ReplaceChild(newChild, oldChild))
		}),
		"cloneNode": method(func(n *Node, args []any) (any, error) {
			deep, _ := argBool(args, 0)
			return n.CloneNode(deep), nil
		}),
		"contains": method(func(n *Node, args []any) (any, error) {
			other, err := argNode(args, 0)
			if err != nil {
				return nil, err
			}
			return n.Contains(other), nil
		}),
		"isSameNode": method(func(n *Node, args []any) (any, error) {
			other, err := argNode(args, 0)
			if err != nil {
				return nil, err
			}
			return n.IsSameNode(other), nil
		}),
		"getRootNode": method(func(n *Node, _ []any) (any, error) {
			return n.GetRootNode(), nil
		}),
	}
}

func nodeResult(n *Node, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return nodeValue(n), nil
}

func elementResult(e *Element, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return elementValue(e), nil
}

func parentNodeProperties() map[string]Property {
	return map[string]Property{
		"children":          getter(func(n *Node) any { return n.Children() }),
		"firstElementChild": getter(func(n *Node) any { return elementValue(n.FirstElementChild()) }),
		"lastElementChild":  getter(func(n *Node) any { return elementValue(n.LastElementChild()) }),
		"childElementCount": getter(func(n *Node) any { return n.ChildElementCount() }),
		"querySelector": method(func(n *Node, args []any) (any, error) {
			return elementResult(n.QuerySelector(argString(args, 0)))
		}),
		"querySelectorAll": method(func(n *Node, args []any) (any, error) {
			list, err := n.QuerySelectorAll(argString(args, 0))
			if err != nil {
				return nil, err
			}
			return list, nil
		}),
		"getElementsByTagName": method(func(n *Node, args []any) (any, error) {
			return n.GetElementsByTagName(argString(args, 0)), nil
		}),
		"getElementsByClassName": method(func(n *Node, args []any) (any, error) {
			return n.GetElementsByClassName(argString(args, 0)), nil
		}),
	}
}

func elementProperties() map[string]Property {
	el := func(n *Node) *Element { return n.AsElement() }
	return map[string]Property{
		"tagName":   getter(func(n *Node) any { return el(n).TagName() }),
		"localName": getter(func(n *Node) any { return el(n).LocalName() }),
		"id":        reflectString("id"),
		"className": reflectString("class"),
		"title":     reflectString("title"),
		"lang":      reflectString("lang"),
		"dir":       reflectString("dir"),
		"hidden":    reflectBool("hidden"),
		"classList": {
			Get: func(n *Node) (any, error) { return el(n).ClassList(), nil },
			Set: func(n *Node, v any) error {
				el(n).ClassList().SetValue(toString(v))
				return nil
			},
		},
		"dataset":    getter(func(n *Node) any { return el(n).Dataset() }),
		"attributes": getter(func(n *Node) any { return el(n).Attributes() }),
		"style": {
			Get: func(n *Node) (any, error) { return el(n).Style(), nil },
			Set: func(n *Node, v any) error {
				el(n).Style().SetCSSText(toString(v))
				return nil
			},
		},
		"innerHTML": {
			Get: func(n *Node) (any, error) { return el(n).InnerHTML() },
			Set: func(n *Node, v any) error { return el(n).SetInnerHTML(toString(v)) },
		},
		"outerHTML":              {Get: func(n *Node) (any, error) { return el(n).OuterHTML() }},
		"previousElementSibling": getter(func(n *Node) any { return elementValue(el(n).PreviousElementSibling()) }),
		"nextElementSibling":     getter(func(n *Node) any { return elementValue(el(n).NextElementSibling()) }),
		"matches": method(func(n *Node, args []any) (any, error) {
			return el(n).Matches(argString(args, 0))
		}),
		"closest": method(func(n *Node, args []any) (any, error) {
			return elementResult(el(n).Closest(argString(args, 0)))
		}),
		"getAttribute": method(func(n *Node, args []any) (any, error) {
			if v, ok := el(n).LookupAttribute(argString(args, 0)); ok {
				return v, nil
			}
			return nil, nil
		}),
		"setAttribute": method(func(n *Node, args []any) (any, error) {
			return nil, el(n).SetAttribute(argString(args, 0), argString(args, 1))
		}),
		"removeAttribute": method(func(n *Node, args []any) (any, error) {
			el(n).RemoveAttribute(argString(args, 0))
			return nil, nil
		}),
		"hasAttribute": method(func(n *Node, args []any) (any, error) {
			return el(n).HasAttribute(argString(args, 0)), nil
		}),
		"hasAttributes": method(func(n *Node, _ []any) (any, error) {
			return el(n).HasAttributes(), nil
		}),
		"toggleAttribute": method(func(n *Node, args []any) (any, error) {
			if force, ok := argBool(args, 1); ok {
				return el(n).ToggleAttribute(argString(args, 0), force)
			}
			return el(n).ToggleAttribute(argString(args, 0))
		}),
		"getAttributeNames": method(func(n *Node, _ []any) (any, error) {
			return el(n).GetAttributeNames(), nil
		}),
		"getAttributeNode": method(func(n *Node, args []any) (any, error) {
			if a := el(n).GetAttributeNode(argString(args, 0)); a != nil {
				return a.AsNode(), nil
			}
			return nil, nil
		}),
		"setAttributeNode": method(func(n *Node, args []any) (any, error) {
			a, err := argNode(args, 0)
			if err != nil {
				return nil, err
			}
			if a == nil || a.nodeType != AttributeNode {
				return nil, errHierarchyRequest("The node provided is not an attribute.")
			}
			old, err := el(n).SetAttributeNode((*Attr)(a))
			if err != nil || old == nil {
				return nil, err
			}
			return old.AsNode(), nil
		}),
		"removeAttributeNode": method(func(n *Node, args []any) (any, error) {
			a, err := argNode(args, 0)
			if err != nil {
				return nil, err
			}
			if a == nil || a.nodeType != AttributeNode {
				return nil, errNotFound("The node provided is not an attribute.")
			}
			if _, err := el(n).RemoveAttributeNode((*Attr)(a)); err != nil {
				return nil, err
			}
			return a, nil
		}),
		"remove": method(func(n *Node, _ []any) (any, error) {
			return nil, n.Remove()
		}),
	}
}

func documentProperties() map[string]Property {
	doc := func(n *Node) *Document { return (*Document)(n) }
	return map[string]Property{
		"documentElement": getter(func(n *Node) any { return elementValue(doc(n).DocumentElement()) }),
		"head":            getter(func(n *Node) any { return elementValue(doc(n).Head()) }),
		"body":            getter(func(n *Node) any { return elementValue(doc(n).Body()) }),
		"doctype": getter(func(n *Node) any {
			if dt := doc(n).Doctype(); dt != nil {
				return dt.AsNode()
			}
			return nil
		}),
		"title": {
			Get: func(n *Node) (any, error) { return doc(n).Title(), nil },
			Set: func(n *Node, v any) error { return doc(n).SetTitle(toString(v)) },
		},
		"forms":   getter(func(n *Node) any { return doc(n).Forms() }),
		"images":  getter(func(n *Node) any { return doc(n).Images() }),
		"anchors": getter(func(n *Node) any { return doc(n).Anchors() }),
		"links":   getter(func(n *Node) any { return doc(n).Links() }),
		"getElementById": method(func(n *Node, args []any) (any, error) {
			return elementValue(doc(n).GetElementById(argString(args, 0))), nil
		}),
		"getElementsByName": method(func(n *Node, args []any) (any, error) {
			return doc(n).GetElementsByName(argString(args, 0)), nil
		}),
		"createElement": method(func(n *Node, args []any) (any, error) {
			return elementResult(doc(n).CreateElement(argString(args, 0)))
		}),
		"createTextNode": method(func(n *Node, args []any) (any, error) {
			return doc(n).CreateTextNode(argString(args, 0)).AsNode(), nil
		}),
		"createComment": method(func(n *Node, args []any) (any, error) {
			return doc(n).CreateComment(argString(args, 0)).AsNode(), nil
		}),
		"createDocumentFragment": method(func(n *Node, _ []any) (any, error) {
			return doc(n).CreateDocumentFragment().AsNode(), nil
		}),
		"createAttribute": method(func(n *Node, args []any) (any, error) {
			a, err := doc(n).CreateAttribute(argString(args, 0))
			if err != nil {
				return nil, err
			}
			return a.AsNode(), nil
		}),
	}
}

func characterDataProperties() map[string]Property {
	return map[string]Property{
		"data": {
			Get: func(n *Node) (any, error) { return n.data(), nil },
			Set: func(n *Node, v any) error {
				n.SetNodeValue(toString(v))
				return nil
			},
		},
		"length": getter(func(n *Node) any { return n.dataLength() }),
	}
}

func attrProperties() map[string]Property {
	attr := func(n *Node) *Attr { return (*Attr)(n) }
	return map[string]Property{
		"name":      getter(func(n *Node) any { return attr(n).Name() }),
		"localName": getter(func(n *Node) any { return attr(n).LocalName() }),
		"value": {
			Get: func(n *Node) (any, error) { return attr(n).Value(), nil },
			Set: func(n *Node, v any) error {
				attr(n).SetValue(toString(v))
				return nil
			},
		},
		"ownerElement": getter(func(n *Node) any { return elementValue(attr(n).OwnerElement()) }),
		"specified":    getter(func(n *Node) any { return attr(n).Specified() }),
	}
}
