package dom

import (
	"slices"
	"strings"

	"github.com/chrisuehlinger/livedom/native"
)

// Form controls keep all of their state in attributes: checked, selected
// and value are read from and written to the markup, so serializing the
// document shows what scripts set.

var inputTypes = []string{
	"hidden", "text", "search", "tel", "url", "email", "password", "date",
	"month", "week", "time", "datetime-local", "number", "range", "color",
	"checkbox", "radio", "file", "submit", "image", "reset", "button",
}

// listedTags are the elements that appear in form.elements.
var listedTags = []string{"button", "fieldset", "input", "object", "output", "select", "textarea"}

func inputType(e *Element) string {
	t := asciiLower(e.GetAttribute("type"))
	if slices.Contains(inputTypes, t) {
		return t
	}
	return "text"
}

// formOwner returns the form a control belongs to: the element named by its
// form attribute if there is one, otherwise the nearest ancestor form.
func formOwner(a native.Adapter, h native.Handle) native.Handle {
	if id, ok := a.GetAttribute(h, "form"); ok {
		var found native.Handle
		native.Walk(a, native.Root(a, h), func(c native.Handle) bool {
			if found != nil {
				return false
			}
			if a.Kind(c) == native.KindElement {
				if v, ok := a.GetAttribute(c, "id"); ok && v == id {
					found = c
					return false
				}
			}
			return true
		})
		if found != nil && isHTMLElement(a, found, "form") {
			return found
		}
		return nil
	}
	for p := a.Parent(h); p != nil; p = a.Parent(p) {
		if isHTMLElement(a, p, "form") {
			return p
		}
	}
	return nil
}

// FormOwner returns the form element associated with a form control, or nil.
func (e *Element) FormOwner() *Element {
	n := e.AsNode()
	return n.wrap(formOwner(n.adapter(), n.handle)).AsElement()
}

// radioGroup returns the other radio inputs sharing e's name and form owner.
func radioGroup(e *Element) []native.Handle {
	n := e.AsNode()
	a := n.adapter()
	name := e.GetAttribute("name")
	if name == "" {
		return nil
	}
	owner := formOwner(a, n.handle)
	var group []native.Handle
	native.Walk(a, native.Root(a, n.handle), func(h native.Handle) bool {
		if h == n.handle || !isHTMLElement(a, h, "input") {
			return true
		}
		if t, _ := a.GetAttribute(h, "type"); asciiLower(t) != "radio" {
			return true
		}
		if v, ok := a.GetAttribute(h, "name"); !ok || v != name {
			return true
		}
		if formOwner(a, h) == owner {
			group = append(group, h)
		}
		return true
	})
	return group
}

// setChecked sets or clears the checked attribute. Checking a radio button
// first unchecks every other button of its group.
func setChecked(e *Element, checked bool) {
	if !checked {
		e.removeAttr("checked")
		return
	}
	if inputType(e) == "radio" {
		n := e.AsNode()
		for _, h := range radioGroup(e) {
			n.wrap(h).AsElement().removeAttr("checked")
		}
	}
	e.AsNode().adapter().SetAttribute(e.handle, "checked", "")
}

// ownerSelect returns the select an option belongs to, directly or through
// an optgroup.
func ownerSelect(a native.Adapter, option native.Handle) native.Handle {
	p := a.Parent(option)
	if p != nil && isHTMLElement(a, p, "optgroup") {
		p = a.Parent(p)
	}
	if p != nil && isHTMLElement(a, p, "select") {
		return p
	}
	return nil
}

// options returns the live options of a select in tree order.
func options(sel *Element) *HTMLCollection {
	n := sel.AsNode()
	a := n.adapter()
	return newDescendantCollection(n, func(h native.Handle) bool {
		return isHTMLElement(a, h, "option") && ownerSelect(a, h) == n.handle
	})
}

func selectedOptions(sel *Element) *HTMLCollection {
	n := sel.AsNode()
	a := n.adapter()
	return newDescendantCollection(n, func(h native.Handle) bool {
		if !isHTMLElement(a, h, "option") || ownerSelect(a, h) != n.handle {
			return false
		}
		return optionSelected(n.wrap(h).AsElement())
	})
}

// implicitOption returns the option a single-selection select reports as
// selected when none carries the selected attribute: its first option.
func implicitOption(sel *Element) *Element {
	if isMultiple(sel) {
		return nil
	}
	opts := options(sel).Values()
	for _, o := range opts {
		if o.HasAttribute("selected") {
			return nil
		}
	}
	if len(opts) == 0 {
		return nil
	}
	return opts[0]
}

// optionSelected reports the selectedness of an option: its selected
// attribute, or being the implicit choice of its select.
func optionSelected(opt *Element) bool {
	if opt.HasAttribute("selected") {
		return true
	}
	n := opt.AsNode()
	sel := ownerSelect(n.adapter(), n.handle)
	if sel == nil {
		return false
	}
	return implicitOption(n.wrap(sel).AsElement()) == opt
}

// setSelected sets or clears the selected attribute of an option. Selecting
// an option of a single-selection select deselects its other options.
func setSelected(opt *Element, selected bool) {
	if !selected {
		opt.removeAttr("selected")
		return
	}
	n := opt.AsNode()
	a := n.adapter()
	if sel := ownerSelect(a, n.handle); sel != nil {
		if _, multiple := a.GetAttribute(sel, "multiple"); !multiple {
			for _, o := range options(n.wrap(sel).AsElement()).Values() {
				if o.handle != opt.handle {
					o.removeAttr("selected")
				}
			}
		}
	}
	a.SetAttribute(n.handle, "selected", "")
}

func optionText(opt *Element) string {
	return strings.Join(splitTokens(opt.AsNode().TextContent()), " ")
}

func optionValue(opt *Element) string {
	if v, ok := opt.LookupAttribute("value"); ok {
		return v
	}
	return optionText(opt)
}

func isMultiple(sel *Element) bool {
	return sel.HasAttribute("multiple")
}

// selectedIndex is the index of the first selected option. A single-selection
// select with options and none selected reports its first option.
func selectedIndex(sel *Element) int {
	opts := options(sel).Values()
	for i, o := range opts {
		if o.HasAttribute("selected") {
			return i
		}
	}
	if len(opts) > 0 && !isMultiple(sel) {
		return 0
	}
	return -1
}

func selectValue(sel *Element) string {
	i := selectedIndex(sel)
	if i < 0 {
		return ""
	}
	return optionValue(options(sel).Item(i))
}

// setSelectValue selects the first option whose value is value and deselects
// the rest. When nothing matches, every option ends up deselected.
func setSelectValue(sel *Element, value string) {
	matched := false
	for _, o := range options(sel).Values() {
		if !matched && optionValue(o) == value {
			matched = true
			o.AsNode().adapter().SetAttribute(o.handle, "selected", "")
			continue
		}
		o.removeAttr("selected")
	}
}

func setSelectedIndex(sel *Element, index int) {
	for i, o := range options(sel).Values() {
		if i == index {
			o.AsNode().adapter().SetAttribute(o.handle, "selected", "")
			continue
		}
		o.removeAttr("selected")
	}
}

func optionIndex(opt *Element) int {
	n := opt.AsNode()
	sel := ownerSelect(n.adapter(), n.handle)
	if sel == nil {
		return 0
	}
	return max(slices.IndexFunc(options(n.wrap(sel).AsElement()).Values(), func(o *Element) bool {
		return o.handle == opt.handle
	}), 0)
}

// formElements returns the listed controls owned by form, including those
// outside it that name it with a form attribute.
func formElements(form *Element) *HTMLCollection {
	n := form.AsNode()
	a := n.adapter()
	root := n.wrap(native.Root(a, n.handle))
	return newDescendantCollection(root, func(h native.Handle) bool {
		if a.Namespace(h) != "" || !slices.Contains(listedTags, a.Name(h)) {
			return false
		}
		if a.Name(h) == "input" {
			if t, _ := a.GetAttribute(h, "type"); asciiLower(t) == "image" {
				return false
			}
		}
		return formOwner(a, h) == n.handle
	})
}

func enumerated(e *Element, attr string, allowed []string, def string) string {
	v := asciiLower(e.GetAttribute(attr))
	if slices.Contains(allowed, v) {
		return v
	}
	return def
}

// formControlProperties are shared by input, select, textarea and button.
func formControlProperties() map[string]Property {
	return map[string]Property{
		"name":     reflectString("name"),
		"disabled": reflectBool("disabled"),
		"form": getter(func(n *Node) any {
			return elementValue(n.AsElement().FormOwner())
		}),
	}
}

func formProperties() map[string]map[string]Property {
	el := func(n *Node) *Element { return n.AsElement() }

	input := formControlProperties()
	maps := map[string]Property{
		"type": {
			Get: func(n *Node) (any, error) { return inputType(el(n)), nil },
			Set: func(n *Node, v any) error { return el(n).SetAttribute("type", toString(v)) },
		},
		"value": {
			Get: func(n *Node) (any, error) {
				e := el(n)
				if v, ok := e.LookupAttribute("value"); ok {
					return v, nil
				}
				if t := inputType(e); t == "checkbox" || t == "radio" {
					return "on", nil
				}
				return "", nil
			},
			Set: func(n *Node, v any) error { return el(n).SetAttribute("value", toString(v)) },
		},
		"checked": {
			Get: func(n *Node) (any, error) { return el(n).HasAttribute("checked"), nil },
			Set: func(n *Node, v any) error {
				setChecked(el(n), toBool(v))
				return nil
			},
		},
		"defaultValue":   reflectString("value"),
		"defaultChecked": reflectBool("checked"),
		"placeholder":    reflectString("placeholder"),
		"required":       reflectBool("required"),
		"readOnly":       reflectBool("readonly"),
		"multiple":       reflectBool("multiple"),
	}
	for k, p := range maps {
		input[k] = p
	}

	option := map[string]Property{
		"selected": {
			Get: func(n *Node) (any, error) { return optionSelected(el(n)), nil },
			Set: func(n *Node, v any) error {
				setSelected(el(n), toBool(v))
				return nil
			},
		},
		"defaultSelected": reflectBool("selected"),
		"value": {
			Get: func(n *Node) (any, error) { return optionValue(el(n)), nil },
			Set: func(n *Node, v any) error { return el(n).SetAttribute("value", toString(v)) },
		},
		"text": {
			Get: func(n *Node) (any, error) { return optionText(el(n)), nil },
			Set: func(n *Node, v any) error {
				n.SetTextContent(toString(v))
				return nil
			},
		},
		"label": {
			Get: func(n *Node) (any, error) {
				if v, ok := el(n).LookupAttribute("label"); ok {
					return v, nil
				}
				return optionText(el(n)), nil
			},
			Set: func(n *Node, v any) error { return el(n).SetAttribute("label", toString(v)) },
		},
		"index":    getter(func(n *Node) any { return optionIndex(el(n)) }),
		"disabled": reflectBool("disabled"),
		"form": getter(func(n *Node) any {
			a := n.adapter()
			sel := ownerSelect(a, n.handle)
			if sel == nil {
				return nil
			}
			return nodeValue(n.wrap(formOwner(a, sel)))
		}),
	}

	sel := formControlProperties()
	maps = map[string]Property{
		"options":         getter(func(n *Node) any { return options(el(n)) }),
		"selectedOptions": getter(func(n *Node) any { return selectedOptions(el(n)) }),
		"length":          getter(func(n *Node) any { return options(el(n)).Length() }),
		"multiple":        reflectBool("multiple"),
		"required":        reflectBool("required"),
		"type": getter(func(n *Node) any {
			if isMultiple(el(n)) {
				return "select-multiple"
			}
			return "select-one"
		}),
		"value": {
			Get: func(n *Node) (any, error) { return selectValue(el(n)), nil },
			Set: func(n *Node, v any) error {
				setSelectValue(el(n), toString(v))
				return nil
			},
		},
		"selectedIndex": {
			Get: func(n *Node) (any, error) { return selectedIndex(el(n)), nil },
			Set: func(n *Node, v any) error {
				i, ok := toInt(v)
				if !ok {
					i = -1
				}
				setSelectedIndex(el(n), i)
				return nil
			},
		},
		"item": method(func(n *Node, args []any) (any, error) {
			i, _ := toInt(argString(args, 0))
			return elementValue(options(el(n)).Item(i)), nil
		}),
		"namedItem": method(func(n *Node, args []any) (any, error) {
			return elementValue(options(el(n)).NamedItem(argString(args, 0))), nil
		}),
	}
	for k, p := range maps {
		sel[k] = p
	}

	textarea := formControlProperties()
	maps = map[string]Property{
		"type": getter(func(*Node) any { return "textarea" }),
		"value": {
			Get: func(n *Node) (any, error) { return n.TextContent(), nil },
			Set: func(n *Node, v any) error {
				n.SetTextContent(toString(v))
				return nil
			},
		},
		"defaultValue": {
			Get: func(n *Node) (any, error) { return n.TextContent(), nil },
			Set: func(n *Node, v any) error {
				n.SetTextContent(toString(v))
				return nil
			},
		},
		"placeholder": reflectString("placeholder"),
		"required":    reflectBool("required"),
		"readOnly":    reflectBool("readonly"),
	}
	for k, p := range maps {
		textarea[k] = p
	}

	button := formControlProperties()
	button["type"] = Property{
		Get: func(n *Node) (any, error) {
			return enumerated(el(n), "type", []string{"submit", "reset", "button"}, "submit"), nil
		},
		Set: func(n *Node, v any) error { return el(n).SetAttribute("type", toString(v)) },
	}
	button["value"] = reflectString("value")

	form := map[string]Property{
		"elements": getter(func(n *Node) any { return formElements(el(n)) }),
		"length":   getter(func(n *Node) any { return formElements(el(n)).Length() }),
		"name":     reflectString("name"),
		"action":   reflectString("action"),
		"target":   reflectString("target"),
		"method": {
			Get: func(n *Node) (any, error) {
				return enumerated(el(n), "method", []string{"get", "post", "dialog"}, "get"), nil
			},
			Set: func(n *Node, v any) error { return el(n).SetAttribute("method", toString(v)) },
		},
		"noValidate": reflectBool("novalidate"),
	}

	anchor := map[string]Property{
		"href":   reflectString("href"),
		"name":   reflectString("name"),
		"target": reflectString("target"),
		"rel":    reflectString("rel"),
		"text": {
			Get: func(n *Node) (any, error) { return n.TextContent(), nil },
			Set: func(n *Node, v any) error {
				n.SetTextContent(toString(v))
				return nil
			},
		},
	}

	return map[string]map[string]Property{
		"input":    input,
		"option":   option,
		"select":   sel,
		"textarea": textarea,
		"button":   button,
		"form":     form,
		"a":        anchor,
		"img": {
			"src": reflectString("src"),
			"alt": reflectString("alt"),
		},
		"label": {
			"htmlFor": reflectString("for"),
		},
	}
}
