package dom

import (
	"slices"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// CSSStyleDeclaration represents an element's inline style.
// It is backed by the style attribute, which is parsed on every read and
// rewritten on every change.
type CSSStyleDeclaration struct {
	element *Element
}

// declarations parses the style attribute. Later declarations of the same
// property replace earlier ones but keep the earlier position.
func (sd *CSSStyleDeclaration) declarations() []*css.Declaration {
	text := strings.TrimSpace(sd.element.GetAttribute("style"))
	if text == "" {
		return nil
	}
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	// A malformed declaration ends parsing; what came before it is kept.
	parsed, _ := parser.ParseDeclarations(text)

	var out []*css.Declaration
	for _, d := range parsed {
		d.Property = strings.ToLower(d.Property)
		if d.Property == "" || d.Value == "" {
			continue
		}
		if i := slices.IndexFunc(out, func(o *css.Declaration) bool { return o.Property == d.Property }); i >= 0 {
			out[i] = d
			continue
		}
		out = append(out, d)
	}
	return out
}

func (sd *CSSStyleDeclaration) find(property string) *css.Declaration {
	property = normalizeCSSPropertyName(property)
	for _, d := range sd.declarations() {
		if d.Property == property {
			return d
		}
	}
	return nil
}

func (sd *CSSStyleDeclaration) write(decls []*css.Declaration) {
	if len(decls) == 0 {
		sd.element.RemoveAttribute("style")
		return
	}
	sd.element.AsNode().adapter().SetAttribute(sd.element.handle, "style", serializeDeclarations(decls))
}

func serializeDeclarations(decls []*css.Declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.Property + ": " + d.Value
		if d.Important {
			parts[i] += " !important"
		}
	}
	return strings.Join(parts, "; ")
}

// CSSText returns the textual representation of the declaration block.
func (sd *CSSStyleDeclaration) CSSText() string {
	return serializeDeclarations(sd.declarations())
}

// SetCSSText replaces every declaration with those parsed from cssText.
func (sd *CSSStyleDeclaration) SetCSSText(cssText string) {
	sd.element.AsNode().adapter().SetAttribute(sd.element.handle, "style", cssText)
	sd.write(sd.declarations())
}

// Length returns the number of properties set.
func (sd *CSSStyleDeclaration) Length() int {
	return len(sd.declarations())
}

// Item returns the property name at the given index, or "".
func (sd *CSSStyleDeclaration) Item(index int) string {
	decls := sd.declarations()
	if index < 0 || index >= len(decls) {
		return ""
	}
	return decls[index].Property
}

// GetPropertyValue returns the value of a CSS property.
// Accepts both kebab-case and camelCase names.
func (sd *CSSStyleDeclaration) GetPropertyValue(property string) string {
	if d := sd.find(property); d != nil {
		return d.Value
	}
	return ""
}

// GetPropertyPriority returns "important" or "".
func (sd *CSSStyleDeclaration) GetPropertyPriority(property string) string {
	if d := sd.find(property); d != nil && d.Important {
		return "important"
	}
	return ""
}

// SetProperty sets a CSS property with an optional priority.
// An empty value removes the property.
func (sd *CSSStyleDeclaration) SetProperty(property, value string, priority ...string) {
	property = normalizeCSSPropertyName(property)
	if property == "" {
		return
	}
	if value == "" {
		sd.RemoveProperty(property)
		return
	}
	decl := &css.Declaration{
		Property:  property,
		Value:     strings.TrimSpace(value),
		Important: len(priority) > 0 && strings.EqualFold(priority[0], "important"),
	}
	decls := sd.declarations()
	if i := slices.IndexFunc(decls, func(d *css.Declaration) bool { return d.Property == property }); i >= 0 {
		decls[i] = decl
	} else {
		decls = append(decls, decl)
	}
	sd.write(decls)
}

// RemoveProperty removes a CSS property and returns its old value.
func (sd *CSSStyleDeclaration) RemoveProperty(property string) string {
	property = normalizeCSSPropertyName(property)
	decls := sd.declarations()
	i := slices.IndexFunc(decls, func(d *css.Declaration) bool { return d.Property == property })
	if i < 0 {
		return ""
	}
	old := decls[i].Value
	sd.write(slices.Delete(decls, i, i+1))
	return old
}

// PropertyNames returns all property names in declaration order.
func (sd *CSSStyleDeclaration) PropertyNames() []string {
	decls := sd.declarations()
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Property
	}
	return names
}

// CamelCaseNames returns the property names in declaration order, in the
// camelCase form scripts use as keys ("background-color" is backgroundColor).
func (sd *CSSStyleDeclaration) CamelCaseNames() []string {
	names := sd.PropertyNames()
	for i, name := range names {
		names[i] = camelCasePropertyName(name)
	}
	return names
}

// normalizeCSSPropertyName converts camelCase to kebab-case and lowercases.
// Examples: "backgroundColor" -> "background-color", "WebkitTransform" -> "webkit-transform"
func normalizeCSSPropertyName(name string) string {
	if name == "" || strings.Contains(name, "-") {
		return strings.ToLower(name)
	}
	var result strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				result.WriteByte('-')
			}
			result.WriteByte(byte(r - 'A' + 'a'))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// camelCasePropertyName converts kebab-case to camelCase.
// Examples: "background-color" -> "backgroundColor", "-webkit-transform" -> "webkitTransform"
func camelCasePropertyName(name string) string {
	name = strings.TrimPrefix(name, "-")
	parts := strings.Split(name, "-")
	var result strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			result.WriteString(part)
		} else {
			result.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	return result.String()
}
