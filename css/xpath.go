package css

import (
	"fmt"
	"strings"
)

const (
	upperASCII = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerASCII = "abcdefghijklmnopqrstuvwxyz"
)

// translator turns a parsed selector into an XPath 1.0 predicate that holds
// for the context node when the node matches the selector.
//
// The subject compound becomes a self:: step; every compound to its left is
// nested inside as a reverse-axis step, so the predicate can be evaluated from
// any node without walking the whole tree.
type translator struct {
	selector string
}

func (tr *translator) errorAt(pos int, fragment, reason string) *SelectorError {
	return &SelectorError{Selector: tr.selector, Offset: pos, Fragment: fragment, Reason: reason}
}

// list translates a selector list into a boolean expression on the context node.
func (tr *translator) list(l *SelectorList) (string, error) {
	parts := make([]string, 0, len(l.Selectors))
	for _, c := range l.Selectors {
		x, err := tr.complex(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, x)
	}
	return joinOr(parts), nil
}

// complex translates a complex selector into a self:: path.
func (tr *translator) complex(c *ComplexSelector) (string, error) {
	var step string
	for i, comp := range c.Compounds {
		body, err := tr.compound(comp)
		if err != nil {
			return "", err
		}
		if i > 0 {
			body += "[" + reverseStep(c.Compounds[i-1].Combinator, step) + "]"
		}
		step = body
	}
	return "self::" + step, nil
}

// relative translates a :has() argument into a forward path from the anchor.
func (tr *translator) relative(c *ComplexSelector) (string, error) {
	steps := make([]string, 0, len(c.Compounds))
	comb := c.Leading
	if comb == CombinatorNone {
		comb = CombinatorDescendant
	}
	for _, comp := range c.Compounds {
		body, err := tr.compound(comp)
		if err != nil {
			return "", err
		}
		steps = append(steps, forwardStep(comb, body))
		comb = comp.Combinator
	}
	return strings.Join(steps, "/"), nil
}

// Ancestor and sibling axes keep iterator state between evaluations of the
// same predicate, so they are wrapped in boolean(), whose argument is
// re-cloned on every call.
func reverseStep(c CombinatorType, body string) string {
	switch c {
	case CombinatorChild:
		if strings.HasPrefix(body, "*") {
			// the nearest element ancestor is the parent unless the parent is the root
			return "boolean(ancestor::*[1][self::" + body + "])"
		}
		return "parent::" + body
	case CombinatorNextSibling:
		return "boolean(preceding-sibling::*[1][self::" + body + "])"
	case CombinatorSubsequentSibling:
		return "boolean(preceding-sibling::" + body + ")"
	default:
		return "boolean(ancestor::" + body + ")"
	}
}

func forwardStep(c CombinatorType, body string) string {
	switch c {
	case CombinatorChild:
		return "child::" + body
	case CombinatorNextSibling:
		return "following-sibling::*[1][self::" + body + "]"
	case CombinatorSubsequentSibling:
		return "following-sibling::" + body
	default:
		return "descendant::" + body
	}
}

// nameTest returns the node test for an element type.
func nameTest(name string) string {
	if name == "" || name == "*" {
		return "*"
	}
	if isNCName(name) {
		return name
	}
	return "*[name()=" + literal(name) + "]"
}

// attrRef returns the XPath for an attribute of the context node.
func attrRef(name string) string {
	if isNCName(name) {
		return "@" + name
	}
	return "@*[name()=" + literal(name) + "]"
}

// compound translates a compound selector into a step body: a node test
// followed by predicates.
func (tr *translator) compound(c *CompoundSelector) (string, error) {
	test := nameTest(c.TypeName)
	var sb strings.Builder
	sb.WriteString(test)

	for _, id := range c.IDs {
		fmt.Fprintf(&sb, "[@id=%s]", literal(id))
	}
	for _, cls := range c.Classes {
		fmt.Fprintf(&sb, "[%s]", containsToken("@class", cls))
	}
	for _, a := range c.Attributes {
		sb.WriteString("[" + attributePredicate(a) + "]")
	}
	for _, pc := range c.Pseudos {
		x, err := tr.pseudo(pc, c)
		if err != nil {
			return "", err
		}
		sb.WriteString("[" + x + "]")
	}
	return sb.String(), nil
}

func containsToken(ref, token string) string {
	return fmt.Sprintf("contains(concat(' ', normalize-space(%s), ' '), %s)", ref, literal(" "+token+" "))
}

func attributePredicate(a *AttributeMatcher) string {
	ref := attrRef(a.Name)
	if a.Operator == AttrExists {
		return ref
	}

	value := a.Value
	subject := ref
	if a.CaseInsensitive {
		subject = fmt.Sprintf("translate(%s, '%s', '%s')", ref, upperASCII, lowerASCII)
		value = strings.ToLower(value)
	}
	lit := literal(value)

	var x string
	switch a.Operator {
	case AttrEquals:
		x = subject + "=" + lit
	case AttrIncludes:
		if value == "" || strings.ContainsAny(value, " \t\n\r\f") {
			return "false()"
		}
		x = containsToken(subject, value)
	case AttrDashMatch:
		x = fmt.Sprintf("%s=%s or starts-with(%s, %s)", subject, lit, subject, literal(value+"-"))
	case AttrPrefix:
		if value == "" {
			return "false()"
		}
		x = fmt.Sprintf("starts-with(%s, %s)", subject, lit)
	case AttrSuffix:
		if value == "" {
			return "false()"
		}
		x = fmt.Sprintf("substring(%s, string-length(%s) - %d)=%s", subject, subject, len([]rune(value))-1, lit)
	case AttrSubstring:
		if value == "" {
			return "false()"
		}
		x = fmt.Sprintf("contains(%s, %s)", subject, lit)
	}
	return ref + " and (" + x + ")"
}

func (tr *translator) pseudo(pc *PseudoClassSelector, c *CompoundSelector) (string, error) {
	sibling := "*"
	if strings.HasSuffix(pc.Name, "of-type") {
		if !c.HasType() {
			return "", tr.errorAt(pc.Pos, ":"+pc.Name, "requires a type selector in the same compound")
		}
		sibling = nameTest(c.TypeName)
	}

	switch pc.Name {
	case "first-child", "first-of-type":
		return "not(preceding-sibling::" + sibling + ")", nil
	case "last-child", "last-of-type":
		return "not(following-sibling::" + sibling + ")", nil
	case "only-child", "only-of-type":
		return "not(preceding-sibling::" + sibling + ") and not(following-sibling::" + sibling + ")", nil
	case "nth-child", "nth-of-type":
		return nthPredicate(pc.Nth, "count(preceding-sibling::"+sibling+") + 1"), nil
	case "nth-last-child", "nth-last-of-type":
		return nthPredicate(pc.Nth, "count(following-sibling::"+sibling+") + 1"), nil
	case "empty":
		return "not(*) and not(text()[string-length() > 0])", nil
	case "root":
		return "not(ancestor::*)", nil
	case "checked":
		return "(self::input and @checked and (" + lowerAttrIn("type", "checkbox", "radio") + ")) or (self::option and @selected)", nil
	case "disabled":
		return formControl + " and @disabled", nil
	case "enabled":
		return formControl + " and not(@disabled)", nil
	case "required":
		return "@required", nil
	case "optional":
		return "(self::input or self::select or self::textarea) and not(@required)", nil
	case "link", "any-link":
		return "(self::a or self::area) and @href", nil
	case "not":
		x, err := tr.list(pc.Selector)
		if err != nil {
			return "", err
		}
		return "not(" + x + ")", nil
	case "is", "where", "matches":
		return tr.list(pc.Selector)
	case "has":
		parts := make([]string, 0, len(pc.Selector.Selectors))
		for _, rel := range pc.Selector.Selectors {
			x, err := tr.relative(rel)
			if err != nil {
				return "", err
			}
			parts = append(parts, "boolean("+x+")")
		}
		return joinOr(parts), nil
	}
	return "", tr.errorAt(pc.Pos, ":"+pc.Name, "unknown pseudo-class")
}

const formControl = "(self::button or self::input or self::select or self::textarea)"

func lowerAttrIn(name string, values ...string) string {
	subject := fmt.Sprintf("translate(@%s, '%s', '%s')", name, upperASCII, lowerASCII)
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = subject + "=" + literal(v)
	}
	return strings.Join(parts, " or ")
}

// nthPredicate tests a 1-based position expression against An+B.
func nthPredicate(n *Nth, pos string) string {
	switch {
	case n.A == 0 && n.B < 1:
		return "false()"
	case n.A == 0:
		return fmt.Sprintf("%s = %d", pos, n.B)
	case n.A > 0:
		// (pos - B) mod A = 0, written without negative literals
		k := ((-n.B)%n.A + n.A) % n.A
		x := fmt.Sprintf("(%s + %d) mod %d = 0", pos, k, n.A)
		if n.B > 1 {
			x = fmt.Sprintf("%s >= %d and %s", pos, n.B, x)
		}
		return x
	case n.B < 1:
		return "false()"
	default:
		return fmt.Sprintf("%s <= %d and (%d - (%s)) mod %d = 0", pos, n.B, n.B, pos, -n.A)
	}
}

func joinOr(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, ") or (") + ")"
}

// literal quotes s as an XPath 1.0 string literal.
func literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(quoted, `, "'", `) + ")"
}

// isNCName reports whether name can be written as a bare XPath name test.
func isNCName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || isLetter(r):
		case i > 0 && (isDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
