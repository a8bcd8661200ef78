package dom

import (
	"fmt"
	"slices"
	"strings"
)

// validateToken checks a token before it is used to mutate a DOMTokenList.
// Empty tokens are a SyntaxError; tokens containing ASCII whitespace are an
// InvalidCharacterError.
func validateToken(token string) error {
	if token == "" {
		return errSyntax("The token provided must not be empty.")
	}
	if strings.ContainsAny(token, asciiWhitespace) {
		return errInvalidCharacter(fmt.Sprintf("The token provided ('%s') contains HTML space characters, which are not valid in tokens.", token))
	}
	return nil
}

// splitTokens splits an attribute value on ASCII whitespace.
func splitTokens(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return strings.ContainsRune(asciiWhitespace, r)
	})
}

// DOMTokenList represents a set of space-separated tokens stored in one
// attribute of an element. It is used for Element.classList.
//
// The list keeps no state of its own: every call reads the attribute again
// and every mutation writes it back immediately.
type DOMTokenList struct {
	element  *Element
	attrName string
}

func newDOMTokenList(element *Element, attrName string) *DOMTokenList {
	return &DOMTokenList{
		element:  element,
		attrName: attrName,
	}
}

// tokens returns the current list of tokens (deduplicated, preserving order).
func (dtl *DOMTokenList) tokens() []string {
	all := splitTokens(dtl.element.GetAttribute(dtl.attrName))
	result := make([]string, 0, len(all))
	for _, token := range all {
		if !slices.Contains(result, token) {
			result = append(result, token)
		}
	}
	return result
}

// setTokens writes the tokens back to the attribute.
// An absent attribute is not created for an empty list.
func (dtl *DOMTokenList) setTokens(tokens []string) {
	a := dtl.element.AsNode().adapter()
	name := dtl.element.attrName(dtl.attrName)
	if len(tokens) == 0 && !dtl.element.HasAttribute(dtl.attrName) {
		return
	}
	a.SetAttribute(dtl.element.handle, name, strings.Join(tokens, " "))
}

// Length returns the number of tokens.
func (dtl *DOMTokenList) Length() int {
	return len(dtl.tokens())
}

// Item returns the token at the given index and whether it exists.
func (dtl *DOMTokenList) Item(index int) (string, bool) {
	tokens := dtl.tokens()
	if index < 0 || index >= len(tokens) {
		return "", false
	}
	return tokens[index], true
}

// Contains returns true if the given token is in the list.
// Invalid tokens are never contained.
func (dtl *DOMTokenList) Contains(token string) bool {
	if validateToken(token) != nil {
		return false
	}
	return slices.Contains(dtl.tokens(), token)
}

// Add adds one or more tokens to the list. Tokens already present are left
// where they are.
func (dtl *DOMTokenList) Add(tokens ...string) error {
	for _, token := range tokens {
		if err := validateToken(token); err != nil {
			return err
		}
	}
	current := dtl.tokens()
	for _, token := range tokens {
		if !slices.Contains(current, token) {
			current = append(current, token)
		}
	}
	dtl.setTokens(current)
	return nil
}

// Remove removes one or more tokens from the list. When none of them is
// present the attribute is left untouched.
func (dtl *DOMTokenList) Remove(tokens ...string) error {
	for _, token := range tokens {
		if err := validateToken(token); err != nil {
			return err
		}
	}
	current := dtl.tokens()
	result := slices.DeleteFunc(slices.Clone(current), func(t string) bool {
		return slices.Contains(tokens, t)
	})
	if len(result) == len(current) {
		return nil
	}
	dtl.setTokens(result)
	return nil
}

// Toggle removes token if present and adds it otherwise. If force is given,
// it forces add (true) or remove (false). Returns whether the token is
// present afterwards.
func (dtl *DOMTokenList) Toggle(token string, force ...bool) (bool, error) {
	if err := validateToken(token); err != nil {
		return false, err
	}
	want := !dtl.Contains(token)
	if len(force) > 0 {
		want = force[0]
	}
	if want {
		return true, dtl.Add(token)
	}
	return false, dtl.Remove(token)
}

// Replace replaces oldToken with newToken in place and reports whether
// oldToken was found. Empty tokens are reported before whitespace.
func (dtl *DOMTokenList) Replace(oldToken, newToken string) (bool, error) {
	if oldToken == "" || newToken == "" {
		return false, errSyntax("The token provided must not be empty.")
	}
	for _, t := range []string{oldToken, newToken} {
		if err := validateToken(t); err != nil {
			return false, err
		}
	}

	current := dtl.tokens()
	oldIdx := slices.Index(current, oldToken)
	if oldIdx < 0 {
		return false, nil
	}
	result := make([]string, 0, len(current))
	for i, t := range current {
		switch {
		case i == oldIdx:
			if !slices.Contains(result, newToken) {
				result = append(result, newToken)
			}
		case t == newToken:
			if !slices.Contains(result, newToken) {
				result = append(result, t)
			}
		default:
			result = append(result, t)
		}
	}
	dtl.setTokens(result)
	return true, nil
}

// Value returns the underlying attribute value.
func (dtl *DOMTokenList) Value() string {
	return dtl.element.GetAttribute(dtl.attrName)
}

// SetValue replaces the underlying attribute value.
func (dtl *DOMTokenList) SetValue(value string) {
	dtl.element.AsNode().adapter().SetAttribute(dtl.element.handle, dtl.element.attrName(dtl.attrName), value)
}

func (dtl *DOMTokenList) String() string {
	return dtl.Value()
}

// Values returns the tokens in order.
func (dtl *DOMTokenList) Values() []string {
	return dtl.tokens()
}
