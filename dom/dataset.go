package dom

import (
	"fmt"
	"strings"
)

// DOMStringMap exposes the data-* attributes of an element under camelCase
// keys: dataset["multiWord"] is the attribute data-multi-word. It caches
// nothing; every call reads or writes the attributes directly.
type DOMStringMap struct {
	element *Element
}

const dataPrefix = "data-"

// datasetAttrName converts a camelCase key to its data-* attribute name.
func datasetAttrName(key string) string {
	var sb strings.Builder
	sb.WriteString(dataPrefix)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'A' && c <= 'Z' {
			sb.WriteByte('-')
			sb.WriteByte(c + ('a' - 'A'))
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// datasetKey converts a data-* attribute name to its camelCase key. Names
// that do not start with data- or contain upper-case ASCII letters have no key.
func datasetKey(attr string) (string, bool) {
	if !strings.HasPrefix(attr, dataPrefix) {
		return "", false
	}
	rest := attr[len(dataPrefix):]
	var sb strings.Builder
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c >= 'A' && c <= 'Z' {
			return "", false
		}
		if c == '-' && i+1 < len(rest) && rest[i+1] >= 'a' && rest[i+1] <= 'z' {
			sb.WriteByte(rest[i+1] - ('a' - 'A'))
			i++
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String(), true
}

func validDatasetKey(key string) error {
	for i := 0; i+1 < len(key); i++ {
		if key[i] == '-' && key[i+1] >= 'a' && key[i+1] <= 'z' {
			return errSyntax(fmt.Sprintf("'%s' is not a valid property name.", key))
		}
	}
	return nil
}

// Get returns the value stored under key and whether it is present. Keys
// that Set rejects are never present.
func (m *DOMStringMap) Get(key string) (string, bool) {
	if validDatasetKey(key) != nil {
		return "", false
	}
	return m.element.LookupAttribute(datasetAttrName(key))
}

// Has reports whether key is present.
func (m *DOMStringMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. Keys with a hyphen followed by a lower-case
// ASCII letter fail with a SyntaxError.
func (m *DOMStringMap) Set(key, value string) error {
	if err := validDatasetKey(key); err != nil {
		return err
	}
	return m.element.SetAttribute(datasetAttrName(key), value)
}

// Delete removes key and reports whether it was present.
func (m *DOMStringMap) Delete(key string) bool {
	if !m.Has(key) {
		return false
	}
	m.element.RemoveAttribute(datasetAttrName(key))
	return true
}

// Keys returns the keys in attribute order.
func (m *DOMStringMap) Keys() []string {
	var keys []string
	for _, name := range m.element.GetAttributeNames() {
		if k, ok := datasetKey(name); ok {
			keys = append(keys, k)
		}
	}
	return keys
}
