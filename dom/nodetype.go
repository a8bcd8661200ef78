// Package dom wraps a native markup tree in DOM Living Standard semantics:
// one stable wrapper per logical node, selector queries, live collections
// and derived properties resolved by name.
// https://dom.spec.whatwg.org/
package dom

import "github.com/chrisuehlinger/livedom/native"

// NodeType represents the type of a Node as defined in the DOM specification.
type NodeType uint16

const (
	ElementNode          NodeType = 1
	AttributeNode        NodeType = 2
	TextNode             NodeType = 3
	CommentNode          NodeType = 8
	DocumentNode         NodeType = 9
	DocumentTypeNode     NodeType = 10
	DocumentFragmentNode NodeType = 11
)

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case AttributeNode:
		return "ATTRIBUTE_NODE"
	case TextNode:
		return "TEXT_NODE"
	case CommentNode:
		return "COMMENT_NODE"
	case DocumentNode:
		return "DOCUMENT_NODE"
	case DocumentTypeNode:
		return "DOCUMENT_TYPE_NODE"
	case DocumentFragmentNode:
		return "DOCUMENT_FRAGMENT_NODE"
	default:
		return "UNKNOWN_NODE"
	}
}

// nodeTypeOf maps a native kind to its node type. ok is false for kinds the
// wrapper layer does not know how to represent.
func nodeTypeOf(k native.Kind) (nt NodeType, ok bool) {
	switch k {
	case native.KindElement:
		return ElementNode, true
	case native.KindAttribute:
		return AttributeNode, true
	case native.KindText:
		return TextNode, true
	case native.KindComment:
		return CommentNode, true
	case native.KindDocument:
		return DocumentNode, true
	case native.KindDoctype:
		return DocumentTypeNode, true
	case native.KindFragment:
		return DocumentFragmentNode, true
	}
	return 0, false
}
