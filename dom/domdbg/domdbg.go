// Package domdbg renders wrapper trees for debugging.
package domdbg

import (
	"fmt"
	"io"
	"strings"

	tp "github.com/xlab/treeprint"

	"github.com/chrisuehlinger/livedom/dom"
)

const maxText = 40

type config struct {
	whitespace bool
	attributes bool
}

// Option configures rendering.
type Option func(*config)

// WithWhitespace keeps whitespace-only text nodes, which are skipped by default.
func WithWhitespace() Option {
	return func(c *config) { c.whitespace = true }
}

// WithoutAttributes renders elements by name only.
func WithoutAttributes() Option {
	return func(c *config) { c.attributes = false }
}

// Tree builds a treeprint tree rooted at n.
func Tree(n *dom.Node, opts ...Option) tp.Tree {
	cfg := &config{attributes: true}
	for _, opt := range opts {
		opt(cfg)
	}
	root := tp.NewWithRoot(label(n, cfg))
	addChildren(root, n, cfg)
	return root
}

// Sprint renders the subtree rooted at n.
func Sprint(n *dom.Node, opts ...Option) string {
	if n == nil {
		return ""
	}
	return Tree(n, opts...).String()
}

// Fprint writes the rendering of the subtree rooted at n to w.
func Fprint(w io.Writer, n *dom.Node, opts ...Option) error {
	_, err := io.WriteString(w, Sprint(n, opts...))
	return err
}

func addChildren(branch tp.Tree, n *dom.Node, cfg *config) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() == dom.TextNode && !cfg.whitespace && strings.TrimSpace(c.NodeValue()) == "" {
			continue
		}
		if !c.HasChildNodes() {
			branch.AddNode(label(c, cfg))
			continue
		}
		addChildren(branch.AddBranch(label(c, cfg)), c, cfg)
	}
}

func label(n *dom.Node, cfg *config) string {
	switch n.NodeType() {
	case dom.ElementNode:
		el := n.AsElement()
		var sb strings.Builder
		sb.WriteString("<" + el.LocalName())
		if cfg.attributes {
			for _, name := range el.GetAttributeNames() {
				fmt.Fprintf(&sb, " %s=%q", name, el.GetAttribute(name))
			}
		}
		sb.WriteString(">")
		return sb.String()
	case dom.TextNode:
		return fmt.Sprintf("#text %q", truncate(n.NodeValue()))
	case dom.CommentNode:
		return "<!--" + truncate(n.NodeValue()) + "-->"
	case dom.DocumentTypeNode:
		return fmt.Sprintf("<!DOCTYPE %s>", n.NodeName())
	}
	return n.NodeName()
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxText {
		return s
	}
	return string(r[:maxText]) + "…"
}
