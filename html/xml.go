package html

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/chrisuehlinger/livedom/native"
)

// parseXML builds an x/net/html tree from generic XML. Element and attribute
// names keep their case and prefix; namespaces are not resolved.
func parseXML(text string) (native.Handle, error) {
	doc := &html.Node{Type: html.DocumentNode}
	cur := doc
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = true
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("html: parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &html.Node{Type: html.ElementNode, Data: qualified(t.Name)}
			for _, a := range t.Attr {
				el.Attr = append(el.Attr, html.Attribute{Key: qualified(a.Name), Val: a.Value})
			}
			cur.AppendChild(el)
			cur = el
		case xml.EndElement:
			if cur.Parent == nil || cur.Data != qualified(t.Name) {
				return nil, fmt.Errorf("html: parse xml: unexpected end element </%s>", qualified(t.Name))
			}
			cur = cur.Parent
		case xml.CharData:
			if cur == doc && strings.TrimSpace(string(t)) == "" {
				continue
			}
			cur.AppendChild(&html.Node{Type: html.TextNode, Data: string(t)})
		case xml.Comment:
			cur.AppendChild(&html.Node{Type: html.CommentNode, Data: string(t)})
		}
	}
	if cur != doc {
		return nil, fmt.Errorf("html: parse xml: unclosed element <%s>", cur.Data)
	}
	return doc, nil
}

// qualified rebuilds prefix:local from a raw token name.
func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func renderXML(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderXML(sb, c)
		}
	case html.TextNode:
		xml.EscapeText(sb, []byte(n.Data))
	case html.CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.Data)
		sb.WriteString("-->")
	case html.ElementNode:
		sb.WriteByte('<')
		sb.WriteString(n.Data)
		for _, a := range n.Attr {
			sb.WriteByte(' ')
			sb.WriteString(a.Key)
			sb.WriteString(`="`)
			xml.EscapeText(sb, []byte(a.Val))
			sb.WriteByte('"')
		}
		if n.FirstChild == nil {
			sb.WriteString("/>")
			return
		}
		sb.WriteByte('>')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderXML(sb, c)
		}
		sb.WriteString("</")
		sb.WriteString(n.Data)
		sb.WriteByte('>')
	}
}
