package dom

import (
	"errors"
	"testing"
)

func newTestDocument(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := Parse(markup)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return doc
}

func newTestElement(t *testing.T, tag string) *Element {
	t.Helper()
	doc, err := NewDocument()
	if err != nil {
		t.Fatalf("NewDocument returned error: %v", err)
	}
	el, err := doc.CreateElement(tag)
	if err != nil {
		t.Fatalf("CreateElement returned error: %v", err)
	}
	return el
}

func mustCreate(t *testing.T, doc *Document, tag string) *Element {
	t.Helper()
	el, err := doc.CreateElement(tag)
	if err != nil {
		t.Fatalf("CreateElement(%q) returned error: %v", tag, err)
	}
	return el
}

func mustAppend(t *testing.T, parent, child *Node) {
	t.Helper()
	if _, err := parent.AppendChild(child); err != nil {
		t.Fatalf("AppendChild returned error: %v", err)
	}
}

func byID(t *testing.T, doc *Document, id string) *Element {
	t.Helper()
	el := doc.GetElementById(id)
	if el == nil {
		t.Fatalf("no element with id %q", id)
	}
	return el
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument()
	if err != nil {
		t.Fatalf("NewDocument returned error: %v", err)
	}
	if doc.AsNode().NodeType() != DocumentNode {
		t.Errorf("Expected DocumentNode, got %v", doc.AsNode().NodeType())
	}
	if doc.AsNode().NodeName() != "#document" {
		t.Errorf("Expected '#document', got %s", doc.AsNode().NodeName())
	}
	if doc.Head() == nil || doc.Body() == nil {
		t.Fatal("Expected head and body")
	}
	if doc.Doctype() == nil || doc.Doctype().Name() != "html" {
		t.Error("Expected an html doctype")
	}
	if doc.DocumentElement().TagName() != "HTML" {
		t.Errorf("Expected documentElement HTML, got %s", doc.DocumentElement().TagName())
	}
}

func TestDocument_CreateElement(t *testing.T) {
	el := newTestElement(t, "DIV")

	if el.TagName() != "DIV" {
		t.Errorf("Expected tagName 'DIV', got '%s'", el.TagName())
	}
	if el.LocalName() != "div" {
		t.Errorf("Expected localName 'div', got '%s'", el.LocalName())
	}
	if el.AsNode().NodeType() != ElementNode {
		t.Errorf("Expected ElementNode, got %v", el.AsNode().NodeType())
	}

	doc := el.AsNode().OwnerDocument()
	if _, err := doc.CreateElement("1abc"); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("Expected InvalidCharacterError, got %v", err)
	}
}

func TestDocument_CreateTextAndComment(t *testing.T) {
	doc := newTestDocument(t, "")
	text := doc.CreateTextNode("Hello, World!")
	if text.AsNode().NodeType() != TextNode || text.AsNode().NodeName() != "#text" {
		t.Errorf("Unexpected text node %v %s", text.AsNode().NodeType(), text.AsNode().NodeName())
	}
	if text.Data() != "Hello, World!" {
		t.Errorf("Expected 'Hello, World!', got '%s'", text.Data())
	}

	comment := doc.CreateComment("This is a comment")
	if comment.AsNode().NodeType() != CommentNode {
		t.Errorf("Expected CommentNode, got %v", comment.AsNode().NodeType())
	}
	if comment.AsNode().NodeValue() != "This is a comment" {
		t.Errorf("Expected 'This is a comment', got '%s'", comment.AsNode().NodeValue())
	}
}

func TestNode_AppendChild(t *testing.T) {
	doc := newTestDocument(t, "")
	parent := mustCreate(t, doc, "div").AsNode()
	child1 := mustCreate(t, doc, "p").AsNode()
	child2 := mustCreate(t, doc, "span").AsNode()

	mustAppend(t, parent, child1)
	mustAppend(t, parent, child2)

	if parent.FirstChild() != child1 {
		t.Error("FirstChild should be child1")
	}
	if parent.LastChild() != child2 {
		t.Error("LastChild should be child2")
	}
	if child1.ParentNode() != parent {
		t.Error("child1.ParentNode should be parent")
	}
	if child1.NextSibling() != child2 {
		t.Error("child1.NextSibling should be child2")
	}
	if child2.PreviousSibling() != child1 {
		t.Error("child2.PreviousSibling should be child1")
	}
}

func TestNode_RemoveChild(t *testing.T) {
	doc := newTestDocument(t, "")
	parent := mustCreate(t, doc, "div").AsNode()
	child1 := mustCreate(t, doc, "p").AsNode()
	child2 := mustCreate(t, doc, "span").AsNode()
	child3 := mustCreate(t, doc, "a").AsNode()
	for _, c := range []*Node{child1, child2, child3} {
		mustAppend(t, parent, c)
	}

	removed, err := parent.RemoveChild(child2)
	if err != nil {
		t.Fatalf("RemoveChild returned error: %v", err)
	}
	if removed != child2 {
		t.Error("RemoveChild should return the removed node")
	}
	if child1.NextSibling() != child3 {
		t.Error("child1.NextSibling should be child3")
	}
	if child2.ParentNode() != nil {
		t.Error("removed child should have no parent")
	}

	if _, err := parent.RemoveChild(child2); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestNode_InsertBefore(t *testing.T) {
	doc := newTestDocument(t, "")
	parent := mustCreate(t, doc, "div").AsNode()
	child1 := mustCreate(t, doc, "p").AsNode()
	child3 := mustCreate(t, doc, "a").AsNode()
	child2 := mustCreate(t, doc, "span").AsNode()

	mustAppend(t, parent, child1)
	mustAppend(t, parent, child3)
	if _, err := parent.InsertBefore(child2, child3); err != nil {
		t.Fatalf("InsertBefore returned error: %v", err)
	}

	if child1.NextSibling() != child2 {
		t.Error("child1.NextSibling should be child2")
	}
	if child2.NextSibling() != child3 {
		t.Error("child2.NextSibling should be child3")
	}

	// Inserting a node before itself leaves the order unchanged.
	if _, err := parent.InsertBefore(child2, child2); err != nil {
		t.Fatalf("InsertBefore(self) returned error: %v", err)
	}
	if child1.NextSibling() != child2 || child2.NextSibling() != child3 {
		t.Error("InsertBefore(self) should keep the order")
	}
}

func TestNode_ReplaceChild(t *testing.T) {
	doc := newTestDocument(t, `<div id="d"><p id="a"></p><p id="b"></p></div>`)
	div := byID(t, doc, "d").AsNode()
	a := byID(t, doc, "a").AsNode()
	span := mustCreate(t, doc, "span").AsNode()

	old, err := div.ReplaceChild(span, a)
	if err != nil {
		t.Fatalf("ReplaceChild returned error: %v", err)
	}
	if old != a || a.ParentNode() != nil {
		t.Error("ReplaceChild should detach and return the old child")
	}
	if div.FirstChild() != span {
		t.Error("span should be the first child")
	}
}

func TestNode_HierarchyRequestError(t *testing.T) {
	doc := newTestDocument(t, `<div id="outer"><div id="inner"></div></div>`)
	outer := byID(t, doc, "outer").AsNode()
	inner := byID(t, doc, "inner").AsNode()

	if _, err := inner.AppendChild(outer); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("Expected HierarchyRequestError for ancestor insertion, got %v", err)
	}
	if _, err := outer.AppendChild(outer); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("Expected HierarchyRequestError for self insertion, got %v", err)
	}

	text := doc.CreateTextNode("x").AsNode()
	if _, err := doc.AsNode().AppendChild(text); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("Expected HierarchyRequestError for text under document, got %v", err)
	}
	if _, err := text.AppendChild(mustCreate(t, doc, "p").AsNode()); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("Expected HierarchyRequestError for child of text, got %v", err)
	}
	second := mustCreate(t, doc, "html").AsNode()
	if _, err := doc.AsNode().AppendChild(second); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("Expected HierarchyRequestError for second document element, got %v", err)
	}
	if _, err := outer.InsertBefore(text, outer.ParentNode()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected NotFoundError for foreign reference child, got %v", err)
	}
}

func TestNode_TextContent(t *testing.T) {
	doc := newTestDocument(t, `<div id="d">Hello <span>World</span><!--c--></div>`)
	div := byID(t, doc, "d").AsNode()

	if got := div.TextContent(); got != "Hello World" {
		t.Errorf("Expected 'Hello World', got '%s'", got)
	}

	div.SetTextContent("replaced")
	if div.ChildNodes().Length() != 1 {
		t.Errorf("Expected 1 child, got %d", div.ChildNodes().Length())
	}
	if div.FirstChild().NodeType() != TextNode {
		t.Error("Expected a text child")
	}

	div.SetTextContent("")
	if div.HasChildNodes() {
		t.Error("Expected no children after clearing textContent")
	}
}

func TestNode_CloneNode(t *testing.T) {
	doc := newTestDocument(t, `<div id="d" class="x"><p>one</p><p>two</p></div>`)
	div := byID(t, doc, "d").AsNode()

	shallow := div.CloneNode(false)
	if shallow.HasChildNodes() {
		t.Error("Shallow clone should have no children")
	}
	if shallow.AsElement().ClassName() != "x" {
		t.Error("Clone should copy attributes")
	}

	deep := div.CloneNode(true)
	if deep == div {
		t.Fatal("Clone should be a different node")
	}
	if deep.ChildNodes().Length() != 2 || deep.TextContent() != "onetwo" {
		t.Errorf("Deep clone mismatch: %d children, %q", deep.ChildNodes().Length(), deep.TextContent())
	}
	if deep.ParentNode() != nil || deep.OwnerDocument() != doc {
		t.Error("Clone should be parentless and owned by the same document")
	}
}

func TestNode_Contains(t *testing.T) {
	doc := newTestDocument(t, `<div id="a"><div id="b"></div></div><div id="c"></div>`)
	a, b, c := byID(t, doc, "a").AsNode(), byID(t, doc, "b").AsNode(), byID(t, doc, "c").AsNode()

	if !a.Contains(a) || !a.Contains(b) {
		t.Error("a should contain itself and b")
	}
	if b.Contains(a) || a.Contains(c) || a.Contains(nil) {
		t.Error("unexpected containment")
	}
	if !doc.AsNode().Contains(c) {
		t.Error("document should contain c")
	}
}

func TestNode_IsConnected(t *testing.T) {
	doc := newTestDocument(t, `<div id="a"></div>`)
	a := byID(t, doc, "a").AsNode()
	if !a.IsConnected() {
		t.Error("a should be connected")
	}
	if err := a.Remove(); err != nil {
		t.Fatal(err)
	}
	if a.IsConnected() {
		t.Error("removed node should not be connected")
	}
	if a.GetRootNode() != a {
		t.Error("root of a detached node is the node itself")
	}
}

func TestDocument_GetElementById(t *testing.T) {
	doc := newTestDocument(t, `<div id="first"></div><div id="dup"></div><p id="dup"></p>`)

	if el := doc.GetElementById("first"); el == nil || el.LocalName() != "div" {
		t.Error("Expected to find #first")
	}
	if el := doc.GetElementById("dup"); el == nil || el.LocalName() != "div" {
		t.Error("Expected the first #dup in tree order")
	}
	if doc.GetElementById("missing") != nil || doc.GetElementById("") != nil {
		t.Error("Expected nil for missing or empty ids")
	}
}

func TestDocument_Title(t *testing.T) {
	doc := newTestDocument(t, "<title>  Hello \n  World </title>")
	if doc.Title() != "Hello World" {
		t.Errorf("Expected collapsed title, got %q", doc.Title())
	}

	empty, err := NewDocument()
	if err != nil {
		t.Fatal(err)
	}
	if err := empty.SetTitle("New"); err != nil {
		t.Fatal(err)
	}
	if empty.Title() != "New" {
		t.Errorf("Expected 'New', got %q", empty.Title())
	}
	if empty.Head().ChildElementCount() != 1 {
		t.Error("SetTitle should create a title in head")
	}
}

func TestElement_Attributes(t *testing.T) {
	el := newTestElement(t, "div")

	if err := el.SetAttribute("Data-Value", "1"); err != nil {
		t.Fatal(err)
	}
	if !el.HasAttribute("data-value") || el.GetAttribute("DATA-VALUE") != "1" {
		t.Error("HTML attribute names should be case-insensitive")
	}
	if names := el.GetAttributeNames(); len(names) != 1 || names[0] != "data-value" {
		t.Errorf("Expected [data-value], got %v", names)
	}
	if err := el.SetAttribute("bad name", "x"); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("Expected InvalidCharacterError, got %v", err)
	}

	el.RemoveAttribute("data-value")
	if el.HasAttributes() {
		t.Error("Expected no attributes after removal")
	}
}

func TestElement_ToggleAttribute(t *testing.T) {
	el := newTestElement(t, "input")

	if on, _ := el.ToggleAttribute("disabled"); !on || !el.HasAttribute("disabled") {
		t.Error("First toggle should add the attribute")
	}
	if on, _ := el.ToggleAttribute("disabled"); on || el.HasAttribute("disabled") {
		t.Error("Second toggle should remove the attribute")
	}
	if on, _ := el.ToggleAttribute("disabled", true); !on {
		t.Error("Forced toggle should add")
	}
	if on, _ := el.ToggleAttribute("disabled", true); !on || !el.HasAttribute("disabled") {
		t.Error("Forced toggle should keep the attribute")
	}
	if on, _ := el.ToggleAttribute("disabled", false); on || el.HasAttribute("disabled") {
		t.Error("Forced false should remove")
	}
}

func TestElement_InnerHTML(t *testing.T) {
	doc := newTestDocument(t, `<div id="d"><p>Hello <b>World</b></p></div>`)
	div := byID(t, doc, "d")

	inner, err := div.InnerHTML()
	if err != nil {
		t.Fatal(err)
	}
	if inner != "<p>Hello <b>World</b></p>" {
		t.Errorf("Unexpected innerHTML %q", inner)
	}

	if err := div.SetInnerHTML(`<span class="a">x</span>text`); err != nil {
		t.Fatal(err)
	}
	if div.AsNode().ChildNodes().Length() != 2 {
		t.Errorf("Expected 2 children, got %d", div.AsNode().ChildNodes().Length())
	}
	if span := div.AsNode().FirstElementChild(); span == nil || span.ClassName() != "a" {
		t.Error("Expected the parsed span")
	}

	outer, err := div.OuterHTML()
	if err != nil {
		t.Fatal(err)
	}
	if outer != `<div id="d"><span class="a">x</span>text</div>` {
		t.Errorf("Unexpected outerHTML %q", outer)
	}
}

func TestText_SplitText(t *testing.T) {
	doc := newTestDocument(t, `<p id="p">Hello World</p>`)
	p := byID(t, doc, "p").AsNode()
	text := (*Text)(p.FirstChild())

	rest, err := text.SplitText(5)
	if err != nil {
		t.Fatal(err)
	}
	if text.Data() != "Hello" || rest.Data() != " World" {
		t.Errorf("Unexpected split %q / %q", text.Data(), rest.Data())
	}
	if text.AsNode().NextSibling() != rest.AsNode() {
		t.Error("Remainder should follow the original node")
	}
	if text.WholeText() != "Hello World" {
		t.Errorf("Unexpected wholeText %q", text.WholeText())
	}
	if _, err := text.SplitText(99); !errors.Is(err, ErrIndexSize) {
		t.Errorf("Expected IndexSizeError, got %v", err)
	}
}

func TestText_CharacterData(t *testing.T) {
	doc := newTestDocument(t, "")
	text := doc.CreateTextNode("a😀b")

	if text.Length() != 4 {
		t.Errorf("Expected UTF-16 length 4, got %d", text.Length())
	}
	if s, _ := text.SubstringData(1, 2); s != "😀" {
		t.Errorf("Expected the emoji, got %q", s)
	}
	if err := text.InsertData(0, ">"); err != nil {
		t.Fatal(err)
	}
	if err := text.DeleteData(2, 2); err != nil {
		t.Fatal(err)
	}
	text.AppendData("!")
	if text.Data() != ">ab!" {
		t.Errorf("Expected '>ab!', got %q", text.Data())
	}
}

func TestParseXML(t *testing.T) {
	doc, err := ParseXML(`<root><Item key="A">one</Item><item>two</item></root>`)
	if err != nil {
		t.Fatal(err)
	}
	if !doc.IsXML() {
		t.Error("Expected an XML document")
	}
	if doc.DocumentElement().TagName() != "root" {
		t.Errorf("XML tag names keep their case, got %s", doc.DocumentElement().TagName())
	}
	if n := doc.GetElementsByTagName("Item").Length(); n != 1 {
		t.Errorf("Expected 1 Item, got %d", n)
	}
	list, err := doc.QuerySelectorAll("item")
	if err != nil {
		t.Fatal(err)
	}
	if list.Length() != 1 || list.Item(0).TextContent() != "two" {
		t.Error("XML selectors should match names case-sensitively")
	}
}

func TestDocumentFragment_InsertMovesChildren(t *testing.T) {
	doc := newTestDocument(t, `<ul id="list"><li id="last">3</li></ul>`)
	list := byID(t, doc, "list").AsNode()
	last := byID(t, doc, "last").AsNode()

	frag := doc.CreateDocumentFragment()
	one := mustCreate(t, doc, "li").AsNode()
	two := mustCreate(t, doc, "li").AsNode()
	mustAppend(t, frag.AsNode(), one)
	mustAppend(t, frag.AsNode(), two)

	if _, err := list.InsertBefore(frag.AsNode(), last); err != nil {
		t.Fatalf("InsertBefore returned error: %v", err)
	}
	if frag.AsNode().HasChildNodes() {
		t.Error("The fragment should be empty after insertion")
	}
	got := list.ChildNodes().Values()
	if len(got) != 3 || got[0] != one || got[1] != two || got[2] != last {
		t.Errorf("Unexpected children order: %v", got)
	}
	if one.ParentNode() != list {
		t.Error("Moved children should report the new parent")
	}

	// Inserting the now empty fragment again changes nothing.
	mustAppend(t, list, frag.AsNode())
	if list.ChildNodes().Length() != 3 {
		t.Errorf("Expected 3 children, got %d", list.ChildNodes().Length())
	}
}

func TestQuerySelectorAll_DescendantCombinator(t *testing.T) {
	doc := newTestDocument(t, `<div id="d"><p id="p1"></p><p id="p2"></p><p id="p3"></p></div><p id="outside"></p>`)

	for _, sel := range []string{"div p", "body div p", "html p:not(body > p)", "#d *"} {
		list, err := doc.QuerySelectorAll(sel)
		if err != nil {
			t.Fatalf("QuerySelectorAll(%q) returned error: %v", sel, err)
		}
		var got []string
		for _, n := range list.Values() {
			got = append(got, n.AsElement().Id())
		}
		if len(got) != 3 || got[0] != "p1" || got[1] != "p2" || got[2] != "p3" {
			t.Errorf("QuerySelectorAll(%q) = %v, want [p1 p2 p3]", sel, got)
		}
	}

	scoped, err := byID(t, doc, "d").QuerySelectorAll("body p")
	if err != nil {
		t.Fatal(err)
	}
	if scoped.Length() != 3 {
		t.Errorf("Scoped query should see ancestors outside the scope, got %d matches", scoped.Length())
	}
}
