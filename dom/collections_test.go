package dom

import (
	"errors"
	"slices"
	"testing"
)

func TestNodeList_LiveChildNodes(t *testing.T) {
	doc := newTestDocument(t, `<ul id="list"><li>1</li></ul>`)
	list := byID(t, doc, "list").AsNode()

	children := list.ChildNodes()
	if !children.IsLive() {
		t.Fatal("childNodes should be live")
	}
	if children.Length() != 1 {
		t.Fatalf("Expected 1 child, got %d", children.Length())
	}

	li := mustCreate(t, doc, "li").AsNode()
	mustAppend(t, list, li)
	if children.Length() != 2 || children.Item(1) != li {
		t.Error("childNodes should reflect the appended child")
	}
	if children.Item(2) != nil || children.Item(-1) != nil {
		t.Error("Out of range indices should return nil")
	}
}

func TestNodeList_StaticQuerySelectorAll(t *testing.T) {
	doc := newTestDocument(t, `<p class="x">a</p><p class="x">b</p>`)
	found, err := doc.QuerySelectorAll(".x")
	if err != nil {
		t.Fatal(err)
	}
	if found.IsLive() {
		t.Fatal("querySelectorAll should return a static list")
	}
	if found.Length() != 2 {
		t.Fatalf("Expected 2 matches, got %d", found.Length())
	}

	p := mustCreate(t, doc, "p")
	if err := p.SetAttribute("class", "x"); err != nil {
		t.Fatal(err)
	}
	mustAppend(t, doc.Body().AsNode(), p.AsNode())
	if found.Length() != 2 {
		t.Error("A static list should not see later insertions")
	}

	var texts []string
	for _, n := range found.All() {
		texts = append(texts, n.TextContent())
	}
	if !slices.Equal(texts, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", texts)
	}
}

func TestHTMLCollection_Live(t *testing.T) {
	doc := newTestDocument(t, `<div id="root"><span class="a"></span><p><span class="a b"></span></p></div>`)
	root := byID(t, doc, "root")

	byTag := root.GetElementsByTagName("span")
	byClass := root.GetElementsByClassName("a")
	children := root.Children()

	if byTag.Length() != 2 || byClass.Length() != 2 || children.Length() != 2 {
		t.Fatalf("Unexpected lengths: tag=%d class=%d children=%d",
			byTag.Length(), byClass.Length(), children.Length())
	}

	span := mustCreate(t, doc, "span")
	if err := span.SetAttribute("class", "a"); err != nil {
		t.Fatal(err)
	}
	mustAppend(t, root.AsNode(), span.AsNode())

	if byTag.Length() != 3 || byClass.Length() != 3 || children.Length() != 3 {
		t.Error("Collections should reflect the new element")
	}
	if byTag.Item(2) != span {
		t.Error("The new span should be last in tree order")
	}

	span.ClassList().Remove("a")
	if byClass.Length() != 2 {
		t.Error("Class collection should reflect class changes")
	}

	if both := root.GetElementsByClassName("b a"); both.Length() != 1 {
		t.Errorf("Expected 1 element with both classes, got %d", both.Length())
	}
	if all := root.GetElementsByTagName("*"); all.Length() != 4 {
		t.Errorf("Expected 4 descendants, got %d", all.Length())
	}
}

func TestHTMLCollection_NamedItem(t *testing.T) {
	doc := newTestDocument(t, `<form><input name="x"><input id="x"><input name="y"></form>`)
	form := doc.Forms().Item(0)
	if form == nil {
		t.Fatal("Expected a form")
	}
	inputs := form.GetElementsByTagName("input")

	if got := inputs.NamedItem("x"); got != inputs.Item(1) {
		t.Error("An id match should win over an earlier name match")
	}
	if got := inputs.NamedItem("y"); got != inputs.Item(2) {
		t.Error("A name match should be found when no id matches")
	}
	if inputs.NamedItem("missing") != nil || inputs.NamedItem("") != nil {
		t.Error("Unknown or empty names should return nil")
	}

	var names []string
	for _, np := range inputs.NamedProperties() {
		names = append(names, np.Name)
	}
	if !slices.Equal(names, []string{"x", "y"}) {
		t.Errorf("Expected [x y], got %v", names)
	}
}

func TestHTMLCollection_ReadOnly(t *testing.T) {
	doc := newTestDocument(t, `<p></p>`)
	c := doc.GetElementsByTagName("p")
	if err := c.SetItem(0, nil); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("Expected UnsupportedOperationError, got %v", err)
	}
	if err := c.DeleteItem(0); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("Expected UnsupportedOperationError, got %v", err)
	}
}

func TestDOMTokenList(t *testing.T) {
	el := newTestElement(t, "div")
	list := el.ClassList()

	if err := list.Add("a", "b", "a"); err != nil {
		t.Fatal(err)
	}
	if got := el.ClassName(); got != "a b" {
		t.Errorf("Expected 'a b', got %q", got)
	}
	if err := list.Add("a"); err != nil {
		t.Fatal(err)
	}
	if got := el.ClassName(); got != "a b" {
		t.Errorf("Adding an existing token should be a no-op, got %q", got)
	}

	if err := el.SetAttribute("class", "  b   a  c "); err != nil {
		t.Fatal(err)
	}
	if err := list.Remove("zzz"); err != nil {
		t.Fatal(err)
	}
	if got := el.GetAttribute("class"); got != "  b   a  c " {
		t.Errorf("Removing an absent token should leave the attribute alone, got %q", got)
	}
	if err := list.Remove("a"); err != nil {
		t.Fatal(err)
	}
	if got := el.GetAttribute("class"); got != "b c" {
		t.Errorf("Expected 'b c', got %q", got)
	}

	on, err := list.Toggle("d")
	if err != nil || !on {
		t.Errorf("Toggle should add d, got %v %v", on, err)
	}
	on, err = list.Toggle("d", true)
	if err != nil || !on || !list.Contains("d") {
		t.Error("Forced toggle should keep d")
	}
	if on, _ := list.Toggle("d"); on {
		t.Error("Toggle should remove d")
	}

	ok, err := list.Replace("b", "c")
	if err != nil || !ok {
		t.Fatalf("Replace failed: %v %v", ok, err)
	}
	if got := el.ClassName(); got != "c" {
		t.Errorf("Replacing with an existing token should dedupe, got %q", got)
	}
	if ok, _ := list.Replace("missing", "x"); ok {
		t.Error("Replacing an absent token should report false")
	}

	if list.Length() != 1 {
		t.Errorf("Expected 1 token, got %d", list.Length())
	}
	if tok, ok := list.Item(0); !ok || tok != "c" {
		t.Errorf("Expected c at 0, got %q", tok)
	}
	if _, ok := list.Item(5); ok {
		t.Error("Out of range Item should report false")
	}
}

func TestDOMTokenList_Validation(t *testing.T) {
	el := newTestElement(t, "div")
	list := el.ClassList()

	if err := list.Add(""); !errors.Is(err, ErrSyntax) {
		t.Errorf("Expected SyntaxError, got %v", err)
	}
	if err := list.Add("a b"); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("Expected InvalidCharacterError, got %v", err)
	}
	if _, err := list.Toggle("\t"); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("Expected InvalidCharacterError, got %v", err)
	}
	if _, err := list.Replace("", "a b"); !errors.Is(err, ErrSyntax) {
		t.Errorf("Empty tokens are reported first, got %v", err)
	}
	if list.Contains("") {
		t.Error("Empty token is never contained")
	}
	if el.HasAttribute("class") {
		t.Error("Failed calls should not create the attribute")
	}

	if err := list.Remove("x"); err != nil {
		t.Fatal(err)
	}
	if el.HasAttribute("class") {
		t.Error("Removing from an empty list should not create the attribute")
	}
}

func TestDataset(t *testing.T) {
	doc := newTestDocument(t, `<div id="d" data-user-id="7" data-x="1"></div>`)
	el := byID(t, doc, "d")
	ds := el.Dataset()

	if v, ok := ds.Get("userId"); !ok || v != "7" {
		t.Errorf("Expected userId=7, got %q %v", v, ok)
	}
	if !slices.Equal(ds.Keys(), []string{"userId", "x"}) {
		t.Errorf("Unexpected keys %v", ds.Keys())
	}

	if err := ds.Set("fooBarBaz", "v"); err != nil {
		t.Fatal(err)
	}
	if got := el.GetAttribute("data-foo-bar-baz"); got != "v" {
		t.Errorf("Expected data-foo-bar-baz=v, got %q", got)
	}
	if err := ds.Set("foo-bar", "v"); !errors.Is(err, ErrSyntax) {
		t.Errorf("Expected SyntaxError, got %v", err)
	}

	if !ds.Delete("x") || el.HasAttribute("data-x") {
		t.Error("Delete should remove data-x")
	}
	if ds.Delete("x") {
		t.Error("Deleting a missing key reports false")
	}
	if ds.Has("x") {
		t.Error("x should be gone")
	}

	if err := el.SetAttribute("data-foo-bar", "raw"); err != nil {
		t.Fatal(err)
	}
	if v, ok := ds.Get("foo-bar"); ok {
		t.Errorf("A key Set rejects should read as absent, got %q", v)
	}
	if ds.Has("foo-bar") || ds.Delete("foo-bar") {
		t.Error("A key Set rejects is neither present nor deletable")
	}
	if v, ok := ds.Get("fooBar"); !ok || v != "raw" {
		t.Errorf("Expected fooBar=raw, got %q %v", v, ok)
	}
}

func TestNamedNodeMap(t *testing.T) {
	doc := newTestDocument(t, `<div id="d" a="1" b="2"></div>`)
	el := byID(t, doc, "d")
	attrs := el.Attributes()

	if attrs.Length() != 3 {
		t.Fatalf("Expected 3 attributes, got %d", attrs.Length())
	}
	if a := attrs.Item(1); a == nil || a.Name() != "a" || a.Value() != "1" {
		t.Error("Item(1) should be a=1")
	}
	if attrs.Item(3) != nil {
		t.Error("Out of range Item should be nil")
	}

	removed, err := attrs.RemoveNamedItem("b")
	if err != nil {
		t.Fatal(err)
	}
	if removed.Value() != "2" || el.HasAttribute("b") {
		t.Error("RemoveNamedItem should detach b")
	}
	if _, err := attrs.RemoveNamedItem("b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}

	if _, err := attrs.SetNamedItem(removed); err != nil {
		t.Fatal(err)
	}
	if el.GetAttribute("b") != "2" || attrs.Length() != 3 {
		t.Error("SetNamedItem should reattach b")
	}
}
