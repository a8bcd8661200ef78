package html

import (
	"strings"
	"testing"

	"github.com/chrisuehlinger/livedom/native"
)

func findElement(a Adapter, root native.Handle, name string) native.Handle {
	var found native.Handle
	native.Walk(a, root, func(h native.Handle) bool {
		if found != nil {
			return false
		}
		if a.Kind(h) == native.KindElement && a.Name(h) == name {
			found = h
			return false
		}
		return true
	})
	return found
}

func TestParse_BasicDocument(t *testing.T) {
	a := NewAdapter()
	input := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body><p>Hello, World!</p></body>
</html>`

	doc, err := a.Parse(input, native.ModeHTML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if a.Kind(doc) != native.KindDocument {
		t.Errorf("Expected document, got %v", a.Kind(doc))
	}
	if k := a.Kind(a.FirstChild(doc)); k != native.KindDoctype {
		t.Errorf("Expected doctype first, got %v", k)
	}
	if findElement(a, doc, "head") == nil {
		t.Error("Missing head element")
	}
	p := findElement(a, doc, "p")
	if p == nil {
		t.Fatal("Missing p element")
	}
	if got := a.Data(a.FirstChild(p)); got != "Hello, World!" {
		t.Errorf("Expected text 'Hello, World!', got %q", got)
	}
	if a.Parent(a.Parent(p)) == nil {
		t.Error("body should have a parent")
	}
}

func TestParse_Fragment(t *testing.T) {
	a := NewAdapter()
	frag, err := a.Parse(`<li>a</li><li>b</li>text`, native.ModeFragment)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if a.Kind(frag) != native.KindFragment {
		t.Fatalf("Expected fragment, got %v", a.Kind(frag))
	}
	kids := native.Children(a, frag)
	if len(kids) != 3 {
		t.Fatalf("Expected 3 children, got %d", len(kids))
	}
	if a.Parent(kids[0]) != frag {
		t.Error("fragment children should report the fragment as parent")
	}
	if a.Kind(kids[2]) != native.KindText {
		t.Errorf("Expected trailing text node, got %v", a.Kind(kids[2]))
	}
}

func TestParse_XML(t *testing.T) {
	a := NewAdapter()
	doc, err := a.Parse(`<?xml version="1.0"?><Root><Item Key="v">x</Item><!--c--><svg:rect/></Root>`, native.ModeXML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	root := a.FirstChild(doc)
	if a.Name(root) != "Root" {
		t.Errorf("Expected case-preserved Root, got %q", a.Name(root))
	}
	item := a.FirstChild(root)
	if v, ok := a.GetAttribute(item, "Key"); !ok || v != "v" {
		t.Errorf("Expected Key=v, got %q %v", v, ok)
	}
	if a.Kind(a.NextSibling(item)) != native.KindComment {
		t.Error("Expected comment after Item")
	}
	if a.Name(a.LastChild(root)) != "svg:rect" {
		t.Errorf("Expected prefixed name, got %q", a.Name(a.LastChild(root)))
	}

	out, err := a.Serialize(doc, native.ModeXML)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if out != `<Root><Item Key="v">x</Item><!--c--><svg:rect/></Root>` {
		t.Errorf("Unexpected XML output: %s", out)
	}
}

func TestParse_XMLMalformed(t *testing.T) {
	a := NewAdapter()
	for _, in := range []string{`<a><b></a>`, `<a>`} {
		if _, err := a.Parse(in, native.ModeXML); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}

func TestAttributes(t *testing.T) {
	a := NewAdapter()
	doc, _ := a.Parse(`<div id="main" class="a b" data-x="1"></div>`, native.ModeHTML)
	div := findElement(a, doc, "div")

	attrs := a.Attributes(div)
	if len(attrs) != 3 || attrs[0].Name != "id" || attrs[2].Value != "1" {
		t.Fatalf("Unexpected attributes: %+v", attrs)
	}

	a.SetAttribute(div, "title", "t")
	a.SetAttribute(div, "id", "other")
	if v, _ := a.GetAttribute(div, "id"); v != "other" {
		t.Errorf("Expected id=other, got %q", v)
	}
	if len(a.Attributes(div)) != 4 {
		t.Errorf("Expected 4 attributes, got %d", len(a.Attributes(div)))
	}
	if !a.RemoveAttribute(div, "class") {
		t.Error("RemoveAttribute should report removal")
	}
	if a.RemoveAttribute(div, "class") {
		t.Error("second RemoveAttribute should report nothing removed")
	}
	if _, ok := a.GetAttribute(div, "class"); ok {
		t.Error("class should be gone")
	}
}

func TestAttributeHandles(t *testing.T) {
	a := NewAdapter()
	doc, _ := a.Parse(`<p lang="en"></p>`, native.ModeHTML)
	p := findElement(a, doc, "p")

	h1 := a.AttributeHandle(p, "lang")
	h2 := a.AttributeHandle(p, "lang")
	if h1 == nil || h1 != h2 {
		t.Fatal("attribute handles for the same attribute should compare equal")
	}
	if a.Kind(h1) != native.KindAttribute || a.Name(h1) != "lang" || a.Data(h1) != "en" {
		t.Errorf("Unexpected attribute handle state: %v %q %q", a.Kind(h1), a.Name(h1), a.Data(h1))
	}
	if a.Parent(h1) != p {
		t.Error("attribute parent should be its owner element")
	}

	a.SetData(h1, "fr")
	if v, _ := a.GetAttribute(p, "lang"); v != "fr" {
		t.Errorf("SetData on attribute should write through, got %q", v)
	}
	if a.AttributeHandle(p, "missing") != nil {
		t.Error("absent attribute should yield nil handle")
	}

	a.RemoveAttribute(p, "lang")
	if a.Parent(h1) != nil {
		t.Error("removed attribute should have no parent")
	}

	detached := a.CreateAttribute("x", "1")
	if a.Parent(detached) != nil || a.Data(detached) != "1" {
		t.Error("created attribute should be detached with its value")
	}
	out, _ := a.Serialize(detached, native.ModeHTML)
	if out != `x="1"` {
		t.Errorf("Unexpected attribute serialization %q", out)
	}
}

func TestNilHandles(t *testing.T) {
	a := NewAdapter()
	text := a.CreateText("x")
	if a.FirstChild(text) != nil {
		t.Error("text node should have no children")
	}
	if a.Parent(text) != nil {
		t.Error("new node should have no parent")
	}
	if a.NextSibling(text) != nil || a.PrevSibling(text) != nil {
		t.Error("new node should have no siblings")
	}
}

func TestInsertAndRemove(t *testing.T) {
	a := NewAdapter()
	ul := a.CreateElement("ul")
	first := a.CreateElement("li")
	last := a.CreateElement("li")

	if err := a.InsertBefore(ul, last, nil); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := a.InsertBefore(ul, first, last); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if a.FirstChild(ul) != first || a.LastChild(ul) != last {
		t.Error("children out of order")
	}
	if err := a.InsertBefore(ul, first, nil); err == nil {
		t.Error("inserting an attached node should fail")
	}
	if err := a.InsertBefore(ul, a.CreateElement("li"), a.CreateElement("li")); err == nil {
		t.Error("foreign reference node should fail")
	}

	if err := a.RemoveChild(ul, first); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if a.Parent(first) != nil || a.FirstChild(ul) != last {
		t.Error("remove did not unlink")
	}
	if err := a.RemoveChild(ul, first); err == nil {
		t.Error("removing a non-child should fail")
	}
	if err := a.RemoveChild(ul, a.CreateAttribute("a", "")); err == nil {
		t.Error("attribute handle should be rejected")
	}
}

func TestClone(t *testing.T) {
	a := NewAdapter()
	frag, _ := a.Parse(`<div class="c"><span>x</span></div>`, native.ModeFragment)
	div := a.FirstChild(frag)

	shallow := a.Clone(div, false)
	if a.FirstChild(shallow) != nil {
		t.Error("shallow clone should have no children")
	}
	if v, _ := a.GetAttribute(shallow, "class"); v != "c" {
		t.Error("clone should copy attributes")
	}
	a.SetAttribute(shallow, "class", "d")
	if v, _ := a.GetAttribute(div, "class"); v != "c" {
		t.Error("clone attributes must not alias the original")
	}

	deep := a.Clone(div, true)
	out, _ := a.Serialize(deep, native.ModeHTML)
	if !strings.Contains(out, "<span>x</span>") {
		t.Errorf("deep clone lost children: %s", out)
	}
	if a.Parent(deep) != nil {
		t.Error("clone should be detached")
	}
}

func TestSerialize_HTML(t *testing.T) {
	a := NewAdapter()
	frag, _ := a.Parse(`<p title="a&amp;b">x &lt; y</p>`, native.ModeFragment)
	out, err := a.Serialize(frag, native.ModeHTML)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if out != `<p title="a&amp;b">x &lt; y</p>` {
		t.Errorf("Unexpected output %q", out)
	}
	if _, err := a.Serialize("bogus", native.ModeHTML); err == nil {
		t.Error("foreign handle should fail")
	}
}
