package dom

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chrisuehlinger/livedom/css"
	"github.com/chrisuehlinger/livedom/native"
)

// Document represents an entire HTML or XML document. It owns the registry
// and selector compiler shared by every node of its tree.
type Document Node

// documentData holds data specific to Document nodes.
type documentData struct {
	adapter  native.Adapter
	mode     native.Mode
	cfg      *config
	registry *Registry
	compiler *css.Compiler
	props    propertyTable
	logger   zerolog.Logger

	// Fragments created by this document and not yet released. Their
	// subtrees count as reachable during Collect.
	fragments map[native.Handle]struct{}
}

const emptyHTML = "<!DOCTYPE html><html><head></head><body></body></html>"

// Parse parses an HTML document.
func Parse(markup string, opts ...Option) (*Document, error) {
	return parse(markup, native.ModeHTML, newConfig(opts))
}

// ParseXML parses a generic XML document. Element and attribute names keep
// their case and selectors match them case-sensitively.
func ParseXML(markup string, opts ...Option) (*Document, error) {
	return parse(markup, native.ModeXML, newConfig(opts))
}

// NewDocument creates an HTML document with an empty head and body.
func NewDocument(opts ...Option) (*Document, error) {
	return parse(emptyHTML, native.ModeHTML, newConfig(opts))
}

func parse(markup string, mode native.Mode, cfg *config) (*Document, error) {
	h, err := cfg.adapter.Parse(markup, mode)
	if err != nil {
		return nil, fmt.Errorf("dom: parse %s: %w", mode, err)
	}
	if k := cfg.adapter.Kind(h); k != native.KindDocument {
		return nil, errConfiguration(fmt.Sprintf("adapter parsed a %s, want a document", k))
	}
	return newDocument(h, mode, cfg), nil
}

func newDocument(h native.Handle, mode native.Mode, cfg *config) *Document {
	d := &Document{handle: h, nodeType: DocumentNode}
	d.doc = d

	copts := []css.Option{css.WithLogger(cfg.logger)}
	if mode == native.ModeXML {
		copts = append(copts, css.WithCaseSensitiveNames(true))
	}
	d.documentData = &documentData{
		adapter:   cfg.adapter,
		mode:      mode,
		cfg:       cfg,
		compiler:  css.NewCompiler(cfg.adapter, copts...),
		props:     newPropertyTable(cfg.custom),
		logger:    cfg.logger,
		fragments: make(map[native.Handle]struct{}),
	}
	d.documentData.registry = newRegistry(d, cfg.logger)
	cfg.logger.Debug().Stringer("mode", mode).Msg("document created")
	return d
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

func (d *Document) adapter() native.Adapter {
	return d.documentData.adapter
}

func (d *Document) wrap(h native.Handle) *Node {
	return d.AsNode().wrap(h)
}

// IsXML reports whether the document was parsed as XML.
func (d *Document) IsXML() bool {
	return d.documentData.mode == native.ModeXML
}

// Adapter returns the native tree adapter.
func (d *Document) Adapter() native.Adapter {
	return d.documentData.adapter
}

// Registry returns the identity registry of the document.
func (d *Document) Registry() *Registry {
	return d.documentData.registry
}

// Resolve returns the wrapper for a native handle of this document's tree.
func (d *Document) Resolve(h native.Handle) (*Node, error) {
	return d.documentData.registry.Resolve(h)
}

// Compiler returns the selector compiler used by queries on this document.
func (d *Document) Compiler() *css.Compiler {
	return d.documentData.compiler
}

// Serialize renders the document as markup.
func (d *Document) Serialize() (string, error) {
	return d.adapter().Serialize(d.handle, d.documentData.mode)
}

// Doctype returns the document type node, or nil.
func (d *Document) Doctype() *DocumentType {
	a := d.adapter()
	for c := a.FirstChild(d.handle); c != nil; c = a.NextSibling(c) {
		if a.Kind(c) == native.KindDoctype {
			return (*DocumentType)(d.wrap(c))
		}
	}
	return nil
}

// DocumentElement returns the root element of the document.
func (d *Document) DocumentElement() *Element {
	return d.AsNode().FirstElementChild()
}

// Head returns the <head> element.
func (d *Document) Head() *Element {
	return d.rootChild("head")
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.rootChild("body")
}

func (d *Document) rootChild(tag string) *Element {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	a := d.adapter()
	for c := a.FirstChild(root.handle); c != nil; c = a.NextSibling(c) {
		if isHTMLElement(a, c, tag) {
			return d.wrap(c).AsElement()
		}
	}
	return nil
}

// Title returns the text of the first <title> element, with whitespace collapsed.
func (d *Document) Title() string {
	t := d.titleElement()
	if t == nil {
		return ""
	}
	return strings.Join(strings.Fields(t.AsNode().TextContent()), " ")
}

// SetTitle sets the document title, creating a <title> in <head> if needed.
func (d *Document) SetTitle(title string) error {
	if t := d.titleElement(); t != nil {
		t.AsNode().SetTextContent(title)
		return nil
	}
	head := d.Head()
	if head == nil {
		return nil
	}
	el, err := d.CreateElement("title")
	if err != nil {
		return err
	}
	el.AsNode().SetTextContent(title)
	_, err = head.AsNode().AppendChild(el.AsNode())
	return err
}

func (d *Document) titleElement() *Element {
	a := d.adapter()
	var found native.Handle
	native.Walk(a, d.handle, func(h native.Handle) bool {
		if found != nil {
			return false
		}
		if isHTMLElement(a, h, "title") {
			found = h
			return false
		}
		return true
	})
	return d.wrap(found).AsElement()
}

// CreateElement creates a new element with the given tag name.
// HTML documents lower-case the name.
// Returns an InvalidCharacterError if the tag name is not a valid XML Name.
func (d *Document) CreateElement(tagName string) (*Element, error) {
	if !isValidXMLName(tagName) {
		return nil, errInvalidCharacter(fmt.Sprintf("%q is not a valid element name.", tagName))
	}
	if !d.IsXML() {
		tagName = asciiLower(tagName)
	}
	return d.wrap(d.adapter().CreateElement(tagName)).AsElement(), nil
}

// CreateTextNode creates a new text node.
func (d *Document) CreateTextNode(data string) *Text {
	return (*Text)(d.wrap(d.adapter().CreateText(data)))
}

// CreateComment creates a new comment node.
func (d *Document) CreateComment(data string) *Comment {
	return (*Comment)(d.wrap(d.adapter().CreateComment(data)))
}

// CreateDocumentFragment creates an empty fragment tracked by this document.
func (d *Document) CreateDocumentFragment() *DocumentFragment {
	h := d.adapter().CreateFragment()
	d.track(h)
	return (*DocumentFragment)(d.wrap(h))
}

// CreateAttribute creates an attribute that is not attached to any element.
func (d *Document) CreateAttribute(name string) (*Attr, error) {
	if !isValidXMLName(name) {
		return nil, errInvalidCharacter(fmt.Sprintf("%q is not a valid attribute name.", name))
	}
	if !d.IsXML() {
		name = asciiLower(name)
	}
	return (*Attr)(d.wrap(d.adapter().CreateAttribute(name, ""))), nil
}

// ParseFragment parses markup into a new fragment tracked by this document.
// HTML is parsed in a body context.
func (d *Document) ParseFragment(markup string) (*DocumentFragment, error) {
	a := d.adapter()
	var h native.Handle
	if d.IsXML() {
		doc, err := a.Parse("<fragment>"+markup+"</fragment>", native.ModeXML)
		if err != nil {
			return nil, fmt.Errorf("dom: parse fragment: %w", err)
		}
		h = a.CreateFragment()
		wrapper := a.FirstChild(doc)
		for _, c := range native.Children(a, wrapper) {
			if err := a.RemoveChild(wrapper, c); err != nil {
				return nil, fmt.Errorf("dom: parse fragment: %w", err)
			}
			if err := a.InsertBefore(h, c, nil); err != nil {
				return nil, fmt.Errorf("dom: parse fragment: %w", err)
			}
		}
	} else {
		var err error
		if h, err = a.Parse(markup, native.ModeFragment); err != nil {
			return nil, fmt.Errorf("dom: parse fragment: %w", err)
		}
	}
	d.track(h)
	return (*DocumentFragment)(d.wrap(h)), nil
}

// GetElementById returns the first element in tree order with the given id.
func (d *Document) GetElementById(id string) *Element {
	return d.AsNode().getElementByID(id)
}

// GetElementsByName returns a live collection of elements whose name
// attribute equals name.
func (d *Document) GetElementsByName(name string) *HTMLCollection {
	a := d.adapter()
	return newDescendantCollection(d.AsNode(), func(h native.Handle) bool {
		v, ok := a.GetAttribute(h, "name")
		return ok && v == name
	})
}

func (d *Document) GetElementsByTagName(name string) *HTMLCollection {
	return d.AsNode().GetElementsByTagName(name)
}

func (d *Document) GetElementsByClassName(classNames string) *HTMLCollection {
	return d.AsNode().GetElementsByClassName(classNames)
}

func (d *Document) QuerySelector(selector string) (*Element, error) {
	return d.AsNode().QuerySelector(selector)
}

func (d *Document) QuerySelectorAll(selector string) (*NodeList, error) {
	return d.AsNode().QuerySelectorAll(selector)
}

// Forms returns a live collection of the <form> elements.
func (d *Document) Forms() *HTMLCollection {
	return d.tagCollection("form")
}

// Images returns a live collection of the <img> elements.
func (d *Document) Images() *HTMLCollection {
	return d.tagCollection("img")
}

// Anchors returns a live collection of the <a> elements with a name attribute.
func (d *Document) Anchors() *HTMLCollection {
	a := d.adapter()
	return newDescendantCollection(d.AsNode(), func(h native.Handle) bool {
		_, ok := a.GetAttribute(h, "name")
		return ok && isHTMLElement(a, h, "a")
	})
}

// Links returns a live collection of the <a> and <area> elements with an href.
func (d *Document) Links() *HTMLCollection {
	a := d.adapter()
	return newDescendantCollection(d.AsNode(), func(h native.Handle) bool {
		if _, ok := a.GetAttribute(h, "href"); !ok {
			return false
		}
		return isHTMLElement(a, h, "a") || isHTMLElement(a, h, "area")
	})
}

func (d *Document) tagCollection(tag string) *HTMLCollection {
	a := d.adapter()
	return newDescendantCollection(d.AsNode(), func(h native.Handle) bool {
		return isHTMLElement(a, h, tag)
	})
}

// Get resolves a derived property of the document.
func (d *Document) Get(name string) (any, error) {
	return d.AsNode().Get(name)
}

// Set assigns a derived property of the document.
func (d *Document) Set(name string, value any) error {
	return d.AsNode().Set(name, value)
}

// Collect evicts registry entries whose nodes are no longer reachable from
// the document or from a fragment it tracks, and returns how many were evicted.
// Wrappers still held by callers are registered again when passed back in.
func (d *Document) Collect() int {
	a := d.adapter()
	live := make(map[native.Handle]struct{})
	mark := func(root native.Handle) {
		native.Walk(a, root, func(h native.Handle) bool {
			live[h] = struct{}{}
			for _, attr := range a.Attributes(h) {
				live[a.AttributeHandle(h, attr.Name)] = struct{}{}
			}
			return true
		})
	}
	mark(d.handle)
	for f := range d.documentData.fragments {
		mark(f)
	}

	reg := d.documentData.registry
	evicted := reg.retain(live)
	d.documentData.logger.Debug().Int("evicted", evicted).Int("entries", reg.Len()).Msg("registry collected")
	return evicted
}

// Release drops every registry entry and stops tracking fragments. The
// document stays usable; wrappers are created again on demand.
func (d *Document) Release() {
	dropped := d.documentData.registry.clear()
	clear(d.documentData.fragments)
	d.documentData.logger.Debug().Int("dropped", dropped).Msg("registry released")
}

func (d *Document) track(h native.Handle) {
	d.documentData.fragments[h] = struct{}{}
}

func (d *Document) untrack(h native.Handle) {
	delete(d.documentData.fragments, h)
}

// adopt moves n, or the children of a fragment n, into this document's
// registry, and re-registers n if its entry was evicted.
func (d *Document) adopt(n *Node) {
	reg := d.documentData.registry
	if n.doc == d {
		reg.claim(n)
		return
	}
	from := n.doc.documentData.registry
	if n.nodeType == DocumentFragmentNode {
		for _, c := range native.Children(d.adapter(), n.handle) {
			reg.adoptSubtree(from, c)
		}
		return
	}
	reg.adoptSubtree(from, n.handle)
	n.doc = d
	reg.claim(n)
	d.documentData.logger.Trace().Stringer("type", n.nodeType).Msg("node adopted")
}

// clone returns a new document over a copy of the native tree.
func (d *Document) clone(deep bool) *Document {
	h := d.adapter().Clone(d.handle, deep)
	return newDocument(h, d.documentData.mode, d.documentData.cfg)
}

// isHTMLElement reports whether h is an element named tag outside any
// foreign (SVG, MathML) namespace.
func isHTMLElement(a native.Adapter, h native.Handle, tag string) bool {
	return a.Kind(h) == native.KindElement && a.Namespace(h) == "" && a.Name(h) == tag
}
