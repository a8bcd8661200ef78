package css

import (
	"fmt"

	"github.com/antchfx/xpath"
	"github.com/rs/zerolog"

	"github.com/chrisuehlinger/livedom/native"
)

// Compiler compiles selectors against one adapter and memoizes the results.
// A Compiler is not safe for concurrent use.
type Compiler struct {
	adapter       native.Adapter
	caseSensitive bool
	logger        zerolog.Logger
	cache         map[string]*Query
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithCaseSensitiveNames keeps type and attribute names as written instead of
// folding them to lower case. Use it for XML documents.
func WithCaseSensitiveNames(on bool) Option {
	return func(c *Compiler) {
		c.caseSensitive = on
	}
}

// WithLogger sets the logger used for compilation events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = l
	}
}

// NewCompiler returns a compiler evaluating queries through a.
func NewCompiler(a native.Adapter, opts ...Option) *Compiler {
	c := &Compiler{
		adapter: a,
		logger:  zerolog.Nop(),
		cache:   make(map[string]*Query),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses and translates selector. Syntax errors are returned as
// *SelectorError.
func (c *Compiler) Compile(selector string) (*Query, error) {
	if q, ok := c.cache[selector]; ok {
		return q, nil
	}

	list, err := parseSelector(selector, c.caseSensitive)
	if err != nil {
		return nil, err
	}
	tr := &translator{selector: selector}
	pred, err := tr.list(list)
	if err != nil {
		return nil, err
	}

	q := &Query{
		adapter:  c.adapter,
		selector: selector,
		list:     list,
		xpath:    "descendant::*[" + pred + "]",
	}
	if q.all, err = xpath.Compile(q.xpath); err != nil {
		return nil, fmt.Errorf("css: compile %q: %w", q.xpath, err)
	}
	if q.test, err = xpath.Compile("self::*[" + pred + "]"); err != nil {
		return nil, fmt.Errorf("css: compile %q: %w", pred, err)
	}

	c.logger.Debug().Str("selector", selector).Str("xpath", q.xpath).Msg("compiled selector")
	c.cache[selector] = q
	return q, nil
}

// MustCompile is like Compile but panics on error.
func (c *Compiler) MustCompile(selector string) *Query {
	q, err := c.Compile(selector)
	if err != nil {
		panic(err)
	}
	return q
}

// Query is a compiled selector.
type Query struct {
	adapter  native.Adapter
	selector string
	list     *SelectorList
	xpath    string
	all      *xpath.Expr
	test     *xpath.Expr
}

// All returns the elements below root that match, in document order.
func (q *Query) All(root native.Handle) []native.Handle {
	var out []native.Handle
	q.each(root, func(h native.Handle) bool {
		out = append(out, h)
		return true
	})
	return out
}

// First returns the first matching element below root, or nil.
func (q *Query) First(root native.Handle) native.Handle {
	var found native.Handle
	q.each(root, func(h native.Handle) bool {
		found = h
		return false
	})
	return found
}

func (q *Query) each(root native.Handle, fn func(native.Handle) bool) {
	if root == nil {
		return
	}
	iter := q.all.Select(newNavigator(q.adapter, root))
	for iter.MoveNext() {
		nav, ok := iter.Current().(*navigator)
		if !ok {
			continue
		}
		if !fn(nav.cur) {
			return
		}
	}
}

// Test reports whether the element h matches.
func (q *Query) Test(h native.Handle) bool {
	if h == nil || q.adapter.Kind(h) != native.KindElement {
		return false
	}
	return q.test.Select(newNavigator(q.adapter, h)).MoveNext()
}

// Closest returns the first inclusive ancestor element of h that matches, or nil.
func (q *Query) Closest(h native.Handle) native.Handle {
	for cur := h; cur != nil; cur = q.adapter.Parent(cur) {
		if q.Test(cur) {
			return cur
		}
	}
	return nil
}

// XPath returns the expression evaluated by All.
func (q *Query) XPath() string {
	return q.xpath
}

// Selector returns the parsed selector.
func (q *Query) Selector() *SelectorList {
	return q.list
}

// String returns the selector text the query was compiled from.
func (q *Query) String() string {
	return q.selector
}
