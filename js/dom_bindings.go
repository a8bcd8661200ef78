package js

import (
	"errors"
	"strconv"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"github.com/chrisuehlinger/livedom/dom"
)

// domExceptionCode returns the legacy exception code for a DOMException name.
func domExceptionCode(name string) int {
	switch name {
	case "IndexSizeError":
		return 1
	case "HierarchyRequestError":
		return 3
	case "InvalidCharacterError":
		return 5
	case "NotFoundError":
		return 8
	case "InUseAttributeError":
		return 10
	case "SyntaxError", "InvalidSelectorError":
		return 12
	}
	return 0
}

// binder converts between dom values and script values. It keeps one script
// object per wrapper node.
type binder struct {
	vm       *goja.Runtime
	logger   zerolog.Logger
	objects  map[*dom.Node]*goja.Object
	listBase *goja.Object
}

func newBinder(vm *goja.Runtime, logger zerolog.Logger) *binder {
	b := &binder{
		vm:      vm,
		logger:  logger,
		objects: make(map[*dom.Node]*goja.Object),
	}

	// Array-like objects borrow iteration from Array.prototype.
	arrayProto := vm.Get("Array").ToObject(vm).Get("prototype").ToObject(vm)
	b.listBase = vm.NewObject()
	_ = b.listBase.Set("forEach", arrayProto.Get("forEach"))
	_ = b.listBase.SetSymbol(goja.SymIterator, arrayProto.GetSymbol(goja.SymIterator))
	return b
}

// node returns the script object for n, creating it on first use.
func (b *binder) node(n *dom.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if obj, ok := b.objects[n]; ok {
		return obj
	}
	obj := b.vm.NewDynamicObject(&nodeObject{b: b, n: n})
	b.objects[n] = obj
	b.logger.Trace().Stringer("type", n.NodeType()).Int("objects", len(b.objects)).Msg("script object created")
	return obj
}

// prune drops objects whose wrapper is no longer registered.
func (b *binder) prune() int {
	dropped := 0
	for n := range b.objects {
		doc := n.OwnerDocument()
		if doc == nil {
			doc = (*dom.Document)(n)
		}
		if !doc.Registry().Contains(n) {
			delete(b.objects, n)
			dropped++
		}
	}
	b.logger.Debug().Int("dropped", dropped).Int("objects", len(b.objects)).Msg("script objects pruned")
	return dropped
}

func (b *binder) toJS(v any) goja.Value {
	switch x := v.(type) {
	case nil:
		return goja.Null()
	case *dom.Node:
		return b.node(x)
	case dom.Method:
		return b.function(x)
	case *dom.NodeList:
		return b.nodeList(x)
	case *dom.HTMLCollection:
		return b.collection(x)
	case *dom.DOMTokenList:
		return b.tokenList(x)
	case *dom.NamedNodeMap:
		return b.attributeMap(x)
	case *dom.DOMStringMap:
		return b.vm.NewDynamicObject(&datasetObject{b: b, m: x})
	case *dom.CSSStyleDeclaration:
		return b.vm.NewDynamicObject(&styleObject{b: b, s: x, methods: b.styleMethods(x)})
	case interface{ AsNode() *dom.Node }:
		return b.node(x.AsNode())
	}
	return b.vm.ToValue(v)
}

func (b *binder) fromJS(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if obj, ok := v.(*goja.Object); ok {
		switch x := obj.Export().(type) {
		case *nodeObject:
			return x.n
		case *datasetObject:
			return x.m
		case *styleObject:
			return x.s
		case *arrayLike:
			return x.source
		}
	}
	return v.Export()
}

// function wraps a dispatcher method as a script function.
func (b *binder) function(m dom.Method) goja.Value {
	return b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		args := make([]any, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = b.fromJS(a)
		}
		v, err := m(args...)
		if err != nil {
			b.throw(err)
		}
		return b.toJS(v)
	})
}

// throw raises err as a script exception. Read-only and unsupported writes
// are TypeErrors and selector or token syntax failures SyntaxErrors; other
// DOM errors keep their name and legacy code.
func (b *binder) throw(err error) {
	panic(b.errorValue(err))
}

func (b *binder) errorValue(err error) goja.Value {
	var de *dom.DOMError
	switch {
	case errors.Is(err, dom.ErrReadOnlyProperty), errors.Is(err, dom.ErrUnsupportedOperation):
		return b.vm.NewTypeError(err.Error())
	case errors.Is(err, dom.ErrInvalidSelector), errors.Is(err, dom.ErrSyntax):
		return b.newError("SyntaxError", err.Error())
	case errors.As(err, &de):
		exc := b.newError("Error", de.Message)
		_ = exc.Set("name", de.Name)
		_ = exc.Set("code", domExceptionCode(de.Name))
		return exc
	}
	return b.vm.NewGoError(err)
}

func (b *binder) newError(ctorName, message string) *goja.Object {
	if ctor, ok := goja.AssertConstructor(b.vm.Get(ctorName)); ok {
		if exc, err := ctor(nil, b.vm.ToValue(message)); err == nil {
			return exc
		}
	}
	exc := b.vm.NewObject()
	_ = exc.Set("name", ctorName)
	_ = exc.Set("message", message)
	return exc
}

// nodeObject is the script view of a wrapper node. Names the dispatcher does
// not resolve fall through to Object.prototype.
type nodeObject struct {
	b       *binder
	n       *dom.Node
	methods map[string]goja.Value
}

func (o *nodeObject) Get(key string) goja.Value {
	if !o.n.HasProperty(key) {
		return nil
	}
	v, err := o.n.Get(key)
	if err != nil {
		o.b.throw(err)
	}
	if m, ok := v.(dom.Method); ok {
		// Keep method identity stable for a node.
		if fn, ok := o.methods[key]; ok {
			return fn
		}
		if o.methods == nil {
			o.methods = make(map[string]goja.Value)
		}
		fn := o.b.function(m)
		o.methods[key] = fn
		return fn
	}
	return o.b.toJS(v)
}

func (o *nodeObject) Set(key string, val goja.Value) bool {
	if err := o.n.Set(key, o.b.fromJS(val)); err != nil {
		o.b.throw(err)
	}
	return true
}

func (o *nodeObject) Has(key string) bool {
	return o.n.HasProperty(key)
}

func (o *nodeObject) Delete(key string) bool {
	el := o.n.AsElement()
	if el != nil && el.HasAttribute(key) {
		el.RemoveAttribute(key)
		return true
	}
	return !o.n.HasProperty(key)
}

func (o *nodeObject) Keys() []string {
	return nil
}

// arrayLike is the script view of a collection: indexed members, a length,
// a few methods and optionally named members. Every access reads the
// underlying collection again.
type arrayLike struct {
	b       *binder
	source  any
	length  func() int
	item    func(i int) goja.Value
	methods map[string]goja.Value
	props   map[string]func() goja.Value
	setters map[string]func(goja.Value) error
	named   func(name string) goja.Value
	names   func() []string
	kind    string
}

func (b *binder) newArrayLike(l *arrayLike) *goja.Object {
	l.b = b
	obj := b.vm.NewDynamicObject(l)
	_ = obj.SetPrototype(b.listBase)
	return obj
}

func parseIndex(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || strconv.Itoa(i) != key {
		return 0, false
	}
	return i, true
}

func (l *arrayLike) Get(key string) goja.Value {
	if i, ok := parseIndex(key); ok {
		if i >= l.length() {
			return nil
		}
		return l.item(i)
	}
	if key == "length" {
		return l.b.vm.ToValue(l.length())
	}
	if fn, ok := l.methods[key]; ok {
		return fn
	}
	if get, ok := l.props[key]; ok {
		return get()
	}
	if l.named != nil {
		return l.named(key)
	}
	return nil
}

func (l *arrayLike) Set(key string, val goja.Value) bool {
	if i, ok := parseIndex(key); ok {
		if c, ok := l.source.(*dom.HTMLCollection); ok {
			l.b.throw(c.SetItem(i, nil))
		}
		l.b.throw(l.readOnly("assign index " + key))
	}
	if set, ok := l.setters[key]; ok {
		if err := set(val); err != nil {
			l.b.throw(err)
		}
		return true
	}
	if key == "length" {
		l.b.throw(l.readOnly("assign length"))
	}
	return false
}

func (l *arrayLike) readOnly(op string) error {
	return &dom.DOMError{Name: dom.ErrUnsupportedOperation.Name, Message: l.kind + " is read-only; cannot " + op + "."}
}

func (l *arrayLike) Has(key string) bool {
	if i, ok := parseIndex(key); ok {
		return i < l.length()
	}
	if key == "length" {
		return true
	}
	if _, ok := l.methods[key]; ok {
		return true
	}
	if _, ok := l.props[key]; ok {
		return true
	}
	return l.named != nil && l.named(key) != nil
}

func (l *arrayLike) Delete(key string) bool {
	if i, ok := parseIndex(key); ok && i < l.length() {
		if c, ok := l.source.(*dom.HTMLCollection); ok {
			l.b.throw(c.DeleteItem(i))
		}
		l.b.throw(l.readOnly("delete index " + key))
	}
	return !l.Has(key)
}

func (l *arrayLike) Keys() []string {
	n := l.length()
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, strconv.Itoa(i))
	}
	if l.names != nil {
		keys = append(keys, l.names()...)
	}
	return keys
}

// nullable converts a possibly nil result into null.
func (b *binder) nullable(v goja.Value) goja.Value {
	if v == nil {
		return goja.Null()
	}
	return v
}

func argInt(call goja.FunctionCall, i int) int {
	return int(call.Argument(i).ToInteger())
}

func (b *binder) nodeList(list *dom.NodeList) *goja.Object {
	item := func(i int) goja.Value { return b.node(list.Item(i)) }
	return b.newArrayLike(&arrayLike{
		source: list,
		kind:   "NodeList",
		length: list.Length,
		item:   item,
		methods: map[string]goja.Value{
			"item": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				return item(argInt(call, 0))
			}),
		},
	})
}

func (b *binder) collection(c *dom.HTMLCollection) *goja.Object {
	item := func(i int) goja.Value { return b.node(c.Item(i).AsNode()) }
	namedItem := func(name string) goja.Value { return b.node(c.NamedItem(name).AsNode()) }
	return b.newArrayLike(&arrayLike{
		source: c,
		kind:   "HTMLCollection",
		length: c.Length,
		item:   item,
		methods: map[string]goja.Value{
			"item": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				return item(argInt(call, 0))
			}),
			"namedItem": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				return namedItem(call.Argument(0).String())
			}),
		},
		named: func(name string) goja.Value {
			if el := c.NamedItem(name); el != nil {
				return b.node(el.AsNode())
			}
			return nil
		},
		names: func() []string {
			var names []string
			for _, np := range c.NamedProperties() {
				names = append(names, np.Name)
			}
			return names
		},
	})
}

func (b *binder) attributeMap(m *dom.NamedNodeMap) *goja.Object {
	attr := func(a *dom.Attr) goja.Value { return b.node(a.AsNode()) }
	return b.newArrayLike(&arrayLike{
		source: m,
		kind:   "NamedNodeMap",
		length: m.Length,
		item:   func(i int) goja.Value { return attr(m.Item(i)) },
		methods: map[string]goja.Value{
			"item": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				return attr(m.Item(argInt(call, 0)))
			}),
			"getNamedItem": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				return attr(m.GetNamedItem(call.Argument(0).String()))
			}),
			"setNamedItem": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				a, ok := b.fromJS(call.Argument(0)).(*dom.Node)
				if !ok || a.NodeType() != dom.AttributeNode {
					panic(b.vm.NewTypeError("Argument 1 is not an Attr."))
				}
				old, err := m.SetNamedItem((*dom.Attr)(a))
				if err != nil {
					b.throw(err)
				}
				return attr(old)
			}),
			"removeNamedItem": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				old, err := m.RemoveNamedItem(call.Argument(0).String())
				if err != nil {
					b.throw(err)
				}
				return attr(old)
			}),
		},
		named: func(name string) goja.Value {
			if a := m.GetNamedItem(name); a != nil {
				return attr(a)
			}
			return nil
		},
	})
}

func (b *binder) tokenList(l *dom.DOMTokenList) *goja.Object {
	tokens := func(call goja.FunctionCall) []string {
		out := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			out[i] = a.String()
		}
		return out
	}
	boolResult := func(v bool, err error) goja.Value {
		if err != nil {
			b.throw(err)
		}
		return b.vm.ToValue(v)
	}
	return b.newArrayLike(&arrayLike{
		source: l,
		kind:   "DOMTokenList",
		length: l.Length,
		item: func(i int) goja.Value {
			tok, ok := l.Item(i)
			if !ok {
				return goja.Null()
			}
			return b.vm.ToValue(tok)
		},
		methods: map[string]goja.Value{
			"item": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				if tok, ok := l.Item(argInt(call, 0)); ok {
					return b.vm.ToValue(tok)
				}
				return goja.Null()
			}),
			"contains": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				return b.vm.ToValue(l.Contains(call.Argument(0).String()))
			}),
			"add": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				if err := l.Add(tokens(call)...); err != nil {
					b.throw(err)
				}
				return goja.Undefined()
			}),
			"remove": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				if err := l.Remove(tokens(call)...); err != nil {
					b.throw(err)
				}
				return goja.Undefined()
			}),
			"toggle": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				token := call.Argument(0).String()
				if force := call.Argument(1); !goja.IsUndefined(force) {
					return boolResult(l.Toggle(token, force.ToBoolean()))
				}
				return boolResult(l.Toggle(token))
			}),
			"replace": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
				return boolResult(l.Replace(call.Argument(0).String(), call.Argument(1).String()))
			}),
			"toString": b.vm.ToValue(func(goja.FunctionCall) goja.Value {
				return b.vm.ToValue(l.Value())
			}),
		},
		props: map[string]func() goja.Value{
			"value": func() goja.Value { return b.vm.ToValue(l.Value()) },
		},
		setters: map[string]func(goja.Value) error{
			"value": func(v goja.Value) error {
				l.SetValue(v.String())
				return nil
			},
		},
	})
}

// datasetObject is the script view of a DOMStringMap.
type datasetObject struct {
	b *binder
	m *dom.DOMStringMap
}

func (o *datasetObject) Get(key string) goja.Value {
	if v, ok := o.m.Get(key); ok {
		return o.b.vm.ToValue(v)
	}
	return nil
}

func (o *datasetObject) Set(key string, val goja.Value) bool {
	if err := o.m.Set(key, val.String()); err != nil {
		o.b.throw(err)
	}
	return true
}

func (o *datasetObject) Has(key string) bool {
	return o.m.Has(key)
}

func (o *datasetObject) Delete(key string) bool {
	o.m.Delete(key)
	return true
}

func (o *datasetObject) Keys() []string {
	return o.m.Keys()
}

// styleObject is the script view of an inline CSSStyleDeclaration. Property
// names may be camelCase or hyphenated.
type styleObject struct {
	b       *binder
	s       *dom.CSSStyleDeclaration
	methods map[string]goja.Value
}

func (b *binder) styleMethods(s *dom.CSSStyleDeclaration) map[string]goja.Value {
	return map[string]goja.Value{
		"getPropertyValue": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return b.vm.ToValue(s.GetPropertyValue(call.Argument(0).String()))
		}),
		"getPropertyPriority": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return b.vm.ToValue(s.GetPropertyPriority(call.Argument(0).String()))
		}),
		"setProperty": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			var priority []string
			if p := call.Argument(2); !goja.IsUndefined(p) {
				priority = append(priority, p.String())
			}
			s.SetProperty(call.Argument(0).String(), call.Argument(1).String(), priority...)
			return goja.Undefined()
		}),
		"removeProperty": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return b.vm.ToValue(s.RemoveProperty(call.Argument(0).String()))
		}),
		"item": b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return b.vm.ToValue(s.Item(argInt(call, 0)))
		}),
	}
}

func (o *styleObject) Get(key string) goja.Value {
	switch key {
	case "cssText":
		return o.b.vm.ToValue(o.s.CSSText())
	case "length":
		return o.b.vm.ToValue(o.s.Length())
	}
	if fn, ok := o.methods[key]; ok {
		return fn
	}
	if i, ok := parseIndex(key); ok {
		if i >= o.s.Length() {
			return nil
		}
		return o.b.vm.ToValue(o.s.Item(i))
	}
	if o.Has(key) {
		return o.b.vm.ToValue(o.s.GetPropertyValue(key))
	}
	return nil
}

func (o *styleObject) Set(key string, val goja.Value) bool {
	switch key {
	case "cssText":
		o.s.SetCSSText(val.String())
		return true
	case "length":
		o.b.throw(&dom.DOMError{Name: dom.ErrReadOnlyProperty.Name, Message: "Cannot set property \"length\", it has no setter."})
	}
	value := ""
	if !goja.IsNull(val) && !goja.IsUndefined(val) {
		value = val.String()
	}
	o.s.SetProperty(key, value)
	return true
}

func (o *styleObject) Has(key string) bool {
	if key == "cssText" || key == "length" {
		return true
	}
	if _, ok := o.methods[key]; ok {
		return true
	}
	return o.s.GetPropertyValue(key) != ""
}

func (o *styleObject) Delete(key string) bool {
	o.s.RemoveProperty(key)
	return true
}

func (o *styleObject) Keys() []string {
	return o.s.CamelCaseNames()
}
