// Package js exposes a dom.Document to scripts run by the goja JavaScript
// engine. Every property a script reads or writes on a node goes through the
// document's property dispatcher, and the same node always yields the same
// script object.
package js

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"github.com/chrisuehlinger/livedom/dom"
)

type config struct {
	logger zerolog.Logger
}

// Option configures a Runtime.
type Option func(*config)

// WithLogger sets the logger receiving console output and binding events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Runtime wraps a goja runtime with a bound document.
type Runtime struct {
	vm      *goja.Runtime
	doc     *dom.Document
	binder  *binder
	logger  zerolog.Logger
	mu      sync.Mutex
	errors  []error
	onError func(error)
}

// New creates a runtime with doc bound to the global "document".
func New(doc *dom.Document, opts ...Option) *Runtime {
	cfg := &config{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	vm := goja.New()
	r := &Runtime{
		vm:     vm,
		doc:    doc,
		logger: cfg.logger,
	}
	r.binder = newBinder(vm, cfg.logger)

	r.setupConsole()
	if err := vm.Set("document", r.binder.node(doc.AsNode())); err != nil {
		// Setting a global on a fresh runtime cannot fail.
		panic(err)
	}
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Document returns the bound document.
func (r *Runtime) Document() *dom.Document {
	return r.doc
}

// ToValue returns the script value for a Go value, using the same conversion
// as property reads: nodes map to their cached object, collections to live
// array-like objects.
func (r *Runtime) ToValue(v any) goja.Value {
	return r.binder.toJS(v)
}

// SetOnError sets a callback for script errors.
func (r *Runtime) SetOnError(handler func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = handler
}

// Execute runs code and returns the completion value.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.recordError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.recordError(err)
	}
	return result, err
}

// ExecuteScript compiles and runs code from a named source. Scripts are
// compiled in sloppy mode unless they opt into strict mode.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.recordError(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.recordError(err)
		return err
	}
	if _, err = r.vm.RunProgram(program); err != nil {
		r.recordError(err)
	}
	return err
}

func (r *Runtime) recordError(err error) {
	r.errors = append(r.errors, err)
	r.logger.Debug().Err(err).Msg("script error")
	if r.onError != nil {
		r.onError(err)
	}
}

// Errors returns all errors recorded so far.
func (r *Runtime) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = r.errors[:0]
}

// Collect runs dom.Document.Collect and then drops cached script objects
// whose wrappers were evicted. It returns the number of dropped objects.
func (r *Runtime) Collect() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc.Collect()
	return r.binder.prune()
}

// setupConsole creates the console object. Output goes to the logger.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	levels := map[string]zerolog.Level{
		"log":   zerolog.InfoLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"debug": zerolog.DebugLevel,
		"trace": zerolog.TraceLevel,
	}
	for name, level := range levels {
		_ = console.Set(name, func(call goja.FunctionCall) goja.Value {
			r.logger.WithLevel(level).Str("source", "console").Msg(formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}

	_ = console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			msg := "Assertion failed"
			if len(call.Arguments) > 1 {
				msg += ": " + formatArgs(call.Arguments[1:])
			}
			r.logger.Error().Str("source", "console").Msg(msg)
		}
		return goja.Undefined()
	})

	_ = r.vm.Set("console", console)
}

// formatArgs formats function call arguments for console output.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}
	return strings.Join(parts, " ")
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
