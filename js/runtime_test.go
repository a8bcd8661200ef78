package js

import (
	"bytes"
	"testing"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/livedom/dom"
)

func newTestRuntime(t *testing.T, markup string, opts ...Option) *Runtime {
	t.Helper()
	doc, err := dom.Parse(markup)
	require.NoError(t, err)
	return New(doc, opts...)
}

func TestRuntimeBasic(t *testing.T) {
	r := newTestRuntime(t, "")

	result, err := r.Execute("1 + 2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.ToInteger())

	_, err = r.Execute("var x = 42; function add(a, b) { return a + b; }")
	require.NoError(t, err)
	result, err = r.Execute("add(x, 1)")
	require.NoError(t, err)
	assert.Equal(t, int64(43), result.ToInteger())
}

func TestRuntimeDocumentGlobal(t *testing.T) {
	r := newTestRuntime(t, "<title>Hi</title>")

	result, err := r.Execute("document.title + ':' + document.nodeType")
	require.NoError(t, err)
	assert.Equal(t, "Hi:9", result.String())
	assert.NotNil(t, r.Document())
	assert.NotNil(t, r.VM())
}

func TestRuntimeConsole(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRuntime(t, "", WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	_, err := r.Execute(`console.log("hello", 42); console.warn("careful"); console.assert(false, "broken"); console.debug(null, undefined)`)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"message":"hello 42"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"message":"Assertion failed: broken"`)
	assert.Contains(t, out, `"message":"null undefined"`)
	assert.Contains(t, out, `"source":"console"`)
}

func TestRuntimeErrors(t *testing.T) {
	r := newTestRuntime(t, "")
	var seen []error
	r.SetOnError(func(err error) { seen = append(seen, err) })

	_, err := r.Execute("throw new Error('boom')")
	require.Error(t, err)
	var exc *goja.Exception
	require.ErrorAs(t, err, &exc)
	assert.Contains(t, exc.Error(), "boom")

	err = r.ExecuteScript("function (", "broken.js")
	require.Error(t, err)

	assert.Len(t, r.Errors(), 2)
	assert.Len(t, seen, 2)

	r.ClearErrors()
	assert.Empty(t, r.Errors())
}

func TestFormatArgs(t *testing.T) {
	vm := goja.New()
	got := formatArgs([]goja.Value{vm.ToValue("a"), vm.ToValue(1), goja.Null(), goja.Undefined()})
	assert.Equal(t, "a 1 null undefined", got)
	assert.Equal(t, "", formatArgs(nil))
}
