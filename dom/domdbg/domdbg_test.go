package domdbg_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/livedom/dom"
	"github.com/chrisuehlinger/livedom/dom/domdbg"
)

func TestSprint(t *testing.T) {
	doc, err := dom.Parse("<!DOCTYPE html><div id=\"a\" class=\"x y\">\n  <p>hello</p>\n  <!-- note -->\n</div>")
	require.NoError(t, err)

	out := domdbg.Sprint(doc.AsNode())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "#document", lines[0])
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `<div id="a" class="x y">`)
	assert.Contains(t, out, `#text "hello"`)
	assert.Contains(t, out, "<!-- note -->")
	assert.NotContains(t, out, "<!--  note")
	assert.NotContains(t, out, `#text "\n  "`)
}

func TestSprint_Options(t *testing.T) {
	doc, err := dom.Parse("<div id=\"a\"> <b>x</b></div>")
	require.NoError(t, err)
	div := doc.GetElementById("a").AsNode()

	out := domdbg.Sprint(div, domdbg.WithoutAttributes(), domdbg.WithWhitespace())
	assert.True(t, strings.HasPrefix(out, "<div>\n"), out)
	assert.Contains(t, out, `#text " "`)
	assert.Contains(t, out, "<b>")
}

func TestSprint_Truncates(t *testing.T) {
	doc, err := dom.Parse("<p id=\"p\">" + strings.Repeat("a", 100) + "</p>")
	require.NoError(t, err)

	out := domdbg.Sprint(doc.GetElementById("p").AsNode())
	assert.Contains(t, out, strings.Repeat("a", 40)+"…")
	assert.NotContains(t, out, strings.Repeat("a", 41))
}

func TestFprint(t *testing.T) {
	doc, err := dom.Parse("<p id=\"p\">x</p>")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, domdbg.Fprint(&buf, doc.GetElementById("p").AsNode()))
	assert.Equal(t, domdbg.Sprint(doc.GetElementById("p").AsNode()), buf.String())
	assert.Empty(t, domdbg.Sprint(nil))
}
