package css

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector_Structure(t *testing.T) {
	list, err := ParseSelector("UL > li.item + LI ~ p, a[HREF^='http' i]")
	require.NoError(t, err)
	require.Len(t, list.Selectors, 2)

	first := list.Selectors[0]
	require.Len(t, first.Compounds, 4)
	assert.Equal(t, "ul", first.Compounds[0].TypeName)
	assert.Equal(t, CombinatorChild, first.Compounds[0].Combinator)
	assert.Equal(t, []string{"item"}, first.Compounds[1].Classes)
	assert.Equal(t, CombinatorNextSibling, first.Compounds[1].Combinator)
	assert.Equal(t, CombinatorSubsequentSibling, first.Compounds[2].Combinator)
	assert.Equal(t, CombinatorNone, first.Compounds[3].Combinator)

	attr := list.Selectors[1].Compounds[0].Attributes[0]
	assert.Equal(t, "href", attr.Name)
	assert.Equal(t, AttrPrefix, attr.Operator)
	assert.Equal(t, "http", attr.Value)
	assert.True(t, attr.CaseInsensitive)

	assert.Equal(t, `ul > li.item + li ~ p, a[href^="http" i]`, list.String())
}

func TestParseSelector_CaseSensitive(t *testing.T) {
	list, err := parseSelector("Item[Key]", true)
	require.NoError(t, err)
	assert.Equal(t, "Item", list.Selectors[0].Compounds[0].TypeName)
	assert.Equal(t, "Key", list.Selectors[0].Compounds[0].Attributes[0].Name)
}

func TestParseSelector_Pseudos(t *testing.T) {
	list, err := ParseSelector("li:nth-of-type( odd ):not(.a, .b):has(> span)")
	require.NoError(t, err)
	pcs := list.Selectors[0].Compounds[0].Pseudos
	require.Len(t, pcs, 3)
	assert.Equal(t, &Nth{A: 2, B: 1}, pcs[0].Nth)
	assert.Len(t, pcs[1].Selector.Selectors, 2)
	assert.Equal(t, CombinatorChild, pcs[2].Selector.Selectors[0].Leading)
}

func TestParseSelector_Invalid(t *testing.T) {
	tests := []struct {
		selector string
		fragment string
		offset   int
	}{
		{"", "", 0},
		{"div >", "", 5},
		{"p..x", ".", 2},
		{"a[href", "[href", 1},
		{"a[=x]", "=", 2},
		{"a[x~y]", "~", 3},
		{"p::before", ":", 1},
		{"p:hover", ":hover", 1},
		{"p:nth-child(foo)", "foo", 12},
		{"#1a", "#1a", 0},
		{"div, ,p", ",", 5},
		{"div)", ")", 3},
		{"svg|rect", "|", 3},
		{":not(p", ":not(p", 0},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			_, err := ParseSelector(tt.selector)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSelector))

			var se *SelectorError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.selector, se.Selector)
			assert.Equal(t, tt.offset, se.Offset)
			assert.Equal(t, tt.fragment, se.Fragment)
		})
	}
}

func TestParseNth(t *testing.T) {
	tests := []struct {
		in   string
		want Nth
	}{
		{"odd", Nth{2, 1}},
		{"even", Nth{2, 0}},
		{"3", Nth{0, 3}},
		{"+5", Nth{0, 5}},
		{"n", Nth{1, 0}},
		{"-n+3", Nth{-1, 3}},
		{"2n + 1", Nth{2, 1}},
		{"3n-2", Nth{3, -2}},
		{"-2N", Nth{-2, 0}},
	}
	for _, tt := range tests {
		got, err := ParseNth(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, *got, tt.in)
	}

	for _, bad := range []string{"", "x", "2n+", "n-a", "1.5", "2 n"} {
		_, err := ParseNth(bad)
		assert.Error(t, err, bad)
	}
}

func TestNth_Matches(t *testing.T) {
	odd := Nth{A: 2, B: 1}
	assert.True(t, odd.Matches(1))
	assert.False(t, odd.Matches(2))
	assert.True(t, odd.Matches(3))

	firstThree := Nth{A: -1, B: 3}
	assert.True(t, firstThree.Matches(3))
	assert.False(t, firstThree.Matches(4))

	assert.True(t, (&Nth{A: 0, B: 2}).Matches(2))
}
