package css

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSelector is matched by every *SelectorError.
var ErrInvalidSelector = errors.New("invalid selector")

// SelectorError reports malformed or unsupported selector syntax.
type SelectorError struct {
	Selector string // the full selector text
	Offset   int    // byte offset of the offending fragment
	Fragment string // the offending fragment
	Reason   string
}

func (e *SelectorError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("invalid selector %q at offset %d: %s", e.Selector, e.Offset, e.Reason)
	}
	return fmt.Sprintf("invalid selector %q at offset %d near %q: %s", e.Selector, e.Offset, e.Fragment, e.Reason)
}

// Is reports whether target is ErrInvalidSelector.
func (e *SelectorError) Is(target error) bool {
	return target == ErrInvalidSelector
}

// SelectorList is a comma separated list of complex selectors.
type SelectorList struct {
	Selectors []*ComplexSelector
}

// ComplexSelector is a chain of compound selectors separated by combinators.
type ComplexSelector struct {
	// Leading is set for relative selectors inside :has(), e.g. ":has(> p)".
	Leading   CombinatorType
	Compounds []*CompoundSelector
}

// CompoundSelector is a sequence of simple selectors.
type CompoundSelector struct {
	TypeName    string // "" or "*" when absent
	IDs         []string
	Classes     []string
	Attributes  []*AttributeMatcher
	Pseudos     []*PseudoClassSelector
	Combinator  CombinatorType // Combinator following this compound selector
	typePresent bool
}

// HasType reports whether the compound names a specific element type.
func (c *CompoundSelector) HasType() bool {
	return c.typePresent && c.TypeName != "*"
}

// CombinatorType represents the type of combinator.
type CombinatorType int

const (
	CombinatorNone              CombinatorType = iota
	CombinatorDescendant                       // (whitespace)
	CombinatorChild                            // >
	CombinatorNextSibling                      // +
	CombinatorSubsequentSibling                // ~
)

func (c CombinatorType) String() string {
	switch c {
	case CombinatorDescendant:
		return " "
	case CombinatorChild:
		return " > "
	case CombinatorNextSibling:
		return " + "
	case CombinatorSubsequentSibling:
		return " ~ "
	}
	return ""
}

// AttributeMatcher represents an attribute selector.
type AttributeMatcher struct {
	Name            string
	Operator        AttributeOperator
	Value           string
	CaseInsensitive bool
}

// AttributeOperator represents the operator in an attribute selector.
type AttributeOperator int

const (
	AttrExists    AttributeOperator = iota // [attr]
	AttrEquals                             // [attr=value]
	AttrIncludes                           // [attr~=value]
	AttrDashMatch                          // [attr|=value]
	AttrPrefix                             // [attr^=value]
	AttrSuffix                             // [attr$=value]
	AttrSubstring                          // [attr*=value]
)

var attrOperatorText = map[AttributeOperator]string{
	AttrEquals:    "=",
	AttrIncludes:  "~=",
	AttrDashMatch: "|=",
	AttrPrefix:    "^=",
	AttrSuffix:    "$=",
	AttrSubstring: "*=",
}

// PseudoClassSelector represents a pseudo-class.
type PseudoClassSelector struct {
	Name     string
	Nth      *Nth          // For :nth-*() pseudo-classes
	Selector *SelectorList // For :not(), :is(), :where(), :matches(), :has()
	Pos      int
}

// pseudo-classes that take no argument
var simplePseudoClasses = map[string]bool{
	"first-child":   true,
	"last-child":    true,
	"only-child":    true,
	"first-of-type": true,
	"last-of-type":  true,
	"only-of-type":  true,
	"empty":         true,
	"root":          true,
	"checked":       true,
	"disabled":      true,
	"enabled":       true,
	"required":      true,
	"optional":      true,
	"link":          true,
	"any-link":      true,
}

// SelectorParser parses CSS selectors.
type SelectorParser struct {
	input         string
	tokens        []Token
	pos           int
	caseSensitive bool
}

// ParseSelector parses a selector list. Type and attribute names are folded
// to lower case.
func ParseSelector(input string) (*SelectorList, error) {
	return parseSelector(input, false)
}

func parseSelector(input string, caseSensitive bool) (*SelectorList, error) {
	p := &SelectorParser{
		input:         input,
		tokens:        Tokenize(input),
		caseSensitive: caseSensitive,
	}
	list, err := p.parseSelectorList(false)
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type != TokenEOF {
		return nil, p.errorAt(tok, "unexpected token")
	}
	return list, nil
}

func (p *SelectorParser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Pos: len(p.input)}
	}
	return p.tokens[p.pos]
}

func (p *SelectorParser) consume() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *SelectorParser) skipWhitespace() bool {
	skipped := false
	for p.current().Type == TokenWhitespace {
		p.consume()
		skipped = true
	}
	return skipped
}

func (p *SelectorParser) isDelim(r rune) bool {
	tok := p.current()
	return tok.Type == TokenDelim && tok.Delim == r
}

// errorAt builds a SelectorError whose fragment runs from tok to the next token.
func (p *SelectorParser) errorAt(tok Token, reason string) *SelectorError {
	end := len(p.input)
	for i := p.pos; i < len(p.tokens); i++ {
		if p.tokens[i].Pos > tok.Pos {
			end = p.tokens[i].Pos
			break
		}
	}
	frag := ""
	if tok.Pos < end {
		frag = p.input[tok.Pos:end]
	}
	if tok.Type == TokenEOF {
		reason += " (unexpected end of selector)"
	}
	return &SelectorError{Selector: p.input, Offset: tok.Pos, Fragment: frag, Reason: reason}
}

func (p *SelectorParser) fold(name string) string {
	if p.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// parseSelectorList parses complex selectors separated by commas. Nested lists
// stop before the closing parenthesis of their pseudo-class.
func (p *SelectorParser) parseSelectorList(relative bool) (*SelectorList, error) {
	list := &SelectorList{}
	p.skipWhitespace()
	for {
		complex, err := p.parseComplexSelector(relative)
		if err != nil {
			return nil, err
		}
		list.Selectors = append(list.Selectors, complex)
		p.skipWhitespace()
		if p.current().Type != TokenComma {
			return list, nil
		}
		p.consume()
		p.skipWhitespace()
	}
}

func (p *SelectorParser) combinator() CombinatorType {
	tok := p.current()
	if tok.Type != TokenDelim {
		return CombinatorNone
	}
	switch tok.Delim {
	case '>':
		return CombinatorChild
	case '+':
		return CombinatorNextSibling
	case '~':
		return CombinatorSubsequentSibling
	}
	return CombinatorNone
}

func (p *SelectorParser) parseComplexSelector(relative bool) (*ComplexSelector, error) {
	complex := &ComplexSelector{}

	if relative {
		if c := p.combinator(); c != CombinatorNone {
			p.consume()
			p.skipWhitespace()
			complex.Leading = c
		}
	}

	for {
		compound, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		complex.Compounds = append(complex.Compounds, compound)

		hadWhitespace := p.skipWhitespace()
		tok := p.current()
		switch tok.Type {
		case TokenEOF, TokenComma, TokenCloseParen:
			return complex, nil
		}

		if c := p.combinator(); c != CombinatorNone {
			p.consume()
			p.skipWhitespace()
			compound.Combinator = c
			continue
		}
		if !hadWhitespace {
			return nil, p.errorAt(tok, "unexpected token")
		}
		compound.Combinator = CombinatorDescendant
	}
}

func (p *SelectorParser) parseCompoundSelector() (*CompoundSelector, error) {
	compound := &CompoundSelector{}
	start := p.current()

	switch {
	case start.Type == TokenIdent:
		p.consume()
		compound.TypeName = p.fold(start.Value)
		compound.typePresent = true
	case p.isDelim('*'):
		p.consume()
		compound.TypeName = "*"
		compound.typePresent = true
	}
	if p.isDelim('|') {
		return nil, p.errorAt(p.current(), "namespace prefixes are not supported")
	}

	for {
		tok := p.current()
		switch {
		case tok.Type == TokenHash:
			if !tok.ID {
				return nil, p.errorAt(tok, "invalid id selector")
			}
			p.consume()
			compound.IDs = append(compound.IDs, tok.Value)

		case p.isDelim('.'):
			p.consume()
			name := p.current()
			if name.Type != TokenIdent {
				return nil, p.errorAt(name, "expected class name after '.'")
			}
			p.consume()
			compound.Classes = append(compound.Classes, name.Value)

		case tok.Type == TokenOpenSquare:
			attr, err := p.parseAttributeSelector()
			if err != nil {
				return nil, err
			}
			compound.Attributes = append(compound.Attributes, attr)

		case tok.Type == TokenColon:
			p.consume()
			if p.current().Type == TokenColon {
				return nil, p.errorAt(tok, "pseudo-elements are not supported")
			}
			pc, err := p.parsePseudoClass(tok)
			if err != nil {
				return nil, err
			}
			compound.Pseudos = append(compound.Pseudos, pc)

		default:
			if !compound.typePresent && len(compound.IDs)+len(compound.Classes)+len(compound.Attributes)+len(compound.Pseudos) == 0 {
				return nil, p.errorAt(tok, "expected selector")
			}
			return compound, nil
		}
	}
}

func (p *SelectorParser) parseAttributeSelector() (*AttributeMatcher, error) {
	open := p.consume() // [
	attr := &AttributeMatcher{}

	p.skipWhitespace()
	name := p.current()
	if name.Type != TokenIdent {
		return nil, p.errorAt(name, "expected attribute name")
	}
	p.consume()
	attr.Name = p.fold(name.Value)
	p.skipWhitespace()

	tok := p.current()
	if tok.Type == TokenCloseSquare {
		p.consume()
		attr.Operator = AttrExists
		return attr, nil
	}
	if tok.Type == TokenEOF {
		return nil, p.errorAt(open, "unterminated attribute selector")
	}
	if tok.Type != TokenDelim {
		return nil, p.errorAt(tok, "expected attribute operator")
	}

	switch tok.Delim {
	case '=':
		p.consume()
		attr.Operator = AttrEquals
	case '~', '|', '^', '$', '*':
		p.consume()
		if !p.isDelim('=') {
			return nil, p.errorAt(tok, "invalid attribute operator")
		}
		p.consume()
		attr.Operator = map[rune]AttributeOperator{
			'~': AttrIncludes,
			'|': AttrDashMatch,
			'^': AttrPrefix,
			'$': AttrSuffix,
			'*': AttrSubstring,
		}[tok.Delim]
	default:
		return nil, p.errorAt(tok, "invalid attribute operator")
	}

	p.skipWhitespace()
	val := p.current()
	if val.Type != TokenString && val.Type != TokenIdent {
		return nil, p.errorAt(val, "expected attribute value")
	}
	p.consume()
	attr.Value = val.Value
	p.skipWhitespace()

	if flag := p.current(); flag.Type == TokenIdent {
		switch strings.ToLower(flag.Value) {
		case "i":
			attr.CaseInsensitive = true
		case "s":
		default:
			return nil, p.errorAt(flag, "invalid attribute flag")
		}
		p.consume()
		p.skipWhitespace()
	}

	if p.current().Type != TokenCloseSquare {
		if p.current().Type == TokenEOF {
			return nil, p.errorAt(open, "unterminated attribute selector")
		}
		return nil, p.errorAt(p.current(), "expected ']'")
	}
	p.consume()
	return attr, nil
}

// parsePseudoClass parses the pseudo-class after its colon.
func (p *SelectorParser) parsePseudoClass(colon Token) (*PseudoClassSelector, error) {
	tok := p.current()
	pc := &PseudoClassSelector{Pos: colon.Pos}

	switch tok.Type {
	case TokenIdent:
		p.consume()
		pc.Name = strings.ToLower(tok.Value)
		if !simplePseudoClasses[pc.Name] {
			return nil, p.errorAt(colon, "unknown pseudo-class")
		}
		return pc, nil

	case TokenFunction:
		p.consume()
		pc.Name = strings.ToLower(tok.Value)
	default:
		return nil, p.errorAt(tok, "expected pseudo-class name")
	}

	switch pc.Name {
	case "nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type":
		start := p.current().Pos
		for p.current().Type != TokenCloseParen {
			if p.current().Type == TokenEOF {
				return nil, p.errorAt(colon, "unterminated argument")
			}
			p.consume()
		}
		nth, err := ParseNth(p.input[start:p.current().Pos])
		if err != nil {
			return nil, &SelectorError{
				Selector: p.input,
				Offset:   start,
				Fragment: p.input[start:p.current().Pos],
				Reason:   err.Error(),
			}
		}
		pc.Nth = nth
	case "not", "is", "where", "matches", "has":
		list, err := p.parseSelectorList(pc.Name == "has")
		if err != nil {
			return nil, err
		}
		pc.Selector = list
	default:
		return nil, p.errorAt(colon, "unknown pseudo-class")
	}

	if p.current().Type != TokenCloseParen {
		if p.current().Type == TokenEOF {
			return nil, p.errorAt(colon, "unterminated argument")
		}
		return nil, p.errorAt(p.current(), "expected ')'")
	}
	p.consume()
	return pc, nil
}

// String renders the selector list back to CSS.
func (l *SelectorList) String() string {
	parts := make([]string, len(l.Selectors))
	for i, c := range l.Selectors {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

func (c *ComplexSelector) String() string {
	var sb strings.Builder
	if c.Leading != CombinatorNone {
		sb.WriteString(strings.TrimLeft(c.Leading.String(), " "))
	}
	for _, comp := range c.Compounds {
		sb.WriteString(comp.String())
		sb.WriteString(comp.Combinator.String())
	}
	return sb.String()
}

func (c *CompoundSelector) String() string {
	var sb strings.Builder
	if c.typePresent {
		sb.WriteString(c.TypeName)
	}
	for _, id := range c.IDs {
		sb.WriteString("#" + id)
	}
	for _, cls := range c.Classes {
		sb.WriteString("." + cls)
	}
	for _, a := range c.Attributes {
		sb.WriteString("[" + a.Name)
		if a.Operator != AttrExists {
			fmt.Fprintf(&sb, "%s%q", attrOperatorText[a.Operator], a.Value)
			if a.CaseInsensitive {
				sb.WriteString(" i")
			}
		}
		sb.WriteString("]")
	}
	for _, pc := range c.Pseudos {
		sb.WriteString(":" + pc.Name)
		switch {
		case pc.Nth != nil:
			sb.WriteString("(" + pc.Nth.String() + ")")
		case pc.Selector != nil:
			sb.WriteString("(" + pc.Selector.String() + ")")
		}
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}
