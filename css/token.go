// Package css compiles CSS selectors into queries over a native tree.
//
// Selectors are tokenized following CSS Syntax Module Level 3, parsed into a
// small AST and translated into an XPath 1.0 expression that is evaluated by
// github.com/antchfx/xpath over a navigator backed by a native.Adapter.
// Reference: https://www.w3.org/TR/css-syntax-3/
package css

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a selector token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenFunction // name followed by '('; Value holds the name
	TokenHash
	TokenString
	TokenBadString
	TokenNumber // number, percentage or dimension; Value holds the source text
	TokenDelim
	TokenWhitespace
	TokenColon
	TokenComma
	TokenOpenSquare
	TokenCloseSquare
	TokenOpenParen
	TokenCloseParen
)

var tokenNames = [...]string{
	TokenEOF:         "EOF",
	TokenIdent:       "IDENT",
	TokenFunction:    "FUNCTION",
	TokenHash:        "HASH",
	TokenString:      "STRING",
	TokenBadString:   "BAD-STRING",
	TokenNumber:      "NUMBER",
	TokenDelim:       "DELIM",
	TokenWhitespace:  "WHITESPACE",
	TokenColon:       "COLON",
	TokenComma:       "COMMA",
	TokenOpenSquare:  "[",
	TokenCloseSquare: "]",
	TokenOpenParen:   "(",
	TokenCloseParen:  ")",
}

func (t TokenType) String() string {
	if t < 0 || int(t) >= len(tokenNames) {
		return "TokenType(" + strconv.Itoa(int(t)) + ")"
	}
	return tokenNames[t]
}

// Token is one lexical unit of a selector.
type Token struct {
	Type  TokenType
	Value string
	Delim rune
	ID    bool // hash whose name would also be a valid identifier
	Pos   int  // byte offset in the source
}

var punctuation = map[rune]TokenType{
	':': TokenColon,
	',': TokenComma,
	'[': TokenOpenSquare,
	']': TokenCloseSquare,
	'(': TokenOpenParen,
	')': TokenCloseParen,
}

// Tokenize splits a selector into tokens. Comments are dropped, NUL code
// points read as U+FFFD and the last token is always TokenEOF.
func Tokenize(input string) []Token {
	l := &lexer{src: input}
	var out []Token
	for {
		tok := l.next()
		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out
		}
	}
}

const eof rune = -1

type lexer struct {
	src string
	pos int
}

// peek returns the code point n positions past the current one.
func (l *lexer) peek(n int) rune {
	s := l.src[l.pos:]
	for s != "" {
		r, w := utf8.DecodeRuneInString(s)
		if n == 0 {
			if r == 0 {
				return utf8.RuneError
			}
			return r
		}
		s = s[w:]
		n--
	}
	return eof
}

func (l *lexer) advance() rune {
	r := l.peek(0)
	if r != eof {
		_, w := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += w
	}
	return r
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isNewline(r rune) bool {
	return r == '\n' || r == '\r' || r == '\f'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHex(r rune) bool {
	return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

func isLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isNameStart(r rune) bool {
	return r == '_' || r >= 0x80 || isLetter(r)
}

func isName(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '-'
}

func (l *lexer) escapeAt(n int) bool {
	next := l.peek(n + 1)
	return l.peek(n) == '\\' && next != '\n' && next != eof
}

func (l *lexer) identStartAt(n int) bool {
	switch r := l.peek(n); r {
	case '-':
		next := l.peek(n + 1)
		return isNameStart(next) || next == '-' || l.escapeAt(n+1)
	case '\\':
		return l.escapeAt(n)
	default:
		return isNameStart(r)
	}
}

func (l *lexer) numberStart() bool {
	r := l.peek(0)
	off := 0
	if r == '+' || r == '-' {
		off = 1
		r = l.peek(1)
	}
	if r == '.' {
		return isDigit(l.peek(off + 1))
	}
	return isDigit(r)
}

// escape decodes an escape whose backslash was already consumed.
func (l *lexer) escape() rune {
	r := l.advance()
	if r == eof {
		return utf8.RuneError
	}
	if !isHex(r) {
		return r
	}
	digits := string(r)
	for len(digits) < 6 && isHex(l.peek(0)) {
		digits += string(l.advance())
	}
	if isSpace(l.peek(0)) {
		l.advance()
	}
	v, _ := strconv.ParseUint(digits, 16, 32)
	if v == 0 || v > unicode.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
		return utf8.RuneError
	}
	return rune(v)
}

func (l *lexer) name() string {
	var sb strings.Builder
	for {
		switch r := l.peek(0); {
		case isName(r):
			sb.WriteRune(l.advance())
		case l.escapeAt(0):
			l.advance()
			sb.WriteRune(l.escape())
		default:
			return sb.String()
		}
	}
}

func (l *lexer) digits() {
	for isDigit(l.peek(0)) {
		l.advance()
	}
}

func (l *lexer) number(start int) Token {
	if r := l.peek(0); r == '+' || r == '-' {
		l.advance()
	}
	l.digits()
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		l.advance()
		l.digits()
	}
	if r := l.peek(0); r == 'e' || r == 'E' {
		switch sign := l.peek(1); {
		case isDigit(sign):
			l.advance()
			l.digits()
		case (sign == '+' || sign == '-') && isDigit(l.peek(2)):
			l.advance()
			l.advance()
			l.digits()
		}
	}
	switch {
	case l.identStartAt(0):
		l.name()
	case l.peek(0) == '%':
		l.advance()
	}
	return Token{Type: TokenNumber, Value: l.src[start:l.pos], Pos: start}
}

// quoted reads a string whose opening quote was already consumed. An
// unescaped newline ends it as a bad string; EOF ends it normally.
func (l *lexer) quoted(quote rune, start int) Token {
	var sb strings.Builder
	for {
		switch r := l.peek(0); {
		case r == eof:
			return Token{Type: TokenString, Value: sb.String(), Pos: start}
		case r == quote:
			l.advance()
			return Token{Type: TokenString, Value: sb.String(), Pos: start}
		case isNewline(r):
			return Token{Type: TokenBadString, Pos: start}
		case r == '\\':
			l.advance()
			switch next := l.peek(0); {
			case next == eof:
			case isNewline(next):
				l.advance()
				if next == '\r' && l.peek(0) == '\n' {
					l.advance()
				}
			default:
				sb.WriteRune(l.escape())
			}
		default:
			sb.WriteRune(l.advance())
		}
	}
}

func (l *lexer) skipComments() {
	for strings.HasPrefix(l.src[l.pos:], "/*") {
		end := strings.Index(l.src[l.pos+2:], "*/")
		if end < 0 {
			l.pos = len(l.src)
			return
		}
		l.pos += end + 4
	}
}

func (l *lexer) next() Token {
	l.skipComments()
	start := l.pos
	r := l.peek(0)

	switch {
	case r == eof:
		return Token{Type: TokenEOF, Pos: start}
	case isSpace(r):
		for isSpace(l.peek(0)) {
			l.advance()
		}
		return Token{Type: TokenWhitespace, Pos: start}
	case r == '"' || r == '\'':
		l.advance()
		return l.quoted(r, start)
	case r == '#' && (isName(l.peek(1)) || l.escapeAt(1)):
		l.advance()
		id := l.identStartAt(0)
		return Token{Type: TokenHash, Value: l.name(), ID: id, Pos: start}
	case l.numberStart():
		return l.number(start)
	case l.identStartAt(0):
		name := l.name()
		if l.peek(0) == '(' {
			l.advance()
			return Token{Type: TokenFunction, Value: name, Pos: start}
		}
		return Token{Type: TokenIdent, Value: name, Pos: start}
	}

	l.advance()
	if t, ok := punctuation[r]; ok {
		return Token{Type: t, Pos: start}
	}
	return Token{Type: TokenDelim, Delim: r, Pos: start}
}
