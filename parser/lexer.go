package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/milkydeferwm/pagelistbot/ast"
)

// TokenKind tags a lexical token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokString
	TokIdent
	TokNumber
	TokPunct
)

// Token is one lexical unit: its decoded text (quotes/escapes already
// stripped for strings) and the byte span it occupied in the source.
type Token struct {
	Kind TokenKind
	Text string
	Span ast.Span
}

const puncts = "(),.&|-^+"

type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		if !isSpace(r) {
			break
		}
		l.pos += size
	}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// next returns the next token, or a *SyntaxError on a malformed string.
func (l *lexer) next() (Token, error) {
	l.skipWhitespace()
	start := l.pos
	if l.pos >= len(l.src) {
		return Token{Kind: TokEOF, Span: ast.Span{Begin: start, End: start}}, nil
	}

	c := l.src[l.pos]

	switch {
	case c == '"':
		return l.lexString()
	case isIdentStart(c):
		return l.lexIdent()
	case c >= '0' && c <= '9':
		return l.lexNumber()
	case strings.IndexByte(puncts, c) >= 0:
		l.pos++
		return Token{Kind: TokPunct, Text: string(c), Span: ast.Span{Begin: start, End: l.pos}}, nil
	default:
		l.pos++
		return Token{Kind: TokPunct, Text: string(c), Span: ast.Span{Begin: start, End: l.pos}}, nil
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (l *lexer) lexIdent() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}
	return Token{Kind: TokIdent, Text: l.src[start:l.pos], Span: ast.Span{Begin: start, End: l.pos}}, nil
}

func (l *lexer) lexNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
		l.pos++
	}
	return Token{Kind: TokNumber, Text: l.src[start:l.pos], Span: ast.Span{Begin: start, End: l.pos}}, nil
}

func (l *lexer) lexString() (Token, error) {
	start := l.pos
	l.pos++ // consume opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, &SyntaxError{
				Kind:    UnterminatedString,
				Span:    ast.Span{Begin: start, End: l.pos},
				Message: "unterminated string literal",
			}
		}
		c := l.src[l.pos]
		if c == '"' {
			l.pos++
			break
		}
		if c == '\\' {
			l.pos++
			if l.pos >= len(l.src) {
				return Token{}, &SyntaxError{
					Kind:    UnterminatedString,
					Span:    ast.Span{Begin: start, End: l.pos},
					Message: "unterminated escape sequence in string literal",
				}
			}
			b.WriteByte(l.src[l.pos])
			l.pos++
			continue
		}
		b.WriteByte(c)
		l.pos++
	}
	return Token{Kind: TokString, Text: b.String(), Span: ast.Span{Begin: start, End: l.pos}}, nil
}
