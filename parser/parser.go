// Package parser implements the recursive-descent grammar of §4.1: it
// turns a query string into an *ast.Node tree with byte spans and
// folded postfix modifiers. No partial parses are ever returned — a
// query either parses completely or the caller gets a single
// *SyntaxError pointing at the offending span.
package parser

import (
	"strconv"
	"strings"

	"github.com/milkydeferwm/pagelistbot/ast"
	"github.com/milkydeferwm/pagelistbot/numinf"
)

var primitiveFuncs = map[string]ast.UnaryKind{
	"linkto":   ast.LinkTo,
	"link":     ast.BackLink,
	"linked":   ast.BackLink,
	"embed":    ast.EmbeddedIn,
	"incat":    ast.InCategory,
	"prefix":   ast.Prefix,
	"toggle":   ast.Toggle,
}

type parser struct {
	lex *lexer
	cur Token
}

// Parse converts a query string into an AST. Identifiers are
// case-insensitive for operator and modifier names; whitespace between
// tokens is insignificant.
func Parse(query string) (*ast.Node, error) {
	p := &parser{lex: newLexer(query)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != TokEOF {
		return nil, &SyntaxError{
			Kind:    TrailingInput,
			Span:    p.cur.Span,
			Message: "unexpected trailing input after a complete query",
		}
	}
	return node, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) isPunct(s string) bool {
	return p.cur.Kind == TokPunct && p.cur.Text == s
}

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return &SyntaxError{
			Kind:    UnexpectedToken,
			Span:    p.cur.Span,
			Message: "expected " + strconv.Quote(s),
		}
	}
	return p.advance()
}

// expr := xor
func (p *parser) parseExpr() (*ast.Node, error) {
	return p.parseXor()
}

// xor := diff ("^" diff)*
func (p *parser) parseXor() (*ast.Node, error) {
	return p.parseLeftAssocBinary(p.parseDiff, map[string]ast.BinaryOp{"^": ast.XOr})
}

// diff := union ("-" union)*
func (p *parser) parseDiff() (*ast.Node, error) {
	return p.parseLeftAssocBinary(p.parseUnion, map[string]ast.BinaryOp{"-": ast.Difference})
}

// union := inter ("|" inter)*
func (p *parser) parseUnion() (*ast.Node, error) {
	return p.parseLeftAssocBinary(p.parseInter, map[string]ast.BinaryOp{"|": ast.Union})
}

// inter := primary ("&" primary)*
func (p *parser) parseInter() (*ast.Node, error) {
	return p.parseLeftAssocBinary(p.parsePrimary, map[string]ast.BinaryOp{"&": ast.Intersection})
}

func (p *parser) parseLeftAssocBinary(next func() (*ast.Node, error), ops map[string]ast.BinaryOp) (*ast.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokPunct {
		op, ok := ops[p.cur.Text]
		if !ok {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(ast.Span{Begin: left.Span.Begin, End: right.Span.End}, op, left, right)
	}
	return left, nil
}

// primary := modified
func (p *parser) parsePrimary() (*ast.Node, error) {
	return p.parseModified()
}

// modified := atom modifier*
func (p *parser) parseModified() (*ast.Node, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	acc := ast.Modifier{}
	haveMod := false
	lastEnd := node.Span.End

	for p.isPunct(".") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind != TokIdent {
			return nil, &SyntaxError{Kind: UnexpectedToken, Span: p.cur.Span, Message: "expected a modifier name after '.'"}
		}
		name := strings.ToLower(p.cur.Text)
		nameTok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		frag, end, err := p.parseModifierClause(name, nameTok)
		if err != nil {
			return nil, err
		}
		acc = acc.Merge(frag)
		haveMod = true
		lastEnd = end
	}

	if !haveMod {
		return node, nil
	}
	return ast.NewModified(ast.Span{Begin: node.Span.Begin, End: lastEnd}, node, acc), nil
}

func (p *parser) parseModifierClause(name string, nameTok Token) (ast.Modifier, int, error) {
	switch name {
	case "limit":
		if err := p.expectPunct("("); err != nil {
			return ast.Modifier{}, 0, err
		}
		n, err := p.parseNumberOrInf()
		if err != nil {
			return ast.Modifier{}, 0, err
		}
		end := p.cur.Span.End
		if err := p.expectPunct(")"); err != nil {
			return ast.Modifier{}, 0, err
		}
		return ast.Modifier{ResultLimit: n, ResultLimitSet: true}, end, nil

	case "depth":
		if err := p.expectPunct("("); err != nil {
			return ast.Modifier{}, 0, err
		}
		n, err := p.parseNumberOrInf()
		if err != nil {
			return ast.Modifier{}, 0, err
		}
		end := p.cur.Span.End
		if err := p.expectPunct(")"); err != nil {
			return ast.Modifier{}, 0, err
		}
		return ast.Modifier{CategoryMembersRecursionDepth: n, CategoryMembersRecursionDepthSet: true}, end, nil

	case "ns":
		if err := p.expectPunct("("); err != nil {
			return ast.Modifier{}, 0, err
		}
		namespaces := make(map[int32]struct{})
		for {
			ns, err := p.parseInt32()
			if err != nil {
				return ast.Modifier{}, 0, err
			}
			namespaces[ns] = struct{}{}
			if p.isPunct(",") {
				if err := p.advance(); err != nil {
					return ast.Modifier{}, 0, err
				}
				continue
			}
			break
		}
		end := p.cur.Span.End
		if err := p.expectPunct(")"); err != nil {
			return ast.Modifier{}, 0, err
		}
		return ast.Modifier{Namespace: namespaces, NamespaceSet: true}, end, nil

	case "resolve":
		end, err := p.consumeOptionalEmptyParens(nameTok)
		if err != nil {
			return ast.Modifier{}, 0, err
		}
		return ast.Modifier{ResolveRedirects: true, ResolveRedirectsSet: true}, end, nil

	case "noredir":
		end, err := p.consumeOptionalEmptyParens(nameTok)
		if err != nil {
			return ast.Modifier{}, 0, err
		}
		return ast.Modifier{FilterRedirects: ast.FilterNoRedirect, FilterRedirectsSet: true}, end, nil

	case "onlyredir":
		end, err := p.consumeOptionalEmptyParens(nameTok)
		if err != nil {
			return ast.Modifier{}, 0, err
		}
		return ast.Modifier{FilterRedirects: ast.FilterOnlyRedirect, FilterRedirectsSet: true}, end, nil

	case "direct":
		end, err := p.consumeOptionalEmptyParens(nameTok)
		if err != nil {
			return ast.Modifier{}, 0, err
		}
		return ast.Modifier{BacklinkTraceRedirects: false, BacklinkTraceRedirectsSet: true}, end, nil

	default:
		return ast.Modifier{}, 0, &SyntaxError{
			Kind:    UnknownIdentifier,
			Span:    nameTok.Span,
			Message: "unknown modifier " + strconv.Quote(name),
		}
	}
}

func (p *parser) consumeOptionalEmptyParens(nameTok Token) (int, error) {
	if !p.isPunct("(") {
		return nameTok.Span.End, nil
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	if !p.isPunct(")") {
		return 0, &SyntaxError{Kind: UnexpectedToken, Span: p.cur.Span, Message: "this modifier takes no arguments"}
	}
	end := p.cur.Span.End
	if err := p.advance(); err != nil {
		return 0, err
	}
	return end, nil
}

func (p *parser) parseNumberOrInf() (numinf.NumberOrInf, error) {
	sign := ""
	if p.isPunct("+") || p.isPunct("-") {
		sign = p.cur.Text
		if err := p.advance(); err != nil {
			return numinf.NumberOrInf{}, err
		}
	}
	if p.cur.Kind == TokIdent && strings.EqualFold(p.cur.Text, "inf") {
		if sign == "-" {
			return numinf.NumberOrInf{}, &SyntaxError{Kind: BadNumber, Span: p.cur.Span, Message: "negative infinity is not a valid limit or depth"}
		}
		if err := p.advance(); err != nil {
			return numinf.NumberOrInf{}, err
		}
		return numinf.Inf, nil
	}
	if p.cur.Kind != TokNumber {
		return numinf.NumberOrInf{}, &SyntaxError{Kind: BadNumber, Span: p.cur.Span, Message: "expected a number or \"inf\""}
	}
	v, err := strconv.ParseInt(sign+p.cur.Text, 10, 64)
	if err != nil {
		return numinf.NumberOrInf{}, &SyntaxError{Kind: BadNumber, Span: p.cur.Span, Message: "number out of range"}
	}
	if err := p.advance(); err != nil {
		return numinf.NumberOrInf{}, err
	}
	return numinf.Finite(v), nil
}

func (p *parser) parseInt32() (int32, error) {
	sign := ""
	if p.isPunct("+") || p.isPunct("-") {
		sign = p.cur.Text
		if err := p.advance(); err != nil {
			return 0, err
		}
	}
	if p.cur.Kind != TokNumber {
		return 0, &SyntaxError{Kind: BadNumber, Span: p.cur.Span, Message: "expected a namespace number"}
	}
	v, err := strconv.ParseInt(sign+p.cur.Text, 10, 32)
	if err != nil {
		return 0, &SyntaxError{Kind: BadNumber, Span: p.cur.Span, Message: "namespace number out of range"}
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	return int32(v), nil
}

// atom := string_set | IDENT "(" expr ")" | "(" expr ")"
func (p *parser) parseAtom() (*ast.Node, error) {
	switch {
	case p.cur.Kind == TokString:
		return p.parseStringSet()

	case p.cur.Kind == TokIdent:
		return p.parseFunctionCall()

	case p.isPunct("("):
		start := p.cur.Span.Begin
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		end := p.cur.Span.End
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return withSpan(inner, ast.Span{Begin: start, End: end}), nil

	default:
		return nil, &SyntaxError{Kind: UnexpectedToken, Span: p.cur.Span, Message: "expected a string, function call, or parenthesised expression"}
	}
}

// string_set := STRING ("," STRING)*
func (p *parser) parseStringSet() (*ast.Node, error) {
	start := p.cur.Span.Begin
	var titles []string
	for {
		if p.cur.Kind != TokString {
			return nil, &SyntaxError{Kind: UnexpectedToken, Span: p.cur.Span, Message: "expected a quoted page title"}
		}
		titles = append(titles, p.cur.Text)
		end := p.cur.Span.End
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		return ast.NewPage(ast.Span{Begin: start, End: end}, titles), nil
	}
}

func (p *parser) parseFunctionCall() (*ast.Node, error) {
	nameTok := p.cur
	name := strings.ToLower(nameTok.Text)
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	end := p.cur.Span.End
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	span := ast.Span{Begin: nameTok.Span.Begin, End: end}

	if name == "page" {
		return withSpan(inner, span), nil
	}
	if kind, ok := primitiveFuncs[name]; ok {
		return ast.NewUnary(span, kind, inner), nil
	}
	return nil, &SyntaxError{Kind: UnknownIdentifier, Span: nameTok.Span, Message: "unknown function " + strconv.Quote(nameTok.Text)}
}

// withSpan returns a shallow copy of n with its span replaced. Used
// when a wrapper (parentheses, a transparent page(...) call) needs to
// claim the surrounding text for span-coverage purposes without
// changing n's variant.
func withSpan(n *ast.Node, span ast.Span) *ast.Node {
	cp := *n
	cp.Span = span
	return &cp
}
