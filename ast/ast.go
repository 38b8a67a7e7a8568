// Package ast defines the abstract syntax tree produced by the query
// parser: a closed set of expression variants, each node carrying a
// source span, plus the Modifier record folded from postfix clauses.
package ast

import "github.com/milkydeferwm/pagelistbot/numinf"

// Span is a half-open byte range [Begin, End) into the originating
// query string. Every Node carries one; spans are contiguous over the
// node's textual extent, excluding surrounding whitespace.
type Span struct {
	Begin int
	End   int
}

// Contains reports whether idx falls within the span.
func (s Span) Contains(idx int) bool {
	return idx >= s.Begin && idx < s.End
}

// UnaryKind enumerates the unary transformation variants.
type UnaryKind int

const (
	LinkTo UnaryKind = iota
	BackLink
	EmbeddedIn
	InCategory
	Prefix
	Toggle
)

func (k UnaryKind) String() string {
	switch k {
	case LinkTo:
		return "LinkTo"
	case BackLink:
		return "BackLink"
	case EmbeddedIn:
		return "EmbeddedIn"
	case InCategory:
		return "InCategory"
	case Prefix:
		return "Prefix"
	case Toggle:
		return "Toggle"
	default:
		return "Unknown"
	}
}

// BinaryOp enumerates the binary set-operator variants.
type BinaryOp int

const (
	Union BinaryOp = iota
	Intersection
	Difference
	XOr
)

func (op BinaryOp) String() string {
	switch op {
	case Union:
		return "Union"
	case Intersection:
		return "Intersection"
	case Difference:
		return "Difference"
	case XOr:
		return "XOr"
	default:
		return "Unknown"
	}
}

// RedirectFilter classifies titles by redirect status for the
// filter_redirects modifier field.
type RedirectFilter int

const (
	FilterAll RedirectFilter = iota
	FilterNoRedirect
	FilterOnlyRedirect
)

// Modifier is the record folded from a postfix ".name(...)" clause
// chain. A field whose *Set flag is false means "inherit"; the flags
// track which fields an explicit clause actually touched, so folding two Modifiers can
// apply last-wins semantics per field rather than per record.
type Modifier struct {
	ResultLimit                   numinf.NumberOrInf
	ResultLimitSet                bool
	ResolveRedirects               bool
	ResolveRedirectsSet            bool
	Namespace                      map[int32]struct{}
	NamespaceSet                   bool
	CategoryMembersRecursionDepth  numinf.NumberOrInf
	CategoryMembersRecursionDepthSet bool
	FilterRedirects                 RedirectFilter
	FilterRedirectsSet               bool
	BacklinkTraceRedirects           bool
	BacklinkTraceRedirectsSet        bool
}

// Merge folds a later clause's field into m, implementing last-wins:
// only fields next actually sets are overwritten.
func (m Modifier) Merge(next Modifier) Modifier {
	out := m
	if next.ResultLimitSet {
		out.ResultLimit = next.ResultLimit
		out.ResultLimitSet = true
	}
	if next.ResolveRedirectsSet {
		out.ResolveRedirects = next.ResolveRedirects
		out.ResolveRedirectsSet = true
	}
	if next.NamespaceSet {
		out.Namespace = next.Namespace
		out.NamespaceSet = true
	}
	if next.CategoryMembersRecursionDepthSet {
		out.CategoryMembersRecursionDepth = next.CategoryMembersRecursionDepth
		out.CategoryMembersRecursionDepthSet = true
	}
	if next.FilterRedirectsSet {
		out.FilterRedirects = next.FilterRedirects
		out.FilterRedirectsSet = true
	}
	if next.BacklinkTraceRedirectsSet {
		out.BacklinkTraceRedirects = next.BacklinkTraceRedirects
		out.BacklinkTraceRedirectsSet = true
	}
	return out
}

// NodeKind tags which expression variant a Node carries.
type NodeKind int

const (
	KindPage NodeKind = iota
	KindUnary
	KindBinary
	KindModified
)

// Node is a tagged AST node: exactly one of the *Expr fields matching
// Kind is populated. The variant set is closed; do not add new kinds
// through open polymorphism.
type Node struct {
	Span Span
	Kind NodeKind

	Page     *PageExpr
	Unary    *UnaryExpr
	Binary   *BinaryExpr
	Modified *ModifiedExpr
}

// PageExpr is a literal set of page titles. Non-empty after parsing.
type PageExpr struct {
	Titles []string
}

// UnaryExpr is a one-argument transformation over an inner node.
type UnaryExpr struct {
	Inner *Node
	Kind  UnaryKind
}

// BinaryExpr is a two-argument set operator over two inner nodes.
type BinaryExpr struct {
	Left  *Node
	Right *Node
	Op    BinaryOp
}

// ModifiedExpr decorates Inner with a folded Modifier record.
type ModifiedExpr struct {
	Inner    *Node
	Modifier Modifier
}

// NewPage constructs a literal Page node.
func NewPage(span Span, titles []string) *Node {
	return &Node{Span: span, Kind: KindPage, Page: &PageExpr{Titles: titles}}
}

// NewUnary constructs a unary transformation node.
func NewUnary(span Span, kind UnaryKind, inner *Node) *Node {
	return &Node{Span: span, Kind: KindUnary, Unary: &UnaryExpr{Inner: inner, Kind: kind}}
}

// NewBinary constructs a binary operator node.
func NewBinary(span Span, op BinaryOp, left, right *Node) *Node {
	return &Node{Span: span, Kind: KindBinary, Binary: &BinaryExpr{Left: left, Right: right, Op: op}}
}

// NewModified constructs a Modified wrapper node.
func NewModified(span Span, inner *Node, mod Modifier) *Node {
	return &Node{Span: span, Kind: KindModified, Modified: &ModifiedExpr{Inner: inner, Modifier: mod}}
}

// DefaultModifier is the modifier record in force at the root of a
// query, seeded by the solver before compilation starts (spec §4.2).
func DefaultModifier(rootLimit numinf.NumberOrInf) Modifier {
	return Modifier{
		ResultLimit:                   rootLimit,
		ResultLimitSet:                true,
		ResolveRedirects:              false,
		ResolveRedirectsSet:           true,
		Namespace:                     nil,
		NamespaceSet:                  false,
		CategoryMembersRecursionDepth: numinf.Finite(0),
		CategoryMembersRecursionDepthSet: true,
		FilterRedirects:               FilterAll,
		FilterRedirectsSet:            true,
		BacklinkTraceRedirects:        true,
		BacklinkTraceRedirectsSet:     true,
	}
}
