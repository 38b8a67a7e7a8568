package parser

import (
	"testing"

	"github.com/milkydeferwm/pagelistbot/ast"
)

func mustParse(t *testing.T, q string) *ast.Node {
	t.Helper()
	n, err := Parse(q)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", q, err)
	}
	return n
}

func TestSimpleLiteral(t *testing.T) {
	n := mustParse(t, `"A"`)
	if n.Kind != ast.KindPage {
		t.Fatalf("expected KindPage, got %v", n.Kind)
	}
	if len(n.Page.Titles) != 1 || n.Page.Titles[0] != "A" {
		t.Fatalf("unexpected titles: %v", n.Page.Titles)
	}
}

func TestLiteralSetCommaJoined(t *testing.T) {
	n := mustParse(t, `"A","B","C"`)
	if n.Kind != ast.KindPage {
		t.Fatalf("expected KindPage, got %v", n.Kind)
	}
	if len(n.Page.Titles) != 3 {
		t.Fatalf("expected 3 titles, got %v", n.Page.Titles)
	}
}

// TestOperatorAssociativity: "A & B & C" parses as ((A & B) & C).
func TestOperatorAssociativity(t *testing.T) {
	n := mustParse(t, `"A" & "B" & "C"`)
	if n.Kind != ast.KindBinary || n.Binary.Op != ast.Intersection {
		t.Fatalf("expected top-level Intersection, got %+v", n)
	}
	left := n.Binary.Left
	if left.Kind != ast.KindBinary || left.Binary.Op != ast.Intersection {
		t.Fatalf("expected left-associative nesting, got %+v", left)
	}
	if left.Binary.Left.Kind != ast.KindPage || left.Binary.Left.Page.Titles[0] != "A" {
		t.Fatalf("innermost left should be A, got %+v", left.Binary.Left)
	}
	if left.Binary.Right.Page.Titles[0] != "B" {
		t.Fatalf("middle should be B, got %+v", left.Binary.Right)
	}
	if n.Binary.Right.Page.Titles[0] != "C" {
		t.Fatalf("outer right should be C, got %+v", n.Binary.Right)
	}
}

// TestPrecedenceIntersectionBeforeUnion: "A & B | C" parses as ((A & B) | C).
func TestPrecedenceIntersectionBeforeUnion(t *testing.T) {
	n := mustParse(t, `"A" & "B" | "C"`)
	if n.Kind != ast.KindBinary || n.Binary.Op != ast.Union {
		t.Fatalf("expected top-level Union, got %+v", n)
	}
	left := n.Binary.Left
	if left.Kind != ast.KindBinary || left.Binary.Op != ast.Intersection {
		t.Fatalf("expected A & B nested under Union, got %+v", left)
	}
}

// "A | B & C" parses as (A | (B & C)).
func TestPrecedenceUnionThenIntersectionOnRight(t *testing.T) {
	n := mustParse(t, `"A" | "B" & "C"`)
	if n.Kind != ast.KindBinary || n.Binary.Op != ast.Union {
		t.Fatalf("expected top-level Union, got %+v", n)
	}
	right := n.Binary.Right
	if right.Kind != ast.KindBinary || right.Binary.Op != ast.Intersection {
		t.Fatalf("expected B & C nested under Union's right side, got %+v", right)
	}
}

func TestFullPrecedenceChain(t *testing.T) {
	// & tighter than | tighter than - tighter than ^
	n := mustParse(t, `"A" & "B" | "C" - "D" ^ "E"`)
	if n.Kind != ast.KindBinary || n.Binary.Op != ast.XOr {
		t.Fatalf("top level should be XOr (loosest), got %+v", n)
	}
	diffSide := n.Binary.Left
	if diffSide.Kind != ast.KindBinary || diffSide.Binary.Op != ast.Difference {
		t.Fatalf("expected Difference beneath XOr, got %+v", diffSide)
	}
}

// TestModifierLastWins: ".limit(10).limit(50)" folds to result_limit = 50.
func TestModifierLastWins(t *testing.T) {
	n := mustParse(t, `"A".limit(10).limit(50)`)
	if n.Kind != ast.KindModified {
		t.Fatalf("expected KindModified, got %v", n.Kind)
	}
	v, ok := n.Modified.Modifier.ResultLimit.Value()
	if !ok || v != 50 {
		t.Fatalf("expected result_limit=50, got %v (finite=%v)", n.Modified.Modifier.ResultLimit, ok)
	}
}

func TestModifierChainAccumulatesDistinctFields(t *testing.T) {
	n := mustParse(t, `linkto("Main Page").ns(0).limit(3)`)
	if n.Kind != ast.KindModified {
		t.Fatalf("expected KindModified, got %v", n.Kind)
	}
	m := n.Modified.Modifier
	if !m.NamespaceSet {
		t.Fatal("namespace should be set")
	}
	if _, ok := m.Namespace[0]; !ok {
		t.Fatalf("namespace set should contain 0, got %v", m.Namespace)
	}
	v, _ := m.ResultLimit.Value()
	if v != 3 {
		t.Fatalf("expected limit 3, got %v", m.ResultLimit)
	}
	inner := n.Modified.Inner
	if inner.Kind != ast.KindUnary || inner.Unary.Kind != ast.LinkTo {
		t.Fatalf("expected inner LinkTo, got %+v", inner)
	}
}

func TestPageFunctionTransparentForNonLiteral(t *testing.T) {
	n := mustParse(t, `page(linkto("Main Page"))`)
	if n.Kind != ast.KindUnary || n.Unary.Kind != ast.LinkTo {
		t.Fatalf("page(...) around a non-literal expr should be transparent, got %+v", n)
	}
}

func TestPrimitiveFunctionAliases(t *testing.T) {
	for _, name := range []string{"link", "linked"} {
		n := mustParse(t, name+`("A")`)
		if n.Kind != ast.KindUnary || n.Unary.Kind != ast.BackLink {
			t.Fatalf("%s(...) should produce BackLink, got %+v", name, n)
		}
	}
}

// TestSpanCoverage: every non-space character index lies within some
// node's span, and the root's span substring re-parses to a node of the
// same variant.
func TestSpanCoverage(t *testing.T) {
	queries := []string{
		`"A"`,
		`"A" & "B"`,
		`linkto("Main Page").ns(0).limit(3)`,
		`incat("Cats").depth(inf)`,
		`"A" & (toggle(page("B") & "B") & "C")`,
	}

	for _, q := range queries {
		root, err := Parse(q)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", q, err)
		}
		covered := make([]bool, len(q))
		markCovered(root, covered)
		for i, c := range covered {
			if !isSpace(rune(q[i])) && !c {
				t.Errorf("query %q: index %d (%q) not covered by any node span", q, i, q[i])
			}
		}

		sub := q[root.Span.Begin:root.Span.End]
		reparsed, err := Parse(sub)
		if err != nil {
			t.Fatalf("root span %q of query %q failed to re-parse: %v", sub, q, err)
		}
		if reparsed.Kind != root.Kind {
			t.Errorf("query %q: root span re-parses to a different kind (%v vs %v)", q, reparsed.Kind, root.Kind)
		}
	}
}

func markCovered(n *ast.Node, covered []bool) {
	if n == nil {
		return
	}
	for i := n.Span.Begin; i < n.Span.End && i < len(covered); i++ {
		covered[i] = true
	}
	switch n.Kind {
	case ast.KindUnary:
		markCovered(n.Unary.Inner, covered)
	case ast.KindBinary:
		markCovered(n.Binary.Left, covered)
		markCovered(n.Binary.Right, covered)
	case ast.KindModified:
		markCovered(n.Modified.Inner, covered)
	}
}

func TestNestedIntersectionFixture(t *testing.T) {
	n := mustParse(t, `"A" & (toggle(page("B") & "B") & "C")`)
	if n.Kind != ast.KindBinary || n.Binary.Op != ast.Intersection {
		t.Fatalf("expected top-level Intersection, got %+v", n)
	}
	right := n.Binary.Right
	if right.Kind != ast.KindBinary || right.Binary.Op != ast.Intersection {
		t.Fatalf("expected nested Intersection on the right, got %+v", right)
	}
	toggleSide := right.Binary.Left
	if toggleSide.Kind != ast.KindUnary || toggleSide.Unary.Kind != ast.Toggle {
		t.Fatalf("expected Toggle node, got %+v", toggleSide)
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		q    string
		kind ErrorKind
	}{
		{`"unterminated`, UnterminatedString},
		{`frobnicate("A")`, UnknownIdentifier},
		{`"A".bogus`, UnknownIdentifier},
		{`"A".limit(xyz)`, BadNumber},
		{`"A" "B"`, TrailingInput},
		{`& "A"`, UnexpectedToken},
	}
	for _, c := range cases {
		_, err := Parse(c.q)
		if err == nil {
			t.Fatalf("Parse(%q): expected error", c.q)
		}
		se, ok := err.(*SyntaxError)
		if !ok {
			t.Fatalf("Parse(%q): expected *SyntaxError, got %T", c.q, err)
		}
		if se.Kind != c.kind {
			t.Errorf("Parse(%q): expected kind %v, got %v (%v)", c.q, c.kind, se.Kind, se)
		}
	}
}

func TestCaseInsensitiveOperatorsAndModifiers(t *testing.T) {
	n := mustParse(t, `LinkTo("A").LIMIT(5)`)
	if n.Kind != ast.KindModified {
		t.Fatalf("expected KindModified, got %v", n.Kind)
	}
	if n.Modified.Inner.Unary.Kind != ast.LinkTo {
		t.Fatalf("expected LinkTo despite mixed case, got %+v", n.Modified.Inner)
	}
}
