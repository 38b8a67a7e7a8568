package solver

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/milkydeferwm/pagelistbot/ast"
	"github.com/milkydeferwm/pagelistbot/numinf"
	"github.com/milkydeferwm/pagelistbot/parser"
	"github.com/milkydeferwm/pagelistbot/provider"
	"github.com/milkydeferwm/pagelistbot/providertest"
	"github.com/milkydeferwm/pagelistbot/title"
)

func mustParse(t *testing.T, query string) *ast.Node {
	t.Helper()
	node, err := parser.Parse(query)
	if err != nil {
		t.Fatalf("Parse(%q): %v", query, err)
	}
	return node
}

func defaultOpts() Options {
	return Options{DefaultLimit: numinf.Inf, Timeout: 5 * time.Second}
}

type collected struct {
	ok   []string
	warn []WarnKind
	err  []ErrKind
}

func run(t *testing.T, root *ast.Node, opts Options, p provider.Provider) collected {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c collected
	for item := range Solve(ctx, root, opts, p) {
		if v, ok := item.OkValue(); ok {
			c.ok = append(c.ok, v.String())
			continue
		}
		if w, ok := item.WarnValue(); ok {
			c.warn = append(c.warn, w.Kind)
			continue
		}
		if e, ok := item.ErrValue(); ok {
			c.err = append(c.err, e.Kind)
		}
	}
	sort.Strings(c.ok)
	return c
}

func TestUnionDedupAndCommutativity(t *testing.T) {
	m := providertest.New()
	a, b, c := title.Parse("A"), title.Parse("B"), title.Parse("C")
	m.AddLink(a, b)
	m.AddLink(a, c)
	m.AddLink(b, c)

	forward := run(t, mustParse(t, `linkto("A") | linkto("B")`), defaultOpts(), m)
	backward := run(t, mustParse(t, `linkto("B") | linkto("A")`), defaultOpts(), m)

	if len(forward.ok) != 2 || forward.ok[0] != "B" || forward.ok[1] != "C" {
		t.Fatalf("unexpected union result: %v", forward.ok)
	}
	if len(forward.ok) != len(backward.ok) {
		t.Fatalf("union not commutative on result set: %v vs %v", forward.ok, backward.ok)
	}
	for i := range forward.ok {
		if forward.ok[i] != backward.ok[i] {
			t.Fatalf("union not commutative on result set: %v vs %v", forward.ok, backward.ok)
		}
	}
}

func TestDifferenceOfSetWithItselfIsEmpty(t *testing.T) {
	m := providertest.New()
	a, b := title.Parse("A"), title.Parse("B")
	m.AddLink(a, b)

	got := run(t, mustParse(t, `linkto("A") - linkto("A")`), defaultOpts(), m)
	if len(got.ok) != 0 {
		t.Fatalf("A - A should be empty, got %v", got.ok)
	}
}

func TestIntersectionAndXOr(t *testing.T) {
	m := providertest.New()
	a, b := title.Parse("A"), title.Parse("B")
	x, y, z := title.Parse("X"), title.Parse("Y"), title.Parse("Z")
	m.AddLink(a, x)
	m.AddLink(a, y)
	m.AddLink(b, y)
	m.AddLink(b, z)

	inter := run(t, mustParse(t, `linkto("A") & linkto("B")`), defaultOpts(), m)
	if len(inter.ok) != 1 || inter.ok[0] != "Y" {
		t.Fatalf("intersection = %v, want [Y]", inter.ok)
	}

	xor := run(t, mustParse(t, `linkto("A") ^ linkto("B")`), defaultOpts(), m)
	if len(xor.ok) != 2 || xor.ok[0] != "X" || xor.ok[1] != "Z" {
		t.Fatalf("xor = %v, want [X Z]", xor.ok)
	}
}

func TestNamespaceFilterAndLimitCountsSurvivors(t *testing.T) {
	m := providertest.New()
	mainPage := title.Parse("Main Page")
	m1 := title.Parse("M1")
	talkT1 := title.New(title.NSTalk, "T1")
	m2 := title.Parse("M2")
	m3 := title.Parse("M3")
	m4 := title.Parse("M4")
	m.AddLink(mainPage, m1)
	m.AddLink(mainPage, talkT1)
	m.AddLink(mainPage, m2)
	m.AddLink(mainPage, m3)
	m.AddLink(mainPage, m4)

	got := run(t, mustParse(t, `linkto("Main Page").ns(0).limit(3)`), defaultOpts(), m)
	if len(got.ok) != 3 {
		t.Fatalf("expected 3 Ok items after namespace filter + limit, got %v", got.ok)
	}
	for _, title := range got.ok {
		if title == "Talk:T1" {
			t.Fatalf("namespace filter should have excluded Talk:T1, got %v", got.ok)
		}
	}
	if len(got.warn) != 1 || got.warn[0] != LimitExceeded {
		t.Fatalf("expected one LimitExceeded warning, got %v", got.warn)
	}
}

func TestInCategoryCycleDetection(t *testing.T) {
	m := providertest.New()
	cats := title.New(title.NSCategory, "Cats")
	big := title.New(title.NSCategory, "Big")
	p1 := title.Parse("P1")
	p2 := title.Parse("P2")

	m.AddCategoryMember(cats, big, true)
	m.AddCategoryMember(cats, p1, false)
	m.AddCategoryMember(big, p2, false)
	m.AddCategoryMember(big, cats, true)

	got := run(t, mustParse(t, `incat("Cats").depth(inf)`), defaultOpts(), m)
	sort.Strings(got.ok)
	if len(got.ok) != 2 || got.ok[0] != "P1" || got.ok[1] != "P2" {
		t.Fatalf("incat expansion = %v, want [P1 P2]", got.ok)
	}
	if len(got.warn) != 1 || got.warn[0] != CategoryCycleDetected {
		t.Fatalf("expected one CategoryCycleDetected warning, got %v", got.warn)
	}
}

func TestCancellationPromptness(t *testing.T) {
	m := providertest.New()
	root := title.Parse("Root")
	for i := 0; i < 500; i++ {
		m.AddLink(root, title.New(title.NSMain, strconv.Itoa(i)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := Solve(ctx, mustParse(t, `linkto("Root")`), defaultOpts(), m)

	cancel()

	count := 0
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
			count++
			if count > 1000 {
				t.Fatalf("expected only a bounded number of items after cancellation, saw over 1000")
			}
		case <-deadline:
			t.Fatalf("stream did not close within 2s of cancellation")
		}
	}
}

