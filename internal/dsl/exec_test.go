package dsl_test

import (
	"testing"

	"github.com/milkydeferwm/pagelistbot/internal/dsl"
	"github.com/milkydeferwm/pagelistbot/providertest"
	"github.com/milkydeferwm/pagelistbot/title"
)

func buildMock() *providertest.Mock {
	m := providertest.New()
	m.AddLink(title.New(title.NSMain, "Main Page"), title.New(title.NSMain, "Other Page"))
	m.AddCategoryMember(title.New(title.NSCategory, "Cats"), title.New(title.NSMain, "Main Page"), false)
	return m
}

func TestRunNodes(t *testing.T) {
	m := buildMock()
	lines, err := dsl.Run(".nodes", m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 titles, got %v", lines)
	}
}

func TestRunEdges(t *testing.T) {
	m := buildMock()
	lines, err := dsl.Run(`.edges("Main Page")`, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "Main Page -> Other Page" {
		t.Fatalf("unexpected edges output: %v", lines)
	}
}

func TestRunCats(t *testing.T) {
	m := buildMock()
	lines, err := dsl.Run(`.cats("Main Page")`, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "Category:Cats" {
		t.Fatalf("unexpected cats output: %v", lines)
	}
}

func TestRunSyntaxError(t *testing.T) {
	m := buildMock()
	if _, err := dsl.Run(".bogus", m); err == nil {
		t.Fatal("expected a syntax error for an unrecognised debug command")
	}
}
