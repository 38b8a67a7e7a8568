// Package dsl implements a tiny participle-based grammar for the
// "graph debug" commands of cmd/plbctl: a secondary, much smaller DSL
// for inspecting a loaded providertest.Mock fixture (".nodes",
// ".edges(Title)", ".cats(Title)") rather than for evaluating page-list
// queries — that grammar lives in package parser and is hand-written
// per spec (it needs byte spans and postfix-modifier folding that a
// struct-tag grammar cannot express naturally). This is the teacher's
// own parser-generator library, repurposed for a shape it fits well: a
// small, fixed command set with no precedence climbing.
package dsl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var debugLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Dot", Pattern: `\.`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"`},
	{Name: "Whitespace", Pattern: `\s+`},
}).Elide("Whitespace")

// Command is the top-level debug-REPL command AST.
type Command struct {
	Nodes *NodesCommand `parser:"  \".\" @@"`
	Edges *EdgesCommand `parser:"| \".\" @@"`
	Cats  *CatsCommand  `parser:"| \".\" @@"`
}

// NodesCommand lists every title registered in the mock.
type NodesCommand struct {
	Keyword string `parser:"\"nodes\""`
}

// EdgesCommand lists the outgoing links of one title.
type EdgesCommand struct {
	Keyword string `parser:"\"edges\" \"(\""`
	Title   string `parser:"@String \")\""`
}

// CatsCommand lists the category memberships declared for one title.
type CatsCommand struct {
	Keyword string `parser:"\"cats\" \"(\""`
	Title   string `parser:"@String \")\""`
}

var debugParser = participle.MustBuild[Command](
	participle.Lexer(debugLexer),
	participle.Unquote("String"),
)

// ParseCommand parses one debug-REPL line into a Command.
func ParseCommand(line string) (*Command, error) {
	return debugParser.ParseString("", line)
}
