package dsl

import (
	"context"
	"fmt"

	"github.com/milkydeferwm/pagelistbot/providertest"
	"github.com/milkydeferwm/pagelistbot/title"
)

// Run parses and executes one debug-REPL line against mock, returning
// the lines it should print. It returns (nil, err) for a malformed
// command rather than a partial result, mirroring the query parser's
// no-partial-parses contract.
func Run(line string, mock *providertest.Mock) ([]string, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return nil, SyntaxError{Message: err.Error()}
	}

	switch {
	case cmd.Nodes != nil:
		var lines []string
		for _, t := range mock.AllTitles() {
			lines = append(lines, t.String())
		}
		return lines, nil

	case cmd.Edges != nil:
		t := title.Parse(cmd.Edges.Title)
		stream, err := mock.GetLinksOf(context.Background(), []title.Title{t})
		if err != nil {
			return nil, err
		}
		defer stream.Close()
		var lines []string
		for {
			target, ok, err := stream.Next(context.Background())
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			lines = append(lines, fmt.Sprintf("%s -> %s", t, target))
		}
		return lines, nil

	case cmd.Cats != nil:
		t := title.Parse(cmd.Cats.Title)
		var lines []string
		for _, c := range mock.Categories(t) {
			lines = append(lines, c.String())
		}
		return lines, nil

	default:
		return nil, SyntaxError{Message: "empty command"}
	}
}
