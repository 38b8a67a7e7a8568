// Command plbctl is an interactive REPL over the page-list query core,
// in the style of the teacher's cmd/cli: a line-oriented loop with a
// handful of word commands plus a default action (there: run a DSL
// statement against the active graph; here: run a page-list query
// against the active mock wiki fixture).
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/milkydeferwm/pagelistbot/internal/dsl"
	"github.com/milkydeferwm/pagelistbot/numinf"
	"github.com/milkydeferwm/pagelistbot/parser"
	"github.com/milkydeferwm/pagelistbot/providertest"
	"github.com/milkydeferwm/pagelistbot/solver"
)

const helpText = `plbctl — Page List Bot query core REPL

Commands:
  new <name>           Create a new empty mock wiki
  load <name> <file>   Load a mock wiki from a JSON fixture file
  unload <name>        Remove a loaded wiki
  list                 List all loaded wikis
  use <name>           Set the active wiki for queries
  limit <N|inf>        Set the default result limit (default: inf)
  timeout <seconds>    Set the query timeout in seconds (default: 10)
  help                 Show this help message
  exit / quit          Exit the REPL

Any other input starting with "." is a graph debug command
(.nodes, .edges("Title"), .cats("Title")) against the active wiki.

Any other input is parsed and solved as a page-list query, e.g.:
  "Main Page"
  linkto("Main Page").ns(0).limit(3)
  incat("Cats").depth(inf)
`

func main() {
	wikis := make(map[string]*providertest.Mock)
	var active string
	defaultLimit := numinf.Inf
	timeout := 10 * time.Second

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("plbctl — Page List Bot query core REPL")
	fmt.Println(`Type "help" for available commands.`)
	fmt.Println()

	for {
		if active != "" {
			fmt.Printf("[%s]> ", active)
		} else {
			fmt.Print("> ")
		}

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch {
		case cmd == "exit" || cmd == "quit":
			return

		case cmd == "help":
			fmt.Print(helpText)

		case cmd == "list":
			if len(wikis) == 0 {
				fmt.Println("(no wikis loaded)")
				continue
			}
			for name := range wikis {
				marker := " "
				if name == active {
					marker = "*"
				}
				fmt.Printf("  %s %s\n", marker, name)
			}

		case cmd == "new":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: new <name>")
				continue
			}
			name := parts[1]
			wikis[name] = providertest.New()
			if active == "" {
				active = name
			}
			fmt.Printf("created empty wiki %q\n", name)

		case cmd == "use":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: use <name>")
				continue
			}
			name := parts[1]
			if _, ok := wikis[name]; !ok {
				fmt.Fprintf(os.Stderr, "no wiki named %q\n", name)
				continue
			}
			active = name
			fmt.Printf("active wiki set to %q\n", name)

		case cmd == "load":
			if len(parts) < 3 {
				fmt.Fprintln(os.Stderr, "usage: load <name> <file>")
				continue
			}
			name, path := parts[1], parts[2]
			mock, err := providertest.LoadJSONFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error loading %q: %v\n", path, err)
				continue
			}
			wikis[name] = mock
			if active == "" {
				active = name
			}
			fmt.Printf("loaded %q (%d pages)\n", name, len(mock.AllTitles()))

		case cmd == "unload":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: unload <name>")
				continue
			}
			name := parts[1]
			if _, ok := wikis[name]; !ok {
				fmt.Fprintf(os.Stderr, "no wiki named %q\n", name)
				continue
			}
			delete(wikis, name)
			if active == name {
				active = ""
			}
			fmt.Printf("unloaded %q\n", name)

		case cmd == "limit":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: limit <N|inf>")
				continue
			}
			n, err := numinf.Parse(parts[1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid limit: %v\n", err)
				continue
			}
			defaultLimit = n
			fmt.Printf("default limit set to %v\n", defaultLimit)

		case cmd == "timeout":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: timeout <seconds>")
				continue
			}
			secs, err := strconv.Atoi(parts[1])
			if err != nil || secs <= 0 {
				fmt.Fprintln(os.Stderr, "timeout must be a positive integer number of seconds")
				continue
			}
			timeout = time.Duration(secs) * time.Second
			fmt.Printf("timeout set to %s\n", timeout)

		case strings.HasPrefix(line, "."):
			if active == "" {
				fmt.Fprintln(os.Stderr, "no active wiki — use 'load' or 'new' first")
				continue
			}
			lines, err := dsl.Run(line, wikis[active])
			if err != nil {
				fmt.Fprintf(os.Stderr, "debug command error: %v\n", err)
				continue
			}
			for _, l := range lines {
				fmt.Println(l)
			}

		default:
			if active == "" {
				fmt.Fprintln(os.Stderr, "no active wiki — use 'load' or 'new' first")
				continue
			}
			runQuery(line, wikis[active], defaultLimit, timeout)
		}
	}
}

func runQuery(query string, mock *providertest.Mock, defaultLimit numinf.NumberOrInf, timeout time.Duration) {
	root, err := parser.Parse(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout+time.Second)
	defer cancel()

	opts := solver.Options{
		DefaultLimit:       defaultLimit,
		Timeout:            timeout,
		ApproachingWarning: timeout / 5,
	}

	for item := range solver.Solve(ctx, root, opts, mock) {
		switch {
		case item.IsOk():
			t, _ := item.OkValue()
			fmt.Println(t.String())
		case item.IsWarn():
			w, _ := item.WarnValue()
			fmt.Fprintf(os.Stderr, "warning: %v\n", w)
		case item.IsErr():
			e, _ := item.ErrValue()
			fmt.Fprintf(os.Stderr, "error: %v\n", e)
		}
	}
}
