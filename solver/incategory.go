package solver

import (
	"context"

	"github.com/milkydeferwm/pagelistbot/numinf"
	"github.com/milkydeferwm/pagelistbot/title"
	"github.com/milkydeferwm/pagelistbot/trio"
)

// emitCategoryExpansion expands each seed category breadth-first,
// descending into subcategories up to depth levels (inf meaning
// unbounded), per §4.1's incat() and the .depth() modifier. A seed
// outside the Category namespace is taken as the category of the same
// base name. Member pages are emitted as they're discovered; a
// category already visited on this expansion is skipped rather than
// re-walked, which
// is what breaks cycles like the worked §8 fixture
// (Cats -> {Big, P1}, Big -> {P2, Cats}) without ever revisiting Cats
// — a CategoryCycleDetected warning is emitted the moment the repeat
// is found.
func emitCategoryExpansion(ctx context.Context, out chan<- Item, e *env, seeds []title.Title, depth numinf.NumberOrInf) {
	visited := make(map[string]struct{})
	type frontierEntry struct {
		t         title.Title
		remaining numinf.NumberOrInf
	}

	var frontier []frontierEntry
	for _, s := range seeds {
		if s.Namespace() != title.NSCategory {
			s = title.New(title.NSCategory, s.Base())
		}
		frontier = append(frontier, frontierEntry{t: s, remaining: depth})
	}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]

		key := cur.t.Key()
		if _, seen := visited[key]; seen {
			if !sendItem(ctx, out, trio.Warn[title.Title, Warning, Error](Warning{
				Kind:  CategoryCycleDetected,
				Title: cur.t.String(),
			})) {
				return
			}
			continue
		}
		visited[key] = struct{}{}

		stream, err := e.p.GetCategoryMembersOf(ctx, []title.Title{cur.t})
		if err != nil {
			if !sendItem(ctx, out, providerCallErr(err)) {
				return
			}
			continue
		}

		next := cur.remaining
		descend := true
		if n, finite := next.Value(); finite && n <= 0 {
			descend = false
		}

		for {
			member, ok, err := stream.Next(ctx)
			if err != nil {
				stream.Close()
				if !sendItem(ctx, out, providerCallErr(err)) {
					return
				}
				break
			}
			if !ok {
				stream.Close()
				break
			}
			if member.IsSubcat {
				if descend {
					frontier = append(frontier, frontierEntry{
						t:         member.Title,
						remaining: next.SaturatingDec(),
					})
				}
				continue
			}
			if !sendItem(ctx, out, trio.Ok[title.Title, Warning, Error](member.Title)) {
				stream.Close()
				return
			}
		}
	}
}
