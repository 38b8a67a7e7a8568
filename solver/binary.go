package solver

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/milkydeferwm/pagelistbot/ast"
	"github.com/milkydeferwm/pagelistbot/title"
	"github.com/milkydeferwm/pagelistbot/trio"
)

// compileBinary compiles a two-argument set operator over its two
// already-modifier-resolved operands.
func compileBinary(node *ast.Node, eff ast.Modifier, e *env) producer {
	left := compile(node.Binary.Left, eff, e)
	right := compile(node.Binary.Right, eff, e)

	switch node.Binary.Op {
	case ast.Union:
		return compileUnion(left, right)
	case ast.Intersection:
		return compileIntersection(left, right)
	case ast.Difference:
		return compileDifference(left, right)
	case ast.XOr:
		return compileXOr(left, right)
	default:
		return func(ctx context.Context) <-chan Item {
			out := make(chan Item)
			go func() {
				defer close(out)
				sendItem(ctx, out, trio.Err[title.Title, Warning, Error](Error{
					Kind:    InternalInvariantViolated,
					Message: "solver: unrecognised binary op " + node.Binary.Op.String(),
				}))
			}()
			return out
		}
	}
}

// compileUnion interleaves both sides concurrently, deduping titles
// seen from either side. The spec permits the solver to interleave the
// two sides in whatever order finishes first; running both
// concurrently and merging as results arrive realises that directly.
func compileUnion(left, right producer) producer {
	return func(ctx context.Context) <-chan Item {
		out := make(chan Item)
		go func() {
			defer close(out)
			var mu sync.Mutex
			seen := make(map[string]struct{})
			g, gctx := errgroup.WithContext(ctx)
			forward := func(in <-chan Item) func() error {
				return func() error {
					for item := range in {
						if t, ok := item.OkValue(); ok {
							mu.Lock()
							_, dup := seen[t.Key()]
							if !dup {
								seen[t.Key()] = struct{}{}
							}
							mu.Unlock()
							if dup {
								continue
							}
						}
						if !sendItem(ctx, out, item) {
							return nil
						}
					}
					return nil
				}
			}
			g.Go(forward(left(gctx)))
			g.Go(forward(right(gctx)))
			g.Wait()
		}()
		return out
	}
}

// collectSet fully drains in, forwarding Warn/Err items to out as they
// arrive and collecting Ok titles into a set keyed by title.Key. It
// reports ok=false if ctx was cancelled or a terminal Err was seen, in
// which case the caller must not proceed to the other side.
func collectSet(ctx context.Context, in <-chan Item, out chan<- Item) (map[string]title.Title, bool) {
	set := make(map[string]title.Title)
	for item := range in {
		if t, ok := item.OkValue(); ok {
			set[t.Key()] = t
			continue
		}
		if !sendItem(ctx, out, item) {
			return nil, false
		}
		if _, isErr := item.ErrValue(); isErr {
			return nil, false
		}
	}
	return set, true
}

// compileIntersection buffers the left side fully, then streams the
// right side and keeps only titles present in the left set. The spec
// allows the solver to choose which side it buffers; always buffering
// left is a deterministic simplification of "whichever finishes
// first" that produces the identical result set.
func compileIntersection(left, right producer) producer {
	return func(ctx context.Context) <-chan Item {
		out := make(chan Item)
		go func() {
			defer close(out)
			leftSet, ok := collectSet(ctx, left(ctx), out)
			if !ok {
				return
			}
			for item := range right(ctx) {
				t, ok := item.OkValue()
				if !ok {
					if !sendItem(ctx, out, item) {
						return
					}
					continue
				}
				if _, present := leftSet[t.Key()]; !present {
					continue
				}
				if !sendItem(ctx, out, trio.Ok[title.Title, Warning, Error](t)) {
					return
				}
			}
		}()
		return out
	}
}

// compileDifference fully consumes the right side before emitting any
// left-only item, resolving the Open Question against short-circuiting
// even when the right side is unbounded: a title can only be known
// left-only once the entire right side has been checked.
func compileDifference(left, right producer) producer {
	return func(ctx context.Context) <-chan Item {
		out := make(chan Item)
		go func() {
			defer close(out)
			rightSet, ok := collectSet(ctx, right(ctx), out)
			if !ok {
				return
			}
			emitted := make(map[string]struct{})
			for item := range left(ctx) {
				t, ok := item.OkValue()
				if !ok {
					if !sendItem(ctx, out, item) {
						return
					}
					continue
				}
				if _, excluded := rightSet[t.Key()]; excluded {
					continue
				}
				if _, dup := emitted[t.Key()]; dup {
					continue
				}
				emitted[t.Key()] = struct{}{}
				if !sendItem(ctx, out, trio.Ok[title.Title, Warning, Error](t)) {
					return
				}
			}
		}()
		return out
	}
}

// compileXOr buffers both sides fully, since membership on either side
// can't be decided until both sets are complete. Both sides are
// buffered concurrently via errgroup, mirroring the fan-out shape of
// compileUnion rather than paying for two sequential full drains.
func compileXOr(left, right producer) producer {
	return func(ctx context.Context) <-chan Item {
		out := make(chan Item)
		go func() {
			defer close(out)

			var leftSet, rightSet map[string]title.Title
			leftOK, rightOK := true, true
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				set, ok := collectSet(gctx, left(gctx), out)
				leftSet, leftOK = set, ok
				return nil
			})
			g.Go(func() error {
				set, ok := collectSet(gctx, right(gctx), out)
				rightSet, rightOK = set, ok
				return nil
			})
			g.Wait()
			if !leftOK || !rightOK {
				return
			}
			for key, t := range leftSet {
				if _, both := rightSet[key]; both {
					continue
				}
				if !sendItem(ctx, out, trio.Ok[title.Title, Warning, Error](t)) {
					return
				}
			}
			for key, t := range rightSet {
				if _, both := leftSet[key]; both {
					continue
				}
				if !sendItem(ctx, out, trio.Ok[title.Title, Warning, Error](t)) {
					return
				}
			}
		}()
		return out
	}
}
