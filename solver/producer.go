package solver

import (
	"context"

	"github.com/milkydeferwm/pagelistbot/ast"
	"github.com/milkydeferwm/pagelistbot/provider"
	"github.com/milkydeferwm/pagelistbot/title"
	"github.com/milkydeferwm/pagelistbot/trio"
)

// producer is a compiled node: calling it starts the underlying
// goroutine(s) and returns the channel it will send Items on, closing
// it once the node's sub-stream reaches a terminal state (Completed,
// Failed, or Cancelled per the state machine in §4.2).
type producer func(ctx context.Context) <-chan Item

// env is the shared, read-only compilation environment threaded
// through compile: the Provider handle every producer calls.
type env struct {
	p provider.Provider
}

// compile walks node, returning the producer for its subtree. eff is
// the effective modifier in force for node — inherited from the
// caller, with a Modified wrapper's own clauses merged over it field
// by field (fields the wrapper does not set stay inherited).
//
// The namespace/redirect-classify/redirect-resolve/limit post-filters
// of §4.2 belong to a Modified node's own outgoing stream, applied
// exactly once at that node's boundary — not to every nested node
// compile walks through on the way there. A Page or Unary node reached
// while gathering the seeds for an enclosing transformation is an
// input to that transformation, not a query result in its own right,
// and must pass through unfiltered.
func compile(node *ast.Node, eff ast.Modifier, e *env) producer {
	if node.Kind == ast.KindModified {
		effHere := eff.Merge(node.Modified.Modifier)
		inner := compile(node.Modified.Inner, effHere, e)
		return wrapWithFilters(inner, effHere, node.Span, e)
	}

	return compileVariant(node, eff, e)
}

// compileRoot compiles the top of a query. §4.2 seeds the effective
// modifier at the root before compilation starts, so the root's
// post-filters (in particular its default result limit) apply exactly
// once even when the query has no explicit top-level modifier clause —
// compile alone only wraps filters at a Modified node's own boundary,
// so a root with no such node would otherwise see no limit enforced.
func compileRoot(root *ast.Node, eff ast.Modifier, e *env) producer {
	if root.Kind == ast.KindModified {
		return compile(root, eff, e)
	}
	return wrapWithFilters(compileVariant(root, eff, e), eff, root.Span, e)
}

func compileVariant(node *ast.Node, eff ast.Modifier, e *env) producer {
	switch node.Kind {
	case ast.KindPage:
		return compilePage(node, e)
	case ast.KindUnary:
		return compileUnary(node, eff, e)
	case ast.KindBinary:
		return compileBinary(node, eff, e)
	default:
		return func(ctx context.Context) <-chan Item {
			out := make(chan Item)
			go func() {
				defer close(out)
				sendItem(ctx, out, trio.Err[title.Title, Warning, Error](Error{
					Kind:    InternalInvariantViolated,
					Message: "solver: encountered a node with no recognised variant",
				}))
			}()
			return out
		}
	}
}

// sendItem writes item to out, returning false if ctx was cancelled
// first. Every producer must use this (not a bare channel send) at
// every suspension point to honour cooperative cancellation (§5).
func sendItem(ctx context.Context, out chan<- Item, item Item) bool {
	select {
	case out <- item:
		return true
	case <-ctx.Done():
		return false
	}
}
