package solver

import (
	"context"

	"github.com/milkydeferwm/pagelistbot/ast"
	"github.com/milkydeferwm/pagelistbot/provider"
	"github.com/milkydeferwm/pagelistbot/title"
	"github.com/milkydeferwm/pagelistbot/trio"
)

// compilePage produces the literal titles of a PageExpr, normalised
// through the Provider (so "linkto" et al. and the literal set agree
// on capitalisation/namespace rules).
func compilePage(node *ast.Node, e *env) producer {
	raw := node.Page.Titles
	return func(ctx context.Context) <-chan Item {
		out := make(chan Item)
		go func() {
			defer close(out)
			for _, s := range raw {
				t, err := e.p.NormaliseTitle(ctx, s)
				if err != nil {
					if !sendItem(ctx, out, titleWarnOrErr(s, err)) {
						return
					}
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

// titleWarnOrErr classifies a Provider failure during single-title
// resolution: a lookup miss (NotFound) is a Warn, anything structural
// is a fatal Err, per §7's severity triage.
func titleWarnOrErr(raw string, err error) Item {
	if pe, ok := err.(*provider.ProviderError); ok && pe.Kind == provider.NotFound {
		return trio.Warn[title.Title, Warning, Error](Warning{
			Kind:    TitleNotFound,
			Title:   raw,
			Message: pe.Message,
		})
	}
	return trio.Err[title.Title, Warning, Error](Error{
		Kind:    ProviderUnavailable,
		Message: err.Error(),
	})
}

// compileUnary compiles a one-argument transformation: the inner
// subtree is fully drained for its seed set of titles (propagating its
// Warn/Err items unchanged), then the transformation is applied to
// that seed set.
func compileUnary(node *ast.Node, eff ast.Modifier, e *env) producer {
	inner := compile(node.Unary.Inner, eff, e)
	kind := node.Unary.Kind

	return func(ctx context.Context) <-chan Item {
		out := make(chan Item)
		go func() {
			defer close(out)
			seeds, ok := drainSeeds(ctx, inner, out)
			if !ok {
				return
			}
			if len(seeds) == 0 {
				return
			}
			switch kind {
			case ast.LinkTo:
				streamBatch(ctx, out, func() (provider.TitleStream, error) {
					return e.p.GetLinksOf(ctx, seeds)
				})
			case ast.BackLink:
				streamBatch(ctx, out, func() (provider.TitleStream, error) {
					return e.p.GetBacklinksOf(ctx, seeds, eff.BacklinkTraceRedirects)
				})
			case ast.EmbeddedIn:
				streamBatch(ctx, out, func() (provider.TitleStream, error) {
					return e.p.GetEmbeddingsOf(ctx, seeds)
				})
			case ast.Prefix:
				for _, seed := range seeds {
					if !streamBatch(ctx, out, func() (provider.TitleStream, error) {
						return e.p.GetPrefixMatchesOf(ctx, seed)
					}) {
						return
					}
				}
			case ast.Toggle:
				emitToggled(ctx, out, e, seeds)
			case ast.InCategory:
				emitCategoryExpansion(ctx, out, e, seeds, eff.CategoryMembersRecursionDepth)
			default:
				sendItem(ctx, out, trio.Err[title.Title, Warning, Error](Error{
					Kind:    InternalInvariantViolated,
					Message: "solver: unrecognised unary kind " + kind.String(),
				}))
			}
		}()
		return out
	}
}

// drainSeeds consumes in fully, forwarding every Warn/Err item onto
// out as it is seen and collecting the Ok titles into a slice. It
// returns ok=false if ctx was cancelled (the caller must stop without
// doing further work) or a terminal Err was forwarded.
func drainSeeds(ctx context.Context, in <-chan Item, out chan<- Item) ([]title.Title, bool) {
	var seeds []title.Title
	for item := range in {
		if t, ok := item.OkValue(); ok {
			seeds = append(seeds, t)
			continue
		}
		if !sendItem(ctx, out, item) {
			return nil, false
		}
		if _, isErr := item.ErrValue(); isErr {
			return nil, false
		}
	}
	return seeds, true
}

// streamBatch runs a single batched Provider fetch and forwards every
// resulting title, returning false if the stream was abandoned due to
// cancellation or a terminal error.
func streamBatch(ctx context.Context, out chan<- Item, open func() (provider.TitleStream, error)) bool {
	stream, err := open()
	if err != nil {
		sendItem(ctx, out, providerCallErr(err))
		return false
	}
	defer stream.Close()
	for {
		t, ok, err := stream.Next(ctx)
		if err != nil {
			sendItem(ctx, out, providerCallErr(err))
			return false
		}
		if !ok {
			return true
		}
		if !sendItem(ctx, out, trio.Ok[title.Title, Warning, Error](t)) {
			return false
		}
	}
}

func providerCallErr(err error) Item {
	if pe, ok := err.(*provider.ProviderError); ok {
		return trio.Err[title.Title, Warning, Error](Error{
			Kind:    ProviderUnavailable,
			Message: pe.Error(),
		})
	}
	return trio.Err[title.Title, Warning, Error](Error{
		Kind:    ProviderUnavailable,
		Message: err.Error(),
	})
}

// emitToggled maps each seed to its talk/subject companion, per §4.1's
// toggle() transformation. A title with no companion namespace is
// dropped silently (the companion map is total over the namespaces the
// spec defines companions for; anything else has no toggle target).
func emitToggled(ctx context.Context, out chan<- Item, e *env, seeds []title.Title) {
	for _, seed := range seeds {
		companion, ok, err := e.p.CompanionNamespaceTitle(ctx, seed)
		if err != nil {
			if !sendItem(ctx, out, providerCallErr(err)) {
				return
			}
			continue
		}
		if !ok {
			continue
		}
		if !sendItem(ctx, out, trio.Ok[title.Title, Warning, Error](companion)) {
			return
		}
	}
}
