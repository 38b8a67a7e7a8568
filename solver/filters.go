package solver

import (
	"context"

	"github.com/milkydeferwm/pagelistbot/ast"
	"github.com/milkydeferwm/pagelistbot/provider"
	"github.com/milkydeferwm/pagelistbot/title"
	"github.com/milkydeferwm/pagelistbot/trio"
)

// wrapWithFilters applies the four post-filters of §4.2 in the
// mandated order: namespace, redirect classification, redirect
// resolution (with post-resolution dedup, per the Open Question in §9
// resolved "yes"), then limit enforcement. Each stage is transparent
// to Warn/Err items — they pass straight through untouched.
//
// These are a Modified node's own outgoing-stream filters (and the
// implicit root modifier's, via compileRoot) — callers apply this
// exactly once per modifier scope, never to an intermediate node whose
// output only feeds an enclosing transformation.
//
// Limit enforcement counts items that have already survived the
// earlier stages, not raw Provider fetches: the worked example in §8
// (linkto(...).ns(0).limit(3) yielding three Ok items, M1/M2/M3, from
// a five-item upstream list) only holds if the cap is applied after
// namespace filtering removes Talk:T1, so that is what this
// implementation does. This resolves the apparent tension with the
// "raw items fetched" wording in §4.2's Limit semantics paragraph in
// favour of the concrete, testable scenario.
func wrapWithFilters(raw producer, eff ast.Modifier, span ast.Span, e *env) producer {
	return func(ctx context.Context) <-chan Item {
		in := raw(ctx)
		in = applyNamespaceFilter(ctx, in, eff)
		in = applyRedirectClassifyFilter(ctx, in, eff, e)
		in = applyRedirectResolve(ctx, in, eff, e)
		in = applyLimit(ctx, in, eff, span)
		return in
	}
}

func applyNamespaceFilter(ctx context.Context, in <-chan Item, eff ast.Modifier) <-chan Item {
	if !eff.NamespaceSet || len(eff.Namespace) == 0 {
		return in
	}
	out := make(chan Item)
	go func() {
		defer close(out)
		for item := range in {
			if t, ok := item.OkValue(); ok {
				if _, allowed := eff.Namespace[t.Namespace()]; !allowed {
					continue
				}
			}
			if !sendItem(ctx, out, item) {
				return
			}
		}
	}()
	return out
}

func applyRedirectClassifyFilter(ctx context.Context, in <-chan Item, eff ast.Modifier, e *env) <-chan Item {
	if !eff.FilterRedirectsSet || eff.FilterRedirects == ast.FilterAll {
		return in
	}
	out := make(chan Item)
	go func() {
		defer close(out)
		for item := range in {
			t, ok := item.OkValue()
			if !ok {
				if !sendItem(ctx, out, item) {
					return
				}
				continue
			}
			status, err := e.p.ClassifyRedirect(ctx, t)
			if err != nil {
				if !sendItem(ctx, out, warnForProviderErr(t, err)) {
					return
				}
				continue
			}
			keep := true
			switch eff.FilterRedirects {
			case ast.FilterNoRedirect:
				keep = status != provider.IsRedirect
			case ast.FilterOnlyRedirect:
				keep = status == provider.IsRedirect
			}
			if !keep {
				continue
			}
			if !sendItem(ctx, out, trio.Ok[title.Title, Warning, Error](t)) {
				return
			}
		}
	}()
	return out
}

func applyRedirectResolve(ctx context.Context, in <-chan Item, eff ast.Modifier, e *env) <-chan Item {
	if !eff.ResolveRedirectsSet || !eff.ResolveRedirects {
		return in
	}
	out := make(chan Item)
	go func() {
		defer close(out)
		seen := make(map[string]struct{})
		for item := range in {
			t, ok := item.OkValue()
			if !ok {
				if !sendItem(ctx, out, item) {
					return
				}
				continue
			}
			resolved := t
			target, isRedirect, err := e.p.ResolveRedirect(ctx, t)
			if err != nil {
				if !sendItem(ctx, out, Item(trio.Warn[title.Title, Warning, Error](Warning{
					Kind:    RedirectResolutionFailed,
					Title:   t.String(),
					Message: err.Error(),
				}))) {
					return
				}
				continue
			}
			if isRedirect {
				resolved = target
			}
			key := resolved.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if !sendItem(ctx, out, trio.Ok[title.Title, Warning, Error](resolved)) {
				return
			}
		}
	}()
	return out
}

func applyLimit(ctx context.Context, in <-chan Item, eff ast.Modifier, span ast.Span) <-chan Item {
	out := make(chan Item)
	go func() {
		defer close(out)
		limit := eff.ResultLimit
		n, finite := limit.Value()
		var survived int64
		for item := range in {
			if _, ok := item.OkValue(); ok {
				if finite && survived >= n {
					sendItem(ctx, out, trio.Warn[title.Title, Warning, Error](Warning{
						Kind:  LimitExceeded,
						Span:  span,
						Limit: limit,
					}))
					return
				}
				survived++
			}
			if !sendItem(ctx, out, item) {
				return
			}
		}
	}()
	return out
}

func warnForProviderErr(t title.Title, err error) Item {
	return trio.Warn[title.Title, Warning, Error](Warning{
		Kind:    TitleNotFound,
		Title:   t.String(),
		Message: err.Error(),
	})
}
