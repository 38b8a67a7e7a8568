// Package provider defines the capability the solver calls to realise
// primitives and transformations against an unspecified wiki data
// source. The core has no knowledge of transport, pagination, or
// credentials: a Provider implementation (an external collaborator
// such as the API-connection daemon) is responsible for all of that.
package provider

import (
	"context"
	"fmt"

	"github.com/milkydeferwm/pagelistbot/title"
)

// ErrorKind classifies a ProviderError for the solver's severity
// triage (§7): transient per-title lookups become Warn, structural or
// authentication failures become Err.
type ErrorKind int

const (
	Unavailable ErrorKind = iota
	Unauthorized
	MalformedResponse
	NotFound
)

func (k ErrorKind) String() string {
	switch k {
	case Unavailable:
		return "Unavailable"
	case Unauthorized:
		return "Unauthorized"
	case MalformedResponse:
		return "MalformedResponse"
	case NotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// ProviderError is the error type every Provider method may return.
type ProviderError struct {
	Kind    ErrorKind
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (%v): %v", e.Kind, e.Message)
}

// CategoryMember pairs a title produced by category expansion with
// whether it is itself a subcategory (needed for recursive expansion).
type CategoryMember struct {
	Title    title.Title
	IsSubcat bool
}

// RedirectStatus is the result of classifying a title's redirect state.
type RedirectStatus int

const (
	NotRedirect RedirectStatus = iota
	IsRedirect
	UnknownRedirectStatus
)

// TitleStream is a lazy, pull-driven sequence of titles. Internal
// pagination is handled invisibly by the Provider implementation: the
// solver never sees page tokens or continuation cursors.
//
// Next blocks until an item is available, the stream is exhausted
// (io.EOF-style: ok=false, err=nil), ctx is cancelled, or the
// Provider reports an error. A stream must be safe to abandon (stop
// calling Next) at any point without leaking resources.
type TitleStream interface {
	Next(ctx context.Context) (title.Title, bool, error)
	Close()
}

// CategoryMemberStream is TitleStream's analogue for category
// expansion, which additionally reports whether each member is a
// subcategory.
type CategoryMemberStream interface {
	Next(ctx context.Context) (CategoryMember, bool, error)
	Close()
}

// Provider is the capability consumed by the solver. Every call may
// fail with a *ProviderError; no call is required to preserve order
// between distinct input titles, and the Provider implementation is
// responsible for its own internal serialisation or connection
// pooling — the solver shares one Provider handle read-only among all
// producers.
type Provider interface {
	GetLinksOf(ctx context.Context, titles []title.Title) (TitleStream, error)
	GetBacklinksOf(ctx context.Context, titles []title.Title, traceRedirects bool) (TitleStream, error)
	GetEmbeddingsOf(ctx context.Context, titles []title.Title) (TitleStream, error)
	GetCategoryMembersOf(ctx context.Context, categories []title.Title) (CategoryMemberStream, error)
	GetPrefixMatchesOf(ctx context.Context, prefix title.Title) (TitleStream, error)
	ResolveRedirect(ctx context.Context, t title.Title) (target title.Title, isRedirect bool, err error)
	ClassifyRedirect(ctx context.Context, t title.Title) (RedirectStatus, error)
	CompanionNamespaceTitle(ctx context.Context, t title.Title) (title.Title, bool, error)
	NormaliseTitle(ctx context.Context, raw string) (title.Title, error)
}
