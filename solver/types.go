// Package solver walks an *ast.Node bottom-up, compiling one
// asynchronous title-producer per node and composing them into a
// single lazy TrioResult stream, per §4.2. Each producer is a
// goroutine writing to an unbuffered channel: the unbuffered channel
// is what makes it pull-driven (the producer blocks on send until the
// consumer receives), the same way the teacher's composite_queries.go
// fans work out over channels and a context.
package solver

import (
	"fmt"

	"github.com/milkydeferwm/pagelistbot/ast"
	"github.com/milkydeferwm/pagelistbot/numinf"
	"github.com/milkydeferwm/pagelistbot/title"
	"github.com/milkydeferwm/pagelistbot/trio"
)

// WarnKind enumerates the non-fatal notices a producer may emit.
type WarnKind int

const (
	LimitExceeded WarnKind = iota
	TimeoutApproaching
	TimeoutElapsed
	TitleNotFound
	RedirectResolutionFailed
	CategoryCycleDetected
)

func (k WarnKind) String() string {
	switch k {
	case LimitExceeded:
		return "LimitExceeded"
	case TimeoutApproaching:
		return "TimeoutApproaching"
	case TimeoutElapsed:
		return "TimeoutElapsed"
	case TitleNotFound:
		return "TitleNotFound"
	case RedirectResolutionFailed:
		return "RedirectResolutionFailed"
	case CategoryCycleDetected:
		return "CategoryCycleDetected"
	default:
		return "Unknown"
	}
}

// Warning is the payload of a Warn item.
type Warning struct {
	Kind    WarnKind
	Span    ast.Span
	Limit   numinf.NumberOrInf
	Title   string
	Message string
}

func (w Warning) String() string {
	if w.Message != "" {
		return fmt.Sprintf("%v: %v", w.Kind, w.Message)
	}
	return w.Kind.String()
}

// ErrKind enumerates the fatal errors a producer may terminate with.
type ErrKind int

const (
	ProviderUnavailable ErrKind = iota
	Unauthorized
	MalformedResponse
	InternalInvariantViolated
)

func (k ErrKind) String() string {
	switch k {
	case ProviderUnavailable:
		return "ProviderUnavailable"
	case Unauthorized:
		return "Unauthorized"
	case MalformedResponse:
		return "MalformedResponse"
	case InternalInvariantViolated:
		return "InternalInvariantViolated"
	default:
		return "Unknown"
	}
}

// Error is the payload of an Err item.
type Error struct {
	Kind    ErrKind
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("solver error (%v): %v", e.Kind, e.Message)
}

// Item is the three-valued stream element the solver emits: a page
// title, a warning, or a terminal error.
type Item = trio.Result[title.Title, Warning, Error]
