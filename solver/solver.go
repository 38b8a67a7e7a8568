package solver

import (
	"context"
	"time"

	"github.com/milkydeferwm/pagelistbot/ast"
	"github.com/milkydeferwm/pagelistbot/numinf"
	"github.com/milkydeferwm/pagelistbot/provider"
	"github.com/milkydeferwm/pagelistbot/title"
	"github.com/milkydeferwm/pagelistbot/trio"
)

// Options configures one Solve call: the per-query default result
// limit (in force until a .limit() clause overrides it), the overall
// timeout T, and how long before T elapses the root driver should
// warn that the deadline is approaching (§4.2, §5, §7).
type Options struct {
	DefaultLimit        numinf.NumberOrInf
	Timeout             time.Duration
	ApproachingWarning  time.Duration
}

// Solve compiles root against the Options and Provider handle and
// returns the single lazy TrioResult sequence described in §4.2. The
// returned channel is closed once the query reaches a terminal state;
// the caller may abandon it early by cancelling ctx.
//
// This is the root driver: the one piece of the solver that owns wall
// clock time. It injects Warn(TimeoutApproaching) when the remaining
// budget drops under ApproachingWarning, and Warn(TimeoutElapsed)
// followed by cancellation of every descendant producer once Timeout
// elapses (§5's cancellation contract — cooperative, bounded
// additional work afterward).
func Solve(ctx context.Context, root *ast.Node, opts Options, p provider.Provider) <-chan Item {
	out := make(chan Item)
	innerCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(out)
		defer cancel()

		eff := ast.DefaultModifier(opts.DefaultLimit)
		e := &env{p: p}
		in := compileRoot(root, eff, e)(innerCtx)

		approachingC, elapsedC, stopTimers := deadlineTimers(opts)
		defer stopTimers()

		for {
			select {
			case item, ok := <-in:
				if !ok {
					return
				}
				if !sendItem(ctx, out, item) {
					return
				}
			case <-approachingC:
				approachingC = nil
				if !sendItem(ctx, out, trio.Warn[title.Title, Warning, Error](Warning{
					Kind: TimeoutApproaching,
				})) {
					return
				}
			case <-elapsedC:
				sendItem(ctx, out, trio.Warn[title.Title, Warning, Error](Warning{
					Kind: TimeoutElapsed,
				}))
				cancel()
				drainUntilClosed(in)
				return
			case <-ctx.Done():
				cancel()
				drainUntilClosed(in)
				return
			}
		}
	}()

	return out
}

// deadlineTimers builds the two one-shot channels the root driver
// selects on. A non-positive Timeout disables both (nil channels block
// forever in a select, which is exactly "never fires").
func deadlineTimers(opts Options) (approaching, elapsed <-chan time.Time, stop func()) {
	if opts.Timeout <= 0 {
		return nil, nil, func() {}
	}
	elapsedTimer := time.NewTimer(opts.Timeout)

	warnIn := opts.Timeout - opts.ApproachingWarning
	var approachingTimer *time.Timer
	if opts.ApproachingWarning > 0 && warnIn > 0 {
		approachingTimer = time.NewTimer(warnIn)
		approaching = approachingTimer.C
	}
	elapsed = elapsedTimer.C

	return approaching, elapsed, func() {
		elapsedTimer.Stop()
		if approachingTimer != nil {
			approachingTimer.Stop()
		}
	}
}

// drainUntilClosed discards every remaining item on in so the
// producer goroutines feeding it are never left blocked on a send
// after cancellation — they will observe innerCtx.Done() and exit,
// but only once their pending send (if any) is received or abandoned.
func drainUntilClosed(in <-chan Item) {
	for range in {
	}
}
