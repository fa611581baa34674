// Package runner executes target callables as their own oracle,
// capturing a return, a raised error kind, or a timeout. The caller
// is isolated from panics and runaway loops in target code.
package runner

import (
	"reflect"
	"runtime"
	"time"
)

// DefaultTimeout is the per-call deadline used throughout synthesis.
// It exists to catch runaway loops, not to impose an SLA.
const DefaultTimeout = 3 * time.Second

// Disposition says how an invocation ended.
type Disposition string

// Invocation dispositions.
const (
	Returned Disposition = "Returned"
	Raised   Disposition = "Raised"
	TimedOut Disposition = "TimedOut"
)

// Outcome is the result of one oracle invocation. Values is set
// only for Returned (trailing nil error stripped); ErrKind only for
// Raised. A TimedOut outcome carries nothing: the oracle failed to
// produce a result and the candidate must be discarded.
type Outcome struct {
	Disposition Disposition
	Values      []any
	ErrKind     string
}

// Deadline is the injected timeout capability. Expire returns a
// channel that fires when the call's budget elapses; a nil channel
// means no deadline is enforced on this platform.
type Deadline interface {
	Expire() <-chan time.Time
}

// WallClock enforces a fixed wall-clock budget per call.
type WallClock struct {
	Budget time.Duration
}

// Expire implements Deadline.
func (w WallClock) Expire() <-chan time.Time { return time.After(w.Budget) }

// None disables deadline enforcement. Calls run to completion.
type None struct{}

// Expire implements Deadline. The returned nil channel never fires.
func (None) Expire() <-chan time.Time { return nil }

// Runner invokes callables under a deadline capability chosen once
// at start-up.
type Runner struct {
	deadline Deadline
}

// New returns a runner. A nil deadline means the default 3-second
// wall clock.
func New(d Deadline) *Runner {
	if d == nil {
		d = WallClock{Budget: DefaultTimeout}
	}
	return &Runner{deadline: d}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

type callResult struct {
	values   []reflect.Value
	panicked any
	didPanic bool
}

// Invoke calls fn with args in a detached worker goroutine and
// waits for a result or the deadline. Past the deadline the
// worker's eventual result is abandoned; side effects the target
// produced before timing out are not rolled back. Panics inside the
// target (including reflect call-shape panics from bad arguments)
// become Raised outcomes, never engine panics.
func (r *Runner) Invoke(fn reflect.Value, args []reflect.Value) Outcome {
	ch := make(chan callResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				ch <- callResult{panicked: p, didPanic: true}
			}
		}()
		ch <- callResult{values: fn.Call(args)}
	}()

	select {
	case res := <-ch:
		return r.outcome(fn, res)
	case <-r.deadline.Expire():
		return Outcome{Disposition: TimedOut}
	}
}

// outcome converts a finished call into an Outcome. A non-nil
// trailing error result is the raised-error analog; a nil trailing
// error is stripped from the returned values.
func (r *Runner) outcome(fn reflect.Value, res callResult) Outcome {
	if res.didPanic {
		return Outcome{Disposition: Raised, ErrKind: KindOf(res.panicked)}
	}

	vals := res.values
	ft := fn.Type()
	if n := ft.NumOut(); n > 0 && ft.Out(n-1) == errType {
		errVal := vals[n-1]
		vals = vals[:n-1]
		if !errVal.IsNil() {
			return Outcome{Disposition: Raised, ErrKind: KindOf(errVal.Interface())}
		}
	}

	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v.Interface()
	}
	return Outcome{Disposition: Returned, Values: out}
}

// KindOf classifies a raised value into a stable error-kind string.
// Runtime errors use their message, which is stable across builds
// ("runtime error: integer divide by zero"); other errors use their
// dynamic type; non-error panic values use "panic: <type>".
func KindOf(v any) string {
	if v == nil {
		return ""
	}
	if re, ok := v.(runtime.Error); ok {
		return re.Error()
	}
	if err, ok := v.(error); ok {
		return reflect.TypeOf(err).String()
	}
	return "panic: " + reflect.TypeOf(v).String()
}
