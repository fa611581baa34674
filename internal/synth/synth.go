// Package synth orchestrates test-case synthesis: it sweeps
// boundary values one parameter at a time, samples random tuples,
// filters out equivalent candidates, executes the target as its own
// oracle, and records the observed outcome as the expected result.
package synth

import (
	"fmt"
	"io"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/unbound-force/forge/internal/equiv"
	"github.com/unbound-force/forge/internal/record"
	"github.com/unbound-force/forge/internal/runner"
	"github.com/unbound-force/forge/internal/surface"
	"github.com/unbound-force/forge/internal/target"
	"github.com/unbound-force/forge/internal/values"
)

// DefaultRandomCases is the number of fully-random candidates
// generated after the boundary sweep.
const DefaultRandomCases = 5

// Options configures a synthesis run.
type Options struct {
	// RandomCases is the random-sampling count per callable.
	// Values outside 1..10 fall back to DefaultRandomCases.
	RandomCases int

	// Seed drives the random source. Sweep order is deterministic
	// for a fixed seed.
	Seed int64

	// Deadline is the per-call timeout capability. Nil means the
	// default 3-second wall clock.
	Deadline runner.Deadline

	// Logger receives analysis and timeout warnings. Nil discards.
	Logger *log.Logger
}

func (o Options) randomCases() int {
	if o.RandomCases < 1 || o.RandomCases > 10 {
		return DefaultRandomCases
	}
	return o.RandomCases
}

// Synthesizer generates cases for one module. It runs candidates
// strictly sequentially; the only shared state is the per-callable
// used-tuple set, owned by this goroutine.
type Synthesizer struct {
	mod  *target.Module
	vals *values.Synthesizer
	run  *runner.Runner
	an   *surface.Analyzer
	log  *log.Logger

	randomCases int
}

// New builds a synthesizer over a module.
func New(mod *target.Module, opts Options) *Synthesizer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Synthesizer{
		mod:         mod,
		vals:        values.New(mod, opts.Seed),
		run:         runner.New(opts.Deadline),
		an:          surface.NewAnalyzer(mod, logger),
		log:         logger,
		randomCases: opts.randomCases(),
	}
}

// Result is the engine's output boundary: ordered case lists keyed
// by callable and class member, handed to a serializer and owned by
// the caller. The engine keeps no history across runs.
type Result struct {
	Module     string
	FuncOrder  []string
	FuncCases  map[string][]record.TestCase
	ClassOrder []string
	ClassCases map[string]map[string][]record.ClassCase
}

// Run synthesizes cases for every registered callable. progress, if
// non-nil, is called with each callable or class name before it is
// processed.
func (s *Synthesizer) Run(progress func(name string)) Result {
	res := Result{
		Module:     s.mod.Name,
		FuncCases:  make(map[string][]record.TestCase, len(s.mod.Funcs)),
		ClassCases: make(map[string]map[string][]record.ClassCase, len(s.mod.Classes)),
	}
	for _, fn := range s.mod.Funcs {
		if progress != nil {
			progress(fn.Name)
		}
		res.FuncOrder = append(res.FuncOrder, fn.Name)
		res.FuncCases[fn.Name] = s.Function(fn)
	}
	for _, cls := range s.mod.Classes {
		if progress != nil {
			progress(cls.Name)
		}
		res.ClassOrder = append(res.ClassOrder, cls.Name)
		res.ClassCases[cls.Name] = s.Class(cls)
	}
	return res
}

// Function generates cases for a free function: the boundary sweep
// first, parameter-major and boundary-value-minor, then random
// sampling, both deduplicated against the same used-tuple set.
func (s *Synthesizer) Function(fn target.Func) []record.TestCase {
	fv := fn.Value()
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		s.log.Warn("registered callable is not a function", "func", fn.Name)
		return nil
	}
	params := surface.FuncParams(s.mod, fv.Type(), 0)

	var cases []record.TestCase
	recordCase := func(tuple []any, desc string, out runner.Outcome) {
		tc, ok := s.functionCase(fn.Name, tuple, desc, out)
		if ok {
			cases = append(cases, tc)
		}
	}

	if len(params) == 0 {
		recordCase(nil, "no arguments", s.call(fv, nil))
		return cases
	}

	used := &equiv.Tuples{}
	s.sweep(params, used, func(tuple []any, desc string) {
		recordCase(tuple, desc, s.call(fv, tuple))
	})
	return cases
}

// functionCase converts an outcome into a TestCase; timed-out
// candidates produce nothing.
func (s *Synthesizer) functionCase(name string, tuple []any, desc string, out runner.Outcome) (record.TestCase, bool) {
	switch out.Disposition {
	case runner.Returned:
		return record.TestCase{Inputs: tuple, Outputs: out.Values, Desc: desc}, true
	case runner.Raised:
		return record.TestCase{
			Inputs:  tuple,
			Desc:    fmt.Sprintf("%s (raises %s)", desc, out.ErrKind),
			ErrKind: out.ErrKind,
		}, true
	default:
		s.log.Warn("call timed out; candidate discarded", "func", name)
		return record.TestCase{}, false
	}
}

// sweep proposes candidates in the mandated order: for each
// parameter position, each of its boundary values with random
// typical values elsewhere; then the configured count of
// fully-random tuples. Candidates equivalent to an already-used
// tuple are dropped before invocation and never retried.
func (s *Synthesizer) sweep(params []surface.Param, used *equiv.Tuples, visit func(tuple []any, desc string)) {
	for idx, p := range params {
		for _, bv := range s.vals.Boundary(p.Desc) {
			tuple := make([]any, len(params))
			for j, q := range params {
				if j == idx {
					tuple[j] = bv
				} else {
					tuple[j] = s.vals.Random(q.Desc)
				}
			}
			if used.Seen(tuple) {
				continue
			}
			used.Add(tuple)
			visit(tuple, fmt.Sprintf("edge case %s=%v", p.Name, formatValue(bv)))
		}
	}

	for i := 0; i < s.randomCases; i++ {
		tuple := make([]any, len(params))
		for j, q := range params {
			tuple[j] = s.vals.Random(q.Desc)
		}
		if used.Seen(tuple) {
			continue
		}
		used.Add(tuple)
		visit(tuple, fmt.Sprintf("inputs %s", formatTuple(tuple)))
	}
}

// call coerces a tuple onto the function's parameter types and
// invokes it through the oracle runner. A value that cannot be
// coerced degrades to the zero argument, mirroring the nil fallback
// for unsupported types.
func (s *Synthesizer) call(fv reflect.Value, tuple []any) runner.Outcome {
	ft := fv.Type()
	n := ft.NumIn()
	args := make([]reflect.Value, n)
	for i := 0; i < n; i++ {
		if i >= len(tuple) {
			args[i] = reflect.Zero(ft.In(i))
			continue
		}
		av, err := values.Coerce(tuple[i], ft.In(i))
		if err != nil {
			s.log.Warn("argument coercion failed; using zero value", "err", err)
			av = reflect.Zero(ft.In(i))
		}
		args[i] = av
	}
	return s.run.Invoke(fv, args)
}

// formatValue renders one input value for a case description.
func formatValue(v any) string { return record.Format(v) }

// formatTuple renders an input tuple for a case description.
func formatTuple(tuple []any) string { return record.FormatTuple(tuple) }
