package reduce

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vic/gosk/pkg/lambda"
)

// ErrFuelExhausted is returned when Options.Fuel rewrite steps were used
// without reaching a normal form.
var ErrFuelExhausted = errors.New("reduction fuel exhausted")

// Options configures a Reducer. The zero value reduces without a step
// limit, with plain (capturing) substitution and without spine flattening.
type Options struct {
	// Fuel bounds the number of beta steps and atom firings of a single
	// Reduce call. Zero means unbounded.
	Fuel uint64
	// Hygienic renames binders during beta steps to avoid capture.
	Hygienic bool
	// FlattenSpine splices a reduced head application into its parent,
	// so ((K z) y) is dispatched as (K z y).
	FlattenSpine bool
	// Logger receives debug entries for each rewrite.
	Logger *logrus.Entry
}

// Fingerprint identifies the options that change which normal form is
// produced. Fuel and Logger only decide whether one is produced.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("hygienic=%t;flatten-spine=%t", o.Hygienic, o.FlattenSpine)
}

// Reducer rewrites terms to normal form using a head-first,
// leftmost-outermost strategy. A Reducer runs one reduction at a time.
// GetStats may be called while it runs; the trace is only safe to read
// once the reduction has returned.
type Reducer struct {
	opts Options
	log  *logrus.Entry

	// Stats
	ops uint64 // beta steps + atom firings

	statBeta     uint64
	statAtom     uint64
	statStuck    uint64
	statHead     uint64
	statArg      uint64
	statMaxDepth uint64

	traceBuf []TraceEvent
	traceCap uint64
	traceIdx uint64
	traceOn  uint32
}

// Stats holds reduction statistics.
type Stats struct {
	TotalSteps        uint64
	BetaReductions    uint64
	AtomFirings       uint64
	StuckApplications uint64 // counted on every visit
	HeadRewrites      uint64
	ArgRewrites       uint64
	MaxDepth          uint64
}

func NewReducer(opts Options) *Reducer {
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Reducer{
		opts: opts,
		log:  log.WithField("component", "reduce"),
	}
}

// Options returns the options the reducer was built with.
func (r *Reducer) Options() Options {
	return r.opts
}

func (r *Reducer) GetStats() Stats {
	return Stats{
		TotalSteps:        atomic.LoadUint64(&r.ops),
		BetaReductions:    atomic.LoadUint64(&r.statBeta),
		AtomFirings:       atomic.LoadUint64(&r.statAtom),
		StuckApplications: atomic.LoadUint64(&r.statStuck),
		HeadRewrites:      atomic.LoadUint64(&r.statHead),
		ArgRewrites:       atomic.LoadUint64(&r.statArg),
		MaxDepth:          atomic.LoadUint64(&r.statMaxDepth),
	}
}

// ResetStats zeroes all counters.
func (r *Reducer) ResetStats() {
	for _, c := range []*uint64{&r.ops, &r.statBeta, &r.statAtom, &r.statStuck, &r.statHead, &r.statArg, &r.statMaxDepth} {
		atomic.StoreUint64(c, 0)
	}
}

// Reduce rewrites t to normal form. When Options.Fuel is set it fails
// with ErrFuelExhausted instead of diverging; an unbounded Reduce of a
// term without a normal form does not return.
func (r *Reducer) Reduce(t lambda.Term) (lambda.Term, error) {
	return r.ReduceContext(context.Background(), t)
}

// ReduceContext is Reduce that stops with ctx.Err() once ctx is done.
// The context is checked before every rewrite step.
func (r *Reducer) ReduceContext(ctx context.Context, t lambda.Term) (lambda.Term, error) {
	s := &session{Reducer: r, ctx: ctx}
	res, err := s.reduce(t, 0)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Reduce reduces t with a default Reducer.
func Reduce(t lambda.Term) (lambda.Term, error) {
	return NewReducer(Options{}).Reduce(t)
}

// session carries the per-call state of one ReduceContext.
type session struct {
	*Reducer
	ctx  context.Context
	used uint64
}

func (s *session) reduce(t lambda.Term, depth int) (lambda.Term, error) {
	s.observeDepth(depth)
	switch v := t.(type) {
	case lambda.Abs:
		body, err := s.reduce(v.Body, depth+1)
		if err != nil {
			return nil, err
		}
		return lambda.Abs{Arg: v.Arg, Body: body}, nil
	case lambda.App:
		return s.reduceApp(v, depth)
	default:
		// Var and *Atom are already normal.
		return t, nil
	}
}

func (s *session) reduceApp(app lambda.App, depth int) (lambda.Term, error) {
	if len(app.Elems) == 0 {
		return app, nil
	}
	head, args := app.Elems[0], app.Elems[1:]

	h, err := s.reduce(head, depth+1)
	if err != nil {
		return nil, err
	}

	if s.opts.FlattenSpine && len(args) > 0 {
		if inner, ok := h.(lambda.App); ok && len(inner.Elems) > 0 {
			return s.reduce(join(inner.Elems, args...), depth+1)
		}
	}

	switch fn := h.(type) {
	case lambda.Abs:
		if len(args) == 0 {
			break
		}
		if err := s.step(RuleBeta, app, depth); err != nil {
			return nil, err
		}
		body := s.substitute(args[0], fn.Arg, fn.Body)
		if len(args) == 1 {
			return s.reduce(body, depth+1)
		}
		return s.reduce(join([]lambda.Term{body}, args[1:]...), depth+1)

	case *lambda.Atom:
		if len(args) < fn.Arity() {
			// Too few arguments: stuck, not an error.
			elems := make([]lambda.Term, 0, len(app.Elems))
			elems = append(elems, fn)
			for _, a := range args {
				ra, err := s.reduce(a, depth+1)
				if err != nil {
					return nil, err
				}
				elems = append(elems, ra)
			}
			stuck := lambda.App{Elems: elems}
			atomic.AddUint64(&s.statStuck, 1)
			s.recordTrace(RuleStuck, stuck, depth)
			return stuck, nil
		}
		operands := make([]lambda.Term, fn.Arity())
		for i := range operands {
			if operands[i], err = s.reduce(args[i], depth+1); err != nil {
				return nil, err
			}
		}
		if err := s.step(RuleAtom, app, depth); err != nil {
			return nil, err
		}
		res, err := fn.Apply(operands)
		if err != nil {
			return nil, err
		}
		if extra := args[fn.Arity():]; len(extra) > 0 {
			// Surplus arguments are applied to the result.
			return s.reduce(join([]lambda.Term{res}, extra...), depth+1)
		}
		return s.reduce(res, depth+1)
	}

	if !lambda.Equal(h, head) {
		atomic.AddUint64(&s.statHead, 1)
		s.recordTrace(RuleHead, app, depth)
		return s.reduce(join([]lambda.Term{h}, args...), depth+1)
	}

	for i, a := range args {
		ra, err := s.reduce(a, depth+1)
		if err != nil {
			return nil, err
		}
		if lambda.Equal(ra, a) {
			continue
		}
		atomic.AddUint64(&s.statArg, 1)
		s.recordTrace(RuleArg, app, depth)
		elems := append([]lambda.Term(nil), app.Elems...)
		elems[i+1] = ra
		return s.reduce(lambda.App{Elems: elems}, depth+1)
	}
	return app, nil
}

func (s *session) substitute(arg lambda.Term, name string, body lambda.Term) lambda.Term {
	if s.opts.Hygienic {
		return lambda.SubstituteHygienic(arg, name, body)
	}
	return lambda.Substitute(arg, name, body)
}

// step accounts for one rewrite: it enforces cancellation and fuel, then
// updates stats, trace and log.
func (s *session) step(rule RuleKind, t lambda.Term, depth int) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	if s.opts.Fuel > 0 && s.used >= s.opts.Fuel {
		return errors.Wrapf(ErrFuelExhausted, "after %d steps", s.used)
	}
	s.used++
	atomic.AddUint64(&s.ops, 1)
	switch rule {
	case RuleBeta:
		atomic.AddUint64(&s.statBeta, 1)
	case RuleAtom:
		atomic.AddUint64(&s.statAtom, 1)
	}
	s.recordTrace(rule, t, depth)
	if s.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		s.log.WithFields(logrus.Fields{
			"rule":  rule.String(),
			"step":  s.used,
			"depth": depth,
		}).Debugf("rewrite %s", lambda.Render(t))
	}
	return nil
}

func (r *Reducer) observeDepth(depth int) {
	d := uint64(depth)
	for {
		cur := atomic.LoadUint64(&r.statMaxDepth)
		if d <= cur || atomic.CompareAndSwapUint64(&r.statMaxDepth, cur, d) {
			return
		}
	}
}

func join(prefix []lambda.Term, rest ...lambda.Term) lambda.App {
	elems := make([]lambda.Term, 0, len(prefix)+len(rest))
	elems = append(elems, prefix...)
	elems = append(elems, rest...)
	return lambda.App{Elems: elems}
}
