package reduce

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vic/gosk/pkg/lambda"
)

var (
	app = lambda.NewApp
	abs = lambda.NewAbs
	v   = lambda.NewVar
)

func mustReduce(t *testing.T, r *Reducer, term lambda.Term) lambda.Term {
	t.Helper()
	res, err := r.Reduce(term)
	require.NoError(t, err, "reducing %s", term)
	return res
}

// omega = (Lx.(x x)) (Lx.(x x)) has no normal form.
func omega() lambda.Term {
	w := abs("x", app(v("x"), v("x")))
	return app(w, w)
}

// TestSKKIsIdentity reduces S K K x, whose S step produces (K x (K x)).
func TestSKKIsIdentity(t *testing.T) {
	res, err := Reduce(app(lambda.S, lambda.K, lambda.K, v("x")))
	require.NoError(t, err)
	assert.Equal(t, "x", lambda.Render(res))
}

// TestKUnderBinder substitutes the stuck (K z) for x under the y binder.
// The head (K z) stays a separate application, so K never sees y.
func TestKUnderBinder(t *testing.T) {
	term := app(
		abs("x", abs("y", app(v("x"), v("y"), v("z")))),
		app(lambda.K, v("z")),
	)
	res := mustReduce(t, NewReducer(Options{}), term)
	assert.Equal(t, "(Ly.((K z) y z))", lambda.Render(res))

	flat := mustReduce(t, NewReducer(Options{FlattenSpine: true}), term)
	assert.Equal(t, "(Ly.(z z))", lambda.Render(flat))
}

func TestNormalFormsAreUnchanged(t *testing.T) {
	terms := []lambda.Term{
		v("x"),
		lambda.K,
		app(),
		abs("x", v("x")),
		app(v("f"), v("a"), abs("y", v("y"))),
		app(lambda.S, lambda.K),
	}
	for _, term := range terms {
		res := mustReduce(t, NewReducer(Options{}), term)
		assert.True(t, lambda.Equal(term, res), "%s reduced to %s", term, res)
	}
}

func TestReduceIsIdempotent(t *testing.T) {
	terms := []lambda.Term{
		app(lambda.S, lambda.K, lambda.K, v("x")),
		app(abs("x", abs("y", app(v("x"), v("y"), v("z")))), app(lambda.K, v("z"))),
		app(app(abs("x", v("x")), v("f")), app(lambda.I, v("a"))),
		abs("q", app(lambda.S, app(lambda.K, v("q")), lambda.I, v("r"))),
		app(lambda.B, v("f"), v("g")),
		app(lambda.C, lambda.K, v("a"), v("b"), v("c")),
		app(abs("f", abs("x", app(v("f"), app(v("f"), v("x"))))), lambda.I),
	}
	for _, opts := range []Options{{}, {Hygienic: true}, {FlattenSpine: true}} {
		r := NewReducer(opts)
		for _, term := range terms {
			once := mustReduce(t, r, term)
			twice := mustReduce(t, r, once)
			assert.Equal(t, lambda.Render(once), lambda.Render(twice), "options %+v, term %s", opts, term)
		}
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	term := app(abs("x", app(v("x"), v("x"))), app(lambda.I, v("a")))
	before := lambda.Render(term)
	mustReduce(t, NewReducer(Options{}), term)
	assert.Equal(t, before, lambda.Render(term))
}

func TestBetaSubstitutesUnreducedArgument(t *testing.T) {
	r := NewReducer(Options{})
	r.EnableTrace(16)
	res := mustReduce(t, r, app(abs("x", v("y")), omega()))
	assert.Equal(t, "y", lambda.Render(res))

	events := r.TraceSnapshot()
	require.NotEmpty(t, events)
	assert.Equal(t, RuleBeta, events[0].Rule)
}

func TestStuckAtomReducesArguments(t *testing.T) {
	res := mustReduce(t, NewReducer(Options{}), app(lambda.S, app(lambda.I, v("a")), app(lambda.K, v("b"))))
	assert.Equal(t, "(S a (K b))", lambda.Render(res))
}

func TestAtomWithoutImplementationFails(t *testing.T) {
	res, err := NewReducer(Options{}).Reduce(app(&lambda.Atom{}, v("a")))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, lambda.ErrInvalidAtom)
}

func TestSurplusArgumentsApplyToResult(t *testing.T) {
	r := NewReducer(Options{})
	res := mustReduce(t, r, app(lambda.K, v("f"), v("b"), v("c"), v("d")))
	assert.Equal(t, "(f c d)", lambda.Render(res))

	res = mustReduce(t, r, app(lambda.I, lambda.K, v("a"), v("b")))
	assert.Equal(t, "a", lambda.Render(res))
}

func TestAtomResultIsReduced(t *testing.T) {
	// I returns (K a b), which must fire as well.
	res := mustReduce(t, NewReducer(Options{}), app(lambda.I, app(lambda.K, v("a"), v("b"))))
	assert.Equal(t, "a", lambda.Render(res))
}

func TestHeadProgressRebuildsApplication(t *testing.T) {
	r := NewReducer(Options{})
	res := mustReduce(t, r, app(app(abs("x", v("x")), v("f")), app(lambda.I, v("a"))))
	assert.Equal(t, "(f a)", lambda.Render(res))

	stats := r.GetStats()
	assert.EqualValues(t, 1, stats.HeadRewrites)
	assert.EqualValues(t, 1, stats.ArgRewrites)
}

func TestReductionUnderBinders(t *testing.T) {
	res := mustReduce(t, NewReducer(Options{}), abs("x", abs("y", app(lambda.K, v("x"), v("y")))))
	assert.Equal(t, "(Lx.(Ly.x))", lambda.Render(res))
}

func TestCaptureIsOptIn(t *testing.T) {
	// (Lx.(Ly.(x y))) y
	term := app(abs("x", abs("y", app(v("x"), v("y")))), v("y"))

	plain := mustReduce(t, NewReducer(Options{}), term)
	assert.Equal(t, "(Ly.(y y))", lambda.Render(plain))

	hygienic := mustReduce(t, NewReducer(Options{Hygienic: true}), term)
	assert.Equal(t, "(Ly1.(y y1))", lambda.Render(hygienic))
}

func TestFuelStopsDivergence(t *testing.T) {
	r := NewReducer(Options{Fuel: 50})
	res, err := r.Reduce(omega())
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFuelExhausted))
	assert.EqualValues(t, 50, r.GetStats().BetaReductions)
}

func TestFuelIsPerCall(t *testing.T) {
	r := NewReducer(Options{Fuel: 3})
	for i := 0; i < 3; i++ {
		res := mustReduce(t, r, app(lambda.S, lambda.K, lambda.K, v("x")))
		assert.Equal(t, "x", lambda.Render(res))
	}
	assert.EqualValues(t, 6, r.GetStats().TotalSteps)
}

func TestReduceContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewReducer(Options{}).ReduceContext(ctx, omega())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatsAndTrace(t *testing.T) {
	r := NewReducer(Options{})
	r.EnableTrace(100)
	mustReduce(t, r, app(lambda.S, lambda.K, lambda.K, v("x")))

	stats := r.GetStats()
	assert.EqualValues(t, 2, stats.AtomFirings)
	assert.EqualValues(t, 0, stats.BetaReductions)
	assert.EqualValues(t, 2, stats.TotalSteps)
	assert.NotZero(t, stats.StuckApplications)
	assert.NotZero(t, stats.MaxDepth)

	var fired []string
	for _, ev := range r.TraceSnapshot() {
		if ev.Rule == RuleAtom {
			fired = append(fired, lambda.Render(ev.Term))
		}
	}
	assert.Equal(t, []string{"(S K K x)", "(K x (K x))"}, fired)

	r.ResetStats()
	assert.Equal(t, Stats{}, r.GetStats())

	r.DisableTrace()
	assert.Nil(t, r.TraceSnapshot())
}

func TestTraceIsBounded(t *testing.T) {
	r := NewReducer(Options{Fuel: 20})
	r.EnableTrace(5)
	_, err := r.Reduce(omega())
	require.Error(t, err)
	events := r.TraceSnapshot()
	require.Len(t, events, 5)
	for i, ev := range events {
		assert.EqualValues(t, i, ev.Step)
	}
}

// Atom implementations may have effects; arguments are reduced left to
// right before the atom fires.
func TestArgumentOrderIsLeftToRight(t *testing.T) {
	var order []string
	tick := func(name string) *lambda.Atom {
		return lambda.MustAtom(name, 1, func(args []lambda.Term) lambda.Term {
			order = append(order, name)
			return args[0]
		})
	}
	pair := lambda.MustAtom("pair", 3, func(args []lambda.Term) lambda.Term {
		order = append(order, "pair")
		return app(args[2], args[0], args[1])
	})

	term := app(pair, app(tick("first"), v("a")), app(tick("second"), v("b")), app(tick("third"), v("f")))
	res := mustReduce(t, NewReducer(Options{}), term)
	assert.Equal(t, "(f a b)", lambda.Render(res))
	assert.Equal(t, []string{"first", "second", "third", "pair"}, order)
}

func TestDebugLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	r := NewReducer(Options{Logger: logrus.NewEntry(logger)})
	mustReduce(t, r, app(abs("x", v("x")), v("a")))

	require.NotEmpty(t, hook.AllEntries())
	entry := hook.LastEntry()
	assert.Equal(t, "reduce", entry.Data["component"])
	assert.Equal(t, "beta", entry.Data["rule"])
	assert.Equal(t, "rewrite ((Lx.x) a)", entry.Message)
}

func TestFingerprintIgnoresFuel(t *testing.T) {
	assert.Equal(t, Options{}.Fingerprint(), Options{Fuel: 10}.Fingerprint())
	assert.NotEqual(t, Options{}.Fingerprint(), Options{Hygienic: true}.Fingerprint())
	assert.NotEqual(t, Options{}.Fingerprint(), Options{FlattenSpine: true}.Fingerprint())
}
