package main

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/vic/gosk/pkg/cache"
	"github.com/vic/gosk/pkg/config"
	"github.com/vic/gosk/pkg/lambda"
	"github.com/vic/gosk/pkg/reduce"
	"github.com/vic/gosk/pkg/termdoc"
)

// ErrUnexpected is returned for entries whose normal form does not match
// their expect field.
var ErrUnexpected = errors.New("unexpected normal form")

type reduceFlags struct {
	fuel         uint64
	hygienic     bool
	flattenSpine bool
	style        string
	trace        int
	jobs         int
	cachePath    string
	format       string
}

func newReduceCmd(a *app) *cobra.Command {
	f := &reduceFlags{}
	cmd := &cobra.Command{
		Use:   "reduce [FILE]",
		Short: "Reduce every term of a YAML or JSON term document",
		Long: `Reduce every term of a term document read from FILE or stdin.

Each normal form is printed as "name = term" on stdout; statistics go to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyReduceFlags(cmd.Flags(), f, a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			doc, err := readDocument(cmd.InOrStdin(), args, f.format)
			if err != nil {
				return err
			}
			return runBatch(cmd.Context(), a.cfg, doc, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	fl := cmd.Flags()
	fl.Uint64Var(&f.fuel, "fuel", 0, "maximum rewrite steps per term, 0 for unbounded")
	fl.BoolVar(&f.hygienic, "hygienic", false, "rename binders to avoid variable capture")
	fl.BoolVar(&f.flattenSpine, "flatten-spine", false, "splice reduced head applications into their parent")
	fl.StringVar(&f.style, "style", "", "application rendering style: flat or nested")
	fl.IntVar(&f.trace, "trace", 0, "print up to N trace events per term to stderr")
	fl.IntVarP(&f.jobs, "jobs", "j", 0, "number of terms reduced concurrently")
	fl.StringVar(&f.cachePath, "cache", "", "path of a normal-form cache database")
	fl.StringVar(&f.format, "format", string(termdoc.FormatYAML), "document format when reading stdin: yaml or json")
	return cmd
}

// applyReduceFlags overrides configuration values with explicitly set flags.
func applyReduceFlags(fl *pflag.FlagSet, f *reduceFlags, cfg *config.Config) {
	if fl.Changed("fuel") {
		cfg.Reducer.Fuel = f.fuel
	}
	if fl.Changed("hygienic") {
		cfg.Reducer.Hygienic = f.hygienic
	}
	if fl.Changed("flatten-spine") {
		cfg.Reducer.FlattenSpine = f.flattenSpine
	}
	if fl.Changed("style") {
		cfg.Reducer.Style = f.style
	}
	if fl.Changed("trace") {
		cfg.Reducer.Trace = f.trace
	}
	if fl.Changed("jobs") {
		cfg.Batch.Jobs = f.jobs
	}
	if fl.Changed("cache") {
		cfg.Cache.Path = f.cachePath
	}
}

func readDocument(stdin io.Reader, args []string, formatName string) (*termdoc.Document, error) {
	if len(args) > 0 {
		return termdoc.Load(args[0])
	}
	format, err := termdoc.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.Wrap(err, "reading stdin")
	}
	return termdoc.Parse(data, format)
}

// outcome is the result of reducing one document entry.
type outcome struct {
	entry   termdoc.Entry
	normal  lambda.Term
	stats   reduce.Stats
	trace   []reduce.TraceEvent
	cached  bool
	elapsed time.Duration
	err     error
}

func runBatch(ctx context.Context, cfg *config.Config, doc *termdoc.Document, stdout, stderr io.Writer) (retErr error) {
	if ctx == nil {
		ctx = context.Background()
	}
	renderer, err := cfg.Renderer()
	if err != nil {
		return err
	}
	registry := lambda.StandardRegistry()
	runLog := logrus.WithField("run", uuid.NewString())

	var store *cache.Cache
	if cfg.Cache.Path != "" {
		if store, err = cache.Open(cfg.Cache.Path); err != nil {
			return err
		}
		defer closeInto(&retErr, store)
	}

	outcomes := make([]outcome, len(doc.Terms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Batch.Jobs)
	start := time.Now()
	for i, entry := range doc.Terms {
		i, entry := i, entry
		g.Go(func() error {
			opts := cfg.ReducerOptions()
			opts.Logger = runLog.WithField("term", entry.Name)
			outcomes[i] = reduceEntry(gctx, entry, registry, opts, cfg.Reducer.Trace, store)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	var errs *multierror.Error
	for _, o := range outcomes {
		if o.err != nil {
			errs = multierror.Append(errs, errors.Wrapf(o.err, "%s", o.entry.Name))
			continue
		}
		rendered := renderer.Render(o.normal)
		fprintf(stdout, "%s = %s\n", o.entry.Name, rendered)
		if o.entry.Expect != "" && o.entry.Expect != rendered {
			errs = multierror.Append(errs, errors.Wrapf(ErrUnexpected, "%s: want %s, got %s", o.entry.Name, o.entry.Expect, rendered))
		}
		if len(o.trace) > 0 {
			writeTrace(stderr, o.entry.Name, o.trace, renderer)
		}
	}
	writeStats(stderr, outcomes, elapsed)
	return errs.ErrorOrNil()
}

// closeInto closes c and adds its error to *errp.
func closeInto(errp *error, c io.Closer) {
	if err := c.Close(); err != nil {
		*errp = multierror.Append(*errp, err).ErrorOrNil()
	}
}

func reduceEntry(ctx context.Context, entry termdoc.Entry, registry *lambda.Registry, opts reduce.Options, traceCap int, store *cache.Cache) outcome {
	o := outcome{entry: entry}
	term, err := entry.Decode(registry)
	if err != nil {
		o.err = err
		return o
	}

	var key []byte
	if store != nil {
		if key, err = cache.Key(opts.Fingerprint(), entry.Term); err != nil {
			o.err = err
			return o
		}
		node, found, err := store.Get(key)
		if err != nil {
			o.err = err
			return o
		}
		if found {
			if o.normal, o.err = termdoc.Decode(node, registry); o.err == nil {
				o.cached = true
				opts.Logger.Debug("normal form served from cache")
			}
			return o
		}
	}

	r := reduce.NewReducer(opts)
	if traceCap > 0 {
		r.EnableTrace(traceCap)
	}
	start := time.Now()
	o.normal, o.err = r.ReduceContext(ctx, term)
	o.elapsed = time.Since(start)
	o.stats = r.GetStats()
	o.trace = r.TraceSnapshot()
	if o.err != nil {
		return o
	}
	if store != nil {
		if err := store.Put(key, termdoc.Encode(o.normal)); err != nil {
			opts.Logger.WithError(err).Warn("failed to cache normal form")
		}
	}
	return o
}
