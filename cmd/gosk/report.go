package main

import (
	"fmt"
	"io"
	"time"

	"github.com/vic/gosk/pkg/lambda"
	"github.com/vic/gosk/pkg/reduce"
)

func fprintf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func writeTrace(w io.Writer, name string, events []reduce.TraceEvent, renderer lambda.Renderer) {
	fprintf(w, "\nTrace %s:\n", name)
	for _, ev := range events {
		fprintf(w, "  %4d %-5s depth=%-3d %s\n", ev.Step, ev.Rule, ev.Depth, renderer.Render(ev.Term))
	}
}

func writeStats(w io.Writer, outcomes []outcome, elapsed time.Duration) {
	var total reduce.Stats
	var cached, failed int
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			failed++
		case o.cached:
			cached++
		}
		total.TotalSteps += o.stats.TotalSteps
		total.BetaReductions += o.stats.BetaReductions
		total.AtomFirings += o.stats.AtomFirings
		total.StuckApplications += o.stats.StuckApplications
		total.HeadRewrites += o.stats.HeadRewrites
		total.ArgRewrites += o.stats.ArgRewrites
		if o.stats.MaxDepth > total.MaxDepth {
			total.MaxDepth = o.stats.MaxDepth
		}
	}
	seconds := elapsed.Seconds()

	fprintf(w, "\nStats:\n")
	fprintf(w, "Terms: %d (%d cached, %d failed)\n", len(outcomes), cached, failed)
	fprintf(w, "Time: %v\n", elapsed)
	fprintf(w, "Total Steps: %d", total.TotalSteps)
	if seconds > 0 {
		fprintf(w, " (%.2f ops/sec)", float64(total.TotalSteps)/seconds)
	}
	fprintf(w, "\n")

	fprintf(w, "\nBreakdown:\n")
	fprintf(w, "  Beta Reduction:     %6d\n", total.BetaReductions)
	fprintf(w, "  Atom Firing:        %6d\n", total.AtomFirings)
	if total.StuckApplications > 0 {
		fprintf(w, "  Stuck Application:  %6d\n", total.StuckApplications)
	}
	if total.HeadRewrites > 0 {
		fprintf(w, "  Head Rewrite:       %6d\n", total.HeadRewrites)
	}
	if total.ArgRewrites > 0 {
		fprintf(w, "  Argument Rewrite:   %6d\n", total.ArgRewrites)
	}
	fprintf(w, "  Max Depth:          %6d\n", total.MaxDepth)
}
