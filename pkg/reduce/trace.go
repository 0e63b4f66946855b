package reduce

import (
	"sync/atomic"

	"github.com/vic/gosk/pkg/lambda"
)

type RuleKind int

const (
	RuleUnknown RuleKind = iota
	RuleBeta
	RuleAtom
	RuleStuck
	RuleHead
	RuleArg
)

func (k RuleKind) String() string {
	switch k {
	case RuleBeta:
		return "beta"
	case RuleAtom:
		return "atom"
	case RuleStuck:
		return "stuck"
	case RuleHead:
		return "head"
	case RuleArg:
		return "arg"
	default:
		return "unknown"
	}
}

// TraceEvent records the term a rule was applied to.
type TraceEvent struct {
	Step  uint64
	Rule  RuleKind
	Depth int
	Term  lambda.Term
}

func (r *Reducer) EnableTrace(capacity int) {
	if capacity <= 0 {
		capacity = 1
	}
	r.traceBuf = make([]TraceEvent, capacity)
	r.traceCap = uint64(capacity)
	atomic.StoreUint64(&r.traceIdx, 0)
	atomic.StoreUint32(&r.traceOn, 1)
}

func (r *Reducer) DisableTrace() {
	atomic.StoreUint32(&r.traceOn, 0)
}

// TraceSnapshot returns the first events recorded since EnableTrace, up
// to its capacity. It must not race with a running reduction.
func (r *Reducer) TraceSnapshot() []TraceEvent {
	if atomic.LoadUint32(&r.traceOn) == 0 {
		return nil
	}
	count := atomic.LoadUint64(&r.traceIdx)
	if count > r.traceCap {
		count = r.traceCap
	}
	res := make([]TraceEvent, count)
	copy(res, r.traceBuf[:count])
	return res
}

func (r *Reducer) recordTrace(rule RuleKind, t lambda.Term, depth int) {
	if atomic.LoadUint32(&r.traceOn) == 0 || r.traceCap == 0 {
		return
	}
	idx := atomic.AddUint64(&r.traceIdx, 1) - 1
	if idx >= r.traceCap {
		return
	}
	r.traceBuf[idx] = TraceEvent{
		Step:  idx,
		Rule:  rule,
		Depth: depth,
		Term:  t,
	}
}
