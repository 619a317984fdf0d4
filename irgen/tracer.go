package irgen

import (
	"context"
	"strconv"
	"time"
)

// Phase enumerates the compilation phases irgen can emit a trace span for,
// adapted from the teacher's TraceEvent constants (graph/tracing.go).
type Phase string

const (
	PhaseContextLoad     Phase = "context_load"
	PhaseValidate        Phase = "validate"
	PhaseFunctionCompile Phase = "function_compile"
)

// Span is one timed unit of compilation work, the irgen analogue of the
// teacher's TraceSpan: instead of a node name it carries the module/function
// name being worked on, since irgen has no notion of a running node.
type Span struct {
	ID       string
	ParentID string
	Phase    Phase
	Target   string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Err error
}

// Hook receives span events as they start and end.
type Hook interface {
	OnSpan(ctx context.Context, span *Span)
}

// HookFunc adapts a plain function to Hook.
type HookFunc func(ctx context.Context, span *Span)

// OnSpan implements Hook.
func (f HookFunc) OnSpan(ctx context.Context, span *Span) { f(ctx, span) }

// Tracer collects spans for context-load, validate, and per-function
// compile phases (the supplemented diagnostic tracing feature), grounded
// on the teacher's graph/tracing.go Tracer/TraceSpan/TraceHook trio.
type Tracer struct {
	hooks []Hook
	spans map[string]*Span
	seq   int
}

// NewTracer returns an empty Tracer.
func NewTracer() *Tracer {
	return &Tracer{spans: make(map[string]*Span)}
}

// AddHook registers hook to be notified of every span start/end.
func (t *Tracer) AddHook(hook Hook) {
	t.hooks = append(t.hooks, hook)
}

// StartSpan begins a new span for phase, working on target (a module full
// name or "<module>:<function>" pair), optionally nested under parent.
func (t *Tracer) StartSpan(ctx context.Context, phase Phase, target string, parent *Span) *Span {
	t.seq++
	span := &Span{
		ID:        spanID(t.seq),
		Phase:     phase,
		Target:    target,
		StartTime: time.Now(),
	}
	if parent != nil {
		span.ParentID = parent.ID
	}
	t.spans[span.ID] = span
	for _, h := range t.hooks {
		h.OnSpan(ctx, span)
	}
	return span
}

// EndSpan closes span, recording its duration and any error.
func (t *Tracer) EndSpan(ctx context.Context, span *Span, err error) {
	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.Err = err
	for _, h := range t.hooks {
		h.OnSpan(ctx, span)
	}
}

// Spans returns every span collected so far, keyed by ID.
func (t *Tracer) Spans() map[string]*Span { return t.spans }

func spanID(n int) string {
	return time.Now().Format("20060102150405.000000") + "-" + strconv.Itoa(n)
}
