package irgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracerStartEndSpanNotifiesHooks(t *testing.T) {
	tracer := NewTracer()

	var starts, ends int
	tracer.AddHook(HookFunc(func(_ context.Context, span *Span) {
		if span.EndTime.IsZero() {
			starts++
		} else {
			ends++
		}
	}))

	span := tracer.StartSpan(context.Background(), PhaseFunctionCompile, "m:f", nil)
	require.NotEmpty(t, span.ID)
	assert.Equal(t, PhaseFunctionCompile, span.Phase)
	assert.Equal(t, "m:f", span.Target)

	tracer.EndSpan(context.Background(), span, nil)

	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
	assert.False(t, span.EndTime.Before(span.StartTime))
	assert.NoError(t, span.Err)

	require.Contains(t, tracer.Spans(), span.ID)
}

func TestTracerEndSpanRecordsError(t *testing.T) {
	tracer := NewTracer()
	span := tracer.StartSpan(context.Background(), PhaseValidate, "m:f", nil)

	failure := errors.New("boom")
	tracer.EndSpan(context.Background(), span, failure)

	assert.Equal(t, failure, span.Err)
}

func TestTracerStartSpanLinksParent(t *testing.T) {
	tracer := NewTracer()
	parent := tracer.StartSpan(context.Background(), PhaseContextLoad, "m", nil)
	child := tracer.StartSpan(context.Background(), PhaseFunctionCompile, "m:f", parent)

	assert.Equal(t, parent.ID, child.ParentID)
	assert.NotEqual(t, parent.ID, child.ID)
}
