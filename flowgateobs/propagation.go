// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgateobs

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// PropagatedElement wraps a value yielded through a flowgate writer with
// the trace context active at the point it was captured. Without this, a
// delegate callout has no way to know which producer call (and therefore
// which span) an element it receives originated from, since
// [flowgate.Delegate] methods are never passed a context of their own.
type PropagatedElement[T any] struct {
	Value        T
	TraceContext trace.SpanContext
}

// Capture wraps value with the trace context active in ctx, for a producer
// to pass to Yield on a writer whose delegate chain ends in an
// [Instrument]-built one. A producer calling outside any span still
// produces a valid PropagatedElement; its TraceContext is simply invalid,
// and downstream spans start unparented rather than failing.
func Capture[T any](ctx context.Context, value T) PropagatedElement[T] {
	return PropagatedElement[T]{
		Value:        value,
		TraceContext: trace.SpanFromContext(ctx).SpanContext(),
	}
}

// restore reconstructs a context carrying pe's trace context, suitable for
// starting a child span parented on the producer's call.
func restore[T any](pe PropagatedElement[T]) context.Context {
	ctx := context.Background()
	if pe.TraceContext.IsValid() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, pe.TraceContext)
	}
	return ctx
}
