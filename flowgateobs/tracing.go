// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgateobs

import (
	"context"

	"go.opentelemetry.io/otel"
)

// tracingDelegate starts a span parented on each element's own propagated
// trace context, so that a producer's span and the eventual delivery that
// resulted from it show up as parent and child even though they run on
// different goroutines and the delivery may have been suspended for an
// arbitrary amount of time in between.
type tracingDelegate[T any] struct {
	name  string
	inner ContextualDelegate[T]
}

func newTracingDelegate[T any](name string, inner ContextualDelegate[T]) *tracingDelegate[T] {
	return &tracingDelegate[T]{name: name, inner: inner}
}

func (d *tracingDelegate[T]) DidYield(ctx context.Context, element T) {
	tracer := otel.Tracer("flowgateobs")
	ctx, span := tracer.Start(ctx, d.name)
	defer span.End()
	d.inner.DidYield(ctx, element)
}

func (d *tracingDelegate[T]) DidTerminate(err error) {
	tracer := otel.Tracer("flowgateobs")
	_, span := tracer.Start(context.Background(), d.name+".terminate")
	defer span.End()
	if err != nil {
		span.RecordError(err)
	}
	d.inner.DidTerminate(err)
}
