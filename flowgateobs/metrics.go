// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgateobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
)

// metricsDelegate adds count, duration, and error metrics around a
// [ContextualDelegate]'s calls.
type metricsDelegate[T any] struct {
	name  string
	inner ContextualDelegate[T]
}

func newMetricsDelegate[T any](name string, inner ContextualDelegate[T]) *metricsDelegate[T] {
	return &metricsDelegate[T]{name: name, inner: inner}
}

func (d *metricsDelegate[T]) DidYield(ctx context.Context, element T) {
	meter := otel.GetMeterProvider().Meter("flowgateobs")
	elementCounter, _ := meter.Int64Counter(d.name + ".elements")
	elementDuration, _ := meter.Float64Histogram(d.name + ".duration")

	elementCounter.Add(ctx, 1)

	startTime := time.Now()
	d.inner.DidYield(ctx, element)
	elementDuration.Record(ctx, time.Since(startTime).Seconds())
}

func (d *metricsDelegate[T]) DidTerminate(err error) {
	meter := otel.GetMeterProvider().Meter("flowgateobs")
	if err != nil {
		errorCounter, _ := meter.Int64Counter(d.name + ".errors")
		errorCounter.Add(context.Background(), 1)
	}
	d.inner.DidTerminate(err)
}
