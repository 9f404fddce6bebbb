// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgateobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// loggingDelegate adds structured logging around a [ContextualDelegate]'s
// calls, logging the completion of each delivered element and the final
// termination, including timing information and any error.
type loggingDelegate[T any] struct {
	name  string
	inner ContextualDelegate[T]
}

func newLoggingDelegate[T any](name string, inner ContextualDelegate[T]) *loggingDelegate[T] {
	return &loggingDelegate[T]{name: name, inner: inner}
}

func (d *loggingDelegate[T]) DidYield(ctx context.Context, element T) {
	logger := zap.L()
	logger.Debug("delivering element",
		zap.String("delegate", d.name),
		zap.String("component", "flowgateobs"))

	startTime := time.Now()
	d.inner.DidYield(ctx, element)
	duration := time.Since(startTime)

	logger.Debug("element delivered",
		zap.String("delegate", d.name),
		zap.String("component", "flowgateobs"),
		zap.Duration("duration", duration))
}

func (d *loggingDelegate[T]) DidTerminate(err error) {
	logger := zap.L()
	if err != nil {
		logger.Error("writer/sink pair terminated",
			zap.String("delegate", d.name),
			zap.String("component", "flowgateobs"),
			zap.Error(err))
	} else {
		logger.Debug("writer/sink pair terminated cleanly",
			zap.String("delegate", d.name),
			zap.String("component", "flowgateobs"))
	}
	d.inner.DidTerminate(err)
}
