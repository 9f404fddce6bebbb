// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgateobs

import (
	"context"

	"github.com/tidalforge/flowgate"
)

// ContextualDelegate is the per-element counterpart of [flowgate.Delegate]
// used internally by this package's wrappers. Each element carries its own
// reconstructed context, since a single DidYield batch may contain elements
// captured from several different producer spans.
type ContextualDelegate[T any] interface {
	DidYield(ctx context.Context, element T)
	DidTerminate(err error)
}

// Instrument layers logging, metrics, and tracing around sink, in that
// order from the inside out, and returns a [flowgate.Delegate] ready to
// pass to [flowgate.NewWriter] for a writer whose producers call
// [Capture] before every Yield.
//
// Apply wrappers inside-out:
//  1. First add logging
//  2. Then add metrics
//  3. Finally add tracing, so every metric and log line falls inside the
//     span it describes
func Instrument[T any](name string, sink ContextualDelegate[T]) flowgate.Delegate[PropagatedElement[T]] {
	logged := newLoggingDelegate(name, sink)
	metered := newMetricsDelegate(name, logged)
	traced := newTracingDelegate(name, metered)
	return &propagatingDelegate[T]{inner: traced}
}

// propagatingDelegate adapts a [ContextualDelegate] into a
// [flowgate.Delegate] over [PropagatedElement], reconstructing each
// element's trace context before forwarding it.
type propagatingDelegate[T any] struct {
	inner ContextualDelegate[T]
}

func (d *propagatingDelegate[T]) DidYield(seq []PropagatedElement[T]) {
	for _, pe := range seq {
		d.inner.DidYield(restore(pe), pe.Value)
	}
}

func (d *propagatingDelegate[T]) DidYieldOne(pe PropagatedElement[T]) {
	d.inner.DidYield(restore(pe), pe.Value)
}

func (d *propagatingDelegate[T]) DidTerminate(err error) {
	d.inner.DidTerminate(err)
}
