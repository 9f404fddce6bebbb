// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgate

import "github.com/tidalforge/flowgate/internal/core"

// WriterOption configures a writer/sink pair at construction time. Every
// option here applies once, at [NewWriter], because this package's only
// configuration surface is a capacity hint fixed for the storage's
// lifetime.
type WriterOption func(*options)

type options struct {
	suspendedCapacityHint int
}

// WithInitialBufferCapacity preallocates room for n suspended producers
// before the state machine needs to grow its backing array. It has no
// effect once the writer has already accepted its first Yield call.
func WithInitialBufferCapacity(n int) WriterOption {
	return func(o *options) {
		o.suspendedCapacityHint = n
	}
}

// NewWriter creates a writer/sink pair backed by shared storage in the
// Initial state with the given initial writability. delegate must be
// non-nil; every element accepted by the writer, and the eventual
// termination signal, is delivered to it.
func NewWriter[T any](initialWritable bool, delegate Delegate[T], opts ...WriterOption) (*Writer[T], *Sink[T]) {
	if delegate == nil {
		panic("flowgate: delegate must be non-nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	storage := core.NewStorage[T](initialWritable, o.suspendedCapacityHint)

	w := &Writer[T]{storage: storage, delegate: delegate}
	s := &Sink[T]{storage: storage, delegate: delegate}
	return w, s
}
