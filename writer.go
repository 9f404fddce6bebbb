// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgate

import (
	"context"
	"sync"

	"github.com/tidalforge/flowgate/internal/core"
)

// Writer is the producer-facing half of a writer/sink pair created by
// [NewWriter]. Any number of goroutines may call its methods concurrently;
// ordering between concurrent callers is unspecified, but the elements
// passed to a single [Writer.Yield] call always reach the delegate as a
// contiguous group in the order given.
type Writer[T any] struct {
	storage  *core.Storage[T]
	delegate Delegate[T]

	closeOnce sync.Once
}

// Yield delivers seq to the sink. If the sink is writable and no other
// delegate outcall is in progress, seq is delivered synchronously with
// respect to the caller (but outside any lock) and Yield returns nil. If
// the sink is unwritable, the call suspends until the sink becomes
// writable, the writer or sink finishes, or ctx is done. ctx is the only
// way to cancel a yield; a cancelled yield returns nil, since cancellation
// is not itself an error.
//
// Yield fails with [ErrAlreadyFinished] once the writer has finished, or
// with the sink's finish error (or [ErrAlreadyFinished] if none was given)
// once the sink has finished. If the sink finished while a delegate outcall
// was in progress, later calls fail with [ErrAlreadyFinished] instead.
func (w *Writer[T]) Yield(ctx context.Context, seq ...T) error {
	id := w.storage.NextYieldID()
	outcome, actions, err, parker := w.storage.Yield(id, seq)

	switch outcome {
	case core.YieldFailed:
		return err
	case core.YieldDelivered:
		execute(w.storage, w.delegate, actions)
		return nil
	}

	return w.await(ctx, id, parker)
}

func (w *Writer[T]) await(ctx context.Context, id core.YieldID, parker *core.Parker) error {
	select {
	case err := <-parker.Done():
		return err
	case <-ctx.Done():
		// Cancelling via the state machine, rather than simply returning
		// ctx.Err(), keeps a context-driven cancellation indistinguishable
		// from an explicit one: either way the producer's elements stay
		// buffered for eventual delivery and the call returns normally.
		execute(w.storage, w.delegate, w.storage.Cancel(id))
		return <-parker.Done()
	}
}

// Finish marks the writer side as finished. It is idempotent: only the
// first call (whether explicit or triggered by [Writer.Close]) has any
// effect. err is forwarded to the delegate's DidTerminate once every
// buffered element has been delivered; a nil err means a clean finish. A
// writer that finishes before any Yield call terminates with nil whatever
// err is. Every suspended producer is resumed normally — their buffered elements
// are not discarded, since the writer side finishing says nothing about
// whether the sink will still accept them.
func (w *Writer[T]) Finish(err error) {
	w.closeOnce.Do(func() {
		execute(w.storage, w.delegate, w.storage.WriterFinish(err))
	})
}

// Close releases the writer's reference without an explicit finish error,
// equivalent to calling Finish(nil). It implements io.Closer so a Writer
// can be used with defer w.Close() at the point it is no longer needed.
func (w *Writer[T]) Close() error {
	w.Finish(nil)
	return nil
}
