// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgate

import (
	"sync"

	"github.com/tidalforge/flowgate/internal/core"
)

// Sink is the consumer-facing half of a writer/sink pair created by
// [NewWriter]. Its methods are meant to be called from a single owning
// goroutine — typically whatever drives the downstream transport — though
// nothing prevents calling them from multiple goroutines as long as the
// caller accepts that ordering between concurrent calls is then
// unspecified.
type Sink[T any] struct {
	storage  *core.Storage[T]
	delegate Delegate[T]

	closeOnce sync.Once
}

// SetWritability toggles writability. Flipping from false to true drains
// every buffered element to the delegate and resumes every suspended
// producer normally; flipping from true to false is recorded and returns
// immediately. Calling SetWritability with the current value is a no-op.
func (s *Sink[T]) SetWritability(writable bool) {
	execute(s.storage, s.delegate, s.storage.SetWritability(writable))
}

// Finish marks the sink side as finished. It is idempotent: only the first
// call (whether explicit or triggered by [Sink.Close]) has any effect.
// Every suspended producer is resumed with err (or [ErrAlreadyFinished] if
// err is nil), their buffered elements discarded; the delegate's
// DidTerminate is invoked exactly once with err, possibly deferred until an
// in-progress outcall returns.
func (s *Sink[T]) Finish(err error) {
	s.closeOnce.Do(func() {
		execute(s.storage, s.delegate, s.storage.SinkFinish(err))
	})
}

// Close releases the sink's reference without an explicit finish error,
// equivalent to calling Finish(nil). It implements io.Closer so a Sink can
// be used with defer s.Close() at the point it is no longer needed.
func (s *Sink[T]) Close() error {
	s.Finish(nil)
	return nil
}
