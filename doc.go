// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

// Package flowgate provides an asynchronous, back-pressured bridge between
// many concurrent producers and a single-threaded consumer.
//
// A [Writer] accepts elements from any number of goroutines via Yield.
// While the paired [Sink] reports the downstream transport as writable,
// yielded elements are delivered synchronously to a [Delegate]; while it
// reports unwritable, producers suspend until writability returns, the
// writer or sink finishes, or their own yield is cancelled. Both handles
// may finish independently, with or without an error, and the delegate's
// DidTerminate is guaranteed to run exactly once regardless of how many
// producers were in flight when that happened.
//
// flowgate knows nothing about the transport an element is ultimately
// destined for; that is entirely the delegate's concern. It also says
// nothing about how a writer/sink pair is packaged into a larger duplex
// protocol handler — see the separate closeratchet package for the
// half-closure coordination such a handler typically needs on top of this.
package flowgate
