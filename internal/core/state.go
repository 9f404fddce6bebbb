// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

// Package core implements the writer/sink state machine and its storage:
// the single mutex-guarded automaton that governs writability transitions,
// buffering, suspension and resumption of producers, cancellation races,
// reentrancy guards around delegate callouts, and shutdown semantics.
//
// This package knows nothing about delegates. Every event method returns a
// small slice of [Action] values describing what the caller must do once
// the storage's mutex has been released — invoke a callback, resume a
// parked producer, or both. Keeping the delegate contract out of core keeps
// the hardest part of this module (the state machine) free of any
// assumption about how outcalls are actually dispatched.
package core

import (
	"sync/atomic"

	"github.com/gammazero/deque"
)

// kind tags the active shape of a [storageState]. It exists purely for
// internal bookkeeping; nothing outside this package observes it.
//
// There is deliberately no "modifying" tag here: a half-updated state
// never needs to be representable. Every transition method updates
// storage.state (in place, or by assigning a freshly built value) only
// while holding the mutex, so no other goroutine can ever observe
// anything in between.
type kind uint8

const (
	kindInitial kind = iota
	kindStreaming
	kindWriterFinished
	kindFinished
)

// YieldID correlates a cancellation with a specific in-flight yield. Values
// are generated by [Storage.NextYieldID] using a relaxed atomic increment
// and are unique for the lifetime of a single [Storage].
type YieldID uint64

// suspendedYield is a producer parked inside Yield, waiting for the sink to
// become writable, for the writer or sink to finish, or for its own
// cancellation. Ownership of resumer is exclusively held here until it is
// removed and returned inside an [Action]; resumption always happens
// outside the storage's mutex. Its elements are not held here: they are
// pushed onto the shared buffer at the moment of suspension, alongside
// registering the resumer, so that draining the buffer never needs to
// consult the suspended list at all.
type suspendedYield[T any] struct {
	id      YieldID
	resumer *Parker
}

// storageState is the single value a [Storage] holds behind its mutex. Only
// the fields relevant to the current kind are meaningful; the rest sit at
// their zero value. It is a tagged union without a Go sum type: transition
// methods switch on kind and only then read the associated fields.
//
// There is no delegate reference inside any case here. Because every
// outcall is expressed as a returned Action rather than invoked directly,
// the actual delegate lives one layer up, alongside the Storage that owns
// it, and never needs to travel through storageState at all.
type storageState[T any] struct {
	kind kind

	// Initial, Streaming
	writable bool

	// Streaming only
	inOutcall    bool
	cancelledIDs []YieldID
	suspended    []suspendedYield[T]
	buffer       deque.Deque[T]

	// WriterFinished only; reuses inOutcall and buffer from Streaming to
	// gate the drain-on-writable path against reentrant set_writability
	// calls the same way Streaming gates DidYield outcalls.
	writerErr error

	// Finished only
	sinkErr error
}

func initialState[T any](writable bool) storageState[T] {
	return storageState[T]{
		kind:     kindInitial,
		writable: writable,
	}
}

type yieldIDGenerator struct {
	counter atomic.Uint64
}

func (g *yieldIDGenerator) generate() YieldID {
	return YieldID(g.counter.Add(1))
}

// drainDeque pops every element out of d, in FIFO order, returning them as
// a plain slice for delivery through an [Action]. It leaves d empty rather
// than replacing it, since deque.Deque's zero value is already a valid
// empty deque and there is no cheaper way to detach its contents.
func drainDeque[T any](d *deque.Deque[T]) []T {
	n := d.Len()
	if n == 0 {
		return nil
	}
	out := make([]T, n)
	for i := range out {
		out[i] = d.PopFront()
	}
	return out
}
