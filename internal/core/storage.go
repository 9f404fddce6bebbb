// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package core

import "sync"

// Storage is the single mutex-guarded state machine shared by a writer
// handle and a sink handle. Every method takes the lock, updates the state
// and computes a (possibly empty) slice of Actions, drops the lock, and
// returns the actions for the caller to execute. No delegate callback, no parker
// resumption, and no caller-visible suspension point ever happens while
// the mutex is held.
type Storage[T any] struct {
	mu                    sync.Mutex
	state                 storageState[T]
	ids                   yieldIDGenerator
	suspendedCapacityHint int
}

// NewStorage creates storage in the Initial state with the given initial
// writability. suspendedCapacityHint preallocates the suspended-producer
// list's backing array when the state machine first transitions into
// Streaming, avoiding repeated growth for callers that know roughly how
// many producers may pile up under back-pressure; 0 leaves it to grow
// on demand.
func NewStorage[T any](initialWritable bool, suspendedCapacityHint int) *Storage[T] {
	return &Storage[T]{
		state:                 initialState[T](initialWritable),
		suspendedCapacityHint: suspendedCapacityHint,
	}
}

// NextYieldID generates a fresh, storage-unique YieldID using a relaxed
// atomic increment. It does not touch the mutex and may be called
// concurrently with anything else.
func (s *Storage[T]) NextYieldID() YieldID {
	return s.ids.generate()
}

// SetWritability toggles the sink's writability flag. It is synchronous and
// idempotent when the flag is already at the requested value.
func (s *Storage[T]) SetWritability(writable bool) []Action[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.kind {
	case kindInitial:
		s.state.writable = writable
		return nil

	case kindStreaming:
		return s.setWritabilityStreamingLocked(writable)

	case kindWriterFinished:
		if !writable || s.state.inOutcall {
			return nil
		}
		return s.drainWriterFinishedLocked()

	default: // kindFinished
		return nil
	}
}

func (s *Storage[T]) setWritabilityStreamingLocked(writable bool) []Action[T] {
	st := &s.state
	if st.writable == writable {
		return nil
	}
	st.writable = writable

	if !writable {
		// true -> false: just record it, no resumptions.
		return nil
	}

	// false -> true
	if st.inOutcall {
		// The active outcall will observe the new flag via Unbuffer.
		return nil
	}

	actions := resumeAllLocked[T](st, nil)
	if st.buffer.Len() == 0 {
		return actions
	}
	st.inOutcall = true
	return append(actions, drainAction(drainDeque(&st.buffer)))
}

// deliverLocked marks st as mid-outcall and returns the action that
// delivers seq to the delegate, or returns no action at all if seq is
// empty. An empty Yield call produces no delegate callout and must never
// enter an outcall that nothing will ever end.
func deliverLocked[T any](st *storageState[T], seq []T) []Action[T] {
	if len(seq) == 0 {
		return nil
	}
	st.inOutcall = true
	return []Action[T]{drainAction(seq)}
}

// resumeAllLocked detaches every suspended producer from st and returns the
// resume actions for them, in the order they were registered. Their
// elements remain in st.buffer; only suspensions, never buffered elements,
// are affected.
func resumeAllLocked[T any](st *storageState[T], err error) []Action[T] {
	if len(st.suspended) == 0 {
		return nil
	}
	actions := make([]Action[T], 0, len(st.suspended))
	for _, sy := range st.suspended {
		actions = append(actions, resumeAction[T](sy.resumer, err))
	}
	st.suspended = nil
	return actions
}

// YieldOutcome classifies the immediate result of a call to Yield.
type YieldOutcome uint8

const (
	// YieldDelivered means the returned actions (if any) should be
	// executed and the caller returns normally; no suspension occurred.
	YieldDelivered YieldOutcome = iota
	// YieldSuspended means the parker returned from Yield must be awaited;
	// its resolution is the call's final result.
	YieldSuspended
	// YieldFailed means the call fails immediately with Err; there is
	// nothing to execute and nothing to await.
	YieldFailed
)

// Yield classifies a single yield call for id/seq and, combined in the same
// critical section, registers it as suspended if back-pressure applies.
// Classification and registration are kept in one locked method rather than
// two, so that a concurrent Cancel for the same id can never land in the
// gap between "decided to suspend" and "recorded as suspended" — a gap that
// would otherwise let a cancellation be silently lost.
func (s *Storage[T]) Yield(id YieldID, seq []T) (YieldOutcome, []Action[T], error, *Parker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.kind {
	case kindInitial:
		st := &s.state
		writable := st.writable
		*st = storageState[T]{kind: kindStreaming, writable: writable}
		if s.suspendedCapacityHint > 0 {
			st.suspended = make([]suspendedYield[T], 0, s.suspendedCapacityHint)
		}
		if writable {
			return YieldDelivered, deliverLocked(st, seq), nil, nil
		}
		resumer := NewParker()
		st.suspended = append(st.suspended, suspendedYield[T]{id: id, resumer: resumer})
		for _, e := range seq {
			st.buffer.PushBack(e)
		}
		return YieldSuspended, nil, nil, resumer

	case kindStreaming:
		return s.yieldStreamingLocked(id, seq)

	case kindWriterFinished:
		return YieldFailed, nil, ErrAlreadyFinished, nil

	default: // kindFinished
		if s.state.sinkErr != nil {
			return YieldFailed, nil, s.state.sinkErr, nil
		}
		return YieldFailed, nil, ErrAlreadyFinished, nil
	}
}

func (s *Storage[T]) yieldStreamingLocked(id YieldID, seq []T) (YieldOutcome, []Action[T], error, *Parker) {
	st := &s.state

	if idx := indexOfID(st.cancelledIDs, id); idx >= 0 {
		st.cancelledIDs = removeAt(st.cancelledIDs, idx)
		switch {
		case st.writable && !st.inOutcall:
			return YieldDelivered, deliverLocked(st, seq), nil, nil
		default:
			// writable && in_outcall, or !writable: the producer is
			// already cancelled, so its elements are buffered but it
			// never suspends.
			for _, e := range seq {
				st.buffer.PushBack(e)
			}
			return YieldDelivered, nil, nil, nil
		}
	}

	switch {
	case st.writable && !st.inOutcall:
		return YieldDelivered, deliverLocked(st, seq), nil, nil
	case st.writable && st.inOutcall:
		for _, e := range seq {
			st.buffer.PushBack(e)
		}
		return YieldDelivered, nil, nil, nil
	default: // !writable
		resumer := NewParker()
		st.suspended = append(st.suspended, suspendedYield[T]{id: id, resumer: resumer})
		for _, e := range seq {
			st.buffer.PushBack(e)
		}
		return YieldSuspended, nil, nil, resumer
	}
}

// Cancel handles a cancellation for id. If a suspended yield is registered
// under id, it is resumed normally (its elements remain buffered for
// eventual delivery); otherwise id is recorded so that a yield call still
// in flight for it will be recognized as cancelled when it arrives. Once the
// writer or sink has finished, Cancel does nothing.
func (s *Storage[T]) Cancel(id YieldID) []Action[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.kind == kindInitial {
		writable := s.state.writable
		s.state = storageState[T]{kind: kindStreaming, writable: writable, cancelledIDs: []YieldID{id}}
		if s.suspendedCapacityHint > 0 {
			s.state.suspended = make([]suspendedYield[T], 0, s.suspendedCapacityHint)
		}
		return nil
	}
	if s.state.kind != kindStreaming {
		return nil
	}
	st := &s.state

	if idx := indexOfSuspended(st.suspended, id); idx >= 0 {
		sy := st.suspended[idx]
		st.suspended = removeSuspendedAt(st.suspended, idx)
		return []Action[T]{resumeAction[T](sy.resumer, nil)}
	}

	st.cancelledIDs = append(st.cancelledIDs, id)
	return nil
}

// WriterFinish handles an explicit or deinit-triggered writer finish.
func (s *Storage[T]) WriterFinish(err error) []Action[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.kind {
	case kindInitial:
		s.state = storageState[T]{kind: kindFinished}
		return []Action[T]{didTerminateAction[T](nil)}

	case kindStreaming:
		return s.writerFinishStreamingLocked(err)

	default: // WriterFinished, Finished: idempotent no-op
		return nil
	}
}

func (s *Storage[T]) writerFinishStreamingLocked(err error) []Action[T] {
	st := &s.state

	if st.buffer.Len() != 0 {
		actions := resumeAllLocked[T](st, nil)
		s.state = storageState[T]{kind: kindWriterFinished, inOutcall: st.inOutcall, buffer: st.buffer, writerErr: err}
		return actions
	}

	if st.inOutcall {
		// Defer DidTerminate to Unbuffer, which will observe the empty
		// buffer once the active outcall's drain loop completes.
		s.state = storageState[T]{kind: kindWriterFinished, inOutcall: true, writerErr: err}
		return nil
	}

	s.state = storageState[T]{kind: kindFinished}
	return []Action[T]{didTerminateAction[T](err)}
}

// SinkFinish handles an explicit or deinit-triggered sink finish.
func (s *Storage[T]) SinkFinish(err error) []Action[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.kind {
	case kindInitial:
		s.state = storageState[T]{kind: kindFinished, sinkErr: err}
		return []Action[T]{didTerminateAction[T](err)}

	case kindStreaming:
		return s.sinkFinishStreamingLocked(err)

	case kindWriterFinished:
		if s.state.inOutcall {
			// Drop the remaining buffer and let the active outcall's
			// Unbuffer deliver DidTerminate once it returns.
			s.state = storageState[T]{kind: kindWriterFinished, inOutcall: true, writerErr: err}
			return nil
		}
		s.state = storageState[T]{kind: kindFinished, sinkErr: err}
		return []Action[T]{didTerminateAction[T](err)}

	default: // Finished: absorbing
		return nil
	}
}

func (s *Storage[T]) sinkFinishStreamingLocked(err error) []Action[T] {
	st := &s.state
	resumeErr := resolveFinishErr(err, nil)

	if st.inOutcall {
		actions := resumeAllLocked[T](st, resumeErr)
		s.state = storageState[T]{kind: kindWriterFinished, inOutcall: true, writerErr: err}
		return actions
	}

	actions := resumeAllLocked[T](st, resumeErr)
	s.state = storageState[T]{kind: kindFinished, sinkErr: err}
	return append(actions, didTerminateAction[T](err))
}

// resolveFinishErr resolves err or the AlreadyFinished sentinel: a
// caller-supplied finish error takes precedence, and only when none was
// given does resumption fail with the generic sentinel.
func resolveFinishErr(err, fallback error) error {
	if err != nil {
		return err
	}
	if fallback != nil {
		return fallback
	}
	return ErrAlreadyFinished
}

// Unbuffer is called in a loop by the caller after each delegate callout
// returns, until it returns an empty slice. It drains whatever accumulated
// in the buffer (including elements enqueued reentrantly by the delegate
// calling SetWritability during the very callout it's draining) and, for a
// finished writer with nothing left to drain, performs the final
// termination transition.
func (s *Storage[T]) Unbuffer() []Action[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.kind {
	case kindStreaming:
		st := &s.state
		if !st.inOutcall {
			panic("flowgate: unbuffer_queued_events called while not in an outcall")
		}
		if st.buffer.Len() == 0 {
			st.inOutcall = false
			return nil
		}
		return []Action[T]{drainAction(drainDeque(&st.buffer))}

	case kindWriterFinished:
		return s.drainWriterFinishedLocked()

	default:
		return nil
	}
}

// drainWriterFinishedLocked performs one step of draining a finished
// writer's remaining buffer, called either to start the drain (from
// SetWritability) or to continue/finish it (from Unbuffer). Must be called
// with the mutex held.
func (s *Storage[T]) drainWriterFinishedLocked() []Action[T] {
	st := &s.state
	if st.buffer.Len() == 0 {
		err := st.writerErr
		s.state = storageState[T]{kind: kindFinished}
		return []Action[T]{didTerminateAction[T](err)}
	}
	st.inOutcall = true
	return []Action[T]{drainAction(drainDeque(&st.buffer))}
}

func indexOfID(ids []YieldID, id YieldID) int {
	for i, existing := range ids {
		if existing == id {
			return i
		}
	}
	return -1
}

func removeAt[S ~[]E, E any](s S, idx int) S {
	return append(s[:idx], s[idx+1:]...)
}

func indexOfSuspended[T any](suspended []suspendedYield[T], id YieldID) int {
	for i, sy := range suspended {
		if sy.id == id {
			return i
		}
	}
	return -1
}

func removeSuspendedAt[T any](suspended []suspendedYield[T], idx int) []suspendedYield[T] {
	return append(suspended[:idx], suspended[idx+1:]...)
}
