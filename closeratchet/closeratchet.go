// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

// Package closeratchet provides a two-half closure coordinator for duplex
// protocol handlers built on top of a writer/sink pair: whichever side —
// read or write — closes last is the one responsible for driving full
// teardown.
package closeratchet

import "sync/atomic"

// Action is the side effect a CloseRatchet transition asks its caller to
// perform.
type Action int32

const (
	// Nothing means this half-close is recorded but the other half is
	// still open; the caller takes no action and waits for its peer.
	Nothing Action = iota
	// Close means both halves are now closed; the caller performs full
	// teardown.
	Close
	// CloseOutput means only the write/output side should be torn down
	// for now. CloseWrite returns it on a ratchet constructed with
	// halfCloseEnabled when the read side is still open.
	CloseOutput
)

type stage int32

const (
	stageNotClosed stage = iota
	stageReadClosed
	stageWriteClosed
	stageBothClosed
)

// CloseRatchet tracks the independent closure of a read side and a write
// side and reports, via the Action returned from each Close* call, whether
// the caller just became responsible for tearing the whole thing down.
//
// The zero value is not ready to use; construct with [New].
type CloseRatchet struct {
	stage            atomic.Int32
	halfCloseEnabled bool
}

// New creates a CloseRatchet in the NotClosed state. When halfCloseEnabled
// is true, a CloseWrite made while the read side is still open returns
// CloseOutput instead of Nothing, letting a caller tear down only the outbound half of a duplex
// transport without waiting for the inbound half to close too.
func New(halfCloseEnabled bool) *CloseRatchet {
	return &CloseRatchet{halfCloseEnabled: halfCloseEnabled}
}

// CloseRead records closure of the read side. It panics if the read side
// has already been closed.
func (r *CloseRatchet) CloseRead() Action {
	if r.stage.CompareAndSwap(int32(stageNotClosed), int32(stageReadClosed)) {
		return Nothing
	}
	if r.stage.CompareAndSwap(int32(stageWriteClosed), int32(stageBothClosed)) {
		return Close
	}
	panic("closeratchet: read side closed twice")
}

// CloseWrite records closure of the write side. It panics if the write side
// has already been closed.
func (r *CloseRatchet) CloseWrite() Action {
	target := Nothing
	if r.halfCloseEnabled {
		target = CloseOutput
	}
	if r.stage.CompareAndSwap(int32(stageNotClosed), int32(stageWriteClosed)) {
		return target
	}
	if r.stage.CompareAndSwap(int32(stageReadClosed), int32(stageBothClosed)) {
		return Close
	}
	panic("closeratchet: write side closed twice")
}
