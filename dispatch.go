// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgate

import "github.com/tidalforge/flowgate/internal/core"

// execute runs every action in the slice against delegate, in order. This
// is the only place a [core.Action] ever turns into a delegate call or a
// parker resumption; every event method on [Writer] and [Sink] funnels its
// storage result through this function after releasing the storage's lock.
func execute[T any](storage *core.Storage[T], delegate Delegate[T], actions []core.Action[T]) {
	for _, a := range actions {
		runOne(storage, delegate, a)
	}
}

// runOne executes a single action. For the two action kinds that represent
// a delegate outcall, it follows up with exactly one round of Unbuffer once
// the outcall returns; if that round itself yields another outcall action,
// runOne's own recursive call chains into a further round, which is what
// turns "loop until Unbuffer returns nothing" into recursion instead of an
// explicit loop. Each recursive step corresponds to a genuine delegate
// outcall having just completed, and each round drains the whole buffer, so
// depth grows by one for every outcall during which more elements were
// buffered, never with the amount of buffered data.
func runOne[T any](storage *core.Storage[T], delegate Delegate[T], a core.Action[T]) {
	switch a.Kind {
	case core.ActionNone:
		return

	case core.ActionDidYield:
		delegate.DidYield(a.Elements)
		unbufferOnce(storage, delegate)

	case core.ActionDidYieldOne:
		if one, ok := delegate.(DidYieldOner[T]); ok {
			one.DidYieldOne(a.Element)
		} else {
			delegate.DidYield([]T{a.Element})
		}
		unbufferOnce(storage, delegate)

	case core.ActionDidTerminate:
		delegate.DidTerminate(a.Err)

	case core.ActionResume:
		a.Resumer.Resume(a.Err)

	default:
		panic("flowgate: unrecognized action kind")
	}
}

func unbufferOnce[T any](storage *core.Storage[T], delegate Delegate[T]) {
	for _, a := range storage.Unbuffer() {
		runOne(storage, delegate, a)
	}
}
