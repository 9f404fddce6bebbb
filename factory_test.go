// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgate_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidalforge/flowgate"
)

type noopDelegate[T any] struct{}

func (noopDelegate[T]) DidYield(seq []T)       {}
func (noopDelegate[T]) DidTerminate(err error) {}

func TestNewWriterPanicsOnNilDelegate(t *testing.T) {
	chk := require.New(t)
	chk.PanicsWithValue("flowgate: delegate must be non-nil", func() {
		flowgate.NewWriter[int](true, nil)
	})
}

func TestNewWriterReturnsUsablePair(t *testing.T) {
	chk := require.New(t)
	w, s := flowgate.NewWriter[int](true, &noopDelegate[int]{})
	chk.NotNil(w)
	chk.NotNil(s)
}

func TestWithInitialBufferCapacityIsAcceptedAtConstruction(t *testing.T) {
	chk := require.New(t)
	w, s := flowgate.NewWriter[int](false, &noopDelegate[int]{}, flowgate.WithInitialBufferCapacity(8))
	chk.NotNil(w)
	chk.NotNil(s)
}
