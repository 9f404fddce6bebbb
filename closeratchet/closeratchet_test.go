// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package closeratchet_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidalforge/flowgate/closeratchet"
)

func TestCloseRatchetReadThenWrite(t *testing.T) {
	chk := require.New(t)
	r := closeratchet.New(false)

	chk.Equal(closeratchet.Nothing, r.CloseRead())
	chk.Equal(closeratchet.Close, r.CloseWrite())
}

func TestCloseRatchetWriteThenRead(t *testing.T) {
	chk := require.New(t)
	r := closeratchet.New(false)

	chk.Equal(closeratchet.Nothing, r.CloseWrite())
	chk.Equal(closeratchet.Close, r.CloseRead())
}

func TestCloseRatchetHalfCloseEnabledSignalsOutputFirst(t *testing.T) {
	chk := require.New(t)
	r := closeratchet.New(true)

	chk.Equal(closeratchet.CloseOutput, r.CloseWrite())
	chk.Equal(closeratchet.Close, r.CloseRead())
}

func TestCloseRatchetHalfCloseDisabledWaitsForPeer(t *testing.T) {
	chk := require.New(t)
	r := closeratchet.New(false)

	chk.Equal(closeratchet.Nothing, r.CloseWrite())
}

func TestCloseRatchetDuplicateReadPanics(t *testing.T) {
	chk := require.New(t)
	r := closeratchet.New(false)

	r.CloseRead()
	chk.Panics(func() {
		r.CloseRead()
	})
}

func TestCloseRatchetDuplicateWritePanics(t *testing.T) {
	chk := require.New(t)
	r := closeratchet.New(true)

	r.CloseWrite()
	chk.Panics(func() {
		r.CloseWrite()
	})
}

func TestCloseRatchetDuplicateAfterBothClosedPanics(t *testing.T) {
	chk := require.New(t)
	r := closeratchet.New(false)

	r.CloseRead()
	r.CloseWrite()
	chk.Panics(func() {
		r.CloseRead()
	})
	chk.Panics(func() {
		r.CloseWrite()
	})
}
