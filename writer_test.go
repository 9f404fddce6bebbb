// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidalforge/flowgate"
)

// recordingDelegate collects everything delivered to it, safe for
// concurrent use since Yield may suspend across goroutines in these tests.
type recordingDelegate[T any] struct {
	mu         sync.Mutex
	delivered  [][]T
	terminated bool
	err        error
	done       chan struct{}
}

func newRecordingDelegate[T any]() *recordingDelegate[T] {
	return &recordingDelegate[T]{done: make(chan struct{})}
}

func (d *recordingDelegate[T]) DidYield(seq []T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, append([]T(nil), seq...))
}

func (d *recordingDelegate[T]) DidTerminate(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.terminated = true
	d.err = err
	close(d.done)
}

func (d *recordingDelegate[T]) snapshot() ([][]T, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]T(nil), d.delivered...), d.terminated, d.err
}

func TestWriterYieldDeliversImmediatelyWhenWritable(t *testing.T) {
	chk := require.New(t)
	delegate := newRecordingDelegate[string]()
	w, _ := flowgate.NewWriter[string](true, delegate)

	chk.NoError(w.Yield(context.Background(), "a", "b"))

	delivered, _, _ := delegate.snapshot()
	chk.Equal([][]string{{"a", "b"}}, delivered)
}

func TestWriterYieldSuspendsUntilWritable(t *testing.T) {
	chk := require.New(t)
	delegate := newRecordingDelegate[int]()
	w, s := flowgate.NewWriter[int](false, delegate)

	yieldDone := make(chan error, 1)
	go func() {
		yieldDone <- w.Yield(context.Background(), 1, 2, 3)
	}()

	// Give the goroutine a chance to actually suspend before releasing it;
	// this is a courtesy to make the test's intent clear, not a
	// correctness requirement, since SetWritability is safe either way.
	time.Sleep(10 * time.Millisecond)
	s.SetWritability(true)

	select {
	case err := <-yieldDone:
		chk.NoError(err)
	case <-time.After(time.Second):
		t.Fatal("Yield never returned after becoming writable")
	}

	delivered, _, _ := delegate.snapshot()
	chk.Equal([][]int{{1, 2, 3}}, delivered)
}

func TestWriterYieldHonorsContextCancellation(t *testing.T) {
	chk := require.New(t)
	delegate := newRecordingDelegate[int]()
	w, _ := flowgate.NewWriter[int](false, delegate)

	ctx, cancel := context.WithCancel(context.Background())
	yieldDone := make(chan error, 1)
	go func() {
		yieldDone <- w.Yield(ctx, 42)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-yieldDone:
		chk.NoError(err, "a cancelled yield returns nil, not ctx.Err()")
	case <-time.After(time.Second):
		t.Fatal("Yield never returned after context cancellation")
	}

	delivered, _, _ := delegate.snapshot()
	chk.Empty(delivered, "the sink is still unwritable, so the cancelled yield's element stays buffered")
}

func TestWriterFinishIsIdempotentAndDrainsFirst(t *testing.T) {
	chk := require.New(t)
	delegate := newRecordingDelegate[int]()
	w, s := flowgate.NewWriter[int](false, delegate)

	yieldDone := make(chan error, 1)
	go func() {
		yieldDone <- w.Yield(context.Background(), 7)
	}()
	time.Sleep(10 * time.Millisecond)

	w.Finish(nil)
	w.Finish(nil) // second call must be a no-op

	s.SetWritability(true)

	select {
	case err := <-yieldDone:
		chk.NoError(err)
	case <-time.After(time.Second):
		t.Fatal("Yield never returned")
	}

	select {
	case <-delegate.done:
	case <-time.After(time.Second):
		t.Fatal("DidTerminate was never called")
	}

	delivered, terminated, err := delegate.snapshot()
	chk.Equal([][]int{{7}}, delivered)
	chk.True(terminated)
	chk.NoError(err)
}

func TestWriterCloseIsEquivalentToFinishNil(t *testing.T) {
	chk := require.New(t)
	delegate := newRecordingDelegate[int]()
	w, _ := flowgate.NewWriter[int](true, delegate)

	chk.NoError(w.Close())

	select {
	case <-delegate.done:
	case <-time.After(time.Second):
		t.Fatal("DidTerminate was never called")
	}

	_, terminated, err := delegate.snapshot()
	chk.True(terminated)
	chk.NoError(err)
}

func TestWriterYieldAfterFinishFails(t *testing.T) {
	chk := require.New(t)
	delegate := newRecordingDelegate[int]()
	w, _ := flowgate.NewWriter[int](true, delegate)

	w.Finish(nil)
	err := w.Yield(context.Background(), 1)
	chk.ErrorIs(err, flowgate.ErrAlreadyFinished)
}
