// Copyright (c) flowgate authors. All rights reserved.
// Licensed under the MIT License.

package flowgate_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tidalforge/flowgate"
)

// joiningDelegate collects every delivered element in order and closes done
// once the pair has finished.
type joiningDelegate struct {
	mu    sync.Mutex
	words []string
	done  chan struct{}
}

func (d *joiningDelegate) DidYieldOne(word string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.words = append(d.words, word)
}

func (d *joiningDelegate) DidYield(seq []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.words = append(d.words, seq...)
}

func (d *joiningDelegate) DidTerminate(err error) {
	close(d.done)
}

// "Hello world" example that yields two words through a writer and prints
// what the sink collected once the pair finishes.
func Example_hello() {
	delegate := &joiningDelegate{done: make(chan struct{})}
	w, _ := flowgate.NewWriter[string](true, delegate)

	ctx := context.Background()
	_ = w.Yield(ctx, "Hello")
	_ = w.Yield(ctx, "world!")
	w.Close()

	<-delegate.done
	fmt.Println(strings.Join(delegate.words, " "))
	// Output: Hello world!
}
