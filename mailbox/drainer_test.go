// MIT License
//
// Copyright (c) 2026 Coriolis Labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mailbox_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/coriolis-labs/meshbox/mailbox"
)

func TestDrainerDrainsImmediatelyWhenIdle(t *testing.T) {
	d := mailbox.NewDrainer()
	done := make(chan struct{})
	go func() {
		d.Drain()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Drain on an idle drainer should return immediately")
	}
}

func TestDrainerBlocksUntilGuardsReleased(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := mailbox.NewDrainer()
	guard, ok := d.Acquire()
	require.True(t, ok)

	drainReturned := make(chan struct{})
	go func() {
		d.Drain()
		close(drainReturned)
	}()

	select {
	case <-drainReturned:
		t.Fatal("Drain must not return while a guard is outstanding")
	case <-time.After(50 * time.Millisecond):
	}

	guard.Release()

	select {
	case <-drainReturned:
	case <-time.After(time.Second):
		t.Fatal("Drain never returned after the last guard was released")
	}
}

func TestDrainerRejectsAcquireAfterDrainStarts(t *testing.T) {
	d := mailbox.NewDrainer()
	guard, ok := d.Acquire()
	require.True(t, ok)

	drainReturned := make(chan struct{})
	go func() {
		d.Drain()
		close(drainReturned)
	}()
	time.Sleep(10 * time.Millisecond)

	_, ok = d.Acquire()
	assert.False(t, ok, "Acquire must fail once draining has started")

	guard.Release()
	<-drainReturned
}

func TestDrainerIdempotent(t *testing.T) {
	d := mailbox.NewDrainer()
	d.Drain()
	d.Drain() // must not block or panic
}

func TestDrainerConcurrentGuards(t *testing.T) {
	d := mailbox.NewDrainer()

	var wg sync.WaitGroup
	const n = 100
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			guard, ok := d.Acquire()
			if !ok {
				return
			}
			defer guard.Release()
			time.Sleep(time.Millisecond)
		}()
	}
	wg.Wait()
	d.Drain()
}
