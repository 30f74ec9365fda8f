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

package runtime_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coriolis-labs/meshbox/runtime"
)

func TestPostRunsAsynchronously(t *testing.T) {
	rt := runtime.New(1)
	defer rt.Close()

	var mu sync.Mutex
	var log []int

	done := make(chan struct{})
	rt.Thread(0).Post(func() {
		mu.Lock()
		log = append(log, 1)
		mu.Unlock()
		close(done)
	})

	mu.Lock()
	immediate := len(log)
	mu.Unlock()
	assert.Equal(t, 0, immediate, "Post must not run fn before returning")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted task never ran")
	}
	mu.Lock()
	assert.Equal(t, []int{1}, log)
	mu.Unlock()
}

func TestSpawnNowYieldsOnSameThread(t *testing.T) {
	rt := runtime.New(1)
	defer rt.Close()

	var mu sync.Mutex
	var order []string
	allDone := make(chan struct{})

	rt.Thread(0).Post(func() {
		mu.Lock()
		order = append(order, "outer-start")
		mu.Unlock()

		rt.Thread(0).SpawnNow(func() {
			mu.Lock()
			order = append(order, "inner")
			mu.Unlock()
			close(allDone)
		})

		mu.Lock()
		order = append(order, "outer-end")
		mu.Unlock()
	})

	select {
	case <-allDone:
	case <-time.After(time.Second):
		t.Fatal("spawned task never ran")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 3)
	assert.Equal(t, []string{"outer-start", "outer-end", "inner"}, order,
		"SpawnNow to the calling thread must run after the caller yields, never synchronously inline")
}

func TestCrossThreadPost(t *testing.T) {
	rt := runtime.New(2)
	defer rt.Close()

	result := make(chan int32, 1)
	rt.Thread(0).Post(func() {
		rt.Thread(1).Post(func() {
			result <- rt.Thread(1).Ordinal()
		})
	})

	select {
	case got := <-result:
		assert.EqualValues(t, 1, got)
	case <-time.After(time.Second):
		t.Fatal("cross-thread post never ran")
	}
}

func TestThreadOutOfRangePanics(t *testing.T) {
	rt := runtime.New(1)
	defer rt.Close()

	assert.Panics(t, func() { rt.Thread(-1) })
	assert.Panics(t, func() { rt.Thread(1) })
}

func TestCloseDrainsQueuedWork(t *testing.T) {
	rt := runtime.New(1)

	var mu sync.Mutex
	ran := false
	rt.Thread(0).Post(func() {
		mu.Lock()
		ran = true
		mu.Unlock()
	})

	rt.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, ran, "Close must wait for already-queued work to finish")
}
