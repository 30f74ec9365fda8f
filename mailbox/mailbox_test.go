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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coriolis-labs/meshbox/mailbox"
	"github.com/coriolis-labs/meshbox/peer"
)

func TestMailboxAddressAndLifecycle(t *testing.T) {
	p := peer.New()
	r := mailbox.NewRegistry(4)
	mb := mailbox.New(p, r, discardHandler{})

	addr := mb.Address()
	assert.Equal(t, p, addr.Peer())
	assert.EqualValues(t, 4, addr.Thread())
	assert.EqualValues(t, mb.ID(), addr.MailboxID())
	assert.Equal(t, mailbox.Active, mb.State())

	mb.Close()
	assert.Equal(t, mailbox.Destroyed, mb.State())
	assert.Nil(t, r.Find(mb.ID()), "Close must unregister before returning")
}

func TestMailboxCloseWaitsForInFlightDeliveries(t *testing.T) {
	r := mailbox.NewRegistry(0)
	mb := mailbox.New(peer.New(), r, discardHandler{})

	guard, ok := mb.BeginDelivery()
	require.True(t, ok)

	closeReturned := make(chan struct{})
	go func() {
		mb.Close()
		close(closeReturned)
	}()

	select {
	case <-closeReturned:
		t.Fatal("Close must not return while a delivery is in flight")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, mailbox.Draining, mb.State())

	guard.Release()

	select {
	case <-closeReturned:
	case <-time.After(time.Second):
		t.Fatal("Close never returned after the in-flight delivery finished")
	}
	assert.Equal(t, mailbox.Destroyed, mb.State())
}

func TestMailboxNoNewDeliveriesAfterCloseBegins(t *testing.T) {
	r := mailbox.NewRegistry(0)
	mb := mailbox.New(peer.New(), r, discardHandler{})

	guard, ok := mb.BeginDelivery()
	require.True(t, ok)

	closeReturned := make(chan struct{})
	go func() {
		mb.Close()
		close(closeReturned)
	}()
	time.Sleep(10 * time.Millisecond)

	_, ok = mb.BeginDelivery()
	assert.False(t, ok, "no delivery may enter once Draining has begun")

	guard.Release()
	<-closeReturned
}

func TestMailboxTenConcurrentDeliveriesAllCompleteBeforeClose(t *testing.T) {
	r := mailbox.NewRegistry(0)
	mb := mailbox.New(peer.New(), r, discardHandler{})

	const n = 10
	var started, finished int32
	var wg sync.WaitGroup
	release := make(chan struct{})

	for i := 0; i < n; i++ {
		guard, ok := mb.BeginDelivery()
		require.True(t, ok)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer guard.Release()
			atomic.AddInt32(&started, 1)
			<-release
			atomic.AddInt32(&finished, 1)
		}()
	}

	closeReturned := make(chan struct{})
	go func() {
		mb.Close()
		close(closeReturned)
	}()

	for atomic.LoadInt32(&started) != n {
		time.Sleep(time.Millisecond)
	}
	select {
	case <-closeReturned:
		t.Fatal("Close returned before any handler finished")
	default:
	}

	close(release)
	wg.Wait()

	select {
	case <-closeReturned:
	case <-time.After(time.Second):
		t.Fatal("Close never returned after all 10 handlers finished")
	}
	assert.EqualValues(t, n, atomic.LoadInt32(&finished))
}

func TestMailboxIDsNeverReusedAcrossRegistry(t *testing.T) {
	r := mailbox.NewRegistry(0)
	seen := make(map[uint64]bool)
	for i := 0; i < 5; i++ {
		mb := mailbox.New(peer.New(), r, discardHandler{})
		assert.False(t, seen[mb.ID()])
		seen[mb.ID()] = true
		mb.Close()
	}
}
