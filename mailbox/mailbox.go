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

package mailbox

import (
	"go.uber.org/atomic"

	"github.com/coriolis-labs/meshbox/address"
	"github.com/coriolis-labs/meshbox/peer"
)

// State is a Mailbox's position in its Active → Draining → Destroyed
// lifecycle (SPEC_FULL §4.6.4).
type State int32

const (
	// Active mailboxes may accept new deliveries.
	Active State = iota
	// Draining mailboxes have been unregistered; no new deliveries may
	// start, but deliveries already in flight run to completion.
	Draining
	// Destroyed mailboxes have no in-flight deliveries left and have
	// released their handler.
	Destroyed
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Draining:
		return "draining"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Mailbox is a live receive endpoint on the current process. It is
// created on, and must be destroyed on, a single owning thread; the
// substrate that wires registries to running threads (the manager
// package) is responsible for only ever calling New and Close for a given
// Mailbox from goroutines actually executing as that thread.
type Mailbox struct {
	localPeer    peer.ID
	owningThread int32
	id           uint64
	registry     *Registry
	handler      Handler
	drainer      *Drainer
	state        atomic.Int32
}

// New constructs a Mailbox bound to registry, minting a fresh id and
// registering itself before returning (SPEC_FULL §4.3: "registered
// atomically in that thread's registry under a freshly minted id"). The
// caller must be running on registry's owning thread.
func New(localPeer peer.ID, registry *Registry, handler Handler) *Mailbox {
	mb := &Mailbox{
		localPeer:    localPeer,
		owningThread: registry.OwningThread(),
		registry:     registry,
		handler:      handler,
		drainer:      NewDrainer(),
	}
	mb.id = registry.Allocate(mb)
	return mb
}

// Address returns this mailbox's address: (local peer, owning thread, id).
func (mb *Mailbox) Address() address.Address {
	return address.New(mb.localPeer, mb.owningThread, mb.id)
}

// ID returns the mailbox's id within its owning thread's registry.
func (mb *Mailbox) ID() uint64 {
	return mb.id
}

// OwningThread returns the thread this mailbox is pinned to.
func (mb *Mailbox) OwningThread() int32 {
	return mb.owningThread
}

// State reports the mailbox's current lifecycle state.
func (mb *Mailbox) State() State {
	return State(mb.state.Load())
}

// Handler returns the handler this mailbox was constructed with, for use
// by delivery tasks that have already resolved the mailbox via a
// Registry.Find lookup.
func (mb *Mailbox) Handler() Handler {
	return mb.handler
}

// BeginDelivery acquires a drainer guard for one in-flight handler
// invocation. ok is false if the mailbox is already Draining or
// Destroyed, in which case the delivery must be silently dropped
// (SPEC_FULL §4.6.4: "Deliveries may only enter Active").
func (mb *Mailbox) BeginDelivery() (Guard, bool) {
	return mb.drainer.Acquire()
}

// Close tears the mailbox down: unregister (so no new delivery can find
// it), transition to Draining, wait for every in-flight delivery to exit,
// transition to Destroyed, then drop the handler reference. Close must
// run on the owning thread and must not be called more than once.
//
// This ordering — unregister before drain — is what prevents a
// late-arriving delivery from touching a handler that has already been
// released (SPEC_FULL §4.3).
func (mb *Mailbox) Close() {
	mb.registry.Unregister(mb.id)
	mb.state.Store(int32(Draining))
	mb.drainer.Drain()
	mb.state.Store(int32(Destroyed))
	mb.handler = nil
}
