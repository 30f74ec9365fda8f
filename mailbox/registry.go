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
	"fmt"

	"github.com/coriolis-labs/meshbox/errors"
)

// firstMailboxID is the registry's starting next_id. Zero is avoided so
// that a zero-valued address.Address (the nil sentinel) can never collide
// with a real mailbox id.
const firstMailboxID uint64 = 1

// Registry maps mailbox ids to live Mailboxes for a single thread. A
// Registry belongs to exactly one runtime.Thread and must only ever be
// touched by code running on that thread — there is deliberately no
// locking here (SPEC_FULL §4.2): a mutex on this type would mask a
// thread-confinement bug instead of catching it.
type Registry struct {
	owningThread int32
	nextID       uint64
	mailboxes    map[uint64]*Mailbox
}

// NewRegistry returns an empty Registry confined to owningThread.
func NewRegistry(owningThread int32) *Registry {
	return &Registry{
		owningThread: owningThread,
		nextID:       firstMailboxID,
		mailboxes:    make(map[uint64]*Mailbox),
	}
}

// OwningThread returns the thread ordinal this registry is confined to.
func (r *Registry) OwningThread() int32 {
	return r.owningThread
}

// Allocate assigns mb a freshly minted id, registers it, and returns the
// id. Ids are never reused within the registry's lifetime: Allocate never
// hands out an id Unregister has already retired.
func (r *Registry) Allocate(mb *Mailbox) uint64 {
	id := r.nextID
	r.nextID++
	r.mailboxes[id] = mb
	return id
}

// Unregister removes id from the registry. Unregistering an id that was
// never allocated, or has already been unregistered, is a category-2
// protocol violation (SPEC_FULL §7) — Mailbox.Close's contract is that it
// runs at most once per mailbox, so a caller reaching this with an unknown
// id has a teardown bug, not a race worth tolerating silently.
func (r *Registry) Unregister(id uint64) {
	if _, ok := r.mailboxes[id]; !ok {
		panic(fmt.Sprintf("%s: id %d on thread %d", errors.ErrUnknownMailboxID, id, r.owningThread))
	}
	delete(r.mailboxes, id)
}

// Find returns the mailbox registered under id, or nil if absent.
func (r *Registry) Find(id uint64) *Mailbox {
	return r.mailboxes[id]
}

// Len reports how many mailboxes are currently registered.
func (r *Registry) Len() int {
	return len(r.mailboxes)
}

// Close asserts the registry is empty. Every mailbox allocated from this
// registry must be destroyed before its owning thread is torn down; a
// non-empty registry at this point means a Mailbox outlived its thread,
// which is a programmer error the original models as a debug assertion.
func (r *Registry) Close() {
	if len(r.mailboxes) != 0 {
		panic(fmt.Sprintf("%s: thread %d closed with %d mailbox(es) still live", errors.ErrRegistryNotEmpty, r.owningThread, len(r.mailboxes)))
	}
}
