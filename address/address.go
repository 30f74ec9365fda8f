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

// Package address provides the canonical representation of a mailbox
// address: the (peer, thread, mailbox id) triple that names a single
// mailbox anywhere in the cluster.
//
// An Address is a plain value type: comparable with Equal, formattable with
// String, and freely serializable with Encode/Decode. Unlike the teacher's
// actor address (which names a long-lived, hierarchical actor by string
// name), a mailbox Address names an ephemeral numeric endpoint minted by a
// Registry — there is no parent chain and no validation against a naming
// pattern, only the nil-peer precondition carried over from the original
// mailbox.hpp.
package address

import (
	"strconv"
	"strings"

	"github.com/coriolis-labs/meshbox/errors"
	"github.com/coriolis-labs/meshbox/peer"
)

// AnyThread is the sentinel thread ordinal meaning "let the manager pick
// the receiving thread, defaulting to the sender's current thread." It may
// only appear in an Address before it is resolved by Send/TryLocalDelivery;
// a resolved Address always carries a concrete, non-negative thread.
const AnyThread int32 = -1

// Address names a single mailbox: the peer it lives on, the thread of that
// peer it is bound to, and its id within that thread's registry.
//
// The zero value is the nil Address (Peer == peer.Nil). A nil Address may
// be passed around and sent to (Send treats it as a silent drop per
// SPEC_FULL §4.6.1) but Peer() panics on it, matching the original
// get_peer()'s documented precondition failure.
type Address struct {
	p         peer.ID
	thread    int32
	mailboxID uint64
}

// New constructs an Address from its three fields. It performs no
// resolution of AnyThread — callers that need a transmissible address with
// a concrete thread must resolve AnyThread themselves before calling New,
// or use New with AnyThread to construct one deliberately meant to be
// resolved downstream (e.g. for a not-yet-dispatched local send).
func New(p peer.ID, thread int32, mailboxID uint64) Address {
	return Address{p: p, thread: thread, mailboxID: mailboxID}
}

// Nil returns the sentinel "no address" value.
func Nil() Address {
	return Address{}
}

// IsNil reports whether a is the nil address (zero-value peer).
func (a Address) IsNil() bool {
	return a.p.IsNil()
}

// Peer returns the peer component of the address.
//
// Precondition: a must not be nil. Calling Peer on a nil Address is a
// category-2 protocol violation (SPEC_FULL §7) and panics, mirroring the
// original raw_mailbox_t::address_t::get_peer()'s documented failure mode.
func (a Address) Peer() peer.ID {
	if a.IsNil() {
		panic(errors.ErrNilPeer)
	}
	return a.p
}

// Thread returns the thread ordinal component, which may be AnyThread on
// an unresolved address.
func (a Address) Thread() int32 {
	return a.thread
}

// MailboxID returns the mailbox id component.
func (a Address) MailboxID() uint64 {
	return a.mailboxID
}

// Resolve returns a copy of a with AnyThread replaced by callerThread. If
// a's thread is already concrete, Resolve returns a unchanged.
func (a Address) Resolve(callerThread int32) Address {
	if a.thread != AnyThread {
		return a
	}
	return Address{p: a.p, thread: callerThread, mailboxID: a.mailboxID}
}

// Equal reports whether a and b name the same mailbox: identical peer,
// thread, and mailbox id. Two nil addresses are equal to each other.
func (a Address) Equal(b Address) bool {
	return a.p == b.p && a.thread == b.thread && a.mailboxID == b.mailboxID
}

// String returns the canonical "peer:thread:mailbox_id" human-readable
// form, matching raw_mailbox_t::address_t::human_readable().
func (a Address) String() string {
	var b strings.Builder
	b.WriteString(a.p.String())
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(int64(a.thread), 10))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(a.mailboxID, 10))
	return b.String()
}
