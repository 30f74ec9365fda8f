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

package manager

import (
	"bytes"
	"io"
	"reflect"

	"github.com/coriolis-labs/meshbox/address"
	"github.com/coriolis-labs/meshbox/mailbox"
	"github.com/coriolis-labs/meshbox/wire"
)

// Send delivers a message to addr (SPEC_FULL §4.6.1). It never blocks and
// never fails observably:
//
//   - a nil address is silently dropped;
//   - a local address (addr.Peer() == m.LocalPeer()) is delivered via the
//     mailbox's stream Read callback, after resolving AnyThread to
//     callerThread;
//   - a remote address is framed per §4.5 and handed to the transport.
//
// callerThread is the thread the calling code is running on; Go has no
// implicit notion of "the current thread" the way the source's coroutine
// scheduler does, so it is passed explicitly rather than inferred. It is
// consulted only when addr.Thread() is address.AnyThread.
func Send(m *Manager, callerThread int32, addr address.Address, write func(w io.Writer) error) {
	if addr.IsNil() {
		return
	}

	destThread := resolveThread(addr.Thread(), callerThread)

	if addr.Peer() == m.localPeer {
		m.deliverLocalStream(destThread, addr.MailboxID(), write)
		return
	}

	m.tr.SendMessage(addr.Peer(), func(w io.Writer) error {
		var payload bytes.Buffer
		if err := write(&payload); err != nil {
			return err
		}
		return wire.WriteFrame(w, destThread, addr.MailboxID(), payload.Bytes())
	})
}

// deliverLocalStream mirrors the inbound peer-message path for a locally
// addressed Send: it re-hosts onto destThread, looks the mailbox up
// there, and if present, invokes its Read handler — this is the fully
// serialized form of local delivery, as opposed to TryLocalDelivery's
// typed fast path.
func (m *Manager) deliverLocalStream(destThread int32, mailboxID uint64, write func(w io.Writer) error) {
	var payload bytes.Buffer
	if err := write(&payload); err != nil {
		m.logger.Debugf("manager: local send write callback failed: %v", err)
		return
	}
	m.rt.Thread(destThread).Post(func() {
		mb := m.registries[destThread].Find(mailboxID)
		if mb == nil {
			return
		}
		guard, ok := mb.BeginDelivery()
		if !ok {
			return
		}
		defer guard.Release()
		if err := mb.Handler().Read(bytes.NewReader(payload.Bytes())); err != nil {
			m.logger.Debugf("manager: handler for mailbox %d returned error: %v", mailboxID, err)
		}
	})
}

// TryLocalDelivery is the typed local fast path (SPEC_FULL §4.6.3). It
// looks addr up in callerThread's registry; if found and the stored peer
// matches addr.Peer() (the cross-peer-id-collision guard, preserved
// deliberately — see DESIGN.md), it starts a delivery task via SpawnNow
// that re-hosts onto the resolved destination thread, rechecks the
// mailbox still exists, and invokes its typed LocalDelivery callback with
// args via reflection (the Go realization of the source's type-erased
// std::function cast).
//
// Return value: true iff addr resolved as local and a delivery task was
// started — not that delivery actually completed. The mailbox can be
// destroyed, or decline the fast path, between the check and the task's
// re-entry; those cases silently do nothing once the task runs.
func (m *Manager) TryLocalDelivery(addr address.Address, callerThread int32, args ...any) bool {
	if addr.IsNil() {
		return false
	}
	mb := m.registries[callerThread].Find(addr.MailboxID())
	if mb == nil {
		return false
	}
	if mb.Address().Peer() != addr.Peer() {
		// Cross-peer id collision: dest is not actually local.
		return false
	}

	destThread := resolveThread(addr.Thread(), callerThread)
	mailboxID := addr.MailboxID()

	m.rt.Thread(destThread).SpawnNow(func() {
		mb := m.registries[destThread].Find(mailboxID)
		if mb == nil {
			return
		}
		guard, ok := mb.BeginDelivery()
		if !ok {
			return
		}
		defer guard.Release()

		deliverer, ok := mb.Handler().(mailbox.LocalDeliverer)
		if !ok {
			return
		}
		fn, ok := deliverer.LocalDelivery()
		if !ok {
			return
		}
		callWithArgs(fn, args)
	})
	return true
}

// callWithArgs invokes fn (expected to be a func value) with args via
// reflection, since the fast-path invocable's argument list is only known
// to the caller of TryLocalDelivery, not to this package.
func callWithArgs(fn any, args []any) {
	fnVal := reflect.ValueOf(fn)
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}
	fnVal.Call(in)
}
