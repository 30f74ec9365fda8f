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

// Package manager is the lifecycle façade the rest of the substrate is
// built around: it owns one Registry per thread, bridges the peer
// transport, and implements the send/receive routing described in
// SPEC_FULL §4.6.
package manager

import (
	"bytes"
	"io"

	"github.com/coriolis-labs/meshbox/address"
	"github.com/coriolis-labs/meshbox/log"
	"github.com/coriolis-labs/meshbox/mailbox"
	"github.com/coriolis-labs/meshbox/peer"
	"github.com/coriolis-labs/meshbox/runtime"
	"github.com/coriolis-labs/meshbox/transport"
	"github.com/coriolis-labs/meshbox/wire"
)

// ingressThread is the thread ordinal an inbound frame carrying the
// AnyThread sentinel resolves to. A conforming sender never transmits
// AnyThread (Send always resolves it before framing); a frame that does
// carry it is coming from a non-conforming peer, and this Go realization
// treats the ingress path itself as if it always ran on thread 0, since
// nothing else about an inbound transport callback identifies "the
// current thread" the way a coroutine's home thread would in the source
// this substrate is modeled on (SPEC_FULL §4.6.2, DESIGN.md open question).
const ingressThread int32 = 0

// Manager owns the per-thread mailbox registries, the local peer identity
// inherited from the transport, and the transport itself.
type Manager struct {
	rt         *runtime.Runtime
	tr         transport.Transport
	localPeer  peer.ID
	registries []*mailbox.Registry
	logger     log.Logger
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithLogger overrides the Manager's logger. The default is log.DiscardLogger.
func WithLogger(logger log.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// New constructs a Manager with one Registry per thread in rt, and
// registers itself as tr's inbound message handler.
func New(rt *runtime.Runtime, tr transport.Transport, opts ...Option) *Manager {
	registries := make([]*mailbox.Registry, rt.NumThreads())
	for i := range registries {
		registries[i] = mailbox.NewRegistry(int32(i))
	}
	m := &Manager{
		rt:         rt,
		tr:         tr,
		localPeer:  tr.LocalPeer(),
		registries: registries,
		logger:     log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(m)
	}
	tr.OnMessage(m.onMessage)
	return m
}

// LocalPeer returns this process's peer identity, as reported by the
// underlying transport.
func (m *Manager) LocalPeer() peer.ID {
	return m.localPeer
}

// Registry returns the registry for the given thread ordinal. It panics
// if thread is out of range.
func (m *Manager) Registry(thread int32) *mailbox.Registry {
	return m.registries[thread]
}

// NewMailbox constructs a mailbox pinned to thread, registers it, and
// returns it. The caller must already be running on thread's runtime.Thread
// loop — this is the Go realization of "constructed on the owning
// thread" from a language with no implicit thread-local "current thread"
// (SPEC_FULL §4.3, §9).
func (m *Manager) NewMailbox(thread int32, handler mailbox.Handler) *mailbox.Mailbox {
	return mailbox.New(m.localPeer, m.Registry(thread), handler)
}

// resolveThread turns AnyThread into callerThread; a concrete thread
// passes through unchanged.
func resolveThread(thread, callerThread int32) int32 {
	if thread == address.AnyThread {
		return callerThread
	}
	return thread
}

// onMessage is registered with the transport as its inbound handler
// (SPEC_FULL §4.6.2).
func (m *Manager) onMessage(source peer.ID, r io.Reader) {
	header, err := wire.ReadHeader(r)
	if err != nil {
		// A header under-run is a category-2 protocol violation (SPEC_FULL §7).
		panic(err)
	}

	destThread := header.DestThread
	if destThread == address.AnyThread {
		m.logger.Debugf("manager: peer %s sent ANY_THREAD on the wire; resolving to thread %d", source, ingressThread)
		destThread = ingressThread
	}
	if destThread < 0 || int(destThread) >= len(m.registries) {
		if err := wire.DiscardPayload(r, header.PayloadLength); err != nil {
			m.logger.Debugf("manager: failed discarding payload for out-of-range thread %d: %v", destThread, err)
		}
		return
	}

	payload, err := wire.ReadPayload(r, header.PayloadLength)
	if err != nil {
		m.logger.Debugf("manager: dropping truncated message from %s: %v", source, err)
		return
	}

	destMailboxID := header.DestMailboxID
	m.rt.Thread(destThread).Post(func() {
		mb := m.registries[destThread].Find(destMailboxID)
		if mb == nil {
			return
		}
		guard, ok := mb.BeginDelivery()
		if !ok {
			return
		}
		defer guard.Release()
		if err := mb.Handler().Read(bytes.NewReader(payload)); err != nil {
			m.logger.Debugf("manager: handler for mailbox %d returned error: %v", destMailboxID, err)
		}
	})
}
