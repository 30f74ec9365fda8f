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

// Package memtransport is an in-process transport.Transport: any number
// of Managers can be wired together through a shared Hub without a real
// network, for tests (SPEC_FULL §4.7.1).
package memtransport

import (
	"bytes"
	"io"
	"sync"

	"github.com/coriolis-labs/meshbox/peer"
	"github.com/coriolis-labs/meshbox/transport"
)

// Hub is a shared switchboard connecting any number of in-process peers.
// Unlike the per-thread mailbox registries, the hub's peer table is
// genuinely shared across goroutines, so it is guarded by a plain
// sync.RWMutex rather than confined to one thread.
type Hub struct {
	mu    sync.RWMutex
	peers map[peer.ID]*Peer
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{peers: make(map[peer.ID]*Peer)}
}

// Join creates a new Peer on the hub with the given identity and attaches
// it. The returned Peer implements transport.Transport.
func (h *Hub) Join(id peer.ID) *Peer {
	p := &Peer{hub: h, id: id}
	h.mu.Lock()
	h.peers[id] = p
	h.mu.Unlock()
	return p
}

func (h *Hub) leave(id peer.ID) {
	h.mu.Lock()
	delete(h.peers, id)
	h.mu.Unlock()
}

func (h *Hub) lookup(id peer.ID) (*Peer, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.peers[id]
	return p, ok
}

func (h *Hub) connectivity() map[peer.ID]bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[peer.ID]bool, len(h.peers))
	for id := range h.peers {
		out[id] = true
	}
	return out
}

// Peer is one endpoint attached to a Hub.
type Peer struct {
	hub     *Hub
	id      peer.ID
	handler transport.MessageHandler
	mu      sync.RWMutex
}

var _ transport.Transport = (*Peer)(nil)

// LocalPeer returns this endpoint's identity.
func (p *Peer) LocalPeer() peer.ID {
	return p.id
}

// OnMessage registers the callback invoked for inbound messages.
func (p *Peer) OnMessage(handler transport.MessageHandler) {
	p.mu.Lock()
	p.handler = handler
	p.mu.Unlock()
}

// SendMessage writes a message to dest. The write callback runs
// synchronously against an in-memory buffer, then delivery to the
// destination's handler happens on a fresh goroutine — this both keeps
// SendMessage non-blocking and emulates the independent scheduling a real
// remote peer would have, so tests exercising thread re-hosting behave
// the same way against memtransport as against nettransport.
func (p *Peer) SendMessage(dest peer.ID, write func(w io.Writer) error) {
	target, ok := p.hub.lookup(dest)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return
	}
	go func() {
		target.mu.RLock()
		handler := target.handler
		target.mu.RUnlock()
		if handler == nil {
			return
		}
		handler(p.id, &buf)
	}()
}

// Connectivity reports every peer currently joined to the hub, including
// this one.
func (p *Peer) Connectivity() map[peer.ID]bool {
	return p.hub.connectivity()
}

// Close detaches this peer from its hub.
func (p *Peer) Close() error {
	p.hub.leave(p.id)
	return nil
}
