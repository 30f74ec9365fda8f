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

// Package transport defines the peer-to-peer transport contract the
// mailbox manager consumes (SPEC_FULL §6), and nothing else: framing,
// thread routing, and mailbox lookup all live above this boundary. Two
// concrete implementations exist — memtransport (in-process, used by the
// tests) and nettransport (real TCP).
package transport

import (
	"io"

	"github.com/coriolis-labs/meshbox/peer"
)

// MessageHandler is registered with a Transport to receive inbound
// messages. source identifies the sender; r is valid only for the
// duration of the call, matching the "on_message" contract every peer
// transport must honor (SPEC_FULL §4.6.2 step 2 depends on this: callers
// must copy out anything they need before returning).
type MessageHandler func(source peer.ID, r io.Reader)

// Transport is the peer-to-peer message service the Manager is built on.
// Implementations must make SendMessage non-blocking and silent on
// failure: an unreachable or unknown peer is simply dropped, never
// reported as an error, matching the mailbox substrate's own "sends never
// fail observably" contract (SPEC_FULL §4.6.1).
type Transport interface {
	// LocalPeer returns this process's own peer identity.
	LocalPeer() peer.ID

	// SendMessage asks the transport to deliver a message to dest. write
	// is invoked with a byte-writer that the transport frames and
	// transmits; SendMessage returns as soon as write has been invoked (or
	// immediately, without invoking write at all, if dest is
	// unreachable) — it never blocks on the network round-trip.
	SendMessage(dest peer.ID, write func(w io.Writer) error)

	// OnMessage registers the callback the transport invokes once per
	// inbound message. Only one handler may be registered; a transport
	// with no handler registered silently drops inbound messages.
	OnMessage(handler MessageHandler)

	// Connectivity returns a snapshot of which peers are currently
	// reachable. It exists for observability; the mailbox core itself
	// never consults it (SPEC_FULL §6).
	Connectivity() map[peer.ID]bool

	// Close releases any resources the transport holds (listeners, dialed
	// connections, background goroutines).
	Close() error
}
