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

// Package errors collects the sentinel errors surfaced by the mailbox
// substrate and its transports.
//
// Per the substrate's error taxonomy, silent-drop conditions (nil address,
// absent mailbox, disconnected peer) are never represented here: they are
// not errors, they are documented no-ops. Only category-2 (protocol
// violation, fatal) and category-3-adjacent (transport/configuration)
// conditions get a sentinel.
package errors

import "errors"

var (
	// ErrRegistryNotEmpty is the panic payload format source for tearing
	// down a per-thread registry that still holds live mailboxes. A
	// registry teardown with outstanding entries is a programmer error,
	// not a recoverable condition.
	ErrRegistryNotEmpty = errors.New("meshbox: registry torn down with live mailboxes")

	// ErrUnknownMailboxID is the panic payload format source for
	// unregistering an id that was never allocated, or was already
	// unregistered, by this registry.
	ErrUnknownMailboxID = errors.New("meshbox: unregister of unknown mailbox id")

	// ErrNilPeer is the panic payload of address.Address.Peer when called
	// on a nil address, whose peer id is the zero value.
	ErrNilPeer = errors.New("meshbox: nil peer id")

	// ErrPeerUnknown is returned by a transport's static peer directory
	// when asked to dial a peer it has no host:port entry for.
	ErrPeerUnknown = errors.New("meshbox: peer not present in static directory")

	// ErrInvalidPeerAddress is returned when a static directory entry is
	// not a well-formed host:port pair.
	ErrInvalidPeerAddress = errors.New("meshbox: invalid peer host:port address")

	// ErrTruncatedFrame is returned when a wire frame header cannot be
	// read in full from the underlying stream — a category-2 protocol
	// violation (the stream is no longer framed and cannot be trusted).
	ErrTruncatedFrame = errors.New("meshbox: truncated wire frame header")

	// ErrTruncatedPayload is returned when fewer than payload_length bytes
	// are available for a frame's payload.
	ErrTruncatedPayload = errors.New("meshbox: truncated wire frame payload")

	// ErrUnsupportedCompression is returned when a transport is configured
	// with a Compression value neither end recognizes.
	ErrUnsupportedCompression = errors.New("meshbox: unsupported compression algorithm")

	// ErrTransportClosed is returned by transport operations attempted
	// after Close has been called.
	ErrTransportClosed = errors.New("meshbox: transport is closed")
)
