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

// Package peer defines the opaque node identifier the mailbox substrate
// addresses messages to. It is deliberately separate from package address:
// address.Address embeds a peer.ID as one of its three fields, but the
// substrate never interprets a peer id beyond comparing and transmitting
// it — resolving one to a reachable network endpoint is entirely the
// transport's concern (see transport/nettransport.StaticPeers).
package peer

import (
	"github.com/google/uuid"
)

// ID is an opaque, comparable, wire-serializable identifier for a process
// participating in the cluster. The zero value is Nil and never names a
// real peer.
type ID string

// Nil is the zero-value ID. No live peer may use it; it exists so that
// ID is comparable against its zero value the way address.Address checks
// for a nil peer (SPEC_FULL §3).
const Nil ID = ""

// New mints a fresh, globally-unique peer id.
func New() ID {
	return ID(uuid.NewString())
}

// IsNil reports whether id is the zero value.
func (id ID) IsNil() bool {
	return id == Nil
}

func (id ID) String() string {
	return string(id)
}
