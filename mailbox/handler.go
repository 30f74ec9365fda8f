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

// Package mailbox implements the receive side of the substrate: mailboxes,
// their per-thread registries, and the drainer that makes handler lifetimes
// sound under concurrent delivery (SPEC_FULL §4.2-§4.4).
package mailbox

import "io"

// Handler is polymorphic over the two delivery capabilities a mailbox
// supports. Read is mandatory: every handler must be able to consume a
// framed remote payload. LocalDelivery is optional and exists purely as a
// performance fast path — it lets same-process senders skip
// serialize/deserialize entirely by handing back a type-erased invocable
// that the local fast path calls with the caller's arguments through
// reflection, standing in for the C++ original's
// `static_cast<const std::function<void(arg_ts...)> *>`.
type Handler interface {
	// Read is invoked on the mailbox's owning thread with r positioned at
	// the start of the payload and bounded to exactly payload_length bytes.
	Read(r io.Reader) error
}

// LocalDeliverer is implemented by handlers that support the local fast
// path. LocalDelivery returns the handler's typed delivery function as an
// `any`, and ok reports whether one is available at all; the caller
// (manager.TryLocalDelivery) invokes the returned function value through
// reflection with the arguments it was given, without checking its
// signature first. A handler with no local fast path simply does not
// implement this interface, which the delivery task treats the same as
// ok == false: it returns without invoking anything.
type LocalDeliverer interface {
	LocalDelivery() (any, bool)
}
