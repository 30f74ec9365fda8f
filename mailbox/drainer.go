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
	"sync"

	"go.uber.org/atomic"
)

// Drainer is a reference-counted gate: each in-flight handler invocation
// holds a Guard acquired at entry and released on exit, and Drain blocks
// until every outstanding Guard has been released. It is the primitive
// that lets Mailbox destruction wait for in-flight deliveries instead of
// racing them (SPEC_FULL §4.4), the Go equivalent of RethinkDB's
// auto_drainer_t.
type Drainer struct {
	count    atomic.Int64
	draining atomic.Bool

	mu   sync.Mutex
	zero chan struct{} // closed once count reaches zero after draining starts
}

// NewDrainer returns a Drainer with no outstanding guards.
func NewDrainer() *Drainer {
	return &Drainer{zero: make(chan struct{})}
}

// Guard is a single acquired reference against a Drainer. Callers must
// call Release exactly once, on every exit path including errors and
// panics recovered higher up — typically via `defer guard.Release()`.
type Guard struct {
	d *Drainer
}

// Acquire attempts to take a guard. It fails (ok == false) once Drain has
// been called: "drain() is idempotent; after it returns, no new guards may
// be acquired" (SPEC_FULL §4.4) is enforced from the moment draining
// starts, not only after it completes, so a handler can never begin after
// teardown has been requested.
func (d *Drainer) Acquire() (g Guard, ok bool) {
	if d.draining.Load() {
		return Guard{}, false
	}
	d.count.Inc()
	if d.draining.Load() {
		// Drain() started concurrently with this Acquire; back out rather
		// than risk Drain observing zero and returning before we run.
		d.release()
		return Guard{}, false
	}
	return Guard{d: d}, true
}

// Release releases a previously acquired guard. Release is safe to call
// exactly once per successful Acquire; calling it more than once on such a
// guard is a programmer error. On a zero-value Guard from a failed Acquire,
// Release is a no-op.
func (g Guard) Release() {
	if g.d == nil {
		return
	}
	g.d.release()
}

func (d *Drainer) release() {
	if d.count.Dec() == 0 && d.draining.Load() {
		d.mu.Lock()
		select {
		case <-d.zero:
		default:
			close(d.zero)
		}
		d.mu.Unlock()
	}
}

// Drain marks the drainer as draining (no further Acquire calls succeed)
// and blocks until every already-acquired Guard has been released. Drain
// is idempotent: calling it more than once is safe, and the second call
// returns immediately.
func (d *Drainer) Drain() {
	d.draining.Store(true)
	if d.count.Load() == 0 {
		d.mu.Lock()
		select {
		case <-d.zero:
		default:
			close(d.zero)
		}
		d.mu.Unlock()
	}
	<-d.zero
}
