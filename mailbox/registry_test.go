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

package mailbox_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coriolis-labs/meshbox/mailbox"
	"github.com/coriolis-labs/meshbox/peer"
)

type discardHandler struct{}

func (discardHandler) Read(r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

func TestRegistryAllocateFindUnregister(t *testing.T) {
	r := mailbox.NewRegistry(3)
	assert.EqualValues(t, 3, r.OwningThread())
	assert.Equal(t, 0, r.Len())

	mb := mailbox.New(peer.New(), r, discardHandler{})
	assert.Equal(t, 1, r.Len())
	assert.Same(t, mb, r.Find(mb.ID()))

	r.Unregister(mb.ID())
	assert.Nil(t, r.Find(mb.ID()))
	assert.Equal(t, 0, r.Len())
}

func TestRegistryNeverReusesIDs(t *testing.T) {
	r := mailbox.NewRegistry(0)
	mb1 := mailbox.New(peer.New(), r, discardHandler{})
	r.Unregister(mb1.ID())
	mb2 := mailbox.New(peer.New(), r, discardHandler{})
	assert.NotEqual(t, mb1.ID(), mb2.ID())
}

func TestRegistryFindAbsent(t *testing.T) {
	r := mailbox.NewRegistry(0)
	assert.Nil(t, r.Find(9999))
}

func TestRegistryUnregisterUnknownIDPanics(t *testing.T) {
	r := mailbox.NewRegistry(0)
	assert.Panics(t, func() { r.Unregister(9999) })
}

func TestRegistryCloseOnEmptyDoesNotPanic(t *testing.T) {
	r := mailbox.NewRegistry(0)
	assert.NotPanics(t, r.Close)
}

func TestRegistryCloseWithLiveMailboxPanics(t *testing.T) {
	r := mailbox.NewRegistry(0)
	mailbox.New(peer.New(), r, discardHandler{})
	assert.Panics(t, r.Close)
}
