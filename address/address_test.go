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

package address_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coriolis-labs/meshbox/address"
	"github.com/coriolis-labs/meshbox/peer"
)

func TestAddress(t *testing.T) {
	t.Run("nil address", func(t *testing.T) {
		a := address.Nil()
		assert.True(t, a.IsNil())
		assert.Panics(t, func() { a.Peer() })
	})

	t.Run("construct and accessors", func(t *testing.T) {
		p := peer.New()
		a := address.New(p, 3, 42)
		assert.False(t, a.IsNil())
		assert.Equal(t, p, a.Peer())
		assert.EqualValues(t, 3, a.Thread())
		assert.EqualValues(t, 42, a.MailboxID())
	})

	t.Run("human readable format", func(t *testing.T) {
		a := address.New(peer.ID("peer-1"), 7, 2199023255555)
		assert.Equal(t, "peer-1:7:2199023255555", a.String())
	})

	t.Run("equality", func(t *testing.T) {
		p := peer.New()
		a := address.New(p, 1, 2)
		b := address.New(p, 1, 2)
		c := address.New(p, 1, 3)
		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
		assert.True(t, address.Nil().Equal(address.Nil()))
	})

	t.Run("resolve any thread", func(t *testing.T) {
		p := peer.New()
		a := address.New(p, address.AnyThread, 2)
		resolved := a.Resolve(5)
		assert.EqualValues(t, 5, resolved.Thread())

		concrete := address.New(p, 9, 2)
		assert.Equal(t, concrete, concrete.Resolve(5))
	})
}

func TestAddressCodecRoundTrip(t *testing.T) {
	cases := []address.Address{
		address.New(peer.ID("7"), -1, 1<<40+3),
		address.New(peer.New(), 0, 0),
		address.Nil(),
	}

	for _, original := range cases {
		encoded := address.Encode(nil, original)
		decoded, err := address.Decode(bytes.NewReader(encoded))
		require.NoError(t, err)
		assert.True(t, original.Equal(decoded))
	}
}

func TestAddressDecodeTruncated(t *testing.T) {
	_, err := address.Decode(bytes.NewReader([]byte{0x00}))
	assert.Error(t, err)
}
