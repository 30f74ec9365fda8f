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

package address

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/coriolis-labs/meshbox/peer"
)

// Encode appends the canonical wire encoding of a to dst and returns the
// extended slice: a length-prefixed peer id, then the thread (int32) and
// mailbox id (uint64), all big-endian — the Go realization of
// RDB_MAKE_ME_SERIALIZABLE_3(peer, thread, mailbox_id). Nil addresses
// encode as a zero-length peer, which is legal on the wire (SPEC_FULL §4.1).
func Encode(dst []byte, a Address) []byte {
	peerBytes := []byte(a.p)
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(peerBytes)))
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, peerBytes...)

	var fieldsBuf [12]byte
	binary.BigEndian.PutUint32(fieldsBuf[0:4], uint32(a.thread))
	binary.BigEndian.PutUint64(fieldsBuf[4:12], a.mailboxID)
	return append(dst, fieldsBuf[:]...)
}

// Decode reads an Address encoded by Encode from r.
func Decode(r io.Reader) (Address, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Address{}, fmt.Errorf("address: read peer length: %w", err)
	}
	peerLen := binary.BigEndian.Uint16(lenBuf[:])

	var p peer.ID
	if peerLen > 0 {
		peerBytes := make([]byte, peerLen)
		if _, err := io.ReadFull(r, peerBytes); err != nil {
			return Address{}, fmt.Errorf("address: read peer id: %w", err)
		}
		p = peer.ID(peerBytes)
	}

	var fieldsBuf [12]byte
	if _, err := io.ReadFull(r, fieldsBuf[:]); err != nil {
		return Address{}, fmt.Errorf("address: read thread/mailbox id: %w", err)
	}
	thread := int32(binary.BigEndian.Uint32(fieldsBuf[0:4]))
	mailboxID := binary.BigEndian.Uint64(fieldsBuf[4:12])

	return Address{p: p, thread: thread, mailboxID: mailboxID}, nil
}
