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

// Package wire implements the mailbox frame format that rides on top of
// the peer transport (SPEC_FULL §4.5):
//
//	destination_thread     : int32
//	destination_mailbox_id : uint64
//	payload_length         : uint64
//	payload                : opaque bytes, caller-supplied
//
// All integers are big-endian. The codec never interprets the payload; it
// only frames it so the underlying byte stream stays delimited even when
// the destination mailbox turns out to be absent.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/coriolis-labs/meshbox/errors"
)

// HeaderSize is the fixed size, in bytes, of a frame header: int32 + uint64 + uint64.
const HeaderSize = 4 + 8 + 8

// Header is the fixed-size prefix of a mailbox frame.
type Header struct {
	DestThread    int32
	DestMailboxID uint64
	PayloadLength uint64
}

// WriteHeader writes h to w in wire format.
func WriteHeader(w io.Writer, h Header) error {
	var buf [HeaderSize]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(h.DestThread))
	binary.BigEndian.PutUint64(buf[4:12], h.DestMailboxID)
	binary.BigEndian.PutUint64(buf[12:20], h.PayloadLength)
	_, err := w.Write(buf[:])
	return err
}

// ReadHeader reads a Header from r. A short read is reported as
// errors.ErrTruncatedFrame: the stream can no longer be trusted to be
// framed correctly, which is a category-2 protocol violation, not a
// silent-drop condition.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %w", errors.ErrTruncatedFrame, err)
	}
	return Header{
		DestThread:    int32(binary.BigEndian.Uint32(buf[0:4])),
		DestMailboxID: binary.BigEndian.Uint64(buf[4:12]),
		PayloadLength: binary.BigEndian.Uint64(buf[12:20]),
	}, nil
}

// DiscardPayload consumes exactly length bytes of the payload from r
// without interpreting them. It is used when the destination mailbox is
// absent: the frame must still be fully drained so the underlying
// transport stream stays delimited for the next frame (SPEC_FULL §4.5,
// §8 scenario 4).
func DiscardPayload(r io.Reader, length uint64) error {
	n, err := io.CopyN(io.Discard, r, int64(length))
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrTruncatedPayload, err)
	}
	if uint64(n) != length {
		return errors.ErrTruncatedPayload
	}
	return nil
}

// ReadPayload reads exactly length bytes of payload from r into a freshly
// allocated, owned buffer. Callers on the receive path must copy the
// payload out before returning from the transport's on_message callback,
// since the transport's reader is only valid for the duration of that
// call (SPEC_FULL §4.6.2 step 2).
func ReadPayload(r io.Reader, length uint64) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrTruncatedPayload, err)
	}
	return buf, nil
}

// WriteFrame writes a complete frame: header, then payload. The payload
// length in the header is len(payload), so the caller must have the whole
// payload in hand (Send fills it by running the caller's write callback
// into a buffer first); the codec does not inspect its bytes.
func WriteFrame(w io.Writer, destThread int32, destMailboxID uint64, payload []byte) error {
	h := Header{DestThread: destThread, DestMailboxID: destMailboxID, PayloadLength: uint64(len(payload))}
	if err := WriteHeader(w, h); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
