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

package nettransport

import (
	"bytes"
	"crypto/tls"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/coriolis-labs/meshbox/errors"
	"github.com/coriolis-labs/meshbox/log"
	"github.com/coriolis-labs/meshbox/peer"
	"github.com/coriolis-labs/meshbox/transport"
)

// Option configures a Transport at construction time.
type Option func(*Transport)

// WithCompression sets the per-message wire compression. Both peers in
// a StaticPeers directory must be constructed with the same setting.
func WithCompression(c Compression) Option {
	return func(t *Transport) { t.compression = c }
}

// WithTLS wraps every connection (inbound and outbound) in TLS using cfg.
// See the secureconn helper in this package for building cfg from a CA
// and peer certificate pair for mutual TLS between peers.
func WithTLS(cfg *tls.Config) Option {
	return func(t *Transport) { t.tlsConfig = cfg }
}

// WithLogger overrides the Transport's logger. The default is log.DiscardLogger.
func WithLogger(logger log.Logger) Option {
	return func(t *Transport) { t.logger = logger }
}

// Transport is a TCP realization of transport.Transport. Outbound
// connections are dialed lazily on first send to a given peer and cached;
// inbound connections are accepted on a single listener, one read
// goroutine per connection.
type Transport struct {
	localPeer   peer.ID
	peers       *StaticPeers
	compression Compression
	tlsConfig   *tls.Config
	logger      log.Logger

	listener net.Listener

	mu      sync.Mutex
	conns   map[peer.ID]*connState
	handler transport.MessageHandler
	closed  bool

	connMu       sync.Mutex
	connectivity map[peer.ID]bool
}

var _ transport.Transport = (*Transport)(nil)

type connState struct {
	mu   sync.Mutex // serializes frame writes; TCP is a byte stream
	conn net.Conn
}

// New starts listening on listenAddr for localPeer, resolving outbound
// peers through peers. It returns once the listener is bound; the accept
// loop runs in the background.
func New(localPeer peer.ID, listenAddr string, peers *StaticPeers, opts ...Option) (*Transport, error) {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}
	t := &Transport{
		localPeer:    localPeer,
		peers:        peers,
		listener:     ln,
		logger:       log.DiscardLogger,
		conns:        make(map[peer.ID]*connState),
		connectivity: make(map[peer.ID]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.acceptLoop()
	return t, nil
}

// LocalPeer returns this process's peer identity.
func (t *Transport) LocalPeer() peer.ID {
	return t.localPeer
}

// ListenAddr returns the address the transport is actually bound to,
// useful when New was given port 0 and the operating system chose one.
func (t *Transport) ListenAddr() net.Addr {
	return t.listener.Addr()
}

// SetPeers replaces the static peer directory used to resolve outbound
// dials. It does not affect connections already established.
func (t *Transport) SetPeers(peers *StaticPeers) {
	t.mu.Lock()
	t.peers = peers
	t.mu.Unlock()
}

// OnMessage registers the inbound message callback.
func (t *Transport) OnMessage(handler transport.MessageHandler) {
	t.mu.Lock()
	t.handler = handler
	t.mu.Unlock()
}

// Connectivity reports which peers currently have an open connection
// (inbound or outbound) to this process.
func (t *Transport) Connectivity() map[peer.ID]bool {
	t.connMu.Lock()
	defer t.connMu.Unlock()
	out := make(map[peer.ID]bool, len(t.connectivity))
	for id, up := range t.connectivity {
		out[id] = up
	}
	return out
}

// Close stops accepting new connections and closes every open connection.
// It is safe to call more than once; subsequent calls are no-ops.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	for _, cs := range t.conns {
		_ = cs.conn.Close()
	}
	t.conns = make(map[peer.ID]*connState)
	t.mu.Unlock()
	return t.listener.Close()
}

func (t *Transport) setConnectivity(id peer.ID, up bool) {
	t.connMu.Lock()
	t.connectivity[id] = up
	t.connMu.Unlock()
}

func (t *Transport) acceptLoop() {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			return
		}
		if t.tlsConfig != nil {
			conn = tls.Server(conn, t.tlsConfig)
		}
		go t.handleAccepted(conn)
	}
}

func (t *Transport) handleAccepted(conn net.Conn) {
	remote, err := readHandshake(conn)
	if err != nil {
		t.logger.Debugf("nettransport: dropping connection from %s: handshake failed: %v", conn.RemoteAddr(), err)
		_ = conn.Close()
		return
	}
	t.adoptConn(remote, conn)
}

// adoptConn registers conn as the live connection for remote — used both
// for accepted connections (remote learned via handshake) and for a freshly
// dialed connection, so both ends of a pair can send on the same socket
// they read replies from — and starts its read loop.
func (t *Transport) adoptConn(remote peer.ID, conn net.Conn) *connState {
	cs := &connState{conn: conn}
	t.mu.Lock()
	if old, ok := t.conns[remote]; ok {
		_ = old.conn.Close()
	}
	t.conns[remote] = cs
	t.mu.Unlock()
	t.setConnectivity(remote, true)
	go t.readLoop(remote, cs)
	return cs
}

func (t *Transport) dial(dest peer.ID) (*connState, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, errors.ErrTransportClosed
	}
	if cs, ok := t.conns[dest]; ok {
		t.mu.Unlock()
		return cs, nil
	}
	peers := t.peers
	t.mu.Unlock()

	addr, ok := peers.Resolve(dest)
	if !ok {
		return nil, errors.ErrPeerUnknown
	}
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	if t.tlsConfig != nil {
		conn = tls.Client(conn, t.tlsConfig)
	}
	if err := writeHandshake(conn, t.localPeer); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return t.adoptConn(dest, conn), nil
}

// SendMessage hands write a buffer to fill with one complete mailbox wire
// frame (header and payload, per the wire package — the manager, not this
// transport, owns that format) and transmits it as a single length-
// prefixed, independently compressed unit on dest's connection, serialized
// under cs's write mutex since TCP is a byte stream with no message
// boundaries of its own.
//
// SendMessage does its work on the caller's goroutine: the first send to a
// peer dials it with net.Dial and writes the handshake, and every send
// writes its frame to the socket, before SendMessage returns. The caller is
// blocked for as long as the dial and the socket write take.
//
// Compressing each message as its own complete stream, rather than sharing
// a compressor across the life of the connection, costs some ratio on
// small messages but means the read side never has to keep per-connection
// decompressor state in step with the writer — a dropped or reordered
// frame can never desynchronize the dictionary.
func (t *Transport) SendMessage(dest peer.ID, write func(w io.Writer) error) {
	cs, err := t.dial(dest)
	if err != nil {
		t.logger.Debugf("nettransport: dropping message to %s: %v", dest, err)
		return
	}

	var plain bytes.Buffer
	if err := write(&plain); err != nil {
		t.logger.Debugf("nettransport: write callback failed for peer %s: %v", dest, err)
		return
	}

	var compressed bytes.Buffer
	cw, err := t.compression.wrapWriter(&compressed)
	if err != nil {
		t.logger.Errorf("nettransport: %v", err)
		return
	}
	if _, err := cw.Write(plain.Bytes()); err != nil {
		t.logger.Debugf("nettransport: compression failed for peer %s: %v", dest, err)
		return
	}
	if err := cw.Close(); err != nil {
		t.logger.Debugf("nettransport: compression flush failed for peer %s: %v", dest, err)
		return
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err := writeLengthPrefixed(cs.conn, compressed.Bytes()); err != nil {
		t.logger.Debugf("nettransport: write to peer %s failed, dropping connection: %v", dest, err)
		t.dropConn(dest, cs)
	}
}

func (t *Transport) dropConn(dest peer.ID, cs *connState) {
	t.mu.Lock()
	if t.conns[dest] == cs {
		delete(t.conns, dest)
	}
	t.mu.Unlock()
	t.setConnectivity(dest, false)
	_ = cs.conn.Close()
}

// readLoop runs for the lifetime of one connection: read one length-
// prefixed compressed unit, decompress it back into a complete mailbox
// wire frame, and hand it to the registered handler, which parses the
// frame header itself. It stops, and the connection is dropped from the
// cache, on the first read error.
func (t *Transport) readLoop(remote peer.ID, cs *connState) {
	defer t.dropConn(remote, cs)
	for {
		compressed, err := readLengthPrefixed(cs.conn)
		if err != nil {
			return
		}
		plain, err := t.decompress(compressed)
		if err != nil {
			t.logger.Debugf("nettransport: decompression failed from %s: %v", remote, err)
			continue
		}

		t.mu.Lock()
		handler := t.handler
		t.mu.Unlock()
		if handler != nil {
			handler(remote, bytes.NewReader(plain))
		}
	}
}

func (t *Transport) decompress(compressed []byte) ([]byte, error) {
	cr, err := t.compression.wrapReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(cr)
}

// writeLengthPrefixed writes a uint64 big-endian length followed by data.
// This is the transport's own framing, distinct from (and wrapping) the
// mailbox wire frame produced by the caller's write callback: it exists so
// the byte stream stays delimited around an opaque, possibly-compressed
// blob.
func writeLengthPrefixed(w io.Writer, data []byte) error {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func readLengthPrefixed(r io.Reader) ([]byte, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint64(lenBuf[:])
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
