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

// Package nettransport is a TCP realization of transport.Transport
// (SPEC_FULL §4.7.2). Peers are resolved from a fixed, operator-supplied
// directory rather than any dynamic discovery mechanism: this substrate
// has no concept of elastic cluster membership (§4.7.3).
package nettransport

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/coriolis-labs/meshbox/errors"
	"github.com/coriolis-labs/meshbox/peer"
)

// StaticPeers is a fixed peer id → host:port directory. It is validated
// once at construction; adding a peer at runtime requires building a new
// StaticPeers, matching the Non-goal carryover that dynamic peer discovery
// is out of scope (see DESIGN.md's dropped-dependency notes on the
// Consul/etcd/Kubernetes/mDNS discovery backends).
type StaticPeers struct {
	addrs map[peer.ID]string
}

// NewStaticPeers validates addrs and returns a StaticPeers directory.
// Each address must be a syntactically valid host:port; the host may not
// be empty and the port must be in [0, 65535].
func NewStaticPeers(addrs map[peer.ID]string) (*StaticPeers, error) {
	validated := make(map[peer.ID]string, len(addrs))
	for id, addr := range addrs {
		if err := validateTCPAddress(addr); err != nil {
			return nil, fmt.Errorf("nettransport: peer %s: %w", id, err)
		}
		validated[id] = addr
	}
	return &StaticPeers{addrs: validated}, nil
}

// Resolve returns the host:port for id, or false if id is not in the directory.
func (p *StaticPeers) Resolve(id peer.ID) (string, bool) {
	addr, ok := p.addrs[id]
	return addr, ok
}

func validateTCPAddress(addr string) error {
	host, port, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return fmt.Errorf("%w: %q: %w", errors.ErrInvalidPeerAddress, addr, err)
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", errors.ErrInvalidPeerAddress, addr, err)
	}
	if host == "" || portNum < 0 || portNum > 65535 {
		return fmt.Errorf("%w: %q: bad host or port range", errors.ErrInvalidPeerAddress, addr)
	}
	return nil
}
