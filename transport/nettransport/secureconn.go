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
	"crypto/tls"
	"crypto/x509"
)

// MutualTLS holds the certificate material needed to authenticate both
// ends of a cluster connection to each other. Every peer in a deployment
// presents the same root CA and its own leaf certificate; nettransport
// itself has no notion of peer identity beyond the id carried in the
// handshake (see writeHandshake), so mutual TLS is what actually vouches
// for who is on each end of a socket.
type MutualTLS struct {
	rootCA *x509.CertPool
	cert   *tls.Certificate
}

// NewMutualTLS builds a MutualTLS from an already-parsed CA pool and leaf
// certificate.
func NewMutualTLS(rootCA *x509.CertPool, cert *tls.Certificate) *MutualTLS {
	return &MutualTLS{rootCA: rootCA, cert: cert}
}

// NewMutualTLSFromPEM builds a MutualTLS from PEM-encoded root CA, private
// key, and leaf certificate blocks.
func NewMutualTLSFromPEM(rootCAPEM, keyPEM, certPEM []byte) (*MutualTLS, error) {
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(rootCAPEM)
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}
	return &MutualTLS{rootCA: pool, cert: &pair}, nil
}

// ClientConfig returns the tls.Config a dialing Transport should pass to
// WithTLS.
func (m *MutualTLS) ClientConfig() *tls.Config {
	return &tls.Config{
		RootCAs:      m.rootCA,
		Certificates: []tls.Certificate{*m.cert},
		MinVersion:   tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{
			tls.CurveP521,
			tls.CurveP384,
			tls.CurveP256,
		},
	}
}

// ServerConfig returns the tls.Config a listening Transport should pass to
// WithTLS. ClientAuth is RequireAndVerifyClientCert: an unauthenticated
// peer is refused the connection outright, before it ever reaches the
// handshake in handshake.go.
func (m *MutualTLS) ServerConfig() *tls.Config {
	return &tls.Config{
		ClientCAs:    m.rootCA,
		Certificates: []tls.Certificate{*m.cert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{
			tls.CurveP521,
			tls.CurveP384,
			tls.CurveP256,
		},
	}
}
