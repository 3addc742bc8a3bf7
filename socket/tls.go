/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package socket

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"os"
	"time"

	liberr "github.com/bjornaugestad/highlander-go/errors"
)

// TLSConfig is the endpoint's TLS material: a certificate chain path,
// a private key path, an optional CA directory for client-cert
// verification, and a list of cipher suite names.
type TLSConfig struct {
	CertFile   string
	KeyFile    string
	CADir      string
	CipherList []string
	MinVersion uint16
}

func (c *TLSConfig) build() (*tls.Config, liberr.Error) {
	if c == nil {
		return nil, liberr.New(ErrorTLSConfig, "nil TLS config")
	}

	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, liberr.New(ErrorTLSConfig, "cannot load certificate/key pair", err)
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   c.MinVersion,
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}

	if len(c.CipherList) > 0 {
		ids, e := ResolveCipherSuites(c.CipherList)
		if e != nil {
			return nil, e
		}
		cfg.CipherSuites = ids
	}

	if c.CADir != "" {
		pool, e := loadCAPool(c.CADir)
		if e != nil {
			return nil, e
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return cfg, nil
}

func loadCAPool(dir string) (*x509.CertPool, liberr.Error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, liberr.New(ErrorTLSConfig, "cannot read CA directory", err)
	}

	pool := x509.NewCertPool()
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		data, err := os.ReadFile(dir + string(os.PathSeparator) + ent.Name())
		if err != nil {
			return nil, liberr.New(ErrorTLSConfig, "cannot read CA file", err)
		}
		pool.AppendCertsFromPEM(data)
	}

	return pool, nil
}

type tlsSocket struct {
	ln   net.Listener
	conn net.Conn
	ep   Endpoint
}

// ListenTLS creates and binds a TLS listening socket per ep, which
// must carry a non-nil TLS config.
func ListenTLS(ep Endpoint) (Socket, liberr.Error) {
	cfg, err := ep.TLS.build()
	if err != nil {
		return nil, err
	}

	ln, lerr := tls.Listen("tcp", ep.Addr(), cfg)
	if lerr != nil {
		return nil, liberr.New(ErrorListen, "tls listen failed", lerr)
	}

	return &tlsSocket{ln: ln, ep: ep}, nil
}

func (s *tlsSocket) Accept() (Socket, Outcome, error) {
	if s.ln == nil {
		return nil, Failure, errClosed
	}

	conn, err := s.ln.Accept()
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, Failure, err
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, Timeout, err
		}
		return nil, Failure, err
	}

	tc, ok := conn.(*tls.Conn)
	if !ok {
		return nil, Failure, errors.New("socket: accepted connection is not TLS")
	}

	// Folding the handshake into accept, per the socket layer's
	// contract: a handshake failure is Failure, never a connected
	// socket the caller has to discover is broken later.
	if s.ep.Timeout > 0 {
		_ = tc.SetDeadline(time.Now().Add(s.ep.Timeout))
	}
	if err := tc.Handshake(); err != nil {
		_ = tc.Close()
		return nil, Failure, liberr.New(ErrorTLSHandshake, "tls handshake failed", err)
	}
	_ = tc.SetDeadline(time.Time{})

	return &tlsSocket{conn: tc, ep: s.ep}, Success, nil
}

func (s *tlsSocket) Read(buf []byte) (int, Outcome, error)  { return readWithRetry(s.conn, buf, s.ep) }
func (s *tlsSocket) Write(buf []byte) (int, Outcome, error) { return writeWithRetry(s.conn, buf, s.ep) }

func (s *tlsSocket) PollReadable(timeout time.Duration) (bool, error) {
	return pollReadable(s.conn, timeout)
}

func (s *tlsSocket) PollWritable(timeout time.Duration) (bool, error) {
	return pollWritable(s.conn, timeout)
}

func (s *tlsSocket) SetNonBlocking(nonBlocking bool) error { return nil }

func (s *tlsSocket) LocalAddr() net.Addr {
	if s.conn != nil {
		return s.conn.LocalAddr()
	}
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

func (s *tlsSocket) RemoteAddr() net.Addr {
	if s.conn != nil {
		return s.conn.RemoteAddr()
	}
	return nil
}

func (s *tlsSocket) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}
