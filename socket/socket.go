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

// Package socket abstracts plain TCP and TLS listening/connected
// sockets behind one interface. Every I/O operation returns a
// three-valued outcome (success, timeout, failure) instead of relying
// on the caller to classify a Go error, because a timeout is an
// expected, retryable condition at this layer while a failure is not.
package socket

import (
	"net"
	"strconv"
	"time"
)

// Outcome classifies the result of a socket I/O operation.
type Outcome int

const (
	Success Outcome = iota
	Timeout
	Failure
)

// Endpoint describes a listening address and its retry/timeout policy.
// TLS is nil for a plain TCP endpoint.
type Endpoint struct {
	Host string
	Port int

	Backlog    int
	Timeout    time.Duration
	RetryCount int

	TLS *TLSConfig
}

// Addr formats the endpoint as a host:port dial/listen string.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Socket is one connected, accepted, or listening endpoint. Accept is
// valid only on a listening socket; Read/Write only on a connected one.
type Socket interface {
	// Accept blocks for a new inbound connection. A handshake failure
	// on a TLS socket is reported as Failure, not Success with an
	// error attached.
	Accept() (Socket, Outcome, error)

	// Read fills buf, retrying transient failures up to the
	// endpoint's configured retry count before giving up with Timeout.
	Read(buf []byte) (n int, outcome Outcome, err error)

	// Write sends buf in full or returns a non-Success outcome.
	Write(buf []byte) (n int, outcome Outcome, err error)

	// PollReadable reports whether the socket has data to read within
	// timeout.
	PollReadable(timeout time.Duration) (bool, error)

	// PollWritable reports whether the socket can accept a write
	// within timeout.
	PollWritable(timeout time.Duration) (bool, error)

	// SetNonBlocking toggles non-blocking mode for the underlying fd.
	SetNonBlocking(nonBlocking bool) error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr

	Close() error
}
