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

// Package conn wraps a socket.Socket in a buffered duplex stream: a
// read buffer refilled from the socket on demand, and a write buffer
// flushed when full or on request. It adds the line-oriented,
// persistent-connection bookkeeping the HTTP layer needs on top of a
// plain socket.
package conn

import (
	"time"

	liberr "github.com/bjornaugestad/highlander-go/errors"
	"github.com/bjornaugestad/highlander-go/socket"
)

const DefaultBufferSize = 4096

// Conn is a buffered duplex stream over a single socket.Socket. It is
// not safe for concurrent use by multiple goroutines.
type Conn struct {
	sock socket.Socket

	rbuf *Buffer
	wbuf *Buffer

	hasUngot bool
	ungot    byte

	persistent bool
	timeout    time.Duration
}

// New wraps sock in a Conn with freshly allocated buffers of bufSize.
func New(sock socket.Socket, bufSize int, timeout time.Duration) *Conn {
	return &Conn{
		sock:    sock,
		rbuf:    NewBuffer(bufSize),
		wbuf:    NewBuffer(bufSize),
		timeout: timeout,
	}
}

// Persistent reports whether the HTTP layer has marked this
// connection for reuse after the current request completes.
func (c *Conn) Persistent() bool { return c.persistent }

// SetPersistent sets the reuse flag the HTTP layer consults when
// deciding whether to recycle this connection for another request.
func (c *Conn) SetPersistent(p bool) { c.persistent = p }

// Socket returns the underlying socket, for callers that need to poll
// or close it directly.
func (c *Conn) Socket() socket.Socket { return c.sock }

func (c *Conn) outcomeErr(op string, outcome socket.Outcome, err error) liberr.Error {
	switch outcome {
	case socket.Timeout:
		return liberr.New(ErrorClosed, op+" timed out", err)
	default:
		return liberr.New(ErrorClosed, op+" failed", err)
	}
}

// fill refills the read buffer from the socket. It is a no-op if the
// buffer still has unread bytes.
func (c *Conn) fill() liberr.Error {
	if c.rbuf == nil {
		return liberr.New(ErrorNoBufferAttached, "no read buffer attached")
	}
	if c.rbuf.Len() > 0 {
		return nil
	}

	c.rbuf.Reset()
	n, outcome, err := c.sock.Read(c.rbuf.data)
	if err != nil {
		return c.outcomeErr("read", outcome, err)
	}
	if n == 0 {
		return liberr.New(ErrorClosed, "connection closed by peer")
	}
	c.rbuf.end = n
	return nil
}

// Getc returns the next byte, refilling from the socket when the read
// buffer is empty. A byte pushed back with Ungetc is returned first.
func (c *Conn) Getc() (byte, liberr.Error) {
	if c.hasUngot {
		c.hasUngot = false
		return c.ungot, nil
	}

	if err := c.fill(); err != nil {
		return 0, err
	}

	b := c.rbuf.data[c.rbuf.pos]
	c.rbuf.pos++
	return b, nil
}

// Ungetc pushes a single byte back so the next Getc or Gets returns it
// again. Only one byte of pushback is supported at a time.
func (c *Conn) Ungetc(b byte) {
	c.ungot = b
	c.hasUngot = true
}

// Gets reads a CRLF-terminated line, returning it without the
// trailing CRLF. If maxLen bytes are read without finding CRLF, Gets
// returns ErrorLineTooLong with whatever was accumulated so far.
func (c *Conn) Gets(maxLen int) (string, liberr.Error) {
	line := make([]byte, 0, 128)
	var prevCR bool

	for len(line) < maxLen {
		b, err := c.Getc()
		if err != nil {
			return string(line), err
		}

		if prevCR && b == '\n' {
			return string(line[:len(line)-1]), nil
		}
		prevCR = b == '\r'
		line = append(line, b)
	}

	return string(line), liberr.New(ErrorLineTooLong, "line exceeded maximum length")
}

// Read returns up to n bytes, draining the read buffer first and
// falling back to the socket once it is exhausted.
func (c *Conn) Read(n int) ([]byte, liberr.Error) {
	out := make([]byte, 0, n)

	for len(out) < n {
		if c.hasUngot {
			out = append(out, c.ungot)
			c.hasUngot = false
			continue
		}

		if c.rbuf.Len() == 0 {
			if err := c.fill(); err != nil {
				if len(out) > 0 {
					return out, nil
				}
				return out, err
			}
		}

		want := n - len(out)
		have := c.rbuf.Len()
		if want > have {
			want = have
		}
		out = append(out, c.rbuf.data[c.rbuf.pos:c.rbuf.pos+want]...)
		c.rbuf.pos += want
	}

	return out, nil
}

// Putc appends a byte to the write buffer, flushing first if the
// buffer is full.
func (c *Conn) Putc(b byte) liberr.Error {
	if c.wbuf == nil {
		return liberr.New(ErrorNoBufferAttached, "no write buffer attached")
	}
	if c.wbuf.end >= c.wbuf.Cap() {
		if err := c.Flush(); err != nil {
			return err
		}
	}
	c.wbuf.data[c.wbuf.end] = b
	c.wbuf.end++
	return nil
}

// Puts appends a string to the write buffer.
func (c *Conn) Puts(s string) liberr.Error {
	_, err := c.Write([]byte(s))
	return err
}

// Write appends buf to the write buffer, flushing as needed. Payloads
// larger than the write buffer's capacity bypass it entirely: the
// current buffer is flushed, then buf is written straight to the
// socket, so a single oversized payload never forces the buffer to
// grow.
func (c *Conn) Write(buf []byte) (int, liberr.Error) {
	if c.wbuf == nil {
		return 0, liberr.New(ErrorNoBufferAttached, "no write buffer attached")
	}
	if len(buf) > c.wbuf.Cap() {
		if err := c.Flush(); err != nil {
			return 0, err
		}
		return c.writeDirect(buf)
	}

	written := 0
	for len(buf) > 0 {
		room := c.wbuf.Cap() - c.wbuf.end
		if room == 0 {
			if err := c.Flush(); err != nil {
				return written, err
			}
			room = c.wbuf.Cap()
		}

		n := len(buf)
		if n > room {
			n = room
		}
		copy(c.wbuf.data[c.wbuf.end:], buf[:n])
		c.wbuf.end += n
		buf = buf[n:]
		written += n
	}

	return written, nil
}

func (c *Conn) writeDirect(buf []byte) (int, liberr.Error) {
	total := 0
	for total < len(buf) {
		n, outcome, err := c.sock.Write(buf[total:])
		total += n
		if err != nil {
			return total, c.outcomeErr("write", outcome, err)
		}
	}
	return total, nil
}

// Flush writes any buffered output to the socket and clears the write
// buffer.
func (c *Conn) Flush() liberr.Error {
	if c.wbuf == nil {
		return nil
	}
	if c.wbuf.end == 0 {
		return nil
	}

	if _, err := c.writeDirect(c.wbuf.data[:c.wbuf.end]); err != nil {
		return err
	}
	c.wbuf.Reset()
	return nil
}

// Recycle clears both buffers and the pushback byte without closing
// the underlying socket, readying the Conn for a new request on a
// kept-alive connection.
func (c *Conn) Recycle() {
	if c.rbuf != nil {
		c.rbuf.Reset()
	}
	if c.wbuf != nil {
		c.wbuf.Reset()
	}
	c.hasUngot = false
}

// Discard reads and drops up to limit bytes of readable input,
// stopping early on EOF. It is used to drain a request body the
// application never read, so the connection can be safely reused.
func (c *Conn) Discard(limit int) liberr.Error {
	if c.rbuf == nil {
		return liberr.New(ErrorNoBufferAttached, "no read buffer attached")
	}
	drained := 0
	if n := c.rbuf.Len(); n > 0 {
		if n > limit {
			n = limit
		}
		c.rbuf.pos += n
		drained += n
	}

	for drained < limit {
		want := limit - drained
		if want > c.rbuf.Cap() {
			want = c.rbuf.Cap()
		}
		n, outcome, err := c.sock.Read(c.rbuf.data[:want])
		if n > 0 {
			drained += n
		}
		if err != nil {
			if outcome == socket.Failure {
				return nil
			}
			return c.outcomeErr("discard", outcome, err)
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}

// DetachBuffers releases ownership of the read and write buffers so
// they can be returned to a pool, and replaces them with nil. The
// Conn cannot be used again until AttachBuffers is called.
func (c *Conn) DetachBuffers() (read, write *Buffer) {
	read, write = c.rbuf, c.wbuf
	c.rbuf, c.wbuf = nil, nil
	return read, write
}

// AttachBuffers gives the Conn ownership of a previously detached (or
// freshly pooled) pair of buffers.
func (c *Conn) AttachBuffers(read, write *Buffer) {
	c.rbuf, c.wbuf = read, write
}

// Close flushes any pending output and closes the underlying socket.
func (c *Conn) Close() error {
	_ = c.Flush()
	return c.sock.Close()
}
