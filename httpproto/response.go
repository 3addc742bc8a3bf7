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

package httpproto

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bjornaugestad/highlander-go/conn"
	liberr "github.com/bjornaugestad/highlander-go/errors"
)

var statusText = map[int]string{
	200: "OK",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found",
	304: "Not Modified",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	413: "Payload Too Large",
	414: "URI Too Long",
	500: "Internal Server Error",
	501: "Not Implemented",
	503: "Service Unavailable",
}

// StatusText returns the reason phrase for code, or "Unknown" if none
// is registered.
func StatusText(code int) string {
	if t, ok := statusText[code]; ok {
		return t
	}
	return "Unknown"
}

// Response accumulates a status, headers, cookies and body, all in
// append mode, until Send emits it. After Send the Response is
// read-only; further mutation attempts return ErrorResponseAlreadySent.
type Response struct {
	status  int
	header  *Header
	cookies []Cookie

	body       []byte
	bodyReader io.Reader
	bodyLen    int // -1 when unknown (streaming reader, length not given)

	sent bool
}

// NewResponse returns a Response defaulted to status 200.
func NewResponse() *Response {
	return &Response{status: 200, header: newHeader(), bodyLen: -1}
}

func (r *Response) SetStatus(code int) liberr.Error {
	if r.sent {
		return liberr.New(ErrorResponseAlreadySent, "SetStatus after Send")
	}
	r.status = code
	return nil
}

func (r *Response) Status() int { return r.status }

func (r *Response) SetHeader(name, value string) liberr.Error {
	if r.sent {
		return liberr.New(ErrorResponseAlreadySent, "SetHeader after Send")
	}
	r.header.Set(name, value)
	return nil
}

func (r *Response) AddCookie(c Cookie) liberr.Error {
	if r.sent {
		return liberr.New(ErrorResponseAlreadySent, "AddCookie after Send")
	}
	r.cookies = append(r.cookies, c)
	return nil
}

// Add appends raw bytes to the body.
func (r *Response) Add(b []byte) liberr.Error {
	if r.sent {
		return liberr.New(ErrorResponseAlreadySent, "Add after Send")
	}
	r.body = append(r.body, b...)
	return nil
}

// SetStream installs a streaming body producer, such as a file cache
// entry's reader, in place of the in-memory byte buffer. length of -1
// means unknown, which selects chunked transfer encoding.
func (r *Response) SetStream(body io.Reader, length int) liberr.Error {
	if r.sent {
		return liberr.New(ErrorResponseAlreadySent, "SetStream after Send")
	}
	r.bodyReader = body
	r.bodyLen = length
	return nil
}

func (r *Response) Len() int {
	if r.bodyReader != nil {
		return r.bodyLen
	}
	return len(r.body)
}

// Send writes the status line, headers, cookies, a blank line and the
// body to c, then marks the Response read-only. server and now let
// the caller supply the Server/Date values so the façade controls
// process-wide naming and clock access.
func (r *Response) Send(c *conn.Conn, proto string, server string, now time.Time) liberr.Error {
	if r.sent {
		return liberr.New(ErrorResponseAlreadySent, "Send called twice")
	}
	r.sent = true

	if _, err := c.Write([]byte(fmt.Sprintf("%s %d %s\r\n", proto, r.status, StatusText(r.status)))); err != nil {
		return err
	}

	if _, found := r.header.Get("Server"); !found && server != "" {
		r.header.Set("Server", server)
	}
	r.header.Set("Date", now.UTC().Format(time.RFC1123))

	chunked := r.bodyReader != nil && r.bodyLen < 0
	if chunked {
		r.header.Set("Transfer-Encoding", "chunked")
	} else if _, found := r.header.Get("Content-Length"); !found {
		r.header.Set("Content-Length", strconv.Itoa(r.Len()))
	}

	for _, name := range r.header.Names() {
		v, _ := r.header.Get(name)
		if _, err := c.Write([]byte(name + ": " + v + "\r\n")); err != nil {
			return err
		}
	}
	for _, ck := range r.cookies {
		if _, err := c.Write([]byte("Set-Cookie: " + ck.Format() + "\r\n")); err != nil {
			return err
		}
	}
	if _, err := c.Write([]byte("\r\n")); err != nil {
		return err
	}

	if chunked {
		return writeChunked(c, r.bodyReader)
	}
	if r.bodyReader != nil {
		return copyBody(c, r.bodyReader)
	}
	if len(r.body) > 0 {
		_, err := c.Write(r.body)
		return err
	}
	return nil
}

func copyBody(c *conn.Conn, body io.Reader) liberr.Error {
	buf := make([]byte, 32*1024)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, err := c.Write(buf[:n]); err != nil {
				return err
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return liberr.Make(rerr)
		}
	}
}

func writeChunked(c *conn.Conn, body io.Reader) liberr.Error {
	buf := make([]byte, 32*1024)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, err := c.Write([]byte(fmt.Sprintf("%x\r\n", n))); err != nil {
				return err
			}
			if _, err := c.Write(buf[:n]); err != nil {
				return err
			}
			if _, err := c.Write([]byte("\r\n")); err != nil {
				return err
			}
		}
		if rerr == io.EOF {
			_, err := c.Write([]byte("0\r\n\r\n"))
			return err
		}
		if rerr != nil {
			return liberr.Make(rerr)
		}
	}
}
