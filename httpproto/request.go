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

// Package httpproto implements the HTTP/1.x wire grammar: reading one
// request off a conn.Conn, and writing one response onto it. It has
// no notion of routing; page supplies that on top.
package httpproto

import (
	"strconv"
	"strings"
	"time"

	"github.com/bjornaugestad/highlander-go/conn"
	liberr "github.com/bjornaugestad/highlander-go/errors"
)

// Limits bounds the resources one request parse may consume.
type Limits struct {
	MaxRequestLine int
	MaxHeaderLine  int
	MaxHeaders     int
	PostLimit      int
	ProbeTimeout   time.Duration
}

// DefaultLimits are permissive enough for interactive testing and
// small sample servers.
var DefaultLimits = Limits{
	MaxRequestLine: 8 * 1024,
	MaxHeaderLine:  8 * 1024,
	MaxHeaders:     100,
	PostLimit:      1 << 20,
	ProbeTimeout:   50 * time.Millisecond,
}

// Request is one parsed HTTP request.
type Request struct {
	Method     Method
	URI        string
	Path       string
	RawQuery   string
	ProtoMajor int
	ProtoMinor int

	Header *Header
	params map[string][]string
	Cookie []Cookie

	Body []byte
}

// KeepAlive reports whether the request's protocol version and
// Connection header permit reusing the connection for another
// request: HTTP/1.1 defaults to keep-alive unless "close" is present;
// HTTP/1.0 requires an explicit "keep-alive".
func (r *Request) KeepAlive() bool {
	v, _ := r.Header.Get("Connection")
	v = strings.ToLower(v)

	if r.ProtoMajor == 1 && r.ProtoMinor >= 1 {
		return v != "close"
	}
	return v == "keep-alive"
}

// GetParameter returns the first value for name across the merged
// query string and (for urlencoded bodies) form fields.
func (r *Request) GetParameter(name string) (string, bool) {
	v := r.params[name]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// GetAllParameters returns every value for name, in encounter order.
func (r *Request) GetAllParameters(name string) []string {
	return r.params[name]
}

// ParseRequest reads one request from c. On a protocol error the
// returned Request is nil and the error's code maps to an HTTP status
// via StatusFor; ErrorConnectionLost means the peer is gone and no
// response should be attempted.
func ParseRequest(c *conn.Conn, limits Limits) (*Request, liberr.Error) {
	line, err := c.Gets(limits.MaxRequestLine)
	if err != nil {
		if err.IsCode(conn.ErrorLineTooLong) {
			return nil, liberr.New(ErrorURITooLong, "request line exceeds limit", err)
		}
		return nil, classifyReadErr(err)
	}

	method, uri, major, minor, perr := parseRequestLine(line)
	if perr != nil {
		return nil, perr
	}

	req := &Request{
		Method:     method,
		URI:        uri,
		ProtoMajor: major,
		ProtoMinor: minor,
		Header:     newHeader(),
	}
	req.Path, req.RawQuery = splitURI(uri)

	if req.Method == MethodUnknown {
		return nil, liberr.New(ErrorUnknownMethod, "unrecognized method")
	}

	if err := parseHeaders(c, req.Header, limits); err != nil {
		return nil, err
	}

	req.Cookie = parseCookieHeader(req.Header)

	params := parseQueryString(req.RawQuery)

	if req.Method.HasBody() {
		body, berr := readBody(c, req.Header, limits)
		if berr != nil {
			return nil, berr
		}
		req.Body = body

		if ct, _ := req.Header.Get("Content-Type"); strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			mergeParams(params, parseQueryString(string(body)))
		}
	}

	req.params = params
	return req, nil
}

func classifyReadErr(err liberr.Error) liberr.Error {
	return liberr.New(ErrorConnectionLost, "reading request line", err)
}

func parseRequestLine(line string) (Method, string, int, int, liberr.Error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return MethodUnknown, "", 0, 0, liberr.New(ErrorMalformedRequestLine, "expected METHOD URI HTTP/x.y")
	}

	method := parseMethod(parts[0])

	proto := parts[2]
	if !strings.HasPrefix(proto, "HTTP/") {
		return MethodUnknown, "", 0, 0, liberr.New(ErrorMalformedRequestLine, "missing HTTP version")
	}
	ver := strings.SplitN(strings.TrimPrefix(proto, "HTTP/"), ".", 2)
	if len(ver) != 2 {
		return MethodUnknown, "", 0, 0, liberr.New(ErrorMalformedRequestLine, "malformed HTTP version")
	}
	major, e1 := strconv.Atoi(ver[0])
	minor, e2 := strconv.Atoi(ver[1])
	if e1 != nil || e2 != nil {
		return MethodUnknown, "", 0, 0, liberr.New(ErrorMalformedRequestLine, "non-numeric HTTP version")
	}

	return method, parts[1], major, minor, nil
}

func splitURI(uri string) (path, query string) {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i], uri[i+1:]
	}
	return uri, ""
}

// parseHeaders reads header lines until a blank line. After each
// line it probes one byte ahead: if that byte is a space or tab, the
// next line is a continuation of the current value; the probe uses
// PollReadable with the configured timeout so a client that never
// sends a continuation does not block the worker indefinitely.
func parseHeaders(c *conn.Conn, h *Header, limits Limits) liberr.Error {
	count := 0
	for {
		line, err := c.Gets(limits.MaxHeaderLine)
		if err != nil {
			if err.IsCode(conn.ErrorLineTooLong) {
				return liberr.New(ErrorMalformedHeader, "header line exceeds limit", err)
			}
			return classifyReadErr(err)
		}
		if line == "" {
			return nil
		}

		count++
		if count > limits.MaxHeaders {
			return liberr.New(ErrorMalformedHeader, "too many header fields")
		}

		name, value, ok := splitHeaderLine(line)
		if !ok {
			return liberr.New(ErrorMalformedHeader, "missing colon in header field")
		}

		for probeContinuation(c, limits.ProbeTimeout) {
			cont, err := c.Gets(limits.MaxHeaderLine)
			if err != nil {
				return classifyReadErr(err)
			}
			value = value + " " + strings.TrimSpace(cont)
		}

		if !h.add(name, value) {
			return liberr.New(ErrorDuplicateHeader, "duplicate header: "+name)
		}
	}
}

func splitHeaderLine(line string) (name, value string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", "", false
	}
	return line[:i], strings.TrimSpace(line[i+1:]), true
}

// probeContinuation reads the next byte and reports whether it starts
// a continuation line; a space or tab is consumed, any other byte is
// pushed back with Ungetc. A poll timeout is treated as "no
// continuation", not an error.
func probeContinuation(c *conn.Conn, timeout time.Duration) bool {
	ok, _ := c.Socket().PollReadable(timeout)
	if !ok {
		return false
	}
	b, err := c.Getc()
	if err != nil {
		return false
	}
	if b == ' ' || b == '\t' {
		return true
	}
	c.Ungetc(b)
	return false
}

func readBody(c *conn.Conn, h *Header, limits Limits) ([]byte, liberr.Error) {
	if te, _ := h.Get("Transfer-Encoding"); strings.EqualFold(te, "chunked") {
		return readChunkedBody(c, limits)
	}

	cl, found := h.Get("Content-Length")
	if !found {
		return nil, nil
	}

	n, err := strconv.Atoi(cl)
	if err != nil || n < 0 {
		return nil, liberr.New(ErrorMalformedHeader, "invalid Content-Length")
	}
	if n > limits.PostLimit {
		_ = c.Discard(limits.PostLimit)
		return nil, liberr.New(ErrorPayloadTooLarge, "body exceeds post_limit")
	}

	body, rerr := c.Read(n)
	if rerr != nil {
		return nil, classifyReadErr(rerr)
	}
	return body, nil
}

func readChunkedBody(c *conn.Conn, limits Limits) ([]byte, liberr.Error) {
	var body []byte

	for {
		line, err := c.Gets(limits.MaxHeaderLine)
		if err != nil {
			return nil, classifyReadErr(err)
		}
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		size, perr := strconv.ParseInt(strings.TrimSpace(line), 16, 64)
		if perr != nil || size < 0 {
			return nil, liberr.New(ErrorBadChunkedBody, "invalid chunk size")
		}
		if size == 0 {
			// discard any trailer fields up to the blank line ending the body
			for {
				tl, err := c.Gets(limits.MaxHeaderLine)
				if err != nil {
					return nil, classifyReadErr(err)
				}
				if tl == "" {
					return body, nil
				}
			}
		}

		if len(body)+int(size) > limits.PostLimit {
			return nil, liberr.New(ErrorPayloadTooLarge, "chunked body exceeds post_limit")
		}

		chunk, rerr := c.Read(int(size))
		if rerr != nil {
			return nil, classifyReadErr(rerr)
		}
		body = append(body, chunk...)

		if _, err := c.Gets(2); err != nil {
			return nil, classifyReadErr(err)
		}
	}
}

// StatusFor maps a protocol-level parse error to the HTTP status the
// façade should send. ok is false for ErrorConnectionLost, which
// means the connection should simply be abandoned.
func StatusFor(err liberr.Error) (status int, ok bool) {
	if err == nil {
		return 0, false
	}
	switch err.Code() {
	case ErrorUnknownMethod:
		return 501, true
	case ErrorURITooLong:
		return 414, true
	case ErrorPayloadTooLarge:
		return 413, true
	case ErrorMalformedRequestLine, ErrorMalformedHeader, ErrorDuplicateHeader, ErrorBadChunkedBody:
		return 400, true
	default:
		return 0, false
	}
}
