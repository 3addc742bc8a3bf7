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

package httpserver

import (
	"fmt"
	"time"

	"github.com/bjornaugestad/highlander-go/conn"
	"github.com/bjornaugestad/highlander-go/httpproto"
)

// serviceConnection is installed on the underlying tcpserver.Server
// as its ServiceFunc. It runs the keep-alive loop of spec.md §4.10:
// service at most MaxKeepAliveRequests requests, or until no request
// arrives within KeepAliveTimeout, then close.
func (s *Server) serviceConnection(c *conn.Conn) {
	log := s.cfg.Log()

	for requests := 0; ; requests++ {
		if s.cfg.MaxKeepAliveRequests > 0 && requests >= s.cfg.MaxKeepAliveRequests {
			return
		}

		if requests > 0 {
			ok, err := c.Socket().PollReadable(s.cfg.KeepAliveTimeout)
			if err != nil || !ok {
				return
			}
		}

		req, perr := httpproto.ParseRequest(c, s.cfg.Limits)
		if perr != nil {
			status, ok := httpproto.StatusFor(perr)
			if !ok {
				return
			}
			s.sendError(c, status)
			return
		}

		resp := httpproto.NewResponse()
		s.registry.Dispatch(req, resp)

		keepAlive := req.KeepAlive()
		if !keepAlive {
			_ = resp.SetHeader("Connection", "close")
		}

		proto := fmt.Sprintf("HTTP/%d.%d", req.ProtoMajor, req.ProtoMinor)
		if err := resp.Send(c, proto, s.cfg.ServerName, time.Now()); err != nil {
			log.Debugf("httpserver: send failed: %v", err)
			return
		}
		if err := c.Flush(); err != nil {
			return
		}
		if !keepAlive {
			return
		}
		c.Recycle()
	}
}

func (s *Server) sendError(c *conn.Conn, status int) {
	resp := httpproto.NewResponse()
	_ = resp.SetStatus(status)
	_ = resp.Add(httpproto.MinimalBody(status))
	_ = resp.SetHeader("Connection", "close")
	if err := resp.Send(c, "HTTP/1.1", s.cfg.ServerName, time.Now()); err != nil {
		return
	}
	_ = c.Flush()
}
